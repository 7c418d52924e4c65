package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/integration"
	"github.com/checkinhq/checkin/internal/checkin/search"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/cryptox"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

var ErrInvalidMember = errors.New("invalid member request")

type MembershipService struct {
	Store   store.Store
	Indexer search.Indexer

	// Hooks is optional; when set, members newly attached to a workspace
	// are announced to registered integrations.
	Hooks *integration.Registry
}

// NewMember describes a member to reconcile into a workspace.
type NewMember struct {
	Email    string
	Name     string
	Password string
}

// MemberResult reports what CreateMemberInWorkspace did.
type MemberResult struct {
	IsNew            bool `json:"isNew"`
	AddedToWorkspace bool `json:"addedToWorkspace"`
}

// CreateMemberInWorkspace reconciles a member into a workspace. Exactly two
// existence checks (user by email, membership by user+workspace) select one
// of three disjoint outcomes:
//
//   - no user: create user and member-role membership in one transaction
//   - user already a member: no-op
//   - user not yet a member: create the membership and refresh the user's
//     search-index entry
func (s *MembershipService) CreateMemberInWorkspace(
	ctx context.Context,
	workspaceID string,
	member NewMember,
) (MemberResult, error) {
	log := slogx.FromContext(ctx)

	if workspaceID == "" || member.Email == "" {
		return MemberResult{}, ErrInvalidMember
	}

	if _, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MemberResult{}, ErrWorkspaceNotFound
		}
		return MemberResult{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, member.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up user by email", slog.Any("error", err))
		return MemberResult{}, err
	}

	// Case A: no user yet. Create user and membership together.
	if errors.Is(err, store.ErrNotFound) {
		passwordHash, err := cryptox.HashPassword(member.Password)
		if err != nil {
			log.Error("failed to hash password", slog.Any("error", err))
			return MemberResult{}, err
		}

		newUser := domain.User{
			ID:           idx.New().String(),
			Email:        member.Email,
			Name:         member.Name,
			PasswordHash: passwordHash,
			Active:       true,
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, newUser); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			return tx.Memberships().CreateMembership(ctx, domain.Membership{
				ID:          idx.New().String(),
				UserID:      newUser.ID,
				WorkspaceID: workspaceID,
				Role:        domain.RoleMember,
			})
		})
		if err != nil {
			log.Error("failed to create user with membership", slog.Any("error", err))
			return MemberResult{}, err
		}

		log.Info("member created in workspace",
			slog.String("user_id", newUser.ID),
			slog.String("workspace_id", workspaceID),
		)
		s.announce(ctx, workspaceID, member.Email)
		return MemberResult{IsNew: true, AddedToWorkspace: true}, nil
	}

	// Case B: user exists and is already a member.
	_, err = s.Store.Memberships().GetMembership(ctx, user.ID, workspaceID)
	if err == nil {
		return MemberResult{IsNew: false, AddedToWorkspace: false}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up membership", slog.Any("error", err))
		return MemberResult{}, err
	}

	// Case C: user exists but is not yet a member.
	err = s.Store.Memberships().CreateMembership(ctx, domain.Membership{
		ID:          idx.New().String(),
		UserID:      user.ID,
		WorkspaceID: workspaceID,
		Role:        domain.RoleMember,
	})
	if err != nil {
		log.Error("failed to create membership", slog.Any("error", err))
		return MemberResult{}, err
	}

	// The membership is committed; index refresh failures surface without
	// undoing it.
	if s.Indexer != nil {
		if err := s.Indexer.RefreshUser(ctx, user.ID); err != nil {
			log.Error("failed to refresh search index",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
			return MemberResult{}, fmt.Errorf("refresh search index: %w", err)
		}
	}

	log.Info("existing user added to workspace",
		slog.String("user_id", user.ID),
		slog.String("workspace_id", workspaceID),
	)
	s.announce(ctx, workspaceID, member.Email)
	return MemberResult{IsNew: false, AddedToWorkspace: true}, nil
}

// announce notifies integrations of a freshly attached member. Hook
// failures are isolated and logged inside Dispatch; they never fail the
// membership operation itself.
func (s *MembershipService) announce(ctx context.Context, workspaceID, email string) {
	if s.Hooks == nil {
		return
	}
	_ = s.Hooks.Dispatch(ctx, workspaceID,
		[]integration.Member{{Email: email, Role: domain.RoleMember}},
		integration.EventMemberAdded,
	)
}

// ListWorkspaceMembers returns the memberships of a workspace.
func (s *MembershipService) ListWorkspaceMembers(ctx context.Context, workspaceID string) ([]domain.Membership, error) {
	if _, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return s.Store.Memberships().ListMembers(ctx, workspaceID)
}

// EnsureCreator describes the optional auto-attachment of a workspace
// creator.
type EnsureCreator struct {
	WorkspaceID    string
	CreatorID      string
	IncludeCreator bool
}

// EnsureCreatorInWorkspace attaches the workspace creator as an admin when
// requested. Idempotent: an existing membership, whatever its role, is left
// untouched.
func (s *MembershipService) EnsureCreatorInWorkspace(ctx context.Context, req EnsureCreator) error {
	if !req.IncludeCreator {
		return nil
	}

	log := slogx.FromContext(ctx)

	_, err := s.Store.Memberships().GetMembership(ctx, req.CreatorID, req.WorkspaceID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	err = s.Store.Memberships().CreateMembership(ctx, domain.Membership{
		ID:          idx.New().String(),
		UserID:      req.CreatorID,
		WorkspaceID: req.WorkspaceID,
		Role:        domain.RoleAdmin,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent attach; the membership exists,
		// which is all we wanted.
		return nil
	}
	if err != nil {
		log.Error("failed to attach creator to workspace",
			slog.String("workspace_id", req.WorkspaceID),
			slog.String("creator_id", req.CreatorID),
			slog.Any("error", err),
		)
		return err
	}

	log.Debug("creator attached to workspace as admin",
		slog.String("workspace_id", req.WorkspaceID),
		slog.String("creator_id", req.CreatorID),
	)
	return nil
}
