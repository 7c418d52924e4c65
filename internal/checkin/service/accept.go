package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/cryptox"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

var ErrInvitationNotFound = errors.New("invitation not found or expired")

// AcceptInvitation is the request to redeem an invitation token.
type AcceptInvitation struct {
	Token    string
	Name     string
	Password string
}

// AcceptInvitationToWorkspace converts an invitation into a workspace
// membership with the invited role, consuming the invitation. The invitee
// may or may not already have an account; either way the invitation row is
// deleted in the same transaction as the membership write.
func (s *InvitationService) AcceptInvitationToWorkspace(
	ctx context.Context,
	req AcceptInvitation,
) (MemberResult, error) {
	log := slogx.FromContext(ctx)

	if req.Token == "" {
		return MemberResult{}, ErrInvalidInviteRequest
	}

	invitation, err := s.Store.Invitations().GetInvitationByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation acceptance attempted with unknown token")
			return MemberResult{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return MemberResult{}, err
	}
	if invitation.Expired(time.Now()) {
		log.Warn("invitation acceptance attempted with expired token",
			slog.String("invitation_id", invitation.ID),
		)
		return MemberResult{}, ErrInvitationNotFound
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, invitation.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up user by email", slog.Any("error", err))
		return MemberResult{}, err
	}
	isNew := errors.Is(err, store.ErrNotFound)

	if isNew {
		passwordHash, err := cryptox.HashPassword(req.Password)
		if err != nil {
			log.Error("failed to hash password", slog.Any("error", err))
			return MemberResult{}, err
		}
		user = domain.User{
			ID:           idx.New().String(),
			Email:        invitation.Email,
			Name:         req.Name,
			PasswordHash: passwordHash,
			Active:       true,
		}
	} else {
		// Already a member: consume the invitation, change nothing else.
		if _, err := s.Store.Memberships().GetMembership(ctx, user.ID, invitation.WorkspaceID); err == nil {
			if err := s.Store.Invitations().DeleteInvitation(ctx, invitation.ID); err != nil {
				return MemberResult{}, fmt.Errorf("delete consumed invitation: %w", err)
			}
			return MemberResult{IsNew: false, AddedToWorkspace: false}, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return MemberResult{}, err
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if isNew {
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		}
		if err := tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID:          idx.New().String(),
			UserID:      user.ID,
			WorkspaceID: invitation.WorkspaceID,
			Role:        invitation.Role,
		}); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		return tx.Invitations().DeleteInvitation(ctx, invitation.ID)
	})
	if err != nil {
		log.Error("failed to accept invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return MemberResult{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", invitation.ID),
		slog.String("workspace_id", invitation.WorkspaceID),
		slog.String("user_id", user.ID),
		slog.String("role", invitation.Role),
	)
	return MemberResult{IsNew: isNew, AddedToWorkspace: true}, nil
}
