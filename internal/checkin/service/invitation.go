package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/integration"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/cryptox"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/mailx"
	"github.com/checkinhq/checkin/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("invalid role")
)

// InvitationTemplateID names the email template used for invitations.
const InvitationTemplateID = "workspace-invitation"

// DefaultInvitationTTL is how long an invitation token stays redeemable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

type InvitationService struct {
	Store  store.Store
	Mailer mailx.Mailer
	TTL    time.Duration

	// Hooks is optional; when set, successful batch invites are announced
	// to registered integrations.
	Hooks *integration.Registry
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

// SaveInvitationToken returns the invitation token for a (workspace, email)
// pair, reusing the existing token while it is unexpired. On the creation
// path it persists a fresh invitation and emails the invitee; re-invites of
// a still-valid token send nothing.
//
// An expired invitation for the pair is deleted and replaced in the same
// transaction as the new row, so the pair never carries two live tokens.
func (s *InvitationService) SaveInvitationToken(
	ctx context.Context,
	workspaceID string,
	email string,
	role string,
	senderName string,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if workspaceID == "" || email == "" || senderName == "" {
		return "", ErrInvalidInviteRequest
	}
	if !domain.ValidRole(role) {
		log.Warn("attempted to create invite with invalid role", slog.String("role", role))
		return "", ErrInvalidRole
	}

	// 2. Workspace must exist; its name goes into the email.
	workspace, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("attempted to invite into non-existent workspace",
				slog.String("workspace_id", workspaceID),
			)
			return "", ErrWorkspaceNotFound
		}
		log.Error("failed to fetch workspace", slog.Any("error", err))
		return "", err
	}

	// 3. Reuse an existing unexpired invitation unchanged.
	existing, err := s.Store.Invitations().GetInvitation(ctx, workspaceID, email)
	switch {
	case err == nil:
		if !existing.Expired(time.Now()) {
			log.Debug("reusing existing invitation token",
				slog.String("invitation_id", existing.ID),
				slog.String("workspace_id", workspaceID),
			)
			return existing.Token, nil
		}
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return "", err
	}

	// 4. Mint a fresh opaque token.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return "", err
	}

	invitation := domain.Invitation{
		ID:          idx.New().String(),
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		Token:       token,
		ExpiresAt:   time.Now().UTC().Add(s.ttl()),
	}

	// 5. Replace any expired invitation and insert the new one atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if existing.ID != "" {
			if err := tx.Invitations().DeleteInvitation(ctx, existing.ID); err != nil {
				return fmt.Errorf("delete expired invitation: %w", err)
			}
		}
		return tx.Invitations().CreateInvitation(ctx, invitation)
	})
	if err != nil {
		log.Error("failed to persist invitation",
			slog.String("workspace_id", workspaceID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("invitation created",
		slog.String("invitation_id", invitation.ID),
		slog.String("workspace_id", workspaceID),
		slog.String("role", role),
		slog.Time("expires_at", invitation.ExpiresAt),
	)

	// 6. Notify the invitee. The token is already committed; a failed send
	// surfaces to the caller without undoing the invitation.
	err = s.Mailer.SendTemplate(ctx, mailx.Template{
		ID: InvitationTemplateID,
		Props: map[string]string{
			"SenderName":    senderName,
			"WorkspaceName": workspace.Name,
			"Token":         token,
			"Role":          role,
		},
	}, mailx.Options{
		To:      email,
		Subject: fmt.Sprintf("%s invited you to join %s", senderName, workspace.Name),
	})
	if err != nil {
		log.Error("failed to send invitation email",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("send invitation email: %w", err)
	}

	return token, nil
}

// InviteMember is the request for a single workspace invitation.
type InviteMember struct {
	WorkspaceID string
	Email       string
	Role        string
	SenderName  string
}

// InviteMemberToWorkspace invites one member, returning the invitation
// token. The workspace must exist.
func (s *InvitationService) InviteMemberToWorkspace(ctx context.Context, req InviteMember) (string, error) {
	return s.SaveInvitationToken(ctx, req.WorkspaceID, req.Email, req.Role, req.SenderName)
}

// Invitee is one entry of a batch invitation.
type Invitee struct {
	Email string
	Role  string
}

// InviteMembers is the request for a batch invitation.
type InviteMembers struct {
	WorkspaceID string
	Members     []Invitee
	SenderName  string
}

// InviteMultipleMembersToWorkspace fans out one independent save-and-notify
// per member, concurrently. There is no ordering guarantee between emails
// and no rollback across the batch: tokens already issued stay issued even
// when a later member fails. All sends settle before the first error is
// returned.
func (s *InvitationService) InviteMultipleMembersToWorkspace(ctx context.Context, req InviteMembers) error {
	if len(req.Members) == 0 {
		return nil
	}

	// Check the workspace once up front so a bad id fails before any email
	// goes out.
	if _, err := s.Store.Workspaces().GetWorkspaceByID(ctx, req.WorkspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}

	var g errgroup.Group
	for _, member := range req.Members {
		g.Go(func() error {
			_, err := s.SaveInvitationToken(ctx, req.WorkspaceID, member.Email, member.Role, req.SenderName)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if s.Hooks != nil {
		members := make([]integration.Member, 0, len(req.Members))
		for _, m := range req.Members {
			members = append(members, integration.Member{Email: m.Email, Role: m.Role})
		}
		// Hook failures are isolated and logged inside Dispatch; they do
		// not fail the batch.
		_ = s.Hooks.Dispatch(ctx, req.WorkspaceID, members, integration.EventMemberInvited)
	}

	return nil
}
