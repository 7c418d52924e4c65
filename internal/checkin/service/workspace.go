package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidWorkspace  = errors.New("invalid workspace request")
)

type WorkspaceService struct {
	Store   store.Store
	Members *MembershipService
}

// CreateWorkspace describes a new tenant container. When IncludeCreator is
// set the creator is attached as an admin member.
type CreateWorkspace struct {
	Name           string
	CreatorID      string
	IncludeCreator bool
}

func (s *WorkspaceService) CreateWorkspace(ctx context.Context, req CreateWorkspace) (domain.Workspace, error) {
	log := slogx.FromContext(ctx)

	if req.Name == "" {
		return domain.Workspace{}, ErrInvalidWorkspace
	}

	workspace := domain.Workspace{
		ID:   idx.New().String(),
		Name: req.Name,
	}
	if err := s.Store.Workspaces().CreateWorkspace(ctx, workspace); err != nil {
		log.Error("failed to create workspace", slog.Any("error", err))
		return domain.Workspace{}, err
	}

	if err := s.Members.EnsureCreatorInWorkspace(ctx, EnsureCreator{
		WorkspaceID:    workspace.ID,
		CreatorID:      req.CreatorID,
		IncludeCreator: req.IncludeCreator,
	}); err != nil {
		// The workspace row is committed; surface the membership failure.
		return domain.Workspace{}, err
	}

	log.Info("workspace created",
		slog.String("workspace_id", workspace.ID),
		slog.String("name", workspace.Name),
		slog.Bool("include_creator", req.IncludeCreator),
	)
	return workspace, nil
}

func (s *WorkspaceService) GetWorkspace(ctx context.Context, id string) (domain.Workspace, error) {
	workspace, err := s.Store.Workspaces().GetWorkspaceByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Workspace{}, ErrWorkspaceNotFound
		}
		return domain.Workspace{}, err
	}
	return workspace, nil
}

// ListWorkspacesForUser returns the workspaces a user belongs to, newest
// first.
func (s *WorkspaceService) ListWorkspacesForUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return s.Store.Workspaces().ListWorkspacesForUser(ctx, userID)
}

// Usage summarises a workspace's footprint for the usage-metrics surface.
type Usage struct {
	Members            int `json:"members"`
	Venues             int `json:"venues"`
	PendingInvitations int `json:"pendingInvitations"`
}

func (s *WorkspaceService) UsageSummary(ctx context.Context, workspaceID string) (Usage, error) {
	if _, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Usage{}, ErrWorkspaceNotFound
		}
		return Usage{}, err
	}

	members, err := s.Store.Memberships().CountMembers(ctx, workspaceID)
	if err != nil {
		return Usage{}, err
	}
	venues, err := s.Store.Venues().CountVenues(ctx, workspaceID)
	if err != nil {
		return Usage{}, err
	}
	pending, err := s.Store.Invitations().CountPendingInvitations(ctx, workspaceID)
	if err != nil {
		return Usage{}, err
	}

	return Usage{Members: members, Venues: venues, PendingInvitations: pending}, nil
}
