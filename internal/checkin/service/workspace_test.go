package service

import (
	"context"
	"testing"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspaceWithCreator(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	creator := seedUser(t, st, "owner@example.com", "Owner")
	members := &MembershipService{Store: st}
	svc := &WorkspaceService{Store: st, Members: members}

	workspace, err := svc.CreateWorkspace(ctx, CreateWorkspace{
		Name:           "Acme HQ",
		CreatorID:      creator.ID,
		IncludeCreator: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, workspace.ID)

	membership, err := st.Memberships().GetMembership(ctx, creator.ID, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, membership.Role)
}

func TestCreateWorkspaceWithoutCreator(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	members := &MembershipService{Store: st}
	svc := &WorkspaceService{Store: st, Members: members}

	workspace, err := svc.CreateWorkspace(ctx, CreateWorkspace{Name: "Acme HQ"})
	require.NoError(t, err)

	count, err := st.Memberships().CountMembers(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestCreateWorkspaceRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &WorkspaceService{Store: st, Members: &MembershipService{Store: st}}

	_, err := svc.CreateWorkspace(ctx, CreateWorkspace{})
	require.ErrorIs(t, err, ErrInvalidWorkspace)
}

func TestGetWorkspaceNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &WorkspaceService{Store: st, Members: &MembershipService{Store: st}}

	_, err := svc.GetWorkspace(ctx, idx.New().String())
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestUsageSummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	members := &MembershipService{Store: st, Indexer: &fakeIndexer{}}
	svc := &WorkspaceService{Store: st, Members: members}

	_, err := members.CreateMemberInWorkspace(ctx, workspace.ID, NewMember{
		Email:    "alice@example.com",
		Password: "pw-long-enough",
	})
	require.NoError(t, err)

	seedVenue(t, st, workspace.ID, "Main Hall", true)
	seedVenue(t, st, workspace.ID, "Annex", false)

	invites := &InvitationService{Store: st, Mailer: &fakeMailer{}}
	_, err = invites.SaveInvitationToken(ctx, workspace.ID, "carol@example.com", domain.RoleMember, "Bob")
	require.NoError(t, err)

	usage, err := svc.UsageSummary(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, Usage{Members: 1, Venues: 2, PendingInvitations: 1}, usage)
}

func TestUsageSummaryUnknownWorkspace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &WorkspaceService{Store: st, Members: &MembershipService{Store: st}}

	_, err := svc.UsageSummary(ctx, idx.New().String())
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}
