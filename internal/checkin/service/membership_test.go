package service

import (
	"context"
	"testing"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/pkg/cryptox"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateMemberInWorkspaceNewUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	indexer := &fakeIndexer{}
	svc := &MembershipService{Store: st, Indexer: indexer}

	result, err := svc.CreateMemberInWorkspace(ctx, workspace.ID, NewMember{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "s3cret-enough",
	})
	require.NoError(t, err)
	require.Equal(t, MemberResult{IsNew: true, AddedToWorkspace: true}, result)

	user, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, user.Active)

	// Password is stored hashed, never plaintext.
	require.NotEqual(t, "s3cret-enough", user.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("s3cret-enough", user.PasswordHash))

	membership, err := st.Memberships().GetMembership(ctx, user.ID, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, membership.Role)

	// New-user path does not touch the search index.
	require.Empty(t, indexer.refreshed)
}

func TestCreateMemberInWorkspaceIsIdempotentPerUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	svc := &MembershipService{Store: st, Indexer: &fakeIndexer{}}

	member := NewMember{Email: "alice@example.com", Name: "Alice", Password: "s3cret-enough"}

	first, err := svc.CreateMemberInWorkspace(ctx, workspace.ID, member)
	require.NoError(t, err)
	require.Equal(t, MemberResult{IsNew: true, AddedToWorkspace: true}, first)

	second, err := svc.CreateMemberInWorkspace(ctx, workspace.ID, member)
	require.NoError(t, err)
	require.Equal(t, MemberResult{IsNew: false, AddedToWorkspace: false}, second)

	count, err := st.Memberships().CountMembers(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCreateMemberInWorkspaceAttachesExistingUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	user := seedUser(t, st, "alice@example.com", "Alice")
	indexer := &fakeIndexer{}
	svc := &MembershipService{Store: st, Indexer: indexer}

	result, err := svc.CreateMemberInWorkspace(ctx, workspace.ID, NewMember{
		Email: "alice@example.com",
		Name:  "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, MemberResult{IsNew: false, AddedToWorkspace: true}, result)

	membership, err := st.Memberships().GetMembership(ctx, user.ID, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, membership.Role)

	// Existing-user attach refreshes the user's search-index entry.
	require.Equal(t, []string{user.ID}, indexer.refreshed)

	count, err := st.Memberships().CountMembers(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCreateMemberInWorkspaceUnknownWorkspace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &MembershipService{Store: st, Indexer: &fakeIndexer{}}

	_, err := svc.CreateMemberInWorkspace(ctx, idx.New().String(), NewMember{
		Email:    "alice@example.com",
		Password: "pw",
	})
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestCreateMemberInWorkspaceSurfacesIndexerFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	user := seedUser(t, st, "alice@example.com", "Alice")
	svc := &MembershipService{Store: st, Indexer: &fakeIndexer{err: errUpstream}}

	_, err := svc.CreateMemberInWorkspace(ctx, workspace.ID, NewMember{Email: "alice@example.com"})
	require.ErrorIs(t, err, errUpstream)

	// The membership write preceded the index refresh and stays committed.
	_, err = st.Memberships().GetMembership(ctx, user.ID, workspace.ID)
	require.NoError(t, err)
}

func TestEnsureCreatorInWorkspace(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")
	creator := seedUser(t, st, "owner@example.com", "Owner")
	svc := &MembershipService{Store: st}

	t.Run("no-op unless includeCreator", func(t *testing.T) {
		require.NoError(t, svc.EnsureCreatorInWorkspace(ctx, EnsureCreator{
			WorkspaceID: workspace.ID,
			CreatorID:   creator.ID,
		}))
		count, err := st.Memberships().CountMembers(ctx, workspace.ID)
		require.NoError(t, err)
		require.Equal(t, 0, count)
	})

	t.Run("attaches creator as admin", func(t *testing.T) {
		require.NoError(t, svc.EnsureCreatorInWorkspace(ctx, EnsureCreator{
			WorkspaceID:    workspace.ID,
			CreatorID:      creator.ID,
			IncludeCreator: true,
		}))
		membership, err := st.Memberships().GetMembership(ctx, creator.ID, workspace.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, membership.Role)
	})

	t.Run("repeated calls are no-ops", func(t *testing.T) {
		require.NoError(t, svc.EnsureCreatorInWorkspace(ctx, EnsureCreator{
			WorkspaceID:    workspace.ID,
			CreatorID:      creator.ID,
			IncludeCreator: true,
		}))
		count, err := st.Memberships().CountMembers(ctx, workspace.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
