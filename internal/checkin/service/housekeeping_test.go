package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweepsExpiredInvitations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")

	expired := domain.Invitation{
		ID:          idx.New().String(),
		WorkspaceID: workspace.ID,
		Email:       "stale@example.com",
		Role:        domain.RoleMember,
		Token:       "stale-token",
		ExpiresAt:   shortExpiry(),
	}
	require.NoError(t, st.Invitations().CreateInvitation(ctx, expired))

	live := domain.Invitation{
		ID:          idx.New().String(),
		WorkspaceID: workspace.ID,
		Email:       "fresh@example.com",
		Role:        domain.RoleMember,
		Token:       "fresh-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, st.Invitations().CreateInvitation(ctx, live))

	svc := NewHousekeepingService(st, slog.Default(), time.Hour)
	// Start sweeps immediately; Stop waits for the sweep to finish.
	svc.Start()
	svc.Stop()

	_, err := st.Invitations().GetInvitationByToken(ctx, "stale-token")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Invitations().GetInvitationByToken(ctx, "fresh-token")
	require.NoError(t, err)
}

func TestExpiryQueriesHandleZonedTimestamps(t *testing.T) {
	// Expiry rows written with a non-UTC offset must still compare correctly
	// against the UTC bounds the SQL queries use.
	ctx := context.Background()
	st := newTestStore(t)
	workspace := seedWorkspace(t, st, "Acme HQ")

	zone := time.FixedZone("AEST", 10*60*60)
	stale := domain.Invitation{
		ID:          idx.New().String(),
		WorkspaceID: workspace.ID,
		Email:       "stale@example.com",
		Role:        domain.RoleMember,
		Token:       "stale-token",
		ExpiresAt:   time.Now().Add(-time.Hour).In(zone),
	}
	require.NoError(t, st.Invitations().CreateInvitation(ctx, stale))

	live := domain.Invitation{
		ID:          idx.New().String(),
		WorkspaceID: workspace.ID,
		Email:       "fresh@example.com",
		Role:        domain.RoleMember,
		Token:       "fresh-token",
		ExpiresAt:   time.Now().Add(time.Hour).In(zone),
	}
	require.NoError(t, st.Invitations().CreateInvitation(ctx, live))

	pending, err := st.Invitations().CountPendingInvitations(ctx, workspace.ID)
	require.NoError(t, err)
	require.Equal(t, 1, pending)

	require.NoError(t, st.Invitations().DeleteExpiredInvitations(ctx))

	_, err = st.Invitations().GetInvitationByToken(ctx, "stale-token")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Invitations().GetInvitationByToken(ctx, "fresh-token")
	require.NoError(t, err)
}
