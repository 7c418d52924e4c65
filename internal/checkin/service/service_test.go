package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/checkinhq/checkin/pkg/idx"
	"github.com/checkinhq/checkin/pkg/mailx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedWorkspace(t *testing.T, st store.Store, name string) domain.Workspace {
	t.Helper()

	w := domain.Workspace{ID: idx.New().String(), Name: name}
	require.NoError(t, st.Workspaces().CreateWorkspace(context.Background(), w))
	return w
}

func seedUser(t *testing.T, st store.Store, email, name string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: "hash",
		Active:       true,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedVenue(t *testing.T, st store.Store, workspaceID, name string, active bool) domain.Venue {
	t.Helper()

	v := domain.Venue{
		ID:          idx.New().String(),
		WorkspaceID: workspaceID,
		Name:        name,
		Active:      active,
	}
	require.NoError(t, st.Venues().CreateVenue(context.Background(), v))
	return v
}

// sentMail records one SendTemplate call.
type sentMail struct {
	Template mailx.Template
	Options  mailx.Options
}

// fakeMailer records sends. Safe for concurrent use: batch invitations send
// in parallel.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendTemplate(ctx context.Context, tpl mailx.Template, opts mailx.Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Template: tpl, Options: opts})
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.Options.To)
	}
	return out
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeIndexer records search-index refreshes.
type fakeIndexer struct {
	mu        sync.Mutex
	refreshed []string
	err       error
}

func (x *fakeIndexer) RefreshUser(ctx context.Context, userID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.err != nil {
		return x.err
	}
	x.refreshed = append(x.refreshed, userID)
	return nil
}

var errUpstream = errors.New("upstream failure")

// shortExpiry returns an already-past expiry in a non-UTC zone, so tests
// catch any path that persists expiry timestamps without normalizing them.
func shortExpiry() time.Time {
	return time.Now().Add(-time.Minute).In(time.FixedZone("AEST", 10*60*60))
}
