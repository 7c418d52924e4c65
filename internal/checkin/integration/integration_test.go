package integration

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeIntegration struct {
	key string
	err error

	mu    sync.Mutex
	calls []Member
}

func (f *fakeIntegration) Key() string { return f.key }

func (f *fakeIntegration) OnAddUser(ctx context.Context, member Member, workspaceID, eventType string) error {
	f.mu.Lock()
	f.calls = append(f.calls, member)
	f.mu.Unlock()
	return f.err
}

func (f *fakeIntegration) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRegisterRejectsDuplicateKeys(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(&fakeIntegration{key: "zapier"}))
	require.Error(t, r.Register(&fakeIntegration{key: "zapier"}))
	require.Equal(t, []string{"zapier"}, r.Keys())
}

func TestDispatchFansOutPerIntegrationAndMember(t *testing.T) {
	t.Parallel()

	a := &fakeIntegration{key: "a"}
	b := &fakeIntegration{key: "b"}

	r := NewRegistry()
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))

	members := []Member{
		{Email: "alice@example.com", Role: "member"},
		{Email: "bob@example.com", Role: "admin"},
	}
	require.NoError(t, r.Dispatch(context.Background(), "W1", members, EventMemberAdded))
	require.Equal(t, 2, a.callCount())
	require.Equal(t, 2, b.callCount())
}

func TestDispatchIsolatesFailures(t *testing.T) {
	t.Parallel()

	failing := &fakeIntegration{key: "failing", err: errors.New("boom")}
	healthy := &fakeIntegration{key: "healthy"}

	r := NewRegistry()
	require.NoError(t, r.Register(failing))
	require.NoError(t, r.Register(healthy))

	members := []Member{{Email: "alice@example.com", Role: "member"}}
	err := r.Dispatch(context.Background(), "W1", members, EventMemberAdded)

	// The failing integration's error is reported, but the healthy one
	// still received the event.
	require.Error(t, err)
	require.Contains(t, err.Error(), "failing")
	require.Equal(t, 1, healthy.callCount())
}

func TestDispatchWithNoIntegrationsIsNoop(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Dispatch(context.Background(), "W1",
		[]Member{{Email: "alice@example.com"}}, EventMemberAdded))
}

func TestZapierPostsPayload(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	z := NewZapier(srv.URL)
	err := z.OnAddUser(context.Background(),
		Member{Email: "alice@example.com", Role: "member"}, "W1", EventMemberAdded)
	require.NoError(t, err)
	require.Contains(t, string(gotBody), `"alice@example.com"`)
	require.Contains(t, string(gotBody), `"W1"`)
}

func TestZapierSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	z := NewZapier(srv.URL)
	err := z.OnAddUser(context.Background(), Member{Email: "a@b.c"}, "W1", EventMemberAdded)
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}
