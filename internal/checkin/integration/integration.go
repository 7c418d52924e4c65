// Package integration fans membership events out to third-party systems.
// Integrations register under a unique key; adding a new one means
// implementing Integration and registering it at process start, nothing
// else changes.
package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/checkinhq/checkin/pkg/slogx"
)

// Event types delivered to integrations.
const (
	EventMemberAdded   = "member.added"
	EventMemberInvited = "member.invited"
)

// Member is the event payload for a single workspace member.
type Member struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Integration is the capability a third-party hook implements.
type Integration interface {
	// Key returns the unique registry key, e.g. "zapier".
	Key() string

	// OnAddUser delivers a member event. Implementations own their
	// transport; errors are reported but never block other integrations.
	OnAddUser(ctx context.Context, member Member, workspaceID, eventType string) error
}

// Registry holds the configured integrations keyed by Integration.Key.
// Populate it during startup; Dispatch may be called concurrently after
// that.
type Registry struct {
	mu           sync.RWMutex
	integrations map[string]Integration
}

func NewRegistry() *Registry {
	return &Registry{integrations: make(map[string]Integration)}
}

// Register adds an integration. Registering the same key twice is a
// programming error.
func (r *Registry) Register(i Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := i.Key()
	if _, exists := r.integrations[key]; exists {
		return fmt.Errorf("integration %q already registered", key)
	}
	r.integrations[key] = i
	return nil
}

// Keys returns the registered integration keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.integrations))
	for k := range r.integrations {
		keys = append(keys, k)
	}
	return keys
}

// Dispatch invokes every integration's add-user hook for every member,
// concurrently. Failures are isolated: one integration erroring never
// stops delivery to the others or to other members. All errors are logged
// and returned joined so the caller can observe them.
func (r *Registry) Dispatch(ctx context.Context, workspaceID string, members []Member, eventType string) error {
	r.mu.RLock()
	targets := make([]Integration, 0, len(r.integrations))
	for _, i := range r.integrations {
		targets = append(targets, i)
	}
	r.mu.RUnlock()

	if len(targets) == 0 || len(members) == 0 {
		return nil
	}

	log := slogx.FromContext(ctx)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, target := range targets {
		for _, member := range members {
			wg.Add(1)
			go func(target Integration, member Member) {
				defer wg.Done()
				if err := target.OnAddUser(ctx, member, workspaceID, eventType); err != nil {
					log.Error("integration hook failed",
						slog.String("integration", target.Key()),
						slog.String("workspace_id", workspaceID),
						slog.String("member_email", member.Email),
						slog.String("event", eventType),
						slog.Any("error", err),
					)
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", target.Key(), err))
					mu.Unlock()
				}
			}(target, member)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
