// Package search wraps the external search-index service. The membership
// flow refreshes a user's index entry after attaching them to a workspace;
// the index itself is an opaque collaborator.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Indexer refreshes the search-index entry for a user.
type Indexer interface {
	RefreshUser(ctx context.Context, userID string) error
}

// HTTPIndexer calls the search-index service's refresh endpoint.
type HTTPIndexer struct {
	baseURL string
	client  *resty.Client
}

func NewHTTPIndexer(baseURL string) *HTTPIndexer {
	return &HTTPIndexer{
		baseURL: baseURL,
		client:  resty.New().SetTimeout(5 * time.Second),
	}
}

func (x *HTTPIndexer) RefreshUser(ctx context.Context, userID string) error {
	resp, err := x.client.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		Post(x.baseURL + "/v1/index/users/{userID}/refresh")
	if err != nil {
		return fmt.Errorf("search index refresh: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("search index refresh returned status %d", resp.StatusCode())
	}
	return nil
}

// Noop is used when no search index is configured.
type Noop struct{}

func (Noop) RefreshUser(ctx context.Context, userID string) error { return nil }
