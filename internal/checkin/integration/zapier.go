package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Zapier posts member events to a configured Zapier catch-hook URL.
type Zapier struct {
	webhookURL string
	client     *resty.Client
}

func NewZapier(webhookURL string) *Zapier {
	return &Zapier{
		webhookURL: webhookURL,
		client:     resty.New().SetTimeout(10 * time.Second),
	}
}

func (z *Zapier) Key() string { return "zapier" }

type zapierPayload struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	WorkspaceID string `json:"workspace_id"`
	Event       string `json:"event"`
}

func (z *Zapier) OnAddUser(ctx context.Context, member Member, workspaceID, eventType string) error {
	resp, err := z.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(zapierPayload{
			Email:       member.Email,
			Role:        member.Role,
			WorkspaceID: workspaceID,
			Event:       eventType,
		}).
		Post(z.webhookURL)
	if err != nil {
		return fmt.Errorf("zapier webhook: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("zapier webhook returned status %d", resp.StatusCode())
	}
	return nil
}
