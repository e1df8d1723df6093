package websets

import (
	"context"
	"iter"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// WebhooksClient manages webhooks and their delivery attempts.
type WebhooksClient struct {
	api *exa.Client
}

type CreateWebhookRequest struct {
	Events []EventType `json:"events"`
	URL    string      `json:"url"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateWebhookRequest struct {
	Events []EventType `json:"events,omitempty"`
	URL    string      `json:"url,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

func (c *WebhooksClient) Create(ctx context.Context, req *CreateWebhookRequest) (*Webhook, error) {
	if req == nil || req.URL == "" {
		return nil, &exa.ValidationError{Param: "url", Message: "a webhook url is required"}
	}

	if len(req.Events) == 0 {
		return nil, &exa.ValidationError{Param: "events", Message: "at least one event type is required"}
	}

	var webhook Webhook

	if err := c.api.Do(ctx, http.MethodPost, joinPath("webhooks"), nil, req, &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

func (c *WebhooksClient) Get(ctx context.Context, id string) (*Webhook, error) {
	var webhook Webhook

	if err := c.api.Do(ctx, http.MethodGet, joinPath("webhooks", id), nil, nil, &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

func (c *WebhooksClient) List(ctx context.Context, cursor string, limit int) (*exa.Page[Webhook], error) {
	var page exa.Page[Webhook]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("webhooks"), pageParams(cursor, limit), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every webhook.
func (c *WebhooksClient) ListAll(ctx context.Context) iter.Seq2[Webhook, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Webhook], error) {
		return c.List(ctx, cursor, 0)
	})
}

func (c *WebhooksClient) Update(ctx context.Context, id string, req *UpdateWebhookRequest) (*Webhook, error) {
	var webhook Webhook

	if err := c.api.Do(ctx, http.MethodPatch, joinPath("webhooks", id), nil, req, &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

func (c *WebhooksClient) Delete(ctx context.Context, id string) (*Webhook, error) {
	var webhook Webhook

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("webhooks", id), nil, nil, &webhook); err != nil {
		return nil, err
	}

	return &webhook, nil
}

// ListAttempts returns one page of delivery attempts for a webhook.
func (c *WebhooksClient) ListAttempts(ctx context.Context, webhookID, cursor string, limit int) (*exa.Page[WebhookAttempt], error) {
	var page exa.Page[WebhookAttempt]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("webhooks", webhookID, "attempts"), pageParams(cursor, limit), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}
