package websets

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/exa-labs/exa-go/pkg/exa"
)

const basePath = "/websets/v0"

// Client groups the websets resource families. Construct it with NewClient
// and reach sub-resources through the exported fields.
type Client struct {
	api *exa.Client

	Items       *ItemsClient
	Searches    *SearchesClient
	Enrichments *EnrichmentsClient
	Webhooks    *WebhooksClient
	Monitors    *MonitorsClient
	Streams     *StreamsClient
	Imports     *ImportsClient
	Events      *EventsClient
}

func NewClient(api *exa.Client) *Client {
	return &Client{
		api: api,

		Items:       &ItemsClient{api: api},
		Searches:    &SearchesClient{api: api},
		Enrichments: &EnrichmentsClient{api: api},
		Webhooks:    &WebhooksClient{api: api},
		Monitors:    &MonitorsClient{api: api},
		Streams:     &StreamsClient{api: api},
		Imports:     &ImportsClient{api: api},
		Events:      &EventsClient{api: api},
	}
}

// SearchConfig is the initial search of a new webset.
type SearchConfig struct {
	Query string `json:"query"`

	Count    float64            `json:"count,omitempty"`
	Entity   *Entity            `json:"entity,omitempty"`
	Criteria []CriterionRequest `json:"criteria,omitempty"`
}

// CreateWebsetRequest creates a webset with an initial search and optional
// enrichments.
type CreateWebsetRequest struct {
	Search SearchConfig `json:"search"`

	Enrichments []CreateEnrichmentRequest `json:"enrichments,omitempty"`
	ExternalID  string                    `json:"externalId,omitempty"`
	Metadata    map[string]any            `json:"metadata,omitempty"`
}

type UpdateWebsetRequest struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *Client) Create(ctx context.Context, req *CreateWebsetRequest) (*Webset, error) {
	if req == nil || req.Search.Query == "" {
		return nil, &exa.ValidationError{Param: "search.query", Message: "a search query is required"}
	}

	var webset Webset

	if err := c.api.Do(ctx, http.MethodPost, basePath+"/websets", nil, req, &webset); err != nil {
		return nil, err
	}

	return &webset, nil
}

// Get fetches a webset by id or external id. Set expandItems to include the
// webset's items in the response.
func (c *Client) Get(ctx context.Context, id string, expandItems bool) (*Webset, error) {
	var params url.Values

	if expandItems {
		params = url.Values{"expand": {"items"}}
	}

	var webset Webset

	if err := c.api.Do(ctx, http.MethodGet, basePath+"/websets/"+id, params, nil, &webset); err != nil {
		return nil, err
	}

	return &webset, nil
}

func (c *Client) List(ctx context.Context, cursor string, limit int) (*exa.Page[Webset], error) {
	var page exa.Page[Webset]

	if err := c.api.Do(ctx, http.MethodGet, basePath+"/websets", pageParams(cursor, limit), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every webset.
func (c *Client) ListAll(ctx context.Context) iter.Seq2[Webset, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Webset], error) {
		return c.List(ctx, cursor, 0)
	})
}

func (c *Client) Update(ctx context.Context, id string, req *UpdateWebsetRequest) (*Webset, error) {
	var webset Webset

	if err := c.api.Do(ctx, http.MethodPost, basePath+"/websets/"+id, nil, req, &webset); err != nil {
		return nil, err
	}

	return &webset, nil
}

func (c *Client) Delete(ctx context.Context, id string) (*Webset, error) {
	var webset Webset

	if err := c.api.Do(ctx, http.MethodDelete, basePath+"/websets/"+id, nil, nil, &webset); err != nil {
		return nil, err
	}

	return &webset, nil
}

// Cancel stops all running searches and enrichments of a webset.
func (c *Client) Cancel(ctx context.Context, id string) (*Webset, error) {
	var webset Webset

	if err := c.api.Do(ctx, http.MethodPost, basePath+"/websets/"+id+"/cancel", nil, nil, &webset); err != nil {
		return nil, err
	}

	return &webset, nil
}

// WaitUntilIdle polls a webset once a second until its status is idle. A
// zero timeout waits indefinitely, bounded only by ctx.
func (c *Client) WaitUntilIdle(ctx context.Context, id string, timeout time.Duration) (*Webset, error) {
	var deadline time.Time

	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		webset, err := c.Get(ctx, id, false)

		if err != nil {
			return nil, err
		}

		if webset.Status == WebsetStatusIdle {
			return webset, nil
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, &exa.TimeoutError{Resource: "webset " + id, Timeout: timeout}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
		}
	}
}

func pageParams(cursor string, limit int) url.Values {
	params := url.Values{}

	if cursor != "" {
		params.Set("cursor", cursor)
	}

	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	return params
}

func joinPath(parts ...string) string {
	return basePath + "/" + strings.Join(parts, "/")
}
