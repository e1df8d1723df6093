package websets

import (
	"context"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// SearchesClient manages the searches of a webset.
type SearchesClient struct {
	api *exa.Client
}

// CreateSearchRequest adds a search to an existing webset. Behavior
// "override" re-evaluates existing items against the new criteria.
type CreateSearchRequest struct {
	Query string  `json:"query"`
	Count float64 `json:"count"`

	Entity   *Entity            `json:"entity,omitempty"`
	Criteria []CriterionRequest `json:"criteria,omitempty"`
	Behavior string             `json:"behavior,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

func (c *SearchesClient) Create(ctx context.Context, websetID string, req *CreateSearchRequest) (*Search, error) {
	if req == nil || req.Query == "" {
		return nil, &exa.ValidationError{Param: "query", Message: "a search query is required"}
	}

	var search Search

	if err := c.api.Do(ctx, http.MethodPost, joinPath("websets", websetID, "searches"), nil, req, &search); err != nil {
		return nil, err
	}

	return &search, nil
}

func (c *SearchesClient) Get(ctx context.Context, websetID, id string) (*Search, error) {
	var search Search

	if err := c.api.Do(ctx, http.MethodGet, joinPath("websets", websetID, "searches", id), nil, nil, &search); err != nil {
		return nil, err
	}

	return &search, nil
}

func (c *SearchesClient) Cancel(ctx context.Context, websetID, id string) (*Search, error) {
	var search Search

	if err := c.api.Do(ctx, http.MethodPost, joinPath("websets", websetID, "searches", id, "cancel"), nil, nil, &search); err != nil {
		return nil, err
	}

	return &search, nil
}
