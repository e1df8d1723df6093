package websets

import (
	"context"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// EnrichmentsClient manages the enrichments of a webset.
type EnrichmentsClient struct {
	api *exa.Client
}

// CreateEnrichmentRequest adds an enrichment task. Format is detected from
// the description when left empty; Options only applies to the options
// format.
type CreateEnrichmentRequest struct {
	Description string `json:"description"`

	Format   EnrichmentFormat   `json:"format,omitempty"`
	Options  []EnrichmentOption `json:"options,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
}

type UpdateEnrichmentRequest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (c *EnrichmentsClient) Create(ctx context.Context, websetID string, req *CreateEnrichmentRequest) (*Enrichment, error) {
	if req == nil || req.Description == "" {
		return nil, &exa.ValidationError{Param: "description", Message: "an enrichment description is required"}
	}

	var enrichment Enrichment

	if err := c.api.Do(ctx, http.MethodPost, joinPath("websets", websetID, "enrichments"), nil, req, &enrichment); err != nil {
		return nil, err
	}

	return &enrichment, nil
}

func (c *EnrichmentsClient) Get(ctx context.Context, websetID, id string) (*Enrichment, error) {
	var enrichment Enrichment

	if err := c.api.Do(ctx, http.MethodGet, joinPath("websets", websetID, "enrichments", id), nil, nil, &enrichment); err != nil {
		return nil, err
	}

	return &enrichment, nil
}

func (c *EnrichmentsClient) Update(ctx context.Context, websetID, id string, req *UpdateEnrichmentRequest) (*Enrichment, error) {
	var enrichment Enrichment

	if err := c.api.Do(ctx, http.MethodPatch, joinPath("websets", websetID, "enrichments", id), nil, req, &enrichment); err != nil {
		return nil, err
	}

	return &enrichment, nil
}

func (c *EnrichmentsClient) Delete(ctx context.Context, websetID, id string) (*Enrichment, error) {
	var enrichment Enrichment

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("websets", websetID, "enrichments", id), nil, nil, &enrichment); err != nil {
		return nil, err
	}

	return &enrichment, nil
}

func (c *EnrichmentsClient) Cancel(ctx context.Context, websetID, id string) (*Enrichment, error) {
	var enrichment Enrichment

	if err := c.api.Do(ctx, http.MethodPost, joinPath("websets", websetID, "enrichments", id, "cancel"), nil, nil, &enrichment); err != nil {
		return nil, err
	}

	return &enrichment, nil
}
