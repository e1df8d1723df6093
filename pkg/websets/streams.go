package websets

import (
	"context"
	"iter"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// StreamsClient manages streams and their runs.
type StreamsClient struct {
	api *exa.Client
}

type CreateStreamRequest struct {
	WebsetID string   `json:"websetId"`
	Cadence  Cadence  `json:"cadence"`
	Behavior Behavior `json:"behavior"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateStreamRequest struct {
	Status   StreamStatus   `json:"status,omitempty"`
	Cadence  *Cadence       `json:"cadence,omitempty"`
	Behavior *Behavior      `json:"behavior,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (c *StreamsClient) Create(ctx context.Context, req *CreateStreamRequest) (*Stream, error) {
	if req == nil || req.WebsetID == "" {
		return nil, &exa.ValidationError{Param: "websetId", Message: "a webset id is required"}
	}

	if err := validateCadence(&req.Cadence); err != nil {
		return nil, err
	}

	var stream Stream

	if err := c.api.Do(ctx, http.MethodPost, joinPath("streams"), nil, req, &stream); err != nil {
		return nil, err
	}

	return &stream, nil
}

func (c *StreamsClient) Get(ctx context.Context, id string) (*Stream, error) {
	var stream Stream

	if err := c.api.Do(ctx, http.MethodGet, joinPath("streams", id), nil, nil, &stream); err != nil {
		return nil, err
	}

	return &stream, nil
}

// List returns one page of streams, optionally scoped to one webset.
func (c *StreamsClient) List(ctx context.Context, websetID, cursor string, limit int) (*exa.Page[Stream], error) {
	params := pageParams(cursor, limit)

	if websetID != "" {
		params.Set("websetId", websetID)
	}

	var page exa.Page[Stream]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("streams"), params, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every stream, optionally scoped to one webset.
func (c *StreamsClient) ListAll(ctx context.Context, websetID string) iter.Seq2[Stream, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Stream], error) {
		return c.List(ctx, websetID, cursor, 0)
	})
}

func (c *StreamsClient) Update(ctx context.Context, id string, req *UpdateStreamRequest) (*Stream, error) {
	if req != nil && req.Cadence != nil {
		if err := validateCadence(req.Cadence); err != nil {
			return nil, err
		}
	}

	var stream Stream

	if err := c.api.Do(ctx, http.MethodPatch, joinPath("streams", id), nil, req, &stream); err != nil {
		return nil, err
	}

	return &stream, nil
}

func (c *StreamsClient) Delete(ctx context.Context, id string) (*Stream, error) {
	var stream Stream

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("streams", id), nil, nil, &stream); err != nil {
		return nil, err
	}

	return &stream, nil
}

func (c *StreamsClient) ListRuns(ctx context.Context, streamID string) (*exa.Page[StreamRun], error) {
	var page exa.Page[StreamRun]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("streams", streamID, "runs"), nil, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *StreamsClient) GetRun(ctx context.Context, streamID, runID string) (*StreamRun, error) {
	var run StreamRun

	if err := c.api.Do(ctx, http.MethodGet, joinPath("streams", streamID, "runs", runID), nil, nil, &run); err != nil {
		return nil, err
	}

	return &run, nil
}
