package websets

import (
	"context"
	"iter"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// MonitorsClient manages monitors and their runs.
type MonitorsClient struct {
	api *exa.Client
}

type CreateMonitorRequest struct {
	WebsetID string   `json:"websetId"`
	Cadence  Cadence  `json:"cadence"`
	Behavior Behavior `json:"behavior"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateMonitorRequest struct {
	Status   MonitorStatus  `json:"status,omitempty"`
	Cadence  *Cadence       `json:"cadence,omitempty"`
	Behavior *Behavior      `json:"behavior,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (c *MonitorsClient) Create(ctx context.Context, req *CreateMonitorRequest) (*Monitor, error) {
	if req == nil || req.WebsetID == "" {
		return nil, &exa.ValidationError{Param: "websetId", Message: "a webset id is required"}
	}

	if err := validateCadence(&req.Cadence); err != nil {
		return nil, err
	}

	var monitor Monitor

	if err := c.api.Do(ctx, http.MethodPost, joinPath("monitors"), nil, req, &monitor); err != nil {
		return nil, err
	}

	return &monitor, nil
}

func (c *MonitorsClient) Get(ctx context.Context, id string) (*Monitor, error) {
	var monitor Monitor

	if err := c.api.Do(ctx, http.MethodGet, joinPath("monitors", id), nil, nil, &monitor); err != nil {
		return nil, err
	}

	return &monitor, nil
}

// List returns one page of monitors, optionally scoped to one webset.
func (c *MonitorsClient) List(ctx context.Context, websetID, cursor string, limit int) (*exa.Page[Monitor], error) {
	params := pageParams(cursor, limit)

	if websetID != "" {
		params.Set("websetId", websetID)
	}

	var page exa.Page[Monitor]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("monitors"), params, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every monitor, optionally scoped to one webset.
func (c *MonitorsClient) ListAll(ctx context.Context, websetID string) iter.Seq2[Monitor, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Monitor], error) {
		return c.List(ctx, websetID, cursor, 0)
	})
}

func (c *MonitorsClient) Update(ctx context.Context, id string, req *UpdateMonitorRequest) (*Monitor, error) {
	if req != nil && req.Cadence != nil {
		if err := validateCadence(req.Cadence); err != nil {
			return nil, err
		}
	}

	var monitor Monitor

	if err := c.api.Do(ctx, http.MethodPatch, joinPath("monitors", id), nil, req, &monitor); err != nil {
		return nil, err
	}

	return &monitor, nil
}

func (c *MonitorsClient) Delete(ctx context.Context, id string) (*Monitor, error) {
	var monitor Monitor

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("monitors", id), nil, nil, &monitor); err != nil {
		return nil, err
	}

	return &monitor, nil
}

func (c *MonitorsClient) ListRuns(ctx context.Context, monitorID string) (*exa.Page[MonitorRun], error) {
	var page exa.Page[MonitorRun]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("monitors", monitorID, "runs"), nil, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *MonitorsClient) GetRun(ctx context.Context, monitorID, runID string) (*MonitorRun, error) {
	var run MonitorRun

	if err := c.api.Do(ctx, http.MethodGet, joinPath("monitors", monitorID, "runs", runID), nil, nil, &run); err != nil {
		return nil, err
	}

	return &run, nil
}
