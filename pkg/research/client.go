package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/exa-labs/exa-go/pkg/exa"
	"github.com/exa-labs/exa-go/pkg/wire"
)

const basePath = "/research/v1"

type Client struct {
	api *exa.Client
}

func NewClient(api *exa.Client) *Client {
	return &Client{api: api}
}

// CreateRequest describes a new research job. OutputSchema accepts a raw
// JSON-Schema map, a *jsonschema.Schema, or a Go value to generate one from.
type CreateRequest struct {
	Instructions string
	Model        Model
	OutputSchema any
}

func (r *CreateRequest) payload() (map[string]any, error) {
	if r.Instructions == "" {
		return nil, &exa.ValidationError{Param: "instructions", Message: "instructions are required"}
	}

	model := r.Model

	if model == "" {
		model = ModelExaResearch
	}

	payload := map[string]any{
		"instructions": r.Instructions,
		"model":        string(model),
	}

	if r.OutputSchema != nil {
		schema, err := wire.NormalizeSchema(r.OutputSchema)

		if err != nil {
			return nil, err
		}

		payload["outputSchema"] = schema
	}

	return payload, nil
}

// Create submits a research job and blocks until it finishes. The backend
// streams progress over SSE even for this blocking form; progress events are
// discarded, an error event fails the call, and the terminal payload is
// returned. Use CreateWithStream to observe progress.
func (c *Client) Create(ctx context.Context, req *CreateRequest) (*Research, error) {
	payload, err := req.payload()

	if err != nil {
		return nil, err
	}

	payload["stream"] = true

	body, err := c.api.Stream(ctx, http.MethodPost, basePath, nil, payload)

	if err != nil {
		return nil, err
	}

	reader := exa.NewSSEReader(body)
	defer reader.Close()

	for {
		event, data, err := reader.Next()

		if err == io.EOF {
			return nil, &exa.StreamError{Message: "research stream ended before a terminal event"}
		}

		if err != nil {
			return nil, &exa.StreamError{Message: "research stream interrupted", Err: err}
		}

		switch event {
		case "progress":
			continue

		case "error":
			return nil, &exa.StreamError{Message: "research failed: " + errorMessage(data)}

		case "complete":
			var research Research

			if err := json.Unmarshal(data, &research); err != nil {
				return nil, &exa.StreamError{Message: "malformed terminal research payload", Err: err}
			}

			if !research.Status.Known() {
				return nil, fmt.Errorf("unknown research status %q (SDK/API version mismatch?)", research.Status)
			}

			return &research, nil

		default:
			// The explicit event tag is authoritative. A payload that merely
			// looks like a terminal object under an unknown tag signals
			// contract drift, not success.
			if looksTerminal(data) {
				return nil, &exa.StreamError{Message: fmt.Sprintf("terminal-looking payload under unknown event tag %q", event)}
			}
		}
	}
}

func errorMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}

		if payload.Error != "" {
			return payload.Error
		}
	}

	return string(data)
}

func looksTerminal(data []byte) bool {
	var probe struct {
		ResearchID string `json:"researchId"`
		Status     string `json:"status"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}

	return probe.ResearchID != "" && probe.Status != ""
}

// CreateWithStream submits a research job and returns its live event stream.
func (c *Client) CreateWithStream(ctx context.Context, req *CreateRequest) (*EventStream, error) {
	payload, err := req.payload()

	if err != nil {
		return nil, err
	}

	payload["stream"] = true

	body, err := c.api.Stream(ctx, http.MethodPost, basePath, nil, payload)

	if err != nil {
		return nil, err
	}

	return newEventStream(body, c.api.Logger()), nil
}

// Get fetches the current state of a research job. Set events to include the
// progress events recorded so far.
func (c *Client) Get(ctx context.Context, id string, events bool) (*Research, error) {
	params := url.Values{"stream": {"false"}}

	if events {
		params.Set("events", "true")
	}

	var research Research

	if err := c.api.Do(ctx, http.MethodGet, basePath+"/"+id, params, nil, &research); err != nil {
		return nil, err
	}

	return &research, nil
}

// Stream subscribes to the live event stream of a running research job.
func (c *Client) Stream(ctx context.Context, id string) (*EventStream, error) {
	params := url.Values{"stream": {"true"}}

	body, err := c.api.Stream(ctx, http.MethodGet, basePath+"/"+id, params, nil)

	if err != nil {
		return nil, err
	}

	return newEventStream(body, c.api.Logger()), nil
}

// List returns one page of research jobs.
func (c *Client) List(ctx context.Context, cursor string, limit int) (*exa.Page[Research], error) {
	params := url.Values{}

	if cursor != "" {
		params.Set("cursor", cursor)
	}

	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var page exa.Page[Research]

	if err := c.api.Do(ctx, http.MethodGet, basePath, params, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every research job.
func (c *Client) ListAll(ctx context.Context) iter.Seq2[Research, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Research], error) {
		return c.List(ctx, cursor, 0)
	})
}

const maxConsecutivePollFailures = 5

// PollOptions tunes PollUntilFinished. Zero values use the defaults.
type PollOptions struct {
	Interval time.Duration // default 1s
	Timeout  time.Duration // default 10min
	Events   bool
}

// PollUntilFinished polls a research job until it reaches a terminal state.
// Transport and server errors are tolerated up to 5 times in a row; client
// errors (4xx, validation) abort immediately. A TimeoutError is returned
// when the budget elapses first.
func (c *Client) PollUntilFinished(ctx context.Context, id string, options *PollOptions) (*Research, error) {
	if options == nil {
		options = new(PollOptions)
	}

	interval := options.Interval

	if interval <= 0 {
		interval = time.Second
	}

	timeout := options.Timeout

	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	deadline := time.Now().Add(timeout)
	failures := 0

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		research, err := c.Get(ctx, id, options.Events)

		if err != nil {
			if !retryablePollError(err) {
				return nil, err
			}

			failures++

			c.api.Logger().Debug("research poll failed", slog.String("id", id), slog.Int("failures", failures), slog.Any("error", err))

			if failures >= maxConsecutivePollFailures {
				return nil, fmt.Errorf("polling research %s failed %d times in a row: %w", id, failures, err)
			}
		} else {
			failures = 0

			if !research.Status.Known() {
				return nil, fmt.Errorf("unknown research status %q (SDK/API version mismatch?)", research.Status)
			}

			if research.Status.Terminal() {
				return research, nil
			}
		}

		if time.Now().After(deadline) {
			return nil, &exa.TimeoutError{Resource: "research " + id, Timeout: timeout}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
		}
	}
}

func retryablePollError(err error) bool {
	var verr *exa.ValidationError

	if errors.As(err, &verr) {
		return false
	}

	var apiErr *exa.APIError

	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}

	return true
}
