package websets

import (
	"context"
	"iter"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// EventsClient reads the event feed.
type EventsClient struct {
	api *exa.Client
}

// List returns one page of events, optionally filtered by type.
func (c *EventsClient) List(ctx context.Context, cursor string, limit int, types ...EventType) (*exa.Page[Event], error) {
	params := pageParams(cursor, limit)

	for _, t := range types {
		params.Add("types", string(t))
	}

	var page exa.Page[Event]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("events"), params, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates the event feed, optionally filtered by type.
func (c *EventsClient) ListAll(ctx context.Context, types ...EventType) iter.Seq2[Event, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Event], error) {
		return c.List(ctx, cursor, 0, types...)
	})
}

func (c *EventsClient) Get(ctx context.Context, id string) (*Event, error) {
	var event Event

	if err := c.api.Do(ctx, http.MethodGet, joinPath("events", id), nil, nil, &event); err != nil {
		return nil, err
	}

	return &event, nil
}
