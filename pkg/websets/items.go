package websets

import (
	"context"
	"iter"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// ItemsClient manages the items of a webset.
type ItemsClient struct {
	api *exa.Client
}

func (c *ItemsClient) List(ctx context.Context, websetID, cursor string, limit int) (*exa.Page[Item], error) {
	var page exa.Page[Item]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("websets", websetID, "items"), pageParams(cursor, limit), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every item of a webset.
func (c *ItemsClient) ListAll(ctx context.Context, websetID string) iter.Seq2[Item, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Item], error) {
		return c.List(ctx, websetID, cursor, 0)
	})
}

func (c *ItemsClient) Get(ctx context.Context, websetID, id string) (*Item, error) {
	var item Item

	if err := c.api.Do(ctx, http.MethodGet, joinPath("websets", websetID, "items", id), nil, nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *ItemsClient) Delete(ctx context.Context, websetID, id string) (*Item, error) {
	var item Item

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("websets", websetID, "items", id), nil, nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}
