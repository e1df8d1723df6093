package exa

import (
	"context"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/wire"
)

// FindSimilar returns pages similar to the given URL.
func (c *Client) FindSimilar(ctx context.Context, url string, options *FindSimilarOptions) (*SearchResponse, error) {
	payload := options.payload(url)

	if err := wire.Validate(payload, findSimilarOptionKinds); err != nil {
		return nil, err
	}

	var response SearchResponse

	if err := c.Do(ctx, http.MethodPost, "/findSimilar", nil, wire.CamelizeMap(payload), &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// FindSimilarAndContents returns similar pages with their contents, applying
// the same text default as SearchAndContents.
func (c *Client) FindSimilarAndContents(ctx context.Context, url string, options *FindSimilarOptions, contents *ContentsOptions) (*SearchResponse, error) {
	payload := options.payload(url)

	contentsPayload, err := contents.payload()

	if err != nil {
		return nil, err
	}

	for k, v := range contentsPayload {
		payload[k] = v
	}

	if !contents.requested() {
		payload["text"] = true
	}

	if err := wire.Validate(payload, merged(findSimilarOptionKinds, contentsOptionKinds)); err != nil {
		return nil, err
	}

	wire.NestFields(payload, contentsFields, "contents")

	var response SearchResponse

	if err := c.Do(ctx, http.MethodPost, "/findSimilar", nil, wire.CamelizeMap(payload, "schema"), &response); err != nil {
		return nil, err
	}

	return &response, nil
}
