package exa

import (
	"context"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/wire"
)

// Search runs a query and returns links only.
func (c *Client) Search(ctx context.Context, query string, options *SearchOptions) (*SearchResponse, error) {
	payload, err := options.payload(query)

	if err != nil {
		return nil, err
	}

	if err := wire.Validate(payload, searchOptionKinds); err != nil {
		return nil, err
	}

	var response SearchResponse

	if err := c.Do(ctx, http.MethodPost, "/search", nil, wire.CamelizeMap(payload), &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SearchAndContents runs a query and returns results with page contents.
// When contents requests neither text, highlights, summary nor extras, full
// text is returned by default.
func (c *Client) SearchAndContents(ctx context.Context, query string, options *SearchOptions, contents *ContentsOptions) (*SearchResponse, error) {
	payload, err := options.payload(query)

	if err != nil {
		return nil, err
	}

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

	if err := wire.Validate(payload, merged(searchOptionKinds, contentsOptionKinds)); err != nil {
		return nil, err
	}

	wire.NestFields(payload, contentsFields, "contents")

	var response SearchResponse

	if err := c.Do(ctx, http.MethodPost, "/search", nil, wire.CamelizeMap(payload, "schema"), &response); err != nil {
		return nil, err
	}

	return &response, nil
}
