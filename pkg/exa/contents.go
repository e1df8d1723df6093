package exa

import (
	"context"
	"net/http"

	"github.com/exa-labs/exa-go/pkg/wire"
)

// GetContents retrieves page contents for known URLs or result IDs. Content
// options are flat on this endpoint. Per-URL retrieval failures come back in
// the response statuses instead of failing the call.
func (c *Client) GetContents(ctx context.Context, urls []string, options *ContentsOptions) (*SearchResponse, error) {
	if len(urls) == 0 {
		return nil, &ValidationError{Param: "urls", Message: "at least one URL is required"}
	}

	payload, err := options.payload()

	if err != nil {
		return nil, err
	}

	payload["urls"] = urls

	if !options.requested() {
		payload["text"] = true
	}

	if err := wire.Validate(payload, contentsOptionKinds); err != nil {
		return nil, err
	}

	var response SearchResponse

	if err := c.Do(ctx, http.MethodPost, "/contents", nil, wire.CamelizeMap(payload, "schema"), &response); err != nil {
		return nil, err
	}

	return &response, nil
}
