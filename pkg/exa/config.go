package exa

import (
	"log/slog"
	"net/http"
)

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithUserAgent(val string) Option {
	return func(c *Client) {
		c.userAgent = val
	}
}

// WithLogger enables debug logging of requests and dropped stream chunks.
// The client is silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
