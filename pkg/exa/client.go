// Package exa is a client for the Exa API: neural and keyword web search,
// page contents, link similarity, and direct question answering.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
)

const (
	defaultBaseURL = "https://api.exa.ai"
	userAgent      = "exa-go/1.0.0"
)

type Client struct {
	apiKey    string
	baseURL   string
	userAgent string

	client *http.Client
	logger *slog.Logger
}

// New creates a client. If apiKey is empty, the EXA_API_KEY environment
// variable is used instead.
func New(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("EXA_API_KEY")
	}

	c := &Client{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		userAgent: userAgent,

		client: http.DefaultClient,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(c)
	}

	if c.apiKey == "" {
		return nil, errors.New("missing API key: pass one or set EXA_API_KEY")
	}

	return c, nil
}

// Logger returns the client's logger. Sub-clients share it.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Do sends one API request and decodes the JSON response into out. Sub-clients
// (research, websets) build their calls on it.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, params, body)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return &TransportError{Op: method, URL: c.baseURL + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, data)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// Stream sends one API request and returns the raw response body for
// line-by-line or SSE consumption. The caller must close it.
func (c *Client) Stream(ctx context.Context, method, path string, params url.Values, body any) (io.ReadCloser, error) {
	resp, err := c.send(ctx, method, path, params, body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		return nil, errorFromResponse(resp, data)
	}

	return resp.Body, nil
}

// Upload PUTs raw data to an external URL, such as the pre-signed upload URL
// returned when creating an import. No API credentials are attached.
func (c *Client) Upload(ctx context.Context, rawURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, bytes.NewReader(data))

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)

	if err != nil {
		return &TransportError{Op: http.MethodPut, URL: rawURL, Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return errorFromResponse(resp, body)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, params url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path

	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)

		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)

	if err != nil {
		return nil, err
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "exa request", "method", method, "path", path)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, &TransportError{Op: method, URL: endpoint, Err: err}
	}

	return resp, nil
}
