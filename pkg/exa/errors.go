package exa

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/exa-labs/exa-go/pkg/wire"
)

// ValidationError reports parameters the SDK rejects before making a request.
type ValidationError = wire.ValidationError

// APIError is the base error for non-2xx API responses. More specific
// categories (authentication, not-found, rate-limit, server) wrap it and can
// be matched with errors.As.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("exa: [%d] %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
	}

	return fmt.Sprintf("exa: [%d] %s", e.StatusCode, e.Message)
}

// AuthenticationError is returned for 401 and 403 responses.
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Unwrap() error {
	return &e.APIError
}

// NotFoundError is returned for 404 responses.
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Unwrap() error {
	return &e.APIError
}

// RateLimitError is returned for 429 responses. RetryAfter is zero when the
// API did not send a Retry-After header.
type RateLimitError struct {
	APIError

	RetryAfter time.Duration
}

func (e *RateLimitError) Unwrap() error {
	return &e.APIError
}

// ServerError is returned for 5xx responses.
type ServerError struct {
	APIError
}

func (e *ServerError) Unwrap() error {
	return &e.APIError
}

// TransportError wraps network-level failures (DNS, TLS, connection reset)
// while talking to the API. Use errors.As to distinguish it from API errors,
// and Unwrap to reach the underlying cause.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("exa: transport error during %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a polling or waiting helper exhausts its
// wall-clock budget before the resource reaches a terminal state.
type TimeoutError struct {
	Resource string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("exa: %s did not finish within %s", e.Resource, e.Timeout)
}

// StreamError reports a broken streaming contract: a malformed terminal
// payload, an unknown terminal discriminator, or a stream that ended before
// any terminal event.
type StreamError struct {
	Message string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exa: stream error: %s: %v", e.Message, e.Err)
	}

	return fmt.Sprintf("exa: stream error: %s", e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func errorFromResponse(resp *http.Response, body []byte) error {
	message := string(body)
	requestID := resp.Header.Get("x-request-id")

	var parsed errorBody

	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			message = parsed.Error
		} else if parsed.Message != "" {
			message = parsed.Message
		}

		if parsed.RequestID != "" {
			requestID = parsed.RequestID
		}
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	base := APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		RequestID:  requestID,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthenticationError{base}

	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{base}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{APIError: base, RetryAfter: retryAfter(resp.Header)}

	case resp.StatusCode >= 500:
		return &ServerError{base}
	}

	return &base
}

func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")

	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}
