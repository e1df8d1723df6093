package exa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	return client
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("EXA_API_KEY", "")

	_, err := New("")
	require.Error(t, err)
}

func TestNewReadsKeyFromEnvironment(t *testing.T) {
	t.Setenv("EXA_API_KEY", "env-key")

	client, err := New("")
	require.NoError(t, err)
	require.Equal(t, "env-key", client.apiKey)
}

func TestDoSetsHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`{}`))
	})

	err := client.Do(context.Background(), http.MethodPost, "/search", nil, map[string]any{"query": "q"}, nil)
	require.NoError(t, err)
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var target *AuthenticationError
			require.ErrorAs(t, err, &target)
		}},
		{http.StatusForbidden, func(t *testing.T, err error) {
			var target *AuthenticationError
			require.ErrorAs(t, err, &target)
		}},
		{http.StatusNotFound, func(t *testing.T, err error) {
			var target *NotFoundError
			require.ErrorAs(t, err, &target)
		}},
		{http.StatusBadRequest, func(t *testing.T, err error) {
			var target *APIError
			require.ErrorAs(t, err, &target)
			require.Equal(t, http.StatusBadRequest, target.StatusCode)
		}},
		{http.StatusInternalServerError, func(t *testing.T, err error) {
			var target *ServerError
			require.ErrorAs(t, err, &target)
		}},
	}

	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":"something went wrong","requestId":"req_1"}`))
		})

		err := client.Do(context.Background(), http.MethodPost, "/search", nil, map[string]any{"query": "q"}, nil)
		require.Error(t, err)
		tc.check(t, err)

		var base *APIError
		require.ErrorAs(t, err, &base)
		require.Equal(t, "something went wrong", base.Message)
		require.Equal(t, "req_1", base.RequestID)
	}
}

func TestDoRejectsUnexpectedRedirect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	err := client.Do(context.Background(), http.MethodGet, "/search", nil, nil, nil)

	var target *APIError
	require.ErrorAs(t, err, &target)
	require.Equal(t, http.StatusFound, target.StatusCode)
}

func TestRateLimitRetryAfter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	})

	err := client.Do(context.Background(), http.MethodPost, "/search", nil, map[string]any{"query": "q"}, nil)

	var target *RateLimitError
	require.ErrorAs(t, err, &target)
	require.Equal(t, 12*time.Second, target.RetryAfter)
}

func TestTransportErrorWraps(t *testing.T) {
	client, err := New("test-key", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	doErr := client.Do(context.Background(), http.MethodPost, "/search", nil, map[string]any{"query": "q"}, nil)

	var target *TransportError
	require.ErrorAs(t, doErr, &target)
	require.NotNil(t, errors.Unwrap(target))
}
