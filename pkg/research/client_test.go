package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-go/pkg/exa"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := exa.New("test-key", exa.WithBaseURL(server.URL))
	require.NoError(t, err)

	return NewClient(api)
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func TestCreateDrivesStreamToCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/research/v1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "find ai companies", body["instructions"])
		require.Equal(t, "exa-research", body["model"])
		require.Equal(t, true, body["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "progress", `{"eventType": "plan-definition", "researchId": "r_1", "planId": "p_1", "createdAt": 1}`)
		writeSSE(w, "progress", `{"eventType": "task-definition", "researchId": "r_1", "planId": "p_1", "taskId": "t_1", "createdAt": 2, "instructions": "look"}`)
		writeSSE(w, "complete", `{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "find ai companies", "status": "completed", "output": {"content": "report"}, "costDollars": {"total": 0.5}}`)
	})

	research, err := client.Create(context.Background(), &CreateRequest{Instructions: "find ai companies"})

	require.NoError(t, err)
	require.Equal(t, "r_1", research.ID)
	require.Equal(t, StatusCompleted, research.Status)
	require.Equal(t, "report", research.Output.Content)
	require.Equal(t, 0.5, research.CostDollars.Total)
}

func TestCreateSendsOutputSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		schema, ok := body["outputSchema"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "object", schema["type"])

		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "complete", `{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "i", "status": "completed"}`)
	})

	_, err := client.Create(context.Background(), &CreateRequest{
		Instructions: "i",

		OutputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
		},
	})

	require.NoError(t, err)
}

func TestCreateRequiresInstructions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Create(context.Background(), &CreateRequest{})

	var verr *exa.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "instructions", verr.Param)
}

func TestCreateErrorEventFailsTheCall(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "progress", `{"eventType": "plan-definition", "researchId": "r_1", "planId": "p_1", "createdAt": 1}`)
		writeSSE(w, "error", `{"message": "model overloaded"}`)
	})

	_, err := client.Create(context.Background(), &CreateRequest{Instructions: "i"})

	var serr *exa.StreamError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Message, "model overloaded")
}

func TestCreateRejectsTerminalPayloadUnderUnknownTag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "done", `{"researchId": "r_1", "status": "completed"}`)
	})

	_, err := client.Create(context.Background(), &CreateRequest{Instructions: "i"})

	var serr *exa.StreamError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Message, `"done"`)
}

func TestCreateRejectsUnknownTerminalStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "complete", `{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "i", "status": "archived"}`)
	})

	_, err := client.Create(context.Background(), &CreateRequest{Instructions: "i"})

	require.Error(t, err)
	require.Contains(t, err.Error(), `"archived"`)
}

func TestCreateStreamEndingWithoutTerminalEvent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "progress", `{"eventType": "plan-definition", "researchId": "r_1", "planId": "p_1", "createdAt": 1}`)
	})

	_, err := client.Create(context.Background(), &CreateRequest{Instructions: "i"})

	var serr *exa.StreamError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Message, "terminal")
}

func TestCreateWithStreamYieldsTypedEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "progress", `{"eventType": "research-definition", "researchId": "r_1", "createdAt": 1, "instructions": "i"}`)
		writeSSE(w, "progress", `{"eventType": "future-thing", "researchId": "r_1"}`)
		writeSSE(w, "progress", `{"eventType": "task-operation", "researchId": "r_1", "planId": "p_1", "taskId": "t_1", "operationId": "op_1", "createdAt": 2, "data": {"type": "crawl", "result": {"url": "https://x.com"}, "pageTokens": 80}}`)
	})

	stream, err := client.CreateWithStream(context.Background(), &CreateRequest{Instructions: "i"})
	require.NoError(t, err)
	defer stream.Close()

	var events []Event

	for event, err := range stream.Events() {
		require.NoError(t, err)
		events = append(events, event)
	}

	require.Len(t, events, 2)
	require.Equal(t, "research-definition", events[0].EventType())

	operation, ok := events[1].(TaskOperationEvent)
	require.True(t, ok)

	crawl, ok := operation.Data.(CrawlOperation)
	require.True(t, ok)
	require.Equal(t, "https://x.com", crawl.Result.URL)
}

func TestCreateWithStreamDropsMalformedChunk(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeSSE(w, "progress", `{"eventType": "research-definition", "researchId": "r_1", "createdAt": 1, "instructions": "i"}`)
		writeSSE(w, "progress", `{not json at all`)
		writeSSE(w, "progress", `{"eventType": "plan-definition", "researchId": "r_1", "planId": "p_1", "createdAt": 2}`)
	})

	stream, err := client.CreateWithStream(context.Background(), &CreateRequest{Instructions: "i"})
	require.NoError(t, err)
	defer stream.Close()

	var events []Event

	for event, err := range stream.Events() {
		require.NoError(t, err)
		events = append(events, event)
	}

	require.Len(t, events, 2)
	require.Equal(t, "research-definition", events[0].EventType())
	require.Equal(t, "plan-definition", events[1].EventType())
}

func TestGetWithEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/research/v1/r_1", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("stream"))
		require.Equal(t, "true", r.URL.Query().Get("events"))

		w.Write([]byte(`{
			"researchId": "r_1",
			"createdAt": 1,
			"model": "exa-research",
			"instructions": "i",
			"status": "running",
			"events": [{"eventType": "research-definition", "researchId": "r_1", "createdAt": 1, "instructions": "i"}]
		}`))
	})

	research, err := client.Get(context.Background(), "r_1", true)

	require.NoError(t, err)
	require.Equal(t, StatusRunning, research.Status)
	require.Len(t, research.Events, 1)
}

func TestListAllFollowsCursor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			w.Write([]byte(`{"data": [{"researchId": "r_1", "status": "completed"}], "hasMore": true, "nextCursor": "c1"}`))
		case "c1":
			w.Write([]byte(`{"data": [{"researchId": "r_2", "status": "running"}], "hasMore": false}`))
		default:
			t.Fatalf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	var ids []string

	for research, err := range client.ListAll(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, research.ID)
	}

	require.Equal(t, []string{"r_1", "r_2"}, ids)
}

func TestPollUntilFinished(t *testing.T) {
	polls := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls++

		status := "running"

		if polls >= 3 {
			status = "completed"
		}

		fmt.Fprintf(w, `{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "i", "status": %q}`, status)
	})

	research, err := client.PollUntilFinished(context.Background(), "r_1", &PollOptions{Interval: time.Millisecond})

	require.NoError(t, err)
	require.Equal(t, StatusCompleted, research.Status)
	require.Equal(t, 3, polls)
}

func TestPollUntilFinishedTimesOut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "i", "status": "running"}`))
	})

	_, err := client.PollUntilFinished(context.Background(), "r_1", &PollOptions{
		Interval: time.Millisecond,
		Timeout:  10 * time.Millisecond,
	})

	var terr *exa.TimeoutError
	require.ErrorAs(t, err, &terr)
}

func TestPollUntilFinishedAbortsOnClientError(t *testing.T) {
	polls := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls++

		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such research"}`))
	})

	_, err := client.PollUntilFinished(context.Background(), "r_missing", &PollOptions{Interval: time.Millisecond})

	var nfErr *exa.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	require.Equal(t, 1, polls)
}

func TestPollUntilFinishedToleratesServerErrors(t *testing.T) {
	polls := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls++

		if polls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.Write([]byte(`{"researchId": "r_1", "createdAt": 1, "model": "exa-research", "instructions": "i", "status": "completed"}`))
	})

	research, err := client.PollUntilFinished(context.Background(), "r_1", &PollOptions{Interval: time.Millisecond})

	require.NoError(t, err)
	require.Equal(t, StatusCompleted, research.Status)
}

func TestPollUntilFinishedGivesUpAfterRepeatedFailures(t *testing.T) {
	polls := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls++

		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.PollUntilFinished(context.Background(), "r_1", &PollOptions{Interval: time.Millisecond})

	require.Error(t, err)
	require.Equal(t, maxConsecutivePollFailures, polls)

	var serverErr *exa.ServerError
	require.ErrorAs(t, err, &serverErr)
}
