package websets

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-go/pkg/exa"
)

const monitorFixture = `{
	"id": "monitor_123",
	"object": "monitor",
	"status": "enabled",
	"websetId": "ws_123",
	"cadence": {"cron": "0 9 * * *", "timezone": "Etc/UTC"},
	"behavior": {
		"type": "search",
		"config": {
			"query": "AI startups",
			"criteria": [{"description": "Must be AI focused"}],
			"entity": {"type": "company"},
			"count": 10,
			"behavior": "append"
		}
	},
	"lastRun": {
		"id": "run_123",
		"object": "monitor_run",
		"status": "completed",
		"monitorId": "monitor_123",
		"type": "search",
		"completedAt": "2023-01-01T10:00:00Z",
		"createdAt": "2023-01-01T09:00:00Z",
		"updatedAt": "2023-01-01T10:00:00Z"
	},
	"nextRunAt": "2023-01-02T09:00:00Z",
	"metadata": {"key": "value"},
	"createdAt": "2023-01-01T00:00:00Z",
	"updatedAt": "2023-01-01T00:00:00Z"
}`

func TestCreateMonitorWithSearchBehavior(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/websets/v0/monitors", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ws_123", body["websetId"])
		require.Equal(t, map[string]any{"cron": "0 9 * * *", "timezone": "America/New_York"}, body["cadence"])

		behavior, ok := body["behavior"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "search", behavior["type"])

		w.Write([]byte(monitorFixture))
	})

	monitor, err := client.Monitors.Create(context.Background(), &CreateMonitorRequest{
		WebsetID: "ws_123",
		Cadence:  Cadence{Cron: "0 9 * * *", Timezone: "America/New_York"},

		Behavior: Behavior{
			Type: "search",

			Config: BehaviorConfig{
				Query:    "AI startups",
				Criteria: []CriterionRequest{{Description: "Must be AI focused"}},
				Entity:   &Entity{Type: EntityCompany},
				Count:    10,
			},
		},
	})

	require.NoError(t, err)
	require.Equal(t, "monitor_123", monitor.ID)
	require.Equal(t, MonitorEnabled, monitor.Status)
	require.Equal(t, "AI startups", monitor.Behavior.Config.Query)
	require.NotNil(t, monitor.LastRun)
	require.Equal(t, RunCompleted, monitor.LastRun.Status)
}

func TestCreateMonitorRejectsBadCron(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Monitors.Create(context.Background(), &CreateMonitorRequest{
		WebsetID: "ws_123",
		Cadence:  Cadence{Cron: "not a cron"},
		Behavior: Behavior{Type: "refresh", Config: BehaviorConfig{Target: "contents"}},
	})

	var verr *exa.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "cadence.cron", verr.Param)
}

func TestUpdateMonitorUsesPatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/websets/v0/monitors/monitor_123", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "disabled", body["status"])

		w.Write([]byte(monitorFixture))
	})

	_, err := client.Monitors.Update(context.Background(), "monitor_123", &UpdateMonitorRequest{Status: MonitorDisabled})

	require.NoError(t, err)
}

func TestListMonitorsScopedToWebset(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "ws_123", r.URL.Query().Get("websetId"))

		w.Write([]byte(`{"data": [` + monitorFixture + `], "hasMore": false, "nextCursor": null}`))
	})

	page, err := client.Monitors.List(context.Background(), "ws_123", "", 0)

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.False(t, page.HasMore)
}

func TestMonitorRuns(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/websets/v0/monitors/monitor_123/runs":
			w.Write([]byte(`{"data": [{"id": "run_123", "object": "monitor_run", "status": "completed", "monitorId": "monitor_123", "type": "search", "createdAt": "2023-01-01T09:00:00Z", "updatedAt": "2023-01-01T10:00:00Z"}], "hasMore": false, "nextCursor": null}`))
		case "/websets/v0/monitors/monitor_123/runs/run_123":
			w.Write([]byte(`{"id": "run_123", "object": "monitor_run", "status": "completed", "monitorId": "monitor_123", "type": "search", "createdAt": "2023-01-01T09:00:00Z", "updatedAt": "2023-01-01T10:00:00Z"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	page, err := client.Monitors.ListRuns(context.Background(), "monitor_123")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	run, err := client.Monitors.GetRun(context.Background(), "monitor_123", "run_123")
	require.NoError(t, err)
	require.Equal(t, RunCompleted, run.Status)
}

func TestCreateStreamWithRefreshBehavior(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/websets/v0/streams", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		behavior, ok := body["behavior"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "refresh", behavior["type"])
		require.Equal(t, map[string]any{"target": "contents"}, behavior["config"])

		w.Write([]byte(`{
			"id": "stream_123",
			"object": "stream",
			"status": "open",
			"websetId": "ws_123",
			"cadence": {"cron": "0 9 * * 1", "timezone": "Etc/UTC"},
			"behavior": {"type": "refresh", "config": {"target": "contents"}},
			"createdAt": "2023-01-01T00:00:00Z",
			"updatedAt": "2023-01-01T00:00:00Z"
		}`))
	})

	stream, err := client.Streams.Create(context.Background(), &CreateStreamRequest{
		WebsetID: "ws_123",
		Cadence:  Cadence{Cron: "0 9 * * 1"},
		Behavior: Behavior{Type: "refresh", Config: BehaviorConfig{Target: "contents"}},
	})

	require.NoError(t, err)
	require.Equal(t, StreamOpen, stream.Status)
	require.Equal(t, "contents", stream.Behavior.Config.Target)
}

func TestStreamRuns(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/websets/v0/streams/stream_123/runs/run_1", r.URL.Path)

		w.Write([]byte(`{"id": "run_1", "object": "stream_run", "status": "running", "streamId": "stream_123", "type": "search", "createdAt": "2023-01-01T09:00:00Z", "updatedAt": "2023-01-01T09:00:00Z"}`))
	})

	run, err := client.Streams.GetRun(context.Background(), "stream_123", "run_1")

	require.NoError(t, err)
	require.Equal(t, "stream_123", run.StreamID)
	require.Equal(t, RunRunning, run.Status)
}
