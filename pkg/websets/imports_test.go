package websets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exa-labs/exa-go/pkg/exa"
)

func TestCreateImport(t *testing.T) {
	var uploadHost string

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/websets/v0/imports", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Sample Company Data", body["title"])
		require.Equal(t, "csv", body["format"])
		require.Equal(t, float64(1024), body["size"])

		w.Write([]byte(`{
			"id": "import_123",
			"object": "import",
			"title": "Sample Company Data",
			"format": "csv",
			"entity": {"type": "company"},
			"size": 1024,
			"count": 100,
			"status": "pending",
			"csv": {"identifier": 1},
			"uploadUrl": "` + uploadHost + `/upload",
			"uploadValidUntil": "2023-01-01T01:00:00Z",
			"createdAt": "2023-01-01T00:00:00Z",
			"updatedAt": "2023-01-01T00:00:00Z"
		}`))
	})

	uploadHost = server.URL

	record, err := client.Imports.Create(context.Background(), &CreateImportRequest{
		Title:  "Sample Company Data",
		Format: "csv",
		Entity: &Entity{Type: EntityCompany},
		Size:   1024,
		Count:  100,
		CSV:    &CSVConfig{Identifier: 1},
	})

	require.NoError(t, err)
	require.Equal(t, ImportPending, record.Status)
	require.NotEmpty(t, record.UploadURL)
}

func TestCreateFromCSVUploadsData(t *testing.T) {
	data := []byte("url,name\nhttps://acme.dev,Acme\nhttps://beta.io,Beta\n")

	var uploaded []byte
	var uploadHost string

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/websets/v0/imports":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, float64(len(data)), body["size"])
			require.Equal(t, float64(2), body["count"])
			require.Equal(t, map[string]any{"identifier": float64(1)}, body["csv"])

			w.Write([]byte(`{
				"id": "import_123",
				"object": "import",
				"title": "companies",
				"format": "csv",
				"status": "pending",
				"uploadUrl": "` + uploadHost + `/upload",
				"createdAt": "2023-01-01T00:00:00Z",
				"updatedAt": "2023-01-01T00:00:00Z"
			}`))

		case r.Method == http.MethodPut && r.URL.Path == "/upload":
			require.Equal(t, "text/csv", r.Header.Get("Content-Type"))
			require.Empty(t, r.Header.Get("x-api-key"))

			uploaded, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	uploadHost = server.URL

	record, err := client.Imports.CreateFromCSV(context.Background(), "companies", data, &Entity{Type: EntityCompany}, 1)

	require.NoError(t, err)
	require.Equal(t, "import_123", record.ID)
	require.Equal(t, data, uploaded)
}

func TestCreateFromCSVRejectsMalformedData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.Imports.CreateFromCSV(context.Background(), "bad", []byte("a,b\n\"unterminated\n"), nil, 1)

	var verr *exa.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "data", verr.Param)
}

func TestWaitUntilCompleted(t *testing.T) {
	polls := 0

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		polls++

		status := "pending"

		if polls >= 3 {
			status = "completed"
		}

		w.Write([]byte(`{"id": "import_123", "object": "import", "title": "t", "format": "csv", "status": "` + status + `", "createdAt": "2023-01-01T00:00:00Z", "updatedAt": "2023-01-01T00:00:00Z"}`))
	})

	record, err := client.Imports.WaitUntilCompleted(context.Background(), "import_123", time.Millisecond, time.Minute)

	require.NoError(t, err)
	require.Equal(t, ImportCompleted, record.Status)
	require.Equal(t, 3, polls)
}

func TestWaitUntilCompletedReturnsFailedImports(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "import_failed",
			"object": "import",
			"title": "Failed Import",
			"format": "csv",
			"status": "failed",
			"failedReason": "invalid_format",
			"failedMessage": "Invalid CSV format detected",
			"createdAt": "2023-01-01T00:00:00Z",
			"updatedAt": "2023-01-01T00:30:00Z"
		}`))
	})

	record, err := client.Imports.WaitUntilCompleted(context.Background(), "import_failed", time.Millisecond, time.Minute)

	require.NoError(t, err)
	require.Equal(t, ImportFailed, record.Status)
	require.Equal(t, "invalid_format", record.FailedReason)
}

func TestWaitUntilCompletedTimesOut(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "import_123", "object": "import", "title": "t", "format": "csv", "status": "pending", "createdAt": "2023-01-01T00:00:00Z", "updatedAt": "2023-01-01T00:00:00Z"}`))
	})

	_, err := client.Imports.WaitUntilCompleted(context.Background(), "import_123", time.Millisecond, 10*time.Millisecond)

	var terr *exa.TimeoutError
	require.ErrorAs(t, err, &terr)
}
