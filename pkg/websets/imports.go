package websets

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// ImportsClient manages imports of external data into websets.
type ImportsClient struct {
	api *exa.Client
}

// CreateImportRequest registers an upload. Size is the byte size and Count
// the number of records of the data to be uploaded.
type CreateImportRequest struct {
	Title  string  `json:"title"`
	Format string  `json:"format"`
	Entity *Entity `json:"entity,omitempty"`

	Size  float64    `json:"size"`
	Count float64    `json:"count"`
	CSV   *CSVConfig `json:"csv,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateImportRequest struct {
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Create registers an import. The returned record carries the pre-signed
// UploadURL the data must be uploaded to before UploadValidUntil.
func (c *ImportsClient) Create(ctx context.Context, req *CreateImportRequest) (*Import, error) {
	if req == nil || req.Title == "" {
		return nil, &exa.ValidationError{Param: "title", Message: "an import title is required"}
	}

	var record Import

	if err := c.api.Do(ctx, http.MethodPost, joinPath("imports"), nil, req, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// CreateFromCSV registers a CSV import, computes size and record count from
// the data, and uploads it to the returned pre-signed URL in one step. The
// identifier column is 1-based.
func (c *ImportsClient) CreateFromCSV(ctx context.Context, title string, data []byte, entity *Entity, identifierColumn int) (*Import, error) {
	count, err := csvRecordCount(data)

	if err != nil {
		return nil, &exa.ValidationError{Param: "data", Message: "malformed csv: " + err.Error()}
	}

	if identifierColumn < 1 {
		identifierColumn = 1
	}

	record, err := c.Create(ctx, &CreateImportRequest{
		Title:  title,
		Format: "csv",
		Entity: entity,

		Size:  float64(len(data)),
		Count: float64(count),
		CSV:   &CSVConfig{Identifier: identifierColumn},
	})

	if err != nil {
		return nil, err
	}

	if err := c.api.Upload(ctx, record.UploadURL, "text/csv", data); err != nil {
		return nil, err
	}

	return record, nil
}

// csvRecordCount counts data records, excluding the header row.
func csvRecordCount(data []byte) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows := 0

	for {
		_, err := reader.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return 0, err
		}

		rows++
	}

	if rows == 0 {
		return 0, nil
	}

	return rows - 1, nil
}

func (c *ImportsClient) Get(ctx context.Context, id string) (*Import, error) {
	var record Import

	if err := c.api.Do(ctx, http.MethodGet, joinPath("imports", id), nil, nil, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (c *ImportsClient) List(ctx context.Context, cursor string, limit int) (*exa.Page[Import], error) {
	var page exa.Page[Import]

	if err := c.api.Do(ctx, http.MethodGet, joinPath("imports"), pageParams(cursor, limit), nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll lazily iterates every import.
func (c *ImportsClient) ListAll(ctx context.Context) iter.Seq2[Import, error] {
	return exa.ListAll(ctx, func(ctx context.Context, cursor string) (*exa.Page[Import], error) {
		return c.List(ctx, cursor, 0)
	})
}

func (c *ImportsClient) Update(ctx context.Context, id string, req *UpdateImportRequest) (*Import, error) {
	var record Import

	if err := c.api.Do(ctx, http.MethodPatch, joinPath("imports", id), nil, req, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (c *ImportsClient) Delete(ctx context.Context, id string) (*Import, error) {
	var record Import

	if err := c.api.Do(ctx, http.MethodDelete, joinPath("imports", id), nil, nil, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// WaitUntilCompleted polls an import until it completes or fails. Zero
// values use the defaults of 5s between polls and a 30 minute budget.
func (c *ImportsClient) WaitUntilCompleted(ctx context.Context, id string, interval, timeout time.Duration) (*Import, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	if timeout <= 0 {
		timeout = 30 * time.Minute
	}

	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		record, err := c.Get(ctx, id)

		if err != nil {
			return nil, err
		}

		if record.Status == ImportCompleted || record.Status == ImportFailed {
			return record, nil
		}

		if time.Now().After(deadline) {
			return nil, &exa.TimeoutError{Resource: "import " + id, Timeout: timeout}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
		}
	}
}
