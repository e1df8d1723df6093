package exa

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/exa-labs/exa-go/pkg/wire"

	"github.com/xeipuuv/gojsonschema"
)

// AnswerModel selects the answering model.
type AnswerModel string

const (
	AnswerModelExa    AnswerModel = "exa"
	AnswerModelExaPro AnswerModel = "exa-pro"
)

type AnswerOptions struct {
	// Text includes the full page text of each citation.
	Text bool

	SystemPrompt string
	Model        AnswerModel
	UserLocation string

	// OutputSchema requests a structured answer. It accepts a raw JSON-Schema
	// map, a *jsonschema.Schema, or a Go value to generate a schema from.
	OutputSchema any
}

// AnswerCitation is a source the answer was generated from.
type AnswerCitation struct {
	ID string `json:"id"`

	URL   string `json:"url"`
	Title string `json:"title,omitempty"`

	PublishedDate string `json:"publishedDate,omitempty"`
	Author        string `json:"author,omitempty"`
	Text          string `json:"text,omitempty"`
}

// AnswerResponse holds a generated answer. Answer is either a JSON string
// (free text) or a JSON object (structured output).
type AnswerResponse struct {
	Answer    json.RawMessage  `json:"answer"`
	Citations []AnswerCitation `json:"citations"`

	CostDollars *CostDollars `json:"costDollars,omitempty"`
	RequestID   string       `json:"requestId,omitempty"`
}

// Text returns the answer as plain text. Structured answers come back as
// their JSON encoding.
func (r *AnswerResponse) Text() string {
	var s string

	if err := json.Unmarshal(r.Answer, &s); err == nil {
		return s
	}

	return string(r.Answer)
}

// Decode unmarshals a structured answer into v.
func (r *AnswerResponse) Decode(v any) error {
	return json.Unmarshal(r.Answer, v)
}

// Validate checks a structured answer against the schema it was requested
// with. Violations are reported as a ValidationError naming each failing
// schema path.
func (r *AnswerResponse) Validate(schema any) error {
	normalized, err := wire.NormalizeSchema(schema)

	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(normalized), gojsonschema.NewBytesLoader(r.Answer))

	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))

	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return &ValidationError{
		Param:   "answer",
		Message: "answer does not match output schema: " + strings.Join(violations, "; "),
	}
}

func answerPayload(query string, options *AnswerOptions) (map[string]any, error) {
	p := map[string]any{"query": query}

	if options == nil {
		return p, nil
	}

	putBool(p, "text", options.Text)
	putString(p, "system_prompt", options.SystemPrompt)
	putString(p, "model", string(options.Model))
	putString(p, "user_location", options.UserLocation)

	if options.OutputSchema != nil {
		schema, err := wire.NormalizeSchema(options.OutputSchema)

		if err != nil {
			return nil, err
		}

		p["output_schema"] = schema
	}

	return p, nil
}

// Answer generates an answer to a query, searching the web as needed.
func (c *Client) Answer(ctx context.Context, query string, options *AnswerOptions) (*AnswerResponse, error) {
	payload, err := answerPayload(query, options)

	if err != nil {
		return nil, err
	}

	var response AnswerResponse

	if err := c.Do(ctx, http.MethodPost, "/answer", nil, wire.CamelizeMap(payload, "output_schema"), &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// AnswerChunk is one streamed piece of an answer: partial text, a citations
// batch, or both.
type AnswerChunk struct {
	Content   string
	Citations []AnswerCitation
}

// AnswerStream yields answer chunks as the backend produces them. Close it
// when done, including on early exit from the chunk loop.
type AnswerStream struct {
	body   io.ReadCloser
	logger *slog.Logger
}

// StreamAnswer starts a streaming answer. Chunks arrive as JSON lines;
// malformed lines are dropped, not fatal.
func (c *Client) StreamAnswer(ctx context.Context, query string, options *AnswerOptions) (*AnswerStream, error) {
	payload, err := answerPayload(query, options)

	if err != nil {
		return nil, err
	}

	body := wire.CamelizeMap(payload, "output_schema")
	body["stream"] = true

	stream, err := c.Stream(ctx, http.MethodPost, "/answer", nil, body)

	if err != nil {
		return nil, err
	}

	return &AnswerStream{
		body:   stream,
		logger: c.logger,
	}, nil
}

type answerChunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`

	Citations []AnswerCitation `json:"citations"`
}

// Chunks iterates the stream. A non-nil error ends the iteration; io.EOF is
// not surfaced as an error.
func (s *AnswerStream) Chunks() iter.Seq2[AnswerChunk, error] {
	return func(yield func(AnswerChunk, error) bool) {
		scanner := bufio.NewScanner(s.body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" {
				continue
			}

			line = strings.TrimPrefix(line, "data: ")

			var payload answerChunkPayload

			if err := json.Unmarshal([]byte(line), &payload); err != nil {
				s.logger.Debug("dropping malformed answer chunk", "error", err)
				continue
			}

			chunk := AnswerChunk{Citations: payload.Citations}

			if len(payload.Choices) > 0 {
				chunk.Content = payload.Choices[0].Delta.Content
			}

			if chunk.Content == "" && len(chunk.Citations) == 0 {
				continue
			}

			if !yield(chunk, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(AnswerChunk{}, &StreamError{Message: "answer stream interrupted", Err: err})
		}
	}
}

func (s *AnswerStream) Close() error {
	return s.body.Close()
}
