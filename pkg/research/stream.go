package research

import (
	"io"
	"iter"
	"log/slog"

	"github.com/exa-labs/exa-go/pkg/exa"
)

// EventStream yields typed research events as the backend emits them. Close
// it when done, including on early exit from the event loop.
type EventStream struct {
	reader *exa.SSEReader
	logger *slog.Logger
}

func newEventStream(body io.ReadCloser, logger *slog.Logger) *EventStream {
	return &EventStream{
		reader: exa.NewSSEReader(body),
		logger: logger,
	}
}

// Events iterates the stream. Malformed chunks and unknown event types are
// dropped; a broken connection yields one StreamError and ends the
// iteration.
func (s *EventStream) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			name, data, err := s.reader.Next()

			if err == io.EOF {
				return
			}

			if err != nil {
				yield(nil, &exa.StreamError{Message: "research stream interrupted", Err: err})
				return
			}

			event, err := ParseEvent(name, data)

			if err != nil {
				s.logger.Debug("dropping malformed research event", "error", err)
				continue
			}

			if event == nil {
				s.logger.Debug("dropping unknown research event", "event", name)
				continue
			}

			if !yield(event, nil) {
				return
			}
		}
	}
}

func (s *EventStream) Close() error {
	return s.reader.Close()
}
