package exa

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// SSEReader decodes a Server-Sent-Events body into (event, data) pairs. A
// final event without a trailing blank line is still delivered before EOF.
type SSEReader struct {
	reader *bufio.Reader
	body   io.Closer
}

func NewSSEReader(body io.ReadCloser) *SSEReader {
	return &SSEReader{
		reader: bufio.NewReader(body),
		body:   body,
	}
}

// Next returns the next event's name and data payload, or io.EOF when the
// stream is exhausted.
func (s *SSEReader) Next() (string, []byte, error) {
	var eventName string
	var data bytes.Buffer

	for {
		line, err := s.reader.ReadString('\n')

		if err != nil && err != io.EOF {
			return "", nil, err
		}

		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if data.Len() == 0 {
				if err == io.EOF {
					return "", nil, io.EOF
				}

				continue
			}

			return eventName, data.Bytes(), nil
		}

		if strings.HasPrefix(line, "event:") {
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		} else if strings.HasPrefix(line, "data:") {
			chunk := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			if data.Len() > 0 {
				data.WriteByte('\n')
			}

			data.WriteString(chunk)
		}

		if err == io.EOF {
			if data.Len() == 0 {
				return "", nil, io.EOF
			}

			return eventName, data.Bytes(), nil
		}
	}
}

func (s *SSEReader) Close() error {
	if s.body != nil {
		return s.body.Close()
	}

	return nil
}
