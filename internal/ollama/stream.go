package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// stream reads newline-delimited generate records off the response body.
// Each valid line becomes one Fragment; malformed lines are logged and
// skipped. The sequence ends when a done record is observed or the transport
// stream ends, whichever comes first.
type stream struct {
	body    io.ReadCloser
	cancel  context.CancelFunc
	scanner *bufio.Scanner
	done    bool
	logger  zerolog.Logger
}

func newStream(body io.ReadCloser, cancel context.CancelFunc, logger zerolog.Logger) *stream {
	scanner := bufio.NewScanner(body)
	// Generate records are normally short, but leave headroom for long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &stream{
		body:    body,
		cancel:  cancel,
		scanner: scanner,
		logger:  logger,
	}
}

// Next returns the next fragment in arrival order. After the done record or
// transport end it returns io.EOF on every call.
func (s *stream) Next() (Fragment, error) {
	if s.done {
		return Fragment{}, io.EOF
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec generateResponse
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Warn().
				Str("line", string(line)).
				Msg("Failed to parse streaming record, skipping")
			continue
		}

		if rec.Done {
			s.done = true
			return Fragment{Content: rec.Response, Final: true}, nil
		}
		return Fragment{Content: rec.Response}, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		return Fragment{}, fmt.Errorf("reading ollama stream: %w", err)
	}
	return Fragment{}, io.EOF
}

// Close releases the transport connection. Safe to call more than once.
func (s *stream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.body.Close()
}
