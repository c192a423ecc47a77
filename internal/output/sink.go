package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sanspareilsmyn/movingavg/internal/average"
)

// Sink delivers computed records somewhere.
type Sink interface {
	Write(ctx context.Context, records []average.Record) error
	Close() error
}

// StreamSink writes each record as one JSON object per line.
type StreamSink struct {
	w io.Writer
}

// NewStreamSink creates a sink writing to w. Closing it does not close w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Write(ctx context.Context, records []average.Record) error {
	bw := bufio.NewWriter(s.w)
	enc := json.NewEncoder(bw)

	for i, line := range Lines(records) {
		// Large outputs can take a while; honour cancellation periodically.
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

func (s *StreamSink) Close() error { return nil }
