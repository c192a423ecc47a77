package event

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the input timestamp layout. Fractional seconds are optional.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// Event is a single timed occurrence carrying a duration.
// Duration units are opaque to the engines; they only sum and divide.
type Event struct {
	Timestamp time.Time
	Duration  int64
}

// rawEvent mirrors one input line. Every other field in the line is ignored.
type rawEvent struct {
	Timestamp *string         `json:"timestamp"`
	Duration  json.RawMessage `json:"duration"`
}

// parseTimestamp parses an input timestamp as UTC.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseDuration accepts a JSON integer, a float with or without a fractional
// part (truncated toward zero), or a string holding an integer.
func parseDuration(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing duration")
	}

	var d int64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid duration %s: %w", raw, err)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d = v
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, fmt.Errorf("invalid duration %s: %w", raw, err)
		}
		if v, err := n.Int64(); err == nil {
			d = v
			break
		}
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
			return 0, fmt.Errorf("invalid duration %s", raw)
		}
		d = int64(f)
	}

	if d < 0 {
		return 0, fmt.Errorf("negative duration %d", d)
	}
	return d, nil
}

// ParseLine decodes one JSON line into an Event.
// It returns ErrMalformedInput (wrapping the cause) if the line cannot be used.
func ParseLine(data []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if raw.Timestamp == nil {
		return Event{}, fmt.Errorf("%w: missing timestamp", ErrMalformedInput)
	}

	ts, err := parseTimestamp(*raw.Timestamp)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	d, err := parseDuration(raw.Duration)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}

	return Event{Timestamp: ts, Duration: d}, nil
}

// IsSorted reports whether events are in non-decreasing timestamp order.
func IsSorted(events []Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			return false
		}
	}
	return true
}
