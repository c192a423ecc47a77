package average

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/sanspareilsmyn/movingavg/internal/event"
)

const (
	AlgorithmHashMap = "hash_map"
	AlgorithmQueue   = "queue"

	DefaultAlgorithm = AlgorithmHashMap
)

// Record is the trailing-window average sampled at one minute.
type Record struct {
	Minute  time.Time
	Average float64
}

// Engine computes per-minute trailing averages over time-ordered events.
//
// For every emitted minute CT the average covers the events whose minute m
// satisfies CT-window <= m <= CT-1, or is 0 if there are none. One record is
// emitted per minute from the first event's minute through one minute past the
// last event's minute. Events must be sorted by timestamp; engines do not
// re-sort. Engines keep no state between calls.
type Engine interface {
	Compute(events []event.Event, window int) []Record
}

var engines = map[string]func() Engine{
	AlgorithmHashMap: func() Engine { return DeltaEngine{} },
	AlgorithmQueue:   func() Engine { return SlidingEngine{} },
}

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	factory, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}
	return factory(), nil
}

// Algorithms lists the registered engine names in sorted order.
func Algorithms() []string {
	names := lo.Keys(engines)
	slices.Sort(names)
	return names
}
