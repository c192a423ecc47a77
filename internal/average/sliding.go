package average

import (
	"github.com/gammazero/deque"

	"github.com/sanspareilsmyn/movingavg/internal/event"
)

type activeEvent struct {
	minute   Minute
	duration int64
}

// SlidingEngine keeps the events currently inside the trailing window in a
// FIFO buffer, admitting them as the sweep minute passes their own minute and
// evicting them once they fall more than window minutes behind.
//
// Each event is pushed and popped at most once, so the sweep is O(T*M) with
// O(W) buffer residency, W being the average number of events per window.
type SlidingEngine struct{}

func (SlidingEngine) Compute(events []event.Event, window int) []Record {
	if len(events) == 0 {
		return []Record{}
	}

	first := MinuteOf(events[0].Timestamp)
	last := MinuteOf(events[len(events)-1].Timestamp)
	records := make([]Record, 0, Span(first, last))

	var (
		active       deque.Deque[activeEvent]
		total, count int64
	)

	ct := first
	next := 0
	for next < len(events) {
		// Evict everything that has slid out of the window.
		for active.Len() > 0 && int64(ct-active.Front().minute) > int64(window) {
			old := active.PopFront()
			total -= old.duration
			count--
		}

		m := MinuteOf(events[next].Timestamp)
		if m < ct {
			if int64(ct-m) <= int64(window) {
				active.PushBack(activeEvent{minute: m, duration: events[next].Duration})
				total += events[next].Duration
				count++
			}
			next++

			// Fold every event of the same minute in before emitting.
			if next < len(events) && MinuteOf(events[next].Timestamp) == m {
				continue
			}
		}

		records = append(records, Record{Minute: ct.Time(), Average: mean(total, count)})
		ct++
	}
	return records
}
