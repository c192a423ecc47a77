package average

import "github.com/sanspareilsmyn/movingavg/internal/event"

// delta is a scheduled change to the running total: a duration entering
// (count +1) or leaving (count -1) the window.
type delta struct {
	duration int64
	count    int64
}

// DeltaEngine precomputes, for every event, the minute its duration enters
// the running total and the minute it leaves, then replays those deltas while
// sweeping minute by minute.
//
// Building the schedule is O(E); the sweep is O(T*M) where T is the number of
// output minutes and M the average number of deltas per minute.
type DeltaEngine struct{}

func (DeltaEngine) Compute(events []event.Event, window int) []Record {
	if len(events) == 0 {
		return []Record{}
	}

	schedule := buildSchedule(events, window)

	first := MinuteOf(events[0].Timestamp)
	last := MinuteOf(events[len(events)-1].Timestamp).Add(1)

	records := make([]Record, 0, Span(first, last-1))
	var total, count int64
	for ct := first; ct <= last; ct++ {
		for _, d := range schedule[ct] {
			total += d.duration
			count += d.count
		}
		records = append(records, Record{Minute: ct.Time(), Average: mean(total, count)})
	}
	return records
}

// buildSchedule maps each minute to the deltas applied when the sweep reaches it.
// An event at minute m enters at m+1 and leaves at m+window+1; with a zero
// window both land on the same minute and cancel out.
func buildSchedule(events []event.Event, window int) map[Minute][]delta {
	schedule := make(map[Minute][]delta, 2*len(events))
	for _, ev := range events {
		m := MinuteOf(ev.Timestamp)
		enter := m.Add(1)
		leave := m.Add(window + 1)
		schedule[enter] = append(schedule[enter], delta{duration: ev.Duration, count: 1})
		schedule[leave] = append(schedule[leave], delta{duration: -ev.Duration, count: -1})
	}
	return schedule
}
