package average

import "time"

// Minute is a whole minute counted from the Unix epoch, in UTC.
// It is the unit of both bucketing and output sampling.
type Minute int64

// MinuteOf floors t to the minute it falls in.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Truncate(time.Minute).Unix() / 60)
}

// Time returns the UTC instant at the start of m.
func (m Minute) Time() time.Time {
	return time.Unix(int64(m)*60, 0).UTC()
}

// Add returns m shifted by n minutes.
func (m Minute) Add(n int) Minute {
	return m + Minute(n)
}

// Span returns how many records a sweep over [first, last+1] emits.
func Span(first, last Minute) int {
	return int(last-first) + 2
}

func mean(total, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return float64(total) / float64(count)
}
