package output

import (
	"github.com/samber/lo"

	"github.com/sanspareilsmyn/movingavg/internal/average"
)

// DateLayout renders a record's minute; seconds are always zero.
const DateLayout = "2006-01-02 15:04:05"

// Line is the serialized form of one average record.
type Line struct {
	Date                string  `json:"date"`
	AverageDeliveryTime float64 `json:"average_delivery_time"`
}

// FromRecord converts an engine record to its output line.
func FromRecord(r average.Record) Line {
	return Line{
		Date:                r.Minute.UTC().Format(DateLayout),
		AverageDeliveryTime: r.Average,
	}
}

// Lines converts records in order.
func Lines(records []average.Record) []Line {
	return lo.Map(records, func(r average.Record, _ int) Line {
		return FromRecord(r)
	})
}
