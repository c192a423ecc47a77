package average

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMinuteOf(t *testing.T) {
	ts := time.Date(2018, 12, 26, 18, 11, 8, 509654000, time.UTC)
	m := MinuteOf(ts)

	require.Equal(t, time.Date(2018, 12, 26, 18, 11, 0, 0, time.UTC), m.Time())
	require.Equal(t, m, MinuteOf(m.Time()))
	require.Equal(t, time.Date(2018, 12, 26, 18, 12, 0, 0, time.UTC), m.Add(1).Time())
	require.Equal(t, m-3, m.Add(-3))
}

func TestSpan(t *testing.T) {
	m := MinuteOf(base)
	require.Equal(t, 2, Span(m, m))
	require.Equal(t, 5, Span(m, m.Add(3)))
}

func TestMean(t *testing.T) {
	require.Zero(t, mean(0, 0))
	require.Zero(t, mean(10, 0))
	require.Equal(t, 2.5, mean(5, 2))
}
