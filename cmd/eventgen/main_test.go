package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/movingavg/internal/average"
	"github.com/sanspareilsmyn/movingavg/internal/event"
)

func TestGenerateFeedsBothEngines(t *testing.T) {
	var buf bytes.Buffer
	err := generate(&buf, options{
		count:       300,
		start:       time.Date(2018, 12, 26, 18, 11, 8, 0, time.UTC),
		maxGap:      90 * time.Second,
		maxDuration: 60,
		seed:        7,
	})
	require.NoError(t, err)

	events, err := event.Read(&buf)
	require.NoError(t, err)
	require.Len(t, events, 300)
	require.True(t, event.IsSorted(events))

	for _, window := range []int{0, 1, 10} {
		delta := average.DeltaEngine{}.Compute(events, window)
		sliding := average.SlidingEngine{}.Compute(events, window)
		require.Equal(t, delta, sliding, "window %d", window)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	opts := options{count: 20, start: time.Date(2018, 12, 26, 18, 0, 0, 0, time.UTC), maxGap: time.Minute, maxDuration: 10, seed: 42}

	var a, b bytes.Buffer
	require.NoError(t, generate(&a, opts))
	require.NoError(t, generate(&b, opts))
	require.Equal(t, a.String(), b.String())
}

func TestRun(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, run([]string{"--count", "5", "--seed", "1"}, &stdout, &stderr))

		events, err := event.Read(&stdout)
		require.NoError(t, err)
		require.Len(t, events, 5)
		require.Contains(t, stderr.String(), "Events generated")
	})

	t.Run("output file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "events.json")
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, run([]string{"--count", "3", "--seed", "1", "--out", out}, &stdout, &stderr))
		require.Empty(t, stdout.String())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)
	})

	failures := []struct {
		name string
		args []string
		code int
	}{
		{name: "bad start", args: []string{"--start", "yesterday"}, code: 1},
		{name: "negative count", args: []string{"--count", "-1"}, code: 1},
		{name: "unwritable output", args: []string{"--out", filepath.Join(t.TempDir(), "missing", "events.json")}, code: 1},
		{name: "unknown flag", args: []string{"--bogus"}, code: 2},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, tt.code, run(tt.args, &stdout, &stderr))
			require.Empty(t, stdout.String())
			require.NotEmpty(t, stderr.String())
		})
	}
}
