package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "movingavg"

// runMetrics describes one run. It owns a private registry so the CLI can
// dump exactly these series to a textfile.
type runMetrics struct {
	registry *prometheus.Registry

	eventsRead      prometheus.Counter
	recordsEmitted  *prometheus.CounterVec
	windowSize      prometheus.Gauge
	lastAverage     prometheus.Gauge
	computeDuration *prometheus.HistogramVec
	sinkFailures    *prometheus.CounterVec
}

func newRunMetrics() *runMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &runMetrics{
		registry: reg,
		eventsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_read_total",
			Help:      "Number of input events decoded.",
		}),
		recordsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_emitted_total",
			Help:      "Number of per-minute average records produced by an algorithm.",
		}, []string{"algorithm"}),
		windowSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "window_size_minutes",
			Help:      "Trailing window size used for the run.",
		}),
		lastAverage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_average",
			Help:      "Average of the final emitted minute (0 when nothing was emitted).",
		}),
		computeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent inside the moving average engine.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		sinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sink_failures_total",
			Help:      "Number of sinks that failed to accept the records.",
		}, []string{"sink"}),
	}
}

func (m *runMetrics) observeCompute(algorithm string, window, events, records int, lastAvg float64, took time.Duration) {
	m.eventsRead.Add(float64(events))
	m.recordsEmitted.WithLabelValues(algorithm).Add(float64(records))
	m.windowSize.Set(float64(window))
	m.lastAverage.Set(lastAvg)
	m.computeDuration.WithLabelValues(algorithm).Observe(took.Seconds())
}

// writeTextfile dumps the registry in the node_exporter textfile format.
func (m *runMetrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
