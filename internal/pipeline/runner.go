package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/movingavg/internal/average"
	"github.com/sanspareilsmyn/movingavg/internal/config"
	"github.com/sanspareilsmyn/movingavg/internal/event"
	"github.com/sanspareilsmyn/movingavg/internal/output"
)

type namedSink struct {
	name string
	sink output.Sink
}

// Runner wires the stages of one batch run: reading events, computing the
// moving average and delivering the records to every configured sink.
type Runner struct {
	cfg     *config.Config
	engine  average.Engine
	sinks   []namedSink
	metrics *runMetrics
	logger  *zap.Logger
}

// Option customises a Runner.
type Option func(*Runner)

// WithSink adds an extra sink after the built-in ones.
func WithSink(name string, s output.Sink) Option {
	return func(r *Runner) {
		r.sinks = append(r.sinks, namedSink{name: name, sink: s})
	}
}

// New resolves the configured engine and builds the sinks: stdout always,
// Kafka when configured.
func New(cfg *config.Config, stdout io.Writer, logger *zap.Logger, opts ...Option) (*Runner, error) {
	initLogger := logger.Named("pipeline.init")

	engine, err := average.New(cfg.Algorithm)
	if err != nil {
		initLogger.Error("Unknown algorithm requested",
			zap.String("algorithm", cfg.Algorithm),
			zap.Strings("valid", average.Algorithms()),
		)
		return nil, fmt.Errorf("%w: %w", ErrEngineSelection, err)
	}
	initLogger.Debug("Engine selected", zap.String("algorithm", cfg.Algorithm))

	r := &Runner{
		cfg:     cfg,
		engine:  engine,
		sinks:   []namedSink{{name: "stdout", sink: output.NewStreamSink(stdout)}},
		metrics: newRunMetrics(),
		logger:  logger.Named("pipeline"),
	}

	if cfg.Kafka.Enabled() {
		ks, err := output.NewKafkaSink(cfg.Kafka, logger.Named("sink.kafka"))
		if err != nil {
			initLogger.Error("Failed to create Kafka sink", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrSinkCreationFailed, err)
		}
		r.sinks = append(r.sinks, namedSink{name: "kafka", sink: ks})
		initLogger.Debug("Kafka sink created")
	}

	for _, opt := range opts {
		opt(r)
	}

	initLogger.Info("Runner created",
		zap.String("algorithm", cfg.Algorithm),
		zap.Int("window_size", cfg.WindowSize),
		zap.Int("sinks", len(r.sinks)),
	)
	return r, nil
}

// Run executes the batch once. The context is checked between stages; the
// engine itself runs to completion once started.
func (r *Runner) Run(ctx context.Context) error {
	sugar := r.logger.Sugar()

	events, err := event.ReadFile(r.cfg.InputFile)
	if err != nil {
		r.logger.Error("Failed to read input", zap.String("path", r.cfg.InputFile), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	sugar.Infow("Input decoded", "path", r.cfg.InputFile, "events", len(events))

	if !event.IsSorted(events) {
		sugar.Warnw("Input events are not sorted by timestamp; output is undefined",
			"path", r.cfg.InputFile,
		)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	records := r.engine.Compute(events, r.cfg.WindowSize)
	took := time.Since(start)

	lastAvg := 0.0
	if len(records) > 0 {
		lastAvg = records[len(records)-1].Average
	}
	r.metrics.observeCompute(r.cfg.Algorithm, r.cfg.WindowSize, len(events), len(records), lastAvg, took)
	r.logger.Info("Moving average computed",
		zap.String("algorithm", r.cfg.Algorithm),
		zap.Int("window_size", r.cfg.WindowSize),
		zap.Int("records", len(records)),
		zap.Duration("took", took),
	)

	deliverErr := r.deliver(ctx, records)

	// Metrics describe the run even when delivery failed.
	if err := r.writeMetrics(); err != nil {
		return errors.Join(deliverErr, err)
	}
	return deliverErr
}

func (r *Runner) deliver(ctx context.Context, records []average.Record) error {
	sugar := r.logger.Sugar()
	for _, ns := range r.sinks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ns.sink.Write(ctx, records); err != nil {
			r.metrics.sinkFailures.WithLabelValues(ns.name).Inc()
			r.logger.Error("Sink failed", zap.String("sink", ns.name), zap.Error(err))
			return fmt.Errorf("%w: %s: %w", ErrSinkFailed, ns.name, err)
		}
		sugar.Debugw("Records delivered", "sink", ns.name, "records", len(records))
	}
	return nil
}

func (r *Runner) writeMetrics() error {
	path := r.cfg.Metrics.Textfile
	if path == "" {
		return nil
	}
	if err := r.metrics.writeTextfile(path); err != nil {
		r.logger.Error("Failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrMetricsWriteFailed, err)
	}
	r.logger.Debug("Metrics textfile written", zap.String("path", path))
	return nil
}

// Close releases every sink, returning all close errors joined.
func (r *Runner) Close() error {
	var errs []error
	for _, ns := range r.sinks {
		if err := ns.sink.Close(); err != nil {
			r.logger.Warn("Failed to close sink", zap.String("sink", ns.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ns.name, err))
		}
	}
	return errors.Join(errs...)
}
