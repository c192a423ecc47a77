package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sanspareilsmyn/movingavg/internal/config"
	"github.com/sanspareilsmyn/movingavg/internal/logging"
	"github.com/sanspareilsmyn/movingavg/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without os.Exit so deferred flushes happen before exiting.
func run(args []string, stdout, stderr io.Writer) int {
	// Initialize Configuration
	flags := pflag.NewFlagSet("movingavg", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.Flags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: Invalid configuration: %v\n", err)
		return 1
	}

	// Initialize Logger
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Debugw("Configuration loaded",
		"input_file", cfg.InputFile,
		"window_size", cfg.WindowSize,
		"algorithm", cfg.Algorithm,
	)

	runner, err := pipeline.New(cfg, stdout, logger)
	if err != nil {
		sugar.Errorw("Failed to initialize runner", "error", err)
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	defer func() {
		if err := runner.Close(); err != nil {
			sugar.Warnw("Runner close reported errors", "error", err)
		}
	}()

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := runner.Run(ctx)
	switch {
	case runErr == nil:
		sugar.Debug("Run completed without error.")
		return 0
	case errors.Is(runErr, context.Canceled):
		sugar.Warn("Run cancelled before completion.")
		fmt.Fprintln(stderr, "FATAL: interrupted")
		return 130
	default:
		sugar.Errorw("Run failed", "error", runErr)
		fmt.Fprintf(stderr, "FATAL: %v\n", runErr)
		return 1
	}
}
