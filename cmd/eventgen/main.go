package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/movingavg/internal/event"
)

// DeliveryEvent matches the translation_delivered records movingavg reads.
type DeliveryEvent struct {
	Timestamp      string `json:"timestamp"`
	TranslationID  string `json:"translation_id"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	ClientName     string `json:"client_name"`
	EventName      string `json:"event_name"`
	NrWords        int    `json:"nr_words"`
	Duration       int    `json:"duration"`
}

type options struct {
	count       int
	start       time.Time
	maxGap      time.Duration
	maxDuration int
	seed        int64
}

var (
	clients   = []string{"airliberty", "taxi-eats", "booking-rocket", "easyjet"}
	languages = []string{"en", "fr", "pt", "de", "es"}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without os.Exit so the output file is closed and logs are
// flushed on every path.
func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("eventgen", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		count       = flags.Int("count", 100, "Number of events to generate")
		start       = flags.String("start", "2018-12-26 18:11:08", "Timestamp of the first event")
		maxGap      = flags.Int("max_gap_seconds", 120, "Maximum gap between consecutive events")
		maxDuration = flags.Int("max_duration", 60, "Maximum event duration")
		seed        = flags.Int64("seed", time.Now().UnixNano(), "Random seed")
		out         = flags.String("out", "", "Output file (default stdout)")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 2
	}

	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	))
	defer func() {
		_ = logger.Sync()
	}()

	startTime, err := time.Parse(event.TimestampLayout, *start)
	if err != nil {
		logger.Error("Invalid start timestamp", zap.String("start", *start), zap.Error(err))
		return 1
	}
	if *count < 0 || *maxGap < 0 || *maxDuration < 0 {
		logger.Error("count, max_gap_seconds and max_duration must not be negative")
		return 1
	}

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("Could not create output file", zap.String("path", *out), zap.Error(err))
			return 1
		}
		defer f.Close()
		w = f
	}

	opts := options{
		count:       *count,
		start:       startTime,
		maxGap:      time.Duration(*maxGap) * time.Second,
		maxDuration: *maxDuration,
		seed:        *seed,
	}
	if err := generate(w, opts); err != nil {
		logger.Error("Failed to write events", zap.Error(err))
		return 1
	}
	logger.Info("Events generated", zap.Int("count", opts.count), zap.Int64("seed", opts.seed))
	return 0
}

// generate writes opts.count sorted events as line-delimited JSON.
func generate(w io.Writer, opts options) error {
	rng := rand.New(rand.NewSource(opts.seed))
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	ts := opts.start
	for i := 0; i < opts.count; i++ {
		if i > 0 && opts.maxGap > 0 {
			ts = ts.Add(time.Duration(rng.Int63n(int64(opts.maxGap) + 1)))
		}
		if err := enc.Encode(sampleEvent(rng, ts, opts.maxDuration)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func sampleEvent(rng *rand.Rand, ts time.Time, maxDuration int) DeliveryEvent {
	src := languages[rng.Intn(len(languages))]
	dst := languages[rng.Intn(len(languages))]
	return DeliveryEvent{
		Timestamp:      ts.Format("2006-01-02 15:04:05.000000"),
		TranslationID:  fmt.Sprintf("%020x", rng.Uint64()),
		SourceLanguage: src,
		TargetLanguage: dst,
		ClientName:     clients[rng.Intn(len(clients))],
		EventName:      "translation_delivered",
		NrWords:        1 + rng.Intn(200),
		Duration:       rng.Intn(maxDuration + 1),
	}
}
