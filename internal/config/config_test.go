package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func TestLoadDefaults(t *testing.T) {
	input := writeFile(t, "events.json", "")

	cfg, err := load(t, "--input_file", input, "--window_size", "10")
	require.NoError(t, err)
	require.Equal(t, input, cfg.InputFile)
	require.Equal(t, 10, cfg.WindowSize)
	require.Equal(t, defaultAlgorithm, cfg.Algorithm)
	require.Equal(t, defaultLogLevel, cfg.Log.Level)
	require.Equal(t, defaultLogFormat, cfg.Log.Format)
	require.Equal(t, defaultLogFilename, cfg.Log.Filename)
	require.Equal(t, defaultKafkaBatchSize, cfg.Kafka.BatchSize)
	require.False(t, cfg.Kafka.Enabled())
	require.Empty(t, cfg.Metrics.Textfile)
}

func TestLoadFlags(t *testing.T) {
	input := writeFile(t, "events.json", "")

	cfg, err := load(t,
		"--input_file", input,
		"--window_size", "0",
		"--algorithm", "queue",
		"--log_level", "debug",
		"--metrics_textfile", "/tmp/movingavg.prom",
		"--kafka_brokers", "k1:9092,k2:9092",
		"--kafka_topic", "averages",
	)
	require.NoError(t, err)
	require.Equal(t, 0, cfg.WindowSize)
	require.Equal(t, "queue", cfg.Algorithm)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/movingavg.prom", cfg.Metrics.Textfile)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "averages", cfg.Kafka.Topic)
	require.True(t, cfg.Kafka.Enabled())
}

func TestLoadPrecedence(t *testing.T) {
	input := writeFile(t, "events.json", "")
	file := writeFile(t, "config.yaml", `
input_file: `+input+`
window_size: 5
algorithm: queue
log:
  level: warn
  format: json
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := load(t, "--config", file)
		require.NoError(t, err)
		require.Equal(t, 5, cfg.WindowSize)
		require.Equal(t, "queue", cfg.Algorithm)
		require.Equal(t, "warn", cfg.Log.Level)
		require.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("MOVINGAVG_WINDOW_SIZE", "7")
		cfg, err := load(t, "--config", file)
		require.NoError(t, err)
		require.Equal(t, 7, cfg.WindowSize)
	})

	t.Run("flag over env", func(t *testing.T) {
		t.Setenv("MOVINGAVG_WINDOW_SIZE", "7")
		cfg, err := load(t, "--config", file, "--window_size", "3")
		require.NoError(t, err)
		require.Equal(t, 3, cfg.WindowSize)
	})
}

func TestLoadErrors(t *testing.T) {
	input := writeFile(t, "events.json", "")

	t.Run("missing input", func(t *testing.T) {
		_, err := load(t, "--input_file", filepath.Join(t.TempDir(), "nope.json"))
		require.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("no input", func(t *testing.T) {
		_, err := load(t)
		require.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("input is a directory", func(t *testing.T) {
		_, err := load(t, "--input_file", t.TempDir())
		require.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("missing window", func(t *testing.T) {
		_, err := load(t, "--input_file", input)
		require.ErrorIs(t, err, ErrMissingWindow)
	})

	t.Run("negative window", func(t *testing.T) {
		_, err := load(t, "--input_file", input, "--window_size", "-1")
		require.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("empty algorithm", func(t *testing.T) {
		_, err := load(t, "--input_file", input, "--window_size", "10", "--algorithm", "")
		require.ErrorIs(t, err, ErrEmptyAlgorithm)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := load(t, "--input_file", input, "--window_size", "10", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, ErrConfigFileMissing)
	})

	t.Run("topic without brokers", func(t *testing.T) {
		_, err := load(t, "--input_file", input, "--window_size", "10", "--kafka_topic", "averages")
		require.ErrorIs(t, err, ErrIncompleteKafkaConfig)
	})
}
