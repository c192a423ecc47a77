package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/movingavg/internal/config"
)

func TestNewLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestNewLoggerJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{
		Level:              "info",
		Format:             "none",
		FileLoggingEnabled: true,
		Directory:          dir,
		Filename:           "run.log",
		MaxSize:            1,
	}, &buf)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"to file"`)
	require.Empty(t, buf.String())
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := newLogger(config.LogConfig{Level: "info", Format: "none"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = newLogger(config.LogConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, lvl)

	lvl, err = parseLevel("loud")
	require.Error(t, err)
	require.Equal(t, zapcore.InfoLevel, lvl)
}
