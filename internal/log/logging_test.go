package log

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "trace", want: LevelTrace},
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

// captureHandler records the levels of handled records.
type captureHandler struct{ levels *[]slog.Level }

func (c captureHandler) Enabled(ctx context.Context, level slog.Level) bool { return true }
func (c captureHandler) Handle(ctx context.Context, r slog.Record) error {
	*c.levels = append(*c.levels, r.Level)
	return nil
}
func (c captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return c }
func (c captureHandler) WithGroup(name string) slog.Handler       { return c }

func TestLevelFilterSplitsErrors(t *testing.T) {
	var normal, errs []slog.Level
	logger := slog.New(fanoutHandler{hs: []slog.Handler{
		levelFilter{pass: belowError, h: captureHandler{levels: &normal}},
		levelFilter{pass: errorsOnly, h: captureHandler{levels: &errs}},
	}})

	logger.Info("pulled up")
	logger.Warn("writer went away")
	logger.Error("pullup failed")

	assert.Equal(t, []slog.Level{slog.LevelInfo, slog.LevelWarn}, normal)
	assert.Equal(t, []slog.Level{slog.LevelError}, errs)
}

func TestSetupLoggerAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gadgetd.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	logger, closers, err := SetupLogger("info", path)
	require.NoError(t, err)
	logger.Info("daemon started")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous run")
	assert.Contains(t, string(data), "daemon started")
}

func TestSetupLoggerBadFilePath(t *testing.T) {
	_, _, err := SetupLogger("info", filepath.Join(t.TempDir(), "missing", "gadgetd.log"))
	assert.Error(t, err)
}
