// Package log builds the slog.Logger used by the gadgetd daemon and its
// client subcommands.
//
// Without a log file, records go to stdout with error-level records split
// onto stderr. With a log file, records append to the file (the daemon is
// long-running; truncating on restart would destroy the history of previous
// composition attempts) and error-level records are still mirrored to stderr
// so an init system captures failures without tailing the file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug, selectable via --log.level=trace when
// per-event noise like watcher deliveries is wanted.
const LevelTrace slog.Level = -8

// ParseLevel maps the --log.level flag value to a slog level. Unknown values
// fall back to Info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanoutHandler duplicates records to every underlying handler.
type fanoutHandler struct{ hs []slog.Handler }

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.hs {
		_ = h.Handle(ctx, r)
	}
	return nil
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		out[i] = h.WithAttrs(attrs)
	}
	return fanoutHandler{hs: out}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(f.hs))
	for i, h := range f.hs {
		out[i] = h.WithGroup(name)
	}
	return fanoutHandler{hs: out}
}

// levelFilter passes only records accepted by the predicate to the
// underlying handler.
type levelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (f levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.pass(level) && f.h.Enabled(ctx, level)
}

func (f levelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}

func (f levelFilter) WithGroup(name string) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

func errorsOnly(l slog.Level) bool { return l >= slog.LevelError }
func belowError(l slog.Level) bool { return l < slog.LevelError }

// SetupLogger builds the gadgetd logger per the package doc. The returned
// closers belong to the caller and are closed on shutdown.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)
	var handlers []slog.Handler
	var closeFiles []io.Closer

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closeFiles = append(closeFiles, f)
		handlers = append(handlers,
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
			levelFilter{pass: errorsOnly, h: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})},
		)
	} else {
		handlers = append(handlers,
			levelFilter{pass: belowError, h: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})},
			levelFilter{pass: errorsOnly, h: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})},
		)
	}

	return slog.New(fanoutHandler{hs: handlers}), closeFiles, nil
}
