// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels.
//
// Messages go through log/slog. By default they are written as text to
// stderr; Init switches to JSON and/or a size-rotated file.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("starting grid")
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// LevelTrace is the slog level used for Tracef.
const LevelTrace = slog.LevelDebug - 4

func (l Level) slog() slog.Level {
	switch {
	case l <= Error:
		return slog.LevelError
	case l == Info:
		return slog.LevelInfo
	case l == Debug:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel maps "error", "info", "debug" or "trace" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return Error, nil
	case "", "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "trace":
		return Trace, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

// Config selects the output of the package logger.
type Config struct {
	Level      Level
	JSON       bool   // JSON handler instead of text
	File       string // when set, log to this file with rotation
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	level  = new(slog.LevelVar)
	active atomic.Pointer[slog.Logger]
	closer io.Closer
)

func init() {
	level.Set(Info.slog())
	active.Store(slog.New(newHandler(os.Stderr, false)))
}

func newHandler(w io.Writer, json bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lv, ok := a.Value.Any().(slog.Level); ok && lv <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Init configures the handler, level and destination. It may be called
// again; a previously opened log file is closed.
func Init(cfg Config) error {
	var w io.Writer = os.Stderr
	var c io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		w, c = lj, lj
	}

	level.Set(cfg.Level.slog())
	active.Store(slog.New(newHandler(w, cfg.JSON)))

	if closer != nil {
		if err := closer.Close(); err != nil {
			closer = c
			return fmt.Errorf("close previous log file: %w", err)
		}
	}
	closer = c
	return nil
}

// SetOutput redirects logging to w with a text handler, mainly for tests.
func SetOutput(w io.Writer) {
	active.Store(slog.New(newHandler(w, false)))
}

// SetVerbosity sets the global logging verbosity.
// Typically called once during application startup
// (e.g. after parsing CLI flags).
func SetVerbosity(v int) {
	level.Set(Level(v).slog())
}

// With returns a structured logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return active.Load().With(args...)
}

func logf(l slog.Level, format string, args ...any) {
	lg := active.Load()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	logf(LevelTrace, format, args...)
}
