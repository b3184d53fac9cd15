// Package logging provides the leveled logger used across the pipeline,
// backed by log/slog with a tint handler for colored terminal output and an
// optional plain-text file sink.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Weixin07/Webm2Gif/internal/config"
	"github.com/Weixin07/Webm2Gif/internal/term"
)

// LevelSuccess sits between Info and Warn so successful conversions stand
// out from progress chatter without being warnings.
const LevelSuccess = slog.Level(2)

// Logger wraps slog with the printf-style leveled methods the pipeline uses.
type Logger struct {
	sl   *slog.Logger
	file *os.File
}

// New builds a Logger from cfg. Terminal output goes to stderr via tint;
// when cfg.LogFile is set, a plain text copy is appended there as well.
// Call Close when done if LogFile was set.
func New(cfg *config.Config) (*Logger, error) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:       level,
			NoColor:     !term.Enabled(),
			TimeFormat:  time.TimeOnly,
			ReplaceAttr: replaceLevelNames,
		}),
	}

	l := &Logger{}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevelNames,
		}))
	}

	l.sl = slog.New(fanoutHandler(handlers))
	return l, nil
}

// replaceLevelNames renders the custom success level as "OK" instead of
// slog's default "INFO+2".
func replaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelSuccess {
			a.Value = slog.StringValue("OK")
		}
	}
	return a
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.sl.Info(fmt.Sprintf(format, args...))
}

// Success logs at the success level.
func (l *Logger) Success(format string, args ...interface{}) {
	l.sl.Log(context.Background(), LevelSuccess, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sl.Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.sl.Error(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; suppressed unless verbose mode enabled it.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sl.Debug(fmt.Sprintf(format, args...))
}

// --- slog fanout ---

// multiHandler dispatches records to every wrapped handler (terminal + file).
type multiHandler []slog.Handler

func fanoutHandler(hs []slog.Handler) slog.Handler {
	if len(hs) == 1 {
		return hs[0]
	}
	return multiHandler(hs)
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
