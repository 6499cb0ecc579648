// Package logger is a thin package-level facade over log/slog.
//
// Nothing is logged until Initialize is called, so library packages can log
// freely without forcing tests or embedders to configure output.
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

var current atomic.Pointer[slog.Logger]

// Initialize builds the handlers described by config and installs them.
// The returned closer releases the log file, if any.
func Initialize(config Config) (io.Closer, error) {
	level := parseLogLevel(config.Level)

	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if config.Console() {
		handlers = append(handlers, newHandler(os.Stdout, config.ConsoleFormat, level))
	}

	if config.FileEnabled {
		if config.FilePath == "" {
			return nil, fmt.Errorf("logger: file output enabled without a file path")
		}
		rotating := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.FileMaxSizeMB,
			MaxBackups: config.FileMaxBackups,
			MaxAge:     config.FileMaxAgeDays,
		}
		handlers = append(handlers, newHandler(rotating, config.FileFormat, level))
		closer = rotating
	}

	if len(handlers) == 0 {
		handlers = append(handlers, newHandler(os.Stdout, "text", level))
	}

	if len(handlers) == 1 {
		SetLogger(slog.New(handlers[0]))
	} else {
		SetLogger(slog.New(newMultiHandler(handlers...)))
	}
	return closer, nil
}

// SetLogger installs l as the package logger. A nil l silences logging.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the installed logger, or nil before Initialize.
func Logger() *slog.Logger {
	return current.Load()
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func log(level slog.Level, msg string, args ...any) {
	if l := current.Load(); l != nil {
		l.Log(context.Background(), level, msg, args...)
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) { log(slog.LevelDebug, msg, args...) }

// Debugf logs a formatted debug message
func Debugf(format string, args ...any) { Debug(fmt.Sprintf(format, args...)) }

// Info logs an info message
func Info(msg string, args ...any) { log(slog.LevelInfo, msg, args...) }

// Infof logs a formatted info message
func Infof(format string, args ...any) { Info(fmt.Sprintf(format, args...)) }

// Warning logs a warning message
func Warning(msg string, args ...any) { log(slog.LevelWarn, msg, args...) }

// Warningf logs a formatted warning message
func Warningf(format string, args ...any) { Warning(fmt.Sprintf(format, args...)) }

// Error logs an error message
func Error(msg string, args ...any) { log(slog.LevelError, msg, args...) }

// Errorf logs a formatted error message
func Errorf(format string, args ...any) { Error(fmt.Sprintf(format, args...)) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans records out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}
