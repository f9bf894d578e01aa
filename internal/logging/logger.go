// Package logging provides structured logging for neurones. It wraps Go's
// log/slog package to produce JSON-formatted logs, written by default to a
// size-rotated debug log under the neurones home directory so agent runs
// can be inspected after the fact without polluting console output.
package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels supported by the logger.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the debug log filename inside the neurones home directory.
const LogFileName = "debug.log"

// Logger provides structured logging with persistent attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	writer *RotatingWriter
	attrs  []slog.Attr
}

// New creates a Logger that writes JSON-formatted entries to logPath
// through a rotating writer. If logPath is empty, entries go to stderr.
func New(logPath string, level string) (*Logger, error) {
	var handler slog.Handler
	var writer *RotatingWriter

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if logPath != "" {
		rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
		if err != nil {
			return nil, err
		}
		writer = rw
		handler = slog.NewJSONHandler(rw, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return &Logger{logger: slog.New(handler), writer: writer}, nil
}

// Default creates the standard process logger writing to
// {homeDir}/debug.log at DEBUG level. If the file cannot be opened it
// silently falls back to stderr so logging never blocks a run.
func Default(homeDir string) *Logger {
	if homeDir != "" {
		if l, err := New(filepath.Join(homeDir, LogFileName), LevelDebug); err == nil {
			return l
		}
	}
	l, _ := New("", LevelDebug)
	return l
}

// Discard returns a logger that drops all entries. Used in tests.
func Discard() *Logger {
	handler := slog.NewJSONHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return &Logger{logger: slog.New(handler)}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// WithAgent returns a child Logger with the agent name added to all entries.
func (l *Logger) WithAgent(agentName string) *Logger {
	return l.withAttr(slog.String("agent", agentName))
}

// With returns a child Logger with arbitrary alternating key-value attributes.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}
	attrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	attrs = append(attrs, l.attrs...)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return &Logger{logger: l.logger, writer: l.writer, attrs: attrs}
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	attrs := make([]slog.Attr, len(l.attrs)+1)
	copy(attrs, l.attrs)
	attrs[len(l.attrs)] = attr
	return &Logger{logger: l.logger, writer: l.writer, attrs: attrs}
}

// Debug logs at DEBUG level with optional alternating key-value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }

// Info logs at INFO level with optional alternating key-value pairs.
func (l *Logger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }

// Warn logs at WARN level with optional alternating key-value pairs.
func (l *Logger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }

// Error logs at ERROR level with optional alternating key-value pairs.
func (l *Logger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	all := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		all = append(all, attr.Key, attr.Value.Any())
	}
	all = append(all, args...)
	l.logger.Log(context.Background(), level, msg, all...)
}

// Close flushes and closes the underlying log file. It is a no-op for
// stderr-backed and discard loggers.
func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// parseLevel converts a string log level to slog.Level, defaulting to INFO.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
