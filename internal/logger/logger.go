// Package logger provides the leveled logging used across confluence-client.
// The transport and the resource model log through the Logger interface so the
// CLI can switch between a silent and a verbose stderr logger with --debug.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the logging surface used by the client and the CLI.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)

	Info(msg string, args ...any)
	Infof(format string, args ...any)

	Warn(msg string, args ...any)
	Warnf(format string, args ...any)

	Error(msg string, args ...any)
	Errorf(format string, args ...any)
}

// NoopLogger discards everything. Resources fall back to it when their
// transport does not carry a logger.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any)  {}
func (NoopLogger) Debugf(string, ...any) {}
func (NoopLogger) Info(string, ...any)   {}
func (NoopLogger) Infof(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)   {}
func (NoopLogger) Warnf(string, ...any)  {}
func (NoopLogger) Error(string, ...any)  {}
func (NoopLogger) Errorf(string, ...any) {}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger returns a text logger on stderr at the given level.
func NewSlogLogger(level slog.Level) *SlogLogger {
	return NewWriterLogger(os.Stderr, level)
}

// NewWriterLogger returns a text logger writing to w.
func NewWriterLogger(w io.Writer, level slog.Level) *SlogLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

// NewDefaultLogger logs at debug level when debug is set and at warn level
// otherwise, so that normal CLI output is not interleaved with request logs.
func NewDefaultLogger(debug bool) Logger {
	if debug {
		return NewSlogLogger(slog.LevelDebug)
	}
	return NewSlogLogger(slog.LevelWarn)
}

// With returns a logger that adds the given attributes to every record,
// e.g. l.With("component", "transport").
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Debugf(format string, args ...any) {
	l.logger.Debug(sprintf(format, args...))
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Infof(format string, args ...any) {
	l.logger.Info(sprintf(format, args...))
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Warnf(format string, args ...any) {
	l.logger.Warn(sprintf(format, args...))
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Errorf(format string, args ...any) {
	l.logger.Error(sprintf(format, args...))
}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
