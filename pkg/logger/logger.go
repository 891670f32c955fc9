// Package logger provides the structured logger used by the exporter.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// Prefix is the default log prefix.
const Prefix = "shrexport"

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelNone:
		return "none"
	default:
		return ""
	}
}

// ParseLevel parses a level name (debug, info, warn, error, none).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError, LevelNone:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Logger provides leveled key-value logging.
type Logger struct {
	mu     sync.Mutex
	level  Level
	output io.Writer
	l      *log.Logger
}

var defaultLogger = New(os.Stderr, LevelInfo)

// Default returns the default logger.
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultLogger = l
}

// New creates a new logger writing to output.
func New(output io.Writer, level Level) *Logger {
	lg := &Logger{
		level:  level,
		output: output,
		l: log.NewWithOptions(output, log.Options{
			Prefix: Prefix,
			Level:  level.charm(),
		}),
	}
	if level == LevelNone {
		lg.l.SetOutput(io.Discard)
	}
	return lg
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.l.SetLevel(level.charm())
	if level == LevelNone {
		l.l.SetOutput(io.Discard)
	} else {
		l.l.SetOutput(l.output)
	}
}

// Level returns the current level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	if l.level != LevelNone {
		l.l.SetOutput(w)
	}
}

// SetFormat selects the output format: text, json or logfmt.
func (l *Logger) SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		l.l.SetFormatter(log.TextFormatter)
	case "json":
		l.l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.l.SetFormatter(log.LogfmtFormatter)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// With returns a child logger that adds keyvals to every record.
func (l *Logger) With(keyvals ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		level:  l.level,
		output: l.output,
		l:      l.l.With(keyvals...),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.l.Debug(msg, keyvals...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.l.Info(msg, keyvals...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.l.Warn(msg, keyvals...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.l.Error(msg, keyvals...)
}

// Package-level convenience functions.

// Debug logs a debug message using the default logger.
func Debug(msg string, keyvals ...any) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs an info message using the default logger.
func Info(msg string, keyvals ...any) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, keyvals ...any) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs an error message using the default logger.
func Error(msg string, keyvals ...any) {
	defaultLogger.Error(msg, keyvals...)
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Disable disables all logging.
func Disable() {
	defaultLogger.SetLevel(LevelNone)
}
