// Package logger provides structured logging and metrics tracking for vax-slots.
//
// The logger supports multiple log levels (DEBUG, INFO, WARN, ERROR) and writes either
// human-readable text or JSON through charm's log package. Fields are passed as a map
// and emitted as sorted key/value pairs so output is stable between runs.
//
// Metrics tracking includes counters (incrementing values), gauges (point-in-time values),
// and timings (duration measurements) with automatic statistical aggregation.
//
// Example usage:
//
//	logger.Info("Fetched locations", logger.Fields{
//	    "count": 42,
//	})
//
//	logger.Error("Poll cycle failed", logger.Fields{
//	    "url": url,
//	}, err)
//
//	logger.IncrCounter("poll.cycles")
//	logger.RecordTiming("poll.fetch", duration)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"charm.land/log/v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects how log lines are rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Logger provides structured logging
type Logger struct {
	minLevel Level
	backend  *log.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a text logger with the specified minimum log level and output destination.
// Messages below the minimum level will be discarded.
func New(level Level, output io.Writer) *Logger {
	return NewWithFormat(level, output, FormatText)
}

// NewWithFormat creates a logger that renders lines in the given format
func NewWithFormat(level Level, output io.Writer, format Format) *Logger {
	opts := log.Options{
		Level:           backendLevel(level),
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	}
	if format == FormatJSON {
		opts.Formatter = log.JSONFormatter
	}

	return &Logger{
		minLevel: level,
		backend:  log.NewWithOptions(output, opts),
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn:
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level: %q", s)
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error).
func SetDefault(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

func getDefault() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func backendLevel(level Level) log.Level {
	switch level {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	keyvals := fields.keyvals()
	if err != nil {
		keyvals = append(keyvals, "error", err.Error())
	}

	switch level {
	case LevelDebug:
		l.backend.Debug(message, keyvals...)
	case LevelInfo:
		l.backend.Info(message, keyvals...)
	case LevelWarn:
		l.backend.Warn(message, keyvals...)
	case LevelError:
		l.backend.Error(message, keyvals...)
	}
}

// keyvals flattens fields into sorted key/value pairs
func (f Fields) keyvals() []interface{} {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]interface{}, 0, 2*len(keys)+2)
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}

// shouldLog determines if a message should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}

	return levels[level] >= levels[l.minLevel]
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	getDefault().Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	getDefault().Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	getDefault().Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	getDefault().Error(message, fields, err)
}
