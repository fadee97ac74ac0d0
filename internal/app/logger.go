package app

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger is the printf-style logger used by services
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// LogLevel is the minimum severity written to stderr
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// DefaultLogLevel matches the stderr_level default
const DefaultLogLevel = LevelWarn

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLogLevel parses a stderr_level value. Empty means the default.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLogLevel, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return DefaultLogLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// FormatLine renders one stderr log line
func FormatLine(level LogLevel, format string, args ...interface{}) string {
	return fmt.Sprintf("pulse: %s: %s\n", level, fmt.Sprintf(format, args...))
}

// stderrLogger is used until the CLI installs its configured logger
type stderrLogger struct {
	min    LogLevel
	output io.Writer
}

func (l *stderrLogger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.min {
		return
	}
	io.WriteString(l.output, FormatLine(level, format, args...))
}

func (l *stderrLogger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *stderrLogger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *stderrLogger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *stderrLogger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NopLogger discards everything
func NopLogger() Logger {
	return nopLogger{}
}

var globalLogger Logger = &stderrLogger{min: DefaultLogLevel, output: os.Stderr}

// SetLogger replaces the process-wide logger. nil is ignored.
func SetLogger(logger Logger) {
	if logger != nil {
		globalLogger = logger
	}
}

// GetLogger returns the process-wide logger
func GetLogger() Logger {
	return globalLogger
}
