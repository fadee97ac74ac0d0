package cli

import (
	"io"
	"os"
	"sync"

	"github.com/YoshitsuguKoike/pulse/internal/app"
)

// Logger writes pulse log lines to stderr, dropping anything below stderr_level
type Logger struct {
	mu       sync.RWMutex
	minLevel app.LogLevel
	output   io.Writer
}

var _ app.Logger = (*Logger)(nil)

func NewLogger(minLevel app.LogLevel, output io.Writer) *Logger {
	return &Logger{minLevel: minLevel, output: output}
}

func (l *Logger) SetLevel(level app.LogLevel) {
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

func (l *Logger) Level() app.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minLevel
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(app.LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(app.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(app.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(app.LevelError, format, args...)
}

func (l *Logger) log(level app.LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.minLevel {
		return
	}
	// one Write per line so concurrent healthcheck workers never interleave
	io.WriteString(l.output, app.FormatLine(level, format, args...))
}

var globalLogger *Logger

// InitGlobalLogger installs the stderr logger for the CLI and the app layer.
// level is a stderr_level value already validated by the settings loader.
func InitGlobalLogger(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	minLevel, err := app.ParseLogLevel(level)
	if err != nil {
		minLevel = app.DefaultLogLevel
	}
	globalLogger = NewLogger(minLevel, output)
	app.SetLogger(globalLogger)
	return globalLogger
}

// GetLogger returns the CLI logger, installing a default one on first use
func GetLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger("", os.Stderr)
	}
	return globalLogger
}
