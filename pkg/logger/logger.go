package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger provides leveled printf-style logging on top of zerolog
type Logger struct {
	zl       zerolog.Logger
	verbose  bool
	progress io.Writer
}

// NewLogger creates a new logger with specified level and verbose mode
func NewLogger(level string, verbose bool) *Logger {
	return NewLoggerWithOutput(level, FormatConsole, verbose, os.Stderr)
}

// NewLoggerWithOutput creates a logger writing log entries and progress lines to out
func NewLoggerWithOutput(level, format string, verbose bool, out io.Writer) *Logger {
	var w io.Writer = out
	if format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	zl := zerolog.New(w).Level(parseLogLevel(level)).With().Timestamp().Logger()
	return &Logger{
		zl:       zl,
		verbose:  verbose,
		progress: out,
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), progress: io.Discard}
}

// WithComponent returns a child logger tagged with a component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		zl:       l.zl.With().Str("component", component).Logger(),
		verbose:  l.verbose,
		progress: l.progress,
	}
}

// With returns a child logger carrying an extra string field
func (l *Logger) With(key, value string) *Logger {
	return &Logger{
		zl:       l.zl.With().Str(key, value).Logger(),
		verbose:  l.verbose,
		progress: l.progress,
	}
}

// Zerolog exposes the underlying logger for structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Debug logs debug information
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbose {
		l.zl.Info().Msgf(format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// ProgressAlways prints a milestone regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...interface{}) {
	fmt.Fprintf(l.progress, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Progress prints step-by-step details (only in verbose mode)
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.progress, "%s %s\n", emoji, fmt.Sprintf(format, args...))
	}
}

// parseLogLevel converts string level to a zerolog level, defaulting to info
func parseLogLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// DefaultLogger returns a default logger instance
func DefaultLogger() *Logger {
	return NewLogger("info", false)
}
