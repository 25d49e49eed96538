// Package logx is the SDK's structured logging layer over log/slog. The
// library itself logs sparsely; logx exists so the CLI and embedding
// applications configure one coherent output for everything.
package logx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Bmat321/gohris/rest"
	"github.com/Bmat321/gohris/soap"
)

// Format selects the log output encoding.
type Format int

const (
	// FormatJSON emits one JSON object per entry.
	FormatJSON Format = iota
	// FormatText emits human-readable key=value lines.
	FormatText
)

// String returns the canonical name of the format.
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ParseFormat maps a config string to a Format. Unknown values fall
// back to JSON.
func ParseFormat(s string) Format {
	switch s {
	case "text", "TEXT", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Level is the minimum severity a logger emits.
type Level int

// Level values are exported constants used by the logging layer.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level. Unknown values fall back
// to Info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds the logger configuration.
//
// Config instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer
	AddSource bool
}

// DefaultConfig logs at Info in JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

// Logger wraps a slog.Logger with error-shape awareness for the SDK's
// typed errors.
type Logger struct {
	slog *slog.Logger
}

// New builds a Logger from the configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level.toSlog(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	return &Logger{slog: slog.New(handler)}
}

// With returns a Logger that adds the given attributes to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithError attaches error details as structured attributes. API errors
// and SOAP faults carry their backend status and message as separate
// fields; plain errors collapse to a single "error" attribute.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return l.With(
			"error", apiErr.Message,
			"http_status", apiErr.Status,
		)
	}

	var fault *soap.Fault
	if errors.As(err, &fault) {
		return l.With(
			"error", fault.Message,
			"fault", true,
		)
	}

	return l.With("error", err.Error())
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// InfoContext logs an informational message with context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.ErrorContext(ctx, msg, args...)
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// SetDefault sets the process-wide default logger.
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Default returns the process-wide default logger, creating one with
// DefaultConfig on first use.
func Default() *Logger {
	defaultMu.RLock()
	if defaultLogger != nil {
		defer defaultMu.RUnlock()
		return defaultLogger
	}
	defaultMu.RUnlock()

	logger := New(DefaultConfig())
	SetDefault(logger)
	return logger
}
