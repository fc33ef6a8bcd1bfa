package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type Options struct {
	Level  string
	Format Format
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// InitFromConfig configures the global logger from app config.
func InitFromConfig(c config.Config) {
	Init(Options{Level: c.LogLevel, Format: Format(c.LogFormat)})
}

// Init replaces the global logger. Safe to call more than once.
func Init(o Options) {
	out := o.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(o.Level)}

	var handler slog.Handler
	if strings.EqualFold(string(o.Format), string(FormatJSON)) {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	logger = slog.New(handler).With("service", "lookbook-api")
	mu.Unlock()
}

// L returns the global logger, initializing a text logger on first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(Options{})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
