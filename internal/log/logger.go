// Package log configures the process wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Common field names
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldChatID    = "chat_id"
	FieldCategory  = "category"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentBot       = "bot"
	ComponentHandlers  = "handlers"
	ComponentDialogue  = "dialogue"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentHTTP      = "http"
	ComponentScheduler = "scheduler"
)

// Logger wraps slog.Logger and hands out per component children.
type Logger struct {
	*slog.Logger
}

type Config struct {
	Level  slog.Level
	Output io.Writer
	// JSON switches from the text handler to the JSON handler.
	JSON bool
}

func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// WithComponent returns a child logger tagged with the component name.
func (l *Logger) WithComponent(component string) *slog.Logger {
	return l.Logger.With(FieldComponent, component)
}

// SetDefault makes l the logger behind slog's package level functions.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
