package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the process logger's output shape. Zero values fall back
// to JSON at info level.
type Config struct {
	Service string
	Version string
	Env     string // "dev" enables source locations
	Level   string // "debug", "info", "warn", "error"
	Format  string // "json" or "text"
}

// New builds the process logger, tags it with the service identity, and
// installs it as slog's default so code without a contextual logger still
// lands in the same stream.
func New(cfg Config) *slog.Logger {
	logger := NewWithWriter(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter is New without the default-logger side effect, writing to w.
// Tests use it to capture output.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("service", cfg.Service),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
}

func parseLevel(lvl string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lvl)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Err is the canonical attribute for error values. A nil error logs as an
// empty string rather than "<nil>".
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}
	return slog.String("err", err.Error())
}

// Username tags log lines with the account they concern.
func Username(name string) slog.Attr {
	return slog.String("username", name)
}

// PetID tags log lines with the pet record they concern.
func PetID(id int64) slog.Attr {
	return slog.Int64("pet_id", id)
}

// OrderID tags log lines with the order record they concern.
func OrderID(id int64) slog.Attr {
	return slog.Int64("order_id", id)
}
