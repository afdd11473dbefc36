package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds the JSON logger shared by all components of a binary.
func New(env, service string) *slog.Logger {
	return newWith(os.Stdout, env, service)
}

func newWith(w io.Writer, env, service string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}
