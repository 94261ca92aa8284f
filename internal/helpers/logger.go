package helpers

import (
	"io"
	"log/slog"
)

// NewNoopLogger returns a logger that discards every record. Components fall back to it when none is injected.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
