package observability

import (
	"io"
	"log/slog"
)

const attrService = "service"

// serviceName is attached to every log record.
const serviceName = "linesift"

// NewLogger builds the process logger. JSON output is for machine
// consumption; the text handler is for humans on a terminal.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String(attrService, serviceName))
}
