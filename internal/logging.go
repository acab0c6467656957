package internal

import (
	"io"
	"log/slog"
)

// Output formats accepted by [NewLogger].
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Shared level for every logger built by [NewLogger], so that flag parsing
// can adjust the level of a logger that already exists.
var level slog.LevelVar

// Creates a logger writing to w in the given format.
//
// Unknown formats fall back to text. Records are grouped under [Name] and
// carry source locations when verbose mode is on.
func NewLogger(w io.Writer, format string) *slog.Logger {
	level.Set(LogLevel())

	opts := &slog.HandlerOptions{
		Level:     &level,
		AddSource: IsVerbose(),
	}

	var handler slog.Handler
	if format == LogFormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler.WithGroup(Name))
}
