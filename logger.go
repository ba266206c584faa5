package pangu

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger returns a human-readable logger writing to w, suitable
// for assigning to Logger.
func NewConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pangu").
		Logger()
}
