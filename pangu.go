// Package pangu inserts and normalizes spacing between CJK characters and
// Latin letters, digits, symbols and markdown code spans ("pangu spacing").
//
// The engine is a pipeline of two pure steps: Classify splits text into
// categorized tokens, and Format walks adjacent token pairs deciding, with
// Rule, how much whitespace each boundary gets. Code spans are opaque unless
// Config.FormatEmbeddedCode is set.
package pangu

import (
	"errors"

	"github.com/rs/zerolog"
)

var (
	Logger = zerolog.Nop()
	// Logger = NewConsoleLogger(os.Stderr, zerolog.DebugLevel)

	ErrInvalidIndentWidth = errors.New("indent width must be 2 or 4")
)

// FormatAll formats every text with the same configuration and returns the
// results in order.
func FormatAll(cfg Config, texts ...string) []string {
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = Format(s, cfg)
	}
	return out
}
