// Package editor connects the pangu engine to a text editor: it formats the
// whole buffer, writes it back, keeps the scroll offset and tries to put the
// cursor back next to the text it was after.
package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/tassa-yoniso-manasi-karoto/go-pangu"
)

// Position is a cursor location: zero-based line and rune column.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// ScrollInfo is the part of the viewport state that survives a rewrite.
type ScrollInfo struct {
	Top int `json:"top"`
}

// Editor is the capability set a host must provide.
type Editor interface {
	GetValue() string
	SetValue(text string)
	GetCursor() Position
	SetCursor(pos Position)
	GetScrollInfo() ScrollInfo
	ScrollTo(top int)
}

// Result describes what Apply did to the buffer.
type Result struct {
	Changed  bool     // Buffer content differs from before
	Cursor   Position // Where the cursor was put
	Restored bool     // false when the cursor fell back to its previous position
}

// Apply formats the buffer of ed with cfg and restores scroll and cursor.
func Apply(ed Editor, cfg pangu.Config) Result {
	cursor := ed.GetCursor()
	top := ed.GetScrollInfo().Top
	before := ed.GetValue()

	formatted := pangu.FormatAll(cfg, linePrefix(before, cursor), before)
	prefix, content := formatted[0], formatted[1]

	ed.SetValue(content)
	ed.ScrollTo(top)

	pos, ok := RestoreCursor(content, cursor, prefix)
	if !ok {
		pangu.Logger.Debug().
			Int("line", cursor.Line).
			Int("ch", cursor.Ch).
			Msg("cursor prefix not found, keeping previous position")
	}
	ed.SetCursor(pos)

	return Result{
		Changed:  content != before,
		Cursor:   pos,
		Restored: ok,
	}
}

// RestoreCursor looks for prefix on line prev.Line of text and returns the
// position right after it. When the line or the prefix cannot be found it
// returns prev clamped to text, and false.
func RestoreCursor(text string, prev Position, prefix string) (Position, bool) {
	lines := strings.Split(text, "\n")
	if prev.Line >= 0 && prev.Line < len(lines) {
		line := lines[prev.Line]
		if idx := strings.Index(line, prefix); idx >= 0 {
			return Position{
				Line: prev.Line,
				Ch:   utf8.RuneCountInString(line[:idx]) + utf8.RuneCountInString(prefix),
			}, true
		}
	}
	return clamp(lines, prev), false
}

func clamp(lines []string, p Position) Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(lines) {
		p.Line = len(lines) - 1
	}
	if p.Ch < 0 {
		p.Ch = 0
	}
	if n := utf8.RuneCountInString(lines[p.Line]); p.Ch > n {
		p.Ch = n
	}
	return p
}

// linePrefix returns the text on the cursor line before the cursor.
func linePrefix(text string, cursor Position) string {
	lines := strings.Split(text, "\n")
	if cursor.Line < 0 || cursor.Line >= len(lines) {
		return ""
	}
	line := lines[cursor.Line]
	if cursor.Ch <= 0 {
		return ""
	}
	i := 0
	for n := 0; n < cursor.Ch && i < len(line); n++ {
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
	}
	return line[:i]
}
