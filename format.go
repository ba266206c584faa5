package pangu

import (
	"strings"
)

// Format returns text with pangu spacing applied: one space between CJK and
// Latin or digit runs, around code spans, and after/before the half-width
// symbols listed in Rule, with inline whitespace runs collapsed to what the
// boundary rule dictates. Line breaks are kept. Leading and trailing
// whitespace of the whole input is trimmed.
//
// Format is a pure function of its arguments and is safe for concurrent use.
func Format(text string, cfg Config) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	tokens := Classify(text)
	Logger.Debug().
		Int("bytes", len(text)).
		Int("tokens", len(tokens)).
		Bool("embedded", cfg.FormatEmbeddedCode).
		Msg("classified input")
	return FormatTokens(tokens, cfg)
}

// FormatTokens runs the boundary pass over an already classified sequence.
// Unlike Format it does not trim: whitespace before the first and after the
// last non-whitespace token is written back, with tabs in the leading
// indentation expanded.
func FormatTokens(tokens Tokens, cfg Config) string {
	var b strings.Builder
	b.Grow(len(tokens) * 4)

	var prev Token
	started := false
	var gap strings.Builder

	for _, tok := range tokens {
		if tok.Category == CategoryWhitespace {
			gap.WriteString(tok.Text)
			continue
		}
		if tok.Category == CategoryCodeSpan && cfg.FormatEmbeddedCode {
			tok = respaceCode(tok, cfg)
		}
		if started {
			b.WriteString(separator(prev, gap.String(), tok, cfg))
		} else {
			b.WriteString(indent(gap.String(), cfg))
			started = true
		}
		gap.Reset()
		b.WriteString(tok.Text)
		prev = tok
	}
	b.WriteString(gap.String())

	return b.String()
}

// separator rewrites the whitespace found between two tokens.
func separator(left Token, gap string, right Token, cfg Config) string {
	if strings.ContainsAny(gap, "\r\n") {
		return indent(gap, cfg)
	}
	switch Rule(left, right) {
	case InsertSpace:
		return " "
	case RemoveSpace:
		return ""
	}
	if gap != "" {
		return " "
	}
	return ""
}

// indent keeps everything up to the last line break and expands tabs in the
// indentation that follows it.
func indent(gap string, cfg Config) string {
	if cfg.IndentWidth <= 0 || !strings.Contains(gap, "\t") {
		return gap
	}
	cut := strings.LastIndexAny(gap, "\r\n") + 1
	return gap[:cut] + strings.ReplaceAll(gap[cut:], "\t", strings.Repeat(" ", cfg.IndentWidth))
}

// respaceCode runs the boundary pass over the inside of a code span and puts
// the original delimiters back around it.
func respaceCode(tok Token, cfg Config) Token {
	open, body, close := tok.CodeParts()
	if body == "" {
		return tok
	}
	inner := FormatTokens(Classify(body), cfg)
	if inner == body {
		return tok
	}
	Logger.Debug().
		Int("start", tok.Start).
		Int("end", tok.End).
		Msg("respaced code span")

	out := tok
	out.Text = open + inner + close
	out.open, out.close = len(open), len(close)
	return out
}
