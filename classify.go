package pangu

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classify splits text into an ordered, gap-free sequence of tokens.
// Joining the token texts always gives back text unchanged.
//
// Code is recognised first: a fenced block or an inline code span is a single
// CodeSpan token, and an unterminated one runs to the end of the input.
// Then come URLs, markdown markers that depend on their position, and
// finally runs of runes that share a Category.
func Classify(text string) Tokens {
	c := &classifier{
		src:       text,
		lineStart: true,
		marks:     make(map[int]int),
	}
	for c.pos < len(c.src) {
		c.next()
	}
	return c.tokens
}

type classifier struct {
	src       string
	pos       int
	lineStart bool        // only blanks and blockquote markers since the last line break
	marks     map[int]int // offset -> length of a pending link marker
	tokens    Tokens
}

func (c *classifier) emit(end int, cat Category) {
	c.tokens = append(c.tokens, Token{
		Text:     c.src[c.pos:end],
		Category: cat,
		Start:    c.pos,
		End:      end,
	})
	c.pos = end
}

func (c *classifier) emitCode(end, open, close int) {
	c.tokens = append(c.tokens, Token{
		Text:     c.src[c.pos:end],
		Category: CategoryCodeSpan,
		Start:    c.pos,
		End:      end,
		open:     open,
		close:    close,
	})
	c.pos = end
}

func (c *classifier) next() {
	s, i := c.src, c.pos

	if n, ok := c.marks[i]; ok {
		delete(c.marks, i)
		c.emit(i+n, CategoryMarkdownControl)
		c.lineStart = false
		return
	}

	r, size := utf8.DecodeRuneInString(s[i:])
	if isBlank(r) {
		j := i
		for j < len(s) && isBlank(rune(s[j])) {
			j++
		}
		if strings.ContainsAny(s[i:j], "\r\n") {
			c.lineStart = true
		}
		c.emit(j, CategoryWhitespace)
		return
	}

	if c.lineStart && (r == '`' || r == '~') {
		if end, open, close, ok := c.fenced(i); ok {
			c.emitCode(end, open, close)
			c.lineStart = false
			return
		}
	}
	if r == '`' {
		end, n, close := c.inlineCode(i)
		c.emitCode(end, n, close)
		c.lineStart = false
		return
	}

	if c.lineStart {
		if n, nested := c.blockMarker(i); n > 0 {
			c.emit(i+n, CategoryMarkdownControl)
			c.lineStart = nested
			return
		}
	}
	c.lineStart = false

	if r == '[' || (r == '!' && strings.HasPrefix(s[i+1:], "[")) {
		if n := c.link(i); n > 0 {
			c.emit(i+n, CategoryMarkdownControl)
			return
		}
	}
	if n := c.url(i); n > 0 {
		c.emit(i+n, CategoryURL)
		return
	}

	if r == utf8.RuneError && size == 1 {
		// invalid byte, kept as is
		c.emit(i+1, CategorySymbol)
		return
	}

	cat := runeCategory(r)
	j := i + size
	for j < len(s) && !c.special(j) {
		r2, size2 := utf8.DecodeRuneInString(s[j:])
		if r2 == utf8.RuneError && size2 == 1 {
			break
		}
		if runeCategory(r2) != cat && !(unicode.IsMark(r2) && cat != CategorySymbol) {
			break
		}
		j += size2
	}
	c.emit(j, cat)
}

// special reports whether a run must stop before offset i so that a code
// span, link or pending marker starting there gets its own token.
func (c *classifier) special(i int) bool {
	if _, ok := c.marks[i]; ok {
		return true
	}
	switch c.src[i] {
	case '`', '[':
		return true
	case '!':
		return strings.HasPrefix(c.src[i+1:], "[")
	}
	return false
}

// fenced matches a fenced code block opening at i. The block ends after the
// closing fence line (line break excluded) or at the end of input.
func (c *classifier) fenced(i int) (end, open, close int, ok bool) {
	s := c.src
	fence := fenceRun(s[i:])
	if len(fence) < 3 {
		return 0, 0, 0, false
	}
	eol := strings.IndexByte(s[i:], '\n')
	if eol < 0 {
		eol = len(s) - i
	}
	info := s[i+len(fence) : i+eol]
	if fence[0] == '`' && strings.ContainsRune(info, '`') {
		return 0, 0, 0, false
	}
	if i+eol == len(s) {
		return len(s), len(s) - i, 0, true
	}
	open = eol + 1

	for p := i + open; p < len(s); {
		lineEnd := strings.IndexByte(s[p:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s)
		} else {
			lineEnd += p
		}
		line := s[p:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		closing := fenceRun(trimmed)
		if len(closing) >= len(fence) && closing[0] == fence[0] &&
			strings.TrimRight(trimmed[len(closing):], " \t\r") == "" {
			return lineEnd, open, lineEnd - p, true
		}
		p = lineEnd + 1
	}
	return len(s), open, 0, true
}

// inlineCode matches a backtick string at i against the next backtick string
// of the same length.
func (c *classifier) inlineCode(i int) (end, open, close int) {
	s := c.src
	n := len(fenceRun(s[i:]))
	for j := i + n; j < len(s); {
		k := strings.IndexByte(s[j:], '`')
		if k < 0 {
			break
		}
		j += k
		run := len(fenceRun(s[j:]))
		if run == n {
			return j + n, n, n
		}
		j += run
	}
	return len(s), n, 0
}

// blockMarker matches heading, list and blockquote markers at the start of a
// line. nested is true when further markers may follow on the same line.
func (c *classifier) blockMarker(i int) (n int, nested bool) {
	s := c.src[i:]
	switch s[0] {
	case '>':
		return 1, true
	case '#':
		h := 0
		for h < len(s) && s[h] == '#' {
			h++
		}
		if h <= 6 && (h == len(s) || isBlank(rune(s[h]))) {
			return h, false
		}
	case '-', '*', '+':
		if len(s) > 1 && (s[1] == ' ' || s[1] == '\t') {
			return 1, false
		}
	default:
		d := 0
		for d < len(s) && d < 9 && s[d] >= '0' && s[d] <= '9' {
			d++
		}
		if d > 0 && d+1 < len(s) && (s[d] == '.' || s[d] == ')') && (s[d+1] == ' ' || s[d+1] == '\t') {
			return d + 1, false
		}
	}
	return 0, false
}

// link matches "[label](target)" or "![label](target)" starting at i on a
// single line. On success the "](" and ")" offsets are recorded as pending
// markers and the length of the opening marker is returned.
func (c *classifier) link(i int) int {
	s := c.src
	lead := 1
	if s[i] == '!' {
		lead = 2
	}
	depth := 0
	j := i + lead
	for ; j < len(s); j++ {
		switch s[j] {
		case '\n':
			return 0
		case '[':
			depth++
			continue
		case ']':
			if depth > 0 {
				depth--
				continue
			}
		default:
			continue
		}
		break
	}
	if j+1 >= len(s) || s[j+1] != '(' {
		return 0
	}
	paren := 0
	k := j + 2
	for ; k < len(s); k++ {
		if s[k] == '\n' {
			return 0
		}
		if s[k] == '(' {
			paren++
		} else if s[k] == ')' {
			if paren == 0 {
				break
			}
			paren--
		}
	}
	if k >= len(s) {
		return 0
	}
	c.marks[j] = 2
	c.marks[k] = 1
	return lead
}

// url matches a "scheme://rest" URL at i, without trailing sentence
// punctuation.
func (c *classifier) url(i int) int {
	s := c.src
	if !isASCIILetter(s[i]) || (i > 0 && isASCIILetter(s[i-1])) {
		return 0
	}
	j := i
	for j < len(s) && j-i <= 32 && (isASCIILetter(s[j]) || isASCIIDigit(s[j]) || strings.IndexByte("+-.", s[j]) >= 0) {
		j++
	}
	if !strings.HasPrefix(s[j:], "://") {
		return 0
	}
	k := j + 3
	for k < len(s) && isURLByte(s[k]) {
		if _, ok := c.marks[k]; ok {
			break
		}
		k++
	}
	for k > j+3 {
		last := s[k-1]
		if strings.IndexByte(".,;:!?'\"", last) >= 0 {
			k--
			continue
		}
		if last == ')' && strings.Count(s[i:k], "(") < strings.Count(s[i:k], ")") {
			k--
			continue
		}
		break
	}
	if k == j+3 {
		return 0
	}
	return k - i
}

func fenceRun(s string) string {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return ""
	}
	n := 1
	for n < len(s) && s[n] == s[0] {
		n++
	}
	return s[:n]
}

func runeCategory(r rune) Category {
	switch {
	case isBlank(r):
		return CategoryWhitespace
	case isCJK(r):
		return CategoryCJK
	case unicode.IsLetter(r):
		return CategoryLatinWord
	case unicode.IsDigit(r):
		return CategoryDigit
	}
	return CategorySymbol
}

var cjkTables = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Bopomofo,
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x3000 && r <= 0x30FF: // CJK symbols and punctuation, kana blocks
		return true
	case r >= 0x3200 && r <= 0x33FF: // enclosed CJK, CJK compatibility
		return true
	case r >= 0xFE30 && r <= 0xFE4F: // CJK compatibility forms
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // halfwidth and fullwidth forms
		return true
	}
	return unicode.In(r, cjkTables...)
}

// ContainsCJK checks if a string contains any CJK characters
func ContainsCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isURLByte(b byte) bool {
	return b > ' ' && b < 0x7f && strings.IndexByte("<>\"`", b) < 0
}
