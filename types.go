package pangu

import "strings"

// Category tags a contiguous run of text
type Category int

const (
	CategoryCJK             Category = iota // Han, kana, hangul, CJK and full-width punctuation
	CategoryLatinWord                       // Letters outside the CJK blocks
	CategoryDigit                           // Decimal digits
	CategorySymbol                          // Remaining punctuation and symbols
	CategoryWhitespace                      // Space, tab, CR, LF
	CategoryCodeSpan                        // Inline code or fenced code block, delimiters included
	CategoryMarkdownControl                 // Heading, list, blockquote and link markers
	CategoryURL                             // scheme://... run, never split
)

// String provides human-readable category names
func (c Category) String() string {
	return map[Category]string{
		CategoryCJK:             "CJK",
		CategoryLatinWord:       "LatinWord",
		CategoryDigit:           "Digit",
		CategorySymbol:          "Symbol",
		CategoryWhitespace:      "Whitespace",
		CategoryCodeSpan:        "CodeSpan",
		CategoryMarkdownControl: "MarkdownControl",
		CategoryURL:             "URL",
	}[c]
}

// MarshalText lets categories appear by name in JSON token dumps.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// isWordLike reports whether c takes a space when it meets CJK text.
func (c Category) isWordLike() bool {
	return c == CategoryLatinWord || c == CategoryDigit || c == CategoryURL
}

// Token is a classified slice of the input. Start and End are byte offsets
// into the text given to Classify.
type Token struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Start    int      `json:"start"`
	End      int      `json:"end"`

	open, close int // delimiter lengths, code spans only
}

// Tokens is an ordered classification result covering the whole input.
type Tokens []Token

// String concatenates all token texts, which reproduces the classified input.
func (tokens Tokens) String() string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Categories returns the category of each token, in order.
func (tokens Tokens) Categories() (cats []Category) {
	for _, t := range tokens {
		cats = append(cats, t.Category)
	}
	return
}

// CodeParts splits a code span into its opening delimiter, inner content and
// closing delimiter. For fenced blocks the opening delimiter carries the info
// string and its line break. Unterminated spans have an empty close.
// Tokens of any other category come back as ("", Text, "").
func (t Token) CodeParts() (open, body, close string) {
	if t.Category != CategoryCodeSpan || t.open+t.close > len(t.Text) {
		return "", t.Text, ""
	}
	n := len(t.Text)
	return t.Text[:t.open], t.Text[t.open : n-t.close], t.Text[n-t.close:]
}

// Config holds the per-call engine settings. It is passed by value and never
// read from package state.
type Config struct {
	IndentWidth        int  // Spaces per tab in line indentation; <= 0 leaves tabs alone
	FormatEmbeddedCode bool // Whether code span interiors are re-spaced too
}

// DefaultConfig returns the configuration used when the caller has no settings.
func DefaultConfig() Config {
	return Config{IndentWidth: 2}
}

// Validate reports whether c only holds values the settings schema allows.
func (c Config) Validate() error {
	if c.IndentWidth != 2 && c.IndentWidth != 4 {
		return ErrInvalidIndentWidth
	}
	return nil
}

// Action is the spacing decision made at a token boundary.
type Action int

const (
	Preserve    Action = iota // Keep one space if there was whitespace, none otherwise
	InsertSpace               // Exactly one space
	RemoveSpace               // No space
)

func (a Action) String() string {
	return map[Action]string{
		Preserve:    "Preserve",
		InsertSpace: "InsertSpace",
		RemoveSpace: "RemoveSpace",
	}[a]
}
