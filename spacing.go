package pangu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Half-width symbols that take a space when CJK text follows them, and when
// they follow CJK text. Emphasis markers (* _ ~ =), connectors (- /), the
// markdown escape (\) and quotes are left out so that **粗体**, ==高亮==,
// a/b and dates keep their shape.
const (
	spacedAfter  = "!),:;?]}%$^&+|"
	spacedBefore = "([{$&+|@#"
)

// Rule returns the spacing decision for the boundary between two adjacent
// non-whitespace tokens. It is total: pairs without a dedicated rule get
// Preserve.
func Rule(left, right Token) Action {
	l, r := left.Category, right.Category
	switch {
	case l == CategoryMarkdownControl || r == CategoryMarkdownControl:
		return Preserve

	case l == CategoryCJK && r == CategoryCJK:
		return Preserve

	case l == CategoryCJK && (r.isWordLike() || r == CategoryCodeSpan):
		if isFullWidthPunct(lastRune(left.Text)) {
			return RemoveSpace
		}
		return InsertSpace

	case (l.isWordLike() || l == CategoryCodeSpan) && r == CategoryCJK:
		if isFullWidthPunct(firstRune(right.Text)) {
			return RemoveSpace
		}
		return InsertSpace

	case l == CategoryCodeSpan && r.isWordLike(), l.isWordLike() && r == CategoryCodeSpan:
		return InsertSpace

	case l == CategorySymbol && r == CategoryCJK:
		if symbolSpaced(lastRune(left.Text), spacedAfter) && !isFullWidthPunct(firstRune(right.Text)) {
			return InsertSpace
		}

	case l == CategoryCJK && r == CategorySymbol:
		if symbolSpaced(firstRune(right.Text), spacedBefore) && !isFullWidthPunct(lastRune(left.Text)) {
			return InsertSpace
		}
	}
	return Preserve
}

// symbolSpaced reports whether a half-width symbol belongs to set.
// Full-width symbols carry their own spacing.
func symbolSpaced(r rune, set string) bool {
	return !isFullWidth(r) && strings.ContainsRune(set, r)
}

func isFullWidth(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

func isFullWidthPunct(r rune) bool {
	return isFullWidth(r) && (unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r))
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
