package pangu

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

type piece struct {
	Text string
	Cat  Category
}

func pieces(tokens Tokens) []piece {
	var out []piece
	for _, t := range tokens {
		out = append(out, piece{t.Text, t.Category})
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []piece
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "chinese and latin",
			input: "我使用vscode编辑",
			want: []piece{
				{"我使用", CategoryCJK},
				{"vscode", CategoryLatinWord},
				{"编辑", CategoryCJK},
			},
		},
		{
			name:  "digits",
			input: "价格是100元",
			want: []piece{
				{"价格是", CategoryCJK},
				{"100", CategoryDigit},
				{"元", CategoryCJK},
			},
		},
		{
			name:  "inline code",
			input: "请看`let x=1`这里",
			want: []piece{
				{"请看", CategoryCJK},
				{"`let x=1`", CategoryCodeSpan},
				{"这里", CategoryCJK},
			},
		},
		{
			name:  "double backtick code containing a backtick",
			input: "a``x`y``b",
			want: []piece{
				{"a", CategoryLatinWord},
				{"``x`y``", CategoryCodeSpan},
				{"b", CategoryLatinWord},
			},
		},
		{
			name:  "unterminated inline code runs to the end",
			input: "前`code后abc",
			want: []piece{
				{"前", CategoryCJK},
				{"`code后abc", CategoryCodeSpan},
			},
		},
		{
			name:  "whitespace run",
			input: "a \t b",
			want: []piece{
				{"a", CategoryLatinWord},
				{" \t ", CategoryWhitespace},
				{"b", CategoryLatinWord},
			},
		},
		{
			name:  "heading marker",
			input: "## 标题",
			want: []piece{
				{"##", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"标题", CategoryCJK},
			},
		},
		{
			name:  "hash without blank is a symbol",
			input: "#话题",
			want: []piece{
				{"#", CategorySymbol},
				{"话题", CategoryCJK},
			},
		},
		{
			name:  "list bullets on each line",
			input: "- item\n  * 项目",
			want: []piece{
				{"-", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"item", CategoryLatinWord},
				{"\n  ", CategoryWhitespace},
				{"*", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"项目", CategoryCJK},
			},
		},
		{
			name:  "ordered list marker",
			input: "1. 第一",
			want: []piece{
				{"1.", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"第一", CategoryCJK},
			},
		},
		{
			name:  "blockquote with nested bullet",
			input: "> - 引用",
			want: []piece{
				{">", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"-", CategoryMarkdownControl},
				{" ", CategoryWhitespace},
				{"引用", CategoryCJK},
			},
		},
		{
			name:  "dash in the middle of a line is a symbol",
			input: "a - b",
			want: []piece{
				{"a", CategoryLatinWord},
				{" ", CategoryWhitespace},
				{"-", CategorySymbol},
				{" ", CategoryWhitespace},
				{"b", CategoryLatinWord},
			},
		},
		{
			name:  "link",
			input: "见[文档](https://example.com)。",
			want: []piece{
				{"见", CategoryCJK},
				{"[", CategoryMarkdownControl},
				{"文档", CategoryCJK},
				{"](", CategoryMarkdownControl},
				{"https://example.com", CategoryURL},
				{")", CategoryMarkdownControl},
				{"。", CategoryCJK},
			},
		},
		{
			name:  "image",
			input: "![图](a.png)",
			want: []piece{
				{"![", CategoryMarkdownControl},
				{"图", CategoryCJK},
				{"](", CategoryMarkdownControl},
				{"a", CategoryLatinWord},
				{".", CategorySymbol},
				{"png", CategoryLatinWord},
				{")", CategoryMarkdownControl},
			},
		},
		{
			name:  "bracket without target is a symbol",
			input: "[x]",
			want: []piece{
				{"[", CategorySymbol},
				{"x", CategoryLatinWord},
				{"]", CategorySymbol},
			},
		},
		{
			name:  "bare url drops trailing punctuation",
			input: "访问https://example.com/a?b=1.",
			want: []piece{
				{"访问", CategoryCJK},
				{"https://example.com/a?b=1", CategoryURL},
				{".", CategorySymbol},
			},
		},
		{
			name:  "symbols and percent",
			input: "100%的",
			want: []piece{
				{"100", CategoryDigit},
				{"%", CategorySymbol},
				{"的", CategoryCJK},
			},
		},
		{
			name:  "full-width punctuation groups with CJK",
			input: "你好，世界。",
			want: []piece{
				{"你好，世界。", CategoryCJK},
			},
		},
		{
			name:  "japanese and korean",
			input: "日本語とEnglish한국어",
			want: []piece{
				{"日本語と", CategoryCJK},
				{"English", CategoryLatinWord},
				{"한국어", CategoryCJK},
			},
		},
		{
			name:  "combining mark stays in the letter run",
			input: "cafe\u0301中",
			want: []piece{
				{"cafe\u0301", CategoryLatinWord},
				{"中", CategoryCJK},
			},
		},
		{
			name:  "invalid utf-8 is kept as a symbol",
			input: "a\xffb",
			want: []piece{
				{"a", CategoryLatinWord},
				{"\xff", CategorySymbol},
				{"b", CategoryLatinWord},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pieces(Classify(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestClassifyFencedCode(t *testing.T) {
	input := "说明\n```go\nfmt.Println(\"中文\")\n```\n后文"
	tokens := Classify(input)

	want := []piece{
		{"说明", CategoryCJK},
		{"\n", CategoryWhitespace},
		{"```go\nfmt.Println(\"中文\")\n```", CategoryCodeSpan},
		{"\n", CategoryWhitespace},
		{"后文", CategoryCJK},
	}
	if diff := cmp.Diff(want, pieces(tokens)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	open, body, close := tokens[2].CodeParts()
	assert.Equal(t, "```go\n", open)
	assert.Equal(t, "fmt.Println(\"中文\")\n", body)
	assert.Equal(t, "```", close)
}

func TestClassifyFenceVariants(t *testing.T) {
	t.Run("tilde fence", func(t *testing.T) {
		tokens := Classify("~~~\n代码abc\n~~~")
		assert.Equal(t, []Category{CategoryCodeSpan}, tokens.Categories())
	})

	t.Run("longer closing fence", func(t *testing.T) {
		tokens := Classify("````\na\n`````\nb")
		assert.Equal(t, []Category{CategoryCodeSpan, CategoryWhitespace, CategoryLatinWord}, tokens.Categories())
	})

	t.Run("shorter inner fence does not close", func(t *testing.T) {
		tokens := Classify("````\n```\n````")
		assert.Equal(t, []Category{CategoryCodeSpan}, tokens.Categories())
		_, body, close := tokens[0].CodeParts()
		assert.Equal(t, "```\n", body)
		assert.Equal(t, "````", close)
	})

	t.Run("unterminated fence runs to the end", func(t *testing.T) {
		tokens := Classify("前言\n```\n代码abc\n更多")
		assert.Equal(t, []Category{CategoryCJK, CategoryWhitespace, CategoryCodeSpan}, tokens.Categories())
		open, body, close := tokens[2].CodeParts()
		assert.Equal(t, "```\n", open)
		assert.Equal(t, "代码abc\n更多", body)
		assert.Empty(t, close)
	})

	t.Run("fence with backtick in info string is inline code", func(t *testing.T) {
		tokens := Classify("```a```b")
		assert.Equal(t, []Category{CategoryCodeSpan, CategoryLatinWord}, tokens.Categories())
		assert.Equal(t, "```a```", tokens[0].Text)
	})

	t.Run("fence after indentation", func(t *testing.T) {
		tokens := Classify("- 列表\n  ```\n  x\n  ```")
		last := tokens[len(tokens)-1]
		assert.Equal(t, CategoryCodeSpan, last.Category)
		assert.Equal(t, "```\n  x\n  ```", last.Text)
	})
}

func TestClassifyCoversInput(t *testing.T) {
	for _, input := range propertyCorpus {
		tokens := Classify(input)
		assert.Equal(t, input, tokens.String(), "tokens must join back to the input")

		pos := 0
		for _, tok := range tokens {
			assert.Equal(t, pos, tok.Start, "token %q of %q starts after a gap", tok.Text, input)
			assert.Equal(t, input[tok.Start:tok.End], tok.Text)
			assert.NotEmpty(t, tok.Text)
			pos = tok.End
		}
		assert.Equal(t, len(input), pos)
	}
}

func TestCodePartsInline(t *testing.T) {
	tokens := Classify("``a ` b``")
	assert.Len(t, tokens, 1)
	open, body, close := tokens[0].CodeParts()
	assert.Equal(t, "``", open)
	assert.Equal(t, "a ` b", body)
	assert.Equal(t, "``", close)

	open, body, close = Token{Text: "abc", Category: CategoryLatinWord}.CodeParts()
	assert.Empty(t, open)
	assert.Equal(t, "abc", body)
	assert.Empty(t, close)
}

func TestContainsCJK(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", false},
		{"latin only", "abcABC123", false},
		{"han", "漢字", true},
		{"hiragana", "ひらがな", true},
		{"katakana with prolonged sound mark", "ラーメン", true},
		{"hangul", "한국어", true},
		{"full-width comma", "，", true},
		{"mixed", "Go语言", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsCJK(tt.input))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "CJK", CategoryCJK.String())
	assert.Equal(t, "MarkdownControl", CategoryMarkdownControl.String())
	assert.Equal(t, "URL", CategoryURL.String())

	text, err := CategoryCodeSpan.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "CodeSpan", string(text))
}

func BenchmarkClassify(b *testing.B) {
	text := strings.Repeat("我使用vscode编辑markdown文件，请看`let x=1`这里。\n", 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Classify(text)
	}
}
