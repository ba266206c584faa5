package editor

// Buffer is an in-memory Editor, used by the CLI and in tests.
type Buffer struct {
	text   string
	cursor Position
	top    int
}

// NewBuffer returns a buffer holding text with the cursor at the start.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

func (b *Buffer) GetValue() string          { return b.text }
func (b *Buffer) SetValue(text string)      { b.text = text }
func (b *Buffer) GetCursor() Position       { return b.cursor }
func (b *Buffer) SetCursor(pos Position)    { b.cursor = pos }
func (b *Buffer) GetScrollInfo() ScrollInfo { return ScrollInfo{Top: b.top} }
func (b *Buffer) ScrollTo(top int)          { b.top = top }

var _ Editor = (*Buffer)(nil)
