package lexer

import (
	"unicode"
	"unicode/utf8"
)

// EOF is returned by Peek and Advance once the input is exhausted.
const EOF rune = -1

// Buffer is a restartable character cursor over the input text.
// It is a plain value: copying it (see Fork) yields an independent cursor.
type Buffer struct {
	input string
	pos   Position
}

func NewBuffer(input string) Buffer {
	return Buffer{input: input}
}

// Position returns the position of the next character.
func (b *Buffer) Position() Position {
	return b.pos
}

// SpanFrom returns the span from start up to, but excluding, the next character.
func (b *Buffer) SpanFrom(start Position) Span {
	return Span{Start: start, End: b.pos}
}

// Fork returns an independent copy of the buffer positioned identically.
func (b *Buffer) Fork() Buffer {
	return *b
}

func (b *Buffer) IsEmpty() bool {
	return b.pos.Offset >= len(b.input)
}

func (b *Buffer) Peek() rune {
	if b.IsEmpty() {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(b.input[b.pos.Offset:])
	return r
}

// PeekN returns the character n positions after the next one.
func (b *Buffer) PeekN(n int) rune {
	f := b.Fork()
	for i := 0; i < n; i++ {
		if f.Advance() == EOF {
			return EOF
		}
	}
	return f.Peek()
}

// Advance consumes and returns the next character.
func (b *Buffer) Advance() rune {
	if b.IsEmpty() {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(b.input[b.pos.Offset:])
	b.pos.Offset += size
	if r == '\n' {
		b.pos.Line++
		b.pos.Column = 0
	} else {
		b.pos.Column++
	}
	return r
}

// SkipWhitespaceAndComments consumes whitespace, `#` line comments and
// `/* */` block comments. It reports whether anything was consumed. A block
// comment that is never closed is an error.
func (b *Buffer) SkipWhitespaceAndComments() (bool, error) {
	skipped, err := b.skipTrivia(nil)
	if err != nil {
		return skipped, err
	}
	return skipped, nil
}

// skipTrivia is SkipWhitespaceAndComments, calling onComment with the span
// of every comment it consumes.
func (b *Buffer) skipTrivia(onComment func(Span)) (bool, *Error) {
	start := b.pos.Offset
	for {
		ch := b.Peek()
		commentStart := b.pos
		switch {
		case ch != EOF && unicode.IsSpace(ch):
			b.Advance()
			continue
		case ch == '#':
			for ch := b.Peek(); ch != EOF && ch != '\n'; ch = b.Peek() {
				b.Advance()
			}
		case ch == '/' && b.PeekN(1) == '*':
			b.Advance()
			b.Advance()
			closed := false
			for !b.IsEmpty() {
				if b.Peek() == '*' && b.PeekN(1) == '/' {
					b.Advance()
					b.Advance()
					closed = true
					break
				}
				b.Advance()
			}
			if !closed {
				return true, errorf(b.SpanFrom(commentStart), "unterminated comment: expected `*/`, got end of input")
			}
		default:
			return b.pos.Offset > start, nil
		}
		if onComment != nil {
			onComment(b.SpanFrom(commentStart))
		}
	}
}
