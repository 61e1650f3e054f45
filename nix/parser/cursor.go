package parser

import (
	"fmt"

	"github.com/dhamidi/synix/nix/lexer"
)

// Cursor is a non-owning view over a token slice. It is a value type:
// copying it (Fork) gives an independent cursor over the same tokens, which
// is how speculative parses are rolled back.
type Cursor struct {
	tokens []lexer.Token
	pos    int
	// end is reported as the error location once the cursor is exhausted.
	end lexer.Span
}

// NewCursor returns a cursor over tokens. Errors at end of input point just
// past the last token.
func NewCursor(tokens []lexer.Token) Cursor {
	var end lexer.Span
	if len(tokens) > 0 {
		end = lexer.Point(tokens[len(tokens)-1].Span.End)
	}
	return Cursor{tokens: tokens, end: end}
}

func (c *Cursor) Fork() Cursor {
	return *c
}

func (c *Cursor) IsEmpty() bool {
	return c.pos >= len(c.tokens)
}

// Len returns the number of tokens left.
func (c *Cursor) Len() int {
	return len(c.tokens) - c.pos
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (lexer.Token, bool) {
	return c.PeekN(0)
}

// PeekN returns the token offset positions ahead without consuming anything.
func (c *Cursor) PeekN(offset int) (lexer.Token, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.tokens) {
		return lexer.Token{}, false
	}
	return c.tokens[i], true
}

// PeekAt reports whether the token at offset exists and satisfies pred.
func (c *Cursor) PeekAt(offset int, pred func(lexer.Token) bool) bool {
	tok, ok := c.PeekN(offset)
	return ok && pred(tok)
}

// Next consumes the next token.
func (c *Cursor) Next() (lexer.Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Prev returns the most recently consumed token.
func (c *Cursor) Prev() (lexer.Token, bool) {
	return c.PeekN(-1)
}

// Span is the location of the next token, or the end-of-input location
// when the cursor is exhausted.
func (c *Cursor) Span() lexer.Span {
	if tok, ok := c.Peek(); ok {
		return tok.Span
	}
	return c.end
}

// Delimited consumes one group token with delimiter d and returns a cursor
// scoped to its interior together with the group's span.
func (c *Cursor) Delimited(d lexer.Delimiter, what string) (Cursor, lexer.Span, error) {
	tok, ok := c.Peek()
	if !ok || !tok.IsGroup(d) {
		return Cursor{}, lexer.Span{}, c.errorf("expected %s", what)
	}
	c.pos++

	closeStart := tok.Span.End
	closeStart.Offset--
	closeStart.Column--
	inner := Cursor{
		tokens: tok.Inner,
		end:    lexer.Span{Start: closeStart, End: tok.Span.End},
	}
	return inner, tok.Span, nil
}

// Until scans forward to the first token satisfying stop and returns a
// cursor bounded to the tokens before it. The parent cursor moves past the
// scanned prefix; the stop token itself is left for the caller.
func (c *Cursor) Until(stop func(lexer.Token) bool) Cursor {
	sub, _ := c.UntilNth(stop, 0)
	return sub
}

// UntilNth is Until with the first n stop tokens treated as ordinary
// tokens. It reports false, leaving c untouched, when fewer than n stop
// tokens are left.
func (c *Cursor) UntilNth(stop func(lexer.Token) bool, n int) (Cursor, bool) {
	i, skipped := c.pos, 0
	for ; i < len(c.tokens); i++ {
		if !stop(c.tokens[i]) {
			continue
		}
		if skipped == n {
			break
		}
		skipped++
	}
	if skipped < n {
		return Cursor{}, false
	}

	sub := Cursor{
		tokens: c.tokens[c.pos:i],
		end:    c.end,
	}
	c.pos = i
	if tok, ok := c.Peek(); ok {
		sub.end = tok.Span
	}
	return sub, true
}

func (c *Cursor) errorf(format string, args ...any) *Error {
	return &Error{Span: c.Span(), Message: fmt.Sprintf(format, args...)}
}

// expectEnd fails unless every token of the cursor was consumed.
func (c *Cursor) expectEnd(context string) error {
	if tok, ok := c.Peek(); ok {
		return c.errorf("unexpected `%s` %s", tok, context)
	}
	return nil
}

// peek reports whether parse would succeed at the cursor's position. The
// attempt runs on a fork, so the cursor is never advanced.
func peek[T any](c *Cursor, parse func(*Cursor) (T, error)) bool {
	f := c.Fork()
	_, err := parse(&f)
	return err == nil
}

// attempt runs parse on a fork and commits the fork only on success.
func attempt[T any](c *Cursor, parse func(*Cursor) (T, error)) (T, bool) {
	f := c.Fork()
	v, err := parse(&f)
	if err != nil {
		var zero T
		return zero, false
	}
	*c = f
	return v, true
}
