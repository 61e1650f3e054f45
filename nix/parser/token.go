package parser

import "github.com/dhamidi/synix/nix/lexer"

var keywords = map[string]bool{
	"let":     true,
	"in":      true,
	"with":    true,
	"inherit": true,
	"rec":     true,
	"if":      true,
	"then":    true,
	"else":    true,
	"assert":  true,
}

// IsKeyword reports whether name is reserved and cannot be used as an
// identifier.
func IsKeyword(name string) bool {
	return keywords[name]
}

// parseKeyword consumes the identifier token name.
func parseKeyword(c *Cursor, name string) (lexer.Span, error) {
	tok, ok := c.Peek()
	if !ok {
		return lexer.Span{}, c.errorf("expected `%s`, got end of input", name)
	}
	if !tok.IsIdent(name) {
		return lexer.Span{}, c.errorf("expected `%s`, got `%s`", name, tok)
	}
	c.Next()
	return tok.Span, nil
}

func peekKeyword(c *Cursor, name string) bool {
	return c.PeekAt(0, func(t lexer.Token) bool { return t.IsIdent(name) })
}

// parsePunct consumes the punctuation sequence seq, e.g. "==" or "...".
// Every character but the last must have Joint spacing, which guarantees
// the characters were written without anything between them.
func parsePunct(c *Cursor, seq string) (lexer.Span, error) {
	chars := []rune(seq)
	f := c.Fork()
	var span lexer.Span
	for i, ch := range chars {
		tok, ok := f.Next()
		if !ok {
			return lexer.Span{}, c.errorf("expected `%s`, got end of input", seq)
		}
		if !tok.IsPunct(ch) {
			return lexer.Span{}, c.errorf("expected `%s`, got `%s`", seq, tok)
		}
		if i < len(chars)-1 && tok.Spacing != lexer.Joint {
			return lexer.Span{}, c.errorf("expected `%s`", seq)
		}
		if i == 0 {
			span = tok.Span
		} else {
			span = span.Join(tok.Span)
		}
	}
	*c = f
	return span, nil
}

func peekPunct(c *Cursor, seq string) bool {
	f := c.Fork()
	_, err := parsePunct(&f, seq)
	return err == nil
}

func isPunct(ch rune) func(lexer.Token) bool {
	return func(t lexer.Token) bool { return t.IsPunct(ch) }
}
