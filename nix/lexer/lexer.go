package lexer

import (
	"strings"
	"unicode"
)

// Lexer turns source text into a token tree. Groups are lexed recursively,
// so a Group token never contains an unmatched delimiter.
type Lexer struct {
	buf      Buffer
	comments []Span
}

func NewLexer(input string) *Lexer {
	return &Lexer{buf: NewBuffer(input)}
}

// Tokenize lexes the whole input into a token sequence.
func Tokenize(input string) ([]Token, error) {
	tokens, err := NewLexer(input).Tokens()
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Tokens lexes the remaining input. A lexical failure is returned as *Error.
func (l *Lexer) Tokens() ([]Token, error) {
	tokens, err := l.scanSequence(nil)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// scanSequence lexes tokens until the input ends or, inside a group, until
// the closing delimiter is next. The closer itself is left unconsumed.
func (l *Lexer) scanSequence(group *openGroup) ([]Token, *Error) {
	var tokens []Token
	for {
		if _, err := l.buf.skipTrivia(l.recordComment); err != nil {
			return nil, err
		}

		ch := l.buf.Peek()
		if ch == EOF {
			if group != nil {
				return nil, errorf(l.buf.SpanFrom(group.start),
					"unclosed group: expected `%c`, got end of input", group.delim.Close())
			}
			return tokens, nil
		}

		if isCloser(ch) {
			if group != nil && ch == group.delim.Close() {
				return tokens, nil
			}
			span := l.charSpan()
			if group != nil {
				return nil, errorf(Span{Start: group.start, End: span.End},
					"unclosed group: expected `%c`, got `%c`", group.delim.Close(), ch)
			}
			return nil, errorf(span, "unexpected `%c` without matching opening delimiter", ch)
		}

		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) recordComment(span Span) {
	l.comments = append(l.comments, span)
}

// Comments returns the spans of the comments skipped so far. Comments are
// not part of the token tree.
func (l *Lexer) Comments() []Span {
	return l.comments
}

type openGroup struct {
	delim Delimiter
	start Position
}

func (l *Lexer) scanToken() (Token, *Error) {
	ch := l.buf.Peek()

	if _, ok := delimiterFor(ch); ok {
		return l.scanGroup()
	}

	switch {
	case ch == '"':
		return l.scanString()
	case ch == '\'':
		return Token{}, errorf(l.charSpan(), "indented strings (`''`) are not supported")
	case unicode.IsDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdent(), nil
	case IsPunct(ch):
		return l.scanPunct(), nil
	}

	return Token{}, errorf(l.charSpan(), "unexpected input `%c`", ch)
}

// charSpan is the span of the next character.
func (l *Lexer) charSpan() Span {
	f := l.buf.Fork()
	start := f.Position()
	f.Advance()
	return f.SpanFrom(start)
}

func (l *Lexer) scanGroup() (Token, *Error) {
	start := l.buf.Position()
	delim, _ := delimiterFor(l.buf.Advance())

	inner, err := l.scanSequence(&openGroup{delim: delim, start: start})
	if err != nil {
		return Token{}, err
	}
	l.buf.Advance()

	return Token{
		Kind:      TokenGroup,
		Span:      l.buf.SpanFrom(start),
		Delimiter: delim,
		Inner:     inner,
	}, nil
}

// scanString lexes a double-quoted string. Only `\"` and `\\` are
// unescaped; any other backslash sequence is kept verbatim.
func (l *Lexer) scanString() (Token, *Error) {
	start := l.buf.Position()
	l.buf.Advance()

	var value strings.Builder
	for {
		ch := l.buf.Advance()
		switch ch {
		case EOF:
			return Token{}, errorf(l.buf.SpanFrom(start), "unterminated string")
		case '\r', '\n':
			return Token{}, errorf(l.buf.SpanFrom(start),
				"unterminated string; multiline strings need the `''` form, which is not supported")
		case '"':
			return Token{
				Kind:    TokenString,
				Span:    l.buf.SpanFrom(start),
				Literal: value.String(),
			}, nil
		case '\\':
			next := l.buf.Peek()
			if next == '"' || next == '\\' {
				value.WriteRune(l.buf.Advance())
				continue
			}
			value.WriteRune(ch)
		default:
			value.WriteRune(ch)
		}
	}
}

// scanNumber lexes a maximal run of digits. Floating point literals are not
// supported and are rejected rather than split into several tokens.
func (l *Lexer) scanNumber() (Token, *Error) {
	start := l.buf.Position()
	var digits strings.Builder
	for unicode.IsDigit(l.buf.Peek()) {
		digits.WriteRune(l.buf.Advance())
	}

	if l.buf.Peek() == '.' && unicode.IsDigit(l.buf.PeekN(1)) {
		f := l.buf.Fork()
		f.Advance()
		for unicode.IsDigit(f.Peek()) {
			f.Advance()
		}
		return Token{}, errorf(f.SpanFrom(start), "malformed integer: floating point literals are not supported")
	}

	return Token{
		Kind:    TokenInt,
		Span:    l.buf.SpanFrom(start),
		Literal: digits.String(),
	}, nil
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || ch == '\'' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func (l *Lexer) scanIdent() Token {
	start := l.buf.Position()
	var ident strings.Builder
	ident.WriteRune(l.buf.Advance())
	for isIdentPart(l.buf.Peek()) {
		ident.WriteRune(l.buf.Advance())
	}
	return Token{
		Kind:    TokenIdent,
		Span:    l.buf.SpanFrom(start),
		Literal: ident.String(),
	}
}

func (l *Lexer) scanPunct() Token {
	start := l.buf.Position()
	ch := l.buf.Advance()

	spacing := Alone
	if next := l.buf.Peek(); IsPunct(next) && !(next == '/' && l.buf.PeekN(1) == '*') {
		spacing = Joint
	}

	return Token{
		Kind:    TokenPunct,
		Span:    l.buf.SpanFrom(start),
		Literal: string(ch),
		Ch:      ch,
		Spacing: spacing,
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote renders s as a string literal that lexes back to s.
func Quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
