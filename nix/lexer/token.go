package lexer

import (
	"fmt"
	"strings"
)

type TokenKind int

const (
	TokenGroup TokenKind = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenString
	TokenPunct
)

var tokenKindNames = map[TokenKind]string{
	TokenGroup:  "Group",
	TokenIdent:  "Ident",
	TokenInt:    "Int",
	TokenFloat:  "Float",
	TokenString: "String",
	TokenPunct:  "Punct",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Delimiter int

const (
	Paren Delimiter = iota
	Brace
	Bracket
)

func (d Delimiter) Open() rune {
	switch d {
	case Paren:
		return '('
	case Brace:
		return '{'
	default:
		return '['
	}
}

func (d Delimiter) Close() rune {
	switch d {
	case Paren:
		return ')'
	case Brace:
		return '}'
	default:
		return ']'
	}
}

func (d Delimiter) String() string {
	switch d {
	case Paren:
		return "Paren"
	case Brace:
		return "Brace"
	default:
		return "Bracket"
	}
}

func delimiterFor(open rune) (Delimiter, bool) {
	switch open {
	case '(':
		return Paren, true
	case '{':
		return Brace, true
	case '[':
		return Bracket, true
	}
	return 0, false
}

func isCloser(ch rune) bool {
	return ch == ')' || ch == '}' || ch == ']'
}

// Spacing records whether a punctuation character was immediately followed
// by another punctuation character.
type Spacing int

const (
	Alone Spacing = iota
	Joint
)

func (s Spacing) String() string {
	if s == Joint {
		return "Joint"
	}
	return "Alone"
}

// punctuation is the full punctuation alphabet. Multi-character operators
// are sequences of these joined by Joint spacing.
const punctuation = ";:,.@+-*><=?&|/!~$"

// IsPunct reports whether ch belongs to the punctuation alphabet.
func IsPunct(ch rune) bool {
	return ch != EOF && strings.ContainsRune(punctuation, ch)
}

// Token is one node of the token tree. Kind selects which fields are
// meaningful:
//
//	TokenGroup            Delimiter, Inner
//	TokenIdent            Literal (the identifier)
//	TokenInt, TokenFloat  Literal (the digits)
//	TokenString           Literal (the unescaped value)
//	TokenPunct            Ch, Spacing
type Token struct {
	Kind      TokenKind
	Span      Span
	Literal   string
	Ch        rune
	Spacing   Spacing
	Delimiter Delimiter
	Inner     []Token
}

func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && t.Literal == name
}

func (t Token) IsPunct(ch rune) bool {
	return t.Kind == TokenPunct && t.Ch == ch
}

func (t Token) IsGroup(d Delimiter) bool {
	return t.Kind == TokenGroup && t.Delimiter == d
}

// Adjacent reports whether next starts exactly where t ends.
func (t Token) Adjacent(next Token) bool {
	return t.Span.End.Offset == next.Span.Start.Offset
}

func (t Token) String() string {
	switch t.Kind {
	case TokenGroup:
		return fmt.Sprintf("%c...%c", t.Delimiter.Open(), t.Delimiter.Close())
	case TokenPunct:
		return string(t.Ch)
	case TokenString:
		return fmt.Sprintf("%q", t.Literal)
	default:
		return t.Literal
	}
}
