package grammar

import (
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

// Lexeme kinds. All but KindSymbol are named after the lexical production
// describing them.
const (
	KindIdentifier = "identifier"
	KindInteger    = "integer"
	KindFloat      = "float"
	KindString     = "string"
	KindPath       = "path"
	KindSymbol     = "symbol"
)

// Lexeme is a terminal of the syntactic productions: a keyword, an
// operator, a delimiter, or a member of one of the lexical classes.
type Lexeme struct {
	Kind string
	Text string
	Span lexer.Span
}

func (l Lexeme) String() string {
	if l.Kind == KindSymbol {
		return "`" + l.Text + "`"
	}
	return l.Kind + " `" + l.Text + "`"
}

// operators are the multi-character symbols, longest first.
var operators = []string{"...", "//", "++", "==", "!=", "<=", ">=", "&&", "||"}

// Lexemes flattens a token tree into the terminals the grammar is written
// in. Groups contribute their delimiters, joint punctuation is merged into
// operators and runs of adjacent tokens forming a path become one lexeme,
// the same way the parser recognizes them.
func Lexemes(tokens []lexer.Token) []Lexeme {
	var out []Lexeme
	appendLexemes(&out, tokens)
	return out
}

func appendLexemes(out *[]Lexeme, toks []lexer.Token) {
	for i := 0; i < len(toks); {
		if n := pathLength(toks, i); n > 0 {
			*out = append(*out, pathLexeme(toks[i:i+n]))
			i += n
			continue
		}

		tok := toks[i]
		switch tok.Kind {
		case lexer.TokenGroup:
			openSpan, closeSpan := delimiterSpans(tok.Span)
			*out = append(*out, Lexeme{Kind: KindSymbol, Text: string(tok.Delimiter.Open()), Span: openSpan})
			appendLexemes(out, tok.Inner)
			*out = append(*out, Lexeme{Kind: KindSymbol, Text: string(tok.Delimiter.Close()), Span: closeSpan})
			i++
			continue
		case lexer.TokenPunct:
			n := operatorLength(toks, i)
			var text strings.Builder
			for _, t := range toks[i : i+n] {
				text.WriteRune(t.Ch)
			}
			*out = append(*out, Lexeme{Kind: KindSymbol, Text: text.String(), Span: tok.Span.Join(toks[i+n-1].Span)})
			i += n
			continue
		}

		kind := KindIdentifier
		switch tok.Kind {
		case lexer.TokenIdent:
			if parser.IsKeyword(tok.Literal) {
				kind = KindSymbol
			}
		case lexer.TokenInt:
			kind = KindInteger
		case lexer.TokenFloat:
			kind = KindFloat
		case lexer.TokenString:
			kind = KindString
		}
		*out = append(*out, Lexeme{Kind: kind, Text: tok.Literal, Span: tok.Span})
		i++
	}
}

func delimiterSpans(s lexer.Span) (lexer.Span, lexer.Span) {
	afterOpen := lexer.Position{Offset: s.Start.Offset + 1, Line: s.Start.Line, Column: s.Start.Column + 1}
	beforeClose := lexer.Position{Offset: s.End.Offset - 1, Line: s.End.Line, Column: s.End.Column - 1}
	return lexer.Span{Start: s.Start, End: afterOpen}, lexer.Span{Start: beforeClose, End: s.End}
}

func operatorLength(toks []lexer.Token, i int) int {
	for _, op := range operators {
		if spellsOperator(toks[i:], op) {
			return len(op)
		}
	}
	return 1
}

func spellsOperator(toks []lexer.Token, op string) bool {
	if len(toks) < len(op) {
		return false
	}
	for k, ch := range op {
		t := toks[k]
		if t.Kind != lexer.TokenPunct || t.Ch != ch {
			return false
		}
		if k < len(op)-1 && t.Spacing != lexer.Joint {
			return false
		}
	}
	return true
}

func pathLexeme(toks []lexer.Token) Lexeme {
	var text strings.Builder
	for _, t := range toks {
		text.WriteString(t.String())
	}
	return Lexeme{Kind: KindPath, Text: text.String(), Span: toks[0].Span.Join(toks[len(toks)-1].Span)}
}

// pathLength returns the number of tokens starting at i that form a path,
// or 0. Bare paths only start at an identifier or an integer since a
// leading `-` or `+` is taken as an operator first.
func pathLength(toks []lexer.Token, i int) int {
	s := pathScan{toks: toks, start: i, pos: i}
	tok := toks[i]

	switch {
	case tok.IsPunct('<'):
		s.pos++
		if !s.parts() || !s.take(isPunctChar('>')) {
			return 0
		}
		return s.pos - i
	case tok.IsPunct('/'):
		s.pos++
	case tok.IsPunct('~'):
		s.pos++
		if !s.take(isPunctChar('/')) {
			return 0
		}
	case tok.IsPunct('.'):
		s.pos++
		s.take(isPunctChar('.'))
		if !s.take(isPunctChar('/')) {
			return 0
		}
	case tok.Kind == lexer.TokenIdent, tok.Kind == lexer.TokenInt:
		if !s.parts() || s.count < 2 {
			return 0
		}
		return s.pos - i
	default:
		return 0
	}

	if !s.parts() {
		return 0
	}
	return s.pos - i
}

type pathScan struct {
	toks  []lexer.Token
	start int
	pos   int
	count int
}

// take consumes the next token if it matches pred and directly follows
// the previous one.
func (s *pathScan) take(pred func(lexer.Token) bool) bool {
	if s.pos >= len(s.toks) || !pred(s.toks[s.pos]) {
		return false
	}
	if s.pos > s.start && !s.toks[s.pos-1].Adjacent(s.toks[s.pos]) {
		return false
	}
	s.pos++
	return true
}

// parts consumes slash-separated components. A trailing slash fails.
func (s *pathScan) parts() bool {
	for {
		if !s.part() {
			return false
		}
		s.count++
		if !s.take(isPunctChar('/')) {
			return true
		}
	}
}

func (s *pathScan) part() bool {
	begin := s.pos
	for {
		if s.take(isPathChar) {
			continue
		}
		save := s.pos
		if s.take(isPunctChar('$')) {
			if s.take(isBraceGroup) {
				continue
			}
			s.pos = save
		}
		break
	}
	return s.pos > begin
}

func isPunctChar(ch rune) func(lexer.Token) bool {
	return func(t lexer.Token) bool { return t.IsPunct(ch) }
}

func isBraceGroup(t lexer.Token) bool {
	return t.IsGroup(lexer.Brace)
}

func isPathChar(t lexer.Token) bool {
	switch t.Kind {
	case lexer.TokenIdent, lexer.TokenInt:
		return true
	case lexer.TokenPunct:
		return t.Ch == '.' || t.Ch == '-' || t.Ch == '+'
	}
	return false
}
