// Package grammar holds the EBNF description of the language accepted by
// nix/parser. The grammar is verified with golang.org/x/exp/ebnf and can
// recognize token streams, which keeps the description and the parser in
// step.
package grammar

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/synix/nix/lexer"
)

// Start is the production a whole source file must match.
const Start = "Expr"

//go:embed nix.ebnf
var Source string

// Grammar is a parsed EBNF grammar together with the rules compiled from
// its syntactic productions.
type Grammar struct {
	productions ebnf.Grammar
	rules       []rule
	byName      map[string][]int
	nullable    map[string]bool
}

// Parse reads an EBNF grammar from r.
func Parse(filename string, r io.Reader) (*Grammar, error) {
	productions, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return compile(productions)
}

// ParseFile reads the EBNF grammar stored in filename.
func ParseFile(filename string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(filename, f)
}

// Load parses the embedded grammar.
func Load() (*Grammar, error) {
	return Parse("nix.ebnf", strings.NewReader(Source))
}

// Check verifies the embedded grammar starting at start.
func Check(start string) error {
	g, err := Load()
	if err != nil {
		return err
	}
	return g.Verify(start)
}

// Verify reports undefined and unreachable productions, and lexical
// productions that refer to syntactic ones.
func (g *Grammar) Verify(start string) error {
	return ebnf.Verify(g.productions, start)
}

// Productions returns the names of all productions.
func (g *Grammar) Productions() []string {
	names := make([]string, 0, len(g.productions))
	for name := range g.productions {
		names = append(names, name)
	}
	return names
}

// Accept tokenizes src and recognizes it as the Start production.
func (g *Grammar) Accept(src string) error {
	return g.AcceptFrom(Start, src)
}

// AcceptFrom tokenizes src and recognizes it as the production start.
func (g *Grammar) AcceptFrom(start, src string) error {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	return g.Recognize(start, Lexemes(tokens))
}

// isLexical follows ebnf's convention: names not starting with an
// upper-case letter denote lexical productions.
func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
