// Package parser turns the token tree produced by package lexer into an
// expression tree.
//
// The grammar is a set of small recursive productions over a Cursor. Every
// production can be tried speculatively on a fork of the cursor, which is how
// constructs that are only recognizable after partially parsing them (such
// as lambdas) are told apart. Binary operators are parsed right-recursively
// and rotated into precedence order afterwards.
package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/synix/nix/lexer"
)

// Parse tokenizes and parses src as a single expression. The returned error
// is always a *Error; if tokenizing failed it wraps the *lexer.Error.
func Parse(src string) (Expr, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, fromLexError(lexErr)
		}
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseWithComments is Parse, additionally returning the spans of the
// comments in src. Comments are not part of the tree, so tools that print
// the tree back need them to know what would be lost.
func ParseWithComments(src string) (Expr, []lexer.Span, error) {
	l := lexer.NewLexer(src)
	tokens, err := l.Tokens()
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, l.Comments(), fromLexError(lexErr)
		}
		return nil, l.Comments(), err
	}
	expr, err := ParseTokens(tokens)
	return expr, l.Comments(), err
}

// ParseReader reads all of r and parses it.
func ParseReader(r io.Reader) (Expr, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return Parse(string(src))
}

// ParseTokens parses an already tokenized expression. All tokens must be
// consumed.
func ParseTokens(tokens []lexer.Token) (Expr, error) {
	c := NewCursor(tokens)
	if c.IsEmpty() {
		return nil, c.errorf("expected expression, got end of input")
	}
	expr, err := parseExpr(&c)
	if err != nil {
		return nil, err
	}
	if err := c.expectEnd("after expression"); err != nil {
		return nil, err
	}
	return expr, nil
}
