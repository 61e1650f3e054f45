package parser

import (
	"errors"
	"fmt"

	"github.com/dhamidi/synix/nix/lexer"
)

// Error is a token-level parse failure. When the input could not be
// tokenized, Err holds the underlying *lexer.Error.
type Error struct {
	Span    lexer.Span
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorAt(span lexer.Span, format string, args ...any) *Error {
	return &Error{Span: span, Message: fmt.Sprintf(format, args...)}
}

func fromLexError(err *lexer.Error) *Error {
	return &Error{
		Span:    err.Span,
		Message: "lexer error: " + err.Message,
		Err:     err,
	}
}

// Describe extracts the location and message of a parse or lex error. It
// reports false for any other error.
func Describe(err error) (lexer.Span, string, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Span, perr.Message, true
	}
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return lerr.Span, lerr.Message, true
	}
	return lexer.Span{}, "", false
}
