package lexer

import "fmt"

// Error is a character-level failure: unterminated strings, unbalanced
// groups, unexpected characters and malformed numbers.
type Error struct {
	Span    Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

func errorf(span Span, format string, args ...any) *Error {
	return &Error{Span: span, Message: fmt.Sprintf(format, args...)}
}
