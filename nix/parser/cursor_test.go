package parser

import (
	"testing"

	"github.com/dhamidi/synix/nix/lexer"
)

func mustTokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	return tokens
}

func TestCursorForkIsIndependent(t *testing.T) {
	c := NewCursor(mustTokenize(t, "a b c"))
	f := c.Fork()
	f.Next()
	f.Next()

	if tok, _ := c.Peek(); !tok.IsIdent("a") {
		t.Errorf("original Peek() = %v after fork advanced, want a", tok)
	}
	if tok, _ := f.Peek(); !tok.IsIdent("c") {
		t.Errorf("fork Peek() = %v, want c", tok)
	}
	if c.Len() != 3 || f.Len() != 1 {
		t.Errorf("Len() = %d / %d, want 3 / 1", c.Len(), f.Len())
	}
}

func TestCursorPeekAt(t *testing.T) {
	c := NewCursor(mustTokenize(t, "x @ { }"))
	if !c.PeekAt(1, isPunct('@')) {
		t.Error("PeekAt(1, @) = false, want true")
	}
	if !c.PeekAt(2, func(t lexer.Token) bool { return t.IsGroup(lexer.Brace) }) {
		t.Error("PeekAt(2, brace group) = false, want true")
	}
	if c.PeekAt(3, func(lexer.Token) bool { return true }) {
		t.Error("PeekAt past the end = true, want false")
	}
}

func TestCursorDelimited(t *testing.T) {
	c := NewCursor(mustTokenize(t, "{ a b } c"))

	fork := c.Fork()
	if _, _, err := fork.Delimited(lexer.Bracket, "`[`"); err == nil {
		t.Fatal("Delimited(Bracket) on a brace group succeeded")
	}

	inner, span, err := c.Delimited(lexer.Brace, "`{`")
	if err != nil {
		t.Fatalf("Delimited(Brace) error: %v", err)
	}
	if inner.Len() != 2 {
		t.Errorf("inner.Len() = %d, want 2", inner.Len())
	}
	if span.Start.Offset != 0 || span.End.Offset != 7 {
		t.Errorf("group span = %v, want offsets 0-7", span)
	}
	if tok, _ := c.Peek(); !tok.IsIdent("c") {
		t.Errorf("parent Peek() = %v, want c", tok)
	}

	inner.Next()
	inner.Next()
	if !inner.IsEmpty() {
		t.Fatal("inner cursor not empty after consuming both tokens")
	}
	if _, ok := inner.Next(); ok {
		t.Error("inner.Next() past the closing brace returned a token")
	}
	if got := inner.Span(); got.Start.Offset != 6 {
		t.Errorf("inner end span starts at %d, want 6 (the closing brace)", got.Start.Offset)
	}
}

func TestCursorUntil(t *testing.T) {
	c := NewCursor(mustTokenize(t, "a + b ; c"))
	sub := c.Until(isPunct(';'))

	if sub.Len() != 3 {
		t.Errorf("sub.Len() = %d, want 3", sub.Len())
	}
	if !c.PeekAt(0, isPunct(';')) {
		t.Errorf("parent is not positioned at the stop token")
	}
	for i := 0; i < 3; i++ {
		sub.Next()
	}
	if !sub.IsEmpty() {
		t.Fatalf("sub-cursor not empty after 3 tokens")
	}
	if got := sub.Span(); got.Start.Offset != 6 {
		t.Errorf("exhausted sub-cursor reports %v, want the stop token at offset 6", got)
	}
}

func TestCursorUntilWithoutStop(t *testing.T) {
	c := NewCursor(mustTokenize(t, "a b"))
	sub := c.Until(isPunct(';'))
	if sub.Len() != 2 || !c.IsEmpty() {
		t.Errorf("sub.Len() = %d, parent empty = %v; want 2, true", sub.Len(), c.IsEmpty())
	}
}

func TestCursorUntilNth(t *testing.T) {
	c := NewCursor(mustTokenize(t, "a ; b ; c"))

	f := c.Fork()
	sub, ok := f.UntilNth(isPunct(';'), 1)
	if !ok || sub.Len() != 3 {
		t.Errorf("UntilNth(1) = %d tokens, %v; want 3, true", sub.Len(), ok)
	}

	f = c.Fork()
	sub, ok = f.UntilNth(isPunct(';'), 2)
	if !ok || sub.Len() != 5 || !f.IsEmpty() {
		t.Errorf("UntilNth(2) = %d tokens, %v; want 5, true", sub.Len(), ok)
	}

	f = c.Fork()
	if _, ok := f.UntilNth(isPunct(';'), 3); ok {
		t.Error("UntilNth(3) succeeded with only two stop tokens")
	}
	if f.Len() != c.Len() {
		t.Error("failed UntilNth moved the cursor")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	c := NewCursor(mustTokenize(t, "a: b"))
	if !peekLambda(&c) {
		t.Fatal("peekLambda = false, want true")
	}
	if c.Len() != 3 {
		t.Errorf("Len() after peek = %d, want 3", c.Len())
	}
}

func TestAttemptCommitsOnlyOnSuccess(t *testing.T) {
	c := NewCursor(mustTokenize(t, "== x"))
	if _, ok := attempt(&c, func(c *Cursor) (lexer.Span, error) { return parsePunct(c, "!=") }); ok {
		t.Fatal("attempt(!=) succeeded on ==")
	}
	if c.Len() != 3 {
		t.Errorf("failed attempt consumed tokens: Len() = %d", c.Len())
	}
	op, ok := attempt(&c, parseOperator)
	if !ok || op != OpEq {
		t.Fatalf("attempt(parseOperator) = %v, %v; want ==, true", op, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after operator, want 1", c.Len())
	}
}

func TestParsePunctRequiresJoint(t *testing.T) {
	tests := []struct {
		input string
		seq   string
		ok    bool
	}{
		{"==", "==", true},
		{"= =", "==", false},
		{"...", "...", true},
		{". ..", "...", false},
		{"//", "//", true},
		{"/", "//", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := NewCursor(mustTokenize(t, tt.input))
			_, err := parsePunct(&c, tt.seq)
			if (err == nil) != tt.ok {
				t.Errorf("parsePunct(%q) error = %v, want ok=%v", tt.seq, err, tt.ok)
			}
		})
	}
}
