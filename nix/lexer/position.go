package lexer

import "fmt"

// Position is a zero-based location in the source text. Offset counts bytes,
// Column counts characters since the last newline.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Before reports whether p comes strictly before q, comparing lines first
// and columns second.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// String renders the position with 1-based line and column numbers, the way
// editors and compilers display them.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Join returns the smallest span covering both s and o.
func (s Span) Join(o Span) Span {
	out := s
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if out.End.Before(o.End) {
		out.End = o.End
	}
	return out
}

// IsEmpty reports whether the span covers no characters.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether pos lies inside the span.
func (s Span) Contains(pos Position) bool {
	return !pos.Before(s.Start) && pos.Before(s.End)
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Point returns an empty span located at p.
func Point(p Position) Span {
	return Span{Start: p, End: p}
}
