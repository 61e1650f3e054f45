package grammar

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

const noMatch = -1

type memoKey struct {
	name   string
	offset int
}

// matcher runs lexical productions directly over text. Alternatives take
// the longest match and repetitions are greedy; there is no backtracking
// into a repetition, which the lexical productions do not need.
type matcher struct {
	grammar  ebnf.Grammar
	input    string
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

// Match reports whether text is exactly one instance of the lexical
// production name.
func (g *Grammar) Match(name, text string) bool {
	if _, ok := g.productions[name]; !ok {
		return false
	}
	m := &matcher{
		grammar:  g.productions,
		input:    text,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	return m.name(name, 0) == len(text)
}

// expr returns the length of the match of expr at offset, or noMatch. A
// zero length is a successful empty match.
func (m *matcher) expr(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if strings.HasPrefix(m.input[offset:], e.String) {
			return len(e.String)
		}
		return noMatch

	case *ebnf.Range:
		r, size := utf8.DecodeRuneInString(m.input[offset:])
		begin, _ := utf8.DecodeRuneInString(e.Begin.String)
		end, _ := utf8.DecodeRuneInString(e.End.String)
		if size > 0 && r >= begin && r <= end {
			return size
		}
		return noMatch

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.expr(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := m.expr(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.expr(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		if n := m.expr(e.Body, offset); n != noMatch {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.expr(e.Body, offset)

	case *ebnf.Name:
		return m.name(e.String, offset)
	}
	return noMatch
}

// name matches a production with memoization. A production reached again
// at the same offset while it is being matched is left-recursive and
// fails there.
func (m *matcher) name(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.visiting[key] {
		return noMatch
	}
	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = noMatch
		return noMatch
	}

	m.visiting[key] = true
	n := m.expr(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = n
	return n
}
