package grammar

import (
	"fmt"

	"github.com/dhamidi/synix/nix/lexer"
)

// item is an Earley item: a rule, the position of the dot in its
// right-hand side and the chart position the rule was predicted at.
type item struct {
	rule   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen == nil {
		s.seen = make(map[item]bool)
	}
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Error reports where recognition stopped.
type Error struct {
	Span    lexer.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// Recognize reports whether input is a sentence of the production start.
// Nullable symbols are advanced over at prediction time, so empty rules
// need no special completion pass.
func (g *Grammar) Recognize(start string, input []Lexeme) error {
	if len(g.byName[start]) == 0 {
		return fmt.Errorf("production %q not found in grammar", start)
	}

	n := len(input)
	chart := make([]itemSet, n+1)
	for _, r := range g.byName[start] {
		chart[0].add(item{rule: r})
	}

	for i := 0; i <= n; i++ {
		set := &chart[i]
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			r := g.rules[it.rule]
			if it.dot == len(r.rhs) {
				g.complete(chart, i, it)
				continue
			}
			next := r.rhs[it.dot]
			if next.terminal {
				if i < n && next.matches(input[i]) {
					chart[i+1].add(item{it.rule, it.dot + 1, it.origin})
				}
				continue
			}
			for _, ri := range g.byName[next.name] {
				set.add(item{rule: ri, origin: i})
			}
			if g.nullable[next.name] {
				set.add(item{it.rule, it.dot + 1, it.origin})
			}
		}
	}

	for _, it := range chart[n].items {
		r := g.rules[it.rule]
		if it.origin == 0 && r.lhs == start && it.dot == len(r.rhs) {
			return nil
		}
	}

	furthest := 0
	for i := n; i >= 0; i-- {
		if len(chart[i].items) > 0 {
			furthest = i
			break
		}
	}
	if furthest < n {
		return &Error{Span: input[furthest].Span, Message: fmt.Sprintf("unexpected %s", input[furthest])}
	}
	var end lexer.Span
	if n > 0 {
		end = lexer.Point(input[n-1].Span.End)
	}
	return &Error{Span: end, Message: "unexpected end of input"}
}

// complete advances every item that was waiting at done's origin for the
// symbol done has just derived.
func (g *Grammar) complete(chart []itemSet, i int, done item) {
	lhs := g.rules[done.rule].lhs
	waiting := &chart[done.origin]
	for k := 0; k < len(waiting.items); k++ {
		w := waiting.items[k]
		r := g.rules[w.rule]
		if w.dot < len(r.rhs) && !r.rhs[w.dot].terminal && r.rhs[w.dot].name == lhs {
			chart[i].add(item{w.rule, w.dot + 1, w.origin})
		}
	}
}
