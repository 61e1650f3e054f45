package grammar

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

// symbol is one element of a rule's right-hand side. Terminals either name
// a lexeme kind (a reference to a lexical production) or spell out a
// literal.
type symbol struct {
	name     string
	terminal bool
	literal  bool
}

func (s symbol) matches(l Lexeme) bool {
	if s.literal {
		return l.Kind == KindSymbol && l.Text == s.name
	}
	return l.Kind == s.name
}

// rule is a plain context-free rule lhs = rhs.
type rule struct {
	lhs string
	rhs []symbol
}

type compiler struct {
	g     *Grammar
	fresh int
	err   error
}

// compile turns the syntactic productions into context-free rules. Groups,
// options and repetitions become rules of their own, named after the
// production they appear in.
func compile(productions ebnf.Grammar) (*Grammar, error) {
	g := &Grammar{
		productions: productions,
		byName:      make(map[string][]int),
		nullable:    make(map[string]bool),
	}
	c := &compiler{g: g}
	for name, prod := range productions {
		if isLexical(name) {
			continue
		}
		for _, seq := range c.alternatives(name, prod.Expr) {
			g.addRule(name, seq)
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	g.computeNullable()
	return g, nil
}

func (g *Grammar) addRule(lhs string, rhs []symbol) {
	g.byName[lhs] = append(g.byName[lhs], len(g.rules))
	g.rules = append(g.rules, rule{lhs: lhs, rhs: rhs})
}

func (c *compiler) alternatives(owner string, expr ebnf.Expression) [][]symbol {
	switch e := expr.(type) {
	case nil:
		return [][]symbol{nil}
	case ebnf.Alternative:
		var out [][]symbol
		for _, alt := range e {
			out = append(out, c.alternatives(owner, alt)...)
		}
		return out
	case ebnf.Sequence:
		seq := make([]symbol, 0, len(e))
		for _, item := range e {
			seq = append(seq, c.symbol(owner, item))
		}
		return [][]symbol{seq}
	}
	return [][]symbol{{c.symbol(owner, expr)}}
}

func (c *compiler) symbol(owner string, expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Name:
		return symbol{name: e.String, terminal: isLexical(e.String)}
	case *ebnf.Token:
		return symbol{name: e.String, terminal: true, literal: true}
	case *ebnf.Group:
		return c.helper(owner, c.alternatives(owner, e.Body))
	case *ebnf.Option:
		return c.helper(owner, append(c.alternatives(owner, e.Body), nil))
	case *ebnf.Repetition:
		self := symbol{name: c.freshName(owner)}
		c.g.addRule(self.name, nil)
		for _, seq := range c.alternatives(owner, e.Body) {
			rhs := append(append([]symbol{}, seq...), self)
			c.g.addRule(self.name, rhs)
		}
		return self
	case *ebnf.Range:
		if c.err == nil {
			c.err = fmt.Errorf("%s: character range in syntactic production %s", e.Pos(), owner)
		}
	default:
		if c.err == nil {
			c.err = fmt.Errorf("unsupported expression %T in production %s", expr, owner)
		}
	}
	return symbol{name: owner}
}

func (c *compiler) helper(owner string, alts [][]symbol) symbol {
	name := c.freshName(owner)
	for _, seq := range alts {
		c.g.addRule(name, seq)
	}
	return symbol{name: name}
}

// freshName cannot clash with a production: `#` is not an identifier
// character in EBNF.
func (c *compiler) freshName(owner string) string {
	c.fresh++
	return fmt.Sprintf("%s#%d", owner, c.fresh)
}

func (g *Grammar) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, r := range g.rules {
			if g.nullable[r.lhs] {
				continue
			}
			empty := true
			for _, s := range r.rhs {
				if s.terminal || !g.nullable[s.name] {
					empty = false
					break
				}
			}
			if empty {
				g.nullable[r.lhs] = true
				changed = true
			}
		}
	}
}
