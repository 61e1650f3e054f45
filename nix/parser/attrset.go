package parser

import (
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
)

func parseAttrSet(c *Cursor) (Expr, error) {
	set := &AttrSetExpr{}
	var recSpan lexer.Span
	if peekKeyword(c, "rec") {
		recSpan, _ = parseKeyword(c, "rec")
		set.Rec = true
	}

	inner, span, err := c.Delimited(lexer.Brace, "`{`")
	if err != nil {
		return nil, err
	}
	set.span = span
	if set.Rec {
		set.span = recSpan.Join(span)
	}

	set.Assignments, err = parseBindings(&inner, func(c *Cursor) bool { return c.IsEmpty() })
	if err != nil {
		return nil, err
	}
	return set, nil
}

// parseBindings parses assignments until done reports true. Keys are
// checked for duplicates as they are parsed.
func parseBindings(c *Cursor, done func(*Cursor) bool) ([]Assignment, error) {
	var assignments []Assignment
	keys := keySet{}
	for !done(c) {
		a, err := parseAssignment(c)
		if err != nil {
			return nil, err
		}
		if err := keys.add(a); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func parseAssignment(c *Cursor) (Assignment, error) {
	if c.IsEmpty() {
		return nil, c.errorf("expected assignment, got end of input")
	}
	var a Assignment
	var err error
	if peekKeyword(c, "inherit") {
		a, err = parseInherit(c)
	} else {
		a, err = parseNamed(c)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func parseNamed(c *Cursor) (*Named, error) {
	path, err := parseAttrPath(c)
	if err != nil {
		return nil, err
	}
	named := &Named{Path: path}

	if _, err := parsePunct(c, "="); err != nil {
		return nil, err
	}
	named.Value, err = parseBounded(c, isPunct(';'), "in value of `"+named.PathString()+"`")
	if err != nil {
		return nil, err
	}
	end, err := parsePunct(c, ";")
	if err != nil {
		return nil, err
	}
	named.span = path[0].Span().Join(end)
	return named, nil
}

func parseInherit(c *Cursor) (*Inherit, error) {
	start, err := parseKeyword(c, "inherit")
	if err != nil {
		return nil, err
	}
	inherit := &Inherit{}

	if c.PeekAt(0, func(t lexer.Token) bool { return t.IsGroup(lexer.Paren) }) {
		inner, _, err := c.Delimited(lexer.Paren, "`(`")
		if err != nil {
			return nil, err
		}
		inherit.From, err = parseExpr(&inner)
		if err != nil {
			return nil, err
		}
		if err := inner.expectEnd("in inherit source"); err != nil {
			return nil, err
		}
	}

	for !c.PeekAt(0, isPunct(';')) {
		if c.IsEmpty() {
			return nil, c.errorf("expected `;`, got end of input")
		}
		name, err := parseAttrName(c)
		if err != nil {
			return nil, err
		}
		if name.Form == IdentInterpolated {
			return nil, errorAt(name.Span(), "interpolated identifiers are not allowed in inherit")
		}
		inherit.Names = append(inherit.Names, name)
	}

	end, _ := parsePunct(c, ";")
	inherit.span = start.Join(end)
	return inherit, nil
}

// keySet tracks the statically known keys of a binding list. A key is
// either a leaf, bound to a value, or a set, the prefix of a longer path.
// A leaf may not be bound again nor extended, so `a = 1; a.b = 2;` is
// rejected while `a.b = 1; a.c = 2;` is not. Interpolated names are only
// known at evaluation time; checking stops at the first one.
type keySet map[string]keyKind

type keyKind int

const (
	keyLeaf keyKind = iota + 1
	keyPrefix
)

func (ks keySet) add(a Assignment) error {
	switch a := a.(type) {
	case *Inherit:
		for _, name := range a.Names {
			if err := ks.insert([]*Ident{name}); err != nil {
				return err
			}
		}
	case *Named:
		return ks.insert(a.Path)
	}
	return nil
}

func (ks keySet) insert(path []*Ident) error {
	parts := make([]string, 0, len(path))
	for i, name := range path {
		key, ok := name.Key()
		if !ok {
			return nil
		}
		parts = append(parts, key)
		joined := strings.Join(parts, "\x00")
		last := i == len(path)-1

		kind := ks[joined]
		if kind == keyLeaf || (last && kind != 0) {
			span := path[0].Span().Join(name.Span())
			return errorAt(span, "duplicate attribute `%s`", strings.Join(parts, "."))
		}
		if last {
			ks[joined] = keyLeaf
		} else {
			ks[joined] = keyPrefix
		}
	}
	return nil
}
