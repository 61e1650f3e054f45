package parser

import "github.com/dhamidi/synix/nix/lexer"

// parseIdent parses a plain identifier in expression position.
func parseIdent(c *Cursor) (*Ident, error) {
	tok, ok := c.Peek()
	if !ok {
		return nil, c.errorf("expected identifier, got end of input")
	}
	if tok.Kind != lexer.TokenIdent {
		return nil, c.errorf("expected identifier, got `%s`", tok)
	}
	if IsKeyword(tok.Literal) {
		return nil, c.errorf("expected identifier, got keyword `%s`", tok.Literal)
	}
	c.Next()
	return &Ident{Name: tok.Literal, Form: IdentPlain, span: tok.Span}, nil
}

// parseAttrName parses one segment of an attribute path: a plain
// identifier, a string literal, or `${expr}`.
func parseAttrName(c *Cursor) (*Ident, error) {
	tok, ok := c.Peek()
	if !ok {
		return nil, c.errorf("expected attribute name, got end of input")
	}
	switch {
	case tok.Kind == lexer.TokenString:
		c.Next()
		return &Ident{Name: tok.Literal, Form: IdentQuoted, span: tok.Span}, nil
	case tok.IsPunct('$'):
		expr, span, err := parseInterpolation(c)
		if err != nil {
			return nil, err
		}
		return &Ident{Form: IdentInterpolated, Interpolation: expr, span: span}, nil
	case tok.Kind == lexer.TokenIdent:
		return parseIdent(c)
	}
	return nil, c.errorf("expected attribute name, got `%s`", tok)
}

// parseAttrPath parses one or more dot-separated attribute names.
func parseAttrPath(c *Cursor) ([]*Ident, error) {
	first, err := parseAttrName(c)
	if err != nil {
		return nil, err
	}
	path := []*Ident{first}
	for c.PeekAt(0, isPunct('.')) {
		c.Next()
		name, err := parseAttrName(c)
		if err != nil {
			return nil, err
		}
		path = append(path, name)
	}
	return path, nil
}

// parseInterpolation parses `${expr}`. The brace must directly follow the
// dollar sign.
func parseInterpolation(c *Cursor) (Expr, lexer.Span, error) {
	dollar, ok := c.Peek()
	if !ok || !dollar.IsPunct('$') {
		return nil, lexer.Span{}, c.errorf("expected `${`")
	}
	c.Next()
	if !c.PeekAt(0, func(t lexer.Token) bool { return t.IsGroup(lexer.Brace) && dollar.Adjacent(t) }) {
		return nil, lexer.Span{}, c.errorf("expected `{` directly after `$`")
	}
	inner, span, err := c.Delimited(lexer.Brace, "`{`")
	if err != nil {
		return nil, lexer.Span{}, err
	}
	expr, err := parseExpr(&inner)
	if err != nil {
		return nil, lexer.Span{}, err
	}
	if err := inner.expectEnd("in interpolation"); err != nil {
		return nil, lexer.Span{}, err
	}
	return expr, dollar.Span.Join(span), nil
}
