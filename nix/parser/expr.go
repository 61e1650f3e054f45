package parser

import "github.com/dhamidi/synix/nix/lexer"

// parseExpr parses a full expression. Keyword forms and lambdas extend as
// far to the right as possible; everything else is an operation.
func parseExpr(c *Cursor) (Expr, error) {
	switch {
	case peekKeyword(c, "let"):
		return parseLet(c)
	case peekKeyword(c, "with"):
		return parseWith(c)
	case peekKeyword(c, "assert"):
		return parseAssert(c)
	case peekKeyword(c, "if"):
		return parseIf(c)
	case peekLambda(c) || lambdaShaped(c):
		return parseLambda(c)
	}
	return parseOperation(c)
}

// parseOperation parses operands joined by binary operators or by
// juxtaposition. The right-hand side is always parsed as the whole rest of
// the operation and then rotated into place, see fixPrecedence and
// applyCall.
func parseOperation(c *Cursor) (Expr, error) {
	if op, span, ok := parseUnaryOperator(c); ok {
		rest, err := parseOperation(c)
		if err != nil {
			return nil, err
		}
		return applyUnary(op, span, rest), nil
	}

	lhs, err := parsePrimary(c)
	if err != nil {
		return nil, err
	}

	if startsPrimary(c) {
		rest, err := parseOperation(c)
		if err != nil {
			return nil, err
		}
		return applyCall(lhs, rest), nil
	}

	if op, ok := attempt(c, parseOperator); ok {
		rhs, err := parseOperation(c)
		if err != nil {
			return nil, err
		}
		return fixPrecedence(lhs, op, rhs), nil
	}

	return lhs, nil
}

// parseUnaryOperator consumes a prefix `!` or `-`. A `!` that starts `!=`
// is left alone.
func parseUnaryOperator(c *Cursor) (UnaryOp, lexer.Span, bool) {
	tok, ok := c.Peek()
	if !ok || tok.Kind != lexer.TokenPunct {
		return 0, lexer.Span{}, false
	}
	switch {
	case tok.Ch == '!' && !peekPunct(c, "!="):
		c.Next()
		return OpNot, tok.Span, true
	case tok.Ch == '-':
		c.Next()
		return OpNegate, tok.Span, true
	}
	return 0, lexer.Span{}, false
}

// startsPrimary reports whether the next tokens begin an operand. It
// decides whether a juxtaposed token is a function argument.
func startsPrimary(c *Cursor) bool {
	tok, ok := c.Peek()
	if !ok {
		return false
	}
	switch tok.Kind {
	case lexer.TokenGroup, lexer.TokenInt, lexer.TokenFloat, lexer.TokenString:
		return true
	case lexer.TokenIdent:
		if tok.Literal == "rec" {
			return c.PeekAt(1, func(t lexer.Token) bool { return t.IsGroup(lexer.Brace) })
		}
		return !IsKeyword(tok.Literal)
	}
	return peekPath(c)
}

// parsePrimary parses a single operand: an atom optionally followed by an
// attribute access.
func parsePrimary(c *Cursor) (Expr, error) {
	expr, err := parseAtom(c)
	if err != nil {
		return nil, err
	}
	if peekSelect(c) {
		return parseSelect(c, expr)
	}
	return expr, nil
}

func parseAtom(c *Cursor) (Expr, error) {
	tok, ok := c.Peek()
	if !ok {
		return nil, c.errorf("expected expression, got end of input")
	}

	switch {
	case tok.IsIdent("rec") || tok.IsGroup(lexer.Brace):
		return parseAttrSet(c)
	case tok.IsGroup(lexer.Bracket):
		return parseList(c)
	case tok.IsGroup(lexer.Paren):
		return parseParen(c)
	}

	if path, ok := attempt(c, parsePath); ok {
		return path, nil
	}

	var expr Expr
	var err error
	switch {
	case tok.Kind == lexer.TokenInt, tok.Kind == lexer.TokenFloat, tok.Kind == lexer.TokenString,
		tok.IsIdent("true"), tok.IsIdent("false"):
		expr, err = parseLit(c)
	case tok.Kind == lexer.TokenIdent:
		expr, err = parseIdent(c)
	default:
		return nil, c.errorf("expected expression, got `%s`", tok)
	}
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func parseLit(c *Cursor) (*Lit, error) {
	tok, ok := c.Next()
	if !ok {
		return nil, c.errorf("expected literal, got end of input")
	}
	lit := &Lit{Value: tok.Literal, span: tok.Span}
	switch {
	case tok.Kind == lexer.TokenInt:
		lit.Type = LitInt
	case tok.Kind == lexer.TokenFloat:
		lit.Type = LitFloat
	case tok.Kind == lexer.TokenString:
		lit.Type = LitString
	case tok.IsIdent("true") || tok.IsIdent("false"):
		lit.Type = LitBool
	default:
		return nil, errorAt(tok.Span, "expected literal, got `%s`", tok)
	}
	return lit, nil
}

func parseParen(c *Cursor) (Expr, error) {
	inner, span, err := c.Delimited(lexer.Paren, "`(`")
	if err != nil {
		return nil, err
	}
	expr, err := parseExpr(&inner)
	if err != nil {
		return nil, err
	}
	if err := inner.expectEnd("in parentheses"); err != nil {
		return nil, err
	}
	return &ParenExpr{Inner: expr, span: span}, nil
}

func parseList(c *Cursor) (Expr, error) {
	inner, span, err := c.Delimited(lexer.Bracket, "`[`")
	if err != nil {
		return nil, err
	}
	list := &ListExpr{span: span}
	for !inner.IsEmpty() {
		if !startsPrimary(&inner) {
			tok, _ := inner.Peek()
			return nil, inner.errorf("expected list entry, got `%s`", tok)
		}
		item, err := parsePrimary(&inner)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	return list, nil
}

// peekSelect reports whether an attribute access follows. A `.` that is
// the start of `./` or `...` belongs to something else.
func peekSelect(c *Cursor) bool {
	tok, ok := c.Peek()
	if !ok || !tok.IsPunct('.') {
		return false
	}
	if tok.Spacing == lexer.Joint {
		return !c.PeekAt(1, func(t lexer.Token) bool { return t.IsPunct('/') || t.IsPunct('.') })
	}
	return true
}

func parseSelect(c *Cursor, target Expr) (Expr, error) {
	if _, err := parsePunct(c, "."); err != nil {
		return nil, err
	}
	path, err := parseAttrPath(c)
	if err != nil {
		return nil, err
	}
	return &SelectExpr{
		Target: target,
		Path:   path,
		span:   target.Span().Join(path[len(path)-1].Span()),
	}, nil
}

// parseBounded parses an expression that ends right before a stop token,
// without consuming the stop token. The nearest stop token is tried first;
// if the expression does not parse up to it, later ones are tried so that a
// value containing the stop token itself, as in `a = with s; x;`, is still
// accepted. The error of the nearest attempt is reported when none works.
func parseBounded(c *Cursor, stop func(lexer.Token) bool, context string) (Expr, error) {
	var firstErr error
	for n := 0; ; n++ {
		f := c.Fork()
		sub, ok := f.UntilNth(stop, n)
		if !ok {
			return nil, firstErr
		}
		expr, err := parseExpr(&sub)
		if err == nil {
			err = sub.expectEnd(context)
		}
		if err == nil {
			*c = f
			return expr, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		if f.IsEmpty() {
			return nil, firstErr
		}
	}
}
