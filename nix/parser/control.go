package parser

func parseLet(c *Cursor) (Expr, error) {
	start, err := parseKeyword(c, "let")
	if err != nil {
		return nil, err
	}
	bindings, err := parseBindings(c, func(c *Cursor) bool {
		return c.IsEmpty() || peekKeyword(c, "in")
	})
	if err != nil {
		return nil, err
	}
	if _, err := parseKeyword(c, "in"); err != nil {
		return nil, err
	}
	body, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	return &LetExpr{Bindings: bindings, Body: body, span: start.Join(body.Span())}, nil
}

func parseWith(c *Cursor) (Expr, error) {
	start, err := parseKeyword(c, "with")
	if err != nil {
		return nil, err
	}
	scope, err := parseBounded(c, isPunct(';'), "in `with` scope")
	if err != nil {
		return nil, err
	}
	if _, err := parsePunct(c, ";"); err != nil {
		return nil, err
	}
	body, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	return &WithExpr{Scope: scope, Body: body, span: start.Join(body.Span())}, nil
}

func parseAssert(c *Cursor) (Expr, error) {
	start, err := parseKeyword(c, "assert")
	if err != nil {
		return nil, err
	}
	cond, err := parseBounded(c, isPunct(';'), "in assertion")
	if err != nil {
		return nil, err
	}
	if _, err := parsePunct(c, ";"); err != nil {
		return nil, err
	}
	body, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	return &AssertExpr{Cond: cond, Body: body, span: start.Join(body.Span())}, nil
}

func parseIf(c *Cursor) (Expr, error) {
	start, err := parseKeyword(c, "if")
	if err != nil {
		return nil, err
	}
	cond, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	if _, err := parseKeyword(c, "then"); err != nil {
		return nil, err
	}
	then, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	if _, err := parseKeyword(c, "else"); err != nil {
		return nil, err
	}
	els, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	return &IfExpr{Cond: cond, Then: then, Else: els, span: start.Join(els.Span())}, nil
}
