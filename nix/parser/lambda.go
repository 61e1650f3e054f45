package parser

import "github.com/dhamidi/synix/nix/lexer"

// peekLambda reports whether a lambda argument followed by `:` is next.
func peekLambda(c *Cursor) bool {
	return peek(c, func(c *Cursor) (LambdaArg, error) {
		arg, err := parseLambdaArg(c)
		if err != nil {
			return nil, err
		}
		if _, err := parsePunct(c, ":"); err != nil {
			return nil, err
		}
		return arg, nil
	})
}

// lambdaShaped reports whether the next tokens can only be the start of a
// lambda even though the argument does not parse, such as
// `{ ..., a }: a`. Committing to the lambda reports the argument error
// instead of a confusing one from the attribute set grammar.
func lambdaShaped(c *Cursor) bool {
	tok, ok := c.Peek()
	if !ok {
		return false
	}
	isIdent := tok.Kind == lexer.TokenIdent && !IsKeyword(tok.Literal)
	if !isIdent && !tok.IsGroup(lexer.Brace) {
		return false
	}
	if c.PeekAt(1, isPunct('@')) {
		return true
	}
	return tok.IsGroup(lexer.Brace) && c.PeekAt(1, isPunct(':'))
}

func parseLambda(c *Cursor) (Expr, error) {
	arg, err := parseLambdaArg(c)
	if err != nil {
		return nil, err
	}
	if _, err := parsePunct(c, ":"); err != nil {
		return nil, err
	}
	body, err := parseExpr(c)
	if err != nil {
		return nil, err
	}
	return &LambdaExpr{Arg: arg, Body: body, span: arg.Span().Join(body.Span())}, nil
}

// parseLambdaArg parses `name`, `{ pattern }`, `name@{ pattern }` or
// `{ pattern }@name`.
func parseLambdaArg(c *Cursor) (LambdaArg, error) {
	if c.PeekAt(0, func(t lexer.Token) bool { return t.Kind == lexer.TokenIdent }) {
		name, err := parseIdent(c)
		if err != nil {
			return nil, err
		}
		if !c.PeekAt(0, isPunct('@')) {
			return &IdentArg{Name: name}, nil
		}
		c.Next()
		pattern, err := parsePattern(c)
		if err != nil {
			return nil, err
		}
		if c.PeekAt(0, isPunct('@')) {
			return nil, c.errorf("argument set is already bound to `%s`", name.Name)
		}
		if err := checkBind(pattern, name); err != nil {
			return nil, err
		}
		pattern.Bind = name
		pattern.BindFirst = true
		pattern.span = name.Span().Join(pattern.span)
		return pattern, nil
	}

	pattern, err := parsePattern(c)
	if err != nil {
		return nil, err
	}
	if c.PeekAt(0, isPunct('@')) {
		c.Next()
		name, err := parseIdent(c)
		if err != nil {
			return nil, err
		}
		if c.PeekAt(0, isPunct('@')) {
			return nil, c.errorf("argument set is already bound to `%s`", name.Name)
		}
		if err := checkBind(pattern, name); err != nil {
			return nil, err
		}
		pattern.Bind = name
		pattern.span = pattern.span.Join(name.Span())
	}
	return pattern, nil
}

func checkBind(pattern *PatternArg, name *Ident) error {
	if pattern.Field(name.Name) != nil {
		return errorAt(name.Span(), "duplicate argument `%s`", name.Name)
	}
	return nil
}

// parsePattern parses the braces of a destructuring argument: comma
// separated fields with optional `? default`, optionally ending in `...`.
// A single trailing comma is allowed, after the ellipsis too.
func parsePattern(c *Cursor) (*PatternArg, error) {
	inner, span, err := c.Delimited(lexer.Brace, "`{` or an identifier")
	if err != nil {
		return nil, err
	}
	pattern := &PatternArg{span: span}
	for !inner.IsEmpty() {
		if pattern.Ellipsis {
			return nil, inner.errorf("ellipsis must be the last entry of an argument set")
		}

		if peekPunct(&inner, "...") {
			parsePunct(&inner, "...")
			pattern.Ellipsis = true
		} else {
			field, err := parsePatternField(&inner)
			if err != nil {
				return nil, err
			}
			if pattern.Field(field.Name.Name) != nil {
				return nil, errorAt(field.Name.Span(), "duplicate argument `%s`", field.Name.Name)
			}
			pattern.Fields = append(pattern.Fields, field)
		}

		if inner.IsEmpty() {
			break
		}
		if _, err := parsePunct(&inner, ","); err != nil {
			return nil, err
		}
	}
	return pattern, nil
}

func parsePatternField(c *Cursor) (*PatternField, error) {
	name, err := parseIdent(c)
	if err != nil {
		return nil, err
	}
	field := &PatternField{Name: name}
	if c.PeekAt(0, isPunct('?')) {
		c.Next()
		def, err := parseBounded(c, isPunct(','), "in default value of `"+name.Name+"`")
		if err != nil {
			return nil, err
		}
		field.Default = def
	}
	return field, nil
}
