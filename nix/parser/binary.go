package parser

import "github.com/dhamidi/synix/nix/lexer"

type Operator int

const (
	OpMul Operator = iota
	OpDiv
	OpAdd
	OpSub
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
	OpUpdate
	OpConcat
)

var operatorNames = map[Operator]string{
	OpMul:       "*",
	OpDiv:       "/",
	OpAdd:       "+",
	OpSub:       "-",
	OpEq:        "==",
	OpNotEq:     "!=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpAnd:       "&&",
	OpOr:        "||",
	OpUpdate:    "//",
	OpConcat:    "++",
}

// operatorOrder lists operators longest first so that `//` is never read as
// `/` followed by a path and `<=` never as `<`.
var operatorOrder = []Operator{
	OpUpdate, OpConcat, OpEq, OpNotEq, OpLessEq, OpGreaterEq, OpAnd, OpOr,
	OpMul, OpDiv, OpAdd, OpSub, OpLess, OpGreater,
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "?"
}

// Precedence is the binding strength of op; higher binds tighter.
func (op Operator) Precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 5
	case OpAdd, OpSub:
		return 4
	case OpEq, OpNotEq, OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return 3
	case OpAnd, OpOr:
		return 2
	default:
		return 1
	}
}

// RightAssoc reports whether a chain of op groups to the right. Update and
// concatenation do; every other level groups to the left.
func (op Operator) RightAssoc() bool {
	return op.Precedence() == 1
}

// parseOperator consumes a binary operator.
func parseOperator(c *Cursor) (Operator, error) {
	for _, op := range operatorOrder {
		if _, err := parsePunct(c, op.String()); err == nil {
			return op, nil
		}
	}
	if tok, ok := c.Peek(); ok {
		return 0, c.errorf("expected operator, got `%s`", tok)
	}
	return 0, c.errorf("expected operator, got end of input")
}

// fixPrecedence builds `lhs op rhs` where rhs was parsed as the whole rest
// of the expression. If rhs is a binary expression that op should bind
// tighter than, op captures the leftmost operand of rhs instead. The
// rotation recurses down the left spine, so arbitrarily long chains end up
// in the same shape a precedence-climbing parser would produce.
func fixPrecedence(lhs Expr, op Operator, rhs Expr) Expr {
	if bin, ok := rhs.(*BinaryExpr); ok && bindsTighter(op, bin.Op) {
		left := fixPrecedence(lhs, op, bin.Left)
		return newBinary(left, bin.Op, bin.Right)
	}
	return newBinary(lhs, op, rhs)
}

// bindsTighter reports whether `a op b inner c` groups as `(a op b) inner c`.
func bindsTighter(op, inner Operator) bool {
	if op.Precedence() != inner.Precedence() {
		return op.Precedence() > inner.Precedence()
	}
	return !op.RightAssoc()
}

func newBinary(lhs Expr, op Operator, rhs Expr) *BinaryExpr {
	return &BinaryExpr{
		Left:  lhs,
		Op:    op,
		Right: rhs,
		span:  lhs.Span().Join(rhs.Span()),
	}
}

// applyCall applies fn to the leftmost operand of rest. Application binds
// tighter than any operator, so `f a + b` is `(f a) + b`, and juxtaposition
// groups to the left, so `f a b` is `(f a) b`.
func applyCall(fn Expr, rest Expr) Expr {
	switch r := rest.(type) {
	case *BinaryExpr:
		return newBinary(applyCall(fn, r.Left), r.Op, r.Right)
	case *CallExpr:
		return newCall(applyCall(fn, r.Func), r.Arg)
	}
	return newCall(fn, rest)
}

func newCall(fn, arg Expr) *CallExpr {
	return &CallExpr{Func: fn, Arg: arg, span: fn.Span().Join(arg.Span())}
}

// applyUnary attaches a prefix operator to the leftmost operand of rest, so
// `-a * b` is `(-a) * b` while `-f x` stays `-(f x)`.
func applyUnary(op UnaryOp, opSpan lexer.Span, rest Expr) Expr {
	if bin, ok := rest.(*BinaryExpr); ok {
		return newBinary(applyUnary(op, opSpan, bin.Left), bin.Op, bin.Right)
	}
	return &UnaryExpr{Op: op, Operand: rest, span: opSpan.Join(rest.Span())}
}
