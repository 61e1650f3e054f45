package parser

// Walk visits expr and its descendants in source order. If fn returns
// false the children of that node are skipped.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	for _, child := range Children(expr) {
		Walk(child, fn)
	}
}

// Children returns the direct sub-expressions of expr, including values of
// assignments, default values of lambda arguments and interpolations.
func Children(expr Expr) []Expr {
	var out []Expr
	add := func(es ...Expr) {
		for _, e := range es {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	names := func(path []*Ident) {
		for _, n := range path {
			add(n.Interpolation)
		}
	}

	switch e := expr.(type) {
	case *LetExpr:
		for _, b := range e.Bindings {
			add(AssignmentChildren(b)...)
		}
		add(e.Body)
	case *LambdaExpr:
		if p, ok := e.Arg.(*PatternArg); ok {
			for _, f := range p.Fields {
				add(f.Default)
			}
		}
		add(e.Body)
	case *Ident:
		add(e.Interpolation)
	case *AttrSetExpr:
		for _, a := range e.Assignments {
			add(AssignmentChildren(a)...)
		}
	case *ParenExpr:
		add(e.Inner)
	case *ListExpr:
		add(e.Items...)
	case *WithExpr:
		add(e.Scope, e.Body)
	case *CallExpr:
		add(e.Func, e.Arg)
	case *BinaryExpr:
		add(e.Left, e.Right)
	case *SelectExpr:
		add(e.Target)
		names(e.Path)
	case *PathExpr:
		for _, part := range e.Parts {
			for _, piece := range part.Pieces {
				add(piece.Interpolation)
			}
		}
	case *IfExpr:
		add(e.Cond, e.Then, e.Else)
	case *AssertExpr:
		add(e.Cond, e.Body)
	case *UnaryExpr:
		add(e.Operand)
	}
	return out
}

// AssignmentChildren returns the expressions inside an assignment.
func AssignmentChildren(a Assignment) []Expr {
	var out []Expr
	switch a := a.(type) {
	case *Inherit:
		if a.From != nil {
			out = append(out, a.From)
		}
	case *Named:
		for _, n := range a.Path {
			if n.Interpolation != nil {
				out = append(out, n.Interpolation)
			}
		}
		out = append(out, a.Value)
	}
	return out
}
