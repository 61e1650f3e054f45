package parser

import (
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
)

// Dump renders expr as an indented tree, one node per line.
func Dump(expr Expr) string {
	d := &dumper{}
	d.expr(expr, 0)
	return d.sb.String()
}

// DumpWithPositions is Dump with the span of every node appended.
func DumpWithPositions(expr Expr) string {
	d := &dumper{positions: true}
	d.expr(expr, 0)
	return d.sb.String()
}

type dumper struct {
	sb        strings.Builder
	positions bool
}

func (d *dumper) line(indent int, span lexer.Span, parts ...string) {
	d.sb.WriteString(strings.Repeat("  ", indent))
	d.sb.WriteString(strings.Join(parts, " "))
	if d.positions {
		d.sb.WriteString(" [" + span.String() + "]")
	}
	d.sb.WriteString("\n")
}

func (d *dumper) expr(e Expr, indent int) {
	switch e := e.(type) {
	case *LetExpr:
		d.line(indent, e.span, "Let")
		for _, b := range e.Bindings {
			d.assignment(b, indent+1)
		}
		d.expr(e.Body, indent+1)
	case *Lit:
		value := e.Value
		if e.Type == LitString {
			value = lexer.Quote(value)
		}
		d.line(indent, e.span, "Lit", e.Type.String(), value)
	case *LambdaExpr:
		d.line(indent, e.span, "Lambda")
		d.lambdaArg(e.Arg, indent+1)
		d.expr(e.Body, indent+1)
	case *Ident:
		d.line(indent, e.span, "Ident", e.String())
		if e.Interpolation != nil {
			d.expr(e.Interpolation, indent+1)
		}
	case *AttrSetExpr:
		if e.Rec {
			d.line(indent, e.span, "AttrSet", "rec")
		} else {
			d.line(indent, e.span, "AttrSet")
		}
		for _, a := range e.Assignments {
			d.assignment(a, indent+1)
		}
	case *ParenExpr:
		d.line(indent, e.span, "Paren")
		d.expr(e.Inner, indent+1)
	case *ListExpr:
		d.line(indent, e.span, "List")
		for _, item := range e.Items {
			d.expr(item, indent+1)
		}
	case *WithExpr:
		d.line(indent, e.span, "With")
		d.expr(e.Scope, indent+1)
		d.expr(e.Body, indent+1)
	case *CallExpr:
		d.line(indent, e.span, "Call")
		d.expr(e.Func, indent+1)
		d.expr(e.Arg, indent+1)
	case *BinaryExpr:
		d.line(indent, e.span, "Binary", e.Op.String())
		d.expr(e.Left, indent+1)
		d.expr(e.Right, indent+1)
	case *SelectExpr:
		d.line(indent, e.span, "Select", joinNames(e.Path))
		d.expr(e.Target, indent+1)
		d.interpolations(e.Path, indent+1)
	case *PathExpr:
		d.line(indent, e.span, "Path", e.Type.String(), e.String())
		for _, part := range e.Parts {
			for _, piece := range part.Pieces {
				if piece.Interpolation != nil {
					d.expr(piece.Interpolation, indent+1)
				}
			}
		}
	case *IfExpr:
		d.line(indent, e.span, "If")
		d.expr(e.Cond, indent+1)
		d.expr(e.Then, indent+1)
		d.expr(e.Else, indent+1)
	case *AssertExpr:
		d.line(indent, e.span, "Assert")
		d.expr(e.Cond, indent+1)
		d.expr(e.Body, indent+1)
	case *UnaryExpr:
		d.line(indent, e.span, "Unary", e.Op.String())
		d.expr(e.Operand, indent+1)
	}
}

func (d *dumper) assignment(a Assignment, indent int) {
	switch a := a.(type) {
	case *Inherit:
		d.line(indent, a.span, "Inherit", joinNamesWith(a.Names, " "))
		if a.From != nil {
			d.expr(a.From, indent+1)
		}
	case *Named:
		d.line(indent, a.span, "Named", a.PathString())
		d.interpolations(a.Path, indent+1)
		d.expr(a.Value, indent+1)
	}
}

func (d *dumper) lambdaArg(arg LambdaArg, indent int) {
	switch arg := arg.(type) {
	case *IdentArg:
		d.line(indent, arg.Span(), "Arg", arg.Name.Name)
	case *PatternArg:
		parts := []string{"Pattern"}
		if arg.Ellipsis {
			parts = append(parts, "...")
		}
		if arg.Bind != nil {
			if arg.BindFirst {
				parts = append(parts, arg.Bind.Name+"@")
			} else {
				parts = append(parts, "@"+arg.Bind.Name)
			}
		}
		d.line(indent, arg.span, parts...)
		for _, f := range arg.Fields {
			if f.Default == nil {
				d.line(indent+1, f.Span(), "Field", f.Name.Name)
				continue
			}
			d.line(indent+1, f.Span(), "Field", f.Name.Name, "?")
			d.expr(f.Default, indent+2)
		}
	}
}

func (d *dumper) interpolations(path []*Ident, indent int) {
	for _, name := range path {
		if name.Interpolation != nil {
			d.expr(name.Interpolation, indent)
		}
	}
}

func joinNames(names []*Ident) string {
	return joinNamesWith(names, ".")
}

func joinNamesWith(names []*Ident, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
