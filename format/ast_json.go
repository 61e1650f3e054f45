package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

type ASTJSONEncoder struct {
	w    io.Writer
	expr parser.Expr
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(expr parser.Expr) error {
	e.expr = expr
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(exprToDoc(e.expr, ""), "", "  ")
}

// astNode is the document model shared by the JSON and YAML encoders.
// Assignments, lambda arguments and pattern fields appear as nodes of their
// own so that every expression keeps its place in the tree.
type astNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Role     string     `json:"role,omitempty" yaml:"role,omitempty"`
	Type     string     `json:"type,omitempty" yaml:"type,omitempty"`
	Value    string     `json:"value,omitempty" yaml:"value,omitempty"`
	Flags    []string   `json:"flags,omitempty" yaml:"flags,omitempty"`
	Span     *astSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Children []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Start astPosition `json:"start" yaml:"start"`
	End   astPosition `json:"end" yaml:"end"`
}

type astPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

func spanToDoc(s lexer.Span) *astSpan {
	return &astSpan{
		Start: astPosition{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   astPosition{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

func (n *astNode) add(child *astNode) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func exprToDoc(expr parser.Expr, role string) *astNode {
	if expr == nil {
		return nil
	}
	n := &astNode{Kind: expr.Kind().String(), Role: role, Span: spanToDoc(expr.Span())}

	switch e := expr.(type) {
	case *parser.LetExpr:
		for _, b := range e.Bindings {
			n.add(assignmentToDoc(b))
		}
		n.add(exprToDoc(e.Body, "body"))
	case *parser.Lit:
		n.Type = e.Type.String()
		n.Value = e.Value
	case *parser.LambdaExpr:
		n.add(lambdaArgToDoc(e.Arg))
		n.add(exprToDoc(e.Body, "body"))
	case *parser.Ident:
		n.Type = identForm(e)
		n.Value = e.Name
		n.add(exprToDoc(e.Interpolation, "interpolation"))
	case *parser.AttrSetExpr:
		if e.Rec {
			n.Flags = append(n.Flags, "rec")
		}
		for _, a := range e.Assignments {
			n.add(assignmentToDoc(a))
		}
	case *parser.ParenExpr:
		n.add(exprToDoc(e.Inner, "inner"))
	case *parser.ListExpr:
		for _, item := range e.Items {
			n.add(exprToDoc(item, "item"))
		}
	case *parser.WithExpr:
		n.add(exprToDoc(e.Scope, "scope"))
		n.add(exprToDoc(e.Body, "body"))
	case *parser.CallExpr:
		n.add(exprToDoc(e.Func, "func"))
		n.add(exprToDoc(e.Arg, "arg"))
	case *parser.BinaryExpr:
		n.Value = e.Op.String()
		n.add(exprToDoc(e.Left, "left"))
		n.add(exprToDoc(e.Right, "right"))
	case *parser.SelectExpr:
		n.add(exprToDoc(e.Target, "target"))
		for _, name := range e.Path {
			n.add(exprToDoc(name, "attr"))
		}
	case *parser.PathExpr:
		n.Type = e.Type.String()
		n.Value = e.String()
		for _, part := range e.Parts {
			for _, piece := range part.Pieces {
				n.add(exprToDoc(piece.Interpolation, "interpolation"))
			}
		}
	case *parser.IfExpr:
		n.add(exprToDoc(e.Cond, "cond"))
		n.add(exprToDoc(e.Then, "then"))
		n.add(exprToDoc(e.Else, "else"))
	case *parser.AssertExpr:
		n.add(exprToDoc(e.Cond, "cond"))
		n.add(exprToDoc(e.Body, "body"))
	case *parser.UnaryExpr:
		n.Value = e.Op.String()
		n.add(exprToDoc(e.Operand, "operand"))
	}
	return n
}

func identForm(id *parser.Ident) string {
	switch id.Form {
	case parser.IdentQuoted:
		return "quoted"
	case parser.IdentInterpolated:
		return "interpolated"
	default:
		return "plain"
	}
}

func assignmentToDoc(a parser.Assignment) *astNode {
	n := &astNode{Span: spanToDoc(a.Span())}
	switch a := a.(type) {
	case *parser.Inherit:
		n.Kind = "Inherit"
		names := make([]string, len(a.Names))
		for i, name := range a.Names {
			names[i] = name.Name
			n.add(exprToDoc(name, "name"))
		}
		n.Value = strings.Join(names, " ")
		n.add(exprToDoc(a.From, "from"))
	case *parser.Named:
		n.Kind = "Named"
		n.Value = a.PathString()
		for _, name := range a.Path {
			n.add(exprToDoc(name, "attr"))
		}
		n.add(exprToDoc(a.Value, "value"))
	}
	return n
}

func lambdaArgToDoc(arg parser.LambdaArg) *astNode {
	n := &astNode{Role: "arg", Span: spanToDoc(arg.Span())}
	switch arg := arg.(type) {
	case *parser.IdentArg:
		n.Kind = "Arg"
		n.Value = arg.Name.Name
	case *parser.PatternArg:
		n.Kind = "Pattern"
		if arg.Ellipsis {
			n.Flags = append(n.Flags, "ellipsis")
		}
		if arg.Bind != nil {
			n.Value = arg.Bind.Name
			if arg.BindFirst {
				n.Flags = append(n.Flags, "bind-first")
			}
		}
		for _, f := range arg.Fields {
			field := &astNode{Kind: "Field", Value: f.Name.Name, Span: spanToDoc(f.Span())}
			field.add(exprToDoc(f.Default, "default"))
			n.add(field)
		}
	}
	return n
}
