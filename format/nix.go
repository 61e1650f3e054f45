package format

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

// NixPrinter prints an expression back as Nix source in a canonical
// layout. Parsing the output yields the same tree, spans aside. Comments
// are not part of the tree and are therefore not printed.
type NixPrinter struct {
	w        io.Writer
	expr     parser.Expr
	Indent   int
	MaxWidth int
}

func NewNixPrinter(w io.Writer) *NixPrinter {
	return &NixPrinter{w: w, Indent: 2, MaxWidth: 80}
}

func (p *NixPrinter) Encode(expr parser.Expr) error {
	p.expr = expr
	text, err := p.MarshalText()
	if err != nil {
		return err
	}
	_, err = p.w.Write(text)
	return err
}

func (p *NixPrinter) MarshalText() ([]byte, error) {
	nw := &nixWriter{indent: p.Indent, width: p.MaxWidth}
	nw.expr(p.expr, 0)
	nw.write("\n")
	return []byte(nw.sb.String()), nil
}

// FormatNix renders expr with the default layout.
func FormatNix(expr parser.Expr) string {
	text, _ := (&NixPrinter{expr: expr, Indent: 2, MaxWidth: 80}).MarshalText()
	return string(text)
}

type nixWriter struct {
	sb     strings.Builder
	indent int
	width  int
	col    int
}

func (p *nixWriter) write(s string) {
	p.sb.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.col = utf8.RuneCountInString(s[i+1:])
	} else {
		p.col += utf8.RuneCountInString(s)
	}
}

func (p *nixWriter) newline(level int) {
	p.write("\n" + strings.Repeat(" ", level*p.indent))
}

func (p *nixWriter) fits(s string) bool {
	return p.col+utf8.RuneCountInString(s) <= p.width
}

// expr prints e on one line when it fits and breaks it over several lines
// otherwise. level is the indentation level of the line e starts on.
func (p *nixWriter) expr(e parser.Expr, level int) {
	line := flat(e)
	if p.fits(line) || !breakable(e) {
		p.write(line)
		return
	}

	switch e := e.(type) {
	case *parser.AttrSetExpr:
		if e.Rec {
			p.write("rec ")
		}
		p.write("{")
		for _, a := range e.Assignments {
			p.newline(level + 1)
			p.assignment(a, level+1)
		}
		p.newline(level)
		p.write("}")

	case *parser.ListExpr:
		p.write("[")
		for _, item := range e.Items {
			p.newline(level + 1)
			p.expr(item, level+1)
		}
		p.newline(level)
		p.write("]")

	case *parser.LetExpr:
		p.write("let")
		for _, b := range e.Bindings {
			p.newline(level + 1)
			p.assignment(b, level+1)
		}
		p.newline(level)
		p.write("in")
		p.newline(level)
		p.expr(e.Body, level)

	case *parser.LambdaExpr:
		p.write(flatLambdaArg(e.Arg) + ":")
		p.newline(level)
		p.expr(e.Body, level)

	case *parser.WithExpr:
		p.write("with ")
		p.expr(e.Scope, level)
		p.write(";")
		p.newline(level)
		p.expr(e.Body, level)

	case *parser.AssertExpr:
		p.write("assert ")
		p.expr(e.Cond, level)
		p.write(";")
		p.newline(level)
		p.expr(e.Body, level)

	case *parser.IfExpr:
		p.write("if ")
		p.expr(e.Cond, level)
		p.newline(level + 1)
		p.write("then ")
		p.expr(e.Then, level+1)
		p.newline(level + 1)
		p.write("else ")
		p.expr(e.Else, level+1)

	case *parser.ParenExpr:
		p.write("(")
		p.expr(e.Inner, level)
		p.write(")")

	case *parser.BinaryExpr:
		p.expr(e.Left, level)
		p.newline(level + 1)
		p.write(e.Op.String() + " ")
		p.expr(e.Right, level+1)

	case *parser.CallExpr:
		p.expr(e.Func, level)
		p.write(" ")
		p.expr(e.Arg, level)

	case *parser.SelectExpr:
		p.expr(e.Target, level)
		p.write(selectSeparator(e) + flatNames(e.Path))

	case *parser.UnaryExpr:
		p.write(e.Op.String())
		p.expr(e.Operand, level)
	}
}

func (p *nixWriter) assignment(a parser.Assignment, level int) {
	named, ok := a.(*parser.Named)
	if !ok {
		p.write(flatAssignment(a))
		return
	}
	p.write(flatNames(named.Path) + " = ")
	p.expr(named.Value, level)
	p.write(";")
}

func breakable(e parser.Expr) bool {
	switch e := e.(type) {
	case *parser.AttrSetExpr:
		return len(e.Assignments) > 0
	case *parser.ListExpr:
		return len(e.Items) > 0
	case *parser.Lit, *parser.Ident, *parser.PathExpr:
		return false
	}
	return true
}

// flat renders e on a single line.
func flat(e parser.Expr) string {
	switch e := e.(type) {
	case *parser.LetExpr:
		var sb strings.Builder
		sb.WriteString("let ")
		for _, b := range e.Bindings {
			sb.WriteString(flatAssignment(b) + " ")
		}
		sb.WriteString("in " + flat(e.Body))
		return sb.String()
	case *parser.Lit:
		if e.Type == parser.LitString {
			return lexer.Quote(e.Value)
		}
		return e.Value
	case *parser.LambdaExpr:
		return flatLambdaArg(e.Arg) + ": " + flat(e.Body)
	case *parser.Ident:
		return flatName(e)
	case *parser.AttrSetExpr:
		prefix := ""
		if e.Rec {
			prefix = "rec "
		}
		if len(e.Assignments) == 0 {
			return prefix + "{ }"
		}
		parts := make([]string, len(e.Assignments))
		for i, a := range e.Assignments {
			parts[i] = flatAssignment(a)
		}
		return prefix + "{ " + strings.Join(parts, " ") + " }"
	case *parser.ParenExpr:
		return "(" + flat(e.Inner) + ")"
	case *parser.ListExpr:
		if len(e.Items) == 0 {
			return "[ ]"
		}
		parts := make([]string, len(e.Items))
		for i, item := range e.Items {
			parts[i] = flat(item)
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	case *parser.WithExpr:
		return "with " + flat(e.Scope) + "; " + flat(e.Body)
	case *parser.AssertExpr:
		return "assert " + flat(e.Cond) + "; " + flat(e.Body)
	case *parser.IfExpr:
		return "if " + flat(e.Cond) + " then " + flat(e.Then) + " else " + flat(e.Else)
	case *parser.CallExpr:
		return flat(e.Func) + " " + flat(e.Arg)
	case *parser.BinaryExpr:
		return flat(e.Left) + " " + e.Op.String() + " " + flat(e.Right)
	case *parser.SelectExpr:
		return flat(e.Target) + selectSeparator(e) + flatNames(e.Path)
	case *parser.PathExpr:
		return e.Format(flat)
	case *parser.UnaryExpr:
		return e.Op.String() + flat(e.Operand)
	}
	return ""
}

// selectSeparator keeps the dot of an attribute access on a path apart
// from the path, which would otherwise absorb it.
func selectSeparator(e *parser.SelectExpr) string {
	if _, ok := e.Target.(*parser.PathExpr); ok {
		return " ."
	}
	return "."
}

func flatName(id *parser.Ident) string {
	switch id.Form {
	case parser.IdentQuoted:
		return lexer.Quote(id.Name)
	case parser.IdentInterpolated:
		return "${" + flat(id.Interpolation) + "}"
	default:
		return id.Name
	}
}

func flatNames(path []*parser.Ident) string {
	parts := make([]string, len(path))
	for i, name := range path {
		parts[i] = flatName(name)
	}
	return strings.Join(parts, ".")
}

func flatAssignment(a parser.Assignment) string {
	switch a := a.(type) {
	case *parser.Inherit:
		var sb strings.Builder
		sb.WriteString("inherit")
		if a.From != nil {
			sb.WriteString(" (" + flat(a.From) + ")")
		}
		for _, name := range a.Names {
			sb.WriteString(" " + flatName(name))
		}
		sb.WriteString(";")
		return sb.String()
	case *parser.Named:
		return flatNames(a.Path) + " = " + flat(a.Value) + ";"
	}
	return ""
}

func flatLambdaArg(arg parser.LambdaArg) string {
	switch arg := arg.(type) {
	case *parser.IdentArg:
		return arg.Name.Name
	case *parser.PatternArg:
		var entries []string
		for _, f := range arg.Fields {
			if f.Default != nil {
				entries = append(entries, f.Name.Name+" ? "+flat(f.Default))
			} else {
				entries = append(entries, f.Name.Name)
			}
		}
		if arg.Ellipsis {
			entries = append(entries, "...")
		}
		set := "{ }"
		if len(entries) > 0 {
			set = "{ " + strings.Join(entries, ", ") + " }"
		}
		switch {
		case arg.Bind == nil:
			return set
		case arg.BindFirst:
			return arg.Bind.Name + "@" + set
		default:
			return set + "@" + arg.Bind.Name
		}
	}
	return ""
}
