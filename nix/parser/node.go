package parser

import (
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
)

type NodeKind int

const (
	KindLet NodeKind = iota
	KindLit
	KindLambda
	KindIdent
	KindAttrSet
	KindParen
	KindList
	KindWith
	KindCall
	KindBinary
	KindSelect
	KindPath
	KindIf
	KindAssert
	KindUnary
)

var nodeKindNames = map[NodeKind]string{
	KindLet:     "Let",
	KindLit:     "Lit",
	KindLambda:  "Lambda",
	KindIdent:   "Ident",
	KindAttrSet: "AttrSet",
	KindParen:   "Paren",
	KindList:    "List",
	KindWith:    "With",
	KindCall:    "Call",
	KindBinary:  "Binary",
	KindSelect:  "Select",
	KindPath:    "Path",
	KindIf:      "If",
	KindAssert:  "Assert",
	KindUnary:   "Unary",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Expr is an expression node. The set of implementations is closed: every
// type in this file that has an exprNode method.
type Expr interface {
	Kind() NodeKind
	Span() lexer.Span
	exprNode()
}

type LetExpr struct {
	Bindings []Assignment
	Body     Expr
	span     lexer.Span
}

type LitType int

const (
	LitInt LitType = iota
	LitFloat
	LitString
	LitBool
)

func (t LitType) String() string {
	switch t {
	case LitInt:
		return "Int"
	case LitFloat:
		return "Float"
	case LitString:
		return "String"
	default:
		return "Bool"
	}
}

// Lit is a literal. Value holds the digits of a number, the unescaped text
// of a string, or "true"/"false".
type Lit struct {
	Type  LitType
	Value string
	span  lexer.Span
}

func (l *Lit) Bool() bool {
	return l.Type == LitBool && l.Value == "true"
}

type LambdaExpr struct {
	Arg  LambdaArg
	Body Expr
	span lexer.Span
}

// LambdaArg is either *IdentArg or *PatternArg.
type LambdaArg interface {
	Span() lexer.Span
	lambdaArg()
}

type IdentArg struct {
	Name *Ident
}

// PatternArg destructures an attribute set argument, e.g.
// `args@{ a, b ? 1, ... }`.
type PatternArg struct {
	Fields   []*PatternField
	Ellipsis bool
	// Bind names the whole argument. BindFirst is set for `name@{ ... }`
	// and cleared for `{ ... }@name`.
	Bind      *Ident
	BindFirst bool
	span      lexer.Span
}

type PatternField struct {
	Name    *Ident
	Default Expr
}

func (f *PatternField) Span() lexer.Span {
	if f.Default != nil {
		return f.Name.Span().Join(f.Default.Span())
	}
	return f.Name.Span()
}

// Field returns the field called name, or nil.
func (p *PatternArg) Field(name string) *PatternField {
	for _, f := range p.Fields {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

type IdentForm int

const (
	IdentPlain IdentForm = iota
	IdentQuoted
	IdentInterpolated
)

// Ident is a name. In expression position it is always IdentPlain; as an
// attribute name it may also be a string literal (IdentQuoted) or `${expr}`
// (IdentInterpolated). Plain and quoted names with the same Name are the
// same key.
type Ident struct {
	Name          string
	Form          IdentForm
	Interpolation Expr
	span          lexer.Span
}

// Key is the attribute key the identifier stands for. Interpolated names
// have no static key.
func (i *Ident) Key() (string, bool) {
	if i.Form == IdentInterpolated {
		return "", false
	}
	return i.Name, true
}

func (i *Ident) String() string {
	switch i.Form {
	case IdentQuoted:
		return lexer.Quote(i.Name)
	case IdentInterpolated:
		return "${...}"
	default:
		return i.Name
	}
}

type AttrSetExpr struct {
	Rec         bool
	Assignments []Assignment
	span        lexer.Span
}

// Assignment is either *Inherit or *Named.
type Assignment interface {
	Span() lexer.Span
	assignment()
}

// Inherit is `inherit name...;` or `inherit (from) name...;`.
type Inherit struct {
	From  Expr
	Names []*Ident
	span  lexer.Span
}

// Named is `a.b.c = value;`.
type Named struct {
	Path  []*Ident
	Value Expr
	span  lexer.Span
}

// PathString renders the attribute path with dots.
func (n *Named) PathString() string {
	return joinNames(n.Path)
}

type ParenExpr struct {
	Inner Expr
	span  lexer.Span
}

type ListExpr struct {
	Items []Expr
	span  lexer.Span
}

type WithExpr struct {
	Scope Expr
	Body  Expr
	span  lexer.Span
}

// CallExpr is function application by juxtaposition: `Func Arg`.
type CallExpr struct {
	Func Expr
	Arg  Expr
	span lexer.Span
}

type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
	span  lexer.Span
}

// SelectExpr is attribute access: `Target.a.b`.
type SelectExpr struct {
	Target Expr
	Path   []*Ident
	span   lexer.Span
}

type PathType int

const (
	// PathLookup is `<a/b>`.
	PathLookup PathType = iota
	// PathAbsolute is `/a/b`.
	PathAbsolute
	// PathRelative is `./a/b` or `../a/b`.
	PathRelative
	// PathHome is `~/a/b`.
	PathHome
	// PathBare is `a/b`.
	PathBare
)

func (t PathType) String() string {
	switch t {
	case PathLookup:
		return "Lookup"
	case PathAbsolute:
		return "Absolute"
	case PathRelative:
		return "Relative"
	case PathHome:
		return "Home"
	default:
		return "Bare"
	}
}

type PathExpr struct {
	Type  PathType
	Parts []PathPart
	span  lexer.Span
}

// PathPart is one slash-separated component. Its pieces concatenate to the
// component text; a piece with a non-nil Interpolation stands for `${...}`.
type PathPart struct {
	Pieces []PathPiece
}

type PathPiece struct {
	Text          string
	Interpolation Expr
}

func (p PathPart) String() string {
	return p.Format(nil)
}

// Format renders the component, using interp to render interpolated
// pieces. A nil interp renders them as `${...}`.
func (p PathPart) Format(interp func(Expr) string) string {
	var sb strings.Builder
	for _, piece := range p.Pieces {
		switch {
		case piece.Interpolation == nil:
			sb.WriteString(piece.Text)
		case interp == nil:
			sb.WriteString("${...}")
		default:
			sb.WriteString("${" + interp(piece.Interpolation) + "}")
		}
	}
	return sb.String()
}

// String renders the path as written, with interpolations elided.
func (p *PathExpr) String() string {
	return p.Format(nil)
}

// Format renders the path as written, using interp for interpolations as
// PathPart.Format does.
func (p *PathExpr) Format(interp func(Expr) string) string {
	parts := make([]string, len(p.Parts))
	for i, part := range p.Parts {
		parts[i] = part.Format(interp)
	}
	joined := strings.Join(parts, "/")
	switch p.Type {
	case PathLookup:
		return "<" + joined + ">"
	case PathAbsolute:
		return "/" + joined
	case PathHome:
		return "~/" + joined
	case PathRelative:
		if len(p.Parts) > 1 && p.Parts[0].String() == ".." {
			return joined
		}
		return "./" + joined
	default:
		return joined
	}
}

type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	span lexer.Span
}

type AssertExpr struct {
	Cond Expr
	Body Expr
	span lexer.Span
}

type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
)

func (op UnaryOp) String() string {
	if op == OpNot {
		return "!"
	}
	return "-"
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	span    lexer.Span
}

func (*LetExpr) Kind() NodeKind     { return KindLet }
func (*Lit) Kind() NodeKind         { return KindLit }
func (*LambdaExpr) Kind() NodeKind  { return KindLambda }
func (*Ident) Kind() NodeKind       { return KindIdent }
func (*AttrSetExpr) Kind() NodeKind { return KindAttrSet }
func (*ParenExpr) Kind() NodeKind   { return KindParen }
func (*ListExpr) Kind() NodeKind    { return KindList }
func (*WithExpr) Kind() NodeKind    { return KindWith }
func (*CallExpr) Kind() NodeKind    { return KindCall }
func (*BinaryExpr) Kind() NodeKind  { return KindBinary }
func (*SelectExpr) Kind() NodeKind  { return KindSelect }
func (*PathExpr) Kind() NodeKind    { return KindPath }
func (*IfExpr) Kind() NodeKind      { return KindIf }
func (*AssertExpr) Kind() NodeKind  { return KindAssert }
func (*UnaryExpr) Kind() NodeKind   { return KindUnary }

func (e *LetExpr) Span() lexer.Span     { return e.span }
func (e *Lit) Span() lexer.Span         { return e.span }
func (e *LambdaExpr) Span() lexer.Span  { return e.span }
func (e *Ident) Span() lexer.Span       { return e.span }
func (e *AttrSetExpr) Span() lexer.Span { return e.span }
func (e *ParenExpr) Span() lexer.Span   { return e.span }
func (e *ListExpr) Span() lexer.Span    { return e.span }
func (e *WithExpr) Span() lexer.Span    { return e.span }
func (e *CallExpr) Span() lexer.Span    { return e.span }
func (e *BinaryExpr) Span() lexer.Span  { return e.span }
func (e *SelectExpr) Span() lexer.Span  { return e.span }
func (e *PathExpr) Span() lexer.Span    { return e.span }
func (e *IfExpr) Span() lexer.Span      { return e.span }
func (e *AssertExpr) Span() lexer.Span  { return e.span }
func (e *UnaryExpr) Span() lexer.Span   { return e.span }

func (*LetExpr) exprNode()     {}
func (*Lit) exprNode()         {}
func (*LambdaExpr) exprNode()  {}
func (*Ident) exprNode()       {}
func (*AttrSetExpr) exprNode() {}
func (*ParenExpr) exprNode()   {}
func (*ListExpr) exprNode()    {}
func (*WithExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*BinaryExpr) exprNode()  {}
func (*SelectExpr) exprNode()  {}
func (*PathExpr) exprNode()    {}
func (*IfExpr) exprNode()      {}
func (*AssertExpr) exprNode()  {}
func (*UnaryExpr) exprNode()   {}

func (a *IdentArg) Span() lexer.Span   { return a.Name.Span() }
func (a *PatternArg) Span() lexer.Span { return a.span }
func (*IdentArg) lambdaArg()           {}
func (*PatternArg) lambdaArg()         {}

func (a *Inherit) Span() lexer.Span { return a.span }
func (a *Named) Span() lexer.Span   { return a.span }
func (*Inherit) assignment()        {}
func (*Named) assignment()          {}
