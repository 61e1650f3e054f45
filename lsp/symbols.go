package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

// DocumentSymbols lists the bindings of the attribute set or let expression
// at the top of expr. Lambda headers, with, assert and parentheses around
// it are looked through. Attribute values that are themselves attribute
// sets contribute their bindings as children.
func DocumentSymbols(expr parser.Expr) []protocol.DocumentSymbol {
	var out []protocol.DocumentSymbol
	switch e := unwrapBody(expr).(type) {
	case *parser.AttrSetExpr:
		for _, a := range e.Assignments {
			out = append(out, assignmentSymbols(a, protocol.SymbolKindField)...)
		}
	case *parser.LetExpr:
		for _, b := range e.Bindings {
			out = append(out, assignmentSymbols(b, protocol.SymbolKindVariable)...)
		}
		out = append(out, DocumentSymbols(e.Body)...)
	}
	return out
}

// unwrapBody skips the parts of an expression that only wrap its value.
func unwrapBody(expr parser.Expr) parser.Expr {
	for {
		switch e := expr.(type) {
		case *parser.LambdaExpr:
			expr = e.Body
		case *parser.WithExpr:
			expr = e.Body
		case *parser.AssertExpr:
			expr = e.Body
		case *parser.ParenExpr:
			expr = e.Inner
		default:
			return expr
		}
	}
}

func assignmentSymbols(a parser.Assignment, fallback protocol.SymbolKind) []protocol.DocumentSymbol {
	switch a := a.(type) {
	case *parser.Named:
		selection := a.Path[0].Span().Join(a.Path[len(a.Path)-1].Span())
		return []protocol.DocumentSymbol{{
			Name:           attrPathName(a.Path),
			Kind:           valueKind(a.Value, fallback),
			Range:          toRange(a.Span()),
			SelectionRange: toRange(selection),
			Children:       DocumentSymbols(a.Value),
		}}

	case *parser.Inherit:
		detail := "inherit"
		if a.From != nil {
			detail = "inherit (...)"
		}
		var out []protocol.DocumentSymbol
		for _, name := range a.Names {
			d := detail
			out = append(out, protocol.DocumentSymbol{
				Name:           name.String(),
				Detail:         &d,
				Kind:           fallback,
				Range:          toRange(a.Span()),
				SelectionRange: toRange(name.Span()),
			})
		}
		return out
	}
	return nil
}

func attrPathName(path []*parser.Ident) string {
	parts := make([]string, len(path))
	for i, name := range path {
		parts[i] = name.String()
	}
	return strings.Join(parts, ".")
}

func valueKind(value parser.Expr, fallback protocol.SymbolKind) protocol.SymbolKind {
	switch v := value.(type) {
	case *parser.AttrSetExpr:
		return protocol.SymbolKindObject
	case *parser.LambdaExpr:
		return protocol.SymbolKindFunction
	case *parser.ListExpr:
		return protocol.SymbolKindArray
	case *parser.PathExpr:
		return protocol.SymbolKindFile
	case *parser.Lit:
		switch v.Type {
		case parser.LitString:
			return protocol.SymbolKindString
		case parser.LitBool:
			return protocol.SymbolKindBoolean
		default:
			return protocol.SymbolKindNumber
		}
	}
	return fallback
}

// toRange converts a span to an LSP range. Both count lines and columns
// from zero; columns here are in runes rather than UTF-16 code units,
// which only differs for characters outside the basic multilingual plane.
func toRange(span lexer.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(span.Start.Line), Character: protocol.UInteger(span.Start.Column)},
		End:   protocol.Position{Line: protocol.UInteger(span.End.Line), Character: protocol.UInteger(span.End.Column)},
	}
}
