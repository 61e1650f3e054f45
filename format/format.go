// Package format renders parsed expressions and tokens for people and
// tools: indented trees, JSON, YAML, canonical Nix source and diagnostics.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/synix/nix/parser"
)

// Encoder writes one expression per Encode call. MarshalText renders the
// expression given to the most recent Encode.
type Encoder interface {
	encoding.TextMarshaler
	Encode(expr parser.Expr) error
}

// Options configure the encoders returned by New.
type Options struct {
	// Positions adds spans to tree output.
	Positions bool
	// Indent is the number of spaces per nesting level of Nix output.
	Indent int
	// MaxWidth is the line width Nix output tries to stay within.
	MaxWidth int
}

// Names lists the formats accepted by New.
var Names = []string{"tree", "json", "yaml", "nix"}

// New returns the encoder called name writing to w.
func New(name string, w io.Writer, opts Options) (Encoder, error) {
	switch name {
	case "tree":
		return &TreeEncoder{w: w, Positions: opts.Positions}, nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "yaml":
		return NewASTYAMLEncoder(w), nil
	case "nix":
		p := NewNixPrinter(w)
		if opts.Indent > 0 {
			p.Indent = opts.Indent
		}
		if opts.MaxWidth > 0 {
			p.MaxWidth = opts.MaxWidth
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names)
}

// TreeEncoder writes the indented tree produced by parser.Dump.
type TreeEncoder struct {
	w         io.Writer
	expr      parser.Expr
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(expr parser.Expr) error {
	e.expr = expr
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.Positions {
		return []byte(parser.DumpWithPositions(e.expr)), nil
	}
	return []byte(parser.Dump(e.expr)), nil
}
