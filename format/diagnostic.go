package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

// DiagnosticRenderer prints parse failures with the offending source line
// and a caret underline:
//
//	error: duplicate attribute `a`
//	 --> default.nix:1:10
//	  |
//	1 | { a = 1; a = 2; }
//	  |          ^
type DiagnosticRenderer struct {
	w      io.Writer
	styles *diagnosticStyles
}

type diagnosticStyles struct {
	header *color.Color
	gutter *color.Color
	caret  *color.Color
}

// NewDiagnosticRenderer returns a renderer writing to w. Colors are only
// emitted when enabled is set.
func NewDiagnosticRenderer(w io.Writer, enabled bool) *DiagnosticRenderer {
	s := &diagnosticStyles{
		header: color.New(color.FgRed, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	if enabled {
		s.header.EnableColor()
		s.gutter.EnableColor()
		s.caret.EnableColor()
	} else {
		s.header.DisableColor()
		s.gutter.DisableColor()
		s.caret.DisableColor()
	}
	return &DiagnosticRenderer{w: w, styles: s}
}

// Render writes the diagnostic for err, which was produced by parsing
// source read from filename. Errors that carry no location are printed as
// a single line.
func (r *DiagnosticRenderer) Render(filename, source string, err error) error {
	_, werr := io.WriteString(r.w, r.Format(filename, source, err))
	return werr
}

// Format returns what Render would write.
func (r *DiagnosticRenderer) Format(filename, source string, err error) string {
	span, message, ok := parser.Describe(err)
	if !ok {
		return r.styles.header.Sprint("error:") + " " + err.Error() + "\n"
	}

	var sb strings.Builder
	sb.WriteString(r.styles.header.Sprint("error:") + " " + message + "\n")

	lineNo := strconv.Itoa(span.Start.Line + 1)
	pad := strings.Repeat(" ", len(lineNo))
	fmt.Fprintf(&sb, "%s%s %s:%s\n", pad, r.styles.gutter.Sprint("-->"), filename, span.Start)

	line, ok := sourceLine(source, span.Start.Line)
	if !ok {
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s %s\n", pad, r.styles.gutter.Sprint("|"))
	fmt.Fprintf(&sb, "%s %s %s\n", lineNo, r.styles.gutter.Sprint("|"), line)
	fmt.Fprintf(&sb, "%s %s %s%s\n", pad, r.styles.gutter.Sprint("|"),
		caretPrefix(line, span.Start.Column), r.styles.caret.Sprint(carets(line, span)))
	return sb.String()
}

func sourceLine(source string, n int) (string, bool) {
	lines := strings.Split(source, "\n")
	if n < 0 || n >= len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n], "\r"), true
}

// caretPrefix is the whitespace that lines the caret up under column col.
// Tabs are kept so the alignment survives any tab width.
func caretPrefix(line string, col int) string {
	var sb strings.Builder
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
		i++
	}
	for ; i < col; i++ {
		sb.WriteRune(' ')
	}
	return sb.String()
}

// carets underlines span on its first line, with at least one caret.
func carets(line string, span lexer.Span) string {
	end := span.End.Column
	if span.End.Line != span.Start.Line {
		end = utf8.RuneCountInString(line)
	}
	n := end - span.Start.Column
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}
