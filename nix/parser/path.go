package parser

import (
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
)

func peekPath(c *Cursor) bool {
	return peek(c, parsePath)
}

// parsePath parses a lookup path `<a/b>` or a filesystem path. Paths are
// not tokens of their own: they are recognized as runs of tokens written
// without anything in between, so `a/b` is a path while `a / b` divides.
func parsePath(c *Cursor) (*PathExpr, error) {
	start := c.Span()
	s := &pathScanner{c: c}
	path := &PathExpr{}

	switch {
	case c.PeekAt(0, isPunct('<')):
		s.next(isPunct('<'))
		path.Type = PathLookup
		if err := s.parts(path); err != nil {
			return nil, err
		}
		if _, ok := s.next(isPunct('>')); !ok {
			return nil, c.errorf("expected `>` to close lookup path")
		}
		path.span = start.Join(s.prev.Span)
		return path, nil

	case c.PeekAt(0, isPunct('/')):
		s.next(isPunct('/'))
		path.Type = PathAbsolute

	case c.PeekAt(0, isPunct('~')):
		s.next(isPunct('~'))
		if _, ok := s.next(isPunct('/')); !ok {
			return nil, c.errorf("expected `/` after `~`")
		}
		path.Type = PathHome

	case c.PeekAt(0, isPunct('.')):
		s.next(isPunct('.'))
		path.Type = PathRelative
		if _, ok := s.next(isPunct('.')); ok {
			path.Parts = append(path.Parts, PathPart{Pieces: []PathPiece{{Text: ".."}}})
		}
		if _, ok := s.next(isPunct('/')); !ok {
			return nil, c.errorf("expected `/` in relative path")
		}

	default:
		path.Type = PathBare
	}

	if err := s.parts(path); err != nil {
		return nil, err
	}
	if path.Type == PathBare && len(path.Parts) < 2 {
		return nil, errorAt(start, "expected path")
	}
	path.span = start.Join(s.prev.Span)
	return path, nil
}

// pathScanner consumes tokens only while each one directly follows the
// previous one.
type pathScanner struct {
	c       *Cursor
	prev    lexer.Token
	started bool
}

func (s *pathScanner) peek(pred func(lexer.Token) bool) bool {
	tok, ok := s.c.Peek()
	if !ok || !pred(tok) {
		return false
	}
	return !s.started || s.prev.Adjacent(tok)
}

func (s *pathScanner) next(pred func(lexer.Token) bool) (lexer.Token, bool) {
	if !s.peek(pred) {
		return lexer.Token{}, false
	}
	tok, _ := s.c.Next()
	s.prev = tok
	s.started = true
	return tok, true
}

// parts parses slash-separated components. A trailing slash is an error.
func (s *pathScanner) parts(path *PathExpr) error {
	for {
		part, err := s.part()
		if err != nil {
			return err
		}
		path.Parts = append(path.Parts, part)
		if _, ok := s.next(isPunct('/')); !ok {
			return nil
		}
	}
}

func isPathChar(t lexer.Token) bool {
	switch t.Kind {
	case lexer.TokenIdent, lexer.TokenInt:
		return true
	case lexer.TokenPunct:
		return t.Ch == '.' || t.Ch == '-' || t.Ch == '+'
	}
	return false
}

func (s *pathScanner) part() (PathPart, error) {
	var part PathPart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			part.Pieces = append(part.Pieces, PathPiece{Text: text.String()})
			text.Reset()
		}
	}

	for {
		if tok, ok := s.next(isPathChar); ok {
			text.WriteString(tok.Literal)
			continue
		}
		if s.peek(isPunct('$')) {
			expr, _, err := parseInterpolation(s.c)
			if err != nil {
				return PathPart{}, err
			}
			s.prev, _ = s.c.Prev()
			s.started = true
			flush()
			part.Pieces = append(part.Pieces, PathPiece{Interpolation: expr})
			continue
		}
		break
	}
	flush()

	if len(part.Pieces) == 0 {
		return PathPart{}, s.c.errorf("expected path component")
	}
	return part, nil
}
