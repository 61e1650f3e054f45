package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/synix/nix/lexer"
)

// TokenEncoder writes one line per token. The tokens of a group follow the
// group's line, indented one level deeper.
type TokenEncoder struct {
	w      io.Writer
	tokens []lexer.Token
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(tokens []lexer.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeTokens(&sb, e.tokens, 0)
	return []byte(sb.String()), nil
}

func writeTokens(sb *strings.Builder, tokens []lexer.Token, depth int) {
	for _, tok := range tokens {
		prefix := strings.Repeat("  ", depth)
		pos := tok.Span.Start.String()
		switch tok.Kind {
		case lexer.TokenGroup:
			fmt.Fprintf(sb, "%s%s\t%s\t%c%c\n", prefix, pos, tok.Kind, tok.Delimiter.Open(), tok.Delimiter.Close())
			writeTokens(sb, tok.Inner, depth+1)
		case lexer.TokenPunct:
			fmt.Fprintf(sb, "%s%s\t%s\t%c\t%s\n", prefix, pos, tok.Kind, tok.Ch, tok.Spacing)
		case lexer.TokenString:
			fmt.Fprintf(sb, "%s%s\t%s\t%s\n", prefix, pos, tok.Kind, lexer.Quote(tok.Literal))
		default:
			fmt.Fprintf(sb, "%s%s\t%s\t%s\n", prefix, pos, tok.Kind, tok.Literal)
		}
	}
}
