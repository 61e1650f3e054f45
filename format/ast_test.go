package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/synix/nix/parser"
)

func parseDoc(t *testing.T, src string) *astNode {
	t.Helper()
	expr, err := parser.Parse(src)
	require.NoError(t, err)
	return exprToDoc(expr, "")
}

func TestASTJSONEncoder(t *testing.T) {
	expr, err := parser.Parse("a + 1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(expr))

	var doc astNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Binary", doc.Kind)
	assert.Equal(t, "+", doc.Value)
	require.Len(t, doc.Children, 2)
	assert.Equal(t, "Ident", doc.Children[0].Kind)
	assert.Equal(t, "left", doc.Children[0].Role)
	assert.Equal(t, "a", doc.Children[0].Value)
	assert.Equal(t, "Lit", doc.Children[1].Kind)
	assert.Equal(t, "Int", doc.Children[1].Type)
	assert.Equal(t, "1", doc.Children[1].Value)

	require.NotNil(t, doc.Span)
	assert.Equal(t, astPosition{Line: 0, Column: 0, Offset: 0}, doc.Span.Start)
	assert.Equal(t, astPosition{Line: 0, Column: 5, Offset: 5}, doc.Span.End)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))
}

func TestASTYAMLEncoderMatchesJSON(t *testing.T) {
	src := "{ a, b ? 1, ... }@args: let inherit (args) c; in { x.y = c; }"
	expr, err := parser.Parse(src)
	require.NoError(t, err)

	var jsonBuf, yamlBuf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&jsonBuf).Encode(expr))
	require.NoError(t, NewASTYAMLEncoder(&yamlBuf).Encode(expr))

	var fromJSON, fromYAML astNode
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)
	assert.Contains(t, yamlBuf.String(), "kind: Lambda\n")
}

func TestASTDocLambdaArgument(t *testing.T) {
	doc := parseDoc(t, "args@{ a, b ? 1, ... }: a")
	require.Len(t, doc.Children, 2)

	arg := doc.Children[0]
	assert.Equal(t, "Pattern", arg.Kind)
	assert.Equal(t, "arg", arg.Role)
	assert.Equal(t, "args", arg.Value)
	assert.Equal(t, []string{"ellipsis", "bind-first"}, arg.Flags)
	require.Len(t, arg.Children, 2)
	assert.Equal(t, "Field", arg.Children[0].Kind)
	assert.Equal(t, "a", arg.Children[0].Value)
	assert.Empty(t, arg.Children[0].Children)
	require.Len(t, arg.Children[1].Children, 1)
	assert.Equal(t, "default", arg.Children[1].Children[0].Role)

	assert.Equal(t, "body", doc.Children[1].Role)
}

func TestASTDocAssignments(t *testing.T) {
	doc := parseDoc(t, `rec { inherit (s) x y; "a b".${c} = 1; }`)
	assert.Equal(t, "AttrSet", doc.Kind)
	assert.Equal(t, []string{"rec"}, doc.Flags)
	require.Len(t, doc.Children, 2)

	inherit := doc.Children[0]
	assert.Equal(t, "Inherit", inherit.Kind)
	assert.Equal(t, "x y", inherit.Value)
	require.Len(t, inherit.Children, 3)
	assert.Equal(t, "from", inherit.Children[2].Role)

	named := doc.Children[1]
	assert.Equal(t, "Named", named.Kind)
	require.Len(t, named.Children, 3)
	assert.Equal(t, "quoted", named.Children[0].Type)
	assert.Equal(t, "a b", named.Children[0].Value)
	assert.Equal(t, "interpolated", named.Children[1].Type)
	require.Len(t, named.Children[1].Children, 1)
	assert.Equal(t, "interpolation", named.Children[1].Children[0].Role)
	assert.Equal(t, "value", named.Children[2].Role)
}

func TestASTDocPath(t *testing.T) {
	doc := parseDoc(t, "./src/${name}.nix")
	assert.Equal(t, "Path", doc.Kind)
	assert.Equal(t, "Relative", doc.Type)
	assert.Equal(t, "./src/${...}.nix", doc.Value)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "Ident", doc.Children[0].Kind)
	assert.Equal(t, "name", doc.Children[0].Value)
}
