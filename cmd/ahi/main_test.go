package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAhi(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEbnfCheckBuiltin(t *testing.T) {
	out, err := runAhi("ebnf", "check")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEbnfCheckFile(t *testing.T) {
	path := writeTemp(t, "broken.ebnf", "Expr = Term .\n")
	out, err := runAhi("ebnf", "check", path)
	require.Error(t, err)
	assert.Contains(t, out, "missing production Term")

	path = writeTemp(t, "ok.ebnf", "Expr = Term { \"+\" Term } .\nTerm = \"x\" .\n")
	_, err = runAhi("ebnf", "check", path)
	assert.NoError(t, err)

	_, err = runAhi("ebnf", "check", "--start", "Term", path)
	require.Error(t, err)
}

func TestEbnfAccept(t *testing.T) {
	good := writeTemp(t, "good.nix", "{ a = 1; b = a: a; }")
	_, err := runAhi("ebnf", "accept", good)
	require.NoError(t, err)

	bad := writeTemp(t, "bad.nix", "{ a = 1 }")
	out, err := runAhi("ebnf", "accept", bad)
	require.Error(t, err)
	assert.Equal(t, bad+":1:9: unexpected `}`\n", out)
}
