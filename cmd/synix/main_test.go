package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/synix/format"
	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with an empty config file unless args name another.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	cfgPath := writeFile(t, t.TempDir(), "synix.toml", "")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseTree(t *testing.T) {
	expr, err := parser.Parse("1 + 2 * 3")
	require.NoError(t, err)

	res := run(t, "1 + 2 * 3", "parse")
	require.NoError(t, res.err)
	assert.Equal(t, parser.Dump(expr), res.stdout)

	res = run(t, "1 + 2 * 3", "parse", "--positions", "-")
	require.NoError(t, res.err)
	assert.Equal(t, parser.DumpWithPositions(expr), res.stdout)
}

func TestParseFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "default.nix", "{ a = [ 1 ]; }")

	res := run(t, "", "parse", "-f", "json", path)
	require.NoError(t, res.err)
	var doc struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind  string `json:"kind"`
			Value string `json:"value"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "AttrSet", doc.Kind)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "Named", doc.Children[0].Kind)
	assert.Equal(t, "a", doc.Children[0].Value)
}

func TestParseFormatFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "synix.toml", "[output]\nformat = \"nix\"\n\n[format]\nindent = 4\nmax_width = 10\n")

	res := run(t, "{alpha=1;}", "--config", cfg, "parse")
	require.NoError(t, res.err)
	assert.Equal(t, "{\n    alpha = 1;\n}\n", res.stdout)

	expr, err := parser.Parse("{alpha=1;}")
	require.NoError(t, err)
	res = run(t, "{alpha=1;}", "--config", cfg, "parse", "-f", "tree")
	require.NoError(t, res.err)
	assert.Equal(t, parser.Dump(expr), res.stdout)
}

func TestParseErrors(t *testing.T) {
	res := run(t, "{ a = 1; a = 2; }", "parse")
	require.ErrorIs(t, res.err, errReported)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "error: duplicate attribute `a`\n")
	assert.Contains(t, res.stderr, " --> <stdin>:1:10\n")

	res = run(t, "1", "parse", "-f", "xml")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `unknown format "xml"`)

	res = run(t, "", "parse", filepath.Join(t.TempDir(), "missing.nix"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "read file")

	res = run(t, "", "--config", writeFile(t, t.TempDir(), "synix.toml", "[format]\ntabs = true\n"), "parse")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "format.tabs")
}

func TestTokens(t *testing.T) {
	src := `f (x // "s") 1`
	tokens, err := lexer.Tokenize(src)
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, format.NewTokenEncoder(&want).Encode(tokens))

	res := run(t, src, "tokens")
	require.NoError(t, res.err)
	assert.Equal(t, want.String(), res.stdout)

	res = run(t, "1.5", "tokens")
	require.ErrorIs(t, res.err, errReported)
	assert.Contains(t, res.stderr, "<stdin>:1:")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.nix", "{ a = 1; }")
	writeFile(t, dir, "sub/also-good.nix", "x: x")
	writeFile(t, dir, ".hidden/bad.nix", "{")
	writeFile(t, dir, "notes.txt", "{")

	res := run(t, "", "check", dir)
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)

	bad := writeFile(t, dir, "bad.nix", "{ a = ; }")
	res = run(t, "", "check", dir)
	require.Error(t, res.err)
	assert.Equal(t, "1 of 3 files failed to parse", res.err.Error())
	assert.Contains(t, res.stderr, " --> "+bad+":1:")
	assert.NotContains(t, res.stderr, "good.nix")

	res = run(t, "let in", "check")
	require.Error(t, res.err)
	assert.Equal(t, "1 of 1 files failed to parse", res.err.Error())
}

func TestFmt(t *testing.T) {
	res := run(t, "{a=1;b=[1 2];}", "fmt")
	require.NoError(t, res.err)
	assert.Equal(t, "{ a = 1; b = [ 1 2 ]; }\n", res.stdout)

	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.nix", "{a=1;}")
	clean := writeFile(t, dir, "clean.nix", "{ a = 1; }\n")

	res = run(t, "", "fmt", "-l", dir)
	require.NoError(t, res.err)
	assert.Equal(t, messy+"\n", res.stdout)

	res = run(t, "", "fmt", "-w", messy, clean)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	data, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "{ a = 1; }\n", string(data))

	res = run(t, "", "fmt", "-l", dir)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestFmtComments(t *testing.T) {
	src := "# the answer\n{a=42;}"

	res := run(t, src, "fmt")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "<stdin>: contains 1 comments")
	assert.Empty(t, res.stdout)

	res = run(t, src, "fmt", "--drop-comments")
	require.NoError(t, res.err)
	assert.Equal(t, "{ a = 42; }\n", res.stdout)
}

func TestFmtErrors(t *testing.T) {
	res := run(t, "{a=1;}", "fmt", "-w")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "-w requires a file argument")

	res = run(t, "{ a = }", "fmt")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, " --> <stdin>:1:")
	assert.Equal(t, "1 of 1 files could not be formatted", res.err.Error())
}

func TestColorFlag(t *testing.T) {
	res := run(t, "{", "--color", "always", "check")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "\x1b[")

	res = run(t, "{", "--color", "never", "check")
	require.Error(t, res.err)
	assert.NotContains(t, res.stderr, "\x1b[")

	res = run(t, "{", "check")
	require.Error(t, res.err)
	assert.NotContains(t, res.stderr, "\x1b[")

	res = run(t, "{", "--color", "sometimes", "check")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "output.color must be auto, always or never")
}

func TestExpandPaths(t *testing.T) {
	names, err := expandPaths(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-"}, names)

	dir := t.TempDir()
	a := writeFile(t, dir, "a.nix", "1")
	b := writeFile(t, dir, "z/b.nix", "1")
	writeFile(t, dir, "z/c.txt", "1")
	names, err = expandPaths([]string{dir, "extra.nix"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, "extra.nix"}, names)

	names, err = expandPaths([]string{"-", a, "-"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-", a}, names)
}

func TestCheckStdinTwice(t *testing.T) {
	res := run(t, "{ a = 1; }", "check", "-", "-")
	require.NoError(t, res.err)
	assert.Empty(t, res.stderr)
}
