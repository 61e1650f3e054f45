package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2, cfg.Format.Indent)
	assert.Equal(t, 80, cfg.Format.MaxWidth)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.True(t, cfg.LSP.DocumentSymbols)
	assert.NoError(t, cfg.Validate())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[format]
indent = 4

[lsp]
document_symbols = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Format.Indent)
	assert.Equal(t, 80, cfg.Format.MaxWidth)
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.False(t, cfg.LSP.DocumentSymbols)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[format\n", "failed to parse config"},
		{"unknown key", "[format]\ntabs = true\n", "unknown keys format.tabs"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n", "output.color must be"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format must be one of"},
		{"bad indent", "[format]\nindent = 0\n", "format.indent must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	cfg, err := Parse("[output]\nformat = \"json\"\ncolor = \"never\"\n")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, ColorNever, cfg.Output.Color)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := Find(nested)
	require.NoError(t, err)
	wantAbs, err := filepath.Abs(want)
	require.NoError(t, err)
	assert.Equal(t, wantAbs, got)
}

func TestFindNothing(t *testing.T) {
	dir := t.TempDir()
	got, err := Find(dir)
	require.NoError(t, err)
	// A synix.toml above the temp dir would be found; only check the
	// result is not inside dir.
	if got != "" {
		rel, err := filepath.Rel(dir, got)
		require.NoError(t, err)
		assert.Contains(t, rel, "..")
	}
}
