package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/synix/config"
)

type recorder struct {
	published []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				r.published = append(r.published, params.(protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func (r *recorder) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	require.NotEmpty(t, r.published, "no diagnostics published")
	return r.published[len(r.published)-1]
}

func openDocument(t *testing.T, ls *Server, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "nix", Version: 1, Text: text},
	}))
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	ls := NewServer("test", nil)
	rec := &recorder{}
	ctx := rec.context()
	uri := pathToURI(filepath.Join(t.TempDir(), "default.nix"))

	openDocument(t, ls, ctx, uri, "{ a = 1; a = 2; }")
	params := rec.last(t)
	assert.Equal(t, uri, params.URI)
	require.Len(t, params.Diagnostics, 1)
	diag := params.Diagnostics[0]
	assert.Equal(t, "duplicate attribute `a`", diag.Message)
	assert.Equal(t, protocol.Position{Line: 0, Character: 9}, diag.Range.Start)
	assert.Equal(t, protocol.Position{Line: 0, Character: 10}, diag.Range.End)
	require.NotNil(t, diag.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diag.Severity)

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "{ a = 1; }"}},
	}))
	params = rec.last(t)
	assert.NotNil(t, params.Diagnostics)
	assert.Empty(t, params.Diagnostics)
	assert.Len(t, rec.published, 2)
}

func TestDidOpenReportsLexErrors(t *testing.T) {
	ls := NewServer("test", nil)
	rec := &recorder{}
	ctx := rec.context()

	openDocument(t, ls, ctx, "untitled:1", "{\n  a = \"open;\n}")
	params := rec.last(t)
	require.Len(t, params.Diagnostics, 1)
	assert.Equal(t, protocol.UInteger(1), params.Diagnostics[0].Range.Start.Line)
}

func TestDidCloseFallsBackToDisk(t *testing.T) {
	dir := t.TempDir()
	onDisk := filepath.Join(dir, "disk.nix")
	require.NoError(t, os.WriteFile(onDisk, []byte("{ x = 1; }"), 0o644))
	scratch := filepath.Join(dir, "scratch.nix")

	ls := NewServer("test", nil)
	rec := &recorder{}
	ctx := rec.context()

	openDocument(t, ls, ctx, pathToURI(onDisk), "{ x = ; }")
	require.Len(t, rec.last(t).Diagnostics, 1)
	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(onDisk)},
	}))
	assert.Empty(t, rec.last(t).Diagnostics)
	doc := ls.Workspace().GetFile(onDisk)
	require.NotNil(t, doc)
	assert.Equal(t, "{ x = 1; }", doc.Text)
	assert.NoError(t, doc.ParseErr)

	openDocument(t, ls, ctx, pathToURI(scratch), "1")
	require.NotNil(t, ls.Workspace().GetFile(scratch))
	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(scratch)},
	}))
	assert.Nil(t, ls.Workspace().GetFile(scratch))
}

func TestDidSaveWithText(t *testing.T) {
	ls := NewServer("test", nil)
	rec := &recorder{}
	ctx := rec.context()
	uri := pathToURI(filepath.Join(t.TempDir(), "a.nix"))

	openDocument(t, ls, ctx, uri, "1")
	text := "let in"
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Text:         &text,
	}))
	assert.Len(t, rec.last(t).Diagnostics, 1)
}

func TestFormatting(t *testing.T) {
	ls := NewServer("test", nil)
	ctx := (&recorder{}).context()
	dir := t.TempDir()

	format := func(name, text string) []protocol.TextEdit {
		uri := pathToURI(filepath.Join(dir, name))
		openDocument(t, ls, ctx, uri, text)
		edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		})
		require.NoError(t, err)
		return edits
	}

	edits := format("messy.nix", "{a=1;\nb=[1 2];}")
	require.Len(t, edits, 1)
	assert.Equal(t, "{ a = 1; b = [ 1 2 ]; }\n", edits[0].NewText)
	assert.Equal(t, protocol.Position{}, edits[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 9}, edits[0].Range.End)

	edits = format("clean.nix", "{ a = 1; }\n")
	assert.NotNil(t, edits)
	assert.Empty(t, edits)

	assert.Nil(t, format("comments.nix", "# keep me\n{a=1;}"))
	assert.Nil(t, format("broken.nix", "{ a = }"))
}

func TestFormattingUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Format.Indent = 4
	cfg.Format.MaxWidth = 10
	ls := NewServer("test", cfg)
	ctx := (&recorder{}).context()
	uri := pathToURI(filepath.Join(t.TempDir(), "a.nix"))

	openDocument(t, ls, ctx, uri, "{ alpha = 1; }")
	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "{\n    alpha = 1;\n}\n", edits[0].NewText)
}

func TestInitializeCapabilities(t *testing.T) {
	dir := t.TempDir()

	result, err := NewServer("1.2.3", nil).initialize(nil, &protocol.InitializeParams{RootPath: &dir})
	require.NoError(t, err)
	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "synix", res.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *res.ServerInfo.Version)
	assert.NotNil(t, res.Capabilities.DocumentSymbolProvider)
	assert.NotNil(t, res.Capabilities.DocumentFormattingProvider)

	cfg := config.Default()
	cfg.LSP.DocumentSymbols = false
	result, err = NewServer("1.2.3", cfg).initialize(nil, &protocol.InitializeParams{RootPath: &dir})
	require.NoError(t, err)
	assert.Nil(t, result.(protocol.InitializeResult).Capabilities.DocumentSymbolProvider)
}

func TestWorkspaceSymbol(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	write("a.nix", "{ alpha = 1; beta = 2; }")
	write("sub/b.nix", "{ alphabet = 3; }")
	write(".git/c.nix", "{ alpha = 4; }")
	write("broken.nix", "{")
	write("notes.txt", "{ alpha = 5; }")

	ls := NewServer("test", nil)
	_, err := ls.initialize(nil, &protocol.InitializeParams{RootPath: &dir})
	require.NoError(t, err)
	require.NoError(t, ls.initialized(nil, &protocol.InitializedParams{}))
	assert.Len(t, ls.Workspace().Files(), 3)

	symbols, err := ls.workspaceSymbol(nil, &protocol.WorkspaceSymbolParams{Query: "ALPHA"})
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "alpha", symbols[0].Name)
	assert.Equal(t, "a.nix", *symbols[0].ContainerName)
	assert.Equal(t, pathToURI(filepath.Join(dir, "a.nix")), symbols[0].Location.URI)
	assert.Equal(t, protocol.SymbolKindNumber, symbols[0].Kind)
	assert.Equal(t, "alphabet", symbols[1].Name)
	assert.Equal(t, "b.nix", *symbols[1].ContainerName)
}

func TestURIConversion(t *testing.T) {
	path, err := uriToPath("file:///home/user/my%20project/default.nix")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/my project/default.nix", path)

	path, err = uriToPath("untitled:Untitled-1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:Untitled-1", path)

	assert.Equal(t, "file:///tmp/a%20b.nix", pathToURI("/tmp/a b.nix"))
}
