// Package lsp serves parse diagnostics, document symbols and formatting for
// Nix files over the language server protocol.
package lsp

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/synix/config"
	"github.com/dhamidi/synix/format"
	"github.com/dhamidi/synix/nix/parser"
)

const lsName = "synix"

var log = commonlog.GetLogger("synix.lsp")

type Server struct {
	workspace *Workspace
	config    *config.Config
	handler   protocol.Handler
	server    *server.Server
	version   string
}

// NewServer returns a server using cfg for formatting and feature
// switches. A nil cfg means config.Default().
func NewServer(version string, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &Server{
		workspace: NewWorkspace("."),
		config:    cfg,
		version:   version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
		WorkspaceSymbol:        ls.workspaceSymbol,
	}
	if cfg.LSP.DocumentSymbols {
		ls.handler.TextDocumentDocumentSymbol = ls.textDocumentDocumentSymbol
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) Workspace() *Workspace {
	return ls.workspace
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = NewWorkspace(rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scanning %s: %s", ls.workspace.RootDir(), err)
	}
	log.Infof("indexed %d files below %s", len(ls.workspace.Files()), ls.workspace.RootDir())
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	doc := ls.workspace.UpdateFile(path, params.TextDocument.Text)
	publishDiagnostics(ctx, params.TextDocument.URI, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc := ls.workspace.UpdateFile(path, textChange.Text)
			publishDiagnostics(ctx, params.TextDocument.URI, doc)
		}
	}
	return nil
}

// textDocumentDidClose falls back to the file on disk, which may differ
// from the unsaved buffer, and clears the buffer's diagnostics.
func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.workspace.ScanFile(path); err != nil {
		ls.workspace.RemoveFile(path)
	}
	publishDiagnostics(ctx, params.TextDocument.URI, nil)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, *params.Text)
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Errorf("reading %s: %s", path, err)
		return nil
	}
	publishDiagnostics(ctx, params.TextDocument.URI, ls.workspace.GetFile(path))
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil || doc.Expr == nil {
		return nil, nil
	}
	return DocumentSymbols(doc.Expr), nil
}

// textDocumentFormatting replaces the whole document with its canonical
// layout. Documents that do not parse or that contain comments are left
// alone, since printing the tree would lose text.
func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	doc := ls.workspace.GetFile(path)
	if doc == nil || doc.Expr == nil {
		return nil, nil
	}
	if len(doc.Comments) > 0 {
		log.Debugf("not formatting %s: it contains comments", path)
		return nil, nil
	}

	var buf bytes.Buffer
	printer := format.NewNixPrinter(&buf)
	printer.Indent = ls.config.Format.Indent
	printer.MaxWidth = ls.config.Format.MaxWidth
	if err := printer.Encode(doc.Expr); err != nil {
		return nil, err
	}
	if buf.String() == doc.Text {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{},
			End:   endPosition(doc.Text),
		},
		NewText: buf.String(),
	}}, nil
}

// workspaceSymbol searches the top-level bindings of every known file. The
// query matches case-insensitively anywhere in the name.
func (ls *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var out []protocol.SymbolInformation
	for _, doc := range ls.workspace.Files() {
		if doc.Expr == nil {
			continue
		}
		container := filepath.Base(doc.Path)
		for _, sym := range DocumentSymbols(doc.Expr) {
			if !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			out = append(out, protocol.SymbolInformation{
				Name: sym.Name,
				Kind: sym.Kind,
				Location: protocol.Location{
					URI:   pathToURI(doc.Path),
					Range: sym.SelectionRange,
				},
				ContainerName: &container,
			})
		}
	}
	return out, nil
}

// Diagnostics converts the parse failure of doc, if any, to LSP
// diagnostics. The result is never nil so that publishing it clears stale
// entries on the client.
func Diagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc == nil || doc.ParseErr == nil {
		return diagnostics
	}
	span, message, ok := parser.Describe(doc.ParseErr)
	if !ok {
		message = doc.ParseErr.Error()
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return append(diagnostics, protocol.Diagnostic{
		Range:    toRange(span),
		Severity: &severity,
		Source:   &source,
		Message:  message,
	})
}

func publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, doc *Document) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnostics(doc),
	})
}

// endPosition is the position just past the last character of text.
func endPosition(text string) protocol.Position {
	line := strings.Count(text, "\n")
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf8.RuneCountInString(last)),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
