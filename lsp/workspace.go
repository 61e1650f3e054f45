package lsp

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dhamidi/synix/nix/lexer"
	"github.com/dhamidi/synix/nix/parser"
)

// Workspace holds the parsed state of every Nix file the server knows
// about: files opened by the client and files found by ScanAll.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*Document
}

// Document is one parsed file. Expr is nil when parsing failed; ParseErr
// then holds the *parser.Error.
type Document struct {
	Path     string
	Text     string
	Expr     parser.Expr
	Comments []lexer.Span
	ParseErr error
}

func NewWorkspace(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every .nix file below the root directory. Unreadable
// entries are skipped.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".nix" {
			w.ScanFile(path)
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, string(content))
	return nil
}

// UpdateFile reparses path from text and returns the new document.
func (w *Workspace) UpdateFile(path, text string) *Document {
	expr, comments, err := parser.ParseWithComments(text)
	doc := &Document{
		Path:     path,
		Text:     text,
		Expr:     expr,
		Comments: comments,
		ParseErr: err,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return doc
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// Files returns all documents ordered by path.
func (w *Workspace) Files() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*Document, 0, len(w.files))
	for _, doc := range w.files {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}
