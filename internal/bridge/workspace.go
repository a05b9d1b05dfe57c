package bridge

import (
	"fmt"

	"github.com/jmylchreest/contrastcheck/internal/document"
)

// Loader produces a fresh copy of the document, e.g. by re-reading its file.
type Loader func() (*document.Document, error)

// Workspace is the host document seen by the checker. Reloading swaps the
// document in place; nodes of the old tree are marked removed.
type Workspace struct {
	doc  *document.Document
	load Loader
}

// NewWorkspace wraps doc. load may be nil, in which case Reload fails.
func NewWorkspace(doc *document.Document, load Loader) *Workspace {
	return &Workspace{doc: doc, load: load}
}

// Document returns the current document.
func (w *Workspace) Document() *document.Document {
	return w.doc
}

// Selection implements checker.Host.
func (w *Workspace) Selection() []*document.Node {
	return w.doc.Selection()
}

// SetSelection implements checker.Host.
func (w *Workspace) SetSelection(nodes []*document.Node) error {
	return w.doc.SetSelection(nodes)
}

// SelectIDs selects nodes of the current document by id.
func (w *Workspace) SelectIDs(ids []string) error {
	return w.doc.SelectIDs(ids)
}

// Reload replaces the document with a freshly loaded one. On error the
// current document is kept.
func (w *Workspace) Reload() error {
	if w.load == nil {
		return fmt.Errorf("document cannot be reloaded")
	}
	doc, err := w.load()
	if err != nil {
		return err
	}
	w.Replace(doc)
	return nil
}

// Replace swaps in doc and closes the previous document.
func (w *Workspace) Replace(doc *document.Document) {
	if w.doc != nil && w.doc != doc {
		w.doc.Close()
	}
	w.doc = doc
}
