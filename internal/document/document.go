package document

import (
	"errors"
	"fmt"
)

// ErrNotOnCurrentPage is returned when selecting a node outside the current page.
var ErrNotOnCurrentPage = errors.New("node is not on the current page")

// Document is a loaded design file. It owns every node and tracks the
// current page and its selection.
type Document struct {
	Name  string
	Pages []*Node

	current   *Node
	selection []*Node
	index     map[string]*Node
}

// New creates a document from pages. The first page becomes current.
// Every node must have a unique ID.
func New(name string, pages ...*Node) (*Document, error) {
	d := &Document{
		Name:  name,
		index: make(map[string]*Node),
	}

	for _, p := range pages {
		if p.Type != TypePage {
			return nil, fmt.Errorf("top-level node %q is %s, not PAGE", p.ID, p.Type)
		}
		if err := d.register(p); err != nil {
			return nil, err
		}
		d.Pages = append(d.Pages, p)
	}

	if len(d.Pages) > 0 {
		d.current = d.Pages[0]
	}
	return d, nil
}

func (d *Document) register(n *Node) error {
	if n.ID == "" {
		return fmt.Errorf("node of type %s has no id", n.Type)
	}
	if _, dup := d.index[n.ID]; dup {
		return fmt.Errorf("duplicate node id %q", n.ID)
	}
	d.index[n.ID] = n
	for _, c := range n.Children {
		if err := d.register(c); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the live node with the given ID.
func (d *Document) Find(id string) (*Node, bool) {
	n, ok := d.index[id]
	if !ok || n.Removed() {
		return nil, false
	}
	return n, true
}

// CurrentPage returns the page selections apply to, or nil for an empty document.
func (d *Document) CurrentPage() *Node {
	return d.current
}

// SetCurrentPage switches the current page and clears the selection.
func (d *Document) SetCurrentPage(id string) error {
	for _, p := range d.Pages {
		if p.ID == id || p.Name == id {
			d.current = p
			d.selection = nil
			return nil
		}
	}
	return fmt.Errorf("page %q not found", id)
}

// Selection returns a copy of the current selection, skipping nodes removed since they were selected.
func (d *Document) Selection() []*Node {
	out := make([]*Node, 0, len(d.selection))
	for _, n := range d.selection {
		if !n.Removed() {
			out = append(out, n)
		}
	}
	return out
}

// SetSelection replaces the current selection. Every node must be live and on the current page;
// on error the previous selection is kept.
func (d *Document) SetSelection(nodes []*Node) error {
	sel := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Removed() {
			return fmt.Errorf("cannot select a removed node")
		}
		if d.current == nil || n.Page() != d.current {
			return fmt.Errorf("select %q: %w", n.ID, ErrNotOnCurrentPage)
		}
		sel = append(sel, n)
	}
	d.selection = sel
	return nil
}

// SelectIDs selects nodes by ID.
func (d *Document) SelectIDs(ids []string) error {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, ok := d.Find(id)
		if !ok {
			return fmt.Errorf("node %q not found", id)
		}
		nodes = append(nodes, n)
	}
	return d.SetSelection(nodes)
}

// SelectAll selects every top-level child of the current page.
func (d *Document) SelectAll() error {
	if d.current == nil {
		return fmt.Errorf("document has no pages")
	}
	return d.SetSelection(d.current.Children)
}

// Close marks every node removed. Used when the document is replaced by a reload,
// so anything still holding old nodes sees them as deleted.
func (d *Document) Close() {
	for _, p := range d.Pages {
		p.markRemoved()
	}
	d.selection = nil
}
