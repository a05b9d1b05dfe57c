// Package document is the in-memory host document model: a containment tree
// of nodes with paint stacks, pages, and a mutable current selection.
package document

import (
	"github.com/jmylchreest/contrastcheck/internal/wcag"
)

// NodeType identifies the kind of a node.
type NodeType string

// Node types understood by the checker. Any other value is treated as a plain container.
const (
	TypeDocument     NodeType = "DOCUMENT"
	TypePage         NodeType = "PAGE"
	TypeFrame        NodeType = "FRAME"
	TypeGroup        NodeType = "GROUP"
	TypeSection      NodeType = "SECTION"
	TypeComponent    NodeType = "COMPONENT"
	TypeComponentSet NodeType = "COMPONENT_SET"
	TypeInstance     NodeType = "INSTANCE"
	TypeRectangle    NodeType = "RECTANGLE"
	TypeText         NodeType = "TEXT"
)

// IsRoot reports whether the type terminates an ancestor walk.
func (t NodeType) IsRoot() bool {
	return t == TypePage || t == TypeDocument
}

// Node is an element of the containment tree.
// Parent links are back-references only; the tree is owned by its Document.
type Node struct {
	ID       string
	Name     string
	Type     NodeType
	Visible  bool
	Fills    []Paint
	Children []*Node

	// Text properties, only meaningful for TypeText.
	Characters string
	FontSize   wcag.Metric
	FontWeight wcag.Metric

	parent  *Node
	removed bool
}

// NewNode creates a visible node with no fills or children.
func NewNode(id string, typ NodeType) *Node {
	return &Node{ID: id, Type: typ, Visible: true}
}

// Parent returns the containing node, or nil for a detached or root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Removed reports whether the node has been deleted from its document.
func (n *Node) Removed() bool {
	return n.removed
}

// IsText reports whether the node is a text layer.
func (n *Node) IsText() bool {
	return n.Type == TypeText
}

// AppendChild adds child as the last (topmost) child of n.
func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove deletes the node and its subtree from the tree.
// References held elsewhere stay valid but report Removed.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.detach(n)
		n.parent = nil
	}
	n.markRemoved()
}

// Page returns the PAGE ancestor of n (or n itself), or nil if there is none.
func (n *Node) Page() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Type == TypePage {
			return cur
		}
	}
	return nil
}

func (n *Node) detach(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
			return
		}
	}
}

func (n *Node) markRemoved() {
	n.removed = true
	for _, c := range n.Children {
		c.markRemoved()
	}
}
