package document

import (
	"github.com/jmylchreest/contrastcheck/internal/wcag"
)

// Page builds a PAGE node containing children.
func Page(id string, children ...*Node) *Node {
	return Container(id, TypePage, nil, children...)
}

// Frame builds a FRAME node with the given fill stack and children.
func Frame(id string, fills []Paint, children ...*Node) *Node {
	return Container(id, TypeFrame, fills, children...)
}

// Container builds a node of any container type.
func Container(id string, typ NodeType, fills []Paint, children ...*Node) *Node {
	n := NewNode(id, typ)
	n.Fills = fills
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Text builds a TEXT node with 16px regular metrics.
func Text(id, characters string, fills ...Paint) *Node {
	n := NewNode(id, TypeText)
	n.Characters = characters
	n.FontSize = wcag.Known(16)
	n.FontWeight = wcag.Known(400)
	n.Fills = fills
	return n
}

// Hide sets Visible to false and returns n.
func Hide(n *Node) *Node {
	n.Visible = false
	return n
}
