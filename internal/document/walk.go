package document

// CollectText returns the visible text nodes beneath roots in depth-first
// document order. A hidden node hides its whole subtree, whatever the
// visibility of its descendants.
func CollectText(roots []*Node) []*Node {
	var out []*Node
	for _, n := range roots {
		out = collectText(n, out)
	}
	return out
}

func collectText(n *Node, out []*Node) []*Node {
	if n == nil || !n.Visible {
		return out
	}
	if n.IsText() {
		return append(out, n)
	}
	for _, c := range n.Children {
		out = collectText(c, out)
	}
	return out
}
