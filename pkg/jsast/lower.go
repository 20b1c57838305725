package jsast

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Lower copies a tree-sitter tree into a mutable Module. The returned module
// does not reference the tree, so the caller may close it right away.
//
// Lowering keeps every node, named or anonymous, so that Print can
// reproduce the source byte for byte.
func Lower(tree *ts.Tree, source []byte, filename string) *Module {
	return &Module{
		Filename: filename,
		Source:   source,
		Root:     lowerNode(tree.RootNode(), "", source),
	}
}

func lowerNode(n *ts.Node, field string, source []byte) *Node {
	start, end := n.StartByte(), n.EndByte()
	pos := n.StartPosition()

	node := &Node{
		Kind:  n.Kind(),
		Field: field,
		Named: n.IsNamed(),
		Span: Span{
			Start:  uint32(start),
			End:    uint32(end),
			Line:   uint32(pos.Row),
			Column: uint32(pos.Column),
		},
	}

	count := n.ChildCount()
	if count == 0 {
		if end <= uint(len(source)) && start <= end {
			node.Text = string(source[start:end])
		}
		return node
	}

	node.Children = make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		node.Children = append(node.Children, lowerNode(child, n.FieldNameForChild(uint32(i)), source))
	}
	return node
}
