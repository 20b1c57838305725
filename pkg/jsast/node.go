// Package jsast provides a mutable, lossless syntax tree for JavaScript and
// TypeScript modules.
//
// Trees are lowered from tree-sitter parse trees (see Lower) so that they can
// outlive the parser and be edited in place. Every node that came from the
// source keeps its byte span; Print reproduces the original bytes for those
// nodes and only renders tokens for nodes marked Synthetic.
//
// Node kinds are the tree-sitter grammar kinds ("call_expression",
// "identifier", "(" ...) and fields are the grammar field names
// ("function", "arguments", "name" ...), so matching code reads as a switch
// over Kind.
package jsast

import "strings"

// Span is the origin of a node in the source.
//
// Start and End are byte offsets; Line and Column are 0-based and describe
// the start position. A node without an origin has an empty span.
type Span struct {
	Start  uint32
	End    uint32
	Line   uint32
	Column uint32
}

// Valid reports whether the span covers source bytes.
func (s Span) Valid() bool {
	return s.End > s.Start
}

// Node is a single node of the tree.
type Node struct {
	// Kind is the grammar kind, e.g. "call_expression" or "(".
	Kind string

	// Field is the node's role in its parent ("" when it has none).
	Field string

	// Named is false for anonymous tokens such as punctuation and keywords.
	Named bool

	// Text holds the source text of leaves.
	Text string

	// Span is the position metadata. Synthetic nodes may inherit the span
	// of the node they replaced.
	Span Span

	// Synthetic marks nodes built by a transform rather than parsed.
	Synthetic bool

	Children []*Node
}

// Is reports whether the node is non-nil and has one of the given kinds.
func (n *Node) Is(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Child returns the first child with the given field name, or nil.
func (n *Node) Child(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// FirstOfKind returns the first direct child of the given kind, or nil.
func (n *Node) FirstOfKind(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// HasToken reports whether the node has an anonymous child token with one of
// the given kinds, e.g. the "type" keyword of `import type`.
func (n *Node) HasToken(kinds ...string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if !c.Named && c.Is(kinds...) {
			return true
		}
	}
	return false
}

// NamedChildren returns the named children, skipping comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// Replace swaps the direct child old for repl. It returns false if old is
// not a child of n. The replacement takes over the field of old.
func (n *Node) Replace(old, repl *Node) bool {
	for i, c := range n.Children {
		if c == old {
			repl.Field = old.Field
			n.Children[i] = repl
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order. When fn returns false the
// children of that node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// StringValue returns the value of a string literal: its contents without
// the quotes and with escape sequences decoded.
func StringValue(n *Node) (string, bool) {
	if !n.Is(KindString) {
		return "", false
	}
	if len(n.Children) == 0 {
		if len(n.Text) < 2 {
			return "", false
		}
		return unescape(n.Text[1 : len(n.Text)-1]), true
	}
	// Fragments never hold a backslash, so the joined text decodes the same
	// as the literal body.
	var raw strings.Builder
	for _, c := range n.Children {
		if c.Named {
			raw.WriteString(c.Text)
		}
	}
	return unescape(raw.String()), true
}
