package jsast

import "strconv"

// Ident builds a synthetic identifier.
func Ident(name string) *Node {
	return &Node{Kind: KindIdentifier, Named: true, Text: name, Synthetic: true}
}

// PropIdent builds a synthetic property name.
func PropIdent(name string) *Node {
	return &Node{Kind: KindPropIdent, Named: true, Text: name, Synthetic: true}
}

// Token builds a synthetic anonymous token such as "import" or "{".
func Token(text string) *Node {
	return &Node{Kind: text, Text: text, Synthetic: true}
}

// Raw builds a synthetic leaf printed exactly as text, such as the comments
// kept from a node that was replaced.
func Raw(text string) *Node {
	return &Node{Kind: KindRaw, Text: text, Synthetic: true}
}

// String builds a synthetic double-quoted string literal.
func String(value string) *Node {
	return &Node{Kind: KindString, Named: true, Text: strconv.Quote(value), Synthetic: true}
}

// NewNode builds a synthetic named node of the given kind.
func NewNode(kind string, children ...*Node) *Node {
	return &Node{Kind: kind, Named: true, Synthetic: true, Children: children}
}

// WithField sets the field of n and returns it, for use inside builders.
func WithField(field string, n *Node) *Node {
	n.Field = field
	return n
}
