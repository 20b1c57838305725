package jsast

import (
	"strconv"
)

// Module is one compilation unit: its filename, the source it was parsed
// from and the root of its tree.
type Module struct {
	Filename string
	Source   []byte
	Root     *Node
}

// Body returns the top-level items in source order. Comments and a leading
// hashbang line are not items.
func (m *Module) Body() []*Node {
	if m == nil || m.Root == nil {
		return nil
	}
	items := make([]*Node, 0, len(m.Root.Children))
	for _, c := range m.Root.Children {
		if c.Named && c.Kind != KindComment && c.Kind != KindHashbang {
			items = append(items, c)
		}
	}
	return items
}

// Prepend inserts item as the new first top-level item. A hashbang line
// stays in front.
func (m *Module) Prepend(item *Node) {
	at := 0
	if len(m.Root.Children) > 0 && m.Root.Children[0].Kind == KindHashbang {
		at = 1
	}
	children := make([]*Node, 0, len(m.Root.Children)+1)
	children = append(children, m.Root.Children[:at]...)
	children = append(children, item)
	children = append(children, m.Root.Children[at:]...)
	m.Root.Children = children
}

// BoundNames returns the text of every identifier-like leaf in the module,
// at any depth.
func BoundNames(m *Module) map[string]struct{} {
	names := make(map[string]struct{})
	Walk(m.Root, func(n *Node) bool {
		if identifierKinds[n.Kind] {
			names[n.Text] = struct{}{}
		}
		return true
	})
	return names
}

// FreshName returns base if no identifier in the module uses it, otherwise
// the first of base1, base2, ... that is free.
func FreshName(m *Module, base string) string {
	used := BoundNames(m)
	if _, taken := used[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := base + strconv.Itoa(i)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}
