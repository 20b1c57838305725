package interop

import (
	"strings"

	"github.com/gnana997/cssinterop/pkg/jsast"
)

// Stats describes one Rewrite pass.
type Stats struct {
	Replacements int

	// Sites are the original spans of the rewritten calls, in the order
	// they were replaced (innermost calls first).
	Sites []jsast.Span
}

// Rewrite replaces every qualifying createElement call in m with a call to
// alias, keeping the original arguments node and the span of the call.
//
// A call qualifies when it has no type arguments, is not optional and its
// callee is one of:
//
//	h(...)                        h bound to createElement
//	React.createElement(...)      React bound to the module object
//	React.default.createElement(...)
//
// Computed members, new expressions and tagged templates never match.
// Comments between the callee and the arguments are kept; comments inside a
// member callee go with it.
func Rewrite(m *jsast.Module, bindings []Binding, alias string) Stats {
	r := &rewriter{
		source:   m.Source,
		alias:    alias,
		creators: nameSet(bindings, TargetCreateElement),
		bases:    nameSet(bindings, TargetBase),
	}
	if len(r.creators) == 0 && len(r.bases) == 0 {
		return r.stats
	}
	r.visit(m.Root)
	return r.stats
}

type rewriter struct {
	source   []byte
	alias    string
	creators map[string]struct{}
	bases    map[string]struct{}
	stats    Stats
}

// visit rewrites the subtree below n. Children are handled before their
// parent so that calls nested in arguments are replaced too; a synthesized
// call is never visited again.
func (r *rewriter) visit(n *jsast.Node) {
	for _, c := range n.Children {
		if c.Synthetic {
			continue
		}
		r.visit(c)
		if c.Kind == jsast.KindCall && r.qualifies(c) {
			n.Replace(c, r.replace(c))
		}
	}
}

func (r *rewriter) qualifies(call *jsast.Node) bool {
	if call.Child("type_arguments") != nil || call.FirstOfKind(jsast.KindTypeArguments) != nil {
		return false
	}
	if call.FirstOfKind(jsast.KindOptionalChain) != nil {
		return false
	}
	if !call.Child("arguments").Is(jsast.KindArguments) {
		return false
	}

	callee := call.Child("function")
	switch {
	case callee.Is(jsast.KindIdentifier):
		_, ok := r.creators[callee.Text]
		return ok
	case callee.Is(jsast.KindMember):
		object, ok := memberOf(callee, CreateElement)
		if !ok {
			return false
		}
		// React.default.createElement
		if inner, ok := memberOf(object, DefaultMember); ok {
			object = inner
		}
		if !object.Is(jsast.KindIdentifier) {
			return false
		}
		_, ok = r.bases[object.Text]
		return ok
	}
	return false
}

// memberOf matches `object.property` with a plain, non-optional property
// access and returns the object.
func memberOf(n *jsast.Node, property string) (*jsast.Node, bool) {
	if !n.Is(jsast.KindMember) || n.FirstOfKind(jsast.KindOptionalChain) != nil {
		return nil, false
	}
	prop := n.Child("property")
	if !prop.Is(jsast.KindPropIdent) || prop.Text != property {
		return nil, false
	}
	object := n.Child("object")
	return object, object != nil
}

func (r *rewriter) replace(call *jsast.Node) *jsast.Node {
	args := call.Child("arguments")
	children := []*jsast.Node{jsast.WithField("function", jsast.Ident(r.alias))}
	if gap := r.gap(call.Child("function"), args); gap != "" {
		children = append(children, jsast.Raw(gap))
	}
	repl := jsast.NewNode(jsast.KindCall, append(children, args)...)
	repl.Span = call.Span

	r.stats.Replacements++
	r.stats.Sites = append(r.stats.Sites, call.Span)
	return repl
}

// gap returns the source between the callee and the arguments when it holds
// comments. Plain whitespace is dropped.
func (r *rewriter) gap(callee, args *jsast.Node) string {
	start, end := callee.Span.End, args.Span.Start
	if start >= end || int(end) > len(r.source) {
		return ""
	}
	text := string(r.source[start:end])
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
