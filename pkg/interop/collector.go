package interop

import (
	"github.com/gnana997/cssinterop/pkg/jsast"
)

// Collect returns, in source order, every top-level binding of m that
// refers to React or to its createElement export. Nested scopes are not
// inspected and unrecognized constructs are ignored, so Collect never fails.
//
// Recognized forms:
//
//	import React from "react"
//	import * as React from "react"
//	import { createElement as h } from "react"
//	const React = require("react")
//	const React = _interopRequireDefault(require("react"))
//	const { createElement: h } = require("react")
func Collect(m *jsast.Module) []Binding {
	var bindings []Binding
	for _, item := range m.Body() {
		switch item.Kind {
		case jsast.KindImportStatement:
			bindings = collectImport(item, bindings)
		case jsast.KindLexicalDecl, jsast.KindVariableDecl:
			bindings = collectDeclaration(item, bindings)
		}
	}
	return bindings
}

func collectImport(stmt *jsast.Node, out []Binding) []Binding {
	if stmt.HasToken("type", "typeof") {
		return out
	}
	if source, ok := jsast.StringValue(importSource(stmt)); !ok || source != ReactPackage {
		return out
	}

	// import "react" has no clause
	clause := stmt.FirstOfKind(jsast.KindImportClause)
	for _, c := range clause.NamedChildren() {
		switch c.Kind {
		case jsast.KindIdentifier:
			out = append(out, Binding{LocalName: c.Text, Target: TargetBase, ModuleKind: ModuleESM})
		case jsast.KindNamespaceImport:
			if id := c.FirstOfKind(jsast.KindIdentifier); id != nil {
				out = append(out, Binding{LocalName: id.Text, Target: TargetBase, ModuleKind: ModuleESM})
			}
		case jsast.KindNamedImports:
			for _, spec := range c.NamedChildren() {
				if local, ok := createElementSpecifier(spec); ok {
					out = append(out, Binding{LocalName: local, Target: TargetCreateElement, ModuleKind: ModuleESM})
				}
			}
		}
	}
	return out
}

// importSource returns the module specifier of an import statement.
func importSource(stmt *jsast.Node) *jsast.Node {
	if src := stmt.Child("source"); src != nil {
		return src
	}
	return stmt.FirstOfKind(jsast.KindString)
}

// createElementSpecifier reports the local name of a named import of
// createElement. Type-only specifiers do not count.
func createElementSpecifier(spec *jsast.Node) (string, bool) {
	if !spec.Is(jsast.KindImportSpecifier) || spec.HasToken("type", "typeof") {
		return "", false
	}
	name := spec.Child("name")
	if moduleExportName(name) != CreateElement {
		return "", false
	}
	if alias := spec.Child("alias"); alias != nil {
		return alias.Text, true
	}
	return name.Text, true
}

// moduleExportName reads an identifier or a string export name.
func moduleExportName(n *jsast.Node) string {
	if n.Is(jsast.KindIdentifier) {
		return n.Text
	}
	if s, ok := jsast.StringValue(n); ok {
		return s
	}
	return ""
}

func collectDeclaration(decl *jsast.Node, out []Binding) []Binding {
	var declarators []*jsast.Node
	for _, c := range decl.NamedChildren() {
		if c.Is(jsast.KindDeclarator) {
			declarators = append(declarators, c)
		}
	}
	if len(declarators) != 1 {
		return out
	}
	d := declarators[0]
	if !isReactRequire(d.Child("value")) {
		return out
	}

	name := d.Child("name")
	if name == nil {
		return out
	}
	switch name.Kind {
	case jsast.KindIdentifier:
		out = append(out, Binding{LocalName: name.Text, Target: TargetBase, ModuleKind: ModuleCJS})
	case jsast.KindObjectPattern:
		if local, ok := destructuredCreateElement(name); ok {
			out = append(out, Binding{LocalName: local, Target: TargetCreateElement, ModuleKind: ModuleCJS})
		}
	}
	return out
}

// destructuredCreateElement returns the local name bound to createElement
// by an object pattern. Only the first matching property is considered.
func destructuredCreateElement(pattern *jsast.Node) (string, bool) {
	for _, prop := range pattern.NamedChildren() {
		switch prop.Kind {
		case jsast.KindShorthandPat:
			if prop.Text == CreateElement {
				return prop.Text, true
			}
		case jsast.KindAssignPattern:
			// { createElement = fallback }
			if left := prop.Child("left"); left.Is(jsast.KindShorthandPat) && left.Text == CreateElement {
				return left.Text, true
			}
		case jsast.KindPairPattern:
			key, value := prop.Child("key"), prop.Child("value")
			if !key.Is(jsast.KindPropIdent, jsast.KindString) || !value.Is(jsast.KindIdentifier) {
				continue
			}
			keyName := key.Text
			if key.Is(jsast.KindString) {
				keyName, _ = jsast.StringValue(key)
			}
			if keyName == CreateElement {
				return value.Text, true
			}
		}
	}
	return "", false
}

// isReactRequire matches require("react") and
// _interopRequireDefault(require("react")). Callees are compared by name.
func isReactRequire(n *jsast.Node) bool {
	arg, ok := soleArgument(n, InteropRequireDefault)
	if ok {
		n = arg
	}
	arg, ok = soleArgument(n, Require)
	if !ok {
		return false
	}
	source, ok := jsast.StringValue(arg)
	return ok && source == ReactPackage
}

// soleArgument returns the only argument of a plain call to the named
// function.
func soleArgument(call *jsast.Node, callee string) (*jsast.Node, bool) {
	if !call.Is(jsast.KindCall) || call.FirstOfKind(jsast.KindOptionalChain) != nil {
		return nil, false
	}
	fn := call.Child("function")
	if !fn.Is(jsast.KindIdentifier) || fn.Text != callee {
		return nil, false
	}
	args := call.Child("arguments")
	if !args.Is(jsast.KindArguments) {
		return nil, false
	}
	named := args.NamedChildren()
	if len(named) != 1 {
		return nil, false
	}
	return named[0], true
}
