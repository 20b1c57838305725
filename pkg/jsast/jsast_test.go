package jsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/cssinterop/pkg/jsast"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/util"
)

func parse(t *testing.T, filename, src string) *jsast.Module {
	t.Helper()
	pm := parser.NewParserManagerWithSize(1, util.DiscardLogger())
	t.Cleanup(func() { pm.Close() })

	mod, err := pm.ParseModule(filename, []byte(src))
	require.NoError(t, err)
	return mod
}

func TestPrintRoundTrip(t *testing.T) {
	sources := map[string]string{
		"empty.js":    "",
		"blank.js":    "\n\n   \n",
		"comments.js": "// leading\n/* block */ import React from 'react'; // trailing\n\n\nexport default React;\n",
		"jsx.jsx":     "export const App = () => (\n  <View className=\"p-4\">\n    <Text>{label}</Text>\n  </View>\n);\n",
		"types.ts":    "  import type { FC } from \"react\";\r\nexport const A: FC<{ a?: string }> = ({ a }) => null;\r\n",
		"hashbang.js": "#!/usr/bin/env node\nrequire('x');",
		"component.tsx": "import * as React from 'react';\n\n" +
			"export function Card<T>({ items }: { items: T[] }) {\n" +
			"  return React.createElement(View, null, ...items.map((i) => <Item key={String(i)} />));\n" +
			"}\n",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			mod := parse(t, name, src)
			assert.Equal(t, src, string(jsast.Print(mod)))
		})
	}
}

func TestBody(t *testing.T) {
	mod := parse(t, "a.js", "#!/usr/bin/env node\n// c\nimport a from 'a';\n/* d */\nconst b = 1;\n")

	body := mod.Body()
	require.Len(t, body, 2)
	assert.Equal(t, jsast.KindImportStatement, body[0].Kind)
	assert.Equal(t, jsast.KindLexicalDecl, body[1].Kind)
}

func TestPrependSynthetic(t *testing.T) {
	mod := parse(t, "a.js", "foo();\n")

	stmt := jsast.NewNode("expression_statement",
		jsast.NewNode(jsast.KindCall,
			jsast.WithField("function", jsast.Ident("bar")),
			jsast.WithField("arguments", jsast.NewNode(jsast.KindArguments,
				jsast.Token("("), jsast.String("x"), jsast.Token(","), jsast.Ident("y"), jsast.Token(")"),
			)),
		),
		jsast.Token(";"),
	)
	mod.Prepend(stmt)

	assert.Equal(t, "bar(\"x\", y);\nfoo();\n", string(jsast.Print(mod)))
	assert.Same(t, stmt, mod.Body()[0])
}

func TestReplaceKeepsField(t *testing.T) {
	mod := parse(t, "a.js", "f(a, b);")

	var call *jsast.Node
	jsast.Walk(mod.Root, func(n *jsast.Node) bool {
		if n.Is(jsast.KindCall) {
			call = n
			return false
		}
		return true
	})
	require.NotNil(t, call)

	callee := call.Child("function")
	repl := jsast.Ident("g")
	repl.Span = callee.Span
	require.True(t, call.Replace(callee, repl))

	assert.Equal(t, "function", repl.Field)
	assert.Same(t, repl, call.Child("function"))
	assert.Equal(t, "g(a, b);", string(jsast.Print(mod)))
	assert.False(t, call.Replace(callee, repl), "old node is no longer a child")
}

func TestWalkSkipsChildren(t *testing.T) {
	mod := parse(t, "a.js", "function f() { g(); }\nh();\n")

	var calls []string
	jsast.Walk(mod.Root, func(n *jsast.Node) bool {
		if n.Is("function_declaration") {
			return false
		}
		if n.Is(jsast.KindCall) {
			calls = append(calls, n.Child("function").Text)
		}
		return true
	})
	assert.Equal(t, []string{"h"}, calls)
}

func TestFreshName(t *testing.T) {
	mod := parse(t, "a.js", "const x = 1;\nfunction __c1() { return __c; }\n")

	assert.Equal(t, "y", jsast.FreshName(mod, "y"))
	assert.Equal(t, "__c2", jsast.FreshName(mod, "__c"))

	names := jsast.BoundNames(mod)
	assert.Contains(t, names, "x")
	assert.Contains(t, names, "__c")
	assert.Contains(t, names, "__c1")
}

func TestFreshName_IgnoresPropertyNames(t *testing.T) {
	mod := parse(t, "a.js", "obj.__c = 1;\n")
	assert.Equal(t, "__c", jsast.FreshName(mod, "__c"))
}

func TestStringValue(t *testing.T) {
	mod := parse(t, "a.js", `import a from "react"; import b from 'react-native'; import c from "";`)

	var values []string
	jsast.Walk(mod.Root, func(n *jsast.Node) bool {
		if v, ok := jsast.StringValue(n); ok {
			values = append(values, v)
			return false
		}
		return true
	})
	assert.Equal(t, []string{"react", "react-native", ""}, values)

	v, ok := jsast.StringValue(jsast.String("react-native-css-interop"))
	assert.True(t, ok)
	assert.Equal(t, "react-native-css-interop", v)

	_, ok = jsast.StringValue(jsast.Ident("react"))
	assert.False(t, ok)
}

func TestStringValue_Escapes(t *testing.T) {
	tests := []struct {
		literal string
		want    string
	}{
		{`"\x72eact"`, "react"},
		{`'\u0072eact'`, "react"},
		{`"\u{72}eact"`, "react"},
		{"\"re\\\nact\"", "react"},
		{`"a\tb\n"`, "a\tb\n"},
		{`"\'q\" \\"`, `'q" \`},
		{`"\0\101"`, "\x00A"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{`"\d"`, "d"},
	}
	for _, tc := range tests {
		t.Run(tc.literal, func(t *testing.T) {
			mod := parse(t, "a.js", "x("+tc.literal+");")

			var got string
			var found bool
			jsast.Walk(mod.Root, func(n *jsast.Node) bool {
				if v, ok := jsast.StringValue(n); ok {
					got, found = v, true
					return false
				}
				return true
			})
			require.True(t, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPrintRaw(t *testing.T) {
	call := jsast.NewNode(jsast.KindCall,
		jsast.Ident("f"),
		jsast.Raw(" /* keep */ "),
		jsast.NewNode(jsast.KindArguments, jsast.Token("("), jsast.Ident("a"), jsast.Token(")")),
	)
	assert.Equal(t, "f /* keep */ (a)", string(jsast.PrintNode(call, nil)))
}

func TestPrependAfterHashbangAndBOM(t *testing.T) {
	item := func() *jsast.Node {
		return jsast.NewNode("expression_statement",
			jsast.NewNode(jsast.KindCall, jsast.Ident("g"),
				jsast.NewNode(jsast.KindArguments, jsast.Token("("), jsast.Token(")"))),
			jsast.Token(";"),
		)
	}
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"hashbang", "#!/usr/bin/env node\nf();\n", "#!/usr/bin/env node\ng();\nf();\n"},
		{"hashbang blank line", "#!/usr/bin/env node\n\nf();\n", "#!/usr/bin/env node\ng();\n\nf();\n"},
		{"byte order mark", "\ufefff();\n", "\ufeffg();\nf();\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mod := parse(t, "a.js", tc.src)
			mod.Prepend(item())
			assert.Equal(t, tc.want, string(jsast.Print(mod)))
		})
	}
}

func TestNodeHelpers(t *testing.T) {
	n := jsast.NewNode(jsast.KindImportStatement,
		jsast.Token("import"),
		jsast.Token("type"),
		jsast.WithField("source", jsast.String("react")),
	)

	assert.True(t, n.Is(jsast.KindCall, jsast.KindImportStatement))
	assert.True(t, n.HasToken("type"))
	assert.False(t, n.HasToken("string"), "named children are not tokens")
	assert.Equal(t, jsast.KindString, n.Child("source").Kind)
	assert.Len(t, n.NamedChildren(), 1)
	assert.Nil(t, n.Child("missing"))

	var nilNode *jsast.Node
	assert.False(t, nilNode.Is(jsast.KindCall))
	assert.Nil(t, nilNode.Child("x"))
	assert.Nil(t, nilNode.FirstOfKind("x"))
}
