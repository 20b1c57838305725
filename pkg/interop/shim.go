package interop

import (
	"github.com/gnana997/cssinterop/pkg/jsast"
)

// ShimForm is the module syntax used for the inserted shim binding.
type ShimForm string

const (
	ShimNone ShimForm = ""
	ShimESM  ShimForm = "esm"
	ShimCJS  ShimForm = "cjs"
)

// esmShim builds
//
//	import { createElementAndCheckCssInterop as alias } from "react-native-css-interop";
func esmShim(alias string) *jsast.Node {
	specifier := jsast.NewNode(jsast.KindImportSpecifier,
		jsast.WithField("name", jsast.Ident(ShimExport)),
		jsast.Token("as"),
		jsast.WithField("alias", jsast.Ident(alias)),
	)
	clause := jsast.NewNode(jsast.KindImportClause,
		jsast.NewNode(jsast.KindNamedImports, jsast.Token("{"), specifier, jsast.Token("}")),
	)
	return jsast.NewNode(jsast.KindImportStatement,
		jsast.Token("import"),
		clause,
		jsast.Token("from"),
		jsast.WithField("source", jsast.String(ShimPackage)),
		jsast.Token(";"),
	)
}

// cjsShim builds
//
//	const { createElementAndCheckCssInterop: alias } = require("react-native-css-interop");
func cjsShim(alias string) *jsast.Node {
	pattern := jsast.NewNode(jsast.KindObjectPattern,
		jsast.Token("{"),
		jsast.NewNode(jsast.KindPairPattern,
			jsast.WithField("key", jsast.PropIdent(ShimExport)),
			jsast.Token(":"),
			jsast.WithField("value", jsast.Ident(alias)),
		),
		jsast.Token("}"),
	)
	require := jsast.NewNode(jsast.KindCall,
		jsast.WithField("function", jsast.Ident(Require)),
		jsast.WithField("arguments", jsast.NewNode(jsast.KindArguments,
			jsast.Token("("), jsast.String(ShimPackage), jsast.Token(")"),
		)),
	)
	declarator := jsast.NewNode(jsast.KindDeclarator,
		jsast.WithField("name", pattern),
		jsast.Token("="),
		jsast.WithField("value", require),
	)
	return jsast.NewNode(jsast.KindLexicalDecl,
		jsast.WithField("kind", jsast.Token("const")),
		declarator,
		jsast.Token(";"),
	)
}

func shimFor(form ShimForm, alias string) *jsast.Node {
	if form == ShimCJS {
		return cjsShim(alias)
	}
	return esmShim(alias)
}
