// Package interop rewrites React element factory calls so that every
// element is created through createElementAndCheckCssInterop from
// react-native-css-interop.
//
// A module goes through three steps: Collect finds the top-level bindings
// that refer to React or its createElement export, Rewrite replaces the
// matching calls with calls to a local alias of the shim, and
// Transformer.Transform ties them together and prepends the shim binding
// when anything was rewritten.
package interop

import "regexp"

// Names the transform recognizes or emits. These are matched and printed
// exactly as written.
const (
	ReactPackage          = "react"
	CreateElement         = "createElement"
	Require               = "require"
	InteropRequireDefault = "_interopRequireDefault"
	DefaultMember         = "default"

	ShimPackage = "react-native-css-interop"
	ShimExport  = "createElementAndCheckCssInterop"

	// DefaultAlias is the preferred local name of the shim.
	DefaultAlias = "__c"
)

// deniedPath matches files that live inside React or the styling packages
// themselves. The match is on a whole directory segment and is
// case-sensitive.
var deniedPath = regexp.MustCompile(`.*[/\\](?:react|react-native|react-native-web|react-native-css-interop)[/\\]`)
