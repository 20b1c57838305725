package interop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/cssinterop/pkg/jsast"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/util"
)

const (
	esmShimText = `import { createElementAndCheckCssInterop as __c } from "react-native-css-interop";`
	cjsShimText = `const { createElementAndCheckCssInterop: __c } = require("react-native-css-interop");`
)

func parseModule(t *testing.T, filename, src string) *jsast.Module {
	t.Helper()
	pm := parser.NewParserManagerWithSize(1, util.DiscardLogger())
	t.Cleanup(func() { pm.Close() })

	mod, err := pm.ParseModule(filename, []byte(src))
	require.NoError(t, err)
	return mod
}

func newTestTransformer(t *testing.T, opts Options) *Transformer {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = util.DiscardLogger()
	}
	tr, err := NewTransformer(opts)
	require.NoError(t, err)
	return tr
}

// transformSource parses, transforms and prints src.
func transformSource(t *testing.T, filename, src string) (string, *Result) {
	t.Helper()
	res := newTestTransformer(t, Options{}).Transform(parseModule(t, filename, src))
	return string(jsast.Print(res.Module)), res
}
