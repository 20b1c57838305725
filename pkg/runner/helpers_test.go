package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/util"
)

const (
	reactSource    = "import React from \"react\";\nexport default () => React.createElement(View, { className: \"p-4\" });\n"
	reactOutput    = "import { createElementAndCheckCssInterop as __c } from \"react-native-css-interop\";\n" + "import React from \"react\";\nexport default () => __c(View, { className: \"p-4\" });\n"
	plainSource    = "export const add = (a, b) => a + b;\n"
	brokenSource   = "const = ;\n"
	deniedContents = "const React = require(\"react\");\nReact.createElement(A);\n"
)

func newTestProcessor(t *testing.T, cache *ResultCache) *Processor {
	t.Helper()
	logger := util.DiscardLogger()
	pm := parser.NewParserManagerWithSize(2, logger)
	t.Cleanup(func() { pm.Close() })

	tr, err := interop.NewTransformer(interop.Options{Logger: logger})
	require.NoError(t, err)
	return NewProcessor(pm, tr, cache, logger)
}

// writeTree creates files (relative path -> contents) below dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
