package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/mcplog"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/runner"
	"github.com/gnana997/cssinterop/pkg/util"
)

// --- helpers ---

func testServer(t *testing.T, log *mcplog.Logger) *Server {
	t.Helper()
	logger := util.DiscardLogger()
	pm := parser.NewParserManagerWithSize(1, logger)
	t.Cleanup(func() { pm.Close() })

	tr, err := interop.NewTransformer(interop.Options{Logger: logger})
	require.NoError(t, err)
	cache, err := runner.NewResultCache(16, logger)
	require.NoError(t, err)

	return NewServer(runner.NewProcessor(pm, tr, cache, logger), log)
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case toolTransformCode:
		handler = s.handleTransformCode
	case toolInspectBindings:
		handler = s.handleInspectBindings
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

// --- transform_code ---

func TestTransformCode(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     `const { createElement: h } = require("react"); h(A);`,
		"filename": "src/App.js",
	}))
	assert.False(t, result.IsError)

	resp := decode[transformResponse](t, result)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, resp.Replacements)
	assert.Equal(t, "cjs", resp.ShimForm)
	assert.Empty(t, resp.Skipped)
	assert.Equal(t,
		`const { createElementAndCheckCssInterop: __c } = require("react-native-css-interop");`+"\n"+
			`const { createElement: h } = require("react"); __c(A);`,
		resp.Code)
}

func TestTransformCode_DefaultFilename(t *testing.T) {
	s := testServer(t, nil)

	code := "import React from 'react';\nexport const A = (p: Props) => React.createElement(View, p);\n"
	result := callTool(t, s, makeRequest(toolTransformCode, map[string]any{"code": code}))
	assert.False(t, result.IsError)

	resp := decode[transformResponse](t, result)
	assert.True(t, resp.Changed)
	assert.Equal(t, "esm", resp.ShimForm)
}

func TestTransformCode_Unchanged(t *testing.T) {
	s := testServer(t, nil)

	code := "export const x = 1;\n"
	resp := decode[transformResponse](t, callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     code,
		"filename": "x.ts",
	})))
	assert.False(t, resp.Changed)
	assert.Equal(t, code, resp.Code)
	assert.Equal(t, "no-react-bindings", resp.Skipped)
}

func TestTransformCode_Denied(t *testing.T) {
	s := testServer(t, nil)

	code := `import React from "react"; React.createElement(A);`
	resp := decode[transformResponse](t, callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     code,
		"filename": filepath.Join("/app", "node_modules", "react-native-web", "dist", "index.js"),
	})))
	assert.False(t, resp.Changed)
	assert.Equal(t, code, resp.Code)
	assert.Equal(t, "denied", resp.Skipped)
}

func TestTransformCode_Errors(t *testing.T) {
	s := testServer(t, nil)

	t.Run("missing code", func(t *testing.T) {
		result := callTool(t, s, makeRequest(toolTransformCode, nil))
		assert.True(t, result.IsError)
	})

	t.Run("syntax error", func(t *testing.T) {
		result := callTool(t, s, makeRequest(toolTransformCode, map[string]any{
			"code":     "const = ;",
			"filename": "broken.js",
		}))
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "syntax error")
	})
}

func TestTransformCode_Language(t *testing.T) {
	s := testServer(t, nil)
	code := "import React from 'react';\nconst n: number = 1;\nReact.createElement(A, { n });\n"

	result := callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     code,
		"filename": "snippet.js",
	}))
	assert.True(t, result.IsError)

	resp := decode[transformResponse](t, callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     code,
		"filename": "snippet.js",
		"language": "typescript",
	})))
	assert.True(t, resp.Changed)
	assert.Contains(t, resp.Code, "__c(A, { n });")

	result = callTool(t, s, makeRequest(toolTransformCode, map[string]any{
		"code":     code,
		"language": "coffee",
	}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "supported: javascript, typescript, tsx")
}

// --- inspect_bindings ---

func TestInspectBindings(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest(toolInspectBindings, map[string]any{
		"code":     "import React, { createElement as h } from 'react';\nconst R = _interopRequireDefault(require('react'));\n",
		"filename": "App.js",
	}))
	assert.False(t, result.IsError)

	resp := decode[inspectResponse](t, result)
	assert.Equal(t, "App.js", resp.Filename)
	assert.False(t, resp.Denied)
	assert.Equal(t, []bindingInfo{
		{LocalName: "React", Target: "base", ModuleKind: "esm", Description: "React -> react module object (esm)"},
		{LocalName: "h", Target: "createElement", ModuleKind: "esm", Description: "h -> react createElement (esm)"},
		{LocalName: "R", Target: "base", ModuleKind: "cjs", Description: "R -> react module object (cjs)"},
	}, resp.Bindings)
}

func TestInspectBindings_None(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest(toolInspectBindings, map[string]any{"code": "let a = 1;"}))
	resp := decode[inspectResponse](t, result)
	assert.Equal(t, defaultFilename, resp.Filename)
	assert.NotNil(t, resp.Bindings)
	assert.Empty(t, resp.Bindings)
}

func TestInspectBindings_Denied(t *testing.T) {
	s := testServer(t, nil)

	resp := decode[inspectResponse](t, callTool(t, s, makeRequest(toolInspectBindings, map[string]any{
		"code":     `import React from "react";`,
		"filename": "/x/node_modules/react/index.js",
	})))
	assert.True(t, resp.Denied)
	assert.Empty(t, resp.Bindings)
}

func TestToolDefinitions(t *testing.T) {
	for _, tool := range []mcp.Tool{transformCodeTool(), inspectBindingsTool()} {
		assert.NotEmpty(t, tool.Description)
		assert.Contains(t, tool.InputSchema.Required, "code")
		assert.Contains(t, tool.InputSchema.Properties, "filename")
		assert.Contains(t, tool.InputSchema.Properties, "language")
	}
}
