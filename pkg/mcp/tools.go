package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/cssinterop/pkg/parser"
)

const (
	toolTransformCode   = "transform_code"
	toolInspectBindings = "inspect_bindings"

	// defaultFilename is used when a call names no file. TSX accepts
	// JavaScript, TypeScript and JSX alike.
	defaultFilename = "input.tsx"
)

func transformCodeTool() mcp.Tool {
	return mcp.NewTool(toolTransformCode,
		mcp.WithDescription("Rewrite React createElement calls in a JavaScript or TypeScript module "+
			"to createElementAndCheckCssInterop from react-native-css-interop. Returns the new code "+
			"and whether anything changed."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Module source code")),
		mcp.WithString("filename", mcp.Description("File path, used to pick the grammar and to skip "+
			"files inside react, react-native, react-native-web and react-native-css-interop. "+
			"Defaults to "+defaultFilename)),
		languageParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func inspectBindingsTool() mcp.Tool {
	return mcp.NewTool(toolInspectBindings,
		mcp.WithDescription("List the top-level bindings of a module that refer to React or its "+
			"createElement export, as seen by transform_code."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Module source code")),
		mcp.WithString("filename", mcp.Description("File path. Defaults to "+defaultFilename)),
		languageParam(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// languageParam overrides the grammar picked from the file name.
func languageParam() mcp.ToolOption {
	supported := parser.SupportedLanguages()
	names := make([]string, len(supported))
	for i, l := range supported {
		names[i] = l.String()
	}
	return mcp.WithString("language", mcp.Enum(names...),
		mcp.Description("Grammar to parse with instead of the one implied by filename"))
}
