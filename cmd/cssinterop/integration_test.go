package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "cssinterop-integration-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmp, "cssinterop")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches "cssinterop serve" and returns an initialized client.
func startServer(t *testing.T, args ...string) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, append([]string{"serve"}, args...)...)
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "cssinterop-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "cssinterop", result.ServerInfo.Name)

	return c
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"transform_code", "inspect_bindings"}, names)
}

func TestIntegration_TransformCode(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "transform_code", map[string]any{
		"code":     appSource,
		"filename": "src/App.js",
	})
	require.False(t, result.IsError)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &resp))
	assert.Equal(t, appOutput, resp["code"])
	assert.Equal(t, true, resp["changed"])
	assert.Equal(t, float64(1), resp["replacements"])
	assert.Equal(t, "esm", resp["shim_form"])
}

func TestIntegration_TransformCodeSyntaxError(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "transform_code", map[string]any{"code": "const = ;"})
	assert.True(t, result.IsError)
}

func TestIntegration_InspectBindings(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "inspect_bindings", map[string]any{
		"code": `const { createElement } = require("react");`,
	})
	require.False(t, result.IsError)

	var resp struct {
		Bindings []map[string]any `json:"bindings"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &resp))
	require.Len(t, resp.Bindings, 1)
	assert.Equal(t, "createElement", resp.Bindings[0]["local_name"])
	assert.Equal(t, "cjs", resp.Bindings[0]["module_kind"])
}

func TestIntegration_ToolLog(t *testing.T) {
	skipIfNotIntegration(t)
	logPath := filepath.Join(t.TempDir(), "tools.jsonl")
	c := startServer(t, "--tool-log", logPath)

	callToolHelper(t, c, "transform_code", map[string]any{"code": appSource})
	require.NoError(t, c.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "transform_code", entry["tool"])
	assert.Equal(t, false, entry["is_error"])
}

func TestIntegration_TransformStdin(t *testing.T) {
	skipIfNotIntegration(t)

	cmd := exec.Command(binaryPath, "transform", "--filename", "App.js", "-")
	cmd.Stdin = strings.NewReader(appSource)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	require.NoError(t, cmd.Run())
	assert.Equal(t, appOutput, stdout.String())
}

func TestIntegration_CheckExitCode(t *testing.T) {
	skipIfNotIntegration(t)
	dir := writeProject(t)

	err := exec.Command(binaryPath, "check", dir).Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitChanges, exitErr.ExitCode())
}
