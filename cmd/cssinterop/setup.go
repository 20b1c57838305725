package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// serverID is the key of the MCP server entry written into agent configs.
const serverID = "cssinterop"

// agentKind says how an agent is configured.
type agentKind int

const (
	// agentCLI agents are configured by running "<binary> mcp add".
	agentCLI agentKind = iota
	// agentFile agents read a JSON config file.
	agentFile
)

// agent describes how to detect and configure one AI agent.
type agent struct {
	id      string
	name    string
	kind    agentKind
	binary  string   // agentCLI: binary looked up on PATH
	markers []string // agentFile: directories whose presence means the agent is used here

	// configPath returns the JSON file to edit (agentFile).
	configPath func() string

	// serversKey is "servers" for VS Code and "mcpServers" elsewhere.
	serversKey string
	extra      map[string]string
}

// detectedAgent is an agent found in this project or on this machine.
type detectedAgent struct {
	agent
	configured bool
	config     string
}

// Replaceable in tests.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
)

var agents = []agent{
	{id: "claude_code", name: "Claude Code", kind: agentCLI, binary: "claude"},
	{id: "openai_codex", name: "OpenAI Codex", kind: agentCLI, binary: "codex"},
	{
		id: "vscode_copilot", name: "VS Code Copilot", kind: agentFile, markers: []string{".vscode"},
		configPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey: "servers",
		extra:      map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", name: "Cursor", kind: agentFile, markers: []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", name: "Claude Desktop", kind: agentFile,
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detectAgents returns the agents present, in registry order.
func detectAgents() []detectedAgent {
	var found []detectedAgent
	for _, ag := range agents {
		switch ag.kind {
		case agentCLI:
			if _, err := lookPathFunc(ag.binary); err == nil {
				found = append(found, detectedAgent{
					agent:      ag,
					configured: hasServerEntry(".mcp.json", "mcpServers"),
				})
			}
		case agentFile:
			if path, ok := locateConfig(ag); ok {
				found = append(found, detectedAgent{
					agent:      ag,
					config:     path,
					configured: hasServerEntry(path, ag.serversKey),
				})
			}
		}
	}
	return found
}

// locateConfig reports whether a file-based agent is present. Agents
// without markers count as present when their config directory exists.
func locateConfig(ag agent) (string, bool) {
	for _, marker := range ag.markers {
		if _, err := statFunc(marker); err == nil {
			return ag.configPath(), true
		}
	}
	if len(ag.markers) > 0 {
		return "", false
	}
	path := ag.configPath()
	if _, err := statFunc(filepath.Dir(path)); err != nil {
		return "", false
	}
	return path, true
}

// hasServerEntry reports whether the JSON file at path already lists the
// server under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, _ := config[serversKey].(map[string]any)
	_, ok := servers[serverID]
	return ok
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": "cssinterop",
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the server entry under serversKey to the JSON
// document existing (which may be empty). It returns nil, nil when the
// entry is already there.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverID]; exists {
		return nil, nil
	}
	servers[serverID] = serverEntry(extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureCLIAgent(ag agent, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverID, "--", "cssinterop", "serve")
	cmd := exec.Command(ag.binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func configureFileAgent(ag agent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	merged, err := mergeServerEntry(existing, ag.serversKey, ag.extra)
	if err != nil || merged == nil {
		return err
	}
	return os.WriteFile(path, merged, 0o644)
}

// --- prompts ---

// promptYesNo asks question and reads Y/n. Empty input and EOF mean yes.
func promptYesNo(in *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !in.Scan() {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// promptScope returns "project", "user" or "" to skip.
func promptScope(in *bufio.Scanner, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add %s MCP server?\n", agentName, serverID)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprint(w, "  > ")

	if !in.Scan() {
		return "project"
	}
	switch strings.TrimSpace(in.Text()) {
	case "", "1":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// --- orchestration ---

type setupOptions struct {
	auto bool
}

// runSetup is the entry point for "cssinterop setup [--auto]".
func runSetup(args []string, r io.Reader, w io.Writer) {
	var opts setupOptions
	for _, arg := range args {
		if arg == "--auto" || arg == "-auto" {
			opts.auto = true
		}
	}
	executeSetup(r, w, opts)
}

// executeSetup is the I/O-parameterized core of setup.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) {
	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.configured {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.name)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.name)
		}
	}
	fmt.Fprintln(w)

	in := bufio.NewScanner(r)
	if !opts.auto && !promptYesNo(in, w, "Configure agents? [Y/n]") {
		return
	}

	for _, d := range detected {
		if d.configured {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.name)
			continue
		}
		configureAgent(in, w, d, opts)
	}
}

func configureAgent(in *bufio.Scanner, w io.Writer, d detectedAgent, opts setupOptions) {
	switch d.kind {
	case agentCLI:
		scope := "project"
		if !opts.auto {
			if scope = promptScope(in, w, d.name); scope == "" {
				fmt.Fprintln(w, "  skipped")
				return
			}
		}
		if err := configureCLIAgent(d.agent, scope); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.name, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.name, scope)

	case agentFile:
		if !opts.auto && !promptYesNo(in, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.name, d.config)) {
			fmt.Fprintln(w, "  skipped")
			return
		}
		if err := configureFileAgent(d.agent, d.config); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.name, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.name, d.config)
	}
}
