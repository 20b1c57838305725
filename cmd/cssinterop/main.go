package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/runner"
	"github.com/gnana997/cssinterop/pkg/util"
)

const version = "0.1.0-dev"

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitChanges = 2 // check found files that would change
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitError
	}

	command, rest := args[0], args[1:]
	switch command {
	case "transform":
		return withApp(command, rest, stderr, func(a *app, paths []string) int {
			return a.transform(paths, stdin, stdout, stderr)
		})
	case "check":
		return withApp(command, rest, stderr, func(a *app, paths []string) int {
			return a.check(paths, stdout, stderr)
		})
	case "watch":
		return withApp(command, rest, stderr, func(a *app, paths []string) int {
			return a.watch(paths, stdout, stderr)
		})
	case "inspect":
		return withApp(command, rest, stderr, func(a *app, paths []string) int {
			return a.inspect(paths, stdout, stderr)
		})
	case "serve":
		return withApp(command, rest, stderr, func(a *app, _ []string) int {
			return a.serve(stderr)
		})
	case "setup":
		runSetup(rest, stdin, stdout)
		return exitOK
	case "version":
		fmt.Fprintf(stdout, "cssinterop %s\n", version)
		return exitOK
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", command)
		printUsage(stderr)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cssinterop <command> [flags] [paths]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  transform  Rewrite createElement calls in files or directories (- reads stdin)")
	fmt.Fprintln(w, "  check      List files that transform would change, exit 2 if any")
	fmt.Fprintln(w, "  watch      Transform a directory, then again on every change")
	fmt.Fprintln(w, "  inspect    Show the React bindings and replacements of one file")
	fmt.Fprintln(w, "  serve      Start MCP server on stdio")
	fmt.Fprintln(w, "  setup      Register the MCP server with detected AI agents")
	fmt.Fprintln(w, "  version    Print version")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --config <path>      Project config (default "+defaultConfigPath+")")
	fmt.Fprintln(w, "  --out-dir <dir>      Write output under dir instead of in place")
	fmt.Fprintln(w, "  --stdout             Print output instead of writing files")
	fmt.Fprintln(w, "  --workers <n>        Worker count (default 2x CPUs, 4 to 32)")
	fmt.Fprintln(w, "  --filename <name>    File name used for stdin input")
	fmt.Fprintln(w, "  --lang <language>    Grammar for stdin input: javascript, typescript or tsx")
	fmt.Fprintln(w, "  --log-level <level>  debug, info, warn or error")
	fmt.Fprintln(w, "  --log-format <fmt>   text or json")
	fmt.Fprintln(w, "  --tool-log <path>    serve: append one JSON line per tool call")
}

// cliFlags holds the flags shared by every command that transforms.
type cliFlags struct {
	configPath string
	outDir     string
	stdout     bool
	workers    int
	filename   string
	lang       string
	logLevel   string
	logFormat  string
	toolLog    string
}

// parseFlags parses flags for command. Flags come before paths.
func parseFlags(command string, args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "project config path")
	fs.StringVar(&f.outDir, "out-dir", "", "output directory")
	fs.BoolVar(&f.stdout, "stdout", false, "print output instead of writing")
	fs.IntVar(&f.workers, "workers", 0, "worker count")
	fs.StringVar(&f.filename, "filename", "<stdin>", "file name for stdin input")
	fs.StringVar(&f.lang, "lang", "", "grammar for stdin input")
	fs.StringVar(&f.logLevel, "log-level", "", "log level")
	fs.StringVar(&f.logFormat, "log-format", "", "log format")
	fs.StringVar(&f.toolLog, "tool-log", "", "tool call log path")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("--workers must not be negative")
	}
	return f, fs.Args(), nil
}

// app holds the components shared by the commands.
type app struct {
	settings  settings
	logger    *slog.Logger
	parsers   *parser.ParserManager
	processor *runner.Processor
}

// withApp parses flags and config, builds the app and runs fn.
func withApp(command string, args []string, stderr io.Writer, fn func(*app, []string) int) int {
	flags, paths, err := parseFlags(command, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	cfg, err := loadProjectConfig(flags.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	s, err := resolveSettings(flags, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if flags.stdout {
		s.runOpts.Mode = runner.ModeStdout
	}

	a, err := newApp(s, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer a.Close()

	return fn(a, paths)
}

func newApp(s settings, stderr io.Writer) (*app, error) {
	s.logConfig.Output = stderr
	logger := util.NewLogger(s.logConfig)

	tr, err := interop.NewTransformer(interop.Options{
		ExtraDeniedPatterns: s.deny,
		Logger:              logger,
	})
	if err != nil {
		return nil, err
	}
	cache, err := runner.NewResultCache(runner.DefaultCacheSize, logger)
	if err != nil {
		return nil, err
	}

	pm := parser.NewParserManagerWithSize(util.GetOptimalPoolSizeWithOverride(s.runOpts.Workers), logger)
	return &app{
		settings:  s,
		logger:    logger,
		parsers:   pm,
		processor: runner.NewProcessor(pm, tr, cache, logger),
	}, nil
}

// Close releases the parser pools.
func (a *app) Close() {
	a.parsers.Close()
}
