package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "github.com/gnana997/cssinterop/pkg/mcp"
	"github.com/gnana997/cssinterop/pkg/mcplog"
	"github.com/gnana997/cssinterop/pkg/parser"
	"github.com/gnana997/cssinterop/pkg/runner"
)

// transform rewrites the given files and directories, or stdin for "-".
func (a *app) transform(paths []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(paths) == 1 && paths[0] == "-" {
		return a.transformStdin(stdin, stdout, stderr)
	}

	stats, code := a.runPaths(a.settings.runOpts, paths, stdout, stderr)
	if stats != nil && a.settings.runOpts.Mode != runner.ModeStdout {
		fmt.Fprintf(stdout, "%d of %d files changed, %d replacements (%d denied, %d failed)\n",
			stats.FilesChanged, stats.FilesDiscovered, stats.Replacements,
			stats.FilesDenied, stats.FilesFailed)
	}
	return code
}

// transformStdin transforms one module read from stdin and prints it.
func (a *app) transformStdin(stdin io.Reader, stdout, stderr io.Writer) int {
	src, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to read stdin: %v\n", err)
		return exitError
	}

	var out *runner.Outcome
	if a.settings.lang != parser.LanguageUnknown {
		out, err = a.processor.ProcessSourceAs(a.settings.filename, src, a.settings.lang)
	} else {
		out, err = a.processor.ProcessSource(a.settings.filename, src)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if _, err := stdout.Write(out.Output); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

// check reports files that transform would change.
func (a *app) check(paths []string, stdout, stderr io.Writer) int {
	opts := a.settings.runOpts
	opts.Mode = runner.ModeCheck

	stats, code := a.runPaths(opts, paths, stdout, stderr)
	if stats == nil {
		return code
	}
	for _, path := range stats.Changed {
		fmt.Fprintf(stdout, "would change: %s\n", path)
	}
	if code == exitOK && stats.FilesChanged > 0 {
		return exitChanges
	}
	return code
}

// runPaths runs the transform over paths with opts. A single directory is
// the root for --out-dir mirroring; otherwise the working directory is.
func (a *app) runPaths(opts runner.Options, paths []string, stdout, stderr io.Writer) (*runner.Stats, int) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	opts.Stdout = stdout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := "."
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return nil, exitError
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		if len(paths) == 1 {
			root = path
		}
		found, err := runner.Discover(path, opts, a.logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return nil, exitError
		}
		files = append(files, found...)
	}

	r := runner.NewRunner(a.processor, opts, a.logger)
	stats, err := r.RunFiles(ctx, root, files)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return stats, exitError
	}

	for _, fe := range stats.Errors {
		fmt.Fprintf(stderr, "error: %s: %v\n", fe.FilePath, fe.Error)
	}
	if stats.FilesFailed > 0 {
		return stats, exitError
	}
	return stats, exitOK
}

// watch transforms root once and then keeps it transformed until
// interrupted.
func (a *app) watch(paths []string, stdout, stderr io.Writer) int {
	root := "."
	switch len(paths) {
	case 0:
	case 1:
		root = paths[0]
	default:
		fmt.Fprintln(stderr, "error: watch takes a single directory")
		return exitError
	}
	root, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	opts := a.settings.runOpts
	opts.Mode = runner.ModeWrite
	r := runner.NewRunner(a.processor, opts, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := r.Run(ctx, root)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "%d of %d files changed, watching %s\n",
		stats.FilesChanged, stats.FilesDiscovered, root)

	wopts := runner.DefaultWatchOptions()
	wopts.OnResult = func(out *runner.Outcome, err error) {
		switch {
		case err != nil:
			fmt.Fprintf(stderr, "error: %v\n", err)
		case out.Changed:
			fmt.Fprintf(stdout, "transformed %s (%d replacements)\n", out.Path, out.Replacements)
		}
	}
	w, err := runner.NewWatcher(r, wopts, a.logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	if err := w.Start(root); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	<-ctx.Done()
	if err := w.Stop(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return exitOK
}

// serve runs the MCP server on stdio.
func (a *app) serve(stderr io.Writer) int {
	toolLog, err := mcplog.NewLogger(a.settings.toolLog)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer toolLog.Close()

	srv := mcpserver.NewServer(a.processor, toolLog)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(stderr, "server error: %v\n", err)
		return exitError
	}
	return exitOK
}
