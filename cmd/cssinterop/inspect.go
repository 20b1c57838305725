package main

import (
	"fmt"
	"io"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/runner"
)

// inspect prints what the transform sees in one file without writing it.
func (a *app) inspect(paths []string, stdout, stderr io.Writer) int {
	if len(paths) != 1 {
		fmt.Fprintln(stderr, "Usage: cssinterop inspect <file>")
		return exitError
	}

	out, err := a.processor.Process(paths[0])
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	printOutcomeHuman(stdout, out)
	return exitOK
}

// printOutcomeHuman prints a human-readable summary of one outcome.
func printOutcomeHuman(w io.Writer, out *runner.Outcome) {
	fmt.Fprintln(w, out.Path)

	if out.Skipped == interop.SkipDenied {
		fmt.Fprintln(w, "  Denied  (inside react, react-native, react-native-web or react-native-css-interop)")
		return
	}

	fmt.Fprintln(w)
	if len(out.Bindings) == 0 {
		fmt.Fprintln(w, "Bindings  (none)")
	} else {
		fmt.Fprintln(w, "Bindings")
		for _, b := range out.Bindings {
			fmt.Fprintf(w, "  %s\n", b.Describe())
		}
	}

	fmt.Fprintln(w)
	switch {
	case out.Changed:
		fmt.Fprintf(w, "Replacements  %d  (%s shim)\n", out.Replacements, out.ShimForm)
	case out.Skipped != interop.NotSkipped:
		fmt.Fprintf(w, "Replacements  0  (%s)\n", out.Skipped)
	default:
		fmt.Fprintln(w, "Replacements  0")
	}
}
