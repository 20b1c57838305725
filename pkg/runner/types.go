package runner

import (
	"io"
	"time"

	"github.com/gnana997/cssinterop/pkg/interop"
	"github.com/gnana997/cssinterop/pkg/parser"
)

// Mode selects what a run does with transformed files.
type Mode int

const (
	// ModeWrite writes changed files in place, or every processed file
	// under OutDir when one is set.
	ModeWrite Mode = iota

	// ModeCheck only reports the files that would change.
	ModeCheck

	// ModeStdout prints the output of every processed file.
	ModeStdout
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeStdout:
		return "stdout"
	default:
		return "unknown"
	}
}

// Options configures discovery and a run.
type Options struct {
	// Include patterns (doublestar syntax, relative to the root).
	Include []string

	// Exclude patterns. A matching directory is not descended into.
	Exclude []string

	Mode Mode

	// OutDir mirrors the tree under another directory instead of writing
	// in place. Only used in ModeWrite.
	OutDir string

	// Workers is the worker count, 0 selects util.GetOptimalPoolSize.
	Workers int

	// Stdout receives output in ModeStdout.
	Stdout io.Writer
}

// DefaultIncludes matches every extension the parser understands.
var DefaultIncludes = []string{"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts}"}

// DefaultExcludes skips dependencies, VCS metadata and build output.
var DefaultExcludes = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
}

// DefaultOptions returns options that rewrite a project in place.
func DefaultOptions() Options {
	return Options{
		Include: append([]string(nil), DefaultIncludes...),
		Exclude: append([]string(nil), DefaultExcludes...),
		Mode:    ModeWrite,
	}
}

// Outcome is the result of processing one file.
type Outcome struct {
	Path string

	// Output is the printed module. It is always populated, for unchanged
	// files it is a copy of the input.
	Output []byte

	Changed      bool
	Replacements int
	Bindings     []interop.Binding
	ShimForm     interop.ShimForm
	Skipped      interop.SkipReason

	// Hash is the ContentHash of the input.
	Hash uint64

	// Language is the grammar the input was parsed with.
	Language parser.Language
}

// Stats summarizes a run.
type Stats struct {
	FilesDiscovered int
	FilesChanged    int
	FilesUnchanged  int
	FilesDenied     int
	FilesFailed     int
	Replacements    int

	// Changed lists the files that were (or in ModeCheck would be)
	// rewritten, sorted.
	Changed []string

	Errors []FileError

	WorkerCount int
	CacheHits   int64
	Duration    time.Duration
}

// FileError is a failure to read, parse or write one file.
type FileError struct {
	FilePath string
	Error    error
}
