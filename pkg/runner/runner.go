// Package runner applies the createElement transform to whole directory
// trees: it discovers source files, processes them on a worker pool and
// writes, checks or prints the results. It also provides a watcher that
// re-runs the transform when files change.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gnana997/cssinterop/pkg/interop"
)

// Runner drives batch transforms.
//
// Usage:
//
//	r := runner.NewRunner(processor, runner.DefaultOptions(), logger)
//	stats, err := r.Run(ctx, "/path/to/app")
type Runner struct {
	processor *Processor
	opts      Options
	logger    *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(processor *Processor, opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Runner{
		processor: processor,
		opts:      opts,
		logger:    logger,
	}
}

// Options returns the runner's options.
func (r *Runner) Options() Options {
	return r.opts
}

// Run discovers the files below root and processes them.
func (r *Runner) Run(ctx context.Context, root string) (*Stats, error) {
	discoveryStart := time.Now()
	files, err := Discover(root, r.opts, r.logger)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	r.logger.Info("File discovery complete",
		"root", root,
		"files_found", len(files),
		"duration_ms", time.Since(discoveryStart).Milliseconds())

	return r.RunFiles(ctx, root, files)
}

// RunFiles processes the given files. root is the base for OutDir
// mirroring. Per-file failures are collected in Stats.Errors; the
// returned error is only set when the run itself could not complete.
func (r *Runner) RunFiles(ctx context.Context, root string, files []string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{FilesDiscovered: len(files)}
	if len(files) == 0 {
		r.logger.Warn("No files found matching criteria")
		return stats, nil
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	sink := NewSink(root, r.opts.OutDir)
	pool := NewWorkerPool(ctx, r.opts.Workers, r.processor, r.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()
	defer pool.Stop()

	cacheBefore := r.processor.CacheStats().Hits
	var printed []*Outcome

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for i, file := range files {
			if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
				return fmt.Errorf("failed to submit job for %s: %w", file, err)
			}
		}
		pool.FinishSubmitting()
		return nil
	})

	g.Go(func() error {
		for done := 0; done < len(files); done++ {
			select {
			case <-gctx.Done():
				return gctx.Err()

			case res := <-pool.Results():
				out := res.Outcome
				if err := r.handle(gctx, sink, out, stats); err != nil {
					r.logger.Warn("Failed to write file", "file", out.Path, "error", err)
					stats.Errors = append(stats.Errors, FileError{FilePath: out.Path, Error: err})
					stats.FilesFailed++
				}
				if r.opts.Mode == ModeStdout {
					printed = append(printed, out)
				}

			case fileErr := <-pool.Errors():
				r.logger.Warn("File processing failed", "file", fileErr.FilePath, "error", fileErr.Error)
				stats.Errors = append(stats.Errors, fileErr)
				stats.FilesFailed++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}

	if r.opts.Mode == ModeStdout {
		if err := writeOutputs(r.opts.Stdout, printed); err != nil {
			return stats, fmt.Errorf("failed to write output: %w", err)
		}
	}

	sort.Strings(stats.Changed)
	sort.Slice(stats.Errors, func(i, j int) bool {
		return stats.Errors[i].FilePath < stats.Errors[j].FilePath
	})
	stats.CacheHits = r.processor.CacheStats().Hits - cacheBefore
	stats.Duration = time.Since(start)

	r.logger.Info("Transform complete",
		"mode", r.opts.Mode.String(),
		"files", stats.FilesDiscovered,
		"changed", stats.FilesChanged,
		"unchanged", stats.FilesUnchanged,
		"denied", stats.FilesDenied,
		"failed", stats.FilesFailed,
		"replacements", stats.Replacements,
		"duration_ms", stats.Duration.Milliseconds())
	return stats, nil
}

// handle writes one outcome according to the mode and records it. A file
// that fails to write is counted as failed only.
func (r *Runner) handle(ctx context.Context, sink *Sink, out *Outcome, stats *Stats) error {
	if r.opts.Mode == ModeWrite && (out.Changed || !sink.InPlace()) {
		dest, err := sink.Write(ctx, out.Path, out.Output)
		if err != nil {
			return err
		}
		r.logger.Debug("Wrote file", "file", out.Path, "dest", dest)
	}

	switch {
	case out.Changed:
		stats.FilesChanged++
		stats.Replacements += out.Replacements
		stats.Changed = append(stats.Changed, out.Path)
	case out.Skipped == interop.SkipDenied:
		stats.FilesDenied++
	default:
		stats.FilesUnchanged++
	}
	return nil
}

// writeOutputs prints outcomes in path order. With more than one file each
// output is preceded by a comment naming it.
func writeOutputs(w io.Writer, outs []*Outcome) error {
	sort.Slice(outs, func(i, j int) bool { return outs[i].Path < outs[j].Path })
	for _, out := range outs {
		if len(outs) > 1 {
			if _, err := fmt.Fprintf(w, "// %s\n", out.Path); err != nil {
				return err
			}
		}
		if _, err := w.Write(out.Output); err != nil {
			return err
		}
	}
	return nil
}
