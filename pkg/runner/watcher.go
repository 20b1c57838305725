package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/cssinterop/pkg/parser"
)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce groups rapid changes to one file into a single transform.
	// Default: 200ms.
	Debounce time.Duration

	// IgnorePatterns are matched against the base name of changed files,
	// in addition to the runner's Exclude patterns.
	IgnorePatterns []string

	// OnResult, if set, is called after every re-transform. err is set
	// when the file could not be processed or written.
	OnResult func(out *Outcome, err error)
}

// DefaultWatchOptions returns the editor temp-file ignores and a 200ms
// debounce.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:       200 * time.Millisecond,
		IgnorePatterns: []string{"*.swp", "*.tmp", "*~", ".#*"},
	}
}

// Watcher re-runs the transform on files that change below a root.
//
// Files the watcher wrote itself are recognized by their content hash and
// not processed again.
type Watcher struct {
	watcher *fsnotify.Watcher
	runner  *Runner
	options WatchOptions
	logger  *slog.Logger

	root string
	sink *Sink

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// written maps a path to the hash of the last content written to it.
	written   map[string]uint64
	writtenMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher that processes files with r's processor and
// options.
func NewWatcher(r *Runner, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.Debounce <= 0 {
		options.Debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:        w,
		runner:         r,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		written:        make(map[string]uint64),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches root and every non-excluded directory below it.
func (fw *Watcher) Start(root string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.root = root
	fw.sink = NewSink(root, fw.runner.opts.OutDir)
	fw.mu.Unlock()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.logger.Info("File watcher started", "root", root)
	go fw.eventLoop()
	return nil
}

// Stop stops the watcher. It is idempotent.
func (fw *Watcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}
	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *Watcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

func (fw *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if fw.shouldIgnore(path) {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
			}
			return
		}
	}

	if !parser.IsSourceFile(path) || !fw.included(path) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		fw.debounceTransform(path)
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		// A file replaced by rename is still there; only a deleted file
		// loses its recorded write.
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fw.forget(path)
		}
	}
}

// debounceTransform schedules a transform of path after the debounce delay,
// replacing any transform already scheduled for it.
func (fw *Watcher) debounceTransform(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	fw.debounceTimers[path] = time.AfterFunc(fw.options.Debounce, func() {
		fw.debounceMu.Lock()
		delete(fw.debounceTimers, path)
		fw.debounceMu.Unlock()

		fw.transformFile(path)
	})
}

func (fw *Watcher) transformFile(path string) {
	out, err := fw.runner.processor.Process(path)
	if err != nil {
		fw.logger.Warn("Failed to transform file", "file", path, "error", err)
		fw.report(nil, err)
		return
	}

	if fw.isOwnWrite(path, out.Hash) {
		fw.logger.Debug("Ignoring own write", "file", path)
		return
	}
	if !out.Changed && fw.sink.InPlace() {
		fw.report(out, nil)
		return
	}

	if fw.runner.opts.Mode == ModeWrite {
		// Recorded before writing: events for the new file can arrive
		// before Write returns.
		dest, err := fw.sink.Destination(path)
		if err == nil {
			fw.markWritten(dest, ContentHash(out.Output))
			_, err = fw.sink.Write(context.Background(), path, out.Output)
		}
		if err != nil {
			fw.forget(dest)
			fw.logger.Warn("Failed to write file", "file", path, "error", err)
			fw.report(out, err)
			return
		}
	}

	fw.logger.Info("Transformed file",
		"file", path,
		"replacements", out.Replacements,
		"changed", out.Changed)
	fw.report(out, nil)
}

func (fw *Watcher) report(out *Outcome, err error) {
	if fw.options.OnResult != nil {
		fw.options.OnResult(out, err)
	}
}

func (fw *Watcher) markWritten(path string, hash uint64) {
	fw.writtenMu.Lock()
	fw.written[path] = hash
	fw.writtenMu.Unlock()
}

func (fw *Watcher) isOwnWrite(path string, hash uint64) bool {
	fw.writtenMu.Lock()
	defer fw.writtenMu.Unlock()
	last, ok := fw.written[path]
	return ok && last == hash
}

func (fw *Watcher) forget(path string) {
	fw.writtenMu.Lock()
	delete(fw.written, path)
	fw.writtenMu.Unlock()
}

// included reports whether path matches the runner's include patterns.
func (fw *Watcher) included(path string) bool {
	include := fw.runner.opts.Include
	return len(include) == 0 || matchAny(include, relativePath(fw.root, path))
}

// shouldIgnore checks the temp-file patterns, the runner's excludes and
// the output directory.
func (fw *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	if out := fw.runner.opts.OutDir; out != "" {
		if rel, err := filepath.Rel(out, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}

	rel := relativePath(fw.root, path)
	return rel != "." && matchAny(fw.runner.opts.Exclude, rel)
}

// GetStats returns watcher statistics.
func (fw *Watcher) GetStats() WatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := !fw.stopped
	fw.mu.Unlock()

	return WatcherStats{
		PendingTransforms: pending,
		IsRunning:         running,
	}
}

// WatcherStats contains watcher statistics.
type WatcherStats struct {
	PendingTransforms int
	IsRunning         bool
}
