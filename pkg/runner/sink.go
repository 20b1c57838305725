package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// Sink writes transformed files either back in place or into a mirror of
// the source tree under an output directory.
type Sink struct {
	fs     afs.Service
	root   string
	outDir string
}

// NewSink creates a sink for files below root. An empty outDir writes in
// place.
func NewSink(root, outDir string) *Sink {
	return &Sink{
		fs:     afs.New(),
		root:   root,
		outDir: outDir,
	}
}

// InPlace reports whether the sink overwrites its inputs.
func (s *Sink) InPlace() bool {
	return s.outDir == ""
}

// Destination returns where the output for path is written.
func (s *Sink) Destination(path string) (string, error) {
	if s.InPlace() {
		return path, nil
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", path, s.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	return filepath.Join(s.outDir, rel), nil
}

// Write stores data as the output for path, keeping its permission bits.
//
// In place, data goes to a temporary file next to path that is then
// renamed over it, so path always holds either the old or the new
// contents. Mirrored outputs are uploaded through afs.
func (s *Sink) Write(ctx context.Context, path string, data []byte) (string, error) {
	dest, err := s.Destination(path)
	if err != nil {
		return "", err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if s.InPlace() {
		if err := replaceFile(dest, data, mode); err != nil {
			return "", err
		}
		return dest, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	if err := s.fs.Upload(ctx, dest, mode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

// replaceFile atomically replaces path with data. The temporary name ends
// in .tmp, which the watcher ignores.
func replaceFile(path string, data []byte, mode os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmpFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true
	return nil
}
