package util

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/edsrzf/mmap-go"
)

// SourceFile is the contents of a file opened with OpenSource.
//
// Data is memory-mapped when possible, so it is only valid until Close.
// Anything that must outlive the file (printed output, cached results) has
// to be copied before closing.
type SourceFile struct {
	Path string
	Data []byte

	// Mapped reports whether Data is an mmap region rather than a heap copy.
	Mapped bool

	mapped mmap.MMap
	file   *os.File
}

// OpenSource maps path read-only. If mapping fails the file is read into
// memory instead, and empty files never map.
func OpenSource(path string, logger *slog.Logger) (*SourceFile, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.Size() == 0 {
		file.Close()
		return &SourceFile{Path: path, Data: []byte{}}, nil
	}

	region, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		logger.Warn("mmap failed, using fallback",
			"file", path,
			"size", stat.Size(),
			"error", err)
		file.Close()

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		return &SourceFile{Path: path, Data: data}, nil
	}

	return &SourceFile{
		Path:   path,
		Data:   region,
		Mapped: true,
		mapped: region,
		file:   file,
	}, nil
}

// Close unmaps the region and closes the descriptor. It is safe to call
// more than once.
func (s *SourceFile) Close() error {
	var firstErr error
	if s.mapped != nil {
		if err := s.mapped.Unmap(); err != nil {
			firstErr = fmt.Errorf("failed to unmap %q: %w", s.Path, err)
		}
		s.mapped = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %q: %w", s.Path, err)
		}
		s.file = nil
	}
	s.Data = nil
	return firstErr
}
