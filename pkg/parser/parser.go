// Package parser turns JavaScript and TypeScript source into jsast modules
// using tree-sitter grammars.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/cssinterop/pkg/jsast"
	"github.com/gnana997/cssinterop/pkg/util"
)

var (
	// ErrSyntax is returned when the source does not parse cleanly.
	ErrSyntax = errors.New("syntax error")

	// ErrUnsupportedLanguage is returned for files without a known extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// SyntaxError locates the first ERROR or MISSING node of a parse.
type SyntaxError struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, ErrSyntax)
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// ParserManager owns one lazily created parser pool per grammar and is safe
// for concurrent use. Close it when done.
//
// Example:
//
//	pm := parser.NewParserManager(logger)
//	defer pm.Close()
//
//	mod, err := pm.ParseModule("src/App.tsx", source)
type ParserManager struct {
	pools map[Language]*parserPool

	// mutex guards pools and stats
	mutex sync.RWMutex

	poolSize int
	logger   *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a manager sized with util.GetOptimalPoolSize.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithSize(0, logger)
}

// NewParserManagerWithSize creates a manager whose pools hold at most size
// parsers each. Zero selects the CPU based default.
func NewParserManagerWithSize(size int, logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Language]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(size),
		logger:   logger,
	}
}

// Parse parses source with the grammar for lang. The caller owns the
// returned tree and must Close it. Trees with syntax errors are returned as
// is; use ParseModule for strict parsing.
func (pm *ParserManager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, ErrUnsupportedLanguage
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}
	return tree, nil
}

// ParseModule parses a file, choosing the grammar from its extension, and
// lowers the result into a jsast.Module. Sources that do not parse cleanly
// produce a *SyntaxError.
func (pm *ParserManager) ParseModule(filename string, source []byte) (*jsast.Module, error) {
	lang := DetectLanguage(filename)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedLanguage)
	}
	return pm.ParseModuleAs(filename, source, lang)
}

// ParseModuleAs is ParseModule with an explicit grammar, for sources such as
// stdin whose name has no usable extension.
func (pm *ParserManager) ParseModuleAs(filename string, source []byte, lang Language) (*jsast.Module, error) {
	tree, err := pm.Parse(source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, col := firstErrorPosition(root)
		pm.logger.Debug("parse tree contains errors",
			"file", filename,
			"language", lang.String(),
			"line", line,
			"column", col)
		return nil, &SyntaxError{Filename: filename, Line: line, Column: col}
	}

	return jsast.Lower(tree, source, filename), nil
}

// firstErrorPosition returns the 1-based position of the first ERROR or
// MISSING node below root.
func firstErrorPosition(root *ts.Node) (int, int) {
	var found *ts.Node
	var search func(n *ts.Node)
	search = func(n *ts.Node) {
		if found != nil || !n.HasError() && !n.IsMissing() {
			return
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				search(child)
			}
		}
	}
	search(root)
	if found == nil {
		found = root
	}
	pos := found.StartPosition()
	return int(pos.Row) + 1, int(pos.Column) + 1
}

// Close releases every pool. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager", "parses_called", pm.stats.parsesCalled)
	for _, pool := range pm.pools {
		pool.close()
	}
	pm.pools = make(map[Language]*parserPool)
	return nil
}

// getOrCreatePool uses double-checked locking so the common path only takes
// the read lock.
func (pm *ParserManager) getOrCreatePool(lang Language) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[lang]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, exists = pm.pools[lang]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(lang, langPtr, pm.poolSize, pm.logger)
	pm.pools[lang] = pool

	pm.logger.Debug("created parser pool",
		"language", lang.String(),
		"max_size", pm.poolSize)
	return pool, nil
}

func languagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageTSX:
		return ts_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// GetStats returns usage counters.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	return ParserStats{
		ParsersCreated: created,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
