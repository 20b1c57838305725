package parser

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentParseModule runs many goroutines against a small pool to
// exercise acquire blocking and release.
func TestConcurrentParseModule(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewParserManagerWithSize(2, logger)
	defer manager.Close()

	const numGoroutines = 50
	var wg sync.WaitGroup
	errChan := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("file%d.tsx", id)
			if id%2 == 0 {
				name = fmt.Sprintf("file%d.js", id)
			}
			src := fmt.Sprintf("import { createElement } from 'react';\ncreateElement('v%d');\n", id)
			mod, err := manager.ParseModule(name, []byte(src))
			if err != nil {
				errChan <- err
				return
			}
			if len(mod.Body()) != 2 {
				errChan <- fmt.Errorf("%s: expected 2 items, got %d", name, len(mod.Body()))
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	assert.Empty(t, errs)

	stats := manager.GetStats()
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
	assert.LessOrEqual(t, stats.ParsersCreated, 4, "two pools of at most two parsers")
}
