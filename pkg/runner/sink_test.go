package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Destination(t *testing.T) {
	inPlace := NewSink("/app", "")
	dest, err := inPlace.Destination("/app/src/App.js")
	require.NoError(t, err)
	assert.Equal(t, "/app/src/App.js", dest)
	assert.True(t, inPlace.InPlace())

	mirror := NewSink("/app", "/out")
	dest, err = mirror.Destination("/app/src/App.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "src", "App.js"), dest)

	dest, err = mirror.Destination("/elsewhere/Lib.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "Lib.js"), dest)
}

func TestSink_WriteInPlace(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"bin/cli.js": reactSource})
	path := filepath.Join(root, "bin", "cli.js")
	require.NoError(t, os.Chmod(path, 0o755))

	dest, err := NewSink(root, "").Write(context.Background(), path, []byte(reactOutput))
	require.NoError(t, err)
	assert.Equal(t, path, dest)
	assert.Equal(t, reactOutput, readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestSink_WriteShorterContent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.js": reactOutput})
	path := filepath.Join(root, "a.js")

	_, err := NewSink(root, "").Write(context.Background(), path, []byte(plainSource))
	require.NoError(t, err)
	assert.Equal(t, plainSource, readFile(t, path))
}

func TestSink_WriteOutDir(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "lib")
	writeTree(t, root, map[string]string{"src/deep/a.ts": plainSource})

	dest, err := NewSink(root, outDir).Write(context.Background(), filepath.Join(root, "src", "deep", "a.ts"), []byte(plainSource))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "src", "deep", "a.ts"), dest)
	assert.Equal(t, plainSource, readFile(t, dest))
}

func TestSink_WriteInPlaceIsNeverMissingOrPartial(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/App.js": reactSource})
	path := filepath.Join(root, "src", "App.js")
	sink := NewSink(root, "")

	done := make(chan struct{})
	seen := make(chan string, 1)
	go func() {
		defer close(seen)
		for {
			select {
			case <-done:
				return
			default:
			}
			data, err := os.ReadFile(path)
			if err != nil {
				seen <- "read error: " + err.Error()
				return
			}
			if got := string(data); got != reactSource && got != reactOutput {
				seen <- "partial contents: " + got
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		data := reactOutput
		if i%2 == 1 {
			data = reactSource
		}
		_, err := sink.Write(context.Background(), path, []byte(data))
		require.NoError(t, err)
	}
	close(done)

	for msg := range seen {
		t.Fatal(msg)
	}

	entries, err := os.ReadDir(filepath.Join(root, "src"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
	assert.Equal(t, "App.js", entries[0].Name())
}

func TestSink_WriteInPlaceMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "App.js")

	_, err := NewSink(filepath.Dir(path), "").Write(context.Background(), path, []byte(reactOutput))
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
