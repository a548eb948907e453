package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.yaml"))
	writeFile(t, filepath.Join(root, "a.yml"))
	writeFile(t, filepath.Join(root, "nested", "c.yaml"))
	writeFile(t, filepath.Join(root, "graph.hcl"))

	t.Run("directory is searched recursively and sorted", func(t *testing.T) {
		files, err := CollectFiles([]string{root}, ".yaml", ".yml")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.yml"),
			filepath.Join(root, "b.yaml"),
			filepath.Join(root, "nested", "c.yaml"),
		}, files)
	})

	t.Run("explicit files are de-duplicated and filtered", func(t *testing.T) {
		hcl := filepath.Join(root, "graph.hcl")
		files, err := CollectFiles([]string{hcl, root, hcl}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{hcl}, files)

		files, err = CollectFiles([]string{hcl}, ".yaml")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path is an error", func(t *testing.T) {
		_, err := CollectFiles([]string{filepath.Join(root, "nope")}, ".hcl")
		require.Error(t, err)
	})
}
