package sorter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func TestEnumeratePreOrder(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "b/y", "a/x/deep", "c")
	writeFile(t, filepath.Join(root, "a", "file.txt"), "not a dir")

	got, err := Enumerate(root, nil)
	require.NoError(t, err)

	want := []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "x"),
		filepath.Join(root, "a", "x", "deep"),
		filepath.Join(root, "b"),
		filepath.Join(root, "b", "y"),
		filepath.Join(root, "c"),
	}
	assert.Equal(t, want, got)
}

func TestEnumerateExcludes(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "images/nested/deeper", "work/images", "work/keep")

	excluded := map[string]struct{}{
		filepath.Join(root, "images"):         {},
		filepath.Join(root, "work", "images"): {},
	}
	got, err := Enumerate(root, excluded)
	require.NoError(t, err)

	assert.Equal(t, []string{
		root,
		filepath.Join(root, "work"),
		filepath.Join(root, "work", "keep"),
	}, got)
}

func TestEnumerateSkipsSymlinkedDirs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	mkdirs(t, outside, "elsewhere")
	mkdirs(t, root, "real")
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))

	got, err := Enumerate(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "real")}, got)
}

func TestEnumerateMissingRoot(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestEnumerateExcludedRoot(t *testing.T) {
	root := t.TempDir()
	got, err := Enumerate(root, map[string]struct{}{root: {}})
	require.NoError(t, err)
	assert.Empty(t, got)
}
