package sorter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrascience/sortdir/category"
)

func TestProvisionIsIdempotent(t *testing.T) {
	root := t.TempDir()
	table := category.Default()

	first, err := Provision(root, table)
	require.NoError(t, err)
	second, err := Provision(root, table)
	require.NoError(t, err)

	assert.Equal(t, first.Excluded(), second.Excluded())
	for _, c := range table.Categories() {
		assert.DirExists(t, filepath.Join(root, string(c)))
		assert.Equal(t, filepath.Join(root, string(c)), first.Path(c))
		assert.True(t, first.IsSortDir(first.Path(c)))
	}
	assert.False(t, first.IsSortDir(root))
	assert.Equal(t, "", first.Path("nope"))
}

func TestProvisionRejectsSquatter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "video"), []byte("x"), 0o644))

	_, err := Provision(root, category.Default())
	require.ErrorIs(t, err, ErrProvision)
}

func TestProvisionMissingRoot(t *testing.T) {
	_, err := Provision(filepath.Join(t.TempDir(), "missing"), category.Default())
	require.ErrorIs(t, err, ErrProvision)
}

func TestPlanSortDirsTouchesNothing(t *testing.T) {
	root := t.TempDir()
	sd, err := PlanSortDirs(root, category.Default())
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, root, sd.Root())
	assert.Len(t, sd.Excluded(), len(category.Default().Categories()))
}

func TestExcludedIsACopy(t *testing.T) {
	sd, err := PlanSortDirs(t.TempDir(), category.Default())
	require.NoError(t, err)
	ex := sd.Excluded()
	for p := range ex {
		delete(ex, p)
	}
	assert.NotEmpty(t, sd.Excluded())
}
