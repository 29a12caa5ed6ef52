package report

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/sorter"
)

func TestSummary(t *testing.T) {
	rep := sorter.Report{
		RunID:      "run-1",
		Root:       "/data",
		WorkItems:  4,
		FilesMoved: 5,
		Moved: map[category.Category]int{
			category.Images:    3,
			category.Documents: 2,
		},
		Extracted:       1,
		ExtractFailures: 2,
		Duration:        1500 * time.Millisecond,
	}
	out := Renderer{}.Summary(rep)

	assert.Contains(t, out, "images")
	assert.Contains(t, out, "documents")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, strings.ToLower(out), "total")
	assert.Contains(t, out, "duplicates dropped")
	assert.Less(t, strings.Index(out, "documents"), strings.Index(out, "images"))
	assert.NotContains(t, out, "\x1b[")
}

func TestCategoryLabelColour(t *testing.T) {
	plain := Renderer{}.categoryLabel(category.Images)
	assert.Equal(t, "images", plain)

	coloured := Renderer{Color: true}.categoryLabel(category.Images)
	assert.Contains(t, coloured, "images")
	assert.Equal(t, coloured, Renderer{Color: true}.categoryLabel(category.Images))
}

func TestPlan(t *testing.T) {
	root := "/data"
	plan := sorter.Plan{
		Root:       root,
		WorkItems:  3,
		CreateDirs: []string{filepath.Join(root, "images")},
		Counts:     map[category.Category]int{category.Images: 2, category.Archives: 1},
		Moves: []sorter.PlannedMove{
			{Source: filepath.Join(root, "a.png"), Dest: filepath.Join(root, "images", "a.png"), Category: category.Images, Collides: true},
			{Source: filepath.Join(root, "s", "a.png"), Dest: filepath.Join(root, "images", "a.png"), Category: category.Images, Collides: true},
			{Source: filepath.Join(root, "z.zip"), Dest: filepath.Join(root, "archives", "z.zip"), Category: category.Archives, ExtractTo: filepath.Join(root, "archives", "z")},
		},
	}

	short := Renderer{}.Plan(plan, false)
	assert.Contains(t, short, "3 directories, 1 sort directories to create, 0 empty directories to prune, 2 colliding names")
	assert.NotContains(t, short, "z.zip")

	long := Renderer{}.Plan(plan, true)
	assert.Contains(t, long, filepath.Join("s", "a.png"))
	assert.Contains(t, long, "extract to "+filepath.Join("archives", "z"))
	assert.Contains(t, long, "collides")
}

func TestInspectListsFailuresFirst(t *testing.T) {
	checks := []ArchiveCheck{
		{Path: "/r/good.zip", Format: "ZIP", Entries: 3},
		{Path: "/r/bad.zip", Format: "ZIP", Err: errors.New("zip: not a valid zip file")},
	}
	out := Renderer{}.Inspect("/r", checks)

	assert.Less(t, strings.Index(out, "bad.zip"), strings.Index(out, "good.zip"))
	assert.Contains(t, out, "not a valid zip file")
	assert.Contains(t, strings.ToLower(out), "1 bad")
	assert.Equal(t, "good.zip", checks[0].Path[3:], "input order is left alone")
}
