package sorter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dendrascience/sortdir/category"
)

// SortDirs maps each category to its sort directory below a root. It is
// built once per run and only read afterwards.
type SortDirs struct {
	root     string
	order    []category.Category
	paths    map[category.Category]string
	excluded map[string]struct{}
}

// PlanSortDirs computes the sort directories of root without touching the
// filesystem.
func PlanSortDirs(root string, table *category.Table) (SortDirs, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return SortDirs{}, err
	}
	cats := table.Categories()
	sd := SortDirs{
		root:     abs,
		order:    cats,
		paths:    make(map[category.Category]string, len(cats)),
		excluded: make(map[string]struct{}, len(cats)),
	}
	for _, c := range cats {
		p := filepath.Join(abs, string(c))
		sd.paths[c] = p
		sd.excluded[p] = struct{}{}
	}
	return sd, nil
}

// Provision creates root/<label> for every category of table. Directories
// that already exist are accepted, so provisioning twice is harmless. Any
// other failure, including a non-directory squatting on a label, wraps
// ErrProvision.
func Provision(root string, table *category.Table) (SortDirs, error) {
	sd, err := PlanSortDirs(root, table)
	if err != nil {
		return SortDirs{}, fmt.Errorf("%w: %v", ErrProvision, err)
	}
	for _, c := range sd.order {
		p := sd.paths[c]
		err := os.Mkdir(p, 0o755)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrExist) {
			return SortDirs{}, fmt.Errorf("%w: %v", ErrProvision, err)
		}
		info, serr := os.Stat(p)
		if serr != nil {
			return SortDirs{}, fmt.Errorf("%w: %v", ErrProvision, serr)
		}
		if !info.IsDir() {
			return SortDirs{}, fmt.Errorf("%w: %s exists and is not a directory", ErrProvision, p)
		}
	}
	return sd, nil
}

// Root is the absolute root the sort directories live under.
func (sd SortDirs) Root() string { return sd.root }

// Categories returns the categories in table order.
func (sd SortDirs) Categories() []category.Category {
	return append([]category.Category(nil), sd.order...)
}

// Path returns the sort directory of c, or "" for an unknown category.
func (sd SortDirs) Path(c category.Category) string { return sd.paths[c] }

// IsSortDir reports whether the absolute, cleaned path p is a sort directory.
func (sd SortDirs) IsSortDir(p string) bool {
	_, ok := sd.excluded[p]
	return ok
}

// Excluded returns a copy of the set of sort directory paths.
func (sd SortDirs) Excluded() map[string]struct{} {
	out := make(map[string]struct{}, len(sd.excluded))
	for p := range sd.excluded {
		out[p] = struct{}{}
	}
	return out
}
