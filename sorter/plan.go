package sorter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/util"
)

// PlannedMove is a move a real run would make.
type PlannedMove struct {
	Source   string            `json:"source"`
	Dest     string            `json:"dest"`
	Category category.Category `json:"category"`
	// ExtractTo is set for archives that would be unpacked.
	ExtractTo string `json:"extract_to,omitempty"`
	// Collides is true when Dest exists already or another move targets it.
	Collides bool `json:"collides,omitempty"`
}

// Plan is the dry-run view of a run. Building it changes nothing on disk.
type Plan struct {
	Root       string                    `json:"root"`
	WorkItems  int                       `json:"work_items"`
	CreateDirs []string                  `json:"create_dirs,omitempty"`
	Moves      []PlannedMove             `json:"moves"`
	Counts     map[category.Category]int `json:"counts"`
	// EmptyDirs are the directories that are empty right now and would be
	// pruned by the second pass.
	EmptyDirs []string `json:"empty_dirs,omitempty"`
}

// Plan enumerates root the way Run does and lists what it would move.
// Sort directories that do not exist yet are reported, not created. The
// collision policy is not applied; colliding moves are flagged instead.
func (s *Sorter) Plan(ctx context.Context, root string) (Plan, error) {
	dirs, err := PlanSortDirs(root, s.table)
	if err != nil {
		return Plan{}, err
	}
	info, err := os.Stat(dirs.Root())
	if err != nil {
		return Plan{}, err
	}
	if !info.IsDir() {
		return Plan{}, fmt.Errorf("%w: %s", ErrNotDirectory, dirs.Root())
	}

	plan := Plan{Root: dirs.Root(), Counts: make(map[category.Category]int)}
	for _, c := range dirs.Categories() {
		p := dirs.Path(c)
		if info, err := os.Stat(p); err != nil {
			plan.CreateDirs = append(plan.CreateDirs, p)
		} else if !info.IsDir() {
			return Plan{}, fmt.Errorf("%w: %s exists and is not a directory", ErrProvision, p)
		}
	}

	work, err := Enumerate(dirs.Root(), dirs.Excluded())
	if err != nil {
		return Plan{}, fmt.Errorf("enumerating %s: %w", dirs.Root(), err)
	}
	plan.WorkItems = len(work)

	targets := make(map[string]int)
	for _, dir := range work {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if empty, err := util.IsEmptyDir(path); err == nil && empty && !dirs.IsSortDir(path) {
					plan.EmptyDirs = append(plan.EmptyDirs, path)
				}
				continue
			}
			if !e.Type().IsRegular() {
				continue
			}
			cat, ok := s.table.Classify(category.ExtensionOf(e.Name()))
			if !ok {
				continue
			}
			move := PlannedMove{
				Source:   path,
				Dest:     filepath.Join(dirs.Path(cat), s.norm.Normalize(e.Name())),
				Category: cat,
			}
			if cat == category.Archives && s.opts.ExtractArchives {
				move.ExtractTo = filepath.Join(dirs.Path(cat), s.norm.Normalize(category.Stem(e.Name())))
			}
			if _, err := os.Lstat(move.Dest); err == nil {
				move.Collides = true
			}
			if i, seen := targets[move.Dest]; seen {
				move.Collides = true
				plan.Moves[i].Collides = true
			} else {
				targets[move.Dest] = len(plan.Moves)
			}
			plan.Moves = append(plan.Moves, move)
			plan.Counts[cat]++
		}
	}
	return plan, nil
}
