package sorter

import (
	"maps"
	"sync"
	"time"

	"github.com/dendrascience/sortdir/category"
)

// DirReport is what one worker did to one directory in one pass.
type DirReport struct {
	Dir             string
	Pass            int
	Skipped         bool
	Err             error
	Moved           map[category.Category]int
	Duplicates      int
	MoveFailures    int
	Extracted       int
	ExtractFailures int
	Pruned          int
	PruneFailures   int
}

func (d *DirReport) moved(c category.Category) {
	if d.Moved == nil {
		d.Moved = make(map[category.Category]int)
	}
	d.Moved[c]++
}

// Report sums up a run.
type Report struct {
	RunID             string                    `json:"run_id"`
	Root              string                    `json:"root"`
	DryRun            bool                      `json:"dry_run,omitempty"`
	Started           time.Time                 `json:"started"`
	Duration          time.Duration             `json:"duration_ns"`
	WorkItems         int                       `json:"work_items"`
	DirsVisited       int                       `json:"dirs_visited"`
	DirsSkipped       int                       `json:"dirs_skipped"`
	ReadFailures      int                       `json:"read_failures"`
	FilesMoved        int                       `json:"files_moved"`
	Moved             map[category.Category]int `json:"moved"`
	// DuplicatesDropped counts sources removed because the rename policy
	// found identical content already in place. They are not in FilesMoved.
	DuplicatesDropped int                       `json:"duplicates_dropped"`
	MoveFailures      int                       `json:"move_failures"`
	Extracted         int                       `json:"archives_extracted"`
	ExtractFailures   int                       `json:"extract_failures"`
	Pruned            int                       `json:"dirs_pruned"`
	PruneFailures     int                       `json:"prune_failures"`
	RemovedSortDirs   []string                  `json:"removed_sort_dirs,omitempty"`
	Cancelled         bool                      `json:"cancelled,omitempty"`
	Plan              *Plan                     `json:"plan,omitempty"`
}

// Failures is the number of per-item errors the run logged.
func (r Report) Failures() int {
	return r.ReadFailures + r.MoveFailures + r.ExtractFailures + r.PruneFailures
}

// tally folds DirReports from concurrent workers into a Report.
type tally struct {
	mu     sync.Mutex
	report Report
}

func newTally(runID, root string, started time.Time) *tally {
	return &tally{report: Report{
		RunID:   runID,
		Root:    root,
		Started: started,
		Moved:   make(map[category.Category]int),
	}}
}

func (t *tally) add(d DirReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := &t.report
	if d.Skipped {
		r.DirsSkipped++
		return
	}
	r.DirsVisited++
	if d.Err != nil {
		r.ReadFailures++
	}
	for c, n := range d.Moved {
		r.Moved[c] += n
		r.FilesMoved += n
	}
	r.DuplicatesDropped += d.Duplicates
	r.MoveFailures += d.MoveFailures
	r.Extracted += d.Extracted
	r.ExtractFailures += d.ExtractFailures
	r.Pruned += d.Pruned
	r.PruneFailures += d.PruneFailures
}

func (t *tally) snapshot() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.report
	out.Moved = maps.Clone(t.report.Moved)
	out.RemovedSortDirs = append([]string(nil), t.report.RemovedSortDirs...)
	return out
}
