// Package sorter classifies every file below a root directory into one
// directory per category and unpacks the archives it finds along the way.
//
// A run provisions the sort directories, enumerates the tree once, and then
// replays that work list twice: the first pass only moves files, the second
// also removes directories that have become empty.
package sorter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/extract"
	"github.com/dendrascience/sortdir/normalize"
	"github.com/dendrascience/sortdir/util"
)

// Progress receives one step per finished work item and pass.
type Progress interface {
	Begin(total int)
	Step(pass int, dir string)
	End()
}

// Options controls a Sorter. Use DefaultOptions as the starting point: the
// zero value turns off joining, extraction and pruning.
type Options struct {
	Table      *category.Table
	Normalizer *normalize.Normalizer
	Extractors *extract.Registry
	Logger     *slog.Logger
	Progress   Progress

	// JoinPasses waits for every first-pass worker before the second pass
	// starts. Without it both passes overlap.
	JoinPasses bool
	// MaxWorkers bounds the goroutines of each pass; 0 means one per
	// work item.
	MaxWorkers           int
	ExtractArchives      bool
	PruneEmpty           bool
	RemoveUnusedSortDirs bool
	DryRun               bool
	Collision            CollisionPolicy

	// LockDir holds run lock files. Empty means os.TempDir().
	LockDir string
	// RunID tags log lines and the Report. Empty means a fresh UUID.
	RunID string
}

// DefaultOptions returns the options of a plain `sortdir ROOT`.
func DefaultOptions() Options {
	return Options{
		JoinPasses:      true,
		ExtractArchives: true,
		PruneEmpty:      true,
		Collision:       CollisionOverwrite,
	}
}

// Sorter runs sorts with a fixed set of options. It holds no per-run state
// and may be reused.
type Sorter struct {
	opts       Options
	table      *category.Table
	norm       *normalize.Normalizer
	extractors *extract.Registry
	log        *slog.Logger
}

// New fills the unset collaborators of opts with defaults.
func New(opts Options) (*Sorter, error) {
	if opts.MaxWorkers < 0 {
		return nil, fmt.Errorf("max workers must not be negative, got %d", opts.MaxWorkers)
	}
	if opts.Collision == "" {
		opts.Collision = CollisionOverwrite
	}
	if _, err := ParseCollisionPolicy(string(opts.Collision)); err != nil {
		return nil, err
	}
	s := &Sorter{
		opts:       opts,
		table:      opts.Table,
		norm:       opts.Normalizer,
		extractors: opts.Extractors,
		log:        opts.Logger,
	}
	if s.table == nil {
		s.table = category.Default()
	}
	if s.norm == nil {
		n, err := normalize.New(normalize.Options{})
		if err != nil {
			return nil, err
		}
		s.norm = n
	}
	if s.extractors == nil {
		s.extractors = extract.NewRegistry()
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s, nil
}

// run is the state shared by both passes of one Run.
type run struct {
	id     string
	dirs   SortDirs
	log    *slog.Logger
	tally  *tally
	claims *claimSet
}

// pass is one replay of the work list. Each pass has its own visited set.
type pass struct {
	*run
	n       int
	visited *visitedSet
}

// Run sorts root. Only setup problems (bad root, held lock, provisioning,
// enumeration) are returned as errors; per-file failures are logged and
// counted in the Report. A cancelled ctx stops launching work and is
// returned together with the partial Report.
func (s *Sorter) Run(ctx context.Context, root string) (Report, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Report{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Report{}, err
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	id := s.opts.RunID
	if id == "" {
		id = uuid.NewString()
	}
	log := s.log.With(slog.String("run_id", id))
	started := time.Now()

	if s.opts.DryRun {
		plan, err := s.Plan(ctx, abs)
		if err != nil {
			return Report{}, err
		}
		report := newTally(id, abs, started).snapshot()
		report.DryRun = true
		report.WorkItems = plan.WorkItems
		report.Plan = &plan
		report.Duration = time.Since(started)
		return report, nil
	}

	lock, err := lockRoot(s.opts.LockDir, abs)
	if err != nil {
		return Report{}, err
	}
	defer lock.Unlock()

	dirs, err := Provision(abs, s.table)
	if err != nil {
		return Report{}, err
	}
	work, err := Enumerate(abs, dirs.Excluded())
	if err != nil {
		return Report{}, fmt.Errorf("enumerating %s: %w", abs, err)
	}
	log.Info("sorting", slog.String("root", abs), slog.Int("work_items", len(work)))

	r := &run{id: id, dirs: dirs, log: log, tally: newTally(id, abs, started), claims: newClaimSet()}
	s.runPasses(ctx, r, work)

	if s.opts.RemoveUnusedSortDirs && ctx.Err() == nil {
		s.removeUnusedSortDirs(r)
	}

	report := r.tally.snapshot()
	report.WorkItems = len(work)
	report.Duration = time.Since(started)
	report.Cancelled = ctx.Err() != nil
	log.Info("sort finished",
		slog.Int("files_moved", report.FilesMoved),
		slog.Int("archives_extracted", report.Extracted),
		slog.Int("dirs_pruned", report.Pruned),
		slog.Int("failures", report.Failures()),
		slog.Duration("duration", report.Duration),
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// runPasses launches one goroutine per work item for each pass. The second
// pass prunes empty directories when PruneEmpty is set.
func (s *Sorter) runPasses(ctx context.Context, r *run, work []string) {
	if s.opts.Progress != nil {
		s.opts.Progress.Begin(2 * len(work))
		defer s.opts.Progress.End()
	}

	first := s.launch(ctx, &pass{run: r, n: 1, visited: newVisitedSet()}, work, false)
	if s.opts.JoinPasses {
		first.Wait()
	}
	second := s.launch(ctx, &pass{run: r, n: 2, visited: newVisitedSet()}, work, s.opts.PruneEmpty)
	second.Wait()
	first.Wait()
}

func (s *Sorter) launch(ctx context.Context, p *pass, work []string, pruneEmpty bool) *errgroup.Group {
	g := &errgroup.Group{}
	if s.opts.MaxWorkers > 0 {
		g.SetLimit(s.opts.MaxWorkers)
	}
	for _, dir := range work {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rep := s.process(ctx, p, dir, pruneEmpty)
			p.tally.add(rep)
			if s.opts.Progress != nil {
				s.opts.Progress.Step(p.n, dir)
			}
			return nil
		})
	}
	return g
}

func (s *Sorter) removeUnusedSortDirs(r *run) {
	for _, c := range r.dirs.Categories() {
		p := r.dirs.Path(c)
		if empty, err := util.IsEmptyDir(p); err != nil || !empty {
			continue
		}
		if err := os.Remove(p); err != nil {
			r.log.Warn("cannot remove sort directory", slog.String("dir", p), slog.Any("error", err))
			continue
		}
		r.log.Info("removed unused sort directory", slog.String("dir", p))
		r.tally.mu.Lock()
		r.tally.report.RemovedSortDirs = append(r.tally.report.RemovedSortDirs, p)
		r.tally.mu.Unlock()
	}
}
