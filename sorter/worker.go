package sorter

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dendrascience/sortdir/category"
	"github.com/dendrascience/sortdir/extract"
	"github.com/dendrascience/sortdir/util"
)

// visitedSet records the directories a pass has claimed.
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[string]struct{})}
}

// claim returns false if dir was claimed before.
func (v *visitedSet) claim(dir string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[dir]; ok {
		return false
	}
	v.seen[dir] = struct{}{}
	return true
}

// process sorts the direct children of dir. Subdirectories are only looked
// at for pruning; they are work items of their own.
func (s *Sorter) process(ctx context.Context, p *pass, dir string, pruneEmpty bool) DirReport {
	rep := DirReport{Dir: dir, Pass: p.n}
	if !p.visited.claim(dir) || p.dirs.IsSortDir(dir) {
		rep.Skipped = true
		return rep
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		// Pruned by the worker of its parent.
		p.log.Debug("directory gone", slog.String("dir", dir), slog.Int("pass", p.n))
		rep.Skipped = true
		return rep
	}
	if err != nil {
		p.log.Error("cannot read directory", slog.String("dir", dir), slog.Int("pass", p.n), slog.Any("error", err))
		rep.Err = err
		return rep
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case e.Type()&fs.ModeSymlink != 0:
			// links are left alone
		case e.IsDir():
			if pruneEmpty {
				s.prune(p, path, &rep)
			}
		case e.Type().IsRegular():
			s.sortFile(ctx, p, path, &rep)
		}
	}
	return rep
}

func (s *Sorter) prune(p *pass, path string, rep *DirReport) {
	if p.dirs.IsSortDir(path) {
		return
	}
	empty, err := util.IsEmptyDir(path)
	if err != nil || !empty {
		return
	}
	if err := os.Remove(path); err != nil {
		p.log.Warn("cannot remove empty directory", slog.String("dir", path), slog.Any("error", err))
		rep.PruneFailures++
		return
	}
	p.log.Info("removed empty directory", slog.String("dir", path))
	rep.Pruned++
}

func (s *Sorter) sortFile(ctx context.Context, p *pass, src string, rep *DirReport) {
	name := filepath.Base(src)
	ext := category.ExtensionOf(name)
	cat, ok := s.table.Classify(ext)
	if !ok {
		return
	}
	sortDir := p.dirs.Path(cat)
	dest := filepath.Join(sortDir, s.norm.Normalize(name))

	if s.opts.Collision == CollisionRename {
		claimed, duplicate, err := p.claims.claimFree(src, dest)
		if err != nil {
			p.log.Error("cannot pick destination", slog.String("file", src), slog.Any("error", err))
			rep.MoveFailures++
			return
		}
		if duplicate {
			if err := os.Remove(src); err != nil {
				p.log.Error("cannot remove duplicate", slog.String("file", src), slog.Any("error", err))
				rep.MoveFailures++
				return
			}
			p.log.Info("dropped duplicate", slog.String("file", src), slog.String("same_as", dest))
			rep.Duplicates++
			return
		}
		defer p.claims.release(claimed)
		dest = claimed
	}

	if err := util.MoveFile(src, dest); err != nil {
		p.log.Error("move failed", slog.String("file", src), slog.String("dest", dest), slog.Any("error", err))
		rep.MoveFailures++
		return
	}
	p.log.Info("moved file", slog.String("file", src), slog.String("dest", dest), slog.String("category", string(cat)))
	rep.moved(cat)

	if cat == category.Archives && s.opts.ExtractArchives {
		s.extractArchive(ctx, p, name, dest, sortDir, ext, rep)
	}
}

// extractArchive unpacks a freshly moved archive next to it and removes the
// archive once that worked. The directory is named after the archive's name
// in the sort directory; under the rename policy an existing directory is
// never reused.
func (s *Sorter) extractArchive(ctx context.Context, p *pass, name, archive, sortDir, ext string, rep *DirReport) {
	destDir := filepath.Join(sortDir, s.norm.Normalize(category.Stem(filepath.Base(archive))))
	if s.opts.Collision == CollisionRename {
		claimed, err := p.claims.claimFreeDir(destDir)
		if err != nil {
			p.log.Warn("cannot pick extraction directory, keeping archive", slog.String("archive", archive), slog.Any("error", err))
			rep.ExtractFailures++
			return
		}
		defer p.claims.release(claimed)
		destDir = claimed
	}
	res := s.extractors.Extract(ctx, archive, destDir, extract.ParseFormat(ext))
	if !res.OK {
		p.log.Warn("cannot extract archive, keeping it",
			slog.String("file", name),
			slog.String("archive", archive),
			slog.String("format", string(res.Format)),
			slog.Any("error", res.Err),
		)
		rep.ExtractFailures++
		return
	}
	if err := os.Remove(archive); err != nil {
		p.log.Warn("extracted archive not removed", slog.String("archive", archive), slog.Any("error", err))
	}
	p.log.Info("extracted archive", slog.String("archive", archive), slog.String("dest", destDir), slog.Int("files", res.Files))
	rep.Extracted++
}
