package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Format is an upper-case archive format tag, usually the file extension.
type Format string

const (
	FormatZIP  Format = "ZIP"
	Format7Z   Format = "7Z"
	Format7ZIP Format = "7ZIP"
	FormatRAR  Format = "RAR"
	FormatTAR  Format = "TAR"
	FormatGZ   Format = "GZ"
)

// ParseFormat turns an extension such as ".zip" or "Zip" into a Format.
func ParseFormat(ext string) Format {
	return Format(strings.ToUpper(strings.TrimPrefix(ext, ".")))
}

// Extractor unpacks the archive at archivePath into destDir.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Verifier reads every entry of an archive without writing anything and
// returns the number of entries seen.
type Verifier interface {
	Verify(ctx context.Context, archivePath string) (int, error)
}

// Result describes one extraction attempt.
type Result struct {
	OK      bool
	Format  Format
	DestDir string
	// Files is the number of regular files present under DestDir after a
	// successful extraction.
	Files int
	Err   error
}

// Registry dispatches extraction by format tag. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	extractors map[Format]Extractor
}

// NewRegistry returns a Registry with the built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[Format]Extractor)}
	r.Register(FormatZIP, zipStrategy())
	r.Register(Format7Z, sevenZipStrategy())
	r.Register(Format7ZIP, sevenZipStrategy())
	r.Register(FormatRAR, rarStrategy())
	r.Register(FormatTAR, tarStrategy())
	r.Register(FormatGZ, gzipStrategy{})
	return r
}

// Register sets the extractor for format, replacing any previous one.
func (r *Registry) Register(format Format, ex Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[ParseFormat(string(format))] = ex
}

func (r *Registry) lookup(format Format) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.extractors[ParseFormat(string(format))]
	return ex, ok
}

// Supports reports whether format has a registered extractor.
func (r *Registry) Supports(format Format) bool {
	_, ok := r.lookup(format)
	return ok
}

// Formats lists the registered format tags in sorted order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.extractors))
	for f := range r.extractors {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Extract unpacks archivePath into destDir with the extractor registered for
// format. If the attempt fails and destDir did not exist beforehand, destDir
// is removed again.
func (r *Registry) Extract(ctx context.Context, archivePath, destDir string, format Format) (res Result) {
	res = Result{Format: ParseFormat(string(format)), DestDir: destDir}
	ex, ok := r.lookup(format)
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		return res
	}
	info, err := os.Stat(archivePath)
	if err != nil {
		res.Err = err
		return res
	}
	if !info.Mode().IsRegular() {
		res.Err = fmt.Errorf("%w: %s", ErrNotRegular, archivePath)
		return res
	}

	_, statErr := os.Lstat(destDir)
	created := os.IsNotExist(statErr)

	// An archive without entries still yields its directory.
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		res.Err = fmt.Errorf("creating %s: %w", destDir, err)
		return res
	}
	if err := safely(func() error { return ex.Extract(ctx, archivePath, destDir) }); err != nil {
		if created {
			os.RemoveAll(destDir)
		}
		res.Err = fmt.Errorf("extracting %s: %w", filepath.Base(archivePath), err)
		return res
	}

	res.Files, res.Err = countFiles(destDir)
	res.OK = res.Err == nil
	return res
}

// Verify reads archivePath with the strategy registered for format.
func (r *Registry) Verify(ctx context.Context, archivePath string, format Format) (int, error) {
	ex, ok := r.lookup(format)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	v, ok := ex.(Verifier)
	if !ok {
		return 0, fmt.Errorf("%w: %q cannot be verified", ErrUnsupportedFormat, format)
	}
	var n int
	err := safely(func() error {
		var err error
		n, err = v.Verify(ctx, archivePath)
		return err
	})
	return n, err
}

// safely turns a panic inside a third-party decoder into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("decoder panic: %v", p)
		}
	}()
	return fn()
}

func countFiles(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n, err
}
