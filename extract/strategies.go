package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mholt/archives"
)

// streamStrategy extracts any archives.Extractor. The archive is handed over
// as an *os.File because zip and 7z need io.ReaderAt and io.Seeker.
type streamStrategy struct {
	format archives.Extractor
}

func zipStrategy() streamStrategy      { return streamStrategy{format: archives.Zip{}} }
func sevenZipStrategy() streamStrategy { return streamStrategy{format: archives.SevenZip{}} }
func rarStrategy() streamStrategy      { return streamStrategy{format: archives.Rar{}} }
func tarStrategy() streamStrategy      { return streamStrategy{format: archives.Tar{}} }

func (s streamStrategy) walk(ctx context.Context, archivePath string, fn archives.FileHandler) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.format.Extract(ctx, f, fn)
}

func (s streamStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	return s.walk(ctx, archivePath, newWriter(destDir).handle)
}

func (s streamStrategy) Verify(ctx context.Context, archivePath string) (int, error) {
	v := &verifier{}
	err := s.walk(ctx, archivePath, v.handle)
	return v.entries, err
}

// gzipStrategy extracts a gzip-wrapped tarball as a tarball. Any other gzip
// stream is decompressed into a single file named after the archive minus
// its .gz suffix.
type gzipStrategy struct{}

func (gzipStrategy) walk(ctx context.Context, archivePath string, fn archives.FileHandler) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	format, input, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return err
	}
	switch format := format.(type) {
	case archives.CompressedArchive:
		if _, ok := format.Compression.(archives.Gz); !ok {
			return fmt.Errorf("%w: %s inside a .gz name", ErrUnsupportedFormat, format.Extension())
		}
		return format.Extract(ctx, input, fn)
	case archives.Gz:
		rc, err := format.OpenReader(input)
		if err != nil {
			return err
		}
		defer rc.Close()
		name := gunzippedName(archivePath)
		info := streamInfo{name: name, mode: 0o644}
		return fn(ctx, archives.FileInfo{
			FileInfo:      info,
			NameInArchive: name,
			Open: func() (fs.File, error) {
				return streamFile{ReadCloser: io.NopCloser(rc), info: info}, nil
			},
		})
	default:
		return fmt.Errorf("%w: %s inside a .gz name", ErrUnsupportedFormat, format.Extension())
	}
}

func (g gzipStrategy) Extract(ctx context.Context, archivePath, destDir string) error {
	return g.walk(ctx, archivePath, newWriter(destDir).handle)
}

func (g gzipStrategy) Verify(ctx context.Context, archivePath string) (int, error) {
	v := &verifier{}
	err := g.walk(ctx, archivePath, v.handle)
	return v.entries, err
}

func gunzippedName(archivePath string) string {
	base := filepath.Base(archivePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "content"
	}
	return name
}

// writer materializes archive entries below dest.
type writer struct {
	dest string
}

func newWriter(dest string) *writer {
	return &writer{dest: dest}
}

func (w *writer) handle(ctx context.Context, f archives.FileInfo) error {
	target, err := safeJoin(w.dest, f.NameInArchive)
	if err != nil {
		return err
	}
	if f.IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if f.Mode()&os.ModeSymlink != 0 || f.LinkTarget != "" || !f.Mode().IsRegular() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	perm := f.Mode().Perm() | 0o600
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// verifier reads regular entries to the end so checksums get validated.
type verifier struct {
	entries int
}

func (v *verifier) handle(ctx context.Context, f archives.FileInfo) error {
	if _, err := safeJoin(".", f.NameInArchive); err != nil {
		return err
	}
	v.entries++
	if f.IsDir() || !f.Mode().IsRegular() || f.LinkTarget != "" {
		return nil
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(io.Discard, src)
	return err
}

// safeJoin resolves an entry name below dest. Absolute names and names that
// climb out of dest are rejected rather than rewritten.
func safeJoin(dest, name string) (string, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
		}
	}
	target := filepath.Join(dest, filepath.FromSlash(slashed))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Join(ErrUnsafePath, err)
	}
	return target, nil
}

// streamInfo describes a decompressed gzip payload.
type streamInfo struct {
	name string
	mode fs.FileMode
}

func (i streamInfo) Name() string       { return i.name }
func (i streamInfo) Size() int64        { return -1 }
func (i streamInfo) Mode() fs.FileMode  { return i.mode }
func (i streamInfo) ModTime() time.Time { return time.Time{} }
func (i streamInfo) IsDir() bool        { return false }
func (i streamInfo) Sys() any           { return nil }

type streamFile struct {
	io.ReadCloser
	info fs.FileInfo
}

func (f streamFile) Stat() (fs.FileInfo, error) { return f.info, nil }
