package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// MoveFile moves the regular file at src to dst, replacing whatever file
// already lives at dst. A rename is tried first; when src and dst are on
// different devices the content is copied and src removed afterwards.
func MoveFile(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrExpectedFile
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return ErrUnexpectedSymlink
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		return ErrSameFile
	}
	if dstInfo, err := os.Stat(dst); err == nil {
		if dstInfo.IsDir() {
			return ErrExpectedFile
		}
		if os.SameFile(info, dstInfo) {
			return ErrSameFile
		}
	}

	err = os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile streams src into a temporary sibling of dst and renames it into
// place, so a failed copy never leaves a truncated dst behind.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".sortdir-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
