package util

import (
	"errors"
	"io"
	"os"
)

// CountEntries counts the direct children of path, files and directories
// alike. Counting stops as soon as limit is exceeded, in which case overage
// is true; a limit below zero counts everything.
func CountEntries(path string, limit int) (count int, overage bool, err error) {
	var info os.FileInfo
	info, err = os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = ErrExpectedDirectory
		return
	}
	var f *os.File
	f, err = os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	for {
		var names []string
		names, err = f.Readdirnames(64)
		count += len(names)
		if limit >= 0 && count > limit {
			return count, true, nil
		}
		if errors.Is(err, io.EOF) {
			return count, false, nil
		}
		if err != nil {
			return
		}
	}
}

// IsEmptyDir reports whether the directory at path has no children.
// Only the first batch of names is read.
func IsEmptyDir(path string) (bool, error) {
	count, _, err := CountEntries(path, 0)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
