package sorter

import (
	"os"
	"path/filepath"
)

// Enumerate lists root and every directory below it in depth-first
// pre-order, children in lexical order. Directories in excluded (absolute,
// cleaned paths) are neither listed nor entered. Symbolic links are never
// followed. A subdirectory that cannot be read is still listed but not
// descended into; an unreadable root is an error.
func Enumerate(root string, excluded map[string]struct{}) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, skip := excluded[abs]; skip {
		return nil, nil
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	dirs := []string{abs}
	for _, e := range entries {
		dirs = descend(dirs, filepath.Join(abs, e.Name()), e, excluded)
	}
	return dirs, nil
}

func descend(dirs []string, path string, e os.DirEntry, excluded map[string]struct{}) []string {
	// DirEntry.IsDir is false for a symlink, whatever it points at.
	if !e.IsDir() {
		return dirs
	}
	if _, skip := excluded[path]; skip {
		return dirs
	}
	dirs = append(dirs, path)
	entries, err := os.ReadDir(path)
	if err != nil {
		return dirs
	}
	for _, child := range entries {
		dirs = descend(dirs, filepath.Join(path, child.Name()), child, excluded)
	}
	return dirs
}
