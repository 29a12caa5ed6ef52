package sorter

import "errors"

var (
	// ErrProvision means a sort directory could not be created. Nothing has
	// been moved when it is returned.
	ErrProvision    = errors.New("cannot provision sort directory")
	ErrNotDirectory = errors.New("root is not a directory")
	// ErrRootLocked means another run already holds the lock for the root.
	ErrRootLocked = errors.New("root is locked by another run")
)
