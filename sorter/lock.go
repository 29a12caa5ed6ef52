package sorter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/dendrascience/sortdir/util"
)

// lockPath names the lock file of an absolute root. The file lives outside
// the tree being sorted so it never gets classified or pruned.
func lockPath(lockDir, root string) string {
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	return filepath.Join(lockDir, "sortdir-"+util.GetStringHash(root)[:16]+".lock")
}

// lockRoot takes the advisory run lock for root without blocking.
func lockRoot(lockDir, root string) (*flock.Flock, error) {
	path := lockPath(lockDir, root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", root, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootLocked, root)
	}
	return fl, nil
}
