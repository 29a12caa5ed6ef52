package sorter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/dendrascience/sortdir/util"
)

// CollisionPolicy decides what happens when a destination name is taken.
type CollisionPolicy string

const (
	// CollisionOverwrite replaces the existing file.
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionRename inserts _1, _2, ... before the extension until the
	// name is free. A source identical to the file already in place is
	// dropped instead of kept twice.
	CollisionRename CollisionPolicy = "rename"
)

// maxRenameAttempts bounds the _<n> search; past it a hash bucket of the
// source path is used as the suffix.
const maxRenameAttempts = 1000

// ParseCollisionPolicy accepts "overwrite" or "rename", case-insensitively.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case CollisionOverwrite, CollisionRename:
		return p, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q", s)
	}
}

// claimSet tracks destinations that a worker is about to move into, so two
// workers under the rename policy never pick the same free name.
type claimSet struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{taken: make(map[string]struct{})}
}

func (c *claimSet) release(p string) {
	c.mu.Lock()
	delete(c.taken, p)
	c.mu.Unlock()
}

// claimFree reserves the first free variant of dest. duplicate is true when
// dest already holds the same bytes as src; nothing is reserved then.
func (c *claimSet) claimFree(src, dest string) (claimed string, duplicate bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, held := c.taken[dest]; !held {
		switch _, err := os.Lstat(dest); {
		case errors.Is(err, os.ErrNotExist):
			c.taken[dest] = struct{}{}
			return dest, false, nil
		case err != nil:
			return "", false, err
		}
		if same, err := util.SameContent(src, dest); err == nil && same {
			return "", true, nil
		}
	}

	ext := filepath.Ext(dest)
	claimed, err = c.nextFree(strings.TrimSuffix(dest, ext), ext, src)
	return claimed, false, err
}

// claimFreeDir reserves dir, or the first dir_<n> that does not exist yet.
func (c *claimSet) claimFreeDir(dir string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, held := c.taken[dir]; !held {
		if _, err := os.Lstat(dir); errors.Is(err, os.ErrNotExist) {
			c.taken[dir] = struct{}{}
			return dir, nil
		}
	}
	return c.nextFree(dir, "", dir)
}

// nextFree claims base_<n>ext for the smallest free n. Past maxRenameAttempts
// the suffix is the hash bucket of seed. c.mu must be held.
func (c *claimSet) nextFree(base, ext, seed string) (string, error) {
	for n := 1; n <= maxRenameAttempts+1; n++ {
		suffix := strconv.Itoa(n)
		if n > maxRenameAttempts {
			suffix = util.BucketSuffix(seed)
		}
		candidate := base + "_" + suffix + ext
		if _, held := c.taken[candidate]; held {
			continue
		}
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			c.taken[candidate] = struct{}{}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s", base+ext)
}
