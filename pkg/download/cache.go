package download

import (
	"os"
	"path/filepath"
	"sync"
)

// Cache tracks the `${HOME}/.galaxy/cache/<repo-name>` directory owned
// exclusively by the downloader, and serializes per-slot work (flock-
// style, but in-process) via a mutex keyed on slot path, per spec.md
// §5's shared resource policy: each caller for a slot runs fn() in
// turn, rather than one caller's result getting shared with the rest.
type Cache struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache returns a Cache rooted at ${home}/.galaxy/cache.
func NewCache(home string) *Cache {
	return &Cache{
		root:  filepath.Join(home, ".galaxy", "cache"),
		locks: map[string]*sync.Mutex{},
	}
}

// slotLock returns the mutex guarding repoName, creating it on first use.
func (c *Cache) slotLock(repoName string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[repoName]
	if !ok {
		l = &sync.Mutex{}
		c.locks[repoName] = l
	}
	return l
}

// Slot returns the cache directory for the given repo name; it does not
// create the directory.
func (c *Cache) Slot(repoName string) string {
	return filepath.Join(c.root, repoName)
}

// Exists reports whether the named slot exists and looks like a valid
// repository (has a .git directory).
func (c *Cache) Exists(repoName string) bool {
	info, err := os.Stat(filepath.Join(c.Slot(repoName), ".git"))
	return err == nil && info.IsDir()
}

// WithSlotLock runs fn with exclusive in-process access to the named
// slot; concurrent callers for the same slot block on each other, while
// callers for different slots proceed concurrently.
func (c *Cache) WithSlotLock(repoName string, fn func() (string, error)) (string, error) {
	l := c.slotLock(repoName)
	l.Lock()
	defer l.Unlock()
	return fn()
}
