package utils

import (
	"os"
	"sync"
	"time"
)

type fileEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache holds values derived from files. An entry is dropped as soon as
// the file it came from changes on disk.
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]fileEntry[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{entries: make(map[string]fileEntry[V])}
}

// Get returns the value cached for path if the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	if stat, err := os.Stat(path); err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, true
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
	return zero, false
}

// Set stores value for path along with the file's current metadata
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = fileEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}

// Len returns the number of cached entries
func (c *FileCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
