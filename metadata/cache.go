package metadata

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"gallery-backend/models"
)

// Entry is one cached extraction, trusted only while the stored mtime
// matches the file's current mtime.
type Entry struct {
	Mtime    int64            `json:"mtime"` // unix nanoseconds
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Duration *float64         `json:"duration,omitempty"`
	Exif     *models.ExifData `json:"exif,omitempty"`
}

// Cache memoizes extraction results by absolute file path. It is
// constructed once at startup and passed into the scanner and handlers;
// the on-disk snapshot is only written by the sweep (per-request fills
// stay in memory until the next full pass persists them).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	path    string
}

func NewCache(path string) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		path:    path,
	}
}

// Load merges the on-disk snapshot into the cache. A missing or corrupt
// snapshot starts fresh rather than failing.
func (c *Cache) Load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[metadata] Could not load disk cache, starting fresh: %v", err)
		}
		return
	}

	loaded := make(map[string]Entry)
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("[metadata] Could not parse disk cache, starting fresh: %v", err)
		return
	}

	c.mu.Lock()
	for k, v := range loaded {
		c.entries[k] = v
	}
	n := len(c.entries)
	c.mu.Unlock()

	log.Printf("[metadata] Loaded %d entries from disk cache", n)
}

// Lookup returns the entry for path iff its stored mtime equals mtime.
func (c *Cache) Lookup(path string, mtime int64) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok || e.Mtime != mtime {
		return Entry{}, false
	}
	return e, true
}

// Store overwrites the entry for path (last-write-wins).
func (c *Cache) Store(path string, e Entry) {
	c.mu.Lock()
	c.entries[path] = e
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SaveSnapshot persists the cache. When keep is non-nil only entries for
// currently-discovered files are written, so stale entries for deleted
// files fall out of the snapshot on each full sweep.
func (c *Cache) SaveSnapshot(keep map[string]bool) error {
	c.mu.Lock()
	snapshot := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		if keep != nil && !keep[k] {
			continue
		}
		snapshot[k] = v
	}
	if keep != nil {
		c.entries = snapshot
	}
	c.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("cache: marshal snapshot: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("cache: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("cache: replace snapshot: %w", err)
	}

	log.Printf("[metadata] Saved %d entries to disk cache", len(snapshot))
	return nil
}
