package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

const cacheVersion = 1

// cacheEntry is the remembered listing view of one file.
type cacheEntry struct {
	Summary      core.Summary `json:"summary"`
	LastModified time.Time    `json:"lastModified"`
}

type cacheFile struct {
	Version int                    `json:"version"`
	Entries map[string]*cacheEntry `json:"entries"` // keyed by relative path, e.g. "_posts/2021-05-09-fpga-part-1.md"
}

// Cache persists post summaries under {root}/{systemDir}/cache.json.
// It implements core.SummaryCache.
type Cache struct {
	Path string

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	dirty   bool
}

// NewCache creates an empty cache for the site at root.
func NewCache(root, systemDir string) *Cache {
	return &Cache{
		Path:    filepath.Join(root, systemDir, "cache.json"),
		entries: make(map[string]*cacheEntry),
	}
}

// Load reads the cache from disk. A missing, corrupted or outdated file
// yields an empty cache, not an error.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil || file.Version != cacheVersion || file.Entries == nil {
		c.entries = make(map[string]*cacheEntry)
		c.dirty = true
		return nil
	}

	c.entries = file.Entries
	c.dirty = false
	return nil
}

// Save persists the cache if it changed since the last Load or Save.
func (c *Cache) Save() error {
	c.mu.RLock()
	if !c.dirty {
		c.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(cacheFile{Version: cacheVersion, Entries: c.entries}, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// Get returns the summary recorded for relPath if the file was not modified
// since.
func (c *Cache) Get(relPath string, modTime time.Time) (core.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[relPath]
	if !ok || !entry.LastModified.Equal(modTime) {
		return core.Summary{}, false
	}
	return entry.Summary, true
}

// Set records the summary of relPath at modTime.
func (c *Cache) Set(relPath string, modTime time.Time, s core.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[relPath] = &cacheEntry{Summary: s, LastModified: modTime}
	c.dirty = true
}

// Prune removes entries whose path is not in keep.
func (c *Cache) Prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.entries {
		if !keep[path] {
			delete(c.entries, path)
			c.dirty = true
		}
	}
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ core.SummaryCache = (*Cache)(nil)
