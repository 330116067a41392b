// Package indexcache maps integer indices from a prior scan (UI-tree,
// OCR, DOM, or omniparser output) to screen bounds, so a later
// click-by-index tool call can act on "the 3rd thing the last scan
// found" without re-resolving a selector.
package indexcache

import (
	"sync"

	"github.com/mediar-ai/deskflow/pkg/desktop"
	"github.com/mediar-ai/deskflow/pkg/errs"
)

// Source identifies which scan family populated a cache entry.
type Source string

const (
	UITree     Source = "ui_tree"
	OCR        Source = "ocr"
	DOM        Source = "dom"
	Omniparser Source = "omniparser"
)

// Entry is one indexed, clickable result from a scan.
type Entry struct {
	Index  int
	Bounds desktop.Bounds
	Label  string
}

// Cache holds one entry slice per Source, protected by a single mutex.
// Writes (from scan tools) fully replace a source's slice atomically;
// reads (from click-by-index) take the mutex too, matching §3's
// "writes are atomic replacements" invariant.
type Cache struct {
	mu      sync.Mutex
	entries map[Source][]Entry
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Source][]Entry)}
}

// Replace atomically replaces the entries for source, discarding any
// prior scan's results for that source.
func (c *Cache) Replace(source Source, entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[source] = entries
}

// Get returns the entry at index for source.
func (c *Cache) Get(source Source, index int) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.entries[source]
	for _, e := range entries {
		if e.Index == index {
			return e, nil
		}
	}
	return Entry{}, errs.New(errs.ElementNotFound, "no cached entry at index").
		Context("source", string(source)).
		Context("index", index).
		Build()
}

// Count returns how many entries are currently cached for source.
func (c *Cache) Count(source Source) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries[source])
}
