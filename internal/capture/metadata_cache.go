package capture

import (
	"sync"

	"github.com/noah-isme/solvesync/internal/models"
)

// MetadataCache maps problem slugs to the metadata seen in problem-detail responses.
// Entries live for the lifetime of the process.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]models.QuestionMeta
}

// NewMetadataCache constructs an empty cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{entries: make(map[string]models.QuestionMeta)}
}

// Put inserts or overwrites the metadata for meta.Slug.
func (c *MetadataCache) Put(meta models.QuestionMeta) {
	if meta.Slug == "" {
		return
	}

	c.mu.Lock()
	c.entries[meta.Slug] = meta
	c.mu.Unlock()
}

// Get returns the cached metadata, if any.
func (c *MetadataCache) Get(slug string) (models.QuestionMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	meta, ok := c.entries[slug]
	return meta, ok
}

// Len reports the number of cached problems.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
