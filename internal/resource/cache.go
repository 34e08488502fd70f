package resource

import (
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache keeps loaded corpora keyed by their absolute directory, so many
// documents or scenarios over one corpus read it once.
type Cache struct {
	cache *gocache.Cache
	opts  []Option
}

// NewCache creates a cache whose entries expire after ttl. A ttl of zero
// keeps entries until Clear.
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{
		cache: gocache.New(ttl, 10*time.Minute),
		opts:  opts,
	}
}

// Load returns the cached corpus for dir, loading it on a miss. Failed
// loads are not cached.
func (c *Cache) Load(dir string) (*Corpus, error) {
	key, err := filepath.Abs(dir)
	if err != nil {
		key = filepath.Clean(dir)
	}
	if v, found := c.cache.Get(key); found {
		return v.(*Corpus), nil
	}
	corpus, err := LoadDir(dir, c.opts...)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, corpus)
	return corpus, nil
}

// Delete evicts dir.
func (c *Cache) Delete(dir string) {
	if key, err := filepath.Abs(dir); err == nil {
		c.cache.Delete(key)
	}
}

// Len returns the number of cached corpora.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.cache.Flush()
}
