package analysis

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart markup so repeated page loads of the
// same document are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// MarkupCache is an in-memory TTL cache for rendered chart and bubble markup.
type MarkupCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedMarkup
}

type cachedMarkup struct {
	markup  string
	expires time.Time
}

// NewMarkupCache builds a cache with the provided TTL.
func NewMarkupCache(ttl time.Duration) *MarkupCache {
	return &MarkupCache{
		ttl:     ttl,
		entries: make(map[string]cachedMarkup),
	}
}

// GetOrRender returns a cached entry or renders and stores a new one.
func (c *MarkupCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if markup, ok := c.get(key); ok {
		return markup, nil
	}
	markup, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, markup)
	return markup, nil
}

func (c *MarkupCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.markup, true
}

func (c *MarkupCache) set(key, markup string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedMarkup{
		markup:  markup,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// specHash returns a deterministic hash for a chart spec or bubble payload.
func specHash(spec any) string {
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
