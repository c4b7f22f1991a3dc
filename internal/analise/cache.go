package analise

import (
	"sync"

	"github.com/google/uuid"
)

// Cache is the in-memory session result store. It is the only state that
// outlives a single analysis invocation, and it lives only as long as the
// process.
type Cache struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*Result
}

func NewCache() *Cache {
	return &Cache{results: make(map[uuid.UUID]*Result)}
}

func (c *Cache) Put(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.ID] = r
}

func (c *Cache) Get(id uuid.UUID) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[id]
	return r, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
