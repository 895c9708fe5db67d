package plan

import "sync"

type cacheKey struct {
	duration Duration
	year     int
}

// Cache memoises generated plans by (duration, year). Plans are
// deterministic in those inputs, so a cached plan is identical to a fresh
// one. Returned plans are shared and must be treated as read-only.
type Cache struct {
	canon Canon

	mu    sync.Mutex
	plans map[cacheKey]*Plan
}

// NewCache returns a cache over canon, or the default canon when canon is nil.
func NewCache(canon Canon) *Cache {
	if canon == nil {
		canon = DefaultCanon()
	}
	return &Cache{canon: canon, plans: make(map[cacheKey]*Plan)}
}

// Get returns the plan for (d, year), generating it on first use.
func (c *Cache) Get(d Duration, year int) (*Plan, error) {
	key := cacheKey{d, year}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.plans[key]; ok {
		return p, nil
	}
	p, err := GenerateFrom(c.canon, d, year)
	if err != nil {
		return nil, err
	}
	c.plans[key] = p
	return p, nil
}
