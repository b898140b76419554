package generation

import (
	"context"
	"sync"

	"github.com/robalobadob/wordlebot/internal/constraint"
)

// Cache remembers the last pool and its history. When the next request
// extends that history it filters the cached pool by the new constraints
// only; any other request falls back to a full Generate.
//
// Results are identical to calling the wrapped generator directly.
type Cache struct {
	base Filterer

	mu          sync.Mutex
	constraints []constraint.Constraint
	pool        Candidates
	valid       bool
	hits        int
	misses      int
}

// NewCache wraps base.
func NewCache(base Filterer) *Cache {
	return &Cache{base: base}
}

// Generate returns the pool for constraints, reusing the cached pool when
// constraints extends the cached history.
func (c *Cache) Generate(ctx context.Context, constraints []constraint.Constraint) (Candidates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		pool Candidates
		err  error
	)
	switch {
	case c.valid && extends(constraints, c.constraints):
		c.hits++
		pool, err = c.base.Filter(ctx, c.pool, constraints[len(c.constraints):])
	default:
		c.misses++
		pool, err = c.base.Generate(ctx, constraints)
	}
	if err != nil {
		return Candidates{}, err
	}
	c.constraints = append([]constraint.Constraint(nil), constraints...)
	c.pool = pool
	c.valid = true
	return pool, nil
}

// Filter delegates to the wrapped generator without touching the cache.
func (c *Cache) Filter(ctx context.Context, base Candidates, constraints []constraint.Constraint) (Candidates, error) {
	return c.base.Filter(ctx, base, constraints)
}

// Invalidate drops the cached pool.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constraints = nil
	c.pool = Candidates{}
	c.valid = false
}

// Stats reports how many requests reused the cache and how many did not.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// extends reports whether prefix is a prefix of history.
func extends(history, prefix []constraint.Constraint) bool {
	if len(prefix) > len(history) {
		return false
	}
	for i := range prefix {
		if !history[i].Equal(prefix[i]) {
			return false
		}
	}
	return true
}
