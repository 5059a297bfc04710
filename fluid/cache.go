package fluid

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lookup uint8

const (
	byPT lookup = iota
	byPh
	byPS
	byTQ
	byPQ
)

type cacheKey struct {
	fluid string
	kind  lookup
	a, b  float64
}

// Cache memoises the states returned by an Oracle. Failed lookups are not cached.
// A Cache is safe for concurrent use.
type Cache struct {
	oracle Oracle
	states *lru.Cache[cacheKey, State]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache wraps oracle with a least recently used cache of the given size
func NewCache(oracle Oracle, size int) (*Cache, error) {
	states, err := lru.New[cacheKey, State](size)
	if err != nil {
		return nil, err
	}
	return &Cache{oracle: oracle, states: states}, nil
}

// Stats returns the number of cache hits and misses
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached states
func (c *Cache) Len() int {
	return c.states.Len()
}

func (c *Cache) get(fluid string, kind lookup, a, b float64, eval func() (State, error)) (State, error) {
	key := cacheKey{fluid: strings.ToLower(fluid), kind: kind, a: a, b: b}
	if st, ok := c.states.Get(key); ok {
		c.hits.Add(1)
		st.Fluid = fluid
		return st, nil
	}
	c.misses.Add(1)
	st, err := eval()
	if err != nil {
		return State{}, err
	}
	c.states.Add(key, st)
	return st, nil
}

func (c *Cache) Has(fluid string) error {
	return c.oracle.Has(fluid)
}

func (c *Cache) Critical(fluid string) (Tc, Pc float64, err error) {
	return c.oracle.Critical(fluid)
}

func (c *Cache) StateFromPT(fluid string, p, T float64) (State, error) {
	return c.get(fluid, byPT, p, T, func() (State, error) { return c.oracle.StateFromPT(fluid, p, T) })
}

func (c *Cache) StateFromPh(fluid string, p, h float64) (State, error) {
	return c.get(fluid, byPh, p, h, func() (State, error) { return c.oracle.StateFromPh(fluid, p, h) })
}

func (c *Cache) StateFromPS(fluid string, p, s float64) (State, error) {
	return c.get(fluid, byPS, p, s, func() (State, error) { return c.oracle.StateFromPS(fluid, p, s) })
}

func (c *Cache) StateFromTQ(fluid string, T, q float64) (State, error) {
	return c.get(fluid, byTQ, T, q, func() (State, error) { return c.oracle.StateFromTQ(fluid, T, q) })
}

func (c *Cache) StateFromPQ(fluid string, p, q float64) (State, error) {
	return c.get(fluid, byPQ, p, q, func() (State, error) { return c.oracle.StateFromPQ(fluid, p, q) })
}
