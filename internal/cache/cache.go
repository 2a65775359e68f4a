// Package cache memoizes solver results. The presentation layer tends to
// re-request the same launch points (sliders snap to grid values), and a
// solve is orders of magnitude more expensive than a map lookup.
package cache

import (
	"sync"

	"github.com/shotlab/cargoshot/pkg/core"
)

// ResultCache caches angular-speed-space results keyed by launch point.
// Results are immutable once stored; callers must not mutate the slices.
type ResultCache struct {
	m       sync.Mutex
	results map[core.Position2D]core.AngSpeedSpace
}

// NewResultCache creates an empty result cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		results: make(map[core.Position2D]core.AngSpeedSpace),
	}
}

// Get returns the cached result for a launch point.
func (c *ResultCache) Get(pt core.Position2D) (core.AngSpeedSpace, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if r, ok := c.results[pt]; ok {
		return r, true
	}
	return core.AngSpeedSpace{}, false
}

// Put stores a result for a launch point.
func (c *ResultCache) Put(pt core.Position2D, r core.AngSpeedSpace) {
	c.m.Lock()
	defer c.m.Unlock()
	c.results[pt] = r
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.results)
}

// Reset clears the cache. Must be called whenever the geometry changes,
// since cached results embed the geometry they were computed with.
func (c *ResultCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.results = make(map[core.Position2D]core.AngSpeedSpace)
}
