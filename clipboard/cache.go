package clipboard

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	x11 "x11conn"
)

// cacheKey identifies one cached (selection, target) entry (§3 "Selection
// cache").
type cacheKey struct {
	selection x11.Atom
	target    x11.Atom
}

// cacheCapacity bounds the number of distinct (selection, target) blobs an
// LRU keeps resident, matching the corpus's general preference for a
// bounded cache over an unbounded map (SPEC_FULL domain stack).
const cacheCapacity = 256

// selectionCache is "the source of truth for what we'll hand out on a
// SelectionRequest" for every selection this connection owns (§3). The
// blob storage is LRU-bounded; the set of known targets per selection is
// kept in a plain map since it never holds more than a handful of atoms.
type selectionCache struct {
	mu      sync.RWMutex
	targets map[x11.Atom]map[x11.Atom]bool
	blobs   *lru.Cache
}

func newSelectionCache() *selectionCache {
	blobs, _ := lru.New(cacheCapacity)
	return &selectionCache{
		targets: make(map[x11.Atom]map[x11.Atom]bool),
		blobs:   blobs,
	}
}

// put stores data for (selection, target), evicting the least recently
// used entry if the cache is at capacity.
func (c *selectionCache) put(selection, target x11.Atom, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targets[selection] == nil {
		c.targets[selection] = make(map[x11.Atom]bool)
	}
	c.targets[selection][target] = true
	c.blobs.Add(cacheKey{selection, target}, data)
}

func (c *selectionCache) get(selection, target x11.Atom) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.blobs.Get(cacheKey{selection, target})
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// targetsFor lists every target atom cached for selection, for answering a
// TARGETS SelectionRequest.
func (c *selectionCache) targetsFor(selection x11.Atom) []x11.Atom {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := c.targets[selection]
	out := make([]x11.Atom, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

// clear erases every entry for selection, per "a SelectionClear on
// selection S erases all entries whose first key component is S" (§3).
func (c *selectionCache) clear(selection x11.Atom) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for t := range c.targets[selection] {
		c.blobs.Remove(cacheKey{selection, t})
	}
	delete(c.targets, selection)
}

func (c *selectionCache) isEmpty(selection x11.Atom) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.targets[selection]) == 0
}
