package api

import "sync"

// Query keys for the two cached collections.
const (
	KeyBoards = "boards"
	keyCards  = "cards:"
)

// CardsKey scopes the cards query to the active selection, so invalidating
// one board's cards does not force the aggregate view (or another board) to
// refetch.
func CardsKey(selection string) string {
	return keyCards + selection
}

// Cache tracks a monotonic generation per query key. A mutation that
// succeeds bumps the key's generation; readers compare the generation they
// last fetched at against the current one to decide whether to refetch.
// The counters are mutex-guarded because tea commands complete on their own
// goroutines.
type Cache struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewCache() *Cache {
	return &Cache{gens: make(map[string]uint64)}
}

// Invalidate bumps the key's generation, marking cached data stale.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
}

// Generation returns the key's current generation (0 = never invalidated).
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// Stale reports whether data fetched at generation seen is out of date.
func (c *Cache) Stale(key string, seen uint64) bool {
	return c.Generation(key) != seen
}
