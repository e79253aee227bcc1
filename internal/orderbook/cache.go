// Package orderbook maintains the latest order-book snapshot per symbol.
// It is owned by a single goroutine (the evaluator's OnUpdate caller) and
// deliberately carries no locking.
package orderbook

import "triarb/internal/model"

// Cache maps symbol -> latest OrderBookTick. Last writer wins; there is no
// reordering by UpdateID.
type Cache struct {
	books map[string]model.OrderBookTick
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{books: make(map[string]model.OrderBookTick, 3)}
}

// Put inserts or replaces the snapshot for tick.Symbol.
func (c *Cache) Put(tick model.OrderBookTick) {
	c.books[tick.Symbol] = tick
}

// Get returns the latest snapshot for symbol and whether it is present.
func (c *Cache) Get(symbol string) (model.OrderBookTick, bool) {
	t, ok := c.books[symbol]
	return t, ok
}

// HasAll reports whether every symbol is present in the cache.
func (c *Cache) HasAll(symbols [3]string) bool {
	for _, s := range symbols {
		if _, ok := c.books[s]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of distinct symbols currently cached.
func (c *Cache) Len() int {
	return len(c.books)
}

// Snapshot returns the full book map for the calculators that need to look
// up more than one symbol at a time (the starting-notional calculator).
func (c *Cache) Snapshot() map[string]model.OrderBookTick {
	return c.books
}
