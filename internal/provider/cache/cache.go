package cache

import (
	"context"
	"sync"
	"time"

	"github.com/marstr/collection/v2"

	"marketbot/internal/provider"
)

// Provider caches spot quotes per symbol for a TTL in a bounded LRU.
// History is never cached. A zero TTL makes every call a passthrough.
type Provider struct {
	P   provider.Provider
	TTL time.Duration

	mu    sync.Mutex
	items *collection.LRUCache[string, provider.Quote]
	now   func() time.Time
}

// New wraps p. ttl <= 0 returns p unchanged.
func New(p provider.Provider, ttl time.Duration, capacity uint) provider.Provider {
	if ttl <= 0 {
		return p
	}
	if capacity == 0 {
		capacity = 256
	}
	return &Provider{
		P:     p,
		TTL:   ttl,
		items: collection.NewLRUCache[string, provider.Quote](capacity),
		now:   time.Now,
	}
}

func (c *Provider) Name() string { return c.P.Name() }

func (c *Provider) Spot(ctx context.Context, symbol string) (provider.Quote, error) {
	staleAt := c.now().Add(-c.TTL)

	c.mu.Lock()
	q, ok := c.items.Get(symbol)
	c.mu.Unlock()
	if ok && q.ReceivedAt.After(staleAt) {
		return q, nil
	}

	fresh, err := c.P.Spot(ctx, symbol)
	if err != nil {
		return provider.Quote{}, err
	}
	if fresh.ReceivedAt.IsZero() {
		fresh.ReceivedAt = c.now().UTC()
	}

	c.mu.Lock()
	c.items.Put(symbol, fresh)
	c.mu.Unlock()
	return fresh, nil
}

func (c *Provider) History(ctx context.Context, symbol string, days int) (provider.Series, error) {
	return c.P.History(ctx, symbol, days)
}
