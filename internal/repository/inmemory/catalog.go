package inmemory

import (
	"context"
	"sync"
	"time"

	catalogdomain "dna-clinic-go/internal/domain/catalog"
)

type InMemoryCatalogCache struct {
	mu   sync.RWMutex
	item *catalogItem
	now  func() time.Time
}

type catalogItem struct {
	value     []catalogdomain.Offering
	expiresAt time.Time
}

func NewInMemoryCatalogCache() *InMemoryCatalogCache {
	return &InMemoryCatalogCache{now: time.Now}
}

func (c *InMemoryCatalogCache) GetAll(ctx context.Context) ([]catalogdomain.Offering, bool) {
	now := c.now()

	c.mu.RLock()
	item := c.item
	c.mu.RUnlock()
	if item == nil {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		if c.item != nil && !c.item.expiresAt.After(now) {
			c.item = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneOfferings(item.value), true
}

func (c *InMemoryCatalogCache) SetAll(ctx context.Context, offerings []catalogdomain.Offering, ttl time.Duration) {
	if ttl <= 0 {
		c.Invalidate(ctx)
		return
	}

	c.mu.Lock()
	c.item = &catalogItem{
		value:     cloneOfferings(offerings),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryCatalogCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.item = nil
	c.mu.Unlock()
}

func cloneOfferings(offerings []catalogdomain.Offering) []catalogdomain.Offering {
	if offerings == nil {
		return nil
	}
	cloned := make([]catalogdomain.Offering, len(offerings))
	copy(cloned, offerings)
	return cloned
}
