package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
)

type memoryEntry struct {
	product   domain.Product
	expiresAt time.Time
}

// MemoryProductCache is a process-local ProductCache for single-node setups without Redis.
type MemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryProductCache() *MemoryProductCache {
	return &MemoryProductCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryProductCache) Get(_ context.Context, barcode string) (*domain.Product, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[barcode]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	product := entry.product
	return &product, true, nil
}

func (c *MemoryProductCache) Set(_ context.Context, product *domain.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	c.mu.Lock()
	c.entries[product.Barcode] = memoryEntry{product: *product, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryProductCache) Invalidate(_ context.Context, barcode string) error {
	c.mu.Lock()
	delete(c.entries, barcode)
	c.mu.Unlock()
	return nil
}
