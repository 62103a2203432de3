package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/calliko/statuspage-backend/internal/core/ports"
)

// RistrettoStatusCache caches rendered public views with a short TTL.
// Ristretto has no prefix deletion, so each organization carries an epoch
// counter that is baked into every key. Invalidation bumps the epoch,
// orphaning the old entries until the admission policy evicts them.
type RistrettoStatusCache struct {
	cache  *ristretto.Cache[string, any]
	ttl    time.Duration
	epochs sync.Map // uuid.UUID -> *atomic.Uint64
}

var _ ports.StatusCache = (*RistrettoStatusCache)(nil)

// NewRistrettoStatusCache creates a status cache with the given entry TTL.
func NewRistrettoStatusCache(ttl time.Duration) (*RistrettoStatusCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10_000,
		MaxCost:     1 << 24, // 16 MiB of rendered views
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoStatusCache{
		cache: c,
		ttl:   ttl,
	}, nil
}

func (c *RistrettoStatusCache) epoch(orgID uuid.UUID) *atomic.Uint64 {
	if v, ok := c.epochs.Load(orgID); ok {
		return v.(*atomic.Uint64)
	}
	v, _ := c.epochs.LoadOrStore(orgID, &atomic.Uint64{})
	return v.(*atomic.Uint64)
}

func (c *RistrettoStatusCache) key(orgID uuid.UUID, view string) string {
	return fmt.Sprintf("%s:%d:%s", orgID, c.epoch(orgID).Load(), view)
}

// Get returns the cached view if it is present and current.
func (c *RistrettoStatusCache) Get(orgID uuid.UUID, view string) (any, bool) {
	return c.cache.Get(c.key(orgID, view))
}

// Set stores a rendered view under the organization's current epoch.
func (c *RistrettoStatusCache) Set(orgID uuid.UUID, view string, value any) {
	c.cache.SetWithTTL(c.key(orgID, view), value, 1, c.ttl)
}

// Invalidate drops every cached view for the organization.
func (c *RistrettoStatusCache) Invalidate(orgID uuid.UUID) {
	c.epoch(orgID).Add(1)
}

// Wait blocks until buffered writes have been applied.
func (c *RistrettoStatusCache) Wait() {
	c.cache.Wait()
}

// Close releases the underlying cache resources.
func (c *RistrettoStatusCache) Close() {
	c.cache.Close()
}

// NoopStatusCache disables caching; every lookup misses.
type NoopStatusCache struct{}

var _ ports.StatusCache = NoopStatusCache{}

func (NoopStatusCache) Get(uuid.UUID, string) (any, bool) { return nil, false }
func (NoopStatusCache) Set(uuid.UUID, string, any)        {}
func (NoopStatusCache) Invalidate(uuid.UUID)              {}
