package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/geosense/measurement-api/internal/domain"
)

// ResponseCache implements domain.ResponseCache on top of go-cache.
// Every entry lives for the configured TTL from the moment it is set;
// there is no eviction policy beyond expiry and no invalidation on write,
// so cached query results may lag new ingests until the TTL elapses.
type ResponseCache struct {
	store *gocache.Cache
}

// New creates a ResponseCache with the given TTL.
func New(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: gocache.New(ttl, 10*time.Minute),
	}
}

// Get returns the cached response for key, or false if absent or expired.
func (c *ResponseCache) Get(key string) (*domain.MeasurementQueryResponse, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	resp, ok := v.(*domain.MeasurementQueryResponse)
	return resp, ok
}

// Set stores value under key with the default TTL starting now.
func (c *ResponseCache) Set(key string, value *domain.MeasurementQueryResponse) {
	c.store.SetDefault(key, value)
}
