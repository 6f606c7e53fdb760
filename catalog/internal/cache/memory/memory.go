package memory

import (
	"context"
	"errors"
	"time"

	"cinevault/catalog/internal/cache"
	"cinevault/pkg/clock"
	"cinevault/pkg/logging"

	"github.com/viccon/sturdyc"
	"go.uber.org/zap"
)

const (
	numShards          = 64
	evictionPercentage = 10
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache defines an in-process string cache with per-key expiry,
// backed by a sharded sturdyc client.
type Cache struct {
	client *sturdyc.Client[entry]
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a new cache holding up to capacity keys. maxTTL bounds
// the lifetime of any key regardless of the ttl it was set with.
func New(capacity int, maxTTL time.Duration, clk clock.Clock, logger *zap.Logger) (*Cache, error) {
	if capacity <= 0 {
		return nil, errors.New("cache capacity must be greater than 0")
	}
	if maxTTL <= 0 {
		return nil, errors.New("cache ttl must be greater than 0")
	}
	logger = logger.With(
		zap.String(logging.FieldComponent, "cache"),
		zap.String(logging.FieldType, "sturdyc"),
	)
	return &Cache{
		client: sturdyc.New[entry](capacity, numShards, maxTTL, evictionPercentage),
		clock:  clk,
		logger: logger,
	}, nil
}

// Get returns the value stored under key or cache.ErrNotFound.
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	e, ok := c.client.Get(key)
	if !ok {
		return "", cache.ErrNotFound
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.client.Delete(key)
		return "", cache.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key for ttl.
func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be greater than 0")
	}
	c.client.Set(key, entry{value: value, expiresAt: c.clock.Now().Add(ttl)})
	c.logger.Debug("Cache key set", zap.String(logging.FieldKey, key), zap.Duration("ttl", ttl))
	return nil
}

// Delete removes key from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.client.Delete(key)
	return nil
}
