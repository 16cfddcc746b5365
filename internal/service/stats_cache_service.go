package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis keys for dashboard aggregates
	StatsKeyPatientCount      = "stats:patients:count"
	StatsKeyPatientDepartment = "stats:patients:departments"
	StatsKeyStaffCount        = "stats:staff:count"
	StatsKeyTodayVisits       = "stats:records:today"
	StatsKeyMonthlyVisits     = "stats:records:monthly"
	StatsKeyYearlyVisits      = "stats:records:yearly"

	// Timeout for individual Redis operations
	statsCacheTimeout = 2 * time.Second
)

// PatientStatsKeys are invalidated when a patient is added or removed.
var PatientStatsKeys = []string{StatsKeyPatientCount, StatsKeyPatientDepartment}

// RecordStatsKeys are invalidated when a visit is appended.
var RecordStatsKeys = []string{StatsKeyTodayVisits, StatsKeyMonthlyVisits, StatsKeyYearlyVisits}

// StaffStatsKeys are invalidated when staff are added or removed.
var StaffStatsKeys = []string{StatsKeyStaffCount}

// =============================================================================
// Types
// =============================================================================

// LoadFunc computes a fresh value on a cache miss.
type LoadFunc func(ctx context.Context) (interface{}, error)

// StatsCache keeps dashboard aggregates for a short TTL. Every write path
// invalidates the keys it affects. Within one process a load that overlaps an
// invalidation is not cached; a write made by another instance can leave a
// stale value for at most one TTL.
type StatsCache interface {
	// Remember decodes the cached value for key into dest, calling load on a miss.
	Remember(ctx context.Context, key string, dest interface{}, load LoadFunc) error
	Invalidate(ctx context.Context, keys ...string)
}

// redisStatsCache never fails a read because of Redis: errors are logged
// and the value is loaded from the database.
type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
	group  singleflight.Group

	// mu guards generations and is held across SET and DEL, so an invalidation
	// either deletes a freshly stored value or makes the store skip it.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewRedisStatsCache creates a Redis-backed cache. Concurrent misses on the same
// key share one load.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) StatsCache {
	return &redisStatsCache{
		client:      client,
		ttl:         ttl,
		log:         log,
		generations: make(map[string]uint64),
	}
}

// =============================================================================
// Redis implementation
// =============================================================================

func (c *redisStatsCache) Remember(ctx context.Context, key string, dest interface{}, load LoadFunc) error {
	getCtx, cancel := context.WithTimeout(ctx, statsCacheTimeout)
	cached, err := c.client.Get(getCtx, key).Bytes()
	cancel()

	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(cached, dest); jsonErr == nil {
			return nil
		}
		c.log.Warnf("Discarding undecodable cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warnf("Failed to read stats cache %s: %+v", key, err)
	}

	raw, err, _ := c.group.Do(key, func() (interface{}, error) {
		generation := c.generation(key)

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		c.store(ctx, key, generation, encoded)
		return encoded, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(raw.([]byte), dest)
}

func (c *redisStatsCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.generations[key]++
	}

	delCtx, cancel := context.WithTimeout(ctx, statsCacheTimeout)
	defer cancel()

	if err := c.client.Del(delCtx, keys...).Err(); err != nil {
		c.log.Warnf("Failed to invalidate stats cache %v: %+v", keys, err)
	}
}

func (c *redisStatsCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// store writes a loaded value unless the key was invalidated after the load began.
func (c *redisStatsCache) store(ctx context.Context, key string, generation uint64, encoded []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[key] != generation {
		c.log.Debugf("Skipping stale stats cache write %s", key)
		return
	}

	setCtx, cancel := context.WithTimeout(ctx, statsCacheTimeout)
	defer cancel()
	if err := c.client.Set(setCtx, key, encoded, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to write stats cache %s: %+v", key, err)
	}
}

// =============================================================================
// Pass-through implementation
// =============================================================================

type noopStatsCache struct{}

// NewNoopStatsCache returns a cache that always loads, used when Redis is not configured.
func NewNoopStatsCache() StatsCache {
	return noopStatsCache{}
}

func (noopStatsCache) Remember(ctx context.Context, key string, dest interface{}, load LoadFunc) error {
	value, err := load(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, dest)
}

func (noopStatsCache) Invalidate(ctx context.Context, keys ...string) {}
