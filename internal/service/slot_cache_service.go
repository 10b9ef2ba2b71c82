package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go-medical-scheduling/internal/domain/availability"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefixes for the slot cache
	RedisSlotKeyPrefix        = "slots:"
	RedisSlotVersionKeyPrefix = "slots:version:"

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute

	// Version keys outlive any slot entry written under them
	versionKeyTTL = 30 * 24 * time.Hour
)

// SlotLoader computes the slots for a date on a cache miss.
type SlotLoader func(ctx context.Context) ([]availability.Slot, error)

// SlotCache stores generated slot lists per (schedule, date).
//
// Entries are keyed by a per-schedule version number. Invalidate bumps the version,
// so every entry written before the bump becomes unreachable at once.
type SlotCache interface {
	GetOrLoad(ctx context.Context, scheduleID int, date time.Time, load SlotLoader) ([]availability.Slot, error)
	Invalidate(ctx context.Context, scheduleID int) error
}

// RedisSlotCache is the Redis-backed SlotCache.
//
// Redis errors never fail a read: the slots are recomputed from the database instead.
// Concurrent misses for one schedule are serialized by a per-schedule mutex so only one
// of them hits the database.
type RedisSlotCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration

	// Per-schedule mutex for concurrent misses
	scheduleMu sync.Map // map[int]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewRedisSlotCache creates a new RedisSlotCache.
// Starts background goroutine for mutex cleanup.
// Call Stop() during graceful shutdown.
func NewRedisSlotCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisSlotCache {
	c := &RedisSlotCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		stopChan:    make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupMutexMapLoop()

	return c
}

// Stop gracefully shuts down the cache.
// Safe to call multiple times.
func (c *RedisSlotCache) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopChan)
		c.wg.Wait()
		c.log.Info("RedisSlotCache stopped")
	}
}

func (c *RedisSlotCache) GetOrLoad(ctx context.Context, scheduleID int, date time.Time, load SlotLoader) ([]availability.Slot, error) {
	version, err := c.version(ctx, scheduleID)
	if err != nil {
		c.log.Warnf("Failed to read slot cache version for schedule %d, bypassing cache: %+v", scheduleID, err)
		return load(ctx)
	}
	key := slotKey(scheduleID, version, date)

	if slots, ok := c.get(ctx, key); ok {
		return slots, nil
	}

	mt := c.getScheduleMutex(scheduleID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	// Another request may have filled the entry while we waited
	if slots, ok := c.get(ctx, key); ok {
		return slots, nil
	}

	slots, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("encode slots for schedule %d: %w", scheduleID, err)
	}
	if err := c.redisClient.Set(ctx, key, payload, c.calculateTTL(date)).Err(); err != nil {
		c.log.Warnf("Failed to cache slots for schedule %d on %s: %+v", scheduleID, date.Format(availability.DateLayout), err)
	}

	return slots, nil
}

// Invalidate bumps the schedule's version key so later reads miss.
func (c *RedisSlotCache) Invalidate(ctx context.Context, scheduleID int) error {
	versionKey := fmt.Sprintf("%s%d", RedisSlotVersionKeyPrefix, scheduleID)

	pipe := c.redisClient.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, versionKeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warnf("Failed to invalidate slot cache for schedule %d: %+v", scheduleID, err)
		return fmt.Errorf("invalidate slot cache for schedule %d: %w", scheduleID, err)
	}

	c.log.Debugf("Invalidated slot cache for schedule %d", scheduleID)
	return nil
}

func (c *RedisSlotCache) version(ctx context.Context, scheduleID int) (int64, error) {
	versionKey := fmt.Sprintf("%s%d", RedisSlotVersionKeyPrefix, scheduleID)
	v, err := c.redisClient.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisSlotCache) get(ctx context.Context, key string) ([]availability.Slot, bool) {
	payload, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read slot cache key %s: %+v", key, err)
		}
		return nil, false
	}

	slots := []availability.Slot{}
	if err := json.Unmarshal(payload, &slots); err != nil {
		c.log.Warnf("Discarding corrupt slot cache entry %s: %+v", key, err)
		return nil, false
	}
	return slots, true
}

func slotKey(scheduleID int, version int64, date time.Time) string {
	return fmt.Sprintf("%s%d:v%d:%s", RedisSlotKeyPrefix, scheduleID, version, date.Format(availability.DateLayout))
}

// getScheduleMutex returns mutex for a specific schedule ID
func (c *RedisSlotCache) getScheduleMutex(scheduleID int) *mutexWithTimestamp {
	mt, _ := c.scheduleMu.LoadOrStore(scheduleID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (c *RedisSlotCache) cleanupMutexMapLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			c.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			c.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety
func (c *RedisSlotCache) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-mutexStaleThreshold).Unix()
	var cleaned int

	c.scheduleMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// lastUsed is checked under the lock so a concurrent getScheduleMutex cannot slip in
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				c.scheduleMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		c.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
}

// calculateTTL caps the configured TTL at 24 hours after the slot date
func (c *RedisSlotCache) calculateTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 1)
	ttl := time.Until(expireAt)

	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}
	if c.ttl > 0 && c.ttl < ttl {
		return c.ttl
	}

	return ttl
}
