package service

import (
	"fmt"
	"sync"
	"time"

	"go-medical-scheduling/internal/domain/availability"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RuleCache keeps parsed recurrence rules in memory.
// Keys include the schedule's UpdatedAt so an edited schedule never hits a stale rule.
type RuleCache struct {
	mu    sync.RWMutex
	cache *lru.Cache[string, *availability.RecurrenceRule]
	loc   *time.Location
}

func NewRuleCache(size int, loc *time.Location) (*RuleCache, error) {
	cache, err := lru.New[string, *availability.RecurrenceRule](size)
	if err != nil {
		return nil, fmt.Errorf("create rule cache: %w", err)
	}
	return &RuleCache{cache: cache, loc: loc}, nil
}

// Parse returns the cached rule for (scheduleID, updatedAt), parsing spec on a miss.
// Parse errors are not cached.
func (c *RuleCache) Parse(scheduleID int, updatedAt time.Time, spec string) (*availability.RecurrenceRule, error) {
	key := fmt.Sprintf("%d:%d", scheduleID, updatedAt.UnixNano())

	c.mu.RLock()
	rule, ok := c.cache.Get(key)
	c.mu.RUnlock()
	if ok {
		return rule, nil
	}

	rule, err := availability.ParseRule(spec, c.loc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, rule)
	c.mu.Unlock()
	return rule, nil
}

// Len reports the number of cached rules.
func (c *RuleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}
