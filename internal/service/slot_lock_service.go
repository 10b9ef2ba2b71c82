package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request is already reserving the same slot
var ErrSlotLocked = errors.New("slot is being reserved by another request")

const RedisSlotLockKeyPrefix = "lock:schedule:"

// releaseLockScript deletes the lock only if it still holds our token, so a request
// whose lock already expired cannot release a lock taken over by someone else.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotLocker serializes concurrent reservations of one slot start.
type SlotLocker interface {
	Acquire(ctx context.Context, scheduleID int, start time.Time) (release func(), err error)
}

type RedisSlotLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisSlotLocker(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisSlotLocker {
	return &RedisSlotLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

// Acquire takes the lock with SET NX and a TTL.
// Returns ErrSlotLocked when the lock is held elsewhere.
func (l *RedisSlotLocker) Acquire(ctx context.Context, scheduleID int, start time.Time) (func(), error) {
	key := slotLockKey(scheduleID, start)
	token := uuid.NewString()

	ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.log.Warnf("Failed to acquire slot lock %s: %+v", key, err)
		return nil, fmt.Errorf("acquire slot lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.redisClient, []string{key}, token).Err(); err != nil {
			l.log.Warnf("Failed to release slot lock %s (expires in %v): %+v", key, l.ttl, err)
		}
	}
	return release, nil
}

func slotLockKey(scheduleID int, start time.Time) string {
	return fmt.Sprintf("%s%d:slot:%d", RedisSlotLockKeyPrefix, scheduleID, start.Unix())
}
