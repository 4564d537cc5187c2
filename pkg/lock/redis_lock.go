package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only if it still holds the token this
// process set, so a lock that expired and was reacquired by someone else is
// never torn down by a late unlock call.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// RedisLock implements a distributed mutual-exclusion lock over a single
// Redis key using SETNX-with-TTL and a compare-and-delete Lua unlock.
type RedisLock struct {
	client *redis.Client
}

// NewRedisLock builds a RedisLock backed by client.
func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

// Handle is a held lock's release token.
type Handle struct {
	key   string
	token string
}

// TryAcquire attempts to set key with a random token and the given TTL.
// It returns ok=false, without error, if the key is already held.
func (l *RedisLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Handle, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Handle{key: key, token: token}, true, nil
}

// Release deletes the lock key if and only if it still holds this handle's
// token.
func (l *RedisLock) Release(ctx context.Context, handle *Handle) error {
	if handle == nil {
		return nil
	}
	if err := l.client.Eval(ctx, releaseScript, []string{handle.key}, handle.token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", handle.key, err)
	}
	return nil
}
