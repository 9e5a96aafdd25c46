package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records tokens (by jti claim) that were invalidated before
// their natural expiry. Invalidation is terminal: there is no way to remove
// an entry other than letting its TTL elapse alongside the token's own
// expiry.
type TokenBlacklist interface {
	Invalidate(ctx context.Context, jti string, ttl time.Duration) error
	IsInvalidated(ctx context.Context, jti string) (bool, error)
}

const blacklistKeyPrefix = "token_blacklist:"

type redisTokenBlacklist struct {
	rdb *redis.Client
}

func NewRedisTokenBlacklist(rdb *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{rdb: rdb}
}

func (b *redisTokenBlacklist) Invalidate(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.rdb.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redisTokenBlacklist.Invalidate: %w", err)
	}
	return nil
}

func (b *redisTokenBlacklist) IsInvalidated(ctx context.Context, jti string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redisTokenBlacklist.IsInvalidated: %w", err)
	}
	return n > 0, nil
}
