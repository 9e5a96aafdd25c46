package memory

import (
	"context"
	"sync"
	"time"

	"picklist/internal/domain/repository"
)

type TokenBlacklist struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{expires: make(map[string]time.Time)}
}

var _ repository.TokenBlacklist = (*TokenBlacklist)(nil)

func (b *TokenBlacklist) Invalidate(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expires[jti] = time.Now().Add(ttl)
	return nil
}

func (b *TokenBlacklist) IsInvalidated(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	expiry, ok := b.expires[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		// Entry outlived the token itself; drop it lazily.
		delete(b.expires, jti)
		return false, nil
	}
	return true, nil
}
