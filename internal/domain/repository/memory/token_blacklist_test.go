package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistInvalidate(t *testing.T) {
	b := NewTokenBlacklist()
	ctx := context.Background()

	invalidated, err := b.IsInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, b.Invalidate(ctx, "jti-1", time.Hour))

	invalidated, err = b.IsInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, invalidated)

	// Invalidation is idempotent.
	require.NoError(t, b.Invalidate(ctx, "jti-1", time.Hour))
}

func TestBlacklistEntryExpires(t *testing.T) {
	b := NewTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, b.Invalidate(ctx, "jti-1", -time.Second))

	// TTL already elapsed: the token's own expiry has passed, so the
	// entry no longer matters.
	invalidated, err := b.IsInvalidated(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, invalidated)
}
