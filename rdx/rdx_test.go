package rdx

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedKey(t *testing.T) {
	assert.Equal(t, "auth:revoked:9b1c", revokedKey("9b1c"))
}

func TestRevokeSkipsExpiredTokens(t *testing.T) {
	// no server is listening here, so any round trip would fail
	s := NewTokenStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	require.NoError(t, s.Revoke(context.Background(), "gone", 0))
	require.NoError(t, s.Revoke(context.Background(), "gone", -time.Second))
}

func TestUnreachableRedisIsAnError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s := NewTokenStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))

	_, err := s.IsRevoked(ctx, "abc")
	assert.Error(t, err)
	_, err = Connect(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
