package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, PingRedis(context.Background(), client))

	mr.Close()
	err := PingRedis(context.Background(), client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
