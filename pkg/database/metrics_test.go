package database

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(nil, "test-service")

	ch := make(chan *prometheus.Desc, 10)
	c.Describe(ch)
	close(ch)

	var names []string
	for d := range ch {
		names = append(names, d.String())
	}
	require.Len(t, names, 6)
	assert.Contains(t, names[0], "redis_pool_hits_total")
	assert.Contains(t, names[5], "redis_pool_stale_connections_total")
}

func TestPoolStatsCollector_Collect(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, PingRedis(context.Background(), client))

	c := NewPoolStatsCollector(client, "test-service")
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	expected := `
# HELP redis_pool_total_connections Number of connections in the pool
# TYPE redis_pool_total_connections gauge
redis_pool_total_connections{service="test-service"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "redis_pool_total_connections"))
}

func TestRegisterPoolMetrics_Twice(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, RegisterPoolMetrics(client, "test-service"))
	assert.NoError(t, RegisterPoolMetrics(client, "test-service"))
}
