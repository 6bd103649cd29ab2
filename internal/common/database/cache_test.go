// internal/common/database/cache_test.go
package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCache_RoundTripAndMiss(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	ctx := context.Background()

	var got []string
	hit, err := GetJSON(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetJSON(ctx, rdb, "k", []string{"a", "b"}, time.Minute))
	hit, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, got)

	srv.FastForward(2 * time.Minute)
	hit, err = GetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestGetJSON_CorruptEntry(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	require.NoError(t, srv.Set("k", "{not json"))

	var got map[string]interface{}
	_, err := GetJSON(context.Background(), rdb, "k", &got)
	assert.Error(t, err)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "score:breakdown:42", BreakdownCacheKey("42"))
	assert.Equal(t, "ranking:top:v3:physics::composite:10", TopRankedCacheKey(3, "Physics", "", "composite", 10))
}
