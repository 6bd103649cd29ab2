// internal/common/database/cache.go
package database

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	breakdownKeyPrefix = "score:breakdown:"
	topRankedKeyPrefix = "ranking:top:"
)

// BreakdownCacheKey is the cache entry for one application's criterion breakdown.
func BreakdownCacheKey(applicationID string) string {
	return breakdownKeyPrefix + applicationID
}

// TopRankedCacheKey embeds the ranking version so a refresh retires every cached page.
func TopRankedCacheKey(version int64, department, position, sortBy string, limit int) string {
	return fmt.Sprintf("%sv%d:%s:%s:%s:%d", topRankedKeyPrefix, version,
		strings.ToLower(department), strings.ToLower(position), sortBy, limit)
}

// GetJSON decodes the cached value at key into dst. A miss returns false with no error.
func GetJSON(ctx context.Context, rdb redis.Cmdable, key string, dst interface{}) (bool, error) {
	val, err := rdb.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, rdb redis.Cmdable, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}
