// utils/cache.go
package utils

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB is the shared redis client. It stays nil when REDIS_ADDR is unset and
// every cache helper degrades to a miss, so redis is strictly optional.
var RDB *redis.Client

const AvailableGamesKey = "games:available"

// InitRedis connects the optional cache. A failed ping is logged, not fatal:
// the service works without redis, only slower on hot listings.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️  REDIS_ADDR not set — available-games cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  redis unreachable at %s (%v) — cache disabled", addr, err)
		return
	}

	RDB = client
	log.Printf("✅ Redis cache connected at %s", addr)
}

// CacheGetIDs loads a cached []int64 list, reporting a miss when the cache
// is disabled, the key is absent, or the payload does not parse.
func CacheGetIDs(ctx context.Context, key string) ([]int64, bool) {
	if RDB == nil {
		return nil, false
	}
	raw, err := RDB.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// CacheSetIDs stores a []int64 list with a TTL. Errors are swallowed; the
// cache is best effort.
func CacheSetIDs(ctx context.Context, key string, ids []int64, ttl time.Duration) {
	if RDB == nil {
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := RDB.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("⚠️  cache set failed for %s: %v", key, err)
	}
}

// CacheInvalidate drops a key after a mutation that makes it stale.
func CacheInvalidate(ctx context.Context, key string) {
	if RDB == nil {
		return
	}
	if err := RDB.Del(ctx, key).Err(); err != nil {
		log.Printf("⚠️  cache invalidate failed for %s: %v", key, err)
	}
}
