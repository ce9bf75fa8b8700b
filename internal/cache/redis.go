package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces everything this application writes into Redis.
const keyPrefix = "sgcache:"

func init() {
	Register("redis", newRedisCache)
}

// redisCache is the shared backend for deployments where several instances
// serve the same catalogs and should share payloads and scraped pages.
//
// Needs Redis 7.4+ or Valkey 8+ for per-field hash TTL (HPEXPIRE). On
// older servers Set still stores but nothing expires.
//
// The whole cache occupies two Redis keys no matter how many entries it
// holds:
//
//   - {prefix}data: a hash, field = cache key, value = payload bytes.
//     Fields carry their own TTL via HPEXPIRE so the server drops expired
//     entries on its own.
//   - {prefix}lru: a sorted set ordering cache keys by last access
//     (score = access timestamp in microseconds).
//
// Get and Set each run as one Lua script so touch-on-read and
// write-plus-evict stay atomic across instances. Sorted-set members whose
// hash field already expired are swept during eviction.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	dataKey string
	lruKey  string
}

// touchGet reads a hash field and, on hit, bumps its access score.
//
// KEYS[1] = data hash, KEYS[2] = access sorted set
// ARGV[1] = current timestamp (µs), ARGV[2] = cache key
//
// Yields the stored value, or nil when the field is absent or expired.
var touchGet = redis.NewScript(`
local val = redis.call('HGET', KEYS[1], ARGV[2])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// writeEvict stores a hash field with its own TTL, bumps its access score,
// and pops least-recently-used entries while the cache is over capacity.
//
// KEYS[1] = data hash, KEYS[2] = access sorted set
// ARGV[1] = value, ARGV[2] = current timestamp (µs), ARGV[3] = cache key,
// ARGV[4] = capacity, ARGV[5] = TTL in milliseconds
//
// Yields the evicted cache keys, possibly none.
var writeEvict = redis.NewScript(`
local member   = ARGV[3]
local capacity = tonumber(ARGV[4])
local ttlMs    = tonumber(ARGV[5])

redis.call('HSET', KEYS[1], member, ARGV[1])
redis.call('HPEXPIRE', KEYS[1], ttlMs, 'FIELDS', 1, member)
redis.call('ZADD', KEYS[2], ARGV[2], member)

-- Pop oldest members until under capacity. HDEL on an already-expired
-- field is a no-op, which also sweeps stale sorted-set members.
local size = redis.call('ZCARD', KEYS[2])
local evicted = {}
while size > capacity do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    local oldMember = oldest[1]
    redis.call('HDEL', KEYS[1], oldMember)
    table.insert(evicted, oldMember)
    size = size - 1
end

return evicted
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		dataKey: keyPrefix + "data",
		lruKey:  keyPrefix + "lru",
	}, nil
}

func (r *redisCache) keys() []string {
	return []string{r.dataKey, r.lruKey}
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	result, err := touchGet.Run(ctx, r.client, r.keys(), now, key).Text()
	if err != nil {
		// redis.Nil is an ordinary miss.
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	now := strconv.FormatInt(time.Now().UnixMicro(), 10)
	capacity := strconv.Itoa(r.maxSize)
	ttlMs := strconv.FormatInt(r.ttl.Milliseconds(), 10)

	evicted, err := writeEvict.Run(ctx, r.client, r.keys(),
		value, now, key, capacity, ttlMs,
	).StringSlice()
	if err != nil {
		r.logError("redis cache Set failed", err)
		return
	}

	if r.onEvict != nil {
		// The evicted values are gone from Redis at this point, so the
		// callback only gets the key.
		for _, evictedKey := range evicted {
			r.onEvict(evictedKey, nil)
		}
	}
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	present, err := r.client.HExists(ctx, r.dataKey, key).Result()
	if err != nil {
		r.logError("redis cache Contains failed", err)
	}
	return err == nil && present
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := r.client.HLen(ctx, r.dataKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
