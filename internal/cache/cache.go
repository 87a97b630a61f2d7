// Package cache provides the key/value store backing the read-through
// repository layer and the token version/blacklist stores. Values are JSON
// serialized. Backend failures never propagate to callers: a failed read is
// a miss, a failed write reports false, and both are logged. When no Redis
// client is configured the store falls back to an in-process map.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the store contract used across the application. Get unmarshals
// the cached value into dest and reports whether the key was present. A ttl
// of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	Del(ctx context.Context, key string) bool
	DelPrefix(ctx context.Context, prefix string) bool
	Flush(ctx context.Context) bool
}

// New returns a Redis-backed cache when rdb is non-nil, otherwise the
// in-memory fallback.
func New(rdb *redis.Client) Cache {
	if rdb != nil {
		return &redisCache{rdb: rdb}
	}
	log.Printf("cache: redis not configured, using in-memory store")
	return NewMemory()
}

type redisCache struct{ rdb *redis.Client }

func (c *redisCache) Get(ctx context.Context, key string, dest any) bool {
	bs, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache: get %q failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		log.Printf("cache: decode %q failed: %v", key, err)
		return false
	}
	return true
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	bs, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: encode %q failed: %v", key, err)
		return false
	}
	if ttl > 0 {
		err = c.rdb.SetEx(ctx, key, bs, ttl).Err()
	} else {
		err = c.rdb.Set(ctx, key, bs, 0).Err()
	}
	if err != nil {
		log.Printf("cache: set %q failed: %v", key, err)
		return false
	}
	return true
}

func (c *redisCache) Del(ctx context.Context, key string) bool {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("cache: del %q failed: %v", key, err)
		return false
	}
	return true
}

// DelPrefix removes every key starting with prefix. SCAN keeps the sweep
// incremental so large keyspaces never block Redis the way KEYS would.
func (c *redisCache) DelPrefix(ctx context.Context, prefix string) bool {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	ok := true
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("cache: del %q failed: %v", iter.Val(), err)
			ok = false
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: scan %q failed: %v", prefix, err)
		return false
	}
	return ok
}

func (c *redisCache) Flush(ctx context.Context) bool {
	if err := c.rdb.FlushAll(ctx).Err(); err != nil {
		log.Printf("cache: flush failed: %v", err)
		return false
	}
	return true
}

// Memory is the in-process fallback store. Entries live until explicitly
// deleted or process restart: TTLs are accepted but not enforced.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

func (c *Memory) Get(_ context.Context, key string, dest any) bool {
	c.mu.RLock()
	bs, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		log.Printf("cache: decode %q failed: %v", key, err)
		return false
	}
	return true
}

func (c *Memory) Set(_ context.Context, key string, value any, _ time.Duration) bool {
	bs, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: encode %q failed: %v", key, err)
		return false
	}
	c.mu.Lock()
	c.m[key] = bs
	c.mu.Unlock()
	return true
}

func (c *Memory) Del(_ context.Context, key string) bool {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return true
}

func (c *Memory) DelPrefix(_ context.Context, prefix string) bool {
	c.mu.Lock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
	return true
}

func (c *Memory) Flush(_ context.Context) bool {
	c.mu.Lock()
	c.m = make(map[string][]byte)
	c.mu.Unlock()
	return true
}
