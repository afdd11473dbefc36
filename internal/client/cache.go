package client

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Spok95/estoque/internal/domain/employees"
)

// Cache stores employees by badge for EmployeeDirectory.
type Cache interface {
	Get(ctx context.Context, badge employees.Badge) (Employee, bool, error)
	Set(ctx context.Context, e Employee) error
}

// cacheKey folds badges that compare equal ("002" and "2") onto one key.
func cacheKey(b employees.Badge) string {
	s := strings.TrimSpace(string(b))
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return strconv.FormatUint(n, 10)
	}
	return s
}

type memoEntry struct {
	e       Employee
	expires time.Time // zero: never
}

// MemoryCache is an in-process memo. A zero TTL keeps entries forever.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoEntry
}

func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: ttl, now: now, entries: map[string]memoEntry{}}
}

func (c *MemoryCache) Get(_ context.Context, badge employees.Badge) (Employee, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey(badge)
	ent, ok := c.entries[k]
	if !ok {
		return Employee{}, false, nil
	}
	if !ent.expires.IsZero() && !c.now().Before(ent.expires) {
		delete(c.entries, k)
		return Employee{}, false, nil
	}
	return ent.e, true, nil
}

func (c *MemoryCache) Set(_ context.Context, e Employee) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent := memoEntry{e: e}
	if c.ttl > 0 {
		ent.expires = c.now().Add(c.ttl)
	}
	c.entries[cacheKey(e.Badge)] = ent
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache shares the memo between CLI runs and hosts.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func redisKey(b employees.Badge) string { return "estoque:funcionario:" + cacheKey(b) }

func (c *RedisCache) Get(ctx context.Context, badge employees.Badge) (Employee, bool, error) {
	b, err := c.rdb.Get(ctx, redisKey(badge)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, err
	}
	var e Employee
	if err := json.Unmarshal(b, &e); err != nil {
		return Employee{}, false, err
	}
	return e, true, nil
}

func (c *RedisCache) Set(ctx context.Context, e Employee) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, redisKey(e.Badge), b, c.ttl).Err()
}
