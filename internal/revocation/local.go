package revocation

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 16

// LocalCache is the in-process tier: a sharded, size-capped, lazily-expiring
// map. Sharding keeps concurrent request-handling goroutines from serialising
// on a single lock.
type LocalCache struct {
	shards [shardCount]*shard
}

type shard struct {
	mu    sync.RWMutex
	items map[string]entry
	cap   int
}

type entry struct {
	revoked   bool
	expiresAt time.Time
}

// NewLocalCache builds a cache holding at most capacity entries across all
// shards. A non-positive capacity falls back to 10000.
func NewLocalCache(capacity int) *LocalCache {
	if capacity <= 0 {
		capacity = 10000
	}
	perShard := capacity / shardCount
	if perShard < 1 {
		perShard = 1
	}

	c := &LocalCache{}
	for i := range c.shards {
		c.shards[i] = &shard{
			items: make(map[string]entry, perShard),
			cap:   perShard,
		}
	}
	return c
}

func (c *LocalCache) shardFor(token string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return c.shards[h.Sum32()%shardCount]
}

func (c *LocalCache) Get(_ context.Context, token string) (bool, bool, error) {
	s := c.shardFor(token)

	s.mu.RLock()
	e, ok := s.items[token]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return false, false, nil
	}
	return e.revoked, true, nil
}

func (c *LocalCache) Set(_ context.Context, token string, revoked bool, ttl time.Duration) error {
	s := c.shardFor(token)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[token]; !exists && len(s.items) >= s.cap {
		s.evictLocked(now)
	}
	s.items[token] = entry{revoked: revoked, expiresAt: now.Add(ttl)}
	return nil
}

// evictLocked frees one slot: expired entries first, otherwise the entry
// closest to expiry. Caller holds the shard lock.
func (s *shard) evictLocked(now time.Time) {
	var oldestKey string
	var oldestAt time.Time

	for k, e := range s.items {
		if now.After(e.expiresAt) {
			delete(s.items, k)
			return
		}
		if oldestKey == "" || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.expiresAt
		}
	}
	if oldestKey != "" {
		delete(s.items, oldestKey)
	}
}

// Len reports the total number of entries across shards, expired included.
func (c *LocalCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

var _ Tier = (*LocalCache)(nil)
