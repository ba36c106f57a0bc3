package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"automatosx/internal/config"
	"automatosx/internal/storage"
)

// Cache is the two-tier response cache from spec §4.6. L1 is an
// in-process LRU; L2 is a sqlite-backed key/value store shared with the
// rest of the application's persistent storage. When disabled, Get always
// misses and Put is a no-op, so callers never need to branch on whether
// caching is turned on.
type Cache struct {
	enabled bool
	ttl     time.Duration
	maxSize int

	mu sync.Mutex
	l1 *lru.Cache[string, *Entry]
	l2 *storage.DB

	log zerolog.Logger
}

// New builds a Cache from cfg. When cfg.Enabled is false, db may be nil;
// the returned Cache is a permanent no-op.
func New(cfg config.CacheConfig, db *storage.DB, log zerolog.Logger) (*Cache, error) {
	c := &Cache{
		enabled: cfg.Enabled,
		ttl:     time.Duration(cfg.TTLSeconds) * time.Second,
		maxSize: cfg.MaxSize,
		l2:      db,
		log:     log.With().Str("component", "response_cache").Logger(),
	}
	if !cfg.Enabled {
		return c, nil
	}

	memSize := cfg.MaxMemorySize
	if memSize <= 0 {
		memSize = 500
	}
	l1, err := lru.New[string, *Entry](memSize)
	if err != nil {
		return nil, err
	}
	c.l1 = l1

	if db != nil {
		if n, err := db.KVCleanExpired(); err != nil {
			c.log.Warn().Err(err).Msg("response cache: startup sweep failed")
		} else if n > 0 {
			c.log.Debug().Int64("evicted", n).Msg("response cache: startup sweep")
		}
	}
	return c, nil
}

// Get looks up params in L1 then L2, returning the cached content and
// true on a hit. A disabled cache always misses.
func (c *Cache) Get(params Params) (string, bool) {
	if !c.enabled {
		return "", false
	}
	key, err := KeyFor(params)
	if err != nil {
		return "", false
	}

	c.mu.Lock()
	if entry, ok := c.l1.Get(key); ok {
		c.mu.Unlock()
		if time.Now().Before(entry.ExpiresAt) {
			return entry.Content, true
		}
		c.mu.Lock()
		c.l1.Remove(key)
		c.mu.Unlock()
		return "", false
	}
	c.mu.Unlock()

	if c.l2 == nil {
		return "", false
	}
	value, err := c.l2.KVGet(key)
	if err != nil {
		return "", false
	}

	c.mu.Lock()
	c.l1.Add(key, &Entry{Key: key, Content: value, ExpiresAt: time.Now().Add(c.ttl)})
	c.mu.Unlock()
	return value, true
}

// Put stores content for params in both tiers. A disabled cache is a
// no-op. L2 insertion triggers an opportunistic eviction down to 80% of
// capacity when the entry count exceeds maxSize.
func (c *Cache) Put(params Params, content string) {
	if !c.enabled {
		return
	}
	key, err := KeyFor(params)
	if err != nil {
		return
	}

	now := time.Now()
	entry := &Entry{Key: key, Content: content, CreatedAt: now, ExpiresAt: now.Add(c.ttl)}

	c.mu.Lock()
	c.l1.Add(key, entry)
	c.mu.Unlock()

	if c.l2 == nil {
		return
	}
	if err := c.l2.KVSet(key, content, c.ttl); err != nil {
		c.log.Warn().Err(err).Msg("response cache: L2 write failed")
		return
	}
	c.evictIfOverCapacity()
}

// evictionTargetFraction is how far over-capacity eviction trims back to,
// per spec §4.6: "evict L2 oldest-first down to 80% of capacity".
const evictionTargetFraction = 0.8

func (c *Cache) evictIfOverCapacity() {
	if c.l2 == nil || c.maxSize <= 0 {
		return
	}
	if _, err := c.l2.KVCleanExpired(); err != nil {
		c.log.Warn().Err(err).Msg("response cache: eviction sweep failed")
	}

	count, err := c.l2.KVCount("")
	if err != nil || count <= c.maxSize {
		return
	}

	target := int(float64(c.maxSize) * evictionTargetFraction)
	excess := count - target
	if excess <= 0 {
		return
	}
	if _, err := c.l2.Exec(
		`DELETE FROM kv_store WHERE key IN (
			SELECT key FROM kv_store ORDER BY expires_at ASC LIMIT ?
		)`, excess,
	); err != nil {
		c.log.Warn().Err(err).Msg("response cache: capacity eviction failed")
	}
}

// Enabled reports whether the cache is active.
func (c *Cache) Enabled() bool { return c.enabled }
