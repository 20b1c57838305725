package runner

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/highwayhash"

	"github.com/gnana997/cssinterop/pkg/parser"
)

// hashKey is the fixed HighwayHash key. Hashes only need to be stable
// within a process.
var hashKey = []byte("cssinterop:content-hash:00000000")

// ContentHash returns the 64-bit HighwayHash of data.
func ContentHash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// only fails for a key that is not 32 bytes long
		panic(fmt.Sprintf("highwayhash: %v", err))
	}
	_, _ = h.Write(data)
	return h.Sum64()
}

// DefaultCacheSize is the number of outcomes kept by NewResultCache(0).
const DefaultCacheSize = 1024

// ResultCache memoizes outcomes by filename and content, so unchanged files
// are not parsed again in watch and serve mode. It is safe for concurrent
// use.
type ResultCache struct {
	entries *lru.Cache[string, *Outcome]
	logger  *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewResultCache creates a cache holding up to size outcomes.
func NewResultCache(size int, logger *slog.Logger) (*ResultCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &ResultCache{logger: logger}
	entries, err := lru.NewWithEvict(size, func(key string, _ *Outcome) {
		c.evictions.Add(1)
		logger.Debug("LRU evicting result", "key", key)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

func cacheKey(filename string, lang parser.Language, hash uint64) string {
	return filename + "\x00" + lang.String() + "\x00" + strconv.FormatUint(hash, 16)
}

// Get returns the outcome stored for filename parsed as lang with the given
// content hash.
func (c *ResultCache) Get(filename string, lang parser.Language, hash uint64) (*Outcome, bool) {
	if c == nil {
		return nil, false
	}
	out, ok := c.entries.Get(cacheKey(filename, lang, hash))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return out, ok
}

// Add stores an outcome. Outcomes must not be modified afterwards.
func (c *ResultCache) Add(out *Outcome) {
	if c == nil {
		return
	}
	c.entries.Add(cacheKey(out.Path, out.Language, out.Hash), out)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// GetStats returns current counters.
func (c *ResultCache) GetStats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	return CacheStats{
		Entries:   c.entries.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
