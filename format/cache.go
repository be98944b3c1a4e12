package format

import (
	"sync"

	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/internal/hash"
)

// Cache memoizes CompiledDecoders keyed by the xxHash64 of their format
// string, so distinct MessageSchemas that happen to share a format string
// (and no per-field scale override) share one CompiledDecoder instance
//.
//
// Adapted from the teacher's internal/collision.Tracker: the same
// hash-then-verify pattern used there to detect metric-name hash
// collisions is used here to detect format-string hash collisions.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	formatString string
	decoder      *CompiledDecoder
}

// NewCache creates an empty compiled-decoder cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]cacheEntry)}
}

// Get returns the cached CompiledDecoder for formatString, compiling and
// storing it on first use. Only format strings with no per-field scale
// override are eligible for caching; callers with a FMTU/FUNIT override
// should call Compile directly instead.
//
// Returns errs.ErrFormatStringCacheCollision if formatString hashes to the
// same key as a different, already-cached format string.
func (c *Cache) Get(formatString string) (*CompiledDecoder, error) {
	key := hash.ID(formatString)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if entry.formatString != formatString {
			return nil, errs.ErrFormatStringCacheCollision
		}

		return entry.decoder, nil
	}

	decoder, err := Compile(formatString, nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		if existing.formatString != formatString {
			return nil, errs.ErrFormatStringCacheCollision
		}

		return existing.decoder, nil
	}

	c.entries[key] = cacheEntry{formatString: formatString, decoder: decoder}

	return decoder, nil
}

// Len returns the number of distinct format strings currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
