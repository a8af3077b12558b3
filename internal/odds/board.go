package odds

import (
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/paddock/internal/metrics"
)

// Board caches priced packs per race so repeated quotes for the same card do
// not reprice it.
type Board struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewBoard creates an odds board
func NewBoard(ttl time.Duration) *Board {
	return &Board{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves the pack for a race
func (b *Board) Get(raceID uuid.UUID) (*Pack, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item, found := b.cache.Get(raceID.String()); found {
		if pack, ok := item.(*Pack); ok {
			b.hitCount++
			metrics.RecordOddsCacheLookup(true)
			return pack, true
		}
	}

	b.missCount++
	metrics.RecordOddsCacheLookup(false)
	return nil, false
}

// Put stores the pack for a race
func (b *Board) Put(raceID uuid.UUID, pack *Pack) {
	b.cache.Set(raceID.String(), pack, b.ttl)
}

// Invalidate drops a race once it has been run
func (b *Board) Invalidate(raceID uuid.UUID) {
	b.cache.Delete(raceID.String())
}

// Clear flushes the board
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Flush()
	b.hitCount = 0
	b.missCount = 0
}

// Stats returns board statistics
func (b *Board) Stats() (hits, misses uint64, ratio float64) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	hits = b.hitCount
	misses = b.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of cached packs
func (b *Board) ItemCount() int {
	return b.cache.ItemCount()
}
