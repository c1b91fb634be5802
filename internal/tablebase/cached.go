package tablebase

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/kestrelchess/engine/internal/board"
)

// CachedProber wraps another prober with a ristretto admission-policy cache,
// so repeated probes of shallow, frequently-visited endgame positions don't
// repay the inner prober's cost every time.
type CachedProber struct {
	inner  Prober
	cache  *ristretto.Cache[uint64, ProbeResult]
	hits   uint64
	misses uint64
}

// NewCachedProber creates a cached prober wrapping the given prober.
// cacheSize is the approximate number of entries the cache should hold.
func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, ProbeResult]{
		NumCounters: int64(cacheSize) * 10,
		MaxCost:     int64(cacheSize),
		BufferItems: 64,
	})
	if err != nil {
		// Cache construction only fails on misconfiguration; fall back to
		// an always-miss cache rather than let a probe-side concern abort
		// the engine.
		cache = nil
	}
	return &CachedProber{inner: inner, cache: cache}
}

func (cp *CachedProber) Probe(pos *board.Position) ProbeResult {
	if cp.cache != nil {
		if result, ok := cp.cache.Get(pos.Hash); ok {
			cp.hits++
			return result
		}
	}

	result := cp.inner.Probe(pos)
	cp.misses++
	if cp.cache != nil {
		cp.cache.Set(pos.Hash, result, 1)
	}
	return result
}

func (cp *CachedProber) ProbeRoot(pos *board.Position) RootResult {
	// Root probing is not cached (needs move info).
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	total := cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}

// Clear drops all cached entries.
func (cp *CachedProber) Clear() {
	if cp.cache != nil {
		cp.cache.Clear()
	}
	cp.hits, cp.misses = 0, 0
}
