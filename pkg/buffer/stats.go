package buffer

import (
	"fmt"
	"sync/atomic"
)

// Stats tracks buffer pool performance counters.
//
// All counters are atomic so concurrent fetches never contend on a lock
// to bump them. Reads across counters are not coherent with each other:
// a snapshot taken mid-fetch may see the miss counted but not the page
// read. That is fine for monitoring.
type Stats struct {
	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	evictions    atomic.Uint64
	pagesRead    atomic.Uint64
	pagesWritten atomic.Uint64
}

// NewStats creates a stats tracker with all counters at zero
func NewStats() *Stats {
	return &Stats{}
}

// HitRate returns the cache hit rate in [0.0, 1.0], 0 when no fetches
// have happened yet
func (s *Stats) HitRate() float64 {
	hits := s.cacheHits.Load()
	total := hits + s.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Snapshot returns a plain copy of the counters for display or logging
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  s.cacheMisses.Load(),
		Evictions:    s.evictions.Load(),
		PagesRead:    s.pagesRead.Load(),
		PagesWritten: s.pagesWritten.Load(),
	}
}

// Reset sets all counters back to zero
func (s *Stats) Reset() {
	s.cacheHits.Store(0)
	s.cacheMisses.Store(0)
	s.evictions.Store(0)
	s.pagesRead.Store(0)
	s.pagesWritten.Store(0)
}

// StatsSnapshot is a point-in-time copy of buffer pool statistics
type StatsSnapshot struct {
	CacheHits    uint64
	CacheMisses  uint64
	Evictions    uint64
	PagesRead    uint64
	PagesWritten uint64
}

// HitRate returns the cache hit rate in [0.0, 1.0]
func (ss StatsSnapshot) HitRate() float64 {
	total := ss.CacheHits + ss.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(ss.CacheHits) / float64(total)
}

// String formats the snapshot for logs
func (ss StatsSnapshot) String() string {
	return fmt.Sprintf("Stats{hits: %d, misses: %d, evictions: %d, hit_rate: %.2f%%}",
		ss.CacheHits, ss.CacheMisses, ss.Evictions, ss.HitRate()*100)
}
