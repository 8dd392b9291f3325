package shelf

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kedare/bookworm/internal/logger"
)

// Stats tracks store usage for `db info` and debug logging.
type Stats struct {
	mu sync.RWMutex

	// Get lookups that found (hits) or missed a shelved book.
	hits   int64
	misses int64

	operations map[string]int64
	totalTime  map[string]time.Duration
	maxTime    map[string]time.Duration

	startTime time.Time
}

func newStats() *Stats {
	return &Stats{
		operations: make(map[string]int64),
		totalTime:  make(map[string]time.Duration),
		maxTime:    make(map[string]time.Duration),
		startTime:  time.Now(),
	}
}

func (s *Stats) recordHit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

func (s *Stats) recordMiss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}

func (s *Stats) recordOperation(op string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.operations[op]++
	s.totalTime[op] += duration

	if duration > s.maxTime[op] {
		s.maxTime[op] = duration
	}
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Hits       int64
	Misses     int64
	HitRate    float64
	Operations map[string]int64
	AvgTime    map[string]time.Duration
	MaxTime    map[string]time.Duration
	Uptime     time.Duration
}

// Snapshot returns a copy of the current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := StatsSnapshot{
		Hits:       s.hits,
		Misses:     s.misses,
		Operations: make(map[string]int64, len(s.operations)),
		AvgTime:    make(map[string]time.Duration, len(s.totalTime)),
		MaxTime:    make(map[string]time.Duration, len(s.maxTime)),
		Uptime:     time.Since(s.startTime),
	}

	if total := s.hits + s.misses; total > 0 {
		snapshot.HitRate = float64(s.hits) / float64(total)
	}

	for op, count := range s.operations {
		snapshot.Operations[op] = count
		snapshot.AvgTime[op] = s.totalTime[op] / time.Duration(count)
		snapshot.MaxTime[op] = s.maxTime[op]
	}

	return snapshot
}

// String returns a one-line summary.
func (s StatsSnapshot) String() string {
	if s.Hits == 0 && s.Misses == 0 && len(s.Operations) == 0 {
		return "Shelf stats: no operations"
	}

	return fmt.Sprintf("Shelf stats: lookups=%d found=%d found_rate=%.1f%% uptime=%v",
		s.Hits+s.Misses, s.Hits, s.HitRate*100, s.Uptime.Round(time.Second))
}

// OperationNames returns the recorded operation names in sorted order.
func (s StatsSnapshot) OperationNames() []string {
	names := make([]string, 0, len(s.Operations))
	for op := range s.Operations {
		names = append(names, op)
	}

	sort.Strings(names)

	return names
}

func (s *Stats) log() {
	snapshot := s.Snapshot()
	if len(snapshot.Operations) == 0 {
		return
	}

	logger.Log.Debug(snapshot.String())

	for _, op := range snapshot.OperationNames() {
		logger.Log.Debugf("  %s: count=%d avg=%v max=%v", op, snapshot.Operations[op],
			snapshot.AvgTime[op].Round(time.Microsecond), snapshot.MaxTime[op].Round(time.Microsecond))
	}
}

// Stats returns the store's statistics snapshot.
func (s *Store) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}
