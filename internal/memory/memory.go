// Package memory implements the four-layer state store: session KV,
// performance log, pattern ledger, and task-solution index.
package memory

import (
	"sync"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// Performance log cap. On overflow the newest half is retained.
const (
	maxPerformanceRecords  = 1000
	keepPerformanceRecords = 500
)

// Store holds the engine's mutable memory. Session data lives only for
// the process; the other three layers are covered by Save/Load snapshots.
type Store struct {
	mu sync.RWMutex
	// session is per-process key/value scratch space; never persisted.
	session map[string]any
	// performance is the capped append-only performance log.
	performance []models.PerformanceRecord
	// patterns is the deduplicated pattern ledger keyed by pattern key.
	patterns map[string]*models.Pattern
	// patternOrder preserves discovery order for listing.
	patternOrder []string
	// solutions is the task-solution index.
	solutions []models.TaskSolution
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		session:  make(map[string]any),
		patterns: make(map[string]*models.Pattern),
	}
}

// SetSession stores a per-process session value.
func (s *Store) SetSession(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session[key] = value
}

// Session returns a session value and whether it exists.
func (s *Store) Session(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.session[key]
	return v, ok
}

// AppendPerformance appends a record to the performance log. When the log
// exceeds the cap, only the newest records are retained; the truncation is
// atomic with respect to readers.
func (s *Store) AppendPerformance(rec models.PerformanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.performance = append(s.performance, rec)
	if len(s.performance) > maxPerformanceRecords {
		tail := s.performance[len(s.performance)-keepPerformanceRecords:]
		s.performance = append([]models.PerformanceRecord(nil), tail...)
	}
}

// PerformanceLog returns a copy of the performance log.
func (s *Store) PerformanceLog() []models.PerformanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PerformanceRecord(nil), s.performance...)
}

// ClusterAvgDuration returns the average duration in milliseconds across
// all performance records for a cluster, and whether any records exist.
func (s *Store) ClusterAvgDuration(cluster string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	count := 0
	for _, rec := range s.performance {
		if rec.Cluster == cluster {
			sum += rec.Duration
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// RecordPattern records a pattern occurrence. New keys create a ledger
// entry; existing keys increment AppliedCount and refresh LastApplied and
// the auxiliary fields.
func (s *Store) RecordPattern(key, optimization string, quality, avgDuration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p, ok := s.patterns[key]; ok {
		p.AppliedCount++
		p.LastApplied = &now
		p.Quality = quality
		p.AvgDuration = avgDuration
		return
	}

	s.patterns[key] = &models.Pattern{
		Key:          key,
		Optimization: optimization,
		DiscoveredAt: now,
		AppliedCount: 1,
		Quality:      quality,
		AvgDuration:  avgDuration,
	}
	s.patternOrder = append(s.patternOrder, key)
}

// Pattern returns the ledger entry for a key, or nil.
func (s *Store) Pattern(key string) *models.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.patterns[key]; ok {
		clone := *p
		return &clone
	}
	return nil
}

// Patterns returns the ledger entries in discovery order.
func (s *Store) Patterns() []models.Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Pattern, 0, len(s.patternOrder))
	for _, key := range s.patternOrder {
		out = append(out, *s.patterns[key])
	}
	return out
}

// StoreSolution appends a task solution to the index.
func (s *Store) StoreSolution(sol models.TaskSolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sol.Embedding == nil {
		sol.Embedding = []float64{}
	}
	s.solutions = append(s.solutions, sol)
}

// Solutions returns a copy of the task-solution index.
func (s *Store) Solutions() []models.TaskSolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TaskSolution(nil), s.solutions...)
}

// Sizes returns the entry counts of the persisted layers:
// performance log, pattern ledger, and solution index.
func (s *Store) Sizes() (performance, patterns, solutions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.performance), len(s.patterns), len(s.solutions)
}
