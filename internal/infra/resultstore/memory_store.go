package resultstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

type resultRecord struct {
	payload   assessment.PredictionResult
	expiresAt time.Time
}

// MemoryStore is an in-memory ResultStore for tests/dev.
type MemoryStore struct {
	mu       sync.RWMutex
	results  map[string]resultRecord
	outcomes map[string]int64
	now      func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:  make(map[string]resultRecord),
		outcomes: make(map[string]int64),
		now:      time.Now,
	}
}

// GetResult implements assessment.ResultStore.
func (s *MemoryStore) GetResult(_ context.Context, key string) (assessment.PredictionResult, bool, error) {
	if key == "" {
		return assessment.PredictionResult{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.results[key]
	s.mu.RUnlock()
	if !ok {
		return assessment.PredictionResult{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.results, key)
		s.mu.Unlock()
		return assessment.PredictionResult{}, false, nil
	}
	return record.payload, true, nil
}

// SaveResult caches the result with optional TTL.
func (s *MemoryStore) SaveResult(_ context.Context, key string, result assessment.PredictionResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.results[key] = resultRecord{payload: result, expiresAt: exp}
	return nil
}

// IncrementOutcome bumps the counter for a risk level or failure.
func (s *MemoryStore) IncrementOutcome(_ context.Context, outcome string) error {
	if outcome == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[outcome]++
	return nil
}

// Outcomes returns a copy of every counter.
func (s *MemoryStore) Outcomes(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.outcomes))
	for k, v := range s.outcomes {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ assessment.ResultStore = (*MemoryStore)(nil)
