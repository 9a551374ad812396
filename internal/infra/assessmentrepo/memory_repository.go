package assessmentrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

// MemoryRepository is an in-memory assessment.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]assessment.Assessment
	order   []uuid.UUID
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]assessment.Assessment),
	}
}

// Insert implements assessment.Repository.
func (r *MemoryRepository) Insert(_ context.Context, record assessment.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.ID]; !exists {
		r.order = append(r.order, record.ID)
	}
	r.records[record.ID] = cloneAssessment(record)
	return nil
}

// Get implements assessment.Repository.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (assessment.Assessment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return assessment.Assessment{}, false, nil
	}
	return cloneAssessment(record), true, nil
}

// Recent returns up to limit assessments, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]assessment.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]assessment.Assessment, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		items = append(items, cloneAssessment(r.records[r.order[i]]))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func cloneAssessment(record assessment.Assessment) assessment.Assessment {
	record.Report.Recommendations = append([]assessment.Recommendation(nil), record.Report.Recommendations...)
	return record
}

var _ assessment.Repository = (*MemoryRepository)(nil)
