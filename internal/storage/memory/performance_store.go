package memory

import (
	"context"
	"sort"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// PerformanceStore is an in-memory implementation of
// storage.PerformanceStore.
type PerformanceStore struct {
	mu   sync.RWMutex
	data map[string]*domain.KeywordPerformance // keyed by keyword_id
}

// NewPerformanceStore creates a new in-memory performance store.
func NewPerformanceStore() *PerformanceStore {
	return &PerformanceStore{
		data: make(map[string]*domain.KeywordPerformance),
	}
}

var _ storage.PerformanceStore = (*PerformanceStore)(nil)

// Upsert creates or replaces a keyword's performance snapshot.
func (s *PerformanceStore) Upsert(_ context.Context, p *domain.KeywordPerformance) error {
	if p == nil || p.KeywordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	perfCopy := copyPerformance(p)
	s.data[p.KeywordID] = perfCopy
	return nil
}

// GetByKeyword retrieves a snapshot. Returns ErrNotFound if not exists.
func (s *PerformanceStore) GetByKeyword(_ context.Context, keywordID string) (*domain.KeywordPerformance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[keywordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyPerformance(p), nil
}

// GetByBrand retrieves all snapshots for a brand, ordered by keyword_id ASC.
func (s *PerformanceStore) GetByBrand(_ context.Context, brandID string) ([]*domain.KeywordPerformance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordPerformance
	for _, p := range s.data {
		if p.BrandID == brandID {
			result = append(result, copyPerformance(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].KeywordID < result[j].KeywordID
	})

	return result, nil
}

// copyPerformance deep-copies a snapshot including the drivers slice.
func copyPerformance(p *domain.KeywordPerformance) *domain.KeywordPerformance {
	perfCopy := *p
	if p.RAGDrivers != nil {
		perfCopy.RAGDrivers = make([]string, len(p.RAGDrivers))
		copy(perfCopy.RAGDrivers, p.RAGDrivers)
	}
	return &perfCopy
}
