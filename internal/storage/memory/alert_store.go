package memory

import (
	"context"
	"sort"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// AlertStore is an in-memory implementation of storage.AlertStore.
type AlertStore struct {
	mu   sync.RWMutex
	data map[string]*domain.KeywordAlert // keyed by alert_id
}

// NewAlertStore creates a new in-memory alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		data: make(map[string]*domain.KeywordAlert),
	}
}

var _ storage.AlertStore = (*AlertStore)(nil)

// Insert adds an alert. Returns ErrDuplicateKey if alert_id exists.
func (s *AlertStore) Insert(_ context.Context, a *domain.KeywordAlert) error {
	if a == nil || a.AlertID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.AlertID]; exists {
		return storage.ErrDuplicateKey
	}

	alertCopy := *a
	s.data[a.AlertID] = &alertCopy
	return nil
}

// GetByBrand retrieves all alerts for a brand, ordered by created_at ASC.
func (s *AlertStore) GetByBrand(_ context.Context, brandID string) ([]*domain.KeywordAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordAlert
	for _, a := range s.data {
		if a.BrandID == brandID {
			alertCopy := *a
			result = append(result, &alertCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].AlertID < result[j].AlertID
	})

	return result, nil
}
