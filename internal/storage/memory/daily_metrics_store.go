package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

type dailyKey struct {
	keywordID string
	date      string // YYYY-MM-DD
}

// DailyMetricsStore is an in-memory implementation of
// storage.DailyMetricsStore.
type DailyMetricsStore struct {
	mu   sync.RWMutex
	data map[dailyKey]*domain.KeywordMetricsDaily
}

// NewDailyMetricsStore creates a new in-memory daily metrics store.
func NewDailyMetricsStore() *DailyMetricsStore {
	return &DailyMetricsStore{
		data: make(map[dailyKey]*domain.KeywordMetricsDaily),
	}
}

var _ storage.DailyMetricsStore = (*DailyMetricsStore)(nil)

func keyFor(r *domain.KeywordMetricsDaily) dailyKey {
	return dailyKey{keywordID: r.KeywordID, date: r.Date.UTC().Format("2006-01-02")}
}

// InsertBulk adds multiple rows. Fails entire batch on duplicate
// (keyword_id, date); nothing is written on failure.
func (s *DailyMetricsStore) InsertBulk(_ context.Context, rows []*domain.KeywordMetricsDaily) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything
	seen := make(map[dailyKey]bool, len(rows))
	for _, r := range rows {
		if r == nil || r.KeywordID == "" {
			return storage.ErrInvalidInput
		}
		k := keyFor(r)
		if seen[k] {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = true
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[keyFor(r)] = &rowCopy
	}
	return nil
}

// GetByKeyword retrieves all rows for a keyword, ordered by date ASC.
func (s *DailyMetricsStore) GetByKeyword(_ context.Context, keywordID string) ([]*domain.KeywordMetricsDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordMetricsDaily
	for _, r := range s.data {
		if r.KeywordID == keywordID {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetByKeywordRange retrieves rows for a keyword within [start, end]
// (inclusive), ordered by date ASC.
func (s *DailyMetricsStore) GetByKeywordRange(_ context.Context, keywordID string, start, end time.Time) ([]*domain.KeywordMetricsDaily, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordMetricsDaily
	for _, r := range s.data {
		if r.KeywordID != keywordID {
			continue
		}
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		rowCopy := *r
		result = append(result, &rowCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}
