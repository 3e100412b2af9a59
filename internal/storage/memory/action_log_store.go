package memory

import (
	"context"
	"sort"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// ActionLogStore is an in-memory implementation of storage.ActionLogStore.
type ActionLogStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ActionLogEntry // keyed by entry_id
}

// NewActionLogStore creates a new in-memory action log store.
func NewActionLogStore() *ActionLogStore {
	return &ActionLogStore{
		data: make(map[string]*domain.ActionLogEntry),
	}
}

var _ storage.ActionLogStore = (*ActionLogStore)(nil)

// Insert adds a log entry. Returns ErrDuplicateKey if entry_id exists.
func (s *ActionLogStore) Insert(_ context.Context, e *domain.ActionLogEntry) error {
	if e == nil || e.EntryID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.EntryID]; exists {
		return storage.ErrDuplicateKey
	}

	entryCopy := *e
	s.data[e.EntryID] = &entryCopy
	return nil
}

// GetByKeyword retrieves all entries for a keyword, ordered by created_at ASC.
func (s *ActionLogStore) GetByKeyword(_ context.Context, keywordID string) ([]*domain.ActionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActionLogEntry
	for _, e := range s.data {
		if e.KeywordID == keywordID {
			entryCopy := *e
			result = append(result, &entryCopy)
		}
	}

	sortEntries(result)
	return result, nil
}

// GetByBrand retrieves all entries for a brand, ordered by created_at ASC.
func (s *ActionLogStore) GetByBrand(_ context.Context, brandID string) ([]*domain.ActionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActionLogEntry
	for _, e := range s.data {
		if e.BrandID == brandID {
			entryCopy := *e
			result = append(result, &entryCopy)
		}
	}

	sortEntries(result)
	return result, nil
}

func sortEntries(entries []*domain.ActionLogEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt != entries[j].CreatedAt {
			return entries[i].CreatedAt < entries[j].CreatedAt
		}
		return entries[i].EntryID < entries[j].EntryID
	})
}
