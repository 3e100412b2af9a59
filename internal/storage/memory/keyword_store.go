package memory

import (
	"context"
	"sort"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// KeywordStore is an in-memory implementation of storage.KeywordStore.
type KeywordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Keyword // keyed by keyword_id
}

// NewKeywordStore creates a new in-memory keyword store.
func NewKeywordStore() *KeywordStore {
	return &KeywordStore{
		data: make(map[string]*domain.Keyword),
	}
}

var _ storage.KeywordStore = (*KeywordStore)(nil)

// Insert adds a new keyword. Returns ErrDuplicateKey if keyword_id exists.
func (s *KeywordStore) Insert(_ context.Context, k *domain.Keyword) error {
	if k == nil || k.KeywordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[k.KeywordID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	keywordCopy := *k
	s.data[k.KeywordID] = &keywordCopy
	return nil
}

// GetByID retrieves a keyword by its ID. Returns ErrNotFound if not exists.
func (s *KeywordStore) GetByID(_ context.Context, keywordID string) (*domain.Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, exists := s.data[keywordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	keywordCopy := *k
	return &keywordCopy, nil
}

// GetByBrand retrieves all keywords for a brand, ordered by created_at ASC.
func (s *KeywordStore) GetByBrand(_ context.Context, brandID string) ([]*domain.Keyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Keyword
	for _, k := range s.data {
		if k.BrandID == brandID {
			keywordCopy := *k
			result = append(result, &keywordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].KeywordID < result[j].KeywordID
	})

	return result, nil
}

// UpdateStage sets the lifecycle stage. Returns ErrNotFound if not exists.
func (s *KeywordStore) UpdateStage(_ context.Context, keywordID string, stage domain.LifecycleStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, exists := s.data[keywordID]
	if !exists {
		return storage.ErrNotFound
	}

	k.Stage = stage
	return nil
}

// SetPaused sets the paused flag. Returns ErrNotFound if not exists.
func (s *KeywordStore) SetPaused(_ context.Context, keywordID string, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, exists := s.data[keywordID]
	if !exists {
		return storage.ErrNotFound
	}

	k.Paused = paused
	return nil
}
