package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// NegativeKeywordStore is an in-memory implementation of
// storage.NegativeKeywordStore.
type NegativeKeywordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.NegativeKeyword // keyed by negative_id
}

// NewNegativeKeywordStore creates a new in-memory negative keyword store.
func NewNegativeKeywordStore() *NegativeKeywordStore {
	return &NegativeKeywordStore{
		data: make(map[string]*domain.NegativeKeyword),
	}
}

var _ storage.NegativeKeywordStore = (*NegativeKeywordStore)(nil)

// Insert adds a negative keyword. Returns ErrDuplicateKey if negative_id
// exists.
func (s *NegativeKeywordStore) Insert(_ context.Context, n *domain.NegativeKeyword) error {
	if n == nil || n.NegativeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[n.NegativeID]; exists {
		return storage.ErrDuplicateKey
	}

	negativeCopy := *n
	s.data[n.NegativeID] = &negativeCopy
	return nil
}

// GetByCampaign retrieves all negatives applied to a campaign.
func (s *NegativeKeywordStore) GetByCampaign(_ context.Context, campaignID string) ([]*domain.NegativeKeyword, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NegativeKeyword
	for _, n := range s.data {
		if n.AppliedToCampaignID == campaignID {
			negativeCopy := *n
			result = append(result, &negativeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].NegativeID < result[j].NegativeID
	})

	return result, nil
}

// ExistsForTerm reports whether any negative for term exists on the
// campaign, regardless of match type. Term comparison is case-insensitive.
func (s *NegativeKeywordStore) ExistsForTerm(_ context.Context, campaignID, term string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.data {
		if n.AppliedToCampaignID == campaignID && strings.EqualFold(n.Term, term) {
			return true, nil
		}
	}
	return false, nil
}
