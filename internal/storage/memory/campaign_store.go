package memory

import (
	"context"
	"sort"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// CampaignStore is an in-memory implementation of storage.CampaignStore.
type CampaignStore struct {
	mu          sync.RWMutex
	campaigns   map[string]*domain.Campaign          // keyed by campaign_id
	assignments map[string]*domain.KeywordAssignment // keyed by assignment_id
}

// NewCampaignStore creates a new in-memory campaign store.
func NewCampaignStore() *CampaignStore {
	return &CampaignStore{
		campaigns:   make(map[string]*domain.Campaign),
		assignments: make(map[string]*domain.KeywordAssignment),
	}
}

var _ storage.CampaignStore = (*CampaignStore)(nil)

// Insert adds a new campaign. Returns ErrDuplicateKey if campaign_id exists.
func (s *CampaignStore) Insert(_ context.Context, c *domain.Campaign) error {
	if c == nil || c.CampaignID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[c.CampaignID]; exists {
		return storage.ErrDuplicateKey
	}

	campaignCopy := *c
	s.campaigns[c.CampaignID] = &campaignCopy
	return nil
}

// GetByID retrieves a campaign by its ID. Returns ErrNotFound if not exists.
func (s *CampaignStore) GetByID(_ context.Context, campaignID string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.campaigns[campaignID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	campaignCopy := *c
	return &campaignCopy, nil
}

// GetByBrand retrieves all campaigns for a brand, ordered by created_at ASC.
func (s *CampaignStore) GetByBrand(_ context.Context, brandID string) ([]*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Campaign
	for _, c := range s.campaigns {
		if c.BrandID == brandID {
			campaignCopy := *c
			result = append(result, &campaignCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].CampaignID < result[j].CampaignID
	})

	return result, nil
}

// InsertAssignment adds a keyword assignment. Returns ErrDuplicateKey if
// assignment_id exists.
func (s *CampaignStore) InsertAssignment(_ context.Context, a *domain.KeywordAssignment) error {
	if a == nil || a.AssignmentID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.assignments[a.AssignmentID]; exists {
		return storage.ErrDuplicateKey
	}

	assignmentCopy := *a
	s.assignments[a.AssignmentID] = &assignmentCopy
	return nil
}

// GetAssignmentsByBrand retrieves all assignments for a brand, ordered by
// created_at ASC.
func (s *CampaignStore) GetAssignmentsByBrand(_ context.Context, brandID string) ([]*domain.KeywordAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.KeywordAssignment
	for _, a := range s.assignments {
		if a.BrandID == brandID {
			assignmentCopy := *a
			result = append(result, &assignmentCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].AssignmentID < result[j].AssignmentID
	})

	return result, nil
}
