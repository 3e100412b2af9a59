package memory

import (
	"context"
	"sync"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// SettingsStore is an in-memory implementation of storage.SettingsStore.
type SettingsStore struct {
	mu         sync.RWMutex
	thresholds map[string]*domain.SettingsThresholds // keyed by brand_id
	settings   map[string]*domain.BrandSettings      // keyed by brand_id
}

// NewSettingsStore creates a new in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{
		thresholds: make(map[string]*domain.SettingsThresholds),
		settings:   make(map[string]*domain.BrandSettings),
	}
}

var _ storage.SettingsStore = (*SettingsStore)(nil)

// GetThresholds retrieves a brand's thresholds. Returns ErrNotFound if the
// brand has none persisted.
func (s *SettingsStore) GetThresholds(_ context.Context, brandID string) (*domain.SettingsThresholds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.thresholds[brandID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	thresholdsCopy := *t
	return &thresholdsCopy, nil
}

// UpsertThresholds creates or replaces a brand's thresholds.
func (s *SettingsStore) UpsertThresholds(_ context.Context, t *domain.SettingsThresholds) error {
	if t == nil || t.BrandID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thresholdsCopy := *t
	s.thresholds[t.BrandID] = &thresholdsCopy
	return nil
}

// GetBrandSettings retrieves a brand's settings. Returns ErrNotFound if the
// brand has none persisted.
func (s *SettingsStore) GetBrandSettings(_ context.Context, brandID string) (*domain.BrandSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.settings[brandID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	settingsCopy := *b
	return &settingsCopy, nil
}

// UpsertBrandSettings creates or replaces a brand's settings.
func (s *SettingsStore) UpsertBrandSettings(_ context.Context, b *domain.BrandSettings) error {
	if b == nil || b.BrandID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	settingsCopy := *b
	s.settings[b.BrandID] = &settingsCopy
	return nil
}
