package storage

import (
	"context"
	"time"

	"ppc-keyword-lab/internal/domain"
)

// KeywordStore provides access to keywords storage.
type KeywordStore interface {
	// Insert adds a new keyword. Returns ErrDuplicateKey if keyword_id exists.
	Insert(ctx context.Context, k *domain.Keyword) error

	// GetByID retrieves a keyword by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, keywordID string) (*domain.Keyword, error)

	// GetByBrand retrieves all keywords for a brand, ordered by created_at ASC.
	GetByBrand(ctx context.Context, brandID string) ([]*domain.Keyword, error)

	// UpdateStage sets the lifecycle stage. Returns ErrNotFound if not exists.
	UpdateStage(ctx context.Context, keywordID string, stage domain.LifecycleStage) error

	// SetPaused sets the paused flag. Returns ErrNotFound if not exists.
	SetPaused(ctx context.Context, keywordID string, paused bool) error
}

// DailyMetricsStore provides access to keyword_metrics_daily storage.
type DailyMetricsStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate
	// (keyword_id, date).
	InsertBulk(ctx context.Context, rows []*domain.KeywordMetricsDaily) error

	// GetByKeyword retrieves all rows for a keyword, ordered by date ASC.
	GetByKeyword(ctx context.Context, keywordID string) ([]*domain.KeywordMetricsDaily, error)

	// GetByKeywordRange retrieves rows for a keyword within [start, end]
	// (inclusive), ordered by date ASC.
	GetByKeywordRange(ctx context.Context, keywordID string, start, end time.Time) ([]*domain.KeywordMetricsDaily, error)
}

// SettingsStore provides access to per-brand threshold and settings storage.
type SettingsStore interface {
	// GetThresholds retrieves a brand's thresholds. Returns ErrNotFound if
	// the brand has none persisted.
	GetThresholds(ctx context.Context, brandID string) (*domain.SettingsThresholds, error)

	// UpsertThresholds creates or replaces a brand's thresholds.
	UpsertThresholds(ctx context.Context, t *domain.SettingsThresholds) error

	// GetBrandSettings retrieves a brand's settings. Returns ErrNotFound if
	// the brand has none persisted.
	GetBrandSettings(ctx context.Context, brandID string) (*domain.BrandSettings, error)

	// UpsertBrandSettings creates or replaces a brand's settings.
	UpsertBrandSettings(ctx context.Context, s *domain.BrandSettings) error
}

// PerformanceStore provides access to keyword_performance snapshots.
type PerformanceStore interface {
	// Upsert creates or replaces a keyword's performance snapshot.
	Upsert(ctx context.Context, p *domain.KeywordPerformance) error

	// GetByKeyword retrieves a snapshot. Returns ErrNotFound if not exists.
	GetByKeyword(ctx context.Context, keywordID string) (*domain.KeywordPerformance, error)

	// GetByBrand retrieves all snapshots for a brand, ordered by keyword_id ASC.
	GetByBrand(ctx context.Context, brandID string) ([]*domain.KeywordPerformance, error)
}

// CampaignStore provides access to campaigns and keyword assignments.
type CampaignStore interface {
	// Insert adds a new campaign. Returns ErrDuplicateKey if campaign_id exists.
	Insert(ctx context.Context, c *domain.Campaign) error

	// GetByID retrieves a campaign by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, campaignID string) (*domain.Campaign, error)

	// GetByBrand retrieves all campaigns for a brand, ordered by created_at ASC.
	GetByBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error)

	// InsertAssignment adds a keyword assignment. Returns ErrDuplicateKey if
	// assignment_id exists.
	InsertAssignment(ctx context.Context, a *domain.KeywordAssignment) error

	// GetAssignmentsByBrand retrieves all assignments for a brand, ordered by
	// created_at ASC.
	GetAssignmentsByBrand(ctx context.Context, brandID string) ([]*domain.KeywordAssignment, error)
}

// NegativeKeywordStore provides access to negative_keywords storage.
type NegativeKeywordStore interface {
	// Insert adds a negative keyword. Returns ErrDuplicateKey if negative_id
	// exists; records are append-only.
	Insert(ctx context.Context, n *domain.NegativeKeyword) error

	// GetByCampaign retrieves all negatives applied to a campaign.
	GetByCampaign(ctx context.Context, campaignID string) ([]*domain.NegativeKeyword, error)

	// ExistsForTerm reports whether any negative for term exists on the
	// campaign, regardless of match type.
	ExistsForTerm(ctx context.Context, campaignID, term string) (bool, error)
}

// ActionLogStore provides access to the immutable action log.
type ActionLogStore interface {
	// Insert adds a log entry. Returns ErrDuplicateKey if entry_id exists.
	Insert(ctx context.Context, e *domain.ActionLogEntry) error

	// GetByKeyword retrieves all entries for a keyword, ordered by created_at ASC.
	GetByKeyword(ctx context.Context, keywordID string) ([]*domain.ActionLogEntry, error)

	// GetByBrand retrieves all entries for a brand, ordered by created_at ASC.
	GetByBrand(ctx context.Context, brandID string) ([]*domain.ActionLogEntry, error)
}

// AlertStore provides access to keyword_alerts storage.
type AlertStore interface {
	// Insert adds an alert. Returns ErrDuplicateKey if alert_id exists.
	Insert(ctx context.Context, a *domain.KeywordAlert) error

	// GetByBrand retrieves all alerts for a brand, ordered by created_at ASC.
	GetByBrand(ctx context.Context, brandID string) ([]*domain.KeywordAlert, error)
}
