package postgres

import (
	"context"
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// SettingsStore implements storage.SettingsStore using PostgreSQL.
type SettingsStore struct {
	pool *Pool
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(pool *Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SettingsStore = (*SettingsStore)(nil)

// GetThresholds retrieves a brand's thresholds. Returns ErrNotFound if the
// brand has none persisted.
func (s *SettingsStore) GetThresholds(ctx context.Context, brandID string) (*domain.SettingsThresholds, error) {
	query := `
		SELECT brand_id, clicks_promote_standard, clicks_promote_competitive,
		       clicks_negate_standard, clicks_negate_competitive,
		       cvr_graduation_factor, ctr_pause_threshold, wasted_spend_red
		FROM settings_thresholds
		WHERE brand_id = $1
	`

	var t domain.SettingsThresholds
	err := s.pool.QueryRow(ctx, query, brandID).Scan(
		&t.BrandID,
		&t.ClicksPromoteStandard,
		&t.ClicksPromoteCompetitive,
		&t.ClicksNegateStandard,
		&t.ClicksNegateCompetitive,
		&t.CVRGraduationFactor,
		&t.CTRPauseThreshold,
		&t.WastedSpendRed,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get thresholds: %w", err)
	}
	return &t, nil
}

// UpsertThresholds creates or replaces a brand's thresholds.
func (s *SettingsStore) UpsertThresholds(ctx context.Context, t *domain.SettingsThresholds) error {
	query := `
		INSERT INTO settings_thresholds (
			brand_id, clicks_promote_standard, clicks_promote_competitive,
			clicks_negate_standard, clicks_negate_competitive,
			cvr_graduation_factor, ctr_pause_threshold, wasted_spend_red
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (brand_id) DO UPDATE SET
			clicks_promote_standard = EXCLUDED.clicks_promote_standard,
			clicks_promote_competitive = EXCLUDED.clicks_promote_competitive,
			clicks_negate_standard = EXCLUDED.clicks_negate_standard,
			clicks_negate_competitive = EXCLUDED.clicks_negate_competitive,
			cvr_graduation_factor = EXCLUDED.cvr_graduation_factor,
			ctr_pause_threshold = EXCLUDED.ctr_pause_threshold,
			wasted_spend_red = EXCLUDED.wasted_spend_red
	`

	_, err := s.pool.Exec(ctx, query,
		t.BrandID,
		t.ClicksPromoteStandard,
		t.ClicksPromoteCompetitive,
		t.ClicksNegateStandard,
		t.ClicksNegateCompetitive,
		t.CVRGraduationFactor,
		t.CTRPauseThreshold,
		t.WastedSpendRed,
	)
	if err != nil {
		return fmt.Errorf("upsert thresholds: %w", err)
	}
	return nil
}

// GetBrandSettings retrieves a brand's settings. Returns ErrNotFound if the
// brand has none persisted.
func (s *SettingsStore) GetBrandSettings(ctx context.Context, brandID string) (*domain.BrandSettings, error) {
	query := `
		SELECT brand_id, clicks_to_promote, clicks_to_negate,
		       target_acos, target_ctr, target_cvr, target_roas,
		       cvr_factor_median, ctr_pause_threshold, wasted_spend_red_threshold,
		       enable_auto_promotion, enable_auto_negation, enable_auto_pause,
		       enable_cannibalization_detection
		FROM brand_settings
		WHERE brand_id = $1
	`

	var b domain.BrandSettings
	err := s.pool.QueryRow(ctx, query, brandID).Scan(
		&b.BrandID,
		&b.ClicksToPromote,
		&b.ClicksToNegate,
		&b.TargetACOS,
		&b.TargetCTR,
		&b.TargetCVR,
		&b.TargetROAS,
		&b.CVRFactorMedian,
		&b.CTRPauseThreshold,
		&b.WastedSpendRedThreshold,
		&b.EnableAutoPromotion,
		&b.EnableAutoNegation,
		&b.EnableAutoPause,
		&b.EnableCannibalizationDetection,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get brand settings: %w", err)
	}
	return &b, nil
}

// UpsertBrandSettings creates or replaces a brand's settings.
func (s *SettingsStore) UpsertBrandSettings(ctx context.Context, b *domain.BrandSettings) error {
	query := `
		INSERT INTO brand_settings (
			brand_id, clicks_to_promote, clicks_to_negate,
			target_acos, target_ctr, target_cvr, target_roas,
			cvr_factor_median, ctr_pause_threshold, wasted_spend_red_threshold,
			enable_auto_promotion, enable_auto_negation, enable_auto_pause,
			enable_cannibalization_detection
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (brand_id) DO UPDATE SET
			clicks_to_promote = EXCLUDED.clicks_to_promote,
			clicks_to_negate = EXCLUDED.clicks_to_negate,
			target_acos = EXCLUDED.target_acos,
			target_ctr = EXCLUDED.target_ctr,
			target_cvr = EXCLUDED.target_cvr,
			target_roas = EXCLUDED.target_roas,
			cvr_factor_median = EXCLUDED.cvr_factor_median,
			ctr_pause_threshold = EXCLUDED.ctr_pause_threshold,
			wasted_spend_red_threshold = EXCLUDED.wasted_spend_red_threshold,
			enable_auto_promotion = EXCLUDED.enable_auto_promotion,
			enable_auto_negation = EXCLUDED.enable_auto_negation,
			enable_auto_pause = EXCLUDED.enable_auto_pause,
			enable_cannibalization_detection = EXCLUDED.enable_cannibalization_detection
	`

	_, err := s.pool.Exec(ctx, query,
		b.BrandID,
		b.ClicksToPromote,
		b.ClicksToNegate,
		b.TargetACOS,
		b.TargetCTR,
		b.TargetCVR,
		b.TargetROAS,
		b.CVRFactorMedian,
		b.CTRPauseThreshold,
		b.WastedSpendRedThreshold,
		b.EnableAutoPromotion,
		b.EnableAutoNegation,
		b.EnableAutoPause,
		b.EnableCannibalizationDetection,
	)
	if err != nil {
		return fmt.Errorf("upsert brand settings: %w", err)
	}
	return nil
}
