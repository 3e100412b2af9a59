package postgres

import (
	"context"
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// AlertStore implements storage.AlertStore using PostgreSQL.
type AlertStore struct {
	pool *Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

// Insert adds an alert. Returns ErrDuplicateKey if alert_id exists.
func (s *AlertStore) Insert(ctx context.Context, a *domain.KeywordAlert) error {
	query := `
		INSERT INTO keyword_alerts (alert_id, brand_id, keyword_id, level, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		a.AlertID,
		a.BrandID,
		a.KeywordID,
		string(a.Level),
		a.Message,
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByBrand retrieves all alerts for a brand, ordered by created_at ASC.
func (s *AlertStore) GetByBrand(ctx context.Context, brandID string) ([]*domain.KeywordAlert, error) {
	query := `
		SELECT alert_id, brand_id, keyword_id, level, message, created_at
		FROM keyword_alerts
		WHERE brand_id = $1
		ORDER BY created_at ASC, alert_id ASC
	`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get alerts by brand: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.KeywordAlert
	for rows.Next() {
		var a domain.KeywordAlert
		var level string
		if err := rows.Scan(&a.AlertID, &a.BrandID, &a.KeywordID, &level, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		a.Level = domain.AlertLevel(level)
		alerts = append(alerts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert rows: %w", err)
	}
	return alerts, nil
}
