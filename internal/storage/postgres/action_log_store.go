package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// ActionLogStore implements storage.ActionLogStore using PostgreSQL.
// Entries are immutable; there is no update or delete path.
type ActionLogStore struct {
	pool *Pool
}

// NewActionLogStore creates a new ActionLogStore.
func NewActionLogStore(pool *Pool) *ActionLogStore {
	return &ActionLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActionLogStore = (*ActionLogStore)(nil)

// Insert adds a log entry. Returns ErrDuplicateKey if entry_id exists.
func (s *ActionLogStore) Insert(ctx context.Context, e *domain.ActionLogEntry) error {
	query := `
		INSERT INTO action_log (
			entry_id, brand_id, keyword_id, action,
			before_stage, after_stage, reason, actor, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		e.EntryID,
		e.BrandID,
		e.KeywordID,
		string(e.Action),
		string(e.BeforeStage),
		string(e.AfterStage),
		e.Reason,
		e.Actor,
		e.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert action log entry: %w", err)
	}
	return nil
}

// GetByKeyword retrieves all entries for a keyword, ordered by created_at ASC.
func (s *ActionLogStore) GetByKeyword(ctx context.Context, keywordID string) ([]*domain.ActionLogEntry, error) {
	query := actionLogSelect + ` WHERE keyword_id = $1 ORDER BY created_at ASC, entry_id ASC`

	rows, err := s.pool.Query(ctx, query, keywordID)
	if err != nil {
		return nil, fmt.Errorf("get action log by keyword: %w", err)
	}
	defer rows.Close()

	return scanActionLogEntries(rows)
}

// GetByBrand retrieves all entries for a brand, ordered by created_at ASC.
func (s *ActionLogStore) GetByBrand(ctx context.Context, brandID string) ([]*domain.ActionLogEntry, error) {
	query := actionLogSelect + ` WHERE brand_id = $1 ORDER BY created_at ASC, entry_id ASC`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get action log by brand: %w", err)
	}
	defer rows.Close()

	return scanActionLogEntries(rows)
}

const actionLogSelect = `
	SELECT entry_id, brand_id, keyword_id, action,
	       before_stage, after_stage, reason, actor, created_at
	FROM action_log
`

// scanActionLogEntries scans multiple rows into a slice of ActionLogEntry.
func scanActionLogEntries(rows pgx.Rows) ([]*domain.ActionLogEntry, error) {
	var entries []*domain.ActionLogEntry

	for rows.Next() {
		var e domain.ActionLogEntry
		var action, beforeStage, afterStage string

		err := rows.Scan(
			&e.EntryID,
			&e.BrandID,
			&e.KeywordID,
			&action,
			&beforeStage,
			&afterStage,
			&e.Reason,
			&e.Actor,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan action log row: %w", err)
		}

		e.Action = domain.DecisionAction(action)
		e.BeforeStage = domain.LifecycleStage(beforeStage)
		e.AfterStage = domain.LifecycleStage(afterStage)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate action log rows: %w", err)
	}

	return entries, nil
}
