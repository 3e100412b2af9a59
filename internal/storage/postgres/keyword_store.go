package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// KeywordStore implements storage.KeywordStore using PostgreSQL.
type KeywordStore struct {
	pool *Pool
}

// NewKeywordStore creates a new KeywordStore.
func NewKeywordStore(pool *Pool) *KeywordStore {
	return &KeywordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.KeywordStore = (*KeywordStore)(nil)

// Insert adds a new keyword. Returns ErrDuplicateKey if keyword_id exists.
func (s *KeywordStore) Insert(ctx context.Context, k *domain.Keyword) error {
	query := `
		INSERT INTO keywords (
			keyword_id, brand_id, text, category, intent, stage, paused,
			campaign_id, research_campaign_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		k.KeywordID,
		k.BrandID,
		k.Text,
		string(k.Category),
		string(k.Intent),
		string(k.Stage),
		k.Paused,
		k.CampaignID,
		k.ResearchCampaignID,
		k.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert keyword: %w", err)
	}
	return nil
}

// GetByID retrieves a keyword by its ID. Returns ErrNotFound if not exists.
func (s *KeywordStore) GetByID(ctx context.Context, keywordID string) (*domain.Keyword, error) {
	query := `
		SELECT keyword_id, brand_id, text, category, intent, stage, paused,
		       campaign_id, research_campaign_id, created_at
		FROM keywords
		WHERE keyword_id = $1
	`

	row := s.pool.QueryRow(ctx, query, keywordID)
	k, err := scanKeyword(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get keyword by id: %w", err)
	}
	return k, nil
}

// GetByBrand retrieves all keywords for a brand, ordered by created_at ASC.
func (s *KeywordStore) GetByBrand(ctx context.Context, brandID string) ([]*domain.Keyword, error) {
	query := `
		SELECT keyword_id, brand_id, text, category, intent, stage, paused,
		       campaign_id, research_campaign_id, created_at
		FROM keywords
		WHERE brand_id = $1
		ORDER BY created_at ASC, keyword_id ASC
	`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get keywords by brand: %w", err)
	}
	defer rows.Close()

	return scanKeywords(rows)
}

// UpdateStage sets the lifecycle stage. Returns ErrNotFound if not exists.
func (s *KeywordStore) UpdateStage(ctx context.Context, keywordID string, stage domain.LifecycleStage) error {
	query := `UPDATE keywords SET stage = $1 WHERE keyword_id = $2`

	tag, err := s.pool.Exec(ctx, query, string(stage), keywordID)
	if err != nil {
		return fmt.Errorf("update keyword stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetPaused sets the paused flag. Returns ErrNotFound if not exists.
func (s *KeywordStore) SetPaused(ctx context.Context, keywordID string, paused bool) error {
	query := `UPDATE keywords SET paused = $1 WHERE keyword_id = $2`

	tag, err := s.pool.Exec(ctx, query, paused, keywordID)
	if err != nil {
		return fmt.Errorf("set keyword paused: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanKeyword scans a single row into a Keyword.
func scanKeyword(row pgx.Row) (*domain.Keyword, error) {
	var k domain.Keyword
	var category, intent, stage string

	err := row.Scan(
		&k.KeywordID,
		&k.BrandID,
		&k.Text,
		&category,
		&intent,
		&stage,
		&k.Paused,
		&k.CampaignID,
		&k.ResearchCampaignID,
		&k.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	k.Category = domain.KeywordCategory(category)
	k.Intent = domain.KeywordIntent(intent)
	k.Stage = domain.LifecycleStage(stage)
	return &k, nil
}

// scanKeywords scans multiple rows into a slice of Keyword.
func scanKeywords(rows pgx.Rows) ([]*domain.Keyword, error) {
	var keywords []*domain.Keyword

	for rows.Next() {
		var k domain.Keyword
		var category, intent, stage string

		err := rows.Scan(
			&k.KeywordID,
			&k.BrandID,
			&k.Text,
			&category,
			&intent,
			&stage,
			&k.Paused,
			&k.CampaignID,
			&k.ResearchCampaignID,
			&k.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan keyword row: %w", err)
		}

		k.Category = domain.KeywordCategory(category)
		k.Intent = domain.KeywordIntent(intent)
		k.Stage = domain.LifecycleStage(stage)
		keywords = append(keywords, &k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword rows: %w", err)
	}

	return keywords, nil
}
