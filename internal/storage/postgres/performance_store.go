package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// PerformanceStore implements storage.PerformanceStore using PostgreSQL.
// RAG drivers persist as a text array.
type PerformanceStore struct {
	pool *Pool
}

// NewPerformanceStore creates a new PerformanceStore.
func NewPerformanceStore(pool *Pool) *PerformanceStore {
	return &PerformanceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PerformanceStore = (*PerformanceStore)(nil)

// Upsert creates or replaces a keyword's performance snapshot.
func (s *PerformanceStore) Upsert(ctx context.Context, p *domain.KeywordPerformance) error {
	query := `
		INSERT INTO keyword_performance (
			keyword_id, brand_id, keyword_text,
			impressions, clicks, orders, spend, sales,
			ctr, cvr, acos, roas,
			stage, rag_status, rag_drivers, opportunity_score, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (keyword_id) DO UPDATE SET
			brand_id = EXCLUDED.brand_id,
			keyword_text = EXCLUDED.keyword_text,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			orders = EXCLUDED.orders,
			spend = EXCLUDED.spend,
			sales = EXCLUDED.sales,
			ctr = EXCLUDED.ctr,
			cvr = EXCLUDED.cvr,
			acos = EXCLUDED.acos,
			roas = EXCLUDED.roas,
			stage = EXCLUDED.stage,
			rag_status = EXCLUDED.rag_status,
			rag_drivers = EXCLUDED.rag_drivers,
			opportunity_score = EXCLUDED.opportunity_score,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		p.KeywordID,
		p.BrandID,
		p.KeywordText,
		p.Impressions,
		p.Clicks,
		p.Orders,
		p.Spend,
		p.Sales,
		p.CTR,
		p.CVR,
		p.ACOS,
		p.ROAS,
		string(p.Stage),
		string(p.RAGStatus),
		p.RAGDrivers,
		p.OpportunityScore,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert performance: %w", err)
	}
	return nil
}

// GetByKeyword retrieves a snapshot. Returns ErrNotFound if not exists.
func (s *PerformanceStore) GetByKeyword(ctx context.Context, keywordID string) (*domain.KeywordPerformance, error) {
	query := performanceSelect + ` WHERE keyword_id = $1`

	row := s.pool.QueryRow(ctx, query, keywordID)
	p, err := scanPerformance(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get performance by keyword: %w", err)
	}
	return p, nil
}

// GetByBrand retrieves all snapshots for a brand, ordered by keyword_id ASC.
func (s *PerformanceStore) GetByBrand(ctx context.Context, brandID string) ([]*domain.KeywordPerformance, error) {
	query := performanceSelect + ` WHERE brand_id = $1 ORDER BY keyword_id ASC`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get performance by brand: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.KeywordPerformance
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan performance row: %w", err)
		}
		snapshots = append(snapshots, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance rows: %w", err)
	}
	return snapshots, nil
}

const performanceSelect = `
	SELECT keyword_id, brand_id, keyword_text,
	       impressions, clicks, orders, spend, sales,
	       ctr, cvr, acos, roas,
	       stage, rag_status, rag_drivers, opportunity_score, updated_at
	FROM keyword_performance
`

// scanPerformance scans a single row into a KeywordPerformance.
func scanPerformance(row pgx.Row) (*domain.KeywordPerformance, error) {
	var p domain.KeywordPerformance
	var stage, ragStatus string

	err := row.Scan(
		&p.KeywordID,
		&p.BrandID,
		&p.KeywordText,
		&p.Impressions,
		&p.Clicks,
		&p.Orders,
		&p.Spend,
		&p.Sales,
		&p.CTR,
		&p.CVR,
		&p.ACOS,
		&p.ROAS,
		&stage,
		&ragStatus,
		&p.RAGDrivers,
		&p.OpportunityScore,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Stage = domain.LifecycleStage(stage)
	p.RAGStatus = domain.RAGStatus(ragStatus)
	return &p, nil
}
