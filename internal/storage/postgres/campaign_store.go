package postgres

import (
	"context"
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// CampaignStore implements storage.CampaignStore using PostgreSQL.
type CampaignStore struct {
	pool *Pool
}

// NewCampaignStore creates a new CampaignStore.
func NewCampaignStore(pool *Pool) *CampaignStore {
	return &CampaignStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CampaignStore = (*CampaignStore)(nil)

// Insert adds a new campaign. Returns ErrDuplicateKey if campaign_id exists.
func (s *CampaignStore) Insert(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (campaign_id, brand_id, name, match_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		c.CampaignID,
		c.BrandID,
		c.Name,
		string(c.MatchType),
		c.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by its ID. Returns ErrNotFound if not exists.
func (s *CampaignStore) GetByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	query := `
		SELECT campaign_id, brand_id, name, match_type, created_at
		FROM campaigns
		WHERE campaign_id = $1
	`

	var c domain.Campaign
	var matchType string
	err := s.pool.QueryRow(ctx, query, campaignID).Scan(
		&c.CampaignID,
		&c.BrandID,
		&c.Name,
		&matchType,
		&c.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}

	c.MatchType = domain.MatchType(matchType)
	return &c, nil
}

// GetByBrand retrieves all campaigns for a brand, ordered by created_at ASC.
func (s *CampaignStore) GetByBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error) {
	query := `
		SELECT campaign_id, brand_id, name, match_type, created_at
		FROM campaigns
		WHERE brand_id = $1
		ORDER BY created_at ASC, campaign_id ASC
	`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get campaigns by brand: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var matchType string
		if err := rows.Scan(&c.CampaignID, &c.BrandID, &c.Name, &matchType, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign row: %w", err)
		}
		c.MatchType = domain.MatchType(matchType)
		campaigns = append(campaigns, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign rows: %w", err)
	}
	return campaigns, nil
}

// InsertAssignment adds a keyword assignment. Returns ErrDuplicateKey if
// assignment_id exists.
func (s *CampaignStore) InsertAssignment(ctx context.Context, a *domain.KeywordAssignment) error {
	query := `
		INSERT INTO keyword_assignments (
			assignment_id, brand_id, keyword_text, campaign_id, ad_group_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		a.AssignmentID,
		a.BrandID,
		a.KeywordText,
		a.CampaignID,
		a.AdGroupID,
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetAssignmentsByBrand retrieves all assignments for a brand, ordered by
// created_at ASC.
func (s *CampaignStore) GetAssignmentsByBrand(ctx context.Context, brandID string) ([]*domain.KeywordAssignment, error) {
	query := `
		SELECT assignment_id, brand_id, keyword_text, campaign_id, ad_group_id, created_at
		FROM keyword_assignments
		WHERE brand_id = $1
		ORDER BY created_at ASC, assignment_id ASC
	`

	rows, err := s.pool.Query(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("get assignments by brand: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.KeywordAssignment
	for rows.Next() {
		var a domain.KeywordAssignment
		if err := rows.Scan(&a.AssignmentID, &a.BrandID, &a.KeywordText, &a.CampaignID, &a.AdGroupID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignment rows: %w", err)
	}
	return assignments, nil
}
