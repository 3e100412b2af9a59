package postgres

import (
	"context"
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// NegativeKeywordStore implements storage.NegativeKeywordStore using
// PostgreSQL. Rows are append-only.
type NegativeKeywordStore struct {
	pool *Pool
}

// NewNegativeKeywordStore creates a new NegativeKeywordStore.
func NewNegativeKeywordStore(pool *Pool) *NegativeKeywordStore {
	return &NegativeKeywordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NegativeKeywordStore = (*NegativeKeywordStore)(nil)

// Insert adds a negative keyword. Returns ErrDuplicateKey if negative_id
// exists.
func (s *NegativeKeywordStore) Insert(ctx context.Context, n *domain.NegativeKeyword) error {
	query := `
		INSERT INTO negative_keywords (
			negative_id, brand_id, term, match_type, scope,
			applied_to_campaign_id, reason, rule_trigger, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		n.NegativeID,
		n.BrandID,
		n.Term,
		string(n.MatchType),
		string(n.Scope),
		n.AppliedToCampaignID,
		n.Reason,
		n.RuleTrigger,
		n.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert negative keyword: %w", err)
	}
	return nil
}

// GetByCampaign retrieves all negatives applied to a campaign.
func (s *NegativeKeywordStore) GetByCampaign(ctx context.Context, campaignID string) ([]*domain.NegativeKeyword, error) {
	query := `
		SELECT negative_id, brand_id, term, match_type, scope,
		       applied_to_campaign_id, reason, rule_trigger, created_at
		FROM negative_keywords
		WHERE applied_to_campaign_id = $1
		ORDER BY created_at ASC, negative_id ASC
	`

	rows, err := s.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("get negatives by campaign: %w", err)
	}
	defer rows.Close()

	var negatives []*domain.NegativeKeyword
	for rows.Next() {
		var n domain.NegativeKeyword
		var matchType, scope string
		err := rows.Scan(
			&n.NegativeID,
			&n.BrandID,
			&n.Term,
			&matchType,
			&scope,
			&n.AppliedToCampaignID,
			&n.Reason,
			&n.RuleTrigger,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan negative keyword row: %w", err)
		}
		n.MatchType = domain.NegativeMatchType(matchType)
		n.Scope = domain.NegativeScope(scope)
		negatives = append(negatives, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate negative keyword rows: %w", err)
	}
	return negatives, nil
}

// ExistsForTerm reports whether any negative for term exists on the
// campaign, regardless of match type. Term comparison is case-insensitive.
func (s *NegativeKeywordStore) ExistsForTerm(ctx context.Context, campaignID, term string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM negative_keywords
			WHERE applied_to_campaign_id = $1 AND lower(term) = lower($2)
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, campaignID, term).Scan(&exists); err != nil {
		return false, fmt.Errorf("check negative exists: %w", err)
	}
	return exists, nil
}
