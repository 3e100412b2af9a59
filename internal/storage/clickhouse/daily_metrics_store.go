package clickhouse

import (
	"context"
	"fmt"
	"time"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// DailyMetricsStore implements storage.DailyMetricsStore using ClickHouse.
// MergeTree doesn't enforce uniqueness, so duplicate (keyword_id, date) keys
// are rejected by explicit checks before insert.
type DailyMetricsStore struct {
	conn *Conn
}

// NewDailyMetricsStore creates a new DailyMetricsStore.
func NewDailyMetricsStore(conn *Conn) *DailyMetricsStore {
	return &DailyMetricsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyMetricsStore = (*DailyMetricsStore)(nil)

// InsertBulk adds multiple rows. Fails entire batch on duplicate
// (keyword_id, date); nothing is written on failure.
func (s *DailyMetricsStore) InsertBulk(ctx context.Context, rows []*domain.KeywordMetricsDaily) error {
	if len(rows) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		keywordID string
		date      string
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.KeywordID == "" {
			return storage.ErrInvalidInput
		}
		k := key{r.KeywordID, r.Date.UTC().Format("2006-01-02")}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range rows {
		exists, err := s.exists(ctx, r.KeywordID, r.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO keyword_metrics_daily (
			keyword_id, date, impressions, clicks, spend, orders, sales, cpc
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err = batch.Append(
			r.KeywordID, r.Date.UTC(), uint32(r.Impressions), uint32(r.Clicks),
			r.Spend, uint32(r.Orders), r.Sales, r.CPC,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKeyword retrieves all rows for a keyword, ordered by date ASC.
func (s *DailyMetricsStore) GetByKeyword(ctx context.Context, keywordID string) ([]*domain.KeywordMetricsDaily, error) {
	query := `
		SELECT keyword_id, date, impressions, clicks, spend, orders, sales, cpc
		FROM keyword_metrics_daily
		WHERE keyword_id = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, keywordID)
	if err != nil {
		return nil, fmt.Errorf("query by keyword: %w", err)
	}
	defer rows.Close()

	return scanDailyMetrics(rows)
}

// GetByKeywordRange retrieves rows for a keyword within [start, end]
// (inclusive), ordered by date ASC.
func (s *DailyMetricsStore) GetByKeywordRange(ctx context.Context, keywordID string, start, end time.Time) ([]*domain.KeywordMetricsDaily, error) {
	query := `
		SELECT keyword_id, date, impressions, clicks, spend, orders, sales, cpc
		FROM keyword_metrics_daily
		WHERE keyword_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, keywordID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query by keyword range: %w", err)
	}
	defer rows.Close()

	return scanDailyMetrics(rows)
}

// exists checks if a row with the given key exists.
func (s *DailyMetricsStore) exists(ctx context.Context, keywordID string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM keyword_metrics_daily
		WHERE keyword_id = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, keywordID, date.UTC()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanDailyMetrics scans multiple rows.
func scanDailyMetrics(rows chRows) ([]*domain.KeywordMetricsDaily, error) {
	var result []*domain.KeywordMetricsDaily

	for rows.Next() {
		var r domain.KeywordMetricsDaily
		var impressions, clicks, orders uint32

		err := rows.Scan(
			&r.KeywordID, &r.Date, &impressions, &clicks,
			&r.Spend, &orders, &r.Sales, &r.CPC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily metrics row: %w", err)
		}

		r.Impressions = int(impressions)
		r.Clicks = int(clicks)
		r.Orders = int(orders)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily metrics rows: %w", err)
	}

	return result, nil
}
