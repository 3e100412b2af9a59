package domain

import "time"

// KeywordMetricsDaily represents one day's raw performance for one keyword.
// Corresponds to keyword_metrics_daily table in ClickHouse.
// Records are immutable once written; downstream code only aggregates them.
type KeywordMetricsDaily struct {
	KeywordID   string    // keyword identifier
	Date        time.Time // reporting day (UTC, truncated to midnight)
	Impressions int       // >= 0
	Clicks      int       // >= 0, <= Impressions in well-formed data
	Spend       float64   // ad spend for the day, >= 0
	Orders      int       // attributed orders, >= 0
	Sales       float64   // attributed sales revenue, >= 0
	CPC         *float64  // average cost per click (nullable)
}

// AggregatedMetrics is the rolled-up view of a keyword's daily metrics.
// Derived on demand, never persisted. Rate fields are fractions
// (AvgCTR 0.05 means 5%) and are zero whenever their denominator is zero.
type AggregatedMetrics struct {
	TotalClicks int
	TotalOrders int
	TotalSpend  float64
	TotalSales  float64
	Impressions int
	AvgCTR      float64 // TotalClicks / Impressions
	AvgCVR      float64 // TotalOrders / TotalClicks
	AvgACOS     float64 // TotalSpend / TotalSales
}
