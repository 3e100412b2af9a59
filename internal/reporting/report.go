package reporting

import "time"

// Report represents one brand's lifecycle report.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	BrandID     string

	// Portfolio Summary
	Summary PortfolioSummary

	// Stage breakdown (sorted by lifecycle order)
	Stages []StageRow

	// Decisions applied in the reporting window (sorted by created_at)
	Decisions []DecisionRow

	// Open RED/AMBER alerts (sorted by created_at)
	Alerts []AlertRow

	// RAG distribution over performance snapshots
	RAG RAGSection
}

// PortfolioSummary contains portfolio-level counts.
type PortfolioSummary struct {
	TotalKeywords  int
	PausedKeywords int
	Promotions     int
	Negations      int
	Pauses         int
	AlertsRaised   int
}

// StageRow represents one lifecycle stage's keyword count.
type StageRow struct {
	Stage string
	Count int
}

// DecisionRow represents one applied lifecycle decision.
type DecisionRow struct {
	KeywordID   string
	Action      string
	BeforeStage string
	AfterStage  string
	Reason      string
	Actor       string
	CreatedAt   int64 // Unix ms
}

// AlertRow represents one raised health alert.
type AlertRow struct {
	KeywordID string
	Level     string
	Message   string
	CreatedAt int64 // Unix ms
}

// RAGSection contains the Red/Amber/Green distribution and the keywords
// needing attention.
type RAGSection struct {
	Red   int
	Amber int
	Green int

	// Attention lists RED and AMBER keywords, sorted by keyword_id.
	Attention []RAGAttentionRow
}

// RAGAttentionRow represents one keyword flagged for review.
type RAGAttentionRow struct {
	KeywordID        string
	KeywordText      string
	Status           string
	Drivers          []string
	OpportunityScore float64
}
