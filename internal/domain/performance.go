package domain

// RAGStatus is the Red/Amber/Green health classification of a keyword.
type RAGStatus string

const (
	RAGRed   RAGStatus = "RED"
	RAGAmber RAGStatus = "AMBER"
	RAGGreen RAGStatus = "GREEN"
)

// KeywordPerformance is a materialized, already-aggregated performance
// snapshot per keyword per brand. Corresponds to keyword_performance table
// in PostgreSQL.
//
// Rate fields on this record are percentage numbers (ACOS 25 means 25%),
// unlike AggregatedMetrics which carries fractions. The two conventions are
// consumed by different evaluators and must not be mixed.
type KeywordPerformance struct {
	KeywordID   string
	BrandID     string
	KeywordText string

	Impressions int
	Clicks      int
	Orders      int
	Spend       float64
	Sales       float64

	CTR  float64 // percent
	CVR  float64 // percent
	ACOS float64 // percent
	ROAS float64

	Stage            LifecycleStage
	RAGStatus        RAGStatus
	RAGDrivers       []string
	OpportunityScore float64

	UpdatedAt int64 // Unix timestamp in milliseconds
}

// RAGResult holds a computed RAG classification with its drivers.
type RAGResult struct {
	Status  RAGStatus
	Drivers []string
}
