// Package decision implements the keyword lifecycle rule evaluators.
//
// Two evaluators coexist on purpose. MetricsEvaluator consumes raw daily
// metrics plus SettingsThresholds and works in fractional units (CTR 0.05
// means 5%). PerformanceEvaluator consumes pre-aggregated
// KeywordPerformance snapshots plus BrandSettings and works in percentage
// numbers (ACOS 25 means 25%). They carry different confidence constants
// and different action vocabularies; callers rely on each independently,
// so they are kept as distinct named strategies rather than merged.
package decision

// Confidence attached to each performance-path rule outcome.
const (
	ConfidencePromote  = 85
	ConfidenceNegate   = 90
	ConfidencePause    = 75
	ConfidenceMaintain = 50
)

// Auto-action gates: an enabled brand flag alone is not enough, the
// decision's confidence must also clear the bar for its action.
const (
	AutoPromoteMinConfidence = 80
	AutoNegateMinConfidence  = 85
	AutoPauseMinConfidence   = 70
)

// Candidate-query confidence floors. These differ from the auto-action
// gates above (promotion 75 vs 80, negation 80 vs 85); both sets are load
// bearing for existing callers.
const (
	PromotionCandidateFloor = 75
	NegationCandidateFloor  = 80
	PauseCandidateFloor     = 70
)

// PauseMinImpressions is the minimum sample a pause decision requires;
// below it no CTR judgement is made at all.
const PauseMinImpressions = 200

// AlertMinImpressions gates the AMBER low-CTR alert tier.
const AlertMinImpressions = 200

// SKAGOrderThreshold is the order count that jumps a promotion directly to
// SKAG instead of the next stage.
const SKAGOrderThreshold = 3

// PausePathMinClicks gates the performance-path pause rule.
const PausePathMinClicks = 5

// RAG indicator sample gates.
const (
	RAGMinClicksCTR = 5
	RAGMinClicksCVR = 10
)
