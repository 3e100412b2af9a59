package domain

// DecisionAction is the lifecycle action an evaluator settles on.
type DecisionAction string

const (
	ActionPromote  DecisionAction = "PROMOTE"
	ActionNegate   DecisionAction = "NEGATE"
	ActionPause    DecisionAction = "PAUSE"
	ActionMaintain DecisionAction = "MAINTAIN"
)

// AlertLevel is the severity tier of a keyword alert.
type AlertLevel string

const (
	AlertRed   AlertLevel = "RED"
	AlertAmber AlertLevel = "AMBER"
	AlertGreen AlertLevel = "GREEN"
)

// LifecycleDecision is the performance-path evaluator output.
type LifecycleDecision struct {
	KeywordID  string
	Action     DecisionAction
	ToStage    LifecycleStage // set for PROMOTE, empty otherwise
	Reason     string         // diagnostic text carrying the numeric evidence
	Confidence int            // 0-100
}

// PromotionDecision is the metrics-path promotion output.
type PromotionDecision struct {
	ShouldPromote bool
	TargetStage   LifecycleStage // SKAG or PERFORMANCE when promoting
	Reason        string
}

// NegationDecision is the metrics-path negation output.
type NegationDecision struct {
	ShouldNegate bool
	MatchType    NegativeMatchType
	Reason       string
}

// PauseDecision is the metrics-path pause output.
type PauseDecision struct {
	ShouldPause bool
	Reason      string
}

// AlertDecision is the metrics-path RAG alert output.
type AlertDecision struct {
	Level   AlertLevel
	Message string
}

// BidAdvice is the bid advisor output. BaseBid is rounded to 4 decimal
// places and never exceeds the CPC ceiling it was computed from; placement
// modifiers are fractions rounded to 2 decimal places.
type BidAdvice struct {
	BaseBid         float64
	PlacementTos    float64 // top-of-search modifier
	PlacementPp     float64 // product-pages modifier
	Reasoning       string
	IntentAssumed   KeywordIntent
	UsedPerformance bool
}
