package domain

// MatchType is an Amazon Advertising campaign match type.
type MatchType string

const (
	MatchExact  MatchType = "EXACT"
	MatchPhrase MatchType = "PHRASE"
	MatchBroad  MatchType = "BROAD"
)

// NegativeMatchType is the match type of a negative keyword record.
type NegativeMatchType string

const (
	NegPhrase NegativeMatchType = "NEG_PHRASE"
	NegExact  NegativeMatchType = "NEG_EXACT"
)

// NegativeScope identifies the level a negative keyword applies at.
type NegativeScope string

const (
	ScopeCampaign NegativeScope = "CAMPAIGN"
	ScopeAdGroup  NegativeScope = "AD_GROUP"
)

// Campaign is an advertising campaign within a brand.
// Corresponds to campaigns table in PostgreSQL.
type Campaign struct {
	CampaignID string
	BrandID    string
	Name       string
	MatchType  MatchType
	CreatedAt  int64 // Unix timestamp in milliseconds
}

// KeywordAssignment places a keyword term into a campaign.
// Corresponds to keyword_assignments table in PostgreSQL.
type KeywordAssignment struct {
	AssignmentID string
	BrandID      string
	KeywordText  string
	CampaignID   string
	AdGroupID    *string // nullable
	CreatedAt    int64
}

// NegativeKeyword excludes a term from matching in a campaign.
// Corresponds to negative_keywords table in PostgreSQL.
// Records are append-only; never mutated after creation.
type NegativeKeyword struct {
	NegativeID          string
	BrandID             string
	Term                string
	MatchType           NegativeMatchType
	Scope               NegativeScope
	AppliedToCampaignID string
	Reason              string
	RuleTrigger         string // which rule created it: promotion | negation | cannibalization_fix
	CreatedAt           int64
}

// ActionLogEntry is an immutable audit record of an applied lifecycle
// decision. Corresponds to action_log table in PostgreSQL.
type ActionLogEntry struct {
	EntryID     string
	BrandID     string
	KeywordID   string
	Action      DecisionAction
	BeforeStage LifecycleStage
	AfterStage  LifecycleStage
	Reason      string
	Actor       string // "system" for orchestrator-applied decisions
	CreatedAt   int64
}

// KeywordAlert is a raised health alert for a keyword.
// Corresponds to keyword_alerts table in PostgreSQL.
type KeywordAlert struct {
	AlertID   string
	BrandID   string
	KeywordID string
	Level     AlertLevel
	Message   string
	CreatedAt int64
}
