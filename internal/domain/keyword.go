package domain

// KeywordCategory classifies a keyword for threshold selection.
type KeywordCategory string

const (
	CategoryGeneric     KeywordCategory = "GENERIC"
	CategoryCompetitor  KeywordCategory = "COMPETITOR"
	CategoryBrand       KeywordCategory = "BRAND"
	CategoryBranded     KeywordCategory = "BRANDED"
	CategoryProductCore KeywordCategory = "PRODUCT_CORE"
)

// IsCompetitive reports whether the competitive threshold set applies.
// Only COMPETITOR keywords use the competitive thresholds today.
func (c KeywordCategory) IsCompetitive() bool {
	return c == CategoryCompetitor
}

// KeywordIntent classifies purchase intent for bid advice.
type KeywordIntent string

const (
	IntentHigh KeywordIntent = "HIGH"
	IntentMid  KeywordIntent = "MID"
	IntentLow  KeywordIntent = "LOW"
)

// LifecycleStage is the ordered keyword lifecycle state.
// Promotion moves forward one stage at a time; Archived is terminal.
type LifecycleStage string

const (
	StageDiscovery   LifecycleStage = "DISCOVERY"
	StageTest        LifecycleStage = "TEST"
	StagePerformance LifecycleStage = "PERFORMANCE"
	StageSKAG        LifecycleStage = "SKAG"
	StageArchived    LifecycleStage = "ARCHIVED"
)

// Next returns the stage a promotion advances to.
// SKAG promotes to itself; Archived never leaves Archived.
func (s LifecycleStage) Next() LifecycleStage {
	switch s {
	case StageDiscovery:
		return StageTest
	case StageTest:
		return StagePerformance
	case StagePerformance:
		return StageSKAG
	case StageSKAG:
		return StageSKAG
	case StageArchived:
		return StageArchived
	}
	return s
}

// Order returns the position of s on the forward lifecycle path, Discovery
// first. Archived is terminal and orders last.
func (s LifecycleStage) Order() int {
	switch s {
	case StageDiscovery:
		return 0
	case StageTest:
		return 1
	case StagePerformance:
		return 2
	case StageSKAG:
		return 3
	case StageArchived:
		return 4
	}
	return -1
}

// Keyword is a tracked search term within a brand's keyword bank.
// Corresponds to keywords table in PostgreSQL.
type Keyword struct {
	KeywordID          string
	BrandID            string
	Text               string
	Category           KeywordCategory
	Intent             KeywordIntent
	Stage              LifecycleStage
	Paused             bool
	CampaignID         *string // campaign the keyword currently runs in (nullable)
	ResearchCampaignID *string // discovery/research campaign it graduated from (nullable)
	CreatedAt          int64   // Unix timestamp in milliseconds
}
