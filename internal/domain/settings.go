package domain

// SettingsThresholds is the per-brand threshold set consumed by the
// metrics-driven rule evaluator. Click thresholds split by standard vs.
// competitive keyword category. CTRPauseThreshold is a fraction
// (0.002 = 0.2%); WastedSpendRed is dollars.
type SettingsThresholds struct {
	BrandID string

	ClicksPromoteStandard    int
	ClicksPromoteCompetitive int
	ClicksNegateStandard     int
	ClicksNegateCompetitive  int

	// CVRGraduationFactor is the fraction of the portfolio median CVR a
	// zero-order keyword must reach to graduate.
	CVRGraduationFactor float64

	CTRPauseThreshold float64
	WastedSpendRed    float64
}

// Canonical fallback thresholds. Reproduced bit-exact; callers default to
// these whenever a brand has no persisted thresholds.
const (
	DefaultClicksPromoteStandard    = 20
	DefaultClicksNegateStandard     = 15
	DefaultClicksPromoteCompetitive = 30
	DefaultClicksNegateCompetitive  = 30
	DefaultCVRGraduationFactor      = 0.8
	DefaultCTRPauseThreshold        = 0.002
	DefaultWastedSpendRed           = 500.0
)

// DefaultMedianCVR is the portfolio CVR baseline used when no keyword
// qualifies for the median computation.
const DefaultMedianCVR = 0.05

// DefaultTargetACOS is the fractional ACOS target assumed when a caller
// supplies none.
const DefaultTargetACOS = 0.30

// DefaultThresholds returns the canonical fallback threshold set for a brand.
func DefaultThresholds(brandID string) *SettingsThresholds {
	return &SettingsThresholds{
		BrandID:                  brandID,
		ClicksPromoteStandard:    DefaultClicksPromoteStandard,
		ClicksNegateStandard:     DefaultClicksNegateStandard,
		ClicksPromoteCompetitive: DefaultClicksPromoteCompetitive,
		ClicksNegateCompetitive:  DefaultClicksNegateCompetitive,
		CVRGraduationFactor:      DefaultCVRGraduationFactor,
		CTRPauseThreshold:        DefaultCTRPauseThreshold,
		WastedSpendRed:           DefaultWastedSpendRed,
	}
}

// BrandSettings is the per-brand configuration consumed by the
// performance-driven evaluator path. Targets are percentage numbers
// (TargetACOS 30 means 30%), matching KeywordPerformance's units.
type BrandSettings struct {
	BrandID string

	ClicksToPromote int
	ClicksToNegate  int

	TargetACOS float64 // percent
	TargetCTR  float64 // percent
	TargetCVR  float64 // percent
	TargetROAS float64

	// CVRFactorMedian is the brand's dynamic CVR baseline: portfolio median
	// CVR scaled by the graduation factor. Refreshed by callers from
	// CalculatePortfolioCVRMedian before batch evaluation. Percent units.
	CVRFactorMedian float64

	CTRPauseThreshold       float64 // percent
	WastedSpendRedThreshold float64 // dollars

	EnableAutoPromotion            bool
	EnableAutoNegation             bool
	EnableAutoPause                bool
	EnableCannibalizationDetection bool
}
