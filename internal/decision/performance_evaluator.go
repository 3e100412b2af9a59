package decision

import (
	"fmt"

	"ppc-keyword-lab/internal/domain"
)

// PerformanceEvaluator is the performance-driven rule path. It consumes
// pre-aggregated KeywordPerformance snapshots in percentage units.
// Stateless; safe for concurrent use.
type PerformanceEvaluator struct{}

// NewPerformanceEvaluator creates a new performance-driven evaluator.
func NewPerformanceEvaluator() *PerformanceEvaluator {
	return &PerformanceEvaluator{}
}

// Evaluate applies the lifecycle stage rules in order; the first match
// wins:
//
//  1. Promote: enough clicks, ACOS on target, CVR above baseline.
//  2. Negate: enough clicks and either runaway ACOS or collapsed CVR.
//  3. Pause: meaningful click sample with CTR under the pause threshold.
//  4. Maintain: everything else.
func (e *PerformanceEvaluator) Evaluate(perf *domain.KeywordPerformance, settings *domain.BrandSettings) domain.LifecycleDecision {
	if perf.Clicks >= settings.ClicksToPromote &&
		perf.ACOS > 0 && perf.ACOS <= settings.TargetACOS &&
		perf.CVR > settings.CVRFactorMedian {
		return domain.LifecycleDecision{
			KeywordID:  perf.KeywordID,
			Action:     domain.ActionPromote,
			ToStage:    perf.Stage.Next(),
			Confidence: ConfidencePromote,
			Reason: fmt.Sprintf("Strong performance: %d clicks, ACOS %.1f%% within %.1f%% target, CVR %.2f%% above %.2f%% baseline",
				perf.Clicks, perf.ACOS, settings.TargetACOS, perf.CVR, settings.CVRFactorMedian),
		}
	}

	if perf.Clicks >= settings.ClicksToNegate &&
		(perf.ACOS > settings.TargetACOS*2 || perf.CVR < settings.CVRFactorMedian*0.5) {
		return domain.LifecycleDecision{
			KeywordID:  perf.KeywordID,
			Action:     domain.ActionNegate,
			Confidence: ConfidenceNegate,
			Reason: fmt.Sprintf("Poor performance: %d clicks, ACOS %.1f%% (target %.1f%%), CVR %.2f%% (baseline %.2f%%)",
				perf.Clicks, perf.ACOS, settings.TargetACOS, perf.CVR, settings.CVRFactorMedian),
		}
	}

	if perf.Clicks > PausePathMinClicks && perf.CTR < settings.CTRPauseThreshold {
		return domain.LifecycleDecision{
			KeywordID:  perf.KeywordID,
			Action:     domain.ActionPause,
			Confidence: ConfidencePause,
			Reason: fmt.Sprintf("Low engagement: CTR %.3f%% below %.3f%% pause threshold over %d clicks",
				perf.CTR, settings.CTRPauseThreshold, perf.Clicks),
		}
	}

	return domain.LifecycleDecision{
		KeywordID:  perf.KeywordID,
		Action:     domain.ActionMaintain,
		Confidence: ConfidenceMaintain,
		Reason:     fmt.Sprintf("No rule matched: %d clicks, ACOS %.1f%%, CVR %.2f%%", perf.Clicks, perf.ACOS, perf.CVR),
	}
}

// ShouldAutoPromote reports whether a promote decision may be applied
// without review: the brand flag is on and confidence clears the gate.
func ShouldAutoPromote(d domain.LifecycleDecision, settings *domain.BrandSettings) bool {
	return settings.EnableAutoPromotion &&
		d.Action == domain.ActionPromote &&
		d.Confidence >= AutoPromoteMinConfidence
}

// ShouldAutoNegate reports whether a negate decision may be applied
// without review.
func ShouldAutoNegate(d domain.LifecycleDecision, settings *domain.BrandSettings) bool {
	return settings.EnableAutoNegation &&
		d.Action == domain.ActionNegate &&
		d.Confidence >= AutoNegateMinConfidence
}

// ShouldAutoPause reports whether a pause decision may be applied without
// review.
func ShouldAutoPause(d domain.LifecycleDecision, settings *domain.BrandSettings) bool {
	return settings.EnableAutoPause &&
		d.Action == domain.ActionPause &&
		d.Confidence >= AutoPauseMinConfidence
}
