package decision

import (
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/metrics"
)

// MetricsEvaluator is the metrics-driven rule path. It aggregates raw daily
// metrics and applies per-brand thresholds. Stateless; safe for concurrent
// use.
type MetricsEvaluator struct{}

// NewMetricsEvaluator creates a new metrics-driven evaluator.
func NewMetricsEvaluator() *MetricsEvaluator {
	return &MetricsEvaluator{}
}

// promoteThreshold selects the click threshold for promotion by category.
func promoteThreshold(t *domain.SettingsThresholds, category domain.KeywordCategory) int {
	if category.IsCompetitive() {
		return t.ClicksPromoteCompetitive
	}
	return t.ClicksPromoteStandard
}

// negateThreshold selects the click threshold for negation by category.
func negateThreshold(t *domain.SettingsThresholds, category domain.KeywordCategory) int {
	if category.IsCompetitive() {
		return t.ClicksNegateCompetitive
	}
	return t.ClicksNegateStandard
}

// ShouldPromote decides whether a keyword graduates to the next lifecycle
// stage. medianCVR is the portfolio-wide baseline (fraction); callers pass
// domain.DefaultMedianCVR when no portfolio data is available.
//
// With at least one order the keyword promotes outright: to SKAG at
// SKAGOrderThreshold orders, to Performance below it. With zero orders the
// keyword can still graduate on conversion rate alone when its CVR reaches
// the graduation fraction of the portfolio median.
func (e *MetricsEvaluator) ShouldPromote(daily []domain.KeywordMetricsDaily, thresholds *domain.SettingsThresholds, category domain.KeywordCategory, medianCVR float64) domain.PromotionDecision {
	agg := metrics.Aggregate(daily)
	threshold := promoteThreshold(thresholds, category)

	if agg.TotalClicks < threshold {
		return domain.PromotionDecision{
			ShouldPromote: false,
			Reason:        fmt.Sprintf("Insufficient clicks (%d/%d)", agg.TotalClicks, threshold),
		}
	}

	if agg.TotalOrders >= SKAGOrderThreshold {
		return domain.PromotionDecision{
			ShouldPromote: true,
			TargetStage:   domain.StageSKAG,
			Reason:        fmt.Sprintf("%d orders from %d clicks, promoting to SKAG", agg.TotalOrders, agg.TotalClicks),
		}
	}

	if agg.TotalOrders >= 1 {
		return domain.PromotionDecision{
			ShouldPromote: true,
			TargetStage:   domain.StagePerformance,
			Reason:        fmt.Sprintf("%d order(s) from %d clicks, promoting to Performance", agg.TotalOrders, agg.TotalClicks),
		}
	}

	// Zero orders but click threshold met: CVR graduation against the
	// portfolio baseline.
	cvrThreshold := medianCVR * thresholds.CVRGraduationFactor
	if agg.AvgCVR >= cvrThreshold {
		return domain.PromotionDecision{
			ShouldPromote: true,
			TargetStage:   domain.StagePerformance,
			Reason:        fmt.Sprintf("CVR %.4f meets graduation threshold %.4f (median %.4f x %.2f)", agg.AvgCVR, cvrThreshold, medianCVR, thresholds.CVRGraduationFactor),
		}
	}

	return domain.PromotionDecision{
		ShouldPromote: false,
		Reason:        fmt.Sprintf("CVR %.4f below graduation threshold %.4f", agg.AvgCVR, cvrThreshold),
	}
}

// ShouldNegate decides whether a keyword is negated: enough clicks with no
// orders at all. Negations always use phrase match.
func (e *MetricsEvaluator) ShouldNegate(daily []domain.KeywordMetricsDaily, thresholds *domain.SettingsThresholds, category domain.KeywordCategory) domain.NegationDecision {
	agg := metrics.Aggregate(daily)
	threshold := negateThreshold(thresholds, category)

	if agg.TotalClicks >= threshold && agg.TotalOrders == 0 {
		return domain.NegationDecision{
			ShouldNegate: true,
			MatchType:    domain.NegPhrase,
			Reason:       fmt.Sprintf("%d clicks with zero orders ($%.2f spent)", agg.TotalClicks, agg.TotalSpend),
		}
	}

	return domain.NegationDecision{
		ShouldNegate: false,
		Reason:       fmt.Sprintf("%d clicks, %d orders: negation threshold not met", agg.TotalClicks, agg.TotalOrders),
	}
}

// ShouldPause decides whether a keyword is paused for low CTR. Requires
// PauseMinImpressions before any CTR judgement is made.
func (e *MetricsEvaluator) ShouldPause(daily []domain.KeywordMetricsDaily, thresholds *domain.SettingsThresholds) domain.PauseDecision {
	agg := metrics.Aggregate(daily)

	if agg.Impressions < PauseMinImpressions {
		return domain.PauseDecision{
			ShouldPause: false,
			Reason:      fmt.Sprintf("Insufficient impressions (%d/%d)", agg.Impressions, PauseMinImpressions),
		}
	}

	if agg.AvgCTR < thresholds.CTRPauseThreshold {
		return domain.PauseDecision{
			ShouldPause: true,
			Reason:      fmt.Sprintf("CTR %.4f below pause threshold %.4f over %d impressions", agg.AvgCTR, thresholds.CTRPauseThreshold, agg.Impressions),
		}
	}

	return domain.PauseDecision{
		ShouldPause: false,
		Reason:      fmt.Sprintf("CTR %.4f at or above pause threshold %.4f", agg.AvgCTR, thresholds.CTRPauseThreshold),
	}
}

// GenerateAlert classifies keyword health into a RED/AMBER/GREEN alert.
// Tiers are evaluated in order; the first match wins. targetACOS is a
// fraction; callers pass domain.DefaultTargetACOS when no brand target is
// configured.
func (e *MetricsEvaluator) GenerateAlert(daily []domain.KeywordMetricsDaily, thresholds *domain.SettingsThresholds, targetACOS float64) domain.AlertDecision {
	agg := metrics.Aggregate(daily)

	if agg.TotalSales > 0 && agg.AvgACOS > targetACOS*2 {
		return domain.AlertDecision{
			Level:   domain.AlertRed,
			Message: fmt.Sprintf("ACOS %.1f%% exceeds double the %.1f%% target", agg.AvgACOS*100, targetACOS*100),
		}
	}

	if agg.TotalOrders == 0 && agg.TotalSpend > thresholds.WastedSpendRed {
		return domain.AlertDecision{
			Level:   domain.AlertRed,
			Message: fmt.Sprintf("No orders after $%.2f spend (threshold $%.2f)", agg.TotalSpend, thresholds.WastedSpendRed),
		}
	}

	if agg.Impressions >= AlertMinImpressions && agg.AvgCTR < thresholds.CTRPauseThreshold {
		return domain.AlertDecision{
			Level:   domain.AlertAmber,
			Message: fmt.Sprintf("CTR %.4f below %.4f over %d impressions", agg.AvgCTR, thresholds.CTRPauseThreshold, agg.Impressions),
		}
	}

	if agg.TotalOrders > 0 {
		return domain.AlertDecision{
			Level:   domain.AlertGreen,
			Message: fmt.Sprintf("%d order(s) at %.1f%% ACOS", agg.TotalOrders, agg.AvgACOS*100),
		}
	}

	return domain.AlertDecision{
		Level:   domain.AlertGreen,
		Message: fmt.Sprintf("%d click(s), no issues detected", agg.TotalClicks),
	}
}
