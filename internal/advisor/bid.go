// Package advisor computes bid recommendations and opportunity scores.
package advisor

import (
	"fmt"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/metrics"
)

// Performance nudge thresholds and adjustments.
const (
	strongPerformanceMinOrders = 2
	strongPerformanceACOSRatio = 0.5 // ACOS under half of target
	highACOSRatio              = 1.5 // ACOS over 1.5x target

	strongBidMultiplier   = 1.15
	highACOSBidMultiplier = 0.85

	tosNudge = 0.10
	ppNudge  = 0.05
)

// intentMultipliers holds base bid and placement multipliers per intent.
type intentMultipliers struct {
	base float64
	tos  float64
	pp   float64
}

func multipliersFor(intent domain.KeywordIntent) intentMultipliers {
	switch intent {
	case domain.IntentHigh:
		return intentMultipliers{base: 1.2, tos: 0.55, pp: 0.35}
	case domain.IntentMid:
		return intentMultipliers{base: 1.0, tos: 0.35, pp: 0.25}
	case domain.IntentLow:
		return intentMultipliers{base: 0.8, tos: 0.25, pp: 0.15}
	}
	// Unknown intent falls back to mid multipliers.
	return intentMultipliers{base: 1.0, tos: 0.35, pp: 0.25}
}

// CalculateBidAdvice recommends a starting bid and placement modifiers.
// daily may be nil when no performance history exists; targetACOS is a
// fraction and defaults to domain.DefaultTargetACOS when non-positive.
//
// The final bid never exceeds cpcMax regardless of nudges. Bid is rounded
// to 4 decimal places, placement modifiers to 2.
func CalculateBidAdvice(cpcMax float64, intent domain.KeywordIntent, daily []domain.KeywordMetricsDaily, targetACOS float64) domain.BidAdvice {
	if targetACOS <= 0 {
		targetACOS = domain.DefaultTargetACOS
	}

	m := multipliersFor(intent)
	bid := cpcMax * m.base
	tos := m.tos
	pp := m.pp
	reason := fmt.Sprintf("%s intent: base multiplier %.2f", intent, m.base)
	usedPerformance := false

	if len(daily) > 0 {
		agg := metrics.Aggregate(daily)
		switch {
		case agg.TotalOrders >= strongPerformanceMinOrders && agg.AvgACOS < targetACOS*strongPerformanceACOSRatio:
			bid *= strongBidMultiplier
			tos += tosNudge
			pp += ppNudge
			reason += fmt.Sprintf("; raised for strong performance (%d orders, ACOS %.1f%%)", agg.TotalOrders, agg.AvgACOS*100)
			usedPerformance = true
		case agg.TotalSpend > 0 && agg.AvgACOS > targetACOS*highACOSRatio:
			bid *= highACOSBidMultiplier
			tos -= tosNudge
			pp -= ppNudge
			if tos < 0 {
				tos = 0
			}
			if pp < 0 {
				pp = 0
			}
			reason += fmt.Sprintf("; lowered for high ACOS (%.1f%% vs %.1f%% target)", agg.AvgACOS*100, targetACOS*100)
			usedPerformance = true
		}
	}

	if bid > cpcMax {
		bid = cpcMax
	}

	return domain.BidAdvice{
		BaseBid:         metrics.Round(bid, 4),
		PlacementTos:    metrics.Round(tos, 2),
		PlacementPp:     metrics.Round(pp, 2),
		Reasoning:       reason,
		IntentAssumed:   intent,
		UsedPerformance: usedPerformance,
	}
}
