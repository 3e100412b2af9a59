package decision

import (
	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/metrics"
)

// MinClicksForCVRMedian is the sample floor a keyword needs before its CVR
// counts toward the portfolio median.
const MinClicksForCVRMedian = 10

// EvaluateBatch applies the performance-path evaluator to each keyword
// independently; keywords only interact through the baseline already baked
// into settings.
func EvaluateBatch(performances []*domain.KeywordPerformance, settings *domain.BrandSettings) map[string]domain.LifecycleDecision {
	evaluator := NewPerformanceEvaluator()

	decisions := make(map[string]domain.LifecycleDecision, len(performances))
	for _, perf := range performances {
		decisions[perf.KeywordID] = evaluator.Evaluate(perf, settings)
	}
	return decisions
}

// CalculatePortfolioCVRMedian computes the median CVR (percent) over
// keywords with more than MinClicksForCVRMedian clicks. Standard median:
// even-length inputs average the two middle values. Returns 0 when no
// keyword qualifies.
func CalculatePortfolioCVRMedian(performances []*domain.KeywordPerformance) float64 {
	var cvrs []float64
	for _, perf := range performances {
		if perf.Clicks > MinClicksForCVRMedian {
			cvrs = append(cvrs, perf.CVR)
		}
	}
	return metrics.Median(cvrs)
}

// GetPromotionCandidates returns keywords whose evaluation lands on promote
// with confidence at or above PromotionCandidateFloor.
func GetPromotionCandidates(performances []*domain.KeywordPerformance, settings *domain.BrandSettings) []*domain.KeywordPerformance {
	return filterByAction(performances, settings, domain.ActionPromote, PromotionCandidateFloor)
}

// GetNegationCandidates returns keywords whose evaluation lands on negate
// with confidence at or above NegationCandidateFloor.
func GetNegationCandidates(performances []*domain.KeywordPerformance, settings *domain.BrandSettings) []*domain.KeywordPerformance {
	return filterByAction(performances, settings, domain.ActionNegate, NegationCandidateFloor)
}

// GetPauseCandidates returns keywords whose evaluation lands on pause with
// confidence at or above PauseCandidateFloor.
func GetPauseCandidates(performances []*domain.KeywordPerformance, settings *domain.BrandSettings) []*domain.KeywordPerformance {
	return filterByAction(performances, settings, domain.ActionPause, PauseCandidateFloor)
}

func filterByAction(performances []*domain.KeywordPerformance, settings *domain.BrandSettings, action domain.DecisionAction, minConfidence int) []*domain.KeywordPerformance {
	evaluator := NewPerformanceEvaluator()

	var result []*domain.KeywordPerformance
	for _, perf := range performances {
		d := evaluator.Evaluate(perf, settings)
		if d.Action == action && d.Confidence >= minConfidence {
			result = append(result, perf)
		}
	}
	return result
}

// GetKeywordsNeedingAttention returns keywords whose RAG status is Red or
// Amber.
func GetKeywordsNeedingAttention(performances []*domain.KeywordPerformance, settings *domain.BrandSettings) []*domain.KeywordPerformance {
	var result []*domain.KeywordPerformance
	for _, perf := range performances {
		rag := CalculateRAGStatus(perf, settings)
		if rag.Status == domain.RAGRed || rag.Status == domain.RAGAmber {
			result = append(result, perf)
		}
	}
	return result
}
