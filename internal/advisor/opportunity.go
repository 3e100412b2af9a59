package advisor

import "ppc-keyword-lab/internal/metrics"

// CalculateOpportunityScore ranks keyword attractiveness from search
// volume, relevance (IQ) score, competition, and cost. Returns 0 when
// either competingProducts or cpcEstimate is 0. Rounded to 4 decimal
// places.
func CalculateOpportunityScore(searchVolume float64, iqScore float64, competingProducts float64, cpcEstimate float64) float64 {
	if competingProducts == 0 || cpcEstimate == 0 {
		return 0
	}

	score := (searchVolume * iqScore) / (competingProducts * cpcEstimate)
	return metrics.Round(score, 4)
}
