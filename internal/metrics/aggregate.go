// Package metrics reduces daily keyword metrics into aggregate summaries.
package metrics

import "ppc-keyword-lab/internal/domain"

// Aggregate reduces a time-series of daily keyword metrics into a single
// summary. Input order is irrelevant; sums are exact and rate fields use
// safe division (zero denominator yields zero, never NaN or Inf).
// An empty input produces an all-zero aggregate.
func Aggregate(daily []domain.KeywordMetricsDaily) domain.AggregatedMetrics {
	var agg domain.AggregatedMetrics

	for _, d := range daily {
		agg.TotalClicks += d.Clicks
		agg.TotalOrders += d.Orders
		agg.TotalSpend += d.Spend
		agg.TotalSales += d.Sales
		agg.Impressions += d.Impressions
	}

	agg.AvgCTR = SafeDivide(float64(agg.TotalClicks), float64(agg.Impressions))
	agg.AvgCVR = SafeDivide(float64(agg.TotalOrders), float64(agg.TotalClicks))
	agg.AvgACOS = SafeDivide(agg.TotalSpend, agg.TotalSales)

	return agg
}

// Combine merges two aggregates computed over disjoint day-lists.
// Rates are recomputed from the combined totals, not averaged.
func Combine(a, b domain.AggregatedMetrics) domain.AggregatedMetrics {
	combined := domain.AggregatedMetrics{
		TotalClicks: a.TotalClicks + b.TotalClicks,
		TotalOrders: a.TotalOrders + b.TotalOrders,
		TotalSpend:  a.TotalSpend + b.TotalSpend,
		TotalSales:  a.TotalSales + b.TotalSales,
		Impressions: a.Impressions + b.Impressions,
	}

	combined.AvgCTR = SafeDivide(float64(combined.TotalClicks), float64(combined.Impressions))
	combined.AvgCVR = SafeDivide(float64(combined.TotalOrders), float64(combined.TotalClicks))
	combined.AvgACOS = SafeDivide(combined.TotalSpend, combined.TotalSales)

	return combined
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is 0.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
