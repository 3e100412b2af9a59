package metrics

import (
	"math"
	"sort"
)

// Median returns the statistical median of values: the middle element for
// odd-length input, the average of the two middle elements for even-length
// input. Returns 0 for empty input. The input slice is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// MiddleElement returns the middle element of the sorted values
// (upper-middle for even-length input), or fallback for empty input.
// This is the orchestrator's portfolio-baseline convention; it is
// deliberately distinct from Median, which averages the two middle values.
func MiddleElement(values []float64, fallback float64) float64 {
	n := len(values)
	if n == 0 {
		return fallback
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return sorted[n/2]
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
