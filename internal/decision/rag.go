package decision

import (
	"fmt"

	"ppc-keyword-lab/internal/domain"
)

// CalculateRAGStatus scores four independent health indicators and rolls
// them into a Red/Amber/Green status. Pure function: identical input yields
// identical output.
//
// Indicators (percent units throughout, matching KeywordPerformance):
//   - wasted spend above the brand's red threshold
//   - ACOS above 1.5x / 1.2x target (only when ACOS > 0)
//   - CTR below 0.5x / 0.8x target (only past RAGMinClicksCTR clicks)
//   - CVR below 0.5x / 0.8x target (only past RAGMinClicksCVR clicks)
//
// Two reds make Red; one red or two ambers make Amber; otherwise Green.
func CalculateRAGStatus(perf *domain.KeywordPerformance, settings *domain.BrandSettings) domain.RAGResult {
	var drivers []string
	redCount := 0
	amberCount := 0

	wasted := WastedSpend(perf.Spend, perf.Sales, settings.TargetACOS)
	if wasted > settings.WastedSpendRedThreshold {
		redCount++
		drivers = append(drivers, fmt.Sprintf("Wasted spend $%.2f exceeds $%.2f threshold", wasted, settings.WastedSpendRedThreshold))
	}

	if perf.ACOS > 0 {
		switch {
		case perf.ACOS > settings.TargetACOS*1.5:
			redCount++
			drivers = append(drivers, fmt.Sprintf("ACOS %.1f%% above 1.5x target (%.1f%%)", perf.ACOS, settings.TargetACOS))
		case perf.ACOS > settings.TargetACOS*1.2:
			amberCount++
			drivers = append(drivers, fmt.Sprintf("ACOS %.1f%% above 1.2x target (%.1f%%)", perf.ACOS, settings.TargetACOS))
		}
	}

	if perf.Clicks > RAGMinClicksCTR {
		switch {
		case perf.CTR < settings.TargetCTR*0.5:
			redCount++
			drivers = append(drivers, fmt.Sprintf("CTR %.3f%% below half of target (%.3f%%)", perf.CTR, settings.TargetCTR))
		case perf.CTR < settings.TargetCTR*0.8:
			amberCount++
			drivers = append(drivers, fmt.Sprintf("CTR %.3f%% below 0.8x target (%.3f%%)", perf.CTR, settings.TargetCTR))
		}
	}

	if perf.Clicks > RAGMinClicksCVR {
		switch {
		case perf.CVR < settings.TargetCVR*0.5:
			redCount++
			drivers = append(drivers, fmt.Sprintf("CVR %.2f%% below half of target (%.2f%%)", perf.CVR, settings.TargetCVR))
		case perf.CVR < settings.TargetCVR*0.8:
			amberCount++
			drivers = append(drivers, fmt.Sprintf("CVR %.2f%% below 0.8x target (%.2f%%)", perf.CVR, settings.TargetCVR))
		}
	}

	status := domain.RAGGreen
	switch {
	case redCount >= 2:
		status = domain.RAGRed
	case redCount == 1 || amberCount >= 2:
		status = domain.RAGAmber
	}

	if len(drivers) == 0 {
		drivers = append(drivers, "All metrics within target")
	}

	return domain.RAGResult{Status: status, Drivers: drivers}
}

// WastedSpend estimates spend not covered by sales at the target ACOS
// (percent). With zero sales every dollar spent is wasted.
func WastedSpend(spend, sales, targetACOS float64) float64 {
	if sales == 0 {
		return spend
	}
	if targetACOS == 0 {
		return spend
	}
	return spend - sales/(targetACOS/100)
}
