package decision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
)

func defaultThresholds() *domain.SettingsThresholds {
	return domain.DefaultThresholds("brand-1")
}

func singleDay(impressions, clicks int, spend float64, orders int, sales float64) []domain.KeywordMetricsDaily {
	return []domain.KeywordMetricsDaily{{
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       spend,
		Orders:      orders,
		Sales:       sales,
	}}
}

func TestShouldPromote_InsufficientClicks(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldPromote(singleDay(500, 19, 10, 5, 50), defaultThresholds(), domain.CategoryGeneric, 0.05)

	assert.False(t, d.ShouldPromote)
	assert.Contains(t, d.Reason, "Insufficient clicks (19/20)")
}

func TestShouldPromote_ThreeOrdersJumpsToSKAG(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldPromote(singleDay(1000, 25, 12, 3, 60), defaultThresholds(), domain.CategoryGeneric, 0.05)

	require.True(t, d.ShouldPromote)
	assert.Equal(t, domain.StageSKAG, d.TargetStage)
}

func TestShouldPromote_OneOrderTargetsPerformance(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldPromote(singleDay(1000, 25, 12, 1, 20), defaultThresholds(), domain.CategoryGeneric, 0.05)

	require.True(t, d.ShouldPromote)
	assert.Equal(t, domain.StagePerformance, d.TargetStage)
}

// Increasing orders from 0 to 1 to 3 must never withdraw a promotion, and
// the target stage must flip to SKAG exactly at 3 orders.
func TestShouldPromote_Monotonicity(t *testing.T) {
	e := NewMetricsEvaluator()
	thresholds := defaultThresholds()

	var promoted bool
	for _, orders := range []int{0, 1, 2, 3, 5} {
		d := e.ShouldPromote(singleDay(1000, 25, 12, orders, float64(orders)*20), thresholds, domain.CategoryGeneric, 0.05)
		if promoted {
			require.True(t, d.ShouldPromote, "orders=%d withdrew an earlier promotion", orders)
		}
		promoted = promoted || d.ShouldPromote

		if orders >= 1 && orders < 3 {
			assert.Equal(t, domain.StagePerformance, d.TargetStage, "orders=%d", orders)
		}
		if orders >= 3 {
			assert.Equal(t, domain.StageSKAG, d.TargetStage, "orders=%d", orders)
		}
	}
}

func TestShouldPromote_CVRGraduation(t *testing.T) {
	e := NewMetricsEvaluator()
	thresholds := defaultThresholds()

	// Zero orders: promotion requires CVR >= median * graduation factor.
	// With medianCVR=0.05 and factor 0.8, the bar is 0.04.
	tests := []struct {
		name   string
		clicks int
		orders int
		want   bool
	}{
		// 25 clicks, 0 orders: CVR 0 < 0.04
		{"zero cvr fails graduation", 25, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.ShouldPromote(singleDay(1000, tt.clicks, 12, tt.orders, 0), thresholds, domain.CategoryGeneric, 0.05)
			assert.Equal(t, tt.want, d.ShouldPromote)
		})
	}
}

func TestShouldPromote_CVRGraduationPasses(t *testing.T) {
	e := NewMetricsEvaluator()

	// Orders drive CVR; to test pure graduation use orders on some days but
	// the rule fires earlier with any order. Graduation is only reachable at
	// exactly zero orders, which forces CVR 0 - so it can only pass when the
	// graduation bar itself is 0 (median 0 portfolio).
	d := e.ShouldPromote(singleDay(1000, 25, 12, 0, 0), defaultThresholds(), domain.CategoryGeneric, 0)

	require.True(t, d.ShouldPromote)
	assert.Equal(t, domain.StagePerformance, d.TargetStage)
	assert.Contains(t, d.Reason, "graduation")
}

func TestShouldPromote_CompetitiveThreshold(t *testing.T) {
	e := NewMetricsEvaluator()

	// 25 clicks clears the standard threshold (20) but not the
	// competitive one (30).
	d := e.ShouldPromote(singleDay(1000, 25, 12, 3, 60), defaultThresholds(), domain.CategoryCompetitor, 0.05)

	assert.False(t, d.ShouldPromote)
	assert.Contains(t, d.Reason, "25/30")
}

func TestShouldNegate_AtThreshold(t *testing.T) {
	e := NewMetricsEvaluator()

	// Exactly at the standard threshold of 15 clicks with zero orders
	d := e.ShouldNegate(singleDay(1000, 15, 15, 0, 0), defaultThresholds(), domain.CategoryGeneric)

	require.True(t, d.ShouldNegate)
	assert.Equal(t, domain.NegPhrase, d.MatchType)
	assert.Contains(t, d.Reason, "15 clicks")
	assert.Contains(t, d.Reason, "$15.00")
}

func TestShouldNegate_BelowThreshold(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldNegate(singleDay(1000, 14, 15, 0, 0), defaultThresholds(), domain.CategoryGeneric)

	assert.False(t, d.ShouldNegate)
}

func TestShouldNegate_OrdersBlockNegation(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldNegate(singleDay(1000, 40, 30, 1, 25), defaultThresholds(), domain.CategoryGeneric)

	assert.False(t, d.ShouldNegate)
}

func TestShouldNegate_Scenario(t *testing.T) {
	e := NewMetricsEvaluator()

	d := e.ShouldNegate(singleDay(1000, 20, 15, 0, 0), defaultThresholds(), domain.CategoryGeneric)

	if !d.ShouldNegate {
		t.Fatalf("expected negation, got %+v", d)
	}
	if d.MatchType != domain.NegPhrase {
		t.Errorf("expected NEG_PHRASE, got %s", d.MatchType)
	}
}

func TestShouldPause_RequiresImpressions(t *testing.T) {
	e := NewMetricsEvaluator()

	// CTR is terrible but the sample is too small to judge
	d := e.ShouldPause(singleDay(199, 0, 0, 0, 0), defaultThresholds())

	assert.False(t, d.ShouldPause)
	assert.Contains(t, d.Reason, "Insufficient impressions")
}

func TestShouldPause_LowCTR(t *testing.T) {
	e := NewMetricsEvaluator()

	// 1000 impressions, 1 click: CTR 0.001 < 0.002
	d := e.ShouldPause(singleDay(1000, 1, 0.5, 0, 0), defaultThresholds())

	assert.True(t, d.ShouldPause)
}

func TestShouldPause_HealthyCTR(t *testing.T) {
	e := NewMetricsEvaluator()

	// 1000 impressions, 10 clicks: CTR 0.01 >= 0.002
	d := e.ShouldPause(singleDay(1000, 10, 5, 0, 0), defaultThresholds())

	assert.False(t, d.ShouldPause)
}

func TestGenerateAlert_Tiers(t *testing.T) {
	e := NewMetricsEvaluator()
	thresholds := defaultThresholds()
	targetACOS := 0.30

	tests := []struct {
		name      string
		daily     []domain.KeywordMetricsDaily
		wantLevel domain.AlertLevel
		wantIn    string
	}{
		{
			// acos = 70/100 = 0.7 > 0.6
			name:      "red on double target acos",
			daily:     singleDay(1000, 50, 70, 4, 100),
			wantLevel: domain.AlertRed,
			wantIn:    "ACOS",
		},
		{
			name:      "red on wasted spend with no orders",
			daily:     singleDay(10000, 300, 501, 0, 0),
			wantLevel: domain.AlertRed,
			wantIn:    "spend",
		},
		{
			// 1000 impressions, 1 click: CTR 0.001 < 0.002
			name:      "amber on low ctr with sample",
			daily:     singleDay(1000, 1, 0.4, 0, 0),
			wantLevel: domain.AlertAmber,
			wantIn:    "CTR",
		},
		{
			// acos = 20/100 = 0.2, healthy
			name:      "green with orders cites acos",
			daily:     singleDay(1000, 50, 20, 4, 100),
			wantLevel: domain.AlertGreen,
			wantIn:    "ACOS",
		},
		{
			name:      "green without orders cites clicks",
			daily:     singleDay(100, 3, 1.2, 0, 0),
			wantLevel: domain.AlertGreen,
			wantIn:    "click",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := e.GenerateAlert(tt.daily, thresholds, targetACOS)
			assert.Equal(t, tt.wantLevel, alert.Level)
			assert.True(t, strings.Contains(alert.Message, tt.wantIn), "message %q missing %q", alert.Message, tt.wantIn)
		})
	}
}

// The first matching tier wins: high ACOS beats a low-CTR amber.
func TestGenerateAlert_FirstMatchWins(t *testing.T) {
	e := NewMetricsEvaluator()

	// acos 0.7 (red tier 1) and CTR 0.001 (amber tier 3)
	daily := singleDay(1000, 1, 70, 1, 100)
	alert := e.GenerateAlert(daily, defaultThresholds(), 0.30)

	assert.Equal(t, domain.AlertRed, alert.Level)
	assert.Contains(t, alert.Message, "ACOS")
}
