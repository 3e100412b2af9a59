package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage/memory"
)

type generatorFixture struct {
	keywords    *memory.KeywordStore
	actionLog   *memory.ActionLogStore
	alerts      *memory.AlertStore
	performance *memory.PerformanceStore
	generator   *Generator
}

func newGeneratorFixture() *generatorFixture {
	f := &generatorFixture{
		keywords:    memory.NewKeywordStore(),
		actionLog:   memory.NewActionLogStore(),
		alerts:      memory.NewAlertStore(),
		performance: memory.NewPerformanceStore(),
	}
	f.generator = NewGenerator(f.keywords, f.actionLog, f.alerts, f.performance).
		WithClock(func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) })
	return f
}

func (f *generatorFixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	keywords := []*domain.Keyword{
		{KeywordID: "kw-1", BrandID: "brand-1", Text: "term one", Stage: domain.StageDiscovery, CreatedAt: 1},
		{KeywordID: "kw-2", BrandID: "brand-1", Text: "term two", Stage: domain.StageSKAG, CreatedAt: 2},
		{KeywordID: "kw-3", BrandID: "brand-1", Text: "term three", Stage: domain.StageDiscovery, Paused: true, CreatedAt: 3},
	}
	for _, k := range keywords {
		require.NoError(t, f.keywords.Insert(ctx, k))
	}

	require.NoError(t, f.actionLog.Insert(ctx, &domain.ActionLogEntry{
		EntryID: "e-1", BrandID: "brand-1", KeywordID: "kw-2",
		Action: domain.ActionPromote, BeforeStage: domain.StagePerformance, AfterStage: domain.StageSKAG,
		Reason: "3 orders from 25 clicks", Actor: "system", CreatedAt: 1000,
	}))
	require.NoError(t, f.actionLog.Insert(ctx, &domain.ActionLogEntry{
		EntryID: "e-2", BrandID: "brand-1", KeywordID: "kw-3",
		Action: domain.ActionPause, BeforeStage: domain.StageDiscovery, AfterStage: domain.StageDiscovery,
		Reason: "CTR below threshold", Actor: "system", CreatedAt: 2000,
	}))

	require.NoError(t, f.alerts.Insert(ctx, &domain.KeywordAlert{
		AlertID: "a-1", BrandID: "brand-1", KeywordID: "kw-1",
		Level: domain.AlertRed, Message: "No orders after $600.00 spend", CreatedAt: 1500,
	}))

	require.NoError(t, f.performance.Upsert(ctx, &domain.KeywordPerformance{
		KeywordID: "kw-1", BrandID: "brand-1", KeywordText: "term one",
		RAGStatus: domain.RAGRed, RAGDrivers: []string{"ACOS above target"}, OpportunityScore: 120.5,
	}))
	require.NoError(t, f.performance.Upsert(ctx, &domain.KeywordPerformance{
		KeywordID: "kw-2", BrandID: "brand-1", KeywordText: "term two",
		RAGStatus: domain.RAGGreen,
	}))
}

func TestGenerate_FullReport(t *testing.T) {
	f := newGeneratorFixture()
	f.seed(t)

	report, err := f.generator.Generate(context.Background(), "brand-1", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "brand-1", report.BrandID)
	assert.Equal(t, 3, report.Summary.TotalKeywords)
	assert.Equal(t, 1, report.Summary.PausedKeywords)
	assert.Equal(t, 1, report.Summary.Promotions)
	assert.Equal(t, 1, report.Summary.Pauses)
	assert.Zero(t, report.Summary.Negations)
	assert.Equal(t, 1, report.Summary.AlertsRaised)

	// Stage breakdown in lifecycle order, zero-count stages omitted
	require.Len(t, report.Stages, 2)
	assert.Equal(t, StageRow{Stage: "DISCOVERY", Count: 2}, report.Stages[0])
	assert.Equal(t, StageRow{Stage: "SKAG", Count: 1}, report.Stages[1])

	assert.Equal(t, 1, report.RAG.Red)
	assert.Equal(t, 1, report.RAG.Green)
	require.Len(t, report.RAG.Attention, 1)
	assert.Equal(t, "kw-1", report.RAG.Attention[0].KeywordID)
}

func TestGenerate_SinceFiltersDecisionsAndAlerts(t *testing.T) {
	f := newGeneratorFixture()
	f.seed(t)

	// Only entries at or after 1500ms
	report, err := f.generator.Generate(context.Background(), "brand-1", time.UnixMilli(1500))
	require.NoError(t, err)

	require.Len(t, report.Decisions, 1)
	assert.Equal(t, "kw-3", report.Decisions[0].KeywordID)
	require.Len(t, report.Alerts, 1)
}

func TestGenerate_EmptyBrand(t *testing.T) {
	f := newGeneratorFixture()

	report, err := f.generator.Generate(context.Background(), "brand-empty", time.Time{})
	require.NoError(t, err)

	assert.Zero(t, report.Summary.TotalKeywords)
	assert.Empty(t, report.Stages)
	assert.Empty(t, report.Decisions)
}

func TestRenderMarkdown_ContainsSections(t *testing.T) {
	f := newGeneratorFixture()
	f.seed(t)

	report, err := f.generator.Generate(context.Background(), "brand-1", time.Time{})
	require.NoError(t, err)

	md := RenderMarkdown(report)
	assert.Contains(t, md, "# Keyword Lifecycle Report: brand-1")
	assert.Contains(t, md, "## Portfolio Summary")
	assert.Contains(t, md, "## Stage Breakdown")
	assert.Contains(t, md, "| DISCOVERY | 2 |")
	assert.Contains(t, md, "### Keywords Needing Attention")
	assert.Contains(t, md, "| kw-1 | RED |")
}

func TestRenderDecisionsCSV(t *testing.T) {
	rows := []DecisionRow{
		{KeywordID: "kw-1", Action: "PROMOTE", BeforeStage: "TEST", AfterStage: "PERFORMANCE",
			Reason: "1 order(s) from 22 clicks", Actor: "system", CreatedAt: 1000},
		{KeywordID: "kw-2", Action: "NEGATE", BeforeStage: "DISCOVERY", AfterStage: "ARCHIVED",
			Reason: `16 clicks, zero orders, "wasted" spend`, Actor: "system", CreatedAt: 2000},
	}

	csv := RenderDecisionsCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "keyword_id,action,before_stage,after_stage,reason,actor,created_at", lines[0])
	assert.Equal(t, "kw-1,PROMOTE,TEST,PERFORMANCE,1 order(s) from 22 clicks,system,1000", lines[1])
	// Fields with commas or quotes are escaped
	assert.Contains(t, lines[2], `"16 clicks, zero orders, ""wasted"" spend"`)
}
