package reporting

import (
	"context"
	"sort"
	"time"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

// stageOrder fixes the lifecycle order for the stage breakdown table.
var stageOrder = []domain.LifecycleStage{
	domain.StageDiscovery,
	domain.StageTest,
	domain.StagePerformance,
	domain.StageSKAG,
	domain.StageArchived,
}

// Generator produces lifecycle reports from stored data.
type Generator struct {
	keywordStore     storage.KeywordStore
	actionLogStore   storage.ActionLogStore
	alertStore       storage.AlertStore
	performanceStore storage.PerformanceStore
	now              func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	keywordStore storage.KeywordStore,
	actionLogStore storage.ActionLogStore,
	alertStore storage.AlertStore,
	performanceStore storage.PerformanceStore,
) *Generator {
	return &Generator{
		keywordStore:     keywordStore,
		actionLogStore:   actionLogStore,
		alertStore:       alertStore,
		performanceStore: performanceStore,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete lifecycle report for a brand. since bounds
// the decision and alert window; zero means all history.
func (g *Generator) Generate(ctx context.Context, brandID string, since time.Time) (*Report, error) {
	keywords, err := g.keywordStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	entries, err := g.actionLogStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	alerts, err := g.alertStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	snapshots, err := g.performanceStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	sinceMs := int64(0)
	if !since.IsZero() {
		sinceMs = since.UnixMilli()
	}

	report := &Report{
		GeneratedAt: g.now(),
		BrandID:     brandID,
		Stages:      stageBreakdown(keywords),
		Decisions:   decisionRows(entries, sinceMs),
		Alerts:      alertRows(alerts, sinceMs),
		RAG:         ragSection(snapshots),
	}
	report.Summary = summarize(keywords, report.Decisions, report.Alerts)

	return report, nil
}

func stageBreakdown(keywords []*domain.Keyword) []StageRow {
	counts := make(map[domain.LifecycleStage]int)
	for _, k := range keywords {
		counts[k.Stage]++
	}

	var rows []StageRow
	for _, stage := range stageOrder {
		if counts[stage] > 0 {
			rows = append(rows, StageRow{Stage: string(stage), Count: counts[stage]})
		}
	}
	return rows
}

func decisionRows(entries []*domain.ActionLogEntry, sinceMs int64) []DecisionRow {
	var rows []DecisionRow
	for _, e := range entries {
		if e.CreatedAt < sinceMs {
			continue
		}
		rows = append(rows, DecisionRow{
			KeywordID:   e.KeywordID,
			Action:      string(e.Action),
			BeforeStage: string(e.BeforeStage),
			AfterStage:  string(e.AfterStage),
			Reason:      e.Reason,
			Actor:       e.Actor,
			CreatedAt:   e.CreatedAt,
		})
	}
	return rows
}

func alertRows(alerts []*domain.KeywordAlert, sinceMs int64) []AlertRow {
	var rows []AlertRow
	for _, a := range alerts {
		if a.CreatedAt < sinceMs {
			continue
		}
		rows = append(rows, AlertRow{
			KeywordID: a.KeywordID,
			Level:     string(a.Level),
			Message:   a.Message,
			CreatedAt: a.CreatedAt,
		})
	}
	return rows
}

func ragSection(snapshots []*domain.KeywordPerformance) RAGSection {
	var section RAGSection
	for _, p := range snapshots {
		switch p.RAGStatus {
		case domain.RAGRed:
			section.Red++
		case domain.RAGAmber:
			section.Amber++
		case domain.RAGGreen:
			section.Green++
		}

		if p.RAGStatus == domain.RAGRed || p.RAGStatus == domain.RAGAmber {
			section.Attention = append(section.Attention, RAGAttentionRow{
				KeywordID:        p.KeywordID,
				KeywordText:      p.KeywordText,
				Status:           string(p.RAGStatus),
				Drivers:          p.RAGDrivers,
				OpportunityScore: p.OpportunityScore,
			})
		}
	}

	sort.Slice(section.Attention, func(i, j int) bool {
		return section.Attention[i].KeywordID < section.Attention[j].KeywordID
	})

	return section
}

func summarize(keywords []*domain.Keyword, decisions []DecisionRow, alerts []AlertRow) PortfolioSummary {
	summary := PortfolioSummary{
		TotalKeywords: len(keywords),
		AlertsRaised:  len(alerts),
	}
	for _, k := range keywords {
		if k.Paused {
			summary.PausedKeywords++
		}
	}
	for _, d := range decisions {
		switch domain.DecisionAction(d.Action) {
		case domain.ActionPromote:
			summary.Promotions++
		case domain.ActionNegate:
			summary.Negations++
		case domain.ActionPause:
			summary.Pauses++
		}
	}
	return summary
}
