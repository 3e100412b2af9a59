// Package main generates the per-brand keyword lifecycle report: a markdown
// summary plus decision and alert CSVs, written to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/reporting"
	"ppc-keyword-lab/internal/storage"
	"ppc-keyword-lab/internal/storage/memory"
	pgstore "ppc-keyword-lab/internal/storage/postgres"
)

func main() {
	// Load .env file if exists (env vars feed flag defaults)
	_ = godotenv.Load()

	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	brand := flag.String("brand", "", "Brand ID to report on (required)")
	since := flag.Duration("since", 0, "Only include decisions/alerts newer than this (e.g. 24h; 0 = all history)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of database")
	flag.Parse()

	ctx := context.Background()

	// Validate flags
	if *brand == "" && !*useFixtures {
		fmt.Fprintln(os.Stderr, "Error: --brand is required")
		os.Exit(1)
	}
	if !*useFixtures && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required when not using fixtures")
		fmt.Fprintln(os.Stderr, "Use --use-fixtures to run with demo data instead")
		os.Exit(1)
	}

	// Create stores based on mode
	var (
		keywordStore     storage.KeywordStore
		actionLogStore   storage.ActionLogStore
		alertStore       storage.AlertStore
		performanceStore storage.PerformanceStore
	)

	if *useFixtures {
		if *brand == "" {
			*brand = fixtureBrandID
		}
		keywordStore, actionLogStore, alertStore, performanceStore = createFixtureStores(ctx)
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		keywordStore = pgstore.NewKeywordStore(pool)
		actionLogStore = pgstore.NewActionLogStore(pool)
		alertStore = pgstore.NewAlertStore(pool)
		performanceStore = pgstore.NewPerformanceStore(pool)
	}

	var sinceTime time.Time
	if *since > 0 {
		sinceTime = time.Now().UTC().Add(-*since)
	}

	generator := reporting.NewGenerator(keywordStore, actionLogStore, alertStore, performanceStore)
	report, err := generator.Generate(ctx, *brand, sinceTime)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"keyword_report.md": reporting.RenderMarkdown(report),
		"decisions.csv":     reporting.RenderDecisionsCSV(report.Decisions),
		"alerts.csv":        reporting.RenderAlertsCSV(report.Alerts),
	}
	for name, content := range files {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	fmt.Printf("Report for brand %s: %d keywords, %d decisions, %d alerts\n",
		report.BrandID, report.Summary.TotalKeywords, len(report.Decisions), len(report.Alerts))
}

const fixtureBrandID = "demo-brand"

// createFixtureStores seeds memory stores with demo data so the report can
// be exercised without a database.
func createFixtureStores(ctx context.Context) (storage.KeywordStore, storage.ActionLogStore, storage.AlertStore, storage.PerformanceStore) {
	keywordStore := memory.NewKeywordStore()
	actionLogStore := memory.NewActionLogStore()
	alertStore := memory.NewAlertStore()
	performanceStore := memory.NewPerformanceStore()

	now := time.Now().UTC()
	campaignLive := "camp-live"
	campaignResearch := "camp-research"

	keywords := []*domain.Keyword{
		{
			KeywordID: "kw-wireless-earbuds", BrandID: fixtureBrandID,
			Text: "wireless earbuds", Category: domain.CategoryGeneric,
			Intent: domain.IntentHigh, Stage: domain.StageSKAG,
			CampaignID: &campaignLive, ResearchCampaignID: &campaignResearch,
			CreatedAt: now.Add(-45 * 24 * time.Hour).UnixMilli(),
		},
		{
			KeywordID: "kw-bluetooth-headset", BrandID: fixtureBrandID,
			Text: "bluetooth headset", Category: domain.CategoryProductCore,
			Intent: domain.IntentMid, Stage: domain.StageTest,
			CampaignID: &campaignLive,
			CreatedAt:  now.Add(-30 * 24 * time.Hour).UnixMilli(),
		},
		{
			KeywordID: "kw-cheap-earphones", BrandID: fixtureBrandID,
			Text: "cheap earphones", Category: domain.CategoryGeneric,
			Intent: domain.IntentLow, Stage: domain.StageArchived,
			CreatedAt: now.Add(-60 * 24 * time.Hour).UnixMilli(),
		},
		{
			KeywordID: "kw-noise-cancelling", BrandID: fixtureBrandID,
			Text: "noise cancelling headphones", Category: domain.CategoryCompetitor,
			Intent: domain.IntentMid, Stage: domain.StageDiscovery, Paused: true,
			CreatedAt: now.Add(-10 * 24 * time.Hour).UnixMilli(),
		},
	}
	for _, k := range keywords {
		if err := keywordStore.Insert(ctx, k); err != nil {
			panic(err)
		}
	}

	entries := []*domain.ActionLogEntry{
		{
			EntryID: uuid.NewString(), BrandID: fixtureBrandID,
			KeywordID: "kw-wireless-earbuds", Action: domain.ActionPromote,
			BeforeStage: domain.StageDiscovery, AfterStage: domain.StageSKAG,
			Reason: "25 clicks, 3 orders over 30d window", Actor: "system",
			CreatedAt: now.Add(-7 * 24 * time.Hour).UnixMilli(),
		},
		{
			EntryID: uuid.NewString(), BrandID: fixtureBrandID,
			KeywordID: "kw-cheap-earphones", Action: domain.ActionNegate,
			BeforeStage: domain.StageDiscovery, AfterStage: domain.StageArchived,
			Reason: "18 clicks, zero orders over 30d window", Actor: "system",
			CreatedAt: now.Add(-14 * 24 * time.Hour).UnixMilli(),
		},
		{
			EntryID: uuid.NewString(), BrandID: fixtureBrandID,
			KeywordID: "kw-noise-cancelling", Action: domain.ActionPause,
			BeforeStage: domain.StageDiscovery, AfterStage: domain.StageDiscovery,
			Reason: "CTR 0.0011 below pause threshold", Actor: "system",
			CreatedAt: now.Add(-3 * 24 * time.Hour).UnixMilli(),
		},
	}
	for _, e := range entries {
		if err := actionLogStore.Insert(ctx, e); err != nil {
			panic(err)
		}
	}

	alert := &domain.KeywordAlert{
		AlertID: uuid.NewString(), BrandID: fixtureBrandID,
		KeywordID: "kw-noise-cancelling", Level: domain.AlertRed,
		Message:   "wasted spend $612.40 with zero orders",
		CreatedAt: now.Add(-3 * 24 * time.Hour).UnixMilli(),
	}
	if err := alertStore.Insert(ctx, alert); err != nil {
		panic(err)
	}

	snapshots := []*domain.KeywordPerformance{
		{
			KeywordID: "kw-wireless-earbuds", BrandID: fixtureBrandID,
			KeywordText: "wireless earbuds", Impressions: 18000, Clicks: 540,
			Orders: 27, Spend: 410.50, Sales: 1890.00,
			CTR: 3.0, CVR: 5.0, ACOS: 21.7, ROAS: 4.6,
			Stage: domain.StageSKAG, RAGStatus: domain.RAGGreen,
			OpportunityScore: 72.5, UpdatedAt: now.UnixMilli(),
		},
		{
			KeywordID: "kw-bluetooth-headset", BrandID: fixtureBrandID,
			KeywordText: "bluetooth headset", Impressions: 9200, Clicks: 120,
			Orders: 2, Spend: 260.80, Sales: 240.00,
			CTR: 1.3, CVR: 1.7, ACOS: 108.7, ROAS: 0.9,
			Stage: domain.StageTest, RAGStatus: domain.RAGAmber,
			RAGDrivers:       []string{"ACOS 108.7% above target", "CVR 1.7% below target"},
			OpportunityScore: 38.1, UpdatedAt: now.UnixMilli(),
		},
		{
			KeywordID: "kw-noise-cancelling", BrandID: fixtureBrandID,
			KeywordText: "noise cancelling headphones", Impressions: 14100, Clicks: 16,
			Orders: 0, Spend: 612.40, Sales: 0,
			CTR: 0.11, CVR: 0, ACOS: 0, ROAS: 0,
			Stage: domain.StageDiscovery, RAGStatus: domain.RAGRed,
			RAGDrivers:       []string{"wasted spend $612.40", "CTR 0.11% below pause threshold"},
			OpportunityScore: 12.0, UpdatedAt: now.UnixMilli(),
		},
	}
	for _, p := range snapshots {
		if err := performanceStore.Upsert(ctx, p); err != nil {
			panic(err)
		}
	}

	return keywordStore, actionLogStore, alertStore, performanceStore
}
