// Package main runs the daily keyword lifecycle batch once and exits.
// Decisions (promote, negate, pause, alert) are applied to storage and the
// run summary is printed to stdout. Intended for cron-style scheduling; the
// unified server in cmd/server runs the same batch on an internal schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ppc-keyword-lab/internal/cannibalization"
	"ppc-keyword-lab/internal/config"
	"ppc-keyword-lab/internal/observability"
	"ppc-keyword-lab/internal/orchestrator"
	"ppc-keyword-lab/internal/storage"
	chstore "ppc-keyword-lab/internal/storage/clickhouse"
	"ppc-keyword-lab/internal/storage/memory"
	"ppc-keyword-lab/internal/storage/migrations"
	pgstore "ppc-keyword-lab/internal/storage/postgres"
)

// allStores holds every storage implementation the batch needs.
type allStores struct {
	keywordStore      storage.KeywordStore
	dailyMetricsStore storage.DailyMetricsStore
	settingsStore     storage.SettingsStore
	performanceStore  storage.PerformanceStore
	campaignStore     storage.CampaignStore
	negativeStore     storage.NegativeKeywordStore
	actionLogStore    storage.ActionLogStore
	alertStore        storage.AlertStore
}

func main() {
	// Load .env file if exists (env vars feed flag defaults)
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "Path to brand settings YAML file")
	brand := flag.String("brand", "", "Run for a single brand ID (default: all configured brands)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	fixCannibalization := flag.Bool("fix-cannibalization", false, "Apply protecting negatives for detected cannibalization issues")
	verbose := flag.Bool("verbose", false, "Verbose per-keyword logging")

	flag.Parse()

	logger := log.New(os.Stdout, "[lifecycle] ", log.LstdFlags)

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *postgresDSN != "" {
		cfg.Postgres.DSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Clickhouse.DSN = *clickhouseDSN
	}
	if *verbose {
		cfg.Lifecycle.Verbose = true
	}

	if !*useMemory && (cfg.Postgres.DSN == "" || cfg.Clickhouse.DSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	brands := cfg.Brands
	if *brand != "" {
		brands = nil
		for _, b := range cfg.Brands {
			if b.BrandID == *brand {
				brands = append(brands, b)
			}
		}
		if len(brands) == 0 {
			logger.Fatalf("Brand %q is not configured in %s", *brand, *configPath)
		}
	}
	if len(brands) == 0 {
		logger.Fatal("No brands configured")
	}

	ctx := context.Background()

	stores, cleanup, err := createStores(ctx, cfg.Postgres.DSN, cfg.Clickhouse.DSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Push configured thresholds/settings to storage so the batch and any
	// other consumer read the same values.
	for _, b := range brands {
		if err := stores.settingsStore.UpsertThresholds(ctx, b.DomainThresholds()); err != nil {
			logger.Fatalf("Failed to store thresholds for %s: %v", b.BrandID, err)
		}
		if err := stores.settingsStore.UpsertBrandSettings(ctx, b.DomainSettings()); err != nil {
			logger.Fatalf("Failed to store settings for %s: %v", b.BrandID, err)
		}
	}

	orch := orchestrator.New(orchestrator.Options{
		KeywordStore:      stores.keywordStore,
		DailyMetricsStore: stores.dailyMetricsStore,
		SettingsStore:     stores.settingsStore,
		ActionLogStore:    stores.actionLogStore,
		NegativeStore:     stores.negativeStore,
		AlertStore:        stores.alertStore,
		WindowDays:        cfg.Lifecycle.WindowDays,
		KeywordTimeout:    cfg.Lifecycle.KeywordTimeout,
		TargetACOS:        cfg.Lifecycle.TargetACOSFraction,
		Verbose:           cfg.Lifecycle.Verbose,
	})
	detector := cannibalization.NewDetector(stores.campaignStore, stores.negativeStore)

	exitCode := 0
	for _, b := range brands {
		start := time.Now()
		result, err := orch.RunDaily(ctx, b.BrandID)
		if err != nil {
			logger.Printf("Batch failed for %s: %v", b.BrandID, err)
			observability.RecordBatchRun(b.BrandID, "error", time.Since(start).Seconds())
			exitCode = 1
			continue
		}
		recordRunMetrics(b.BrandID, result, time.Since(start))

		logger.Printf("Brand %s: %d keywords, %d promotions, %d negations, %d pauses, %d alerts, %d skipped (median CVR %.4f)",
			result.BrandID, result.KeywordsProcessed, result.Promotions, result.Negations,
			result.Pauses, result.Alerts, result.Skipped, result.MedianCVR)
		for _, msg := range result.Errors {
			logger.Printf("Brand %s: keyword error: %s", b.BrandID, msg)
		}

		if b.DomainSettings().EnableCannibalizationDetection {
			if err := runCannibalization(ctx, logger, detector, b.BrandID, *fixCannibalization); err != nil {
				logger.Printf("Cannibalization check failed for %s: %v", b.BrandID, err)
				exitCode = 1
			}
		}
	}

	os.Exit(exitCode)
}

// runCannibalization detects exact-vs-broad overlap for a brand and
// optionally applies the protecting negatives.
func runCannibalization(ctx context.Context, logger *log.Logger, detector *cannibalization.Detector, brandID string, fix bool) error {
	issues, err := detector.Detect(ctx, brandID)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	observability.UpdateCannibalizationIssues(len(issues))

	for _, issue := range issues {
		logger.Printf("Brand %s: cannibalization: %q exact in %s vs %s in %s",
			brandID, issue.KeywordText, issue.ExactCampaignID, issue.BroadMatchType, issue.BroadCampaignID)
	}
	if !fix || len(issues) == 0 {
		return nil
	}

	created, err := detector.ApplyFixes(ctx, issues)
	if err != nil {
		return fmt.Errorf("apply fixes: %w", err)
	}
	observability.DefaultMetrics.NegativesCreated.WithLabelValues("cannibalization_fix").Add(float64(created))
	logger.Printf("Brand %s: applied %d protecting negatives", brandID, created)
	return nil
}

// recordRunMetrics publishes one batch run's counters.
func recordRunMetrics(brandID string, result *orchestrator.RunResult, elapsed time.Duration) {
	observability.RecordBatchRun(brandID, "success", elapsed.Seconds())
	observability.RecordBatchErrors(len(result.Errors))
	m := observability.DefaultMetrics
	m.KeywordsEvaluated.Add(float64(result.KeywordsProcessed))
	m.DecisionsApplied.WithLabelValues("PROMOTE").Add(float64(result.Promotions))
	m.DecisionsApplied.WithLabelValues("NEGATE").Add(float64(result.Negations))
	m.DecisionsApplied.WithLabelValues("PAUSE").Add(float64(result.Pauses))
	m.AlertsRaised.WithLabelValues("RED").Add(float64(result.Alerts))
	m.LastSuccessfulRun.SetToCurrentTime()
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			keywordStore:      memory.NewKeywordStore(),
			dailyMetricsStore: memory.NewDailyMetricsStore(),
			settingsStore:     memory.NewSettingsStore(),
			performanceStore:  memory.NewPerformanceStore(),
			campaignStore:     memory.NewCampaignStore(),
			negativeStore:     memory.NewNegativeKeywordStore(),
			actionLogStore:    memory.NewActionLogStore(),
			alertStore:        memory.NewAlertStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse (migration runner creates the database and returns the conn)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		keywordStore:      pgstore.NewKeywordStore(pool),
		dailyMetricsStore: chstore.NewDailyMetricsStore(chConn),
		settingsStore:     pgstore.NewSettingsStore(pool),
		performanceStore:  pgstore.NewPerformanceStore(pool),
		campaignStore:     pgstore.NewCampaignStore(pool),
		negativeStore:     pgstore.NewNegativeKeywordStore(pool),
		actionLogStore:    pgstore.NewActionLogStore(pool),
		alertStore:        pgstore.NewAlertStore(pool),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
