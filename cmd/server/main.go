// Package main provides the unified lifecycle service:
//   - scheduled daily batch runs (promote/negate/pause/alert) for every
//     configured brand, plus cannibalization detection and fixes
//   - HTTP API: health, status, manual run trigger, report rendering
//   - Prometheus metrics endpoint
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"ppc-keyword-lab/internal/cannibalization"
	"ppc-keyword-lab/internal/config"
	"ppc-keyword-lab/internal/observability"
	"ppc-keyword-lab/internal/orchestrator"
	"ppc-keyword-lab/internal/reporting"
	"ppc-keyword-lab/internal/storage"
	chstore "ppc-keyword-lab/internal/storage/clickhouse"
	"ppc-keyword-lab/internal/storage/memory"
	"ppc-keyword-lab/internal/storage/migrations"
	pgstore "ppc-keyword-lab/internal/storage/postgres"
)

// Server holds all components of the unified service.
type Server struct {
	cfg    *config.Config
	stores *allStores

	orch      *orchestrator.Orchestrator
	detector  *cannibalization.Detector
	generator *reporting.Generator
	logger    *log.Logger

	// State
	mu       sync.Mutex
	started  time.Time
	lastRun  time.Time
	runs     int
	running  bool
	lastRuns map[string]*orchestrator.RunResult
}

// allStores holds all storage implementations.
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
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	runInterval := flag.Duration("run-interval", 0, "Lifecycle batch interval (overrides config when set)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

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
	if *runInterval > 0 {
		cfg.Lifecycle.RunInterval = *runInterval
	}

	if !*useMemory && (cfg.Postgres.DSN == "" || cfg.Clickhouse.DSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}
	if len(cfg.Brands) == 0 {
		logger.Fatal("No brands configured")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, cfg.Postgres.DSN, cfg.Clickhouse.DSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Push configured thresholds/settings to storage
	for _, b := range cfg.Brands {
		if err := stores.settingsStore.UpsertThresholds(ctx, b.DomainThresholds()); err != nil {
			logger.Fatalf("Failed to store thresholds for %s: %v", b.BrandID, err)
		}
		if err := stores.settingsStore.UpsertBrandSettings(ctx, b.DomainSettings()); err != nil {
			logger.Fatalf("Failed to store settings for %s: %v", b.BrandID, err)
		}
	}

	// Create server
	server := &Server{
		cfg:    cfg,
		stores: stores,
		orch: orchestrator.New(orchestrator.Options{
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
		}),
		detector:  cannibalization.NewDetector(stores.campaignStore, stores.negativeStore),
		generator: reporting.NewGenerator(stores.keywordStore, stores.actionLogStore, stores.alertStore, stores.performanceStore),
		logger:    logger,
		started:   time.Now(),
		lastRuns:  make(map[string]*orchestrator.RunResult),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP servers
	go server.startAPIServer(ctx, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	go server.startMetricsServer(cfg.Server.MetricsAddr)

	// Run the batch scheduler
	err = server.runScheduler(ctx)
	done <- err

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// runScheduler runs the lifecycle batch on schedule.
func (s *Server) runScheduler(ctx context.Context) error {
	s.logger.Printf("Starting lifecycle scheduler (interval: %v)...", s.cfg.Lifecycle.RunInterval)

	// Run immediately on start
	s.runLifecycle(ctx, "")

	ticker := time.NewTicker(s.cfg.Lifecycle.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runLifecycle(ctx, "")
		}
	}
}

// runLifecycle executes the daily batch for one brand, or for all configured
// brands when brandID is empty. Returns false if a run was already in
// progress.
func (s *Server) runLifecycle(ctx context.Context, brandID string) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Println("Lifecycle batch already running, skipping...")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.lastRun = time.Now()
		s.runs++
		s.mu.Unlock()
	}()

	for _, b := range s.cfg.Brands {
		if brandID != "" && b.BrandID != brandID {
			continue
		}

		start := time.Now()
		result, err := s.orch.RunDaily(ctx, b.BrandID)
		if err != nil {
			s.logger.Printf("Batch error for %s: %v", b.BrandID, err)
			observability.RecordBatchRun(b.BrandID, "error", time.Since(start).Seconds())
			continue
		}
		recordRunMetrics(b.BrandID, result, time.Since(start))

		s.mu.Lock()
		s.lastRuns[b.BrandID] = result
		s.mu.Unlock()

		s.logger.Printf("Brand %s completed in %v: %d keywords, %d promotions, %d negations, %d pauses, %d alerts",
			b.BrandID, time.Since(start), result.KeywordsProcessed,
			result.Promotions, result.Negations, result.Pauses, result.Alerts)

		if b.DomainSettings().EnableCannibalizationDetection {
			s.runCannibalization(ctx, b.BrandID)
		}
	}
	return true
}

// runCannibalization detects overlap issues and applies protecting
// negatives for a brand.
func (s *Server) runCannibalization(ctx context.Context, brandID string) {
	issues, err := s.detector.Detect(ctx, brandID)
	if err != nil {
		s.logger.Printf("Cannibalization detection error for %s: %v", brandID, err)
		return
	}
	observability.UpdateCannibalizationIssues(len(issues))
	if len(issues) == 0 {
		return
	}

	created, err := s.detector.ApplyFixes(ctx, issues)
	if err != nil {
		s.logger.Printf("Cannibalization fix error for %s: %v", brandID, err)
		return
	}
	observability.DefaultMetrics.NegativesCreated.WithLabelValues("cannibalization_fix").Add(float64(created))
	s.logger.Printf("Brand %s: %d cannibalization issues, %d protecting negatives applied", brandID, len(issues), created)
}

// startAPIServer serves the lifecycle HTTP API.
func (s *Server) startAPIServer(ctx context.Context, addr string) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/status", s.handleStatus)
	r.Post("/run/lifecycle", s.handleRunLifecycle)
	r.Get("/report/{brandID}", s.handleReport)

	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Starting API server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("API server error: %v", err)
	}
}

// startMetricsServer serves Prometheus metrics.
func (s *Server) startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())

	s.logger.Printf("Starting metrics server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("Metrics server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status   string                  `json:"status"`
	Uptime   string                  `json:"uptime"`
	LastRun  time.Time               `json:"last_run,omitempty"`
	Runs     int                     `json:"runs"`
	Running  bool                    `json:"running"`
	Brands   []string                `json:"brands"`
	LastRuns map[string]BrandRunJSON `json:"last_results,omitempty"`
}

// BrandRunJSON summarizes the most recent batch run for one brand.
type BrandRunJSON struct {
	KeywordsProcessed int     `json:"keywords_processed"`
	Promotions        int     `json:"promotions"`
	Negations         int     `json:"negations"`
	Pauses            int     `json:"pauses"`
	Alerts            int     `json:"alerts"`
	Skipped           int     `json:"skipped"`
	MedianCVR         float64 `json:"median_cvr"`
	Errors            int     `json:"errors"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	brands := make([]string, 0, len(s.cfg.Brands))
	for _, b := range s.cfg.Brands {
		brands = append(brands, b.BrandID)
	}

	resp := StatusResponse{
		Status:   "running",
		Uptime:   time.Since(s.started).String(),
		LastRun:  s.lastRun,
		Runs:     s.runs,
		Running:  s.running,
		Brands:   brands,
		LastRuns: make(map[string]BrandRunJSON, len(s.lastRuns)),
	}
	for brandID, result := range s.lastRuns {
		resp.LastRuns[brandID] = BrandRunJSON{
			KeywordsProcessed: result.KeywordsProcessed,
			Promotions:        result.Promotions,
			Negations:         result.Negations,
			Pauses:            result.Pauses,
			Alerts:            result.Alerts,
			Skipped:           result.Skipped,
			MedianCVR:         result.MedianCVR,
			Errors:            len(result.Errors),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleRunLifecycle triggers a batch run, optionally for a single brand
// (?brand=...). Returns 409 when a run is already in progress.
func (s *Server) handleRunLifecycle(w http.ResponseWriter, r *http.Request) {
	brandID := r.URL.Query().Get("brand")
	if brandID != "" && !s.brandConfigured(brandID) {
		http.Error(w, fmt.Sprintf("brand %q is not configured", brandID), http.StatusNotFound)
		return
	}

	if !s.runLifecycle(r.Context(), brandID) {
		http.Error(w, "lifecycle batch already running", http.StatusConflict)
		return
	}

	s.handleStatus(w, r)
}

// handleReport renders the markdown lifecycle report for a brand.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "brandID")
	if !s.brandConfigured(brandID) {
		http.Error(w, fmt.Sprintf("brand %q is not configured", brandID), http.StatusNotFound)
		return
	}

	report, err := s.generator.Generate(r.Context(), brandID, time.Time{})
	if err != nil {
		http.Error(w, fmt.Sprintf("generate report: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(reporting.RenderMarkdown(report)))
}

func (s *Server) brandConfigured(brandID string) bool {
	for _, b := range s.cfg.Brands {
		if b.BrandID == brandID {
			return true
		}
	}
	return false
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
