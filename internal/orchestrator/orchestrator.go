// Package orchestrator coordinates the daily lifecycle batch.
// Flow per brand: load thresholds → load keywords → compute portfolio
// baseline → evaluate each keyword → apply decisions and side effects.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ppc-keyword-lab/internal/decision"
	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/idhash"
	"ppc-keyword-lab/internal/metrics"
	"ppc-keyword-lab/internal/storage"
)

// Defaults for orchestrator options.
const (
	DefaultWindowDays     = 30
	DefaultKeywordTimeout = 10 * time.Second
)

// SystemActor is recorded on every action-log entry the orchestrator writes.
const SystemActor = "system"

// Orchestrator runs the daily lifecycle batch for a brand.
type Orchestrator struct {
	keywordStore  storage.KeywordStore
	metricsStore  storage.DailyMetricsStore
	settingsStore storage.SettingsStore
	actionLog     storage.ActionLogStore
	negativeStore storage.NegativeKeywordStore
	alertStore    storage.AlertStore

	evaluator *decision.MetricsEvaluator

	windowDays     int
	keywordTimeout time.Duration
	targetACOS     float64 // fraction, for alert classification
	verbose        bool

	now func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	KeywordStore      storage.KeywordStore
	DailyMetricsStore storage.DailyMetricsStore
	SettingsStore     storage.SettingsStore
	ActionLogStore    storage.ActionLogStore
	NegativeStore     storage.NegativeKeywordStore
	AlertStore        storage.AlertStore

	// WindowDays is the rolling metrics window; 0 means DefaultWindowDays.
	WindowDays int

	// KeywordTimeout bounds one keyword's storage round-trips so a single
	// stalled call cannot hang the batch; 0 means DefaultKeywordTimeout.
	KeywordTimeout time.Duration

	// TargetACOS is the fractional ACOS target for alert classification;
	// 0 means domain.DefaultTargetACOS.
	TargetACOS float64

	Verbose bool

	// Now overrides the clock in tests; nil means time.Now.
	Now func() time.Time
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	keywordTimeout := opts.KeywordTimeout
	if keywordTimeout <= 0 {
		keywordTimeout = DefaultKeywordTimeout
	}
	targetACOS := opts.TargetACOS
	if targetACOS <= 0 {
		targetACOS = domain.DefaultTargetACOS
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		keywordStore:   opts.KeywordStore,
		metricsStore:   opts.DailyMetricsStore,
		settingsStore:  opts.SettingsStore,
		actionLog:      opts.ActionLogStore,
		negativeStore:  opts.NegativeStore,
		alertStore:     opts.AlertStore,
		evaluator:      decision.NewMetricsEvaluator(),
		windowDays:     windowDays,
		keywordTimeout: keywordTimeout,
		targetACOS:     targetACOS,
		verbose:        opts.Verbose,
		now:            now,
	}
}

// RunResult contains results from one daily batch.
type RunResult struct {
	BrandID           string
	KeywordsProcessed int
	Promotions        int
	Negations         int
	Pauses            int
	Alerts            int
	Skipped           int // Archived keywords, never evaluated
	MedianCVR         float64
	Errors            []string
}

// RunDaily executes the daily lifecycle batch for one brand. A failure
// while evaluating or applying one keyword's decision is recoverable: it is
// logged, recorded on the result, and the batch continues. Timeouts on a
// keyword's storage calls are treated the same way.
func (o *Orchestrator) RunDaily(ctx context.Context, brandID string) (*RunResult, error) {
	result := &RunResult{BrandID: brandID}

	// Phase 1: thresholds, defaulting if the brand has none
	thresholds, err := o.loadThresholds(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load thresholds for brand %s: %w", brandID, err)
	}

	// Phase 2: keywords
	keywords, err := o.keywordStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load keywords for brand %s: %w", brandID, err)
	}
	o.log("brand %s: %d keywords", brandID, len(keywords))

	if len(keywords) == 0 {
		return result, nil
	}

	// Phase 3: rolling-window metrics and portfolio CVR baseline
	end := o.now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -o.windowDays)

	dailyByKeyword := make(map[string][]domain.KeywordMetricsDaily, len(keywords))
	var cvrs []float64
	for _, k := range keywords {
		daily, err := o.fetchMetrics(ctx, k.KeywordID, start, end)
		if err != nil {
			msg := fmt.Sprintf("fetch metrics %s: %v", k.KeywordID, err)
			o.log("  %s", msg)
			result.Errors = append(result.Errors, msg)
			continue
		}
		dailyByKeyword[k.KeywordID] = daily

		agg := metrics.Aggregate(daily)
		if agg.TotalClicks > 0 && agg.TotalOrders > 0 {
			cvrs = append(cvrs, agg.AvgCVR)
		}
	}

	// Portfolio baseline: sorted middle element, defaulting when no
	// keyword qualifies.
	medianCVR := metrics.MiddleElement(cvrs, domain.DefaultMedianCVR)
	result.MedianCVR = medianCVR
	o.log("brand %s: median CVR %.4f over %d qualifying keywords", brandID, medianCVR, len(cvrs))

	// Phase 4: evaluate and apply per keyword
	for _, k := range keywords {
		if k.Stage == domain.StageArchived {
			result.Skipped++
			continue
		}

		daily, ok := dailyByKeyword[k.KeywordID]
		if !ok {
			// Metrics fetch already failed and was recorded
			continue
		}

		if err := o.processKeyword(ctx, k, daily, thresholds, medianCVR, result); err != nil {
			msg := fmt.Sprintf("process keyword %s: %v", k.KeywordID, err)
			o.log("  %s", msg)
			result.Errors = append(result.Errors, msg)
			continue
		}
		result.KeywordsProcessed++
	}

	o.log("brand %s: %d processed, %d promoted, %d negated, %d paused, %d alerts, %d skipped, %d errors",
		brandID, result.KeywordsProcessed, result.Promotions, result.Negations,
		result.Pauses, result.Alerts, result.Skipped, len(result.Errors))

	return result, nil
}

// loadThresholds returns the brand's thresholds, creating the defaults
// when none are persisted.
func (o *Orchestrator) loadThresholds(ctx context.Context, brandID string) (*domain.SettingsThresholds, error) {
	thresholds, err := o.settingsStore.GetThresholds(ctx, brandID)
	if err == nil {
		return thresholds, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	thresholds = domain.DefaultThresholds(brandID)
	if err := o.settingsStore.UpsertThresholds(ctx, thresholds); err != nil {
		return nil, fmt.Errorf("persist default thresholds: %w", err)
	}
	return thresholds, nil
}

// fetchMetrics loads one keyword's rolling-window metrics under the
// per-keyword timeout.
func (o *Orchestrator) fetchMetrics(ctx context.Context, keywordID string, start, end time.Time) ([]domain.KeywordMetricsDaily, error) {
	kctx, cancel := context.WithTimeout(ctx, o.keywordTimeout)
	defer cancel()

	rows, err := o.metricsStore.GetByKeywordRange(kctx, keywordID, start, end)
	if err != nil {
		return nil, err
	}

	daily := make([]domain.KeywordMetricsDaily, len(rows))
	for i, r := range rows {
		daily[i] = *r
	}
	return daily, nil
}

// processKeyword evaluates one keyword and applies the first decision in
// priority order: promote → negate → pause → alert → no action. Read,
// evaluate, and write happen sequentially within the keyword's timeout.
func (o *Orchestrator) processKeyword(ctx context.Context, k *domain.Keyword, daily []domain.KeywordMetricsDaily, thresholds *domain.SettingsThresholds, medianCVR float64, result *RunResult) error {
	kctx, cancel := context.WithTimeout(ctx, o.keywordTimeout)
	defer cancel()

	if promotion := o.evaluator.ShouldPromote(daily, thresholds, k.Category, medianCVR); promotion.ShouldPromote {
		// Promotion only moves forward. A graduated keyword whose recent
		// window re-qualifies for an earlier stage holds where it is.
		if promotion.TargetStage.Order() <= k.Stage.Order() {
			o.log("  keyword %s already at %s, promotion to %s is a no-op", k.KeywordID, k.Stage, promotion.TargetStage)
			return nil
		}
		if err := o.applyPromotion(kctx, k, promotion); err != nil {
			return err
		}
		result.Promotions++
		return nil
	}

	if negation := o.evaluator.ShouldNegate(daily, thresholds, k.Category); negation.ShouldNegate {
		if err := o.applyNegation(kctx, k, negation); err != nil {
			return err
		}
		result.Negations++
		return nil
	}

	if pause := o.evaluator.ShouldPause(daily, thresholds); pause.ShouldPause {
		if err := o.applyPause(kctx, k, pause); err != nil {
			return err
		}
		result.Pauses++
		return nil
	}

	alert := o.evaluator.GenerateAlert(daily, thresholds, o.targetACOS)
	if alert.Level == domain.AlertRed || alert.Level == domain.AlertAmber {
		if err := o.applyAlert(kctx, k, alert); err != nil {
			return err
		}
		result.Alerts++
	}

	return nil
}

// applyPromotion logs the transition, advances the stage, and protects the
// research campaign with a negative exact so the promoted term stops
// matching there.
func (o *Orchestrator) applyPromotion(ctx context.Context, k *domain.Keyword, promotion domain.PromotionDecision) error {
	if err := o.logAction(ctx, k, domain.ActionPromote, promotion.TargetStage, promotion.Reason); err != nil {
		return err
	}

	if err := o.keywordStore.UpdateStage(ctx, k.KeywordID, promotion.TargetStage); err != nil {
		return fmt.Errorf("update stage: %w", err)
	}

	if k.ResearchCampaignID == nil {
		o.log("  keyword %s promoted with no research campaign; no negative created", k.KeywordID)
		return nil
	}

	negative := &domain.NegativeKeyword{
		NegativeID:          idhash.ComputeNegativeID(k.BrandID, *k.ResearchCampaignID, k.Text, domain.NegExact),
		BrandID:             k.BrandID,
		Term:                k.Text,
		MatchType:           domain.NegExact,
		Scope:               domain.ScopeCampaign,
		AppliedToCampaignID: *k.ResearchCampaignID,
		Reason:              promotion.Reason,
		RuleTrigger:         "promotion",
		CreatedAt:           o.now().UnixMilli(),
	}
	if err := o.negativeStore.Insert(ctx, negative); err != nil {
		// Already protected from a previous promotion of the same term
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("insert promotion negative: %w", err)
	}
	return nil
}

// applyNegation logs the transition, archives the keyword, and negates the
// term in its current campaign with phrase match.
func (o *Orchestrator) applyNegation(ctx context.Context, k *domain.Keyword, negation domain.NegationDecision) error {
	if err := o.logAction(ctx, k, domain.ActionNegate, domain.StageArchived, negation.Reason); err != nil {
		return err
	}

	if err := o.keywordStore.UpdateStage(ctx, k.KeywordID, domain.StageArchived); err != nil {
		return fmt.Errorf("update stage: %w", err)
	}

	if k.CampaignID == nil {
		o.log("  keyword %s negated with no campaign; no negative created", k.KeywordID)
		return nil
	}

	negative := &domain.NegativeKeyword{
		NegativeID:          idhash.ComputeNegativeID(k.BrandID, *k.CampaignID, k.Text, negation.MatchType),
		BrandID:             k.BrandID,
		Term:                k.Text,
		MatchType:           negation.MatchType,
		Scope:               domain.ScopeCampaign,
		AppliedToCampaignID: *k.CampaignID,
		Reason:              negation.Reason,
		RuleTrigger:         "negation",
		CreatedAt:           o.now().UnixMilli(),
	}
	if err := o.negativeStore.Insert(ctx, negative); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("insert negation negative: %w", err)
	}
	return nil
}

// applyPause logs the decision and flags the keyword paused. The lifecycle
// stage does not change.
func (o *Orchestrator) applyPause(ctx context.Context, k *domain.Keyword, pause domain.PauseDecision) error {
	if err := o.logAction(ctx, k, domain.ActionPause, k.Stage, pause.Reason); err != nil {
		return err
	}

	if err := o.keywordStore.SetPaused(ctx, k.KeywordID, true); err != nil {
		return fmt.Errorf("set paused: %w", err)
	}
	return nil
}

// applyAlert records a RED/AMBER alert for review.
func (o *Orchestrator) applyAlert(ctx context.Context, k *domain.Keyword, alert domain.AlertDecision) error {
	record := &domain.KeywordAlert{
		AlertID:   uuid.NewString(),
		BrandID:   k.BrandID,
		KeywordID: k.KeywordID,
		Level:     alert.Level,
		Message:   alert.Message,
		CreatedAt: o.now().UnixMilli(),
	}
	if err := o.alertStore.Insert(ctx, record); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// logAction writes the immutable before/after audit entry for a decision.
func (o *Orchestrator) logAction(ctx context.Context, k *domain.Keyword, action domain.DecisionAction, after domain.LifecycleStage, reason string) error {
	entry := &domain.ActionLogEntry{
		EntryID:     uuid.NewString(),
		BrandID:     k.BrandID,
		KeywordID:   k.KeywordID,
		Action:      action,
		BeforeStage: k.Stage,
		AfterStage:  after,
		Reason:      reason,
		Actor:       SystemActor,
		CreatedAt:   o.now().UnixMilli(),
	}
	if err := o.actionLog.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
