package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
	"ppc-keyword-lab/internal/storage/memory"
)

type fixture struct {
	keywords  *memory.KeywordStore
	metrics   *memory.DailyMetricsStore
	settings  *memory.SettingsStore
	actionLog *memory.ActionLogStore
	negatives *memory.NegativeKeywordStore
	alerts    *memory.AlertStore
	now       time.Time
}

func newFixture() *fixture {
	return &fixture{
		keywords:  memory.NewKeywordStore(),
		metrics:   memory.NewDailyMetricsStore(),
		settings:  memory.NewSettingsStore(),
		actionLog: memory.NewActionLogStore(),
		negatives: memory.NewNegativeKeywordStore(),
		alerts:    memory.NewAlertStore(),
		now:       time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) orchestrator(opts ...func(*Options)) *Orchestrator {
	o := Options{
		KeywordStore:      f.keywords,
		DailyMetricsStore: f.metrics,
		SettingsStore:     f.settings,
		ActionLogStore:    f.actionLog,
		NegativeStore:     f.negatives,
		AlertStore:        f.alerts,
		Now:               func() time.Time { return f.now },
	}
	for _, fn := range opts {
		fn(&o)
	}
	return New(o)
}

func strPtr(s string) *string { return &s }

func (f *fixture) addKeyword(t *testing.T, id, text string, stage domain.LifecycleStage) *domain.Keyword {
	t.Helper()
	k := &domain.Keyword{
		KeywordID:          id,
		BrandID:            "brand-1",
		Text:               text,
		Category:           domain.CategoryGeneric,
		Intent:             domain.IntentMid,
		Stage:              stage,
		CampaignID:         strPtr("camp-live"),
		ResearchCampaignID: strPtr("camp-research"),
		CreatedAt:          f.now.UnixMilli(),
	}
	require.NoError(t, f.keywords.Insert(context.Background(), k))
	return k
}

func (f *fixture) addDaily(t *testing.T, keywordID string, impressions, clicks int, spend float64, orders int, sales float64) {
	t.Helper()
	row := &domain.KeywordMetricsDaily{
		KeywordID:   keywordID,
		Date:        f.now.UTC().Truncate(24 * time.Hour),
		Impressions: impressions,
		Clicks:      clicks,
		Spend:       spend,
		Orders:      orders,
		Sales:       sales,
	}
	require.NoError(t, f.metrics.InsertBulk(context.Background(), []*domain.KeywordMetricsDaily{row}))
}

func TestRunDaily_PromotionSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "wireless earbuds", domain.StageDiscovery)
	f.addDaily(t, "kw-1", 1000, 25, 12, 3, 60)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Promotions)
	assert.Empty(t, result.Errors)

	// Stage advanced to SKAG on 3 orders
	k, err := f.keywords.GetByID(ctx, "kw-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSKAG, k.Stage)

	// Immutable audit entry with before/after and system actor
	entries, err := f.actionLog.GetByKeyword(ctx, "kw-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionPromote, entries[0].Action)
	assert.Equal(t, domain.StageDiscovery, entries[0].BeforeStage)
	assert.Equal(t, domain.StageSKAG, entries[0].AfterStage)
	assert.Equal(t, SystemActor, entries[0].Actor)

	// Negative exact protecting the research campaign
	negatives, err := f.negatives.GetByCampaign(ctx, "camp-research")
	require.NoError(t, err)
	require.Len(t, negatives, 1)
	assert.Equal(t, "wireless earbuds", negatives[0].Term)
	assert.Equal(t, domain.NegExact, negatives[0].MatchType)
	assert.Equal(t, "promotion", negatives[0].RuleTrigger)
}

func TestRunDaily_PromotionNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// A graduated keyword routinely shows only 1-2 orders in the rolling
	// window; that re-qualifies it for Performance, which must not demote it.
	f.addKeyword(t, "kw-skag", "graduated term", domain.StageSKAG)
	f.addDaily(t, "kw-skag", 1000, 25, 12, 1, 30)

	// Same signal on a Performance keyword targets its own stage: a no-op.
	f.addKeyword(t, "kw-perf", "established term", domain.StagePerformance)
	f.addDaily(t, "kw-perf", 1000, 25, 12, 1, 30)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Promotions)
	assert.Empty(t, result.Errors)

	k, err := f.keywords.GetByID(ctx, "kw-skag")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSKAG, k.Stage)

	k, err = f.keywords.GetByID(ctx, "kw-perf")
	require.NoError(t, err)
	assert.Equal(t, domain.StagePerformance, k.Stage)

	// No audit entries or research-campaign negatives for held keywords
	entries, err := f.actionLog.GetByBrand(ctx, "brand-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	negatives, err := f.negatives.GetByCampaign(ctx, "camp-research")
	require.NoError(t, err)
	assert.Empty(t, negatives)
}

func TestRunDaily_NegationArchives(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// A converting keyword keeps the portfolio median above zero so the
	// CVR graduation path cannot promote the loser.
	f.addKeyword(t, "kw-good", "good term", domain.StageTest)
	f.addDaily(t, "kw-good", 1000, 10, 5, 2, 40)

	f.addKeyword(t, "kw-bad", "bad term", domain.StageDiscovery)
	f.addDaily(t, "kw-bad", 1000, 20, 15, 0, 0)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Negations)

	k, err := f.keywords.GetByID(ctx, "kw-bad")
	require.NoError(t, err)
	assert.Equal(t, domain.StageArchived, k.Stage)

	// Phrase negative in the live campaign
	negatives, err := f.negatives.GetByCampaign(ctx, "camp-live")
	require.NoError(t, err)
	require.Len(t, negatives, 1)
	assert.Equal(t, domain.NegPhrase, negatives[0].MatchType)
	assert.Equal(t, "negation", negatives[0].RuleTrigger)
}

func TestRunDaily_PauseSetsFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "sleepy term", domain.StageDiscovery)
	// 1000 impressions, 1 click: CTR 0.001 under the 0.002 threshold
	f.addDaily(t, "kw-1", 1000, 1, 0.5, 0, 0)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pauses)

	k, err := f.keywords.GetByID(ctx, "kw-1")
	require.NoError(t, err)
	assert.True(t, k.Paused)
	assert.Equal(t, domain.StageDiscovery, k.Stage) // stage unchanged
}

func TestRunDaily_RedAlertRecorded(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "expensive term", domain.StageDiscovery)
	// 10 clicks: below both promote and negate thresholds; 100
	// impressions: below the pause gate; $501 spend with no orders: red
	f.addDaily(t, "kw-1", 100, 10, 501, 0, 0)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Alerts)

	alerts, err := f.alerts.GetByBrand(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertRed, alerts[0].Level)
	assert.Equal(t, "kw-1", alerts[0].KeywordID)
}

func TestRunDaily_ArchivedSkipped(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "dead term", domain.StageArchived)
	f.addDaily(t, "kw-1", 1000, 25, 12, 3, 60) // would promote if evaluated

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Promotions)

	k, err := f.keywords.GetByID(ctx, "kw-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageArchived, k.Stage)
}

func TestRunDaily_DefaultsThresholdsWhenMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "some term", domain.StageDiscovery)
	f.addDaily(t, "kw-1", 100, 2, 1, 0, 0)

	_, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	thresholds, err := f.settings.GetThresholds(ctx, "brand-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClicksPromoteStandard, thresholds.ClicksPromoteStandard)
	assert.Equal(t, domain.DefaultWastedSpendRed, thresholds.WastedSpendRed)
}

func TestRunDaily_MedianCVRFromPortfolio(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	// Three converting keywords with CVRs 0.10, 0.20, 0.30
	f.addKeyword(t, "kw-a", "term a", domain.StageTest)
	f.addDaily(t, "kw-a", 1000, 10, 5, 1, 20)
	f.addKeyword(t, "kw-b", "term b", domain.StageTest)
	f.addDaily(t, "kw-b", 1000, 10, 5, 2, 40)
	f.addKeyword(t, "kw-c", "term c", domain.StageTest)
	f.addDaily(t, "kw-c", 1000, 10, 5, 3, 60)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.InDelta(t, 0.2, result.MedianCVR, 1e-9)
}

func TestRunDaily_MedianCVRDefaultsWithoutConverters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-1", "term", domain.StageDiscovery)
	f.addDaily(t, "kw-1", 100, 2, 1, 0, 0)

	result, err := f.orchestrator().RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultMedianCVR, result.MedianCVR)
}

// failingMetricsStore errors for one keyword to exercise partial-failure
// tolerance.
type failingMetricsStore struct {
	storage.DailyMetricsStore
	failFor string
}

func (s *failingMetricsStore) GetByKeywordRange(ctx context.Context, keywordID string, start, end time.Time) ([]*domain.KeywordMetricsDaily, error) {
	if keywordID == s.failFor {
		return nil, errors.New("storage unavailable")
	}
	return s.DailyMetricsStore.GetByKeywordRange(ctx, keywordID, start, end)
}

func TestRunDaily_PerKeywordFailureDoesNotHaltBatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.addKeyword(t, "kw-broken", "broken term", domain.StageDiscovery)
	f.addKeyword(t, "kw-ok", "ok term", domain.StageDiscovery)
	f.addDaily(t, "kw-ok", 1000, 25, 12, 3, 60)

	o := f.orchestrator(func(opts *Options) {
		opts.DailyMetricsStore = &failingMetricsStore{DailyMetricsStore: f.metrics, failFor: "kw-broken"}
	})

	result, err := o.RunDaily(ctx, "brand-1")
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "kw-broken")

	// The healthy keyword was still promoted
	assert.Equal(t, 1, result.Promotions)
	k, err := f.keywords.GetByID(ctx, "kw-ok")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSKAG, k.Stage)
}
