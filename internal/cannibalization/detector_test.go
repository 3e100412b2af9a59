package cannibalization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage/memory"
)

type detectorFixture struct {
	campaigns *memory.CampaignStore
	negatives *memory.NegativeKeywordStore
	detector  *Detector
}

func newDetectorFixture() *detectorFixture {
	campaigns := memory.NewCampaignStore()
	negatives := memory.NewNegativeKeywordStore()
	return &detectorFixture{
		campaigns: campaigns,
		negatives: negatives,
		detector:  NewDetector(campaigns, negatives),
	}
}

func (f *detectorFixture) addCampaign(t *testing.T, id string, matchType domain.MatchType) {
	t.Helper()
	err := f.campaigns.Insert(context.Background(), &domain.Campaign{
		CampaignID: id,
		BrandID:    "brand-1",
		Name:       id,
		MatchType:  matchType,
	})
	require.NoError(t, err)
}

func (f *detectorFixture) assign(t *testing.T, assignmentID, term, campaignID string) {
	t.Helper()
	err := f.campaigns.InsertAssignment(context.Background(), &domain.KeywordAssignment{
		AssignmentID: assignmentID,
		BrandID:      "brand-1",
		KeywordText:  term,
		CampaignID:   campaignID,
	})
	require.NoError(t, err)
}

func TestDetect_ExactBroadOverlap(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture()

	f.addCampaign(t, "camp-exact", domain.MatchExact)
	f.addCampaign(t, "camp-broad", domain.MatchBroad)
	f.assign(t, "a-1", "running shoes", "camp-exact")
	f.assign(t, "a-2", "Running Shoes", "camp-broad") // case differs, same term

	issues, err := f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, "camp-exact", issue.ExactCampaignID)
	assert.Equal(t, "camp-broad", issue.BroadCampaignID)
	assert.Equal(t, domain.MatchBroad, issue.BroadMatchType)
	assert.Contains(t, issue.Recommendation, "camp-broad")
}

func TestDetect_ProtectedPairSkipped(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture()

	f.addCampaign(t, "camp-exact", domain.MatchExact)
	f.addCampaign(t, "camp-phrase", domain.MatchPhrase)
	f.assign(t, "a-1", "running shoes", "camp-exact")
	f.assign(t, "a-2", "running shoes", "camp-phrase")

	// Existing negative already protects the phrase campaign
	err := f.negatives.Insert(ctx, &domain.NegativeKeyword{
		NegativeID:          "neg-1",
		BrandID:             "brand-1",
		Term:                "running shoes",
		MatchType:           domain.NegExact,
		Scope:               domain.ScopeCampaign,
		AppliedToCampaignID: "camp-phrase",
	})
	require.NoError(t, err)

	issues, err := f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDetect_NoOverlapWithoutBothMatchTypes(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture()

	f.addCampaign(t, "camp-broad-1", domain.MatchBroad)
	f.addCampaign(t, "camp-broad-2", domain.MatchBroad)
	f.assign(t, "a-1", "running shoes", "camp-broad-1")
	f.assign(t, "a-2", "running shoes", "camp-broad-2")

	issues, err := f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDetect_SortedByTermThenCampaign(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture()

	f.addCampaign(t, "camp-exact", domain.MatchExact)
	f.addCampaign(t, "camp-broad-b", domain.MatchBroad)
	f.addCampaign(t, "camp-broad-a", domain.MatchPhrase)
	f.assign(t, "a-1", "zebra print", "camp-exact")
	f.assign(t, "a-2", "zebra print", "camp-broad-b")
	f.assign(t, "a-3", "zebra print", "camp-broad-a")
	f.assign(t, "a-4", "apple slicer", "camp-exact")
	f.assign(t, "a-5", "apple slicer", "camp-broad-b")

	issues, err := f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, "apple slicer", issues[0].KeywordText)
	assert.Equal(t, "zebra print", issues[1].KeywordText)
	assert.Equal(t, "camp-broad-a", issues[1].BroadCampaignID)
	assert.Equal(t, "camp-broad-b", issues[2].BroadCampaignID)
}

func TestApplyFixes_CreatesNegativesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newDetectorFixture()

	f.addCampaign(t, "camp-exact", domain.MatchExact)
	f.addCampaign(t, "camp-broad", domain.MatchBroad)
	f.assign(t, "a-1", "running shoes", "camp-exact")
	f.assign(t, "a-2", "running shoes", "camp-broad")

	issues, err := f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	require.Len(t, issues, 1)

	created, err := f.detector.ApplyFixes(ctx, issues)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	negatives, err := f.negatives.GetByCampaign(ctx, "camp-broad")
	require.NoError(t, err)
	require.Len(t, negatives, 1)
	assert.Equal(t, domain.NegExact, negatives[0].MatchType)
	assert.Equal(t, "cannibalization_fix", negatives[0].RuleTrigger)

	// Re-applying the same issues collides on the deterministic ID
	created, err = f.detector.ApplyFixes(ctx, issues)
	require.NoError(t, err)
	assert.Zero(t, created)

	// And the pair no longer reports as an issue
	issues, err = f.detector.Detect(ctx, "brand-1")
	require.NoError(t, err)
	assert.Empty(t, issues)
}
