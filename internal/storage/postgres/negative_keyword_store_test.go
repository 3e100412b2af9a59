package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/storage"
)

func TestNegativeKeywordStore_InsertAndGetByCampaign(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewNegativeKeywordStore(pool)

	n := &domain.NegativeKeyword{
		NegativeID:          "neg-1",
		BrandID:             "brand-1",
		Term:                "running shoes",
		MatchType:           domain.NegExact,
		Scope:               domain.ScopeCampaign,
		AppliedToCampaignID: "camp-1",
		Reason:              "promoted to exact campaign",
		RuleTrigger:         "promotion",
		CreatedAt:           1700000000000,
	}
	require.NoError(t, store.Insert(ctx, n))

	// Append-only: same ID rejected
	assert.ErrorIs(t, store.Insert(ctx, n), storage.ErrDuplicateKey)

	got, err := store.GetByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "running shoes", got[0].Term)
	assert.Equal(t, domain.NegExact, got[0].MatchType)
	assert.Equal(t, "promotion", got[0].RuleTrigger)

	empty, err := store.GetByCampaign(ctx, "camp-other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNegativeKeywordStore_ExistsForTermCaseInsensitive(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewNegativeKeywordStore(pool)

	n := &domain.NegativeKeyword{
		NegativeID:          "neg-1",
		BrandID:             "brand-1",
		Term:                "Running Shoes",
		MatchType:           domain.NegPhrase,
		Scope:               domain.ScopeCampaign,
		AppliedToCampaignID: "camp-1",
		Reason:              "wasted spend",
		RuleTrigger:         "negation",
		CreatedAt:           1700000000000,
	}
	require.NoError(t, store.Insert(ctx, n))

	exists, err := store.ExistsForTerm(ctx, "camp-1", "running shoes")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsForTerm(ctx, "camp-1", "trail shoes")
	require.NoError(t, err)
	assert.False(t, exists)

	// Different campaign, same term
	exists, err = store.ExistsForTerm(ctx, "camp-2", "running shoes")
	require.NoError(t, err)
	assert.False(t, exists)
}
