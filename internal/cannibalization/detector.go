// Package cannibalization finds keywords competing with themselves across
// exact and broad/phrase campaigns, and proposes negative-keyword fixes.
package cannibalization

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ppc-keyword-lab/internal/domain"
	"ppc-keyword-lab/internal/idhash"
	"ppc-keyword-lab/internal/storage"
)

// Issue is one unprotected exact/broad overlap for a keyword term.
type Issue struct {
	BrandID         string
	KeywordText     string
	ExactCampaignID string
	BroadCampaignID string           // the campaign missing the protecting negative
	BroadMatchType  domain.MatchType // BROAD or PHRASE
	Recommendation  string
}

// Detector scans keyword-to-campaign assignments for cannibalization.
type Detector struct {
	campaignStore storage.CampaignStore
	negativeStore storage.NegativeKeywordStore
}

// NewDetector creates a new cannibalization detector.
func NewDetector(campaignStore storage.CampaignStore, negativeStore storage.NegativeKeywordStore) *Detector {
	return &Detector{
		campaignStore: campaignStore,
		negativeStore: negativeStore,
	}
}

// Detect finds keywords assigned to both an EXACT campaign and a
// BROAD/PHRASE campaign where the broad/phrase campaign has no negative for
// the term. Pure analysis: no writes. Issues come back sorted by term, then
// broad campaign ID, for deterministic output.
func (d *Detector) Detect(ctx context.Context, brandID string) ([]Issue, error) {
	campaigns, err := d.campaignStore.GetByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}

	campaignByID := make(map[string]*domain.Campaign, len(campaigns))
	for _, c := range campaigns {
		campaignByID[c.CampaignID] = c
	}

	assignments, err := d.campaignStore.GetAssignmentsByBrand(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	// Group campaign IDs by normalized keyword term
	type termCampaigns struct {
		exact []string
		broad []string // BROAD and PHRASE
	}
	byTerm := make(map[string]*termCampaigns)
	displayTerm := make(map[string]string)

	for _, a := range assignments {
		c, ok := campaignByID[a.CampaignID]
		if !ok {
			continue
		}

		term := strings.ToLower(strings.TrimSpace(a.KeywordText))
		if term == "" {
			continue
		}
		if _, ok := byTerm[term]; !ok {
			byTerm[term] = &termCampaigns{}
			displayTerm[term] = a.KeywordText
		}

		switch c.MatchType {
		case domain.MatchExact:
			byTerm[term].exact = append(byTerm[term].exact, c.CampaignID)
		case domain.MatchBroad, domain.MatchPhrase:
			byTerm[term].broad = append(byTerm[term].broad, c.CampaignID)
		}
	}

	var issues []Issue
	for term, tc := range byTerm {
		if len(tc.exact) == 0 || len(tc.broad) == 0 {
			continue
		}

		sort.Strings(tc.exact)
		sort.Strings(tc.broad)

		for _, broadID := range tc.broad {
			exists, err := d.negativeStore.ExistsForTerm(ctx, broadID, term)
			if err != nil {
				return nil, fmt.Errorf("check negative for %q on %s: %w", term, broadID, err)
			}
			if exists {
				continue
			}

			broadCampaign := campaignByID[broadID]
			issues = append(issues, Issue{
				BrandID:         brandID,
				KeywordText:     displayTerm[term],
				ExactCampaignID: tc.exact[0],
				BroadCampaignID: broadID,
				BroadMatchType:  broadCampaign.MatchType,
				Recommendation: fmt.Sprintf("Add negative exact %q to campaign %s to protect exact campaign %s",
					displayTerm[term], broadID, tc.exact[0]),
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].KeywordText != issues[j].KeywordText {
			return strings.ToLower(issues[i].KeywordText) < strings.ToLower(issues[j].KeywordText)
		}
		return issues[i].BroadCampaignID < issues[j].BroadCampaignID
	})

	return issues, nil
}

// ApplyFixes creates a NEG_EXACT negative on each issue's broad/phrase
// campaign. Negative IDs are deterministic, so re-applying already-fixed
// issues collides on ErrDuplicateKey and is skipped; a subsequent Detect
// reports zero issues for fixed pairs. Returns the number of negatives
// actually created.
func (d *Detector) ApplyFixes(ctx context.Context, issues []Issue) (int, error) {
	created := 0
	now := time.Now().UnixMilli()

	for _, issue := range issues {
		negative := &domain.NegativeKeyword{
			NegativeID:          idhash.ComputeNegativeID(issue.BrandID, issue.BroadCampaignID, issue.KeywordText, domain.NegExact),
			BrandID:             issue.BrandID,
			Term:                issue.KeywordText,
			MatchType:           domain.NegExact,
			Scope:               domain.ScopeCampaign,
			AppliedToCampaignID: issue.BroadCampaignID,
			Reason:              issue.Recommendation,
			RuleTrigger:         "cannibalization_fix",
			CreatedAt:           now,
		}

		if err := d.negativeStore.Insert(ctx, negative); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return created, fmt.Errorf("insert negative for %q on %s: %w", issue.KeywordText, issue.BroadCampaignID, err)
		}
		created++
	}

	return created, nil
}
