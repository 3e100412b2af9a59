package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"ppc-keyword-lab/internal/domain"
)

// ComputeNegativeID computes a deterministic negative-keyword record ID.
// Formula: SHA256(brand_id|campaign_id|term|match_type), term lowercased.
// Returns hex-encoded hash (64 characters).
//
// Determinism makes negative creation idempotent: re-applying the same fix
// collides on the store's duplicate-key check instead of inserting twice.
func ComputeNegativeID(brandID, campaignID, term string, matchType domain.NegativeMatchType) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		brandID,
		campaignID,
		strings.ToLower(term),
		string(matchType),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
