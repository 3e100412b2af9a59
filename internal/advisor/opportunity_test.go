package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOpportunityScore(t *testing.T) {
	// (10000 * 80) / (100 * 1.5) = 5333.3333
	assert.Equal(t, 5333.3333, CalculateOpportunityScore(10000, 80, 100, 1.5))
}

func TestCalculateOpportunityScore_ZeroGuards(t *testing.T) {
	assert.Equal(t, 0.0, CalculateOpportunityScore(10000, 80, 0, 1.5))
	assert.Equal(t, 0.0, CalculateOpportunityScore(10000, 80, 100, 0))
	assert.Equal(t, 0.0, CalculateOpportunityScore(0, 0, 0, 0))
}

func TestCalculateOpportunityScore_ZeroVolume(t *testing.T) {
	assert.Equal(t, 0.0, CalculateOpportunityScore(0, 80, 100, 1.5))
}
