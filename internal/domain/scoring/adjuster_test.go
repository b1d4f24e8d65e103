package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjust_BalancedProfileIsNeutral(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   int
	}{
		{"perfectly even", 30, 10},
		{"exactly at threshold", 10, 5},
		{"two tiers", 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := Adjust(tt.total, tt.max, true)
			assert.Equal(t, 1.0, adj.DiversityFactor)
			assert.Equal(t, 1.0, adj.SpecializationBonus)
		})
	}
}

func TestAdjust_ZeroSolved(t *testing.T) {
	adj := Adjust(0, 0, false)
	assert.Equal(t, 0.0, adj.RepetitionRatio)
	assert.Equal(t, 1.0, adj.DiversityFactor)
	assert.Equal(t, 1.0, adj.SpecializationBonus)
}

func TestAdjust_DiversityFactorMonotone(t *testing.T) {
	// Diversity factor must never increase as concentration grows.
	prev := 2.0
	for max := 0; max <= 100; max++ {
		adj := Adjust(100, max, false)
		assert.LessOrEqual(t, adj.DiversityFactor, prev,
			"diversity factor increased at max=%d", max)
		prev = adj.DiversityFactor
	}
}

func TestAdjust_EasyDominantPenalty(t *testing.T) {
	adj := Adjust(10, 8, true)
	assert.InDelta(t, 0.8, adj.RepetitionRatio, 1e-9)
	assert.InDelta(t, 0.7, adj.DiversityFactor, 1e-9)
	assert.InDelta(t, 0.7, adj.SpecializationBonus, 1e-9)
	assert.Less(t, adj.SpecializationBonus, 1.0)
}

func TestAdjust_HardDominantBonus(t *testing.T) {
	adj := Adjust(10, 8, false)
	assert.InDelta(t, 1.3, adj.SpecializationBonus, 1e-9)
	assert.Greater(t, adj.SpecializationBonus, 1.0)
}

func TestAdjust_RatioAboveOneGoesNegative(t *testing.T) {
	// Bucket counts can exceed the deduplicated total on Codeforces, so the
	// ratio can pass 1 and an easy-dominant profile goes negative. Accepted
	// behavior, not clamped.
	adj := Adjust(10, 16, true)
	assert.InDelta(t, 1.6, adj.RepetitionRatio, 1e-9)
	assert.Less(t, adj.DiversityFactor, 0.0)
	assert.Less(t, adj.SpecializationBonus, 0.0)
}
