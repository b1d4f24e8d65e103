package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name  string
		rank  int
		total int
		want  string
	}{
		{"top of a large board", 1, 100, "gold"},
		{"exactly tenth percentile", 10, 100, "gold"},
		{"second band", 30, 100, "silver"},
		{"exactly at silver edge", 37, 100, "silver"},
		{"third band", 60, 100, "bronze"},
		{"bottom band", 90, 100, "baseline"},
		{"last place", 100, 100, "baseline"},
		{"sole player ranks baseline", 1, 1, "baseline"},
		{"empty platform is neutral", 1, 0, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.rank, tt.total).Token)
		})
	}
}

func TestTierFor_TokensCarryVisualIdentity(t *testing.T) {
	tier := TierFor(1, 100)
	assert.NotEmpty(t, tier.Gradient)
	assert.Equal(t, "#FFD700", tier.PrimaryColor)
}
