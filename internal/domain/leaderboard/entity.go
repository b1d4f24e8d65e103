// Package leaderboard contains the per-platform leaderboard: a distinct-player
// counter per platform plus rank resolution over the stored player scores.
package leaderboard

import (
	"github.com/codecard-hub/codecard-backend/internal/domain/player"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
)

// PlatformStats tracks how many distinct players were ever seen on a platform.
// The counter only increments; it is not a live row count.
type PlatformStats struct {
	Platform     player.Platform
	TotalPlayers int
}

// Validate checks the stats invariants.
func (s *PlatformStats) Validate() error {
	if !s.Platform.IsValid() {
		return shared.ErrInvalidPlatform
	}
	if s.TotalPlayers < 0 {
		return shared.ErrValueOutOfRange
	}
	return nil
}

// RankResult is the outcome of resolving a score against a platform population.
// Rank uses competition ranking: 1 + count of strictly greater scores, so tied
// scores share a rank and gaps follow ties.
type RankResult struct {
	Rank         int `json:"rank"`
	TotalPlayers int `json:"totalPlayers"`
}

// Percentile returns rank/total as a fraction in (0, 1]. An empty platform
// yields 0, which the tier mapping treats as the degenerate neutral case.
func (r RankResult) Percentile() float64 {
	if r.TotalPlayers <= 0 {
		return 0
	}
	return float64(r.Rank) / float64(r.TotalPlayers)
}
