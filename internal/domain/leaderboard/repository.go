package leaderboard

import (
	"context"

	"github.com/codecard-hub/codecard-backend/internal/domain/player"
)

// Store defines the leaderboard persistence contract.
//
// RecordScore must be atomic: the player upsert and the first-seen counter
// increment happen in one transaction, so two concurrent first-time requests
// for the same handle cannot double-increment the platform counter.
type Store interface {
	// RecordScore upserts the player row and, if this handle was never seen
	// on the platform before, increments the platform's distinct-player
	// counter exactly once.
	RecordScore(ctx context.Context, p *player.Player) error

	// ResolveRank computes the competition rank for a score on a platform:
	// 1 + count of strictly greater stored scores. TotalPlayers comes from
	// the platform counter and is 0 when no stats row exists yet.
	ResolveRank(ctx context.Context, platform player.Platform, score int) (RankResult, error)

	// GetStats returns the counter row for a platform, or
	// shared.ErrStatsNotFound.
	GetStats(ctx context.Context, platform player.Platform) (*PlatformStats, error)

	// TotalUserCount sums the counters of all platforms.
	TotalUserCount(ctx context.Context) (int, error)
}
