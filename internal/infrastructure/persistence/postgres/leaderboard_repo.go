// Package postgres implements the PostgreSQL persistence layer for CodeCard.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecard-hub/codecard-backend/internal/domain/leaderboard"
	"github.com/codecard-hub/codecard-backend/internal/domain/player"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardStore implements leaderboard.Store for PostgreSQL.
type LeaderboardStore struct {
	conn    *Connection
	db      Querier
	players player.Repository
}

// NewLeaderboardStore creates a new LeaderboardStore.
func NewLeaderboardStore(conn *Connection) *LeaderboardStore {
	return &LeaderboardStore{
		conn:    conn,
		db:      conn,
		players: NewPlayerRepository(conn),
	}
}

// RecordScore upserts the player and, when the handle is new to its
// platform, increments the platform population counter. Both writes run
// in one transaction so concurrent first-time lookups of the same handle
// cannot double count it.
func (s *LeaderboardStore) RecordScore(ctx context.Context, p *player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		return recordScore(ctx, tx, p)
	})
}

// recordScore is the transaction body of RecordScore: the counter
// increment runs only when the upsert reports a freshly inserted row,
// so recording the same (handle, platform) again leaves the counter
// untouched.
func recordScore(ctx context.Context, q Querier, p *player.Player) error {
	inserted, err := upsertPlayer(ctx, q, p)
	if err != nil {
		return err
	}

	if !inserted {
		return nil
	}

	query := `
		INSERT INTO leaderboard_stats (platform, total_players, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (platform) DO UPDATE SET
			total_players = leaderboard_stats.total_players + 1,
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, string(p.Platform)); err != nil {
		return fmt.Errorf("failed to increment platform counter: %w", err)
	}

	return nil
}

// ResolveRank returns the competition rank for a score on a platform.
// Rank is 1 plus the number of players with a strictly greater score,
// so equal scores share a rank.
func (s *LeaderboardStore) ResolveRank(ctx context.Context, platform player.Platform, score int) (leaderboard.RankResult, error) {
	greater, err := s.players.CountGreater(ctx, platform, score)
	if err != nil {
		return leaderboard.RankResult{}, fmt.Errorf("failed to resolve rank: %w", err)
	}

	stats, err := s.GetStats(ctx, platform)
	if err != nil {
		if errors.Is(err, shared.ErrStatsNotFound) {
			return leaderboard.RankResult{Rank: greater + 1, TotalPlayers: 0}, nil
		}
		return leaderboard.RankResult{}, err
	}

	return leaderboard.RankResult{
		Rank:         greater + 1,
		TotalPlayers: stats.TotalPlayers,
	}, nil
}

// GetStats returns the population stats for a single platform, or
// shared.ErrStatsNotFound when the platform has no counter row.
func (s *LeaderboardStore) GetStats(ctx context.Context, platform player.Platform) (*leaderboard.PlatformStats, error) {
	query := `
		SELECT platform, total_players
		FROM leaderboard_stats
		WHERE platform = $1
	`

	var plat string
	var total int
	err := s.db.QueryRow(ctx, query, string(platform)).Scan(&plat, &total)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}

	return &leaderboard.PlatformStats{
		Platform:     player.Platform(plat),
		TotalPlayers: total,
	}, nil
}

// TotalUserCount returns the number of distinct tracked handles across
// all platforms.
func (s *LeaderboardStore) TotalUserCount(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(SUM(total_players), 0) FROM leaderboard_stats`

	var total int
	err := s.db.QueryRow(ctx, query).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum platform counters: %w", err)
	}

	return total, nil
}
