// Package postgres implements the PostgreSQL persistence layer for CodeCard.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/player"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PlayerRepository implements player.Repository for PostgreSQL.
type PlayerRepository struct {
	db Querier
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(conn *Connection) *PlayerRepository {
	return &PlayerRepository{db: conn}
}

// Upsert inserts the player or updates the score of an existing row.
// The returned flag reports whether a new row was inserted, which the
// leaderboard store uses to bump the platform population counter.
func (r *PlayerRepository) Upsert(ctx context.Context, p *player.Player) (bool, error) {
	return upsertPlayer(ctx, r.db, p)
}

// upsertPlayer runs the upsert against any Querier so the leaderboard
// store can reuse it inside a transaction.
// xmax = 0 only holds for freshly inserted row versions, which is how
// we distinguish INSERT from the ON CONFLICT UPDATE path in one round trip.
func upsertPlayer(ctx context.Context, q Querier, p *player.Player) (bool, error) {
	query := `
		INSERT INTO players (handle, display_name, platform, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (handle, platform) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		p.Handle,
		p.Name,
		string(p.Platform),
		p.Score,
		p.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert player: %w", err)
	}

	return inserted, nil
}

// FindByHandle returns a player by handle and platform.
func (r *PlayerRepository) FindByHandle(ctx context.Context, handle string, platform player.Platform) (*player.Player, error) {
	query := `
		SELECT handle, display_name, platform, score, updated_at
		FROM players
		WHERE handle = $1 AND platform = $2
	`

	var p player.Player
	var plat string
	var updatedAt time.Time

	err := r.db.QueryRow(ctx, query, handle, string(platform)).Scan(
		&p.Handle,
		&p.Name,
		&plat,
		&p.Score,
		&updatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find player: %w", err)
	}

	p.Platform = player.Platform(plat)
	p.UpdatedAt = updatedAt
	return &p, nil
}

// CountGreater returns the number of players on the platform with a score
// strictly greater than the given score.
func (r *PlayerRepository) CountGreater(ctx context.Context, platform player.Platform, score int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM players
		WHERE platform = $1 AND score > $2
	`

	var count int
	err := r.db.QueryRow(ctx, query, string(platform), score).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
