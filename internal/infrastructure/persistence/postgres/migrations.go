// Package postgres implements the PostgreSQL persistence layer for CodeCard.
package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_players",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_leaderboard_stats",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PLAYERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create players table
-- Version: 001

-- One row per (handle, platform) pair. The score is the most recently
-- computed overall profile score for that handle on that platform.
CREATE TABLE IF NOT EXISTS players (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    handle VARCHAR(100) NOT NULL,
    display_name VARCHAR(255) NOT NULL DEFAULT '',
    platform VARCHAR(20) NOT NULL,
    score INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_platform CHECK (platform IN ('GitHub', 'LeetCode', 'Codeforces')),
    UNIQUE(handle, platform)
);

-- Rank resolution counts players with a strictly greater score on the
-- same platform, so the composite descending-score index matters.
CREATE INDEX IF NOT EXISTS idx_players_platform_score ON players(platform, score DESC);
CREATE INDEX IF NOT EXISTS idx_players_updated_at ON players(updated_at DESC);
`

const migration001Down = `
DROP TABLE IF EXISTS players;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE LEADERBOARD STATS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create leaderboard stats table
-- Version: 002

-- Per-platform population counters. A counter is incremented exactly once
-- per distinct handle, inside the same transaction that inserts the player
-- row, so the count can never drift from the players table.
CREATE TABLE IF NOT EXISTS leaderboard_stats (
    platform VARCHAR(20) PRIMARY KEY,
    total_players BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_stats_platform CHECK (platform IN ('GitHub', 'LeetCode', 'Codeforces')),
    CONSTRAINT non_negative_total CHECK (total_players >= 0)
);

INSERT INTO leaderboard_stats (platform, total_players)
VALUES ('GitHub', 0), ('LeetCode', 0), ('Codeforces', 0)
ON CONFLICT (platform) DO NOTHING;
`

const migration002Down = `
DROP TABLE IF EXISTS leaderboard_stats;
`
