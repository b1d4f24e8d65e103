package player

import "context"

// Repository defines persistence operations for players.
// Implementations live in internal/infrastructure/persistence.
type Repository interface {
	// Upsert inserts or updates the player row for (handle, platform).
	// It reports whether a new row was inserted, so callers can maintain
	// first-seen counters atomically with the write.
	Upsert(ctx context.Context, p *Player) (inserted bool, err error)

	// FindByHandle returns the player for (handle, platform), or
	// shared.ErrPlayerNotFound.
	FindByHandle(ctx context.Context, handle string, platform Platform) (*Player, error)

	// CountGreater returns how many players on the platform have a score
	// strictly greater than the given one.
	CountGreater(ctx context.Context, platform Platform, score int) (int, error)
}
