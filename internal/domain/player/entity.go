// Package player contains the Player aggregate: the persisted record of a
// coding-platform account and its latest computed score. A player is
// identified by (handle, platform); the score is overwritten on every
// recompute, no history is kept.
package player

import (
	"strings"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
)

// Platform identifies a supported coding platform.
type Platform string

const (
	PlatformGitHub     Platform = "GitHub"
	PlatformLeetCode   Platform = "LeetCode"
	PlatformCodeforces Platform = "Codeforces"
)

// AllPlatforms lists every supported platform, in stable order.
func AllPlatforms() []Platform {
	return []Platform{PlatformGitHub, PlatformLeetCode, PlatformCodeforces}
}

// ParsePlatform parses a platform name case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "github":
		return PlatformGitHub, nil
	case "leetcode":
		return PlatformLeetCode, nil
	case "codeforces":
		return PlatformCodeforces, nil
	default:
		return "", shared.ErrInvalidPlatform
	}
}

// IsValid reports whether the platform is one of the supported values.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformGitHub, PlatformLeetCode, PlatformCodeforces:
		return true
	}
	return false
}

// String returns the canonical platform name.
func (p Platform) String() string {
	return string(p)
}

// Player is the persisted record for one (handle, platform) pair.
type Player struct {
	// Handle is the platform-specific username. Unique within a platform.
	Handle string

	// Name is the display name, when the platform reports one.
	Name string

	// Platform the handle belongs to.
	Platform Platform

	// Score is the latest overall score. Overwritten on every recompute.
	Score int

	// UpdatedAt is when the score was last recomputed.
	UpdatedAt time.Time
}

// New creates a validated Player.
func New(handle, name string, platform Platform, score int) (*Player, error) {
	p := &Player{
		Handle:    strings.TrimSpace(handle),
		Name:      strings.TrimSpace(name),
		Platform:  platform,
		Score:     score,
		UpdatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the player invariants.
func (p *Player) Validate() error {
	if p.Handle == "" {
		return shared.ErrInvalidHandle
	}
	if !p.Platform.IsValid() {
		return shared.ErrInvalidPlatform
	}
	// Negative scores are possible when the diversity penalty drives the
	// Codeforces formula below zero; they are stored as-is.
	return nil
}
