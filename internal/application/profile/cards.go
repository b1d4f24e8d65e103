package profile

import (
	"github.com/codecard-hub/codecard-backend/internal/domain/leaderboard"
	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/githubapi"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CARDS
// The JSON payloads returned to the card frontend. Each card is the platform
// score plus the leaderboard ranking, the percentile tier theme, and a QR code
// rendered as a base64 PNG data URL. An empty QRCode means rendering failed;
// the card is still served.
// ══════════════════════════════════════════════════════════════════════════════

// GitHubCard is the assembled GitHub profile card.
type GitHubCard struct {
	scoring.GitHubScore

	DisplayName string                 `json:"name"`
	PublicRepos int                    `json:"publicRepos"`
	Followers   int                    `json:"followers"`
	TopRepos    []githubapi.TopRepo    `json:"topRepos"`
	Ranking     leaderboard.RankResult `json:"ranking"`
	Tier        scoring.Tier           `json:"tier"`
	QRCode      string                 `json:"qrCode"`
}

// LeetCodeCard is the assembled LeetCode profile card.
type LeetCodeCard struct {
	scoring.LeetCodeScore

	Ranking leaderboard.RankResult `json:"ranking"`
	Tier    scoring.Tier           `json:"tier"`
	QRCode  string                 `json:"qrCode"`
}

// CodeforcesCard is the assembled Codeforces profile card.
type CodeforcesCard struct {
	scoring.CodeforcesScore

	Ranking leaderboard.RankResult `json:"ranking"`
	Tier    scoring.Tier           `json:"tier"`
	QRCode  string                 `json:"qrCode"`
}

// UserCount is the aggregate number of tracked handles across all platforms.
type UserCount struct {
	TotalUsers int `json:"totalUsers"`
}
