package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/codecard-hub/codecard-backend/internal/domain/leaderboard"
	"github.com/codecard-hub/codecard-backend/internal/domain/player"
	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/codeforces"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/githubapi"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/leetcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeGitHub struct {
	profile *githubapi.Profile
	err     error
	calls   int
}

func (f *fakeGitHub) FetchProfile(ctx context.Context, username string) (*githubapi.Profile, error) {
	f.calls++
	return f.profile, f.err
}

type fakeLeetCode struct {
	profile *leetcode.Profile
	err     error
	calls   int
}

func (f *fakeLeetCode) FetchProfile(ctx context.Context, username string) (*leetcode.Profile, error) {
	f.calls++
	return f.profile, f.err
}

type fakeCodeforces struct {
	profile *codeforces.Profile
	err     error
	calls   int
}

func (f *fakeCodeforces) FetchProfile(ctx context.Context, handle string) (*codeforces.Profile, error) {
	f.calls++
	return f.profile, f.err
}

type fakeStore struct {
	recorded   []*player.Player
	recordErr  error
	rank       leaderboard.RankResult
	rankErr    error
	total      int
	totalCalls int
}

func (f *fakeStore) RecordScore(ctx context.Context, p *player.Player) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, p)
	return nil
}

func (f *fakeStore) ResolveRank(ctx context.Context, platform player.Platform, score int) (leaderboard.RankResult, error) {
	return f.rank, f.rankErr
}

func (f *fakeStore) GetStats(ctx context.Context, platform player.Platform) (*leaderboard.PlatformStats, error) {
	return nil, shared.ErrStatsNotFound
}

func (f *fakeStore) TotalUserCount(ctx context.Context) (int, error) {
	f.totalCalls++
	return f.total, nil
}

type fakeEncoder struct {
	content string
	color   string
	err     error
}

func (f *fakeEncoder) Encode(content string) (string, error) {
	f.content = content
	if f.err != nil {
		return "", f.err
	}
	return "data:image/png;base64,QR", nil
}

func (f *fakeEncoder) EncodeColored(content, foregroundHex string) (string, error) {
	f.content = content
	f.color = foregroundHex
	if f.err != nil {
		return "", f.err
	}
	return "data:image/png;base64,QR", nil
}

type fakeCache struct {
	cards map[string][]byte
	count *int
}

func newFakeCache() *fakeCache {
	return &fakeCache{cards: make(map[string][]byte)}
}

func cacheKey(platform player.Platform, handle string) string {
	return string(platform) + ":" + handle
}

func (f *fakeCache) GetCard(ctx context.Context, platform player.Platform, handle string, dest interface{}) error {
	raw, ok := f.cards[cacheKey(platform, handle)]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetCard(ctx context.Context, platform player.Platform, handle string, card interface{}) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return err
	}
	f.cards[cacheKey(platform, handle)] = raw
	return nil
}

func (f *fakeCache) GetUserCount(ctx context.Context) (int, error) {
	if f.count == nil {
		return 0, errors.New("cache miss")
	}
	return *f.count, nil
}

func (f *fakeCache) SetUserCount(ctx context.Context, count int) error {
	f.count = &count
	return nil
}

func newTestService(cfg Config) *Service {
	if cfg.GitHub == nil {
		cfg.GitHub = &fakeGitHub{}
	}
	if cfg.LeetCode == nil {
		cfg.LeetCode = &fakeLeetCode{}
	}
	if cfg.Codeforces == nil {
		cfg.Codeforces = &fakeCodeforces{}
	}
	if cfg.Store == nil {
		cfg.Store = &fakeStore{rank: leaderboard.RankResult{Rank: 1, TotalPlayers: 1}}
	}
	if cfg.Encoder == nil {
		cfg.Encoder = &fakeEncoder{}
	}
	return NewService(cfg)
}

// ──────────────────────────────────────────────────────────────────────────────
// GitHub cards
// ──────────────────────────────────────────────────────────────────────────────

func TestGetGitHubCard_AssemblesCard(t *testing.T) {
	github := &fakeGitHub{
		profile: &githubapi.Profile{
			Input: scoring.GitHubInput{
				Handle:              "octocat",
				IssuesOpened:        1,
				IssuesClosed:        1,
				PRsMerged:           1,
				Stars:               10,
				Forks:               2,
				Followers:           5,
				TopReposContributed: 1,
				AccountAgeYears:     3,
				UniqueLanguages:     2,
			},
			DisplayName: "The Octocat",
			PublicRepos: 8,
			TopRepos:    []githubapi.TopRepo{{Name: "hello", Stars: 10}},
		},
	}
	store := &fakeStore{rank: leaderboard.RankResult{Rank: 1, TotalPlayers: 20}}
	encoder := &fakeEncoder{}

	svc := newTestService(Config{GitHub: github, Store: store, Encoder: encoder})
	card, err := svc.GetGitHubCard(context.Background(), "octocat")
	require.NoError(t, err)

	// problem = 2 + 3 + 10 + 50 + 6 = 71
	// overall = round(71*0.7 + 15 + 50 + 15 + 10) = 140
	assert.Equal(t, 71, card.ProblemSolvingScore)
	assert.Equal(t, 140, card.OverallScore)
	assert.Equal(t, "The Octocat", card.DisplayName)
	assert.Equal(t, 8, card.PublicRepos)
	assert.Equal(t, 5, card.Followers)
	assert.Equal(t, leaderboard.RankResult{Rank: 1, TotalPlayers: 20}, card.Ranking)
	assert.Equal(t, "gold", card.Tier.Token)
	assert.Equal(t, "data:image/png;base64,QR", card.QRCode)

	require.Len(t, store.recorded, 1)
	assert.Equal(t, "octocat", store.recorded[0].Handle)
	assert.Equal(t, "The Octocat", store.recorded[0].Name)
	assert.Equal(t, player.PlatformGitHub, store.recorded[0].Platform)
	assert.Equal(t, 140, store.recorded[0].Score)

	// GitHub cards encode the profile URL tinted with the tier color.
	assert.Equal(t, "https://github.com/octocat", encoder.content)
	assert.Equal(t, "#FFD700", encoder.color)
}

func TestGetGitHubCard_EmptyUsername(t *testing.T) {
	github := &fakeGitHub{}
	svc := newTestService(Config{GitHub: github})

	_, err := svc.GetGitHubCard(context.Background(), "   ")
	assert.ErrorIs(t, err, shared.ErrInvalidHandle)
	assert.Zero(t, github.calls)
}

func TestGetGitHubCard_QRFailureDegrades(t *testing.T) {
	github := &fakeGitHub{
		profile: &githubapi.Profile{
			Input:       scoring.GitHubInput{Handle: "octocat"},
			DisplayName: "The Octocat",
		},
	}
	encoder := &fakeEncoder{err: errors.New("png render failed")}

	svc := newTestService(Config{GitHub: github, Encoder: encoder})
	card, err := svc.GetGitHubCard(context.Background(), "octocat")

	require.NoError(t, err)
	assert.Empty(t, card.QRCode)
	assert.NotZero(t, card.Ranking.Rank)
}

// ──────────────────────────────────────────────────────────────────────────────
// LeetCode cards
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLeetCodeCard_EncodesCardPayload(t *testing.T) {
	lc := &fakeLeetCode{
		profile: &leetcode.Profile{
			Input: scoring.LeetCodeInput{
				Handle: "coder",
				Entries: []scoring.LabeledEntry{
					{Difficulty: "Easy", Solved: 10, Attempts: 20},
					{Difficulty: "Medium", Solved: 10, Attempts: 10},
				},
			},
		},
	}
	store := &fakeStore{rank: leaderboard.RankResult{Rank: 5, TotalPlayers: 10}}
	encoder := &fakeEncoder{}

	svc := newTestService(Config{LeetCode: lc, Store: store, Encoder: encoder})
	card, err := svc.GetLeetCodeCard(context.Background(), "coder")
	require.NoError(t, err)

	// Easy: 10×1×0.5 = 5, Medium: 10×2×1.0 = 20, ratio 0.5 → no adjustment.
	// overall = round(25×0.7) = 18
	assert.Equal(t, 20, card.TotalSolved)
	assert.Equal(t, 18, card.OverallScore)
	assert.Equal(t, "silver", card.Tier.Token)
	assert.Equal(t, "data:image/png;base64,QR", card.QRCode)

	// The QR payload is the card itself, marshaled before the code is set.
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(encoder.content), &payload))
	assert.Equal(t, float64(18), payload["finalProfileScore"])
	assert.Equal(t, "coder", payload["username"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Codeforces cards
// ──────────────────────────────────────────────────────────────────────────────

func TestGetCodeforcesCard_UserNotFound(t *testing.T) {
	cf := &fakeCodeforces{err: shared.ErrUserNotFound}
	store := &fakeStore{}

	svc := newTestService(Config{Codeforces: cf, Store: store})
	_, err := svc.GetCodeforcesCard(context.Background(), "nobody")

	assert.ErrorIs(t, err, shared.ErrUserNotFound)
	assert.Empty(t, store.recorded)
}

func TestGetCodeforcesCard_ServedFromCache(t *testing.T) {
	cf := &fakeCodeforces{}
	cache := newFakeCache()
	cached := &CodeforcesCard{
		CodeforcesScore: scoring.CodeforcesScore{Handle: "tourist", OverallScore: 999},
		Ranking:         leaderboard.RankResult{Rank: 1, TotalPlayers: 100},
		QRCode:          "data:image/png;base64,CACHED",
	}
	require.NoError(t, cache.SetCard(context.Background(), player.PlatformCodeforces, "tourist", cached))

	svc := newTestService(Config{Codeforces: cf, Cache: cache})
	card, err := svc.GetCodeforcesCard(context.Background(), "tourist")

	require.NoError(t, err)
	assert.Zero(t, cf.calls)
	assert.Equal(t, 999, card.OverallScore)
	assert.Equal(t, "data:image/png;base64,CACHED", card.QRCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// User count
// ──────────────────────────────────────────────────────────────────────────────

func TestGetUserCount_ReadThrough(t *testing.T) {
	store := &fakeStore{total: 42}
	cache := newFakeCache()
	svc := newTestService(Config{Store: store, Cache: cache})

	count, err := svc.GetUserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count.TotalUsers)
	assert.Equal(t, 1, store.totalCalls)

	// Second call is served from the cache.
	count, err = svc.GetUserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count.TotalUsers)
	assert.Equal(t, 1, store.totalCalls)
}

func TestGetUserCount_NoCache(t *testing.T) {
	store := &fakeStore{total: 7}
	svc := newTestService(Config{Store: store})

	count, err := svc.GetUserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count.TotalUsers)
}
