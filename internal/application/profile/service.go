// Package profile orchestrates profile card assembly: fetch the platform
// profile, score it, record the score on the leaderboard, resolve the rank
// and tier, render the QR code, and cache the finished card. Pure scoring
// lives in internal/domain/scoring; this package owns only the sequencing
// and error mapping.
package profile

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/leaderboard"
	"github.com/codecard-hub/codecard-backend/internal/domain/player"
	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/codeforces"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/githubapi"
	"github.com/codecard-hub/codecard-backend/internal/infrastructure/external/leetcode"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLLABORATOR CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// GitHubFetcher fetches an aggregated GitHub profile.
type GitHubFetcher interface {
	FetchProfile(ctx context.Context, username string) (*githubapi.Profile, error)
}

// LeetCodeFetcher fetches a LeetCode statistics snapshot.
type LeetCodeFetcher interface {
	FetchProfile(ctx context.Context, username string) (*leetcode.Profile, error)
}

// CodeforcesFetcher fetches a Codeforces statistics snapshot.
type CodeforcesFetcher interface {
	FetchProfile(ctx context.Context, handle string) (*codeforces.Profile, error)
}

// QREncoder renders content as a base64 PNG data URL.
type QREncoder interface {
	Encode(content string) (string, error)
	EncodeColored(content string, foregroundHex string) (string, error)
}

// CardCache caches assembled cards and the aggregate user count. All cache
// failures are tolerated; a broken cache degrades to direct computation.
type CardCache interface {
	GetCard(ctx context.Context, platform player.Platform, handle string, dest interface{}) error
	SetCard(ctx context.Context, platform player.Platform, handle string, card interface{}) error
	GetUserCount(ctx context.Context) (int, error)
	SetUserCount(ctx context.Context, count int) error
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// Config contains the collaborators of the profile service.
type Config struct {
	GitHub     GitHubFetcher
	LeetCode   LeetCodeFetcher
	Codeforces CodeforcesFetcher

	Store leaderboard.Store

	// Cache is optional; a nil cache disables card caching entirely.
	Cache CardCache

	Encoder QREncoder

	// ProfileBaseURL is the base of the public GitHub profile URL encoded
	// into GitHub cards, "https://github.com" unless overridden in tests.
	ProfileBaseURL string

	Logger *logger.Logger
}

// Service assembles profile cards for the HTTP layer.
type Service struct {
	github     GitHubFetcher
	leetcode   LeetCodeFetcher
	codeforces CodeforcesFetcher
	store      leaderboard.Store
	cache      CardCache
	encoder    QREncoder
	profileURL string
	logger     *logger.Logger
}

// NewService creates a new profile service.
func NewService(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	profileURL := cfg.ProfileBaseURL
	if profileURL == "" {
		profileURL = "https://github.com"
	}

	return &Service{
		github:     cfg.GitHub,
		leetcode:   cfg.LeetCode,
		codeforces: cfg.Codeforces,
		store:      cfg.Store,
		cache:      cfg.Cache,
		encoder:    cfg.Encoder,
		profileURL: strings.TrimSuffix(profileURL, "/"),
		logger:     log.With(logger.Component("profile")),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CARD OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetGitHubCard fetches, scores, and ranks a GitHub profile, then assembles
// the card. Returns shared.ErrInvalidHandle for an empty username and
// shared.ErrUserNotFound when the platform does not know the username.
func (s *Service) GetGitHubCard(ctx context.Context, username string) (*GitHubCard, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.ErrInvalidHandle
	}

	var cached GitHubCard
	if s.cacheGet(ctx, player.PlatformGitHub, username, &cached) {
		return &cached, nil
	}

	started := time.Now()
	prof, err := s.github.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	score := scoring.ScoreGitHub(prof.Input)
	ranking, tier, err := s.recordAndRank(ctx, username, prof.DisplayName, player.PlatformGitHub, score.OverallScore)
	if err != nil {
		return nil, err
	}

	card := &GitHubCard{
		GitHubScore: score,
		DisplayName: prof.DisplayName,
		PublicRepos: prof.PublicRepos,
		Followers:   prof.Input.Followers,
		TopRepos:    prof.TopRepos,
		Ranking:     ranking,
		Tier:        tier,
	}

	// GitHub cards encode the public profile URL, tinted with the tier
	// color, rather than the card payload.
	card.QRCode = s.renderQR(username, s.profileURL+"/"+username, tier.PrimaryColor)

	s.cacheSet(ctx, player.PlatformGitHub, username, card)
	s.logger.Info("github card assembled",
		logger.Handle(username),
		logger.Score(score.OverallScore),
		logger.Rank(ranking.Rank),
		logger.Latency(time.Since(started)))

	return card, nil
}

// GetLeetCodeCard fetches, scores, and ranks a LeetCode profile, then
// assembles the card.
func (s *Service) GetLeetCodeCard(ctx context.Context, username string) (*LeetCodeCard, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.ErrInvalidHandle
	}

	var cached LeetCodeCard
	if s.cacheGet(ctx, player.PlatformLeetCode, username, &cached) {
		return &cached, nil
	}

	started := time.Now()
	prof, err := s.leetcode.FetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	score := scoring.ScoreLeetCode(prof.Input)
	ranking, tier, err := s.recordAndRank(ctx, score.Handle, score.Handle, player.PlatformLeetCode, score.OverallScore)
	if err != nil {
		return nil, err
	}

	card := &LeetCodeCard{
		LeetCodeScore: score,
		Ranking:       ranking,
		Tier:          tier,
	}
	card.QRCode = s.renderCardQR(username, card)

	s.cacheSet(ctx, player.PlatformLeetCode, username, card)
	s.logger.Info("leetcode card assembled",
		logger.Handle(username),
		logger.Score(score.OverallScore),
		logger.Rank(ranking.Rank),
		logger.Latency(time.Since(started)))

	return card, nil
}

// GetCodeforcesCard fetches, scores, and ranks a Codeforces profile, then
// assembles the card.
func (s *Service) GetCodeforcesCard(ctx context.Context, handle string) (*CodeforcesCard, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, shared.ErrInvalidHandle
	}

	var cached CodeforcesCard
	if s.cacheGet(ctx, player.PlatformCodeforces, handle, &cached) {
		return &cached, nil
	}

	started := time.Now()
	prof, err := s.codeforces.FetchProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	score := scoring.ScoreCodeforces(prof.Input)
	ranking, tier, err := s.recordAndRank(ctx, score.Handle, score.Handle, player.PlatformCodeforces, score.OverallScore)
	if err != nil {
		return nil, err
	}

	card := &CodeforcesCard{
		CodeforcesScore: score,
		Ranking:         ranking,
		Tier:            tier,
	}
	card.QRCode = s.renderCardQR(handle, card)

	s.cacheSet(ctx, player.PlatformCodeforces, handle, card)
	s.logger.Info("codeforces card assembled",
		logger.Handle(handle),
		logger.Score(score.OverallScore),
		logger.Rank(ranking.Rank),
		logger.Latency(time.Since(started)))

	return card, nil
}

// GetUserCount returns the aggregate tracked-handle count across platforms.
func (s *Service) GetUserCount(ctx context.Context) (*UserCount, error) {
	if s.cache != nil {
		if count, err := s.cache.GetUserCount(ctx); err == nil {
			return &UserCount{TotalUsers: count}, nil
		}
	}

	count, err := s.store.TotalUserCount(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUserCount(ctx, count); err != nil {
			s.logger.Debug("user count cache write failed", logger.Err(err))
		}
	}

	return &UserCount{TotalUsers: count}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNAL STEPS
// ══════════════════════════════════════════════════════════════════════════════

// recordAndRank persists the score, resolves the competition rank, and maps
// the rank to a card tier.
func (s *Service) recordAndRank(ctx context.Context, handle, name string, platform player.Platform, score int) (leaderboard.RankResult, scoring.Tier, error) {
	p, err := player.New(handle, name, platform, score)
	if err != nil {
		return leaderboard.RankResult{}, scoring.Tier{}, err
	}

	if err := s.store.RecordScore(ctx, p); err != nil {
		return leaderboard.RankResult{}, scoring.Tier{}, err
	}

	ranking, err := s.store.ResolveRank(ctx, platform, score)
	if err != nil {
		return leaderboard.RankResult{}, scoring.Tier{}, err
	}

	return ranking, scoring.TierFor(ranking.Rank, ranking.TotalPlayers), nil
}

// renderCardQR marshals the card and encodes it as a QR data URL. The card
// is marshaled before its QRCode field is set, so the code never contains
// itself.
func (s *Service) renderCardQR(handle string, card interface{}) string {
	payload, err := json.Marshal(card)
	if err != nil {
		s.logger.Warn("card marshal for qr failed", logger.Handle(handle), logger.Err(err))
		return ""
	}
	return s.renderQR(handle, string(payload), "")
}

// renderQR encodes content as a QR data URL. A render failure is logged and
// yields an empty string; the card is served without a code.
func (s *Service) renderQR(handle, content, foregroundHex string) string {
	var (
		dataURL string
		err     error
	)
	if foregroundHex != "" {
		dataURL, err = s.encoder.EncodeColored(content, foregroundHex)
	} else {
		dataURL, err = s.encoder.Encode(content)
	}
	if err != nil {
		s.logger.Warn("qr render failed, serving card without code",
			logger.Handle(handle), logger.Err(err))
		return ""
	}
	return dataURL
}

// cacheGet loads a cached card into dest, reporting a hit. Misses and cache
// failures both report false.
func (s *Service) cacheGet(ctx context.Context, platform player.Platform, handle string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetCard(ctx, platform, handle, dest); err != nil {
		return false
	}
	s.logger.Debug("card served from cache",
		logger.PlatformName(platform.String()), logger.Handle(handle))
	return true
}

// cacheSet stores an assembled card, tolerating failure.
func (s *Service) cacheSet(ctx context.Context, platform player.Platform, handle string, card interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetCard(ctx, platform, handle, card); err != nil {
		s.logger.Debug("card cache write failed",
			logger.PlatformName(platform.String()), logger.Handle(handle), logger.Err(err))
	}
}
