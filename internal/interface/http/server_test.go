package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codecard-hub/codecard-backend/internal/application/profile"
	"github.com/codecard-hub/codecard-backend/internal/domain/leaderboard"
	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeProfileService struct {
	githubCard     *profile.GitHubCard
	leetcodeCard   *profile.LeetCodeCard
	codeforcesCard *profile.CodeforcesCard
	userCount      *profile.UserCount
	err            error
}

func (f *fakeProfileService) GetGitHubCard(ctx context.Context, username string) (*profile.GitHubCard, error) {
	return f.githubCard, f.err
}

func (f *fakeProfileService) GetLeetCodeCard(ctx context.Context, username string) (*profile.LeetCodeCard, error) {
	return f.leetcodeCard, f.err
}

func (f *fakeProfileService) GetCodeforcesCard(ctx context.Context, handle string) (*profile.CodeforcesCard, error) {
	return f.codeforcesCard, f.err
}

func (f *fakeProfileService) GetUserCount(ctx context.Context) (*profile.UserCount, error) {
	return f.userCount, f.err
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func newTestServer(t *testing.T, svc ProfileService) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	return NewServer(cfg, Dependencies{
		Profile:  svc,
		Database: &fakePinger{},
	})
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Profile card endpoints
// ──────────────────────────────────────────────────────────────────────────────

func TestGitHubCardEndpoint(t *testing.T) {
	svc := &fakeProfileService{
		githubCard: &profile.GitHubCard{
			GitHubScore: scoring.GitHubScore{Handle: "octocat", OverallScore: 140},
			DisplayName: "The Octocat",
			Ranking:     leaderboard.RankResult{Rank: 1, TotalPlayers: 20},
			QRCode:      "data:image/png;base64,QR",
		},
	}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodGet, "/github/octocat")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	var card map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &card))
	assert.Equal(t, "octocat", card["username"])
	assert.Equal(t, float64(140), card["overallScore"])
	assert.Equal(t, "data:image/png;base64,QR", card["qrCode"])
}

func TestCardEndpoint_UserNotFound(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{err: shared.ErrUserNotFound})

	rec := doRequest(t, s, http.MethodGet, "/leetcode/nobody")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "user_not_found", resp.Error.Code)
}

func TestCardEndpoint_InvalidHandle(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{err: shared.ErrInvalidHandle})

	rec := doRequest(t, s, http.MethodGet, "/codeforces/%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardEndpoint_UpstreamFailure(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{err: errors.New("boom")})

	rec := doRequest(t, s, http.MethodGet, "/codeforces/tourist")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal_error", resp.Error.Code)
}

func TestCardEndpoint_FaviconProbe(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{err: errors.New("must not be called")})

	rec := doRequest(t, s, http.MethodGet, "/codeforces/favicon.ico")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/favicon.ico")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCardEndpoint_RateLimitedUpstream(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{err: shared.ErrRateLimited})

	rec := doRequest(t, s, http.MethodGet, "/github/octocat")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Stats endpoint
// ──────────────────────────────────────────────────────────────────────────────

func TestUserCountEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{userCount: &profile.UserCount{TotalUsers: 42}})

	rec := doRequest(t, s, http.MethodGet, "/userCount")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data profile.UserCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Data.TotalUsers)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operational endpoints
// ──────────────────────────────────────────────────────────────────────────────

func TestReadyEndpoint_DatabaseDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	s := NewServer(cfg, Dependencies{
		Profile:  &fakeProfileService{},
		Database: &fakePinger{err: errors.New("connection refused")},
	})

	rec := doRequest(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthEndpoint_CacheDownStaysHealthy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	s := NewServer(cfg, Dependencies{
		Profile:  &fakeProfileService{},
		Database: &fakePinger{},
		Cache:    &fakePinger{err: errors.New("connection refused")},
	})

	rec := doRequest(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, "unreachable", resp.Data.Components["redis"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestRateLimitMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 2
	s := NewServer(cfg, Dependencies{
		Profile:  &fakeProfileService{userCount: &profile.UserCount{}},
		Database: &fakePinger{},
	})

	for i := 0; i < 2; i++ {
		rec := doRequest(t, s, http.MethodGet, "/userCount")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, s, http.MethodGet, "/userCount")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, &fakeProfileService{userCount: &profile.UserCount{}})

	req := httptest.NewRequest(http.MethodGet, "/userCount", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp.RequestID)
}
