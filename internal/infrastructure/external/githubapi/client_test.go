package githubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/pkg/ratelimit"
)

func testConfig(baseURL string) ClientConfig {
	cfg := DefaultClientConfig(baseURL, "test-token")
	cfg.RateLimiterConfig = ratelimit.Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		WaitTimeout:       time.Second,
	}
	return cfg
}

func TestFetchProfile_AggregatesSignals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"login": "octocat",
			"name": "The Octocat",
			"followers": 4,
			"public_repos": 5,
			"created_at": "2011-01-25T18:44:36Z"
		}`))
	})
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name": "small", "stargazers_count": 1, "forks_count": 0, "language": "Go", "html_url": "u1"},
			{"name": "big", "stargazers_count": 100, "forks_count": 10, "language": "Go", "html_url": "u2"},
			{"name": "mid", "stargazers_count": 50, "forks_count": 5, "language": "Rust", "html_url": "u3"},
			{"name": "tiny", "stargazers_count": 0, "forks_count": 0, "language": "C", "html_url": "u4"}
		]`))
	})
	mux.HandleFunc("/users/octocat/events/public", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"type": "IssuesEvent", "payload": {"action": "opened"}},
			{"type": "IssuesEvent", "payload": {"action": "closed"}},
			{"type": "PullRequestEvent", "payload": {"action": "closed", "pull_request": {"merged": true}}},
			{"type": "PullRequestEvent", "payload": {"action": "closed", "pull_request": {"merged": false}}},
			{"type": "PushEvent", "payload": {}}
		]`))
	})
	mux.HandleFunc("/repos/octocat/big/contributors", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"login": "octocat"}, {"login": "other"}]`))
	})
	mux.HandleFunc("/repos/octocat/mid/contributors", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"login": "other"}]`))
	})
	mux.HandleFunc("/repos/octocat/small/contributors", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "boom"}`, http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "octocat")
	require.NoError(t, err)

	// Only the top 3 repos by stars contribute stars, forks, languages.
	assert.Equal(t, 151, profile.Input.Stars)
	assert.Equal(t, 15, profile.Input.Forks)
	assert.Equal(t, 2, profile.Input.UniqueLanguages)

	assert.Equal(t, 1, profile.Input.IssuesOpened)
	assert.Equal(t, 1, profile.Input.IssuesClosed)
	assert.Equal(t, 1, profile.Input.PRsMerged)
	assert.Equal(t, 4, profile.Input.Followers)
	assert.Equal(t, time.Now().Year()-2011, profile.Input.AccountAgeYears)

	// Failed contributor lookups count as not contributing.
	assert.Equal(t, 1, profile.Input.TopReposContributed)

	assert.Equal(t, "The Octocat", profile.DisplayName)
	assert.Equal(t, 5, profile.PublicRepos)
	require.Len(t, profile.TopRepos, 3)
	assert.Equal(t, "big", profile.TopRepos[0].Name)
}

func TestFetchProfile_UserNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestFetchProfile_EventsFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/quiet", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login": "quiet", "followers": 0, "created_at": "2020-06-01T00:00:00Z"}`))
	})
	mux.HandleFunc("/users/quiet/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/users/quiet/events/public", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "unavailable"}`, http.StatusServiceUnavailable)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "quiet")
	require.NoError(t, err)

	assert.Zero(t, profile.Input.IssuesOpened)
	assert.Zero(t, profile.Input.IssuesClosed)
	assert.Zero(t, profile.Input.PRsMerged)
	assert.Equal(t, "quiet", profile.DisplayName)
	assert.Empty(t, profile.TopRepos)
}

func TestFetchProfile_RateLimitedUpstream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/busy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		http.Error(w, `{"message": "rate limited"}`, http.StatusForbidden)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "busy")
	assert.ErrorIs(t, err, shared.ErrRateLimited)
}
