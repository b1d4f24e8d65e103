package leetcode

import (
	"context"
	"encoding/json"
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
	cfg := DefaultClientConfig(baseURL)
	cfg.RateLimiterConfig = ratelimit.Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		WaitTimeout:       time.Second,
	}
	return cfg
}

func TestFetchProfile_MapsStatsAndRating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Variables["username"])
		assert.Contains(t, req.Query, "matchedUser")

		w.Write([]byte(`{
			"data": {
				"matchedUser": {
					"username": "alice",
					"submitStats": {
						"acSubmissionNum": [
							{"difficulty": "All", "count": 30, "submissions": 60},
							{"difficulty": "Easy", "count": 20, "submissions": 30},
							{"difficulty": "Medium", "count": 10, "submissions": 30},
							{"difficulty": "Hard", "count": 0, "submissions": 0}
						]
					}
				},
				"userContestRanking": {"rating": 1534.5}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", profile.Input.Handle)
	require.Len(t, profile.Input.Entries, 4)
	assert.Equal(t, "Easy", profile.Input.Entries[1].Difficulty)
	assert.Equal(t, 20, profile.Input.Entries[1].Solved)
	assert.Equal(t, 30, profile.Input.Entries[1].Attempts)

	require.NotNil(t, profile.Input.ContestRating)
	assert.InDelta(t, 1534.5, *profile.Input.ContestRating, 1e-9)
}

func TestFetchProfile_UserNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"matchedUser": null, "userContestRanking": null}}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestFetchProfile_NeverContested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"matchedUser": {
					"username": "bob",
					"submitStats": {"acSubmissionNum": [{"difficulty": "Easy", "count": 1, "submissions": 1}]}
				},
				"userContestRanking": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "bob")
	require.NoError(t, err)
	assert.Nil(t, profile.Input.ContestRating)
}

func TestFetchProfile_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "something broke"}]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "alice")
	assert.ErrorIs(t, err, shared.ErrUpstreamFetch)
}
