package codeforces

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
	cfg := DefaultClientConfig(baseURL)
	cfg.RateLimiterConfig = ratelimit.Config{
		RequestsPerSecond: 1000,
		BurstSize:         1000,
		WaitTimeout:       time.Second,
	}
	return cfg
}

func TestFetchProfile_MapsAllResultSets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tourist", r.URL.Query().Get("handles"))
		w.Write([]byte(`{"status": "OK", "result": [{"handle": "tourist", "rating": 3850, "maxRating": 4009}]}`))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "result": [
			{"contestId": 1, "contestName": "Round 1", "newRating": 1700},
			{"contestId": 2, "contestName": "Round 2", "newRating": 1900}
		]}`))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "result": [
			{"verdict": "OK", "problem": {"name": "A", "rating": 800}},
			{"verdict": "OK", "problem": {"name": "B", "rating": 1900}},
			{"verdict": "OK", "problem": {"name": "C"}},
			{"verdict": "WRONG_ANSWER", "problem": {"name": "D", "rating": 2400}}
		]}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "tourist")
	require.NoError(t, err)

	in := profile.Input
	assert.Equal(t, "tourist", in.Handle)
	require.NotNil(t, in.Rating)
	assert.Equal(t, 3850, *in.Rating)
	require.NotNil(t, in.MaxRating)
	assert.Equal(t, 4009, *in.MaxRating)
	assert.Equal(t, 2, in.Contests)
	assert.Equal(t, "Round 2", in.LastContest)

	require.Len(t, in.Submissions, 4)
	assert.True(t, in.Submissions[0].Accepted)
	assert.False(t, in.Submissions[3].Accepted)
	// Problems without a rating land in the hard bucket.
	assert.Greater(t, in.Submissions[2].Rating, 1800)
}

func TestFetchProfile_UnknownHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status": "FAILED", "comment": "handles: User with handle ghost not found"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestFetchProfile_FailedEnvelopeWithoutNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status": "FAILED", "comment": "handles: Field should contain between 1 and 100 handles"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.FetchProfile(context.Background(), "a;b")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstreamFetch)
	assert.NotErrorIs(t, err, shared.ErrUserNotFound)
}

func TestFetchProfile_UnratedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user.info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "result": [{"handle": "newbie"}]}`))
	})
	mux.HandleFunc("/user.rating", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "result": []}`))
	})
	mux.HandleFunc("/user.status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "result": []}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	profile, err := client.FetchProfile(context.Background(), "newbie")
	require.NoError(t, err)

	assert.Nil(t, profile.Input.Rating)
	assert.Nil(t, profile.Input.MaxRating)
	assert.Zero(t, profile.Input.Contests)
	assert.Empty(t, profile.Input.LastContest)
	assert.Empty(t, profile.Input.Submissions)
}
