// Package leetcode implements the LeetCode GraphQL API client.
// One query fetches the per-difficulty accepted submission stats and the
// contest rating in a single round trip.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/pkg/circuitbreaker"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
	"github.com/codecard-hub/codecard-backend/pkg/ratelimit"
)

// profileStatsQuery fetches accepted submission stats and contest rating.
const profileStatsQuery = `
query getUserProfileStats($username: String!) {
    matchedUser(username: $username) {
        username
        submitStats: submitStatsGlobal {
            acSubmissionNum {
                difficulty
                count
                submissions
            }
        }
    }
    userContestRanking(username: $username) {
        rating
    }
}`

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the LeetCode client.
type ClientConfig struct {
	// BaseURL is the GraphQL endpoint URL
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// RateLimiterConfig for API rate limiting
	RateLimiterConfig ratelimit.Config

	// BreakerThreshold overrides the failure count that opens the circuit.
	BreakerThreshold int

	// BreakerTimeout overrides how long the circuit stays open.
	BreakerTimeout time.Duration

	// Logger for structured logging
	Logger *logger.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		Timeout:           15 * time.Second,
		RateLimiterConfig: ratelimit.LeetCodeConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Profile is the aggregated LeetCode profile used for scoring.
type Profile struct {
	Input scoring.LeetCodeInput
}

// Client is the LeetCode GraphQL API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new LeetCode client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("leetcode"))

	breakerOpts := []circuitbreaker.Option{
		circuitbreaker.WithIsFailure(func(err error) bool {
			return !errors.Is(err, shared.ErrUserNotFound)
		}),
	}
	if config.BreakerThreshold > 0 {
		breakerOpts = append(breakerOpts, circuitbreaker.WithFailureThreshold(config.BreakerThreshold))
	}
	if config.BreakerTimeout > 0 {
		breakerOpts = append(breakerOpts, circuitbreaker.WithTimeout(config.BreakerTimeout))
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  log,
		limiter: ratelimit.New(config.RateLimiterConfig),
		breaker: circuitbreaker.PlatformAPIBreaker("leetcode",
			func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()))
			},
			breakerOpts...,
		),
	}
}

// FetchProfile fetches a user's submission stats and contest rating.
// Returns shared.ErrUserNotFound when the username does not exist.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	if err := c.limiter.Allow(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var resp graphqlResponse
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.query(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}

	return c.mapProfile(username, resp)
}

// query posts the profile stats query.
func (c *Client) query(ctx context.Context, username string) (graphqlResponse, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     profileStatsQuery,
		Variables: map[string]string{"username": username},
	})
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("leetcode graphql request", logger.Handle(username))
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return graphqlResponse{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 60 * time.Second
		if ra := httpResp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		c.limiter.RecordRateLimitHit(retryAfter)
		return graphqlResponse{}, fmt.Errorf("%w: leetcode status %d", shared.ErrRateLimited, httpResp.StatusCode)
	}

	if httpResp.StatusCode >= 400 {
		return graphqlResponse{}, fmt.Errorf("%w: leetcode status %d", shared.ErrUpstreamFetch, httpResp.StatusCode)
	}

	var resp graphqlResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return graphqlResponse{}, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(resp.Errors) > 0 {
		return graphqlResponse{}, fmt.Errorf("%w: graphql: %s", shared.ErrUpstreamFetch, resp.Errors[0].Message)
	}

	if resp.Data == nil || resp.Data.MatchedUser == nil {
		return graphqlResponse{}, shared.ErrUserNotFound
	}

	return resp, nil
}

// mapProfile converts the GraphQL response into a scoring input.
func (c *Client) mapProfile(username string, resp graphqlResponse) (*Profile, error) {
	user := resp.Data.MatchedUser

	var entries []scoring.LabeledEntry
	if user.SubmitStats != nil {
		for _, tier := range user.SubmitStats.ACSubmissionNum {
			entries = append(entries, scoring.LabeledEntry{
				Difficulty: tier.Difficulty,
				Solved:     tier.Count,
				Attempts:   tier.Submissions,
			})
		}
	}

	var contestRating *float64
	if resp.Data.UserContestRanking != nil {
		rating := resp.Data.UserContestRanking.Rating
		contestRating = &rating
	}

	handle := user.Username
	if handle == "" {
		handle = username
	}

	return &Profile{
		Input: scoring.LeetCodeInput{
			Handle:        handle,
			Entries:       entries,
			ContestRating: contestRating,
		},
	}, nil
}
