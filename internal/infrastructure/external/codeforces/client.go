// Package codeforces implements the Codeforces API client.
// A profile lookup hits user.info, user.rating, and user.status in
// parallel, mirroring how the three result sets feed one score.
package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/pkg/circuitbreaker"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
	"github.com/codecard-hub/codecard-backend/pkg/ratelimit"
)

// unratedProblemRating stands in for problems the API reports without a
// rating. They land in the hard bucket.
const unratedProblemRating = scoring.MediumMaxRating + 1

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Codeforces client.
type ClientConfig struct {
	// BaseURL is the API base URL, e.g. https://codeforces.com/api
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
		RateLimiterConfig: ratelimit.CodeforcesConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Profile is the aggregated Codeforces profile used for scoring.
type Profile struct {
	Input scoring.CodeforcesInput
}

// Client is the Codeforces API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new Codeforces client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("codeforces"))

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
		breaker: circuitbreaker.PlatformAPIBreaker("codeforces",
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

// FetchProfile fetches a user's profile, contest history, and submissions.
// Returns shared.ErrUserNotFound when the handle does not exist.
func (c *Client) FetchProfile(ctx context.Context, handle string) (*Profile, error) {
	var (
		users       []userDTO
		contests    []ratingChangeDTO
		submissions []submissionDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.doGet(gctx, "user.info", url.Values{"handles": {handle}}, &users)
	})
	g.Go(func() error {
		return c.doGet(gctx, "user.rating", url.Values{"handle": {handle}}, &contests)
	})
	g.Go(func() error {
		return c.doGet(gctx, "user.status", url.Values{"handle": {handle}}, &submissions)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, shared.ErrUserNotFound
	}

	return c.mapProfile(users[0], contests, submissions), nil
}

// mapProfile converts the three result sets into a scoring input.
func (c *Client) mapProfile(user userDTO, contests []ratingChangeDTO, submissions []submissionDTO) *Profile {
	mapped := make([]scoring.RatedSubmission, 0, len(submissions))
	for _, sub := range submissions {
		rating := unratedProblemRating
		if sub.Problem.Rating != nil {
			rating = *sub.Problem.Rating
		}
		mapped = append(mapped, scoring.RatedSubmission{
			Problem:  sub.Problem.Name,
			Rating:   rating,
			Accepted: sub.Verdict == "OK",
		})
	}

	var lastContest string
	if len(contests) > 0 {
		lastContest = contests[len(contests)-1].ContestName
	}

	return &Profile{
		Input: scoring.CodeforcesInput{
			Handle:      user.Handle,
			Rating:      user.Rating,
			MaxRating:   user.MaxRating,
			Contests:    len(contests),
			LastContest: lastContest,
			Submissions: mapped,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP PLUMBING
// ══════════════════════════════════════════════════════════════════════════════

// doGet performs a GET request with rate limiting and circuit breaking,
// unwrapping the Codeforces response envelope into result.
func (c *Client) doGet(ctx context.Context, method string, params url.Values, result interface{}) error {
	if err := c.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.doSingleRequest(ctx, method, params, result)
	})
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, method string, params url.Values, result interface{}) error {
	fullURL := c.config.BaseURL + "/" + method + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("codeforces api request", logger.String("method", method))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		c.limiter.RecordRateLimitHit(0)
		return fmt.Errorf("%w: codeforces status %d", shared.ErrRateLimited, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%w: codeforces status %d", shared.ErrUpstreamFetch, resp.StatusCode)
		}
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	// The API reports unknown handles as FAILED with an explanatory
	// comment rather than a 404, e.g. "handles: User with handle X not
	// found". Any other FAILED comment is an upstream problem.
	if env.Status != "OK" {
		if strings.Contains(strings.ToLower(env.Comment), "not found") {
			return fmt.Errorf("%w: codeforces: %s", shared.ErrUserNotFound, env.Comment)
		}
		return fmt.Errorf("%w: codeforces: %s", shared.ErrUpstreamFetch, env.Comment)
	}

	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}
