// Package githubapi implements the GitHub REST API client.
// A profile lookup fans out over the user, repos, and public events
// endpoints, then checks the contributor lists of the user's top
// repositories.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/scoring"
	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/pkg/circuitbreaker"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
	"github.com/codecard-hub/codecard-backend/pkg/ratelimit"

	"golang.org/x/sync/errgroup"
)

// topRepoCount is how many of the highest-starred repositories feed the
// stars, forks, and language signals. Only these repositories' contributor
// lists are checked.
const topRepoCount = 3

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the GitHub API client.
type ClientConfig struct {
	// BaseURL is the GitHub API base URL
	BaseURL string

	// Token is a personal access token sent as a Bearer header
	Token string

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
func DefaultClientConfig(baseURL, token string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		Token:             token,
		Timeout:           15 * time.Second,
		RateLimiterConfig: ratelimit.GitHubConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// TopRepo is one of the user's highest-starred repositories, surfaced on
// the profile card.
type TopRepo struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
	Forks int    `json:"forks"`
	URL   string `json:"url"`
}

// Profile is the aggregated GitHub profile used for scoring and card assembly.
type Profile struct {
	Input       scoring.GitHubInput
	DisplayName string
	PublicRepos int
	TopRepos    []TopRepo
}

// Client is the GitHub REST API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new GitHub API client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("githubapi"))

	breakerOpts := []circuitbreaker.Option{
		// Unknown usernames are a normal outcome, not an outage.
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
		breaker: circuitbreaker.PlatformAPIBreaker("github",
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

// FetchProfile fetches and aggregates a user's GitHub profile.
// Returns shared.ErrUserNotFound when the username does not exist.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	var (
		user   UserDTO
		repos  []RepoDTO
		events []EventDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.doGet(gctx, "/users/"+username, &user)
	})
	g.Go(func() error {
		return c.doGet(gctx, "/users/"+username+"/repos", &repos)
	})
	g.Go(func() error {
		// Public events drive the issue and pull request signals. The
		// events feed is flaky for some accounts, so a failure degrades
		// to zero activity instead of failing the whole lookup.
		if err := c.doGet(gctx, "/users/"+username+"/events/public", &events); err != nil {
			c.logger.Warn("events fetch failed, scoring without activity signals",
				logger.Handle(username), logger.Err(err))
			events = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := c.aggregate(username, user, repos, events)

	// Contributor check per top repository. A failed lookup means the
	// user is not counted as a contributor to that repository.
	for _, repo := range profile.TopRepos {
		contributes, err := c.isContributor(ctx, username, repo.Name)
		if err != nil {
			c.logger.Debug("contributor check failed",
				logger.Handle(username), logger.String("repo", repo.Name), logger.Err(err))
			continue
		}
		if contributes {
			profile.Input.TopReposContributed++
		}
	}

	return profile, nil
}

// aggregate folds the raw API responses into a Profile.
func (c *Client) aggregate(username string, user UserDTO, repos []RepoDTO, events []EventDTO) *Profile {
	sorted := make([]RepoDTO, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StargazersCount > sorted[j].StargazersCount
	})

	if len(sorted) > topRepoCount {
		sorted = sorted[:topRepoCount]
	}

	var stars, forks int
	languages := make(map[string]struct{})
	topRepos := make([]TopRepo, 0, len(sorted))

	for _, repo := range sorted {
		stars += repo.StargazersCount
		forks += repo.ForksCount
		if repo.Language != "" {
			languages[repo.Language] = struct{}{}
		}
		topRepos = append(topRepos, TopRepo{
			Name:  repo.Name,
			Stars: repo.StargazersCount,
			Forks: repo.ForksCount,
			URL:   repo.HTMLURL,
		})
	}

	var issuesOpened, issuesClosed, prsMerged int
	for _, event := range events {
		switch event.Type {
		case "IssuesEvent":
			switch event.Payload.Action {
			case "opened":
				issuesOpened++
			case "closed":
				issuesClosed++
			}
		case "PullRequestEvent":
			if event.Payload.Action == "closed" &&
				event.Payload.PullRequest != nil &&
				event.Payload.PullRequest.Merged {
				prsMerged++
			}
		}
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}

	return &Profile{
		Input: scoring.GitHubInput{
			Handle:          username,
			IssuesOpened:    issuesOpened,
			IssuesClosed:    issuesClosed,
			PRsMerged:       prsMerged,
			Stars:           stars,
			Forks:           forks,
			Followers:       user.Followers,
			AccountAgeYears: time.Now().Year() - user.CreatedAt.Year(),
			UniqueLanguages: len(languages),
		},
		DisplayName: displayName,
		PublicRepos: user.PublicRepos,
		TopRepos:    topRepos,
	}
}

// isContributor reports whether username appears in the contributor list
// of its own repository.
func (c *Client) isContributor(ctx context.Context, username, repo string) (bool, error) {
	var contributors []ContributorDTO
	if err := c.doGet(ctx, "/repos/"+username+"/"+repo+"/contributors", &contributors); err != nil {
		return false, err
	}

	for _, contributor := range contributors {
		if contributor.Login == username {
			return true, nil
		}
	}

	return false, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP PLUMBING
// ══════════════════════════════════════════════════════════════════════════════

// doGet performs a GET request with rate limiting and circuit breaking.
func (c *Client) doGet(ctx context.Context, path string, result interface{}) error {
	if err := c.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.doSingleRequest(ctx, path, result)
	})
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, path string, result interface{}) error {
	fullURL := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	if c.config.Debug {
		c.logger.Debug("github api request", logger.String("path", path))
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

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrUserNotFound

	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 60 * time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		c.limiter.RecordRateLimitHit(retryAfter)
		return fmt.Errorf("%w: github status %d", shared.ErrRateLimited, resp.StatusCode)

	case resp.StatusCode >= 400:
		var apiErr APIErrorDTO
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: %v", shared.ErrUpstreamFetch, &apiErr)
		}
		return fmt.Errorf("%w: github status %d", shared.ErrUpstreamFetch, resp.StatusCode)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
