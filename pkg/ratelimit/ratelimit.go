// Package ratelimit implements a Token Bucket rate limiter shared by the
// platform API clients. Each client keeps its own limiter so a burst of
// GitHub lookups cannot starve Codeforces requests.
// No external dependencies - uses only standard library.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements the Token Bucket algorithm to control request rate.
// This is essential for protecting against API blocking on the upstream
// platforms, all of which throttle anonymous clients aggressively.
type Limiter struct {
	mu sync.Mutex

	// Configuration
	maxTokens        float64       // Maximum tokens in the bucket
	refillRate       float64       // Tokens added per second
	tokens           float64       // Current token count
	lastRefill       time.Time     // Last time tokens were added
	minInterval      time.Duration // Minimum interval between requests
	lastRequest      time.Time     // Time of last request
	waitTimeout      time.Duration // Maximum time to wait for a token
	retryAfter       time.Duration // How long to wait after rate limit hit
	consecutiveWaits int           // Track consecutive waits for adaptive backoff
}

// Config contains configuration for the rate limiter.
type Config struct {
	// RequestsPerSecond is the maximum sustained request rate
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests that can be made in a burst
	BurstSize int

	// MinInterval is the minimum time between requests (even with tokens available)
	MinInterval time.Duration

	// WaitTimeout is the maximum time to wait for a token
	WaitTimeout time.Duration

	// RetryAfter is the default retry time when rate limited
	RetryAfter time.Duration
}

// GitHubConfig returns defaults sized for the authenticated GitHub REST API.
// A profile lookup fans out into several REST calls, so the bucket allows a
// burst large enough to cover one full profile.
func GitHubConfig() Config {
	return Config{
		RequestsPerSecond: 5.0,
		BurstSize:         10,
		MinInterval:       100 * time.Millisecond,
		WaitTimeout:       15 * time.Second,
		RetryAfter:        60 * time.Second,
	}
}

// LeetCodeConfig returns conservative defaults for the unofficial LeetCode
// GraphQL endpoint, which blocks clients without warning.
func LeetCodeConfig() Config {
	return Config{
		RequestsPerSecond: 1.0,
		BurstSize:         3,
		MinInterval:       300 * time.Millisecond,
		WaitTimeout:       30 * time.Second,
		RetryAfter:        120 * time.Second,
	}
}

// CodeforcesConfig returns defaults matching the documented Codeforces API
// policy of at most one call every two seconds.
func CodeforcesConfig() Config {
	return Config{
		RequestsPerSecond: 0.5,
		BurstSize:         2,
		MinInterval:       500 * time.Millisecond,
		WaitTimeout:       30 * time.Second,
		RetryAfter:        60 * time.Second,
	}
}

// New creates a new Limiter with the given configuration.
func New(config Config) *Limiter {
	now := time.Now()
	return &Limiter{
		maxTokens:   float64(config.BurstSize),
		refillRate:  config.RequestsPerSecond,
		tokens:      float64(config.BurstSize), // Start with full bucket
		lastRefill:  now,
		minInterval: config.MinInterval,
		lastRequest: now.Add(-config.MinInterval), // Allow immediate first request
		waitTimeout: config.WaitTimeout,
		retryAfter:  config.RetryAfter,
	}
}

// Error is returned when the rate limit is exceeded.
type Error struct {
	// RetryAfter is the suggested time to wait before retrying
	RetryAfter time.Duration

	// Message provides additional context
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is implements errors.Is interface.
func (e *Error) Is(target error) bool {
	_, ok := target.(*Error)
	return ok
}

// ErrLimitExceeded is returned when the rate limit is exceeded and the wait
// timeout is reached.
var ErrLimitExceeded = &Error{Message: "rate limit exceeded"}

// Allow checks if a request is allowed and blocks until it is or timeout.
// Returns nil if the request can proceed, or an error if rate limited.
func (rl *Limiter) Allow(ctx context.Context) error {
	deadline := time.Now().Add(rl.waitTimeout)

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Check if we can proceed
		waitTime, ok := rl.tryAcquire()
		if ok {
			return nil
		}

		// Check timeout
		if time.Now().Add(waitTime).After(deadline) {
			return &Error{
				RetryAfter: waitTime,
				Message:    "rate limit exceeded, retry after " + waitTime.String(),
			}
		}

		// Wait and retry
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			// Continue to retry
		}
	}
}

// TryAllow attempts to get permission for a request without blocking.
// Returns true if the request can proceed, false otherwise.
func (rl *Limiter) TryAllow() bool {
	_, ok := rl.tryAcquire()
	return ok
}

// WaitTime returns how long to wait before the next request can be made.
func (rl *Limiter) WaitTime() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillTokens()

	// Check minimum interval
	timeSinceLastRequest := time.Since(rl.lastRequest)
	if timeSinceLastRequest < rl.minInterval {
		return rl.minInterval - timeSinceLastRequest
	}

	// Check token availability
	if rl.tokens >= 1.0 {
		return 0
	}

	// Calculate time until next token
	tokensNeeded := 1.0 - rl.tokens
	return time.Duration(tokensNeeded / rl.refillRate * float64(time.Second))
}

// tryAcquire attempts to acquire a token without blocking.
// Returns (waitTime, success). If success is false, waitTime indicates
// how long to wait before retrying.
func (rl *Limiter) tryAcquire() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillTokens()

	// Check minimum interval
	timeSinceLastRequest := time.Since(rl.lastRequest)
	if timeSinceLastRequest < rl.minInterval {
		waitTime := rl.minInterval - timeSinceLastRequest
		return waitTime, false
	}

	// Check token availability
	if rl.tokens < 1.0 {
		// Calculate time until next token with adaptive backoff
		tokensNeeded := 1.0 - rl.tokens
		baseWait := time.Duration(tokensNeeded / rl.refillRate * float64(time.Second))

		// Apply adaptive backoff for consecutive waits
		if rl.consecutiveWaits > 0 {
			backoffMultiplier := 1 << uint(minInt(rl.consecutiveWaits, 5)) // Cap at 32x
			baseWait = time.Duration(float64(baseWait) * float64(backoffMultiplier))
		}
		rl.consecutiveWaits++

		return baseWait, false
	}

	// Consume token
	rl.tokens--
	rl.lastRequest = time.Now()
	rl.consecutiveWaits = 0 // Reset on successful acquisition

	return 0, true
}

// refillTokens adds tokens based on time elapsed since last refill.
// Must be called with lock held.
func (rl *Limiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()

	if elapsed > 0 {
		// Add tokens based on elapsed time
		rl.tokens += elapsed * rl.refillRate

		// Cap at maximum
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}

		rl.lastRefill = now
	}
}

// RecordRateLimitHit records that the API returned a rate limit response.
// This adjusts internal state to be more conservative.
func (rl *Limiter) RecordRateLimitHit(retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Empty the bucket when rate limited
	rl.tokens = 0

	// Use the retry-after from the API if provided, otherwise use default
	if retryAfter > 0 {
		rl.retryAfter = retryAfter
	}

	// Reduce the refill rate temporarily
	rl.refillRate *= 0.8

	// Update last request time to enforce wait
	rl.lastRequest = time.Now()

	// Increase consecutive waits for backoff
	rl.consecutiveWaits++
}

// Reset resets the rate limiter to initial state.
// Useful after a period of inactivity or configuration change.
func (rl *Limiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens = rl.maxTokens
	rl.lastRefill = time.Now()
	rl.lastRequest = time.Now().Add(-rl.minInterval)
	rl.consecutiveWaits = 0
}

// SetRefillRate dynamically adjusts the refill rate.
func (rl *Limiter) SetRefillRate(rate float64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillRate = rate
}

// Status contains the current state of the rate limiter.
type Status struct {
	AvailableTokens  float64
	MaxTokens        float64
	RefillRate       float64
	LastRefill       time.Time
	LastRequest      time.Time
	ConsecutiveWaits int
}

// Status returns the current status of the rate limiter.
func (rl *Limiter) Status() Status {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillTokens()

	return Status{
		AvailableTokens:  rl.tokens,
		MaxTokens:        rl.maxTokens,
		RefillRate:       rl.refillRate,
		LastRefill:       rl.lastRefill,
		LastRequest:      rl.lastRequest,
		ConsecutiveWaits: rl.consecutiveWaits,
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
