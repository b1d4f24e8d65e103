package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/codecard-hub/codecard-backend/internal/domain/shared"
	"github.com/codecard-hub/codecard-backend/pkg/circuitbreaker"
	"github.com/codecard-hub/codecard-backend/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "CodeCard API",
		"version":     "v1",
		"description": "Coding-platform profile cards with scores, ranks, and QR codes",
		"endpoints": map[string]string{
			"github":     "/github/{username}",
			"leetcode":   "/leetcode/{username}",
			"codeforces": "/codeforces/{username}",
			"userCount":  "/userCount",
			"health":     "/health",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			components["postgres"] = "unreachable"
			healthy = false
		} else {
			components["postgres"] = "ok"
		}
	}

	// The cache is an optimization; it is reported but never fails the check.
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(ctx); err != nil {
			components["redis"] = "unreachable"
		} else {
			components["redis"] = "ok"
		}
	}

	status := map[string]interface{}{
		"status":     "healthy",
		"uptime":     s.Uptime().String(),
		"components": components,
	}

	if !healthy {
		status["status"] = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database unreachable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleFavicon answers browser favicon probes with no content, so they
// never reach the card handlers as usernames.
func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGitHubCard handles GET /github/{username}
func (s *Server) handleGitHubCard(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "favicon.ico" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	card, err := s.deps.Profile.GetGitHubCard(r.Context(), username)
	if err != nil {
		s.writeCardError(w, r, "github", username, err)
		return
	}

	writeJSONWithRequest(w, r, http.StatusOK, card)
}

// handleLeetCodeCard handles GET /leetcode/{username}
func (s *Server) handleLeetCodeCard(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "favicon.ico" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	card, err := s.deps.Profile.GetLeetCodeCard(r.Context(), username)
	if err != nil {
		s.writeCardError(w, r, "leetcode", username, err)
		return
	}

	writeJSONWithRequest(w, r, http.StatusOK, card)
}

// handleCodeforcesCard handles GET /codeforces/{username}
func (s *Server) handleCodeforcesCard(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("username")
	if handle == "favicon.ico" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	card, err := s.deps.Profile.GetCodeforcesCard(r.Context(), handle)
	if err != nil {
		s.writeCardError(w, r, "codeforces", handle, err)
		return
	}

	writeJSONWithRequest(w, r, http.StatusOK, card)
}

// writeCardError maps service errors to HTTP statuses.
func (s *Server) writeCardError(w http.ResponseWriter, r *http.Request, platform, handle string, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidHandle):
		writeJSONError(w, http.StatusBadRequest, "invalid_handle", "Username is required")

	case errors.Is(err, shared.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found on "+platform)

	case errors.Is(err, shared.ErrRateLimited):
		w.Header().Set("Retry-After", "60")
		writeJSONError(w, http.StatusTooManyRequests, "upstream_rate_limited", "The "+platform+" API is rate limiting requests, try again later")

	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, shared.ErrServiceUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "upstream_unavailable", "The "+platform+" API is currently unavailable")

	default:
		s.logger.Error("card assembly failed",
			logger.PlatformName(platform),
			logger.Handle(handle),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to build the profile card")
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleUserCount handles GET /userCount
func (s *Server) handleUserCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.deps.Profile.GetUserCount(r.Context())
	if err != nil {
		s.logger.Error("user count failed",
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to count users")
		return
	}

	writeJSONWithRequest(w, r, http.StatusOK, count)
}
