package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/namegate/namegate/internal/apperr"
	"github.com/namegate/namegate/internal/avail"
	"github.com/namegate/namegate/internal/check"
	"github.com/namegate/namegate/internal/guard"
	"github.com/namegate/namegate/internal/validate"
)

// BatchChecker resolves a batch of domains.
type BatchChecker interface {
	CheckBatch(ctx context.Context, domains []string) (*check.BatchResult, error)
}

// Admitter gates and bills metered requests.
type Admitter interface {
	Admit(ctx context.Context, clientKey string) guard.Decision
	RecordSuccess(ctx context.Context, clientKey string) int64
}

// MeteredChecker calls the billable aftermarket upstream.
type MeteredChecker interface {
	Check(ctx context.Context, domain string) (avail.Result, error)
}

func (s *Server) handleBatch() http.HandlerFunc {
	type request struct {
		Domains []string `json:"domains"`
	}
	type meta struct {
		Checked    int   `json:"checked"`
		Completed  int   `json:"completed"`
		Incomplete int   `json:"incomplete"`
		DurationMs int64 `json:"duration_ms"`
	}
	type response struct {
		Version string                  `json:"version"`
		Results map[string]avail.Result `json:"results"`
		Meta    meta                    `json:"meta"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := s.decode(w, r, &req); err != nil {
			s.respond(w, errorResponse{Error: "malformed request body"}, http.StatusBadRequest)
			return
		}

		br, err := s.checker.CheckBatch(r.Context(), req.Domains)
		if err != nil {
			if errors.Is(err, apperr.ErrInvalidInput) {
				s.respond(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
				return
			}
			s.logger.Error("batch resolution failed", "error", err)
			s.respond(w, errorResponse{Error: "internal"}, http.StatusInternalServerError)
			return
		}

		// Degraded results are still a 200; callers inspect meta.incomplete
		// and per-domain reasons.
		s.respond(w, response{
			Version: "1",
			Results: br.Results,
			Meta: meta{
				Checked:    br.Checked,
				Completed:  br.Completed,
				Incomplete: br.Incomplete,
				DurationMs: br.Elapsed.Milliseconds(),
			},
		}, http.StatusOK)
	}
}

func (s *Server) handleDomain() http.HandlerFunc {
	type request struct {
		Domain string `json:"domain"`
	}
	type response struct {
		Status          avail.Status `json:"status"`
		RemainingChecks int64        `json:"remainingChecks"`
	}
	type quotaResponse struct {
		Error           string `json:"error"`
		RemainingChecks int64  `json:"remainingChecks"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := s.decode(w, r, &req); err != nil {
			s.respond(w, errorResponse{Error: "malformed request body"}, http.StatusBadRequest)
			return
		}
		domain, err := validate.Normalize(req.Domain)
		if err != nil {
			s.respond(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
			return
		}

		clientKey := s.clientKey(r)
		decision := s.guards.Admit(r.Context(), clientKey)
		switch decision.Outcome {
		case guard.RateLimited:
			s.respond(w, errorResponse{Error: "rate_limited"}, http.StatusTooManyRequests)
			return
		case guard.CircuitOpen:
			// No reason detail leaks: the breaker is an internal budget.
			s.respond(w, errorResponse{Error: "service_unavailable"}, http.StatusServiceUnavailable)
			return
		case guard.QuotaExceeded:
			s.respond(w, quotaResponse{Error: "quota_exceeded", RemainingChecks: 0}, http.StatusTooManyRequests)
			return
		}

		result, err := s.premium.Check(r.Context(), domain)
		if err != nil {
			// The failed call consumed no quota.
			s.logger.Error("metered upstream failed", "domain", domain, "error", err)
			s.respond(w, errorResponse{Error: "upstream_unavailable"}, http.StatusBadGateway)
			return
		}

		remaining := s.guards.RecordSuccess(r.Context(), clientKey)
		s.respond(w, response{Status: result.Status, RemainingChecks: remaining}, http.StatusOK)
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	type response struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, response{Status: "ok"}, http.StatusOK)
	}
}
