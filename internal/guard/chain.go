// Package guard composes the admission controls applied in front of the
// metered upstream: burst rate limiter, then global circuit breaker, then
// per-client monthly quota, in that fixed order.
//
// Every guard fails open: when the counter store is unreachable the guard
// reports "allowed" rather than blocking, because availability of the
// product takes precedence over strict enforcement. Counter updates are
// read-then-write over an eventually-consistent store, so ceilings may be
// overshot by a bounded margin under concurrent load; that approximation
// is accepted and documented, not a bug to eliminate.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/namegate/namegate/internal/counter"
)

// Outcome is the machine-readable admission decision code.
type Outcome int

const (
	// Allow admits the request to the metered upstream.
	Allow Outcome = iota
	// RateLimited rejects the request for exceeding the per-minute burst
	// ceiling.
	RateLimited
	// CircuitOpen rejects the request because the global monthly ceiling
	// has been reached.
	CircuitOpen
	// QuotaExceeded rejects the request because the client consumed its
	// monthly allotment.
	QuotaExceeded
)

// Decision carries the admission outcome and, for quota decisions, the
// client's remaining allotment before this request.
type Decision struct {
	Outcome   Outcome
	Remaining int64
}

// Config holds the guard ceilings.
type Config struct {
	// BurstPerMinute is the per-client request ceiling per one-minute
	// window.
	BurstPerMinute int64
	// MonthlyQuota is the per-client allotment of successful metered calls
	// per calendar month.
	MonthlyQuota int64
	// MonthlyCeiling is the global metered-request ceiling per calendar
	// month; reaching it opens the circuit for the rest of the month.
	MonthlyCeiling int64
}

const (
	burstTTL  = 2 * time.Minute
	// Period keys must outlive the month they account for plus margin.
	periodTTL = 40 * 24 * time.Hour
)

// Chain evaluates the guards in their fixed order.
type Chain struct {
	store  counter.Store
	cfg    Config
	alert  *Alerter
	logger *slog.Logger
	now    func() time.Time
}

// NewChain creates a guard chain over the given counter store. alert may be
// nil when no webhook is configured.
func NewChain(store counter.Store, cfg Config, alert *Alerter, logger *slog.Logger) *Chain {
	return &Chain{store: store, cfg: cfg, alert: alert, logger: logger, now: time.Now}
}

// SetClock overrides the time source for window and period keys in tests.
func (c *Chain) SetClock(now func() time.Time) { c.now = now }

// Admit evaluates burst, breaker, and quota in order and returns the first
// rejection, or Allow with the client's remaining quota. It must be called
// before the metered upstream call; quota consumption happens separately in
// RecordSuccess.
func (c *Chain) Admit(ctx context.Context, clientKey string) Decision {
	if !c.admitBurst(ctx, clientKey) {
		return Decision{Outcome: RateLimited}
	}
	if !c.admitBreaker(ctx) {
		return Decision{Outcome: CircuitOpen}
	}
	return c.admitQuota(ctx, clientKey)
}

// admitBurst checks and advances the per-client one-minute window counter.
// The counter moves only when the request is allowed through.
func (c *Chain) admitBurst(ctx context.Context, clientKey string) bool {
	if c.cfg.BurstPerMinute <= 0 {
		return true
	}
	key := burstKey(clientKey, c.now())

	count, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("burst guard failing open", "error", err)
		return true
	}
	if count >= c.cfg.BurstPerMinute {
		return false
	}
	if err := c.store.Set(ctx, key, count+1, burstTTL); err != nil {
		c.logger.Warn("burst counter write failed", "error", err)
	}
	return true
}

// admitBreaker advances the global monthly counter unconditionally and
// reports whether the circuit is still closed. The closed-to-open
// transition is detected by comparing the pre- and post-increment counts
// against the ceiling; the alert fires at the increment that first reaches
// it. Under concurrent read-then-write increments this can double-fire or
// miss the exact boundary; at-least-once near the boundary is the accepted
// behaviour.
func (c *Chain) admitBreaker(ctx context.Context) bool {
	if c.cfg.MonthlyCeiling <= 0 {
		return true
	}
	period := monthKey(c.now())
	key := breakerKey(period)

	pre, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("circuit breaker failing open", "error", err)
		return true
	}
	post := pre + 1
	if err := c.store.Set(ctx, key, post, periodTTL); err != nil {
		c.logger.Warn("breaker counter write failed", "error", err)
	}

	if pre < c.cfg.MonthlyCeiling && post >= c.cfg.MonthlyCeiling {
		c.logger.Warn("circuit breaker opened",
			"period", period,
			"count", post,
			"ceiling", c.cfg.MonthlyCeiling,
		)
		if c.alert != nil {
			c.alert.Fire(ctx, fmt.Sprintf(
				"namegate circuit breaker opened for %s: %d requests reached the ceiling of %d; metered checks are rejected until the period rolls over",
				period, post, c.cfg.MonthlyCeiling,
			))
		}
	}

	// The request whose increment reaches the ceiling is still served;
	// everything after it is rejected for the rest of the period.
	return pre < c.cfg.MonthlyCeiling
}

// admitQuota rejects clients at or above their monthly allotment before any
// upstream call is made. It never consumes quota itself.
func (c *Chain) admitQuota(ctx context.Context, clientKey string) Decision {
	if c.cfg.MonthlyQuota <= 0 {
		return Decision{Outcome: Allow}
	}
	key := quotaKey(clientKey, monthKey(c.now()))

	used, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("quota guard failing open", "error", err)
		return Decision{Outcome: Allow, Remaining: c.cfg.MonthlyQuota}
	}
	if used >= c.cfg.MonthlyQuota {
		return Decision{Outcome: QuotaExceeded}
	}
	return Decision{Outcome: Allow, Remaining: c.cfg.MonthlyQuota - used}
}

// RecordSuccess consumes one unit of the client's quota after a billable
// upstream call succeeded, and returns the remaining allotment. Failed
// upstream calls must not reach this method. Store failures are absorbed;
// the returned remainder is then best-effort.
func (c *Chain) RecordSuccess(ctx context.Context, clientKey string) int64 {
	if c.cfg.MonthlyQuota <= 0 {
		return 0
	}
	key := quotaKey(clientKey, monthKey(c.now()))

	used, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("quota read failed after success", "error", err)
	}
	used++
	if err := c.store.Set(ctx, key, used, periodTTL); err != nil {
		c.logger.Warn("quota write failed after success", "error", err)
	}

	remaining := c.cfg.MonthlyQuota - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// burstKey buckets a client into the current one-minute window.
func burstKey(clientKey string, at time.Time) string {
	return "burst:" + clientKey + ":" + at.UTC().Format("200601021504")
}

// monthKey is the calendar-month period key.
func monthKey(at time.Time) string {
	return at.UTC().Format("200601")
}

func breakerKey(period string) string {
	return "breaker:" + period
}

func quotaKey(clientKey, period string) string {
	return "quota:" + clientKey + ":" + period
}
