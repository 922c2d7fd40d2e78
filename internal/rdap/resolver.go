// Package rdap performs structured-protocol registry lookups over HTTPS.
//
// Classification is by transport-level status only: a found status means
// taken, a not-found status means available, everything else is
// non-definitive. Transient non-definitive outcomes (timeout, rate-limited,
// server error) earn exactly one retry after a fixed delay; any other
// status is a definitive unknown.
package rdap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/imroc/req/v3"

	"github.com/namegate/namegate/internal/avail"
	"github.com/namegate/namegate/internal/retrypolicy"
)

const (
	// DefaultTimeout bounds a single lookup attempt.
	DefaultTimeout = 8 * time.Second
	// DefaultRetryDelay is the fixed wait before the single retry.
	DefaultRetryDelay = 2 * time.Second

	// DefaultRPS is the target outbound request rate across all registry
	// operators.
	DefaultRPS float64 = 10
	// DefaultBurst is the burst capacity above DefaultRPS.
	DefaultBurst = 20

	acceptHeader = "application/rdap+json, application/json"
)

// Options tunes per-attempt timeout and retry pacing. Zero values select
// the defaults; tests shrink them.
type Options struct {
	Timeout    time.Duration
	RetryDelay time.Duration
}

// Resolver issues structured-protocol lookups with bounded retry. It never
// returns an error: transport failures fold into non-definitive results.
type Resolver struct {
	client *req.Client
	opts   Options
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given HTTP client.
func NewResolver(client *req.Client, logger *slog.Logger, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Resolver{client: client, opts: opts, logger: logger}
}

// outcome is the classification of one lookup attempt. code is the HTTP
// status observed, 0 when no response arrived.
type outcome struct {
	result    avail.Result
	transient bool
	code      int
}

// Resolve looks up domain at the URL built by endpoint. At most two
// attempts are made; the second only after a transient first outcome and
// the fixed inter-attempt delay.
func (r *Resolver) Resolve(ctx context.Context, domain string, endpoint func(string) string) avail.Result {
	url := endpoint(domain)

	// lastCode survives across attempts: the final unknown reason reports
	// the last response code seen, or timeout when no response ever arrived.
	lastCode := 0

	policy := retrypolicy.Policy{Attempts: 2, Delay: r.opts.RetryDelay}
	out := retrypolicy.Do(ctx, policy,
		func(o outcome) bool { return o.transient },
		func(ctx context.Context) outcome {
			o := r.attempt(ctx, url)
			if o.code != 0 {
				lastCode = o.code
			}
			return o
		})

	if !out.transient {
		return out.result
	}
	if lastCode != 0 {
		return avail.Unknown(avail.ReasonHTTP(lastCode))
	}
	return avail.Unknown(avail.ReasonTimeout)
}

// attempt issues a single lookup and classifies it solely by status code.
func (r *Resolver) attempt(ctx context.Context, url string) outcome {
	attemptCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	resp, err := r.client.R().
		SetContext(attemptCtx).
		SetHeader("Accept", acceptHeader).
		Get(url)
	if err != nil {
		r.logger.Debug("rdap attempt failed", "url", url, "error", err)
		return outcome{result: avail.Unknown(avail.ReasonTimeout), transient: true}
	}

	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return outcome{result: avail.Result{Status: avail.StatusTaken}, code: code}
	case code == http.StatusNotFound:
		return outcome{result: avail.Result{Status: avail.StatusAvailable}, code: code}
	case code == http.StatusTooManyRequests || code >= 500:
		return outcome{result: avail.Unknown(avail.ReasonHTTP(code)), transient: true, code: code}
	default:
		// Client-error class other than not-found: definitive unknown,
		// no retry.
		return outcome{result: avail.Unknown(avail.ReasonHTTP(code)), code: code}
	}
}
