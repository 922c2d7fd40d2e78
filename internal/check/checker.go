// Package check fans a validated batch of domains out to the per-protocol
// resolvers and aggregates the partial results.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/namegate/namegate/internal/apperr"
	"github.com/namegate/namegate/internal/avail"
	"github.com/namegate/namegate/internal/registry"
	"github.com/namegate/namegate/internal/validate"
)

// MaxBatchSize bounds how many domains one batch may carry.
const MaxBatchSize = 20

// RDAPResolver resolves a domain via the structured protocol.
type RDAPResolver interface {
	Resolve(ctx context.Context, domain string, endpoint func(string) string) avail.Result
}

// WhoisResolver resolves a domain via the legacy protocol.
type WhoisResolver interface {
	Resolve(ctx context.Context, domain, server string) avail.Result
}

// BatchResult maps each unique normalized domain to its availability
// outcome, with aggregate counters.
type BatchResult struct {
	Results map[string]avail.Result

	Checked    int
	Completed  int
	Incomplete int
	Elapsed    time.Duration
}

// Checker routes and resolves batches. Routing data is immutable; each
// resolution task writes only its own result slot.
type Checker struct {
	table  *registry.Table
	rdap   RDAPResolver
	whois  WhoisResolver
	logger *slog.Logger
}

// NewChecker creates a Checker over the given routing table and resolvers.
func NewChecker(table *registry.Table, rdap RDAPResolver, whois WhoisResolver, logger *slog.Logger) *Checker {
	return &Checker{table: table, rdap: rdap, whois: whois, logger: logger}
}

// CheckBatch normalizes, deduplicates, and validates the batch, then
// resolves every unique domain concurrently. A single invalid entry fails
// the whole batch; a single domain's resolution failure never aborts its
// siblings. Results are keyed by domain, not by completion order.
func (c *Checker) CheckBatch(ctx context.Context, domains []string) (*BatchResult, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: empty batch", apperr.ErrInvalidInput)
	}
	if len(domains) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit of %d", apperr.ErrInvalidInput, len(domains), MaxBatchSize)
	}

	unique := make([]string, 0, len(domains))
	seen := make(map[string]struct{}, len(domains))
	for _, raw := range domains {
		d, err := validate.Normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}

	start := time.Now()
	results := make(map[string]avail.Result, len(unique))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, d := range unique {
		wg.Add(1)
		go func(domain string) {
			defer wg.Done()
			res := c.resolveOne(ctx, domain)
			mu.Lock()
			results[domain] = res
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	br := &BatchResult{
		Results: results,
		Checked: len(unique),
		Elapsed: time.Since(start),
	}
	for _, res := range results {
		if res.Definitive() {
			br.Completed++
		} else {
			br.Incomplete++
		}
	}
	return br, nil
}

// resolveOne routes a single domain. A panicking resolver must not take the
// batch down; it surfaces as that domain's unknown slot.
func (c *Checker) resolveOne(ctx context.Context, domain string) (res avail.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("resolver panic", "domain", domain, "panic", r)
			res = avail.Unknown(avail.ReasonInternalError)
		}
	}()

	route := c.table.Route(validate.TLD(domain))
	switch route.Kind {
	case registry.Skip:
		return avail.Result{Status: avail.StatusSkip}
	case registry.RDAP:
		return c.rdap.Resolve(ctx, domain, route.Endpoint)
	case registry.Whois:
		return c.whois.Resolve(ctx, domain, route.Server)
	default:
		return avail.Unknown(avail.ReasonTLDNotSupported)
	}
}
