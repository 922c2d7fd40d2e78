// Package premium queries the metered aftermarket/pricing upstream that
// distinguishes purchasable, premium, listed-for-sale, and parked domains.
// Every call here is billable; callers must pass the admission guard chain
// first and must not consume quota when Check returns an error.
package premium

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/namegate/namegate/internal/apperr"
	"github.com/namegate/namegate/internal/avail"
)

const (
	// DefaultRPS is the target request rate against the metered upstream.
	DefaultRPS float64 = 5
	// DefaultBurst is the burst capacity above DefaultRPS.
	DefaultBurst = 5
)

// entry is one per-domain record in the upstream's multi-result response.
type entry struct {
	Domain string  `json:"domain"`
	Status string  `json:"status"`
	Price  float64 `json:"price,omitempty"`
}

// Client calls the aftermarket availability endpoint.
type Client struct {
	client  *req.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewClient creates a premium upstream client. baseURL must not end with a
// slash.
func NewClient(client *req.Client, baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Check queries the upstream for a single domain. The upstream answers with
// an array of entries; the entry whose domain matches the request
// case-insensitively is preferred, falling back to the first entry.
func (c *Client) Check(ctx context.Context, domain string) (avail.Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParam("domain", domain).
		Get(c.baseURL + "/v1/availability")
	if err != nil {
		return avail.Result{}, fmt.Errorf("%w: %v", apperr.ErrRequestFailed, err)
	}
	if !resp.IsSuccessState() {
		return avail.Result{}, fmt.Errorf("%w: HTTP %d", apperr.ErrRequestFailed, resp.StatusCode)
	}

	var entries []entry
	if err := resp.UnmarshalJson(&entries); err != nil {
		return avail.Result{}, fmt.Errorf("%w: malformed response: %v", apperr.ErrRequestFailed, err)
	}
	if len(entries) == 0 {
		return avail.Result{}, fmt.Errorf("%w: empty result set", apperr.ErrRequestFailed)
	}

	picked := entries[0]
	for _, e := range entries {
		if strings.EqualFold(e.Domain, domain) {
			picked = e
			break
		}
	}

	return mapStatus(picked.Status), nil
}

// mapStatus folds upstream status spellings into the closed vocabulary.
func mapStatus(s string) avail.Result {
	switch strings.ToLower(s) {
	case "available":
		return avail.Result{Status: avail.StatusAvailable}
	case "registered", "taken", "unavailable":
		return avail.Result{Status: avail.StatusTaken}
	case "forsale", "for_sale", "aftermarket", "auction":
		return avail.Result{Status: avail.StatusForSale}
	case "premium":
		return avail.Result{Status: avail.StatusPremium}
	case "parked":
		return avail.Result{Status: avail.StatusParked}
	default:
		return avail.Unknown("")
	}
}
