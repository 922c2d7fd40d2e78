package premium_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namegate/namegate/internal/apperr"
	"github.com/namegate/namegate/internal/avail"
	"github.com/namegate/namegate/internal/premium"
	"github.com/namegate/namegate/internal/testutil"
)

const (
	baseURL      = "https://api.upstream.example"
	availability = baseURL + "/v1/availability"
)

func newTestClient(t *testing.T) *premium.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return premium.NewClient(client, baseURL+"/", "test-key", testutil.NopLogger())
}

func TestCheck_SendsKeyAndDomain(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, availability,
		func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
			assert.Equal(t, "example.com", r.URL.Query().Get("domain"))
			return httpmock.NewStringResponse(http.StatusOK, `[{"domain":"example.com","status":"available"}]`), nil
		})

	result, err := c.Check(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, avail.StatusAvailable, result.Status)
}

func TestCheck_PrefersMatchingEntry(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, availability,
		httpmock.NewStringResponder(http.StatusOK,
			`[{"domain":"other.com","status":"taken"},{"domain":"EXAMPLE.com","status":"premium","price":1299.0}]`))

	result, err := c.Check(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, avail.StatusPremium, result.Status, "the case-insensitive match wins over order")
}

func TestCheck_FallsBackToFirstEntry(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, availability,
		httpmock.NewStringResponder(http.StatusOK,
			`[{"domain":"www.example.com","status":"forsale"},{"domain":"shop.example.com","status":"taken"}]`))

	result, err := c.Check(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, avail.StatusForSale, result.Status)
}

func TestCheck_StatusMapping(t *testing.T) {
	tests := []struct {
		upstream string
		want     avail.Status
	}{
		{"available", avail.StatusAvailable},
		{"registered", avail.StatusTaken},
		{"unavailable", avail.StatusTaken},
		{"aftermarket", avail.StatusForSale},
		{"for_sale", avail.StatusForSale},
		{"PREMIUM", avail.StatusPremium},
		{"parked", avail.StatusParked},
		{"something-new", avail.StatusUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.upstream, func(t *testing.T) {
			c := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, availability,
				httpmock.NewStringResponder(http.StatusOK,
					`[{"domain":"example.com","status":"`+tc.upstream+`"}]`))

			result, err := c.Check(context.Background(), "example.com")
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Status)
		})
	}
}

func TestCheck_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"transport failure", httpmock.NewErrorResponder(errors.New("connection reset"))},
		{"server error", httpmock.NewStringResponder(http.StatusBadGateway, "upstream down")},
		{"auth rejected", httpmock.NewStringResponder(http.StatusUnauthorized, `{"error":"bad key"}`)},
		{"malformed body", httpmock.NewStringResponder(http.StatusOK, `{"not":"an array"}`)},
		{"empty result set", httpmock.NewStringResponder(http.StatusOK, `[]`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, availability, tc.responder)

			_, err := c.Check(context.Background(), "example.com")
			assert.ErrorIs(t, err, apperr.ErrRequestFailed)
		})
	}
}
