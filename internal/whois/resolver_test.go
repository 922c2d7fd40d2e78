package whois

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namegate/namegate/internal/avail"
	"github.com/namegate/namegate/internal/testutil"
)

// fixture is a one-shot TCP server answering a single query with a canned
// response, recording the query it received.
type fixture struct {
	addr  string
	mu    sync.Mutex
	query string
}

func newFixture(t *testing.T, response string) *fixture {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	f := &fixture{addr: ln.Addr().String()}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		f.mu.Lock()
		f.query = string(buf[:n])
		f.mu.Unlock()
		_, _ = conn.Write([]byte(response))
	}()
	return f
}

func (f *fixture) receivedQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

func newTestResolver() *Resolver {
	return NewResolver(testutil.NopLogger(), Options{Timeout: 2 * time.Second})
}

func TestResolve_NotFoundPatternMeansAvailable(t *testing.T) {
	f := newFixture(t, "No match for \"EXAMPLE.COM\".\r\n")
	result := newTestResolver().Resolve(context.Background(), "example.com", f.addr)

	assert.Equal(t, avail.StatusAvailable, result.Status)
	assert.Equal(t, "example.com\r\n", f.receivedQuery())
}

func TestResolve_RecordFieldsMeanTaken(t *testing.T) {
	f := newFixture(t, "Domain Name: example.com\nRegistrar: Example Registrar Inc.\n")
	result := newTestResolver().Resolve(context.Background(), "example.com", f.addr)

	assert.Equal(t, avail.StatusTaken, result.Status)
	assert.Empty(t, result.Reason)
}

func TestResolve_UnrecognisedResponseIsInconclusive(t *testing.T) {
	f := newFixture(t, "% Terms of use: this output is provided as-is.\n")
	result := newTestResolver().Resolve(context.Background(), "example.com", f.addr)

	assert.Equal(t, avail.StatusUnknown, result.Status)
	assert.Equal(t, avail.ReasonWhoisInconclusive, result.Reason)
}

func TestResolve_EmptyResponseIsInconclusive(t *testing.T) {
	f := newFixture(t, "")
	result := newTestResolver().Resolve(context.Background(), "example.com", f.addr)

	assert.Equal(t, avail.StatusUnknown, result.Status)
	assert.Equal(t, avail.ReasonWhoisInconclusive, result.Reason)
}

func TestResolve_NoServerConfigured(t *testing.T) {
	result := newTestResolver().Resolve(context.Background(), "example.es", "")

	assert.Equal(t, avail.StatusUnknown, result.Status)
	assert.Equal(t, avail.ReasonNoWhoisServer, result.Reason)
}

func TestResolve_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	result := newTestResolver().Resolve(context.Background(), "example.com", addr)

	assert.Equal(t, avail.StatusUnknown, result.Status)
	assert.Equal(t, avail.ReasonWhoisError, result.Reason)
}

func TestResolve_QuerySanitized(t *testing.T) {
	f := newFixture(t, "No match for query.\n")
	newTestResolver().Resolve(context.Background(), "example.com\r\nevil.com", f.addr)

	query := f.receivedQuery()
	assert.Equal(t, "example.comevil.com\r\n", query, "control characters must not reach the wire")
}

func TestResolve_OversizedResponseTruncated(t *testing.T) {
	// The marker sits inside the cap; the padding beyond it must be
	// discarded without turning the lookup into a failure.
	response := "Domain Name: example.com\n" + strings.Repeat("x", 32*1024)
	f := newFixture(t, response)

	result := newTestResolver().Resolve(context.Background(), "example.com", f.addr)

	assert.Equal(t, avail.StatusTaken, result.Status)
}

func TestQueryFor_ServerOverrides(t *testing.T) {
	assert.Equal(t, "-T dn,ace example.de\r\n", queryFor("whois.denic.de", "example.de"))
	assert.Equal(t, "example.jp/e\r\n", queryFor("whois.jprs.jp", "example.jp"))
	assert.Equal(t, "example.io\r\n", queryFor("whois.nic.io", "example.io"))
}

func TestClassify_ServerPatternTables(t *testing.T) {
	tests := []struct {
		name   string
		server string
		domain string
		body   string
		want   avail.Status
	}{
		{"denic free", "whois.denic.de", "example.de", "Domain: example.de\nStatus: free\n", avail.StatusAvailable},
		{"denic connect", "whois.denic.de", "example.de", "Domain: example.de\nStatus: connect\n", avail.StatusTaken},
		{"jprs no match", "whois.jprs.jp", "example.jp", "No match!!\n", avail.StatusAvailable},
		{"eu available", "whois.eu", "example.eu", "Domain: example.eu\nStatus: AVAILABLE\n", avail.StatusAvailable},
		{"eu registered", "whois.eu", "example.eu", "Domain: example.eu\nStatus: REGISTERED\n", avail.StatusTaken},
		{"nominet no match", "whois.nic.uk", "example.uk", "    No match for \"example.uk\".\n", avail.StatusAvailable},
		{"generic record line", "whois.nic.io", "example.io", "Domain Name: EXAMPLE.IO\nCreated: 2010-01-01\n", avail.StatusTaken},
		{"garbage", "whois.nic.io", "example.io", "rate limit exceeded, try again later\n", avail.StatusUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.server, tc.domain, tc.body))
		})
	}
}
