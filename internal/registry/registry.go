// Package registry maps top-level labels to the protocol and endpoint used
// to resolve them. The table is immutable after construction and injectable
// so tests can substitute alternate routes without process-wide state.
//
// There is no dynamic discovery: a TLD not present in the table is
// unsupported and must never be guessed at via a fallback service.
package registry

import (
	"net/url"
	"strings"
)

// Kind selects the resolution protocol for a TLD.
type Kind int

const (
	// Unsupported means no registry mapping exists; the domain resolves to
	// unknown/tld_not_supported without any network call.
	Unsupported Kind = iota
	// RDAP routes the lookup to a structured registry endpoint over HTTPS.
	RDAP
	// Whois routes the lookup to a legacy line-oriented server on TCP 43.
	Whois
	// Skip marks a TLD whose registry answers are known to be unreliable;
	// it short-circuits without any network call.
	Skip
)

// Route is the resolution entry for a single TLD.
type Route struct {
	Kind Kind

	// Endpoint builds the structured-protocol lookup URL for a domain.
	// Set only for Kind == RDAP.
	Endpoint func(domain string) string

	// Server is the legacy-protocol server host (port 43 implied).
	// Set only for Kind == Whois.
	Server string
}

// Table is an immutable TLD routing table.
type Table struct {
	routes map[string]Route
}

// NewTable builds a table from an explicit route map. The map is copied;
// the caller's map is not retained.
func NewTable(routes map[string]Route) *Table {
	m := make(map[string]Route, len(routes))
	for tld, r := range routes {
		m[strings.ToLower(tld)] = r
	}
	return &Table{routes: m}
}

// Route returns the routing entry for a TLD, case-normalized. TLDs without
// an entry report Kind Unsupported.
func (t *Table) Route(tld string) Route {
	if r, ok := t.routes[strings.ToLower(tld)]; ok {
		return r
	}
	return Route{Kind: Unsupported}
}

// rdapPath builds an RDAP domain lookup URL under base, which must not end
// with a slash.
func rdapPath(base, domain string) string {
	return base + "/domain/" + url.PathEscape(domain)
}

// verisign returns the endpoint builder for TLDs operated by Verisign,
// whose RDAP base path embeds the TLD itself.
func verisign(tld string) func(string) string {
	base := "https://rdap.verisign.com/" + tld + "/v1"
	return func(domain string) string { return rdapPath(base, domain) }
}

// identityDigital returns the endpoint builder for TLDs on the Identity
// Digital shared RDAP service.
func identityDigital() func(string) string {
	return func(domain string) string {
		return rdapPath("https://rdap.identitydigital.services/rdap", domain)
	}
}

func googleRegistry() func(string) string {
	return func(domain string) string {
		return rdapPath("https://pubapi.registry.google/rdap", domain)
	}
}

func pir() func(string) string {
	return func(domain string) string {
		return rdapPath("https://rdap.publicinterestregistry.org/rdap", domain)
	}
}

// NewDefaultTable returns the production routing table: structured-protocol
// operators, known legacy servers, and TLDs whose responses are too
// unreliable to query at all.
func NewDefaultTable() *Table {
	routes := map[string]Route{
		// Verisign-operated TLDs share one endpoint builder parameterized
		// by TLD.
		"com": {Kind: RDAP, Endpoint: verisign("com")},
		"net": {Kind: RDAP, Endpoint: verisign("net")},
		"cc":  {Kind: RDAP, Endpoint: verisign("cc")},
		"tv":  {Kind: RDAP, Endpoint: verisign("tv")},

		"org": {Kind: RDAP, Endpoint: pir()},

		"info": {Kind: RDAP, Endpoint: identityDigital()},
		"pro":  {Kind: RDAP, Endpoint: identityDigital()},
		"ltd":  {Kind: RDAP, Endpoint: identityDigital()},
		"live": {Kind: RDAP, Endpoint: identityDigital()},

		"app":  {Kind: RDAP, Endpoint: googleRegistry()},
		"dev":  {Kind: RDAP, Endpoint: googleRegistry()},
		"page": {Kind: RDAP, Endpoint: googleRegistry()},

		// Legacy-protocol registries without a usable RDAP deployment.
		"de": {Kind: Whois, Server: "whois.denic.de"},
		"ch": {Kind: Whois, Server: "whois.nic.ch"},
		"li": {Kind: Whois, Server: "whois.nic.li"},
		"io": {Kind: Whois, Server: "whois.nic.io"},
		"co": {Kind: Whois, Server: "whois.nic.co"},
		"me": {Kind: Whois, Server: "whois.nic.me"},
		"uk": {Kind: Whois, Server: "whois.nic.uk"},
		"jp": {Kind: Whois, Server: "whois.jprs.jp"},
		"nl": {Kind: Whois, Server: "whois.domain-registry.nl"},
		"eu": {Kind: Whois, Server: "whois.eu"},
		"ai": {Kind: Whois, Server: "whois.nic.ai"},

		// Registries that rate-limit or garble availability answers badly
		// enough that querying them wastes the batch budget.
		"es": {Kind: Skip},
		"gr": {Kind: Skip},
		"ph": {Kind: Skip},
		"bd": {Kind: Skip},
	}
	return NewTable(routes)
}
