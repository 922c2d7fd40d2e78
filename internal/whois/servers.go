package whois

import (
	"regexp"
	"strings"

	"github.com/namegate/namegate/internal/avail"
)

// profile holds the per-server protocol quirks: a non-default query syntax
// and the patterns that classify this server's free-form answers.
type profile struct {
	// query builds the full query payload including the CRLF terminator.
	// nil means the default "<domain>\r\n".
	query func(domain string) string

	// notFound are lowercase substrings whose presence means available.
	notFound []string

	// taken are lowercase substrings whose presence means taken. Empty
	// means fall back to the generic record-field heuristics.
	taken []string
}

// profiles keys server-specific behaviour by server host. Servers without
// an entry use the default query format and the generic patterns.
var profiles = map[string]profile{
	// DENIC rejects bare queries for ACE names; the documented flag form is
	// required.
	"whois.denic.de": {
		query:    func(d string) string { return "-T dn,ace " + d + "\r\n" },
		notFound: []string{"status: free"},
		taken:    []string{"status: connect"},
	},
	// JPRS defaults to Japanese output; the /e suffix selects English.
	"whois.jprs.jp": {
		query:    func(d string) string { return d + "/e\r\n" },
		notFound: []string{"no match!!"},
	},
	"whois.nic.ch": {
		notFound: []string{"we do not have an entry in our database matching your query"},
	},
	"whois.nic.li": {
		notFound: []string{"we do not have an entry in our database matching your query"},
	},
	"whois.nic.uk": {
		notFound: []string{"no match for"},
	},
	"whois.domain-registry.nl": {
		notFound: []string{"is free"},
	},
	"whois.eu": {
		notFound: []string{"status: available"},
		taken:    []string{"status: registered"},
	},
}

// genericNotFound are the availability markers shared by most registries.
var genericNotFound = []string{
	"no match for",
	"no data found",
	"no entries found",
	"domain not found",
	"no such domain",
	"not found",
	"no object found",
	"available for registration",
}

// queryFor builds the query payload for server, applying the per-server
// override when one is documented.
func queryFor(server, domain string) string {
	if p, ok := profiles[strings.ToLower(server)]; ok && p.query != nil {
		return p.query(domain)
	}
	return domain + "\r\n"
}

// recordLineRe matches an explicit record header naming a domain, the
// strongest signal that a registration exists.
func recordLineRe(domain string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\s*domain(?: name)?:\s*` + regexp.QuoteMeta(domain) + `\s*$`)
}

// classify matches the accumulated response text against the per-server
// pattern table, falling back to generic patterns and record-field
// heuristics. It returns available, taken, or unknown.
func classify(server, domain, body string) avail.Status {
	lower := strings.ToLower(body)
	p := profiles[strings.ToLower(server)]

	for _, needle := range p.notFound {
		if strings.Contains(lower, needle) {
			return avail.StatusAvailable
		}
	}
	for _, needle := range p.taken {
		if strings.Contains(lower, needle) {
			return avail.StatusTaken
		}
	}
	for _, needle := range genericNotFound {
		if strings.Contains(lower, needle) {
			return avail.StatusAvailable
		}
	}

	if recordLineRe(domain).FindStringIndex(body) != nil {
		return avail.StatusTaken
	}
	if strings.Contains(lower, "domain name:") || strings.Contains(lower, "registrar:") {
		return avail.StatusTaken
	}

	return avail.StatusUnknown
}
