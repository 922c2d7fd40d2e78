// Package validate provides syntactic acceptance and normalization of
// candidate domain names.
package validate

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	"github.com/namegate/namegate/internal/apperr"
)

const maxDomainLength = 253

// IsDomain reports whether s is an acceptable registrable domain name:
// total length at most 253, at least two labels, each label 1-63 characters
// of lowercase alphanumerics and hyphens without leading or trailing
// hyphen, and a TLD that is not purely numeric. Pure function, no I/O.
func IsDomain(s string) bool {
	if len(s) == 0 || len(s) > maxDomainLength {
		return false
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !isLabel(label) {
			return false
		}
	}
	return !isAllDigits(labels[len(labels)-1])
}

// Normalize lowercases and IDNA-encodes a candidate domain and gates it
// through IsDomain. The wire contract supplies bare domain names, so URLs
// and host:port forms are rejected rather than repaired.
func Normalize(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return "", fmt.Errorf("%w: empty domain", apperr.ErrInvalidInput)
	}
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", apperr.ErrInvalidInput, raw, err)
	}
	if !IsDomain(ascii) {
		return "", fmt.Errorf("%w: not a valid domain: %q", apperr.ErrInvalidInput, raw)
	}
	return ascii, nil
}

// TLD returns the final label of an already-normalized domain.
func TLD(domain string) string {
	i := strings.LastIndexByte(domain, '.')
	if i < 0 || i == len(domain)-1 {
		return ""
	}
	return domain[i+1:]
}

func isLabel(label string) bool {
	if len(label) < 1 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
