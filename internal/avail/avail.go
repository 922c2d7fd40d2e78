// Package avail defines the closed availability-status vocabulary shared by
// all resolvers and the machine-readable reasons attached to non-definitive
// results.
package avail

import "fmt"

// Status is the availability classification of a single domain.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
	StatusForSale   Status = "for_sale"
	StatusPremium   Status = "premium"
	StatusParked    Status = "parked"
	StatusUnknown   Status = "unknown"
	StatusSkip      Status = "skip"
)

// Machine-readable reasons for StatusUnknown results.
const (
	ReasonTimeout           = "timeout"
	ReasonTLDNotSupported   = "tld_not_supported"
	ReasonNoWhoisServer     = "no_whois_server"
	ReasonWhoisInconclusive = "whois_inconclusive"
	ReasonWhoisError        = "whois_error"
	ReasonInternalError     = "internal_error"
)

// ReasonHTTP formats the reason for a definitive-looking but unmapped HTTP
// status code.
func ReasonHTTP(code int) string {
	return fmt.Sprintf("http_%d", code)
}

// Result is the outcome of resolving a single domain. Reason is populated
// only when Status is StatusUnknown.
type Result struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Definitive reports whether the result confirms either availability or
// registration (anything but unknown).
func (r Result) Definitive() bool {
	return r.Status != StatusUnknown
}

// Unknown builds an unknown result carrying the given reason.
func Unknown(reason string) Result {
	return Result{Status: StatusUnknown, Reason: reason}
}
