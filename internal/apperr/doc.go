// Package apperr defines sentinel error values shared across the
// application. Callers match them with errors.Is rather than string
// comparison.
package apperr
