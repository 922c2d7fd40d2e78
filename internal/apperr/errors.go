package apperr

import "errors"

// ErrInvalidInput is returned when a request or domain fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures
// uniformly across packages.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned by HTTP-based clients when a request fails at
// the transport level or the server responds with an unexpected status code.
var ErrRequestFailed = errors.New("request failed")
