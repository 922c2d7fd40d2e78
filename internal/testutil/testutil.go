// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FailingStore implements counter.Store and fails every call, for
// exercising the guards' fail-open paths.
type FailingStore struct {
	Err error
}

// Get implements counter.Store.
func (f *FailingStore) Get(context.Context, string) (int64, error) {
	return 0, f.Err
}

// Set implements counter.Store.
func (f *FailingStore) Set(context.Context, string, int64, time.Duration) error {
	return f.Err
}
