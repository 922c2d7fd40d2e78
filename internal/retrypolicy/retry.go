// Package retrypolicy expresses retry-with-fixed-delay as a small
// parameterized policy so the transient-vs-definitive classification stays
// independently testable instead of being inlined into each resolver.
package retrypolicy

import (
	"context"
	"time"
)

// Policy bounds how often and how quickly an operation is reattempted.
type Policy struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
}

// Do runs fn up to p.Attempts times, sleeping p.Delay between attempts.
// A further attempt is made only while transient reports the previous
// outcome as retryable. The last outcome is returned; context cancellation
// during the inter-attempt delay also ends the loop with the last outcome.
func Do[T any](ctx context.Context, p Policy, transient func(T) bool, fn func(context.Context) T) T {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var out T
	for attempt := 0; attempt < attempts; attempt++ {
		out = fn(ctx)
		if attempt == attempts-1 || !transient(out) {
			return out
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return out
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
