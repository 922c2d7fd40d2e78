package retrypolicy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/namegate/namegate/internal/retrypolicy"
)

type result struct {
	value     int
	transient bool
}

func TestDo_NoRetryOnDefinitive(t *testing.T) {
	calls := 0
	out := retrypolicy.Do(context.Background(),
		retrypolicy.Policy{Attempts: 2, Delay: time.Millisecond},
		func(r result) bool { return r.transient },
		func(context.Context) result {
			calls++
			return result{value: 42}
		})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 42, out.value)
}

func TestDo_RetriesTransientOnce(t *testing.T) {
	calls := 0
	out := retrypolicy.Do(context.Background(),
		retrypolicy.Policy{Attempts: 2, Delay: time.Millisecond},
		func(r result) bool { return r.transient },
		func(context.Context) result {
			calls++
			if calls == 1 {
				return result{transient: true}
			}
			return result{value: 7}
		})
	assert.Equal(t, 2, calls)
	assert.Equal(t, 7, out.value)
}

func TestDo_AttemptsBound(t *testing.T) {
	calls := 0
	out := retrypolicy.Do(context.Background(),
		retrypolicy.Policy{Attempts: 2, Delay: time.Millisecond},
		func(r result) bool { return r.transient },
		func(context.Context) result {
			calls++
			return result{transient: true}
		})
	assert.Equal(t, 2, calls)
	assert.True(t, out.transient)
}

func TestDo_DelayBetweenAttempts(t *testing.T) {
	const delay = 50 * time.Millisecond
	calls := 0
	start := time.Now()
	retrypolicy.Do(context.Background(),
		retrypolicy.Policy{Attempts: 2, Delay: delay},
		func(r result) bool { return r.transient },
		func(context.Context) result {
			calls++
			return result{transient: true}
		})
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestDo_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	out := retrypolicy.Do(ctx,
		retrypolicy.Policy{Attempts: 2, Delay: time.Hour},
		func(r result) bool { return r.transient },
		func(context.Context) result {
			calls++
			cancel()
			return result{transient: true, value: 9}
		})
	// The delay is interrupted and the first outcome is returned.
	assert.Equal(t, 1, calls)
	assert.Equal(t, 9, out.value)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	retrypolicy.Do(context.Background(),
		retrypolicy.Policy{},
		func(result) bool { return false },
		func(context.Context) result {
			calls++
			return result{}
		})
	assert.Equal(t, 1, calls)
}
