package invoke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures requested delays without actually waiting.
func recordingSleep(delays *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func newTestInvoker(t *testing.T, opt ...Option) *Invoker {
	t.Helper()

	iv, err := NewInvoker(hclog.NewNullLogger(), opt...)
	require.NoError(t, err)
	return iv
}

func TestNewInvoker_RequiresLogger(t *testing.T) {
	t.Parallel()

	_, err := NewInvoker(nil)
	require.Error(t, err)
}

func TestNewInvoker_OptionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "negative retries", opt: WithMaxRetries(-1)},
		{name: "negative delay", opt: WithInitialDelay(-time.Second)},
		{name: "negative jitter", opt: WithMaxJitter(-time.Millisecond)},
		{name: "nil sleep", opt: WithSleep(nil)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewInvoker(hclog.NewNullLogger(), tc.opt)
			require.Error(t, err)
		})
	}
}

func TestDo_SuccessSkipsRetry(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	iv := newTestInvoker(t, WithSleep(recordingSleep(&delays)))

	calls := 0
	res := iv.Do(context.Background(), func(context.Context) Result {
		calls++
		return Result{Data: "ok"}
	})

	require.NoError(t, res.Err)
	require.Equal(t, "ok", res.Data)
	require.Equal(t, 1, calls)
	require.Empty(t, delays)
}

func TestDo_NetworkTransientRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	iv := newTestInvoker(t, WithMaxJitter(0), WithSleep(recordingSleep(&delays)))

	calls := 0
	res := iv.Do(context.Background(), func(context.Context) Result {
		calls++
		if calls <= 2 {
			return Result{Err: errors.New("read tcp: ECONNRESET")}
		}
		return Result{Data: map[string]any{"id": 1}}
	})

	require.NoError(t, res.Err)
	require.Equal(t, map[string]any{"id": 1}, res.Data)
	require.Equal(t, 3, calls)

	// Zero-based attempt index: first retry waits 500ms, second 1000ms.
	require.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, delays)
}

func TestDo_TerminalShortCircuits(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	iv := newTestInvoker(t, WithSleep(recordingSleep(&delays)))

	calls := 0
	failure := &StatusError{Status: 404}
	res := iv.Do(context.Background(), func(context.Context) Result {
		calls++
		return Result{Err: failure}
	})

	require.Equal(t, 1, calls)
	require.Same(t, failure, res.Err)
	require.Empty(t, delays)
}

func TestDo_BudgetExhaustionReturnsLastErrorUnmodified(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	iv := newTestInvoker(t,
		WithMaxRetries(3),
		WithMaxJitter(0),
		WithSleep(recordingSleep(&delays)),
	)

	calls := 0
	var last error
	res := iv.Do(context.Background(), func(context.Context) Result {
		calls++
		last = &StatusError{Status: 503}
		return Result{Err: last}
	})

	// Initial attempt plus three retries.
	require.Equal(t, 4, calls)
	require.Same(t, last, res.Err)
	require.Equal(t, []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
	}, delays)
}

func TestDo_JitterBounded(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	iv := newTestInvoker(t,
		WithMaxRetries(1),
		WithInitialDelay(500*time.Millisecond),
		WithMaxJitter(200*time.Millisecond),
		WithSleep(recordingSleep(&delays)),
	)

	res := iv.Do(context.Background(), func(context.Context) Result {
		return Result{Err: &StatusError{Status: 500}}
	})

	require.Error(t, res.Err)
	require.Len(t, delays, 1)
	require.GreaterOrEqual(t, delays[0], 500*time.Millisecond)
	require.Less(t, delays[0], 700*time.Millisecond)
}

func TestDo_AbandonedBackoffSurfacesLastError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iv := newTestInvoker(t)

	calls := 0
	failure := errors.New("connection timeout")
	res := iv.Do(ctx, func(context.Context) Result {
		calls++
		return Result{Err: failure}
	})

	require.Equal(t, 1, calls)
	require.Same(t, failure, res.Err)
}

func TestDo_ZeroRetriesSingleAttempt(t *testing.T) {
	t.Parallel()

	iv := newTestInvoker(t, WithMaxRetries(0))

	calls := 0
	res := iv.Do(context.Background(), func(context.Context) Result {
		calls++
		return Result{Err: errors.New("socket closed")}
	})

	require.Equal(t, 1, calls)
	require.Error(t, res.Err)
}
