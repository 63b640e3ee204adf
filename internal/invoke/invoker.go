package invoke

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"
)

// ErrMaxRetriesExceeded is returned on the defensive path when the retry
// loop finishes without producing a result.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// AttemptFunc performs one underlying call attempt.
type AttemptFunc func(ctx context.Context) Result

// SleepFunc suspends the calling invocation for the given duration.
// It returns an error when the context is done before the delay elapses.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Invoker retries transient failures with exponential backoff and jitter.
// NewInvoker should be used to create instances of Invoker.
// Invokers hold no per-call state and are safe for concurrent use; the
// backoff delay suspends only the invocation that is waiting.
type Invoker struct {
	logger       hclog.Logger
	maxRetries   int
	initialDelay time.Duration
	maxJitter    time.Duration
	sleep        SleepFunc
}

// Option configures an Invoker.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Invoker) error

// NewInvoker creates an Invoker with default policy (3 retries, 500ms
// initial delay, up to 200ms of jitter) and applies the given options.
func NewInvoker(logger hclog.Logger, opt ...Option) (*Invoker, error) {
	if logger == nil || reflect.ValueOf(logger).IsNil() {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	iv := &Invoker{
		logger:       logger.Named("invoke"),
		maxRetries:   DefaultMaxRetries(),
		initialDelay: DefaultInitialDelay(),
		maxJitter:    DefaultMaxJitter(),
		sleep:        contextSleep,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(iv); err != nil {
			return nil, err
		}
	}

	return iv, nil
}

// WithMaxRetries sets the number of retries after the initial attempt.
func WithMaxRetries(n int) Option {
	return func(iv *Invoker) error {
		if n < 0 {
			return fmt.Errorf("max retries cannot be negative: %d", n)
		}
		iv.maxRetries = n
		return nil
	}
}

// WithInitialDelay sets the base backoff delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(iv *Invoker) error {
		if d < 0 {
			return fmt.Errorf("initial delay cannot be negative: %s", d)
		}
		iv.initialDelay = d
		return nil
	}
}

// WithMaxJitter sets the upper bound of the uniform random jitter added to
// every backoff delay. Zero disables jitter.
func WithMaxJitter(d time.Duration) Option {
	return func(iv *Invoker) error {
		if d < 0 {
			return fmt.Errorf("max jitter cannot be negative: %s", d)
		}
		iv.maxJitter = d
		return nil
	}
}

// WithSleep replaces the suspension function, letting tests control timing
// deterministically.
func WithSleep(fn SleepFunc) Option {
	return func(iv *Invoker) error {
		if fn == nil {
			return fmt.Errorf("sleep function cannot be nil")
		}
		iv.sleep = fn
		return nil
	}
}

// DefaultMaxRetries returns the default retry budget after the initial attempt.
func DefaultMaxRetries() int {
	return 3
}

// DefaultInitialDelay returns the default base backoff delay.
func DefaultInitialDelay() time.Duration {
	return 500 * time.Millisecond
}

// DefaultMaxJitter returns the default jitter upper bound.
func DefaultMaxJitter() time.Duration {
	return 200 * time.Millisecond
}

// Do runs attempt until it succeeds, fails terminally, or the retry budget
// is exhausted. Transient failures wait initialDelay * 2^attemptIndex plus
// uniform jitter before the next attempt. The last error result is returned
// as-is; it is never wrapped, so callers cannot distinguish an exhausted
// retry sequence from an immediate terminal failure.
func (iv *Invoker) Do(ctx context.Context, attempt AttemptFunc) Result {
	for i := 0; i <= iv.maxRetries; i++ {
		res := attempt(ctx)
		if res.Err == nil {
			return res
		}

		class := Classify(res.Err)
		if !class.Transient() || i == iv.maxRetries {
			return res
		}

		delay := iv.initialDelay << i
		if iv.maxJitter > 0 {
			delay += rand.N(iv.maxJitter)
		}

		iv.logger.Debug("retrying after transient failure",
			"class", class.String(),
			"attempt", i+1,
			"delay", delay,
			"error", res.Err,
		)

		if err := iv.sleep(ctx, delay); err != nil {
			// Abandoned mid-backoff: surface the failure being retried.
			return res
		}
	}

	return Result{Err: ErrMaxRetriesExceeded}
}

// contextSleep blocks for d or until ctx is done, whichever comes first.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
