// Package retry runs an attempt function under a bounded exponential policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds the number of attempts and shapes the delays between them.
// With the defaults the waits are 1s, 2s, 4s and so on.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
		MaxDelay:     30 * time.Second,
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerSleeper is the real-clock Sleeper.
var TimerSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err as not worth retrying. Do returns the wrapped error as is.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Retrier owns a policy and a sleeper. The zero value is not usable; use New.
type Retrier struct {
	policy  Policy
	sleeper Sleeper
}

func New(policy Policy, sleeper Sleeper) *Retrier {
	def := DefaultPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = def.InitialDelay
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = def.Multiplier
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = def.MaxDelay
	}
	if sleeper == nil {
		sleeper = TimerSleeper
	}
	return &Retrier{policy: policy, sleeper: sleeper}
}

func (r *Retrier) scheduler() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialDelay
	b.Multiplier = r.policy.Multiplier
	b.MaxInterval = r.policy.MaxDelay
	b.RandomizationFactor = 0
	b.Reset()
	return b
}

// Do calls attempt with 1-based attempt numbers until it succeeds, returns a
// Fatal error, the context ends, or MaxAttempts is reached.
func (r *Retrier) Do(ctx context.Context, attempt func(ctx context.Context, n int) error) error {
	sched := r.scheduler()
	var last error

	for n := 1; n <= r.policy.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attempt(ctx, n)
		if err == nil {
			return nil
		}

		var fe *fatalError
		if errors.As(err, &fe) {
			return fe.err
		}
		last = err

		if n == r.policy.MaxAttempts {
			break
		}
		if err := r.sleeper.Sleep(ctx, sched.NextBackOff()); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: r.policy.MaxAttempts, Last: last}
}
