// Package retry re-runs registry calls that failed on the way to the
// registry rather than at it.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"syscall"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// Policy says how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int

	// Wait is the pause after the first failure; it doubles per attempt
	// up to MaxWait.
	Wait    time.Duration
	MaxWait time.Duration

	// Retryable decides whether a failure is worth another attempt.
	// Nil means Transient.
	Retryable func(error) bool

	// OnRetry, when set, is called before each pause.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Lookups is the policy for read-only registry queries: three attempts,
// retrying transport failures only.
func Lookups() Policy {
	return Policy{
		Attempts:  3,
		Wait:      500 * time.Millisecond,
		MaxWait:   5 * time.Second,
		Retryable: IsTransportFailure,
	}
}

// Run calls fn until it succeeds, fails permanently, exhausts the policy or
// ctx ends. The last error from fn is returned.
func (p Policy) Run(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = Transient
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= attempts || !retryable(err) {
			return err
		}

		wait := p.pause(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		if wait > 0 && !sleep(ctx, wait) {
			return ctx.Err()
		}
	}
}

// pause is half the exponential step plus a random share of the other
// half.
func (p Policy) pause(attempt int) time.Duration {
	if p.Wait <= 0 {
		return 0
	}
	step := p.Wait << (attempt - 1)
	if step <= 0 || (p.MaxWait > 0 && step > p.MaxWait) {
		step = p.MaxWait
	}
	half := step / 2
	return half + rand.N(step-half+1)
}

// Transient reports whether err looks like a network hiccup: a refused or
// reset connection, a timeout, or an error that calls itself temporary.
// Cancellation is never transient.
func Transient(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET):
		return true
	}

	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) && temp.Temporary() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransportFailure reports whether err is a registry request error caused
// by a transient transport problem. Registry-reported failures, validation
// failures and unreadable replies are never retried.
func IsTransportFailure(err error) bool {
	if !errors.Is(err, domain.ErrRequest) {
		return false
	}
	var regErr *domain.Error
	return errors.As(err, &regErr) && regErr.Err != nil && Transient(regErr.Err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
