// Package operations provides a bounded wait primitive for the
// asynchronous, eventually-consistent operations cloud providers return
// from mutating requests.
package operations

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Status of an asynchronous provider operation as observed by a probe.
type Status int

const (
	// Pending means the operation has not reached a terminal state.
	Pending Status = iota
	// Done means the operation finished. Whether it succeeded is
	// carried by the probe's result, not by the status.
	Done
)

// ErrWaitTimeout is returned when the attempt budget is exhausted while
// the operation is still pending. The underlying provider operation may
// still complete later; the wait never tries to cancel it.
var ErrWaitTimeout = errors.New("timed out waiting for operation to complete")

var errStillPending = errors.New("operation still pending")

// Probe queries the current state of an operation once. It must be
// idempotent and side-effect-free: repeated calls report the latest
// provider truth. A non-nil error is terminal and ends the wait
// immediately.
type Probe[T any] func(ctx context.Context) (T, Status, error)

// WaitForTerminal calls probe up to attempts times, waiting interval
// between calls, and returns the result of the first probe that
// reports Done. It returns the probe's error unchanged if one occurs,
// ErrWaitTimeout once the attempt budget is exhausted, and the context
// error if ctx is cancelled mid-wait. Concurrent waits are independent;
// no shared resources are held while sleeping.
func WaitForTerminal[T any](ctx context.Context, probe Probe[T], attempts int, interval time.Duration) (T, error) {
	var result T
	if attempts < 1 {
		attempts = 1
	}

	op := func() error {
		res, status, err := probe(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if status != Done {
			return errStillPending
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		var zero T
		if errors.Is(err, errStillPending) {
			return zero, ErrWaitTimeout
		}
		return zero, err
	}
	return result, nil
}
