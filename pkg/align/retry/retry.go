package retry

import (
	"context"
	"time"
)

// Policy is a reusable retry schedule. One policy object serves every call
// site that needs the same backoff behavior, instead of ad hoc loops.
type Policy struct {
	MaxAttempts int
	Backoff     []time.Duration
	// Retryable decides whether a failure is worth another attempt. A nil
	// predicate retries everything.
	Retryable func(error) bool
}

// Do runs fn up to MaxAttempts times, sleeping the scheduled backoff between
// attempts. It returns nil on the first success, the last error once attempts
// are exhausted or the error is not retryable, and ctx.Err() if the context
// ends mid-wait.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, p.backoffFor(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (p Policy) backoffFor(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
