package connector

import (
	"context"
	"log"
	"time"
)

// Retrier re-runs a fetch on retryable failures with exponential backoff.
// AuthExpired and other non-retryable errors surface immediately.
type Retrier struct {
	MaxAttempts int
	BaseWait    time.Duration
}

// NewRetrier returns a retrier with the standard bounds (3 attempts, 1s base)
func NewRetrier() *Retrier {
	return &Retrier{MaxAttempts: 3, BaseWait: time.Second}
}

// FetchSince calls c.FetchSince, retrying retryable failures up to
// MaxAttempts with doubling waits. The last error is returned when
// attempts are exhausted.
func (r *Retrier) FetchSince(ctx context.Context, c Connector, userID, accessToken, watermark string) (*Page, error) {
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	wait := r.BaseWait
	if wait <= 0 {
		wait = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		page, err := c.FetchSince(ctx, userID, accessToken, watermark)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if !Retryable(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		log.Printf("[Connector] %s fetch attempt %d/%d failed, retrying in %s: %v",
			c.SourceType(), attempt, attempts, wait, err)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		wait *= 2
	}

	return nil, lastErr
}
