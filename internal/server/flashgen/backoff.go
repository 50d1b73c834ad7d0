package flashgen

import (
	"context"
	"time"

	"github.com/cardsmith/cardsmith/internal/common"
)

// Backoff computes retry delays: an exponential base delay per attempt, plus
// a fixed extra penalty when the provider is rate limiting us. It is
// decoupled from any particular client so the policy can be tuned per
// failure class.
type Backoff struct {
	// Base is the delay before the first retry; it doubles on every attempt.
	Base time.Duration
	// RateLimitPenalty is added on top of the exponential delay when the
	// failure class is rate limiting.
	RateLimitPenalty time.Duration
}

// DefaultBackoff mirrors the reference policy: 2s base, +5s for rate limits.
func DefaultBackoff() Backoff {
	return Backoff{Base: 2 * time.Second, RateLimitPenalty: 5 * time.Second}
}

// Delay returns the wait before retrying after the given zero-based attempt
// failed with the given class.
func (b Backoff) Delay(attempt int, kind common.ProviderKind) time.Duration {
	d := b.Base * time.Duration(1<<attempt)
	if kind == common.ProviderRateLimited {
		d += b.RateLimitPenalty
	}
	return d
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
