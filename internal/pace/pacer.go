// Package pace spaces out calls to remote services.
package pace

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between consecutive events.
// The first Wait returns immediately; each later Wait blocks until at least
// the configured interval has passed since the previous one returned.
// A Pacer is safe for concurrent use.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New returns a Pacer allowing one event per interval.
// A zero or negative interval disables pacing.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the configured interval, zero when pacing is disabled.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the next event is allowed or ctx is done.
// A nil Pacer never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pace: %w", err)
	}
	return nil
}
