package crawl

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/howto"
	"golang.org/x/time/rate"
)

var _ howto.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each domain.
// Every domain gets its own token bucket refilled once per minDelay, and
// each granted request additionally sleeps a random jitter of up to
// maxDelay-minDelay so request timing does not look mechanical.
// Requests to different domains never wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	jitter   time.Duration
}

// NewDomainLimiter creates a DomainLimiter that waits between minDelay and
// maxDelay between requests to the same domain. A non-positive minDelay
// disables the token bucket; maxDelay below minDelay disables jitter.
func NewDomainLimiter(minDelay, maxDelay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		jitter:   max(maxDelay-max(minDelay, 0), 0),
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if d.jitter <= 0 {
		return nil
	}

	timer := time.NewTimer(rand.N(d.jitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
