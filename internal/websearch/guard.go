package websearch

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/client-intel/internal/resilience"
)

// GuardConfig tunes a Guard.
type GuardConfig struct {
	// RatePerSec caps outgoing queries; zero disables limiting.
	RatePerSec float64
	// Timeout bounds each query.
	Timeout time.Duration
	Breaker resilience.CircuitBreakerConfig
}

// Guard wraps a Client with a rate limiter, a per-call timeout and a circuit
// breaker. Quota exhaustion on the upstream opens the circuit instead of
// burning every remaining request.
type Guard struct {
	next    Client
	limiter *rate.Limiter
	timeout time.Duration
	breaker *resilience.CircuitBreaker
}

// NewGuard wraps next.
func NewGuard(next Client, cfg GuardConfig) *Guard {
	g := &Guard{
		next:    next,
		timeout: cfg.Timeout,
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
	}
	if cfg.RatePerSec > 0 {
		burst := int(cfg.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return g
}

// Search implements Client.
func (g *Guard) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "websearch: rate limit wait")
		}
	}

	results, err := resilience.ExecuteVal(ctx, g.breaker, func(ctx context.Context) ([]Result, error) {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return g.next.Search(ctx, query, num)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, eris.Wrapf(err, "websearch: query %q", query)
	}
	return results, nil
}
