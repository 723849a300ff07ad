package citations

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate spaces calls to a rate-limited provider by a minimum interval.
// Burst is fixed at one so consecutive Wait calls are separated by at
// least the interval; the reservation is atomic, so concurrent generation
// requests cannot claim the same slot. There is no fairness guarantee
// between waiters.
type Gate struct {
	limiter *rate.Limiter
}

func NewGate(interval time.Duration) *Gate {
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next slot is available or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
