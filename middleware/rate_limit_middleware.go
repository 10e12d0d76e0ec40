package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"extcall/call"
)

// RateLimitMiddleware paces dispatches through a token bucket.
// It waits for a token rather than failing fast: a synthesized
// rejection would be indistinguishable from a real environment status,
// and status words belong to the environment alone. If the caller's
// context ends while waiting, the wait error is returned and no
// dispatch happens.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Invoker) Invoker {
		return func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error) {
			if err := limiter.Wait(ctx); err != nil {
				return call.RawOutcome{}, err
			}
			return next(ctx, desc)
		}
	}
}
