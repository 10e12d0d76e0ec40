package middleware

import (
	"context"
	"time"

	"extcall/call"
	"extcall/protocol"
)

// RetryMiddleware retries budget rejections with exponential backoff.
//
// Only the budget-exhausted environment code is retried: that is the
// one failure where the operation is known not to have run, so a
// second attempt cannot double-apply anything. Operation failures and
// every other rejection return immediately; whether those are safe to
// repeat depends on the operation, which is the caller's call, not a
// middleware default.
func RetryMiddleware(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error) {
			out, err := next(ctx, desc)
			for attempt := 0; attempt < maxRetries; attempt++ {
				if err != nil || !isBudgetExhausted(out) {
					return out, err
				}
				// Exponential backoff between attempts, abandoned if
				// the caller's context ends first.
				delay := baseDelay * time.Duration(1<<attempt)
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return out, ctx.Err()
				case <-timer.C:
				}
				out, err = next(ctx, desc)
			}
			return out, err
		}
	}
}

func isBudgetExhausted(out call.RawOutcome) bool {
	s, err := protocol.ParseStatus(out.Status)
	if err != nil {
		return false
	}
	return s.Class == protocol.ClassEnvironment && s.Code == protocol.EnvBudgetExhausted
}
