// Package middleware provides caller-side wrappers around the dispatch
// step. The core call layer never retries, logs, or throttles; when a
// caller wants those policies, it installs them here, outside the
// layer, where it owns them.
//
// An Invoker is one hop of the dispatch pipeline. Middleware wraps an
// Invoker and returns a new one; Chain composes several so the first
// listed middleware becomes the outermost wrapper.
package middleware

import (
	"context"

	"extcall/call"
)

// Invoker performs one dispatch. A non-nil error means the call never
// produced a boundary outcome (local policy stopped it); a nil error
// hands back exactly what the boundary returned. Middleware must never
// fabricate a RawOutcome: status words come from the environment only.
type Invoker func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error)

// Middleware wraps an Invoker with one policy.
type Middleware func(next Invoker) Invoker

// Chain combines middlewares into one. Wrapping runs in reverse so
// that Chain(a, b, c) executes a(b(c(next))): first listed, outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Invoker) Invoker {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
