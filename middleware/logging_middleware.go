package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"extcall/call"
	"extcall/protocol"
)

// LoggingMiddleware logs one event per dispatch: the unpacked
// identifier, payload size, resulting status word, and duration.
// Success logs at debug, failures at warn.
func LoggingMiddleware(logger zerolog.Logger) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, desc call.Descriptor) (call.RawOutcome, error) {
			start := time.Now()
			out, err := next(ctx, desc)
			took := time.Since(start)

			id, idErr := protocol.ParseID(desc.ID)
			event := logger.Debug()
			if err != nil || !out.Ok() {
				event = logger.Warn()
			}
			if idErr == nil {
				event = event.
					Str("module", protocol.ModuleName(id.Module)).
					Uint8("function", id.Function).
					Uint8("version", id.Version)
			} else {
				event = event.Uint32("id", desc.ID)
			}
			event = event.
				Int("payload_bytes", len(desc.Payload)).
				Hex("status", statusBytes(out.Status)).
				Dur("took", took)
			if err != nil {
				event = event.Err(err)
			}
			event.Msg("extension call")

			return out, err
		}
	}
}

func statusBytes(word uint32) []byte {
	return []byte{byte(word), byte(word >> 8), byte(word >> 16), byte(word >> 24)}
}
