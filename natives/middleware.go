package natives

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/reglet-natives/log"
)

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	counting := func(next Handler) Handler {
//	    return func(ctx context.Context, c *CallContext) {
//	        calls[c.Hash()]++
//	        next(ctx, c)
//	    }
//	}
type Middleware func(next Handler) Handler

// PanicRecoveryMiddleware returns a middleware that stops a panicking
// handler from unwinding into the caller. The panic is logged at error level
// and the call completes with whatever the handler had written.
// A nil logger means slog.Default().
func PanicRecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *CallContext) {
			defer func() {
				if r := recover(); r != nil {
					log.OrDefault(logger).ErrorContext(ctx, "native handler panicked",
						log.Hash("hash", c.Hash()),
						slog.Any("panic", r),
					)
				}
			}()
			next(ctx, c)
		}
	}
}

// LoggingMiddleware returns a middleware that logs every native invocation
// at debug level with its argument count.
// A nil logger means slog.Default().
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *CallContext) {
			l := log.OrDefault(logger)
			l.DebugContext(ctx, "invoking native",
				log.Hash("hash", c.Hash()),
				slog.Int("args", c.ArgCount()),
			)
			next(ctx, c)
			l.DebugContext(ctx, "native completed", log.Hash("hash", c.Hash()))
		}
	}
}
