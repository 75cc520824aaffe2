package natives

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/reglet-natives/domain/errors"
	"github.com/reglet-dev/reglet-natives/log"
)

// Dispatcher resolves natives from a registry and runs them against call
// contexts. It holds no per-call state; the same Dispatcher may serve many
// contexts concurrently.
type Dispatcher struct {
	registry *HandlerRegistry
	logger   *slog.Logger
	pool     *ContextPool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger used for dispatch diagnostics.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a Dispatcher over reg.
func NewDispatcher(reg *HandlerRegistry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		pool:     NewContextPool(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = log.OrDefault(d.logger)
	return d
}

// Registry returns the registry the dispatcher resolves natives from.
func (d *Dispatcher) Registry() *HandlerRegistry {
	return d.registry
}

// Dispatch runs the handler registered for hash against c.
//
// When no handler is registered the call is a no-op: the miss is logged at
// debug level and a *errors.MissingHandlerError is returned. Pending vector
// fix-ups are applied in both cases, so c is ready for the next call either
// way. The returned error belongs to c and is overwritten by the next miss
// on c. Dispatching on a context that is already executing a handler
// returns a *errors.ReentrantCallError and leaves c untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, c *CallContext, hash NativeHash) error {
	if c.inFlight {
		return &errors.ReentrantCallError{Hash: hash}
	}
	c.inFlight = true
	c.hash = hash
	defer func() { c.inFlight = false }()

	var err error
	if handler, ok := d.registry.Lookup(hash); ok {
		handler(ctx, c)
	} else {
		if d.logger.Enabled(ctx, slog.LevelDebug) {
			d.logger.DebugContext(ctx, "failed to find handler for native", log.Hash("hash", hash))
		}
		c.missing = errors.MissingHandlerError{Hash: hash}
		err = &c.missing
	}

	c.SetDataResults()
	return err
}

// Do runs fn on a pooled, reset call context and returns the context to the
// pool afterwards. fn must not retain the context.
func (d *Dispatcher) Do(ctx context.Context, fn func(c *CallContext) error) error {
	c := d.pool.Get()
	defer d.pool.Put(c)
	return fn(c)
}

// Invoke dispatches hash against whatever has been pushed onto c and returns
// result slot 0 as T. Nothing checks that T matches what the native wrote.
//
// On a missing handler the value currently in slot 0 is still returned,
// together with the error, so callers that only want the value can ignore
// the error.
func Invoke[T Value](ctx context.Context, d *Dispatcher, c *CallContext, hash NativeHash) (T, error) {
	err := d.Dispatch(ctx, c, hash)
	return ReadResult[T](c), err
}

// Call resets c, pushes args as raw slots and invokes hash.
func Call[T Value](ctx context.Context, d *Dispatcher, c *CallContext, hash NativeHash, args ...NativeValue) (T, error) {
	c.Reset()
	for _, a := range args {
		if err := c.PushValue(a); err != nil {
			var zero T
			return zero, err
		}
	}
	return Invoke[T](ctx, d, c, hash)
}
