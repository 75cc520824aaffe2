// Package natives dispatches calls into an external runtime's native routines.
//
// A native is identified only by a numeric hash. Callers compose a call on a
// CallContext (a fixed 64-slot stack shared by arguments and results), then
// hand it to a Dispatcher, which resolves the handler from a HandlerRegistry
// and runs it against the context. The registry is keyed by stable hashes;
// it is populated from a remap table that translates each stable hash to the
// hash the current runtime version uses, resolved through a
// RegistrationSource.
//
//	reg, err := natives.NewRegistry(
//	    natives.WithMiddleware(natives.PanicRecoveryMiddleware(nil)),
//	    natives.WithRemap(table, source),
//	)
//	d := natives.NewDispatcher(reg)
//	c := natives.NewCallContext()
//
//	c.Reset()
//	_ = natives.Push(c, int32(7))
//	v, err := natives.Invoke[int32](ctx, d, c, 0x1111)
//
// A CallContext must not be shared between goroutines while a call is being
// composed or dispatched. Use a ContextPool or Dispatcher.Do for concurrent
// callers.
package natives
