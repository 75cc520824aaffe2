package natives

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/reglet-dev/reglet-natives/domain/entities"
	"github.com/reglet-dev/reglet-natives/domain/errors"
	"github.com/reglet-dev/reglet-natives/log"
)

// Handler performs one native's work. It reads its arguments from the call
// context and writes its results back into the same context.
type Handler func(ctx context.Context, c *CallContext)

// HandlerRegistry maps stable native hashes to handlers.
//
// Lookups read an immutable snapshot and take no lock. Register publishes a
// new snapshot, so it is safe against concurrent lookups but costs a copy of
// the table; it is meant for occasional dynamic registration after the
// registry has been built.
type HandlerRegistry struct {
	handlers   atomic.Pointer[map[NativeHash]Handler]
	mu         sync.Mutex // serializes writers
	middleware []Middleware
	logger     *slog.Logger
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	handlers   map[NativeHash]Handler
	middleware []Middleware
	logger     *slog.Logger
	errors     []error
}

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates a HandlerRegistry with the given options. Options are
// applied in order; a hash written twice keeps the last handler.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware(nil)),
//	    WithRemap(table, source),
//	    WithHandler(0x1111, customHandler),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		handlers: make(map[NativeHash]Handler),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	r := &HandlerRegistry{
		middleware: b.middleware,
		logger:     log.OrDefault(b.logger),
	}

	wrapped := make(map[NativeHash]Handler, len(b.handlers))
	for hash, handler := range b.handlers {
		wrapped[hash] = r.wrap(handler)
	}
	r.handlers.Store(&wrapped)

	return r, nil
}

// Lookup returns the handler registered for a stable hash.
func (r *HandlerRegistry) Lookup(hash NativeHash) (Handler, bool) {
	h, ok := (*r.handlers.Load())[hash]
	return h, ok
}

// Has reports whether a handler is registered for hash.
func (r *HandlerRegistry) Has(hash NativeHash) bool {
	_, ok := r.Lookup(hash)
	return ok
}

// Len returns the number of registered handlers.
func (r *HandlerRegistry) Len() int {
	return len(*r.handlers.Load())
}

// Hashes returns the registered hashes in ascending order.
func (r *HandlerRegistry) Hashes() []NativeHash {
	current := *r.handlers.Load()
	hashes := make([]NativeHash, 0, len(current))
	for hash := range current {
		hashes = append(hashes, hash)
	}
	slices.Sort(hashes)
	return hashes
}

// Register inserts or replaces the handler for hash. The registry's
// middleware is applied to it. A nil handler is ignored.
func (r *HandlerRegistry) Register(hash NativeHash, handler Handler) {
	if handler == nil {
		return
	}
	r.update(func(m map[NativeHash]Handler) {
		m[hash] = r.wrap(handler)
	})
}

// BuildFromRemap resolves every runtime hash in table through source and
// registers the handler under the entry's stable hash. Runtime hashes the
// source cannot resolve are skipped. It returns the number of handlers
// registered.
func (r *HandlerRegistry) BuildFromRemap(table entities.RemapTable, source RegistrationSource) int {
	r.logger.Debug("registering natives", slog.Int("remap_entries", len(table)))

	resolved := resolveRemap(table, source)
	r.update(func(m map[NativeHash]Handler) {
		for _, rh := range resolved {
			m[rh.hash] = r.wrap(rh.handler)
		}
	})

	r.logger.Debug("registered natives",
		slog.Int("resolved", len(resolved)),
		slog.Int("skipped", len(table)-len(resolved)),
		slog.Int("total", r.Len()),
	)
	return len(resolved)
}

// update applies fn to a copy of the current table and publishes the copy.
func (r *HandlerRegistry) update(fn func(map[NativeHash]Handler)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.handlers.Load()
	next := make(map[NativeHash]Handler, len(current)+1)
	for hash, handler := range current {
		next[hash] = handler
	}
	fn(next)
	r.handlers.Store(&next)
}

// wrap applies middleware so the first middleware added is outermost.
func (r *HandlerRegistry) wrap(handler Handler) Handler {
	wrapped := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}
	return wrapped
}

type resolvedHandler struct {
	handler Handler
	hash    NativeHash
}

func resolveRemap(table entities.RemapTable, source RegistrationSource) []resolvedHandler {
	resolved := make([]resolvedHandler, 0, len(table))
	for _, entry := range table {
		handler, ok := source.NativeHandler(entry.Runtime)
		if !ok || handler == nil {
			continue
		}
		resolved = append(resolved, resolvedHandler{hash: entry.Stable, handler: handler})
	}
	return resolved
}

// WithHandler registers a handler under a stable hash.
func WithHandler(hash NativeHash, handler Handler) RegistryOption {
	return func(b *registryBuilder) {
		if handler == nil {
			b.errors = append(b.errors, fmt.Errorf("nil handler for native %s", hash))
			return
		}
		b.handlers[hash] = handler
	}
}

// WithBundle registers every handler of a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for hash, handler := range bundle.Handlers() {
			WithHandler(hash, handler)(b)
		}
	}
}

// WithRemap registers the handlers source resolves for table's runtime
// hashes under their stable hashes. A table that maps a stable hash twice is
// rejected.
func WithRemap(table entities.RemapTable, source RegistrationSource) RegistryOption {
	return func(b *registryBuilder) {
		if source == nil {
			b.errors = append(b.errors, fmt.Errorf("nil registration source"))
			return
		}
		if dups := table.Duplicates(); len(dups) > 0 {
			b.errors = append(b.errors, &errors.DuplicateRemapError{Stable: dups[0]})
			return
		}
		for _, rh := range resolveRemap(table, source) {
			b.handlers[rh.hash] = rh.handler
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithLogger sets the logger used for registry diagnostics.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(b *registryBuilder) {
		b.logger = l
	}
}
