package natives

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/reglet-dev/reglet-natives/domain/entities"
)

var (
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = stdErrors.New("natives: already initialized")

	// ErrNotInitialized is returned by process-wide calls made before Init.
	ErrNotInitialized = stdErrors.New("natives: not initialized")
)

// process-wide state set up by Init.
var (
	initMu            sync.Mutex
	defaultDispatcher atomic.Pointer[Dispatcher]
	currentContext    atomic.Pointer[CallContext]
	trampoline        atomic.Uintptr
)

// Init sets up the process-wide call context and builds the default
// registry from table, resolving runtime hashes through source. It must be
// called exactly once before Default, Current or InvokeDefault are used.
// Additional registry options (middleware, logger, extra handlers) are
// applied before the remap.
func Init(source RegistrationSource, table entities.RemapTable, opts ...RegistryOption) error {
	initMu.Lock()
	defer initMu.Unlock()

	if defaultDispatcher.Load() != nil {
		return ErrAlreadyInitialized
	}

	all := make([]RegistryOption, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithRemap(table, source))

	reg, err := NewRegistry(all...)
	if err != nil {
		return err
	}
	reg.logger.Debug("natives initialized", slog.Int("total", reg.Len()))

	currentContext.Store(NewCallContext())
	defaultDispatcher.Store(NewDispatcher(reg, WithDispatcherLogger(reg.logger)))
	return nil
}

// Default returns the process-wide dispatcher, or nil before Init.
func Default() *Dispatcher {
	return defaultDispatcher.Load()
}

// Current returns the process-wide call context, or nil before Init.
// Callers sharing it must serialize the whole reset/push/invoke/read
// sequence themselves.
func Current() *CallContext {
	return currentContext.Load()
}

// InvokeDefault invokes hash on the process-wide context with whatever has
// been pushed onto Current.
func InvokeDefault[T Value](ctx context.Context, hash NativeHash) (T, error) {
	d, c := Default(), Current()
	if d == nil || c == nil {
		var zero T
		return zero, ErrNotInitialized
	}
	return Invoke[T](ctx, d, c, hash)
}

// SetTrampoline stores the address of an externally installed trampoline
// that routes the runtime's native-call path into this package. The address
// is only recorded; nothing here jumps to it.
func SetTrampoline(addr uintptr) {
	trampoline.Store(addr)
}

// Trampoline returns the address recorded by SetTrampoline, or 0.
func Trampoline() uintptr {
	return trampoline.Load()
}
