package wazero

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/reglet-dev/reglet-natives/domain/errors"
	"github.com/reglet-dev/reglet-natives/log"
	"github.com/reglet-dev/reglet-natives/natives"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives dispatch failures. Default is slog.Default().
	Logger *slog.Logger

	// ModuleName is the host module name (default: "natives").
	ModuleName string

	// InvokeName is the exported function name (default: "invoke").
	InvokeName string
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "natives").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithInvokeName sets the name of the exported invoke function.
func WithInvokeName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.InvokeName = name
	}
}

// WithLogger sets the adapter's logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

// defaultAdapterConfig returns the default adapter configuration.
func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName: "natives",
		InvokeName: "invoke",
	}
}

// adapter routes guest invoke calls into a dispatcher.
type adapter struct {
	dispatcher *natives.Dispatcher
	logger     *slog.Logger
}

// RegisterWithRuntime instantiates a host module exporting
//
//	invoke(hash i64, args_ptr i32, argc i32) -> i64
//
// Guests pass argc little-endian u64 argument slots starting at args_ptr in
// their own memory. The native runs on a pooled call context and result
// slot 0 is returned. A missing native, an argc above natives.StackSize or
// arguments outside guest memory return 0.
//
// Example:
//
//	dispatcher := natives.NewDispatcher(registry)
//	err := wazero.RegisterWithRuntime(ctx, runtime, dispatcher,
//	    wazero.WithModuleName("natives"),
//	)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, dispatcher *natives.Dispatcher, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &adapter{
		dispatcher: dispatcher,
		logger:     log.OrDefault(cfg.Logger),
	}

	_, err := runtime.NewHostModuleBuilder(cfg.ModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(a.invoke),
			[]api.ValueType{api.ValueTypeI64, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI64}).
		WithParameterNames("hash", "args_ptr", "argc").
		Export(cfg.InvokeName).
		Instantiate(ctx)
	return err
}

func (a *adapter) invoke(ctx context.Context, mod api.Module, stack []uint64) {
	hash := natives.NativeHash(stack[0])
	ptr := api.DecodeU32(stack[1])
	argc := api.DecodeU32(stack[2])

	var mem api.Memory
	if mod != nil {
		mem = mod.Memory()
	}
	stack[0] = a.dispatch(WithCaller(ctx, callerName(ctx, mod)), mem, hash, ptr, argc)
}

// dispatch reads argc argument slots from mem and runs hash.
func (a *adapter) dispatch(ctx context.Context, mem api.Memory, hash natives.NativeHash, ptr, argc uint32) uint64 {
	if argc > natives.StackSize {
		a.logger.ErrorContext(ctx, "wazero: too many native arguments",
			log.Hash("hash", hash), slog.Uint64("argc", uint64(argc)))
		return 0
	}
	if argc > 0 && mem == nil {
		a.logger.ErrorContext(ctx, "wazero: caller has no memory for native arguments", log.Hash("hash", hash))
		return 0
	}
	if argc > 0 && uint64(ptr)+8*uint64(argc) > uint64(mem.Size()) {
		a.logger.ErrorContext(ctx, "wazero: native arguments are outside guest memory",
			log.Hash("hash", hash),
			slog.Uint64("args_ptr", uint64(ptr)),
			slog.Uint64("argc", uint64(argc)),
		)
		return 0
	}

	var result uint64
	err := a.dispatcher.Do(ctx, func(c *natives.CallContext) error {
		for i := uint32(0); i < argc; i++ {
			v, ok := mem.ReadUint64Le(ptr + 8*i)
			if !ok {
				return fmt.Errorf("argument %d at offset %d is outside guest memory", i, ptr+8*i)
			}
			if err := c.PushValue(v); err != nil {
				return err
			}
		}
		r, err := natives.Invoke[uint64](ctx, a.dispatcher, c, hash)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		if stdErrors.Is(err, errors.ErrHandlerNotFound) {
			// Already logged at debug level by the dispatcher.
			return 0
		}
		a.logger.ErrorContext(ctx, "wazero: native dispatch failed",
			log.Hash("hash", hash),
			slog.String("caller", callerName(ctx, nil)),
			slog.Any("error", err),
		)
		return 0
	}
	return result
}
