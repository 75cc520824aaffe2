package wazero

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tetratelabs/wazero/api"

	"github.com/reglet-dev/reglet-natives/log"
	"github.com/reglet-dev/reglet-natives/natives"
)

// ExportNamer maps a runtime hash to the export that implements it.
type ExportNamer func(runtime natives.NativeHash) string

// DefaultExportName names natives native_<hash as 16 lower-case hex digits>.
func DefaultExportName(runtime natives.NativeHash) string {
	return fmt.Sprintf("native_%016x", uint64(runtime))
}

// sourceConfig holds configuration for a ModuleSource.
type sourceConfig struct {
	exportName ExportNamer
	logger     *slog.Logger
}

// SourceOption configures a ModuleSource.
type SourceOption func(*sourceConfig)

// WithExportNamer overrides how runtime hashes map to export names.
func WithExportNamer(fn ExportNamer) SourceOption {
	return func(c *sourceConfig) {
		c.exportName = fn
	}
}

// WithSourceLogger sets the logger used when an export fails.
func WithSourceLogger(l *slog.Logger) SourceOption {
	return func(c *sourceConfig) {
		c.logger = l
	}
}

// ModuleSource resolves runtime hashes to the exported functions of one
// module instance. Each handler keeps a pool of function handles, so
// concurrent calls and natives that call back into the dispatcher never
// share one api.Function.
type ModuleSource struct {
	mod api.Module
	cfg sourceConfig
}

// NewModuleSource creates a registration source over mod.
func NewModuleSource(mod api.Module, opts ...SourceOption) *ModuleSource {
	cfg := sourceConfig{exportName: DefaultExportName}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = log.OrDefault(cfg.logger)
	return &ModuleSource{mod: mod, cfg: cfg}
}

// NativeHandler implements natives.RegistrationSource.
// Exports whose parameters or results do not fit in the stack are not
// resolved, and neither is anything on a module that cannot export
// functions to the host.
func (s *ModuleSource) NativeHandler(runtime natives.NativeHash) (natives.Handler, bool) {
	name := s.cfg.exportName(runtime)
	fn := exportedFunction(s.mod, name)
	if fn == nil {
		return nil, false
	}

	def := fn.Definition()
	width := max(len(def.ParamTypes()), len(def.ResultTypes()))
	if width > natives.StackSize {
		s.cfg.logger.Warn("export does not fit the native stack",
			log.Hash("runtime", runtime),
			slog.String("export", name),
			slog.Int("slots", width),
		)
		return nil, false
	}

	// api.Function is not safe for concurrent or nested calls.
	fns := &sync.Pool{New: func() any { return exportedFunction(s.mod, name) }}
	fns.Put(fn)

	return func(ctx context.Context, c *natives.CallContext) {
		f, _ := fns.Get().(api.Function)
		if f == nil {
			s.cfg.logger.ErrorContext(ctx, "native export is gone",
				log.Hash("hash", c.Hash()),
				slog.String("export", name),
			)
			return
		}
		err := f.CallWithStack(ctx, c.Stack()[:width])
		fns.Put(f)
		if err != nil {
			s.cfg.logger.ErrorContext(ctx, "native export failed",
				log.Hash("hash", c.Hash()),
				slog.String("export", name),
				slog.Any("error", err),
			)
		}
	}, true
}

// exportedFunction looks up an export, returning nil for modules that
// refuse the lookup (wazero panics on host modules).
func exportedFunction(mod api.Module, name string) (fn api.Function) {
	defer func() {
		if r := recover(); r != nil {
			fn = nil
		}
	}()
	return mod.ExportedFunction(name)
}
