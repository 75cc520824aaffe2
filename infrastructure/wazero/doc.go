// Package wazero connects the native dispatcher with the wazero WebAssembly
// runtime in both directions.
//
//   - ModuleSource is a natives.RegistrationSource whose natives are the
//     exported functions of an instantiated module. Runtime hashes map to
//     export names (native_<16 hex digits> by default), and the produced
//     handler calls the export with the call context's stack, so parameters
//     come from the argument slots and results land in the result slots.
//   - RegisterWithRuntime instantiates a host module that lets guest code
//     reach a natives.Dispatcher through a single invoke import.
//
// # Basic Usage
//
//	runtime := wazero.NewRuntime(ctx)
//	game, err := runtime.Instantiate(ctx, gameWasm)
//	if err != nil {
//	    return err
//	}
//
//	registry, err := natives.NewRegistry(
//	    natives.WithRemap(table, wazero.NewModuleSource(game)),
//	)
//	if err != nil {
//	    return err
//	}
//	dispatcher := natives.NewDispatcher(registry)
//
//	// Let other guests call natives through the dispatcher.
//	err = wazero.RegisterWithRuntime(ctx, runtime, dispatcher)
package wazero
