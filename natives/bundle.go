package natives

// Bundle is a pre-configured set of related handlers keyed by stable hash.
// Bundles allow registering multiple handlers at once.
type Bundle interface {
	// Handlers returns a map of stable hashes to handlers.
	Handlers() map[NativeHash]Handler
}

// staticBundle implements Bundle with a fixed set of handlers.
type staticBundle struct {
	handlers map[NativeHash]Handler
}

func (b *staticBundle) Handlers() map[NativeHash]Handler {
	return b.handlers
}

// StaticBundle returns a bundle serving the given handlers.
func StaticBundle(handlers map[NativeHash]Handler) Bundle {
	return &staticBundle{handlers: handlers}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Handlers() map[NativeHash]Handler {
	result := make(map[NativeHash]Handler)
	for _, bundle := range b.bundles {
		for hash, handler := range bundle.Handlers() {
			result[hash] = handler
		}
	}
	return result
}

// Bundles combines bundles. When two bundles share a hash the later one wins.
func Bundles(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}
