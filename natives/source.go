package natives

// RegistrationSource resolves runtime hashes to handlers. It stands for the
// external runtime's own registration table and is consulted only while a
// registry is being built.
type RegistrationSource interface {
	NativeHandler(runtime NativeHash) (Handler, bool)
}

// SourceFunc adapts a function to RegistrationSource.
type SourceFunc func(runtime NativeHash) (Handler, bool)

// NativeHandler implements RegistrationSource.
func (f SourceFunc) NativeHandler(runtime NativeHash) (Handler, bool) {
	return f(runtime)
}

// MapSource is a RegistrationSource backed by a map of runtime hashes.
type MapSource map[NativeHash]Handler

// NativeHandler implements RegistrationSource.
func (s MapSource) NativeHandler(runtime NativeHash) (Handler, bool) {
	h, ok := s[runtime]
	return h, ok
}
