package natives

// ResetProcessState clears the state set up by Init.
func ResetProcessState() {
	initMu.Lock()
	defer initMu.Unlock()
	defaultDispatcher.Store(nil)
	currentContext.Store(nil)
	trampoline.Store(0)
}

// InFlight reports whether c is executing a handler.
func (c *CallContext) InFlight() bool { return c.inFlight }
