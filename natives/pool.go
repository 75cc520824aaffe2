package natives

import "sync"

// ContextPool hands out call contexts to concurrent callers, one per
// in-flight call.
type ContextPool struct {
	pool sync.Pool
}

// NewContextPool creates an empty pool.
func NewContextPool() *ContextPool {
	p := &ContextPool{}
	p.pool.New = func() any { return NewCallContext() }
	return p
}

// Get returns a reset context.
func (p *ContextPool) Get() *CallContext {
	c := p.pool.Get().(*CallContext)
	c.Reset()
	return c
}

// Put returns c to the pool. c must not be used afterwards.
func (p *ContextPool) Put(c *CallContext) {
	if c == nil || c.inFlight {
		return
	}
	p.pool.Put(c)
}
