package testutil

import (
	"context"
	"sync"

	"github.com/reglet-dev/reglet-natives/natives"
)

// ConstHandler returns a handler that writes v into result slot 0.
func ConstHandler[T natives.Value](v T) natives.Handler {
	return func(_ context.Context, c *natives.CallContext) {
		natives.SetResult(c, 0, v)
	}
}

// SumHandler returns a handler that adds its int64 arguments and writes the
// sum into result slot 0.
func SumHandler() natives.Handler {
	return func(_ context.Context, c *natives.CallContext) {
		var sum int64
		for i := 0; i < c.ArgCount(); i++ {
			sum += natives.Arg[int64](c, i)
		}
		natives.SetResult(c, 0, sum)
	}
}

// Recorder counts handler invocations per hash.
type Recorder struct {
	mu    sync.Mutex
	calls map[natives.NativeHash]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{calls: make(map[natives.NativeHash]int)}
}

// Handler returns a handler that records its invocation and then runs next,
// if next is non-nil.
func (r *Recorder) Handler(next natives.Handler) natives.Handler {
	return func(ctx context.Context, c *natives.CallContext) {
		r.mu.Lock()
		r.calls[c.Hash()]++
		r.mu.Unlock()
		if next != nil {
			next(ctx, c)
		}
	}
}

// Calls returns how many times the native hash was dispatched to a recorded
// handler.
func (r *Recorder) Calls(hash natives.NativeHash) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[hash]
}

// Total returns the number of recorded invocations.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

// CountingSource wraps a RegistrationSource and counts queries.
type CountingSource struct {
	Source  natives.RegistrationSource
	Queries []natives.NativeHash
}

// NativeHandler implements natives.RegistrationSource.
func (s *CountingSource) NativeHandler(runtime natives.NativeHash) (natives.Handler, bool) {
	s.Queries = append(s.Queries, runtime)
	return s.Source.NativeHandler(runtime)
}
