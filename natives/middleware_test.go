package natives_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/reglet-natives/internal/testutil"
	"github.com/reglet-dev/reglet-natives/log"
	"github.com/reglet-dev/reglet-natives/natives"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(&buf)

	d := newDispatcher(t,
		natives.WithMiddleware(natives.PanicRecoveryMiddleware(logger)),
		natives.WithHandler(0x1, func(_ context.Context, c *natives.CallContext) {
			natives.SetResult(c, 0, int32(5))
			panic("test panic")
		}),
	)
	c := natives.NewCallContext()

	var got int32
	var err error
	require.NotPanics(t, func() {
		got, err = natives.Invoke[int32](context.Background(), d, c, 0x1)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), got, "results written before the panic are kept")
	assert.Contains(t, buf.String(), "native handler panicked")
	assert.Contains(t, buf.String(), "test panic")
	assert.Contains(t, buf.String(), "hash=0x1")
}

func TestPanicRecoveryMiddleware_NoPanic(t *testing.T) {
	d := newDispatcher(t,
		natives.WithMiddleware(natives.PanicRecoveryMiddleware(nil)),
		natives.WithHandler(0x1, testutil.ConstHandler(int32(42))),
	)
	c := natives.NewCallContext()

	got, err := natives.Invoke[int32](context.Background(), d, c, 0x1)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(&buf, log.WithLevel(slog.LevelDebug))

	d := newDispatcher(t,
		natives.WithMiddleware(natives.LoggingMiddleware(logger)),
		natives.WithHandler(0xABC, testutil.SumHandler()),
	)
	c := natives.NewCallContext()

	_, err := natives.Call[int64](context.Background(), d, c, 0xABC, 1, 2)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "invoking native")
	assert.Contains(t, out, "hash=0xABC")
	assert.Contains(t, out, "args=2")
	assert.Contains(t, out, "native completed")
}

func TestMiddlewareOrder_FIFO(t *testing.T) {
	var callOrder []string

	middleware1 := func(next natives.Handler) natives.Handler {
		return func(ctx context.Context, c *natives.CallContext) {
			callOrder = append(callOrder, "mw1-before")
			next(ctx, c)
			callOrder = append(callOrder, "mw1-after")
		}
	}

	middleware2 := func(next natives.Handler) natives.Handler {
		return func(ctx context.Context, c *natives.CallContext) {
			callOrder = append(callOrder, "mw2-before")
			next(ctx, c)
			callOrder = append(callOrder, "mw2-after")
		}
	}

	handler := func(context.Context, *natives.CallContext) {
		callOrder = append(callOrder, "handler")
	}

	d := newDispatcher(t,
		natives.WithMiddleware(middleware1, middleware2),
		natives.WithHandler(0x1, handler),
	)

	require.NoError(t, d.Dispatch(context.Background(), natives.NewCallContext(), 0x1))

	// FIFO order: mw1 wraps mw2 wraps handler
	expected := []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}
	assert.Equal(t, expected, callOrder)
}
