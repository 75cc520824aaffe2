package wazero

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// memoryModule exports one page of memory as "memory".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// memory section
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// gameModule stands in for the runtime whose natives are remapped:
//
//	native_000000000000bbbb (i32, i32) -> i32        a * b
//	native_000000000000cccc (f32) -> f32             x * 0.5
//	native_000000000000dddd (i32) -> (f32, f32, f32) (id, id + 0.5, -1)
//	native_000000000000eeee () -> i32                unreachable
var gameModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section
	0x01, 0x17, 0x04, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, 0x60, 0x01, 0x7d,
	0x01, 0x7d, 0x60, 0x01, 0x7f, 0x03, 0x7d, 0x7d, 0x7d, 0x60, 0x00, 0x01,
	0x7f,
	// function section
	0x03, 0x05, 0x04, 0x00, 0x01, 0x02, 0x03,
	// export section
	0x07, 0x69, 0x04, 0x17, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65, 0x5f, 0x30,
	0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x62,
	0x62, 0x62, 0x62, 0x00, 0x00, 0x17, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65,
	0x5f, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x63, 0x63, 0x63, 0x63, 0x00, 0x01, 0x17, 0x6e, 0x61, 0x74, 0x69,
	0x76, 0x65, 0x5f, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x30, 0x30, 0x64, 0x64, 0x64, 0x64, 0x00, 0x02, 0x17, 0x6e, 0x61,
	0x74, 0x69, 0x76, 0x65, 0x5f, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x30, 0x30, 0x30, 0x30, 0x65, 0x65, 0x65, 0x65, 0x00, 0x03,
	// code section
	0x0a, 0x2c, 0x04, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6c, 0x0b, 0x0a,
	0x00, 0x20, 0x00, 0x43, 0x00, 0x00, 0x00, 0x3f, 0x94, 0x0b, 0x13, 0x00,
	0x20, 0x00, 0xb2, 0x20, 0x00, 0xb2, 0x43, 0x00, 0x00, 0x00, 0x3f, 0x92,
	0x43, 0x00, 0x00, 0x80, 0xbf, 0x0b, 0x03, 0x00, 0x00, 0x0b,
}

// guestModule imports natives.invoke and exports one page of memory:
//
//	sum () -> i64                     stores 40 and 2 at offsets 0 and 8, returns invoke(0x5000, 0, 2)
//	native_000000000000aaaa () -> i64 invoke(0x0B0B, 0, 0) + 1
//	native_000000000000bbbb () -> i64 41
var guestModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section
	0x01, 0x0c, 0x02, 0x60, 0x03, 0x7e, 0x7f, 0x7f, 0x01, 0x7e, 0x60, 0x00,
	0x01, 0x7e,
	// import section
	0x02, 0x12, 0x01, 0x07, 0x6e, 0x61, 0x74, 0x69, 0x76, 0x65, 0x73, 0x06,
	0x69, 0x6e, 0x76, 0x6f, 0x6b, 0x65, 0x00, 0x00,
	// function section
	0x03, 0x04, 0x03, 0x01, 0x01, 0x01,
	// memory section
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section
	0x07, 0x44, 0x04, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x03, 0x73, 0x75, 0x6d, 0x00, 0x01, 0x17, 0x6e, 0x61, 0x74, 0x69, 0x76,
	0x65, 0x5f, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x30, 0x61, 0x61, 0x61, 0x61, 0x00, 0x02, 0x17, 0x6e, 0x61, 0x74,
	0x69, 0x76, 0x65, 0x5f, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x30, 0x30, 0x30, 0x62, 0x62, 0x62, 0x62, 0x00, 0x03,
	// code section
	0x0a, 0x30, 0x03, 0x1a, 0x00, 0x41, 0x00, 0x42, 0x28, 0x37, 0x03, 0x00,
	0x41, 0x08, 0x42, 0x02, 0x37, 0x03, 0x00, 0x42, 0x80, 0xa0, 0x01, 0x41,
	0x00, 0x41, 0x02, 0x10, 0x00, 0x0b, 0x0e, 0x00, 0x42, 0x8b, 0x16, 0x41,
	0x00, 0x41, 0x00, 0x10, 0x00, 0x42, 0x01, 0x7c, 0x0b, 0x04, 0x00, 0x42,
	0x29, 0x0b,
}

func newRuntime(t *testing.T) (context.Context, wazero.Runtime) {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })
	return ctx, r
}

func instantiate(t *testing.T, ctx context.Context, r wazero.Runtime, name string, bin []byte) api.Module {
	t.Helper()
	mod, err := r.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName(name))
	require.NoError(t, err)
	return mod
}
