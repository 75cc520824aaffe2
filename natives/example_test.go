package natives_test

import (
	"context"
	"fmt"

	"github.com/reglet-dev/reglet-natives/domain/entities"
	"github.com/reglet-dev/reglet-natives/natives"
)

func Example() {
	// The runtime registers its natives under version-specific hashes.
	source := natives.MapSource{
		0xBBBB: func(_ context.Context, c *natives.CallContext) {
			a := natives.Arg[int32](c, 0)
			b := natives.Arg[int32](c, 1)
			natives.SetResult(c, 0, a*b)
		},
	}
	table := entities.RemapTable{{Stable: 0xAAAA, Runtime: 0xBBBB}}

	reg, err := natives.NewRegistry(natives.WithRemap(table, source))
	if err != nil {
		panic(err)
	}
	d := natives.NewDispatcher(reg)
	c := natives.NewCallContext()

	c.Reset()
	natives.MustPush(c, int32(6))
	natives.MustPush(c, int32(7))
	v, err := natives.Invoke[int32](context.Background(), d, c, 0xAAAA)
	fmt.Println(v, err)

	_, err = natives.Invoke[int32](context.Background(), d, c, 0xBBBB)
	fmt.Println(err)
	// Output:
	// 42 <nil>
	// no handler registered for native 0xBBBB
}

func ExampleDispatcher_Do() {
	reg, _ := natives.NewRegistry(natives.WithHandler(0x1, func(_ context.Context, c *natives.CallContext) {
		natives.SetResult(c, 0, natives.Arg[float32](c, 0)*2)
	}))
	d := natives.NewDispatcher(reg)

	_ = d.Do(context.Background(), func(c *natives.CallContext) error {
		natives.MustPush(c, float32(1.25))
		v, err := natives.Invoke[float32](context.Background(), d, c, 0x1)
		fmt.Println(v)
		return err
	})
	// Output: 2.5
}
