package vstream_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/will-lumley/vstream"
)

func ExampleRelay() {
	ctx := context.Background()

	r := vstream.NewRelay(1)
	sub := r.Subscribe()
	defer sub.Cancel()

	// Updates fan out to every subscription; each subscription first replays
	// the value the relay held when it was created.
	r.Set(2)
	r.Set(3)

	for i := 0; i < 3; i++ {
		v, _ := sub.Next(ctx)
		fmt.Println(v)
	}
	// Output:
	// 1
	// 2
	// 3
}

func ExampleCombineLatest() {
	ctx := context.Background()

	temp := vstream.NewRelay(20)
	mode := vstream.NewRelay("auto")

	ts := temp.Subscribe()
	defer ts.Cancel()
	ms := mode.Subscribe()
	defer ms.Cancel()

	c := vstream.CombineLatest[int, string](ctx, ts, ms)
	defer c.Cancel()

	// The first pair combines the two replayed values; every later update on
	// either relay pairs with the other relay's latest value.
	p, _ := c.Next(ctx)
	fmt.Println(p.A, p.B)

	temp.Set(21)
	p, _ = c.Next(ctx)
	fmt.Println(p.A, p.B)

	mode.Set("heat")
	p, _ = c.Next(ctx)
	fmt.Println(p.A, p.B)
	// Output:
	// 20 auto
	// 21 auto
	// 21 heat
}

func ExampleRecorder() {
	ctx := context.Background()

	rec := vstream.Record(ctx, vstream.Slice("red", "green", "blue"), 0, vstream.DiscardNone)
	defer rec.Cancel()

	for {
		v, err := rec.Next(time.Second)
		if errors.Is(err, vstream.ErrEndOfStream) {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// red
	// green
	// blue
}
