package pool_test

import (
	"fmt"

	"github.com/ajitpratap0/nebula-nested/pkg/pool"
)

func ExampleNew() {
	seen := pool.New(
		func() map[string]int { return make(map[string]int) },
		func(m map[string]int) { clear(m) },
	)

	m := seen.Get()
	m["a"]++
	m["a"]++
	fmt.Println(m["a"])
	seen.Put(m)

	m = seen.Get()
	fmt.Println(len(m))
	seen.Put(m)
	// Output:
	// 2
	// 0
}
