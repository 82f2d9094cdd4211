package llrb_test

import (
	"fmt"

	"cfsched/internal/llrb"
)

func ExampleMultimap() {
	m := llrb.New[int, string]()
	m.Insert(5, "a")
	m.Insert(3, "c")
	m.Insert(5, "b")

	lo, _ := m.Min()
	v, _ := m.Get(5)
	fmt.Println(lo, v, m.Size())

	m.Remove(5)
	v, _ = m.Get(5)
	fmt.Println(v, m)

	// Output:
	// 3 a 3
	// b <3,c> <5,b>
}
