package labeled_test

import (
	"fmt"

	"github.com/katalvlaran/agora/labeled"
)

func ExampleMatrix() {
	m := labeled.New[string, string, int]()
	m.Set("alice", "s1", 1)
	m.Set("bob", "s2", -1)

	v, ok := m.Get("alice", "s1")
	fmt.Println(v, ok)
	_, ok = m.Get("alice", "s2")
	fmt.Println(ok)
	fmt.Println(m.RowIDs(), m.ColIDs(), m.Len())
	// Output:
	// 1 true
	// false
	// [alice bob] [s1 s2] 2
}
