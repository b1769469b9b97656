package columnar

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap/zaptest"
)

// newTestAllocator returns an allocator that fails the test if anything is
// still allocated when the test ends.
func newTestAllocator(t *testing.T) *memory.CheckedAllocator {
	t.Helper()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	return mem
}

func testOptions(t *testing.T, opts ...Option) []Option {
	return append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
}

func kv(k string, v int64) Entry {
	return Entry{Key: String(k), Value: Int64(v)}
}

func ints(vs ...int64) List {
	out := make(List, len(vs))
	for i, v := range vs {
		out[i] = Int64(v)
	}
	return out
}
