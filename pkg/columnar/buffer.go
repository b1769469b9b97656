package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/internal/unsafecast"
)

// Element is the set of fixed-width types a Buffer can hold.
type Element interface {
	~uint8 | ~uint32 | ~uint64 | ~int64 | ~float64
}

// Buffer is a fixed-capacity typed region backed by an arrow memory.Buffer.
//
// A Buffer is owned by exactly one array. The only exception is the
// character buffer of a StringArray, which a SplitStringView retains
// instead of copying; the bytes are freed once every holder has released.
type Buffer[T Element] struct {
	alloc memory.Allocator
	buf   *memory.Buffer
	data  []T
}

// NewBuffer allocates a zeroed buffer of n elements from alloc.
func NewBuffer[T Element](alloc memory.Allocator, n int) *Buffer[T] {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	buf := memory.NewResizableBuffer(alloc)
	buf.Resize(n * unsafecast.Sizeof[T]())

	raw := buf.Bytes()
	clear(raw)

	return &Buffer[T]{
		alloc: alloc,
		buf:   buf,
		data:  unsafecast.Slice[byte, T](raw)[:n:n],
	}
}

// Allocator returns the allocator the buffer was obtained from.
func (b *Buffer[T]) Allocator() memory.Allocator { return b.alloc }

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Values returns the elements. The slice aliases the buffer.
func (b *Buffer[T]) Values() []T { return b.data }

// Bytes returns the raw bytes of the buffer.
func (b *Buffer[T]) Bytes() []byte {
	return unsafecast.Slice[T, byte](b.data)
}

// At returns element i.
func (b *Buffer[T]) At(i int) T { return b.data[i] }

// Set writes element i.
func (b *Buffer[T]) Set(i int, v T) { b.data[i] = v }

// NBytes returns the number of bytes held by the buffer.
func (b *Buffer[T]) NBytes() int { return len(b.data) * unsafecast.Sizeof[T]() }

// Retain adds a reference to the underlying memory.
func (b *Buffer[T]) Retain() { b.buf.Retain() }

// Release drops a reference; the memory goes back to the allocator when the
// last reference is gone.
func (b *Buffer[T]) Release() {
	if b == nil || b.buf == nil {
		return
	}
	b.buf.Release()
}
