package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and an optional reset
// function. The pool is safe for concurrent use.
//
// Type parameter T can be any type, but pointer or reference types
// (pointers, maps, slices of pointers) avoid an allocation on Put.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
		misses    int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, if any, is called before an object goes back into
// the pool.
//
// Example:
//
//	index := pool.New(
//	    func() map[string]int { return make(map[string]int, 16) },
//	    func(m map[string]int) { clear(m) },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	misses := atomic.LoadInt64(&p.stats.misses)
	obj := p.pool.Get().(T)
	if atomic.LoadInt64(&p.stats.misses) == misses {
		atomic.AddInt64(&p.stats.hits, 1)
	}
	return obj
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics.
//
// Returns:
//   - allocated: Total number of objects created by the pool
//   - inUse: Number of objects currently checked out from the pool
//   - hits: Number of Get calls served from the pool
//   - misses: Number of times a new object had to be created
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits),
		atomic.LoadInt64(&p.stats.misses)
}

// maxPooledBuffer is the largest buffer capacity kept for reuse.
const maxPooledBuffer = 1 << 20

// BufferPool recycles byte buffers used for encoding.
var BufferPool = New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(b *bytes.Buffer) { b.Reset() },
)

// GetBuffer returns an empty buffer from BufferPool.
func GetBuffer() *bytes.Buffer {
	return BufferPool.Get()
}

// PutBuffer returns b to BufferPool. Oversized buffers are dropped.
func PutBuffer(b *bytes.Buffer) {
	if b.Cap() > maxPooledBuffer {
		atomic.AddInt64(&BufferPool.stats.inUse, -1)
		return
	}
	BufferPool.Put(b)
}
