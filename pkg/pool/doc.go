// Package pool provides typed object pooling.
//
// Pool[T] wraps sync.Pool with type safety, an optional reset hook and
// allocation statistics. The columnar engine uses it for the scratch key
// index that deduplicates map rows, and the JSON codec uses BufferPool for
// encoding buffers.
//
//	index := keyIndexPool.Get()
//	defer keyIndexPool.Put(index)
package pool
