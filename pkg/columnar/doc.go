// Package columnar stores variable-length, nested, nullable values (maps,
// lists, structs, tuples, strings) as a handful of flat buffers instead of
// one heap object per element.
//
// # Overview
//
// Every array is built in two passes. Estimate walks the host rows once and
// returns exact per-level element counts; every buffer is then allocated
// once, from an arrow memory.Allocator, and filled by a single sequential
// population pass. A final layout check confirms that population consumed
// exactly what was estimated.
//
// The building blocks are:
//   - Buffer: a fixed-capacity typed region with reference counting
//   - NullBitmap: one presence bit per row, LSB first
//   - OffsetArray: N+1 monotonic offsets stored as uint32 or uint64
//   - ListLayout: offsets, validity and append cursors over a child array
//
// On top of them sit the arrays: Int64Array, Float64Array, BoolArray,
// StringArray, ListArray, StructArray and MapArray. SplitStringView is a
// derived read-only view that splits the rows of a StringArray by a
// separator without copying characters.
//
// # Host values
//
// Rows cross the boundary as Value, a closed set of variants: Int64,
// Float64, Bool, String, List, Struct and Map. A nil Value is null at any
// nesting level. Shapes are described by Shape, parsed from text such as
//
//	map<utf8,list<int64>>
//	struct<id:int64,tags:list<utf8>>
//
// # Basic Usage
//
//	mem := memory.NewGoAllocator()
//	rows := []columnar.Value{
//	    columnar.Map{{Key: columnar.String("a"), Value: columnar.Int64(1)}},
//	    nil,
//	    columnar.Map{},
//	}
//	m, err := columnar.BuildMapArray(mem, columnar.UTF8(), columnar.Int64Shape(), rows)
//	if err != nil {
//	    return err
//	}
//	defer m.Release()
//
//	row, _ := m.Get(0) // [{a 1}]
//
// # Maps
//
// MapArray keeps pairs in input order and stores duplicate keys as written.
// Get resolves them so that the last value wins; Entries returns the raw
// pairs. Set replaces a row in place and fails with a capacity_exceeded
// error if the new row needs more space than the row was built with.
//
// # Concurrency
//
// Arrays are not safe for concurrent mutation. Reads of a built array are
// safe from multiple goroutines. EstimateParallel is the only concurrent
// path; population is sequential because adjacent rows share bitmap bytes.
//
// # Invariants
//
// Building with the "invariants" tag, or with -race, turns a failed layout
// check into a panic. Otherwise the builder releases the partial array and
// returns a malformed_layout error.
package columnar
