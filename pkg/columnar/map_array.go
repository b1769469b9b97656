package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/pool"
)

// MapArray stores rows of key/value pairs as a list of struct{key, value}.
// Pairs are kept in input order and duplicates are stored as written;
// Get resolves duplicates so that the last value for a key wins.
type MapArray struct {
	shape   MapShape
	layout  *ListLayout
	entries *StructArray
}

// keyIndexPool recycles the scratch index used to deduplicate keys.
var keyIndexPool = pool.New(
	func() map[Value]int { return make(map[Value]int, 16) },
	func(m map[Value]int) { clear(m) },
)

// BuildMapArray builds a map column from rows of Map or nil. The key shape
// must be a scalar or utf8.
func BuildMapArray(alloc memory.Allocator, key, value Shape, rows []Value, opts ...Option) (*MapArray, error) {
	if err := validateKeyShape(key); err != nil {
		return nil, err
	}
	arr, err := Build(alloc, MapOf(key, value), rows, opts...)
	if err != nil {
		return nil, err
	}
	return arr.(*MapArray), nil
}

func (a *MapArray) Shape() Shape       { return a.shape }
func (a *MapArray) Len() int           { return a.layout.Len() }
func (a *MapArray) NullN() int         { return a.layout.NullN() }
func (a *MapArray) IsValid(i int) bool { return a.layout.IsValid(i) }

// Layout returns the offsets and validity of the rows.
func (a *MapArray) Layout() *ListLayout { return a.layout }

// Keys returns the flattened key array.
func (a *MapArray) Keys() Array { return a.entries.fields[0] }

// Items returns the flattened value array.
func (a *MapArray) Items() Array { return a.entries.fields[1] }

// Get reconstructs row i. A null row returns a nil Map; an empty row
// returns a non-nil empty Map. When a key occurs more than once the pair
// keeps the position of its first occurrence and the value of its last.
func (a *MapArray) Get(i int) (Map, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.row(i, true), nil
}

// Entries returns the pairs of row i exactly as stored, duplicates included.
func (a *MapArray) Entries(i int) (Map, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.row(i, false), nil
}

// Set replaces row i. A nil m clears the row. The new row, and every
// variable-length value nested inside it, must fit the space allocated for
// the row at build time; nothing is written if it does not.
func (a *MapArray) Set(i int, m Map) error {
	if err := checkIndex(i, a.Len()); err != nil {
		return err
	}
	if err := a.fits(i, m); err != nil {
		return err
	}
	a.overwrite(i, m)
	return nil
}

func (a *MapArray) Value(i int) (Value, error) {
	m, err := a.Get(i)
	if err != nil || m == nil {
		return nil, err
	}
	return m, nil
}

func (a *MapArray) NBytes() int { return a.layout.NBytes() + a.entries.NBytes() }

func (a *MapArray) Release() {
	a.layout.Release()
	a.entries.Release()
}

func (a *MapArray) row(i int, dedup bool) Map {
	if !a.layout.IsValid(i) {
		return nil
	}
	start, end := a.layout.Span(i)
	out := make(Map, 0, end-start)
	keys, items := a.entries.fields[0], a.entries.fields[1]
	for j := start; j < end; j++ {
		out = append(out, Entry{Key: keys.value(j, dedup), Value: items.value(j, dedup)})
	}
	if dedup {
		out = dedupeKeys(out)
	}
	return out
}

// dedupeKeys collapses duplicate keys in place.
func dedupeKeys(m Map) Map {
	if len(m) < 2 {
		return m
	}
	index := keyIndexPool.Get()
	defer keyIndexPool.Put(index)

	out := m[:0]
	for _, e := range m {
		if j, ok := index[e.Key]; ok {
			out[j].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

func (a *MapArray) appendValue(v Value) {
	m, ok := v.(Map)
	if !ok || m == nil {
		a.layout.AppendNull()
		return
	}
	a.layout.AppendSpan(len(m))
	for _, e := range m {
		a.entries.appendEntry(e)
	}
}

func (a *MapArray) finish() error {
	if err := a.layout.Finish(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeMalformedLayout, a.shape.String())
	}
	return a.entries.finish()
}

func (a *MapArray) value(i int, dedup bool) Value {
	m := a.row(i, dedup)
	if m == nil {
		return nil
	}
	return m
}

func (a *MapArray) fits(i int, v Value) error {
	if isNull(v) {
		return nil
	}
	m, ok := v.(Map)
	if !ok {
		return mismatch(a.shape, v)
	}
	if capacity := a.layout.Capacity(i); len(m) > capacity {
		return errors.Newf(errors.ErrorTypeCapacityExceeded,
			"map of %d entries does not fit slot of %d", len(m), capacity).
			WithDetail("row", i)
	}
	start := int(a.layout.Offsets().At(i))
	keys, items := a.entries.fields[0], a.entries.fields[1]
	for j, e := range m {
		if isNull(e.Key) {
			return errors.New(errors.ErrorTypeTypeMismatch, "map key must not be null")
		}
		if err := keys.fits(start+j, e.Key); err != nil {
			return err
		}
		if err := items.fits(start+j, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (a *MapArray) overwrite(i int, v Value) {
	m, ok := v.(Map)
	if !ok || m == nil {
		a.layout.Resize(i, 0)
		a.layout.SetValid(i, false)
		return
	}
	start := int(a.layout.Offsets().At(i))
	for j, e := range m {
		a.entries.overwriteEntry(start+j, e)
	}
	a.layout.Resize(i, len(m))
	a.layout.SetValid(i, true)
}

func (a *MapArray) measure(c Counts) {
	c[0] += int64(a.Len())
	a.entries.measure(c[1:])
}
