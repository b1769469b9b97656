package columnar

import (
	"bytes"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/metrics"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// SplitStringView splits every row of a StringArray by a separator without
// copying characters. It keeps a reference on the source's character buffer
// and stores only token boundaries.
//
// A row with t tokens owns t+1 boundaries in the data offsets: boundary k is
// the byte where token k starts and the last one is the row end plus the
// separator length, so token k spans [b[k], b[k+1]-len(sep)). Null rows and
// empty rows own no boundaries and have no tokens; empty rows stay valid.
type SplitStringView struct {
	chars    *Buffer[byte]
	index    *OffsetArray
	bounds   *OffsetArray
	validity *NullBitmap
	sepLen   int
	rows     int
}

// BuildSplitView splits every row of src by sep.
func BuildSplitView(src *StringArray, sep rune, opts ...Option) (*SplitStringView, error) {
	o := newBuildOptions(opts)
	if !utf8.ValidRune(sep) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "invalid separator %U", sep)
	}
	timer := metrics.NewTimer("split")

	var sepBuf [utf8.UTFMax]byte
	sepBytes := sepBuf[:utf8.EncodeRune(sepBuf[:], sep)]
	chars := src.Chars().Values()

	// Count pass: boundaries per row.
	var nbounds int64
	for i := 0; i < src.Len(); i++ {
		if !src.IsValid(i) {
			continue
		}
		s, e := src.Layout().Span(i)
		if s == e {
			continue
		}
		nbounds += int64(bytes.Count(chars[s:e], sepBytes)) + 2
	}

	indexWide, err := o.offsetWidth.wide(nbounds)
	if err != nil {
		return nil, err
	}
	boundsWide, err := o.offsetWidth.wide(int64(len(chars) + len(sepBytes)))
	if err != nil {
		return nil, err
	}

	alloc := src.Chars().Allocator()
	v := &SplitStringView{
		chars:    src.Chars(),
		index:    NewOffsetArray(alloc, src.Len()+1, indexWide),
		bounds:   NewOffsetArray(alloc, int(nbounds), boundsWide),
		validity: NewNullBitmap(alloc, src.Len()),
		sepLen:   len(sepBytes),
		rows:     src.Len(),
	}
	v.chars.Retain()

	// Fill pass.
	cursor := 0
	for i := 0; i < src.Len(); i++ {
		v.index.Set(i, uint64(cursor))
		if !src.IsValid(i) {
			v.validity.Set(i, false)
			continue
		}
		s, e := src.Layout().Span(i)
		if s == e {
			continue
		}
		v.bounds.Set(cursor, uint64(s))
		cursor++
		for p := s; ; {
			k := bytes.Index(chars[p:e], sepBytes)
			if k < 0 {
				break
			}
			p += k + len(sepBytes)
			v.bounds.Set(cursor, uint64(p))
			cursor++
		}
		v.bounds.Set(cursor, uint64(e+len(sepBytes)))
		cursor++
	}
	v.index.Set(src.Len(), uint64(cursor))

	elapsed := timer.Stop()
	if o.metrics != nil {
		o.metrics.ObserveBuild("split", elapsed, v.NBytes())
	}
	o.logger.Debug("built split view",
		zap.Int("rows", v.rows),
		zap.Int64("boundaries", nbounds),
		zap.String("sep", string(sep)),
		zap.Duration("elapsed", elapsed))
	return v, nil
}

// Shape returns list<utf8>.
func (v *SplitStringView) Shape() Shape { return ListOf(UTF8()) }

// Len returns the number of rows.
func (v *SplitStringView) Len() int { return v.rows }

// NullN returns the number of null rows.
func (v *SplitStringView) NullN() int { return v.rows - v.validity.CountValid() }

// IsValid reports whether row i is non-null.
func (v *SplitStringView) IsValid(i int) bool { return v.validity.Get(i) }

// NumTokens returns the number of tokens in row i. Null rows have none.
func (v *SplitStringView) NumTokens(i int) (int, error) {
	if err := checkIndex(i, v.rows); err != nil {
		return 0, err
	}
	return v.numTokens(i), nil
}

func (v *SplitStringView) numTokens(i int) int {
	n := int(v.index.At(i+1) - v.index.At(i))
	if n == 0 {
		return 0
	}
	return n - 1
}

// token returns the bytes of token k of row i.
func (v *SplitStringView) token(i, k int) []byte {
	b := int(v.index.At(i)) + k
	start := int(v.bounds.At(b))
	end := int(v.bounds.At(b+1)) - v.sepLen
	return v.chars.Values()[start:end]
}

// Get returns the tokens of row i, or nil for a null row. The strings alias
// the shared character buffer and must not outlive the view.
func (v *SplitStringView) Get(i int) ([]string, error) {
	if err := checkIndex(i, v.rows); err != nil {
		return nil, err
	}
	if !v.validity.Get(i) {
		return nil, nil
	}
	out := make([]string, v.numTokens(i))
	for k := range out {
		out[k] = strings.BytesToString(v.token(i, k))
	}
	return out, nil
}

// TokenBytes is like Get but returns byte slices.
func (v *SplitStringView) TokenBytes(i int) ([][]byte, error) {
	if err := checkIndex(i, v.rows); err != nil {
		return nil, err
	}
	if !v.validity.Get(i) {
		return nil, nil
	}
	out := make([][]byte, v.numTokens(i))
	for k := range out {
		out[k] = v.token(i, k)
	}
	return out, nil
}

// Value returns row i as a List of copied strings.
func (v *SplitStringView) Value(i int) (Value, error) {
	if err := checkIndex(i, v.rows); err != nil {
		return nil, err
	}
	if !v.validity.Get(i) {
		return nil, nil
	}
	out := make(List, v.numTokens(i))
	for k := range out {
		out[k] = String(v.token(i, k))
	}
	return out, nil
}

// FilterMask returns a view holding the rows where mask is true, in order.
// Only offsets are copied; the new view shares the character buffer.
func (v *SplitStringView) FilterMask(mask []bool) (*SplitStringView, error) {
	if len(mask) != v.rows {
		return nil, errors.Newf(errors.ErrorTypeLengthMismatch,
			"mask has %d entries, view has %d rows", len(mask), v.rows).
			WithDetail("mask", len(mask)).
			WithDetail("rows", v.rows)
	}

	var rows, nbounds int
	for i, keep := range mask {
		if keep {
			rows++
			nbounds += int(v.index.At(i+1) - v.index.At(i))
		}
	}

	alloc := v.chars.Allocator()
	out := &SplitStringView{
		chars:    v.chars,
		index:    NewOffsetArray(alloc, rows+1, v.index.Wide()),
		bounds:   NewOffsetArray(alloc, nbounds, v.bounds.Wide()),
		validity: NewNullBitmap(alloc, rows),
		sepLen:   v.sepLen,
		rows:     rows,
	}
	out.chars.Retain()

	r, cursor := 0, 0
	for i, keep := range mask {
		if !keep {
			continue
		}
		lo, hi := int(v.index.At(i)), int(v.index.At(i+1))
		out.index.Set(r, uint64(cursor))
		out.bounds.copyRange(cursor, v.bounds, lo, hi-lo)
		out.validity.Set(r, v.validity.Get(i))
		cursor += hi - lo
		r++
	}
	out.index.Set(rows, uint64(cursor))
	return out, nil
}

// IndexOffsets returns the per-row offsets into DataOffsets.
func (v *SplitStringView) IndexOffsets() *OffsetArray { return v.index }

// DataOffsets returns the token boundaries.
func (v *SplitStringView) DataOffsets() *OffsetArray { return v.bounds }

// Chars returns the shared character buffer.
func (v *SplitStringView) Chars() *Buffer[byte] { return v.chars }

// NBytes returns the bytes owned by the view, excluding the shared
// character buffer.
func (v *SplitStringView) NBytes() int {
	return v.index.NBytes() + v.bounds.NBytes() + v.validity.NBytes()
}

// Release frees the view's offsets and drops its reference on the
// character buffer.
func (v *SplitStringView) Release() {
	v.index.Release()
	v.bounds.Release()
	v.validity.Release()
	v.chars.Release()
}
