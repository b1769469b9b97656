package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// NullBitmap records one presence bit per row, least significant bit first.
// A freshly allocated bitmap has every row valid.
type NullBitmap struct {
	bits *Buffer[byte]
	n    int
}

// NewNullBitmap allocates a bitmap for n rows, all valid.
func NewNullBitmap(alloc memory.Allocator, n int) *NullBitmap {
	b := &NullBitmap{
		bits: NewBuffer[byte](alloc, int(bitutil.BytesForBits(int64(n)))),
		n:    n,
	}
	b.Fill(true)
	return b
}

// Len returns the number of rows covered by the bitmap.
func (b *NullBitmap) Len() int { return b.n }

// Get reports whether row i is present.
func (b *NullBitmap) Get(i int) bool {
	return bitutil.BitIsSet(b.bits.Values(), i)
}

// Set sets the presence bit of row i.
func (b *NullBitmap) Set(i int, valid bool) {
	bitutil.SetBitTo(b.bits.Values(), i, valid)
}

// Fill sets every bit. Padding bits past Len are written too; they are
// never read.
func (b *NullBitmap) Fill(valid bool) {
	var v byte
	if valid {
		v = 0xFF
	}
	raw := b.bits.Values()
	for i := range raw {
		raw[i] = v
	}
}

// CountValid returns the number of present rows.
func (b *NullBitmap) CountValid() int {
	if b.n == 0 {
		return 0
	}
	return bitutil.CountSetBits(b.bits.Values(), 0, b.n)
}

// Bytes returns the packed bits.
func (b *NullBitmap) Bytes() []byte { return b.bits.Values() }

// NBytes returns the size of the bitmap in bytes.
func (b *NullBitmap) NBytes() int { return b.bits.NBytes() }

// Release frees the bitmap memory.
func (b *NullBitmap) Release() {
	if b != nil {
		b.bits.Release()
	}
}
