package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

func buildView(t *testing.T, sep rune, rows ...Value) (*StringArray, *SplitStringView) {
	t.Helper()
	mem := newTestAllocator(t)

	src, err := BuildStringArray(mem, rows, testOptions(t)...)
	require.NoError(t, err)
	t.Cleanup(src.Release)

	v, err := BuildSplitView(src, sep, testOptions(t)...)
	require.NoError(t, err)
	t.Cleanup(v.Release)
	return src, v
}

func viewRows(t *testing.T, v *SplitStringView) [][]string {
	t.Helper()
	out := make([][]string, v.Len())
	for i := range out {
		tokens, err := v.Get(i)
		require.NoError(t, err)
		out[i] = tokens
	}
	return out
}

func TestSplitView(t *testing.T) {
	_, v := buildView(t, ',', Strings("a,b,c", "", "x")...)

	require.Equal(t, 3, v.Len())
	assert.Equal(t, [][]string{{"a", "b", "c"}, {}, {"x"}}, viewRows(t, v))
	for i, want := range []int{3, 0, 1} {
		n, err := v.NumTokens(i)
		require.NoError(t, err)
		assert.Equal(t, want, n, "row %d", i)
	}
	assert.True(t, v.IsValid(1))

	assert.Equal(t, []uint64{0, 4, 4, 6}, v.IndexOffsets().Values())
	assert.Equal(t, []uint64{0, 2, 4, 6, 5, 7}, v.DataOffsets().Values())
}

func TestSplitViewFilterMask(t *testing.T) {
	src, v := buildView(t, ',', Strings("a,b,c", "", "x")...)

	f, err := NewConverter(src.Chars().Allocator()).Filter(v, []bool{true, false, true})
	require.NoError(t, err)
	defer f.Release()

	require.Equal(t, 2, f.Len())
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"x"}}, viewRows(t, f))
	assert.Same(t, src.Chars(), f.Chars())

	for i := 0; i < f.Len(); i++ {
		tokens, err := f.Get(i)
		require.NoError(t, err)
		for _, tok := range tokens {
			assert.True(t, strings.SameMemory(tok, src.Chars().Values()), "token %q was copied", tok)
		}
	}
}

func TestSplitViewFilterKeepsValidity(t *testing.T) {
	_, v := buildView(t, ';', String("p;q"), nil, String(""), String("r"))

	f, err := v.FilterMask([]bool{false, true, true, true})
	require.NoError(t, err)
	defer f.Release()

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 1, f.NullN())
	assert.False(t, f.IsValid(0))
	assert.True(t, f.IsValid(1))
	assert.Equal(t, [][]string{nil, {}, {"r"}}, viewRows(t, f))

	none, err := v.FilterMask([]bool{false, false, false, false})
	require.NoError(t, err)
	defer none.Release()
	assert.Equal(t, 0, none.Len())
	assert.Equal(t, []uint64{0}, none.IndexOffsets().Values())
}

func TestSplitViewFilterLengthMismatch(t *testing.T) {
	_, v := buildView(t, ',', Strings("a", "b")...)

	for _, mask := range [][]bool{nil, {true}, {true, false, true}} {
		_, err := v.FilterMask(mask)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	}
}

func TestSplitViewEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		sep   rune
		input string
		want  []string
	}{
		{"no separator", ',', "abc", []string{"abc"}},
		{"empty middle token", ',', "a,,b", []string{"a", "", "b"}},
		{"leading and trailing", ',', ",a,", []string{"", "a", ""}},
		{"only separator", ',', ",", []string{"", ""}},
		{"multibyte separator", '→', "x→yz→", []string{"x", "yz", ""}},
		{"multibyte content", ' ', "héllo wörld", []string{"héllo", "wörld"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v := buildView(t, tt.sep, String("lead"), String(tt.input), String("tail"))
			got, err := v.Get(1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			first, err := v.Get(0)
			require.NoError(t, err)
			assert.Equal(t, []string{"lead"}, first)
			last, err := v.Get(2)
			require.NoError(t, err)
			assert.Equal(t, []string{"tail"}, last)
		})
	}
}

func TestSplitViewNullsAndBounds(t *testing.T) {
	_, v := buildView(t, ',', nil, String("a,b"))

	assert.False(t, v.IsValid(0))
	assert.Equal(t, 1, v.NullN())
	tokens, err := v.Get(0)
	require.NoError(t, err)
	assert.Nil(t, tokens)

	raw, err := v.TokenBytes(1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, raw)

	val, err := v.Value(1)
	require.NoError(t, err)
	assert.Equal(t, List{String("a"), String("b")}, val)
	val, err = v.Value(0)
	require.NoError(t, err)
	assert.Nil(t, val)

	for _, i := range []int{-1, 2} {
		_, err := v.Get(i)
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
		_, err = v.TokenBytes(i)
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
		_, err = v.Value(i)
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
		_, err = v.NumTokens(i)
		assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
	}
	n, err := v.NumTokens(0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSplitViewOutlivesSource(t *testing.T) {
	mem := newTestAllocator(t)

	src, err := BuildStringArray(mem, Strings("k=v", "x"), testOptions(t)...)
	require.NoError(t, err)
	v, err := BuildSplitView(src, '=', testOptions(t)...)
	require.NoError(t, err)

	src.Release()
	tokens, err := v.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "v"}, tokens)
	v.Release()
}

func TestSplitViewInvalidSeparator(t *testing.T) {
	mem := newTestAllocator(t)

	src, err := BuildStringArray(mem, Strings("a"), testOptions(t)...)
	require.NoError(t, err)
	defer src.Release()

	_, err = BuildSplitView(src, 0xD800, testOptions(t)...)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSplitViewRows(t *testing.T) {
	mem := newTestAllocator(t)
	c := NewConverter(mem, testOptions(t)...)

	src, err := c.BuildStrings(Strings("1|2", "", "3"))
	require.NoError(t, err)
	defer src.Release()

	v, err := c.BuildSplit(src, '|')
	require.NoError(t, err)
	defer v.Release()

	tokens, err := c.ReadSplit(v, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, tokens)

	rows, err := c.Rows(v)
	require.NoError(t, err)
	assert.Equal(t, []Value{
		List{String("1"), String("2")},
		List{},
		List{String("3")},
	}, rows)
}
