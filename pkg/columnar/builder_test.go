package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-nested/pkg/config"
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/metrics"
)

func TestBuildScalars(t *testing.T) {
	mem := newTestAllocator(t)

	arr, err := Build(mem, Int64Shape(), []Value{Int64(7), nil, Int64(-3)}, testOptions(t)...)
	require.NoError(t, err)
	defer arr.Release()

	col, ok := arr.(*Int64Array)
	require.True(t, ok)
	assert.Equal(t, 3, col.Len())
	assert.Equal(t, 1, col.NullN())
	assert.Equal(t, []int64{7, 0, -3}, col.Values())
	assert.Equal(t, int64(-3), col.At(2))

	v, err := arr.Value(1)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = arr.Value(0)
	require.NoError(t, err)
	assert.Equal(t, Int64(7), v)

	_, err = arr.Value(3)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
	_, err = arr.Value(-1)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)

	floats, err := Build(mem, Float64Shape(), []Value{Float64(0.5), nil}, testOptions(t)...)
	require.NoError(t, err)
	defer floats.Release()
	assert.IsType(t, &Float64Array{}, floats)
	assert.Equal(t, []float64{0.5, 0}, floats.(*Float64Array).Values())

	bools, err := Build(mem, BoolShape(), []Value{Bool(true), Bool(false), nil}, testOptions(t)...)
	require.NoError(t, err)
	defer bools.Release()
	rows, err := NewConverter(mem).Rows(bools)
	require.NoError(t, err)
	assert.Equal(t, []Value{Bool(true), Bool(false), nil}, rows)
	assert.True(t, bools.(*BoolArray).At(0))
}

func TestBuildStrings(t *testing.T) {
	mem := newTestAllocator(t)

	arr, err := BuildStringArray(mem, []Value{String("héllo"), nil, String(""), String("x")}, testOptions(t)...)
	require.NoError(t, err)
	defer arr.Release()

	assert.Equal(t, 4, arr.Len())
	assert.Equal(t, 1, arr.NullN())
	assert.Equal(t, "héllo", arr.At(0))
	assert.Equal(t, "", arr.At(1))
	assert.True(t, arr.IsValid(2))
	assert.False(t, arr.IsValid(1))
	assert.Equal(t, []uint64{0, 6, 6, 6, 7}, arr.Layout().Offsets().Values())
	assert.Equal(t, 7, arr.Chars().Len())
}

func TestBuildRoundTrip(t *testing.T) {
	tests := []struct {
		shape string
		rows  []Value
	}{
		{"list<list<utf8>>", []Value{
			List{List{String("a"), nil}, nil, List{}},
			nil,
			List{},
			List{List{String("bc")}},
		}},
		{"struct<id:int64,name:utf8,tags:list<utf8>>", []Value{
			Struct{Int64(1), String("one"), List{String("x")}},
			nil,
			Struct{nil, nil, nil},
			Struct{Int64(3), String(""), List{}},
		}},
		{"tuple<float64,bool,map<utf8,int64>>", []Value{
			Struct{Float64(1.5), Bool(true), Map{kv("a", 1)}},
			Struct{nil, Bool(false), Map{}},
			nil,
		}},
		{"map<int64,struct<a:list<float64>,b:bool>>", []Value{
			Map{{Key: Int64(4), Value: Struct{List{Float64(1), nil}, Bool(true)}}},
			Map{{Key: Int64(5), Value: nil}, {Key: Int64(6), Value: Struct{nil, nil}}},
			nil,
		}},
		{"list<int64>", nil},
	}
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			mem := newTestAllocator(t)
			shape := MustParseShape(tt.shape)

			arr, err := Build(mem, shape, tt.rows, testOptions(t)...)
			require.NoError(t, err)
			defer arr.Release()

			assert.Equal(t, len(tt.rows), arr.Len())
			assert.Equal(t, shape, arr.Shape())

			got, err := NewConverter(mem).Rows(arr)
			require.NoError(t, err)
			if len(tt.rows) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.rows, got)

			want, err := Estimate(shape, tt.rows)
			require.NoError(t, err)
			assert.Equal(t, want, LevelCounts(arr))
		})
	}
}

func TestBuildSpanSumsMatchEstimate(t *testing.T) {
	mem := newTestAllocator(t)
	shape := MustParseShape("map<utf8,list<int64>>")
	rows := generateMapRows(500)

	counts, err := Estimate(shape, rows)
	require.NoError(t, err)

	m, err := BuildMapArray(mem, UTF8(), ListOf(Int64Shape()), rows, testOptions(t)...)
	require.NoError(t, err)
	defer m.Release()

	var entries int
	for i := 0; i < m.Len(); i++ {
		entries += m.Layout().Size(i)
	}
	assert.Equal(t, counts[1], int64(entries))
	assert.True(t, m.Layout().Offsets().Monotonic())

	keys := m.Keys().(*StringArray)
	var chars int
	for i := 0; i < keys.Len(); i++ {
		chars += keys.Layout().Size(i)
	}
	assert.Equal(t, counts[3], int64(chars))
	assert.True(t, keys.Layout().Offsets().Monotonic())

	items := m.Items().(*ListArray)
	var elems int
	for i := 0; i < items.Len(); i++ {
		elems += items.Layout().Size(i)
	}
	assert.Equal(t, counts[5], int64(elems))
	assert.Equal(t, counts, LevelCounts(m))
}

func TestBuildNullFidelity(t *testing.T) {
	mem := newTestAllocator(t)
	rows := generateMapRows(200)

	m, err := BuildMapArray(mem, UTF8(), ListOf(Int64Shape()), rows, testOptions(t)...)
	require.NoError(t, err)
	defer m.Release()

	nulls := 0
	for i, row := range rows {
		assert.Equal(t, row != nil, m.IsValid(i), "row %d", i)
		if row == nil {
			nulls++
		}
	}
	assert.Equal(t, nulls, m.NullN())
}

func TestBuildOffsetWidth(t *testing.T) {
	mem := newTestAllocator(t)
	rows := []Value{List{String("a")}, List{}}

	arr, err := Build(mem, ListOf(UTF8()), rows, testOptions(t, WithOffsetWidth(OffsetWidth64))...)
	require.NoError(t, err)
	defer arr.Release()

	list := arr.(*ListArray)
	assert.True(t, list.Layout().Offsets().Wide())
	assert.True(t, list.Child().(*StringArray).Layout().Offsets().Wide())

	narrow, err := Build(mem, ListOf(UTF8()), rows, testOptions(t)...)
	require.NoError(t, err)
	defer narrow.Release()
	assert.False(t, narrow.(*ListArray).Layout().Offsets().Wide())
}

func TestBuildParallelEstimation(t *testing.T) {
	mem := newTestAllocator(t)
	rows := generateMapRows(300)

	arr, err := Build(mem, MapOf(UTF8(), ListOf(Int64Shape())), rows, testOptions(t, WithParallelism(4, 10))...)
	require.NoError(t, err)
	defer arr.Release()

	got, err := NewConverter(mem).Rows(arr)
	require.NoError(t, err)
	for i := range rows {
		if rows[i] == nil {
			assert.Nil(t, got[i])
			continue
		}
		assert.Len(t, got[i], len(rows[i].(Map)), "row %d", i)
	}
}

func TestBuildTypeMismatchRecordsMetrics(t *testing.T) {
	mem := newTestAllocator(t)
	collector := metrics.NewCollector("test")

	_, err := Build(mem, ListOf(Int64Shape()), []Value{List{String("x")}}, testOptions(t, WithMetrics(collector))...)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	arr, err := Build(mem, ListOf(Int64Shape()), []Value{ints(1, 2)}, testOptions(t, WithMetrics(collector))...)
	require.NoError(t, err)
	defer arr.Release()

	snap, err := collector.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap[`test_nested_errors_total{type="type_mismatch"}`])
	assert.Equal(t, 1.0, snap[`test_nested_arrays_built_total{kind="list"}`])
	assert.Equal(t, float64(arr.NBytes()), snap[`test_nested_allocated_bytes{kind="list"}`])
}

func TestBuildEmpty(t *testing.T) {
	mem := newTestAllocator(t)

	m, err := BuildMapArray(mem, UTF8(), Int64Shape(), nil, testOptions(t)...)
	require.NoError(t, err)
	defer m.Release()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.NullN())
	assert.Equal(t, []uint64{0}, m.Layout().Offsets().Values())
	_, err = m.Get(0)
	assert.ErrorIs(t, err, errors.ErrIndexOutOfRange)
}

func TestPopulationOverrunIsMalformed(t *testing.T) {
	mem := newTestAllocator(t)

	col, err := allocate(mem, ListOf(Int64Shape()), Counts{1, 1}, OffsetWidthAuto)
	require.NoError(t, err)
	defer col.Release()

	col.appendValue(ints(1, 2))
	err = col.finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMalformedLayout)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Engine
	cfg.OffsetWidth = "64"
	cfg.Workers = 2

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	o := newBuildOptions(opts)
	assert.Equal(t, OffsetWidth64, o.offsetWidth)
	assert.Equal(t, 2, o.workers)
	assert.Equal(t, 1<<16, o.parallelThreshold)

	cfg.OffsetWidth = "8"
	_, err = OptionsFromConfig(cfg)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
