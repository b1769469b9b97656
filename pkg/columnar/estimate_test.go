package columnar

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		rows  []Value
		want  Counts
	}{
		{
			name:  "scalars with nulls",
			shape: "int64",
			rows:  []Value{Int64(1), nil, Int64(3)},
			want:  Counts{3},
		},
		{
			name:  "strings count bytes",
			shape: "utf8",
			rows:  []Value{String("ab"), nil, String(""), String("héllo")},
			want:  Counts{4, 8},
		},
		{
			name:  "map of lists",
			shape: "map<utf8,list<int64>>",
			rows: []Value{
				Map{{Key: String("ab"), Value: ints(1, 2)}},
				nil,
				Map{},
			},
			want: Counts{3, 1, 1, 2, 1, 2},
		},
		{
			name:  "null struct reserves a slot in every field",
			shape: "struct<a:int64,b:utf8>",
			rows:  []Value{Struct{Int64(1), String("xy")}, nil},
			want:  Counts{2, 2, 2, 2},
		},
		{
			name:  "null nested struct",
			shape: "struct<a:struct<b:int64,c:list<bool>>>",
			rows:  []Value{nil, Struct{nil}, Struct{Struct{Int64(1), List{Bool(true)}}}},
			want:  Counts{3, 3, 3, 3, 1},
		},
		{
			name:  "list of null lists",
			shape: "list<list<int64>>",
			rows:  []Value{List{nil, ints(1)}, List{}},
			want:  Counts{2, 2, 1},
		},
		{
			name:  "empty input",
			shape: "map<utf8,int64>",
			rows:  nil,
			want:  Counts{0, 0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(MustParseShape(tt.shape), tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, Levels(MustParseShape(tt.shape)))
		})
	}
}

func TestEstimateErrors(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		rows  []Value
	}{
		{"wrong scalar", "int64", []Value{Int64(1), Float64(2)}},
		{"string for list", "list<int64>", []Value{String("x")}},
		{"struct arity", "tuple<int64,int64>", []Value{Struct{Int64(1)}}},
		{"null map key", "map<utf8,int64>", []Value{Map{{Key: nil, Value: Int64(1)}}}},
		{"wrong key kind", "map<utf8,int64>", []Value{Map{{Key: Int64(1), Value: Int64(1)}}}},
		{"nested mismatch", "map<utf8,list<int64>>", []Value{Map{{Key: String("a"), Value: List{Bool(true)}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(MustParseShape(tt.shape), tt.rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrTypeMismatch)
		})
	}
}

func TestEstimateReportsRow(t *testing.T) {
	_, err := Estimate(Int64Shape(), []Value{Int64(1), Int64(2), String("x")})
	require.Error(t, err)

	e, ok := err.(*errors.Error)
	require.True(t, ok)
	assert.Equal(t, 2, e.Details["row"])
}

func TestEstimateRejectsBadShape(t *testing.T) {
	_, err := Estimate(MapOf(ListOf(Int64Shape()), Int64Shape()), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = Estimate(nil, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func generateMapRows(n int) []Value {
	rows := make([]Value, n)
	for i := range rows {
		switch {
		case i%7 == 0:
			rows[i] = nil
		case i%5 == 0:
			rows[i] = Map{}
		default:
			m := make(Map, 0, i%4+1)
			for k := 0; k <= i%4; k++ {
				var inner Value
				if k%3 != 2 {
					inner = ints(int64(i), int64(k))[:k%3]
				}
				m = append(m, Entry{Key: String(strings.Sprintf("key-%d-%d", i, k)), Value: inner})
			}
			rows[i] = m
		}
	}
	return rows
}

func TestEstimateParallelMatchesSequential(t *testing.T) {
	shape := MustParseShape("map<utf8,list<int64>>")
	rows := generateMapRows(1000)

	want, err := Estimate(shape, rows)
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 3, 8, 2000} {
		got, err := EstimateParallel(shape, rows, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestEstimateParallelError(t *testing.T) {
	rows := make([]Value, 100)
	for i := range rows {
		rows[i] = Int64(int64(i))
	}
	rows[77] = Bool(true)

	_, err := EstimateParallel(Int64Shape(), rows, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	e, ok := err.(*errors.Error)
	require.True(t, ok)
	assert.Equal(t, 77, e.Details["row"])
}

func TestEstimateParallelChunking(t *testing.T) {
	shape := MustParseShape("map<utf8,list<int64>>")

	for _, n := range []int{2, 7, 10, 65, 1001} {
		rows := generateMapRows(n)
		want, err := Estimate(shape, rows)
		require.NoError(t, err)

		for _, workers := range []int{2, 3, 4, 6, 16} {
			got, err := EstimateParallel(shape, rows, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "rows=%d workers=%d", n, workers)
		}
	}
}

func TestEstimateParallelConcurrentCallers(t *testing.T) {
	shape := MustParseShape("map<utf8,list<int64>>")
	rows := generateMapRows(500)
	want, err := Estimate(shape, rows)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Counts, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = EstimateParallel(shape, rows, 5)
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "caller %d", i)
	}
}
