package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		text   string
		want   Shape
		levels int
	}{
		{"int64", Int64Shape(), 1},
		{"float64", Float64Shape(), 1},
		{"bool", BoolShape(), 1},
		{"utf8", UTF8(), 2},
		{"list<int64>", ListOf(Int64Shape()), 2},
		{"map<utf8,int64>", MapOf(UTF8(), Int64Shape()), 5},
		{"map<utf8,list<int64>>", MapOf(UTF8(), ListOf(Int64Shape())), 6},
		{"struct<a:int64,b:utf8>", StructOf(Field{"a", Int64Shape()}, Field{"b", UTF8()}), 4},
		{"tuple<int64,bool>", TupleOf(Int64Shape(), BoolShape()), 3},
		{"list<struct<id:int64,tags:list<utf8>>>",
			ListOf(StructOf(Field{"id", Int64Shape()}, Field{"tags", ListOf(UTF8())})), 6},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseShape(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
			assert.Equal(t, tt.levels, Levels(got))
		})
	}
}

func TestParseShapeWhitespaceAndAliases(t *testing.T) {
	got, err := ParseShape(" map < string , struct< x : float64 , y:bool > > ")
	require.NoError(t, err)
	assert.Equal(t, "map<utf8,struct<x:float64,y:bool>>", got.String())
}

func TestParseShapeErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"int32",
		"list<int64",
		"list<int64>>",
		"map<utf8>",
		"map<list<int64>,int64>",
		"struct<>",
		"struct<a:int64,a:bool>",
		"struct<:int64>",
		"tuple<>",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseShape(text)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestMustParseShapePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseShape("nope") })
	assert.NotPanics(t, func() { MustParseShape("list<bool>") })
}

func TestScalarShapesAndValues(t *testing.T) {
	tests := []struct {
		shape Shape
		text  string
		value Value
	}{
		{Int64Shape(), "int64", Int64(4)},
		{Float64Shape(), "float64", Float64(0.25)},
		{BoolShape(), "bool", Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, MustParseShape(tt.text), tt.shape)
			assert.Equal(t, tt.text, tt.shape.String())

			counts, err := Estimate(tt.shape, []Value{tt.value, nil})
			require.NoError(t, err)
			assert.Equal(t, Counts{2}, counts)
		})
	}
}
