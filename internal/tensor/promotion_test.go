package tensor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReflexive(t *testing.T) {
	for _, d := range DataTypes() {
		r, err := Resolve(d, d)
		require.NoError(t, err)
		assert.Equal(t, d, r)
	}
}

func TestResolveCommutativeAndIdempotent(t *testing.T) {
	for _, a := range DataTypes() {
		for _, b := range DataTypes() {
			ab, errAB := Resolve(a, b)
			ba, errBA := Resolve(b, a)
			assert.Equal(t, errAB == nil, errBA == nil, "%s, %s", a, b)
			if errAB != nil {
				assert.True(t, errors.Is(errAB, ErrNoCommonType))
				continue
			}
			assert.Equal(t, ab, ba, "%s, %s", a, b)

			again, err := Resolve(ab, ab)
			require.NoError(t, err)
			assert.Equal(t, ab, again)
		}
	}
}

func TestResolveFoldOrderIndependent(t *testing.T) {
	all := DataTypes()
	for _, a := range all {
		for _, b := range all {
			for _, c := range all {
				orders := [][]DataType{{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}}
				first, firstErr := ResolveAll(orders[0]...)
				for _, o := range orders[1:] {
					got, err := ResolveAll(o...)
					assert.Equal(t, firstErr == nil, err == nil, "%v", o)
					if err == nil && firstErr == nil {
						assert.Equal(t, first, got, "%v", o)
					}
				}
			}
		}
	}
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		a, b DataType
		want DataType
	}{
		{Int32, Int64, Int64},
		{Int8, Uint8, Int16},
		{Int8, Uint32, Int64},
		{Uint16, Int16, Int32},
		{Uint8, Uint64, Uint64},
		{Float32, Float64, Float64},
		{Float64, Complex64, Complex128},
		{Float32, Complex64, Complex64},
		{Bool, Bool, Bool},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.a, tt.b)
		require.NoError(t, err, "%s, %s", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "%s, %s", tt.a, tt.b)
	}
}

func TestResolveNoCommonType(t *testing.T) {
	pairs := [][2]DataType{
		{Int64, Uint64},
		{Int8, Uint64},
		{Bool, Int8},
		{Bool, Float32},
		{Int32, Float32},
		{Uint8, Complex64},
	}
	for _, p := range pairs {
		_, err := Resolve(p[0], p[1])
		var nct *NoCommonTypeError
		require.True(t, errors.As(err, &nct), "%s, %s", p[0], p[1])
		assert.Equal(t, p[0], nct.A)
		assert.Equal(t, p[1], nct.B)
	}
}

func TestResultType(t *testing.T) {
	dt, err := ResultType(Int8, Uint8, Int32)
	require.NoError(t, err)
	assert.Equal(t, Int32, dt)

	arr, err := NewArray(nil, Shape{2}, Float32, "cpu")
	require.NoError(t, err)
	dt, err = ResultType(arr, Complex64, Float64)
	require.NoError(t, err)
	assert.Equal(t, Complex128, dt)

	_, err = ResultType()
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ResultType(Int8, Uint16, Uint64)
	assert.True(t, errors.Is(err, ErrNoCommonType))
}

func TestCanCast(t *testing.T) {
	assert.True(t, CanCast(Int8, Int64))
	assert.True(t, CanCast(Uint8, Int16))
	assert.False(t, CanCast(Int64, Int8))
	assert.False(t, CanCast(Int32, Float64))
	assert.True(t, CanCast(Float32, Complex64))
	assert.False(t, CanCast(Complex64, Float64))
	assert.True(t, CanCast(Bool, Bool))
}

func TestPromotionTableGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePromotionTable(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "promotion_table", buf.Bytes())
}

func TestPromotionTableEntries(t *testing.T) {
	entries := PromotionTable()
	require.Len(t, entries, 13*13)
	legal := 0
	for _, e := range entries {
		if e.OK {
			legal++
		}
	}
	// 13 reflexive entries plus 30 unordered pairs counted in both orders.
	assert.Equal(t, 13+2*len(promotionEntries), legal)
}

func TestPromotionTableVerify(t *testing.T) {
	require.NoError(t, promotion.verify())

	broken := buildPromotionTable()
	broken.result[Int8][Uint8] = Int32
	assert.Error(t, broken.verify())
}
