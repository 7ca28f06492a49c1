package tensor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},         // Scalar
		{Shape{5}, 5},        // 1D
		{Shape{3, 4}, 12},    // 2D
		{Shape{2, 3, 4}, 24}, // 3D
		{Shape{1, 1, 1}, 1},  // Ones
		{Shape{3, 0}, 0},     // Empty
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	validShapes := []Shape{
		{},
		{0},
		{3, 4},
		{2, 0, 4},
	}
	for _, s := range validShapes {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}

	invalidShapes := []Shape{
		{-1},
		{3, -4},
	}
	for _, s := range invalidShapes {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should have failed", s)
		}
	}
}

func TestShapeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{}, Shape{}.ComputeStrides())
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "()", Shape{}.String())
	assert.Equal(t, "(3,)", Shape{3}.String())
	assert.Equal(t, "(3, 4, 5)", Shape{3, 4, 5}.String())
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want Shape
	}{
		{"3,1,5", Shape{3, 1, 5}},
		{"(3, 1, 5)", Shape{3, 1, 5}},
		{"(3,)", Shape{3}},
		{"()", Shape{}},
		{"", Shape{}},
	}
	for _, tt := range tests {
		got, err := ParseShape(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseShape("3,x")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = ParseShape("-2")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

// Array handle Tests

func TestNewArray(t *testing.T) {
	shape := Shape{2, 3}
	a, err := NewArray("ref", shape, Int16, "cpu")
	require.NoError(t, err)

	assert.Equal(t, Int16, a.DType())
	assert.Equal(t, 2, a.NDim())
	assert.Equal(t, 6, a.Size())
	assert.Equal(t, "cpu", a.Device())
	assert.Equal(t, Ref("ref"), a.Ref())
	assert.Equal(t, "Array[int16](2, 3) on cpu", a.String())

	// The handle owns its shape.
	shape[0] = 7
	assert.Equal(t, Shape{2, 3}, a.Shape())
	got := a.Shape()
	got[1] = 9
	assert.Equal(t, Shape{2, 3}, a.Shape())
}

func TestNewArrayRejectsUnknownDType(t *testing.T) {
	_, err := NewArray(nil, Shape{1}, DataType(42), "cpu")
	assert.True(t, errors.Is(err, ErrUnsupportedDType))

	_, err = NewArray(nil, Shape{-1}, Float32, "cpu")
	assert.Error(t, err)
}

// Scalar Tests

func TestResolveScalar(t *testing.T) {
	tests := []struct {
		name string
		dt   DataType
		s    Scalar
		want DataType
		err  error
	}{
		{"int into int8", Int8, IntScalar(5), Int8, nil},
		{"int into float32", Float32, IntScalar(5), Float32, nil},
		{"int into complex", Complex64, IntScalar(2), Complex64, nil},
		{"float into float32", Float32, FloatScalar(0.5), Float32, nil},
		{"float into complex", Complex128, FloatScalar(0.5), Complex128, nil},
		{"complex into complex", Complex64, ComplexScalar(1i), Complex64, nil},
		{"bool into bool", Bool, BoolScalar(true), Bool, nil},
		{"float into int", Int32, FloatScalar(1.5), 0, ErrNoCommonType},
		{"complex into float", Float64, ComplexScalar(1i), 0, ErrNoCommonType},
		{"bool into int", Int32, BoolScalar(true), 0, ErrNoCommonType},
		{"int into bool", Bool, IntScalar(1), 0, ErrNoCommonType},
		{"overflow int8", Int8, IntScalar(200), 0, ErrScalarOverflow},
		{"negative into uint8", Uint8, IntScalar(-1), 0, ErrScalarOverflow},
		{"uint8 max", Uint8, IntScalar(255), Uint8, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveScalar(tt.dt, tt.s)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarOf(t *testing.T) {
	s, err := ScalarOf(3)
	require.NoError(t, err)
	assert.Equal(t, IntKind, s.Kind())
	assert.Equal(t, int64(3), s.Int())
	assert.Equal(t, Int64, s.DefaultDType())

	s, err = ScalarOf(float32(0.25))
	require.NoError(t, err)
	assert.Equal(t, FloatKind, s.Kind())
	assert.Equal(t, 0.25, s.Float())

	s, err = ScalarOf(complex64(1 + 2i))
	require.NoError(t, err)
	assert.Equal(t, complex128(1+2i), s.Complex())

	s, err = ScalarOf(true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Float())
	assert.False(t, s.IsZero())

	_, err = ScalarOf(uint64(math.MaxUint64))
	assert.True(t, errors.Is(err, ErrScalarOverflow))

	_, err = ScalarOf("3")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestScalarString(t *testing.T) {
	assert.Equal(t, "true", BoolScalar(true).String())
	assert.Equal(t, "-4", IntScalar(-4).String())
	assert.Equal(t, "0.5", FloatScalar(0.5).String())
	assert.Equal(t, "(1+2i)", ComplexScalar(1+2i).String())
}

// Error Tests

func TestErrorsUnwrapToSentinels(t *testing.T) {
	assert.True(t, errors.Is(&UnsupportedDTypeError{Op: "sin", DType: Int8}, ErrUnsupportedDType))
	assert.True(t, errors.Is(&NoCommonTypeError{A: Int8, B: Float32}, ErrNoCommonType))
	assert.True(t, errors.Is(ShapeError("reshape", "size mismatch"), ErrIncompatibleShapes))
	assert.True(t, errors.Is(&UnsupportedQueryError{DType: Int8, Query: "eps"}, ErrUnsupportedQuery))

	backendErr := errors.New("out of device memory")
	be := &BackendError{Op: "add", Backend: "gpu", Err: backendErr}
	assert.Equal(t, "out of device memory", be.Error())
	assert.True(t, errors.Is(be, backendErr))
	assert.False(t, IsLocal(be))
	assert.True(t, IsLocal(&NoCommonTypeError{A: Int8, B: Float32}))
}

func TestIncompatibleShapesErrorMessage(t *testing.T) {
	err := &IncompatibleShapesError{Op: "add", Shapes: []Shape{{2, 3}, {4, 3}}, Axis: 0, Reason: "sizes 2 and 4"}
	assert.Equal(t, "add: incompatible shapes (2, 3), (4, 3) at axis 0: sizes 2 and 4", err.Error())
}
