package dispatch

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// recorder is a Backend that records every call it receives.
type recorder struct {
	mu    sync.Mutex
	calls []*Call
	fills []*Fill
	err   error
}

var _ Backend = (*recorder)(nil)

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Execute(call *Call) (tensor.Ref, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if r.err != nil {
		return nil, r.err
	}
	return "result", nil
}

func (r *recorder) Materialize(fill *Fill) (tensor.Ref, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fills = append(r.fills, fill)
	return "fill", nil
}

func arr(t *testing.T, dt tensor.DataType, shape ...int) *tensor.Array {
	t.Helper()
	a, err := tensor.NewArray("ref", tensor.Shape(shape), dt, "recorder")
	require.NoError(t, err)
	return a
}

func ops(xs ...tensor.Operand) []tensor.Operand { return xs }

func TestInvokeBroadcastsAndPromotes(t *testing.T) {
	rec := &recorder{}
	d := New(rec)

	out, err := d.Invoke("add", ops(arr(t, tensor.Int8, 3, 1), arr(t, tensor.Int16, 4)))
	require.NoError(t, err)
	assert.Equal(t, tensor.Int16, out.DType())
	assert.Equal(t, tensor.Shape{3, 4}, out.Shape())
	assert.Equal(t, "recorder", out.Device())

	require.Len(t, rec.calls, 1)
	call := rec.calls[0]
	assert.Equal(t, tensor.Int16, call.Compute)
	assert.Equal(t, special.OverflowWrap, call.Special.Overflow)
	require.NotNil(t, call.Broadcast)
	assert.True(t, call.Broadcast.NeedsBroadcast())
	assert.Equal(t, tensor.Int8, call.Inputs[0].DType)
}

func TestInvokeRejectsBeforeBackend(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		operands []tensor.Operand
		want     error
	}{
		{"bitwise on float", "bitwise_and", nil, tensor.ErrUnsupportedDType},
		{"divide on int", "divide", nil, tensor.ErrUnsupportedDType},
		{"int64 with uint64", "add", nil, tensor.ErrNoCommonType},
		{"int with float", "multiply", nil, tensor.ErrNoCommonType},
		{"bool with int", "equal", nil, tensor.ErrNoCommonType},
		{"bad broadcast", "add", nil, tensor.ErrIncompatibleShapes},
		{"scalar overflow", "add", nil, tensor.ErrScalarOverflow},
		{"float scalar on int", "add", nil, tensor.ErrNoCommonType},
		{"arity", "negative", nil, tensor.ErrInvalidArgument},
		{"unknown", "frobnicate", nil, tensor.ErrUnknownOp},
	}
	operands := map[string][]tensor.Operand{
		"bitwise on float":    ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float32, 2)),
		"divide on int":       ops(arr(t, tensor.Int32, 2), arr(t, tensor.Int32, 2)),
		"int64 with uint64":   ops(arr(t, tensor.Int64, 2), arr(t, tensor.Uint64, 2)),
		"int with float":      ops(arr(t, tensor.Int32, 2), arr(t, tensor.Float32, 2)),
		"bool with int":       ops(arr(t, tensor.Bool, 2), arr(t, tensor.Int8, 2)),
		"bad broadcast":       ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 4, 3)),
		"scalar overflow":     ops(arr(t, tensor.Int8, 2), tensor.IntScalar(300)),
		"float scalar on int": ops(arr(t, tensor.Int8, 2), tensor.FloatScalar(1.5)),
		"arity":               ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float32, 2)),
		"unknown":             ops(arr(t, tensor.Float32, 2)),
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, err := New(rec).Invoke(tt.op, operands[tt.name])
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, tensor.IsLocal(err))
			assert.Empty(t, rec.calls)
			assert.Empty(t, rec.fills)
		})
	}
}

func TestUnsupportedDTypeNamesOperand(t *testing.T) {
	_, err := New(&recorder{}).Invoke("bitwise_and", ops(arr(t, tensor.Int8, 2), arr(t, tensor.Float64, 2)))
	var ue *tensor.UnsupportedDTypeError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "bitwise_and", ue.Op)
	assert.Equal(t, 1, ue.Operand)
	assert.Equal(t, tensor.Float64, ue.DType)
}

func TestShapeErrorNamesOperation(t *testing.T) {
	_, err := New(&recorder{}).Invoke("add", ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 4, 3)))
	require.Error(t, err)
	assert.Equal(t, "add: incompatible shapes (2, 3), (4, 3) at axis 0: sizes 2 and 4", err.Error())
}

func TestScalarOperands(t *testing.T) {
	rec := &recorder{}
	d := New(rec)

	out, err := d.Invoke("multiply", ops(arr(t, tensor.Float32, 3), tensor.IntScalar(2)))
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, out.DType())
	require.Len(t, rec.fills, 1)
	assert.Equal(t, tensor.Float32, rec.fills[0].DType)
	assert.Equal(t, tensor.Shape{}, rec.fills[0].Shape)
	assert.Equal(t, "fill", rec.calls[0].Operands[1])
	assert.Equal(t, tensor.Float32, rec.calls[0].Inputs[1].DType)

	out, err = d.Invoke("subtract", ops(tensor.IntScalar(-128), arr(t, tensor.Int8, 3)))
	require.NoError(t, err)
	assert.Equal(t, tensor.Int8, out.DType())

	_, err = d.Invoke("add", ops(tensor.IntScalar(1), tensor.IntScalar(2)))
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)

	_, err = d.Invoke("sum", ops(tensor.IntScalar(1)))
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}

func TestIntScalarOnFloatingOnlyOps(t *testing.T) {
	d := New(&recorder{})
	for _, name := range []string{"divide", "atan2", "hypot", "copysign", "logaddexp", "nextafter"} {
		t.Run(name, func(t *testing.T) {
			out, err := d.Invoke(name, ops(arr(t, tensor.Float32, 3), tensor.IntScalar(2)))
			require.NoError(t, err)
			assert.Equal(t, tensor.Float32, out.DType())

			out, err = d.Invoke(name, ops(tensor.IntScalar(2), arr(t, tensor.Float64, 3)))
			require.NoError(t, err)
			assert.Equal(t, tensor.Float64, out.DType())
		})
	}

	_, err := d.Invoke("divide", ops(arr(t, tensor.Int32, 3), tensor.IntScalar(2)))
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)

	_, err = d.Invoke("bitwise_and", ops(arr(t, tensor.Int32, 3), tensor.FloatScalar(1.5)))
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)

	_, err = d.Invoke("atan2", ops(arr(t, tensor.Float32, 3), tensor.ComplexScalar(1i)))
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)
}

func TestResultDTypes(t *testing.T) {
	d := New(&recorder{})
	tests := []struct {
		op       string
		operands []tensor.Operand
		opts     []Option
		want     tensor.DataType
	}{
		{"greater", ops(arr(t, tensor.Int8, 2), arr(t, tensor.Int16, 2)), nil, tensor.Bool},
		{"abs", ops(arr(t, tensor.Complex64, 2)), nil, tensor.Float32},
		{"real", ops(arr(t, tensor.Complex128, 2)), nil, tensor.Float64},
		{"sum", ops(arr(t, tensor.Int8, 2)), nil, tensor.Int64},
		{"sum", ops(arr(t, tensor.Uint16, 2)), nil, tensor.Uint64},
		{"sum", ops(arr(t, tensor.Float32, 2)), nil, tensor.Float32},
		{"sum", ops(arr(t, tensor.Int8, 2)), []Option{WithDType(tensor.Int8)}, tensor.Int8},
		{"prod", ops(arr(t, tensor.Int32, 2)), nil, tensor.Int64},
		{"argmax", ops(arr(t, tensor.Float32, 2)), nil, tensor.Int64},
		{"count_nonzero", ops(arr(t, tensor.Bool, 2)), nil, tensor.Int64},
		{"astype", ops(arr(t, tensor.Int8, 2)), []Option{WithDType(tensor.Float64)}, tensor.Float64},
		{"where", ops(arr(t, tensor.Bool, 2), arr(t, tensor.Uint8, 2), arr(t, tensor.Int8, 2)), nil, tensor.Int16},
		{"concat", ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float64, 2)), []Option{Axis(0)}, tensor.Float64},
		{"take", ops(arr(t, tensor.Float32, 5), arr(t, tensor.Int64, 2)), nil, tensor.Float32},
		{"isnan", ops(arr(t, tensor.Complex64, 2)), nil, tensor.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			out, err := d.Invoke(tt.op, tt.operands, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.DType())
		})
	}
}

func TestAsTypeRejectsComplexToReal(t *testing.T) {
	_, err := New(&recorder{}).Invoke("astype", ops(arr(t, tensor.Complex64, 2)), WithDType(tensor.Float32))
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)

	_, err = New(&recorder{}).Invoke("astype", ops(arr(t, tensor.Float32, 2)))
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}

func TestEmptyReductions(t *testing.T) {
	t.Run("sum uses identity", func(t *testing.T) {
		rec := &recorder{}
		out, err := New(rec).Invoke("sum", ops(arr(t, tensor.Int32, 0, 3)), Axis(0))
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{3}, out.Shape())
		assert.Equal(t, tensor.Int64, out.DType())
		assert.Empty(t, rec.calls)
		require.Len(t, rec.fills, 1)
		assert.Equal(t, FillValue, rec.fills[0].Kind)
		assert.True(t, rec.fills[0].Value.IsZero())
	})

	t.Run("mean is NaN", func(t *testing.T) {
		rec := &recorder{}
		_, err := New(rec).Invoke("mean", ops(arr(t, tensor.Float64, 0)))
		require.NoError(t, err)
		require.Len(t, rec.fills, 1)
		assert.True(t, math.IsNaN(rec.fills[0].Value.Float()))
	})

	t.Run("all is true", func(t *testing.T) {
		rec := &recorder{}
		_, err := New(rec).Invoke("all", ops(arr(t, tensor.Bool, 2, 0)), Axis(1), Keepdims())
		require.NoError(t, err)
		require.Len(t, rec.fills, 1)
		assert.Equal(t, tensor.Shape{2, 1}, rec.fills[0].Shape)
		assert.True(t, rec.fills[0].Value.Bool())
	})

	t.Run("max has no identity", func(t *testing.T) {
		rec := &recorder{}
		_, err := New(rec).Invoke("max", ops(arr(t, tensor.Float32, 0)))
		assert.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
		assert.Empty(t, rec.calls)
		assert.Empty(t, rec.fills)
	})

	t.Run("argmin has no identity", func(t *testing.T) {
		_, err := New(&recorder{}).Invoke("argmin", ops(arr(t, tensor.Int8, 3, 0)))
		assert.ErrorIs(t, err, tensor.ErrIncompatibleShapes)
	})

	t.Run("non-empty axis executes", func(t *testing.T) {
		rec := &recorder{}
		out, err := New(rec).Invoke("max", ops(arr(t, tensor.Float32, 0, 3)), Axis(1))
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{0}, out.Shape())
		assert.Len(t, rec.calls, 1)
	})
}

func TestBackendErrorsPassThrough(t *testing.T) {
	cause := errors.New("device lost")
	rec := &recorder{err: cause}
	_, err := New(rec).Invoke("sqrt", ops(arr(t, tensor.Float32, 2)))
	require.Error(t, err)
	assert.Equal(t, "device lost", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, tensor.IsLocal(err))

	var be *tensor.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "sqrt", be.Op)
	assert.Equal(t, "recorder", be.Backend)
}

func TestSpecialDirectives(t *testing.T) {
	d := New(&recorder{})

	call, err := d.Resolve("divide", ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float32, 2)))
	require.NoError(t, err)
	assert.Equal(t, special.ZeroDivisionIEEE, call.Special.ZeroDivision)

	call, err = d.Resolve("floor_divide", ops(arr(t, tensor.Int16, 2), tensor.IntScalar(0)))
	require.NoError(t, err)
	assert.Equal(t, special.ZeroDivisionZero, call.Special.ZeroDivision)

	call, err = d.Resolve("bitwise_left_shift", ops(arr(t, tensor.Uint8, 2), arr(t, tensor.Uint8, 2)))
	require.NoError(t, err)
	assert.Equal(t, special.ShiftSaturate, call.Special.Shift)

	call, err = d.Resolve("round", ops(arr(t, tensor.Float64, 2)))
	require.NoError(t, err)
	assert.Equal(t, special.RoundingHalfEven, call.Special.Rounding)

	call, err = d.Resolve("sqrt", ops(arr(t, tensor.Float64, 2)))
	require.NoError(t, err)
	assert.True(t, call.Special.IsZero())
}

func TestResolveShapes(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		operands func(t *testing.T) []tensor.Operand
		opts     []Option
		want     tensor.Shape
		axes     []int
	}{
		{
			name: "sum all", op: "sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			want:     tensor.Shape{},
			axes:     []int{0, 1},
		},
		{
			name: "sum keepdims", op: "sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3, 4)) },
			opts:     []Option{Axis(-1, 0), Keepdims()},
			want:     tensor.Shape{1, 3, 1},
			axes:     []int{0, 2},
		},
		{
			name: "sum no axes", op: "sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis()},
			want:     tensor.Shape{2, 3},
			axes:     []int{},
		},
		{
			name: "argmax flat", op: "argmax",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			want:     tensor.Shape{},
		},
		{
			name: "argmax keepdims", op: "argmax",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(1), Keepdims()},
			want:     tensor.Shape{2, 1},
			axes:     []int{1},
		},
		{
			name: "cumulative include initial", op: "cumulative_sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Int32, 2, 3)) },
			opts:     []Option{Axis(1), IncludeInitial()},
			want:     tensor.Shape{2, 4},
			axes:     []int{1},
		},
		{
			name: "reshape infer", op: "reshape",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 6)) },
			opts:     []Option{func(o *Options) { o.Shape = tensor.Shape{3, -1} }},
			want:     tensor.Shape{3, 4},
		},
		{
			name: "permute", op: "permute_dims",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3, 4)) },
			opts:     []Option{Axis(2, 0, 1)},
			want:     tensor.Shape{4, 2, 3},
			axes:     []int{2, 0, 1},
		},
		{
			name: "matrix transpose", op: "matrix_transpose",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 5, 2, 3)) },
			want:     tensor.Shape{5, 3, 2},
			axes:     []int{0, 2, 1},
		},
		{
			name: "moveaxis", op: "moveaxis",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3, 4)) },
			opts: []Option{func(o *Options) {
				o.Source, o.Destination = []int{0}, []int{-1}
			}},
			want: tensor.Shape{3, 4, 2},
			axes: []int{1, 2, 0},
		},
		{
			name: "expand dims end", op: "expand_dims",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(-1)},
			want:     tensor.Shape{2, 3, 1},
			axes:     []int{2},
		},
		{
			name: "squeeze", op: "squeeze",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 1, 3, 1)) },
			opts:     []Option{Axis(2, 0)},
			want:     tensor.Shape{3},
			axes:     []int{0, 2},
		},
		{
			name: "concat", op: "concat",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 2, 5))
			},
			opts: []Option{Axis(1)},
			want: tensor.Shape{2, 8},
			axes: []int{1},
		},
		{
			name: "concat flat", op: "concat",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 4))
			},
			want: tensor.Shape{10},
		},
		{
			name: "stack last", op: "stack",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 2, 3))
			},
			opts: []Option{Axis(-1)},
			want: tensor.Shape{2, 3, 2},
			axes: []int{2},
		},
		{
			name: "tile pads reps", op: "tile",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{func(o *Options) { o.Reps = []int{2} }},
			want:     tensor.Shape{2, 6},
		},
		{
			name: "tile pads shape", op: "tile",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 3)) },
			opts:     []Option{func(o *Options) { o.Reps = []int{2, 2} }},
			want:     tensor.Shape{2, 6},
		},
		{
			name: "repeat per element", op: "repeat",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(1), func(o *Options) { o.Repeats = []int{1, 0, 2} }},
			want:     tensor.Shape{2, 3},
			axes:     []int{1},
		},
		{
			name: "repeat flat", op: "repeat",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{func(o *Options) { o.Repeats = []int{2} }},
			want:     tensor.Shape{12},
		},
		{
			name: "take", op: "take",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 4, 5), arr(t, tensor.Int32, 7))
			},
			opts: []Option{Axis(1)},
			want: tensor.Shape{4, 7},
			axes: []int{1},
		},
		{
			name: "matmul batch", op: "matmul",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 5, 1, 2, 3), arr(t, tensor.Float32, 4, 3, 6))
			},
			want: tensor.Shape{5, 4, 2, 6},
		},
		{
			name: "matmul vector", op: "matmul",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 3), arr(t, tensor.Float32, 3, 6))
			},
			want: tensor.Shape{6},
		},
		{
			name: "matmul dot", op: "matmul",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 3), arr(t, tensor.Float32, 3))
			},
			want: tensor.Shape{},
		},
		{
			name: "vecdot", op: "vecdot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 4, 3), arr(t, tensor.Float32, 3))
			},
			want: tensor.Shape{4},
			axes: []int{1},
		},
		{
			name: "tensordot", op: "tensordot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3, 4), arr(t, tensor.Float32, 3, 4, 5))
			},
			opts: []Option{func(o *Options) { o.ContractA, o.ContractB = []int{1, 2}, []int{0, 1} }},
			want: tensor.Shape{2, 5},
		},
		{
			name: "tensordot outer", op: "tensordot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float32, 3))
			},
			opts: []Option{Contract(nil, nil)},
			want: tensor.Shape{2, 3},
		},
		{
			name: "tensordot default pairs", op: "tensordot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3, 4), arr(t, tensor.Float32, 3, 4, 5))
			},
			want: tensor.Shape{2, 5},
		},
		{
			name: "tensordot count", op: "tensordot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3, 4), arr(t, tensor.Float32, 4, 5))
			},
			opts: []Option{ContractCount(1)},
			want: tensor.Shape{2, 3, 5},
		},
		{
			name: "searchsorted", op: "searchsorted",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 5), arr(t, tensor.Float32, 2, 2))
			},
			want: tensor.Shape{2, 2},
		},
		{
			name: "where broadcast", op: "where",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Bool, 3, 1), arr(t, tensor.Float32, 4), tensor.FloatScalar(0))
			},
			want: tensor.Shape{3, 4},
		},
		{
			name: "broadcast_to", op: "broadcast_to",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Int8, 3, 1)) },
			opts:     []Option{func(o *Options) { o.Shape = tensor.Shape{2, 3, 4} }},
			want:     tensor.Shape{2, 3, 4},
		},
		{
			name: "select", op: "select",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Int8, 3, 4)) },
			opts:     []Option{Axis(1), func(o *Options) { o.Index = 2 }},
			want:     tensor.Shape{3},
			axes:     []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := New(&recorder{}).Resolve(tt.op, tt.operands(t), tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, call.Shape)
			if tt.axes != nil {
				assert.Equal(t, tt.axes, call.Axes)
			}
		})
	}
}

func TestResolveShapeErrors(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		operands func(t *testing.T) []tensor.Operand
		opts     []Option
		want     error
	}{
		{
			name: "reshape size", op: "reshape",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{func(o *Options) { o.Shape = tensor.Shape{4, 2} }},
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "reshape two unknowns", op: "reshape",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{func(o *Options) { o.Shape = tensor.Shape{-1, -1} }},
			want:     tensor.ErrInvalidArgument,
		},
		{
			name: "squeeze non-unit", op: "squeeze",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(0)},
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "axis out of range", op: "sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(2)},
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "repeated axis", op: "sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 3)) },
			opts:     []Option{Axis(1, -1)},
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "matmul inner", op: "matmul",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 4, 5))
			},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "matmul scalar", op: "matmul",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32), arr(t, tensor.Float32, 4, 5))
			},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "concat mismatch", op: "concat",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 3, 3))
			},
			opts: []Option{Axis(1)},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "stack mismatch", op: "stack",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2), arr(t, tensor.Float32, 3))
			},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "broadcast_to smaller", op: "broadcast_to",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Int8, 3)) },
			opts:     []Option{func(o *Options) { o.Shape = tensor.Shape{4} }},
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "clip bound enlarges x", op: "clip",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 3), arr(t, tensor.Float32, 2, 3))
			},
			opts: []Option{func(o *Options) { o.HasMin = true }},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "clip bound promotes x", op: "clip",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 3), arr(t, tensor.Float64, 3))
			},
			opts: []Option{func(o *Options) { o.HasMax = true }},
			want: tensor.ErrNoCommonType,
		},
		{
			name: "take 2-d indices", op: "take",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 4), arr(t, tensor.Int64, 2, 2))
			},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "take float indices", op: "take",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 4), arr(t, tensor.Float32, 2))
			},
			want: tensor.ErrUnsupportedDType,
		},
		{
			name: "searchsorted side", op: "searchsorted",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 4), arr(t, tensor.Float32, 2))
			},
			opts: []Option{Side("middle")},
			want: tensor.ErrInvalidArgument,
		},
		{
			name: "cumulative needs axis", op: "cumulative_sum",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 2, 2)) },
			want:     tensor.ErrIncompatibleShapes,
		},
		{
			name: "vecdot sizes", op: "vecdot",
			operands: func(t *testing.T) []tensor.Operand {
				return ops(arr(t, tensor.Float32, 2, 3), arr(t, tensor.Float32, 2, 1))
			},
			want: tensor.ErrIncompatibleShapes,
		},
		{
			name: "negative correction", op: "var",
			operands: func(t *testing.T) []tensor.Operand { return ops(arr(t, tensor.Float32, 3)) },
			opts:     []Option{Correction(-1)},
			want:     tensor.ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&recorder{}).Resolve(tt.op, tt.operands(t), tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateValidates(t *testing.T) {
	rec := &recorder{}
	d := New(rec)

	out, err := d.Create("zeros", &Fill{Kind: FillValue, DType: tensor.Int8, Shape: tensor.Shape{2, 2}, Value: tensor.IntScalar(0)})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())

	_, err = d.Create("zeros", &Fill{Kind: FillValue, DType: tensor.DataType(99), Shape: tensor.Shape{2}})
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)

	_, err = d.Create("zeros", &Fill{Kind: FillValue, DType: tensor.Int8, Shape: tensor.Shape{-2}})
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
	assert.Len(t, rec.fills, 1)
}

func TestLoggerRecordsRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := New(&recorder{}, WithLogger(logger))

	_, err := d.Invoke("add", ops(arr(t, tensor.Int64, 2), arr(t, tensor.Uint64, 2)))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "call rejected")
	assert.Contains(t, buf.String(), "op=add")

	buf.Reset()
	_, err = d.Invoke("add", ops(arr(t, tensor.Int64, 2), arr(t, tensor.Int64, 2)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=execute")
}

func TestConcurrentInvoke(t *testing.T) {
	rec := &recorder{}
	d := New(rec)
	a := arr(t, tensor.Float32, 4, 1)
	b := arr(t, tensor.Float64, 3)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				out, err := d.Invoke("add", ops(a, b))
				if err != nil {
					errs <- err
					continue
				}
				if out.DType() != tensor.Float64 || !out.Shape().Equal(tensor.Shape{4, 3}) {
					errs <- errors.New("unexpected result " + out.String())
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, rec.calls, workers*perWorker)
	assert.Equal(t, tensor.Shape{4, 1}, a.Shape())
}

func TestOpsCatalog(t *testing.T) {
	all := Ops()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		assert.True(t, prev.Group < cur.Group || (prev.Group == cur.Group && prev.Name < cur.Name),
			"%s/%s before %s/%s", prev.Group, prev.Name, cur.Group, cur.Name)
		assert.NotEqual(t, GroupInternal, cur.Group)
	}

	op, ok := Lookup("where")
	require.True(t, ok)
	assert.Equal(t, tensor.KindBool, op.Gate(0))
	assert.Equal(t, tensor.KindAll, op.Gate(2))

	_, ok = Lookup("select")
	assert.True(t, ok)
	_, ok = Lookup("nope")
	assert.False(t, ok)
}
