package namespace

import (
	"fmt"
	"math"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// dtypeOr returns the dtype keyword, or def when it was omitted.
func dtypeOr(o *dispatch.Options, def tensor.DataType) tensor.DataType {
	if o.DType != nil {
		return *o.DType
	}
	return def
}

// Arange returns evenly spaced values in [start, stop). A nil stop makes
// start the stop of a range beginning at 0; a nil step means 1.
//
// The dtype defaults to int64 when every bound is an integer and to
// float64 otherwise.
func (ns *Namespace) Arange(start, stop, step any, opts ...dispatch.Option) (*tensor.Array, error) {
	if stop == nil {
		start, stop = 0, start
	}
	if step == nil {
		step = 1
	}
	bounds := make([]tensor.Scalar, 3)
	integral := true
	for i, v := range []any{start, stop, step} {
		s, err := tensor.ScalarOf(v)
		if err != nil {
			return nil, fmt.Errorf("arange: %w", err)
		}
		switch s.Kind() {
		case tensor.IntKind:
		case tensor.FloatKind:
			integral = false
		default:
			return nil, fmt.Errorf("%w: arange: bounds must be real numbers, got %s", tensor.ErrInvalidArgument, s)
		}
		bounds[i] = s
	}
	lo, hi, by := bounds[0], bounds[1], bounds[2]
	if by.IsZero() {
		return nil, fmt.Errorf("%w: arange: step must not be zero", tensor.ErrInvalidArgument)
	}

	var n int
	if integral {
		span, st := hi.Int()-lo.Int(), by.Int()
		if (span > 0) == (st > 0) && span != 0 {
			n = int((abs64(span) + abs64(st) - 1) / abs64(st))
		}
	} else if f := math.Ceil((hi.Float() - lo.Float()) / by.Float()); f > 0 {
		n = int(f)
	}

	def := tensor.Int64
	if !integral {
		def = tensor.Float64
	}
	dt := dtypeOr(collect(opts), def)
	if !tensor.KindRealNumeric.Allows(dt) {
		return nil, &tensor.UnsupportedDTypeError{Op: "arange", DType: dt, Allowed: tensor.KindRealNumeric}
	}
	return ns.d.Create("arange", &dispatch.Fill{
		Kind: dispatch.FillArange, DType: dt, Shape: tensor.Shape{n},
		Start: lo, Step: by,
	})
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// AsArray converts obj into an array. obj may be an *Array, a Go number, or
// a flat slice of a supported element type; the Shape option reshapes a
// slice, which is otherwise one-dimensional.
//
// Without a dtype keyword the dtype follows the Go element type. An *Array
// is returned as is unless a different dtype or Copy(true) is requested.
func (ns *Namespace) AsArray(obj any, opts ...dispatch.Option) (*tensor.Array, error) {
	o := collect(opts)
	switch v := obj.(type) {
	case *tensor.Array:
		if v == nil {
			return nil, fmt.Errorf("%w: asarray: nil array", tensor.ErrInvalidArgument)
		}
		sameType := o.DType == nil || *o.DType == v.DType()
		if sameType && (o.Copy == nil || !*o.Copy) {
			return v, nil
		}
		if !sameType && o.Copy != nil && !*o.Copy {
			return nil, fmt.Errorf("%w: asarray: changing dtype requires a copy", tensor.ErrInvalidArgument)
		}
		return ns.AsType(v, dtypeOr(o, v.DType()), dispatch.Copy(true))
	case tensor.Scalar, bool, int, int8, int16, int32, int64,
		uint8, uint16, uint32, uint64, float32, float64, complex64, complex128:
		s, err := tensor.ScalarOf(v)
		if err != nil {
			return nil, fmt.Errorf("asarray: %w", err)
		}
		dt := dtypeOr(o, hostScalarDType(v, s))
		if s.Kind() == tensor.IntKind && tensor.KindIntegral.Allows(dt) {
			if _, err := tensor.ResolveScalar(dt, s); err != nil {
				return nil, fmt.Errorf("asarray: %w", err)
			}
		}
		return ns.d.Create("asarray", &dispatch.Fill{Kind: dispatch.FillValue, DType: dt, Shape: tensor.Shape{}, Value: s})
	}

	elem, n, err := hostSlice(obj)
	if err != nil {
		return nil, fmt.Errorf("asarray: %w", err)
	}
	shape := o.Shape
	if shape == nil {
		shape = tensor.Shape{n}
	}
	if shape.NumElements() != n {
		return nil, tensor.ShapeError("asarray", fmt.Sprintf("%d elements do not fill the shape", n), shape)
	}
	return ns.d.Create("asarray", &dispatch.Fill{Kind: dispatch.FillData, DType: dtypeOr(o, elem), Shape: shape, Data: obj})
}

// hostScalarDType maps a Go number to the dtype of its own width; untyped
// kinds (int, Scalar) take the default dtype of their kind.
func hostScalarDType(v any, s tensor.Scalar) tensor.DataType {
	switch v.(type) {
	case int8:
		return tensor.Int8
	case int16:
		return tensor.Int16
	case int32:
		return tensor.Int32
	case uint8:
		return tensor.Uint8
	case uint16:
		return tensor.Uint16
	case uint32:
		return tensor.Uint32
	case uint64:
		return tensor.Uint64
	case float32:
		return tensor.Float32
	case complex64:
		return tensor.Complex64
	default:
		return s.DefaultDType()
	}
}

func hostSlice(data any) (tensor.DataType, int, error) {
	switch v := data.(type) {
	case []bool:
		return tensor.Bool, len(v), nil
	case []int:
		return tensor.Int64, len(v), nil
	case []int8:
		return tensor.Int8, len(v), nil
	case []int16:
		return tensor.Int16, len(v), nil
	case []int32:
		return tensor.Int32, len(v), nil
	case []int64:
		return tensor.Int64, len(v), nil
	case []uint8:
		return tensor.Uint8, len(v), nil
	case []uint16:
		return tensor.Uint16, len(v), nil
	case []uint32:
		return tensor.Uint32, len(v), nil
	case []uint64:
		return tensor.Uint64, len(v), nil
	case []float32:
		return tensor.Float32, len(v), nil
	case []float64:
		return tensor.Float64, len(v), nil
	case []complex64:
		return tensor.Complex64, len(v), nil
	case []complex128:
		return tensor.Complex128, len(v), nil
	default:
		return 0, 0, fmt.Errorf("%w: unsupported host data %T", tensor.ErrInvalidArgument, data)
	}
}

// Empty returns an uninitialized array. The dtype defaults to float64.
func (ns *Namespace) Empty(shape tensor.Shape, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.d.Create("empty", &dispatch.Fill{
		Kind: dispatch.FillEmpty, DType: dtypeOr(collect(opts), tensor.Float64), Shape: shape,
	})
}

// EmptyLike returns an uninitialized array shaped like x.
func (ns *Namespace) EmptyLike(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.d.Create("empty_like", &dispatch.Fill{
		Kind: dispatch.FillEmpty, DType: dtypeOr(collect(opts), x.DType()), Shape: x.Shape(),
	})
}

// Eye returns an nRows by nCols array with ones on the diagonal selected
// by the Diagonal option (0, the main diagonal, by default).
func (ns *Namespace) Eye(nRows, nCols int, opts ...dispatch.Option) (*tensor.Array, error) {
	o := collect(opts)
	return ns.d.Create("eye", &dispatch.Fill{
		Kind: dispatch.FillEye, DType: dtypeOr(o, tensor.Float64),
		Shape: tensor.Shape{nRows, nCols}, K: o.K,
	})
}

// Full returns an array with every element set to value. Without a dtype
// keyword the dtype is the default dtype of the value's kind.
func (ns *Namespace) Full(shape tensor.Shape, value any, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.full("full", shape, value, nil, opts)
}

// FullLike returns an array shaped like x filled with value. The dtype
// defaults to that of x.
func (ns *Namespace) FullLike(x *tensor.Array, value any, opts ...dispatch.Option) (*tensor.Array, error) {
	dt := x.DType()
	return ns.full("full_like", x.Shape(), value, &dt, opts)
}

func (ns *Namespace) full(op string, shape tensor.Shape, value any, like *tensor.DataType, opts []dispatch.Option) (*tensor.Array, error) {
	s, err := tensor.ScalarOf(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	def := s.DefaultDType()
	if like != nil {
		def = *like
	}
	dt := dtypeOr(collect(opts), def)
	if _, err := tensor.ResolveScalar(dt, s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ns.d.Create(op, &dispatch.Fill{Kind: dispatch.FillValue, DType: dt, Shape: shape, Value: s})
}

// Linspace returns num evenly spaced values from start to stop, including
// stop unless Endpoint(false) is given. The dtype defaults to complex128
// when either bound is complex and to float64 otherwise.
func (ns *Namespace) Linspace(start, stop any, num int, opts ...dispatch.Option) (*tensor.Array, error) {
	if num < 0 {
		return nil, fmt.Errorf("%w: linspace: num must be non-negative, got %d", tensor.ErrInvalidArgument, num)
	}
	lo, err := tensor.ScalarOf(start)
	if err != nil {
		return nil, fmt.Errorf("linspace: %w", err)
	}
	hi, err := tensor.ScalarOf(stop)
	if err != nil {
		return nil, fmt.Errorf("linspace: %w", err)
	}
	if lo.Kind() == tensor.BoolKind || hi.Kind() == tensor.BoolKind {
		return nil, fmt.Errorf("%w: linspace: bounds must be numbers", tensor.ErrInvalidArgument)
	}
	def := tensor.Float64
	if lo.Kind() == tensor.ComplexKind || hi.Kind() == tensor.ComplexKind {
		def = tensor.Complex128
	}
	o := collect(opts)
	dt := dtypeOr(o, def)
	if !tensor.KindFloating.Allows(dt) {
		return nil, &tensor.UnsupportedDTypeError{Op: "linspace", DType: dt, Allowed: tensor.KindFloating}
	}
	if def == tensor.Complex128 && !tensor.KindComplex.Allows(dt) {
		return nil, &tensor.NoCommonTypeError{A: dt, B: def}
	}
	endpoint := o.Endpoint == nil || *o.Endpoint
	return ns.d.Create("linspace", &dispatch.Fill{
		Kind: dispatch.FillLinspace, DType: dt, Shape: tensor.Shape{num},
		Start: lo, Stop: hi, Endpoint: endpoint,
	})
}

// Meshgrid returns coordinate matrices from one-dimensional arrays of one
// dtype. indexing is "xy" (Cartesian, the default when empty) or "ij"
// (matrix).
func (ns *Namespace) Meshgrid(arrays []*tensor.Array, indexing string) ([]*tensor.Array, error) {
	switch indexing {
	case "":
		indexing = "xy"
	case "xy", "ij":
	default:
		return nil, fmt.Errorf("%w: meshgrid: indexing must be \"xy\" or \"ij\", got %q", tensor.ErrInvalidArgument, indexing)
	}
	shape := make(tensor.Shape, len(arrays))
	for i, x := range arrays {
		if x.NDim() != 1 {
			return nil, tensor.ShapeError("meshgrid", "inputs must be one-dimensional", x.Shape())
		}
		if x.DType() != arrays[0].DType() {
			return nil, &tensor.NoCommonTypeError{A: arrays[0].DType(), B: x.DType()}
		}
		shape[i] = x.Shape()[0]
	}
	axisOf := func(i int) int { return i }
	if indexing == "xy" && len(arrays) > 1 {
		shape[0], shape[1] = shape[1], shape[0]
		axisOf = func(i int) int {
			switch i {
			case 0:
				return 1
			case 1:
				return 0
			default:
				return i
			}
		}
	}

	out := make([]*tensor.Array, len(arrays))
	for i, x := range arrays {
		view := make(tensor.Shape, len(shape))
		for k := range view {
			view[k] = 1
		}
		view[axisOf(i)] = x.Shape()[0]
		r, err := ns.Reshape(x, view)
		if err != nil {
			return nil, err
		}
		if out[i], err = ns.BroadcastTo(r, shape); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Ones returns an array of ones. The dtype defaults to float64.
func (ns *Namespace) Ones(shape tensor.Shape, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.filled("ones", shape, tensor.Float64, 1, opts)
}

// OnesLike returns ones shaped like x.
func (ns *Namespace) OnesLike(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.filled("ones_like", x.Shape(), x.DType(), 1, opts)
}

// Zeros returns an array of zeros. The dtype defaults to float64.
func (ns *Namespace) Zeros(shape tensor.Shape, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.filled("zeros", shape, tensor.Float64, 0, opts)
}

// ZerosLike returns zeros shaped like x.
func (ns *Namespace) ZerosLike(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.filled("zeros_like", x.Shape(), x.DType(), 0, opts)
}

// filled creates a 0 or 1 array; the value converts to any dtype.
func (ns *Namespace) filled(op string, shape tensor.Shape, def tensor.DataType, v int64, opts []dispatch.Option) (*tensor.Array, error) {
	dt := dtypeOr(collect(opts), def)
	value := tensor.IntScalar(v)
	if dt == tensor.Bool {
		value = tensor.BoolScalar(v != 0)
	}
	return ns.d.Create(op, &dispatch.Fill{Kind: dispatch.FillValue, DType: dt, Shape: shape, Value: value})
}

// Tril zeroes the elements above diagonal k (Diagonal option) of the last
// two axes.
func (ns *Namespace) Tril(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("tril", opts, x)
}

// Triu zeroes the elements below diagonal k of the last two axes.
func (ns *Namespace) Triu(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("triu", opts, x)
}
