package cpu

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// element is the storage type of one dtype category.
type element interface {
	bool | int64 | uint64 | float64 | complex128
}

// Buffer is the CPU backend's array storage.
//
// Elements are held in the widest Go type of their category ([]bool,
// []int64, []uint64, []float64, []complex128). Every stored value is already
// reduced to its dtype: integers are wrapped to the dtype width and float32
// values are rounded to float32 precision.
type Buffer struct {
	id    uuid.UUID
	dtype tensor.DataType
	shape tensor.Shape
	data  any
}

func newBuffer(dt tensor.DataType, shape tensor.Shape, data any) *Buffer {
	return &Buffer{
		id:    uuid.Must(uuid.NewV7()),
		dtype: dt,
		shape: shape.Clone(),
		data:  data,
	}
}

// alloc returns a zero-filled buffer.
func alloc(dt tensor.DataType, shape tensor.Shape) *Buffer {
	n := shape.NumElements()
	var data any
	switch dt.Category() {
	case tensor.Boolean:
		data = make([]bool, n)
	case tensor.SignedInteger:
		data = make([]int64, n)
	case tensor.UnsignedInteger:
		data = make([]uint64, n)
	case tensor.RealFloating:
		data = make([]float64, n)
	default:
		data = make([]complex128, n)
	}
	return newBuffer(dt, shape, data)
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() uuid.UUID { return b.id }

// DType returns the element dtype.
func (b *Buffer) DType() tensor.DataType { return b.dtype }

// Shape returns a copy of the shape.
func (b *Buffer) Shape() tensor.Shape { return b.shape.Clone() }

// Len returns the number of elements.
func (b *Buffer) Len() int { return b.shape.NumElements() }

// String returns a short description for logs.
func (b *Buffer) String() string {
	return fmt.Sprintf("cpu.Buffer{%s %s %v}", b.id, b.dtype, b.shape)
}

func (b *Buffer) bools() []bool { return b.data.([]bool) }
func (b *Buffer) ints() []int64 { return b.data.([]int64) }
func (b *Buffer) uints() []uint64 { return b.data.([]uint64) }
func (b *Buffer) floats() []float64 { return b.data.([]float64) }
func (b *Buffer) complexes() []complex128 { return b.data.([]complex128) }
func (b *Buffer) reshaped(s tensor.Shape) *Buffer { return newBuffer(b.dtype, s, b.data) }

// fit reduces every element to the buffer's dtype in place.
func (b *Buffer) fit() *Buffer {
	bits := b.dtype.Bits()
	switch v := b.data.(type) {
	case []int64:
		if bits < 64 {
			for i, x := range v {
				v[i] = special.WrapInt(x, bits)
			}
		}
	case []uint64:
		if bits < 64 {
			for i, x := range v {
				v[i] = special.WrapUint(x, bits)
			}
		}
	case []float64:
		if b.dtype == tensor.Float32 {
			for i, x := range v {
				v[i] = float64(float32(x))
			}
		}
	case []complex128:
		if b.dtype == tensor.Complex64 {
			for i, x := range v {
				v[i] = complex128(complex64(x))
			}
		}
	}
	return b
}

// resolve returns the *Buffer behind a reference.
func resolve(ref tensor.Ref) (*Buffer, error) {
	b, ok := ref.(*Buffer)
	if !ok || b == nil {
		return nil, fmt.Errorf("cpu: foreign array reference %T", ref)
	}
	return b, nil
}

// cast converts b to dtype dt. It returns b itself when no conversion is
// needed.
func cast(b *Buffer, dt tensor.DataType) *Buffer {
	if b.dtype == dt {
		return b
	}
	n := b.Len()
	out := alloc(dt, b.shape)
	switch dst := out.data.(type) {
	case []bool:
		for i := 0; i < n; i++ {
			dst[i] = !isZeroAt(b, i)
		}
	case []int64:
		info, _ := tensor.IInfo(dt)
		for i := 0; i < n; i++ {
			dst[i] = intAt(b, i, info.Min, int64(info.Max))
		}
	case []uint64:
		info, _ := tensor.IInfo(dt)
		for i := 0; i < n; i++ {
			dst[i] = uintAt(b, i, info.Max)
		}
	case []float64:
		for i := 0; i < n; i++ {
			dst[i] = floatAt(b, i)
		}
	case []complex128:
		for i := 0; i < n; i++ {
			dst[i] = complexAt(b, i)
		}
	}
	return out.fit()
}

func isZeroAt(b *Buffer, i int) bool {
	switch v := b.data.(type) {
	case []bool:
		return !v[i]
	case []int64:
		return v[i] == 0
	case []uint64:
		return v[i] == 0
	case []float64:
		return v[i] == 0
	default:
		return b.complexes()[i] == 0
	}
}

// intAt reads element i as a signed integer. Floating values saturate at
// [lo, hi]; integer values are wrapped later by fit.
func intAt(b *Buffer, i int, lo, hi int64) int64 {
	switch v := b.data.(type) {
	case []bool:
		if v[i] {
			return 1
		}
		return 0
	case []int64:
		return v[i]
	case []uint64:
		return int64(v[i])
	case []float64:
		return floatToInt(v[i], lo, hi)
	default:
		return floatToInt(real(b.complexes()[i]), lo, hi)
	}
}

// uintAt reads element i as an unsigned integer. Floating values saturate
// at [0, hi].
func uintAt(b *Buffer, i int, hi uint64) uint64 {
	switch v := b.data.(type) {
	case []bool:
		if v[i] {
			return 1
		}
		return 0
	case []int64:
		return uint64(v[i])
	case []uint64:
		return v[i]
	case []float64:
		return floatToUint(v[i], hi)
	default:
		return floatToUint(real(b.complexes()[i]), hi)
	}
}

func floatAt(b *Buffer, i int) float64 {
	switch v := b.data.(type) {
	case []bool:
		if v[i] {
			return 1
		}
		return 0
	case []int64:
		return float64(v[i])
	case []uint64:
		return float64(v[i])
	case []float64:
		return v[i]
	default:
		return real(b.complexes()[i])
	}
}

func complexAt(b *Buffer, i int) complex128 {
	if v, ok := b.data.([]complex128); ok {
		return v[i]
	}
	return complex(floatAt(b, i), 0)
}

// floatToInt truncates toward zero. NaN maps to 0 and out-of-range values
// saturate at lo and hi.
func floatToInt(x float64, lo, hi int64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= float64(hi):
		return hi
	case x <= float64(lo):
		return lo
	default:
		return int64(x)
	}
}

// floatToUint truncates toward zero. NaN and negative values map to 0 and
// values above hi saturate.
func floatToUint(x float64, hi uint64) uint64 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= float64(hi):
		return hi
	default:
		return uint64(x)
	}
}

// scalarTo returns a one-element buffer holding s converted to dt.
func scalarTo(s tensor.Scalar, dt tensor.DataType, shape tensor.Shape) *Buffer {
	out := alloc(dt, shape)
	switch dst := out.data.(type) {
	case []bool:
		v := !s.IsZero()
		for i := range dst {
			dst[i] = v
		}
	case []int64:
		v := scalarInt(s)
		for i := range dst {
			dst[i] = v
		}
	case []uint64:
		v := uint64(scalarInt(s))
		for i := range dst {
			dst[i] = v
		}
	case []float64:
		v := s.Float()
		for i := range dst {
			dst[i] = v
		}
	case []complex128:
		v := s.Complex()
		for i := range dst {
			dst[i] = v
		}
	}
	return out.fit()
}

func scalarInt(s tensor.Scalar) int64 {
	if s.Kind() == tensor.IntKind {
		return s.Int()
	}
	return floatToInt(s.Float(), math.MinInt64, math.MaxInt64)
}

// fromHost copies a host slice into a new buffer of dtype dt.
func fromHost(data any, dt tensor.DataType, shape tensor.Shape) (*Buffer, error) {
	var src *Buffer
	switch v := data.(type) {
	case []bool:
		src = newBuffer(tensor.Bool, tensor.Shape{len(v)}, append([]bool(nil), v...))
	case []int:
		src = newBuffer(tensor.Int64, tensor.Shape{len(v)}, widen(v, func(x int) int64 { return int64(x) }))
	case []int8:
		src = newBuffer(tensor.Int8, tensor.Shape{len(v)}, widen(v, func(x int8) int64 { return int64(x) }))
	case []int16:
		src = newBuffer(tensor.Int16, tensor.Shape{len(v)}, widen(v, func(x int16) int64 { return int64(x) }))
	case []int32:
		src = newBuffer(tensor.Int32, tensor.Shape{len(v)}, widen(v, func(x int32) int64 { return int64(x) }))
	case []int64:
		src = newBuffer(tensor.Int64, tensor.Shape{len(v)}, append([]int64(nil), v...))
	case []uint8:
		src = newBuffer(tensor.Uint8, tensor.Shape{len(v)}, widen(v, func(x uint8) uint64 { return uint64(x) }))
	case []uint16:
		src = newBuffer(tensor.Uint16, tensor.Shape{len(v)}, widen(v, func(x uint16) uint64 { return uint64(x) }))
	case []uint32:
		src = newBuffer(tensor.Uint32, tensor.Shape{len(v)}, widen(v, func(x uint32) uint64 { return uint64(x) }))
	case []uint64:
		src = newBuffer(tensor.Uint64, tensor.Shape{len(v)}, append([]uint64(nil), v...))
	case []float32:
		src = newBuffer(tensor.Float32, tensor.Shape{len(v)}, widen(v, func(x float32) float64 { return float64(x) }))
	case []float64:
		src = newBuffer(tensor.Float64, tensor.Shape{len(v)}, append([]float64(nil), v...))
	case []complex64:
		src = newBuffer(tensor.Complex64, tensor.Shape{len(v)}, widen(v, func(x complex64) complex128 { return complex128(x) }))
	case []complex128:
		src = newBuffer(tensor.Complex128, tensor.Shape{len(v)}, append([]complex128(nil), v...))
	default:
		return nil, fmt.Errorf("cpu: unsupported host data %T", data)
	}
	if src.Len() != shape.NumElements() {
		return nil, fmt.Errorf("cpu: %d host elements for shape %v", src.Len(), shape)
	}
	out := cast(src, dt)
	if out == src {
		return src.reshaped(shape), nil
	}
	return out.reshaped(shape), nil
}

func widen[S, T any](in []S, conv func(S) T) []T {
	out := make([]T, len(in))
	for i, x := range in {
		out[i] = conv(x)
	}
	return out
}

// Data copies the elements of a CPU-backed array into a host slice. T must
// be the Go type of the array's dtype.
func Data[T tensor.DType](a *tensor.Array) ([]T, error) {
	b, err := resolve(a.Ref())
	if err != nil {
		return nil, err
	}
	if want := tensor.Of[T](); want != b.dtype {
		return nil, fmt.Errorf("cpu: %s read as %s", b, want)
	}
	out := make([]T, b.Len())
	switch dst := any(out).(type) {
	case []bool:
		copy(dst, b.bools())
	case []int8:
		narrow(dst, b.ints())
	case []int16:
		narrow(dst, b.ints())
	case []int32:
		narrow(dst, b.ints())
	case []int64:
		copy(dst, b.ints())
	case []uint8:
		narrow(dst, b.uints())
	case []uint16:
		narrow(dst, b.uints())
	case []uint32:
		narrow(dst, b.uints())
	case []uint64:
		copy(dst, b.uints())
	case []float32:
		narrow(dst, b.floats())
	case []float64:
		copy(dst, b.floats())
	case []complex64:
		for i, x := range b.complexes() {
			dst[i] = complex64(x)
		}
	case []complex128:
		copy(dst, b.complexes())
	}
	return out, nil
}

func narrow[D int8 | int16 | int32 | uint8 | uint16 | uint32 | float32, S int64 | uint64 | float64](dst []D, src []S) {
	for i, x := range src {
		dst[i] = D(x)
	}
}

// Values returns a CPU-backed array's elements as float64, for inspection
// and printing. Complex values contribute their real part.
func Values(a *tensor.Array) ([]float64, error) {
	b, err := resolve(a.Ref())
	if err != nil {
		return nil, err
	}
	out := make([]float64, b.Len())
	for i := range out {
		out[i] = floatAt(b, i)
	}
	return out, nil
}

// gatherInto copies src[idx[k]] into a new slice.
func gatherInto[T element](src []T, idx []int) []T {
	out := make([]T, len(idx))
	for k, i := range idx {
		out[k] = src[i]
	}
	return out
}

// gather builds a buffer of the given shape whose element k is element
// idx[k] of b.
func gather(b *Buffer, idx []int, shape tensor.Shape) *Buffer {
	var data any
	switch v := b.data.(type) {
	case []bool:
		data = gatherInto(v, idx)
	case []int64:
		data = gatherInto(v, idx)
	case []uint64:
		data = gatherInto(v, idx)
	case []float64:
		data = gatherInto(v, idx)
	case []complex128:
		data = gatherInto(v, idx)
	}
	return newBuffer(b.dtype, shape, data)
}

// concatData joins the storage of same-dtype buffers.
func concatData(dt tensor.DataType, parts []*Buffer, shape tensor.Shape) *Buffer {
	out := alloc(dt, shape)
	k := 0
	for _, p := range parts {
		switch dst := out.data.(type) {
		case []bool:
			k += copy(dst[k:], p.bools())
		case []int64:
			k += copy(dst[k:], p.ints())
		case []uint64:
			k += copy(dst[k:], p.uints())
		case []float64:
			k += copy(dst[k:], p.floats())
		case []complex128:
			k += copy(dst[k:], p.complexes())
		}
	}
	return out
}
