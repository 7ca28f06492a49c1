package cpu

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/parallel"
	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// unaryOp holds one elementwise function per storage category. Integer
// functions receive the dtype width; results are wrapped afterwards.
type unaryOp struct {
	b func(bool) bool
	i func(x int64, bits int) int64
	u func(x uint64, bits int) uint64
	f func(float64) float64
	c func(complex128) complex128
}

func identity[T any](x T) T { return x }

func identityBits[T any](x T, _ int) T { return x }

func floatOnly(f func(float64) float64, c func(complex128) complex128) unaryOp {
	return unaryOp{f: f, c: c}
}

var unaryOps = map[string]unaryOp{
	"abs": {
		i: func(x int64, bits int) int64 {
			if x < 0 {
				return special.WrapInt(-x, bits)
			}
			return x
		},
		u: identityBits[uint64],
		f: math.Abs,
	},
	"acos":  floatOnly(math.Acos, cmplx.Acos),
	"acosh": floatOnly(math.Acosh, cmplx.Acosh),
	"asin":  floatOnly(math.Asin, cmplx.Asin),
	"asinh": floatOnly(math.Asinh, cmplx.Asinh),
	"atan":  floatOnly(math.Atan, cmplx.Atan),
	"atanh": floatOnly(math.Atanh, cmplx.Atanh),
	"bitwise_invert": {
		b: func(x bool) bool { return !x },
		i: func(x int64, _ int) int64 { return ^x },
		u: func(x uint64, _ int) uint64 { return ^x },
	},
	"ceil":  {i: identityBits[int64], u: identityBits[uint64], f: math.Ceil},
	"floor": {i: identityBits[int64], u: identityBits[uint64], f: math.Floor},
	"trunc": {i: identityBits[int64], u: identityBits[uint64], f: math.Trunc},
	"conj": {
		i: identityBits[int64], u: identityBits[uint64], f: identity[float64],
		c: cmplx.Conj,
	},
	"cos":   floatOnly(math.Cos, cmplx.Cos),
	"cosh":  floatOnly(math.Cosh, cmplx.Cosh),
	"exp":   floatOnly(math.Exp, cmplx.Exp),
	"expm1": floatOnly(math.Expm1, func(z complex128) complex128 { return cmplx.Exp(z) - 1 }),
	"log":   floatOnly(math.Log, cmplx.Log),
	"log1p": floatOnly(math.Log1p, func(z complex128) complex128 { return cmplx.Log(1 + z) }),
	"log2":  floatOnly(math.Log2, func(z complex128) complex128 { return cmplx.Log(z) / math.Ln2 }),
	"log10": floatOnly(math.Log10, cmplx.Log10),
	"logical_not": {
		b: func(x bool) bool { return !x },
	},
	"negative": {
		i: func(x int64, _ int) int64 { return -x },
		u: func(x uint64, _ int) uint64 { return -x },
		f: func(x float64) float64 { return -x },
		c: func(z complex128) complex128 { return -z },
	},
	"positive": {
		i: identityBits[int64], u: identityBits[uint64],
		f: identity[float64], c: identity[complex128],
	},
	"reciprocal": floatOnly(
		func(x float64) float64 { return special.Divide(1, x) },
		func(z complex128) complex128 { return 1 / z },
	),
	"sign": {
		i: func(x int64, _ int) int64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return 0
		},
		u: func(x uint64, _ int) uint64 {
			if x > 0 {
				return 1
			}
			return 0
		},
		f: func(x float64) float64 {
			switch {
			case math.IsNaN(x), x == 0:
				return x
			case x > 0:
				return 1
			}
			return -1
		},
		c: func(z complex128) complex128 {
			if z == 0 {
				return 0
			}
			return z / complex(cmplx.Abs(z), 0)
		},
	},
	"sin":  floatOnly(math.Sin, cmplx.Sin),
	"sinh": floatOnly(math.Sinh, cmplx.Sinh),
	"sqrt": floatOnly(math.Sqrt, cmplx.Sqrt),
	"square": {
		i: func(x int64, _ int) int64 { return x * x },
		u: func(x uint64, _ int) uint64 { return x * x },
		f: func(x float64) float64 { return x * x },
		c: func(z complex128) complex128 { return z * z },
	},
	"tan":  floatOnly(math.Tan, cmplx.Tan),
	"tanh": floatOnly(math.Tanh, cmplx.Tanh),
}

// realUnary maps complex inputs to real results.
var realUnary = map[string]func(complex128) float64{
	"abs":  cmplx.Abs,
	"real": func(z complex128) float64 { return real(z) },
	"imag": func(z complex128) float64 { return imag(z) },
}

// predicate holds one boolean test per storage category.
type predicate struct {
	i func(int64) bool
	u func(uint64) bool
	f func(float64) bool
	c func(complex128) bool
}

func always(v bool) func(int64) bool   { return func(int64) bool { return v } }
func alwaysU(v bool) func(uint64) bool { return func(uint64) bool { return v } }

var predicates = map[string]predicate{
	"isfinite": {
		i: always(true), u: alwaysU(true),
		f: func(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) },
		c: func(z complex128) bool { return !cmplx.IsInf(z) && !cmplx.IsNaN(z) },
	},
	"isinf": {
		i: always(false), u: alwaysU(false),
		f: func(x float64) bool { return math.IsInf(x, 0) },
		c: cmplx.IsInf,
	},
	"isnan": {
		i: always(false), u: alwaysU(false),
		f: math.IsNaN,
		c: cmplx.IsNaN,
	},
	"signbit": {
		f: math.Signbit,
	},
}

func roundFor(d special.Directive) func(float64) float64 {
	if d.Rounding == special.RoundingHalfEven {
		return special.RoundHalfEven
	}
	return math.Round
}

func (cpu *CPUBackend) unary(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	if x.dtype.Category() == tensor.ComplexFloating {
		if f, ok := realUnary[call.Op]; ok {
			out := alloc(call.DType, call.Shape)
			src, dst := x.complexes(), out.floats()
			parallel.For(len(dst), func(k int) { dst[k] = f(src[k]) }, cpu.cfg)
			return out.fit(), nil
		}
	}
	if p, ok := predicates[call.Op]; ok {
		return cpu.test(call, x, p)
	}

	op, ok := unaryOps[call.Op]
	if call.Op == "round" {
		r := roundFor(call.Special)
		op = unaryOp{
			i: identityBits[int64], u: identityBits[uint64], f: r,
			c: func(z complex128) complex128 { return complex(r(real(z)), r(imag(z))) },
		}
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("cpu: no kernel for %s", call.Op)
	}

	out := alloc(call.DType, call.Shape)
	bits := x.dtype.Bits()
	missing := false
	switch dst := out.data.(type) {
	case []bool:
		missing = op.b == nil
		if !missing {
			mapInto(dst, x.bools(), op.b, cpu.cfg)
		}
	case []int64:
		missing = op.i == nil
		if !missing {
			mapInto(dst, x.ints(), func(v int64) int64 { return op.i(v, bits) }, cpu.cfg)
		}
	case []uint64:
		missing = op.u == nil
		if !missing {
			mapInto(dst, x.uints(), func(v uint64) uint64 { return op.u(v, bits) }, cpu.cfg)
		}
	case []float64:
		missing = op.f == nil
		if !missing {
			mapInto(dst, x.floats(), op.f, cpu.cfg)
		}
	case []complex128:
		missing = op.c == nil
		if !missing {
			mapInto(dst, x.complexes(), op.c, cpu.cfg)
		}
	}
	if missing {
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, x.dtype)
	}
	return out.fit(), nil
}

func mapInto[S, D element](dst []D, src []S, f func(S) D, cfg parallel.Config) {
	parallel.For(len(dst), func(k int) { dst[k] = f(src[k]) }, cfg)
}

func (cpu *CPUBackend) test(call *dispatch.Call, x *Buffer, p predicate) (*Buffer, error) {
	out := alloc(tensor.Bool, call.Shape)
	dst := out.bools()
	missing := false
	switch src := x.data.(type) {
	case []int64:
		missing = p.i == nil
		if !missing {
			mapInto(dst, src, p.i, cpu.cfg)
		}
	case []uint64:
		missing = p.u == nil
		if !missing {
			mapInto(dst, src, p.u, cpu.cfg)
		}
	case []float64:
		missing = p.f == nil
		if !missing {
			mapInto(dst, src, p.f, cpu.cfg)
		}
	case []complex128:
		missing = p.c == nil
		if !missing {
			mapInto(dst, src, p.c, cpu.cfg)
		}
	default:
		missing = true
	}
	if missing {
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, x.dtype)
	}
	return out, nil
}

// binaryOp holds one elementwise function per storage category. f32
// overrides f for float32 operands.
type binaryOp struct {
	b   func(x, y bool) bool
	i   func(x, y int64, bits int) int64
	u   func(x, y uint64, bits int) uint64
	f   func(x, y float64) float64
	f32 func(x, y float64) float64
	c   func(x, y complex128) complex128
}

var binaryOps = map[string]binaryOp{
	"add": {
		i: func(x, y int64, _ int) int64 { return x + y },
		u: func(x, y uint64, _ int) uint64 { return x + y },
		f: func(x, y float64) float64 { return x + y },
		c: func(x, y complex128) complex128 { return x + y },
	},
	"subtract": {
		i: func(x, y int64, _ int) int64 { return x - y },
		u: func(x, y uint64, _ int) uint64 { return x - y },
		f: func(x, y float64) float64 { return x - y },
		c: func(x, y complex128) complex128 { return x - y },
	},
	"multiply": {
		i: func(x, y int64, _ int) int64 { return x * y },
		u: func(x, y uint64, _ int) uint64 { return x * y },
		f: func(x, y float64) float64 { return x * y },
		c: func(x, y complex128) complex128 { return x * y },
	},
	"divide": {
		f: special.Divide,
		c: func(x, y complex128) complex128 { return x / y },
	},
	"floor_divide": {
		i: func(x, y int64, _ int) int64 { return special.FloorDivideInt(x, y) },
		u: func(x, y uint64, _ int) uint64 { return special.FloorDivideUint(x, y) },
		f: special.FloorDivideFloat,
	},
	"remainder": {
		i: func(x, y int64, _ int) int64 { return special.RemainderInt(x, y) },
		u: func(x, y uint64, _ int) uint64 { return special.RemainderUint(x, y) },
		f: special.RemainderFloat,
	},
	"pow": {
		i: special.PowInt,
		u: special.PowUint,
		f: math.Pow,
		c: func(x, y complex128) complex128 {
			if y == 0 {
				return 1
			}
			return cmplx.Pow(x, y)
		},
	},
	"atan2":    {f: math.Atan2},
	"copysign": {f: math.Copysign},
	"hypot":    {f: math.Hypot},
	"logaddexp": {
		f: func(x, y float64) float64 {
			switch {
			case math.IsNaN(x) || math.IsNaN(y):
				return math.NaN()
			case x == y:
				return x + math.Ln2
			}
			hi, lo := math.Max(x, y), math.Min(x, y)
			return hi + math.Log1p(math.Exp(lo-hi))
		},
	},
	"nextafter": {
		f: math.Nextafter,
		f32: func(x, y float64) float64 {
			return float64(math.Nextafter32(float32(x), float32(y)))
		},
	},
	"bitwise_and": {
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64, _ int) int64 { return x & y },
		u: func(x, y uint64, _ int) uint64 { return x & y },
	},
	"bitwise_or": {
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64, _ int) int64 { return x | y },
		u: func(x, y uint64, _ int) uint64 { return x | y },
	},
	"bitwise_xor": {
		b: func(x, y bool) bool { return x != y },
		i: func(x, y int64, _ int) int64 { return x ^ y },
		u: func(x, y uint64, _ int) uint64 { return x ^ y },
	},
	"logical_and": {b: func(x, y bool) bool { return x && y }},
	"logical_or":  {b: func(x, y bool) bool { return x || y }},
	"logical_xor": {b: func(x, y bool) bool { return x != y }},
}

// shiftOp returns the shift kernels for a directive. Saturating shifts
// follow the documented out-of-range results; otherwise Go shift semantics
// apply at 64 bits and the result is wrapped.
func shiftOp(name string, d special.Directive) binaryOp {
	saturate := d.Shift == special.ShiftSaturate
	if name == "bitwise_left_shift" {
		return binaryOp{
			i: func(x, y int64, bits int) int64 {
				if saturate {
					return special.ShiftLeftInt(x, y, bits)
				}
				return x << uint64(y)
			},
			u: func(x, y uint64, bits int) uint64 {
				if saturate {
					return special.ShiftLeftUint(x, y, bits)
				}
				return x << y
			},
		}
	}
	return binaryOp{
		i: func(x, y int64, bits int) int64 {
			if saturate {
				return special.ShiftRightInt(x, y, bits)
			}
			return x >> uint64(y)
		},
		u: func(x, y uint64, bits int) uint64 {
			if saturate {
				return special.ShiftRightUint(x, y, bits)
			}
			return x >> y
		},
	}
}

// extremumOp returns maximum or minimum under the directive's NaN mode.
func extremumOp(name string, d special.Directive) binaryOp {
	pick := func(x, y float64) float64 {
		if d.NaN == special.NaNPropagate {
			if name == "maximum" {
				return special.Maximum(x, y)
			}
			return special.Minimum(x, y)
		}
		if name == "maximum" {
			return math.Max(x, y)
		}
		return math.Min(x, y)
	}
	if name == "maximum" {
		return binaryOp{
			i: func(x, y int64, _ int) int64 { return max(x, y) },
			u: func(x, y uint64, _ int) uint64 { return max(x, y) },
			f: pick,
		}
	}
	return binaryOp{
		i: func(x, y int64, _ int) int64 { return min(x, y) },
		u: func(x, y uint64, _ int) uint64 { return min(x, y) },
		f: pick,
	}
}

func lookupBinary(call *dispatch.Call) (binaryOp, bool) {
	switch call.Op {
	case "bitwise_left_shift", "bitwise_right_shift":
		return shiftOp(call.Op, call.Special), true
	case "maximum", "minimum":
		return extremumOp(call.Op, call.Special), true
	}
	op, ok := binaryOps[call.Op]
	return op, ok
}

func zip[T, R element](dst []R, x, y []T, ox, oy []int, f func(T, T) R, cfg parallel.Config) {
	parallel.For(len(dst), func(k int) { dst[k] = f(x[ox[k]], y[oy[k]]) }, cfg)
}

func (cpu *CPUBackend) binary(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	if _, ok := comparisons[call.Op]; ok {
		return cpu.compare(call, in)
	}
	op, ok := lookupBinary(call)
	if !ok {
		return nil, fmt.Errorf("cpu: no kernel for %s", call.Op)
	}
	x, y := in[0], in[1]
	off := broadcastOffsets(call.Broadcast)
	out := alloc(call.DType, call.Shape)
	bits := call.DType.Bits()
	missing := false
	switch dst := out.data.(type) {
	case []bool:
		missing = op.b == nil
		if !missing {
			zip(dst, x.bools(), y.bools(), off[0], off[1], op.b, cpu.cfg)
		}
	case []int64:
		missing = op.i == nil
		if !missing {
			zip(dst, x.ints(), y.ints(), off[0], off[1], func(p, q int64) int64 { return op.i(p, q, bits) }, cpu.cfg)
		}
	case []uint64:
		missing = op.u == nil
		if !missing {
			zip(dst, x.uints(), y.uints(), off[0], off[1], func(p, q uint64) uint64 { return op.u(p, q, bits) }, cpu.cfg)
		}
	case []float64:
		f := op.f
		if call.DType == tensor.Float32 && op.f32 != nil {
			f = op.f32
		}
		missing = f == nil
		if !missing {
			zip(dst, x.floats(), y.floats(), off[0], off[1], f, cpu.cfg)
		}
	case []complex128:
		missing = op.c == nil
		if !missing {
			zip(dst, x.complexes(), y.complexes(), off[0], off[1], op.c, cpu.cfg)
		}
	}
	if missing {
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, call.DType)
	}
	return out.fit(), nil
}

// comparison holds one comparison per storage category.
type comparison struct {
	b func(x, y bool) bool
	i func(x, y int64) bool
	u func(x, y uint64) bool
	f func(x, y float64) bool
	c func(x, y complex128) bool
}

var comparisons = map[string]comparison{
	"equal": {
		b: func(x, y bool) bool { return x == y },
		i: func(x, y int64) bool { return x == y },
		u: func(x, y uint64) bool { return x == y },
		f: func(x, y float64) bool { return x == y },
		c: func(x, y complex128) bool { return x == y },
	},
	"not_equal": {
		b: func(x, y bool) bool { return x != y },
		i: func(x, y int64) bool { return x != y },
		u: func(x, y uint64) bool { return x != y },
		f: func(x, y float64) bool { return x != y },
		c: func(x, y complex128) bool { return x != y },
	},
	"greater": {
		i: func(x, y int64) bool { return x > y },
		u: func(x, y uint64) bool { return x > y },
		f: func(x, y float64) bool { return x > y },
	},
	"greater_equal": {
		i: func(x, y int64) bool { return x >= y },
		u: func(x, y uint64) bool { return x >= y },
		f: func(x, y float64) bool { return x >= y },
	},
	"less": {
		i: func(x, y int64) bool { return x < y },
		u: func(x, y uint64) bool { return x < y },
		f: func(x, y float64) bool { return x < y },
	},
	"less_equal": {
		i: func(x, y int64) bool { return x <= y },
		u: func(x, y uint64) bool { return x <= y },
		f: func(x, y float64) bool { return x <= y },
	},
}

func (cpu *CPUBackend) compare(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	cmp := comparisons[call.Op]
	x, y := in[0], in[1]
	off := broadcastOffsets(call.Broadcast)
	out := alloc(tensor.Bool, call.Shape)
	dst := out.bools()
	missing := false
	switch xs := x.data.(type) {
	case []bool:
		missing = cmp.b == nil
		if !missing {
			zip(dst, xs, y.bools(), off[0], off[1], cmp.b, cpu.cfg)
		}
	case []int64:
		missing = cmp.i == nil
		if !missing {
			zip(dst, xs, y.ints(), off[0], off[1], cmp.i, cpu.cfg)
		}
	case []uint64:
		missing = cmp.u == nil
		if !missing {
			zip(dst, xs, y.uints(), off[0], off[1], cmp.u, cpu.cfg)
		}
	case []float64:
		missing = cmp.f == nil
		if !missing {
			zip(dst, xs, y.floats(), off[0], off[1], cmp.f, cpu.cfg)
		}
	case []complex128:
		missing = cmp.c == nil
		if !missing {
			zip(dst, xs, y.complexes(), off[0], off[1], cmp.c, cpu.cfg)
		}
	}
	if missing {
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, x.dtype)
	}
	return out, nil
}

func choose[T element](dst []T, cond []bool, x, y []T, off [][]int, cfg parallel.Config) {
	parallel.For(len(dst), func(k int) {
		if cond[off[0][k]] {
			dst[k] = x[off[1][k]]
		} else {
			dst[k] = y[off[2][k]]
		}
	}, cfg)
}

func (cpu *CPUBackend) where(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	cond, x, y := in[0], in[1], in[2]
	off := broadcastOffsets(call.Broadcast)
	out := alloc(call.DType, call.Shape)
	c := cond.bools()
	switch dst := out.data.(type) {
	case []bool:
		choose(dst, c, x.bools(), y.bools(), off, cpu.cfg)
	case []int64:
		choose(dst, c, x.ints(), y.ints(), off, cpu.cfg)
	case []uint64:
		choose(dst, c, x.uints(), y.uints(), off, cpu.cfg)
	case []float64:
		choose(dst, c, x.floats(), y.floats(), off, cpu.cfg)
	case []complex128:
		choose(dst, c, x.complexes(), y.complexes(), off, cpu.cfg)
	}
	return out, nil
}

// clip applies maximum with the lower bound, then minimum with the upper
// bound. NaN in x or a bound propagates.
func (cpu *CPUBackend) clip(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	off := broadcastOffsets(call.Broadcast)
	lo, hi := -1, -1
	next := 1
	if call.Attrs.HasMin {
		lo, next = next, next+1
	}
	if call.Attrs.HasMax {
		hi = next
	}
	out := alloc(call.DType, call.Shape)
	x := in[0]
	switch dst := out.data.(type) {
	case []int64:
		clipInto(dst, x.ints(), in, off, lo, hi, (*Buffer).ints, func(a, b int64) int64 { return max(a, b) }, func(a, b int64) int64 { return min(a, b) }, cpu.cfg)
	case []uint64:
		clipInto(dst, x.uints(), in, off, lo, hi, (*Buffer).uints, func(a, b uint64) uint64 { return max(a, b) }, func(a, b uint64) uint64 { return min(a, b) }, cpu.cfg)
	case []float64:
		clipInto(dst, x.floats(), in, off, lo, hi, (*Buffer).floats, special.Maximum, special.Minimum, cpu.cfg)
	default:
		return nil, fmt.Errorf("cpu: clip is not implemented for %s", call.DType)
	}
	return out, nil
}

func clipInto[T element](dst, x []T, in []*Buffer, off [][]int, lo, hi int, data func(*Buffer) []T, upper, lower func(a, b T) T, cfg parallel.Config) {
	var los, his []T
	if lo > 0 {
		los = data(in[lo])
	}
	if hi > 0 {
		his = data(in[hi])
	}
	parallel.For(len(dst), func(k int) {
		v := x[off[0][k]]
		if los != nil {
			v = upper(v, los[off[lo][k]])
		}
		if his != nil {
			v = lower(v, his[off[hi][k]])
		}
		dst[k] = v
	}, cfg)
}
