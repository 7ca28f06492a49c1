package special

import (
	"fmt"
	"math"

	"github.com/born-ml/arrayapi/internal/tensor"
)

// Divide returns x / y under IEEE 754: a non-zero dividend over ±0 gives an
// infinity whose sign is the product of the operand signs, and 0/0 is NaN.
func Divide(x, y float64) float64 {
	if y == 0 {
		switch {
		case math.IsNaN(x) || x == 0:
			return math.NaN()
		case math.Signbit(x) != math.Signbit(y):
			return math.Inf(-1)
		default:
			return math.Inf(1)
		}
	}
	return x / y
}

// FloorDivideFloat returns floor(x / y) with IEEE handling of zero divisors.
func FloorDivideFloat(x, y float64) float64 {
	if y == 0 {
		return Divide(x, y)
	}
	return math.Floor(x / y)
}

// RemainderFloat returns x - floor(x/y)*y, carrying the sign of y.
// A zero divisor yields NaN.
func RemainderFloat(x, y float64) float64 {
	if y == 0 || math.IsInf(x, 0) || math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if math.IsInf(y, 0) {
		if x == 0 || math.Signbit(x) == math.Signbit(y) {
			return x
		}
		return y
	}
	r := math.Mod(x, y)
	if r != 0 && math.Signbit(r) != math.Signbit(y) {
		r += y
	}
	if r == 0 {
		return math.Copysign(0, y)
	}
	return r
}

// FloorDivideInt returns floor(x / y); division by zero yields 0.
func FloorDivideInt(x, y int64) int64 {
	if y == 0 {
		return 0
	}
	if x == math.MinInt64 && y == -1 {
		return math.MinInt64 // wraps
	}
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

// RemainderInt returns x mod y with the sign of y; modulo by zero yields 0.
func RemainderInt(x, y int64) int64 {
	if y == 0 || y == -1 {
		return 0
	}
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

// FloorDivideUint returns x / y; division by zero yields 0.
func FloorDivideUint(x, y uint64) uint64 {
	if y == 0 {
		return 0
	}
	return x / y
}

// RemainderUint returns x % y; modulo by zero yields 0.
func RemainderUint(x, y uint64) uint64 {
	if y == 0 {
		return 0
	}
	return x % y
}

// ShiftLeftInt shifts x left by n bits within a signed integer of the given
// width. Amounts outside [0, bits) yield 0.
func ShiftLeftInt(x, n int64, bits int) int64 {
	if n < 0 || n >= int64(bits) {
		return 0
	}
	return WrapInt(x<<uint(n), bits)
}

// ShiftRightInt arithmetically shifts x right by n bits. Amounts outside
// [0, bits) yield 0 for non-negative x and -1 for negative x.
func ShiftRightInt(x, n int64, bits int) int64 {
	if n < 0 || n >= int64(bits) {
		if x < 0 {
			return -1
		}
		return 0
	}
	return x >> uint(n)
}

// ShiftLeftUint shifts x left by n bits within an unsigned integer of the
// given width. Amounts >= bits yield 0.
func ShiftLeftUint(x, n uint64, bits int) uint64 {
	if n >= uint64(bits) {
		return 0
	}
	return WrapUint(x<<n, bits)
}

// ShiftRightUint logically shifts x right by n bits. Amounts >= bits yield 0.
func ShiftRightUint(x, n uint64, bits int) uint64 {
	if n >= uint64(bits) {
		return 0
	}
	return x >> n
}

// WrapInt reduces v to a signed integer of the given width using
// two's-complement wraparound.
func WrapInt(v int64, bits int) int64 {
	if bits >= 64 {
		return v
	}
	shift := uint(64 - bits)
	return (v << shift) >> shift
}

// WrapUint reduces v to an unsigned integer of the given width.
func WrapUint(v uint64, bits int) uint64 {
	if bits >= 64 {
		return v
	}
	return v & (1<<uint(bits) - 1)
}

// PowInt raises x to the integer power n with wraparound at the given
// width. Negative exponents yield 1 for x == 1, ±1 for x == -1, and 0
// otherwise.
func PowInt(x, n int64, bits int) int64 {
	if n < 0 {
		switch x {
		case 1:
			return 1
		case -1:
			if n%2 == 0 {
				return 1
			}
			return -1
		default:
			return 0
		}
	}
	result := int64(1)
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = WrapInt(result*base, bits)
		}
		base = WrapInt(base*base, bits)
		n >>= 1
	}
	return result
}

// PowUint raises x to the power n with wraparound at the given width.
func PowUint(x, n uint64, bits int) uint64 {
	result := uint64(1)
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = WrapUint(result*base, bits)
		}
		base = WrapUint(base*base, bits)
		n >>= 1
	}
	return result
}

// RoundHalfEven rounds to the nearest integer, ties to even.
func RoundHalfEven(x float64) float64 {
	return math.RoundToEven(x)
}

// Maximum returns the larger of x and y. NaN propagates and +0 is larger
// than -0.
func Maximum(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case x == 0 && y == 0:
		if math.Signbit(x) {
			return y
		}
		return x
	case x > y:
		return x
	default:
		return y
	}
}

// Minimum returns the smaller of x and y. NaN propagates and -0 is smaller
// than +0.
func Minimum(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case x == 0 && y == 0:
		if math.Signbit(x) {
			return x
		}
		return y
	case x < y:
		return x
	default:
		return y
	}
}

// Identity returns the value a reduction governed by rule produces over an
// empty set of elements, as a scalar of the given dtype. Reductions without
// an identity fail with an IncompatibleShapes error.
func Identity(op string, rule Rule, dt tensor.DataType) (tensor.Scalar, error) {
	switch rule {
	case SumReduce, CountReduce:
		return zeroOf(dt), nil
	case ProdReduce:
		return oneOf(dt), nil
	case AnyReduce:
		return tensor.BoolScalar(false), nil
	case AllReduce:
		return tensor.BoolScalar(true), nil
	case MeanReduce:
		return tensor.FloatScalar(math.NaN()), nil
	case ExtremumReduce, ArgReduce:
		return tensor.Scalar{}, tensor.ShapeError(op, "zero-size reduction has no identity")
	default:
		return tensor.Scalar{}, fmt.Errorf("%w: %s has no empty-reduction rule", tensor.ErrInvalidArgument, op)
	}
}

// HasEmptyRule reports whether rule defines the outcome of an empty reduction.
func HasEmptyRule(rule Rule) bool {
	switch rule {
	case SumReduce, ProdReduce, AnyReduce, AllReduce, MeanReduce, CountReduce, ExtremumReduce, ArgReduce:
		return true
	default:
		return false
	}
}

func zeroOf(dt tensor.DataType) tensor.Scalar {
	switch dt.Category() {
	case tensor.Boolean:
		return tensor.BoolScalar(false)
	case tensor.SignedInteger, tensor.UnsignedInteger:
		return tensor.IntScalar(0)
	case tensor.ComplexFloating:
		return tensor.ComplexScalar(0)
	default:
		return tensor.FloatScalar(0)
	}
}

func oneOf(dt tensor.DataType) tensor.Scalar {
	switch dt.Category() {
	case tensor.Boolean:
		return tensor.BoolScalar(true)
	case tensor.SignedInteger, tensor.UnsignedInteger:
		return tensor.IntScalar(1)
	case tensor.ComplexFloating:
		return tensor.ComplexScalar(1)
	default:
		return tensor.FloatScalar(1)
	}
}
