package tensor

import (
	"fmt"
	"math"
	"strconv"
)

// Operand is an argument of an operation: an *Array or a Scalar.
type Operand interface {
	operand()
}

// ScalarKind is the host kind of a scalar operand.
type ScalarKind uint8

// Scalar kinds, mirroring the host number kinds the array API allows to mix
// with arrays.
const (
	BoolKind ScalarKind = iota
	IntKind
	FloatKind
	ComplexKind
)

// Scalar is a host value combined with an array operand. It has no dtype of
// its own: it takes the dtype of the array it is combined with.
type Scalar struct {
	kind ScalarKind
	b    bool
	i    int64
	f    float64
	c    complex128
}

func (Scalar) operand() {}

// BoolScalar returns a boolean scalar operand.
func BoolScalar(v bool) Scalar { return Scalar{kind: BoolKind, b: v} }

// IntScalar returns an integer scalar operand.
func IntScalar(v int64) Scalar { return Scalar{kind: IntKind, i: v} }

// FloatScalar returns a real floating scalar operand.
func FloatScalar(v float64) Scalar { return Scalar{kind: FloatKind, f: v} }

// ComplexScalar returns a complex scalar operand.
func ComplexScalar(v complex128) Scalar { return Scalar{kind: ComplexKind, c: v} }

// Kind returns the scalar's host kind.
func (s Scalar) Kind() ScalarKind { return s.kind }

// Bool returns the value of a boolean scalar.
func (s Scalar) Bool() bool { return s.b }

// Int returns the value of an integer scalar.
func (s Scalar) Int() int64 { return s.i }

// Float returns the value as a float64. Booleans convert to 0/1.
func (s Scalar) Float() float64 {
	switch s.kind {
	case BoolKind:
		if s.b {
			return 1
		}
		return 0
	case IntKind:
		return float64(s.i)
	case ComplexKind:
		return real(s.c)
	default:
		return s.f
	}
}

// Complex returns the value as a complex128.
func (s Scalar) Complex() complex128 {
	if s.kind == ComplexKind {
		return s.c
	}
	return complex(s.Float(), 0)
}

// IsZero reports whether the scalar equals zero (or false).
func (s Scalar) IsZero() bool {
	switch s.kind {
	case BoolKind:
		return !s.b
	case IntKind:
		return s.i == 0
	case FloatKind:
		return s.f == 0
	default:
		return s.c == 0
	}
}

// DefaultDType returns the dtype a scalar takes when no array is present
// (bool → bool, int → int64, float → float64, complex → complex128).
func (s Scalar) DefaultDType() DataType {
	switch s.kind {
	case BoolKind:
		return Bool
	case IntKind:
		return Int64
	case FloatKind:
		return Float64
	default:
		return Complex128
	}
}

// String formats the scalar value.
func (s Scalar) String() string {
	switch s.kind {
	case BoolKind:
		return strconv.FormatBool(s.b)
	case IntKind:
		return strconv.FormatInt(s.i, 10)
	case FloatKind:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	default:
		return strconv.FormatComplex(s.c, 'g', -1, 128)
	}
}

// scalarCompat lists, per scalar kind, the array categories it may combine with.
var scalarCompat = map[ScalarKind]CategorySet{
	BoolKind:    KindBool,
	IntKind:     KindIntegral | KindFloating,
	FloatKind:   KindFloating,
	ComplexKind: KindComplex,
}

// Compatible returns the array categories the scalar may combine with.
func (s Scalar) Compatible() CategorySet {
	return scalarCompat[s.kind]
}

// ResolveScalar returns the dtype produced by combining an array of dtype dt
// with scalar s. The scalar adopts dt; integer scalars must be representable
// in an integer dt.
func ResolveScalar(dt DataType, s Scalar) (DataType, error) {
	if !dt.Valid() || !scalarCompat[s.kind].Allows(dt) {
		return 0, &NoCommonTypeError{A: dt, B: s.DefaultDType()}
	}
	if s.kind == IntKind && KindIntegral.Allows(dt) {
		if err := checkIntRange(dt, s.i); err != nil {
			return 0, err
		}
	}
	return dt, nil
}

func checkIntRange(dt DataType, v int64) error {
	info, err := IInfo(dt)
	if err != nil {
		return err
	}
	if v < info.Min || (v > 0 && uint64(v) > info.Max) {
		return fmt.Errorf("%w: %d does not fit %s", ErrScalarOverflow, v, dt)
	}
	return nil
}

// ScalarOf converts a Go number into a Scalar.
func ScalarOf(v any) (Scalar, error) {
	switch x := v.(type) {
	case Scalar:
		return x, nil
	case bool:
		return BoolScalar(x), nil
	case int:
		return IntScalar(int64(x)), nil
	case int8:
		return IntScalar(int64(x)), nil
	case int16:
		return IntScalar(int64(x)), nil
	case int32:
		return IntScalar(int64(x)), nil
	case int64:
		return IntScalar(x), nil
	case uint8:
		return IntScalar(int64(x)), nil
	case uint16:
		return IntScalar(int64(x)), nil
	case uint32:
		return IntScalar(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Scalar{}, fmt.Errorf("%w: %d exceeds int64", ErrScalarOverflow, x)
		}
		return IntScalar(int64(x)), nil
	case float32:
		return FloatScalar(float64(x)), nil
	case float64:
		return FloatScalar(x), nil
	case complex64:
		return ComplexScalar(complex128(x)), nil
	case complex128:
		return ComplexScalar(x), nil
	default:
		return Scalar{}, fmt.Errorf("%w: %T is not a scalar", ErrInvalidArgument, v)
	}
}
