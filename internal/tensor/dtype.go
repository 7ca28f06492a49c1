// Package tensor provides the dtype registry, promotion lattice, shape
// broadcasting planner and the immutable Array handle shared by every
// operation of the array namespace.
package tensor

import "fmt"

// DType is a constraint for Go element types that map onto a DataType.
// It is used by host-side creation (AsArray) and by backends reading data back.
type DType interface {
	~bool |
		~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// DataType represents runtime type information for arrays.
//
// The numeric values are part of the versioned registry and must never be
// reordered: persisted computations refer to dtypes by these values.
type DataType int

// Supported data types.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128

	numDataTypes = iota
)

// DataTypes lists every registered dtype in registry order.
func DataTypes() []DataType {
	all := make([]DataType, numDataTypes)
	for i := range all {
		all[i] = DataType(i)
	}
	return all
}

// Valid reports whether dt is a member of the registry.
func (dt DataType) Valid() bool {
	return dt >= 0 && dt < numDataTypes
}

// DType returns dt itself, so that a DataType can be passed anywhere a
// dtype-carrying value (such as an *Array) is accepted.
func (dt DataType) DType() DataType {
	return dt
}

// Category returns the numeric category of the data type.
func (dt DataType) Category() Category {
	switch dt {
	case Bool:
		return Boolean
	case Int8, Int16, Int32, Int64:
		return SignedInteger
	case Uint8, Uint16, Uint32, Uint64:
		return UnsignedInteger
	case Float32, Float64:
		return RealFloating
	case Complex64, Complex128:
		return ComplexFloating
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// Bits returns the bit width of one element.
func (dt DataType) Bits() int {
	return dt.Size() * 8
}

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns the standard name for the data type.
func (dt DataType) String() string {
	if !dt.Valid() {
		return "unknown"
	}
	return dtypeNames[dt]
}

var dtypeNames = [numDataTypes]string{
	Bool:       "bool",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
}

// ParseDataType looks up a dtype by its standard name.
func ParseDataType(name string) (DataType, error) {
	for dt, n := range dtypeNames {
		if n == name {
			return DataType(dt), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown dtype %q", ErrUnsupportedDType, name)
}

// RealOf returns the real-valued counterpart of a complex dtype
// (complex64 → float32, complex128 → float64). Other dtypes map to themselves.
func (dt DataType) RealOf() DataType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// Of returns the DataType of the Go type T.
func Of[T DType]() DataType {
	var zero T
	return inferDataType(zero)
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}
