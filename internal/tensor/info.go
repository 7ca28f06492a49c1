package tensor

import (
	"fmt"
	"math"
)

// Info is the category-independent metadata of a dtype.
type Info struct {
	DType    DataType
	Category Category
	Bits     int
	Signed   bool
}

// IntInfo describes the range of an integer dtype.
type IntInfo struct {
	DType DataType
	Bits  int
	Min   int64  // Smallest representable value.
	Max   uint64 // Largest representable value.
}

// FloatInfo describes a real or complex floating dtype. For complex dtypes
// the values describe each of the real and imaginary components.
type FloatInfo struct {
	DType             DataType
	Bits              int     // Bits per component.
	Eps               float64 // Difference between 1.0 and the next representable value.
	Max               float64 // Largest finite value.
	Min               float64 // Smallest (most negative) finite value.
	SmallestNormal    float64
	SmallestSubnormal float64
}

// CategoryOf returns the numeric category of dt.
func CategoryOf(dt DataType) (Category, error) {
	if !dt.Valid() {
		return 0, fmt.Errorf("%w: unknown data type %d", ErrInvalidArgument, int(dt))
	}
	return dt.Category(), nil
}

// InfoOf returns category-independent metadata for dt.
func InfoOf(dt DataType) (Info, error) {
	c, err := CategoryOf(dt)
	if err != nil {
		return Info{}, err
	}
	return Info{
		DType:    dt,
		Category: c,
		Bits:     dt.Bits(),
		Signed:   c == SignedInteger || c == RealFloating || c == ComplexFloating,
	}, nil
}

var intInfos = map[DataType]IntInfo{
	Int8:   {DType: Int8, Bits: 8, Min: math.MinInt8, Max: math.MaxInt8},
	Int16:  {DType: Int16, Bits: 16, Min: math.MinInt16, Max: math.MaxInt16},
	Int32:  {DType: Int32, Bits: 32, Min: math.MinInt32, Max: math.MaxInt32},
	Int64:  {DType: Int64, Bits: 64, Min: math.MinInt64, Max: math.MaxInt64},
	Uint8:  {DType: Uint8, Bits: 8, Min: 0, Max: math.MaxUint8},
	Uint16: {DType: Uint16, Bits: 16, Min: 0, Max: math.MaxUint16},
	Uint32: {DType: Uint32, Bits: 32, Min: 0, Max: math.MaxUint32},
	Uint64: {DType: Uint64, Bits: 64, Min: 0, Max: math.MaxUint64},
}

var float32Info = FloatInfo{
	Bits:              32,
	Eps:               0x1p-23,
	Max:               math.MaxFloat32,
	Min:               -math.MaxFloat32,
	SmallestNormal:    0x1p-126,
	SmallestSubnormal: math.SmallestNonzeroFloat32,
}

var float64Info = FloatInfo{
	Bits:              64,
	Eps:               0x1p-52,
	Max:               math.MaxFloat64,
	Min:               -math.MaxFloat64,
	SmallestNormal:    0x1p-1022,
	SmallestSubnormal: math.SmallestNonzeroFloat64,
}

// IInfo returns range information for an integer dtype.
func IInfo(dt DataType) (IntInfo, error) {
	info, ok := intInfos[dt]
	if !ok {
		return IntInfo{}, &UnsupportedQueryError{DType: dt, Query: "iinfo"}
	}
	return info, nil
}

// FInfo returns machine limits for a real or complex floating dtype.
func FInfo(dt DataType) (FloatInfo, error) {
	var info FloatInfo
	switch dt {
	case Float32, Complex64:
		info = float32Info
	case Float64, Complex128:
		info = float64Info
	default:
		return FloatInfo{}, &UnsupportedQueryError{DType: dt, Query: "finfo"}
	}
	info.DType = dt
	return info, nil
}

// Epsilon returns the machine epsilon of a floating dtype.
func Epsilon(dt DataType) (float64, error) {
	info, err := FInfo(dt)
	if err != nil {
		return 0, &UnsupportedQueryError{DType: dt, Query: "eps"}
	}
	return info.Eps, nil
}
