// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package xp

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/namespace"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// APIVersion is the implemented revision of the array API standard.
const APIVersion = namespace.APIVersion

// Constants of the namespace.
const (
	E  = namespace.E
	Pi = namespace.Pi
)

// Inf and NaN are float64 special values.
var (
	Inf = namespace.Inf
	NaN = namespace.NaN
)

// Namespace is the array namespace bound to one backend. Each standardized
// function is a method, e.g. ns.Add, ns.Sum, ns.Reshape.
type Namespace = namespace.Namespace

// Inspection answers questions about capabilities, devices and dtypes.
type Inspection = namespace.Inspection

// New creates a namespace executing on backend.
//
// Example:
//
//	ns := xp.New(cpu.New(), xp.WithLogger(slog.Default()))
func New(backend Backend, opts ...DispatcherOption) *Namespace {
	return namespace.New(backend, opts...)
}

// Array is the immutable handle returned by every operation.
type Array = tensor.Array

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// DataType identifies one of the registered dtypes.
type DataType = tensor.DataType

// DType is a constraint for the Go element types of the registered dtypes.
type DType = tensor.DType

// Data type constants.
const (
	Bool       DataType = tensor.Bool
	Int8       DataType = tensor.Int8
	Int16      DataType = tensor.Int16
	Int32      DataType = tensor.Int32
	Int64      DataType = tensor.Int64
	Uint8      DataType = tensor.Uint8
	Uint16     DataType = tensor.Uint16
	Uint32     DataType = tensor.Uint32
	Uint64     DataType = tensor.Uint64
	Float32    DataType = tensor.Float32
	Float64    DataType = tensor.Float64
	Complex64  DataType = tensor.Complex64
	Complex128 DataType = tensor.Complex128
)

// CategorySet is a set of dtype categories, used by IsDType and by
// dtype errors.
type CategorySet = tensor.CategorySet

// Dtype kinds.
const (
	KindBool            = tensor.KindBool
	KindSignedInteger   = tensor.KindSigned
	KindUnsignedInteger = tensor.KindUnsigned
	KindIntegral        = tensor.KindIntegral
	KindRealFloating    = tensor.KindRealFloating
	KindComplexFloating = tensor.KindComplex
	KindNumeric         = tensor.KindNumeric
)

// IntInfo and FloatInfo are returned by IInfo and FInfo.
type (
	IntInfo   = tensor.IntInfo
	FloatInfo = tensor.FloatInfo
)

// Operand is an argument of an operation: an *Array or a Scalar.
type Operand = tensor.Operand

// Scalar is a host number combined with an array.
type Scalar = tensor.Scalar

// BoolScalar returns a boolean host scalar.
func BoolScalar(v bool) Scalar { return tensor.BoolScalar(v) }

// Int returns an integer host scalar.
func Int(v int64) Scalar { return tensor.IntScalar(v) }

// Float returns a real floating host scalar.
func Float(v float64) Scalar { return tensor.FloatScalar(v) }

// Complex returns a complex host scalar.
func Complex(v complex128) Scalar { return tensor.ComplexScalar(v) }

// BroadcastShapes computes the broadcast shape of a and b following NumPy
// rules. The flag reports whether a needs broadcasting.
//
// Example:
//
//	shape, grows, err := xp.BroadcastShapes(xp.Shape{3, 1}, xp.Shape{3, 4})
//	// shape = [3, 4], grows = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// ParseDataType resolves a dtype name such as "float32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// Error classes.
var (
	ErrUnsupportedDType   = tensor.ErrUnsupportedDType
	ErrNoCommonType       = tensor.ErrNoCommonType
	ErrIncompatibleShapes = tensor.ErrIncompatibleShapes
	ErrUnsupportedQuery   = tensor.ErrUnsupportedQuery
	ErrInvalidArgument    = tensor.ErrInvalidArgument
	ErrScalarOverflow     = tensor.ErrScalarOverflow
	ErrUnknownOp          = tensor.ErrUnknownOp
)

// Detailed error types, for errors.As.
type (
	UnsupportedDTypeError   = tensor.UnsupportedDTypeError
	NoCommonTypeError       = tensor.NoCommonTypeError
	IncompatibleShapesError = tensor.IncompatibleShapesError
	UnsupportedQueryError   = tensor.UnsupportedQueryError
	BackendError            = tensor.BackendError
)

// DispatcherOption configures the dispatcher behind a Namespace.
type DispatcherOption = dispatch.DispatcherOption

// WithLogger traces every call at debug level.
var WithLogger = dispatch.WithLogger
