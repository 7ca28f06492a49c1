package tensor

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error raised by this layer unwraps to exactly one of
// these; backend failures are reported as *BackendError instead.
var (
	ErrUnsupportedDType   = errors.New("unsupported dtype")
	ErrNoCommonType       = errors.New("no common type")
	ErrIncompatibleShapes = errors.New("incompatible shapes")
	ErrUnsupportedQuery   = errors.New("unsupported query")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrScalarOverflow     = errors.New("scalar out of range for dtype")
	ErrUnknownOp          = errors.New("unknown operation")
)

// UnsupportedDTypeError reports an operand whose category is not accepted
// by an operation.
type UnsupportedDTypeError struct {
	Op      string      // Operation name
	Operand int         // Operand position
	DType   DataType    // Offending dtype
	Allowed CategorySet // Categories the operation accepts at that position
}

// Error implements the error interface.
func (e *UnsupportedDTypeError) Error() string {
	return fmt.Sprintf("%s: operand %d has dtype %s, expected one of %s",
		e.Op, e.Operand, e.DType, e.Allowed)
}

// Unwrap returns ErrUnsupportedDType.
func (e *UnsupportedDTypeError) Unwrap() error { return ErrUnsupportedDType }

// NoCommonTypeError reports a dtype pair without a promotion entry.
type NoCommonTypeError struct {
	A, B DataType
}

// Error implements the error interface.
func (e *NoCommonTypeError) Error() string {
	return fmt.Sprintf("no common type for %s and %s", e.A, e.B)
}

// Unwrap returns ErrNoCommonType.
func (e *NoCommonTypeError) Unwrap() error { return ErrNoCommonType }

// IncompatibleShapesError reports a broadcasting failure or a violated
// shape precondition.
type IncompatibleShapesError struct {
	Op     string  // Operation name (empty for the bare planner)
	Shapes []Shape // Shapes involved
	Axis   int     // Output axis that failed, or -1
	Reason string
}

// Error implements the error interface.
func (e *IncompatibleShapesError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString("incompatible shapes")
	if len(e.Shapes) > 0 {
		parts := make([]string, len(e.Shapes))
		for i, s := range e.Shapes {
			parts[i] = s.String()
		}
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if e.Axis >= 0 {
		fmt.Fprintf(&b, " at axis %d", e.Axis)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Unwrap returns ErrIncompatibleShapes.
func (e *IncompatibleShapesError) Unwrap() error { return ErrIncompatibleShapes }

// shapeError builds an IncompatibleShapesError without a specific axis.
func shapeError(op, reason string, shapes ...Shape) *IncompatibleShapesError {
	return &IncompatibleShapesError{Op: op, Shapes: shapes, Axis: -1, Reason: reason}
}

// ShapeError is the exported form of shapeError for operation-specific
// shape rules living outside this package.
func ShapeError(op, reason string, shapes ...Shape) error {
	return shapeError(op, reason, shapes...)
}

// UnsupportedQueryError reports metadata that a dtype category does not define.
type UnsupportedQueryError struct {
	DType DataType
	Query string
}

// Error implements the error interface.
func (e *UnsupportedQueryError) Error() string {
	if !e.DType.Valid() {
		return fmt.Sprintf("%s is not defined for unknown data type %d", e.Query, int(e.DType))
	}
	return fmt.Sprintf("%s is not defined for %s (%s)", e.Query, e.DType, e.DType.Category())
}

// Unwrap returns ErrUnsupportedQuery.
func (e *UnsupportedQueryError) Unwrap() error { return ErrUnsupportedQuery }

// BackendError carries a failure returned by the compute backend. The
// message is the backend's own; Unwrap exposes the original error.
type BackendError struct {
	Op      string
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *BackendError) Error() string { return e.Err.Error() }

// Unwrap returns the backend's error unchanged.
func (e *BackendError) Unwrap() error { return e.Err }

// IsLocal reports whether err was raised by this layer rather than a backend.
func IsLocal(err error) bool {
	var be *BackendError
	if errors.As(err, &be) {
		return false
	}
	for _, target := range []error{
		ErrUnsupportedDType, ErrNoCommonType, ErrIncompatibleShapes,
		ErrUnsupportedQuery, ErrInvalidArgument, ErrScalarOverflow, ErrUnknownOp,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
