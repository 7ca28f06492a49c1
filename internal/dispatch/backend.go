package dispatch

import (
	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Executor runs one resolved operation on backend data.
//
// Every call reaching an Executor has already passed the category gate,
// promotion and shape checks: the result dtype and shape in the Call are
// final. An error returned here is surfaced to the caller unchanged (wrapped
// in *tensor.BackendError, which unwraps to it).
type Executor interface {
	Execute(call *Call) (tensor.Ref, error)
}

// Materializer creates backend data from a host-side description.
type Materializer interface {
	Materialize(fill *Fill) (tensor.Ref, error)
}

// Backend is a compute backend: it executes operations, creates arrays, and
// names the device its data lives on.
//
// Implementations:
//   - internal/backend/cpu: pure Go reference backend
type Backend interface {
	Executor
	Materializer

	// Name returns the backend (device) name recorded on every Array.
	Name() string
}

// Input describes one operand as the backend receives it.
type Input struct {
	Shape tensor.Shape
	DType tensor.DataType
}

// Call is a fully resolved operation.
type Call struct {
	Op       string       // Operation name, e.g. "add".
	Operands []tensor.Ref // Operand references; scalars arrive as 0-d arrays.
	Inputs   []Input      // Shape and dtype of each operand.

	// Compute is the dtype operands are converted to before the operation
	// runs: the promoted dtype (comparisons compare in it, take gathers in
	// it, astype converts from it).
	Compute tensor.DataType
	DType   tensor.DataType // Result dtype.
	Shape   tensor.Shape    // Result shape.

	// Broadcast is set for elementwise operations (and for matmul's batch
	// dimensions, and broadcast_to).
	Broadcast *tensor.Broadcast

	// Axes holds normalized axes: reduced axes (sorted), a permutation for
	// permute_dims/matrix_transpose/moveaxis, or the single axis of
	// argmax/argmin/cumulative_sum/concat/stack/take/expand_dims/select. Nil
	// for argmax/argmin/concat/repeat/roll over the flattened array.
	Axes []int

	// Contract holds tensordot's contracted axes of each operand.
	Contract [2][]int

	Attrs   Attrs
	Special special.Directive
}

// Attrs carries operation attributes that are not axes.
type Attrs struct {
	Keepdims       bool
	Correction     float64 // var, std
	IncludeInitial bool    // cumulative_sum
	K              int     // tril, triu diagonal offset
	Side           string  // searchsorted: "left" or "right"
	Sorter         bool    // searchsorted: third operand is a sorter
	Shift          []int   // roll
	Reps           []int   // tile
	Repeats        []int   // repeat
	Index          int     // select
	HasMin, HasMax bool    // clip: which bounds are present as operands
	Copy           *bool   // astype, reshape
}

// FillKind selects how a Materializer fills a new array.
type FillKind uint8

// Fill kinds.
const (
	FillEmpty    FillKind = iota // Contents unspecified.
	FillValue                    // Every element is Value.
	FillArange                   // Start, Start+Step, ...
	FillLinspace                 // Evenly spaced between Start and Stop.
	FillEye                      // Ones on diagonal K, zeros elsewhere.
	FillData                     // Copied from a host slice in Data.
)

// String returns the fill kind name.
func (k FillKind) String() string {
	switch k {
	case FillEmpty:
		return "empty"
	case FillValue:
		return "value"
	case FillArange:
		return "arange"
	case FillLinspace:
		return "linspace"
	case FillEye:
		return "eye"
	case FillData:
		return "data"
	default:
		return "unknown"
	}
}

// Fill describes an array to materialize.
type Fill struct {
	Kind  FillKind
	DType tensor.DataType
	Shape tensor.Shape

	Value       tensor.Scalar // FillValue
	Start, Stop tensor.Scalar // FillArange (Start), FillLinspace (Start, Stop)
	Step        tensor.Scalar // FillArange
	Endpoint    bool          // FillLinspace
	K           int           // FillEye
	Data        any           // FillData: a []T with T satisfying tensor.DType
}
