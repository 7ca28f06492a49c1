package dispatch

import "github.com/born-ml/arrayapi/internal/tensor"

// Options holds the keyword arguments of an operation.
//
// Axes distinguishes nil (argument omitted: "all axes" for reductions, the
// flattened array for argmax/concat/repeat/roll) from an explicit empty list.
type Options struct {
	Axes           []int
	Keepdims       bool
	DType          *tensor.DataType
	Correction     float64
	IncludeInitial bool
	Shape          tensor.Shape // reshape, broadcast_to target
	Copy           *bool
	K              int
	Side           string
	Shift          []int
	Reps           []int
	Repeats        []int
	Source         []int // moveaxis
	Destination    []int // moveaxis
	Index          int   // select
	ContractA      []int // tensordot
	ContractB      []int // tensordot
	ContractN      *int  // tensordot: number of trailing/leading axes
	Endpoint       *bool // linspace
	HasMin, HasMax bool  // clip
}

// Option sets a keyword argument.
type Option func(*Options)

// Axis selects the axes an operation applies to.
func Axis(axes ...int) Option {
	return func(o *Options) {
		o.Axes = append([]int{}, axes...)
	}
}

// AllAxes clears any axis selection (axis=None).
func AllAxes() Option {
	return func(o *Options) {
		o.Axes = nil
	}
}

// Keepdims keeps reduced axes as size-1 dimensions.
func Keepdims() Option {
	return func(o *Options) {
		o.Keepdims = true
	}
}

// WithDType sets the accumulation or target dtype.
func WithDType(dt tensor.DataType) Option {
	return func(o *Options) {
		o.DType = &dt
	}
}

// Correction sets the degrees-of-freedom correction of var and std.
func Correction(c float64) Option {
	return func(o *Options) {
		o.Correction = c
	}
}

// IncludeInitial makes cumulative_sum start with the additive identity.
func IncludeInitial() Option {
	return func(o *Options) {
		o.IncludeInitial = true
	}
}

// Copy sets the copy keyword of astype and reshape.
func Copy(copy bool) Option {
	return func(o *Options) {
		o.Copy = &copy
	}
}

// Side sets the side keyword of searchsorted.
func Side(side string) Option {
	return func(o *Options) {
		o.Side = side
	}
}

// Diagonal sets the diagonal offset k of tril, triu and eye.
func Diagonal(k int) Option {
	return func(o *Options) {
		o.K = k
	}
}

// Shape sets the target shape of reshape and broadcast_to.
func Shape(shape ...int) Option {
	return func(o *Options) {
		o.Shape = append(tensor.Shape{}, shape...)
	}
}

// Shift sets the shifts of roll.
func Shift(shift ...int) Option {
	return func(o *Options) {
		o.Shift = append([]int{}, shift...)
	}
}

// Reps sets the repetitions of tile.
func Reps(reps ...int) Option {
	return func(o *Options) {
		o.Reps = append([]int{}, reps...)
	}
}

// Repeats sets the counts of repeat: one count, or one per element.
func Repeats(repeats ...int) Option {
	return func(o *Options) {
		o.Repeats = append([]int{}, repeats...)
	}
}

// Move sets the source and destination axes of moveaxis.
func Move(source, destination []int) Option {
	return func(o *Options) {
		o.Source = append([]int{}, source...)
		o.Destination = append([]int{}, destination...)
	}
}

// Index sets the position picked by select.
func Index(i int) Option {
	return func(o *Options) {
		o.Index = i
	}
}

// Contract sets the paired axes contracted by tensordot.
func Contract(a, b []int) Option {
	return func(o *Options) {
		o.ContractA = append([]int{}, a...)
		o.ContractB = append([]int{}, b...)
	}
}

// ContractCount contracts the last n axes of x1 with the first n of x2.
func ContractCount(n int) Option {
	return func(o *Options) {
		o.ContractN = &n
	}
}

// Endpoint sets whether linspace includes stop.
func Endpoint(include bool) Option {
	return func(o *Options) {
		o.Endpoint = &include
	}
}

// Bounds declares which clip bounds follow x among the operands.
func Bounds(hasMin, hasMax bool) Option {
	return func(o *Options) {
		o.HasMin, o.HasMax = hasMin, hasMax
	}
}
