// Package dispatch validates array operations and forwards them to a
// compute backend.
//
// Every operation passes the same gates, in order:
//  1. category gate: each operand's dtype category must be accepted
//  2. promotion: operand dtypes (and host scalars) resolve to one dtype
//  3. shape rule: broadcasting or the operation's own shape precondition
//  4. special-value directive for the promoted dtype
//  5. exactly one backend call
//
// A failure at any gate returns before the backend is reached. Empty
// reductions with a documented identity are answered without Execute.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Dispatcher binds the operation table to one backend.
//
// A Dispatcher holds no mutable state after construction and is safe for
// concurrent use; concurrent calls are as safe as the backend is.
type Dispatcher struct {
	backend Backend
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for call tracing. Calls are logged at
// debug level; rejected calls include the error.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher for backend.
func New(backend Backend, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Backend returns the backend calls are forwarded to.
func (d *Dispatcher) Backend() Backend {
	return d.backend
}

// Invoke runs operation name over operands.
func (d *Dispatcher) Invoke(name string, operands []tensor.Operand, opts ...Option) (*tensor.Array, error) {
	op, call, err := d.resolve(name, operands, opts)
	if err != nil {
		d.logger.Debug("call rejected", "op", name, "error", err)
		return nil, err
	}

	if op.reduction && emptyReduction(call) {
		return d.identity(op, call)
	}

	if err := d.materializeScalars(call, operands); err != nil {
		return nil, err
	}

	d.logger.Debug("execute",
		"op", name,
		"dtype", call.DType,
		"shape", call.Shape,
		"backend", d.backend.Name(),
	)
	ref, err := d.backend.Execute(call)
	if err != nil {
		return nil, &tensor.BackendError{Op: name, Backend: d.backend.Name(), Err: err}
	}
	return tensor.NewArray(ref, call.Shape, call.DType, d.backend.Name())
}

// Resolve runs the gates of operation name without calling the backend
// and returns the resolved call. Operand references of host scalars are nil.
func (d *Dispatcher) Resolve(name string, operands []tensor.Operand, opts ...Option) (*Call, error) {
	_, call, err := d.resolve(name, operands, opts)
	return call, err
}

// Create materializes a new array described by fill.
func (d *Dispatcher) Create(op string, fill *Fill) (*tensor.Array, error) {
	if !fill.DType.Valid() {
		return nil, fmt.Errorf("%w: %s: dtype %d is not registered", tensor.ErrUnsupportedDType, op, int(fill.DType))
	}
	if err := fill.Shape.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.logger.Debug("materialize",
		"op", op,
		"fill", fill.Kind,
		"dtype", fill.DType,
		"shape", fill.Shape,
		"backend", d.backend.Name(),
	)
	ref, err := d.backend.Materialize(fill)
	if err != nil {
		return nil, &tensor.BackendError{Op: op, Backend: d.backend.Name(), Err: err}
	}
	return tensor.NewArray(ref, fill.Shape, fill.DType, d.backend.Name())
}

func (d *Dispatcher) resolve(name string, operands []tensor.Operand, opts []Option) (*Op, *Call, error) {
	op, ok := Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", tensor.ErrUnknownOp, name)
	}
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	n := len(operands)
	if n < op.MinArgs || (op.MaxArgs >= 0 && n > op.MaxArgs) {
		return nil, nil, fmt.Errorf("%w: %s takes %s operands, got %d",
			tensor.ErrInvalidArgument, name, arity(op), n)
	}

	call := &Call{
		Op:       name,
		Operands: make([]tensor.Ref, n),
		Inputs:   make([]Input, n),
	}

	// Gate 1: categories.
	for i, x := range operands {
		switch v := x.(type) {
		case *tensor.Array:
			if v == nil {
				return nil, nil, fmt.Errorf("%w: %s: operand %d is nil", tensor.ErrInvalidArgument, name, i)
			}
			if !op.Gate(i).Allows(v.DType()) {
				return nil, nil, &tensor.UnsupportedDTypeError{Op: name, Operand: i, DType: v.DType(), Allowed: op.Gate(i)}
			}
			call.Operands[i] = v.Ref()
			call.Inputs[i] = Input{Shape: v.Shape(), DType: v.DType()}
		case tensor.Scalar:
			if !op.Scalars {
				return nil, nil, fmt.Errorf("%w: %s: operand %d must be an array", tensor.ErrInvalidArgument, name, i)
			}
			if op.Gate(i)&v.Compatible() == tensor.KindNone {
				return nil, nil, &tensor.UnsupportedDTypeError{Op: name, Operand: i, DType: v.DefaultDType(), Allowed: op.Gate(i)}
			}
			call.Inputs[i] = Input{Shape: tensor.Shape{}, DType: v.DefaultDType()}
		default:
			return nil, nil, fmt.Errorf("%w: %s: operand %d has type %T", tensor.ErrInvalidArgument, name, i, x)
		}
	}

	// Gate 2: promotion.
	compute, err := promote(op, operands)
	if err != nil {
		return nil, nil, err
	}
	for i, x := range operands {
		if _, ok := x.(tensor.Scalar); ok && op.Promotes(i, n) {
			if !op.Gate(i).Allows(compute) {
				return nil, nil, &tensor.UnsupportedDTypeError{Op: name, Operand: i, DType: compute, Allowed: op.Gate(i)}
			}
			call.Inputs[i].DType = compute
		}
	}
	call.Compute = compute
	if call.DType, err = resultDType(op, compute, o); err != nil {
		return nil, nil, err
	}

	// Gate 3: shapes.
	if err := op.shape(op, call, o); err != nil {
		return nil, nil, withOp(err, name)
	}

	// Gate 4: special values.
	call.Special = special.Resolve(op.Special, compute)
	return op, call, nil
}

// promote folds the dtypes of the operands selected by the op's promotion
// range. Arrays fold first; host scalars then adopt the array dtype.
func promote(op *Op, operands []tensor.Operand) (tensor.DataType, error) {
	n := len(operands)
	var (
		acc     tensor.DataType
		have    bool
		scalars []tensor.Scalar
	)
	for i, x := range operands {
		if !op.Promotes(i, n) {
			continue
		}
		switch v := x.(type) {
		case *tensor.Array:
			if !have {
				acc, have = v.DType(), true
				continue
			}
			r, err := tensor.Resolve(acc, v.DType())
			if err != nil {
				return 0, err
			}
			acc = r
		case tensor.Scalar:
			scalars = append(scalars, v)
		}
	}
	if !have {
		return 0, fmt.Errorf("%w: %s needs at least one array operand", tensor.ErrInvalidArgument, op.Name)
	}
	for _, s := range scalars {
		r, err := tensor.ResolveScalar(acc, s)
		if err != nil {
			return 0, err
		}
		acc = r
	}
	return acc, nil
}

func resultDType(op *Op, compute tensor.DataType, o *Options) (tensor.DataType, error) {
	switch op.Result {
	case ResultBool:
		return tensor.Bool, nil
	case ResultReal:
		return compute.RealOf(), nil
	case ResultIndex:
		return tensor.Int64, nil
	case ResultAccumulate:
		if o.DType != nil {
			if !tensor.KindNumeric.Allows(*o.DType) {
				return 0, &tensor.UnsupportedDTypeError{Op: op.Name, Operand: 0, DType: *o.DType, Allowed: tensor.KindNumeric}
			}
			return *o.DType, nil
		}
		switch compute.Category() {
		case tensor.SignedInteger:
			return tensor.Int64, nil
		case tensor.UnsignedInteger:
			return tensor.Uint64, nil
		default:
			return compute, nil
		}
	case ResultCast:
		if o.DType == nil {
			return 0, fmt.Errorf("%w: %s requires a dtype", tensor.ErrInvalidArgument, op.Name)
		}
		target := *o.DType
		if !target.Valid() {
			return 0, fmt.Errorf("%w: %s: dtype %d is not registered", tensor.ErrUnsupportedDType, op.Name, int(target))
		}
		if compute.Category() == tensor.ComplexFloating && target.Category() != tensor.ComplexFloating {
			return 0, &tensor.UnsupportedDTypeError{Op: op.Name, Operand: 0, DType: compute, Allowed: tensor.KindComplex}
		}
		return target, nil
	default:
		return compute, nil
	}
}

// emptyReduction reports whether a reduction runs over zero elements along
// its reduced axes.
func emptyReduction(call *Call) bool {
	in := call.Inputs[0].Shape
	if call.Axes == nil {
		return in.NumElements() == 0
	}
	for _, a := range call.Axes {
		if in[a] == 0 {
			return true
		}
	}
	return false
}

func (d *Dispatcher) identity(op *Op, call *Call) (*tensor.Array, error) {
	value, err := special.Identity(op.Name, op.Special, call.DType)
	if err != nil {
		d.logger.Debug("call rejected", "op", op.Name, "error", err)
		return nil, err
	}
	d.logger.Debug("empty reduction", "op", op.Name, "identity", value, "shape", call.Shape)
	return d.Create(op.Name, &Fill{Kind: FillValue, DType: call.DType, Shape: call.Shape, Value: value})
}

// materializeScalars turns host scalars into 0-d arrays of their resolved
// dtype.
func (d *Dispatcher) materializeScalars(call *Call, operands []tensor.Operand) error {
	for i, x := range operands {
		s, ok := x.(tensor.Scalar)
		if !ok {
			continue
		}
		ref, err := d.backend.Materialize(&Fill{
			Kind:  FillValue,
			DType: call.Inputs[i].DType,
			Shape: tensor.Shape{},
			Value: s,
		})
		if err != nil {
			return &tensor.BackendError{Op: call.Op, Backend: d.backend.Name(), Err: err}
		}
		call.Operands[i] = ref
	}
	return nil
}

func arity(op *Op) string {
	switch {
	case op.MaxArgs < 0:
		return fmt.Sprintf("at least %d", op.MinArgs)
	case op.MinArgs == op.MaxArgs:
		return fmt.Sprint(op.MinArgs)
	default:
		return fmt.Sprintf("%d to %d", op.MinArgs, op.MaxArgs)
	}
}

// withOp names the operation on shape errors raised by the bare planner.
func withOp(err error, name string) error {
	var se *tensor.IncompatibleShapesError
	if errors.As(err, &se) && se.Op == "" {
		se.Op = name
	}
	return err
}

func sortedCopy(axes []int) []int {
	out := make([]int, len(axes))
	copy(out, axes)
	sort.Ints(out)
	return out
}
