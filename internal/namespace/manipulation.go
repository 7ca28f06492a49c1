package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// BroadcastArrays broadcasts every array to their common shape.
func (ns *Namespace) BroadcastArrays(arrays ...*tensor.Array) ([]*tensor.Array, error) {
	shapes := make([]tensor.Shape, len(arrays))
	for i, x := range arrays {
		shapes[i] = x.Shape()
	}
	plan, err := tensor.Plan(shapes...)
	if err != nil {
		return nil, err
	}
	out := make([]*tensor.Array, len(arrays))
	for i, x := range arrays {
		if out[i], err = ns.BroadcastTo(x, plan.Shape); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BroadcastTo broadcasts x to shape.
func (ns *Namespace) BroadcastTo(x *tensor.Array, shape tensor.Shape) (*tensor.Array, error) {
	return ns.invoke("broadcast_to", []dispatch.Option{dispatch.Shape(shape...)}, x)
}

// Concat joins arrays along an existing axis, 0 unless Axis is given.
// AllAxes flattens the arrays before joining them. The result dtype is the
// promoted dtype of the inputs.
func (ns *Namespace) Concat(arrays []*tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("concat", withDefaults(opts, dispatch.Axis(0)), arraysOf(arrays)...)
}

// ExpandDims inserts a size-1 axis at position Axis (0 by default).
func (ns *Namespace) ExpandDims(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("expand_dims", withDefaults(opts, dispatch.Axis(0)), x)
}

// Flip reverses the order of elements along the selected axes, or along
// every axis.
func (ns *Namespace) Flip(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("flip", opts, x)
}

// MoveAxis moves the source axes to the destination positions; the other
// axes keep their order.
func (ns *Namespace) MoveAxis(x *tensor.Array, source, destination []int) (*tensor.Array, error) {
	return ns.invoke("moveaxis", []dispatch.Option{dispatch.Move(source, destination)}, x)
}

// PermuteDims reorders the axes of x.
func (ns *Namespace) PermuteDims(x *tensor.Array, axes []int) (*tensor.Array, error) {
	if axes == nil {
		axes = []int{}
	}
	return ns.invoke("permute_dims", []dispatch.Option{dispatch.Axis(axes...)}, x)
}

// Repeat repeats each element repeats times: one count for every element,
// or one count per element along the axis. Without an axis x is flattened.
func (ns *Namespace) Repeat(x *tensor.Array, repeats []int, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("repeat", withDefaults(opts, dispatch.Repeats(repeats...)), x)
}

// Reshape gives x a new shape with the same number of elements. One
// dimension may be -1 and is inferred.
func (ns *Namespace) Reshape(x *tensor.Array, shape tensor.Shape, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("reshape", withDefaults(opts, dispatch.Shape(shape...)), x)
}

// Roll shifts elements along the selected axes, wrapping around. Without
// an axis the flattened array is rolled and the shape restored.
func (ns *Namespace) Roll(x *tensor.Array, shift []int, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("roll", withDefaults(opts, dispatch.Shift(shift...)), x)
}

// Squeeze removes the given size-1 axes.
func (ns *Namespace) Squeeze(x *tensor.Array, axes ...int) (*tensor.Array, error) {
	return ns.invoke("squeeze", []dispatch.Option{dispatch.Axis(axes...)}, x)
}

// Stack joins arrays of one shape along a new axis, 0 unless Axis is
// given.
func (ns *Namespace) Stack(arrays []*tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("stack", opts, arraysOf(arrays)...)
}

// Tile repeats x reps times along each axis.
func (ns *Namespace) Tile(x *tensor.Array, reps []int) (*tensor.Array, error) {
	return ns.invoke("tile", []dispatch.Option{dispatch.Reps(reps...)}, x)
}

// Unstack splits x along an axis (0 by default) into arrays one rank
// lower.
func (ns *Namespace) Unstack(x *tensor.Array, opts ...dispatch.Option) ([]*tensor.Array, error) {
	o := collect(withDefaults(opts, dispatch.Axis(0)))
	if len(o.Axes) != 1 {
		return nil, tensor.ShapeError("unstack", "takes a single axis", x.Shape())
	}
	axis, err := tensor.NormalizeAxis("unstack", o.Axes[0], x.NDim())
	if err != nil {
		return nil, err
	}
	n := x.Shape()[axis]
	out := make([]*tensor.Array, n)
	for i := range out {
		if out[i], err = ns.invoke("select", []dispatch.Option{dispatch.Axis(axis), dispatch.Index(i)}, x); err != nil {
			return nil, err
		}
	}
	return out, nil
}
