package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Reductions run over every axis unless Axis is given, and drop the
// reduced axes unless Keepdims is given.

// CumulativeSum returns running sums along one axis; the axis may be
// omitted for one-dimensional x. IncludeInitial prepends a zero.
func (ns *Namespace) CumulativeSum(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("cumulative_sum", opts, x)
}

// Max returns the maximum; NaN propagates. Empty reductions fail.
func (ns *Namespace) Max(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("max", opts, x)
}

// Mean returns the arithmetic mean. The mean of no elements is NaN.
func (ns *Namespace) Mean(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("mean", opts, x)
}

// Min returns the minimum over the selected axes. NaN propagates.
func (ns *Namespace) Min(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("min", opts, x)
}

// Prod multiplies the elements. Integer inputs accumulate in int64 or
// uint64 unless WithDType says otherwise.
func (ns *Namespace) Prod(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("prod", opts, x)
}

// Std returns the standard deviation with the given Correction.
func (ns *Namespace) Std(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("std", opts, x)
}

// Sum adds the elements. Accumulation follows Prod.
func (ns *Namespace) Sum(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("sum", opts, x)
}

// Var returns the variance over the selected axes, using Correction as
// the degrees-of-freedom adjustment.
func (ns *Namespace) Var(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("var", opts, x)
}
