package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// ArgMax returns the index of the first maximum along one axis, or in the
// flattened array when no axis is given.
func (ns *Namespace) ArgMax(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("argmax", opts, x)
}

// ArgMin returns the index of the first minimum.
func (ns *Namespace) ArgMin(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("argmin", opts, x)
}

// CountNonzero counts the non-zero elements over the selected axes.
func (ns *Namespace) CountNonzero(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("count_nonzero", opts, x)
}

// SearchSorted finds the insertion points of x2 into the sorted
// one-dimensional x1. A non-nil sorter holds the indices that sort x1.
func (ns *Namespace) SearchSorted(x1, x2, sorter *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	if sorter == nil {
		return ns.invoke("searchsorted", opts, x1, x2)
	}
	return ns.invoke("searchsorted", opts, x1, x2, sorter)
}

// Where picks x1 where cond is true and x2 elsewhere, broadcasting all
// three. x1 and x2 may be host scalars.
func (ns *Namespace) Where(cond *tensor.Array, x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.invoke("where", nil, cond, x1, x2)
}
