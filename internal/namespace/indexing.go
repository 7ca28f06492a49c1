package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Take gathers elements of x along one axis at the positions in indices, a
// one-dimensional integer array. The axis may be omitted for
// one-dimensional x. Negative indices count from the end.
func (ns *Namespace) Take(x, indices *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("take", opts, x, indices)
}
