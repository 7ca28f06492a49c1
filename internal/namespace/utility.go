package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// All tests whether every element along the selected axes is true
// (non-zero). All over no elements is true.
func (ns *Namespace) All(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("all", opts, x)
}

// Any tests whether some element is true. Any over no elements is false.
func (ns *Namespace) Any(x *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("any", opts, x)
}
