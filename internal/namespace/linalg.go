package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// MatMul computes the matrix product with broadcast batch dimensions. A
// one-dimensional operand is treated as a vector and its axis is dropped
// from the result.
func (ns *Namespace) MatMul(x1, x2 *tensor.Array) (*tensor.Array, error) {
	return ns.invoke("matmul", nil, x1, x2)
}

// MatrixTranspose swaps the last two axes.
func (ns *Namespace) MatrixTranspose(x *tensor.Array) (*tensor.Array, error) {
	return ns.invoke("matrix_transpose", nil, x)
}

// MT is MatrixTranspose.
func (ns *Namespace) MT(x *tensor.Array) (*tensor.Array, error) {
	return ns.MatrixTranspose(x)
}

// T transposes a two-dimensional array.
func (ns *Namespace) T(x *tensor.Array) (*tensor.Array, error) {
	if x.NDim() != 2 {
		return nil, tensor.ShapeError("T", "array must be two-dimensional", x.Shape())
	}
	return ns.PermuteDims(x, []int{1, 0})
}

// TensorDot contracts the axes named by Contract, or the last n axes of
// x1 with the first n of x2 (ContractCount, 2 by default).
func (ns *Namespace) TensorDot(x1, x2 *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("tensordot", opts, x1, x2)
}

// VecDot computes the dot product over one axis (the last by default) of
// the broadcast operands, conjugating x1 when complex.
func (ns *Namespace) VecDot(x1, x2 *tensor.Array, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("vecdot", opts, x1, x2)
}
