package cpu

import "github.com/born-ml/arrayapi/internal/tensor"

// walk returns, for every element of shape in row-major order, the offset
// obtained by summing index*stride over the axes.
func walk(shape tensor.Shape, strides []int) []int {
	n := shape.NumElements()
	out := make([]int, n)
	if n == 0 {
		return out
	}
	idx := make([]int, len(shape))
	off := 0
	for k := 0; k < n; k++ {
		out[k] = off
		for ax := len(shape) - 1; ax >= 0; ax-- {
			idx[ax]++
			off += strides[ax]
			if idx[ax] < shape[ax] {
				break
			}
			off -= strides[ax] * shape[ax]
			idx[ax] = 0
		}
	}
	return out
}

// broadcastOffsets returns the source offset of each output element for
// every input of a broadcast plan.
func broadcastOffsets(plan *tensor.Broadcast) [][]int {
	out := make([][]int, len(plan.Inputs))
	for i, in := range plan.Inputs {
		out[i] = walk(plan.Shape, in.Strides)
	}
	return out
}

// permuted returns the source offsets of a transposed view: output axis i
// reads input axis perm[i].
func permuted(in tensor.Shape, perm []int) []int {
	strides := in.ComputeStrides()
	outShape := make(tensor.Shape, len(perm))
	outStrides := make([]int, len(perm))
	for i, p := range perm {
		outShape[i] = in[p]
		outStrides[i] = strides[p]
	}
	return walk(outShape, outStrides)
}

// unravel converts a flat row-major index into per-axis indices.
func unravel(k int, shape tensor.Shape, idx []int) {
	for ax := len(shape) - 1; ax >= 0; ax-- {
		if shape[ax] == 0 {
			idx[ax] = 0
			continue
		}
		idx[ax] = k % shape[ax]
		k /= shape[ax]
	}
}

// reduction describes how the elements of an input map onto the outputs of
// a reduction over some axes.
type reduction struct {
	out    []int // Output position of each input element.
	pos    []int // Position of each input element within its group, row-major over the reduced axes.
	groups int   // Number of outputs.
	size   int   // Elements per output.
}

// reduceMap builds the reduction of shape over axes. A nil axes list reduces
// every axis.
func reduceMap(shape tensor.Shape, axes []int) reduction {
	reduced := make([]bool, len(shape))
	if axes == nil {
		for i := range reduced {
			reduced[i] = true
		}
	}
	for _, a := range axes {
		reduced[a] = true
	}

	outStrides := make([]int, len(shape))
	posStrides := make([]int, len(shape))
	groups, size := 1, 1
	for ax := len(shape) - 1; ax >= 0; ax-- {
		if reduced[ax] {
			posStrides[ax] = size
			size *= shape[ax]
		} else {
			outStrides[ax] = groups
			groups *= shape[ax]
		}
	}
	return reduction{
		out:    walk(shape, outStrides),
		pos:    walk(shape, posStrides),
		groups: groups,
		size:   size,
	}
}

// members lists the input elements of each output, in row-major order.
func (r reduction) members() [][]int {
	out := make([][]int, r.groups)
	for g := range out {
		out[g] = make([]int, 0, r.size)
	}
	for k, g := range r.out {
		out[g] = append(out[g], k)
	}
	return out
}
