package cpu

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// clone returns a copy of b with its own storage.
func clone(b *Buffer) *Buffer {
	return concatData(b.dtype, []*Buffer{b}, b.shape)
}

// reshape serves reshape, expand_dims and squeeze: the row-major order of
// the elements is unchanged. Storage is shared unless a copy is requested.
func (cpu *CPUBackend) reshape(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	if call.Attrs.Copy != nil && *call.Attrs.Copy {
		x = clone(x)
	}
	return x.reshaped(call.Shape), nil
}

func (cpu *CPUBackend) asType(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	out := cast(x, call.DType)
	if out == x && (call.Attrs.Copy == nil || *call.Attrs.Copy) {
		out = clone(x)
	}
	return out, nil
}

func (cpu *CPUBackend) broadcastTo(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	return gather(in[0], walk(call.Shape, call.Broadcast.Inputs[0].Strides), call.Shape), nil
}

// permute serves permute_dims, matrix_transpose and moveaxis; call.Axes
// holds the permutation.
func (cpu *CPUBackend) permute(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	return gather(x, permuted(x.shape, call.Axes), call.Shape), nil
}

func (cpu *CPUBackend) flip(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	if x.Len() == 0 {
		return x.reshaped(call.Shape), nil
	}
	strides := x.shape.ComputeStrides()
	base := 0
	for _, a := range call.Axes {
		base += (x.shape[a] - 1) * strides[a]
		strides[a] = -strides[a]
	}
	idx := walk(x.shape, strides)
	for k := range idx {
		idx[k] += base
	}
	return gather(x, idx, call.Shape), nil
}

// roll shifts elements along axes with wrap-around. Without axes the
// flattened array is rolled.
func (cpu *CPUBackend) roll(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	n := x.Len()
	idx := make([]int, n)
	if n == 0 {
		return x.reshaped(call.Shape), nil
	}
	if call.Axes == nil {
		s := call.Attrs.Shift[0]
		for k := range idx {
			idx[k] = mod(k-s, n)
		}
		return gather(x, idx, call.Shape), nil
	}

	shift := make([]int, len(x.shape))
	for i, a := range call.Axes {
		shift[a] += call.Attrs.Shift[i]
	}
	strides := x.shape.ComputeStrides()
	pos := make([]int, len(x.shape))
	for k := range idx {
		unravel(k, x.shape, pos)
		off := 0
		for ax, p := range pos {
			off += mod(p-shift[ax], x.shape[ax]) * strides[ax]
		}
		idx[k] = off
	}
	return gather(x, idx, call.Shape), nil
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// tile repeats the whole array; Attrs.Reps is aligned with the result axes.
func (cpu *CPUBackend) tile(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	rank := len(call.Shape)
	padded := make(tensor.Shape, rank)
	for i := range padded {
		padded[i] = 1
	}
	copy(padded[rank-len(x.shape):], x.shape)
	strides := padded.ComputeStrides()

	idx := make([]int, call.Shape.NumElements())
	pos := make([]int, rank)
	for k := range idx {
		unravel(k, call.Shape, pos)
		off := 0
		for ax, p := range pos {
			off += (p % padded[ax]) * strides[ax]
		}
		idx[k] = off
	}
	return gather(x, idx, call.Shape), nil
}

// repeat repeats each element along an axis, or over the flattened array.
func (cpu *CPUBackend) repeat(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	outer, extent, inner := 1, x.Len(), 1
	if call.Axes != nil {
		outer, extent, inner = split(x.shape, call.Axes[0])
	}
	counts := call.Attrs.Repeats
	idx := make([]int, 0, call.Shape.NumElements())
	for o := 0; o < outer; o++ {
		for i := 0; i < extent; i++ {
			r := counts[0]
			if len(counts) > 1 {
				r = counts[i]
			}
			for ; r > 0; r-- {
				for j := 0; j < inner; j++ {
					idx = append(idx, (o*extent+i)*inner+j)
				}
			}
		}
	}
	return gather(x, idx, call.Shape), nil
}

// split returns the element counts before, along and after an axis.
func split(shape tensor.Shape, axis int) (outer, extent, inner int) {
	outer, inner = 1, 1
	for i, d := range shape {
		switch {
		case i < axis:
			outer *= d
		case i > axis:
			inner *= d
		}
	}
	return outer, shape[axis], inner
}

// triangle serves tril and triu over the last two axes.
func (cpu *CPUBackend) triangle(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	out := clone(in[0])
	rank := len(out.shape)
	rows, cols := out.shape[rank-2], out.shape[rank-1]
	lower := call.Op == "tril"
	for k := 0; k < out.Len(); k++ {
		r, c := (k/cols)%rows, k%cols
		keep := c-r <= call.Attrs.K
		if !lower {
			keep = c-r >= call.Attrs.K
		}
		if !keep {
			setZero(out, k)
		}
	}
	return out, nil
}

func setZero(b *Buffer, k int) {
	switch v := b.data.(type) {
	case []bool:
		v[k] = false
	case []int64:
		v[k] = 0
	case []uint64:
		v[k] = 0
	case []float64:
		v[k] = 0
	case []complex128:
		v[k] = 0
	}
}

// join interleaves parts: for each of outer slices it copies blocks[p]
// consecutive elements of part p, in order.
func join(dt tensor.DataType, parts []*Buffer, outer int, blocks []int, shape tensor.Shape) *Buffer {
	flat := concatData(dt, parts, tensor.Shape{shape.NumElements()})
	base := make([]int, len(parts))
	for p := 1; p < len(parts); p++ {
		base[p] = base[p-1] + parts[p-1].Len()
	}
	idx := make([]int, 0, shape.NumElements())
	for o := 0; o < outer; o++ {
		for p, n := range blocks {
			for j := 0; j < n; j++ {
				idx = append(idx, base[p]+o*n+j)
			}
		}
	}
	return gather(flat, idx, shape)
}

func (cpu *CPUBackend) concat(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	if call.Axes == nil {
		return concatData(call.DType, in, call.Shape), nil
	}
	axis := call.Axes[0]
	outer, _, inner := split(in[0].shape, axis)
	blocks := make([]int, len(in))
	for p, b := range in {
		blocks[p] = b.shape[axis] * inner
	}
	return join(call.DType, in, outer, blocks, call.Shape), nil
}

func (cpu *CPUBackend) stack(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	axis := call.Axes[0]
	first := in[0].shape
	outer := first[:axis].NumElements()
	block := first[axis:].NumElements()
	blocks := make([]int, len(in))
	for p := range blocks {
		blocks[p] = block
	}
	return join(call.DType, in, outer, blocks, call.Shape), nil
}
