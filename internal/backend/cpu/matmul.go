package cpu

import (
	"fmt"
	"math/cmplx"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/parallel"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// matrices describes a batched product: batch pairs of (m×k)·(k×n).
type matrices struct {
	m, k, n int
	a, b    []int // Element offset of each batch's left and right matrix.
}

func batched(call *dispatch.Call, a, b tensor.Shape) matrices {
	if len(a) == 1 {
		a = tensor.Shape{1, a[0]}
	}
	if len(b) == 1 {
		b = tensor.Shape{b[0], 1}
	}
	mm := matrices{m: a[len(a)-2], k: a[len(a)-1], n: b[len(b)-1]}
	plan := call.Broadcast
	offsets := broadcastOffsets(plan)
	mm.a, mm.b = offsets[0], offsets[1]
	for i := range mm.a {
		mm.a[i] *= mm.m * mm.k
		mm.b[i] *= mm.k * mm.n
	}
	return mm
}

// matmul computes batched matrix products, one (batch, row) pair per task.
func (cpu *CPUBackend) matmul(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	mm := batched(call, in[0].shape, in[1].shape)
	var data any
	switch a := in[0].data.(type) {
	case []int64:
		data = product(mm, a, in[1].ints(), cpu.cfg)
	case []uint64:
		data = product(mm, a, in[1].uints(), cpu.cfg)
	case []float64:
		data = product(mm, a, in[1].floats(), cpu.cfg)
	case []complex128:
		data = product(mm, a, in[1].complexes(), cpu.cfg)
	default:
		return nil, fmt.Errorf("cpu: matmul is not implemented for %s", call.DType)
	}
	return newBuffer(call.DType, call.Shape, data).fit(), nil
}

func product[T number](mm matrices, a, b []T, cfg parallel.Config) []T {
	out := make([]T, len(mm.a)*mm.m*mm.n)
	parallel.ForGrid(len(mm.a), mm.m, func(batch, i int) {
		ao, bo := mm.a[batch], mm.b[batch]
		row := out[(batch*mm.m+i)*mm.n:]
		for j := 0; j < mm.n; j++ {
			var sum T
			for p := 0; p < mm.k; p++ {
				sum += a[ao+i*mm.k+p] * b[bo+p*mm.n+j]
			}
			row[j] = sum
		}
	}, cfg)
	return out
}

// vecdot sums conj(x1)*x2 along the contracted axis of the broadcast shape.
func (cpu *CPUBackend) vecdot(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	off := broadcastOffsets(call.Broadcast)
	r := reduceMap(call.Broadcast.Shape, call.Axes)
	var data any
	switch a := in[0].data.(type) {
	case []int64:
		data = dot(r, a, in[1].ints(), off, identity[int64])
	case []uint64:
		data = dot(r, a, in[1].uints(), off, identity[uint64])
	case []float64:
		data = dot(r, a, in[1].floats(), off, identity[float64])
	case []complex128:
		data = dot(r, a, in[1].complexes(), off, cmplx.Conj)
	default:
		return nil, fmt.Errorf("cpu: vecdot is not implemented for %s", call.DType)
	}
	return newBuffer(call.DType, call.Shape, data).fit(), nil
}

func dot[T number](r reduction, a, b []T, off [][]int, conj func(T) T) []T {
	out := make([]T, r.groups)
	for k, g := range r.out {
		out[g] += conj(a[off[0][k]]) * b[off[1][k]]
	}
	return out
}

// tensordot permutes x1 to (free, contracted) and x2 to (contracted, free)
// and multiplies the resulting matrices.
func (cpu *CPUBackend) tensordot(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	a, b := in[0], in[1]
	ca, cb := call.Contract[0], call.Contract[1]
	pa := append(free(len(a.shape), ca), ca...)
	pb := append(append([]int{}, cb...), free(len(b.shape), cb)...)

	k := 1
	for _, ax := range ca {
		k *= a.shape[ax]
	}
	mm := matrices{k: k, a: []int{0}, b: []int{0}}
	if k > 0 {
		mm.m, mm.n = a.Len()/k, b.Len()/k
	} else {
		mm.m = reducedShape(a.shape, ca).NumElements()
		mm.n = reducedShape(b.shape, cb).NumElements()
	}
	at := gather(a, permuted(a.shape, pa), tensor.Shape{mm.m, mm.k})
	bt := gather(b, permuted(b.shape, pb), tensor.Shape{mm.k, mm.n})

	var data any
	switch x := at.data.(type) {
	case []int64:
		data = product(mm, x, bt.ints(), cpu.cfg)
	case []uint64:
		data = product(mm, x, bt.uints(), cpu.cfg)
	case []float64:
		data = product(mm, x, bt.floats(), cpu.cfg)
	case []complex128:
		data = product(mm, x, bt.complexes(), cpu.cfg)
	default:
		return nil, fmt.Errorf("cpu: tensordot is not implemented for %s", call.DType)
	}
	return newBuffer(call.DType, call.Shape, data).fit(), nil
}

// free lists the axes of a rank-n array not in contracted, in order.
func free(n int, contracted []int) []int {
	used := make([]bool, n)
	for _, ax := range contracted {
		used[ax] = true
	}
	out := make([]int, 0, n)
	for ax := 0; ax < n; ax++ {
		if !used[ax] {
			out = append(out, ax)
		}
	}
	return out
}

// reducedShape drops the given axes.
func reducedShape(shape tensor.Shape, axes []int) tensor.Shape {
	out := tensor.Shape{}
	for _, ax := range free(len(shape), axes) {
		out = append(out, shape[ax])
	}
	return out
}
