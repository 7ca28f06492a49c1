package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

type number interface {
	int64 | uint64 | float64 | complex128
}

// fold combines the members of each output group from left to right.
func fold[T element](src []T, r reduction, init T, f func(acc, v T) T) []T {
	dst := make([]T, r.groups)
	for g := range dst {
		dst[g] = init
	}
	for k, g := range r.out {
		dst[g] = f(dst[g], src[k])
	}
	return dst
}

func add[T number](a, b T) T { return a + b }
func mul[T number](a, b T) T { return a * b }

func (cpu *CPUBackend) reduce(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	r := reduceMap(x.shape, call.Axes)
	switch call.Op {
	case "sum", "prod":
		return accumulate(call, cast(x, call.DType), r)
	case "max", "min":
		return extremum(call, x, r)
	case "mean":
		return mean(call, x, r), nil
	case "var", "std":
		return variance(call, x, r), nil
	case "any":
		v := fold(cast(x, tensor.Bool).bools(), r, false, func(a, v bool) bool { return a || v })
		return newBuffer(tensor.Bool, call.Shape, v), nil
	case "all":
		v := fold(cast(x, tensor.Bool).bools(), r, true, func(a, v bool) bool { return a && v })
		return newBuffer(tensor.Bool, call.Shape, v), nil
	case "count_nonzero":
		nz := cast(x, tensor.Bool).bools()
		v := make([]int64, r.groups)
		for k, g := range r.out {
			if nz[k] {
				v[g]++
			}
		}
		return newBuffer(tensor.Int64, call.Shape, v), nil
	}
	return nil, fmt.Errorf("cpu: no kernel for %s", call.Op)
}

func accumulate(call *dispatch.Call, x *Buffer, r reduction) (*Buffer, error) {
	sum := call.Op == "sum"
	var data any
	switch v := x.data.(type) {
	case []int64:
		data = foldNumber(v, r, sum)
	case []uint64:
		data = foldNumber(v, r, sum)
	case []float64:
		data = foldNumber(v, r, sum)
	case []complex128:
		data = foldNumber(v, r, sum)
	default:
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, x.dtype)
	}
	return newBuffer(call.DType, call.Shape, data).fit(), nil
}

func foldNumber[T number](src []T, r reduction, sum bool) []T {
	if sum {
		return fold(src, r, 0, add[T])
	}
	return fold(src, r, 1, mul[T])
}

func extremum(call *dispatch.Call, x *Buffer, r reduction) (*Buffer, error) {
	groups := r.members()
	larger := call.Op == "max"
	var data any
	switch v := x.data.(type) {
	case []int64:
		data = pickEach(v, groups, func(a, b int64) bool { return (b > a) == larger && b != a })
	case []uint64:
		data = pickEach(v, groups, func(a, b uint64) bool { return (b > a) == larger && b != a })
	case []float64:
		propagate := call.Special.NaN == special.NaNPropagate
		out := make([]float64, len(groups))
		for g, members := range groups {
			acc := v[members[0]]
			for _, k := range members[1:] {
				switch {
				case larger && propagate:
					acc = special.Maximum(acc, v[k])
				case larger:
					acc = math.Max(acc, v[k])
				case propagate:
					acc = special.Minimum(acc, v[k])
				default:
					acc = math.Min(acc, v[k])
				}
			}
			out[g] = acc
		}
		data = out
	default:
		return nil, fmt.Errorf("cpu: %s is not implemented for %s", call.Op, x.dtype)
	}
	return newBuffer(call.DType, call.Shape, data), nil
}

// pickEach keeps, per group, the first member no later member replaces.
func pickEach[T int64 | uint64](src []T, groups [][]int, replaces func(cur, next T) bool) []T {
	out := make([]T, len(groups))
	for g, members := range groups {
		acc := src[members[0]]
		for _, k := range members[1:] {
			if replaces(acc, src[k]) {
				acc = src[k]
			}
		}
		out[g] = acc
	}
	return out
}

func mean(call *dispatch.Call, x *Buffer, r reduction) *Buffer {
	x = cast(x, call.DType)
	var data any
	switch v := x.data.(type) {
	case []complex128:
		s := fold(v, r, 0, add[complex128])
		for g := range s {
			s[g] /= complex(float64(r.size), 0)
		}
		data = s
	default:
		s := fold(x.floats(), r, 0, add[float64])
		for g := range s {
			s[g] = special.Divide(s[g], float64(r.size))
		}
		data = s
	}
	return newBuffer(call.DType, call.Shape, data).fit()
}

// variance computes var (or std) with the given degrees-of-freedom
// correction. A non-positive denominator yields NaN or Inf.
func variance(call *dispatch.Call, x *Buffer, r reduction) *Buffer {
	v := cast(x, call.DType).floats()
	n := float64(r.size)
	means := fold(v, r, 0, add[float64])
	for g := range means {
		means[g] /= n
	}
	out := make([]float64, r.groups)
	for k, g := range r.out {
		d := v[k] - means[g]
		out[g] += d * d
	}
	denom := math.Max(n-call.Attrs.Correction, 0)
	for g := range out {
		out[g] = special.Divide(out[g], denom)
		if call.Op == "std" {
			out[g] = math.Sqrt(out[g])
		}
	}
	return newBuffer(call.DType, call.Shape, out).fit()
}

// argExtremum returns the position of the first maximum (or minimum) within
// each group. Under NaN propagation the first NaN wins.
func (cpu *CPUBackend) argExtremum(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	r := reduceMap(x.shape, call.Axes)
	groups := r.members()
	larger := call.Op == "argmax"
	out := make([]int64, len(groups))
	propagate := call.Special.NaN == special.NaNPropagate

	for g, members := range groups {
		best := members[0]
		for _, k := range members[1:] {
			if better(x, k, best, larger, propagate) {
				best = k
			}
		}
		out[g] = int64(r.pos[best])
	}
	return newBuffer(tensor.Int64, call.Shape, out), nil
}

func better(x *Buffer, k, best int, larger, propagate bool) bool {
	switch v := x.data.(type) {
	case []int64:
		return (larger && v[k] > v[best]) || (!larger && v[k] < v[best])
	case []uint64:
		return (larger && v[k] > v[best]) || (!larger && v[k] < v[best])
	default:
		f := x.floats()
		if math.IsNaN(f[best]) {
			return false
		}
		if math.IsNaN(f[k]) {
			return propagate
		}
		return (larger && f[k] > f[best]) || (!larger && f[k] < f[best])
	}
}

// cumulativeSum computes running sums along one axis, optionally starting
// with a zero.
func (cpu *CPUBackend) cumulativeSum(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := cast(in[0], call.DType)
	axis := call.Axes[0]
	outer, inner := 1, 1
	for i, d := range x.shape {
		switch {
		case i < axis:
			outer *= d
		case i > axis:
			inner *= d
		}
	}
	n := x.shape[axis]
	m := call.Shape[axis]
	shift := m - n

	var data any
	switch v := x.data.(type) {
	case []int64:
		data = runningSum(v, outer, n, m, inner, shift)
	case []uint64:
		data = runningSum(v, outer, n, m, inner, shift)
	case []float64:
		data = runningSum(v, outer, n, m, inner, shift)
	case []complex128:
		data = runningSum(v, outer, n, m, inner, shift)
	default:
		return nil, fmt.Errorf("cpu: cumulative_sum is not implemented for %s", x.dtype)
	}
	return newBuffer(call.DType, call.Shape, data).fit(), nil
}

func runningSum[T number](src []T, outer, n, m, inner, shift int) []T {
	dst := make([]T, outer*m*inner)
	for o := 0; o < outer; o++ {
		for j := 0; j < inner; j++ {
			var acc T
			for i := 0; i < n; i++ {
				acc += src[(o*n+i)*inner+j]
				dst[(o*m+i+shift)*inner+j] = acc
			}
		}
	}
	return dst
}
