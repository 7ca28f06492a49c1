package cpu

import (
	"fmt"
	"math"
	"sort"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// take gathers along one axis. Negative indices count from the end; any
// other out-of-range index is an error.
func (cpu *CPUBackend) take(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	indices := cast(in[1], tensor.Int64).ints()
	outer, extent, inner := split(x.shape, call.Axes[0])

	pick := make([]int, len(indices))
	for i, v := range indices {
		switch {
		case v >= 0 && v < int64(extent):
			pick[i] = int(v)
		case v < 0 && v >= -int64(extent):
			pick[i] = int(v) + extent
		default:
			return nil, fmt.Errorf("cpu: take: index %d out of range for axis of size %d", v, extent)
		}
	}

	idx := make([]int, 0, call.Shape.NumElements())
	for o := 0; o < outer; o++ {
		for _, p := range pick {
			for j := 0; j < inner; j++ {
				idx = append(idx, (o*extent+p)*inner+j)
			}
		}
	}
	return gather(x, idx, call.Shape), nil
}

// selectIndex picks Attrs.Index along an axis and drops that axis.
func (cpu *CPUBackend) selectIndex(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x := in[0]
	outer, extent, inner := split(x.shape, call.Axes[0])
	idx := make([]int, 0, outer*inner)
	for o := 0; o < outer; o++ {
		for j := 0; j < inner; j++ {
			idx = append(idx, (o*extent+call.Attrs.Index)*inner+j)
		}
	}
	return gather(x, idx, call.Shape), nil
}

// searchSorted finds insertion points of x2 in the ascending x1. NaN sorts
// after every number.
func (cpu *CPUBackend) searchSorted(call *dispatch.Call, in []*Buffer) (*Buffer, error) {
	x1, x2 := in[0], in[1]
	n := x1.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if call.Attrs.Sorter {
		for i, v := range cast(in[2], tensor.Int64).ints() {
			if v < 0 || v >= int64(n) {
				return nil, fmt.Errorf("cpu: searchsorted: sorter index %d out of range for size %d", v, n)
			}
			order[i] = int(v)
		}
	}
	right := call.Attrs.Side == "right"

	out := make([]int64, x2.Len())
	switch v := x1.data.(type) {
	case []int64:
		insertAll(out, v, x2.ints(), order, right, func(a, b int64) bool { return a < b })
	case []uint64:
		insertAll(out, v, x2.uints(), order, right, func(a, b uint64) bool { return a < b })
	case []float64:
		insertAll(out, v, x2.floats(), order, right, func(a, b float64) bool {
			return a < b || (!math.IsNaN(a) && math.IsNaN(b))
		})
	default:
		return nil, fmt.Errorf("cpu: searchsorted is not implemented for %s", x1.dtype)
	}
	return newBuffer(tensor.Int64, call.Shape, out), nil
}

func insertAll[T int64 | uint64 | float64](dst []int64, sorted, values []T, order []int, right bool, less func(a, b T) bool) {
	for k, v := range values {
		dst[k] = int64(sort.Search(len(order), func(i int) bool {
			s := sorted[order[i]]
			if right {
				return less(v, s)
			}
			return !less(s, v)
		}))
	}
}
