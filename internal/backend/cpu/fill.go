package cpu

import (
	"fmt"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// arange fills Start, Start+Step, ... over the one-dimensional fill shape.
func arange(fill *dispatch.Fill) *Buffer {
	out := alloc(fill.DType, fill.Shape)
	switch dst := out.data.(type) {
	case []int64:
		start, step := scalarInt(fill.Start), scalarInt(fill.Step)
		for i := range dst {
			dst[i] = start + int64(i)*step
		}
	case []uint64:
		start, step := scalarInt(fill.Start), scalarInt(fill.Step)
		for i := range dst {
			dst[i] = uint64(start + int64(i)*step)
		}
	case []float64:
		start, step := fill.Start.Float(), fill.Step.Float()
		for i := range dst {
			dst[i] = start + float64(i)*step
		}
	case []complex128:
		start, step := fill.Start.Complex(), fill.Step.Complex()
		for i := range dst {
			dst[i] = start + complex(float64(i), 0)*step
		}
	}
	return out.fit()
}

// linspace fills evenly spaced values from Start to Stop. With Endpoint the
// last element is Stop exactly.
func linspace(fill *dispatch.Fill) *Buffer {
	n := fill.Shape.NumElements()
	div := n
	if fill.Endpoint {
		div = n - 1
	}
	start, stop := fill.Start.Complex(), fill.Stop.Complex()
	step := complex128(0)
	if div > 0 {
		step = (stop - start) / complex(float64(div), 0)
	}
	values := make([]complex128, n)
	for i := range values {
		values[i] = start + complex(float64(i), 0)*step
	}
	if fill.Endpoint && n > 1 {
		values[n-1] = stop
	}
	return cast(newBuffer(tensor.Complex128, fill.Shape, values), fill.DType)
}

// eye puts ones on diagonal K of a two-dimensional fill shape.
func eye(fill *dispatch.Fill) (*Buffer, error) {
	if len(fill.Shape) != 2 {
		return nil, fmt.Errorf("cpu: eye needs a two-dimensional shape, got %v", fill.Shape)
	}
	rows, cols := fill.Shape[0], fill.Shape[1]
	out := alloc(fill.DType, fill.Shape)
	for r := 0; r < rows; r++ {
		c := r + fill.K
		if c < 0 || c >= cols {
			continue
		}
		setOne(out, r*cols+c)
	}
	return out, nil
}

func setOne(b *Buffer, k int) {
	switch v := b.data.(type) {
	case []bool:
		v[k] = true
	case []int64:
		v[k] = 1
	case []uint64:
		v[k] = 1
	case []float64:
		v[k] = 1
	case []complex128:
		v[k] = 1
	}
}
