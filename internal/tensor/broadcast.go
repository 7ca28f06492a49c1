package tensor

import "fmt"

// AxisPlan describes how one input is aligned to a broadcast output shape.
// Repeat and Strides are indexed by output axis.
type AxisPlan struct {
	Pad     int    // Number of virtual size-1 axes prepended to the input.
	Repeat  []bool // Axis is virtually repeated (input size 1, output larger).
	Strides []int  // Element stride into the input; 0 on padded or size-1 axes.
}

// Broadcast is the result of planning a broadcast over several shapes.
type Broadcast struct {
	Shape  Shape      // Output shape.
	Inputs []AxisPlan // One plan per input, in input order.
}

// NeedsBroadcast reports whether any input is virtually repeated or padded.
func (b *Broadcast) NeedsBroadcast() bool {
	for _, in := range b.Inputs {
		if in.Pad > 0 {
			return true
		}
		for _, r := range in.Repeat {
			if r {
				return true
			}
		}
	}
	return false
}

// Plan implements NumPy-style broadcasting over any number of shapes.
//
// Rules:
// 1. Shapes are right-aligned; missing leading dimensions are treated as 1
// 2. At each axis, every size must be 1 or equal to the single non-1 size
// 3. The output size at an axis is that non-1 size, or 1
//
// An axis holding two distinct sizes other than 1 fails the whole plan and
// no partial result is returned.
//
// Examples:
//
//	(3, 1, 5) + (1, 4, 5) → (3, 4, 5)
//	(5,) + (3, 1)         → (3, 5)
//	(2, 3) + (4, 3)       → error
func Plan(shapes ...Shape) (*Broadcast, error) {
	ndim := 0
	for _, s := range shapes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		ndim = max(ndim, len(s))
	}

	out := make(Shape, ndim)
	for i := 0; i < ndim; i++ {
		size := 1
		for _, s := range shapes {
			d := dimFromRight(s, ndim-1-i)
			if d == 1 {
				continue
			}
			if size == 1 {
				size = d
				continue
			}
			if d != size {
				return nil, &IncompatibleShapesError{
					Shapes: cloneShapes(shapes),
					Axis:   i,
					Reason: fmt.Sprintf("sizes %d and %d", size, d),
				}
			}
		}
		out[i] = size
	}

	plan := &Broadcast{Shape: out, Inputs: make([]AxisPlan, len(shapes))}
	for k, s := range shapes {
		plan.Inputs[k] = alignTo(s, out)
	}
	return plan, nil
}

// BroadcastShapes broadcasts two shapes. It returns the broadcast shape and
// whether broadcasting is needed.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	plan, err := Plan(a, b)
	if err != nil {
		return nil, false, err
	}
	return plan.Shape, plan.NeedsBroadcast(), nil
}

// BroadcastTo checks that src broadcasts to exactly target and returns the
// input plan. Unlike Plan, target is fixed: src may not enlarge it.
func BroadcastTo(src, target Shape) (AxisPlan, error) {
	if err := target.Validate(); err != nil {
		return AxisPlan{}, err
	}
	if len(src) > len(target) {
		return AxisPlan{}, shapeError("broadcast_to", "source has more dimensions than target", src, target)
	}
	pad := len(target) - len(src)
	for i, d := range src {
		if d != 1 && d != target[pad+i] {
			return AxisPlan{}, &IncompatibleShapesError{
				Op:     "broadcast_to",
				Shapes: []Shape{src.Clone(), target.Clone()},
				Axis:   pad + i,
				Reason: fmt.Sprintf("size %d cannot broadcast to %d", d, target[pad+i]),
			}
		}
	}
	return alignTo(src, target), nil
}

// alignTo builds the axis plan of s against a compatible output shape.
func alignTo(s, out Shape) AxisPlan {
	pad := len(out) - len(s)
	strides := s.ComputeStrides()
	p := AxisPlan{
		Pad:     pad,
		Repeat:  make([]bool, len(out)),
		Strides: make([]int, len(out)),
	}
	for i := range out {
		in := i - pad
		if in < 0 || s[in] == 1 {
			p.Repeat[i] = out[i] > 1
			continue
		}
		p.Strides[i] = strides[in]
	}
	return p
}

// dimFromRight returns the size of axis k counted from the right, or 1 if
// the shape has fewer axes.
func dimFromRight(s Shape, k int) int {
	idx := len(s) - 1 - k
	if idx < 0 {
		return 1
	}
	return s[idx]
}

func cloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}
