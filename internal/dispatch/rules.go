package dispatch

import (
	"fmt"

	"github.com/born-ml/arrayapi/internal/tensor"
)

// shapeRule checks an operation's shape preconditions against call.Inputs
// and fills the result shape plus the normalized axes and attributes.
type shapeRule func(op *Op, call *Call, o *Options) error

func shapes(call *Call) []tensor.Shape {
	out := make([]tensor.Shape, len(call.Inputs))
	for i, in := range call.Inputs {
		out[i] = in.Shape
	}
	return out
}

func invalid(op *Op, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", tensor.ErrInvalidArgument, op.Name, fmt.Sprintf(format, args...))
}

func sameShape(_ *Op, call *Call, _ *Options) error {
	call.Shape = call.Inputs[0].Shape.Clone()
	return nil
}

func elementwise(_ *Op, call *Call, _ *Options) error {
	plan, err := tensor.Plan(shapes(call)...)
	if err != nil {
		return err
	}
	call.Shape = plan.Shape
	call.Broadcast = plan
	return nil
}

// clipShape broadcasts the bounds against x without enlarging it. The
// bounds must not promote x to a different dtype.
func clipShape(op *Op, call *Call, o *Options) error {
	x := call.Inputs[0]
	bounds := 0
	if o.HasMin {
		bounds++
	}
	if o.HasMax {
		bounds++
	}
	if bounds != len(call.Inputs)-1 {
		return invalid(op, "%d bound operands given, %d declared", len(call.Inputs)-1, bounds)
	}
	if call.Compute != x.DType {
		return &tensor.NoCommonTypeError{A: x.DType, B: call.Compute}
	}
	if err := elementwise(op, call, o); err != nil {
		return err
	}
	if !call.Shape.Equal(x.Shape) {
		return tensor.ShapeError(op.Name, "bounds must broadcast to the shape of x", shapes(call)...)
	}
	call.Attrs.HasMin, call.Attrs.HasMax = o.HasMin, o.HasMax
	return nil
}

// reduceAxes removes the reduced axes, or keeps them as size 1.
func reduceAxes(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	axes, err := tensor.NormalizeAxes(op.Name, o.Axes, len(in))
	if err != nil {
		return err
	}
	if o.Correction < 0 {
		return invalid(op, "correction must be non-negative, got %g", o.Correction)
	}
	call.Axes = sortedCopy(axes)
	call.Shape = reducedShape(in, call.Axes, o.Keepdims)
	call.Attrs.Keepdims = o.Keepdims
	call.Attrs.Correction = o.Correction
	return nil
}

func reducedShape(in tensor.Shape, axes []int, keepdims bool) tensor.Shape {
	reduced := make([]bool, len(in))
	for _, a := range axes {
		reduced[a] = true
	}
	out := tensor.Shape{}
	for i, d := range in {
		switch {
		case !reduced[i]:
			out = append(out, d)
		case keepdims:
			out = append(out, 1)
		}
	}
	return out
}

// argReduce reduces one axis, or the flattened array when no axis is given.
func argReduce(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	call.Attrs.Keepdims = o.Keepdims
	if o.Axes == nil {
		call.Axes = nil
		if o.Keepdims {
			call.Shape = ones(len(in))
		} else {
			call.Shape = tensor.Shape{}
		}
		return nil
	}
	if len(o.Axes) != 1 {
		return invalid(op, "takes a single axis, got %d", len(o.Axes))
	}
	axis, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(in))
	if err != nil {
		return err
	}
	call.Axes = []int{axis}
	call.Shape = reducedShape(in, call.Axes, o.Keepdims)
	return nil
}

func ones(n int) tensor.Shape {
	s := make(tensor.Shape, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

// cumulative keeps the input shape; include_initial adds one element along
// the axis.
func cumulative(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(in) == 0 {
		return tensor.ShapeError(op.Name, "input must have at least one dimension", in)
	}
	var axis int
	switch {
	case o.Axes == nil && len(in) == 1:
		axis = 0
	case o.Axes == nil:
		return tensor.ShapeError(op.Name, "axis is required for arrays with more than one dimension", in)
	case len(o.Axes) != 1:
		return invalid(op, "takes a single axis, got %d", len(o.Axes))
	default:
		a, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(in))
		if err != nil {
			return err
		}
		axis = a
	}
	call.Axes = []int{axis}
	call.Shape = in.Clone()
	if o.IncludeInitial {
		call.Shape[axis]++
	}
	call.Attrs.IncludeInitial = o.IncludeInitial
	return nil
}

// reshape resolves at most one -1 in the target shape.
func reshape(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	target := o.Shape.Clone()
	unknown := -1
	known := 1
	for i, d := range target {
		switch {
		case d == -1 && unknown >= 0:
			return invalid(op, "only one dimension may be -1")
		case d == -1:
			unknown = i
		case d < 0:
			return invalid(op, "negative dimension %d", d)
		default:
			known *= d
		}
	}
	size := in.NumElements()
	if unknown >= 0 {
		if known == 0 || size%known != 0 {
			return tensor.ShapeError(op.Name, fmt.Sprintf("cannot infer -1 for %d elements", size), in, o.Shape)
		}
		target[unknown] = size / known
	}
	if target.NumElements() != size {
		return tensor.ShapeError(op.Name, fmt.Sprintf("cannot reshape %d elements", size), in, target)
	}
	call.Shape = target
	call.Attrs.Copy = o.Copy
	return nil
}

func broadcastTo(_ *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	plan, err := tensor.BroadcastTo(in, o.Shape)
	if err != nil {
		return err
	}
	call.Shape = o.Shape.Clone()
	call.Broadcast = &tensor.Broadcast{Shape: call.Shape, Inputs: []tensor.AxisPlan{plan}}
	return nil
}

// permute applies a permutation to the input shape.
func permute(call *Call, perm []int) {
	in := call.Inputs[0].Shape
	call.Axes = perm
	call.Shape = make(tensor.Shape, len(perm))
	for i, p := range perm {
		call.Shape[i] = in[p]
	}
}

func permuteDims(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if o.Axes == nil || len(o.Axes) != len(in) {
		return invalid(op, "axes must list all %d dimensions", len(in))
	}
	perm, err := tensor.NormalizeAxes(op.Name, o.Axes, len(in))
	if err != nil {
		return err
	}
	permute(call, perm)
	return nil
}

func matrixTranspose(op *Op, call *Call, _ *Options) error {
	in := call.Inputs[0].Shape
	if len(in) < 2 {
		return tensor.ShapeError(op.Name, "input must have at least two dimensions", in)
	}
	perm := make([]int, len(in))
	for i := range perm {
		perm[i] = i
	}
	perm[len(in)-2], perm[len(in)-1] = perm[len(in)-1], perm[len(in)-2]
	permute(call, perm)
	return nil
}

func moveAxis(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(o.Source) != len(o.Destination) {
		return invalid(op, "source and destination must have the same length")
	}
	src, err := tensor.NormalizeAxes(op.Name, append([]int{}, o.Source...), len(in))
	if err != nil {
		return err
	}
	dst, err := tensor.NormalizeAxes(op.Name, append([]int{}, o.Destination...), len(in))
	if err != nil {
		return err
	}

	perm := make([]int, len(in))
	placed := make([]bool, len(in))
	moved := make([]bool, len(in))
	for i := range src {
		perm[dst[i]] = src[i]
		placed[dst[i]] = true
		moved[src[i]] = true
	}
	next := 0
	for i := range perm {
		if placed[i] {
			continue
		}
		for moved[next] {
			next++
		}
		perm[i] = next
		next++
	}
	permute(call, perm)
	return nil
}

func expandDims(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(o.Axes) != 1 {
		return invalid(op, "takes a single axis")
	}
	axis, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(in)+1)
	if err != nil {
		return err
	}
	out := make(tensor.Shape, 0, len(in)+1)
	out = append(out, in[:axis]...)
	out = append(out, 1)
	out = append(out, in[axis:]...)
	call.Axes = []int{axis}
	call.Shape = out
	return nil
}

func squeeze(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if o.Axes == nil {
		return invalid(op, "axis is required")
	}
	axes, err := tensor.NormalizeAxes(op.Name, o.Axes, len(in))
	if err != nil {
		return err
	}
	for _, a := range axes {
		if in[a] != 1 {
			return &tensor.IncompatibleShapesError{
				Op: op.Name, Shapes: []tensor.Shape{in.Clone()}, Axis: a,
				Reason: fmt.Sprintf("cannot squeeze axis of size %d", in[a]),
			}
		}
	}
	call.Axes = sortedCopy(axes)
	call.Shape = reducedShape(in, call.Axes, false)
	return nil
}

func flip(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	axes, err := tensor.NormalizeAxes(op.Name, o.Axes, len(in))
	if err != nil {
		return err
	}
	call.Axes = sortedCopy(axes)
	call.Shape = in.Clone()
	return nil
}

// roll pairs each shift with an axis. A single shift applies to every axis;
// without axes the flattened array is rolled.
func roll(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(o.Shift) == 0 {
		return invalid(op, "shift is required")
	}
	call.Shape = in.Clone()
	if o.Axes == nil {
		if len(o.Shift) != 1 {
			return invalid(op, "a flattened roll takes a single shift")
		}
		call.Attrs.Shift = append([]int(nil), o.Shift...)
		return nil
	}
	shift := o.Shift
	if len(shift) == 1 && len(o.Axes) > 1 {
		shift = make([]int, len(o.Axes))
		for i := range shift {
			shift[i] = o.Shift[0]
		}
	}
	if len(shift) != len(o.Axes) {
		return invalid(op, "%d shifts for %d axes", len(o.Shift), len(o.Axes))
	}
	axes := make([]int, len(o.Axes))
	for i, a := range o.Axes {
		n, err := tensor.NormalizeAxis(op.Name, a, len(in))
		if err != nil {
			return err
		}
		axes[i] = n
	}
	call.Axes = axes
	call.Attrs.Shift = append([]int(nil), shift...)
	return nil
}

// concat joins along an existing axis, or flattens every input when no axis
// is given. Operand dtypes are promoted.
func concat(op *Op, call *Call, o *Options) error {
	in := shapes(call)
	if o.Axes == nil {
		total := 0
		for _, s := range in {
			total += s.NumElements()
		}
		call.Shape = tensor.Shape{total}
		return nil
	}
	if len(o.Axes) != 1 {
		return invalid(op, "takes a single axis")
	}
	first := in[0]
	if len(first) == 0 {
		return tensor.ShapeError(op.Name, "zero-dimensional arrays cannot be concatenated", in...)
	}
	axis, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(first))
	if err != nil {
		return err
	}
	out := first.Clone()
	for _, s := range in[1:] {
		if len(s) != len(first) {
			return tensor.ShapeError(op.Name, "arrays must have the same number of dimensions", in...)
		}
		for i := range s {
			if i != axis && s[i] != first[i] {
				return &tensor.IncompatibleShapesError{
					Op: op.Name, Shapes: in, Axis: i,
					Reason: fmt.Sprintf("sizes %d and %d", first[i], s[i]),
				}
			}
		}
		out[axis] += s[axis]
	}
	call.Axes = []int{axis}
	call.Shape = out
	return nil
}

// stack joins equal-shaped arrays along a new axis.
func stack(op *Op, call *Call, o *Options) error {
	in := shapes(call)
	first := in[0]
	for _, s := range in[1:] {
		if !s.Equal(first) {
			return tensor.ShapeError(op.Name, "arrays must have the same shape", in...)
		}
	}
	axis := 0
	if len(o.Axes) > 1 {
		return invalid(op, "takes a single axis")
	}
	if len(o.Axes) == 1 {
		a, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(first)+1)
		if err != nil {
			return err
		}
		axis = a
	}
	out := make(tensor.Shape, 0, len(first)+1)
	out = append(out, first[:axis]...)
	out = append(out, len(in))
	out = append(out, first[axis:]...)
	call.Axes = []int{axis}
	call.Shape = out
	return nil
}

// tile pads the shorter of shape and reps with leading ones.
func tile(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	for _, r := range o.Reps {
		if r < 0 {
			return invalid(op, "negative repetition %d", r)
		}
	}
	n := max(len(in), len(o.Reps))
	out := make(tensor.Shape, n)
	reps := make([]int, n)
	for i := range out {
		d, r := 1, 1
		if k := i - (n - len(in)); k >= 0 {
			d = in[k]
		}
		if k := i - (n - len(o.Reps)); k >= 0 {
			r = o.Reps[k]
		}
		out[i] = d * r
		reps[i] = r
	}
	call.Shape = out
	call.Attrs.Reps = reps
	return nil
}

// repeat repeats elements along one axis, or over the flattened array.
// Repeats holds one count, or one count per element along the axis.
func repeat(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(o.Repeats) == 0 {
		return invalid(op, "repeats is required")
	}
	for _, r := range o.Repeats {
		if r < 0 {
			return invalid(op, "negative repetition %d", r)
		}
	}

	extent := in.NumElements()
	axis := -1
	if o.Axes != nil {
		if len(o.Axes) != 1 {
			return invalid(op, "takes a single axis")
		}
		a, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(in))
		if err != nil {
			return err
		}
		axis = a
		extent = in[a]
	}

	total := 0
	switch len(o.Repeats) {
	case 1:
		total = o.Repeats[0] * extent
	case extent:
		for _, r := range o.Repeats {
			total += r
		}
	default:
		return tensor.ShapeError(op.Name, fmt.Sprintf("%d repeats for %d elements", len(o.Repeats), extent), in)
	}

	if axis < 0 {
		call.Shape = tensor.Shape{total}
	} else {
		call.Shape = in.Clone()
		call.Shape[axis] = total
		call.Axes = []int{axis}
	}
	call.Attrs.Repeats = append([]int(nil), o.Repeats...)
	return nil
}

// take gathers along one axis with a one-dimensional integer index array.
func take(op *Op, call *Call, o *Options) error {
	x, idx := call.Inputs[0].Shape, call.Inputs[1].Shape
	if len(idx) != 1 {
		return tensor.ShapeError(op.Name, "indices must be one-dimensional", x, idx)
	}
	if len(x) == 0 {
		return tensor.ShapeError(op.Name, "x must have at least one dimension", x, idx)
	}
	var axis int
	switch {
	case o.Axes == nil && len(x) == 1:
		axis = 0
	case o.Axes == nil:
		return tensor.ShapeError(op.Name, "axis is required for arrays with more than one dimension", x)
	case len(o.Axes) != 1:
		return invalid(op, "takes a single axis")
	default:
		a, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(x))
		if err != nil {
			return err
		}
		axis = a
	}
	call.Axes = []int{axis}
	call.Shape = x.Clone()
	call.Shape[axis] = idx[0]
	return nil
}

// selectIndex picks one position along an axis and drops the axis.
func selectIndex(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(o.Axes) != 1 {
		return invalid(op, "takes a single axis")
	}
	axis, err := tensor.NormalizeAxis(op.Name, o.Axes[0], len(in))
	if err != nil {
		return err
	}
	if o.Index < 0 || o.Index >= in[axis] {
		return invalid(op, "index %d out of range for axis of size %d", o.Index, in[axis])
	}
	call.Axes = []int{axis}
	call.Shape = reducedShape(in, call.Axes, false)
	call.Attrs.Index = o.Index
	return nil
}

func triangle(op *Op, call *Call, o *Options) error {
	in := call.Inputs[0].Shape
	if len(in) < 2 {
		return tensor.ShapeError(op.Name, "input must have at least two dimensions", in)
	}
	call.Shape = in.Clone()
	call.Attrs.K = o.K
	return nil
}

func asType(_ *Op, call *Call, o *Options) error {
	call.Shape = call.Inputs[0].Shape.Clone()
	call.Attrs.Copy = o.Copy
	return nil
}

// matmul treats a 1-D left operand as a row and a 1-D right operand as a
// column, and broadcasts the batch dimensions.
func matmul(op *Op, call *Call, _ *Options) error {
	a, b := call.Inputs[0].Shape, call.Inputs[1].Shape
	if len(a) == 0 || len(b) == 0 {
		return tensor.ShapeError(op.Name, "operands must have at least one dimension", a, b)
	}
	am, bm := a, b
	if len(a) == 1 {
		am = tensor.Shape{1, a[0]}
	}
	if len(b) == 1 {
		bm = tensor.Shape{b[0], 1}
	}
	k := am[len(am)-1]
	if bm[len(bm)-2] != k {
		return tensor.ShapeError(op.Name,
			fmt.Sprintf("contracted sizes %d and %d differ", k, bm[len(bm)-2]), a, b)
	}
	batch, err := tensor.Plan(am[:len(am)-2], bm[:len(bm)-2])
	if err != nil {
		return err
	}
	out := batch.Shape.Clone()
	if len(a) > 1 {
		out = append(out, am[len(am)-2])
	}
	if len(b) > 1 {
		out = append(out, bm[len(bm)-1])
	}
	call.Shape = out
	call.Broadcast = batch
	return nil
}

// vecdot contracts one axis, counted on the broadcast shape, that both
// operands must have with equal size.
func vecdot(op *Op, call *Call, o *Options) error {
	a, b := call.Inputs[0].Shape, call.Inputs[1].Shape
	plan, err := tensor.Plan(a, b)
	if err != nil {
		return err
	}
	rank := len(plan.Shape)
	axisArg := -1
	if len(o.Axes) > 1 {
		return invalid(op, "takes a single axis")
	}
	if len(o.Axes) == 1 {
		axisArg = o.Axes[0]
	}
	axis, err := tensor.NormalizeAxis(op.Name, axisArg, rank)
	if err != nil {
		return err
	}
	fromRight := rank - 1 - axis
	if fromRight >= len(a) || fromRight >= len(b) {
		return tensor.ShapeError(op.Name, "both operands must have the contracted axis", a, b)
	}
	if da, db := a[len(a)-1-fromRight], b[len(b)-1-fromRight]; da != db {
		return &tensor.IncompatibleShapesError{
			Op: op.Name, Shapes: []tensor.Shape{a.Clone(), b.Clone()}, Axis: axis,
			Reason: fmt.Sprintf("contracted sizes %d and %d differ", da, db),
		}
	}
	call.Axes = []int{axis}
	call.Shape = reducedShape(plan.Shape, call.Axes, false)
	call.Broadcast = plan
	return nil
}

// tensordot contracts paired axes; the result holds the free axes of a
// followed by those of b. Without explicit pairs the last n axes of a meet
// the first n of b (n defaults to 2).
func tensordot(op *Op, call *Call, o *Options) error {
	a, b := call.Inputs[0].Shape, call.Inputs[1].Shape
	if o.ContractA == nil && o.ContractB == nil {
		n := 2
		if o.ContractN != nil {
			n = *o.ContractN
		}
		if n < 0 || n > len(a) || n > len(b) {
			return tensor.ShapeError(op.Name, fmt.Sprintf("cannot contract %d axes", n), a, b)
		}
		o.ContractA = make([]int, n)
		o.ContractB = make([]int, n)
		for i := 0; i < n; i++ {
			o.ContractA[i] = len(a) - n + i
			o.ContractB[i] = i
		}
	}
	if len(o.ContractA) != len(o.ContractB) {
		return invalid(op, "axes lists differ in length")
	}
	ca, err := tensor.NormalizeAxes(op.Name, append([]int{}, o.ContractA...), len(a))
	if err != nil {
		return err
	}
	cb, err := tensor.NormalizeAxes(op.Name, append([]int{}, o.ContractB...), len(b))
	if err != nil {
		return err
	}
	for i := range ca {
		if a[ca[i]] != b[cb[i]] {
			return tensor.ShapeError(op.Name,
				fmt.Sprintf("contracted sizes %d and %d differ", a[ca[i]], b[cb[i]]), a, b)
		}
	}
	out := tensor.Shape{}
	out = append(out, reducedShape(a, ca, false)...)
	out = append(out, reducedShape(b, cb, false)...)
	call.Contract = [2][]int{ca, cb}
	call.Shape = out
	return nil
}

func searchSorted(op *Op, call *Call, o *Options) error {
	x1 := call.Inputs[0].Shape
	if len(x1) != 1 {
		return tensor.ShapeError(op.Name, "x1 must be one-dimensional", x1)
	}
	if len(call.Inputs) == 3 {
		if s := call.Inputs[2].Shape; !s.Equal(x1) {
			return tensor.ShapeError(op.Name, "sorter must match x1", x1, s)
		}
		call.Attrs.Sorter = true
	}
	side := o.Side
	if side == "" {
		side = "left"
	}
	if side != "left" && side != "right" {
		return invalid(op, "side must be \"left\" or \"right\", got %q", side)
	}
	call.Attrs.Side = side
	call.Shape = call.Inputs[1].Shape.Clone()
	return nil
}
