package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestPlanCompatible(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
		want   Shape
	}{
		{"scenario", []Shape{{3, 1, 5}, {1, 4, 5}}, Shape{3, 4, 5}},
		{"same", []Shape{{3, 5}, {3, 5}}, Shape{3, 5}},
		{"left pad", []Shape{{5}, {3, 1}}, Shape{3, 5}},
		{"scalar", []Shape{{}, {2, 3}}, Shape{2, 3}},
		{"all scalar", []Shape{{}, {}}, Shape{}},
		{"three way", []Shape{{8, 1, 6, 1}, {7, 1, 5}, {1}}, Shape{8, 7, 6, 5}},
		{"zero size", []Shape{{0, 3}, {1, 3}}, Shape{0, 3}},
		{"zero against one", []Shape{{2, 0}, {1}}, Shape{2, 0}},
		{"single", []Shape{{4, 2}}, Shape{4, 2}},
		{"none", nil, Shape{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Plan(tt.shapes...)
			require.NoError(t, err)
			assertEqualShape(t, tt.want, plan.Shape, tt.name)
			assert.Len(t, plan.Inputs, len(tt.shapes))
		})
	}
}

func TestPlanIncompatible(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
		axis   int
	}{
		{"scenario", []Shape{{2, 3}, {4, 3}}, 0},
		{"trailing", []Shape{{3}, {4}}, 0},
		{"zero against three", []Shape{{0}, {3}}, 0},
		{"third input", []Shape{{2, 1}, {1, 3}, {2, 4}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Plan(tt.shapes...)
			assert.Nil(t, plan)
			require.True(t, errors.Is(err, ErrIncompatibleShapes))

			var serr *IncompatibleShapesError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.axis, serr.Axis)
			assert.Len(t, serr.Shapes, len(tt.shapes))
		})
	}
}

func TestPlanRejectsNegativeDims(t *testing.T) {
	_, err := Plan(Shape{2, -1})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPlanAxisPlans(t *testing.T) {
	plan, err := Plan(Shape{3, 1, 5}, Shape{4, 5})
	require.NoError(t, err)
	assertEqualShape(t, Shape{3, 4, 5}, plan.Shape, "output")

	a := plan.Inputs[0]
	assert.Equal(t, 0, a.Pad)
	assert.Equal(t, []bool{false, true, false}, a.Repeat)
	assert.Equal(t, []int{5, 0, 1}, a.Strides)

	b := plan.Inputs[1]
	assert.Equal(t, 1, b.Pad)
	assert.Equal(t, []bool{true, false, false}, b.Repeat)
	assert.Equal(t, []int{0, 5, 1}, b.Strides)

	assert.True(t, plan.NeedsBroadcast())
}

func TestPlanNoBroadcastNeeded(t *testing.T) {
	plan, err := Plan(Shape{2, 3}, Shape{2, 3})
	require.NoError(t, err)
	assert.False(t, plan.NeedsBroadcast())
}

func TestPlanDoesNotAliasInputs(t *testing.T) {
	a := Shape{3, 1}
	plan, err := Plan(a, Shape{1, 4})
	require.NoError(t, err)
	plan.Shape[0] = 99
	assert.Equal(t, Shape{3, 1}, a)
}

func TestBroadcastShapes(t *testing.T) {
	out, needs, err := BroadcastShapes(Shape{3, 1}, Shape{3, 5})
	require.NoError(t, err)
	assertEqualShape(t, Shape{3, 5}, out, "broadcast")
	assert.True(t, needs)

	_, _, err = BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))
}

func TestBroadcastTo(t *testing.T) {
	p, err := BroadcastTo(Shape{3, 1}, Shape{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Pad)
	assert.Equal(t, []bool{true, false, true}, p.Repeat)
	assert.Equal(t, []int{0, 1, 0}, p.Strides)

	_, err = BroadcastTo(Shape{3, 4}, Shape{4})
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))

	_, err = BroadcastTo(Shape{3}, Shape{2, 4})
	var serr *IncompatibleShapesError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Axis)
	assert.Equal(t, "broadcast_to", serr.Op)

	// Plan would enlarge the target; BroadcastTo must not.
	_, err = BroadcastTo(Shape{4}, Shape{1})
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))
}

func TestNormalizeAxis(t *testing.T) {
	a, err := NormalizeAxis("sum", -1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, a)

	_, err = NormalizeAxis("sum", 3, 3)
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))
	_, err = NormalizeAxis("sum", -4, 3)
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))
}

func TestNormalizeAxes(t *testing.T) {
	axes, err := NormalizeAxes("sum", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, axes)

	axes, err = NormalizeAxes("sum", []int{-1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, axes)

	_, err = NormalizeAxes("sum", []int{1, -2}, 3)
	assert.True(t, errors.Is(err, ErrIncompatibleShapes))

	axes, err = NormalizeAxes("sum", []int{}, 2)
	require.NoError(t, err)
	assert.Empty(t, axes)
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int{2, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 3, 1}, 3))
}
