package tensor

import "fmt"

// NormalizeAxis returns a non-negative axis, adjusting negative values to
// the rank. Valid axes are in [-rank, rank).
func NormalizeAxis(op string, axis, rank int) (int, error) {
	if axis < -rank || axis >= rank {
		return -1, &IncompatibleShapesError{
			Op:     op,
			Axis:   -1,
			Reason: fmt.Sprintf("axis %d is out of range for rank %d", axis, rank),
		}
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}

// NormalizeAxes normalizes a list of axes and rejects repeats. A nil list
// selects every axis.
func NormalizeAxes(op string, axes []int, rank int) ([]int, error) {
	if axes == nil {
		all := make([]int, rank)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	seen := make([]bool, rank)
	out := make([]int, len(axes))
	for i, a := range axes {
		n, err := NormalizeAxis(op, a, rank)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			return nil, &IncompatibleShapesError{
				Op:     op,
				Axis:   -1,
				Reason: fmt.Sprintf("repeated axis %d", a),
			}
		}
		seen[n] = true
		out[i] = n
	}
	return out, nil
}

// IsPermutation reports whether axes is a permutation of [0, rank).
func IsPermutation(axes []int, rank int) bool {
	if len(axes) != rank {
		return false
	}
	seen := make([]bool, rank)
	for _, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			return false
		}
		seen[a] = true
	}
	return true
}
