// Package special holds the special-value policy of the array namespace:
// the documented results of division by zero, out-of-range shifts, integer
// overflow, rounding ties, NaN and signed-zero handling, and the identity
// values of reductions over empty axes.
//
// The dispatcher resolves a Directive for each call so that backends receive
// an explicit instruction instead of relying on incidental hardware
// behaviour. The scalar functions in this package are the reference
// semantics for each directive; the CPU backend uses them directly.
package special

import "github.com/born-ml/arrayapi/internal/tensor"

// Rule names the special-value behaviour an operation is subject to.
type Rule uint8

// Rules, one per family of documented edge-case behaviour.
const (
	None         Rule = iota
	TrueDivide        // IEEE 754 division by zero.
	FloorDivide       // Floor division; integer division by zero yields 0.
	Remainder         // Floor-mod; integer modulo by zero yields 0.
	ShiftLeft         // Left shift by >= width yields 0.
	ShiftRight        // Right shift by >= width yields 0 or -1.
	Round             // Ties to even.
	Wrapping          // Integer results wrap at the dtype width.
	Power             // Wrapping plus negative integer exponents.
	Extremum          // NaN propagation and signed-zero ordering.
	SumReduce         // Empty identity 0.
	ProdReduce        // Empty identity 1.
	AnyReduce         // Empty identity false.
	AllReduce         // Empty identity true.
	ExtremumReduce    // No identity: empty input is an error.
	MeanReduce        // Empty result NaN.
	CountReduce       // Empty identity 0 (int64).
	ArgReduce         // No identity: empty input is an error.
)

var ruleNames = map[Rule]string{
	None:           "none",
	TrueDivide:     "true-divide",
	FloorDivide:    "floor-divide",
	Remainder:      "remainder",
	ShiftLeft:      "shift-left",
	ShiftRight:     "shift-right",
	Round:          "round-half-even",
	Wrapping:       "wrapping",
	Power:          "power",
	Extremum:       "extremum",
	SumReduce:      "sum-identity",
	ProdReduce:     "prod-identity",
	AnyReduce:      "any-identity",
	AllReduce:      "all-identity",
	ExtremumReduce: "no-identity",
	MeanReduce:     "nan-on-empty",
	CountReduce:    "count-identity",
	ArgReduce:      "no-identity",
}

// String returns the rule name.
func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return "unknown"
}

// ZeroDivision selects the result of dividing by zero.
type ZeroDivision uint8

// Division-by-zero outcomes.
const (
	ZeroDivisionNone ZeroDivision = iota
	ZeroDivisionIEEE              // ±Inf by sign, NaN for 0/0.
	ZeroDivisionZero              // Integer result 0.
)

// Shift selects the handling of shift amounts outside [0, width).
type Shift uint8

// Shift outcomes.
const (
	ShiftNone     Shift = iota
	ShiftSaturate       // Left: 0. Right: 0, or -1 for negative signed values.
)

// Rounding selects the tie-breaking mode of round.
type Rounding uint8

// Rounding modes.
const (
	RoundingNone Rounding = iota
	RoundingHalfEven
)

// Overflow selects the behaviour of integer results outside the dtype range.
type Overflow uint8

// Overflow modes.
const (
	OverflowNone Overflow = iota
	OverflowWrap          // Two's-complement wraparound at the dtype width.
)

// NaN selects NaN handling for comparisons-based operations.
type NaN uint8

// NaN modes.
const (
	NaNNone      NaN = iota
	NaNPropagate     // Any NaN input yields NaN.
)

// Directive is the explicit special-value instruction attached to a backend
// call. The zero value means "no override".
type Directive struct {
	Rule         Rule
	ZeroDivision ZeroDivision
	Shift        Shift
	Rounding     Rounding
	Overflow     Overflow
	NaN          NaN
	SignedZero   bool // Order -0 below +0 in maximum/minimum.
}

// IsZero reports whether the directive carries no override.
func (d Directive) IsZero() bool {
	return d == Directive{}
}

// Resolve computes the directive for an operation governed by rule whose
// result (or, for reductions, input) dtype is dt.
func Resolve(rule Rule, dt tensor.DataType) Directive {
	d := Directive{Rule: rule}
	integral := tensor.KindIntegral.Allows(dt)
	floating := tensor.KindFloating.Allows(dt)

	switch rule {
	case TrueDivide:
		if floating {
			d.ZeroDivision = ZeroDivisionIEEE
		}
	case FloorDivide, Remainder:
		switch {
		case integral:
			d.ZeroDivision = ZeroDivisionZero
			d.Overflow = OverflowWrap
		case floating:
			d.ZeroDivision = ZeroDivisionIEEE
		}
	case ShiftLeft, ShiftRight:
		if integral {
			d.Shift = ShiftSaturate
			d.Overflow = OverflowWrap
		}
	case Round:
		if floating {
			d.Rounding = RoundingHalfEven
		}
	case Wrapping, Power, SumReduce, ProdReduce:
		if integral {
			d.Overflow = OverflowWrap
		}
	case Extremum, ExtremumReduce:
		if floating {
			d.NaN = NaNPropagate
			d.SignedZero = true
		}
	case ArgReduce:
		if floating {
			d.NaN = NaNPropagate
		}
	}
	return d
}
