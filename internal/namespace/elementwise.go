package namespace

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

func (ns *Namespace) unary(name string, x *tensor.Array) (*tensor.Array, error) {
	return ns.invoke(name, nil, x)
}

func (ns *Namespace) binary(name string, x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.invoke(name, nil, x1, x2)
}

// Abs returns the absolute value of each element. Complex inputs yield
// their magnitude in the matching real dtype; the most negative integer
// wraps to itself.
func (ns *Namespace) Abs(x *tensor.Array) (*tensor.Array, error) { return ns.unary("abs", x) }

// Acos returns the principal inverse cosine.
func (ns *Namespace) Acos(x *tensor.Array) (*tensor.Array, error) { return ns.unary("acos", x) }

// Acosh returns the inverse hyperbolic cosine.
func (ns *Namespace) Acosh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("acosh", x) }

// Asin returns the principal inverse sine.
func (ns *Namespace) Asin(x *tensor.Array) (*tensor.Array, error) { return ns.unary("asin", x) }

// Asinh returns the inverse hyperbolic sine.
func (ns *Namespace) Asinh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("asinh", x) }

// Atan returns the principal inverse tangent.
func (ns *Namespace) Atan(x *tensor.Array) (*tensor.Array, error) { return ns.unary("atan", x) }

// Atanh returns the inverse hyperbolic tangent.
func (ns *Namespace) Atanh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("atanh", x) }

// BitwiseInvert flips every bit of integer and boolean elements.
func (ns *Namespace) BitwiseInvert(x *tensor.Array) (*tensor.Array, error) { return ns.unary("bitwise_invert", x) }

// Ceil rounds toward positive infinity. Integer inputs are returned unchanged.
func (ns *Namespace) Ceil(x *tensor.Array) (*tensor.Array, error) { return ns.unary("ceil", x) }

// Conj returns the complex conjugate; real inputs are unchanged.
func (ns *Namespace) Conj(x *tensor.Array) (*tensor.Array, error) { return ns.unary("conj", x) }

// Cos computes the cosine of each element.
func (ns *Namespace) Cos(x *tensor.Array) (*tensor.Array, error) { return ns.unary("cos", x) }

// Cosh computes the hyperbolic cosine of each element.
func (ns *Namespace) Cosh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("cosh", x) }

// Exp computes e raised to each element.
func (ns *Namespace) Exp(x *tensor.Array) (*tensor.Array, error) { return ns.unary("exp", x) }

// Expm1 computes exp(x)-1 accurately near zero.
func (ns *Namespace) Expm1(x *tensor.Array) (*tensor.Array, error) { return ns.unary("expm1", x) }

// Floor rounds toward negative infinity.
func (ns *Namespace) Floor(x *tensor.Array) (*tensor.Array, error) { return ns.unary("floor", x) }

// Imag returns the imaginary component of complex elements.
func (ns *Namespace) Imag(x *tensor.Array) (*tensor.Array, error) { return ns.unary("imag", x) }

// IsFinite tests each element for being neither infinite nor NaN.
func (ns *Namespace) IsFinite(x *tensor.Array) (*tensor.Array, error) { return ns.unary("isfinite", x) }

// IsInf tests each element for positive or negative infinity.
func (ns *Namespace) IsInf(x *tensor.Array) (*tensor.Array, error) { return ns.unary("isinf", x) }

// IsNaN tests each element for NaN. A complex element is NaN when
// either component is.
func (ns *Namespace) IsNaN(x *tensor.Array) (*tensor.Array, error) { return ns.unary("isnan", x) }

// Log computes the natural logarithm of each element.
func (ns *Namespace) Log(x *tensor.Array) (*tensor.Array, error) { return ns.unary("log", x) }

// Log1p computes log(1+x) accurately near zero.
func (ns *Namespace) Log1p(x *tensor.Array) (*tensor.Array, error) { return ns.unary("log1p", x) }

// Log2 computes the base-2 logarithm of each element.
func (ns *Namespace) Log2(x *tensor.Array) (*tensor.Array, error) { return ns.unary("log2", x) }

// Log10 computes the base-10 logarithm of each element.
func (ns *Namespace) Log10(x *tensor.Array) (*tensor.Array, error) { return ns.unary("log10", x) }

// LogicalNot negates each boolean element.
func (ns *Namespace) LogicalNot(x *tensor.Array) (*tensor.Array, error) { return ns.unary("logical_not", x) }

// Negative negates each element; integer overflow wraps.
func (ns *Namespace) Negative(x *tensor.Array) (*tensor.Array, error) { return ns.unary("negative", x) }

// Positive returns a copy of x.
func (ns *Namespace) Positive(x *tensor.Array) (*tensor.Array, error) { return ns.unary("positive", x) }

// Real returns the real component of complex elements.
func (ns *Namespace) Real(x *tensor.Array) (*tensor.Array, error) { return ns.unary("real", x) }

// Reciprocal returns 1/x under IEEE 754 division.
func (ns *Namespace) Reciprocal(x *tensor.Array) (*tensor.Array, error) { return ns.unary("reciprocal", x) }

// Round rounds to the nearest integer, ties to even.
func (ns *Namespace) Round(x *tensor.Array) (*tensor.Array, error) { return ns.unary("round", x) }

// Sign returns -1, 0 or 1 by the sign of each element (x/|x| for complex).
func (ns *Namespace) Sign(x *tensor.Array) (*tensor.Array, error) { return ns.unary("sign", x) }

// Signbit reports whether the sign bit is set, including for -0 and NaN.
func (ns *Namespace) Signbit(x *tensor.Array) (*tensor.Array, error) { return ns.unary("signbit", x) }

// Sin computes the sine of each element.
func (ns *Namespace) Sin(x *tensor.Array) (*tensor.Array, error) { return ns.unary("sin", x) }

// Sinh computes the hyperbolic sine of each element.
func (ns *Namespace) Sinh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("sinh", x) }

// Sqrt computes the principal square root of each element.
func (ns *Namespace) Sqrt(x *tensor.Array) (*tensor.Array, error) { return ns.unary("sqrt", x) }

// Square multiplies each element by itself.
func (ns *Namespace) Square(x *tensor.Array) (*tensor.Array, error) { return ns.unary("square", x) }

// Tan computes the tangent of each element.
func (ns *Namespace) Tan(x *tensor.Array) (*tensor.Array, error) { return ns.unary("tan", x) }

// Tanh computes the hyperbolic tangent of each element.
func (ns *Namespace) Tanh(x *tensor.Array) (*tensor.Array, error) { return ns.unary("tanh", x) }

// Trunc rounds toward zero.
func (ns *Namespace) Trunc(x *tensor.Array) (*tensor.Array, error) { return ns.unary("trunc", x) }

// Binary functions accept an *Array or a Scalar for either operand; at
// least one must be an array.

// Add sums x1 and x2 elementwise with broadcasting. Integer overflow
// wraps at the result width.
func (ns *Namespace) Add(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("add", x1, x2)
}

// Atan2 returns the quadrant-aware inverse tangent of x1/x2.
func (ns *Namespace) Atan2(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("atan2", x1, x2)
}

// BitwiseAnd computes x1 & x2.
func (ns *Namespace) BitwiseAnd(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("bitwise_and", x1, x2)
}

// BitwiseLeftShift shifts x1 left by x2 bits. Shifting by the dtype
// width or more, or by a negative amount, yields 0.
func (ns *Namespace) BitwiseLeftShift(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("bitwise_left_shift", x1, x2)
}

// BitwiseOr computes x1 | x2.
func (ns *Namespace) BitwiseOr(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("bitwise_or", x1, x2)
}

// BitwiseRightShift shifts x1 right by x2 bits, arithmetically for
// signed dtypes. Out-of-range amounts yield 0, or -1 for negative x1.
func (ns *Namespace) BitwiseRightShift(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("bitwise_right_shift", x1, x2)
}

// BitwiseXor computes x1 ^ x2.
func (ns *Namespace) BitwiseXor(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("bitwise_xor", x1, x2)
}

// Copysign returns |x1| with the sign of x2.
func (ns *Namespace) Copysign(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("copysign", x1, x2)
}

// Divide performs true division. Division by zero follows IEEE 754:
// x/±0 is ±Inf by sign and 0/0 is NaN.
func (ns *Namespace) Divide(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("divide", x1, x2)
}

// Equal reports x1 == x2 elementwise.
func (ns *Namespace) Equal(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("equal", x1, x2)
}

// FloorDivide rounds the quotient toward negative infinity. Integer
// division by zero yields 0.
func (ns *Namespace) FloorDivide(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("floor_divide", x1, x2)
}

// Greater reports x1 > x2 elementwise.
func (ns *Namespace) Greater(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("greater", x1, x2)
}

// GreaterEqual reports x1 >= x2 elementwise.
func (ns *Namespace) GreaterEqual(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("greater_equal", x1, x2)
}

// Hypot returns sqrt(x1²+x2²) without undue overflow.
func (ns *Namespace) Hypot(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("hypot", x1, x2)
}

// Less reports x1 < x2 elementwise.
func (ns *Namespace) Less(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("less", x1, x2)
}

// LessEqual reports x1 <= x2 elementwise.
func (ns *Namespace) LessEqual(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("less_equal", x1, x2)
}

// LogAddExp returns log(exp(x1)+exp(x2)).
func (ns *Namespace) LogAddExp(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("logaddexp", x1, x2)
}

// LogicalAnd computes the logical AND of boolean operands.
func (ns *Namespace) LogicalAnd(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("logical_and", x1, x2)
}

// LogicalOr computes the logical OR of boolean operands.
func (ns *Namespace) LogicalOr(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("logical_or", x1, x2)
}

// LogicalXor computes the logical XOR of boolean operands.
func (ns *Namespace) LogicalXor(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("logical_xor", x1, x2)
}

// Maximum returns the larger element; NaN propagates and +0 beats -0.
func (ns *Namespace) Maximum(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("maximum", x1, x2)
}

// Minimum returns the smaller element; NaN propagates and -0 beats +0.
func (ns *Namespace) Minimum(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("minimum", x1, x2)
}

// Multiply computes x1 * x2.
func (ns *Namespace) Multiply(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("multiply", x1, x2)
}

// NextAfter returns the next representable value after x1 toward x2.
func (ns *Namespace) NextAfter(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("nextafter", x1, x2)
}

// NotEqual reports x1 != x2 elementwise.
func (ns *Namespace) NotEqual(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("not_equal", x1, x2)
}

// Pow raises x1 to x2. For integers a negative exponent yields 0
// except for bases 1 and -1.
func (ns *Namespace) Pow(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("pow", x1, x2)
}

// Remainder returns x1 - floor(x1/x2)*x2, taking the sign of x2.
// Integer remainder by zero yields 0.
func (ns *Namespace) Remainder(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("remainder", x1, x2)
}

// Subtract computes x1 - x2.
func (ns *Namespace) Subtract(x1, x2 tensor.Operand) (*tensor.Array, error) {
	return ns.binary("subtract", x1, x2)
}

// Clip limits x to [min, max]. Either bound may be nil. Bounds must
// broadcast to the shape of x and x keeps its dtype.
func (ns *Namespace) Clip(x *tensor.Array, min, max tensor.Operand) (*tensor.Array, error) {
	xs := []tensor.Operand{x}
	if min != nil {
		xs = append(xs, min)
	}
	if max != nil {
		xs = append(xs, max)
	}
	return ns.d.Invoke("clip", xs, dispatch.Bounds(min != nil, max != nil))
}
