package dispatch

import (
	"sort"

	"github.com/born-ml/arrayapi/internal/special"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Group is the array API function group an operation belongs to.
type Group string

// Function groups.
const (
	GroupCreation     Group = "creation"
	GroupDataTypes    Group = "data types"
	GroupElementwise  Group = "elementwise"
	GroupIndexing     Group = "indexing"
	GroupLinalg       Group = "linear algebra"
	GroupManipulation Group = "manipulation"
	GroupSearching    Group = "searching"
	GroupStatistical  Group = "statistical"
	GroupUtility      Group = "utility"
	GroupInternal     Group = "internal"
)

// Result selects how an operation derives its result dtype from the promoted
// operand dtype.
type Result uint8

// Result rules.
const (
	ResultPromoted   Result = iota // The promoted dtype.
	ResultBool                     // bool.
	ResultReal                     // Real counterpart (float32 for complex64).
	ResultIndex                    // int64.
	ResultAccumulate               // int64/uint64 for integers, else promoted; dtype keyword overrides.
	ResultCast                     // The dtype keyword.
)

// String returns the rule name used in the operation catalog.
func (r Result) String() string {
	switch r {
	case ResultPromoted:
		return "promoted"
	case ResultBool:
		return "bool"
	case ResultReal:
		return "real"
	case ResultIndex:
		return "int64"
	case ResultAccumulate:
		return "accumulate"
	case ResultCast:
		return "dtype"
	default:
		return "unknown"
	}
}

// Op is one row of the dispatch table.
type Op struct {
	Name  string
	Group Group

	// MinArgs and MaxArgs bound the operand count; MaxArgs < 0 is unbounded.
	MinArgs, MaxArgs int

	// Gates lists the categories accepted at each operand position. The last
	// entry applies to every further position.
	Gates []tensor.CategorySet

	// Scalars reports whether host scalars may stand in for operands.
	Scalars bool

	// Preserve skips promotion: the result keeps operand 0's dtype.
	Preserve bool

	// PromoteFrom and PromoteCount select the operands folded by the
	// promotion resolver. PromoteCount 0 means "through the last operand".
	PromoteFrom, PromoteCount int

	Result  Result
	Special special.Rule

	// reduction marks operations whose empty reductions follow the
	// identity rules of the special-value policy.
	reduction bool

	shape shapeRule
}

// Gate returns the categories accepted at operand position i.
func (op *Op) Gate(i int) tensor.CategorySet {
	if len(op.Gates) == 0 {
		return tensor.KindAll
	}
	if i >= len(op.Gates) {
		return op.Gates[len(op.Gates)-1]
	}
	return op.Gates[i]
}

// Promotes reports whether operand i of n takes part in promotion. The
// backend converts exactly these operands to the compute dtype.
func (op *Op) Promotes(i, n int) bool {
	if op.Preserve {
		return i == 0
	}
	end := n
	if op.PromoteCount > 0 {
		end = min(n, op.PromoteFrom+op.PromoteCount)
	}
	return i >= op.PromoteFrom && i < end
}

var registry = map[string]*Op{}

func register(ops ...*Op) {
	for _, op := range ops {
		if _, dup := registry[op.Name]; dup {
			panic("dispatch: duplicate operation " + op.Name)
		}
		if op.shape == nil {
			panic("dispatch: operation " + op.Name + " has no shape rule")
		}
		registry[op.Name] = op
	}
}

// Lookup returns the table row for an operation name.
func Lookup(name string) (*Op, bool) {
	op, ok := registry[name]
	return op, ok
}

// Ops returns every registered operation sorted by group, then name.
// Internal helper operations are omitted.
func Ops() []*Op {
	out := make([]*Op, 0, len(registry))
	for _, op := range registry {
		if op.Group == GroupInternal {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func unary(name string, gate tensor.CategorySet, result Result, rule special.Rule) *Op {
	return &Op{
		Name: name, Group: GroupElementwise, MinArgs: 1, MaxArgs: 1,
		Gates: []tensor.CategorySet{gate}, Result: result, Special: rule,
		shape: sameShape,
	}
}

func binary(name string, gate tensor.CategorySet, result Result, rule special.Rule) *Op {
	return &Op{
		Name: name, Group: GroupElementwise, MinArgs: 2, MaxArgs: 2,
		Gates: []tensor.CategorySet{gate}, Scalars: true, Result: result, Special: rule,
		shape: elementwise,
	}
}

func reduce(name string, gate tensor.CategorySet, result Result, rule special.Rule) *Op {
	return &Op{
		Name: name, Group: GroupStatistical, MinArgs: 1, MaxArgs: 1,
		Gates: []tensor.CategorySet{gate}, Result: result, Special: rule,
		reduction: true, shape: reduceAxes,
	}
}

func grouped(g Group, op *Op) *Op {
	op.Group = g
	return op
}

func layout(name string, group Group, shape shapeRule) *Op {
	return &Op{
		Name: name, Group: group, MinArgs: 1, MaxArgs: 1,
		Gates: []tensor.CategorySet{tensor.KindAll}, Preserve: true,
		shape: shape,
	}
}

func linalg(name string, shape shapeRule) *Op {
	return &Op{
		Name: name, Group: GroupLinalg, MinArgs: 2, MaxArgs: 2,
		Gates: []tensor.CategorySet{tensor.KindNumeric}, Special: special.Wrapping,
		shape: shape,
	}
}

func init() {
	var (
		numeric  = tensor.KindNumeric
		floating = tensor.KindFloating
		realNum  = tensor.KindRealNumeric
		realFlt  = tensor.KindRealFloating
		bitwise  = tensor.KindIntegralBool
		integral = tensor.KindIntegral
		boolean  = tensor.KindBool
		complexK = tensor.KindComplex
		all      = tensor.KindAll
	)

	register(
		unary("abs", numeric, ResultReal, special.Wrapping),
		unary("acos", floating, ResultPromoted, special.None),
		unary("acosh", floating, ResultPromoted, special.None),
		unary("asin", floating, ResultPromoted, special.None),
		unary("asinh", floating, ResultPromoted, special.None),
		unary("atan", floating, ResultPromoted, special.None),
		unary("atanh", floating, ResultPromoted, special.None),
		unary("bitwise_invert", bitwise, ResultPromoted, special.None),
		unary("ceil", realNum, ResultPromoted, special.None),
		unary("conj", numeric, ResultPromoted, special.None),
		unary("cos", floating, ResultPromoted, special.None),
		unary("cosh", floating, ResultPromoted, special.None),
		unary("exp", floating, ResultPromoted, special.None),
		unary("expm1", floating, ResultPromoted, special.None),
		unary("floor", realNum, ResultPromoted, special.None),
		unary("imag", complexK, ResultReal, special.None),
		unary("isfinite", numeric, ResultBool, special.None),
		unary("isinf", numeric, ResultBool, special.None),
		unary("isnan", numeric, ResultBool, special.None),
		unary("log", floating, ResultPromoted, special.None),
		unary("log1p", floating, ResultPromoted, special.None),
		unary("log2", floating, ResultPromoted, special.None),
		unary("log10", floating, ResultPromoted, special.None),
		unary("logical_not", boolean, ResultPromoted, special.None),
		unary("negative", numeric, ResultPromoted, special.Wrapping),
		unary("positive", numeric, ResultPromoted, special.None),
		unary("real", complexK, ResultReal, special.None),
		unary("reciprocal", floating, ResultPromoted, special.TrueDivide),
		unary("round", numeric, ResultPromoted, special.Round),
		unary("sign", numeric, ResultPromoted, special.None),
		unary("signbit", realFlt, ResultBool, special.None),
		unary("sin", floating, ResultPromoted, special.None),
		unary("sinh", floating, ResultPromoted, special.None),
		unary("sqrt", floating, ResultPromoted, special.None),
		unary("square", numeric, ResultPromoted, special.Wrapping),
		unary("tan", floating, ResultPromoted, special.None),
		unary("tanh", floating, ResultPromoted, special.None),
		unary("trunc", realNum, ResultPromoted, special.None),

		binary("add", numeric, ResultPromoted, special.Wrapping),
		binary("atan2", realFlt, ResultPromoted, special.None),
		binary("bitwise_and", bitwise, ResultPromoted, special.None),
		binary("bitwise_left_shift", integral, ResultPromoted, special.ShiftLeft),
		binary("bitwise_or", bitwise, ResultPromoted, special.None),
		binary("bitwise_right_shift", integral, ResultPromoted, special.ShiftRight),
		binary("bitwise_xor", bitwise, ResultPromoted, special.None),
		binary("copysign", realFlt, ResultPromoted, special.None),
		binary("divide", floating, ResultPromoted, special.TrueDivide),
		binary("equal", all, ResultBool, special.None),
		binary("floor_divide", realNum, ResultPromoted, special.FloorDivide),
		binary("greater", realNum, ResultBool, special.None),
		binary("greater_equal", realNum, ResultBool, special.None),
		binary("hypot", realFlt, ResultPromoted, special.None),
		binary("less", realNum, ResultBool, special.None),
		binary("less_equal", realNum, ResultBool, special.None),
		binary("logaddexp", realFlt, ResultPromoted, special.None),
		binary("logical_and", boolean, ResultPromoted, special.None),
		binary("logical_or", boolean, ResultPromoted, special.None),
		binary("logical_xor", boolean, ResultPromoted, special.None),
		binary("maximum", realNum, ResultPromoted, special.Extremum),
		binary("minimum", realNum, ResultPromoted, special.Extremum),
		binary("multiply", numeric, ResultPromoted, special.Wrapping),
		binary("nextafter", realFlt, ResultPromoted, special.None),
		binary("not_equal", all, ResultBool, special.None),
		binary("pow", numeric, ResultPromoted, special.Power),
		binary("remainder", realNum, ResultPromoted, special.Remainder),
		binary("subtract", numeric, ResultPromoted, special.Wrapping),

		&Op{
			Name: "clip", Group: GroupElementwise, MinArgs: 1, MaxArgs: 3,
			Gates: []tensor.CategorySet{realNum}, Scalars: true, shape: clipShape,
		},
		&Op{
			Name: "where", Group: GroupSearching, MinArgs: 3, MaxArgs: 3,
			Gates: []tensor.CategorySet{boolean, all}, Scalars: true, PromoteFrom: 1,
			shape: elementwise,
		},

		grouped(GroupUtility, reduce("all", all, ResultBool, special.AllReduce)),
		grouped(GroupUtility, reduce("any", all, ResultBool, special.AnyReduce)),
		grouped(GroupSearching, reduce("count_nonzero", all, ResultIndex, special.CountReduce)),
		reduce("max", realNum, ResultPromoted, special.ExtremumReduce),
		reduce("mean", floating, ResultPromoted, special.MeanReduce),
		reduce("min", realNum, ResultPromoted, special.ExtremumReduce),
		reduce("prod", numeric, ResultAccumulate, special.ProdReduce),
		reduce("std", realFlt, ResultPromoted, special.MeanReduce),
		reduce("sum", numeric, ResultAccumulate, special.SumReduce),
		reduce("var", realFlt, ResultPromoted, special.MeanReduce),
		&Op{
			Name: "cumulative_sum", Group: GroupStatistical, MinArgs: 1, MaxArgs: 1,
			Gates: []tensor.CategorySet{numeric}, Result: ResultAccumulate,
			Special: special.SumReduce, shape: cumulative,
		},
		&Op{
			Name: "argmax", Group: GroupSearching, MinArgs: 1, MaxArgs: 1,
			Gates: []tensor.CategorySet{realNum}, Result: ResultIndex,
			Special: special.ArgReduce, reduction: true, shape: argReduce,
		},
		&Op{
			Name: "argmin", Group: GroupSearching, MinArgs: 1, MaxArgs: 1,
			Gates: []tensor.CategorySet{realNum}, Result: ResultIndex,
			Special: special.ArgReduce, reduction: true, shape: argReduce,
		},
		&Op{
			Name: "searchsorted", Group: GroupSearching, MinArgs: 2, MaxArgs: 3,
			Gates:   []tensor.CategorySet{realNum, realNum, integral},
			Result:  ResultIndex,
			Special: special.None, PromoteCount: 2, shape: searchSorted,
		},

		&Op{
			Name: "astype", Group: GroupDataTypes, MinArgs: 1, MaxArgs: 1,
			Gates: []tensor.CategorySet{all}, Preserve: true, Result: ResultCast,
			shape: asType,
		},

		&Op{
			Name: "take", Group: GroupIndexing, MinArgs: 2, MaxArgs: 2,
			Gates: []tensor.CategorySet{all, integral}, PromoteCount: 1,
			shape: take,
		},

		layout("broadcast_to", GroupManipulation, broadcastTo),
		layout("expand_dims", GroupManipulation, expandDims),
		layout("flip", GroupManipulation, flip),
		layout("moveaxis", GroupManipulation, moveAxis),
		layout("permute_dims", GroupManipulation, permuteDims),
		layout("repeat", GroupManipulation, repeat),
		layout("reshape", GroupManipulation, reshape),
		layout("roll", GroupManipulation, roll),
		layout("squeeze", GroupManipulation, squeeze),
		layout("tile", GroupManipulation, tile),
		layout("matrix_transpose", GroupLinalg, matrixTranspose),
		layout("tril", GroupCreation, triangle),
		layout("triu", GroupCreation, triangle),
		layout("select", GroupInternal, selectIndex),
		&Op{
			Name: "concat", Group: GroupManipulation, MinArgs: 1, MaxArgs: -1,
			Gates: []tensor.CategorySet{all}, shape: concat,
		},
		&Op{
			Name: "stack", Group: GroupManipulation, MinArgs: 1, MaxArgs: -1,
			Gates: []tensor.CategorySet{all}, shape: stack,
		},

		linalg("matmul", matmul),
		linalg("tensordot", tensordot),
		linalg("vecdot", vecdot),
	)
}
