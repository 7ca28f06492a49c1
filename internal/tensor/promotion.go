package tensor

import "fmt"

// promotionEntries lists every legal unordered pair of distinct dtypes and
// the dtype they promote to. Pairs not listed have no common type. The
// reflexive entries (d, d) → d are implied.
//
// The table is versioned data: changing an entry changes the result dtype of
// previously written computations.
var promotionEntries = [...][3]DataType{
	// Signed integers.
	{Int8, Int16, Int16},
	{Int8, Int32, Int32},
	{Int8, Int64, Int64},
	{Int16, Int32, Int32},
	{Int16, Int64, Int64},
	{Int32, Int64, Int64},

	// Unsigned integers.
	{Uint8, Uint16, Uint16},
	{Uint8, Uint32, Uint32},
	{Uint8, Uint64, Uint64},
	{Uint16, Uint32, Uint32},
	{Uint16, Uint64, Uint64},
	{Uint32, Uint64, Uint64},

	// Mixed signed/unsigned: smallest signed kind covering both ranges.
	// No signed kind covers uint64, so uint64 never mixes with signed kinds.
	{Int8, Uint8, Int16},
	{Int16, Uint8, Int16},
	{Int32, Uint8, Int32},
	{Int64, Uint8, Int64},
	{Int8, Uint16, Int32},
	{Int16, Uint16, Int32},
	{Int32, Uint16, Int32},
	{Int64, Uint16, Int64},
	{Int8, Uint32, Int64},
	{Int16, Uint32, Int64},
	{Int32, Uint32, Int64},
	{Int64, Uint32, Int64},

	// Floating.
	{Float32, Float64, Float64},
	{Complex64, Complex128, Complex128},
	{Float32, Complex64, Complex64},
	{Float32, Complex128, Complex128},
	{Float64, Complex64, Complex128},
	{Float64, Complex128, Complex128},
}

// promotionTable is the dense symmetric form of promotionEntries.
type promotionTable struct {
	result [numDataTypes][numDataTypes]DataType
	ok     [numDataTypes][numDataTypes]bool
}

var promotion = buildPromotionTable()

func buildPromotionTable() *promotionTable {
	t := &promotionTable{}
	for d := DataType(0); d < numDataTypes; d++ {
		t.result[d][d] = d
		t.ok[d][d] = true
	}
	for _, e := range promotionEntries {
		a, b, r := e[0], e[1], e[2]
		if t.ok[a][b] {
			panic(fmt.Sprintf("duplicate promotion entry for %s, %s", a, b))
		}
		t.result[a][b], t.result[b][a] = r, r
		t.ok[a][b], t.ok[b][a] = true, true
	}
	if err := t.verify(); err != nil {
		panic(err)
	}
	return t
}

// verify checks the lattice properties the rest of the package relies on:
// commutativity, closure of results under self-promotion, and independence
// of the fold order for every triple.
func (t *promotionTable) verify() error {
	all := DataTypes()
	for _, a := range all {
		for _, b := range all {
			if t.ok[a][b] != t.ok[b][a] || t.result[a][b] != t.result[b][a] {
				return fmt.Errorf("promotion table not commutative for %s, %s", a, b)
			}
			if !t.ok[a][b] {
				continue
			}
			r := t.result[a][b]
			if !t.ok[a][r] || t.result[a][r] != r || !t.ok[b][r] || t.result[b][r] != r {
				return fmt.Errorf("promotion of %s, %s to %s is not an upper bound", a, b, r)
			}
		}
	}
	for _, a := range all {
		for _, b := range all {
			for _, c := range all {
				left, lok := t.fold(a, b, c)
				right, rok := t.fold(a, c, b)
				other, ook := t.fold(b, c, a)
				if lok != rok || lok != ook || (lok && (left != right || left != other)) {
					return fmt.Errorf("promotion of %s, %s, %s depends on fold order", a, b, c)
				}
			}
		}
	}
	return nil
}

func (t *promotionTable) fold(dts ...DataType) (DataType, bool) {
	acc := dts[0]
	for _, d := range dts[1:] {
		if !t.ok[acc][d] {
			return 0, false
		}
		acc = t.result[acc][d]
	}
	return acc, true
}

// Resolve returns the dtype two operands of dtypes a and b promote to.
func Resolve(a, b DataType) (DataType, error) {
	if !a.Valid() || !b.Valid() {
		return 0, &NoCommonTypeError{A: a, B: b}
	}
	if !promotion.ok[a][b] {
		return 0, &NoCommonTypeError{A: a, B: b}
	}
	return promotion.result[a][b], nil
}

// DTyped is anything that carries a dtype: a DataType itself or an *Array.
type DTyped interface {
	DType() DataType
}

// ResultType folds the dtypes of its arguments through Resolve from left to
// right. The table guarantees the result does not depend on the order.
func ResultType(args ...DTyped) (DataType, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: result_type requires at least one argument", ErrInvalidArgument)
	}
	acc := args[0].DType()
	if !acc.Valid() {
		return 0, &NoCommonTypeError{A: acc, B: acc}
	}
	for _, a := range args[1:] {
		r, err := Resolve(acc, a.DType())
		if err != nil {
			return 0, err
		}
		acc = r
	}
	return acc, nil
}

// ResolveAll is ResultType over plain dtypes.
func ResolveAll(dts ...DataType) (DataType, error) {
	args := make([]DTyped, len(dts))
	for i, d := range dts {
		args[i] = d
	}
	return ResultType(args...)
}

// CanCast reports whether from can be cast to to under the promotion rules,
// i.e. promoting from with to yields to.
func CanCast(from, to DataType) bool {
	r, err := Resolve(from, to)
	return err == nil && r == to
}

// PromotionEntry is one cell of the promotion table.
type PromotionEntry struct {
	A, B   DataType
	Result DataType
	OK     bool
}

// PromotionTable returns every ordered pair of the registry with its
// promotion result, in registry order.
func PromotionTable() []PromotionEntry {
	all := DataTypes()
	out := make([]PromotionEntry, 0, len(all)*len(all))
	for _, a := range all {
		for _, b := range all {
			out = append(out, PromotionEntry{A: a, B: b, Result: promotion.result[a][b], OK: promotion.ok[a][b]})
		}
	}
	return out
}
