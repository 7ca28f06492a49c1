package tensor

import (
	"fmt"
	"strings"
)

// Category is the numeric category of a data type.
type Category uint8

// Numeric categories.
const (
	Boolean Category = 1 << iota
	SignedInteger
	UnsignedInteger
	RealFloating
	ComplexFloating
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case Boolean:
		return "boolean"
	case SignedInteger:
		return "signed integer"
	case UnsignedInteger:
		return "unsigned integer"
	case RealFloating:
		return "real floating"
	case ComplexFloating:
		return "complex floating"
	default:
		return "unknown"
	}
}

// CategorySet is a set of categories, used by operations to declare which
// operand kinds they accept.
type CategorySet uint8

// Common category sets. The names follow the dtype kinds of the array API
// standard's isdtype.
const (
	KindBool         = CategorySet(Boolean)
	KindSigned       = CategorySet(SignedInteger)
	KindUnsigned     = CategorySet(UnsignedInteger)
	KindIntegral     = KindSigned | KindUnsigned
	KindRealFloating = CategorySet(RealFloating)
	KindComplex      = CategorySet(ComplexFloating)
	KindFloating     = KindRealFloating | KindComplex
	KindRealNumeric  = KindIntegral | KindRealFloating
	KindNumeric      = KindRealNumeric | KindComplex
	KindIntegralBool = KindIntegral | KindBool
	KindAll          = KindNumeric | KindBool
	KindNone         = CategorySet(0)
)

const categoryCount = 5

// Has reports whether c is in the set.
func (s CategorySet) Has(c Category) bool {
	return s&CategorySet(c) != 0
}

// Allows reports whether dt's category is in the set.
func (s CategorySet) Allows(dt DataType) bool {
	return dt.Valid() && s.Has(dt.Category())
}

// String lists the categories in the set.
func (s CategorySet) String() string {
	if s == KindNone {
		return "{}"
	}
	names := make([]string, 0, categoryCount)
	for i := 0; i < categoryCount; i++ {
		c := Category(1 << i)
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

var kindNames = map[string]CategorySet{
	"bool":             KindBool,
	"signed integer":   KindSigned,
	"unsigned integer": KindUnsigned,
	"integral":         KindIntegral,
	"real floating":    KindRealFloating,
	"complex floating": KindComplex,
	"numeric":          KindNumeric,
}

// ParseKind resolves a dtype kind name ("integral", "real floating", ...).
func ParseKind(name string) (CategorySet, error) {
	k, ok := kindNames[name]
	if !ok {
		return KindNone, fmt.Errorf("%w: unknown dtype kind %q", ErrInvalidArgument, name)
	}
	return k, nil
}

// IsDType reports whether dt belongs to any of the given kinds. Kinds may be
// CategorySet values, kind names, or DataType values (exact match).
func IsDType(dt DataType, kinds ...any) (bool, error) {
	for _, k := range kinds {
		switch v := k.(type) {
		case DataType:
			if v == dt {
				return true, nil
			}
		case CategorySet:
			if v.Allows(dt) {
				return true, nil
			}
		case string:
			set, err := ParseKind(v)
			if err != nil {
				return false, err
			}
			if set.Allows(dt) {
				return true, nil
			}
		default:
			return false, fmt.Errorf("%w: unsupported kind %T", ErrInvalidArgument, k)
		}
	}
	return false, nil
}

// DataTypesOf lists the registered dtypes in the given kind, in registry order.
func DataTypesOf(kind CategorySet) []DataType {
	var out []DataType
	for _, dt := range DataTypes() {
		if kind.Allows(dt) {
			out = append(out, dt)
		}
	}
	return out
}
