package namespace

import (
	"fmt"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// AsType converts x to dt. The result is a new array unless Copy(false) is
// given and x already has dtype dt. Complex inputs only cast to complex
// dtypes.
func (ns *Namespace) AsType(x *tensor.Array, dt tensor.DataType, opts ...dispatch.Option) (*tensor.Array, error) {
	return ns.invoke("astype", append(opts[:len(opts):len(opts)], dispatch.WithDType(dt)), x)
}

// CanCast reports whether from (a dtype or an array) casts to to under
// the promotion rules.
func (ns *Namespace) CanCast(from tensor.DTyped, to tensor.DataType) bool {
	return tensor.CanCast(from.DType(), to)
}

// FInfo returns the machine limits of a floating dtype.
func (ns *Namespace) FInfo(t tensor.DTyped) (tensor.FloatInfo, error) {
	return tensor.FInfo(t.DType())
}

// IInfo returns the range of an integer dtype.
func (ns *Namespace) IInfo(t tensor.DTyped) (tensor.IntInfo, error) {
	return tensor.IInfo(t.DType())
}

// IsDType reports whether dt belongs to one of kinds: kind names such as
// "signed integer", CategorySet values, or dtypes.
func (ns *Namespace) IsDType(dt tensor.DataType, kinds ...any) (bool, error) {
	return tensor.IsDType(dt, kinds...)
}

// ResultType returns the dtype produced by combining its arguments.
// Arguments are dtypes, arrays or host scalars; scalars adopt the dtype the
// other arguments promote to, so at least one must not be a scalar.
func (ns *Namespace) ResultType(args ...any) (tensor.DataType, error) {
	var (
		typed   []tensor.DTyped
		scalars []tensor.Scalar
	)
	for _, a := range args {
		if t, ok := a.(tensor.DTyped); ok {
			typed = append(typed, t)
			continue
		}
		s, err := tensor.ScalarOf(a)
		if err != nil {
			return 0, fmt.Errorf("result_type: %w", err)
		}
		scalars = append(scalars, s)
	}
	if len(typed) == 0 {
		return 0, fmt.Errorf("%w: result_type needs at least one dtype or array", tensor.ErrInvalidArgument)
	}
	dt, err := tensor.ResultType(typed...)
	if err != nil {
		return 0, err
	}
	for _, s := range scalars {
		if dt, err = tensor.ResolveScalar(dt, s); err != nil {
			return 0, err
		}
	}
	return dt, nil
}
