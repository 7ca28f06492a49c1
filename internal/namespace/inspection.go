package namespace

import "github.com/born-ml/arrayapi/internal/tensor"

// Capabilities reports the optional features of the namespace.
type Capabilities struct {
	BooleanIndexing     bool
	DataDependentShapes bool
	MaxDimensions       int // 0 means unbounded.
}

// DefaultDTypes holds the dtypes chosen when a function is not given one.
type DefaultDTypes struct {
	RealFloating    tensor.DataType
	ComplexFloating tensor.DataType
	Integral        tensor.DataType
	Indexing        tensor.DataType
}

// Inspection answers questions about the namespace and its device.
type Inspection struct {
	device string
}

// Info returns the inspection helper of the namespace.
func (ns *Namespace) Info() Inspection {
	return Inspection{device: ns.d.Backend().Name()}
}

// Capabilities returns the optional features supported.
func (i Inspection) Capabilities() Capabilities {
	return Capabilities{}
}

// DefaultDevice returns the device new arrays are created on.
func (i Inspection) DefaultDevice() string {
	return i.device
}

// Devices lists the available devices.
func (i Inspection) Devices() []string {
	return []string{i.device}
}

// DefaultDTypes returns the default dtypes.
func (i Inspection) DefaultDTypes() DefaultDTypes {
	return DefaultDTypes{
		RealFloating:    tensor.Float64,
		ComplexFloating: tensor.Complex128,
		Integral:        tensor.Int64,
		Indexing:        tensor.Int64,
	}
}

// DTypes lists the supported dtypes of the given kinds, in registry order.
// Without kinds every dtype is listed. Kinds are names such as "integral"
// or "real floating".
func (i Inspection) DTypes(kinds ...string) ([]tensor.DataType, error) {
	if len(kinds) == 0 {
		return tensor.DataTypes(), nil
	}
	var set tensor.CategorySet
	for _, k := range kinds {
		s, err := tensor.ParseKind(k)
		if err != nil {
			return nil, err
		}
		set |= s
	}
	return tensor.DataTypesOf(set), nil
}
