package tensor

import "fmt"

// Ref is an opaque reference to backend data. Only the backend that produced
// a Ref knows how to interpret it.
type Ref any

// Array is the immutable handle passed between operations: a binding of
// shape, dtype and backend reference.
//
// Operations never modify an Array; each returns a new handle and the inputs
// stay valid. Whether two handles share backend storage is the backend's
// private concern.
//
// Example:
//
//	ns := xp.New(cpu.New())
//	x, _ := ns.Ones(xp.Shape{3, 1}, xp.Float32)
//	y, _ := ns.Ones(xp.Shape{4}, xp.Float32)
//	z, _ := ns.Add(x, y) // Shape (3, 4), dtype float32
type Array struct {
	shape  Shape
	dtype  DataType
	ref    Ref
	device string
}

// NewArray wraps a backend reference. The dtype must be a registry member
// and the shape must be valid.
func NewArray(ref Ref, shape Shape, dtype DataType, device string) (*Array, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: dtype %d is not registered", ErrUnsupportedDType, int(dtype))
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		shape:  shape.Clone(),
		dtype:  dtype,
		ref:    ref,
		device: device,
	}, nil
}

func (*Array) operand() {}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	return a.shape.NumElements()
}

// Device returns the name of the device holding the data.
func (a *Array) Device() string {
	return a.device
}

// Ref returns the backend reference.
// Used by backend implementations for low-level operations.
func (a *Array) Ref() Ref {
	return a.ref
}

// String returns a human-readable representation of the array.
func (a *Array) String() string {
	return fmt.Sprintf("Array[%s]%v on %s", a.dtype, a.shape, a.device)
}
