// Package namespace implements the standardized array functions on top of
// the operation dispatcher.
//
// Every function is a thin binding: it names the operation, orders the
// operands, and turns keyword arguments into dispatch options. Gating,
// promotion, broadcasting and special values live in internal/dispatch;
// composite functions (broadcast_arrays, unstack, meshgrid) are built from
// dispatched operations.
package namespace

import (
	"math"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// APIVersion is the array API standard revision implemented here.
const APIVersion = "2023.12"

// Constants of the namespace.
const (
	E  = math.E
	Pi = math.Pi
)

// Inf and NaN are float64 special values.
var (
	Inf = math.Inf(1)
	NaN = math.NaN()
)

// Namespace is the array namespace bound to one backend.
//
// It is safe for concurrent use when its backend is.
type Namespace struct {
	d *dispatch.Dispatcher
}

// New creates a namespace executing on backend.
func New(backend dispatch.Backend, opts ...dispatch.DispatcherOption) *Namespace {
	return &Namespace{d: dispatch.New(backend, opts...)}
}

// Dispatcher returns the dispatcher behind the namespace.
func (ns *Namespace) Dispatcher() *dispatch.Dispatcher {
	return ns.d
}

// Version returns the implemented standard revision.
func (ns *Namespace) Version() string {
	return APIVersion
}

func (ns *Namespace) invoke(name string, opts []dispatch.Option, xs ...tensor.Operand) (*tensor.Array, error) {
	return ns.d.Invoke(name, xs, opts...)
}

// withDefaults puts defaults ahead of the caller's options so the caller
// can override them.
func withDefaults(opts []dispatch.Option, defaults ...dispatch.Option) []dispatch.Option {
	return append(defaults, opts...)
}

// collect applies opts to a fresh Options value.
func collect(opts []dispatch.Option) *dispatch.Options {
	o := &dispatch.Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func arraysOf(xs []*tensor.Array) []tensor.Operand {
	out := make([]tensor.Operand, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
