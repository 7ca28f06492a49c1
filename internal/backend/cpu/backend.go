// Package cpu implements the pure Go reference backend.
//
// Every operation of the dispatch table has a kernel here. Kernels receive
// fully resolved calls: operands are already gated, the result dtype and
// shape are final, and broadcast plans are attached. Elementwise kernels
// split their output over goroutines with internal/parallel.
package cpu

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/parallel"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// CPUBackend executes array operations in Go on the host.
type CPUBackend struct {
	cfg    parallel.Config
	logger *slog.Logger
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel sets the worker configuration used by elementwise kernels.
func WithParallel(cfg parallel.Config) Option {
	return func(cpu *CPUBackend) { cpu.cfg = cfg }
}

// WithLogger sets the logger that records kernel results at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(cpu *CPUBackend) { cpu.logger = logger }
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		cfg:    parallel.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

type kernel func(cpu *CPUBackend, call *dispatch.Call, in []*Buffer) (*Buffer, error)

var kernels = map[string]kernel{
	"clip":  (*CPUBackend).clip,
	"where": (*CPUBackend).where,

	"all":           (*CPUBackend).reduce,
	"any":           (*CPUBackend).reduce,
	"count_nonzero": (*CPUBackend).reduce,
	"max":           (*CPUBackend).reduce,
	"mean":          (*CPUBackend).reduce,
	"min":           (*CPUBackend).reduce,
	"prod":          (*CPUBackend).reduce,
	"std":           (*CPUBackend).reduce,
	"sum":           (*CPUBackend).reduce,
	"var":           (*CPUBackend).reduce,

	"cumulative_sum": (*CPUBackend).cumulativeSum,
	"argmax":         (*CPUBackend).argExtremum,
	"argmin":         (*CPUBackend).argExtremum,
	"searchsorted":   (*CPUBackend).searchSorted,

	"astype": (*CPUBackend).asType,
	"take":   (*CPUBackend).take,
	"select": (*CPUBackend).selectIndex,

	"broadcast_to":     (*CPUBackend).broadcastTo,
	"expand_dims":      (*CPUBackend).reshape,
	"flip":             (*CPUBackend).flip,
	"matrix_transpose": (*CPUBackend).permute,
	"moveaxis":         (*CPUBackend).permute,
	"permute_dims":     (*CPUBackend).permute,
	"repeat":           (*CPUBackend).repeat,
	"reshape":          (*CPUBackend).reshape,
	"roll":             (*CPUBackend).roll,
	"squeeze":          (*CPUBackend).reshape,
	"tile":             (*CPUBackend).tile,
	"tril":             (*CPUBackend).triangle,
	"triu":             (*CPUBackend).triangle,
	"concat":           (*CPUBackend).concat,
	"stack":            (*CPUBackend).stack,

	"matmul":    (*CPUBackend).matmul,
	"tensordot": (*CPUBackend).tensordot,
	"vecdot":    (*CPUBackend).vecdot,
}

// lookupKernel returns the kernel for an operation. Elementwise operations
// share the unary and binary kernels.
func lookupKernel(op *dispatch.Op) (kernel, bool) {
	if k, ok := kernels[op.Name]; ok {
		return k, true
	}
	if op.Group != dispatch.GroupElementwise {
		return nil, false
	}
	if op.MaxArgs == 1 {
		return (*CPUBackend).unary, true
	}
	return (*CPUBackend).binary, true
}

// Execute runs one resolved operation. Operands taking part in promotion
// are converted to the call's compute dtype first.
func (cpu *CPUBackend) Execute(call *dispatch.Call) (tensor.Ref, error) {
	op, ok := dispatch.Lookup(call.Op)
	if !ok {
		return nil, fmt.Errorf("cpu: unknown operation %q", call.Op)
	}
	k, ok := lookupKernel(op)
	if !ok {
		return nil, fmt.Errorf("cpu: no kernel for %s", call.Op)
	}

	in := make([]*Buffer, len(call.Operands))
	for i, ref := range call.Operands {
		b, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		if op.Promotes(i, len(in)) {
			b = cast(b, call.Compute)
		}
		in[i] = b
	}

	out, err := k(cpu, call, in)
	if err != nil {
		return nil, err
	}
	if out.dtype != call.DType || !out.shape.Equal(call.Shape) {
		return nil, fmt.Errorf("cpu: %s produced %s, expected %s %v",
			call.Op, out, call.DType, call.Shape)
	}
	cpu.logger.Debug("kernel", "op", call.Op, "buffer", out.id)
	return out, nil
}

// Materialize creates a buffer from a fill description.
func (cpu *CPUBackend) Materialize(fill *dispatch.Fill) (tensor.Ref, error) {
	var (
		out *Buffer
		err error
	)
	switch fill.Kind {
	case dispatch.FillEmpty:
		out = alloc(fill.DType, fill.Shape)
	case dispatch.FillValue:
		out = scalarTo(fill.Value, fill.DType, fill.Shape)
	case dispatch.FillArange:
		out = arange(fill)
	case dispatch.FillLinspace:
		out = linspace(fill)
	case dispatch.FillEye:
		out, err = eye(fill)
	case dispatch.FillData:
		out, err = fromHost(fill.Data, fill.DType, fill.Shape)
	default:
		err = fmt.Errorf("cpu: unknown fill kind %s", fill.Kind)
	}
	if err != nil {
		return nil, err
	}
	cpu.logger.Debug("materialize", "fill", fill.Kind.String(), "buffer", out.id)
	return out, nil
}
