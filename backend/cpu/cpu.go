// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/arrayapi/internal/backend/cpu"
	"github.com/born-ml/arrayapi/internal/parallel"
	"github.com/born-ml/arrayapi/xp"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go kernels for every operation of the
// namespace.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements xp.Backend.
var _ xp.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option = internalcpu.Option

// Config controls how kernels split work over goroutines.
type Config = parallel.Config

// DefaultConfig uses one worker per CPU.
func DefaultConfig() Config { return parallel.DefaultConfig() }

// Sequential runs every kernel on the calling goroutine.
func Sequential() Config { return parallel.Sequential() }

// WithParallel sets the worker configuration.
func WithParallel(cfg Config) Option { return internalcpu.WithParallel(cfg) }

// WithLogger records kernels and buffers at debug level.
var WithLogger = internalcpu.WithLogger

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/arrayapi/backend/cpu"
//	    "github.com/born-ml/arrayapi/xp"
//	)
//
//	func main() {
//	    ns := xp.New(cpu.New())
//	    x, _ := ns.Zeros(xp.Shape{2, 3})
//	}
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}

// Data copies the elements of a CPU-backed array into a host slice. T must
// be the Go type of the array's dtype.
func Data[T xp.DType](a *xp.Array) ([]T, error) {
	return internalcpu.Data[T](a)
}

// Values returns the elements as float64 for inspection. Complex values
// contribute their real part.
func Values(a *xp.Array) ([]float64, error) {
	return internalcpu.Values(a)
}
