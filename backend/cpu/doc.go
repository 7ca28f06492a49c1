// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference backend for the xp namespace.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - All thirteen dtypes, stored per category and wrapped or rounded to
//     the dtype width after every kernel
//   - NumPy-compatible broadcasting through the dispatcher's plans
//   - Elementwise and matrix kernels split over goroutines
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/arrayapi/backend/cpu"
//	    "github.com/born-ml/arrayapi/xp"
//	)
//
//	func main() {
//	    ns := xp.New(cpu.New(cpu.WithParallel(cpu.Sequential())))
//
//	    x, _ := ns.Arange(6, nil, nil, xp.WithDType(xp.Float32))
//	    y, _ := ns.Reshape(x, xp.Shape{2, 3})
//	    s, _ := ns.Sum(y, xp.Axis(1))
//
//	    values, _ := cpu.Data[float32](s) // [3 12]
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Buffers are never modified
// after a kernel returns them.
package cpu
