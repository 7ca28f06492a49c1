// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package xp is the public array namespace: the functions of the array API
// standard (revision 2023.12) bound to a compute backend.
//
// # Overview
//
// xp validates every call before any computation happens:
//   - dtype categories are checked per operand
//   - operand dtypes are promoted through the standard's lattice
//   - shapes are broadcast NumPy-style or checked against the operation
//   - the IEEE 754 and integer-wrapping policy is attached to the call
//
// Only then does the backend run exactly one operation.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/arrayapi/backend/cpu"
//	    "github.com/born-ml/arrayapi/xp"
//	)
//
//	func main() {
//	    ns := xp.New(cpu.New())
//
//	    x, _ := ns.Ones(xp.Shape{3, 1}, xp.WithDType(xp.Int8))
//	    y, _ := ns.Ones(xp.Shape{4}, xp.WithDType(xp.Uint8))
//	    z, _ := ns.Add(x, y) // Shape (3, 4), dtype int16
//	}
//
// # Data Types
//
// Thirteen dtypes are registered: bool, int8 through int64, uint8 through
// uint64, float32, float64, complex64 and complex128. Mixed signed and
// unsigned integers promote to the next wider signed integer; int64 with
// uint64, and integers with floating dtypes, have no common type.
//
// # Host Scalars
//
// Binary functions accept host scalars (Int, Float, Bool, Complex) in
// place of either operand. A scalar adopts the dtype of the array it meets:
//
//	y, _ := ns.Multiply(x, xp.Int(2)) // keeps x's dtype
//
// # Errors
//
// Failures unwrap to one of ErrUnsupportedDType, ErrNoCommonType,
// ErrIncompatibleShapes, ErrUnsupportedQuery, ErrInvalidArgument,
// ErrScalarOverflow or ErrUnknownOp; backend failures arrive as
// *BackendError.
package xp
