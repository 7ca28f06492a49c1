// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package xp

import (
	"github.com/born-ml/arrayapi/internal/dispatch"
	"github.com/born-ml/arrayapi/internal/tensor"
)

// Backend is the compute collaborator a Namespace forwards to. It receives
// fully resolved calls only: dtype, shape and special-value policy are
// decided before Execute runs.
//
// Implementations:
//   - backend/cpu: pure Go reference backend
//
// Example:
//
//	type tracing struct{ xp.Backend }
//
//	func (t tracing) Execute(call *xp.Call) (xp.Ref, error) {
//	    log.Println(call.Op, call.DType, call.Shape)
//	    return t.Backend.Execute(call)
//	}
type Backend = dispatch.Backend

// Call is a resolved operation as a backend receives it.
type Call = dispatch.Call

// Fill describes an array for a backend to create.
type Fill = dispatch.Fill

// Ref is an opaque reference to backend data.
type Ref = tensor.Ref
