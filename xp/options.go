// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package xp

import "github.com/born-ml/arrayapi/internal/dispatch"

// Option sets a keyword argument of a namespace function. Options that do
// not apply to a function are ignored.
type Option = dispatch.Option

// Axis selects the axes a function applies to. Negative axes count from
// the end.
//
// Example:
//
//	s, _ := ns.Sum(x, xp.Axis(0, -1), xp.Keepdims())
func Axis(axes ...int) Option { return dispatch.Axis(axes...) }

// AllAxes selects every axis; for Concat it joins the flattened arrays.
func AllAxes() Option { return dispatch.AllAxes() }

// Keepdims keeps reduced axes as size-1 dimensions.
func Keepdims() Option { return dispatch.Keepdims() }

// WithDType sets the dtype of created arrays or the accumulation dtype of
// sum, prod and cumulative_sum.
func WithDType(dt DataType) Option { return dispatch.WithDType(dt) }

// Correction sets the degrees-of-freedom correction of Var and Std.
func Correction(c float64) Option { return dispatch.Correction(c) }

// IncludeInitial makes CumulativeSum start with zero.
func IncludeInitial() Option { return dispatch.IncludeInitial() }

// Copy sets the copy keyword of AsType, AsArray and Reshape.
func Copy(copy bool) Option { return dispatch.Copy(copy) }

// Side is "left" (default) or "right" for SearchSorted.
func Side(side string) Option { return dispatch.Side(side) }

// Diagonal sets the diagonal offset of Eye, Tril and Triu.
func Diagonal(k int) Option { return dispatch.Diagonal(k) }

// WithShape shapes the flat host data given to AsArray.
func WithShape(shape ...int) Option { return dispatch.Shape(shape...) }

// Endpoint sets whether Linspace includes stop.
func Endpoint(include bool) Option { return dispatch.Endpoint(include) }

// Contract pairs the axes TensorDot contracts.
func Contract(a, b []int) Option { return dispatch.Contract(a, b) }

// ContractCount contracts the last n axes of x1 with the first n of x2.
func ContractCount(n int) Option { return dispatch.ContractCount(n) }
