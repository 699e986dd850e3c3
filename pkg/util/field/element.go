// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package field

import (
	"fmt"
)

// An Element of a finite field.  Both prime fields and their extensions
// implement this interface, which allows running products and batch inversion
// to be written once for base and extension values.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Equal returns true if x = y.
	Equal(y Operand) bool
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x⁻¹, or 0 if x = 0.
	Inverse() Operand
	// Compute x - y
	Sub(y Operand) Operand
	// SetUint64 returns the field element representing the given value.
	SetUint64(uint64) Operand
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}
