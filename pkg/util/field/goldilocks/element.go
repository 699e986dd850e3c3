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
package goldilocks

import (
	"fmt"

	fr "github.com/consensys/gnark-crypto/field/goldilocks"
)

// Modulus of the Goldilocks field, 2^64 - 2^32 + 1.
const Modulus uint64 = 18446744069414584321

// Element wraps fr.Element to conform to the field.Element interface.
type Element struct {
	fr.Element
}

// New constructs an element from a given uint64, which is reduced modulo the
// field's modulus.
func New(val uint64) Element {
	return Element{fr.NewElement(val)}
}

// Zero returns the additive identity.
func Zero() Element {
	return Element{}
}

// One returns the multiplicative identity.
func One() Element {
	return Element{fr.One()}
}

// Bool returns one for true, and zero otherwise.
func Bool(b bool) Element {
	if b {
		return One()
	}
	//
	return Zero()
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res fr.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res fr.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res fr.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Neg -x
func (x Element) Neg() Element {
	var res fr.Element
	//
	res.Neg(&x.Element)
	//
	return Element{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var res fr.Element
	//
	res.Inverse(&x.Element)
	//
	return Element{res}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equal implementation for the Element interface
func (x Element) Equal(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// SetUint64 implementation for the Element interface
func (x Element) SetUint64(val uint64) Element {
	x.Element.SetUint64(val)
	//
	return x
}

// Uint64 returns the canonical value of x.
func (x Element) Uint64() uint64 {
	return x.Element.Uint64()
}

// ToUint32 returns the numerical value of x, or panics if it does not fit.
func (x Element) ToUint32() uint32 {
	i := x.Uint64()
	if i >= 1<<32 {
		panic(fmt.Errorf("cannot convert to uint32: %d", i))
	}

	return uint32(i)
}

func (x Element) String() string {
	return x.Element.String()
}

// Text implementation for the Element interface
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}
