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
	fr "github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/goldilocks/extensions"
)

// Ext is an element of the quadratic extension of the Goldilocks field.  It is
// used for random challenges and for the values of auxiliary columns, where the
// base field alone is too small for a sound argument.
type Ext struct {
	extensions.E2
}

// NewExt constructs the extension element a0 + a1·u.
func NewExt(a0, a1 Element) Ext {
	return Ext{extensions.E2{A0: a0.Element, A1: a1.Element}}
}

// FromBase embeds a base field element into the extension field.
func FromBase(x Element) Ext {
	return Ext{extensions.E2{A0: x.Element}}
}

// ExtOne returns the multiplicative identity of the extension field.
func ExtOne() Ext {
	return Ext{extensions.E2{A0: fr.One()}}
}

// RandomExt draws a uniformly random extension element.
func RandomExt() (Ext, error) {
	var res Ext
	//
	if _, err := res.E2.SetRandom(); err != nil {
		return res, err
	}
	//
	return res, nil
}

// RandomExts draws n uniformly random extension elements.
func RandomExts(n uint) ([]Ext, error) {
	var (
		res = make([]Ext, n)
		err error
	)
	//
	for i := range res {
		if res[i], err = RandomExt(); err != nil {
			return nil, err
		}
	}
	//
	return res, nil
}

// Add x + y
func (x Ext) Add(y Ext) Ext {
	var res extensions.E2
	//
	res.Add(&x.E2, &y.E2)
	//
	return Ext{res}
}

// AddBase x + y, where y is a base field element.
func (x Ext) AddBase(y Element) Ext {
	var res = x
	//
	res.A0.Add(&x.A0, &y.Element)
	//
	return res
}

// Sub x - y
func (x Ext) Sub(y Ext) Ext {
	var res extensions.E2
	//
	res.Sub(&x.E2, &y.E2)
	//
	return Ext{res}
}

// Mul x * y
func (x Ext) Mul(y Ext) Ext {
	var res extensions.E2
	//
	res.Mul(&x.E2, &y.E2)
	//
	return Ext{res}
}

// MulBase x * y, where y is a base field element.
func (x Ext) MulBase(y Element) Ext {
	var res extensions.E2
	//
	res.MulByElement(&x.E2, &y.Element)
	//
	return Ext{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Ext) Inverse() Ext {
	var res extensions.E2
	//
	res.Inverse(&x.E2)
	//
	return Ext{res}
}

// Equal implementation for the Element interface
func (x Ext) Equal(y Ext) bool {
	return x.E2.Equal(&y.E2)
}

// IsZero implementation for the Element interface
func (x Ext) IsZero() bool {
	return x.E2.IsZero()
}

// IsOne implementation for the Element interface
func (x Ext) IsOne() bool {
	return x.E2.IsOne()
}

// SetUint64 implementation for the Element interface.  The result lies in the
// base field.
func (x Ext) SetUint64(val uint64) Ext {
	x.A0.SetUint64(val)
	x.A1.SetZero()
	//
	return x
}

// Coefficients returns the base field coefficients (a0, a1) of x = a0 + a1·u.
func (x Ext) Coefficients() (Element, Element) {
	return Element{x.A0}, Element{x.A1}
}

func (x Ext) String() string {
	return x.E2.String()
}
