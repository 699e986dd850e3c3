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
	"math/rand"
	"testing"

	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

func init() {
	// make sure the interface is adhered to.
	_ = Element[goldilocks.Element](goldilocks.Element{})
	_ = Element[goldilocks.Ext](goldilocks.Ext{})
}

func TestBatchInvert(t *testing.T) {
	s := make([]goldilocks.Element, 400)
	sInv := make([]goldilocks.Element, len(s))
	scratch := make([]goldilocks.Element, len(s))

	for i := range s {
		// getting a zero with considerable probability
		if rand.Intn(8) != 0 {
			s[i] = goldilocks.New(rand.Uint64())
		}

		sInv[i] = s[i].Inverse()

		copy(scratch[:i], s)
		BatchInvert(scratch[:i])

		for j := range i {
			assert.Equal(t, sInv[j], scratch[j], "on slice %v, at index %d", s[:i], j)
		}
	}
}

func TestBatchInvertExt(t *testing.T) {
	s, err := goldilocks.RandomExts(64)
	if err != nil {
		t.Fatal(err)
	}
	// one zero in the middle
	s[17] = goldilocks.Ext{}
	//
	inv := make([]goldilocks.Ext, len(s))
	copy(inv, s)
	BatchInvert(inv)
	//
	for i := range s {
		if i == 17 {
			assert.Equal(t, true, inv[i].IsZero())
		} else {
			assert.Equal(t, true, s[i].Mul(inv[i]).IsOne(), "at index %d", i)
		}
	}
}

func TestRunningProduct(t *testing.T) {
	s := []goldilocks.Element{goldilocks.New(2), goldilocks.New(3), goldilocks.New(5), goldilocks.New(7)}
	p := RunningProduct(s)
	//
	assert.Equal(t, uint64(2), p[0].Uint64())
	assert.Equal(t, uint64(6), p[1].Uint64())
	assert.Equal(t, uint64(30), p[2].Uint64())
	assert.Equal(t, uint64(210), p[3].Uint64())
	assert.Equal(t, true, Product[goldilocks.Element]().IsOne())
}
