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
package bitwise

import (
	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Bitwise is the chiplet which computes bitwise AND and XOR over 32-bit values.
// Each operation occupies an 8-row cycle which processes the operands four bits
// at a time, most significant bits first, such that the last row of the cycle
// holds the full operands and the result.
type Bitwise struct {
	columns [air.BITWISE_TRACE_WIDTH][]goldilocks.Element
}

// NewBitwise constructs an empty bitwise chiplet.
func NewBitwise() *Bitwise {
	return &Bitwise{}
}

// TraceLen returns the number of rows needed by this chiplet.
func (p *Bitwise) TraceLen() uint {
	return uint(len(p.columns[0]))
}

// U32And computes the bitwise AND of two values.  The operands are expected to
// be 32-bit values, and only their low 32 bits are considered.
func (p *Bitwise) U32And(a, b goldilocks.Element) goldilocks.Element {
	return p.execute(a, b, false)
}

// U32Xor computes the bitwise XOR of two values.  The operands are expected to
// be 32-bit values, and only their low 32 bits are considered.
func (p *Bitwise) U32Xor(a, b goldilocks.Element) goldilocks.Element {
	return p.execute(a, b, true)
}

// FillTrace writes the recorded rows into a given fragment.
func (p *Bitwise) FillTrace(fragment *trace.Fragment) {
	for i := range p.columns {
		copy(fragment.Column(uint(i)), p.columns[i])
	}
}

func (p *Bitwise) execute(a, b goldilocks.Element, xor bool) goldilocks.Element {
	var (
		x        = a.Uint64() & 0xffff_ffff
		y        = b.Uint64() & 0xffff_ffff
		selector = goldilocks.Bool(xor)
		prev     uint64
	)
	//
	for i := range air.BITWISE_CYCLE_LEN {
		shift := 28 - 4*i
		xAgg, yAgg := x>>shift, y>>shift
		xLimb, yLimb := xAgg&0xf, yAgg&0xf
		//
		var limb uint64
		if xor {
			limb = xLimb ^ yLimb
		} else {
			limb = xLimb & yLimb
		}
		//
		out := prev<<4 | limb
		p.appendRow(selector, xAgg, yAgg, xLimb, yLimb, prev, out)
		prev = out
	}
	//
	return goldilocks.New(prev)
}

func (p *Bitwise) appendRow(selector goldilocks.Element, a, b, aLimb, bLimb, prev, out uint64) {
	p.append(air.BITWISE_SELECTOR_COL, selector)
	p.append(air.BITWISE_A_COL, goldilocks.New(a))
	p.append(air.BITWISE_B_COL, goldilocks.New(b))
	// bit decomposition of the limbs, least significant bit first
	for j := range 4 {
		p.append(air.BITWISE_A_LIMBS_COL+j, goldilocks.New(aLimb>>j&1))
		p.append(air.BITWISE_B_LIMBS_COL+j, goldilocks.New(bLimb>>j&1))
	}
	//
	p.append(air.BITWISE_PREV_OUT_COL, goldilocks.New(prev))
	p.append(air.BITWISE_OUTPUT_COL, goldilocks.New(out))
}

func (p *Bitwise) append(col int, val goldilocks.Element) {
	p.columns[col] = append(p.columns[col], val)
}
