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
package hasher

import (
	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Trace records the execution of the hasher, one row per round.  The columns
// are, in order, the three selectors, the twelve state elements and the Merkle
// node index.
type Trace struct {
	columns [air.HASHER_TRACE_WIDTH][]goldilocks.Element
}

// Len returns the number of rows in this trace.
func (p *Trace) Len() uint {
	return uint(len(p.columns[0]))
}

// Get the value of a given cell.
func (p *Trace) Get(row uint, col uint) goldilocks.Element {
	return p.columns[col][row]
}

// Append the rows of a single permutation of a given state, which is updated in
// place.  The first seven rows carry the initial selectors, and the last row the
// final selectors.  The node index is held on the first row, and shifted by one
// on all remaining rows.
func (p *Trace) appendPermutation(state *State, init air.Selectors, final air.Selectors, index uint64) {
	p.appendRow(init, state, index)
	//
	for i := range uint(air.NUM_ROUNDS) {
		ApplyRound(state, i)
		//
		if i == air.NUM_ROUNDS-1 {
			p.appendRow(final, state, index>>1)
		} else {
			p.appendRow(init, state, index>>1)
		}
	}
}

func (p *Trace) appendRow(selectors air.Selectors, state *State, index uint64) {
	for i, s := range selectors {
		p.columns[i] = append(p.columns[i], goldilocks.New(s))
	}
	//
	for i, e := range state {
		p.columns[air.NUM_SELECTORS+i] = append(p.columns[air.NUM_SELECTORS+i], e)
	}
	//
	p.columns[air.HASHER_TRACE_WIDTH-1] = append(p.columns[air.HASHER_TRACE_WIDTH-1], goldilocks.New(index))
}

// Fill a given fragment with the contents of this trace.
func (p *Trace) Fill(fragment *trace.Fragment) {
	for i := range p.columns {
		copy(fragment.Column(uint(i)), p.columns[i])
	}
}
