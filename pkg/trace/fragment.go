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
package trace

import (
	"fmt"

	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Fragment is a column-major view onto a rectangular window of a larger table.
// Each column of a fragment is a contiguous slice of some physical column, and
// all columns have the same height.  A chiplet fills its own trace into a
// fragment without knowing where its columns end up in the final table.
type Fragment struct {
	columns [][]goldilocks.Element
	height  uint
}

// NewFragment constructs an empty fragment of a given height, to which columns
// are subsequently attached.
func NewFragment(height uint) *Fragment {
	return &Fragment{nil, height}
}

// Attach a window of a physical column to this fragment.  The window must match
// the fragment's height exactly.
func (p *Fragment) Attach(window []goldilocks.Element) {
	if uint(len(window)) != p.height {
		panic(fmt.Sprintf("fragment window has %d rows (expected %d)", len(window), p.height))
	}
	//
	p.columns = append(p.columns, window)
}

// Width returns the number of columns in this fragment.
func (p *Fragment) Width() uint {
	return uint(len(p.columns))
}

// Height returns the number of rows in this fragment.
func (p *Fragment) Height() uint {
	return p.height
}

// Get the value of a given cell in this fragment.
func (p *Fragment) Get(row uint, col uint) goldilocks.Element {
	return p.columns[col][row]
}

// Set the value of a given cell in this fragment.
func (p *Fragment) Set(row uint, col uint, val goldilocks.Element) {
	p.columns[col][row] = val
}

// Column returns the underlying window of a given column, which can be used to
// fill the column directly.
func (p *Fragment) Column(col uint) []goldilocks.Element {
	return p.columns[col]
}
