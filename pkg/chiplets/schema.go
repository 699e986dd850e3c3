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
package chiplets

import (
	"fmt"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Owner identifies who writes a window of a column in the chiplets table.  The
// first NUM_CHIPLETS values identify a chiplet.
type Owner uint8

const (
	// SELECTOR_OWNER marks a window written by the composer with the unary
	// selector pattern of its segment.
	SELECTOR_OWNER = Owner(air.NUM_CHIPLETS)
	// NO_OWNER marks a window which nobody writes, and hence remains zero.
	NO_OWNER = SELECTOR_OWNER + 1
)

// Chiplet returns the chiplet identified by this owner, if any.
func (o Owner) Chiplet() (air.Chiplet, bool) {
	return air.Chiplet(o), o < SELECTOR_OWNER
}

func (o Owner) String() string {
	switch o {
	case SELECTOR_OWNER:
		return "selector"
	case NO_OWNER:
		return "none"
	default:
		return air.Chiplet(o).String()
	}
}

// Window is a run of consecutive rows of a column with a single owner.
type Window struct {
	Owner Owner
	Rows  uint
}

// Schema describes how the rows of every column of the chiplets table are
// partitioned between owners.  Every column is split into the same five
// segments (one per chiplet, then padding), and within each segment a column
// is either a selector, part of the segment chiplet's own trace, or unused.
type Schema struct {
	// Number of rows in each segment, with padding last.
	segments [air.NUM_CHIPLETS + 1]uint
	// Windows of each column, in row order.
	columns [air.CHIPLETS_WIDTH][]Window
}

// NewSchema constructs the schema for given chiplet trace lengths and a given
// overall table height.  Every row beyond the chiplets is padding.
func NewSchema(lengths [air.NUM_CHIPLETS]uint, height uint) *Schema {
	var schema Schema
	//
	used := uint(0)
	//
	for i, n := range lengths {
		schema.segments[i] = n
		used += n
	}
	//
	if used >= height {
		panic(fmt.Sprintf("chiplets need %d rows plus padding (table has %d)", used, height))
	}
	//
	schema.segments[air.NUM_CHIPLETS] = height - used
	//
	for col := range uint(air.CHIPLETS_WIDTH) {
		owned := false
		//
		for seg, rows := range schema.segments {
			owner := segmentOwner(col, uint(seg))
			owned = owned || owner != NO_OWNER
			schema.columns[col] = append(schema.columns[col], Window{owner, rows})
		}
		//
		if !owned {
			panic(fmt.Sprintf("chiplets column %d has no owner", col))
		}
	}
	//
	return &schema
}

// Windows returns the windows of a given column in row order.
func (p *Schema) Windows(col uint) []Window {
	return p.columns[col]
}

// SegmentStart returns the first row of a given segment.
func (p *Schema) SegmentStart(seg uint) uint {
	var start uint
	//
	for i := range seg {
		start += p.segments[i]
	}
	//
	return start
}

// Owner returns the owner of a given cell.
func (p *Schema) Owner(col uint, row uint) Owner {
	for _, w := range p.columns[col] {
		if row < w.Rows {
			return w.Owner
		}
		//
		row -= w.Rows
	}
	//
	panic(fmt.Sprintf("row %d out of bounds", row))
}

// Fragments splits a given set of columns into one fragment per chiplet,
// according to this schema.
func (p *Schema) Fragments(columns [][]goldilocks.Element) [air.NUM_CHIPLETS]*trace.Fragment {
	var fragments [air.NUM_CHIPLETS]*trace.Fragment
	//
	for i := range fragments {
		fragments[i] = trace.NewFragment(p.segments[i])
	}
	//
	for col, windows := range p.columns {
		var offset uint
		//
		for _, w := range windows {
			if chiplet, ok := w.Owner.Chiplet(); ok {
				fragments[chiplet].Attach(columns[col][offset : offset+w.Rows])
			}
			//
			offset += w.Rows
		}
	}
	// Sanity check
	for i, f := range fragments {
		if f.Width() != air.Chiplet(i).Width() {
			panic(fmt.Sprintf("%s fragment has %d columns (expected %d)", air.Chiplet(i), f.Width(),
				air.Chiplet(i).Width()))
		}
	}
	//
	return fragments
}

// FillSelectors writes the unary selector pattern of every segment into the
// windows owned by the selectors.  Within segment k, the selector columns
// before k hold one and selector column k holds zero.
func (p *Schema) FillSelectors(columns [][]goldilocks.Element) {
	one := goldilocks.One()
	//
	for col, windows := range p.columns {
		var offset uint
		//
		for seg, w := range windows {
			if w.Owner == SELECTOR_OWNER && uint(col) < uint(seg) {
				for row := offset; row < offset+w.Rows; row++ {
					columns[col][row] = one
				}
			}
			//
			offset += w.Rows
		}
	}
}

// Determine the owner of a column within a given segment.
func segmentOwner(col uint, seg uint) Owner {
	switch {
	case seg == uint(air.NUM_CHIPLETS) && col < air.NUM_CHIPLET_SELECTORS:
		return SELECTOR_OWNER
	case seg == uint(air.NUM_CHIPLETS):
		return NO_OWNER
	case col <= seg:
		return SELECTOR_OWNER
	case col < air.Chiplet(seg).FirstColumn()+air.Chiplet(seg).Width():
		return Owner(seg)
	default:
		return NO_OWNER
	}
}
