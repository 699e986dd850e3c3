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
	"io"
	"math"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/util/termio"
)

// ColumnFilter is a predicate which determines whether a given column of the
// main trace should be included in the print out, or not.
type ColumnFilter = func(uint) bool

// Highlighter identifies rows which should be highlighted.
type Highlighter = func(uint) bool

// Printer encapsulates various configuration options useful for printing out
// traces in human-readable forms.  Each column of the trace is printed as a
// line, with one cell per row.
type Printer struct {
	// First row to print
	startRow uint
	// Last row to print
	endRow uint
	// Which columns to include
	colFilter ColumnFilter
	// Which rows to highlight
	highlighter Highlighter
	// Determine maximum width to print
	maxCellWidth uint
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	// Include all colunms by default
	emptyFilter := func(uint) bool {
		return true
	}
	// Highlight nothing by default
	emptyHighlighter := func(uint) bool {
		return false
	}
	// Return an empty printer
	return &Printer{0, math.MaxInt, emptyFilter, emptyHighlighter, math.MaxUint, true}
}

// Start configures the starting row for this printer.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End configures the ending row (inclusive) for this printer.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// Columns configures a filter which selects columns to be included in the final
// print out.
func (p *Printer) Columns(filter ColumnFilter) *Printer {
	p.colFilter = filter
	return p
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for showing colour in a terminal, etc)
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// Highlight configures a filter for rows which should be highlighted.  By
// default, no rows are highlighted.
func (p *Printer) Highlight(highlighter Highlighter) *Printer {
	p.highlighter = highlighter
	return p
}

// MaxCellWidth sets the maximum width to use for the cell data.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// Print a given main trace, along with its auxiliary columns (if any), to a
// given writer.  Cells of the chiplets table are coloured according to the
// chiplet owning their row.
func (p *Printer) Print(w io.Writer, main *MainTrace, aux [][]goldilocks.Ext) {
	var (
		start   = min(p.startRow, main.Height())
		end     = min(main.Height(), p.endRow+1)
		width   = 1 + end - start
		columns []uint
	)
	// Filter columns
	for i := range main.Width() {
		if p.colFilter(i) {
			columns = append(columns, i)
		}
	}
	// Construct table
	tp := termio.NewTablePrinter(width, uint(1+len(columns)+len(aux)))
	tp.AnsiEscapes(p.ansiEscapes)
	// Initialise row indices
	for j := start; j < end; j++ {
		tp.Set(1+j-start, 0, fmt.Sprintf("%d", j))
		tp.SetEscape(1+j-start, 0, p.rowEscape(j, termio.NewAnsiEscape().FgColour(termio.TERM_WHITE)))
	}
	// Fill main columns
	for i, col := range columns {
		tp.Set(0, uint(i+1), air.MainColumnName(col))
		//
		for row := start; row < end; row++ {
			val := main.Get(col, row)
			//
			if col == air.OPCODE_COL {
				tp.Set(1+row-start, uint(i+1), main.Opcode(row).String())
			} else {
				tp.Set(1+row-start, uint(i+1), fmt.Sprintf("0x%s", val.Text(16)))
			}
			//
			if col >= air.CHIPLETS_COL {
				tp.SetEscape(1+row-start, uint(i+1), p.rowEscape(row, chipletEscape(main.Chiplet(row))))
			} else if p.highlighter(row) {
				tp.SetEscape(1+row-start, uint(i+1), p.rowEscape(row, termio.NewAnsiEscape()))
			}
		}
	}
	// Fill auxiliary columns
	for i, column := range aux {
		ith := uint(1 + len(columns) + i)
		tp.Set(0, ith, air.AuxColumnName(uint(i)))
		//
		for row := start; row < end; row++ {
			tp.Set(1+row-start, ith, column[row].String())
		}
	}
	// Cap cells
	for j := start; j < end; j++ {
		tp.SetMaxWidth(1+j-start, p.maxCellWidth)
	}
	// Done
	tp.Write(w)
}

// Construct the escape for a cell on a given row, which is made bold when the
// row is highlighted.
func (p *Printer) rowEscape(row uint, escape termio.AnsiEscape) string {
	if p.highlighter(row) {
		escape = termio.BoldAnsiEscape().FgColour(termio.TERM_RED)
	}
	//
	return escape.Build()
}

// Each chiplet has its own colour, and padding has none.
func chipletEscape(chiplet air.Chiplet) termio.AnsiEscape {
	switch chiplet {
	case air.HASHER:
		return termio.NewAnsiEscape().FgColour(termio.TERM_BLUE)
	case air.BITWISE:
		return termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
	case air.MEMORY:
		return termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW)
	case air.KERNEL_ROM:
		return termio.NewAnsiEscape().FgColour(termio.TERM_MAGENTA)
	default:
		return termio.NewAnsiEscape().FgColour(termio.TERM_WHITE)
	}
}
