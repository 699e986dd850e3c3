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

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/vm"
)

// MainTrace is the finished execution trace, consisting of the system, decoder
// and stack columns of the main VM followed by the chiplets table.  It provides
// the row accessors needed to build the chiplet buses.
type MainTrace struct {
	columns [][]goldilocks.Element
}

// NewMainTrace constructs a main trace from a given set of columns, which must
// all have the same height.
func NewMainTrace(columns [][]goldilocks.Element) *MainTrace {
	if len(columns) != air.MAIN_TRACE_WIDTH {
		panic(fmt.Sprintf("main trace has %d columns (expected %d)", len(columns), air.MAIN_TRACE_WIDTH))
	}
	//
	for i, col := range columns {
		if len(col) != len(columns[0]) {
			panic(fmt.Sprintf("column %s has %d rows (expected %d)", air.MainColumnName(uint(i)), len(col),
				len(columns[0])))
		}
	}
	//
	return &MainTrace{columns}
}

// Width returns the number of columns in this trace.
func (p *MainTrace) Width() uint {
	return uint(len(p.columns))
}

// Height returns the number of rows in this trace.
func (p *MainTrace) Height() uint {
	return uint(len(p.columns[0]))
}

// Column returns the data of a given column.
func (p *MainTrace) Column(col uint) []goldilocks.Element {
	return p.columns[col]
}

// Get the value of a given cell.
func (p *MainTrace) Get(col uint, row uint) goldilocks.Element {
	return p.columns[col][row]
}

// Set the value of a given cell.  This is only useful for constructing
// malformed traces.
func (p *MainTrace) Set(col uint, row uint, val goldilocks.Element) {
	p.columns[col][row] = val
}

// Clone returns a deep copy of this trace.
func (p *MainTrace) Clone() *MainTrace {
	columns := make([][]goldilocks.Element, len(p.columns))
	//
	for i, col := range p.columns {
		columns[i] = make([]goldilocks.Element, len(col))
		copy(columns[i], col)
	}
	//
	return &MainTrace{columns}
}

// ============================================================================
// System, decoder and stack
// ============================================================================

// Clk returns the clock cycle of a given row.
func (p *MainTrace) Clk(row uint) goldilocks.Element {
	return p.columns[air.CLK_COL][row]
}

// Ctx returns the execution context of a given row.
func (p *MainTrace) Ctx(row uint) goldilocks.Element {
	return p.columns[air.CTX_COL][row]
}

// Addr returns the decoder's block address of a given row.
func (p *MainTrace) Addr(row uint) goldilocks.Element {
	return p.columns[air.ADDR_COL][row]
}

// Opcode returns the operation executed at a given row.
func (p *MainTrace) Opcode(row uint) vm.Opcode {
	return vm.Opcode(p.columns[air.OPCODE_COL][row].Uint64())
}

// DecoderHasher returns the ith element of the decoder's hasher state at a
// given row.
func (p *MainTrace) DecoderHasher(row uint, i uint) goldilocks.Element {
	return p.columns[air.DECODER_HASHER_COL+i][row]
}

// Helper returns the ith helper register at a given row.
func (p *MainTrace) Helper(row uint, i uint) goldilocks.Element {
	return p.columns[air.HELPER_COL+i][row]
}

// Stack returns the ith element of the operand stack (from the top) at a given
// row.
func (p *MainTrace) Stack(row uint, i uint) goldilocks.Element {
	return p.columns[air.STACK_COL+i][row]
}

// ============================================================================
// Chiplets
// ============================================================================

// ChipletSelector returns the ith selector column of the chiplets table at a
// given row.
func (p *MainTrace) ChipletSelector(row uint, i uint) goldilocks.Element {
	return p.columns[air.CHIPLETS_COL+i][row]
}

// Chiplet returns the chiplet owning a given row, or NUM_CHIPLETS for padding
// rows.  Ownership is determined by the first zero selector.
func (p *MainTrace) Chiplet(row uint) air.Chiplet {
	for i := range air.NUM_CHIPLET_SELECTORS {
		if p.ChipletSelector(row, uint(i)).IsZero() {
			return air.Chiplet(i)
		}
	}
	//
	return air.NUM_CHIPLETS
}

// HasherSelectors returns the three hasher selectors at a given row.
func (p *MainTrace) HasherSelectors(row uint) air.Selectors {
	var sel air.Selectors
	//
	for i := range sel {
		sel[i] = p.columns[air.CHIPLETS_COL+air.HASHER_SELECTOR_COL+i][row].Uint64()
	}
	//
	return sel
}

// HasherState returns the ith element of the hasher state at a given row.
func (p *MainTrace) HasherState(row uint, i uint) goldilocks.Element {
	return p.columns[air.CHIPLETS_COL+air.HASHER_STATE_COL+i][row]
}

// NodeIndex returns the Merkle node index held by the hasher at a given row.
func (p *MainTrace) NodeIndex(row uint) goldilocks.Element {
	return p.columns[air.CHIPLETS_COL+air.HASHER_NODE_INDEX_COL][row]
}

// ChipletColumn returns the ith column of the given chiplet's own trace at a
// given row.
func (p *MainTrace) ChipletColumn(chiplet air.Chiplet, row uint, i uint) goldilocks.Element {
	return p.columns[air.CHIPLETS_COL+chiplet.FirstColumn()+i][row]
}

// IsKernelRomRow determines whether a given row belongs to the kernel ROM.
func (p *MainTrace) IsKernelRomRow(row uint) bool {
	return row < p.Height() && p.Chiplet(row) == air.KERNEL_ROM
}

// IsKernelAddrChange determines whether a given kernel ROM row is the last row
// of its procedure, meaning the next row either belongs to another procedure
// or lies outside the kernel ROM.
func (p *MainTrace) IsKernelAddrChange(row uint) bool {
	if !p.IsKernelRomRow(row) {
		return false
	} else if !p.IsKernelRomRow(row + 1) {
		return true
	}
	//
	addr := p.ChipletColumn(air.KERNEL_ROM, row, air.KERNEL_ROM_ADDR_COL)
	next := p.ChipletColumn(air.KERNEL_ROM, row+1, air.KERNEL_ROM_ADDR_COL)
	//
	return !addr.Equal(next)
}

// ============================================================================
// Hasher flags
// ============================================================================

func (p *MainTrace) hasherFlag(row uint, cycleRow uint, sel air.Selectors) bool {
	return row%air.HASH_CYCLE_LEN == cycleRow && p.Chiplet(row) == air.HASHER && p.HasherSelectors(row) == sel
}

// FlagBP is set on the first row of a linear hash.
func (p *MainTrace) FlagBP(row uint) bool {
	return p.hasherFlag(row, 0, air.LINEAR_HASH)
}

// FlagMP is set on the first row of a Merkle path verification.
func (p *MainTrace) FlagMP(row uint) bool {
	return p.hasherFlag(row, 0, air.MP_VERIFY)
}

// FlagMV is set on the first row of the old path of a Merkle root update.
func (p *MainTrace) FlagMV(row uint) bool {
	return p.hasherFlag(row, 0, air.MR_UPDATE_OLD)
}

// FlagMU is set on the first row of the new path of a Merkle root update.
func (p *MainTrace) FlagMU(row uint) bool {
	return p.hasherFlag(row, 0, air.MR_UPDATE_NEW)
}

// FlagHOUT is set on the last row of a hash returning a digest.
func (p *MainTrace) FlagHOUT(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.RETURN_HASH)
}

// FlagSOUT is set on the last row of a permutation returning the full state.
func (p *MainTrace) FlagSOUT(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.RETURN_STATE)
}

// FlagABP is set on the last row of a cycle after which more elements are
// absorbed into a linear hash.
func (p *MainTrace) FlagABP(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.LINEAR_HASH)
}

// FlagMPA is set on the last row of a Merkle path verification cycle after which
// the next node is absorbed.
func (p *MainTrace) FlagMPA(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.MP_VERIFY)
}

// FlagMVA is set on the last row of an old path cycle after which the next node
// is absorbed.
func (p *MainTrace) FlagMVA(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.MR_UPDATE_OLD)
}

// FlagMUA is set on the last row of a new path cycle after which the next node
// is absorbed.
func (p *MainTrace) FlagMUA(row uint) bool {
	return p.hasherFlag(row, air.HASH_CYCLE_LEN-1, air.MR_UPDATE_NEW)
}
