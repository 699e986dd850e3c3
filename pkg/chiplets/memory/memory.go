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
package memory

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Memory is the chiplet which records random access memory.  Memory is word
// addressable and partitioned into contexts, and every access is recorded
// along with the clock cycle at which it happened.  The trace lists accesses
// sorted by context, then address, then clock cycle.
type Memory struct {
	contexts map[uint64]*segment
	// Total number of accesses
	accesses uint
}

// The accesses of a single context, along with the current state of memory.
type segment struct {
	accesses map[uint64][]access
	values   map[uint64]goldilocks.Word
}

// MAX_ADDRESS is the largest address of a context.  Deltas between consecutive
// rows of the trace are split into two 16-bit limbs, hence must fit in 32 bits.
const MAX_ADDRESS = math.MaxUint32

type access struct {
	clk   uint64
	value goldilocks.Word
	read  bool
}

// NewMemory constructs an empty memory.
func NewMemory() *Memory {
	return &Memory{make(map[uint64]*segment), 0}
}

// TraceLen returns the number of rows needed by this chiplet.
func (p *Memory) TraceLen() uint {
	return p.accesses
}

// Read the word at a given address of a given context, recording the access at
// a given clock cycle.  Memory which was never written reads as zero.
func (p *Memory) Read(ctx, addr, clk uint64) goldilocks.Word {
	checkAddress(addr)
	//
	seg := p.segment(ctx)
	value := seg.values[addr]
	seg.accesses[addr] = append(seg.accesses[addr], access{clk, value, true})
	p.accesses++
	//
	return value
}

// Write a word to a given address of a given context, recording the access at
// a given clock cycle.
func (p *Memory) Write(ctx, addr, clk uint64, value goldilocks.Word) {
	checkAddress(addr)
	//
	seg := p.segment(ctx)
	seg.values[addr] = value
	seg.accesses[addr] = append(seg.accesses[addr], access{clk, value, false})
	p.accesses++
}

// GetValue returns the current word at a given address of a given context,
// without recording an access.  The flag indicates whether the address was
// ever accessed.
func (p *Memory) GetValue(ctx, addr uint64) (goldilocks.Word, bool) {
	if seg, ok := p.contexts[ctx]; ok {
		value, ok := seg.values[addr]
		return value, ok
	}
	//
	return goldilocks.Word{}, false
}

// FillTrace writes the recorded accesses into a given fragment, sorted by
// context, address and clock cycle.
func (p *Memory) FillTrace(fragment *trace.Fragment) {
	var (
		row                        uint
		prevCtx, prevAddr, prevClk uint64
	)
	//
	for _, ctx := range slices.Sorted(maps.Keys(p.contexts)) {
		seg := p.contexts[ctx]
		//
		for _, addr := range slices.Sorted(maps.Keys(seg.accesses)) {
			for _, acc := range seg.accesses[addr] {
				var (
					delta    uint64
					deltaInv goldilocks.Element
					sameWord = row > 0 && ctx == prevCtx && addr == prevAddr
				)
				//
				switch {
				case row == 0:
					// nothing to compare against
				case ctx != prevCtx:
					delta = ctx - prevCtx
					deltaInv = goldilocks.New(delta).Inverse()
				case addr != prevAddr:
					delta = addr - prevAddr
					deltaInv = goldilocks.New(delta).Inverse()
				default:
					delta = acc.clk - prevClk
				}
				//
				if delta > math.MaxUint32 {
					panic(fmt.Sprintf("memory delta %d at row %d does not fit in two 16-bit limbs", delta, row))
				}
				//
				fragment.Set(row, air.MEMORY_READ_WRITE_COL, goldilocks.Bool(acc.read))
				fragment.Set(row, air.MEMORY_CTX_COL, goldilocks.New(ctx))
				fragment.Set(row, air.MEMORY_ADDR_COL, goldilocks.New(addr))
				fragment.Set(row, air.MEMORY_CLK_COL, goldilocks.New(acc.clk))
				//
				for i, v := range acc.value {
					fragment.Set(row, air.MEMORY_V_COL+uint(i), v)
				}
				//
				fragment.Set(row, air.MEMORY_D0_COL, goldilocks.New(delta&0xffff))
				fragment.Set(row, air.MEMORY_D1_COL, goldilocks.New(delta>>16&0xffff))
				fragment.Set(row, air.MEMORY_D_INV_COL, deltaInv)
				fragment.Set(row, air.MEMORY_SAME_WORD_COL, goldilocks.Bool(sameWord))
				//
				prevCtx, prevAddr, prevClk = ctx, addr, acc.clk
				row++
			}
		}
	}
}

func (p *Memory) segment(ctx uint64) *segment {
	seg, ok := p.contexts[ctx]
	//
	if !ok {
		seg = &segment{make(map[uint64][]access), make(map[uint64]goldilocks.Word)}
		p.contexts[ctx] = seg
	}
	//
	return seg
}

func checkAddress(addr uint64) {
	if addr > MAX_ADDRESS {
		panic(fmt.Sprintf("memory address %d out of bounds", addr))
	}
}
