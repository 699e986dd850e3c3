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
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

func Test_Memory_01(t *testing.T) {
	var (
		memory = NewMemory()
		word   = goldilocks.NewWord(1, 2, 3, 4)
	)
	// uninitialised memory reads as zero
	assert.Equal(t, goldilocks.Word{}, memory.Read(0, 5, 1))
	memory.Write(0, 5, 2, word)
	assert.Equal(t, word, memory.Read(0, 5, 3))
	// contexts are isolated
	assert.Equal(t, goldilocks.Word{}, memory.Read(1, 5, 4))
	//
	value, ok := memory.GetValue(0, 5)
	assert.Equal(t, true, ok)
	assert.Equal(t, word, value)
	_, ok = memory.GetValue(0, 6)
	assert.Equal(t, false, ok)
	_, ok = memory.GetValue(2, 5)
	assert.Equal(t, false, ok)
	//
	assert.Equal(t, uint(4), memory.TraceLen())
}

func Test_Memory_02(t *testing.T) {
	var memory = NewMemory()
	// Issue accesses out of order
	memory.Write(1, 3, 1, goldilocks.NewWord(7, 0, 0, 0))
	memory.Write(0, 9, 2, goldilocks.NewWord(8, 0, 0, 0))
	memory.Read(0, 2, 3)
	memory.Read(0, 9, 7)
	memory.Write(1, 3, 9, goldilocks.NewWord(5, 0, 0, 0))
	//
	fragment := newFragment(memory)
	// (ctx, addr, clk) order
	expected := [][3]uint64{{0, 2, 3}, {0, 9, 2}, {0, 9, 7}, {1, 3, 1}, {1, 3, 9}}
	//
	for row, e := range expected {
		assert.Equal(t, e[0], fragment.Get(uint(row), air.MEMORY_CTX_COL).Uint64())
		assert.Equal(t, e[1], fragment.Get(uint(row), air.MEMORY_ADDR_COL).Uint64())
		assert.Equal(t, e[2], fragment.Get(uint(row), air.MEMORY_CLK_COL).Uint64())
	}
	// read/write flags
	assert.Equal(t, uint64(1), fragment.Get(0, air.MEMORY_READ_WRITE_COL).Uint64())
	assert.Equal(t, uint64(0), fragment.Get(1, air.MEMORY_READ_WRITE_COL).Uint64())
	assert.Equal(t, uint64(1), fragment.Get(2, air.MEMORY_READ_WRITE_COL).Uint64())
	// read returns the value written earlier
	assert.Equal(t, uint64(8), fragment.Get(2, air.MEMORY_V_COL).Uint64())
	// deltas: address change, clock change, context change, clock change
	checkDelta(t, fragment, 1, 7, true)
	checkDelta(t, fragment, 2, 5, false)
	checkDelta(t, fragment, 3, 1, true)
	checkDelta(t, fragment, 4, 8, false)
	// same word flags
	assert.Equal(t, uint64(0), fragment.Get(1, air.MEMORY_SAME_WORD_COL).Uint64())
	assert.Equal(t, uint64(1), fragment.Get(2, air.MEMORY_SAME_WORD_COL).Uint64())
}

func Test_Memory_03(t *testing.T) {
	var memory = NewMemory()
	// large delta is split into 16-bit limbs
	memory.Read(0, 0, 0)
	memory.Read(0, 0x12345, 0)
	//
	fragment := newFragment(memory)
	assert.Equal(t, uint64(0x2345), fragment.Get(1, air.MEMORY_D0_COL).Uint64())
	assert.Equal(t, uint64(0x1), fragment.Get(1, air.MEMORY_D1_COL).Uint64())
}

func Test_Memory_04(t *testing.T) {
	var memory = NewMemory()
	// largest address is fine, anything beyond is not
	memory.Write(0, MAX_ADDRESS, 1, goldilocks.NewWord(1, 0, 0, 0))
	assert.Panics(t, func() { memory.Write(0, MAX_ADDRESS+1, 2, goldilocks.Word{}) })
	assert.Panics(t, func() { memory.Read(0, MAX_ADDRESS+1, 2) })
	// delta between addresses 0 and MAX_ADDRESS still fits in two limbs
	memory.Read(0, 0, 3)
	fragment := newFragment(memory)
	checkDelta(t, fragment, 1, MAX_ADDRESS, true)
}

func Test_Memory_05(t *testing.T) {
	var memory = NewMemory()
	// context delta too large for two 16-bit limbs
	memory.Read(0, 0, 0)
	memory.Read(1<<32, 0, 1)
	//
	assert.Panics(t, func() { newFragment(memory) })
}

func checkDelta(t *testing.T, fragment *trace.Fragment, row uint, delta uint64, inverse bool) {
	d0 := fragment.Get(row, air.MEMORY_D0_COL).Uint64()
	d1 := fragment.Get(row, air.MEMORY_D1_COL).Uint64()
	dInv := fragment.Get(row, air.MEMORY_D_INV_COL)
	//
	assert.Equal(t, delta, d1<<16|d0, "delta at row %d", row)
	//
	if inverse {
		assert.Equal(t, true, dInv.Mul(goldilocks.New(delta)).IsOne(), "delta inverse at row %d", row)
	} else {
		assert.Equal(t, true, dInv.IsZero(), "delta inverse at row %d", row)
	}
}

func newFragment(memory *Memory) *trace.Fragment {
	fragment := trace.NewFragment(memory.TraceLen())
	//
	for range air.MEMORY_TRACE_WIDTH {
		fragment.Attach(make([]goldilocks.Element, memory.TraceLen()))
	}
	//
	memory.FillTrace(fragment)
	//
	return fragment
}
