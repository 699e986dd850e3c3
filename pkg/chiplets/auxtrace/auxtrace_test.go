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
package auxtrace

import (
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/processor"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/vm"
)

func Test_Bus_01(t *testing.T) {
	checkScenario(t, "u32and")
}

func Test_Bus_02(t *testing.T) {
	checkScenario(t, "bitwise")
}

func Test_Bus_03(t *testing.T) {
	checkScenario(t, "memory")
}

func Test_Bus_04(t *testing.T) {
	checkScenario(t, "hperm")
}

func Test_Bus_05(t *testing.T) {
	checkScenario(t, "merkle")
}

func Test_Bus_06(t *testing.T) {
	checkScenario(t, "blocks")
}

func Test_Bus_07(t *testing.T) {
	checkScenario(t, "kernel")
}

func Test_Bus_08(t *testing.T) {
	checkScenario(t, "all")
}

// The single bitwise request is answered by the last row of the bitwise cycle.
func Test_Bus_09(t *testing.T) {
	var (
		main, kernel = execute(t, "u32and")
		alphas       = randomAlphas(t)
		bus          = NewBusBuilder(kernel)
		request      = bus.Request(main, alphas, findOp(t, main, vm.U32AND))
		start        = firstRowOf(main, air.BITWISE)
		response     = bus.Response(main, alphas, start+air.BITWISE_CYCLE_LEN-1)
	)
	//
	assert.Equal(t, request, response)
	assert.Equal(t, uint64(0b0010), main.ChipletColumn(air.BITWISE, start+7, air.BITWISE_OUTPUT_COL).Uint64())
	// Every other bitwise row responds with one
	for row := start; row < start+air.BITWISE_CYCLE_LEN-1; row++ {
		assert.True(t, bus.Response(main, alphas, row).IsOne())
	}
}

// The first row carries no request, since the trace starts with a NOOP.
func Test_Bus_10(t *testing.T) {
	var (
		main, kernel = execute(t, "blocks")
		alphas       = randomAlphas(t)
		bus          = NewBusBuilder(kernel)
		column       = BuildColumn(bus, main, alphas)
	)
	//
	assert.True(t, bus.Request(main, alphas, 0).IsOne())
	assert.Equal(t, bus.Response(main, alphas, 0), column[0])
}

// Corrupting the result of a bitwise operation unbalances the bus.
func Test_Bus_11(t *testing.T) {
	var (
		main, kernel = execute(t, "u32and")
		alphas       = randomAlphas(t)
		start        = firstRowOf(main, air.BITWISE)
		col          = air.CHIPLETS_COL + air.BITWISE.FirstColumn() + air.BITWISE_OUTPUT_COL
		row          = start + air.BITWISE_CYCLE_LEN - 1
	)
	//
	main.Set(col, row, goldilocks.New(0b0011))
	columns := BuildAuxColumns(main, kernel, alphas)
	assert.False(t, columns[air.B_CHIP_COL][main.Height()-1].IsOne())
}

// Corrupting a memory value unbalances the bus.
func Test_Bus_12(t *testing.T) {
	var (
		main, kernel = execute(t, "memory")
		alphas       = randomAlphas(t)
		row          = firstRowOf(main, air.MEMORY)
		col          = air.CHIPLETS_COL + air.MEMORY.FirstColumn() + air.MEMORY_V_COL
	)
	//
	main.Set(col, row, main.Get(col, row).Add(goldilocks.One()))
	columns := BuildAuxColumns(main, kernel, alphas)
	assert.False(t, columns[air.B_CHIP_COL][main.Height()-1].IsOne())
}

// Calling a procedure twice gives two kernel responses, but only one inclusion.
func Test_Bus_13(t *testing.T) {
	var (
		main, kernel = execute(t, "kernel")
		alphas       = randomAlphas(t)
		accesses     = 0
		inclusions   = 0
	)
	//
	for row := range main.Height() {
		if !main.IsKernelRomRow(row) {
			continue
		}
		//
		if main.ChipletColumn(air.KERNEL_ROM, row, air.KERNEL_ROM_ACCESS_COL).IsOne() {
			accesses++
		}
		//
		if !kernelInclusionResponse(main, alphas, row).IsOne() {
			inclusions++
		}
	}
	//
	assert.Equal(t, 3, accesses)
	assert.Equal(t, int(kernel.Len()), inclusions)
}

func Test_VTable_01(t *testing.T) {
	var (
		main, _     = execute(t, "merkle")
		alphas      = randomAlphas(t)
		vtable      = NewVirtualTableBuilder()
		deposits    []goldilocks.Ext
		withdrawals []goldilocks.Ext
	)
	//
	for row := range main.Height() {
		if r := vtable.Request(main, alphas, row); !r.IsOne() {
			withdrawals = append(withdrawals, r)
		}
		//
		if r := vtable.Response(main, alphas, row); !r.IsOne() {
			deposits = append(deposits, r)
		}
	}
	// One sibling per level of the tree, in the same order
	assert.Equal(t, 3, len(deposits))
	assert.Equal(t, deposits, withdrawals)
	// Without a kernel, the column ends with one
	column := BuildColumn(vtable, main, alphas)
	assert.True(t, column[main.Height()-1].IsOne())
}

func Test_VTable_02(t *testing.T) {
	var (
		alphas    = randomAlphas(t)
		empty, _  = kernelrom.NewKernel()
		kernel, _ = kernelrom.NewKernel(processor.KernelProcedures(2)...)
	)
	//
	assert.True(t, ExpectedVirtualTableResult(empty, alphas).IsOne())
	assert.False(t, ExpectedVirtualTableResult(kernel, alphas).IsOne())
}

func Test_Aux_01(t *testing.T) {
	var (
		main, kernel = execute(t, "u32and")
		alphas       = randomAlphas(t)
	)
	//
	assert.Panics(t, func() { BuildAuxColumns(main, kernel, alphas[:air.NUM_ALPHAS-1]) })
	assert.Panics(t, func() { ExpectedVirtualTableResult(kernel, alphas[:1]) })
}

func Test_Aux_02(t *testing.T) {
	alphas := randomAlphas(t)
	// Wrong number of fields
	assert.Panics(t, func() { encode(alphas, bitwiseAnd, goldilocks.One()) })
	// Labels separate otherwise identical messages
	x := encode(alphas, bitwiseAnd, goldilocks.One(), goldilocks.One(), goldilocks.One())
	y := encode(alphas, bitwiseXor, goldilocks.One(), goldilocks.One(), goldilocks.One())
	assert.False(t, x.Equal(y))
}

// Hasher messages take their phase offset from the position of their address
// within a hash cycle, where address a is row a-1 of the hasher trace.
func Test_Aux_03(t *testing.T) {
	var (
		alphas = randomAlphas(t)
		digest = []goldilocks.Element{goldilocks.New(1), goldilocks.New(2), goldilocks.New(3), goldilocks.New(4)}
		// address, node index, then the digest in the first half of the rate
		indices = []uint{alphaAddr, alphaIndex, alphaRate, alphaRate + 1, alphaRate + 2, alphaRate + 3}
	)
	//
	for _, addr := range []uint64{1, 2, 7, 8, 9, 16, 17} {
		var (
			values   = fields([]goldilocks.Element{goldilocks.New(addr), goldilocks.Zero()}, digest)
			actual   = encode(alphas, returnHash, values...)
			expected = alphas[0]
			label    = uint64(air.RETURN_HASH_LABEL)
		)
		//
		switch (addr - 1) % air.HASH_CYCLE_LEN {
		case 0:
			label += 16
		case 7:
			label += 32
		}
		//
		expected = expected.Add(alphas[alphaLabel].MulBase(goldilocks.New(label)))
		//
		for i, v := range values {
			expected = expected.Add(alphas[indices[i]].MulBase(v))
		}
		//
		assert.True(t, expected.Equal(actual), "address %d", addr)
	}
}

// ============================================================================
// Helpers
// ============================================================================

// Check both auxiliary columns end with their expected values, with and without
// rows reserved for random values.
func checkScenario(t *testing.T, name string) {
	for _, numRandRows := range []uint{0, 1, 5, 64} {
		var (
			main, kernel = executeWith(t, name, numRandRows)
			alphas       = randomAlphas(t)
			columns      = BuildAuxColumns(main, kernel, alphas)
			last         = main.Height() - 1
		)
		//
		assert.Equal(t, int(air.NUM_AUX_COLUMNS), len(columns))
		assert.True(t, columns[air.B_CHIP_COL][last].IsOne(), "bus column of %s (%d random rows)", name,
			numRandRows)
		assert.True(t, columns[air.T_CHIP_COL][last].Equal(ExpectedVirtualTableResult(kernel, alphas)),
			"virtual table column of %s (%d random rows)", name, numRandRows)
	}
}

func execute(t *testing.T, name string) (*trace.MainTrace, kernelrom.Kernel) {
	return executeWith(t, name, 0)
}

func executeWith(t *testing.T, name string, numRandRows uint) (*trace.MainTrace, kernelrom.Kernel) {
	main, kernel, err := processor.Scenarios[name].Execute(numRandRows)
	assert.NoError(t, err)
	//
	return main, kernel
}

func randomAlphas(t *testing.T) []goldilocks.Ext {
	alphas, err := goldilocks.RandomExts(air.NUM_ALPHAS)
	assert.NoError(t, err)
	//
	return alphas
}

func findOp(t *testing.T, main *trace.MainTrace, op vm.Opcode) uint {
	for row := range main.Height() {
		if main.Opcode(row) == op {
			return row
		}
	}
	//
	t.Fatalf("operation %s not found", op)
	//
	return 0
}

func firstRowOf(main *trace.MainTrace, chiplet air.Chiplet) uint {
	for row := range main.Height() {
		if main.Chiplet(row) == chiplet {
			return row
		}
	}
	//
	panic("chiplet not found")
}
