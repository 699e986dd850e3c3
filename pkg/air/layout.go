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
package air

// Hasher layout.
const (
	// HASH_CYCLE_LEN is the number of rows needed for a single permutation.
	HASH_CYCLE_LEN = 8
	// NUM_ROUNDS is the number of rounds of the permutation.
	NUM_ROUNDS = HASH_CYCLE_LEN - 1
	// STATE_WIDTH is the width of the hasher state.
	STATE_WIDTH = 12
	// CAPACITY_LEN is the size of the capacity portion of the state.
	CAPACITY_LEN = 4
	// RATE_LEN is the size of the rate portion of the state.
	RATE_LEN = STATE_WIDTH - CAPACITY_LEN
	// DIGEST_START is the first state element of the digest.
	DIGEST_START = CAPACITY_LEN
	// DIGEST_LEN is the number of elements in a digest.
	DIGEST_LEN = 4
	// NUM_SELECTORS is the number of hasher selector columns.
	NUM_SELECTORS = 3
	// HASHER_TRACE_WIDTH is the number of columns used by the hasher.
	HASHER_TRACE_WIDTH = NUM_SELECTORS + STATE_WIDTH + 1
)

// Bitwise layout.
const (
	// BITWISE_CYCLE_LEN is the number of rows needed for a single 32-bit
	// operation, processing four bits per row.
	BITWISE_CYCLE_LEN = 8
	// BITWISE_TRACE_WIDTH is the number of columns used by the bitwise
	// chiplet.
	BITWISE_TRACE_WIDTH = 13
	// Columns within the bitwise chiplet
	BITWISE_SELECTOR_COL = 0
	BITWISE_A_COL        = 1
	BITWISE_B_COL        = 2
	BITWISE_A_LIMBS_COL  = 3
	BITWISE_B_LIMBS_COL  = 7
	BITWISE_PREV_OUT_COL = 11
	BITWISE_OUTPUT_COL   = 12
)

// Memory layout.
const (
	// MEMORY_TRACE_WIDTH is the number of columns used by the memory chiplet.
	MEMORY_TRACE_WIDTH = 12
	// Columns within the memory chiplet
	MEMORY_READ_WRITE_COL = 0
	MEMORY_CTX_COL        = 1
	MEMORY_ADDR_COL       = 2
	MEMORY_CLK_COL        = 3
	MEMORY_V_COL          = 4
	MEMORY_D0_COL         = 8
	MEMORY_D1_COL         = 9
	MEMORY_D_INV_COL      = 10
	MEMORY_SAME_WORD_COL  = 11
)

// Kernel ROM layout.
const (
	// KERNEL_ROM_TRACE_WIDTH is the number of columns used by the kernel ROM.
	KERNEL_ROM_TRACE_WIDTH = 6
	// Columns within the kernel ROM
	KERNEL_ROM_ACCESS_COL = 0
	KERNEL_ROM_ADDR_COL   = 1
	KERNEL_ROM_ROOT_COL   = 2
)

// Chiplet identifies one of the chiplets in the order in which they appear in
// the chiplets table.
type Chiplet uint8

// Chiplets in table order.
const (
	HASHER Chiplet = iota
	BITWISE
	MEMORY
	KERNEL_ROM
	// NUM_CHIPLETS is the number of chiplets.
	NUM_CHIPLETS
)

var chipletNames = [NUM_CHIPLETS]string{"hasher", "bitwise", "memory", "kernel_rom"}

var chipletWidths = [NUM_CHIPLETS]uint{
	HASHER_TRACE_WIDTH, BITWISE_TRACE_WIDTH, MEMORY_TRACE_WIDTH, KERNEL_ROM_TRACE_WIDTH,
}

func (c Chiplet) String() string {
	if c < NUM_CHIPLETS {
		return chipletNames[c]
	}
	//
	return "padding"
}

// Width returns the number of columns used by this chiplet's own trace.
func (c Chiplet) Width() uint {
	return chipletWidths[c]
}

// FirstColumn returns the first column of the chiplets table occupied by this
// chiplet's own trace.  A chiplet is preceded by one selector column for each
// chiplet before it, plus its own zero selector.
func (c Chiplet) FirstColumn() uint {
	return uint(c) + 1
}

// Chiplets table layout.
const (
	// NUM_CHIPLET_SELECTORS is the number of unary selector columns.
	NUM_CHIPLET_SELECTORS = 4
	// CHIPLETS_WIDTH is the width of the chiplets table.  This is the widest
	// extent of any chiplet, including its selector prefix.
	CHIPLETS_WIDTH = 1 + HASHER_TRACE_WIDTH
	// Absolute columns of the hasher within the chiplets table.
	HASHER_SELECTOR_COL   = 1
	HASHER_STATE_COL      = HASHER_SELECTOR_COL + NUM_SELECTORS
	HASHER_NODE_INDEX_COL = HASHER_STATE_COL + STATE_WIDTH
)

// Main trace layout.
const (
	CLK_COL  = 0
	CTX_COL  = 1
	ADDR_COL = 2
	// OPCODE_COL holds the opcode executed at a given row.
	OPCODE_COL = 3
	// DECODER_HASHER_COL is the first of the decoder's hasher state columns.
	DECODER_HASHER_COL = 4
	// NUM_DECODER_HASHER is the number of decoder hasher state columns.
	NUM_DECODER_HASHER = 8
	// HELPER_COL is the first helper register.  Helpers alias the decoder
	// hasher state beyond the first two elements.
	HELPER_COL = DECODER_HASHER_COL + 2
	// NUM_HELPERS is the number of helper registers.
	NUM_HELPERS = 6
	// STACK_COL is the first column of the operand stack.
	STACK_COL = DECODER_HASHER_COL + NUM_DECODER_HASHER
	// STACK_DEPTH is the number of stack elements held in the trace.
	STACK_DEPTH = 16
	// CHIPLETS_COL is the first column of the chiplets table.
	CHIPLETS_COL = STACK_COL + STACK_DEPTH
	// MAIN_TRACE_WIDTH is the number of columns in the main trace.
	MAIN_TRACE_WIDTH = CHIPLETS_COL + CHIPLETS_WIDTH
)

// Auxiliary columns.
const (
	// NUM_ALPHAS is the number of random challenges needed by the chiplet
	// buses.
	NUM_ALPHAS = 16
	// T_CHIP_COL is the virtual table column.
	T_CHIP_COL = 0
	// B_CHIP_COL is the chiplets bus column.
	B_CHIP_COL = 1
	// NUM_AUX_COLUMNS is the number of auxiliary columns.
	NUM_AUX_COLUMNS = 2
)
