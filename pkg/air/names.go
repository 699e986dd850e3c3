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

import "fmt"

// MainColumnName returns a human readable name for a given column of the main
// trace.
func MainColumnName(col uint) string {
	switch {
	case col == CLK_COL:
		return "clk"
	case col == CTX_COL:
		return "ctx"
	case col == ADDR_COL:
		return "addr"
	case col == OPCODE_COL:
		return "op"
	case col < STACK_COL:
		return fmt.Sprintf("h%d", col-DECODER_HASHER_COL)
	case col < CHIPLETS_COL:
		return fmt.Sprintf("s%d", col-STACK_COL)
	case col < MAIN_TRACE_WIDTH:
		return ChipletsColumnName(col - CHIPLETS_COL)
	}
	//
	panic(fmt.Sprintf("invalid main trace column %d", col))
}

// ChipletsColumnName returns a human readable name for a given column of the
// chiplets table.  Since columns are shared between chiplets, the name reflects
// the hasher's use of the column, which is the widest chiplet.
func ChipletsColumnName(col uint) string {
	switch {
	case col == 0:
		return "chip_s0"
	case col < HASHER_STATE_COL:
		return fmt.Sprintf("hash_s%d", col-HASHER_SELECTOR_COL)
	case col < HASHER_NODE_INDEX_COL:
		return fmt.Sprintf("hash_h%d", col-HASHER_STATE_COL)
	case col == HASHER_NODE_INDEX_COL:
		return "hash_idx"
	}
	//
	panic(fmt.Sprintf("invalid chiplets column %d", col))
}

// AuxColumnName returns the name of a given auxiliary column.
func AuxColumnName(col uint) string {
	switch col {
	case T_CHIP_COL:
		return "t_chip"
	case B_CHIP_COL:
		return "b_chip"
	}
	//
	panic(fmt.Sprintf("invalid auxiliary column %d", col))
}
