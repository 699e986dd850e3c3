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
package vm

import "fmt"

// Opcode identifies an operation of the virtual machine.  Opcodes occupy a
// seven bit space.
type Opcode uint8

// NUM_OPCODES is the size of the opcode space.
const NUM_OPCODES = 128

// Operations which need no chiplet.
const (
	NOOP Opcode = 0b0000_0000
	PAD  Opcode = 0b0000_0001
	DROP Opcode = 0b0000_0010
	// PUSH carries an immediate value.
	PUSH Opcode = 0b0110_0100
	HALT Opcode = 0b0111_1100
)

// Operations which send messages to the bitwise chiplet.
const (
	U32AND Opcode = 0b0010_0110
	U32XOR Opcode = 0b0010_0111
)

// Operations which send messages to the memory chiplet.
const (
	MLOAD     Opcode = 0b0000_0111
	MLOADW    Opcode = 0b0010_1000
	MSTORE    Opcode = 0b0010_1001
	MSTOREW   Opcode = 0b0010_1010
	MSTREAM   Opcode = 0b0101_0011
	RCOMBBASE Opcode = 0b0101_1001
)

// Operations which send messages to the hasher.
const (
	HPERM    Opcode = 0b0101_0000
	MPVERIFY Opcode = 0b0101_0001
	MRUPDATE Opcode = 0b0110_0000
)

// Control flow operations.  Except for REPEAT and HALT, these open or close a
// program block, whose hash is computed by the hasher.
const (
	SPLIT   Opcode = 0b0101_0100
	LOOP    Opcode = 0b0101_0101
	SPAN    Opcode = 0b0101_0110
	JOIN    Opcode = 0b0101_0111
	DYN     Opcode = 0b0101_1000
	SYSCALL Opcode = 0b0110_1000
	CALL    Opcode = 0b0110_1100
	END     Opcode = 0b0111_0000
	REPEAT  Opcode = 0b0111_0100
	RESPAN  Opcode = 0b0111_1000
)

var opcodeNames = map[Opcode]string{
	NOOP: "noop", PAD: "pad", DROP: "drop", PUSH: "push", HALT: "halt",
	U32AND: "u32and", U32XOR: "u32xor",
	MLOAD: "mload", MLOADW: "mloadw", MSTORE: "mstore", MSTOREW: "mstorew",
	MSTREAM: "mstream", RCOMBBASE: "rcomb_base",
	HPERM: "hperm", MPVERIFY: "mpverify", MRUPDATE: "mrupdate",
	SPLIT: "split", LOOP: "loop", SPAN: "span", JOIN: "join", DYN: "dyn",
	SYSCALL: "syscall", CALL: "call", END: "end", REPEAT: "repeat", RESPAN: "respan",
}

// IsControlFlow determines whether this operation opens or closes a block.
func (op Opcode) IsControlFlow() bool {
	switch op {
	case SPLIT, LOOP, SPAN, JOIN, DYN, SYSCALL, CALL, END, REPEAT, RESPAN, HALT:
		return true
	default:
		return false
	}
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	//
	return fmt.Sprintf("op(%d)", uint8(op))
}
