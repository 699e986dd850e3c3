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

// Operation labels.  These values are shared with the verifier and must not
// change: a request and the response which answers it are only equal when both
// sides use the same label.
const (
	// LINEAR_HASH_LABEL identifies a linear hash (permutation input, control
	// block or basic block).
	LINEAR_HASH_LABEL = uint64(3)
	// MP_VERIFY_LABEL identifies a Merkle path verification.
	MP_VERIFY_LABEL = uint64(11)
	// MR_UPDATE_OLD_LABEL identifies the old path of a Merkle root update.
	MR_UPDATE_OLD_LABEL = uint64(7)
	// MR_UPDATE_NEW_LABEL identifies the new path of a Merkle root update.
	MR_UPDATE_NEW_LABEL = uint64(15)
	// RETURN_HASH_LABEL identifies the return of a digest.
	RETURN_HASH_LABEL = uint64(1)
	// RETURN_STATE_LABEL identifies the return of a full hasher state.
	RETURN_STATE_LABEL = uint64(9)
	// BITWISE_AND_LABEL identifies a 32-bit AND.
	BITWISE_AND_LABEL = uint64(2)
	// BITWISE_XOR_LABEL identifies a 32-bit XOR.
	BITWISE_XOR_LABEL = uint64(6)
	// MEMORY_WRITE_LABEL identifies a memory write.
	MEMORY_WRITE_LABEL = uint64(4)
	// MEMORY_READ_LABEL identifies a memory read.
	MEMORY_READ_LABEL = uint64(12)
	// KERNEL_PROC_LABEL identifies a kernel procedure call.
	KERNEL_PROC_LABEL = uint64(8)
)

// Phase offsets added to a hasher label, depending on whether the message is
// sent on the first or the last row of a hash cycle.
const (
	FIRST_ROW_OFFSET = uint64(16)
	LAST_ROW_OFFSET  = uint64(32)
)

// Selectors is a hasher selector pattern [s0, s1, s2].
type Selectors [3]uint64

// Hasher selector patterns.
var (
	LINEAR_HASH   = Selectors{1, 0, 0}
	MP_VERIFY     = Selectors{1, 0, 1}
	MR_UPDATE_OLD = Selectors{1, 1, 0}
	MR_UPDATE_NEW = Selectors{1, 1, 1}
	RETURN_HASH   = Selectors{0, 0, 0}
	RETURN_STATE  = Selectors{0, 0, 1}
)

// Label derives the label of a selector pattern.  The chiplet selector which
// identifies the hasher segment (zero) acts as the lowest bit, so for instance
// LINEAR_HASH has label 0b0011 = 3.
func (s Selectors) Label() uint64 {
	return OpLabel(0, s[0], s[1], s[2])
}

// Continuation returns the selectors used on the first row of a cycle which
// continues an operation started in an earlier cycle.
func (s Selectors) Continuation() Selectors {
	return Selectors{0, s[1], s[2]}
}

// OpLabel combines four selector bits into a label as s3·8 + s2·4 + s1·2 + s0 + 1.
func OpLabel(s0, s1, s2, s3 uint64) uint64 {
	return (s3<<3 | s2<<2 | s1<<1 | s0) + 1
}

// FirstRow returns the label a message carries on the first row of a cycle.
func FirstRow(label uint64) uint64 {
	return label + FIRST_ROW_OFFSET
}

// LastRow returns the label a message carries on the last row of a cycle.
func LastRow(label uint64) uint64 {
	return label + LAST_ROW_OFFSET
}

// LabelAt returns the label a hasher message carries when sent at a given
// address, where the row of the hasher trace is the address minus one.  Only
// messages on the first or last row of a cycle carry an offset.
func LabelAt(label uint64, addr uint64) uint64 {
	switch (addr - 1) % HASH_CYCLE_LEN {
	case 0:
		return FirstRow(label)
	case HASH_CYCLE_LEN - 1:
		return LastRow(label)
	default:
		return label
	}
}
