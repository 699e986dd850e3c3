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
	"fmt"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Alpha indices shared by all messages.  Alpha 0 is the constant term, alpha 1
// multiplies the label, and the remaining alphas multiply the message fields.
const (
	alphaLabel = 1
	// Hasher messages: address, node index, then the twelve state elements.
	alphaAddr  = 2
	alphaIndex = 3
	alphaState = 4
	// First alpha of the rate, which is also the first alpha of a digest.
	alphaRate = alphaState + air.CAPACITY_LEN
	// First alpha of the right half of the rate.
	alphaRight = alphaRate + air.DIGEST_LEN
)

// kind enumerates every message exchanged over the chiplet buses.
type kind uint8

const (
	// Opening of a linear hash, with the full state.
	linearHashBegin kind = iota
	// Absorption of more elements into a linear hash, with the rate.
	linearHashAbsorb
	// Opening of a Merkle path, with the leaf.
	mpVerifyBegin
	mrUpdateOldBegin
	mrUpdateNewBegin
	// Closing of a hash returning a digest.
	returnHash
	// Closing of a permutation returning the full state.
	returnState
	bitwiseAnd
	bitwiseXor
	memoryRead
	memoryWrite
	// Call to a kernel procedure, with its root.
	kernelProc
	// Inclusion of a kernel procedure in the kernel ROM, with its address and
	// root.  This is not labelled.
	kernelInclusion
	// Sibling of a Merkle path held in the left or right half of the rate,
	// with the node index.  These are not labelled.
	siblingLeft
	siblingRight
	numKinds
)

// message describes how a kind of message is encoded.
type message struct {
	name string
	// Whether or not the label is included in the encoding
	labelled bool
	// Whether or not the label is offset by the position of the message's
	// address within its hash cycle.  The address is always the first field.
	phased bool
	// label (excluding any phase offset)
	label uint64
	// alpha index for each field
	alphas []uint
}

// Every request and every response is encoded through this table, such that
// both sides of a bus use the same labels and the same alphas.
var messages = [numKinds]message{
	linearHashBegin:  {"linear_hash", true, true, air.LINEAR_HASH_LABEL, hasherFields(alphaState, air.STATE_WIDTH)},
	linearHashAbsorb: {"linear_hash_absorb", true, true, air.LINEAR_HASH_LABEL, hasherFields(alphaRate, air.RATE_LEN)},
	mpVerifyBegin:    {"mp_verify", true, true, air.MP_VERIFY_LABEL, hasherFields(alphaRate, air.DIGEST_LEN)},
	mrUpdateOldBegin: {"mr_update_old", true, true, air.MR_UPDATE_OLD_LABEL, hasherFields(alphaRate, air.DIGEST_LEN)},
	mrUpdateNewBegin: {"mr_update_new", true, true, air.MR_UPDATE_NEW_LABEL, hasherFields(alphaRate, air.DIGEST_LEN)},
	returnHash:       {"return_hash", true, true, air.RETURN_HASH_LABEL, hasherFields(alphaRate, air.DIGEST_LEN)},
	returnState:      {"return_state", true, true, air.RETURN_STATE_LABEL, hasherFields(alphaState, air.STATE_WIDTH)},
	bitwiseAnd:       {"u32and", true, false, air.BITWISE_AND_LABEL, span(2, 3)},
	bitwiseXor:       {"u32xor", true, false, air.BITWISE_XOR_LABEL, span(2, 3)},
	memoryRead:       {"memory_read", true, false, air.MEMORY_READ_LABEL, span(2, 3+goldilocks.WordSize)},
	memoryWrite:      {"memory_write", true, false, air.MEMORY_WRITE_LABEL, span(2, 3+goldilocks.WordSize)},
	kernelProc:       {"kernel_proc", true, false, air.KERNEL_PROC_LABEL, span(2, goldilocks.WordSize)},
	kernelInclusion:  {"kernel_inclusion", false, false, 0, span(1, 1+goldilocks.WordSize)},
	siblingLeft:      {"sibling_left", false, false, 0, append([]uint{alphaIndex}, span(alphaRate, air.DIGEST_LEN)...)},
	siblingRight:     {"sibling_right", false, false, 0, append([]uint{alphaIndex}, span(alphaRight, air.DIGEST_LEN)...)},
}

// encode a message of a given kind with the given field values.
func encode(alphas []goldilocks.Ext, k kind, values ...goldilocks.Element) goldilocks.Ext {
	var (
		m   = &messages[k]
		acc = alphas[0]
	)
	//
	if len(values) != len(m.alphas) {
		panic(fmt.Sprintf("%s message has %d fields (expected %d)", m.name, len(values), len(m.alphas)))
	}
	//
	if m.labelled {
		label := m.label
		//
		if m.phased {
			label = air.LabelAt(label, values[0].Uint64())
		}
		//
		acc = acc.Add(alphas[alphaLabel].MulBase(goldilocks.New(label)))
	}
	//
	for i, v := range values {
		acc = acc.Add(alphas[m.alphas[i]].MulBase(v))
	}
	//
	return acc
}

// Hasher messages carry the address and node index, followed by n state
// elements starting from a given alpha.
func hasherFields(start uint, n uint) []uint {
	return append([]uint{alphaAddr, alphaIndex}, span(start, n)...)
}

// span returns n consecutive alpha indices starting from a given index.
func span(start uint, n uint) []uint {
	indices := make([]uint, n)
	//
	for i := range indices {
		indices[i] = start + uint(i)
	}
	//
	return indices
}

// Concatenate field values into a single slice.
func fields(groups ...[]goldilocks.Element) []goldilocks.Element {
	var values []goldilocks.Element
	//
	for _, g := range groups {
		values = append(values, g...)
	}
	//
	return values
}
