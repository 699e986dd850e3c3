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
	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/vm"
)

// BusBuilder builds the chiplets bus column b_chip.  Requests are sent by the
// main trace, according to the operation executed at each row, and responses
// are sent by the chiplets, according to the chiplet owning each row.  When
// every request is answered by exactly one response, the column ends with one.
//
// Kernel ROM responses also carry the inclusion of each kernel procedure, which
// is balanced on the last row by the inclusion of every procedure of the public
// kernel.
type BusBuilder struct {
	kernel kernelrom.Kernel
}

// NewBusBuilder constructs a bus builder for a given kernel.
func NewBusBuilder(kernel kernelrom.Kernel) *BusBuilder {
	return &BusBuilder{kernel}
}

// requestFn computes the request sent by the operation executed at a given row.
type requestFn func(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext

// Operations not listed send no request.
var requests = [vm.NUM_OPCODES]requestFn{
	vm.JOIN:      controlBlockRequest,
	vm.SPLIT:     controlBlockRequest,
	vm.LOOP:      controlBlockRequest,
	vm.DYN:       controlBlockRequest,
	vm.CALL:      controlBlockRequest,
	vm.SYSCALL:   syscallRequest,
	vm.SPAN:      spanRequest,
	vm.RESPAN:    respanRequest,
	vm.END:       endRequest,
	vm.U32AND:    bitwiseRequest,
	vm.U32XOR:    bitwiseRequest,
	vm.MLOAD:     memoryElementRequest,
	vm.MSTORE:    memoryElementRequest,
	vm.MLOADW:    memoryWordRequest,
	vm.MSTOREW:   memoryWordRequest,
	vm.MSTREAM:   mstreamRequest,
	vm.RCOMBBASE: rcombBaseRequest,
	vm.HPERM:     hpermRequest,
	vm.MPVERIFY:  mpVerifyRequest,
	vm.MRUPDATE:  mrUpdateRequest,
}

// HasRequest determines whether a given operation sends a request to the
// chiplets.
func HasRequest(op vm.Opcode) bool {
	return op < vm.NUM_OPCODES && requests[op] != nil
}

// Request implementation for the ColumnBuilder interface.  Requests at a given
// row can depend on the next row, hence the last row carries the kernel
// inclusion terms instead.
func (p *BusBuilder) Request(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	if row+1 == main.Height() {
		return KernelInclusionProduct(p.kernel, alphas)
	} else if op := main.Opcode(row); HasRequest(op) {
		return requests[op](main, alphas, row)
	}
	//
	return goldilocks.ExtOne()
}

// Response implementation for the ColumnBuilder interface.
func (p *BusBuilder) Response(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	switch main.Chiplet(row) {
	case air.HASHER:
		return hasherResponse(main, alphas, row)
	case air.BITWISE:
		return bitwiseResponse(main, alphas, row)
	case air.MEMORY:
		return memoryResponse(main, alphas, row)
	case air.KERNEL_ROM:
		return kernelRomResponse(main, alphas, row)
	default:
		return goldilocks.ExtOne()
	}
}

// KernelInclusionProduct returns the product of the inclusion terms of every
// procedure of a given kernel.
func KernelInclusionProduct(kernel kernelrom.Kernel, alphas []goldilocks.Ext) goldilocks.Ext {
	acc := goldilocks.ExtOne()
	//
	for addr, root := range kernel.Procedures() {
		acc = acc.Mul(kernelInclusionTerm(alphas, element(uint64(addr)), root[:]))
	}
	//
	return acc
}

// ============================================================================
// Requests
// ============================================================================

// Opening of a control block, whose children are held in the decoder's hasher
// state and whose domain is its opcode.
func controlBlockRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr     = main.Addr(row + 1)
		opcode   = goldilocks.New(uint64(main.Opcode(row)))
		zero     = goldilocks.Zero()
		capacity = []goldilocks.Element{zero, opcode, zero, zero}
	)
	//
	return encode(alphas, linearHashBegin, fields([]goldilocks.Element{addr, zero}, capacity, decoderState(main, row))...)
}

// Opening of a call to a kernel procedure, which also requests that the
// procedure is in the kernel ROM.
func syscallRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	root := decoderState(main, row)[:goldilocks.WordSize]
	kernel := encode(alphas, kernelProc, root...)
	//
	return controlBlockRequest(main, alphas, row).Mul(kernel)
}

// Opening of a basic block, whose first batch is held in the decoder's hasher
// state.
func spanRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr     = main.Addr(row + 1)
		zero     = goldilocks.Zero()
		capacity = []goldilocks.Element{zero, zero, zero, zero}
	)
	//
	return encode(alphas, linearHashBegin, fields([]goldilocks.Element{addr, zero}, capacity, decoderState(main, row))...)
}

// Absorption of the next batch of a basic block, which happens on the last row
// of the previous cycle.
func respanRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	addr := main.Addr(row + 1).Sub(goldilocks.One())
	//
	return encode(alphas, linearHashAbsorb, fields([]goldilocks.Element{addr, goldilocks.Zero()},
		decoderState(main, row))...)
}

// Closing of a block, whose digest is held in the decoder's hasher state.
func endRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	addr := main.Addr(row).Add(element(air.HASH_CYCLE_LEN - 1))
	digest := decoderState(main, row)[:air.DIGEST_LEN]
	//
	return encode(alphas, returnHash, fields([]goldilocks.Element{addr, goldilocks.Zero()}, digest)...)
}

// Bitwise operation on the top two stack elements, with the result on top of
// the next row.
func bitwiseRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		k = bitwiseAnd
		a = main.Stack(row, 1)
		b = main.Stack(row, 0)
		z = main.Stack(row+1, 0)
	)
	//
	if main.Opcode(row) == vm.U32XOR {
		k = bitwiseXor
	}
	//
	return encode(alphas, k, a, b, z)
}

// Memory access of a single element at the address on top of the stack.  The
// element is on top of the stack on the next row, and the rest of the word is
// held in the helper registers.
func memoryElementRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		k    = memoryRead
		addr = main.Stack(row, 0)
		word = []goldilocks.Element{main.Stack(row+1, 0), main.Helper(row, 2), main.Helper(row, 1), main.Helper(row, 0)}
	)
	//
	if main.Opcode(row) == vm.MSTORE {
		k = memoryWrite
	}
	//
	return memoryRequest(main, alphas, row, k, addr, word)
}

// Memory access of a word at the address on top of the stack.  The word is on
// top of the stack on the next row, in reverse order.
func memoryWordRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		k    = memoryRead
		addr = main.Stack(row, 0)
	)
	//
	if main.Opcode(row) == vm.MSTOREW {
		k = memoryWrite
	}
	//
	return memoryRequest(main, alphas, row, k, addr, nextStackWord(main, row, 0))
}

// Reads two consecutive words from the address held in s12.
func mstreamRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr  = main.Stack(row, 12)
		word1 = nextStackWord(main, row, 4)
		word2 = nextStackWord(main, row, 0)
	)
	//
	req1 := memoryRequest(main, alphas, row, memoryRead, addr, word1)
	req2 := memoryRequest(main, alphas, row, memoryRead, addr.Add(goldilocks.One()), word2)
	//
	return req1.Mul(req2)
}

// Reads the evaluation point word from the address in s13, and the randomness
// word from the address in s14, both held in the helper registers.
func rcombBaseRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		zero = goldilocks.Zero()
		tz   = []goldilocks.Element{main.Helper(row, 0), main.Helper(row, 1), main.Helper(row, 2), main.Helper(row, 3)}
		a    = []goldilocks.Element{main.Helper(row, 4), main.Helper(row, 5), zero, zero}
	)
	//
	req1 := memoryRequest(main, alphas, row, memoryRead, main.Stack(row, 13), tz)
	req2 := memoryRequest(main, alphas, row, memoryRead, main.Stack(row, 14), a)
	//
	return req1.Mul(req2)
}

func memoryRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint, k kind, addr goldilocks.Element,
	word []goldilocks.Element) goldilocks.Ext {
	return encode(alphas, k, fields([]goldilocks.Element{main.Ctx(row), addr, main.Clk(row)}, word)...)
}

// Permutation of the top twelve stack elements, where the input state is sent
// on the first row of the cycle and the output state on the last.  The address
// of the permutation is held in the first helper register.
func hpermRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr   = main.Helper(row, 0)
		zero   = goldilocks.Zero()
		input  = make([]goldilocks.Element, air.STATE_WIDTH)
		output = make([]goldilocks.Element, air.STATE_WIDTH)
	)
	// The stack holds the state in reverse order
	for i := range uint(air.STATE_WIDTH) {
		input[air.STATE_WIDTH-1-i] = main.Stack(row, i)
		output[air.STATE_WIDTH-1-i] = main.Stack(row+1, i)
	}
	//
	outAddr := addr.Add(element(air.HASH_CYCLE_LEN - 1))
	req1 := encode(alphas, linearHashBegin, fields([]goldilocks.Element{addr, zero}, input)...)
	req2 := encode(alphas, returnState, fields([]goldilocks.Element{outAddr, zero}, output)...)
	//
	return req1.Mul(req2)
}

// Verification of a Merkle path, where the stack holds the leaf value (s0..s3),
// the depth (s4), the index (s5) and the root (s6..s9).
func mpVerifyRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr  = main.Helper(row, 0)
		depth = main.Stack(row, 4)
		index = main.Stack(row, 5)
		value = stackWord(main, row, 0)
		root  = stackWord(main, row, 6)
	)
	//
	outAddr := addr.Add(depth.Mul(element(air.HASH_CYCLE_LEN))).Sub(goldilocks.One())
	req1 := encode(alphas, mpVerifyBegin, fields([]goldilocks.Element{addr, index}, value)...)
	req2 := encode(alphas, returnHash, fields([]goldilocks.Element{outAddr, goldilocks.Zero()}, root)...)
	//
	return req1.Mul(req2)
}

// Update of a Merkle root, where the stack holds the old leaf value (s0..s3),
// the depth (s4), the index (s5), the old root (s6..s9) and the new leaf value
// (s10..s13).  The new root is on top of the stack on the next row.  The old
// path is computed first, immediately followed by the new path.
func mrUpdateRequest(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		zero     = goldilocks.Zero()
		addr     = main.Helper(row, 0)
		depth    = main.Stack(row, 4)
		index    = main.Stack(row, 5)
		oldValue = stackWord(main, row, 0)
		oldRoot  = stackWord(main, row, 6)
		newValue = stackWord(main, row, 10)
		newRoot  = nextStackWord(main, row, 0)
		pathLen  = depth.Mul(element(air.HASH_CYCLE_LEN))
	)
	//
	oldOutAddr := addr.Add(pathLen).Sub(goldilocks.One())
	newAddr := addr.Add(pathLen)
	newOutAddr := newAddr.Add(pathLen).Sub(goldilocks.One())
	//
	req1 := encode(alphas, mrUpdateOldBegin, fields([]goldilocks.Element{addr, index}, oldValue)...)
	req2 := encode(alphas, returnHash, fields([]goldilocks.Element{oldOutAddr, zero}, oldRoot)...)
	req3 := encode(alphas, mrUpdateNewBegin, fields([]goldilocks.Element{newAddr, index}, newValue)...)
	req4 := encode(alphas, returnHash, fields([]goldilocks.Element{newOutAddr, zero}, newRoot)...)
	//
	return req1.Mul(req2).Mul(req3).Mul(req4)
}

// ============================================================================
// Responses
// ============================================================================

// Hasher responses are sent on the first and last rows of each cycle,
// depending on the operation.
func hasherResponse(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		addr  = element(uint64(row) + 1)
		index = main.NodeIndex(row)
		state = hasherState(main, row)
		rate  = state[air.CAPACITY_LEN:]
	)
	//
	switch {
	case main.FlagBP(row):
		return encode(alphas, linearHashBegin, fields([]goldilocks.Element{addr, index}, state)...)
	case main.FlagMP(row):
		return encode(alphas, mpVerifyBegin, fields([]goldilocks.Element{addr, index}, leaf(index, rate))...)
	case main.FlagMV(row):
		return encode(alphas, mrUpdateOldBegin, fields([]goldilocks.Element{addr, index}, leaf(index, rate))...)
	case main.FlagMU(row):
		return encode(alphas, mrUpdateNewBegin, fields([]goldilocks.Element{addr, index}, leaf(index, rate))...)
	case main.FlagHOUT(row):
		return encode(alphas, returnHash, fields([]goldilocks.Element{addr, index}, rate[:air.DIGEST_LEN])...)
	case main.FlagSOUT(row):
		return encode(alphas, returnState, fields([]goldilocks.Element{addr, index}, state)...)
	case main.FlagABP(row):
		// Absorbed elements are the difference between the rates of this row
		// and the next.
		next := hasherState(main, row+1)[air.CAPACITY_LEN:]
		delta := make([]goldilocks.Element, air.RATE_LEN)
		//
		for i := range delta {
			delta[i] = next[i].Sub(rate[i])
		}
		//
		return encode(alphas, linearHashAbsorb, fields([]goldilocks.Element{addr, index}, delta)...)
	default:
		return goldilocks.ExtOne()
	}
}

// The leaf of a Merkle path is in the left half of the rate when the node index
// is even, and in the right half otherwise.
func leaf(index goldilocks.Element, rate []goldilocks.Element) []goldilocks.Element {
	if index.Uint64()&1 == 0 {
		return rate[:air.DIGEST_LEN]
	}
	//
	return rate[air.DIGEST_LEN:]
}

// Bitwise responses are sent on the last row of each cycle.
func bitwiseResponse(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	if row%air.BITWISE_CYCLE_LEN != air.BITWISE_CYCLE_LEN-1 {
		return goldilocks.ExtOne()
	}
	//
	var (
		k = bitwiseAnd
		a = main.ChipletColumn(air.BITWISE, row, air.BITWISE_A_COL)
		b = main.ChipletColumn(air.BITWISE, row, air.BITWISE_B_COL)
		z = main.ChipletColumn(air.BITWISE, row, air.BITWISE_OUTPUT_COL)
	)
	//
	if main.ChipletColumn(air.BITWISE, row, air.BITWISE_SELECTOR_COL).IsOne() {
		k = bitwiseXor
	}
	//
	return encode(alphas, k, a, b, z)
}

// Memory responses are sent on every row.
func memoryResponse(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		k      = memoryWrite
		values = make([]goldilocks.Element, 3+goldilocks.WordSize)
	)
	//
	if main.ChipletColumn(air.MEMORY, row, air.MEMORY_READ_WRITE_COL).IsOne() {
		k = memoryRead
	}
	// ctx, addr, clk and the word are in consecutive columns
	for i := range values {
		values[i] = main.ChipletColumn(air.MEMORY, row, air.MEMORY_CTX_COL+uint(i))
	}
	//
	return encode(alphas, k, values...)
}

// Kernel ROM responses are sent on rows recording an access, and are combined
// with the inclusion of the procedure on the last row of each procedure.
func kernelRomResponse(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	var (
		root   = kernelRoot(main, row)
		access = main.ChipletColumn(air.KERNEL_ROM, row, air.KERNEL_ROM_ACCESS_COL)
		call   = encode(alphas, kernelProc, root...)
	)
	// access·call + (1 - access)
	value := call.MulBase(access).AddBase(goldilocks.One().Sub(access))
	//
	return value.Mul(kernelInclusionResponse(main, alphas, row))
}

// ============================================================================
// Helpers
// ============================================================================

func element(val uint64) goldilocks.Element {
	return goldilocks.New(val)
}

// decoderState returns the decoder's hasher state at a given row.
func decoderState(main *trace.MainTrace, row uint) []goldilocks.Element {
	state := make([]goldilocks.Element, air.NUM_DECODER_HASHER)
	//
	for i := range state {
		state[i] = main.DecoderHasher(row, uint(i))
	}
	//
	return state
}

// hasherState returns the hasher chiplet's state at a given row.
func hasherState(main *trace.MainTrace, row uint) []goldilocks.Element {
	state := make([]goldilocks.Element, air.STATE_WIDTH)
	//
	for i := range state {
		state[i] = main.HasherState(row, uint(i))
	}
	//
	return state
}

// stackWord returns the word held in reverse order by four stack elements,
// starting from a given position.
func stackWord(main *trace.MainTrace, row uint, start uint) []goldilocks.Element {
	return []goldilocks.Element{
		main.Stack(row, start+3), main.Stack(row, start+2), main.Stack(row, start+1), main.Stack(row, start),
	}
}

// nextStackWord returns the word held in reverse order by four stack elements
// of the next row, starting from a given position.
func nextStackWord(main *trace.MainTrace, row uint, start uint) []goldilocks.Element {
	return stackWord(main, row+1, start)
}

// kernelRoot returns the procedure root held by the kernel ROM at a given row.
func kernelRoot(main *trace.MainTrace, row uint) []goldilocks.Element {
	root := make([]goldilocks.Element, goldilocks.WordSize)
	//
	for i := range root {
		root[i] = main.ChipletColumn(air.KERNEL_ROM, row, air.KERNEL_ROM_ROOT_COL+uint(i))
	}
	//
	return root
}
