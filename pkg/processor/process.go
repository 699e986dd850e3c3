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
package processor

import (
	"fmt"
	"math/bits"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets"
	"github.com/consensys/go-chiplets/pkg/chiplets/hasher"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/chiplets/memory"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util"
	"github.com/consensys/go-chiplets/pkg/util/collection/stack"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/vm"
	log "github.com/sirupsen/logrus"
)

// Process executes a scripted sequence of operations, recording one row of the
// main trace per operation and forwarding chiplet operations to the chiplets.
// Each row holds the state of the VM before its operation executes, such that
// the effect of an operation is visible on the following row.  The operand
// stack is limited to its top sixteen elements, and elements shifted beyond
// them are lost.
type Process struct {
	chiplets *chiplets.Chiplets
	rows     []row
	// Current execution context
	ctx uint64
	// Hasher address of the innermost block
	addr goldilocks.Element
	// Top of the operand stack, with s0 first
	stack [air.STACK_DEPTH]goldilocks.Element
	// Open program blocks, innermost last
	blocks *stack.Stack[block]
	// Set once the trace has been finalized
	finalized bool
}

// row records the state of the VM before a given operation.
type row struct {
	ctx     uint64
	addr    goldilocks.Element
	op      vm.Opcode
	decoder [air.NUM_DECODER_HASHER]goldilocks.Element
	stack   [air.STACK_DEPTH]goldilocks.Element
}

// block is a program block which has been opened but not yet closed.
type block struct {
	op vm.Opcode
	// Hasher address of the block's most recent cycle
	addr goldilocks.Element
	// Address of the enclosing block
	parentAddr goldilocks.Element
	// Context of the enclosing block
	parentCtx uint64
	digest    goldilocks.Word
	// Batches of a basic block still to be absorbed
	batches []hasher.Batch
}

// New constructs a process executing against a given kernel.  Every trace
// starts with a NOOP row.
func New(kernel kernelrom.Kernel) *Process {
	p := &Process{
		chiplets: chiplets.New(kernel),
		blocks:   stack.NewStack[block](),
	}
	//
	p.Noop()
	//
	return p
}

// Chiplets returns the chiplets this process executes against.
func (p *Process) Chiplets() *chiplets.Chiplets {
	return p.chiplets
}

// Clock returns the current clock cycle, which is the number of rows recorded
// so far.
func (p *Process) Clock() uint64 {
	return uint64(len(p.rows))
}

// Context returns the current execution context.
func (p *Process) Context() uint64 {
	return p.ctx
}

// Stack returns the ith element from the top of the operand stack.
func (p *Process) Stack(i uint) goldilocks.Element {
	return p.stack[i]
}

// Depth returns the number of open program blocks.
func (p *Process) Depth() uint {
	return p.blocks.Len()
}

// ============================================================================
// Control flow
// ============================================================================

// Join opens a block which executes two child blocks in sequence.
func (p *Process) Join(first, second goldilocks.Word) {
	p.openControlBlock(vm.JOIN, first, second)
}

// Split opens a block which executes one of two child blocks.
func (p *Process) Split(onTrue, onFalse goldilocks.Word) {
	p.openControlBlock(vm.SPLIT, onTrue, onFalse)
}

// Loop opens a block which executes its body while the top of the stack is
// one.
func (p *Process) Loop(body goldilocks.Word) {
	p.openControlBlock(vm.LOOP, body, goldilocks.Word{})
}

// Repeat starts another iteration of the innermost loop.
func (p *Process) Repeat() {
	if p.blocks.IsEmpty() || p.blocks.Peek(0).op != vm.LOOP {
		panic("repeat outside of loop")
	}
	//
	p.step(vm.REPEAT, decoderWords(p.blocks.Peek(0).digest, goldilocks.Word{}))
}

// Dyn opens a block whose callee is determined at runtime.
func (p *Process) Dyn() {
	p.openControlBlock(vm.DYN, goldilocks.Word{}, goldilocks.Word{})
}

// Call opens a block which executes a procedure in a new context.
func (p *Process) Call(callee goldilocks.Word) {
	// New contexts are identified by the clock cycle after the call
	ctx := p.Clock() + 1
	p.openControlBlock(vm.CALL, callee, goldilocks.Word{})
	p.ctx = ctx
}

// Syscall opens a block which executes a kernel procedure in the root context.
// This fails if the procedure is not part of the kernel.
func (p *Process) Syscall(callee goldilocks.Word) error {
	if err := p.chiplets.AccessKernelProc(callee); err != nil {
		return err
	}
	//
	p.openControlBlock(vm.SYSCALL, callee, goldilocks.Word{})
	p.ctx = 0
	//
	return nil
}

// Span opens a basic block with the given operation batches.  The first batch
// is absorbed immediately, and each remaining batch must be absorbed by
// Respan.
func (p *Process) Span(batches ...hasher.Batch) {
	if len(batches) == 0 {
		panic("basic block has no batches")
	}
	//
	expected := hasher.HashBatches(batches)
	addr := p.chiplets.HashSpanBlock(batches, expected)
	//
	p.step(vm.SPAN, batches[0][:])
	p.blocks.Push(block{vm.SPAN, addr, p.addr, p.ctx, expected, batches[1:]})
	p.addr = addr
}

// Respan absorbs the next batch of the current basic block.
func (p *Process) Respan() {
	if p.blocks.IsEmpty() || p.blocks.Peek(0).op != vm.SPAN || len(p.blocks.Peek(0).batches) == 0 {
		panic("respan without pending batches")
	}
	//
	blk := p.blocks.Top()
	p.step(vm.RESPAN, blk.batches[0][:])
	// The next batch is absorbed in the following cycle
	blk.addr = blk.addr.Add(goldilocks.New(air.HASH_CYCLE_LEN))
	blk.batches = blk.batches[1:]
	p.addr = blk.addr
}

// End closes the innermost block, restoring the address and context of its
// enclosing block.
func (p *Process) End() {
	if p.blocks.IsEmpty() {
		panic("end without open block")
	}
	//
	blk := p.blocks.Pop()
	//
	if len(blk.batches) != 0 {
		panic(fmt.Sprintf("basic block closed with %d batches pending", len(blk.batches)))
	}
	//
	p.step(vm.END, decoderWords(blk.digest, goldilocks.Word{}))
	p.addr = blk.parentAddr
	p.ctx = blk.parentCtx
}

// Open a control block over two children, whose hash is computed with the
// block's opcode as domain.
func (p *Process) openControlBlock(op vm.Opcode, h1, h2 goldilocks.Word) {
	domain := goldilocks.New(uint64(op))
	expected := hasher.MergeInDomain(h1, h2, domain)
	addr := p.chiplets.HashControlBlock(h1, h2, domain, expected)
	//
	p.step(op, decoderWords(h1, h2))
	p.blocks.Push(block{op, addr, p.addr, p.ctx, expected, nil})
	p.addr = addr
}

// ============================================================================
// Stack manipulation
// ============================================================================

// Noop does nothing.
func (p *Process) Noop() {
	p.step(vm.NOOP, nil)
}

// Push pushes a value onto the stack.
func (p *Process) Push(val goldilocks.Element) {
	p.step(vm.PUSH, nil)
	p.shiftRight()
	p.stack[0] = val
}

// Pad pushes a zero onto the stack.
func (p *Process) Pad() {
	p.step(vm.PAD, nil)
	p.shiftRight()
}

// Drop removes the top element of the stack.
func (p *Process) Drop() {
	p.step(vm.DROP, nil)
	p.shiftLeft(0)
}

// PushWord pushes a word onto the stack, such that its first element ends up
// in s3 and its last in s0.
func (p *Process) PushWord(word goldilocks.Word) {
	for _, e := range word {
		p.Push(e)
	}
}

// ============================================================================
// Bitwise
// ============================================================================

// U32And replaces the top two elements (b on top of a) with a AND b.
func (p *Process) U32And() error {
	return p.bitwise(vm.U32AND, p.chiplets.U32And)
}

// U32Xor replaces the top two elements (b on top of a) with a XOR b.
func (p *Process) U32Xor() error {
	return p.bitwise(vm.U32XOR, p.chiplets.U32Xor)
}

func (p *Process) bitwise(op vm.Opcode, fn func(a, b goldilocks.Element) (goldilocks.Element, error)) error {
	z, err := fn(p.stack[1], p.stack[0])
	//
	if err != nil {
		return err
	}
	//
	p.step(op, nil)
	p.shiftLeft(0)
	p.stack[0] = z
	//
	return nil
}

// ============================================================================
// Memory
// ============================================================================

// MLoad replaces the address on top of the stack with the first element of the
// word at that address.  The rest of the word is placed in the helper
// registers.
func (p *Process) MLoad() error {
	addr, err := p.address(0, 0)
	if err != nil {
		return err
	}
	//
	word := p.chiplets.ReadMemory(p.ctx, addr)
	p.step(vm.MLOAD, helpers(word[3], word[2], word[1]))
	p.stack[0] = word[0]
	//
	return nil
}

// MStore pops the address on top of the stack, and writes the element below it
// into the first element of the word at that address.  The rest of the word is
// unchanged, and placed in the helper registers.
func (p *Process) MStore() error {
	addr, err := p.address(0, 0)
	if err != nil {
		return err
	}
	//
	word, _ := p.chiplets.Memory().GetValue(p.ctx, addr)
	word[0] = p.stack[1]
	p.chiplets.WriteMemory(p.ctx, addr, word)
	//
	p.step(vm.MSTORE, helpers(word[3], word[2], word[1]))
	p.shiftLeft(0)
	//
	return nil
}

// MLoadW pops the address on top of the stack, and overwrites the next four
// elements with the word at that address (its first element in s3).
func (p *Process) MLoadW() error {
	addr, err := p.address(0, 0)
	if err != nil {
		return err
	}
	//
	word := p.chiplets.ReadMemory(p.ctx, addr)
	p.step(vm.MLOADW, nil)
	p.shiftLeft(0)
	p.setWord(0, word)
	//
	return nil
}

// MStoreW pops the address on top of the stack, and writes the next four
// elements to that address (s3 being the first element of the word).
func (p *Process) MStoreW() error {
	addr, err := p.address(0, 0)
	if err != nil {
		return err
	}
	//
	p.chiplets.WriteMemory(p.ctx, addr, p.word(1))
	p.step(vm.MSTOREW, nil)
	p.shiftLeft(0)
	//
	return nil
}

// MStream reads two consecutive words from the address held in s12 into the top
// eight elements of the stack, then advances the address by two.
func (p *Process) MStream() error {
	addr, err := p.address(12, 1)
	if err != nil {
		return err
	}
	//
	var (
		word1 = p.chiplets.ReadMemory(p.ctx, addr)
		word2 = p.chiplets.ReadMemory(p.ctx, addr+1)
	)
	//
	p.step(vm.MSTREAM, nil)
	p.setWord(4, word1)
	p.setWord(0, word2)
	p.stack[12] = goldilocks.New(addr + 2)
	//
	return nil
}

// RCombBase reads the word at the address in s13 and the first half of the
// word at the address in s14 into the helper registers, then advances both
// addresses by one.  This fails when the second half of the word at s14 is not
// zero.
func (p *Process) RCombBase() error {
	tzAddr, err := p.address(13, 0)
	if err != nil {
		return err
	}
	//
	aAddr, err := p.address(14, 0)
	if err != nil {
		return err
	}
	// Check before reading, since reads are recorded by the memory chiplet.
	if a, _ := p.chiplets.Memory().GetValue(p.ctx, aAddr); !a[2].IsZero() || !a[3].IsZero() {
		return fmt.Errorf("randomness word %s at address %d is not an extension element", a.Hex(), aAddr)
	}
	//
	var (
		tz = p.chiplets.ReadMemory(p.ctx, tzAddr)
		a  = p.chiplets.ReadMemory(p.ctx, aAddr)
	)
	//
	p.step(vm.RCOMBBASE, helpers(tz[0], tz[1], tz[2], tz[3], a[0], a[1]))
	p.stack[13] = p.stack[13].Add(goldilocks.One())
	p.stack[14] = p.stack[14].Add(goldilocks.One())
	//
	return nil
}

// Read the memory address held in a given stack slot, such that the following
// span addresses are also addressable.
func (p *Process) address(slot uint, span uint64) (uint64, error) {
	addr := p.stack[slot].Uint64()
	//
	if addr > memory.MAX_ADDRESS-span {
		return 0, &AddressError{p.stack[slot]}
	}
	//
	return addr, nil
}

// ============================================================================
// Hasher
// ============================================================================

// HPerm applies the permutation to the top twelve elements of the stack, where
// s11 holds the first element of the state.
func (p *Process) HPerm() {
	var state hasher.State
	//
	for i := range state {
		state[i] = p.stack[air.STATE_WIDTH-1-i]
	}
	//
	addr, result := p.chiplets.Permute(state)
	//
	p.step(vm.HPERM, helpers(addr))
	//
	for i := range result {
		p.stack[air.STATE_WIDTH-1-i] = result[i]
	}
}

// MpVerify checks that the leaf value held in s0..s3 is at the index held in s5
// of a Merkle tree whose depth is held in s4 and whose root is held in s6..s9,
// using a given authentication path.  The stack is unchanged.
func (p *Process) MpVerify(path hasher.MerklePath) error {
	var (
		value = p.word(0)
		root  = p.word(6)
	)
	//
	index, err := p.merkleIndex(path)
	if err != nil {
		return err
	} else if computed := path.ComputeRoot(value, index.Uint64()); computed != root {
		return &MerkleRootError{root, computed}
	}
	//
	addr, _ := p.chiplets.BuildMerkleRoot(value, path, index)
	//
	p.step(vm.MPVERIFY, helpers(addr))
	//
	return nil
}

// MrUpdate replaces the leaf value held in s0..s3 with the value held in
// s10..s13, in a Merkle tree laid out as for MpVerify.  The old leaf value is
// replaced on the stack with the new root.
func (p *Process) MrUpdate(path hasher.MerklePath) error {
	var (
		oldValue = p.word(0)
		oldRoot  = p.word(6)
		newValue = p.word(10)
	)
	//
	index, err := p.merkleIndex(path)
	if err != nil {
		return err
	} else if computed := path.ComputeRoot(oldValue, index.Uint64()); computed != oldRoot {
		return &MerkleRootError{oldRoot, computed}
	}
	//
	update := p.chiplets.UpdateMerkleRoot(oldValue, newValue, path, index)
	//
	p.step(vm.MRUPDATE, helpers(update.Address))
	p.setWord(0, update.NewRoot)
	//
	return nil
}

// Check the depth and index on the stack are consistent with a given path.
// Operations are validated before reaching the hasher, which records every
// path it computes.
func (p *Process) merkleIndex(path hasher.MerklePath) (goldilocks.Element, error) {
	var (
		depth = p.stack[4].Uint64()
		index = p.stack[5]
	)
	//
	if depth == 0 || depth != uint64(path.Depth()) {
		return index, &MerklePathError{depth, index.Uint64(), path.Depth()}
	} else if depth < 64 && index.Uint64() >= 1<<depth {
		return index, &MerklePathError{depth, index.Uint64(), path.Depth()}
	}
	//
	return index, nil
}

// ============================================================================
// Finalization
// ============================================================================

// Finalize pads the main trace with HALT rows to the smallest power of two
// which fits both the executed rows and the chiplets, plus a given number of
// random rows, and composes the chiplets table into it.  Every block must have
// been closed.  A process can only be finalized once.
func (p *Process) Finalize(numRandRows uint) *trace.MainTrace {
	if p.finalized {
		panic("process already finalized")
	} else if !p.blocks.IsEmpty() {
		panic(fmt.Sprintf("%d blocks still open", p.blocks.Len()))
	}
	//
	var (
		stats = util.NewPerfStats()
		// At least one HALT row follows the last operation
		n      = max(uint(len(p.rows))+1, p.chiplets.TraceLen()) + numRandRows
		height = nextPowerOfTwo(n)
	)
	//
	p.finalized = true
	//
	for uint(len(p.rows)) < height {
		p.step(vm.HALT, nil)
	}
	//
	columns := make([][]goldilocks.Element, air.MAIN_TRACE_WIDTH)
	//
	for i := range air.CHIPLETS_COL {
		columns[i] = make([]goldilocks.Element, height)
	}
	//
	for i, r := range p.rows {
		columns[air.CLK_COL][i] = goldilocks.New(uint64(i))
		columns[air.CTX_COL][i] = goldilocks.New(r.ctx)
		columns[air.ADDR_COL][i] = r.addr
		columns[air.OPCODE_COL][i] = goldilocks.New(uint64(r.op))
		//
		for j, h := range r.decoder {
			columns[air.DECODER_HASHER_COL+j][i] = h
		}
		//
		for j, s := range r.stack {
			columns[air.STACK_COL+j][i] = s
		}
	}
	//
	chipletsTrace := p.chiplets.IntoTrace(height, numRandRows)
	copy(columns[air.CHIPLETS_COL:], chipletsTrace.Columns())
	//
	log.Debugf("main trace: %d operations, %d rows", p.executed(), height)
	stats.Log("Main trace finalization")
	//
	return trace.NewMainTrace(columns)
}

// Number of rows which are not HALT padding.
func (p *Process) executed() uint {
	n := uint(len(p.rows))
	//
	for n > 0 && p.rows[n-1].op == vm.HALT {
		n--
	}
	//
	return n
}

// ============================================================================
// Helpers
// ============================================================================

// Record a row for a given operation with the current state, and advance the
// clock.  The operation's effect on the stack must be applied afterwards.
func (p *Process) step(op vm.Opcode, decoder []goldilocks.Element) {
	if p.finalized && op != vm.HALT {
		panic("process already finalized")
	}
	//
	r := row{ctx: p.ctx, addr: p.addr, op: op, stack: p.stack}
	copy(r.decoder[:], decoder)
	p.rows = append(p.rows, r)
	p.chiplets.AdvanceClock()
}

// Shift the stack towards the top, starting from a given position.
func (p *Process) shiftLeft(start uint) {
	copy(p.stack[start:], p.stack[start+1:])
	p.stack[air.STACK_DEPTH-1] = goldilocks.Zero()
}

// Shift the stack away from the top, leaving a zero in s0.
func (p *Process) shiftRight() {
	copy(p.stack[1:], p.stack[:air.STACK_DEPTH-1])
	p.stack[0] = goldilocks.Zero()
}

// Read the word held by four consecutive stack elements, where the element
// deepest in the stack is the first element of the word.
func (p *Process) word(start uint) goldilocks.Word {
	return goldilocks.Word{p.stack[start+3], p.stack[start+2], p.stack[start+1], p.stack[start]}
}

// Write a word into four consecutive stack elements, such that the first element
// of the word is the deepest.
func (p *Process) setWord(start uint, word goldilocks.Word) {
	for i, e := range word {
		p.stack[start+3-uint(i)] = e
	}
}

// Decoder hasher state holding two words.
func decoderWords(h1, h2 goldilocks.Word) []goldilocks.Element {
	return append(h1[:], h2[:]...)
}

// Decoder hasher state whose helper registers hold the given values.
func helpers(values ...goldilocks.Element) []goldilocks.Element {
	decoder := make([]goldilocks.Element, air.HELPER_COL-air.DECODER_HASHER_COL, air.NUM_DECODER_HASHER)
	//
	return append(decoder, values...)
}

func nextPowerOfTwo(n uint) uint {
	if n <= 1 {
		return 1
	}
	//
	return 1 << bits.Len(n-1)
}
