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
package chiplets

import (
	"fmt"

	"github.com/consensys/go-chiplets/pkg/chiplets/bitwise"
	"github.com/consensys/go-chiplets/pkg/chiplets/hasher"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/chiplets/memory"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Chiplets aggregates the hasher, bitwise, memory and kernel ROM chiplets.  It
// exposes the operations the VM executes on chiplets, and determines where each
// chiplet's trace ends up in the chiplets table.  In the table, the chiplets
// appear one after another, followed by at least one row of padding:
//
//	hasher | bitwise | memory | kernel rom | padding
//
// Each segment is identified by a unary pattern over the first four columns,
// namely 0000, 1000, 1100, 1110 and 1111 respectively.
type Chiplets struct {
	// Current clock cycle of the VM
	clk       uint64
	hasher    *hasher.Hasher
	bitwise   *bitwise.Bitwise
	memory    *memory.Memory
	kernelRom *kernelrom.KernelRom
}

// New constructs the chiplets for a given kernel.
func New(kernel kernelrom.Kernel) *Chiplets {
	return &Chiplets{
		0,
		hasher.NewHasher(),
		bitwise.NewBitwise(),
		memory.NewMemory(),
		kernelrom.NewKernelRom(kernel),
	}
}

// ============================================================================
// Addressing
// ============================================================================

// TraceLen returns the number of rows needed by the chiplets, including one
// mandatory row of padding.
func (p *Chiplets) TraceLen() uint {
	return p.PaddingStart() + 1
}

// BitwiseStart returns the first row of the bitwise segment.
func (p *Chiplets) BitwiseStart() uint {
	return p.hasher.TraceLen()
}

// MemoryStart returns the first row of the memory segment.
func (p *Chiplets) MemoryStart() uint {
	return p.BitwiseStart() + p.bitwise.TraceLen()
}

// KernelRomStart returns the first row of the kernel ROM segment.
func (p *Chiplets) KernelRomStart() uint {
	return p.MemoryStart() + p.memory.TraceLen()
}

// PaddingStart returns the first row of padding.
func (p *Chiplets) PaddingStart() uint {
	return p.KernelRomStart() + p.kernelRom.TraceLen()
}

// Lengths returns the trace lengths of the chiplets in table order.
func (p *Chiplets) Lengths() [4]uint {
	return [4]uint{p.hasher.TraceLen(), p.bitwise.TraceLen(), p.memory.TraceLen(), p.kernelRom.TraceLen()}
}

// Kernel returns the kernel these chiplets were constructed with.
func (p *Chiplets) Kernel() kernelrom.Kernel {
	return p.kernelRom.Kernel()
}

// ============================================================================
// Hasher
// ============================================================================

// Permute requests a single permutation of a given state, returning the address
// of the permutation and the resulting state.
func (p *Chiplets) Permute(state hasher.State) (goldilocks.Element, hasher.State) {
	return p.hasher.Permute(state)
}

// BuildMerkleRoot computes the root of a Merkle tree from a leaf value, its
// path and its index, returning the address of the computation and the root.
// This panics when the path is empty or the index is out of bounds.
func (p *Chiplets) BuildMerkleRoot(value goldilocks.Word, path hasher.MerklePath,
	index goldilocks.Element) (goldilocks.Element, goldilocks.Word) {
	return p.hasher.BuildMerkleRoot(value, path, index.Uint64())
}

// UpdateMerkleRoot computes the roots of a Merkle tree before and after
// replacing a leaf.  This panics when the path is empty or the index is out of
// bounds.
func (p *Chiplets) UpdateMerkleRoot(oldValue, newValue goldilocks.Word, path hasher.MerklePath,
	index goldilocks.Element) hasher.MerkleRootUpdate {
	return p.hasher.UpdateMerkleRoot(oldValue, newValue, path, index.Uint64())
}

// HashControlBlock hashes the children of a control block in a given domain,
// returning the address of the hash.  The digest must match the expected hash of
// the block.
func (p *Chiplets) HashControlBlock(h1, h2 goldilocks.Word, domain goldilocks.Element,
	expected goldilocks.Word) goldilocks.Element {
	addr, digest := p.hasher.HashControlBlock(h1, h2, domain)
	checkDigest(digest, expected)
	//
	return addr
}

// HashSpanBlock hashes the operation batches of a basic block, returning the
// address of the hash.  The digest must match the expected hash of the block.
func (p *Chiplets) HashSpanBlock(batches []hasher.Batch, expected goldilocks.Word) goldilocks.Element {
	addr, digest := p.hasher.HashBasicBlock(batches)
	checkDigest(digest, expected)
	//
	return addr
}

// A mismatch means the program and its hash disagree, which cannot be recovered
// from.
func checkDigest(actual, expected goldilocks.Word) {
	if actual != expected {
		panic(fmt.Sprintf("block hash %s does not match expected %s", actual.Hex(), expected.Hex()))
	}
}

// ============================================================================
// Bitwise
// ============================================================================

// U32And computes the bitwise AND of two 32-bit values.  The operands must
// already be known to fit in 32 bits, since they are not checked here.
func (p *Chiplets) U32And(a, b goldilocks.Element) (goldilocks.Element, error) {
	return p.bitwise.U32And(a, b), nil
}

// U32Xor computes the bitwise XOR of two 32-bit values.  The operands must
// already be known to fit in 32 bits, since they are not checked here.
func (p *Chiplets) U32Xor(a, b goldilocks.Element) (goldilocks.Element, error) {
	return p.bitwise.U32Xor(a, b), nil
}

// ============================================================================
// Memory
// ============================================================================

// Memory returns the memory chiplet.
func (p *Chiplets) Memory() *memory.Memory {
	return p.memory
}

// ReadMemory reads the word at a given address of a given context at the
// current clock cycle.
func (p *Chiplets) ReadMemory(ctx uint64, addr uint64) goldilocks.Word {
	return p.memory.Read(ctx, addr, p.clk)
}

// WriteMemory writes a word to a given address of a given context at the
// current clock cycle.
func (p *Chiplets) WriteMemory(ctx uint64, addr uint64, value goldilocks.Word) {
	p.memory.Write(ctx, addr, p.clk, value)
}

// ============================================================================
// Kernel ROM
// ============================================================================

// AccessKernelProc records a call to a kernel procedure, which fails if the
// procedure is not part of the kernel.
func (p *Chiplets) AccessKernelProc(root goldilocks.Word) error {
	return p.kernelRom.AccessProc(root)
}

// ============================================================================
// Clock
// ============================================================================

// Clock returns the current clock cycle.
func (p *Chiplets) Clock() uint64 {
	return p.clk
}

// AdvanceClock moves to the next clock cycle.
func (p *Chiplets) AdvanceClock() {
	p.clk++
}
