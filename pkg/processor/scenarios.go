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
	"maps"
	"slices"

	"github.com/consensys/go-chiplets/pkg/chiplets/hasher"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/vm"
)

// Scenario is a scripted program executed against a fixed kernel.
type Scenario struct {
	Description string
	// Roots of the kernel procedures
	Kernel []goldilocks.Word
	// Run executes the program on a given process.  Every block opened must be
	// closed.
	Run func(p *Process) error
}

// Execute runs this scenario, and finalizes the resulting trace with a given
// number of random rows.
func (s Scenario) Execute(numRandRows uint) (*trace.MainTrace, kernelrom.Kernel, error) {
	kernel, err := kernelrom.NewKernel(s.Kernel...)
	//
	if err != nil {
		return nil, kernel, err
	}
	//
	p := New(kernel)
	//
	if err := s.Run(p); err != nil {
		return nil, kernel, err
	}
	//
	return p.Finalize(numRandRows), kernel, nil
}

// Scenarios holds the built-in scenarios by name.
var Scenarios = map[string]Scenario{
	"u32and": {
		"single bitwise AND of 0b1010 and 0b0110", nil, runU32And,
	},
	"bitwise": {
		"sequence of bitwise AND and XOR operations", nil, runBitwise,
	},
	"memory": {
		"element and word memory accesses, streaming and random linear combination", nil, runMemory,
	},
	"hperm": {
		"two permutations of the top of the stack", nil, runHPerm,
	},
	"merkle": {
		"Merkle path verification followed by a root update", nil, runMerkle,
	},
	"blocks": {
		"nested control blocks including a multi-batch basic block and a call", nil, runBlocks,
	},
	"kernel": {
		"repeated system calls into a kernel of three procedures", KernelProcedures(3), runKernel,
	},
	"all": {
		"every scenario in sequence", KernelProcedures(3), runAll,
	},
}

// ScenarioNames returns the names of all built-in scenarios in sorted order.
func ScenarioNames() []string {
	return slices.Sorted(maps.Keys(Scenarios))
}

// KernelProcedures returns n distinct procedure roots.
func KernelProcedures(n uint) []goldilocks.Word {
	roots := make([]goldilocks.Word, n)
	//
	for i := range roots {
		roots[i] = hasher.HashElements([]goldilocks.Element{goldilocks.New(uint64(i))})
	}
	//
	return roots
}

// ============================================================================
// Programs
// ============================================================================

func runU32And(p *Process) error {
	p.Span(batchOf(vm.PUSH, vm.PUSH, vm.U32AND))
	p.Push(goldilocks.New(0b1010))
	p.Push(goldilocks.New(0b0110))
	//
	if err := p.U32And(); err != nil {
		return err
	}
	//
	p.End()
	//
	return nil
}

func runBitwise(p *Process) error {
	p.Span(batchOf(vm.PUSH, vm.PUSH, vm.U32AND, vm.PUSH, vm.U32XOR, vm.PUSH, vm.U32AND))
	p.Push(goldilocks.New(0xdeadbeef))
	p.Push(goldilocks.New(0x0f0f0f0f))
	//
	if err := p.U32And(); err != nil {
		return err
	}
	//
	p.Push(goldilocks.New(0xffffffff))
	//
	if err := p.U32Xor(); err != nil {
		return err
	}
	//
	p.Push(goldilocks.New(0x12345678))
	//
	if err := p.U32And(); err != nil {
		return err
	}
	//
	p.End()
	//
	return nil
}

func runMemory(p *Process) error {
	p.Span(batchOf(vm.PUSH, vm.MSTOREW, vm.PUSH, vm.MSTORE, vm.MLOAD, vm.MLOADW, vm.MSTREAM),
		batchOf(vm.RCOMBBASE, vm.DROP))
	// mem[7] = [1, 2, 3, 4]
	p.PushWord(goldilocks.NewWord(1, 2, 3, 4))
	p.Push(goldilocks.New(7))
	//
	if err := p.MStoreW(); err != nil {
		return err
	}
	// mem[8] = [9, 0, 0, 0]
	p.Push(goldilocks.New(9))
	p.Push(goldilocks.New(8))
	//
	if err := p.MStore(); err != nil {
		return err
	}
	// s0 = mem[7][0]
	p.Push(goldilocks.New(7))
	//
	if err := p.MLoad(); err != nil {
		return err
	}
	// s0..s3 = mem[8]
	p.Push(goldilocks.New(8))
	//
	if err := p.MLoadW(); err != nil {
		return err
	}
	// s0..s7 = mem[7..8], with the address in s12
	for range 8 {
		p.Pad()
	}
	//
	p.Push(goldilocks.New(7))
	//
	for range 12 {
		p.Pad()
	}
	//
	if err := p.MStream(); err != nil {
		return err
	}
	//
	p.Respan()
	// Evaluation point word at mem[7], randomness at mem[8]
	p.Push(goldilocks.New(8))
	p.Push(goldilocks.New(7))
	//
	for range 13 {
		p.Pad()
	}
	//
	if err := p.RCombBase(); err != nil {
		return err
	}
	//
	p.Drop()
	p.End()
	//
	return nil
}

func runHPerm(p *Process) error {
	p.Span(batchOf(vm.PUSH, vm.HPERM, vm.HPERM))
	//
	for i := range 12 {
		p.Push(goldilocks.New(uint64(i)))
	}
	//
	p.HPerm()
	p.HPerm()
	p.End()
	//
	return nil
}

func runMerkle(p *Process) error {
	var (
		tree     = merkleTree(8)
		index    = uint64(5)
		path     = tree.Path(index)
		newValue = goldilocks.NewWord(100, 200, 300, 400)
	)
	//
	p.Span(batchOf(vm.PUSH, vm.MPVERIFY, vm.PUSH, vm.MRUPDATE))
	// Verify the leaf
	pushMerkleArgs(p, tree.Leaf(index), tree.Depth(), index, tree.Root())
	//
	if err := p.MpVerify(path); err != nil {
		return err
	}
	// Update the leaf, with the new value below the arguments
	p.PushWord(newValue)
	pushMerkleArgs(p, tree.Leaf(index), tree.Depth(), index, tree.Root())
	//
	if err := p.MrUpdate(path); err != nil {
		return err
	}
	//
	p.End()
	//
	return nil
}

func runBlocks(p *Process) error {
	var (
		body   = hasher.HashElements([]goldilocks.Element{goldilocks.New(uint64(vm.U32XOR))})
		callee = hasher.HashElements([]goldilocks.Element{goldilocks.New(uint64(vm.MSTOREW))})
	)
	//
	p.Join(body, callee)
	p.Split(body, callee)
	// A basic block spanning three batches
	p.Span(batchOf(vm.PUSH, vm.PUSH), batchOf(vm.U32XOR), batchOf(vm.DROP))
	p.Push(goldilocks.New(3))
	p.Push(goldilocks.New(5))
	p.Respan()
	//
	if err := p.U32Xor(); err != nil {
		return err
	}
	//
	p.Respan()
	p.Drop()
	p.End()
	p.End()
	// A loop executed twice
	p.Loop(body)
	p.Span(batchOf(vm.NOOP))
	p.Noop()
	p.End()
	p.Repeat()
	p.Span(batchOf(vm.NOOP))
	p.Noop()
	p.End()
	p.End()
	// A call into a new context, whose memory is separate
	p.Call(callee)
	p.Span(batchOf(vm.PUSH, vm.MSTOREW))
	p.PushWord(goldilocks.NewWord(5, 6, 7, 8))
	p.Push(goldilocks.New(0))
	//
	if err := p.MStoreW(); err != nil {
		return err
	}
	//
	p.End()
	p.End()
	//
	p.Dyn()
	p.Span(batchOf(vm.NOOP))
	p.Noop()
	p.End()
	p.End()
	//
	p.End()
	//
	return nil
}

func runKernel(p *Process) error {
	procs := KernelProcedures(3)
	//
	p.Join(procs[0], procs[2])
	// The first procedure is called twice, the second never
	for _, root := range []goldilocks.Word{procs[0], procs[2], procs[0]} {
		if err := p.Syscall(root); err != nil {
			return err
		}
		//
		p.Span(batchOf(vm.NOOP))
		p.Noop()
		p.End()
		p.End()
	}
	//
	p.End()
	//
	return nil
}

func runAll(p *Process) error {
	for _, fn := range []func(*Process) error{runU32And, runBitwise, runMemory, runHPerm, runMerkle, runBlocks,
		runKernel} {
		if err := fn(p); err != nil {
			return err
		}
	}
	//
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

// batchOf packs a sequence of operations into a batch, one per element.
func batchOf(ops ...vm.Opcode) hasher.Batch {
	var batch hasher.Batch
	//
	for i, op := range ops {
		batch[i] = goldilocks.New(uint64(op))
	}
	//
	return batch
}

// merkleTree constructs a tree over n distinct leaves.
func merkleTree(n uint64) *hasher.MerkleTree {
	leaves := make([]hasher.Digest, n)
	//
	for i := range leaves {
		leaves[i] = goldilocks.NewWord(uint64(i), uint64(i)+1, uint64(i)+2, uint64(i)+3)
	}
	//
	return hasher.NewMerkleTree(leaves)
}

// Push the arguments of a Merkle operation, such that the leaf value is in
// s0..s3, the depth in s4, the index in s5 and the root in s6..s9.
func pushMerkleArgs(p *Process, value goldilocks.Word, depth uint, index uint64, root goldilocks.Word) {
	p.PushWord(root)
	p.Push(goldilocks.New(index))
	p.Push(goldilocks.New(uint64(depth)))
	p.PushWord(value)
}
