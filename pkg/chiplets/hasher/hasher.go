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
package hasher

import (
	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// Hasher is the chiplet which computes permutations, program block hashes and
// Merkle paths.  Every operation occupies one or more 8-row cycles, and is
// identified by the address of its first row, which is the row index plus one.
type Hasher struct {
	trace Trace
}

// MerkleRootUpdate is the result of updating a leaf of a Merkle tree.
type MerkleRootUpdate struct {
	// Address of the first row of the update.
	Address goldilocks.Element
	// Root of the tree before the update.
	OldRoot Digest
	// Root of the tree after the update.
	NewRoot Digest
}

// NewHasher constructs an empty hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// TraceLen returns the number of rows needed by this chiplet.
func (p *Hasher) TraceLen() uint {
	return p.trace.Len()
}

// Trace returns the rows recorded so far.
func (p *Hasher) Trace() *Trace {
	return &p.trace
}

// Permute applies a single permutation to a given state, returning the address
// of the permutation along with the resulting state.
func (p *Hasher) Permute(state State) (goldilocks.Element, State) {
	addr := p.nextAddress()
	p.trace.appendPermutation(&state, air.LINEAR_HASH, air.RETURN_STATE, 0)
	//
	return addr, state
}

// HashControlBlock hashes the two children of a control block in a given
// domain, returning the address of the hash and the resulting digest.
func (p *Hasher) HashControlBlock(h1, h2 Digest, domain goldilocks.Element) (goldilocks.Element, Digest) {
	addr := p.nextAddress()
	state := mergeState(h1, h2, domain)
	p.trace.appendPermutation(&state, air.LINEAR_HASH, air.RETURN_HASH, 0)
	//
	return addr, state.Digest()
}

// HashBasicBlock hashes the operation batches of a basic block, absorbing one
// batch per cycle.  This returns the address of the hash and the resulting
// digest.
func (p *Hasher) HashBasicBlock(batches []Batch) (goldilocks.Element, Digest) {
	var (
		addr  = p.nextAddress()
		state State
		n     = len(batches)
	)
	//
	if n == 0 {
		panic("basic block has no batches")
	}
	//
	for i, batch := range batches {
		init, final := air.LINEAR_HASH, air.LINEAR_HASH
		//
		if i > 0 {
			init = init.Continuation()
		}
		//
		if i == n-1 {
			final = air.RETURN_HASH
		}
		//
		state.Absorb(batch)
		p.trace.appendPermutation(&state, init, final, 0)
	}
	//
	return addr, state.Digest()
}

// BuildMerkleRoot computes the root of a Merkle tree from a leaf value, its
// authentication path and its index.  The path must be non-empty, and the index
// must be within bounds for the depth of the path.
func (p *Hasher) BuildMerkleRoot(value Digest, path MerklePath, index uint64) (goldilocks.Element, Digest) {
	addr := p.nextAddress()
	root := p.verifyMerklePath(value, path, index, air.MP_VERIFY)
	//
	return addr, root
}

// UpdateMerkleRoot computes the roots of a Merkle tree before and after
// replacing a leaf.  The old path is computed first, immediately followed by the
// new path.
func (p *Hasher) UpdateMerkleRoot(oldValue, newValue Digest, path MerklePath, index uint64) MerkleRootUpdate {
	addr := p.nextAddress()
	oldRoot := p.verifyMerklePath(oldValue, path, index, air.MR_UPDATE_OLD)
	newRoot := p.verifyMerklePath(newValue, path, index, air.MR_UPDATE_NEW)
	//
	return MerkleRootUpdate{addr, oldRoot, newRoot}
}

// FillTrace writes the recorded rows into a given fragment.
func (p *Hasher) FillTrace(fragment *trace.Fragment) {
	p.trace.Fill(fragment)
}

// Compute a Merkle root one level per cycle.  At each level, the current node
// and its sibling are placed into the rate according to the low bit of the
// node index.
func (p *Hasher) verifyMerklePath(value Digest, path MerklePath, index uint64, sel air.Selectors) Digest {
	checkMerkleInput(path, index)
	//
	node := value
	//
	for i, sibling := range path {
		var (
			state State
			init  = sel
			final = sel
		)
		//
		if index&1 == 0 {
			state = mergeState(node, sibling, goldilocks.Zero())
		} else {
			state = mergeState(sibling, node, goldilocks.Zero())
		}
		//
		if i > 0 {
			init = sel.Continuation()
		}
		//
		if i == len(path)-1 {
			final = air.RETURN_HASH
		}
		//
		p.trace.appendPermutation(&state, init, final, index)
		node = state.Digest()
		index >>= 1
	}
	//
	return node
}

func (p *Hasher) nextAddress() goldilocks.Element {
	return goldilocks.New(uint64(p.trace.Len()) + 1)
}
