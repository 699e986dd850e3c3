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
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

func Test_Hasher_01(t *testing.T) {
	var (
		hasher = NewHasher()
		state  State
	)
	//
	for i := range state {
		state[i] = goldilocks.New(uint64(i))
	}
	//
	addr, result := hasher.Permute(state)
	expected := state
	Permute(&expected)
	//
	assert.Equal(t, uint64(1), addr.Uint64())
	assert.Equal(t, expected, result)
	assert.Equal(t, uint(air.HASH_CYCLE_LEN), hasher.TraceLen())
	checkSelectors(t, hasher, 0, air.LINEAR_HASH)
	checkSelectors(t, hasher, 6, air.LINEAR_HASH)
	checkSelectors(t, hasher, 7, air.RETURN_STATE)
	// first row holds the input, last row the output
	for i := range state {
		assert.Equal(t, state[i], hasher.Trace().Get(0, air.NUM_SELECTORS+uint(i)))
		assert.Equal(t, result[i], hasher.Trace().Get(7, air.NUM_SELECTORS+uint(i)))
	}
	// Second permutation starts at the next cycle
	addr, _ = hasher.Permute(state)
	assert.Equal(t, uint64(9), addr.Uint64())
}

func Test_Hasher_02(t *testing.T) {
	var (
		hasher = NewHasher()
		h1     = goldilocks.NewWord(1, 2, 3, 4)
		h2     = goldilocks.NewWord(5, 6, 7, 8)
		domain = goldilocks.New(87)
	)
	//
	addr, digest := hasher.HashControlBlock(h1, h2, domain)
	//
	assert.Equal(t, uint64(1), addr.Uint64())
	assert.Equal(t, MergeInDomain(h1, h2, domain), digest)
	assert.NotEqual(t, Merge(h1, h2), digest)
	checkSelectors(t, hasher, 7, air.RETURN_HASH)
}

func Test_Hasher_03(t *testing.T) {
	var (
		hasher   = NewHasher()
		elements = make([]goldilocks.Element, 20)
	)
	//
	for i := range elements {
		elements[i] = goldilocks.New(uint64(100 + i))
	}
	//
	batches := ToBatches(elements)
	addr, digest := hasher.HashBasicBlock(batches)
	//
	assert.Equal(t, 3, len(batches))
	assert.Equal(t, uint64(1), addr.Uint64())
	assert.Equal(t, HashElements(elements), digest)
	assert.Equal(t, uint(3*air.HASH_CYCLE_LEN), hasher.TraceLen())
	checkSelectors(t, hasher, 0, air.LINEAR_HASH)
	checkSelectors(t, hasher, 7, air.LINEAR_HASH)
	checkSelectors(t, hasher, 8, air.LINEAR_HASH.Continuation())
	checkSelectors(t, hasher, 15, air.LINEAR_HASH)
	checkSelectors(t, hasher, 16, air.LINEAR_HASH.Continuation())
	checkSelectors(t, hasher, 23, air.RETURN_HASH)
	// Absorption is additive in the rate
	for i := range uint(air.RATE_LEN) {
		col := air.NUM_SELECTORS + air.CAPACITY_LEN + i
		diff := hasher.Trace().Get(8, col).Sub(hasher.Trace().Get(7, col))
		assert.Equal(t, batches[1][i], diff)
	}
}

func Test_Hasher_04(t *testing.T) {
	var (
		hasher = NewHasher()
		tree   = newTestTree(3)
		index  = uint64(5)
	)
	//
	addr, root := hasher.BuildMerkleRoot(tree.Leaf(index), tree.Path(index), index)
	//
	assert.Equal(t, uint64(1), addr.Uint64())
	assert.Equal(t, tree.Root(), root)
	assert.Equal(t, uint(3*air.HASH_CYCLE_LEN), hasher.TraceLen())
	checkSelectors(t, hasher, 0, air.MP_VERIFY)
	checkSelectors(t, hasher, 7, air.MP_VERIFY)
	checkSelectors(t, hasher, 8, air.MP_VERIFY.Continuation())
	checkSelectors(t, hasher, 23, air.RETURN_HASH)
	// node index
	checkIndex(t, hasher, 0, 5)
	checkIndex(t, hasher, 1, 2)
	checkIndex(t, hasher, 7, 2)
	checkIndex(t, hasher, 8, 2)
	checkIndex(t, hasher, 9, 1)
	checkIndex(t, hasher, 16, 1)
	checkIndex(t, hasher, 23, 0)
	// odd index places leaf in the right half
	for i := range uint(air.DIGEST_LEN) {
		col := air.NUM_SELECTORS + air.DIGEST_START + air.DIGEST_LEN + i
		assert.Equal(t, tree.Leaf(index)[i], hasher.Trace().Get(0, col))
	}
}

func Test_Hasher_05(t *testing.T) {
	var (
		hasher   = NewHasher()
		tree     = newTestTree(4)
		index    = uint64(6)
		oldValue = tree.Leaf(index)
		newValue = goldilocks.NewWord(9, 9, 9, 9)
		path     = tree.Path(index)
		oldRoot  = tree.Root()
	)
	//
	update := hasher.UpdateMerkleRoot(oldValue, newValue, path, index)
	newRoot := tree.UpdateLeaf(index, newValue)
	//
	assert.Equal(t, uint64(1), update.Address.Uint64())
	assert.Equal(t, oldRoot, update.OldRoot)
	assert.Equal(t, newRoot, update.NewRoot)
	assert.Equal(t, uint(2*4*air.HASH_CYCLE_LEN), hasher.TraceLen())
	checkSelectors(t, hasher, 0, air.MR_UPDATE_OLD)
	checkSelectors(t, hasher, 31, air.RETURN_HASH)
	checkSelectors(t, hasher, 32, air.MR_UPDATE_NEW)
	checkSelectors(t, hasher, 39, air.MR_UPDATE_NEW)
	checkSelectors(t, hasher, 40, air.MR_UPDATE_NEW.Continuation())
	checkSelectors(t, hasher, 63, air.RETURN_HASH)
}

func Test_Hasher_06(t *testing.T) {
	var (
		hasher = NewHasher()
		tree   = newTestTree(2)
	)
	// Empty path
	assert.Panics(t, func() { hasher.BuildMerkleRoot(tree.Leaf(0), nil, 0) })
	// Index out of bounds
	assert.Panics(t, func() { hasher.BuildMerkleRoot(tree.Leaf(0), tree.Path(0), 4) })
	assert.Panics(t, func() { hasher.UpdateMerkleRoot(tree.Leaf(0), tree.Leaf(1), tree.Path(0), 7) })
	// Nothing recorded
	assert.Equal(t, uint(0), hasher.TraceLen())
}

func Test_MerkleTree_01(t *testing.T) {
	tree := newTestTree(3)
	//
	assert.Equal(t, uint(3), tree.Depth())
	//
	for i := range uint64(8) {
		path := tree.Path(i)
		assert.Equal(t, uint(3), path.Depth())
		assert.Equal(t, tree.Root(), path.ComputeRoot(tree.Leaf(i), i))
	}
}

// ============================================================================
// Helpers
// ============================================================================

func newTestTree(depth uint) *MerkleTree {
	leaves := make([]Digest, 1<<depth)
	//
	for i := range leaves {
		leaves[i] = goldilocks.NewWord(uint64(i), uint64(i+1), uint64(i+2), uint64(i+3))
	}
	//
	return NewMerkleTree(leaves)
}

func checkSelectors(t *testing.T, hasher *Hasher, row uint, expected air.Selectors) {
	for i := range uint(air.NUM_SELECTORS) {
		assert.Equal(t, expected[i], hasher.Trace().Get(row, i).Uint64(), "selector %d at row %d", i, row)
	}
}

func checkIndex(t *testing.T, hasher *Hasher, row uint, expected uint64) {
	actual := hasher.Trace().Get(row, air.HASHER_TRACE_WIDTH-1).Uint64()
	assert.Equal(t, expected, actual, "node index at row %d", row)
}
