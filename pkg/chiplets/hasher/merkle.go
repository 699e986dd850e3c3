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
	"fmt"
	"math/bits"
)

// MerklePath is the sequence of siblings from a leaf to the root of a Merkle
// tree, with the leaf's sibling first.
type MerklePath []Digest

// Depth returns the depth of the tree implied by this path.
func (p MerklePath) Depth() uint {
	return uint(len(p))
}

// ComputeRoot computes the root of the tree implied by this path for a given
// leaf value at a given index.
func (p MerklePath) ComputeRoot(value Digest, index uint64) Digest {
	checkMerkleInput(p, index)
	//
	node := value
	//
	for _, sibling := range p {
		if index&1 == 0 {
			node = Merge(node, sibling)
		} else {
			node = Merge(sibling, node)
		}
		//
		index >>= 1
	}
	//
	return node
}

// MerkleTree is a complete binary tree over a power-of-two number of leaves.
type MerkleTree struct {
	// nodes[1] is the root, and the children of node i are 2i and 2i+1
	nodes []Digest
}

// NewMerkleTree constructs a tree over a given set of leaves, whose number must
// be a power of two greater than one.
func NewMerkleTree(leaves []Digest) *MerkleTree {
	n := len(leaves)
	//
	if n < 2 || bits.OnesCount(uint(n)) != 1 {
		panic(fmt.Sprintf("number of leaves must be a power of two (was %d)", n))
	}
	//
	nodes := make([]Digest, 2*n)
	copy(nodes[n:], leaves)
	//
	for i := n - 1; i > 0; i-- {
		nodes[i] = Merge(nodes[2*i], nodes[2*i+1])
	}
	//
	return &MerkleTree{nodes}
}

// Depth returns the depth of this tree.
func (p *MerkleTree) Depth() uint {
	return uint(bits.TrailingZeros(uint(len(p.nodes) / 2)))
}

// Root returns the root of this tree.
func (p *MerkleTree) Root() Digest {
	return p.nodes[1]
}

// Leaf returns the leaf at a given index.
func (p *MerkleTree) Leaf(index uint64) Digest {
	return p.nodes[p.position(index)]
}

// Path returns the authentication path for the leaf at a given index.
func (p *MerkleTree) Path(index uint64) MerklePath {
	var path MerklePath
	//
	for pos := p.position(index); pos > 1; pos >>= 1 {
		path = append(path, p.nodes[pos^1])
	}
	//
	return path
}

// UpdateLeaf replaces the leaf at a given index, and returns the new root.
func (p *MerkleTree) UpdateLeaf(index uint64, value Digest) Digest {
	pos := p.position(index)
	p.nodes[pos] = value
	//
	for pos >>= 1; pos > 0; pos >>= 1 {
		p.nodes[pos] = Merge(p.nodes[2*pos], p.nodes[2*pos+1])
	}
	//
	return p.Root()
}

func (p *MerkleTree) position(index uint64) uint64 {
	n := uint64(len(p.nodes) / 2)
	//
	if index >= n {
		panic(fmt.Sprintf("leaf index %d out of bounds (%d leaves)", index, n))
	}
	//
	return n + index
}

// A Merkle path must be non-empty, and the index must address a leaf of the tree
// implied by the path.
func checkMerkleInput(path MerklePath, index uint64) {
	if len(path) == 0 {
		panic("merkle path cannot be empty")
	} else if len(path) < 64 && index >= uint64(1)<<len(path) {
		panic(fmt.Sprintf("merkle index %d out of bounds for depth %d", index, len(path)))
	}
}
