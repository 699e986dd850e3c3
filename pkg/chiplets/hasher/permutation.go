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

	fr "github.com/consensys/gnark-crypto/field/goldilocks"
	"github.com/consensys/gnark-crypto/field/goldilocks/poseidon2"
	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// State of the hasher.  The first four elements are the capacity, the remaining
// eight the rate.  A digest occupies the first half of the rate.
type State [air.STATE_WIDTH]goldilocks.Element

// Batch is a group of elements absorbed into the rate in one go.
type Batch [air.RATE_LEN]goldilocks.Element

// Digest is the output of a hash.
type Digest = goldilocks.Word

// Each round of the permutation is itself a (small) Poseidon2 instance, with
// round keys derived from a per-round seed.  The rounds are kept separate so
// that the trace can record the state after every round.
var rounds = initRounds()

func initRounds() []*poseidon2.Permutation {
	var perms = make([]*poseidon2.Permutation, air.NUM_ROUNDS)
	//
	for i := range perms {
		seed := fmt.Sprintf("go-chiplets/hasher/round/%d", i)
		perms[i] = poseidon2.NewPermutationWithSeed(air.STATE_WIDTH, 2, 3, seed)
	}
	//
	return perms
}

// ApplyRound applies the given round of the permutation to a state.
func ApplyRound(state *State, round uint) {
	var buf [air.STATE_WIDTH]fr.Element
	//
	for i := range state {
		buf[i] = state[i].Element
	}
	//
	if err := rounds[round].Permutation(buf[:]); err != nil {
		// Width is fixed, hence this is unreachable
		panic(err)
	}
	//
	for i := range state {
		state[i] = goldilocks.Element{Element: buf[i]}
	}
}

// Permute applies all rounds of the permutation to a state.
func Permute(state *State) {
	for i := range uint(air.NUM_ROUNDS) {
		ApplyRound(state, i)
	}
}

// Digest extracts the digest from a given state.
func (s *State) Digest() Digest {
	return Digest(s[air.DIGEST_START : air.DIGEST_START+air.DIGEST_LEN])
}

// Rate returns the rate portion of a given state.
func (s *State) Rate() Batch {
	return Batch(s[air.CAPACITY_LEN:])
}

// Absorb adds a batch of elements into the rate portion of the state.
func (s *State) Absorb(batch Batch) {
	for i, e := range batch {
		s[air.CAPACITY_LEN+i] = s[air.CAPACITY_LEN+i].Add(e)
	}
}

// Merge hashes two digests into one.
func Merge(left, right Digest) Digest {
	return MergeInDomain(left, right, goldilocks.Zero())
}

// MergeInDomain hashes two digests into one, where the domain separates hashes
// of otherwise identical inputs (e.g. a JOIN and a SPLIT over the same
// children).
func MergeInDomain(left, right Digest, domain goldilocks.Element) Digest {
	state := mergeState(left, right, domain)
	Permute(&state)
	//
	return state.Digest()
}

// HashBatches hashes a non-empty sequence of batches.
func HashBatches(batches []Batch) Digest {
	var state State
	//
	if len(batches) == 0 {
		panic("cannot hash an empty sequence of batches")
	}
	//
	for _, batch := range batches {
		state.Absorb(batch)
		Permute(&state)
	}
	//
	return state.Digest()
}

// HashElements hashes an arbitrary sequence of elements, padding the final
// batch with zeros.
func HashElements(elements []goldilocks.Element) Digest {
	return HashBatches(ToBatches(elements))
}

// ToBatches groups a sequence of elements into batches, padding the final batch
// with zeros.  An empty sequence yields a single batch of zeros.
func ToBatches(elements []goldilocks.Element) []Batch {
	var batches = make([]Batch, max(1, (len(elements)+air.RATE_LEN-1)/air.RATE_LEN))
	//
	for i, e := range elements {
		batches[i/air.RATE_LEN][i%air.RATE_LEN] = e
	}
	//
	return batches
}

func mergeState(left, right Digest, domain goldilocks.Element) State {
	var state State
	//
	state[1] = domain
	copy(state[air.CAPACITY_LEN:], left[:])
	copy(state[air.CAPACITY_LEN+air.DIGEST_LEN:], right[:])
	//
	return state
}
