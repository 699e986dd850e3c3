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

	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// AddressError is returned when a memory operation refers to an address beyond
// the addressable range of a context.
type AddressError struct {
	Address goldilocks.Element
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("memory address %s out of bounds", e.Address.String())
}

// MerklePathError is returned when the depth or index of a Merkle operation is
// inconsistent with its authentication path.
type MerklePathError struct {
	Depth     uint64
	Index     uint64
	PathDepth uint
}

func (e *MerklePathError) Error() string {
	return fmt.Sprintf("invalid merkle path (depth %d, index %d, path of length %d)", e.Depth, e.Index, e.PathDepth)
}

// MerkleRootError is returned when the root computed from a leaf and its path
// differs from the root on the stack.
type MerkleRootError struct {
	Expected goldilocks.Word
	Actual   goldilocks.Word
}

func (e *MerkleRootError) Error() string {
	return fmt.Sprintf("merkle root %s does not match expected %s", e.Actual.Hex(), e.Expected.Hex())
}
