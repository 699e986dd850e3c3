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
package kernelrom

import (
	"fmt"
	"slices"

	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// MAX_KERNEL_PROCEDURES is the largest number of procedures a kernel can have.
const MAX_KERNEL_PROCEDURES = 1 << 8

// Kernel is the set of procedures which can be invoked with a SYSCALL.
// Procedures are identified by the root of their program, and are kept sorted
// without duplicates so that every procedure has a unique address.
type Kernel struct {
	procedures []goldilocks.Word
}

// NewKernel constructs a kernel from a given set of procedure roots.
func NewKernel(procedures ...goldilocks.Word) (Kernel, error) {
	procs := slices.Clone(procedures)
	slices.SortFunc(procs, compareWords)
	procs = slices.Compact(procs)
	//
	if len(procs) > MAX_KERNEL_PROCEDURES {
		return Kernel{}, fmt.Errorf("kernel has %d procedures (maximum is %d)", len(procs), MAX_KERNEL_PROCEDURES)
	}
	//
	return Kernel{procs}, nil
}

// Procedures returns the procedure roots of this kernel, in address order.
func (k Kernel) Procedures() []goldilocks.Word {
	return k.procedures
}

// Len returns the number of procedures in this kernel.
func (k Kernel) Len() uint {
	return uint(len(k.procedures))
}

// IsEmpty checks whether this kernel has any procedures.
func (k Kernel) IsEmpty() bool {
	return len(k.procedures) == 0
}

// Contains checks whether a given procedure is part of this kernel.
func (k Kernel) Contains(root goldilocks.Word) bool {
	_, ok := k.Address(root)
	return ok
}

// Address returns the address of a given procedure within this kernel, along
// with a flag indicating whether it was found.
func (k Kernel) Address(root goldilocks.Word) (uint, bool) {
	i, ok := slices.BinarySearchFunc(k.procedures, root, compareWords)
	//
	return uint(i), ok
}

func compareWords(x, y goldilocks.Word) int {
	for i := range x {
		if c := x[i].Cmp(y[i]); c != 0 {
			return c
		}
	}
	//
	return 0
}
