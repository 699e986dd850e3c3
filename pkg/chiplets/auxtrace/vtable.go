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
)

// VirtualTableBuilder builds the virtual table column t_chip, which tracks two
// independent sets.  Firstly, the siblings of a Merkle path are added to the
// table while computing the old root of a Merkle update, and removed while
// computing the new root.  This ensures both roots are computed with the same
// siblings.  Secondly, every kernel procedure is added to the table exactly
// once, irrespective of how many times it was accessed.
type VirtualTableBuilder struct{}

// NewVirtualTableBuilder constructs a virtual table builder.
func NewVirtualTableBuilder() *VirtualTableBuilder {
	return &VirtualTableBuilder{}
}

// Request implementation for the ColumnBuilder interface.  Siblings are removed
// on every cycle of the new path of a Merkle update.
func (p *VirtualTableBuilder) Request(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	if main.FlagMU(row) {
		return siblingTerm(main, alphas, row, false)
	} else if row > 0 && main.FlagMUA(row-1) {
		return siblingTerm(main, alphas, row, true)
	}
	//
	return goldilocks.ExtOne()
}

// Response implementation for the ColumnBuilder interface.  Siblings are added
// on every cycle of the old path of a Merkle update, and kernel procedures on
// the last row of each procedure in the kernel ROM.
func (p *VirtualTableBuilder) Response(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	if main.FlagMV(row) {
		return siblingTerm(main, alphas, row, false)
	} else if row > 0 && main.FlagMVA(row-1) {
		return siblingTerm(main, alphas, row, true)
	}
	//
	return kernelInclusionResponse(main, alphas, row)
}

// ExpectedVirtualTableResult returns the final value of the virtual table
// column for a given kernel.  Since every sibling added is later removed, this
// is the product of the inclusion terms of all kernel procedures.
func ExpectedVirtualTableResult(kernel kernelrom.Kernel, alphas []goldilocks.Ext) goldilocks.Ext {
	checkAlphas(alphas)
	//
	return KernelInclusionProduct(kernel, alphas)
}

// The sibling at a given row is whichever half of the rate does not hold the
// current node, as determined by the low bit of the node index.  For
// continuation cycles, the node index is taken from the last row of the
// previous cycle.
func siblingTerm(main *trace.MainTrace, alphas []goldilocks.Ext, row uint, continuation bool) goldilocks.Ext {
	var (
		index = main.NodeIndex(row)
		rate  = hasherState(main, row)[air.CAPACITY_LEN:]
	)
	//
	if continuation {
		index = main.NodeIndex(row - 1)
	}
	//
	if index.Uint64()&1 == 0 {
		return encode(alphas, siblingRight, fields([]goldilocks.Element{index}, rate[air.DIGEST_LEN:])...)
	}
	//
	return encode(alphas, siblingLeft, fields([]goldilocks.Element{index}, rate[:air.DIGEST_LEN])...)
}

// Kernel procedures are included on the last row of each procedure.
func kernelInclusionResponse(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext {
	if !main.IsKernelAddrChange(row) {
		return goldilocks.ExtOne()
	}
	//
	addr := main.ChipletColumn(air.KERNEL_ROM, row, air.KERNEL_ROM_ADDR_COL)
	//
	return kernelInclusionTerm(alphas, addr, kernelRoot(main, row))
}

func kernelInclusionTerm(alphas []goldilocks.Ext, addr goldilocks.Element, root []goldilocks.Element) goldilocks.Ext {
	return encode(alphas, kernelInclusion, fields([]goldilocks.Element{addr}, root)...)
}
