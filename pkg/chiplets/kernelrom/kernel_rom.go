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

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// ProcNotFoundError is returned when accessing a procedure which is not part of
// the kernel.
type ProcNotFoundError struct {
	Root goldilocks.Word
}

func (e *ProcNotFoundError) Error() string {
	return fmt.Sprintf("procedure %s is not part of the configured kernel", e.Root.Hex())
}

// KernelRom is the chiplet which records accesses to kernel procedures.  Every
// procedure occupies one row per access, and at least one row even when never
// accessed, such that the trace holds every procedure of the kernel.
type KernelRom struct {
	kernel   Kernel
	accesses []uint
	traceLen uint
}

// NewKernelRom constructs a kernel ROM for a given kernel.
func NewKernelRom(kernel Kernel) *KernelRom {
	return &KernelRom{kernel, make([]uint, kernel.Len()), kernel.Len()}
}

// Kernel returns the kernel of this ROM.
func (p *KernelRom) Kernel() Kernel {
	return p.kernel
}

// TraceLen returns the number of rows needed by this chiplet.
func (p *KernelRom) TraceLen() uint {
	return p.traceLen
}

// Accesses returns the number of times a given procedure was accessed.
func (p *KernelRom) Accesses(root goldilocks.Word) uint {
	if addr, ok := p.kernel.Address(root); ok {
		return p.accesses[addr]
	}
	//
	return 0
}

// AccessProc records an access to a given procedure, which must be part of the
// kernel.
func (p *KernelRom) AccessProc(root goldilocks.Word) error {
	addr, ok := p.kernel.Address(root)
	//
	if !ok {
		return &ProcNotFoundError{root}
	}
	// The first access reuses the row reserved for the procedure.
	if p.accesses[addr] > 0 {
		p.traceLen++
	}
	//
	p.accesses[addr]++
	//
	return nil
}

// FillTrace writes the procedure rows into a given fragment, in address order.
func (p *KernelRom) FillTrace(fragment *trace.Fragment) {
	var row uint
	//
	for addr, root := range p.kernel.Procedures() {
		n := max(1, p.accesses[addr])
		//
		for range n {
			fragment.Set(row, air.KERNEL_ROM_ACCESS_COL, goldilocks.Bool(p.accesses[addr] > 0))
			fragment.Set(row, air.KERNEL_ROM_ADDR_COL, goldilocks.New(uint64(addr)))
			//
			for i, r := range root {
				fragment.Set(row, air.KERNEL_ROM_ROOT_COL+uint(i), r)
			}
			//
			row++
		}
	}
}
