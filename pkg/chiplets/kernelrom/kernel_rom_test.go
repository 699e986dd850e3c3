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
	"errors"
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

var (
	proc1 = goldilocks.NewWord(1, 2, 3, 4)
	proc2 = goldilocks.NewWord(5, 6, 7, 8)
	proc3 = goldilocks.NewWord(0, 9, 9, 9)
)

func Test_Kernel_01(t *testing.T) {
	kernel, err := NewKernel(proc2, proc1, proc3, proc2)
	assert.NoError(t, err)
	// sorted and deduplicated
	assert.Equal(t, uint(3), kernel.Len())
	assert.Equal(t, []goldilocks.Word{proc3, proc1, proc2}, kernel.Procedures())
	//
	addr, ok := kernel.Address(proc1)
	assert.Equal(t, true, ok)
	assert.Equal(t, uint(1), addr)
	assert.Equal(t, false, kernel.Contains(goldilocks.NewWord(1, 1, 1, 1)))
}

func Test_Kernel_02(t *testing.T) {
	var procs []goldilocks.Word
	//
	for i := range uint64(MAX_KERNEL_PROCEDURES + 1) {
		procs = append(procs, goldilocks.NewWord(i, 0, 0, 0))
	}
	//
	_, err := NewKernel(procs...)
	assert.NotEqual(t, nil, err)
}

func Test_KernelRom_01(t *testing.T) {
	kernel, _ := NewKernel(proc1, proc2)
	rom := NewKernelRom(kernel)
	// one row per procedure even without accesses
	assert.Equal(t, uint(2), rom.TraceLen())
	assert.NoError(t, rom.AccessProc(proc1))
	assert.Equal(t, uint(2), rom.TraceLen())
	assert.NoError(t, rom.AccessProc(proc1))
	assert.NoError(t, rom.AccessProc(proc1))
	assert.Equal(t, uint(4), rom.TraceLen())
	assert.Equal(t, uint(3), rom.Accesses(proc1))
	assert.Equal(t, uint(0), rom.Accesses(proc2))
	//
	fragment := newFragment(rom)
	// three access rows for proc1, then a placeholder row for proc2
	for row, expected := range []uint64{1, 1, 1, 0} {
		assert.Equal(t, expected, fragment.Get(uint(row), air.KERNEL_ROM_ACCESS_COL).Uint64())
	}
	//
	for row, expected := range []uint64{0, 0, 0, 1} {
		assert.Equal(t, expected, fragment.Get(uint(row), air.KERNEL_ROM_ADDR_COL).Uint64())
	}
	//
	for i := range uint(goldilocks.WordSize) {
		assert.Equal(t, proc1[i], fragment.Get(2, air.KERNEL_ROM_ROOT_COL+i))
		assert.Equal(t, proc2[i], fragment.Get(3, air.KERNEL_ROM_ROOT_COL+i))
	}
}

func Test_KernelRom_02(t *testing.T) {
	kernel, _ := NewKernel(proc1)
	rom := NewKernelRom(kernel)
	//
	err := rom.AccessProc(proc2)
	//
	var notFound *ProcNotFoundError
	assert.Equal(t, true, errors.As(err, &notFound))
	assert.Equal(t, proc2, notFound.Root)
	assert.Equal(t, uint(1), rom.TraceLen())
}

func newFragment(rom *KernelRom) *trace.Fragment {
	fragment := trace.NewFragment(rom.TraceLen())
	//
	for range air.KERNEL_ROM_TRACE_WIDTH {
		fragment.Attach(make([]goldilocks.Element, rom.TraceLen()))
	}
	//
	rom.FillTrace(fragment)
	//
	return fragment
}
