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
package chiplets

import (
	"fmt"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/util"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	log "github.com/sirupsen/logrus"
)

// Trace is the chiplets table produced once execution has completed.
type Trace struct {
	columns [][]goldilocks.Element
	schema  *Schema
	kernel  kernelrom.Kernel
}

// Columns returns the columns of this table.
func (p *Trace) Columns() [][]goldilocks.Element {
	return p.columns
}

// Height returns the number of rows in this table.
func (p *Trace) Height() uint {
	return uint(len(p.columns[0]))
}

// Schema returns the schema by which this table was laid out.
func (p *Trace) Schema() *Schema {
	return p.schema
}

// Kernel returns the kernel of the chiplets which produced this table.
func (p *Trace) Kernel() kernelrom.Kernel {
	return p.kernel
}

// IntoTrace renders the chiplets into a table of a given height, where the last
// numRandRows rows are reserved for random values.  The table must be large
// enough for every chiplet plus the padding row.
func (p *Chiplets) IntoTrace(traceLen uint, numRandRows uint) *Trace {
	if p.TraceLen()+numRandRows > traceLen {
		panic(fmt.Sprintf("chiplets need %d rows plus %d random rows (table has %d)", p.TraceLen(), numRandRows,
			traceLen))
	}
	//
	stats := util.NewPerfStats()
	columns := make([][]goldilocks.Element, air.CHIPLETS_WIDTH)
	//
	for i := range columns {
		columns[i] = make([]goldilocks.Element, traceLen)
	}
	//
	schema := NewSchema(p.Lengths(), traceLen)
	schema.FillSelectors(columns)
	fragments := schema.Fragments(columns)
	// Fill chiplets in table order
	p.hasher.FillTrace(fragments[air.HASHER])
	p.bitwise.FillTrace(fragments[air.BITWISE])
	p.memory.FillTrace(fragments[air.MEMORY])
	p.kernelRom.FillTrace(fragments[air.KERNEL_ROM])
	//
	log.Debugf("chiplets table: hasher %d, bitwise %d, memory %d, kernel rom %d, padding %d rows",
		p.hasher.TraceLen(), p.bitwise.TraceLen(), p.memory.TraceLen(), p.kernelRom.TraceLen(),
		traceLen-p.PaddingStart())
	stats.Log("Chiplets trace composition")
	//
	return &Trace{columns, schema, p.Kernel()}
}
