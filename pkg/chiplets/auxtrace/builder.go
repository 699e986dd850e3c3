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
	"fmt"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util"
	"github.com/consensys/go-chiplets/pkg/util/field"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// ColumnBuilder determines the requests and responses of a running product
// column.  For a column b, every row satisfies b[i]·request(i) =
// b[i-1]·response(i) where b[-1] = 1.
type ColumnBuilder interface {
	// Request returns the value removed from the column at a given row.
	Request(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext
	// Response returns the value added to the column at a given row.
	Response(main *trace.MainTrace, alphas []goldilocks.Ext, row uint) goldilocks.Ext
}

// BuildAuxColumns builds the auxiliary columns of the chiplets, namely the
// virtual table column and the bus column (in that order), for a given main
// trace, the kernel it was executed against and a set of random challenges.
func BuildAuxColumns(main *trace.MainTrace, kernel kernelrom.Kernel, alphas []goldilocks.Ext) [][]goldilocks.Ext {
	var (
		stats   = util.NewPerfStats()
		columns = make([][]goldilocks.Ext, air.NUM_AUX_COLUMNS)
	)
	//
	checkAlphas(alphas)
	// Columns are independent, hence can be built concurrently.
	err := util.ParExec(
		func() error {
			columns[air.T_CHIP_COL] = BuildColumn(NewVirtualTableBuilder(), main, alphas)
			return nil
		},
		func() error {
			columns[air.B_CHIP_COL] = BuildColumn(NewBusBuilder(kernel), main, alphas)
			return nil
		},
	)
	// building a column cannot fail
	if err != nil {
		panic(err)
	}
	//
	stats.Log(fmt.Sprintf("Building auxiliary columns (%d rows)", main.Height()))
	//
	return columns
}

// BuildColumn builds a running product column for a given builder, using a
// single batch inversion to divide out the requests.
func BuildColumn(builder ColumnBuilder, main *trace.MainTrace, alphas []goldilocks.Ext) []goldilocks.Ext {
	var (
		n         = main.Height()
		requests  = make([]goldilocks.Ext, n)
		responses = make([]goldilocks.Ext, n)
	)
	//
	checkAlphas(alphas)
	//
	for row := range n {
		requests[row] = builder.Request(main, alphas, row)
		responses[row] = builder.Response(main, alphas, row)
	}
	//
	column := field.RunningProduct(responses)
	inverses := field.RunningProduct(requests)
	field.BatchInvert(inverses)
	//
	for i := range column {
		column[i] = column[i].Mul(inverses[i])
	}
	//
	return column
}

func checkAlphas(alphas []goldilocks.Ext) {
	if len(alphas) < air.NUM_ALPHAS {
		panic(fmt.Sprintf("chiplet buses need %d random challenges (%d given)", air.NUM_ALPHAS, len(alphas)))
	}
}
