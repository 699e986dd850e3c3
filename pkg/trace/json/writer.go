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
package json

import (
	"strings"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// ToJsonString converts a main trace, the kernel it was executed against and
// its auxiliary columns (if any) into a JSON string.  For example:
//
//	{"kernel": [[1, 2, 3, 4]], "main": {"clk": [0, 1], ...}, "aux": {"t_chip": [[1, 0], ...], ...}}
//
// Extension field elements are written as pairs of coefficients.
func ToJsonString(main *trace.MainTrace, kernel kernelrom.Kernel, aux [][]goldilocks.Ext) string {
	var builder strings.Builder
	//
	builder.WriteString("{\"kernel\": [")
	//
	for i, root := range kernel.Procedures() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		writeElements(&builder, root[:])
	}
	//
	builder.WriteString("], \"main\": {")
	//
	for col := range main.Width() {
		if col != 0 {
			builder.WriteString(", ")
		}
		//
		writeName(&builder, air.MainColumnName(col))
		writeElements(&builder, main.Column(col))
	}
	//
	builder.WriteString("}, \"aux\": {")
	//
	for i, column := range aux {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		writeName(&builder, air.AuxColumnName(uint(i)))
		builder.WriteString("[")
		//
		for j, e := range column {
			if j != 0 {
				builder.WriteString(", ")
			}
			//
			a0, a1 := e.Coefficients()
			writeElements(&builder, []goldilocks.Element{a0, a1})
		}
		//
		builder.WriteString("]")
	}
	//
	builder.WriteString("}}")
	// Done
	return builder.String()
}

func writeName(builder *strings.Builder, name string) {
	builder.WriteString("\"")
	builder.WriteString(name)
	builder.WriteString("\": ")
}

func writeElements(builder *strings.Builder, elements []goldilocks.Element) {
	builder.WriteString("[")
	//
	for j, e := range elements {
		if j != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.String())
	}
	//
	builder.WriteString("]")
}
