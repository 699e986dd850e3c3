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
	"encoding/json"
	"fmt"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

// rawTrace is the JSON layout produced by ToJsonString.  Auxiliary columns are
// not read back, since they are recomputed from the main trace.
type rawTrace struct {
	Kernel [][]uint64          `json:"kernel"`
	Main   map[string][]uint64 `json:"main"`
}

// FromBytes parses a main trace, and the kernel it was executed against, from
// JSON notation.  Every main trace column must be present, and all columns must
// have the same height.
func FromBytes(data []byte) (*trace.MainTrace, kernelrom.Kernel, error) {
	var (
		raw     rawTrace
		roots   []goldilocks.Word
		columns = make([][]goldilocks.Element, air.MAIN_TRACE_WIDTH)
	)
	// Attempt to unmarshall
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, kernelrom.Kernel{}, err
	}
	//
	for i, root := range raw.Kernel {
		if len(root) != goldilocks.WordSize {
			return nil, kernelrom.Kernel{}, fmt.Errorf("kernel procedure %d has %d elements", i, len(root))
		}
		//
		roots = append(roots, goldilocks.NewWord(root[0], root[1], root[2], root[3]))
	}
	//
	kernel, err := kernelrom.NewKernel(roots...)
	if err != nil {
		return nil, kernel, err
	}
	//
	height := -1
	//
	for col := range uint(air.MAIN_TRACE_WIDTH) {
		name := air.MainColumnName(col)
		values, ok := raw.Main[name]
		//
		if !ok {
			return nil, kernel, fmt.Errorf("missing column %s", name)
		} else if height >= 0 && len(values) != height {
			return nil, kernel, fmt.Errorf("column %s has %d rows (expected %d)", name, len(values), height)
		}
		//
		height = len(values)
		columns[col] = make([]goldilocks.Element, height)
		//
		for row, val := range values {
			if val >= goldilocks.Modulus {
				return nil, kernel, fmt.Errorf("column %s has out-of-range value %d on row %d", name, val, row)
			}
			//
			columns[col][row] = goldilocks.New(val)
		}
	}
	//
	if height <= 0 {
		return nil, kernel, fmt.Errorf("trace is empty")
	}
	//
	return trace.NewMainTrace(columns), kernel, nil
}
