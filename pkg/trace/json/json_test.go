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
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/processor"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

func Test_Json_01(t *testing.T) {
	main, kernel, err := processor.Scenarios["kernel"].Execute(0)
	assert.NoError(t, err)
	//
	text := ToJsonString(main, kernel, nil)
	parsed, parsedKernel, err := FromBytes([]byte(text))
	assert.NoError(t, err)
	//
	assert.Equal(t, kernel.Procedures(), parsedKernel.Procedures())
	assert.Equal(t, main.Height(), parsed.Height())
	//
	for col := range main.Width() {
		assert.Equal(t, main.Column(col), parsed.Column(col), air.MainColumnName(col))
	}
}

func Test_Json_02(t *testing.T) {
	main, kernel, err := processor.Scenarios["u32and"].Execute(0)
	assert.NoError(t, err)
	//
	aux := [][]goldilocks.Ext{make([]goldilocks.Ext, main.Height()), make([]goldilocks.Ext, main.Height())}
	aux[0][0] = goldilocks.NewExt(goldilocks.New(1), goldilocks.New(2))
	text := ToJsonString(main, kernel, aux)
	//
	assert.True(t, strings.Contains(text, "\"t_chip\": [[1, 2], [0, 0]"))
	assert.True(t, strings.Contains(text, "\"b_chip\": [[0, 0]"))
	assert.True(t, strings.HasPrefix(text, "{\"kernel\": [], \"main\": {\"clk\": [0, 1, 2"))
}

func Test_Json_03(t *testing.T) {
	_, _, err := FromBytes([]byte("{\"kernel\": [], \"main\": {\"clk\": [0]}}"))
	assert.True(t, err != nil)
	//
	_, _, err = FromBytes([]byte("{\"kernel\": [[1, 2, 3]], \"main\": {}}"))
	assert.True(t, err != nil)
	//
	_, _, err = FromBytes([]byte("not json"))
	assert.True(t, err != nil)
}
