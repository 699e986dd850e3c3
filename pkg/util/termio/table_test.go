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
package termio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-chiplets/pkg/util/assert"
)

func Test_Table_01(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(2, 2)
	)
	//
	table.SetRow(0, "name", "value")
	table.Set(0, 1, "clk")
	table.Set(1, 1, "0x123456789")
	table.SetMaxWidth(1, 6)
	table.AnsiEscapes(false)
	table.Write(&buf)
	//
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, " name |  value |", lines[0])
	assert.Equal(t, "  clk | 0x12.. |", lines[1])
}

func Test_Table_02(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(1, 1)
		bold  = BoldAnsiEscape().FgColour(TERM_RED).Build()
	)
	//
	table.Set(0, 0, "x")
	table.SetEscape(0, 0, bold)
	table.Write(&buf)
	//
	assert.Equal(t, "\033[1;31m", bold)
	assert.Equal(t, bold+" x"+ResetAnsiEscape().Build()+" |\n", buf.String())
	assert.Equal(t, "", NewAnsiEscape().Build())
}
