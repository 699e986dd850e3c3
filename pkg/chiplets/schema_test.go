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
	"testing"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/util/assert"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
)

func Test_Schema_01(t *testing.T) {
	checkSchema(t, [4]uint{8, 16, 2, 2}, 32)
}

func Test_Schema_02(t *testing.T) {
	checkSchema(t, [4]uint{0, 0, 0, 0}, 1)
}

func Test_Schema_03(t *testing.T) {
	checkSchema(t, [4]uint{64, 0, 5, 0}, 128)
}

func Test_Schema_04(t *testing.T) {
	checkSchema(t, [4]uint{0, 8, 0, 3}, 16)
}

func Test_Schema_05(t *testing.T) {
	assert.Panics(t, func() { NewSchema([4]uint{8, 8, 0, 0}, 16) })
	assert.Panics(t, func() { NewSchema([4]uint{0, 0, 0, 0}, 0) })
}

func Test_Schema_06(t *testing.T) {
	schema := NewSchema([4]uint{8, 16, 2, 2}, 32)
	//
	assert.Equal(t, SELECTOR_OWNER, schema.Owner(0, 0))
	assert.Equal(t, Owner(air.HASHER), schema.Owner(1, 0))
	assert.Equal(t, SELECTOR_OWNER, schema.Owner(1, 8))
	assert.Equal(t, Owner(air.BITWISE), schema.Owner(2, 8))
	assert.Equal(t, NO_OWNER, schema.Owner(16, 8))
	assert.Equal(t, Owner(air.MEMORY), schema.Owner(14, 24))
	assert.Equal(t, NO_OWNER, schema.Owner(15, 24))
	assert.Equal(t, Owner(air.KERNEL_ROM), schema.Owner(9, 26))
	assert.Equal(t, SELECTOR_OWNER, schema.Owner(3, 31))
	assert.Equal(t, NO_OWNER, schema.Owner(4, 31))
	//
	assert.Equal(t, uint(24), schema.SegmentStart(uint(air.MEMORY)))
	assert.Equal(t, uint(28), schema.SegmentStart(uint(air.NUM_CHIPLETS)))
	assert.Panics(t, func() { schema.Owner(0, 32) })
}

// Check every cell has exactly one owner, and every chiplet owns exactly its
// width in columns across its segment.
func checkSchema(t *testing.T, lengths [4]uint, height uint) {
	schema := NewSchema(lengths, height)
	//
	for col := range uint(air.CHIPLETS_WIDTH) {
		var rows uint
		//
		for _, w := range schema.Windows(col) {
			rows += w.Rows
		}
		//
		assert.Equal(t, height, rows, "column %d", col)
	}
	//
	for c := range air.NUM_CHIPLETS {
		var (
			start = schema.SegmentStart(uint(c))
			width uint
		)
		//
		if lengths[c] == 0 {
			continue
		}
		//
		for col := range uint(air.CHIPLETS_WIDTH) {
			if schema.Owner(col, start) == Owner(c) {
				width++
			}
		}
		//
		assert.Equal(t, c.Width(), width, c.String())
	}
	// Every cell of a chiplet is reachable through exactly one fragment
	columns := make([][]goldilocks.Element, air.CHIPLETS_WIDTH)
	//
	for i := range columns {
		columns[i] = make([]goldilocks.Element, height)
	}
	//
	fragments := schema.Fragments(columns)
	//
	for c, f := range fragments {
		assert.Equal(t, lengths[c], f.Height())
		//
		for row := range f.Height() {
			for col := range f.Width() {
				f.Set(row, col, f.Get(row, col).Add(goldilocks.One()))
			}
		}
	}
	//
	schema.FillSelectors(columns)
	//
	for col := range uint(air.CHIPLETS_WIDTH) {
		for row := range height {
			switch owner := schema.Owner(col, row); {
			case owner == NO_OWNER:
				assert.True(t, columns[col][row].IsZero())
			case owner != SELECTOR_OWNER:
				assert.True(t, columns[col][row].IsOne())
			}
		}
	}
}

func Test_Schema_07(t *testing.T) {
	schema := NewSchema([4]uint{8, 0, 0, 0}, 16)
	// The first selector is never written by a chiplet, only by the composer.
	for _, w := range schema.Windows(0) {
		assert.Equal(t, SELECTOR_OWNER, w.Owner)
	}
	//
	for col := range uint(air.CHIPLETS_WIDTH) {
		owned := false
		//
		for _, w := range schema.Windows(col) {
			owned = owned || w.Owner != NO_OWNER
		}
		//
		assert.True(t, owned, "column %d", col)
	}
}
