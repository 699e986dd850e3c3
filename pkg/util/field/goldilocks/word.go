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
package goldilocks

import (
	"fmt"
	"strings"
)

// WordSize is the number of field elements in a word.
const WordSize = 4

// Word is a sequence of four field elements.  Words are the unit of memory
// access, and digests of the hasher are words too.
type Word [WordSize]Element

// NewWord constructs a word from four uint64 values.
func NewWord(w0, w1, w2, w3 uint64) Word {
	return Word{New(w0), New(w1), New(w2), New(w3)}
}

// Reverse returns the word with its elements in reverse order.  Words are held
// on the operand stack in reverse order, with the last element on top.
func (w Word) Reverse() Word {
	return Word{w[3], w[2], w[1], w[0]}
}

// IsZero checks whether every element of this word is zero.
func (w Word) IsZero() bool {
	for _, e := range w {
		if !e.IsZero() {
			return false
		}
	}
	//
	return true
}

func (w Word) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, e := range w {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

// Hex returns a compact hexadecimal rendering of this word, which is useful for
// identifying digests in log messages.
func (w Word) Hex() string {
	return fmt.Sprintf("0x%016x%016x%016x%016x", w[0].Uint64(), w[1].Uint64(), w[2].Uint64(), w[3].Uint64())
}
