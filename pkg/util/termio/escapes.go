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

import "fmt"

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// TERM_BLUE represents blue
const TERM_BLUE = uint(4)

// TERM_MAGENTA represents magenta
const TERM_MAGENTA = uint(5)

// TERM_WHITE represents white
const TERM_WHITE = uint(7)

// AnsiEscape represents an ANSI escape code used for formatting text in a terminal.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape construct an empty escape
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape constructs a reset term.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// BoldAnsiEscape constructs a bold term.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[1", 1}
}

// FgColour sets the foreground colour
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.append(col + 30)
}

// Append a parameter to this escape.
func (p AnsiEscape) append(param uint) AnsiEscape {
	var escape string
	//
	if p.count > 0 {
		escape = fmt.Sprintf("%s;%d", p.escape, param)
	} else {
		escape = fmt.Sprintf("%s[%d", p.escape, param)
	}
	//
	return AnsiEscape{escape, p.count + 1}
}

// Build constructs the final escape.  An empty escape builds to the empty
// string.
func (p AnsiEscape) Build() string {
	if p.count == 0 {
		return ""
	}
	//
	return fmt.Sprintf("%sm", p.escape)
}
