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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-chiplets/pkg/air"
	"github.com/consensys/go-chiplets/pkg/chiplets/auxtrace"
	"github.com/consensys/go-chiplets/pkg/chiplets/kernelrom"
	"github.com/consensys/go-chiplets/pkg/trace"
	"github.com/consensys/go-chiplets/pkg/trace/json"
	"github.com/consensys/go-chiplets/pkg/util/field/goldilocks"
	"github.com/consensys/go-chiplets/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse a JSON trace file, or exit if an error arises.
func readTraceFile(filename string) (*trace.MainTrace, kernelrom.Kernel) {
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		main, kernel, err := json.FromBytes(bytes)
		if err == nil {
			return main, kernel
		}
		//
		fmt.Printf("%s: %s\n", filename, err)
	} else {
		fmt.Println(err)
	}
	//
	os.Exit(2)
	// unreachable
	return nil, kernelrom.Kernel{}
}

// Write a JSON trace file, or exit if an error arises.
func writeTraceFile(filename string, main *trace.MainTrace, kernel kernelrom.Kernel, aux [][]goldilocks.Ext) {
	if err := os.WriteFile(filename, []byte(json.ToJsonString(main, kernel, aux)), 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	log.Debugf("wrote %d rows to %s", main.Height(), filename)
}

// Build the auxiliary columns of a given trace with fresh random challenges,
// and check their final values.  This returns the columns along with whether or
// not the check passed.
func buildAndCheck(main *trace.MainTrace, kernel kernelrom.Kernel) ([][]goldilocks.Ext, bool) {
	alphas, err := goldilocks.RandomExts(air.NUM_ALPHAS)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	var (
		aux      = auxtrace.BuildAuxColumns(main, kernel, alphas)
		last     = main.Height() - 1
		bus      = aux[air.B_CHIP_COL][last]
		vtable   = aux[air.T_CHIP_COL][last]
		expected = auxtrace.ExpectedVirtualTableResult(kernel, alphas)
		ok       = true
	)
	//
	if !bus.IsOne() {
		log.Errorf("bus column ends with %s (expected 1)", bus.String())
		ok = false
	}
	//
	if !vtable.Equal(expected) {
		log.Errorf("virtual table column ends with %s (expected %s)", vtable.String(), expected.String())
		ok = false
	}
	//
	return aux, ok
}

// Print a given trace to the terminal, sizing cells to fit the terminal when
// no maximum width is given.
func printTrace(cmd *cobra.Command, main *trace.MainTrace, aux [][]goldilocks.Ext) {
	var (
		start    = GetUint(cmd, "start")
		end      = GetUint(cmd, "end")
		maxWidth = GetUint(cmd, "max-width")
		ansi     = GetFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
	)
	//
	if width, ok := termio.TerminalWidth(os.Stdout); ok && maxWidth == 0 {
		// Leave room for the column names
		maxWidth = max(8, width/max(1, 2+end-start))
	} else if maxWidth == 0 {
		maxWidth = 16
	}
	//
	trace.NewPrinter().
		Start(start).
		End(end).
		MaxCellWidth(maxWidth).
		AnsiEscapes(ansi).
		Highlight(func(row uint) bool { return auxtrace.HasRequest(main.Opcode(row)) }).
		Print(os.Stdout, main, aux)
}
