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

	"github.com/consensys/go-chiplets/pkg/processor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [flags] scenario",
	Short: "generate the trace of a built-in scenario.",
	Long: `Execute a built-in scenario, compose the chiplets table into its main
	trace and build the bus and virtual table columns using random challenges.
	The trace can then be printed and/or written to a JSON file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		scenario, ok := processor.Scenarios[args[0]]
		if !ok {
			fmt.Printf("unknown scenario %s (try one of %v)\n", args[0], processor.ScenarioNames())
			os.Exit(2)
		}
		//
		main, kernel, err := scenario.Execute(GetUint(cmd, "rand-rows"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		aux, ok := buildAndCheck(main, kernel)
		//
		if GetFlag(cmd, "print") {
			printTrace(cmd, main, aux)
		}
		//
		if output := GetString(cmd, "output"); output != "" {
			writeTraceFile(output, main, kernel, aux)
		}
		//
		if !ok {
			os.Exit(3)
		}
		//
		log.Infof("scenario %s: %d rows, chiplet buses balanced", args[0], main.Height())
	},
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "list the built-in scenarios.",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range processor.ScenarioNames() {
			fmt.Printf("%-10s %s\n", name, processor.Scenarios[name].Description)
		}
	},
}

func init() {
	traceCmd.Flags().Uint("rand-rows", 0, "number of rows reserved for random values")
	traceCmd.Flags().BoolP("print", "p", false, "print the trace")
	traceCmd.Flags().StringP("output", "o", "", "write the trace to a JSON file")
	addPrintFlags(traceCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(scenariosCmd)
}

func addPrintFlags(cmd *cobra.Command) {
	cmd.Flags().Uint("start", 0, "first row to print")
	cmd.Flags().Uint("end", 15, "last row to print (inclusive)")
	cmd.Flags().Uint("max-width", 0, "maximum width of a cell (0 to fit the terminal)")
	cmd.Flags().Bool("ansi-escapes", true, "use ANSI escapes when printing to a terminal")
}
