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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] trace_file",
	Short: "check the chiplet buses of a trace file.",
	Long: `Read a trace file written by the trace command, rebuild its bus and
	virtual table columns using fresh random challenges, and check that every
	chiplet request is answered exactly once.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		main, kernel := readTraceFile(args[0])
		aux, ok := buildAndCheck(main, kernel)
		//
		if GetFlag(cmd, "print") {
			printTrace(cmd, main, aux)
		}
		//
		if !ok {
			os.Exit(3)
		}
		//
		log.Infof("%s: %d rows, chiplet buses balanced", args[0], main.Height())
	},
}

func init() {
	checkCmd.Flags().BoolP("print", "p", false, "print the trace")
	addPrintFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
