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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shimada-toy-box/kotlin/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] fixture_file...",
	Short: "Check the calls of one or more fixtures resolve as expected.",
	Long: `Check that every call given in one or more fixtures resolves as
	described by the ";;expect:" comments of that fixture.  Expectations are
	matched against queries in order.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		cfg := getConfig(cmd)
		// Interrupting cancels resolution
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		runs, err := runFixtures(ctx, args, cfg, nil)
		if err != nil {
			log.Error(err)
			os.Exit(2)
		} else if reportSyntaxErrors(runs) {
			os.Exit(2)
		}
		//
		if failures := checkRuns(runs, useEscapes(cmd)); failures > 0 {
			fmt.Printf("%d of %d fixture(s) failed\n", failures, len(runs))
			os.Exit(1)
		}
	},
}

// Check each run against its expectations, returning the number which failed.
func checkRuns(runs []fixtureRun, escapes bool) uint {
	var (
		failures uint
		pass     = termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
		fail     = termio.NewAnsiEscape().FgColour(termio.TERM_RED)
		table    = termio.NewTablePrinter(2)
	)
	//
	table.AnsiEscapes(escapes)
	//
	for _, run := range runs {
		if len(run.fixture.Expectations) == 0 {
			log.Warnf("%s has no expectations", run.filename)
		}
		//
		mismatches := run.fixture.Check(run.lines)
		//
		if len(mismatches) == 0 {
			row := table.AddRow("PASS", run.filename)
			table.SetEscape(0, row, pass)
			//
			continue
		}
		//
		failures++
		row := table.AddRow("FAIL", run.filename)
		table.SetEscape(0, row, fail)
		//
		for _, m := range mismatches {
			table.AddRow("", m.String())
		}
	}
	//
	if err := table.Print(os.Stdout); err != nil {
		log.Error(err)
	}
	//
	return failures
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().UintP("jobs", "j", 0, "number of fixtures to check concurrently (default one per CPU, 0 for all)")
}
