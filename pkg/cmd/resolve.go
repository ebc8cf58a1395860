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
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] fixture_file...",
	Short: "Resolve the calls of one or more fixtures.",
	Long: `Resolve every call given in one or more fixtures, printing the
	outcome of each.  Fixtures are resolved concurrently, but printed in the
	order given.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg      = getConfig(cmd)
			registry = prometheus.NewRegistry()
			metrics  *calls.Metrics
		)
		//
		if getFlag(cmd, "stats") {
			metrics = calls.NewMetrics(registry)
		}
		// Interrupting cancels resolution
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		runs, err := runFixtures(ctx, args, cfg, metrics)
		if err != nil {
			log.Error(err)
			os.Exit(2)
		} else if reportSyntaxErrors(runs) {
			os.Exit(2)
		}
		//
		escapes := useEscapes(cmd)
		//
		for _, run := range runs {
			printRun(run, escapes)
		}
		//
		if metrics != nil {
			printStats(registry)
		}
	},
}

// Print the queries of a fixture alongside their results.
func printRun(run fixtureRun, escapes bool) {
	table := termio.NewTablePrinter(3)
	table.AnsiEscapes(escapes)
	//
	for i, query := range run.fixture.Queries {
		row := table.AddRow(query.Call.Position, query.Call.String(), run.lines[i])
		table.SetEscape(2, row, outcomeEscape(run.lines[i]))
	}
	//
	table.FitWidth(termio.Width(os.Stdout))
	//
	if escapes {
		fmt.Printf("%s%s%s\n", termio.BoldAnsiEscape().Build(), run.filename, termio.ResetAnsiEscape().Build())
	} else {
		fmt.Println(run.filename)
	}
	//
	if err := table.Print(os.Stdout); err != nil {
		log.Error(err)
	}
}

// Determine the colour used to highlight a line of output.
func outcomeEscape(line string) termio.AnsiEscape {
	outcome, _, _ := strings.Cut(line, " ")
	//
	switch outcome {
	case "resolved":
		return termio.NewAnsiEscape().FgColour(termio.TERM_GREEN)
	case "ambiguous":
		return termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW)
	case "unresolved", "error:":
		return termio.NewAnsiEscape().FgColour(termio.TERM_RED)
	default:
		return termio.NewAnsiEscape().FgColour(termio.TERM_CYAN)
	}
}

// Print a summary of the metrics gathered whilst resolving.
func printStats(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Error(err)
		return
	}
	//
	table := termio.NewTablePrinter(2)
	//
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			var labels []string
			//
			for _, label := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", label.GetName(), label.GetValue()))
			}
			//
			sort.Strings(labels)
			name := fmt.Sprintf("%s{%s}", family.GetName(), strings.Join(labels, ","))
			//
			if h := metric.GetHistogram(); h != nil {
				table.AddRow(name, fmt.Sprintf("%d in %0.6fs", h.GetSampleCount(), h.GetSampleSum()))
			} else {
				table.AddRow(name, fmt.Sprintf("%g", metric.GetCounter().GetValue()))
			}
		}
	}
	//
	fmt.Println()
	//
	if err := table.Print(os.Stdout); err != nil {
		log.Error(err)
	}
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("all", false, "report every candidate, rather than choosing one")
	resolveCmd.Flags().Bool("stats", false, "report statistics gathered whilst resolving")
	resolveCmd.Flags().UintP("jobs", "j", 0, "number of fixtures to resolve concurrently (default one per CPU, 0 for all)")
}
