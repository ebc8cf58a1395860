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
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/fixture"
	"github.com/shimada-toy-box/kotlin/pkg/util/collection/iter"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	"github.com/shimada-toy-box/kotlin/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scopeCmd = &cobra.Command{
	Use:   "scope [flags] fixture_file",
	Short: "Describe the scope tower of a fixture.",
	Long: `Describe the scope tower of a fixture.  By default, the levels of the
	tower are listed in the order they are explored when resolving a call
	without an explicit receiver.  Optionally, the names visible from the call
	site can be listed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		srcfile, err := source.ReadFile(args[0])
		if err != nil {
			log.Error(err)
			os.Exit(2)
		}
		//
		f, errs := fixture.Parse(srcfile)
		for i := range errs {
			printSyntaxError(&errs[i])
		}
		//
		if len(errs) > 0 {
			os.Exit(2)
		} else if getFlag(cmd, "names") {
			fmt.Println(strings.Join(f.Tower().VisibleNames(), "\n"))
		} else {
			printLevels(f, getString(cmd, "name"))
		}
	},
}

// Print the levels of a fixture's tower, along with the candidates found at
// each for a given name (if any).
func printLevels(f *fixture.Fixture, name string) {
	var (
		tw    = f.Tower()
		table = termio.NewTablePrinter(2)
	)
	//
	for _, level := range iter.Collect(tw.Levels(nil)) {
		var found []string
		//
		if name != "" {
			for _, c := range level.Candidates(name) {
				found = append(found, c.Callable.String())
			}
		}
		//
		table.AddRow(level.Label(), strings.Join(found, "; "))
	}
	//
	table.FitWidth(termio.Width(os.Stdout))
	//
	if err := table.Print(os.Stdout); err != nil {
		log.Error(err)
	}
}

func init() {
	rootCmd.AddCommand(scopeCmd)
	scopeCmd.Flags().Bool("names", false, "list the names visible from the call site")
	scopeCmd.Flags().String("name", "", "list the candidates of a given name found at each level")
}
