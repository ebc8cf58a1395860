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
	"strconv"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/config"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	"github.com/shimada-toy-box/kotlin/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer, or exit if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or exit if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string array, or exit if an error arises.
func getStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the configuration for a command.  This starts from the
// configuration file (if given) and applies any options given on the command
// line.
func getConfig(cmd *cobra.Command) *config.Config {
	var (
		cfg = config.Default()
		err error
	)
	//
	if filename := getString(cmd, "config"); filename != "" {
		if cfg, err = config.Load(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Configuration file only raises the log level.
		if level, _ := cfg.Level(); level > log.GetLevel() {
			log.SetLevel(level)
		}
	}
	//
	for _, feature := range getStringArray(cmd, "feature") {
		if err := setFeature(cfg, feature); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	if cmd.Flags().Lookup("all") != nil && getFlag(cmd, "all") {
		cfg.CollectAll = true
	}
	//
	if cmd.Flags().Lookup("jobs") != nil && cmd.Flags().Changed("jobs") {
		cfg.Jobs = int(getUint(cmd, "jobs"))
	}
	//
	return cfg
}

// Apply a feature setting of the form NAME or NAME=BOOL.
func setFeature(cfg *config.Config, setting string) error {
	name, value, found := strings.Cut(setting, "=")
	enabled := true
	//
	if found {
		var err error
		//
		if enabled, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid feature setting %q", setting)
		}
	}
	//
	return cfg.SetFeature(name, enabled)
}

// Determine whether ANSI escapes should be used on standard output.
func useEscapes(cmd *cobra.Command) bool {
	return getFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	line := err.FirstEnclosingLine()
	start, end := err.Columns()
	// Print error + line number
	fmt.Println(err.Error())
	// Print line
	fmt.Println(line.String())
	// Print highlight (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", start-1))
	fmt.Println(strings.Repeat("^", end-start))
}
