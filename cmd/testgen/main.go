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
package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/calls/completion"
	"github.com/shimada-toy-box/kotlin/pkg/calls/fixture"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	util "github.com/shimada-toy-box/kotlin/pkg/cmd"
	"github.com/shimada-toy-box/kotlin/pkg/util/collection/iter"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("min-overloads", 1, "Minimum number of overloads")
	rootCmd.Flags().Uint("max-overloads", 2, "Maximum number of overloads")
	rootCmd.Flags().String("output", "testdata/valid", "Directory to write fixtures into")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen model",
	Short: "Fixture generation utility for kcr.",
	Long: `Generate a fixture by enumerating the declarations of a given model
	over a pool of types, and record how each call currently resolves as the
	expectations of that fixture.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		var cfg TestGenConfig
		// Lookup model
		cfg.model = findModel(args[0])
		cfg.minOverloads = util.GetUint(cmd, "min-overloads")
		cfg.maxOverloads = util.GetUint(cmd, "max-overloads")
		//
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Generate & resolve queries
		text, err := generateFixture(cfg)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		// Write out
		writeFixture(path.Join(output, fmt.Sprintf("%s.auto.lisp", cfg.model.Name)), text)
		os.Exit(0)
	},
}

// TestGenConfig encapsulates configuration related to fixture generation.
type TestGenConfig struct {
	model        Model
	minOverloads uint
	maxOverloads uint
}

// GeneratorFn produces the declarations of a fixture, along with the queries
// to resolve against them.
type GeneratorFn = func(cfg TestGenConfig, pool []string) (string, []string)

// Model represents a family of fixtures.
type Model struct {
	// Name of the model in question
	Name string
	// Generator for the fixture
	Generator GeneratorFn
}

var models []Model = []Model{
	{"overloads", overloadsModel},
	{"shadowing", shadowingModel},
}

// Types from which parameters and arguments are drawn.
var pool = []string{"Int", "Long", "Number", "Any", "String", "Int?", "Any?", "Nothing"}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	//
	panic(fmt.Sprintf("unknown model \"%s\"", name))
}

// Generate the complete text of a fixture, including expectations.
func generateFixture(cfg TestGenConfig) (string, error) {
	var (
		builder         strings.Builder
		header, queries = cfg.model.Generator(cfg, pool)
		filename        = fmt.Sprintf("%s.lisp", cfg.model.Name)
		text            = header + strings.Join(queries, "\n")
	)
	//
	f, errs := fixture.Parse(source.NewFile(filename, []byte(text)))
	// Resolve twice, since resolution should be deterministic.
	first, err := resolveFixture(f, errs)
	if err != nil {
		return "", err
	}
	//
	second, err := resolveFixture(f, errs)
	if err != nil {
		return "", err
	} else if i := firstDifference(first, second); i >= 0 {
		return "", fmt.Errorf("%s resolved inconsistently (\"%s\" vs \"%s\")", queries[i], first[i], second[i])
	}
	//
	builder.WriteString(header)
	//
	for i, query := range queries {
		builder.WriteString(fmt.Sprintf(";;expect: %s\n%s\n", first[i], query))
	}
	//
	return builder.String(), nil
}

func resolveFixture(f *fixture.Fixture, errs []source.SyntaxError) ([]string, error) {
	if len(errs) > 0 {
		return nil, &errs[0]
	}
	//
	resolver := calls.NewCallResolver(f.Tower(), f.Settings(model.DefaultSettings()), completion.DefaultCallbacks{},
		nil)
	//
	return f.Run(context.Background(), resolver)
}

func firstDifference(lhs []string, rhs []string) int {
	for i := range lhs {
		if lhs[i] != rhs[i] {
			return i
		}
	}
	//
	return -1
}

// Overload sets of single parameter functions declared in one scope.
func overloadsModel(cfg TestGenConfig, pool []string) (string, []string) {
	var (
		decls   strings.Builder
		queries []string
		n       = 0
	)
	//
	for k := cfg.minOverloads; k <= cfg.maxOverloads; k++ {
		for e := iter.EnumerateElements(k, pool); e.HasNext(); n++ {
			params := e.Next()
			name := fmt.Sprintf("f%d", n)
			//
			for _, param := range params {
				decls.WriteString(fmt.Sprintf("  (defun %s ((x %s)) Unit)\n", name, param))
			}
			//
			queries = append(queries, callsOf(name, params)...)
		}
	}
	//
	return fmt.Sprintf("(scope package pkg\n%s)\n\n", decls.String()), queries
}

// Functions declared in an inner and an outer scope, where the inner may or
// may not shadow the outer.
func shadowingModel(cfg TestGenConfig, pool []string) (string, []string) {
	var (
		inner, outer strings.Builder
		queries      []string
		n            = 0
	)
	//
	for e := iter.EnumerateElements(2, pool); e.HasNext(); n++ {
		params := e.Next()
		name := fmt.Sprintf("g%d", n)
		//
		inner.WriteString(fmt.Sprintf("  (defun %s ((x %s)) Unit)\n", name, params[0]))
		outer.WriteString(fmt.Sprintf("  (defun %s ((x %s)) Unit)\n", name, params[1]))
		queries = append(queries, callsOf(name, params)...)
	}
	//
	return fmt.Sprintf("(scope package outer\n%s)\n(scope local inner\n%s)\n\n", outer.String(), inner.String()),
		queries
}

// Construct a call of a given name with each argument type in the pool.
func callsOf(name string, params []string) []string {
	var queries []string
	//
	for _, arg := range pool {
		queries = append(queries, fmt.Sprintf(";; %s(%s) with %s\n(call %s (args (expr %s)))", name, arg,
			strings.Join(params, ", "), name, arg))
	}
	//
	return queries
}

func writeFixture(filename string, text string) {
	// Write the file
	if err := os.WriteFile(filename, []byte(text), 0644); err != nil {
		panic(err)
	}
	// Log what happened
	log.Infof("Wrote %s (%d bytes)\n", filename, len(text))
}
