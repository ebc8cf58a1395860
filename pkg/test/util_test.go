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
package test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/calls/completion"
	"github.com/shimada-toy-box/kotlin/pkg/calls/fixture"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the valid and invalid fixtures are found.
const TestDir = "../../testdata"

// Check that every query of a valid fixture resolves as its expectations say.
func checkValid(t *testing.T, test string) {
	// Enable testing each fixture in parallel
	t.Parallel()
	//
	srcfile := readSourceFile(t, fmt.Sprintf("%s/valid/%s.lisp", TestDir, test))
	//
	f, errs := fixture.Parse(srcfile)
	if len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("unexpected error %s", errorToString(err))
		}
		//
		t.FailNow()
	} else if len(f.Expectations) != len(f.Queries) {
		t.Fatalf("%s has %d queries, but %d expectations", test, len(f.Queries), len(f.Expectations))
	}
	//
	resolver := calls.NewCallResolver(f.Tower(), f.Settings(model.DefaultSettings()), completion.DefaultCallbacks{},
		nil)
	// Resolving twice should be indistinguishable
	for i := 0; i < 2; i++ {
		lines, err := f.Run(context.Background(), resolver)
		if err != nil {
			t.Fatal(err)
		}
		//
		for _, mismatch := range f.Check(lines) {
			t.Errorf("%s %s", srcfile.Filename(), mismatch)
		}
	}
}

// Check that an invalid fixture is rejected with exactly the errors listed in
// its ";;error: LINE: MESSAGE" comments.
func checkInvalid(t *testing.T, test string) {
	t.Parallel()
	//
	var (
		srcfile  = readSourceFile(t, fmt.Sprintf("%s/invalid/%s.lisp", TestDir, test))
		expected = extractErrors(t, srcfile)
		_, errs  = fixture.Parse(srcfile)
		actual   = make([]string, len(errs))
	)
	//
	for i, err := range errs {
		line := err.FirstEnclosingLine()
		actual[i] = fmt.Sprintf("%d: %s", line.Number(), err.Message())
	}
	//
	if len(actual) == 0 {
		t.Fatalf("%s should not have been accepted", srcfile.Filename())
	}
	//
	for i := 0; i < max(len(actual), len(expected)); i++ {
		if i < len(actual) && i < len(expected) && actual[i] == expected[i] {
			continue
		}
		// actual
		if i < len(actual) {
			t.Errorf("%s unexpected error %s", srcfile.Filename(), errorToString(errs[i]))
		}
		// expected
		if i < len(expected) {
			t.Errorf("%s   expected error %s", srcfile.Filename(), expected[i])
		}
	}
}

// Extract the expected errors of a fixture.  These cannot be obtained from the
// parser, since parsing may fail before reaching them.
func extractErrors(t *testing.T, srcfile *source.File) []string {
	var errors []string
	//
	for _, line := range srcfile.Lines() {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line.String()), ";;error:")
		if !ok {
			continue
		}
		//
		number, msg, ok := strings.Cut(strings.TrimSpace(rest), ":")
		if _, err := strconv.Atoi(number); !ok || err != nil {
			t.Fatalf("%s:%d: malformed error attribute", srcfile.Filename(), line.Number())
		}
		//
		errors = append(errors, fmt.Sprintf("%s: %s", number, strings.TrimSpace(msg)))
	}
	//
	return errors
}

func readSourceFile(t *testing.T, filename string) *source.File {
	srcfile, err := source.ReadFile(filename)
	// Check test file read ok
	if err != nil {
		t.Fatal(err)
	}
	//
	return srcfile
}

// Convert a syntax error into a useful human readable string.
func errorToString(err source.SyntaxError) string {
	line := err.FirstEnclosingLine()
	start, end := err.Columns()
	//
	return fmt.Sprintf("%s:%d:%d-%d %s", err.SourceFile().Filename(), line.Number(), start, end, err.Message())
}
