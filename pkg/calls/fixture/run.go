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
package fixture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	log "github.com/sirupsen/logrus"
)

// Run resolves every query of this fixture in order, producing one line of
// output for each.  Queries which are malformed produce an error line, rather
// than an error, and hence an error is only returned if resolution was
// cancelled.
func (p *Fixture) Run(ctx context.Context, resolver *calls.CallResolver) ([]string, error) {
	lines := make([]string, len(p.Queries))
	//
	for i, query := range p.Queries {
		line, err := p.run(ctx, resolver, query)
		//
		if errors.Is(err, model.ErrCancelled) {
			return nil, err
		} else if err != nil {
			line = fmt.Sprintf("error: %s", err)
		}
		//
		log.Debugf("%s: %s", query.Call.Position, line)
		lines[i] = line
	}
	//
	return lines, nil
}

func (p *Fixture) run(ctx context.Context, resolver *calls.CallResolver, query *Query) (string, error) {
	var (
		call       = query.Call
		expected   = query.Expected
		result     model.Result
		candidates []*model.Candidate
		err        error
		// Indicates a result (rather than candidates) was produced.
		complete = true
	)
	//
	switch {
	case query.Mode == WITHOUT_COMPLETION:
		candidates, err = resolver.ResolveCallWithoutCompletion(ctx, call, expected)
		complete = false
	case query.Mode == GIVEN:
		result, err = resolver.ResolveGivenCandidates(ctx, call, expected, p.Given(query), query.CollectAll)
	case call.Kind == model.CALLABLE_REFERENCE && !query.CollectAll:
		candidates, err = resolver.ResolveCallableReference(ctx, call, expected, nil)
		complete = false
	default:
		result, err = resolver.ResolveCall(ctx, call, expected, query.CollectAll)
	}
	//
	switch {
	case err != nil:
		return "", err
	case complete:
		return result.String(), nil
	default:
		return RenderCandidates(candidates), nil
	}
}

// RenderCandidates produces a single line describing a set of candidates.
func RenderCandidates(candidates []*model.Candidate) string {
	var builder strings.Builder
	//
	builder.WriteString("candidates {")
	//
	for i, c := range candidates {
		if i != 0 {
			builder.WriteString(";")
		}
		//
		builder.WriteString(" ")
		builder.WriteString(c.Describe())
	}
	//
	builder.WriteString(" }")
	//
	return builder.String()
}

// Mismatch records an output line which differs from its expectation.  A
// missing line (or expectation) is represented by the empty string.
type Mismatch struct {
	// Index of the query concerned.
	Index    int
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("#%d: expected %q, got %q", m.Index+1, m.Expected, m.Actual)
}

// Check the output of running this fixture against its expectations.
func (p *Fixture) Check(lines []string) []Mismatch {
	var mismatches []Mismatch
	//
	for i := 0; i < max(len(lines), len(p.Expectations)); i++ {
		var expected, actual string
		//
		if i < len(p.Expectations) {
			expected = p.Expectations[i]
		}
		//
		if i < len(lines) {
			actual = lines[i]
		}
		//
		if expected != actual {
			mismatches = append(mismatches, Mismatch{i, expected, actual})
		}
	}
	//
	return mismatches
}
