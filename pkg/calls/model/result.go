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
package model

import (
	"fmt"
	"strings"
)

// ResultKind identifies the outcome of resolving a call.
type ResultKind uint8

const (
	// RESOLVED_CALL indicates exactly one candidate was chosen and completed.
	RESOLVED_CALL ResultKind = iota
	// AMBIGUOUS_CALL indicates several equally specific candidates remain.
	AMBIGUOUS_CALL
	// UNRESOLVED_CALL indicates no applicable candidate was found.  The best
	// partial matches (or an error candidate) are retained for reporting.
	UNRESOLVED_CALL
	// ALL_CANDIDATES indicates every candidate was collected, each with its
	// own diagnostics.
	ALL_CANDIDATES
)

func (k ResultKind) String() string {
	switch k {
	case RESOLVED_CALL:
		return "resolved"
	case AMBIGUOUS_CALL:
		return "ambiguous"
	case UNRESOLVED_CALL:
		return "unresolved"
	default:
		return "all"
	}
}

// Result is the outcome of resolving a call.
type Result struct {
	Kind       ResultKind
	Candidates []*Candidate
}

// NewResolvedResult constructs a result for a single chosen candidate.
func NewResolvedResult(candidate *Candidate) Result {
	return Result{RESOLVED_CALL, []*Candidate{candidate}}
}

// NewAmbiguousResult constructs a result for a set of tied candidates.
func NewAmbiguousResult(candidates []*Candidate) Result {
	return Result{AMBIGUOUS_CALL, candidates}
}

// NewUnresolvedResult constructs a result for an unresolvable call.
func NewUnresolvedResult(candidates []*Candidate) Result {
	return Result{UNRESOLVED_CALL, candidates}
}

// NewAllCandidatesResult constructs a result holding every candidate.
func NewAllCandidatesResult(candidates []*Candidate) Result {
	return Result{ALL_CANDIDATES, candidates}
}

// Resolved returns the chosen candidate, or nil if the call was not resolved.
func (r Result) Resolved() *Candidate {
	if r.Kind == RESOLVED_CALL {
		return r.Candidates[0]
	}
	//
	return nil
}

func (r Result) String() string {
	var builder strings.Builder
	//
	builder.WriteString(r.Kind.String())
	//
	switch r.Kind {
	case RESOLVED_CALL:
		c := r.Candidates[0]
		builder.WriteString(fmt.Sprintf(" %s", c.Describe()))
		//
		if t := c.ReturnType(); t != nil {
			builder.WriteString(fmt.Sprintf(" : %s", t))
		}
	default:
		builder.WriteString(" {")
		//
		for i, c := range r.Candidates {
			if i != 0 {
				builder.WriteString(";")
			}
			//
			builder.WriteString(" ")
			builder.WriteString(c.Describe())
		}
		//
		builder.WriteString(" }")
	}
	//
	return builder.String()
}
