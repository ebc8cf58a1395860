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
package overload

import (
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// ChooseMaximallySpecificCandidates narrows a set of applicable candidates down
// to those which are maximally specific.  When a single most specific
// candidate exists (possibly after discriminating generic candidates), only
// that candidate is returned.  Otherwise, every candidate not dominated by
// another is returned, in their original order.  The same declaration reached
// more than once is considered only once.
func ChooseMaximallySpecificCandidates(candidates []*model.Candidate, u *types.Universe, mode Mode,
	discriminateGenerics bool) []*model.Candidate {
	candidates = dropDuplicates(candidates)
	//
	if len(candidates) <= 1 {
		return candidates
	}
	//
	sigs := make([]*signature, len(candidates))
	//
	for i, c := range candidates {
		sigs[i] = newSignature(c, mode)
	}
	//
	if best := findMaximallySpecific(sigs, u, false); best != nil {
		return []*model.Candidate{best}
	} else if discriminateGenerics {
		if best := findMaximallySpecific(sigs, u, true); best != nil {
			log.Debugf("chose %s by discriminating generics", best)
			return []*model.Candidate{best}
		}
	}
	//
	return nonDominated(sigs, u)
}

// FilterSynthesized removes synthesized candidates (e.g. SAM adapters),
// provided at least one other candidate remains.
func FilterSynthesized(candidates []*model.Candidate) []*model.Candidate {
	var natural []*model.Candidate
	//
	for _, c := range candidates {
		if c.Callable() == nil || !c.Callable().Has(model.SYNTHESIZED) {
			natural = append(natural, c)
		}
	}
	//
	if len(natural) == 0 {
		return candidates
	}
	//
	return natural
}

// Find the unique candidate which is not less specific than every other, where
// ties between equally specific candidates are broken by shape.
func findMaximallySpecific(sigs []*signature, u *types.Universe, discriminateGenerics bool) *model.Candidate {
	var best []*signature
	//
	for _, s := range sigs {
		if isMostSpecific(s, sigs, func(lhs, rhs *signature) bool {
			return lhs.notLessSpecific(rhs, u, discriminateGenerics)
		}) {
			best = append(best, s)
		}
	}
	//
	switch len(best) {
	case 0:
		return nil
	case 1:
		return best[0].candidate
	}
	//
	var winner *signature
	//
	for _, s := range best {
		if isMostSpecific(s, best, (*signature).notLessSpecificShape) {
			if winner != nil {
				return nil
			}
			//
			winner = s
		}
	}
	//
	if winner == nil || !isStrictlyBest(winner, best) {
		return nil
	}
	//
	return winner.candidate
}

// The winner by shape must beat every other candidate strictly.
func isStrictlyBest(winner *signature, sigs []*signature) bool {
	for _, s := range sigs {
		if s != winner && s.notLessSpecificShape(winner) {
			return false
		}
	}
	//
	return true
}

func isMostSpecific(s *signature, sigs []*signature, notLessSpecific func(*signature, *signature) bool) bool {
	for _, other := range sigs {
		if other != s && !notLessSpecific(s, other) {
			return false
		}
	}
	//
	return true
}

// Determine the candidates which are not dominated by any other, where one
// candidate dominates another if it is not less specific, but the converse
// does not hold.
func nonDominated(sigs []*signature, u *types.Universe) []*model.Candidate {
	var result []*model.Candidate
	//
	for _, s := range sigs {
		dominated := false
		//
		for _, other := range sigs {
			if other != s && other.notLessSpecific(s, u, false) && !s.notLessSpecific(other, u, false) {
				log.Debugf("%s dominated by %s", s.candidate, other.candidate)
				dominated = true
				//
				break
			}
		}
		//
		if !dominated {
			result = append(result, s.candidate)
		}
	}
	//
	return result
}

func dropDuplicates(candidates []*model.Candidate) []*model.Candidate {
	var (
		result []*model.Candidate
		seen   = make(map[*model.Callable]bool)
	)
	//
	for _, c := range candidates {
		if c.Callable() == nil {
			result = append(result, c)
			continue
		}
		//
		original := c.Callable().Original()
		//
		if !seen[original] {
			seen[original] = true
			result = append(result, c)
		}
	}
	//
	return result
}
