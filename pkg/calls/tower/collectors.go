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
package tower

import (
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	log "github.com/sirupsen/logrus"
)

// Collector accumulates the candidates produced during tower resolution.
type Collector interface {
	// Push a group of candidates produced together.
	Push(group []*model.Candidate)
	// ShouldStop determines whether later levels can be skipped.
	ShouldStop() bool
	// Candidates returns the candidates collected so far.
	Candidates() []*model.Candidate
}

// SuccessfulResultCollector retains only the candidates of the best tier seen
// so far.  It signals a stop once a successful candidate (possibly with
// warnings) is found.
type SuccessfulResultCollector struct {
	tier       model.Tier
	candidates []*model.Candidate
}

// NewSuccessfulResultCollector constructs an empty collector.
func NewSuccessfulResultCollector() *SuccessfulResultCollector {
	return &SuccessfulResultCollector{model.NO_MATCH, nil}
}

// Push implementation for Collector interface.
func (p *SuccessfulResultCollector) Push(group []*model.Candidate) {
	for _, c := range group {
		tier := c.Tier()
		//
		switch {
		case tier < p.tier:
			log.Debugf("collected %s (%s), dropping %d candidate(s)", c, tier, len(p.candidates))
			p.tier = tier
			p.candidates = []*model.Candidate{c}
		case tier == p.tier:
			log.Debugf("collected %s (%s)", c, tier)
			p.candidates = append(p.candidates, c)
		}
	}
}

// ShouldStop implementation for Collector interface.
func (p *SuccessfulResultCollector) ShouldStop() bool {
	return p.tier <= model.SUCCESS_WITH_WARNING && len(p.candidates) > 0
}

// Candidates implementation for Collector interface.
func (p *SuccessfulResultCollector) Candidates() []*model.Candidate {
	return p.candidates
}

// Tier returns the tier of the candidates collected.
func (p *SuccessfulResultCollector) Tier() model.Tier {
	return p.tier
}

// AllCandidatesCollector retains every candidate pushed, and never stops.
type AllCandidatesCollector struct {
	candidates []*model.Candidate
}

// NewAllCandidatesCollector constructs an empty collector.
func NewAllCandidatesCollector() *AllCandidatesCollector {
	return &AllCandidatesCollector{}
}

// Push implementation for Collector interface.
func (p *AllCandidatesCollector) Push(group []*model.Candidate) {
	p.candidates = append(p.candidates, group...)
}

// ShouldStop implementation for Collector interface.
func (p *AllCandidatesCollector) ShouldStop() bool {
	return false
}

// Candidates implementation for Collector interface.
func (p *AllCandidatesCollector) Candidates() []*model.Candidate {
	return p.candidates
}
