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
	"context"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	log "github.com/sirupsen/logrus"
)

// Processor creates candidates for the callables found at a tower level.
type Processor interface {
	// Receiver returns the explicit receiver used to select tower levels, or
	// nil if the call has none.
	Receiver() *model.Receiver
	// Process creates candidates for the callables of a given name found at a
	// given level.  Candidates are returned in groups of decreasing priority.
	// When resolving without a tower, the level is nil.
	Process(ctx context.Context, level *Level, name string) ([][]*model.Candidate, error)
}

// Resolver drives the enumeration of tower levels, collecting the candidates
// produced at each.
type Resolver struct {
	observers []func(*Level)
}

// NewResolver constructs a tower resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Observe registers a function to be called on every level explored.
func (p *Resolver) Observe(observer func(*Level)) {
	p.observers = append(p.observers, observer)
}

// RunResolve explores the levels of a tower in order, returning the
// candidates of the best tier found.  When useOrder holds, exploration stops
// as soon as a level produces a successful candidate, such that later levels
// are shadowed.  The context is checked on entry, and before each level.
func (p *Resolver) RunResolve(ctx context.Context, tower *ImplicitScopeTower, processor Processor,
	useOrder bool, name string) ([]*model.Candidate, error) {
	return p.run(ctx, tower, processor, NewSuccessfulResultCollector(), useOrder, name)
}

// CollectAllCandidates explores every level of a tower, returning every
// candidate found regardless of its applicability.
func (p *Resolver) CollectAllCandidates(ctx context.Context, tower *ImplicitScopeTower, processor Processor,
	name string) ([]*model.Candidate, error) {
	return p.run(ctx, tower, processor, NewAllCandidatesCollector(), false, name)
}

// RunWithEmptyTowerData resolves through a processor which already knows its
// candidates, without consulting any tower.
func (p *Resolver) RunWithEmptyTowerData(ctx context.Context, processor Processor, collector Collector,
	useOrder bool) ([]*model.Candidate, error) {
	if err := model.CheckCancelled(ctx); err != nil {
		return nil, err
	}
	//
	groups, err := processor.Process(ctx, nil, "")
	if err != nil {
		return nil, err
	}
	//
	p.collect(groups, collector, useOrder)
	//
	return collector.Candidates(), nil
}

func (p *Resolver) run(ctx context.Context, tower *ImplicitScopeTower, processor Processor, collector Collector,
	useOrder bool, name string) ([]*model.Candidate, error) {
	if err := model.CheckCancelled(ctx); err != nil {
		return nil, err
	}
	//
	levels := tower.Levels(processor.Receiver())
	//
	for levels.HasNext() {
		if err := model.CheckCancelled(ctx); err != nil {
			return nil, err
		}
		//
		level := levels.Next()
		//
		for _, observer := range p.observers {
			observer(level)
		}
		//
		groups, err := processor.Process(ctx, level, name)
		if err != nil {
			return nil, err
		}
		//
		if p.collect(groups, collector, useOrder) {
			log.Debugf("resolution of %s stopped at level %s", name, level.Label())
			break
		}
	}
	//
	return collector.Candidates(), nil
}

// Push groups into a collector, returning true if exploration should stop.
func (p *Resolver) collect(groups [][]*model.Candidate, collector Collector, useOrder bool) bool {
	for _, group := range groups {
		collector.Push(group)
		//
		if useOrder && collector.ShouldStop() {
			return true
		}
	}
	//
	return false
}
