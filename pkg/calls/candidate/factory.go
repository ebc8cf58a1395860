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
package candidate

import (
	"context"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// Environment holds the read-only state shared by every candidate created
// during the resolution of a call.
type Environment struct {
	Tower    *tower.ImplicitScopeTower
	Resolver *tower.Resolver
	Settings model.Settings
}

// NewEnvironment constructs an environment for resolving calls against a
// given tower.
func NewEnvironment(tw *tower.ImplicitScopeTower, resolver *tower.Resolver, settings model.Settings) *Environment {
	return &Environment{tw, resolver, settings}
}

// Universe returns the universe of classes.
func (p *Environment) Universe() *types.Universe {
	return p.Tower.Universe()
}

// Factory creates candidates for a particular call.
type Factory interface {
	// Call returns the call for which candidates are created.
	Call() *model.Call
	// CreateCandidate binds the callable of a tower candidate to the call,
	// recording diagnostics for every applicability problem found.  An error
	// is returned only when resolution was cancelled.
	CreateCandidate(ctx context.Context, tc model.TowerCandidate) (*model.Candidate, error)
	// CreateErrorCandidate creates a candidate reporting that the call could
	// not be resolved at all.
	CreateErrorCandidate() *model.Candidate
}

// SimpleFactory creates candidates for plain function calls, variable accesses
// and explicit invoke calls.
type SimpleFactory struct {
	env  *Environment
	call *model.Call
}

// NewSimpleFactory constructs a factory for a given call.
func NewSimpleFactory(env *Environment, call *model.Call) *SimpleFactory {
	return &SimpleFactory{env, call}
}

// Call implementation for Factory interface.
func (p *SimpleFactory) Call() *model.Call {
	return p.call
}

// CreateCandidate implementation for Factory interface.
func (p *SimpleFactory) CreateCandidate(ctx context.Context, tc model.TowerCandidate) (*model.Candidate, error) {
	return p.create(ctx, tc, nil)
}

// CreateErrorCandidate implementation for Factory interface.
func (p *SimpleFactory) CreateErrorCandidate() *model.Candidate {
	return model.NewErrorCandidate(p.call, inference.NewSystem(p.env.Universe()))
}

// Create a candidate which, if invoke is given, calls the invoke operator on
// the value of a variable candidate.
func (p *SimpleFactory) create(ctx context.Context, tc model.TowerCandidate,
	invoke *model.Candidate) (*model.Candidate, error) {
	if err := model.CheckCancelled(ctx); err != nil {
		return nil, err
	}
	//
	b := model.NewCandidateBuilder(p.call, tc, inference.NewSystem(p.env.Universe()))
	//
	if invoke != nil {
		b.SetInvoke(invoke)
		inheritDiagnostics(b, invoke)
	}
	//
	checker := &checker{ctx, p.env, b}
	//
	err := checker.run(checkVisibility, createVariables, checkReceivers, checkTypeArguments, checkDeclaredBounds,
		mapArguments, checkArguments, checkDeprecation)
	if err != nil {
		return nil, err
	}
	//
	return b.Build(), nil
}

// Diagnostics of a variable candidate carry over to the invoke candidate using
// it.
func inheritDiagnostics(b *model.CandidateBuilder, variable *model.Candidate) {
	for _, d := range variable.Diagnostics() {
		b.Report(d.Kind, model.NO_ARGUMENT, d.Message)
	}
}
