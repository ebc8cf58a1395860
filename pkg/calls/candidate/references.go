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
	"fmt"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/overload"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// CallableReferencesFactory creates candidates for callable references.  The
// reflection type of each candidate is constrained by the expected type (if
// known), and every candidate's system is forked from a base system (if
// given), so that the reference can take part in an enclosing inference.
type CallableReferencesFactory struct {
	env      *Environment
	call     *model.Call
	expected types.Type
	base     *inference.System
	receiver *model.Receiver
}

// NewCallableReferencesFactory constructs a factory for a given callable
// reference, with optional expected type and base system.
func NewCallableReferencesFactory(env *Environment, call *model.Call, expected types.Type,
	base *inference.System) *CallableReferencesFactory {
	var receiver *model.Receiver
	//
	if call.LHS.Kind != model.EMPTY_LHS {
		receiver = model.NewReceiver(call.LHS.Type, call.LHS.Type.String())
	}
	//
	return &CallableReferencesFactory{env, call, expected, base, receiver}
}

// Call implementation for Factory interface.
func (p *CallableReferencesFactory) Call() *model.Call {
	return p.call
}

// Receiver returns the receiver implied by the left-hand side of the
// reference, or nil if it is empty.
func (p *CallableReferencesFactory) Receiver() *model.Receiver {
	return p.receiver
}

// CreateCandidate implementation for Factory interface.
func (p *CallableReferencesFactory) CreateCandidate(ctx context.Context,
	tc model.TowerCandidate) (*model.Candidate, error) {
	if err := model.CheckCancelled(ctx); err != nil {
		return nil, err
	}
	//
	b := model.NewCandidateBuilder(p.call, tc, p.newSystem())
	checker := &checker{ctx, p.env, b}
	//
	err := checker.run(checkVisibility, createVariables, checkReceivers, checkDeclaredBounds, p.checkReflectionType,
		checkDeprecation)
	if err != nil {
		return nil, err
	}
	//
	return b.Build(), nil
}

// CreateErrorCandidate implementation for Factory interface.
func (p *CallableReferencesFactory) CreateErrorCandidate() *model.Candidate {
	return model.NewErrorCandidate(p.call, p.newSystem())
}

func (p *CallableReferencesFactory) newSystem() *inference.System {
	if p.base != nil {
		return p.base.Fork()
	}
	//
	return inference.NewSystem(p.env.Universe())
}

// The reflection type of a reference is the function type of its callable.
// Unbound references to members or extensions take the receiver as their first
// parameter.
func (p *CallableReferencesFactory) checkReflectionType(c *checker) error {
	var (
		tc         = c.b.TowerCandidate()
		freshening = c.b.Freshening()
		lhs        = p.call.LHS
		params     []types.Type
	)
	//
	if lhs.Kind == model.TYPE_LHS && (tc.DispatchReceiver != nil || tc.ExtensionReceiver != nil) {
		params = append(params, lhs.Type)
	}
	//
	for _, param := range tc.Callable.Params {
		params = append(params, freshening.Apply(param.Type))
	}
	//
	reflection := types.NewFunctionType(params, freshening.Apply(tc.Callable.Return))
	c.b.SetCallableReference(model.LHSResult{Kind: lhs.Kind, Type: lhs.Type}, reflection)
	//
	if p.expected != nil {
		if conflict := c.constrain(reflection, p.expected, inference.At(inference.CALLABLE_REFERENCE)); conflict != nil {
			c.b.Report(model.TYPE_MISMATCH, model.NO_ARGUMENT,
				fmt.Sprintf("%s is not a subtype of %s", reflection, p.expected))
		}
	}
	//
	return nil
}

// A callable reference passed as an argument is resolved against the
// parameter type, on a fork of the candidate's system.  The system of the
// chosen reference is then merged back.
func (p *checker) checkCallableReference(index uint, arg *model.CallableReferenceArgument, param types.Type) error {
	var (
		outer     = p.system()
		factory   = NewCallableReferencesFactory(p.env, arg.Call, param, outer)
		processor = NewCallableReferenceProcessor(factory)
	)
	//
	candidates, err := p.env.Resolver.RunResolve(p.ctx, p.env.Tower, processor, true, arg.Call.Name)
	if err != nil {
		return err
	}
	//
	var successful []*model.Candidate
	//
	for _, c := range candidates {
		if c.IsSuccessful() {
			successful = append(successful, c)
		}
	}
	//
	if len(successful) > 1 {
		successful = overload.ChooseMaximallySpecificCandidates(successful, p.universe(),
			overload.CHECK_CALLABLE_TYPE, false)
	}
	//
	switch len(successful) {
	case 0:
		p.b.Report(model.UNRESOLVED_CALLABLE_REFERENCE, int(index), arg.Call.String())
	case 1:
		if err := outer.Merge(successful[0].System()); err != nil {
			p.b.Report(model.CONSTRAINT_CONFLICT, int(index), err.Error())
		} else {
			p.b.SetReference(index, successful[0])
		}
	default:
		names := make([]string, len(successful))
		//
		for i, c := range successful {
			names[i] = c.String()
		}
		//
		p.b.Report(model.AMBIGUOUS_CALLABLE_REFERENCE, int(index), strings.Join(names, ", "))
	}
	//
	return nil
}
