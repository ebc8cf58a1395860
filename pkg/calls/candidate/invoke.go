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

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// InvokeExtensionFactory creates candidates for calls such as a.f(x), where f
// is a value of extension function type A.(X) -> R.  Such calls invoke the
// value with the receiver as its first argument.
type InvokeExtensionFactory struct {
	env       *Environment
	call      *model.Call
	variables *SimpleFactory
}

// NewInvokeExtensionFactory constructs a factory for a given call.
func NewInvokeExtensionFactory(env *Environment, call *model.Call) *InvokeExtensionFactory {
	return &InvokeExtensionFactory{env, call, NewSimpleFactory(env, variableCall(call))}
}

// Call implementation for Factory interface.
func (p *InvokeExtensionFactory) Call() *model.Call {
	return p.call
}

// CreateCandidate implementation for Factory interface.  The tower candidate
// must be a value of extension function type, bound to the receiver.
func (p *InvokeExtensionFactory) CreateCandidate(ctx context.Context,
	tc model.TowerCandidate) (*model.Candidate, error) {
	if !tc.InvokeExtension {
		panic(fmt.Sprintf("%s is not an extension function value", tc.Callable))
	}
	// Resolve the value itself
	vtc := tc
	vtc.ExtensionReceiver, vtc.InvokeExtension = nil, false
	//
	variable, err := p.variables.CreateCandidate(ctx, vtc)
	if err != nil {
		return nil, err
	}
	//
	var (
		ft       = tc.Callable.Return.(*types.FunctionType)
		value    = model.NewReceiver(ft, tc.Callable.Name)
		receiver = p.receiverArgument(tc.ExtensionReceiver, ft)
		args     = append([]model.Argument{receiver}, p.call.Arguments...)
		call     = p.call.WithArguments(model.INVOKE, tower.INVOKE, value, args)
	)
	//
	call.DispatchReceiverForInvokeExtension = tc.ExtensionReceiver
	//
	itc := model.TowerCandidate{
		Callable:         p.env.Tower.MembersOf(ft, tower.INVOKE)[0],
		DispatchReceiver: value,
		Level:            tc.Level,
		Scope:            tc.Scope,
	}
	//
	return NewSimpleFactory(p.env, call).create(ctx, itc, variable)
}

// CreateErrorCandidate implementation for Factory interface.
func (p *InvokeExtensionFactory) CreateErrorCandidate() *model.Candidate {
	return p.variables.CreateErrorCandidate()
}

// The receiver is passed with the first of its types which fits the function
// type's receiver.
func (p *InvokeExtensionFactory) receiverArgument(receiver *model.Receiver, ft *types.FunctionType) model.Argument {
	for _, t := range receiver.Types() {
		if types.IsProper(ft.Receiver) && p.env.Universe().IsSubtype(t, ft.Receiver) {
			return &model.ExpressionArgument{Type: t}
		}
	}
	//
	return &model.ExpressionArgument{Type: receiver.Type}
}

// Create candidates which call the invoke operator on the value of a variable,
// as in f(x) where f has a function type (or a type with an invoke operator).
func createImplicitInvokes(ctx context.Context, env *Environment, call *model.Call,
	variable *model.Candidate) ([]*model.Candidate, error) {
	var (
		candidates []*model.Candidate
		rtype      = variable.ReturnType()
		value      = model.NewReceiver(rtype, variable.Callable().Name)
		factory    = NewSimpleFactory(env, call.WithArguments(model.INVOKE, tower.INVOKE, value, call.Arguments))
	)
	//
	for _, member := range env.Tower.MembersOf(rtype, tower.INVOKE) {
		if !member.Has(model.OPERATOR) {
			continue
		}
		//
		tc := model.TowerCandidate{
			Callable:         member,
			DispatchReceiver: value,
			Level:            variable.Level(),
			Scope:            variable.TowerCandidate().Scope,
		}
		//
		candidate, err := factory.create(ctx, tc, variable)
		if err != nil {
			return nil, err
		}
		//
		candidates = append(candidates, candidate)
	}
	//
	return candidates, nil
}

// Construct the variable access implied by a call of the same name.
func variableCall(call *model.Call) *model.Call {
	return &model.Call{
		Kind:             model.VARIABLE,
		Name:             call.Name,
		ExplicitReceiver: call.ExplicitReceiver,
		Position:         call.Position,
	}
}
