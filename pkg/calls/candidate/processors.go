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

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// Processor creates the candidates for one kind of call at each tower level.
type Processor interface {
	tower.Processor
	// Factory returns the factory creating candidates for the call itself.
	Factory() Factory
}

// NewProcessor constructs the processor appropriate for the kind of a given
// call.  The expected type and base system are used only for callable
// references, and supplying a base system for any other call is an error.
func NewProcessor(env *Environment, call *model.Call, expected types.Type, base *inference.System) Processor {
	if base != nil && call.Kind != model.CALLABLE_REFERENCE {
		panic(fmt.Sprintf("base constraint system supplied for %s call %s", call.Kind, call.Name))
	}
	//
	switch call.Kind {
	case model.FUNCTION:
		return NewFunctionProcessor(env, call)
	case model.VARIABLE:
		return NewVariableProcessor(env, call)
	case model.CALLABLE_REFERENCE:
		return NewCallableReferenceProcessor(NewCallableReferencesFactory(env, call, expected, base))
	case model.INVOKE:
		return NewInvokeProcessor(env, call)
	default:
		panic(fmt.Sprintf("unsupported call %s", call))
	}
}

// ============================================================================
// Functions
// ============================================================================

// FunctionProcessor creates candidates for function calls.  At each level,
// functions come first, followed by invocations of values of function type
// (or with an invoke operator).
type FunctionProcessor struct {
	env        *Environment
	call       *model.Call
	functions  *SimpleFactory
	variables  *SimpleFactory
	extensions *InvokeExtensionFactory
}

// NewFunctionProcessor constructs a processor for a given function call.
func NewFunctionProcessor(env *Environment, call *model.Call) *FunctionProcessor {
	return &FunctionProcessor{
		env, call,
		NewSimpleFactory(env, call),
		NewSimpleFactory(env, variableCall(call)),
		NewInvokeExtensionFactory(env, call),
	}
}

// Factory implementation for Processor interface.
func (p *FunctionProcessor) Factory() Factory { return p.functions }

// Receiver implementation for tower.Processor interface.
func (p *FunctionProcessor) Receiver() *model.Receiver { return p.call.ExplicitReceiver }

// Process implementation for tower.Processor interface.
func (p *FunctionProcessor) Process(ctx context.Context, level *tower.Level,
	name string) ([][]*model.Candidate, error) {
	var functions, invokes []*model.Candidate
	//
	for _, tc := range level.Candidates(name) {
		switch {
		case tc.Callable.IsFunction():
			c, err := p.functions.CreateCandidate(ctx, tc)
			if err != nil {
				return nil, err
			}
			//
			functions = append(functions, c)
		case tc.InvokeExtension:
			c, err := p.extensions.CreateCandidate(ctx, tc)
			if err != nil {
				return nil, err
			}
			//
			invokes = append(invokes, c)
		default:
			variable, err := p.variables.CreateCandidate(ctx, tc)
			if err != nil {
				return nil, err
			} else if !variable.IsSuccessful() {
				continue
			}
			//
			cs, err := createImplicitInvokes(ctx, p.env, p.call, variable)
			if err != nil {
				return nil, err
			}
			//
			invokes = append(invokes, cs...)
		}
	}
	//
	return [][]*model.Candidate{functions, invokes}, nil
}

// ============================================================================
// Variables
// ============================================================================

// VariableProcessor creates candidates for variable (or property) accesses.
type VariableProcessor struct {
	call    *model.Call
	factory *SimpleFactory
}

// NewVariableProcessor constructs a processor for a given variable access.
func NewVariableProcessor(env *Environment, call *model.Call) *VariableProcessor {
	return &VariableProcessor{call, NewSimpleFactory(env, call)}
}

// Factory implementation for Processor interface.
func (p *VariableProcessor) Factory() Factory { return p.factory }

// Receiver implementation for tower.Processor interface.
func (p *VariableProcessor) Receiver() *model.Receiver { return p.call.ExplicitReceiver }

// Process implementation for tower.Processor interface.
func (p *VariableProcessor) Process(ctx context.Context, level *tower.Level,
	name string) ([][]*model.Candidate, error) {
	var candidates []*model.Candidate
	//
	for _, tc := range level.Candidates(name) {
		if tc.Callable.IsFunction() || tc.InvokeExtension {
			continue
		}
		//
		c, err := p.factory.CreateCandidate(ctx, tc)
		if err != nil {
			return nil, err
		}
		//
		candidates = append(candidates, c)
	}
	//
	return [][]*model.Candidate{candidates}, nil
}

// ============================================================================
// Callable References
// ============================================================================

// CallableReferenceProcessor creates candidates for callable references, which
// may refer to functions or properties alike.
type CallableReferenceProcessor struct {
	factory *CallableReferencesFactory
}

// NewCallableReferenceProcessor constructs a processor using a given factory.
func NewCallableReferenceProcessor(factory *CallableReferencesFactory) *CallableReferenceProcessor {
	return &CallableReferenceProcessor{factory}
}

// Factory implementation for Processor interface.
func (p *CallableReferenceProcessor) Factory() Factory { return p.factory }

// Receiver implementation for tower.Processor interface.
func (p *CallableReferenceProcessor) Receiver() *model.Receiver { return p.factory.Receiver() }

// Process implementation for tower.Processor interface.
func (p *CallableReferenceProcessor) Process(ctx context.Context, level *tower.Level,
	name string) ([][]*model.Candidate, error) {
	var candidates []*model.Candidate
	//
	for _, tc := range level.Candidates(name) {
		if tc.InvokeExtension {
			continue
		}
		//
		c, err := p.factory.CreateCandidate(ctx, tc)
		if err != nil {
			return nil, err
		}
		//
		candidates = append(candidates, c)
	}
	//
	return [][]*model.Candidate{candidates}, nil
}

// ============================================================================
// Invoke
// ============================================================================

// InvokeProcessor creates candidates for explicit invocations of a value, which
// must resolve to an invoke operator.
type InvokeProcessor struct {
	call    *model.Call
	factory *SimpleFactory
}

// NewInvokeProcessor constructs a processor for a given invoke call.  When the
// call invokes an extension function value, its receiver is passed as the
// first argument.
func NewInvokeProcessor(env *Environment, call *model.Call) *InvokeProcessor {
	if d := call.DispatchReceiverForInvokeExtension; d != nil {
		args := append([]model.Argument{&model.ExpressionArgument{Type: d.Type}}, call.Arguments...)
		ncall := call.WithArguments(model.INVOKE, call.Name, call.ExplicitReceiver, args)
		ncall.DispatchReceiverForInvokeExtension = d
		call = ncall
	}
	//
	return &InvokeProcessor{call, NewSimpleFactory(env, call)}
}

// Factory implementation for Processor interface.
func (p *InvokeProcessor) Factory() Factory { return p.factory }

// Receiver implementation for tower.Processor interface.
func (p *InvokeProcessor) Receiver() *model.Receiver { return p.call.ExplicitReceiver }

// Process implementation for tower.Processor interface.
func (p *InvokeProcessor) Process(ctx context.Context, level *tower.Level,
	name string) ([][]*model.Candidate, error) {
	var candidates []*model.Candidate
	//
	for _, tc := range level.Candidates(name) {
		if !tc.Callable.IsFunction() || !tc.Callable.Has(model.OPERATOR) {
			continue
		}
		//
		c, err := p.factory.CreateCandidate(ctx, tc)
		if err != nil {
			return nil, err
		}
		//
		candidates = append(candidates, c)
	}
	//
	return [][]*model.Candidate{candidates}, nil
}

// ============================================================================
// Known Results
// ============================================================================

// KnownResultProcessor creates candidates for a fixed set of callables, which
// is used when the candidates of a call are supplied rather than looked up.
type KnownResultProcessor struct {
	factory Factory
	given   []model.TowerCandidate
}

// NewKnownResultProcessor constructs a processor for the given candidates.
func NewKnownResultProcessor(factory Factory, given []model.TowerCandidate) *KnownResultProcessor {
	return &KnownResultProcessor{factory, given}
}

// Factory implementation for Processor interface.
func (p *KnownResultProcessor) Factory() Factory { return p.factory }

// Receiver implementation for tower.Processor interface.
func (p *KnownResultProcessor) Receiver() *model.Receiver { return nil }

// Process implementation for tower.Processor interface.  The level is
// ignored.
func (p *KnownResultProcessor) Process(ctx context.Context, _ *tower.Level,
	_ string) ([][]*model.Candidate, error) {
	candidates := make([]*model.Candidate, len(p.given))
	//
	for i, tc := range p.given {
		c, err := p.factory.CreateCandidate(ctx, tc)
		if err != nil {
			return nil, err
		}
		//
		candidates[i] = c
	}
	//
	return [][]*model.Candidate{candidates}, nil
}
