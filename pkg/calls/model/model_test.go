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
	"context"
	"errors"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Call_01(t *testing.T) {
	u := types.NewUniverse()
	//
	ok := &Call{Kind: FUNCTION, Name: "f", Arguments: []Argument{&IntegerLiteral{Value: 1}}}
	require.NoError(t, ok.CheckInvariants())
	assert.Equal(t, "f(1)", ok.String())
	// References carry no arguments
	ref := &Call{Kind: CALLABLE_REFERENCE, Name: "f", LHS: &LHS{TYPE_LHS, u.String()},
		Arguments: []Argument{&NullLiteral{}}}
	assert.True(t, errors.Is(ref.CheckInvariants(), ErrInvalidCall))
	// Variables carry no arguments
	get := &Call{Kind: VARIABLE, Name: "x", TypeArguments: []types.Type{u.Int()}}
	assert.Error(t, get.CheckInvariants())
	// Invoke requires a receiver
	invoke := &Call{Kind: INVOKE, Name: "invoke"}
	assert.Error(t, invoke.CheckInvariants())
	// Only references have a left-hand side
	bad := &Call{Kind: FUNCTION, Name: "f", LHS: &LHS{EMPTY_LHS, nil}}
	assert.Error(t, bad.CheckInvariants())
}

func Test_Call_02(t *testing.T) {
	u := types.NewUniverse()
	call := &Call{Kind: FUNCTION, Name: "f", ExplicitReceiver: NewReceiver(u.String(), "s"),
		Arguments: []Argument{
			&ExpressionArgument{Name: "x", Type: u.Int()},
			&LambdaArgument{Params: []types.Type{nil}, Body: types.LambdaParameter{}},
		}}
	//
	assert.Equal(t, "s.f(x = Int, { $0 -> $0 })", call.String())
	ref := &Call{Kind: CALLABLE_REFERENCE, Name: "length", LHS: &LHS{TYPE_LHS, u.String()}}
	assert.Equal(t, "String::length", ref.String())
}

func Test_Applicability_01(t *testing.T) {
	assert.Equal(t, SUCCESS, RESOLVED.Tier())
	assert.Equal(t, SUCCESS_WITH_WARNING, RESOLVED_WITH_WARNING.Tier())
	assert.Equal(t, PARTIAL_MATCH, INAPPLICABLE.Tier())
	assert.Equal(t, PARTIAL_MATCH, INAPPLICABLE_ARGUMENTS_MAPPING.Tier())
	assert.Equal(t, NO_MATCH, INAPPLICABLE_WRONG_RECEIVER.Tier())
	assert.Equal(t, NO_MATCH, HIDDEN_CANDIDATE.Tier())
	assert.True(t, RESOLVED_WITH_WARNING.IsSuccess())
	assert.False(t, INAPPLICABLE.IsSuccess())
}

func Test_Candidate_01(t *testing.T) {
	u := types.NewUniverse()
	f := NewFunction("f", "a", nil, nil, []Parameter{{"x", u.Int(), false, false}}, u.Unit(), DEPRECATED)
	call := &Call{Kind: FUNCTION, Name: "f"}
	b := NewCandidateBuilder(call, TowerCandidate{Callable: f}, inference.NewSystem(u))
	b.Report(DEPRECATED_CALL, NO_ARGUMENT, "")
	c := b.Build()
	//
	assert.True(t, c.IsSuccessful())
	assert.Equal(t, SUCCESS_WITH_WARNING, c.Tier())
	assert.Equal(t, "a.f(x: Int): Unit", c.String())
	// Diagnostics can be added until the candidate is finalised.
	c.AddDiagnostic(CHOSEN_BY_LAMBDA_RETURN_TYPE, NO_ARGUMENT, "")
	assert.Len(t, c.Diagnostics(), 2)
	c.Finalise(types.Substitution{})
	assert.Panics(t, func() { c.AddDiagnostic(NOT_ENOUGH_INFORMATION, NO_ARGUMENT, "") })
}

func Test_Candidate_02(t *testing.T) {
	u := types.NewUniverse()
	f := NewFunction("f", "a", nil, nil, nil, u.Unit(), 0)
	b := NewCandidateBuilder(&Call{Kind: FUNCTION, Name: "f"}, TowerCandidate{Callable: f}, inference.NewSystem(u))
	b.Report(TOO_MANY_ARGUMENTS, 0, "")
	c := b.Build()
	//
	assert.Equal(t, INAPPLICABLE_ARGUMENTS_MAPPING, c.Applicability())
	assert.Panics(t, func() { c.AddDiagnostic(DEPRECATED_CALL, NO_ARGUMENT, "") })
}

func Test_Candidate_03(t *testing.T) {
	u := types.NewUniverse()
	param := types.NewTypeParameter("T", u.NullableAny(), types.INVARIANT)
	id := NewFunction("id", "a", []*types.TypeParameter{param}, nil,
		[]Parameter{{"x", param, false, false}}, param, 0)
	system := inference.NewSystem(u)
	b := NewCandidateBuilder(&Call{Kind: FUNCTION, Name: "id"}, TowerCandidate{Callable: id}, system)
	v := system.NewVariable(param)
	b.AddVariable(param, v)
	b.SetMapping([]int{0}, 0)
	system.AddSubtype(u.String(), v, inference.ArgumentPosition(0))
	c := b.Build()
	//
	assert.Equal(t, "T#1", c.ReturnType().String())
	assert.Equal(t, "T#1", c.ParameterType(0).String())
	system.Solve()
	c.Finalise(system.Substitution())
	assert.Equal(t, "String", c.ReturnType().String())
	assert.Equal(t, "a.id<T>(x: T): T [T=String]", c.Describe())
}

func Test_IntegerLiteral_01(t *testing.T) {
	u := types.NewUniverse()
	small := &IntegerLiteral{Value: 100}
	big := &IntegerLiteral{Value: 1 << 40}
	//
	assert.Equal(t, "Int", small.DefaultType(u).String())
	assert.Equal(t, "Long", big.DefaultType(u).String())
	assert.True(t, small.CoercibleTo(u, u.Byte()))
	assert.False(t, (&IntegerLiteral{Value: 200}).CoercibleTo(u, u.Byte()))
	assert.True(t, big.CoercibleTo(u, u.Long()))
	assert.False(t, big.CoercibleTo(u, u.Int()))
	assert.False(t, small.CoercibleTo(u, u.Double()))
}

func Test_Settings_01(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.Supports(REFINED_SAM_ADAPTERS_PRIORITY))
	//
	s2 := s.With(REFINED_SAM_ADAPTERS_PRIORITY, false)
	assert.False(t, s2.Supports(REFINED_SAM_ADAPTERS_PRIORITY))
	assert.True(t, s.Supports(REFINED_SAM_ADAPTERS_PRIORITY))
	//
	f, err := ParseLanguageFeature("OverloadResolutionByLambdaReturnType")
	require.NoError(t, err)
	assert.Equal(t, OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE, f)
	_, err = ParseLanguageFeature("Nope")
	assert.Error(t, err)
}

func Test_Cancelled_01(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, CheckCancelled(ctx))
	cancel()
	//
	err := CheckCancelled(ctx)
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
}
