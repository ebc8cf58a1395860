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
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Overload_01(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Int()})
	fInt := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	fAny := candidateOf(u, call, function(u, "f", param("x", u.Any())), []int{0}, 0)
	//
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{fAny, fInt}, u, CHECK_VALUE_ARGUMENTS, false)
	//
	assert.Equal(t, []*model.Candidate{fInt}, chosen)
}

func Test_Overload_02(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.IntegerLiteral{Value: 1})
	fInt := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	fLong := candidateOf(u, call, function(u, "f", param("x", u.Long())), []int{0}, 0, 0)
	// Exact beats coercion
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{fLong, fInt}, u, CHECK_VALUE_ARGUMENTS, true)
	//
	assert.Equal(t, []*model.Candidate{fInt}, chosen)
}

func Test_Overload_03(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Nothing()})
	fShort := candidateOf(u, call, function(u, "f", param("x", u.Short())), []int{0}, 0)
	fByte := candidateOf(u, call, function(u, "f", param("x", u.Byte())), []int{0}, 0)
	fLong := candidateOf(u, call, function(u, "f", param("x", u.Long())), []int{0}, 0)
	//
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{fByte, fShort}, u, CHECK_VALUE_ARGUMENTS, false)
	assert.Equal(t, []*model.Candidate{fShort}, chosen)
	// Short and Byte are both preferred over Long
	chosen = ChooseMaximallySpecificCandidates([]*model.Candidate{fLong, fShort}, u, CHECK_VALUE_ARGUMENTS, false)
	assert.Equal(t, []*model.Candidate{fShort}, chosen)
	chosen = ChooseMaximallySpecificCandidates([]*model.Candidate{fLong, fByte}, u, CHECK_VALUE_ARGUMENTS, false)
	assert.Equal(t, []*model.Candidate{fByte}, chosen)
	chosen = ChooseMaximallySpecificCandidates([]*model.Candidate{fLong, fByte, fShort}, u, CHECK_VALUE_ARGUMENTS, false)
	assert.Equal(t, []*model.Candidate{fShort}, chosen)
}

func Test_Overload_04(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Nothing()})
	fString := candidateOf(u, call, function(u, "f", param("x", u.String())), []int{0}, 0)
	fInt := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	fAny := candidateOf(u, call, function(u, "f", param("x", u.Any())), []int{0}, 0)
	// String and Int are unrelated, but both beat Any
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{fString, fAny, fInt}, u, CHECK_VALUE_ARGUMENTS, true)
	//
	assert.Equal(t, []*model.Candidate{fString, fInt}, chosen)
	assertMaximal(t, u, chosen)
}

func Test_Overload_05(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", u.Any(), types.INVARIANT)
	call := callOf(&model.ExpressionArgument{Type: u.String()})
	generic := candidateOf(u, call, model.NewFunction("f", "pkg", []*types.TypeParameter{tp}, nil,
		[]model.Parameter{param("x", tp)}, tp, 0), []int{0}, 0)
	fAny := candidateOf(u, call, function(u, "f", param("x", u.Any())), []int{0}, 0)
	// Equally specific unless generics are discriminated
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{generic, fAny}, u, CHECK_VALUE_ARGUMENTS, false)
	assert.Len(t, chosen, 2)
	//
	chosen = ChooseMaximallySpecificCandidates([]*model.Candidate{generic, fAny}, u, CHECK_VALUE_ARGUMENTS, true)
	assert.Equal(t, []*model.Candidate{fAny}, chosen)
}

func Test_Overload_06(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", nil, types.INVARIANT)
	call := callOf(&model.ExpressionArgument{Type: u.Int()})
	generic := candidateOf(u, call, model.NewFunction("f", "pkg", []*types.TypeParameter{tp}, nil,
		[]model.Parameter{param("x", tp)}, tp, 0), []int{0}, 0)
	fInt := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	//
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{generic, fInt}, u, CHECK_VALUE_ARGUMENTS, false)
	//
	assert.Equal(t, []*model.Candidate{fInt}, chosen)
}

func Test_Overload_07(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Int()})
	plain := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	vararg := candidateOf(u, call, function(u, "f", model.Parameter{Name: "x", Type: u.Int(), Vararg: true}), []int{0}, 0)
	defaults := candidateOf(u, call, function(u, "f", param("x", u.Int()),
		model.Parameter{Name: "y", Type: u.Int(), HasDefault: true}), []int{0}, 1)
	// Non-vararg beats vararg
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{vararg, plain}, u, CHECK_VALUE_ARGUMENTS, true)
	assert.Equal(t, []*model.Candidate{plain}, chosen)
	// Fewer defaults beats more
	chosen = ChooseMaximallySpecificCandidates([]*model.Candidate{defaults, plain}, u, CHECK_VALUE_ARGUMENTS, true)
	assert.Equal(t, []*model.Candidate{plain}, chosen)
}

func Test_Overload_08(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Int()})
	f := function(u, "f", param("x", u.Int()))
	first := candidateOf(u, call, f, []int{0}, 0)
	second := candidateOf(u, call, f, []int{0}, 0)
	// The same declaration reached twice
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{first, second}, u, CHECK_VALUE_ARGUMENTS, true)
	//
	assert.Equal(t, []*model.Candidate{first}, chosen)
}

func Test_Overload_09(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Nothing()})
	fString := candidateOf(u, call, function(u, "f", param("x", u.String())), []int{0}, 0)
	fInt := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	input := []*model.Candidate{fInt, fString}
	// Repeatable
	for i := 0; i < 10; i++ {
		chosen := ChooseMaximallySpecificCandidates(input, u, CHECK_VALUE_ARGUMENTS, true)
		assert.Equal(t, []*model.Candidate{fInt, fString}, chosen)
	}
}

func Test_Overload_10(t *testing.T) {
	u := types.NewUniverse()
	box, _ := u.Declare("Box")
	call := &model.Call{Kind: model.CALLABLE_REFERENCE, Name: "bar", LHS: &model.LHS{Kind: model.TYPE_LHS,
		Type: types.NewClassType(box)}}
	barInt := candidateOf(u, call, function(u, "bar", param("x", u.Int())), nil, 0)
	barNumber := candidateOf(u, call, function(u, "bar", param("x", u.Number())), nil, 0)
	// References compare every parameter
	chosen := ChooseMaximallySpecificCandidates([]*model.Candidate{barNumber, barInt}, u, CHECK_CALLABLE_TYPE, true)
	//
	assert.Equal(t, []*model.Candidate{barInt}, chosen)
}

func Test_FilterSynthesized_01(t *testing.T) {
	u := types.NewUniverse()
	call := callOf(&model.ExpressionArgument{Type: u.Int()})
	natural := candidateOf(u, call, function(u, "f", param("x", u.Int())), []int{0}, 0)
	synthetic := model.NewFunction("f", "pkg", nil, nil, []model.Parameter{param("x", u.Any())}, u.Unit(),
		model.SYNTHESIZED)
	adapter := candidateOf(u, call, synthetic, []int{0}, 0)
	//
	assert.Equal(t, []*model.Candidate{natural}, FilterSynthesized([]*model.Candidate{adapter, natural}))
	assert.Equal(t, []*model.Candidate{adapter}, FilterSynthesized([]*model.Candidate{adapter}))
}

// ============================================================================
// Helpers
// ============================================================================

func assertMaximal(t *testing.T, u *types.Universe, candidates []*model.Candidate) {
	sigs := make([]*signature, len(candidates))
	//
	for i, c := range candidates {
		sigs[i] = newSignature(c, CHECK_VALUE_ARGUMENTS)
	}
	//
	for _, s := range sigs {
		for _, other := range sigs {
			if s != other {
				dominated := other.notLessSpecific(s, u, false) && !s.notLessSpecific(other, u, false)
				require.False(t, dominated, "%s dominated by %s", s.candidate, other.candidate)
			}
		}
	}
}

func callOf(args ...model.Argument) *model.Call {
	return &model.Call{Kind: model.FUNCTION, Name: "f", Arguments: args}
}

func param(name string, t types.Type) model.Parameter {
	return model.Parameter{Name: name, Type: t}
}

func function(u *types.Universe, name string, params ...model.Parameter) *model.Callable {
	return model.NewFunction(name, "pkg", nil, nil, params, u.Unit(), 0)
}

func candidateOf(u *types.Universe, call *model.Call, c *model.Callable, mapping []int, defaults uint,
	coerced ...uint) *model.Candidate {
	b := model.NewCandidateBuilder(call, model.TowerCandidate{Callable: c}, inference.NewSystem(u))
	b.SetMapping(mapping, defaults)
	//
	for _, arg := range coerced {
		b.SetCoerced(arg)
	}
	//
	return b.Build()
}
