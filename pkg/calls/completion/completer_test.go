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
package completion

import (
	"context"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls/candidate"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Completion_01(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", nil, types.INVARIANT)
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("id", "pkg", []*types.TypeParameter{tp}, nil,
		[]model.Parameter{{Name: "x", Type: tp}}, tp, 0))
	//
	env := newEnvironment(u, scope)
	call := functionCall("id", &model.ExpressionArgument{Type: u.String()})
	result := complete(t, env, call, nil)
	//
	require.Equal(t, model.RESOLVED_CALL, result.Kind)
	c := result.Resolved()
	assert.True(t, c.IsFinalised())
	assert.Equal(t, "String", c.ReturnType().String())
	assert.Equal(t, "String", types.JoinTypes(c.TypeArguments()))
	assert.Empty(t, c.Diagnostics())
}

func Test_Completion_02(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", nil, types.INVARIANT)
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("none", "pkg", []*types.TypeParameter{tp}, nil, nil, tp, 0))
	env := newEnvironment(u, scope)
	// Inferred from the expected type
	result := complete(t, env, functionCall("none"), u.Int())
	require.Equal(t, model.RESOLVED_CALL, result.Kind)
	assert.Equal(t, "Int", result.Resolved().ReturnType().String())
	assert.Equal(t, model.RESOLVED, result.Resolved().Applicability())
	// Nothing known
	result = complete(t, env, functionCall("none"), nil)
	require.Equal(t, model.RESOLVED_CALL, result.Kind)
	assert.Equal(t, "Any?", result.Resolved().ReturnType().String())
	assert.Equal(t, model.RESOLVED_WITH_WARNING, result.Resolved().Applicability())
	assert.Equal(t, model.NOT_ENOUGH_INFORMATION, result.Resolved().Diagnostics()[0].Kind)
}

func Test_Completion_03(t *testing.T) {
	u := types.NewUniverse()
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, nil, u.Int(), 0))
	env := newEnvironment(u, scope)
	//
	result := complete(t, env, functionCall("f"), u.String())
	//
	require.Equal(t, model.RESOLVED_CALL, result.Kind)
	require.Len(t, result.Resolved().Diagnostics(), 1)
	assert.Equal(t, model.EXPECTED_TYPE_MISMATCH, result.Resolved().Diagnostics()[0].Kind)
}

func Test_Completion_04(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", nil, types.INVARIANT)
	rp := types.NewTypeParameter("R", nil, types.INVARIANT)
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("let", "pkg", []*types.TypeParameter{tp, rp}, nil,
		[]model.Parameter{{Name: "x", Type: tp}, {Name: "f", Type: types.NewFunctionType([]types.Type{tp}, rp)}},
		rp, 0))
	env := newEnvironment(u, scope)
	// let("s") { it }
	lambda := &model.LambdaArgument{Body: types.LambdaParameter{Index: 0}}
	call := functionCall("let", &model.ExpressionArgument{Type: u.String()}, lambda)
	result := complete(t, env, call, nil)
	//
	require.Equal(t, model.RESOLVED_CALL, result.Kind)
	c := result.Resolved()
	assert.Equal(t, "String", c.ReturnType().String())
	assert.Equal(t, "String, String", types.JoinTypes(c.TypeArguments()))
	require.Len(t, c.Postponed(), 1)
	assert.Equal(t, "(String) -> String", c.Postponed()[0].Analysed.String())
}

func Test_Completion_05(t *testing.T) {
	u := types.NewUniverse()
	tp := types.NewTypeParameter("T", nil, types.INVARIANT)
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("id", "pkg", []*types.TypeParameter{tp}, nil,
		[]model.Parameter{{Name: "x", Type: tp}}, tp, 0))
	env := newEnvironment(u, scope)
	completer := NewCompleter(u, DefaultCallbacks{})
	candidates := resolve(t, env, functionCall("id", &model.ExpressionArgument{Type: u.Int()}))
	require.Len(t, candidates, 1)
	//
	c := candidates[0]
	require.NoError(t, completer.Complete(context.Background(), c, nil))
	args, diagnostics := c.TypeArguments(), len(c.Diagnostics())
	// Completing again changes nothing
	require.NoError(t, completer.Complete(context.Background(), c, u.String()))
	assert.Equal(t, types.JoinTypes(args), types.JoinTypes(c.TypeArguments()))
	assert.Len(t, c.Diagnostics(), diagnostics)
}

func Test_Completion_06(t *testing.T) {
	u := types.NewUniverse()
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "x", Type: u.Int()}}, u.Unit(), 0))
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "x", Type: u.Long()}}, u.Unit(), 0))
	env := newEnvironment(u, scope)
	completer := NewCompleter(u, DefaultCallbacks{})
	call := functionCall("f", &model.ExpressionArgument{Type: u.Nothing()})
	factory := candidate.NewSimpleFactory(env, call)
	// Nothing at all
	result, err := completer.RunCompletion(context.Background(), factory, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.UNRESOLVED_CALL, result.Kind)
	assert.True(t, result.Candidates[0].IsError())
	// Two successful candidates
	result, err = completer.RunCompletion(context.Background(), factory, resolve(t, env, call), nil)
	require.NoError(t, err)
	assert.Equal(t, model.AMBIGUOUS_CALL, result.Kind)
	assert.Len(t, result.Candidates, 2)
	// Every candidate
	result = completer.CreateAllCandidatesResult(resolve(t, env, call))
	assert.Equal(t, model.ALL_CANDIDATES, result.Kind)
	assert.False(t, result.Candidates[0].IsFinalised())
}

func Test_Completion_07(t *testing.T) {
	u := types.NewUniverse()
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "x", Type: u.String()}}, u.Unit(), 0))
	env := newEnvironment(u, scope)
	// Single candidate which failed
	call := functionCall("f", &model.ExpressionArgument{Type: u.Int()})
	candidates, err := env.Resolver.CollectAllCandidates(context.Background(), env.Tower,
		candidate.NewProcessor(env, call, nil, nil), call.Name)
	require.NoError(t, err)
	//
	result, err := NewCompleter(u, DefaultCallbacks{}).RunCompletion(context.Background(),
		candidate.NewSimpleFactory(env, call), candidates, nil)
	require.NoError(t, err)
	assert.Equal(t, model.UNRESOLVED_CALL, result.Kind)
	assert.False(t, result.Candidates[0].IsFinalised())
}

func Test_Completion_08(t *testing.T) {
	u := types.NewUniverse()
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, nil, u.Int(), 0))
	env := newEnvironment(u, scope)
	call := functionCall("f")
	candidates := resolve(t, env, call)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	_, err := NewCompleter(u, DefaultCallbacks{}).RunCompletion(ctx, candidate.NewSimpleFactory(env, call),
		candidates, nil)
	//
	assert.ErrorIs(t, err, model.ErrCancelled)
	assert.False(t, candidates[0].IsFinalised())
}

func Test_LambdaReturn_01(t *testing.T) {
	u := types.NewUniverse()
	scope := tower.NewLexicalScope(tower.PACKAGE_SCOPE, "pkg", nil)
	toInt := types.NewFunctionType(nil, u.Int())
	toString := types.NewFunctionType(nil, u.String())
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "g", Type: toInt}}, u.Unit(),
		model.LAMBDA_RETURN_OVERLOAD))
	scope.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "g", Type: toString}}, u.Unit(),
		model.LAMBDA_RETURN_OVERLOAD))
	env := newEnvironment(u, scope)
	completer := NewCompleter(u, DefaultCallbacks{})
	// f { "s" }
	candidates := resolve(t, env, functionCall("f", &model.LambdaArgument{Body: u.String()}))
	require.Len(t, candidates, 2)
	//
	chosen, err := completer.ChooseCandidateRegardingOverloadResolutionByLambdaReturnType(context.Background(),
		candidates)
	require.NoError(t, err)
	require.Len(t, chosen, 1)
	assert.Equal(t, "pkg.f(g: () -> String): Unit", chosen[0].String())
	assert.False(t, chosen[0].IsFinalised())
	// f { true } fits neither, so both are kept
	candidates = resolve(t, env, functionCall("f", &model.LambdaArgument{Body: u.Boolean()}))
	chosen, err = completer.ChooseCandidateRegardingOverloadResolutionByLambdaReturnType(context.Background(),
		candidates)
	require.NoError(t, err)
	assert.Len(t, chosen, 2)
}

// ============================================================================
// Helpers
// ============================================================================

func newEnvironment(u *types.Universe, scopes ...tower.Scope) *candidate.Environment {
	tw := tower.NewImplicitScopeTower(u, model.NewSymbolTable(), scopes...)
	return candidate.NewEnvironment(tw, tower.NewResolver(), model.DefaultSettings())
}

func functionCall(name string, args ...model.Argument) *model.Call {
	return &model.Call{Kind: model.FUNCTION, Name: name, Arguments: args}
}

func resolve(t *testing.T, env *candidate.Environment, call *model.Call) []*model.Candidate {
	candidates, err := env.Resolver.RunResolve(context.Background(), env.Tower,
		candidate.NewProcessor(env, call, nil, nil), true, call.Name)
	require.NoError(t, err)
	//
	return candidates
}

func complete(t *testing.T, env *candidate.Environment, call *model.Call, expected types.Type) model.Result {
	completer := NewCompleter(env.Universe(), DefaultCallbacks{})
	result, err := completer.RunCompletion(context.Background(), candidate.NewSimpleFactory(env, call),
		resolve(t, env, call), expected)
	require.NoError(t, err)
	//
	return result
}
