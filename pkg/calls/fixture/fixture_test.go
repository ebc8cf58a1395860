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
package fixture

import (
	"context"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/calls/completion"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fixture_01(t *testing.T) {
	f := parse(t, `
(defclass Box (typeparams (out T)) (supertypes Base))
(defclass Base)
(scope package pkg
  (defun f ((x Int) (y (Box String?) default)) Unit)
  (defval v (-> (Int) String) private))
(scope local main (receiver Base (smartcast (Box Int)))
  (defun g (generic (T Number)) ((xs T vararg)) T (extends Base) deprecated))
`)
	//
	require.Len(t, f.Scopes, 2)
	assert.Equal(t, "pkg", f.Scopes[0].Label())
	assert.Equal(t, tower.PACKAGE_SCOPE, f.Scopes[0].Kind())
	// Declarations
	fs := f.Scopes[0].Callables("f")
	require.Len(t, fs, 1)
	assert.Equal(t, "pkg.f(x: Int, y: Box<String?> = ...): Unit", fs[0].String())
	vs := f.Scopes[0].Callables("v")
	require.Len(t, vs, 1)
	assert.True(t, vs[0].Has(model.PRIVATE))
	assert.Equal(t, "(Int) -> String", vs[0].Return.String())
	//
	gs := f.Scopes[1].Callables("g")
	require.Len(t, gs, 1)
	assert.Equal(t, "main.Base.g<T>(vararg xs: T): T", gs[0].String())
	assert.Equal(t, "Number", gs[0].TypeParams[0].Bound.String())
	assert.True(t, gs[0].Has(model.DEPRECATED))
	// Receivers
	r := f.Scopes[1].Receiver()
	require.NotNil(t, r)
	assert.Equal(t, "this@main", r.Label)
	assert.Len(t, r.Types(), 2)
	// Classes
	box := f.Universe.Lookup("Box")
	require.NotNil(t, box)
	assert.Equal(t, types.COVARIANT, box.Params[0].Variance)
	assert.Equal(t, "Base", box.Supertypes[0].String())
	// Tower is innermost first
	assert.Equal(t, "main", f.Tower().Scopes()[0].Label())
}

func Test_Fixture_02(t *testing.T) {
	f := parse(t, `
(defclass Runnable (sam (-> () Unit)))
(defclass A
  (members (defun invoke ((x Int)) Boolean operator))
  (companion (defval create A)))
(settings (OverloadResolutionByLambdaReturnType false))
`)
	//
	runnable := f.Universe.Lookup("Runnable")
	assert.True(t, runnable.IsFunInterface())
	//
	a := f.Universe.Lookup("A")
	require.Len(t, f.Symbols.Members(a), 1)
	assert.True(t, f.Symbols.Members(a)[0].Has(model.OPERATOR))
	assert.True(t, f.Symbols.HasCompanion(a))
	//
	settings := f.Settings(model.DefaultSettings())
	assert.False(t, settings.Supports(model.OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE))
	assert.True(t, settings.Supports(model.REFINED_SAM_ADAPTERS_PRIORITY))
}

func Test_Fixture_03(t *testing.T) {
	f := parse(t, `
(scope package pkg (defun f ((x Int)) Unit))
(call f (args 1 null (expr String) (named y Int) (lambda (params _ Int) (returns $0)) (ref f)))
(get x (receiver String) (expected Int))
(ref f (lhs type String) no-completion)
(invoke (receiver (-> () Unit)))
(call f (given pkg) (typeargs Int))
(call f all)
`)
	//
	require.Len(t, f.Queries, 6)
	//
	call := f.Queries[0].Call
	assert.Equal(t, model.FUNCTION, call.Kind)
	require.Len(t, call.Arguments, 6)
	assert.IsType(t, &model.IntegerLiteral{}, call.Arguments[0])
	assert.IsType(t, &model.NullLiteral{}, call.Arguments[1])
	assert.IsType(t, &model.ExpressionArgument{}, call.Arguments[2])
	name, ok := call.Arguments[3].Named()
	assert.True(t, ok)
	assert.Equal(t, "y", name)
	lambda := call.Arguments[4].(*model.LambdaArgument)
	assert.Nil(t, lambda.Params[0])
	assert.Equal(t, types.LambdaParameter{Index: 0}, lambda.Body)
	assert.IsType(t, &model.CallableReferenceArgument{}, call.Arguments[5])
	assert.Equal(t, "test.lisp:3", call.Position)
	//
	assert.Equal(t, model.VARIABLE, f.Queries[1].Call.Kind)
	assert.Equal(t, "Int", f.Queries[1].Expected.String())
	assert.Equal(t, model.TYPE_LHS, f.Queries[2].Call.LHS.Kind)
	assert.Equal(t, WITHOUT_COMPLETION, f.Queries[2].Mode)
	assert.Equal(t, model.INVOKE, f.Queries[3].Call.Kind)
	assert.Equal(t, tower.INVOKE, f.Queries[3].Call.Name)
	assert.Equal(t, GIVEN, f.Queries[4].Mode)
	assert.Len(t, f.Given(f.Queries[4]), 1)
	assert.False(t, f.Queries[4].CollectAll)
	assert.Equal(t, COMPLETE, f.Queries[5].Mode)
	assert.True(t, f.Queries[5].CollectAll)
}

func Test_Fixture_04(t *testing.T) {
	for _, input := range []string{
		"(scope package pkg (defun f ((x Unknown)) Unit))",
		"(scope nowhere pkg)",
		"(scope package pkg) (scope local pkg)",
		"(defclass A) (defclass A)",
		"(defclass Box (typeparams T)) (scope package pkg (defval b Box))",
		"(scope package pkg (defun f ((x Int extra)) Unit))",
		"(scope package pkg (defun f () Unit inline))",
		"(settings (NoSuchFeature true))",
		"(call f (given missing))",
		"(call f all no-completion)",
		"(scope package pkg) (call f (given pkg) no-completion)",
		"(call f (args (lambda (params Int))))",
		"(frobnicate)",
		"symbol",
	} {
		_, errs := Parse(source.NewFile("test.lisp", []byte(input)))
		assert.NotEmpty(t, errs, "input %s", input)
	}
}

func Test_Fixture_05(t *testing.T) {
	f := parse(t, `
(scope package pkg (defun f ((x Any)) Unit))
(scope local main (defun f ((x Int)) Unit))
;;expect: resolved main.f(x: Int): Unit : Unit
(call f (args 1))
;;expect: candidates { main.f(x: Int): Unit }
(call f (args 1) no-completion)
;;expect: resolved pkg.f(x: Any): Unit : Unit
(call f (args 1) (given pkg))
;;expect: error: invalid call: invoke call has no receiver
(invoke)
`)
	//
	resolver := calls.NewCallResolver(f.Tower(), f.Settings(model.DefaultSettings()), completion.DefaultCallbacks{}, nil)
	lines, err := f.Run(context.Background(), resolver)
	//
	require.NoError(t, err)
	assert.Len(t, f.Expectations, 4)
	assert.Empty(t, f.Check(lines))
}

func Test_Fixture_06(t *testing.T) {
	f := parse(t, "(call f)\n;;expect: something")
	//
	mismatches := f.Check([]string{"other", "extra"})
	//
	require.Len(t, mismatches, 2)
	assert.Equal(t, Mismatch{0, "something", "other"}, mismatches[0])
	assert.Equal(t, Mismatch{1, "", "extra"}, mismatches[1])
}

func Test_Fixture_07(t *testing.T) {
	f := parse(t, "(scope package pkg (defun f () Unit))\n(call f)")
	resolver := calls.NewCallResolver(f.Tower(), model.DefaultSettings(), completion.DefaultCallbacks{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	lines, err := f.Run(ctx, resolver)
	//
	assert.ErrorIs(t, err, model.ErrCancelled)
	assert.Nil(t, lines)
}

func Test_Fixture_08(t *testing.T) {
	f := parse(t, `
(scope package pkg (defun f ((x Any)) Unit))
(scope local main (defun f ((x Int)) Unit))
(call f (args 1) (given main pkg) all)
(call f (args 1) all (given pkg))
`)
	//
	resolver := calls.NewCallResolver(f.Tower(), f.Settings(model.DefaultSettings()), completion.DefaultCallbacks{}, nil)
	// Collecting all given candidates
	require.Len(t, f.Queries, 2)
	assert.Equal(t, GIVEN, f.Queries[1].Mode)
	assert.True(t, f.Queries[1].CollectAll)
	//
	lines, err := f.Run(context.Background(), resolver)
	//
	require.NoError(t, err)
	assert.Equal(t, "all { main.f(x: Int): Unit; pkg.f(x: Any): Unit }", lines[0])
	assert.Equal(t, "all { pkg.f(x: Any): Unit }", lines[1])
}

func parse(t *testing.T, text string) *Fixture {
	t.Helper()
	//
	f, errs := Parse(source.NewFile("test.lisp", []byte(text)))
	require.Empty(t, errs)
	//
	return f
}
