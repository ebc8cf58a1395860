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
	"errors"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/collection/iter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Levels_01(t *testing.T) {
	u := types.NewUniverse()
	a, _ := u.Declare("A")
	this := model.NewReceiver(types.NewClassType(a), "this@A")
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(),
		NewLexicalScope(LOCAL_SCOPE, "block", nil),
		NewLexicalScope(CLASS_SCOPE, "A", this),
		NewLexicalScope(PACKAGE_SCOPE, "pkg", nil))
	//
	levels := collectLevels(tw, nil)
	//
	assert.Equal(t, []LevelKind{DECLARATIONS, EXTENSIONS, DECLARATIONS, MEMBERS, EXTENSIONS, DECLARATIONS, EXTENSIONS},
		kindsOf(levels))
	//
	for i, level := range levels {
		assert.Equal(t, uint(i), level.Index)
	}
	//
	assert.Equal(t, this, levels[1].Receiver())
	assert.Equal(t, "#3 members of this@A", levels[3].Label())
}

func Test_Levels_02(t *testing.T) {
	u := types.NewUniverse()
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(),
		NewLexicalScope(PACKAGE_SCOPE, "pkg", nil),
		NewLexicalScope(EXPLICIT_IMPORT_SCOPE, "i1", nil),
		NewLexicalScope(EXPLICIT_IMPORT_SCOPE, "i2", nil),
		NewLexicalScope(STAR_IMPORT_SCOPE, "s", nil),
		NewLexicalScope(DEFAULT_IMPORT_SCOPE, "kotlin", nil))
	//
	levels := collectLevels(tw, nil)
	// Imports of the same kind share a level
	require.Len(t, levels, 4)
	assert.Equal(t, "#1 declarations i1,i2", levels[1].Label())
}

func Test_Levels_03(t *testing.T) {
	u := types.NewUniverse()
	a, _ := u.Declare("A")
	receiver := model.NewReceiver(types.NewClassType(a), "a")
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(),
		NewLexicalScope(LOCAL_SCOPE, "block", nil),
		NewLexicalScope(PACKAGE_SCOPE, "pkg", nil))
	//
	levels := collectLevels(tw, receiver)
	//
	assert.Equal(t, []LevelKind{MEMBERS, EXTENSIONS, EXTENSIONS}, kindsOf(levels))
	assert.Equal(t, "#2 extensions pkg for a", levels[2].Label())
}

func Test_Levels_04(t *testing.T) {
	u := types.NewUniverse()
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(), NewLexicalScope(PACKAGE_SCOPE, "pkg", nil))
	levels := tw.Levels(nil)
	//
	require.True(t, levels.HasNext())
	levels.Next()
	assert.False(t, levels.HasNext())
	assert.Panics(t, func() { levels.Next() })
}

func Test_MembersOf_01(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	box, intBox := declareBox(u, symbols)
	// Inherited member with class type arguments substituted
	members := NewImplicitScopeTower(u, symbols).MembersOf(types.NewClassType(intBox), "get")
	//
	require.Len(t, members, 1)
	assert.Equal(t, "Box.get(): Int", members[0].String())
	assert.Equal(t, symbols.Members(box)[0], members[0].Original())
}

func Test_MembersOf_02(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	_, derived := declareBase(u, symbols)
	// Overridden members are hidden
	members := NewImplicitScopeTower(u, symbols).MembersOf(types.NewClassType(derived), "f")
	//
	require.Len(t, members, 2)
	assert.Equal(t, "Derived.f(x: Int): Unit", members[0].String())
	assert.Equal(t, "Base.f(x: String): Unit", members[1].String())
}

func Test_MembersOf_03(t *testing.T) {
	u := types.NewUniverse()
	tw := NewImplicitScopeTower(u, model.NewSymbolTable())
	ft := types.NewExtensionFunctionType(u.String(), []types.Type{u.Int()}, u.Boolean())
	//
	members := tw.MembersOf(ft, INVOKE)
	//
	require.Len(t, members, 1)
	assert.True(t, members[0].Has(model.OPERATOR))
	assert.Equal(t, "String.(Int) -> Boolean.invoke(p1: String, p2: Int): Boolean", members[0].String())
	assert.Empty(t, tw.MembersOf(ft, "get"))
}

func Test_MembersOf_04(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	_, intBox := declareBox(u, symbols)
	tw := NewImplicitScopeTower(u, symbols)
	// Members of nullable types and type parameters
	assert.Len(t, tw.MembersOf(types.Nullable(types.NewClassType(intBox)), "get"), 1)
	assert.Len(t, tw.MembersOf(types.NewTypeParameter("T", types.NewClassType(intBox), types.INVARIANT), "get"), 1)
	assert.Empty(t, tw.MembersOf(types.NewTypeParameter("T", nil, types.INVARIANT), "get"))
}

func Test_MembersOf_05(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	base, _ := u.Declare("Base")
	derived, _ := u.Declare("Derived")
	derived.AddSupertype(types.NewClassType(base))
	// Generic members override when their type parameters correspond
	for _, class := range []*types.Class{base, derived} {
		t1 := types.NewTypeParameter("T", nil, types.INVARIANT)
		symbols.AddMember(class, model.NewFunction("f", class.Name, []*types.TypeParameter{t1}, nil,
			[]model.Parameter{{Name: "x", Type: t1}}, u.Unit(), 0))
		//
		t2 := types.NewTypeParameter("T", u.Number(), types.INVARIANT)
		if class == derived {
			t2 = types.NewTypeParameter("T", u.Int(), types.INVARIANT)
		}
		//
		symbols.AddMember(class, model.NewFunction("g", class.Name, []*types.TypeParameter{t2}, nil,
			[]model.Parameter{{Name: "x", Type: types.Nullable(t2)}}, u.Unit(), 0))
	}
	//
	tw := NewImplicitScopeTower(u, symbols)
	members := tw.MembersOf(types.NewClassType(derived), "f")
	//
	require.Len(t, members, 1)
	assert.Equal(t, "Derived.f<T>(x: T): Unit", members[0].String())
	// Differing bounds do not override
	assert.Len(t, tw.MembersOf(types.NewClassType(derived), "g"), 2)
}

func Test_Candidates_01(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	base, derived := declareBase(u, symbols)
	receiver := model.NewReceiver(types.NewClassType(base), "b")
	receiver.SmartCasts = []types.Type{types.NewClassType(derived)}
	tw := NewImplicitScopeTower(u, symbols)
	// Smart cast members are found first
	level := collectLevels(tw, receiver)[0]
	candidates := level.Candidates("f")
	//
	require.Len(t, candidates, 2)
	assert.Equal(t, "Derived.f(x: Int): Unit", candidates[0].Callable.String())
	assert.Equal(t, "Derived", candidates[0].DispatchReceiver.Type.String())
	assert.Equal(t, "Base.f(x: String): Unit", candidates[1].Callable.String())
	// Members only found through unstable smart casts come last, and are marked
	receiver.Stable = false
	candidates = level.Candidates("f")
	//
	require.Len(t, candidates, 3)
	assert.Equal(t, "Base.f(x: Int): Unit", candidates[0].Callable.String())
	assert.Equal(t, "Base.f(x: String): Unit", candidates[1].Callable.String())
	assert.False(t, candidates[1].UnstableSmartCast)
	assert.Equal(t, "Derived.f(x: Int): Unit", candidates[2].Callable.String())
	assert.True(t, candidates[2].UnstableSmartCast)
	assert.Equal(t, "Derived", candidates[2].DispatchReceiver.Type.String())
}

func Test_Candidates_02(t *testing.T) {
	u := types.NewUniverse()
	scope := NewLexicalScope(PACKAGE_SCOPE, "pkg", nil)
	scope.Declare(model.NewFunction("g", "pkg", nil, u.String(), nil, u.Unit(), 0))
	scope.Declare(model.NewProperty("g", "pkg", nil,
		types.NewExtensionFunctionType(u.String(), nil, u.Int()), 0))
	scope.Declare(model.NewProperty("g", "pkg", nil, u.Int(), 0))
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(), scope)
	//
	levels := collectLevels(tw, model.NewReceiver(u.String(), "s"))
	require.Len(t, levels, 2)
	// Extensions and values of extension function type
	candidates := levels[1].Candidates("g")
	require.Len(t, candidates, 2)
	assert.False(t, candidates[0].InvokeExtension)
	assert.True(t, candidates[1].InvokeExtension)
	assert.Equal(t, "s", candidates[1].ExtensionReceiver.String())
}

func Test_Visible_01(t *testing.T) {
	u := types.NewUniverse()
	pkg := NewLexicalScope(PACKAGE_SCOPE, "pkg", nil)
	pkg.Declare(model.NewFunction("f", "pkg", nil, nil, nil, u.Unit(), model.PRIVATE))
	imp := NewLexicalScope(EXPLICIT_IMPORT_SCOPE, "lib", nil)
	imp.Declare(model.NewFunction("f", "lib", nil, nil, nil, u.Unit(), model.PRIVATE))
	tw := NewImplicitScopeTower(u, model.NewSymbolTable(), pkg, imp)
	//
	levels := collectLevels(tw, nil)
	require.Len(t, levels, 2)
	assert.False(t, levels[0].Candidates("f")[0].Invisible)
	assert.True(t, levels[1].Candidates("f")[0].Invisible)
}

func Test_VisibleNames_01(t *testing.T) {
	u := types.NewUniverse()
	symbols := model.NewSymbolTable()
	base, _ := declareBase(u, symbols)
	local := NewLexicalScope(LOCAL_SCOPE, "block", nil)
	local.Declare(model.NewProperty("x", "block", nil, u.Int(), 0))
	class := NewLexicalScope(CLASS_SCOPE, "Base", model.NewReceiver(types.NewClassType(base), "this@Base"))
	imp := NewLexicalScope(EXPLICIT_IMPORT_SCOPE, "lib", nil)
	imp.Declare(model.NewFunction("hidden", "lib", nil, nil, nil, u.Unit(), model.PRIVATE))
	imp.Declare(model.NewFunction("a", "lib", nil, nil, nil, u.Unit(), 0))
	//
	names := NewImplicitScopeTower(u, symbols, local, class, imp).VisibleNames()
	//
	assert.Equal(t, []string{"a", "f", "x"}, names)
}

// ============================================================================
// Resolver
// ============================================================================

func Test_Resolver_01(t *testing.T) {
	tw, failing := shadowingTower()
	resolver := NewResolver()
	explored := 0
	resolver.Observe(func(*Level) { explored++ })
	// Successful candidate at first level shadows later levels
	candidates, err := resolver.RunResolve(context.Background(), tw, newStubProcessor(tw, failing), true, "f")
	//
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "block.f(x: Int): Unit", candidates[0].String())
	assert.Equal(t, 1, explored)
}

func Test_Resolver_02(t *testing.T) {
	tw, failing := shadowingTower()
	// Without order, all levels are explored but the best tier is kept
	candidates, err := NewResolver().RunResolve(context.Background(), tw, newStubProcessor(tw, failing), false, "f")
	//
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "block.f(x: Int): Unit", candidates[0].String())
	assert.Equal(t, "pkg.f(x: Any): Unit", candidates[1].String())
	// Collecting all candidates includes failed ones
	candidates, err = NewResolver().CollectAllCandidates(context.Background(), tw, newStubProcessor(tw, failing), "f")
	//
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func Test_Resolver_03(t *testing.T) {
	tw, failing := shadowingTower()
	// Partial matches do not shadow
	failing["block"] = true
	candidates, err := NewResolver().RunResolve(context.Background(), tw, newStubProcessor(tw, failing), true, "f")
	//
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "pkg.f(x: Any): Unit", candidates[0].String())
}

func Test_Resolver_04(t *testing.T) {
	tw, failing := shadowingTower()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	candidates, err := NewResolver().RunResolve(ctx, tw, newStubProcessor(tw, failing), true, "f")
	//
	assert.Nil(t, candidates)
	assert.True(t, errors.Is(err, model.ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func Test_Resolver_05(t *testing.T) {
	tw, failing := shadowingTower()
	ctx, cancel := context.WithCancel(context.Background())
	processor := newStubProcessor(tw, failing)
	// Cancellation between levels
	failing["block"] = true
	processor.after = cancel
	//
	_, err := NewResolver().RunResolve(ctx, tw, processor, true, "f")
	//
	assert.True(t, errors.Is(err, model.ErrCancelled))
	assert.Equal(t, 1, processor.calls)
}

func Test_Resolver_06(t *testing.T) {
	tw, failing := shadowingTower()
	processor := newStubProcessor(tw, failing)
	processor.known = true
	//
	candidates, err := NewResolver().RunWithEmptyTowerData(context.Background(), processor,
		NewSuccessfulResultCollector(), true)
	//
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "block.f(x: Int): Unit", candidates[0].String())
}

// ============================================================================
// Helpers
// ============================================================================

func collectLevels(tw *ImplicitScopeTower, receiver *model.Receiver) []*Level {
	return iter.Collect(tw.Levels(receiver))
}

func kindsOf(levels []*Level) []LevelKind {
	kinds := make([]LevelKind, len(levels))
	//
	for i, level := range levels {
		kinds[i] = level.Kind
	}
	//
	return kinds
}

// Declares class Box<T> { fun get(): T } and class IntBox : Box<Int>.
func declareBox(u *types.Universe, symbols *model.SymbolTable) (*types.Class, *types.Class) {
	param := types.NewTypeParameter("T", nil, types.INVARIANT)
	box, _ := u.Declare("Box", param)
	intBox, _ := u.Declare("IntBox")
	intBox.AddSupertype(types.NewClassType(box, u.Int()))
	symbols.AddMember(box, model.NewFunction("get", "Box", nil, nil, nil, param, 0))
	//
	return box, intBox
}

// Declares class Base { fun f(x: Int); fun f(x: String) } and class Derived :
// Base { override fun f(x: Int) }.
func declareBase(u *types.Universe, symbols *model.SymbolTable) (*types.Class, *types.Class) {
	base, _ := u.Declare("Base")
	derived, _ := u.Declare("Derived")
	derived.AddSupertype(types.NewClassType(base))
	symbols.AddMember(base, model.NewFunction("f", "Base", nil, nil,
		[]model.Parameter{{Name: "x", Type: u.Int()}}, u.Unit(), 0))
	symbols.AddMember(base, model.NewFunction("f", "Base", nil, nil,
		[]model.Parameter{{Name: "x", Type: u.String()}}, u.Unit(), 0))
	symbols.AddMember(derived, model.NewFunction("f", "Derived", nil, nil,
		[]model.Parameter{{Name: "x", Type: u.Int()}}, u.Unit(), 0))
	//
	return base, derived
}

// Tower with f(x: Int) in a local scope, and f(x: Any) plus f(x: String) in
// the package scope, where the latter always fails.
func shadowingTower() (*ImplicitScopeTower, map[string]bool) {
	u := types.NewUniverse()
	local := NewLexicalScope(LOCAL_SCOPE, "block", nil)
	local.Declare(model.NewFunction("f", "block", nil, nil, []model.Parameter{{Name: "x", Type: u.Int()}},
		u.Unit(), 0))
	pkg := NewLexicalScope(PACKAGE_SCOPE, "pkg", nil)
	pkg.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "x", Type: u.Any()}},
		u.Unit(), 0))
	pkg.Declare(model.NewFunction("f", "pkg", nil, nil, []model.Parameter{{Name: "x", Type: u.String()}},
		u.Unit(), 0))
	//
	return NewImplicitScopeTower(u, model.NewSymbolTable(), local, pkg), map[string]bool{}
}

// Processor which fails candidates taking strings, or declared in scopes
// marked as failing.
type stubProcessor struct {
	tower   *ImplicitScopeTower
	failing map[string]bool
	// Called after each level is processed.
	after func()
	calls int
	// Resolve the first level without the tower.
	known bool
}

func newStubProcessor(tower *ImplicitScopeTower, failing map[string]bool) *stubProcessor {
	return &stubProcessor{tower, failing, func() {}, 0, false}
}

func (p *stubProcessor) Receiver() *model.Receiver { return nil }

func (p *stubProcessor) Process(_ context.Context, level *Level, name string) ([][]*model.Candidate, error) {
	var (
		call  = &model.Call{Kind: model.FUNCTION, Name: "f"}
		group []*model.Candidate
	)
	//
	if p.known {
		level, name = collectLevels(p.tower, nil)[0], "f"
	}
	//
	for _, tc := range level.Candidates(name) {
		b := model.NewCandidateBuilder(call, tc, inference.NewSystem(p.tower.Universe()))
		//
		if p.failing[tc.Scope] || types.Equal(tc.Callable.Params[0].Type, p.tower.Universe().String()) {
			b.Report(model.TYPE_MISMATCH, 0, "")
		}
		//
		group = append(group, b.Build())
	}
	//
	p.calls++
	p.after()
	//
	return [][]*model.Candidate{group}, nil
}
