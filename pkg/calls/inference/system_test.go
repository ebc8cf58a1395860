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
package inference

import (
	"errors"
	"testing"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_System_01(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	// Int <: T, Long <: T
	s.AddSubtype(u.Int(), v, ArgumentPosition(0))
	s.AddSubtype(u.Long(), v, ArgumentPosition(1))
	s.Solve()
	//
	require.False(t, s.IsContradictory())
	assert.Equal(t, "Number", s.Apply(v).String())
	assert.Empty(t, s.Underconstrained())
}

func Test_System_02(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	// T <: Number, String <: T
	s.AddSubtype(v, u.Number(), DeclaredBound())
	s.AddSubtype(u.String(), v, ArgumentPosition(0))
	//
	require.True(t, s.IsContradictory())
	assert.Equal(t, "String is not a subtype of Number (argument #1)", s.Conflicts()[0].String())
	// Contradictory variables are fixed to Nothing
	s.Solve()
	assert.Equal(t, "Nothing", s.Apply(v).String())
}

func Test_System_03(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	// Only the declared bound is known
	s.AddSubtype(v, u.NullableAny(), DeclaredBound())
	s.Solve()
	//
	assert.Equal(t, "Any?", s.Apply(v).String())
	assert.Equal(t, []*types.Variable{v}, s.Underconstrained())
}

func Test_System_04(t *testing.T) {
	u := types.NewUniverse()
	list := declareList(u)
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	// List<Int> <: List<T>
	s.AddSubtype(types.NewClassType(list, u.Int()), types.NewClassType(list, v), ArgumentPosition(0))
	// T <: Number (from expected type)
	s.AddSubtype(v, u.Number(), At(EXPECTED_TYPE))
	s.Solve()
	//
	require.False(t, s.IsContradictory())
	assert.Equal(t, "Int", s.Apply(v).String())
}

func Test_System_05(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	w := s.NewVariable(param("R", u))
	// (T) -> R <: (Int) -> String
	fn := types.NewFunctionType([]types.Type{v}, w)
	s.AddSubtype(fn, types.NewFunctionType([]types.Type{u.Int()}, u.String()), ArgumentPosition(0))
	// Variables with proper bounds are fixed in order
	s.Solve()
	//
	require.False(t, s.IsContradictory())
	assert.Equal(t, "(Int) -> String", s.Apply(fn).String())
}

func Test_System_06(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	w := s.NewVariable(param("U", u))
	// Int <: T <: U <: Number
	s.AddSubtype(u.Int(), v, ArgumentPosition(0))
	s.AddSubtype(v, w, ArgumentPosition(1))
	s.AddSubtype(w, u.Number(), At(EXPECTED_TYPE))
	// Bounds propagate transitively
	assert.Contains(t, s.Bounds(w), Bound{LOWER, u.Int(), ArgumentPosition(1)})
	assert.False(t, s.IsContradictory())
	// String flows through T into U, which violates U <: Number.
	s.AddSubtype(u.String(), v, ArgumentPosition(2))
	assert.True(t, s.IsContradictory())
}

func Test_System_07(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	//
	s.AddEquality(v, u.String(), At(EXPLICIT_TYPE_ARGUMENT))
	s.AddSubtype(u.Int(), v, ArgumentPosition(0))
	//
	require.True(t, s.IsContradictory())
	s.Solve()
	assert.Equal(t, "Nothing", s.Apply(v).String())
}

func Test_Fork_01(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	s.AddSubtype(u.Int(), v, ArgumentPosition(0))
	// Changes to the fork are not visible in the original.
	fork := s.Fork()
	fork.AddSubtype(v, u.String(), At(EXPECTED_TYPE))
	//
	assert.True(t, fork.IsContradictory())
	assert.False(t, s.IsContradictory())
	assert.Len(t, s.Bounds(v), 1)
}

func Test_Merge_01(t *testing.T) {
	u := types.NewUniverse()
	base := NewSystem(u)
	v := base.NewVariable(param("T", u))
	// Two speculative forks
	left := base.Fork()
	right := base.Fork()
	w := right.NewVariable(param("R", u))
	left.AddSubtype(u.Int(), v, ArgumentPosition(0))
	right.AddSubtype(w, u.String(), At(CALLABLE_REFERENCE))
	//
	require.NoError(t, base.Merge(left))
	require.NoError(t, base.Merge(right))
	assert.Equal(t, []*types.Variable{v, w}, base.Variables())
	//
	base.Solve()
	assert.Equal(t, "Int", base.Apply(v).String())
	assert.Equal(t, "String", base.Apply(w).String())
}

func Test_Merge_02(t *testing.T) {
	u := types.NewUniverse()
	base := NewSystem(u)
	v := base.NewVariable(param("T", u))
	left := base.Fork()
	right := base.Fork()
	//
	left.Fix(v, u.Int())
	right.Fix(v, u.String())
	//
	require.NoError(t, base.Merge(left))
	err := base.Merge(right)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflictingBinding))
	// Failed merge leaves system intact
	fixed, ok := base.Fixed(v)
	require.True(t, ok)
	assert.Equal(t, "Int", fixed.String())
}

func Test_Fix_01(t *testing.T) {
	u := types.NewUniverse()
	s := NewSystem(u)
	v := s.NewVariable(param("T", u))
	s.Fix(v, u.Int())
	// Idempotent on proper types
	assert.Equal(t, "Int", s.Apply(v).String())
	s.Solve()
	assert.Equal(t, "Int", s.Apply(v).String())
	assert.Panics(t, func() { s.Fix(v, u.Long()) })
}

// ===================================================================
// Test Helpers
// ===================================================================

func param(name string, u *types.Universe) *types.TypeParameter {
	return types.NewTypeParameter(name, u.NullableAny(), types.INVARIANT)
}

func declareList(u *types.Universe) *types.Class {
	list, _ := u.Declare("List", types.NewTypeParameter("E", u.NullableAny(), types.COVARIANT))
	return list
}
