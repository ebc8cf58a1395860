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
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// AddSubtype adds the constraint lower <: upper.  The constraint is decomposed
// structurally until it relates a type variable to some type, at which point
// the variable gains a bound and that bound is incorporated against all other
// bounds of the variable.  Any violation is recorded as a conflict.
func (p *System) AddSubtype(lower types.Type, upper types.Type, pos Position) {
	lower, upper = p.Apply(lower), p.Apply(upper)
	//
	if !p.consumeFuel(lower, upper, pos) {
		return
	}
	// Variables gain bounds
	lv, lok := lower.(*types.Variable)
	uv, uok := upper.(*types.Variable)
	//
	switch {
	case lok && uok && lv == uv:
		return
	case lok && uok:
		p.addUpperBound(lv, upper, pos)
		p.addLowerBound(uv, lower, pos)
	case lok:
		p.addUpperBound(lv, upper, pos)
	case uok:
		p.addLowerBound(uv, lower, pos)
	case types.IsProper(lower) && types.IsProper(upper):
		if !p.universe.IsSubtype(lower, upper) {
			p.conflict(lower, upper, pos)
		}
	default:
		p.decomposeSubtype(lower, upper, pos)
	}
}

// AddEquality adds the constraint lhs == rhs.
func (p *System) AddEquality(lhs types.Type, rhs types.Type, pos Position) {
	lhs, rhs = p.Apply(lhs), p.Apply(rhs)
	//
	if !p.consumeFuel(lhs, rhs, pos) {
		return
	}
	//
	lv, lok := lhs.(*types.Variable)
	rv, rok := rhs.(*types.Variable)
	//
	switch {
	case lok && rok && lv == rv:
		return
	case lok && rok:
		p.addEqualBound(lv, rhs, pos)
		p.addEqualBound(rv, lhs, pos)
	case lok:
		p.addEqualBound(lv, rhs, pos)
	case rok:
		p.addEqualBound(rv, lhs, pos)
	case types.IsProper(lhs) && types.IsProper(rhs):
		if !types.Equal(lhs, rhs) && !(p.universe.IsSubtype(lhs, rhs) && p.universe.IsSubtype(rhs, lhs)) {
			p.conflict(lhs, rhs, pos)
		}
	default:
		p.AddSubtype(lhs, rhs, pos)
		p.AddSubtype(rhs, lhs, pos)
	}
}

// Decompose a constraint lower <: upper where neither side is a type variable,
// but at least one side contains a variable.
func (p *System) decomposeSubtype(lower types.Type, upper types.Type, pos Position) {
	u := p.universe
	// Nullability
	if n, ok := upper.(*types.NullableType); ok {
		if _, ok := lower.(*types.NullableType); ok {
			p.AddSubtype(types.NotNull(lower), n.Inner, pos)
		} else {
			p.AddSubtype(lower, n.Inner, pos)
		}
		//
		return
	} else if types.IsNullable(lower) {
		p.conflict(lower, upper, pos)
		return
	} else if u.IsNothing(lower) {
		return
	}
	//
	switch l := lower.(type) {
	case *types.ClassType:
		if r, ok := upper.(*types.ClassType); ok {
			p.decomposeClasses(l, r, pos)
			return
		}
	case *types.FunctionType:
		if r, ok := upper.(*types.FunctionType); ok {
			p.decomposeFunctions(l, r, pos)
			return
		} else if u.IsAny(upper) {
			return
		}
	case *types.TypeParameter:
		// Type parameters are opaque, but can be widened to their bound.
		if l.Bound != nil {
			p.AddSubtype(l.Bound, upper, pos)
			return
		}
	}
	//
	p.conflict(lower, upper, pos)
}

func (p *System) decomposeClasses(lower *types.ClassType, upper *types.ClassType, pos Position) {
	super := p.universe.Supertype(lower, upper.Class)
	//
	if super == nil {
		p.conflict(lower, upper, pos)
		return
	}
	//
	for i, param := range upper.Class.Params {
		switch param.Variance {
		case types.COVARIANT:
			p.AddSubtype(super.Args[i], upper.Args[i], pos)
		case types.CONTRAVARIANT:
			p.AddSubtype(upper.Args[i], super.Args[i], pos)
		default:
			p.AddEquality(super.Args[i], upper.Args[i], pos)
		}
	}
}

func (p *System) decomposeFunctions(lower *types.FunctionType, upper *types.FunctionType, pos Position) {
	lparams, uparams := lower.Flatten(), upper.Flatten()
	//
	if len(lparams) != len(uparams) {
		p.conflict(lower, upper, pos)
		return
	}
	//
	for i := range lparams {
		p.AddSubtype(uparams[i], lparams[i], pos)
	}
	//
	p.AddSubtype(lower.Return, upper.Return, pos)
}

// ============================================================================
// Incorporation
// ============================================================================

func (p *System) addUpperBound(v *types.Variable, upper types.Type, pos Position) {
	if !p.insertBound(v, Bound{UPPER, upper, pos}) {
		return
	}
	// Propagate L <: upper for all lower (and equality) bounds L.
	for _, b := range p.bounds[v] {
		if b.Kind != UPPER {
			p.AddSubtype(b.Type, upper, pos)
		}
	}
}

func (p *System) addLowerBound(v *types.Variable, lower types.Type, pos Position) {
	if !p.insertBound(v, Bound{LOWER, lower, pos}) {
		return
	}
	// Propagate lower <: U for all upper (and equality) bounds U.
	for _, b := range p.bounds[v] {
		if b.Kind != LOWER {
			p.AddSubtype(lower, b.Type, pos)
		}
	}
}

func (p *System) addEqualBound(v *types.Variable, t types.Type, pos Position) {
	if !p.insertBound(v, Bound{EQUAL, t, pos}) {
		return
	}
	//
	for _, b := range p.bounds[v] {
		switch {
		case b.Kind == LOWER:
			p.AddSubtype(b.Type, t, pos)
		case b.Kind == UPPER:
			p.AddSubtype(t, b.Type, pos)
		case !types.Equal(b.Type, t):
			p.AddEquality(b.Type, t, pos)
		}
	}
}

// Insert a new bound for a given variable, returning false if an identical
// bound already exists.
func (p *System) insertBound(v *types.Variable, bound Bound) bool {
	for _, b := range p.bounds[v] {
		if b.Kind == bound.Kind && types.Equal(b.Type, bound.Type) {
			return false
		}
	}
	//
	p.bounds[v] = append(p.bounds[v], bound)
	//
	return true
}

func (p *System) conflict(lower types.Type, upper types.Type, pos Position) {
	c := Conflict{pos, lower, upper}
	//
	if !p.hasConflict(c) {
		log.Debugf("constraint conflict: %s", c)
		p.conflicts = append(p.conflicts, c)
	}
}

func (p *System) consumeFuel(lower types.Type, upper types.Type, pos Position) bool {
	if p.fuel == 0 {
		p.conflict(lower, upper, pos)
		return false
	}
	//
	p.fuel--
	//
	return true
}
