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
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// Fix a given variable to a given type.  All existing bounds of the variable
// are checked against the type, and any bounds on other variables which
// mention this variable are thereby refined.
func (p *System) Fix(v *types.Variable, t types.Type) {
	if old, ok := p.fixed[v]; ok {
		panic(fmt.Sprintf("variable %s already fixed to %s", v, old))
	}
	//
	log.Debugf("fixing %s := %s", v, t)
	p.fixed[v] = t
	//
	for _, b := range p.bounds[v] {
		switch b.Kind {
		case LOWER:
			p.AddSubtype(b.Type, t, b.Position)
		case UPPER:
			p.AddSubtype(t, b.Type, b.Position)
		default:
			p.AddEquality(t, b.Type, b.Position)
		}
	}
}

// FreeVariables returns the unfixed variables occurring in a given type, after
// applying the current bindings.
func (p *System) FreeVariables(t types.Type) []*types.Variable {
	return types.FreeVariables(p.Apply(t))
}

// Solve fixes every unfixed variable amongst those given (or all variables, if
// none are given).  Variables whose bounds are all proper are fixed first, then
// those with at least one proper bound, and finally the remainder.  Within each
// group, variables are fixed in the order given.
func (p *System) Solve(vars ...*types.Variable) {
	if len(vars) == 0 {
		vars = p.variables
	}
	//
	for v := p.nextToFix(vars); v != nil; v = p.nextToFix(vars) {
		t, informative := p.ResultType(v)
		//
		if !informative {
			p.underconstrained = append(p.underconstrained, v)
		}
		//
		p.Fix(v, t)
	}
}

// Determine which variable should be fixed next, or nil if all variables are
// fixed.
func (p *System) nextToFix(vars []*types.Variable) *types.Variable {
	var partial, other *types.Variable
	//
	for _, v := range vars {
		if p.IsFixed(v) {
			continue
		}
		//
		proper, improper := p.countProperBounds(v)
		//
		switch {
		case improper == 0 && proper > 0:
			return v
		case proper > 0 && partial == nil:
			partial = v
		case other == nil:
			other = v
		}
	}
	//
	if partial != nil {
		return partial
	}
	//
	return other
}

func (p *System) countProperBounds(v *types.Variable) (uint, uint) {
	var proper, improper uint
	//
	for _, b := range p.bounds[v] {
		if p.IsProper(b.Type) {
			proper++
		} else {
			improper++
		}
	}
	//
	return proper, improper
}

// ResultType determines the type to which a variable should be fixed given its
// current proper bounds.  This also indicates whether any bound other than a
// declared upper bound contributed to the result.  The rules are:
//
// (1) an equality bound fixes the variable to that type;
// (2) otherwise, the common supertype of all lower bounds is used;
// (3) otherwise, the most specific upper bound is used;
// (4) otherwise, the declared upper bound of the type parameter is used.
//
// When the chosen type violates another proper bound, the variable is fixed to
// Nothing instead.
func (p *System) ResultType(v *types.Variable) (types.Type, bool) {
	var (
		lowers, uppers, equals []types.Type
		informative            bool
		result                 types.Type
	)
	//
	for _, b := range p.bounds[v] {
		t := p.Apply(b.Type)
		//
		if !types.IsProper(t) {
			continue
		} else if b.Position.Kind != DECLARED_BOUND {
			informative = true
		}
		//
		switch b.Kind {
		case LOWER:
			lowers = append(lowers, t)
		case UPPER:
			uppers = append(uppers, t)
		default:
			equals = append(equals, t)
		}
	}
	//
	switch {
	case len(equals) > 0:
		result = equals[0]
	case len(lowers) > 0:
		result = p.universe.CommonSupertype(lowers)
	case len(uppers) > 0:
		if glb, ok := p.universe.GreatestLowerBound(uppers); ok {
			result = glb
		} else {
			result = uppers[0]
		}
	default:
		result = p.declaredBound(v)
	}
	// Check result satisfies all the bounds
	if p.contradicts(result, lowers, uppers, equals) {
		return p.universe.Nothing(), informative
	}
	//
	return result, informative
}

func (p *System) declaredBound(v *types.Variable) types.Type {
	if v.Origin != nil && v.Origin.Bound != nil && types.IsProper(v.Origin.Bound) {
		return v.Origin.Bound
	}
	//
	return p.universe.NullableAny()
}

func (p *System) contradicts(t types.Type, lowers, uppers, equals []types.Type) bool {
	u := p.universe
	//
	for _, l := range lowers {
		if !u.IsSubtype(l, t) {
			return true
		}
	}
	//
	for _, r := range uppers {
		if !u.IsSubtype(t, r) {
			return true
		}
	}
	//
	for _, e := range equals {
		if !u.IsSubtype(t, e) || !u.IsSubtype(e, t) {
			return true
		}
	}
	//
	return false
}
