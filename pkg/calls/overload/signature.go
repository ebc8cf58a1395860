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
	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// Mode determines which types of a candidate are compared.
type Mode uint8

const (
	// CHECK_VALUE_ARGUMENTS compares the types of the parameters to which the
	// call's arguments are mapped.
	CHECK_VALUE_ARGUMENTS Mode = iota
	// CHECK_CALLABLE_TYPE compares the types of all parameters, as is needed
	// for callable references.
	CHECK_CALLABLE_TYPE
)

// signature is the flattened view of a candidate used for comparing
// specificity.  Each position holds the declared type of the parameter for an
// argument (or nil when the argument is not mapped).
type signature struct {
	candidate *model.Candidate
	callable  *model.Callable
	receiver  types.Type
	params    []types.Type
	coerced   []bool
}

func newSignature(c *model.Candidate, mode Mode) *signature {
	var (
		callable = c.Callable()
		sig      = &signature{candidate: c, callable: callable, receiver: callable.ExtensionReceiver}
	)
	//
	if mode == CHECK_CALLABLE_TYPE || c.Call().Kind == model.CALLABLE_REFERENCE {
		for _, param := range callable.Params {
			sig.params = append(sig.params, param.Type)
			sig.coerced = append(sig.coerced, false)
		}
		//
		return sig
	}
	//
	for i, index := range c.ArgumentMapping() {
		if index < 0 {
			sig.params = append(sig.params, nil)
		} else {
			sig.params = append(sig.params, callable.Params[index].Type)
		}
		//
		sig.coerced = append(sig.coerced, c.IsCoerced(uint(i)))
	}
	//
	return sig
}

func (p *signature) isGeneric() bool {
	return p.callable.IsGeneric()
}

// Determine whether this signature is not less specific than another, meaning
// each of its types fits where the other's is expected.  The type parameters
// of the other signature become variables, whilst those of this signature
// remain opaque.
func (p *signature) notLessSpecific(other *signature, u *types.Universe, discriminateGenerics bool) bool {
	if discriminateGenerics {
		switch g1, g2 := p.isGeneric(), other.isGeneric(); {
		case g1 && !g2:
			return false
		case !g1 && g2:
			return true
		case g1 && g2:
			return false
		}
	}
	//
	if len(p.params) != len(other.params) || (p.receiver == nil) != (other.receiver == nil) {
		return false
	}
	//
	var (
		system = inference.NewSystem(u)
		subst  = make(types.Substitution)
	)
	//
	for _, param := range other.callable.TypeParams {
		subst[param] = system.NewVariable(param)
	}
	//
	for _, param := range other.callable.TypeParams {
		if param.Bound != nil {
			system.AddSubtype(subst[param], subst.Apply(param.Bound), inference.DeclaredBound())
		}
	}
	//
	if p.receiver != nil {
		system.AddSubtype(p.receiver, subst.Apply(other.receiver), inference.At(inference.RECEIVER))
	}
	//
	for i, t1 := range p.params {
		t2 := other.params[i]
		//
		switch {
		case t1 == nil || t2 == nil:
			continue
		case p.coerced[i] != other.coerced[i]:
			// Exact beats coercion
			if p.coerced[i] {
				return false
			}
		case isNumeric(u, t1) && isNumeric(u, t2):
			if !numericNotLessSpecific(u, t1, t2) {
				return false
			}
		default:
			system.AddSubtype(t1, subst.Apply(t2), inference.ArgumentPosition(uint(i)))
		}
	}
	//
	return !system.IsContradictory()
}

// Determine whether this signature has a shape which is not less specific than
// another.  A signature without varargs beats one with them, and otherwise
// fewer default values beats more.
func (p *signature) notLessSpecificShape(other *signature) bool {
	v1, v2 := p.callable.HasVararg(), other.callable.HasVararg()
	//
	switch {
	case v1 && !v2:
		return false
	case !v1 && v2:
		return true
	default:
		return p.candidate.DefaultsUsed() <= other.candidate.DefaultsUsed()
	}
}

// ============================================================================
// Numerics
// ============================================================================

func isNumeric(u *types.Universe, t types.Type) bool {
	for _, n := range []types.Type{u.Int(), u.Long(), u.Short(), u.Byte(), u.Double()} {
		if types.Equal(t, n) {
			return true
		}
	}
	//
	return false
}

// Integer types are ordered Int, Short, Byte then Long, such that an integer
// literal prefers the earliest type it fits.
func numericNotLessSpecific(u *types.Universe, specific types.Type, general types.Type) bool {
	switch {
	case types.Equal(specific, general):
		return true
	case types.Equal(specific, u.Int()):
		return types.Equal(general, u.Long()) || types.Equal(general, u.Short()) || types.Equal(general, u.Byte())
	case types.Equal(specific, u.Short()):
		return types.Equal(general, u.Long()) || types.Equal(general, u.Byte())
	case types.Equal(specific, u.Byte()):
		return types.Equal(general, u.Long())
	default:
		return false
	}
}
