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
package types

// IsSubtype determines whether one type is a subtype of another.  Type
// variables are treated as opaque types here, and are therefore only subtypes
// of themselves.  Inference is responsible for reasoning about variables before
// asking this question.
func (p *Universe) IsSubtype(lhs Type, rhs Type) bool {
	// Nullability first
	if n, ok := rhs.(*NullableType); ok {
		if p.IsSubtype(NotNull(lhs), n.Inner) {
			return true
		} else if param, ok := lhs.(*TypeParameter); ok {
			// Type parameters may admit null through their bound.
			return p.IsSubtype(p.boundOf(param), rhs)
		}
		//
		return false
	} else if IsNullable(lhs) {
		return false
	}
	// Bottom type is a subtype of everything
	if p.IsNothing(lhs) {
		return true
	}
	//
	switch r := rhs.(type) {
	case *ClassType:
		return p.isSubtypeOfClass(lhs, r)
	case *FunctionType:
		return p.isSubtypeOfFunction(lhs, r)
	case *TypeParameter, *Variable, LambdaParameter:
		return Equal(lhs, rhs)
	default:
		panic("unknown type encountered")
	}
}

func (p *Universe) isSubtypeOfClass(lhs Type, rhs *ClassType) bool {
	switch l := lhs.(type) {
	case *ClassType:
		super := p.Supertype(l, rhs.Class)
		//
		if super == nil {
			return false
		}
		//
		return p.argumentsContained(rhs.Class, super.Args, rhs.Args)
	case *FunctionType:
		// Function values are objects.
		return rhs.Class == p.any
	case *TypeParameter:
		return p.IsSubtype(p.boundOf(l), rhs)
	default:
		// Variables and placeholders are opaque.
		return false
	}
}

func (p *Universe) isSubtypeOfFunction(lhs Type, rhs *FunctionType) bool {
	switch l := lhs.(type) {
	case *FunctionType:
		lparams, rparams := l.Flatten(), rhs.Flatten()
		//
		if len(lparams) != len(rparams) {
			return false
		}
		// Parameters are contravariant
		for i := range lparams {
			if !p.IsSubtype(rparams[i], lparams[i]) {
				return false
			}
		}
		// Return is covariant
		return p.IsSubtype(l.Return, rhs.Return)
	case *TypeParameter:
		return p.IsSubtype(p.boundOf(l), rhs)
	default:
		return false
	}
}

// Check whether the arguments of a given class (as instantiated on the left)
// are contained by those given on the right, taking into account the declared
// variance of each type parameter.
func (p *Universe) argumentsContained(class *Class, lhs []Type, rhs []Type) bool {
	for i, param := range class.Params {
		switch param.Variance {
		case COVARIANT:
			if !p.IsSubtype(lhs[i], rhs[i]) {
				return false
			}
		case CONTRAVARIANT:
			if !p.IsSubtype(rhs[i], lhs[i]) {
				return false
			}
		default:
			if !Equal(lhs[i], rhs[i]) {
				return false
			}
		}
	}
	//
	return true
}

// An undeclared bound is Any?
func (p *Universe) boundOf(param *TypeParameter) Type {
	if param.Bound == nil {
		return p.NullableAny()
	}
	//
	return param.Bound
}

// Supertype returns the instantiation of a given class as a supertype of the
// given class type, or nil if the class is not a supertype.  Every class type
// has Any as a supertype.
func (p *Universe) Supertype(t *ClassType, class *Class) *ClassType {
	for _, ancestor := range p.Ancestors(t) {
		if ancestor.Class == class {
			return ancestor
		}
	}
	//
	return nil
}

// Ancestors returns every supertype of a given class type (including itself)
// in breadth-first order, with the type arguments of each ancestor
// instantiated.  Any always comes last, and each class appears at most once.
func (p *Universe) Ancestors(t *ClassType) []*ClassType {
	var (
		worklist = []*ClassType{t}
		visited  = make(map[*Class]bool)
		result   []*ClassType
	)
	//
	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]
		//
		if visited[next.Class] || next.Class == p.any {
			continue
		}
		//
		visited[next.Class] = true
		result = append(result, next)
		subst := classSubstitution(next)
		//
		for _, super := range next.Class.Supertypes {
			worklist = append(worklist, subst.Apply(super).(*ClassType))
		}
	}
	//
	if t.Class != p.nothing {
		result = append(result, p.Any())
	}
	//
	return result
}

// Equal determines whether two types are structurally identical.  Type
// parameters and type variables are compared by identity.
func Equal(lhs Type, rhs Type) bool {
	switch l := lhs.(type) {
	case nil:
		return rhs == nil
	case *ClassType:
		if r, ok := rhs.(*ClassType); ok && l.Class == r.Class {
			return allEqual(l.Args, r.Args)
		}
	case *NullableType:
		if r, ok := rhs.(*NullableType); ok {
			return Equal(l.Inner, r.Inner)
		}
	case *FunctionType:
		if r, ok := rhs.(*FunctionType); ok {
			return Equal(l.Receiver, r.Receiver) && allEqual(l.Params, r.Params) && Equal(l.Return, r.Return)
		}
	case *TypeParameter:
		return lhs == rhs
	case *Variable:
		return lhs == rhs
	case LambdaParameter:
		r, ok := rhs.(LambdaParameter)
		return ok && l.Index == r.Index
	}
	//
	return false
}

func allEqual(lhs []Type, rhs []Type) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if !Equal(lhs[i], rhs[i]) {
			return false
		}
	}
	//
	return true
}

// CommonSupertype computes the least upper bound of zero or more proper types.
// The result is nullable if any of the types is nullable, and Nothing is
// neutral.  Class types are joined at their closest common ancestor, where
// covariant arguments are joined recursively and any other mismatching
// argument causes that ancestor to be skipped.
func (p *Universe) CommonSupertype(ts []Type) Type {
	var (
		nullable bool
		result   Type
	)
	//
	for _, t := range ts {
		nullable = nullable || IsNullable(t)
		t = NotNull(t)
		//
		if p.IsNothing(t) {
			continue
		} else if result == nil {
			result = t
		} else {
			result = p.join(result, t)
		}
	}
	//
	if result == nil {
		result = p.Nothing()
	}
	//
	if nullable {
		return Nullable(result)
	}
	//
	return result
}

// Join two non-nullable types
func (p *Universe) join(lhs Type, rhs Type) Type {
	if p.IsSubtype(lhs, rhs) {
		return rhs
	} else if p.IsSubtype(rhs, lhs) {
		return lhs
	}
	// Type parameters join through their bounds
	if l, ok := lhs.(*TypeParameter); ok {
		return p.CommonSupertype([]Type{p.boundOf(l), rhs})
	} else if r, ok := rhs.(*TypeParameter); ok {
		return p.CommonSupertype([]Type{lhs, p.boundOf(r)})
	}
	//
	l, lok := lhs.(*ClassType)
	r, rok := rhs.(*ClassType)
	//
	if !lok || !rok {
		return p.Any()
	}
	//
	for _, ancestor := range p.Ancestors(l) {
		if other := p.Supertype(r, ancestor.Class); other != nil {
			if args, ok := p.joinArguments(ancestor.Class, ancestor.Args, other.Args); ok {
				return NewClassType(ancestor.Class, args...)
			}
		}
	}
	// Unreachable, since Any is always a common ancestor.
	return p.Any()
}

func (p *Universe) joinArguments(class *Class, lhs []Type, rhs []Type) ([]Type, bool) {
	args := make([]Type, len(lhs))
	//
	for i, param := range class.Params {
		switch {
		case Equal(lhs[i], rhs[i]):
			args[i] = lhs[i]
		case param.Variance == COVARIANT:
			args[i] = p.CommonSupertype([]Type{lhs[i], rhs[i]})
		default:
			return nil, false
		}
	}
	//
	return args, true
}

// GreatestLowerBound returns the type amongst those given which is a subtype of
// all the others.  If no such type exists, then false is returned.
func (p *Universe) GreatestLowerBound(ts []Type) (Type, bool) {
	for _, candidate := range ts {
		lowest := true
		//
		for _, other := range ts {
			if !p.IsSubtype(candidate, other) {
				lowest = false
				break
			}
		}
		//
		if lowest {
			return candidate, true
		}
	}
	//
	return nil, false
}
