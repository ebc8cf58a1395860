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

import (
	"fmt"
	"strings"
)

// Type represents a type as seen by the call resolver.  Types are immutable
// once constructed, and substitution always produces a fresh type (unless
// nothing changed, in which case the original type is returned).
type Type interface {
	// Substitute type parameters and/or type variables through this type.
	Substitute(Substitution) Type
	// Produce a string representation of this type.
	String() string
}

// Substitution maps type parameters (or type variables) to the types they
// should be replaced with.  Keys are either *TypeParameter, *Variable or
// LambdaParameter.
type Substitution map[Type]Type

// Apply this substitution to a given type.
func (s Substitution) Apply(t Type) Type {
	if t == nil || len(s) == 0 {
		return t
	}
	//
	return t.Substitute(s)
}

// ApplyAll applies this substitution to zero or more types.
func (s Substitution) ApplyAll(ts []Type) []Type {
	nts := make([]Type, len(ts))
	//
	for i, t := range ts {
		nts[i] = s.Apply(t)
	}
	//
	return nts
}

// Variance determines how a class type parameter relates subtyping of the
// class to subtyping of its arguments.
type Variance uint8

const (
	// INVARIANT type parameters require exactly equal arguments.
	INVARIANT Variance = iota
	// COVARIANT (i.e. "out") type parameters preserve subtyping.
	COVARIANT
	// CONTRAVARIANT (i.e. "in") type parameters reverse subtyping.
	CONTRAVARIANT
)

func (v Variance) String() string {
	switch v {
	case COVARIANT:
		return "out"
	case CONTRAVARIANT:
		return "in"
	default:
		return ""
	}
}

// ============================================================================
// Class Type
// ============================================================================

// ClassType represents an instantiation of a given class, such as List<Int>.
type ClassType struct {
	Class *Class
	Args  []Type
}

// NewClassType constructs a new instance of a given class.
func NewClassType(class *Class, args ...Type) *ClassType {
	if len(args) != len(class.Params) {
		panic(fmt.Sprintf("class %s expects %d type arguments (found %d)", class.Name, len(class.Params), len(args)))
	}
	//
	return &ClassType{class, args}
}

// Substitute implementation for Type interface.
func (p *ClassType) Substitute(s Substitution) Type {
	if len(p.Args) == 0 {
		return p
	}
	//
	return &ClassType{p.Class, s.ApplyAll(p.Args)}
}

func (p *ClassType) String() string {
	if len(p.Args) == 0 {
		return p.Class.Name
	}
	//
	return fmt.Sprintf("%s<%s>", p.Class.Name, joinTypes(p.Args))
}

// ============================================================================
// Nullable Type
// ============================================================================

// NullableType represents a type which additionally admits null.  The inner
// type is never itself nullable.
type NullableType struct {
	Inner Type
}

// Nullable constructs the nullable variant of a given type.
func Nullable(t Type) Type {
	if _, ok := t.(*NullableType); ok {
		return t
	}
	//
	return &NullableType{t}
}

// NotNull strips nullability from a given type (if it is nullable).
func NotNull(t Type) Type {
	if n, ok := t.(*NullableType); ok {
		return n.Inner
	}
	//
	return t
}

// IsNullable checks whether a given type is marked as nullable.
func IsNullable(t Type) bool {
	_, ok := t.(*NullableType)
	return ok
}

// Substitute implementation for Type interface.
func (p *NullableType) Substitute(s Substitution) Type {
	return Nullable(s.Apply(p.Inner))
}

func (p *NullableType) String() string {
	if _, ok := p.Inner.(*FunctionType); ok {
		return fmt.Sprintf("(%s)?", p.Inner.String())
	}
	//
	return fmt.Sprintf("%s?", p.Inner.String())
}

// ============================================================================
// Type Parameter
// ============================================================================

// TypeParameter represents a declared generic parameter of a class or a
// callable.  Within the declaration, a type parameter is an opaque type bounded
// above by its upper bound.
type TypeParameter struct {
	Name string
	// Declared upper bound (Any? when not given).
	Bound Type
	// Declaration-site variance (only meaningful for class parameters).
	Variance Variance
}

// NewTypeParameter constructs a new type parameter with a given upper bound.
func NewTypeParameter(name string, bound Type, variance Variance) *TypeParameter {
	return &TypeParameter{name, bound, variance}
}

// Substitute implementation for Type interface.
func (p *TypeParameter) Substitute(s Substitution) Type {
	if t, ok := s[p]; ok {
		return t
	}
	//
	return p
}

func (p *TypeParameter) String() string {
	return p.Name
}

// ============================================================================
// Type Variable
// ============================================================================

// Variable is a type variable introduced by type inference for a particular
// type parameter of a candidate.  Variables are identified by pointer.
type Variable struct {
	id uint
	// Type parameter which this variable was created for.
	Origin *TypeParameter
}

// NewVariable constructs a fresh type variable.  The identifier is used only for
// ordering and printing.
func NewVariable(id uint, origin *TypeParameter) *Variable {
	return &Variable{id, origin}
}

// Id returns the identifier of this variable.
func (p *Variable) Id() uint {
	return p.id
}

// Substitute implementation for Type interface.
func (p *Variable) Substitute(s Substitution) Type {
	if t, ok := s[p]; ok {
		return t
	}
	//
	return p
}

func (p *Variable) String() string {
	return fmt.Sprintf("%s#%d", p.Origin.Name, p.id)
}

// ============================================================================
// Function Type
// ============================================================================

// FunctionType represents the type of a function value, with an optional
// receiver (i.e. for extension function types).
type FunctionType struct {
	Receiver Type
	Params   []Type
	Return   Type
}

// NewFunctionType constructs a function type without a receiver.
func NewFunctionType(params []Type, ret Type) *FunctionType {
	return &FunctionType{nil, params, ret}
}

// NewExtensionFunctionType constructs a function type with a receiver.
func NewExtensionFunctionType(receiver Type, params []Type, ret Type) *FunctionType {
	return &FunctionType{receiver, params, ret}
}

// Substitute implementation for Type interface.
func (p *FunctionType) Substitute(s Substitution) Type {
	return &FunctionType{s.Apply(p.Receiver), s.ApplyAll(p.Params), s.Apply(p.Return)}
}

// Flatten returns the parameters of this function type, with the receiver
// prepended (if there is one).  This is the view of an extension function type
// when invoked as an ordinary function.
func (p *FunctionType) Flatten() []Type {
	if p.Receiver == nil {
		return p.Params
	}
	//
	return append([]Type{p.Receiver}, p.Params...)
}

func (p *FunctionType) String() string {
	var builder strings.Builder
	//
	if p.Receiver != nil {
		builder.WriteString(p.Receiver.String())
		builder.WriteString(".")
	}
	//
	builder.WriteString(fmt.Sprintf("(%s) -> %s", joinTypes(p.Params), p.Return.String()))
	//
	return builder.String()
}

// ============================================================================
// Lambda Parameter
// ============================================================================

// LambdaParameter is a placeholder for the type of the ith parameter of an
// enclosing lambda.  It appears only within the body type of a lambda argument,
// and is replaced once the lambda's parameter types are known.  Placeholders
// are compared by value.
type LambdaParameter struct {
	Index uint
}

// Substitute implementation for Type interface.
func (p LambdaParameter) Substitute(s Substitution) Type {
	if t, ok := s[p]; ok {
		return t
	}
	//
	return p
}

func (p LambdaParameter) String() string {
	return fmt.Sprintf("$%d", p.Index)
}

// LambdaSubstitution constructs the substitution replacing lambda parameter
// placeholders with concrete parameter types.
func LambdaSubstitution(params []Type) Substitution {
	subst := make(Substitution)
	//
	for i, t := range params {
		subst[LambdaParameter{uint(i)}] = t
	}
	//
	return subst
}

// ============================================================================
// Helpers
// ============================================================================

// Walk visits every type nested within a given type (including itself) in
// pre-order.  Walking stops early if the visitor returns false.
func Walk(t Type, visitor func(Type) bool) bool {
	if t == nil {
		return true
	} else if !visitor(t) {
		return false
	}
	//
	switch t := t.(type) {
	case *ClassType:
		for _, arg := range t.Args {
			if !Walk(arg, visitor) {
				return false
			}
		}
	case *NullableType:
		return Walk(t.Inner, visitor)
	case *FunctionType:
		if !Walk(t.Receiver, visitor) {
			return false
		}
		//
		for _, param := range t.Params {
			if !Walk(param, visitor) {
				return false
			}
		}
		//
		return Walk(t.Return, visitor)
	}
	//
	return true
}

// FreeVariables returns the type variables occurring within a given type, in
// order of first occurrence.
func FreeVariables(t Type) []*Variable {
	var vars []*Variable
	//
	Walk(t, func(ith Type) bool {
		if v, ok := ith.(*Variable); ok && !containsVariable(vars, v) {
			vars = append(vars, v)
		}
		//
		return true
	})
	//
	return vars
}

// IsProper checks whether a given type contains no type variables and no
// lambda parameter placeholders.
func IsProper(t Type) bool {
	return Walk(t, func(ith Type) bool {
		switch ith.(type) {
		case *Variable, LambdaParameter:
			return false
		}
		//
		return true
	})
}

// ContainsTypeParameter checks whether any of the given type parameters
// occurs within a type.
func ContainsTypeParameter(t Type, params []*TypeParameter) bool {
	return !Walk(t, func(ith Type) bool {
		if p, ok := ith.(*TypeParameter); ok {
			for _, q := range params {
				if p == q {
					return false
				}
			}
		}
		//
		return true
	})
}

func containsVariable(vars []*Variable, v *Variable) bool {
	for _, w := range vars {
		if w == v {
			return true
		}
	}
	//
	return false
}

func joinTypes(ts []Type) string {
	var builder strings.Builder
	//
	for i, t := range ts {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(t.String())
	}
	//
	return builder.String()
}

// JoinTypes produces a comma separated representation of zero or more types.
func JoinTypes(ts []Type) string {
	return joinTypes(ts)
}
