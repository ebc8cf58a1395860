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
)

// Class represents a declared class (or interface).  The members of a class
// are not held here, since they are symbols rather than types.
type Class struct {
	Name string
	// Declared type parameters (in order).
	Params []*TypeParameter
	// Declared supertypes, expressed in terms of this class's parameters.
	Supertypes []*ClassType
	// Signature of the single abstract method, when this is a fun interface.
	// This is nil otherwise.
	Sam *FunctionType
}

// IsFunInterface checks whether instances of this class can be created by SAM
// conversion of a lambda.
func (p *Class) IsFunInterface() bool {
	return p.Sam != nil
}

// AddSupertype records a new supertype of this class.
func (p *Class) AddSupertype(super *ClassType) {
	p.Supertypes = append(p.Supertypes, super)
}

// Universe holds every class known to the resolver, including the built-in
// classes.  It provides the subtyping relation which the rest of the resolver
// relies upon.  A universe is read-only once populated, and can therefore be
// shared between concurrent resolutions.
type Universe struct {
	// Classes in order of declaration (for determinism).
	classes []*Class
	// Maps class names to classes.
	names map[string]*Class
	// Frequently used built-ins
	any, nothing, unit, boolean *Class
	number, int, long, short    *Class
	byte, double, str           *Class
}

// NewUniverse constructs a universe containing only the built-in classes.
func NewUniverse() *Universe {
	u := &Universe{names: make(map[string]*Class)}
	//
	u.any = u.mustDeclare("Any")
	u.nothing = u.mustDeclare("Nothing")
	u.unit = u.mustDeclare("Unit")
	u.boolean = u.mustDeclare("Boolean")
	u.number = u.mustDeclare("Number")
	// Comparable<in T>
	comparableT := NewTypeParameter("T", u.NullableAny(), CONTRAVARIANT)
	comparable := u.mustDeclare("Comparable", comparableT)
	charSequence := u.mustDeclare("CharSequence")
	// Numeric types
	u.int = u.mustDeclare("Int")
	u.long = u.mustDeclare("Long")
	u.short = u.mustDeclare("Short")
	u.byte = u.mustDeclare("Byte")
	u.double = u.mustDeclare("Double")
	u.str = u.mustDeclare("String")
	// Wire up supertypes
	for _, c := range []*Class{u.unit, u.boolean, u.number, comparable, charSequence} {
		c.AddSupertype(u.Any())
	}
	//
	for _, c := range []*Class{u.int, u.long, u.short, u.byte, u.double} {
		c.AddSupertype(u.Number())
		c.AddSupertype(NewClassType(comparable, NewClassType(c)))
	}
	//
	u.str.AddSupertype(NewClassType(charSequence))
	u.str.AddSupertype(NewClassType(comparable, NewClassType(u.str)))
	//
	return u
}

// Declare a new class with a given name and type parameters.  This returns
// false if a class with the same name already exists.
func (p *Universe) Declare(name string, params ...*TypeParameter) (*Class, bool) {
	if _, ok := p.names[name]; ok {
		return nil, false
	}
	//
	class := &Class{name, params, nil, nil}
	p.classes = append(p.classes, class)
	p.names[name] = class
	//
	return class, true
}

func (p *Universe) mustDeclare(name string, params ...*TypeParameter) *Class {
	class, ok := p.Declare(name, params...)
	if !ok {
		panic(fmt.Sprintf("duplicate built-in class %s", name))
	}
	//
	return class
}

// Lookup a class by name, returning nil if no such class exists.
func (p *Universe) Lookup(name string) *Class {
	return p.names[name]
}

// Classes returns all classes in this universe in declaration order.
func (p *Universe) Classes() []*Class {
	return p.classes
}

// Any returns the (non-nullable) top type.
func (p *Universe) Any() *ClassType { return NewClassType(p.any) }

// NullableAny returns the nullable top type (i.e. Any?), which is the supertype
// of every type.
func (p *Universe) NullableAny() Type { return Nullable(p.Any()) }

// Nothing returns the bottom type.
func (p *Universe) Nothing() *ClassType { return NewClassType(p.nothing) }

// Unit returns the unit type.
func (p *Universe) Unit() *ClassType { return NewClassType(p.unit) }

// Boolean returns the boolean type.
func (p *Universe) Boolean() *ClassType { return NewClassType(p.boolean) }

// Number returns the number type.
func (p *Universe) Number() *ClassType { return NewClassType(p.number) }

// Int returns the 32-bit integer type.
func (p *Universe) Int() *ClassType { return NewClassType(p.int) }

// Long returns the 64-bit integer type.
func (p *Universe) Long() *ClassType { return NewClassType(p.long) }

// Short returns the 16-bit integer type.
func (p *Universe) Short() *ClassType { return NewClassType(p.short) }

// Byte returns the 8-bit integer type.
func (p *Universe) Byte() *ClassType { return NewClassType(p.byte) }

// Double returns the double precision floating point type.
func (p *Universe) Double() *ClassType { return NewClassType(p.double) }

// String returns the string type.
func (p *Universe) String() *ClassType { return NewClassType(p.str) }

// IsNothing checks whether a given type is the (non-nullable) bottom type.
func (p *Universe) IsNothing(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Class == p.nothing
}

// IsAny checks whether a given type is the (non-nullable) Any type.
func (p *Universe) IsAny(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Class == p.any
}

// SamSignature returns the function type to which a lambda must conform when
// it is SAM converted into the given type, or nil if the type is not a fun
// interface.
func (p *Universe) SamSignature(t Type) *FunctionType {
	if c, ok := NotNull(t).(*ClassType); ok && c.Class.IsFunInterface() {
		return c.Class.Sam.Substitute(classSubstitution(c)).(*FunctionType)
	}
	//
	return nil
}

// Substitution from the class type parameters to the arguments of a given
// instance.
func classSubstitution(t *ClassType) Substitution {
	subst := make(Substitution)
	//
	for i, param := range t.Class.Params {
		subst[param] = t.Args[i]
	}
	//
	return subst
}

// ClassSubstitution returns the substitution mapping the type parameters of a
// class onto the type arguments of a given instance.
func ClassSubstitution(t *ClassType) Substitution {
	return classSubstitution(t)
}
