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
package model

import (
	"fmt"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// CallableKind distinguishes functions from properties.
type CallableKind uint8

const (
	// FUNCTION_SYMBOL is a function (or constructor-like factory).
	FUNCTION_SYMBOL CallableKind = iota
	// PROPERTY_SYMBOL is a property or local variable.
	PROPERTY_SYMBOL
)

// Flags records the modifiers and annotations of a callable.
type Flags uint16

const (
	// SYNTHESIZED marks a compiler-generated callable (e.g. a SAM adapter).
	SYNTHESIZED Flags = 1 << iota
	// OPERATOR marks a callable usable through operator syntax (e.g. invoke).
	OPERATOR
	// DEPRECATED marks a callable whose use produces a warning.
	DEPRECATED
	// HIDDEN marks a callable which is deprecated with level HIDDEN.
	HIDDEN
	// PRIVATE marks a callable only visible within its owner.
	PRIVATE
	// LAMBDA_RETURN_OVERLOAD marks a callable annotated with
	// @OverloadResolutionByLambdaReturnType.
	LAMBDA_RETURN_OVERLOAD
)

// Parameter is a single value parameter of a callable.
type Parameter struct {
	Name string
	Type types.Type
	// Indicates a default value exists.
	HasDefault bool
	// Indicates a vararg parameter (whose type is the element type).
	Vararg bool
}

func (p Parameter) String() string {
	var builder strings.Builder
	//
	if p.Vararg {
		builder.WriteString("vararg ")
	}
	//
	builder.WriteString(fmt.Sprintf("%s: %s", p.Name, p.Type))
	//
	if p.HasDefault {
		builder.WriteString(" = ...")
	}
	//
	return builder.String()
}

// Callable is a function or property symbol.  Callables are immutable once
// declared, and those obtained by substituting class type arguments retain a
// link to the declaration they came from.
type Callable struct {
	Name string
	Kind CallableKind
	// Label of the scope or class declaring this callable.
	Owner string
	// Declared type parameters.
	TypeParams []*types.TypeParameter
	// Class declaring this callable as a member (nil if not a member).
	DispatchReceiver *types.Class
	// Receiver type of an extension (nil if not an extension).
	ExtensionReceiver types.Type
	// Value parameters (always empty for properties).
	Params []Parameter
	// Return type (or property type).
	Return types.Type
	// Modifiers
	Flags Flags
	// Declaration from which this callable was obtained by substitution.
	original *Callable
}

// NewFunction constructs a function symbol.
func NewFunction(name string, owner string, typeParams []*types.TypeParameter, extension types.Type,
	params []Parameter, ret types.Type, flags Flags) *Callable {
	return &Callable{name, FUNCTION_SYMBOL, owner, typeParams, nil, extension, params, ret, flags, nil}
}

// NewProperty constructs a property symbol.
func NewProperty(name string, owner string, extension types.Type, ret types.Type, flags Flags) *Callable {
	return &Callable{name, PROPERTY_SYMBOL, owner, nil, nil, extension, nil, ret, flags, nil}
}

// Original returns the declaration from which this callable was derived, or
// itself if it was declared directly.
func (p *Callable) Original() *Callable {
	if p.original != nil {
		return p.original
	}
	//
	return p
}

// Has checks whether a given flag is set.
func (p *Callable) Has(flag Flags) bool {
	return p.Flags&flag != 0
}

// IsFunction checks whether this is a function symbol.
func (p *Callable) IsFunction() bool {
	return p.Kind == FUNCTION_SYMBOL
}

// IsExtension checks whether this is an extension.
func (p *Callable) IsExtension() bool {
	return p.ExtensionReceiver != nil
}

// IsGeneric checks whether this callable declares any type parameters.
func (p *Callable) IsGeneric() bool {
	return len(p.TypeParams) > 0
}

// HasVararg checks whether this callable has a vararg parameter.
func (p *Callable) HasVararg() bool {
	for _, param := range p.Params {
		if param.Vararg {
			return true
		}
	}
	//
	return false
}

// Substitute class type arguments through the signature of this callable,
// producing a callable which remembers its original declaration.
func (p *Callable) Substitute(subst types.Substitution) *Callable {
	if len(subst) == 0 {
		return p
	}
	//
	params := make([]Parameter, len(p.Params))
	//
	for i, param := range p.Params {
		params[i] = Parameter{param.Name, subst.Apply(param.Type), param.HasDefault, param.Vararg}
	}
	//
	return &Callable{
		p.Name, p.Kind, p.Owner, p.TypeParams, p.DispatchReceiver, subst.Apply(p.ExtensionReceiver),
		params, subst.Apply(p.Return), p.Flags, p.Original(),
	}
}

// FunctionType returns the type of this callable viewed as a function value.
// For an extension, the receiver becomes the receiver of the function type.
func (p *Callable) FunctionType() *types.FunctionType {
	params := make([]types.Type, len(p.Params))
	//
	for i, param := range p.Params {
		params[i] = param.Type
	}
	//
	return types.NewExtensionFunctionType(p.ExtensionReceiver, params, p.Return)
}

// Signature returns a readable description of this callable, in declaration
// form.
func (p *Callable) Signature() string {
	var builder strings.Builder
	//
	if p.Kind == PROPERTY_SYMBOL {
		builder.WriteString("val ")
	} else {
		builder.WriteString("fun ")
	}
	//
	p.writeSignature(&builder)
	//
	return builder.String()
}

func (p *Callable) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Owner)
	builder.WriteString(".")
	p.writeSignature(&builder)
	//
	return builder.String()
}

func (p *Callable) typeParams() string {
	names := make([]string, len(p.TypeParams))
	//
	for i, param := range p.TypeParams {
		names[i] = param.Name
	}
	//
	return strings.Join(names, ", ")
}

func (p *Callable) writeSignature(builder *strings.Builder) {
	if p.ExtensionReceiver != nil {
		builder.WriteString(p.ExtensionReceiver.String())
		builder.WriteString(".")
	}
	//
	builder.WriteString(p.Name)
	//
	if len(p.TypeParams) > 0 {
		builder.WriteString("<")
		builder.WriteString(p.typeParams())
		builder.WriteString(">")
	}
	//
	if p.Kind == FUNCTION_SYMBOL {
		builder.WriteString("(")
		//
		for i, param := range p.Params {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(param.String())
		}
		//
		builder.WriteString(")")
	}
	//
	builder.WriteString(": ")
	builder.WriteString(p.Return.String())
}
