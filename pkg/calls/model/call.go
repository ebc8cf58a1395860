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
	"errors"
	"fmt"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// ErrInvalidCall is returned when a call's shape is inconsistent with its kind.
var ErrInvalidCall = errors.New("invalid call")

// CallKind identifies the syntactic form of a call.
type CallKind uint8

const (
	// FUNCTION is a plain call, such as f(x) or a.f(x).
	FUNCTION CallKind = iota
	// VARIABLE is a property or variable access, such as x or a.x.
	VARIABLE
	// CALLABLE_REFERENCE is a reference such as ::f or A::f.
	CALLABLE_REFERENCE
	// INVOKE is an invoke call on an explicit receiver value.
	INVOKE
	// UNSUPPORTED marks a call which cannot be resolved.
	UNSUPPORTED
)

func (k CallKind) String() string {
	switch k {
	case FUNCTION:
		return "function"
	case VARIABLE:
		return "variable"
	case CALLABLE_REFERENCE:
		return "reference"
	case INVOKE:
		return "invoke"
	default:
		return "unsupported"
	}
}

// LHSKind identifies the form of the left-hand side of a callable reference.
type LHSKind uint8

const (
	// EMPTY_LHS is a reference with nothing before the "::".
	EMPTY_LHS LHSKind = iota
	// TYPE_LHS is a reference qualified by a type, such as A::f, which produces
	// an unbound reference.
	TYPE_LHS
	// EXPRESSION_LHS is a reference qualified by a value, such as a::f, which
	// produces a bound reference.
	EXPRESSION_LHS
)

// LHS describes the left-hand side of a callable reference.
type LHS struct {
	Kind LHSKind
	// Type of the qualifier (nil for an empty left-hand side).
	Type types.Type
}

// Call is an immutable description of a single resolution request.
type Call struct {
	Kind CallKind
	Name string
	// Receiver written explicitly at the call site (nil if none).
	ExplicitReceiver *Receiver
	// Receiver passed as the first argument of an extension function value, as
	// in a.f() where f has an extension function type.
	DispatchReceiverForInvokeExtension *Receiver
	// Value arguments in order.
	Arguments []Argument
	// Explicit type arguments (empty if they are to be inferred).
	TypeArguments []types.Type
	// Left-hand side of a callable reference.
	LHS *LHS
	// Source location (for reporting only).
	Position string
}

// CheckInvariants checks the shape of this call is consistent with its kind.
func (p *Call) CheckInvariants() error {
	switch p.Kind {
	case CALLABLE_REFERENCE:
		if len(p.Arguments) != 0 || len(p.TypeArguments) != 0 {
			return fmt.Errorf("%w: callable reference %s has arguments", ErrInvalidCall, p.Name)
		} else if p.ExplicitReceiver != nil {
			return fmt.Errorf("%w: callable reference %s has explicit receiver", ErrInvalidCall, p.Name)
		} else if p.LHS == nil {
			return fmt.Errorf("%w: callable reference %s has no left-hand side", ErrInvalidCall, p.Name)
		}
	case VARIABLE:
		if len(p.Arguments) != 0 || len(p.TypeArguments) != 0 {
			return fmt.Errorf("%w: variable access %s has arguments", ErrInvalidCall, p.Name)
		}
	case INVOKE:
		if p.ExplicitReceiver == nil {
			return fmt.Errorf("%w: invoke call has no receiver", ErrInvalidCall)
		}
	}
	//
	if p.Kind != CALLABLE_REFERENCE && p.LHS != nil {
		return fmt.Errorf("%w: %s call %s has callable reference qualifier", ErrInvalidCall, p.Kind, p.Name)
	} else if p.Kind != INVOKE && p.DispatchReceiverForInvokeExtension != nil {
		return fmt.Errorf("%w: %s call %s has invoke extension receiver", ErrInvalidCall, p.Kind, p.Name)
	}
	//
	return nil
}

// WithArguments returns a copy of this call with a different kind, receiver
// and arguments.  This is used for constructing the invoke calls implied by
// calling a value of function type.
func (p *Call) WithArguments(kind CallKind, name string, receiver *Receiver, args []Argument) *Call {
	return &Call{
		Kind:             kind,
		Name:             name,
		ExplicitReceiver: receiver,
		Arguments:        args,
		TypeArguments:    p.TypeArguments,
		Position:         p.Position,
	}
}

func (p *Call) String() string {
	var builder strings.Builder
	//
	switch p.Kind {
	case CALLABLE_REFERENCE:
		if p.LHS != nil && p.LHS.Type != nil {
			builder.WriteString(p.LHS.Type.String())
		}
		//
		builder.WriteString("::")
		builder.WriteString(p.Name)
		//
		return builder.String()
	case INVOKE:
		if p.DispatchReceiverForInvokeExtension != nil {
			builder.WriteString(p.DispatchReceiverForInvokeExtension.String())
			builder.WriteString(".")
		}
	}
	//
	if p.ExplicitReceiver != nil {
		builder.WriteString(p.ExplicitReceiver.String())
		builder.WriteString(".")
	}
	//
	builder.WriteString(p.Name)
	//
	if len(p.TypeArguments) > 0 {
		builder.WriteString("<")
		builder.WriteString(types.JoinTypes(p.TypeArguments))
		builder.WriteString(">")
	}
	//
	if p.Kind != VARIABLE {
		builder.WriteString("(")
		//
		for i, arg := range p.Arguments {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(arg.String())
		}
		//
		builder.WriteString(")")
	}
	//
	return builder.String()
}
