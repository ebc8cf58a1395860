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
	"math"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// Argument represents a single value argument at a call site.
type Argument interface {
	// Named returns the parameter name given for this argument, and whether
	// one was given at all.
	Named() (string, bool)
	// String returns a textual representation of this argument.
	String() string
}

// ExpressionArgument is an argument whose type has already been determined.
type ExpressionArgument struct {
	Name string
	Type types.Type
}

// Named implementation for Argument interface.
func (p *ExpressionArgument) Named() (string, bool) { return p.Name, p.Name != "" }

func (p *ExpressionArgument) String() string {
	return withName(p.Name, p.Type.String())
}

// IntegerLiteral is an integer constant, whose type is determined by the
// parameter it is passed to.
type IntegerLiteral struct {
	Name  string
	Value int64
}

// Named implementation for Argument interface.
func (p *IntegerLiteral) Named() (string, bool) { return p.Name, p.Name != "" }

// DefaultType returns the type of this literal when nothing else is known.
// This is Int when the value fits, and Long otherwise.
func (p *IntegerLiteral) DefaultType(u *types.Universe) types.Type {
	if p.Value >= math.MinInt32 && p.Value <= math.MaxInt32 {
		return u.Int()
	}
	//
	return u.Long()
}

// CoercibleTo checks whether this literal can be given the given (proper)
// integer type without an explicit conversion.
func (p *IntegerLiteral) CoercibleTo(u *types.Universe, t types.Type) bool {
	switch {
	case types.Equal(t, u.Long()):
		return true
	case types.Equal(t, u.Int()):
		return p.Value >= math.MinInt32 && p.Value <= math.MaxInt32
	case types.Equal(t, u.Short()):
		return p.Value >= math.MinInt16 && p.Value <= math.MaxInt16
	case types.Equal(t, u.Byte()):
		return p.Value >= math.MinInt8 && p.Value <= math.MaxInt8
	default:
		return false
	}
}

func (p *IntegerLiteral) String() string {
	return withName(p.Name, fmt.Sprintf("%d", p.Value))
}

// NullLiteral is the constant null, which has type Nothing?.
type NullLiteral struct {
	Name string
}

// Named implementation for Argument interface.
func (p *NullLiteral) Named() (string, bool) { return p.Name, p.Name != "" }

func (p *NullLiteral) String() string {
	return withName(p.Name, "null")
}

// LambdaArgument is a function literal.  Its parameter types may be omitted,
// in which case they are inferred from the parameter it is passed to.  The type
// of its body can mention the types of its parameters through lambda parameter
// placeholders.
type LambdaArgument struct {
	Name string
	// Declared parameter types, where nil indicates a parameter without a
	// declared type.
	Params []types.Type
	// Type of the body.
	Body types.Type
}

// Named implementation for Argument interface.
func (p *LambdaArgument) Named() (string, bool) { return p.Name, p.Name != "" }

// Arity returns the number of declared parameters.
func (p *LambdaArgument) Arity() uint {
	return uint(len(p.Params))
}

func (p *LambdaArgument) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, param := range p.Params {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		if param != nil {
			builder.WriteString(fmt.Sprintf(" $%d: %s", i, param))
		} else {
			builder.WriteString(fmt.Sprintf(" $%d", i))
		}
	}
	//
	if len(p.Params) > 0 {
		builder.WriteString(" ->")
	}
	//
	builder.WriteString(fmt.Sprintf(" %s }", p.Body))
	//
	return withName(p.Name, builder.String())
}

// CallableReferenceArgument is a callable reference passed as an argument,
// which is resolved against the parameter it is passed to.
type CallableReferenceArgument struct {
	Name string
	Call *Call
}

// Named implementation for Argument interface.
func (p *CallableReferenceArgument) Named() (string, bool) { return p.Name, p.Name != "" }

func (p *CallableReferenceArgument) String() string {
	return withName(p.Name, p.Call.String())
}

func withName(name string, arg string) string {
	if name == "" {
		return arg
	}
	//
	return fmt.Sprintf("%s = %s", name, arg)
}
