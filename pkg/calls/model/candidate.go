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

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// TowerCandidate is a callable found at some level of the scope tower, along
// with the receivers it would be called with.
type TowerCandidate struct {
	Callable *Callable
	// Receiver supplying the dispatch receiver of a member (or nil).
	DispatchReceiver *Receiver
	// Receiver supplying the extension receiver (or nil).
	ExtensionReceiver *Receiver
	// Index of the tower level this was found at.
	Level uint
	// Label of the scope this was found in.
	Scope string
	// Indicates the callable is not visible from the call site.
	Invisible bool
	// Indicates a variable of extension function type which should be
	// invoked with the extension receiver as its first argument.
	InvokeExtension bool
	// Indicates a member found only through an unstable smart cast of its
	// dispatch receiver.
	UnstableSmartCast bool
}

// PostponedLambda records a lambda argument whose body can only be analysed
// once the types of its parameters are known.
type PostponedLambda struct {
	// Index of the argument.
	Argument uint
	Lambda   *LambdaArgument
	// Function type expected for the lambda, expressed over the candidate's
	// type variables.
	Expected *types.FunctionType
	// Type of the lambda once analysed (nil beforehand).
	Analysed *types.FunctionType
}

// LHSResult describes how the left-hand side of a callable reference was
// resolved.
type LHSResult struct {
	Kind LHSKind
	// Qualifier type (nil for an empty left-hand side).
	Type types.Type
}

// IsBound checks whether the reference captures its receiver.
func (p LHSResult) IsBound() bool {
	return p.Kind == EXPRESSION_LHS
}

// Candidate is one way of resolving a call, obtained by binding a callable to
// a particular receiver configuration.  Candidates are constructed through a
// CandidateBuilder, after which their diagnostics are read-only except for
// those added during completion.
type Candidate struct {
	call  *Call
	tower TowerCandidate
	// Constraint system owned by this candidate.
	system *inference.System
	// Type variables created for the callable's type parameters (in order).
	variables []*types.Variable
	// Maps the callable's type parameters to their variables.
	freshening types.Substitution
	// Diagnostics in order of discovery.
	diagnostics []Diagnostic
	// For each argument, the index of the parameter it was mapped to (or -1).
	mapping []int
	// For each argument, whether a coercion was required.
	coerced []bool
	// Number of parameters for which the default value is used.
	defaults uint
	// Lambdas awaiting analysis.
	postponed []*PostponedLambda
	// Resolved callable reference arguments.
	references map[uint]*Candidate
	// Callable reference specifics.
	lhs        *LHSResult
	reflection types.Type
	// Variable candidate for an implicit invoke.
	invoke *Candidate
	// Indicates this candidate was produced to report an unresolved call.
	isError bool
	// Indicates diagnostics can no longer change.
	finalised bool
	// Final types of type variables.
	final types.Substitution
}

// Call returns the call this candidate resolves.
func (p *Candidate) Call() *Call { return p.call }

// Callable returns the callable of this candidate (nil for error candidates).
func (p *Candidate) Callable() *Callable { return p.tower.Callable }

// TowerCandidate returns the tower information this candidate was built from.
func (p *Candidate) TowerCandidate() TowerCandidate { return p.tower }

// DispatchReceiver returns the dispatch receiver (if any).
func (p *Candidate) DispatchReceiver() *Receiver { return p.tower.DispatchReceiver }

// ExtensionReceiver returns the extension receiver (if any).
func (p *Candidate) ExtensionReceiver() *Receiver { return p.tower.ExtensionReceiver }

// Level returns the index of the tower level this candidate was found at.
func (p *Candidate) Level() uint { return p.tower.Level }

// System returns the constraint system owned by this candidate.
func (p *Candidate) System() *inference.System { return p.system }

// Variables returns the type variables of this candidate.
func (p *Candidate) Variables() []*types.Variable { return p.variables }

// Freshening returns the substitution from declared type parameters to type
// variables.
func (p *Candidate) Freshening() types.Substitution { return p.freshening }

// Diagnostics returns the diagnostics of this candidate.
func (p *Candidate) Diagnostics() []Diagnostic { return p.diagnostics }

// ArgumentMapping returns, for each argument, the parameter it was mapped to
// (or -1).
func (p *Candidate) ArgumentMapping() []int { return p.mapping }

// IsCoerced checks whether the ith argument required a coercion (e.g. an
// integer literal conversion, or a SAM conversion).
func (p *Candidate) IsCoerced(arg uint) bool {
	return arg < uint(len(p.coerced)) && p.coerced[arg]
}

// DefaultsUsed returns the number of parameters whose default value is used.
func (p *Candidate) DefaultsUsed() uint { return p.defaults }

// Postponed returns the lambda arguments awaiting analysis.
func (p *Candidate) Postponed() []*PostponedLambda { return p.postponed }

// Reference returns the resolved callable reference for a given argument (or
// nil).
func (p *Candidate) Reference(arg uint) *Candidate { return p.references[arg] }

// LHS returns the resolved left-hand side of a callable reference (or nil).
func (p *Candidate) LHS() *LHSResult { return p.lhs }

// ReflectionType returns the function type of a callable reference (or nil).
func (p *Candidate) ReflectionType() types.Type { return p.reflection }

// Invoke returns the variable candidate for an implicit invoke (or nil).
func (p *Candidate) Invoke() *Candidate { return p.invoke }

// IsError checks whether this is an error candidate for an unresolved call.
func (p *Candidate) IsError() bool { return p.isError }

// IsFinalised checks whether completion has finished with this candidate.
func (p *Candidate) IsFinalised() bool { return p.finalised }

// Applicability returns the worst applicability of any diagnostic.
func (p *Candidate) Applicability() Applicability {
	applicability := RESOLVED
	//
	for _, d := range p.diagnostics {
		applicability = max(applicability, d.Applicability())
	}
	//
	return applicability
}

// Tier returns the tier of this candidate.
func (p *Candidate) Tier() Tier {
	return p.Applicability().Tier()
}

// IsSuccessful checks whether this candidate can be chosen.
func (p *Candidate) IsSuccessful() bool {
	return p.Applicability().IsSuccess()
}

// AddDiagnostic records a diagnostic discovered after construction (e.g.
// during overload resolution or completion).  Adding diagnostics to a failed or
// finalised candidate is not permitted.
func (p *Candidate) AddDiagnostic(kind DiagnosticKind, arg int, msg string) {
	if p.finalised {
		panic(fmt.Sprintf("candidate %s already finalised", p))
	} else if !p.IsSuccessful() {
		panic(fmt.Sprintf("candidate %s already failed", p))
	}
	//
	p.diagnostics = append(p.diagnostics, Diagnostic{kind, arg, msg})
}

// Finalise records the final types of this candidate's type variables.  After
// this, diagnostics can no longer be added.
func (p *Candidate) Finalise(subst types.Substitution) {
	if p.finalised {
		panic(fmt.Sprintf("candidate %s already finalised", p))
	}
	//
	p.final = subst
	p.finalised = true
}

// TypeArguments returns the types inferred for the type parameters of the
// callable.  Before completion, these may still mention type variables.
func (p *Candidate) TypeArguments() []types.Type {
	args := make([]types.Type, len(p.variables))
	//
	for i, v := range p.variables {
		args[i] = p.resolve(v)
	}
	//
	return args
}

// ReturnType returns the type of the call, which is the reflection type for
// callable references.  Before completion, this may mention type variables.
func (p *Candidate) ReturnType() types.Type {
	switch {
	case p.isError:
		return nil
	case p.reflection != nil:
		return p.resolve(p.reflection)
	default:
		return p.resolve(p.freshening.Apply(p.tower.Callable.Return))
	}
}

// ParameterType returns the type of the parameter a given argument was
// mapped to, expressed over this candidate's type variables.  For a vararg
// parameter this is the element type.
func (p *Candidate) ParameterType(arg uint) types.Type {
	if arg >= uint(len(p.mapping)) || p.mapping[arg] < 0 {
		return nil
	}
	//
	return p.freshening.Apply(p.tower.Callable.Params[p.mapping[arg]].Type)
}

func (p *Candidate) resolve(t types.Type) types.Type {
	if p.finalised {
		return p.final.Apply(t)
	}
	//
	return p.system.Apply(t)
}

func (p *Candidate) String() string {
	if p.isError {
		return fmt.Sprintf("<unresolved %s>", p.call.Name)
	}
	//
	return p.tower.Callable.String()
}

// Describe produces a detailed description of this candidate, including its
// inferred type arguments and diagnostics.
func (p *Candidate) Describe() string {
	var builder strings.Builder
	//
	builder.WriteString(p.String())
	//
	if len(p.variables) > 0 {
		builder.WriteString(" [")
		//
		for i, t := range p.TypeArguments() {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(fmt.Sprintf("%s=%s", p.tower.Callable.TypeParams[i].Name, t))
		}
		//
		builder.WriteString("]")
	}
	//
	if p.invoke != nil {
		builder.WriteString(fmt.Sprintf(" via %s", p.invoke))
	}
	//
	for _, d := range p.diagnostics {
		builder.WriteString(" ")
		builder.WriteString(d.String())
	}
	//
	return builder.String()
}

// ============================================================================
// Builder
// ============================================================================

// CandidateBuilder accumulates the state of a candidate during applicability
// checking.  Diagnostics can only be appended.
type CandidateBuilder struct {
	candidate *Candidate
}

// NewCandidateBuilder begins construction of a candidate for a given call and
// tower candidate, which will own the given constraint system.
func NewCandidateBuilder(call *Call, tower TowerCandidate, system *inference.System) *CandidateBuilder {
	candidate := &Candidate{
		call:       call,
		tower:      tower,
		system:     system,
		freshening: make(types.Substitution),
		references: make(map[uint]*Candidate),
	}
	//
	return &CandidateBuilder{candidate}
}

// NewErrorCandidate constructs a candidate reporting that nothing could be
// found for a given call.
func NewErrorCandidate(call *Call, system *inference.System) *Candidate {
	b := NewCandidateBuilder(call, TowerCandidate{}, system)
	b.candidate.isError = true
	b.Report(UNRESOLVED_REFERENCE, NO_ARGUMENT, call.Name)
	//
	return b.Build()
}

// System returns the constraint system of the candidate being built.
func (p *CandidateBuilder) System() *inference.System { return p.candidate.system }

// Call returns the call of the candidate being built.
func (p *CandidateBuilder) Call() *Call { return p.candidate.call }

// Callable returns the callable of the candidate being built.
func (p *CandidateBuilder) Callable() *Callable { return p.candidate.tower.Callable }

// TowerCandidate returns the tower information of the candidate being built.
func (p *CandidateBuilder) TowerCandidate() TowerCandidate { return p.candidate.tower }

// Freshening returns the substitution from type parameters to variables.
func (p *CandidateBuilder) Freshening() types.Substitution { return p.candidate.freshening }

// Report a new diagnostic.
func (p *CandidateBuilder) Report(kind DiagnosticKind, arg int, msg string) {
	p.candidate.diagnostics = append(p.candidate.diagnostics, Diagnostic{kind, arg, msg})
}

// Diagnostics returns the diagnostics reported so far.
func (p *CandidateBuilder) Diagnostics() []Diagnostic { return p.candidate.diagnostics }

// Mapping returns the argument to parameter mapping (nil until set).
func (p *CandidateBuilder) Mapping() []int { return p.candidate.mapping }

// Failed checks whether any error has been reported so far.
func (p *CandidateBuilder) Failed() bool {
	return !p.candidate.IsSuccessful()
}

// AddVariable registers the variable created for a given type parameter.
func (p *CandidateBuilder) AddVariable(param *types.TypeParameter, v *types.Variable) {
	p.candidate.variables = append(p.candidate.variables, v)
	p.candidate.freshening[param] = v
}

// SetMapping records the argument to parameter mapping, and the number of
// defaults used.
func (p *CandidateBuilder) SetMapping(mapping []int, defaults uint) {
	p.candidate.mapping = mapping
	p.candidate.defaults = defaults
	p.candidate.coerced = make([]bool, len(mapping))
}

// SetCoerced marks the ith argument as having required a coercion.
func (p *CandidateBuilder) SetCoerced(arg uint) {
	p.candidate.coerced[arg] = true
}

// Postpone records a lambda argument for analysis during completion.
func (p *CandidateBuilder) Postpone(lambda *PostponedLambda) {
	p.candidate.postponed = append(p.candidate.postponed, lambda)
}

// SetReference records the resolved callable reference for an argument.
func (p *CandidateBuilder) SetReference(arg uint, reference *Candidate) {
	p.candidate.references[arg] = reference
}

// SetCallableReference records the left-hand side and reflection type of a
// callable reference candidate.
func (p *CandidateBuilder) SetCallableReference(lhs LHSResult, reflection types.Type) {
	p.candidate.lhs = &lhs
	p.candidate.reflection = reflection
}

// SetInvoke records the variable candidate of an implicit invoke.
func (p *CandidateBuilder) SetInvoke(variable *Candidate) {
	p.candidate.invoke = variable
}

// Build completes construction.  The builder must not be used afterwards.
func (p *CandidateBuilder) Build() *Candidate {
	candidate := p.candidate
	p.candidate = nil
	//
	return candidate
}
