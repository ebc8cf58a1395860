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

import "fmt"

// Applicability grades how well a candidate fits a call.  Lower is better.
type Applicability uint8

const (
	// RESOLVED candidates fit the call exactly.
	RESOLVED Applicability = iota
	// RESOLVED_WITH_WARNING candidates fit, but their use is discouraged.
	RESOLVED_WITH_WARNING
	// INAPPLICABLE candidates were found, but some argument or receiver does
	// not type check.
	INAPPLICABLE
	// INAPPLICABLE_ARGUMENTS_MAPPING candidates cannot accept the arguments
	// given (e.g. wrong number, unknown names).
	INAPPLICABLE_ARGUMENTS_MAPPING
	// INAPPLICABLE_WRONG_RECEIVER candidates cannot be called on the receiver
	// given.
	INAPPLICABLE_WRONG_RECEIVER
	// HIDDEN candidates must not be chosen at all.
	HIDDEN_CANDIDATE
)

func (a Applicability) String() string {
	switch a {
	case RESOLVED:
		return "resolved"
	case RESOLVED_WITH_WARNING:
		return "resolved with warning"
	case INAPPLICABLE:
		return "inapplicable"
	case INAPPLICABLE_ARGUMENTS_MAPPING:
		return "inapplicable arguments mapping"
	case INAPPLICABLE_WRONG_RECEIVER:
		return "inapplicable wrong receiver"
	default:
		return "hidden"
	}
}

// IsSuccess checks whether this applicability permits the candidate to be
// chosen.
func (a Applicability) IsSuccess() bool {
	return a <= RESOLVED_WITH_WARNING
}

// Tier is the coarse classification of candidates used by the tower resolver
// when collecting results.  Lower is better.
type Tier uint8

const (
	// SUCCESS tier candidates are fully applicable.
	SUCCESS Tier = iota
	// SUCCESS_WITH_WARNING tier candidates are applicable with warnings.
	SUCCESS_WITH_WARNING
	// PARTIAL_MATCH tier candidates are inapplicable, but relevant for errors.
	PARTIAL_MATCH
	// NO_MATCH tier candidates do not match the call at all.
	NO_MATCH
)

func (t Tier) String() string {
	switch t {
	case SUCCESS:
		return "success"
	case SUCCESS_WITH_WARNING:
		return "warning"
	case PARTIAL_MATCH:
		return "partial"
	default:
		return "none"
	}
}

// Tier returns the tier corresponding to this applicability.
func (a Applicability) Tier() Tier {
	switch a {
	case RESOLVED:
		return SUCCESS
	case RESOLVED_WITH_WARNING:
		return SUCCESS_WITH_WARNING
	case INAPPLICABLE, INAPPLICABLE_ARGUMENTS_MAPPING:
		return PARTIAL_MATCH
	default:
		return NO_MATCH
	}
}

// DiagnosticKind identifies a particular problem with a candidate.
type DiagnosticKind uint8

const (
	// INVISIBLE indicates the callable is not visible from the call site.
	INVISIBLE DiagnosticKind = iota
	// HIDDEN_BY_DEPRECATION indicates the callable is deprecated as hidden.
	HIDDEN_BY_DEPRECATION
	// WRONG_RECEIVER indicates the receiver does not fit.
	WRONG_RECEIVER
	// UNSAFE_CALL indicates a nullable receiver for a non-nullable position.
	UNSAFE_CALL
	// WRONG_TYPE_ARGUMENT_COUNT indicates explicit type arguments of the wrong
	// number.
	WRONG_TYPE_ARGUMENT_COUNT
	// UPPER_BOUND_VIOLATED indicates a type argument violates its bound.
	UPPER_BOUND_VIOLATED
	// TOO_MANY_ARGUMENTS indicates surplus positional arguments.
	TOO_MANY_ARGUMENTS
	// NO_VALUE_FOR_PARAMETER indicates a parameter without an argument.
	NO_VALUE_FOR_PARAMETER
	// NAMED_PARAMETER_NOT_FOUND indicates a name matching no parameter.
	NAMED_PARAMETER_NOT_FOUND
	// ARGUMENT_PASSED_TWICE indicates a parameter given more than once.
	ARGUMENT_PASSED_TWICE
	// MIXING_NAMED_AND_POSITIONAL indicates positional arguments after named.
	MIXING_NAMED_AND_POSITIONAL
	// TYPE_MISMATCH indicates an argument of the wrong type.
	TYPE_MISMATCH
	// WRONG_LAMBDA_ARITY indicates a lambda with the wrong parameter count.
	WRONG_LAMBDA_ARITY
	// UNRESOLVED_CALLABLE_REFERENCE indicates a nested reference which could
	// not be resolved.
	UNRESOLVED_CALLABLE_REFERENCE
	// AMBIGUOUS_CALLABLE_REFERENCE indicates a nested reference with several
	// equally good targets.
	AMBIGUOUS_CALLABLE_REFERENCE
	// EXPECTED_TYPE_MISMATCH indicates a result of the wrong type.
	EXPECTED_TYPE_MISMATCH
	// CONSTRAINT_CONFLICT indicates inference failed.
	CONSTRAINT_CONFLICT
	// NOT_ENOUGH_INFORMATION indicates a type variable fixed to its bound.
	NOT_ENOUGH_INFORMATION
	// DEPRECATED_CALL indicates the callable is deprecated.
	DEPRECATED_CALL
	// UNRESOLVED_REFERENCE indicates no candidate exists at all.
	UNRESOLVED_REFERENCE
	// CHOSEN_BY_LAMBDA_RETURN_TYPE indicates the candidate was chosen because
	// other candidates used @OverloadResolutionByLambdaReturnType.
	CHOSEN_BY_LAMBDA_RETURN_TYPE
	// SMARTCAST_IMPOSSIBLE indicates a receiver fits only through a smart cast
	// which cannot be relied upon.
	SMARTCAST_IMPOSSIBLE
)

var diagnosticNames = []string{
	"INVISIBLE", "HIDDEN", "WRONG_RECEIVER", "UNSAFE_CALL", "WRONG_TYPE_ARGUMENT_COUNT", "UPPER_BOUND_VIOLATED",
	"TOO_MANY_ARGUMENTS", "NO_VALUE_FOR_PARAMETER", "NAMED_PARAMETER_NOT_FOUND", "ARGUMENT_PASSED_TWICE",
	"MIXING_NAMED_AND_POSITIONAL", "TYPE_MISMATCH", "WRONG_LAMBDA_ARITY", "UNRESOLVED_CALLABLE_REFERENCE",
	"AMBIGUOUS_CALLABLE_REFERENCE", "EXPECTED_TYPE_MISMATCH", "CONSTRAINT_CONFLICT", "NOT_ENOUGH_INFORMATION",
	"DEPRECATED", "UNRESOLVED_REFERENCE", "CHOSEN_BY_LAMBDA_RETURN_TYPE", "SMARTCAST_IMPOSSIBLE",
}

func (k DiagnosticKind) String() string {
	if int(k) < len(diagnosticNames) {
		return diagnosticNames[k]
	}
	//
	return "UNKNOWN"
}

// Applicability returns the applicability implied by this kind of diagnostic.
func (k DiagnosticKind) Applicability() Applicability {
	switch k {
	case HIDDEN_BY_DEPRECATION, UNRESOLVED_REFERENCE:
		return HIDDEN_CANDIDATE
	case WRONG_RECEIVER:
		return INAPPLICABLE_WRONG_RECEIVER
	case TOO_MANY_ARGUMENTS, NO_VALUE_FOR_PARAMETER, NAMED_PARAMETER_NOT_FOUND, ARGUMENT_PASSED_TWICE,
		MIXING_NAMED_AND_POSITIONAL, WRONG_TYPE_ARGUMENT_COUNT:
		return INAPPLICABLE_ARGUMENTS_MAPPING
	case NOT_ENOUGH_INFORMATION, DEPRECATED_CALL:
		return RESOLVED_WITH_WARNING
	case CHOSEN_BY_LAMBDA_RETURN_TYPE:
		return RESOLVED
	default:
		return INAPPLICABLE
	}
}

// NO_ARGUMENT is used as the argument index of diagnostics which do not
// concern a particular argument.
const NO_ARGUMENT = -1

// Diagnostic records a single problem (or note) about a candidate.
type Diagnostic struct {
	Kind DiagnosticKind
	// Index of the argument concerned (or NO_ARGUMENT).
	Argument int
	Message  string
}

// Applicability returns the applicability implied by this diagnostic.
func (d Diagnostic) Applicability() Applicability {
	return d.Kind.Applicability()
}

func (d Diagnostic) String() string {
	if d.Argument != NO_ARGUMENT {
		return fmt.Sprintf("%s(#%d: %s)", d.Kind, d.Argument+1, d.Message)
	} else if d.Message != "" {
		return fmt.Sprintf("%s(%s)", d.Kind, d.Message)
	}
	//
	return d.Kind.String()
}
