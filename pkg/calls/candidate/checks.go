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
package candidate

import (
	"context"
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// checker runs the applicability checks of a candidate under construction.
type checker struct {
	ctx context.Context
	env *Environment
	b   *model.CandidateBuilder
}

// stage is a single applicability check.  An error is returned only when
// resolution is cancelled.
type stage func(*checker) error

// Run the given stages in order, stopping at the first stage after which the
// candidate has failed.
func (p *checker) run(stages ...stage) error {
	for _, s := range stages {
		if err := s(p); err != nil {
			return err
		} else if p.b.Failed() {
			log.Debugf("candidate %s failed: %s", p.b.Callable(), p.b.Diagnostics())
			break
		}
	}
	//
	return nil
}

func (p *checker) universe() *types.Universe {
	return p.env.Universe()
}

func (p *checker) system() *inference.System {
	return p.b.System()
}

// Add a subtype constraint, returning the conflict it caused (if any).
func (p *checker) constrain(lower types.Type, upper types.Type, pos inference.Position) *inference.Conflict {
	var (
		system = p.b.System()
		before = len(system.Conflicts())
	)
	//
	system.AddSubtype(lower, upper, pos)
	//
	if conflicts := system.Conflicts(); len(conflicts) > before {
		return &conflicts[before]
	}
	//
	return nil
}

// Add a subtype constraint only if it does not cause a conflict.
func (p *checker) tryConstrain(lower types.Type, upper types.Type, pos inference.Position) bool {
	fork := p.system().Fork()
	before := len(fork.Conflicts())
	fork.AddSubtype(lower, upper, pos)
	//
	if len(fork.Conflicts()) > before {
		return false
	}
	//
	p.system().AddSubtype(lower, upper, pos)
	//
	return true
}

// ============================================================================
// Stages
// ============================================================================

func checkVisibility(p *checker) error {
	tc := p.b.TowerCandidate()
	//
	if tc.Invisible {
		p.b.Report(model.INVISIBLE, model.NO_ARGUMENT, fmt.Sprintf("private in %s", tc.Callable.Owner))
	}
	//
	if tc.Callable.Has(model.HIDDEN) {
		p.b.Report(model.HIDDEN_BY_DEPRECATION, model.NO_ARGUMENT, "")
	}
	//
	return nil
}

func createVariables(p *checker) error {
	for _, param := range p.b.Callable().TypeParams {
		p.b.AddVariable(param, p.system().NewVariable(param))
	}
	//
	return nil
}

func checkReceivers(p *checker) error {
	var (
		tc       = p.b.TowerCandidate()
		callable = tc.Callable
	)
	// Dispatch receiver
	if callable.DispatchReceiver != nil && tc.DispatchReceiver == nil {
		p.b.Report(model.WRONG_RECEIVER, model.NO_ARGUMENT,
			fmt.Sprintf("no instance of %s", callable.DispatchReceiver.Name))
		//
		return nil
	} else if tc.DispatchReceiver != nil && types.IsNullable(tc.DispatchReceiver.Type) {
		p.b.Report(model.UNSAFE_CALL, model.NO_ARGUMENT, tc.DispatchReceiver.Type.String())
	} else if tc.UnstableSmartCast {
		p.b.Report(model.SMARTCAST_IMPOSSIBLE, model.NO_ARGUMENT, tc.DispatchReceiver.Type.String())
	}
	// Extension receiver
	switch {
	case callable.IsExtension() && tc.ExtensionReceiver == nil:
		p.b.Report(model.WRONG_RECEIVER, model.NO_ARGUMENT,
			fmt.Sprintf("no receiver of type %s", callable.ExtensionReceiver))
	case callable.IsExtension():
		p.checkExtensionReceiver(tc.ExtensionReceiver, p.b.Freshening().Apply(callable.ExtensionReceiver))
	case tc.ExtensionReceiver != nil && !tc.InvokeExtension:
		p.b.Report(model.WRONG_RECEIVER, model.NO_ARGUMENT,
			fmt.Sprintf("%s is not an extension", callable.Name))
	}
	//
	return nil
}

// The receiver matches if any of its (smart cast) types does.  A nullable
// receiver whose non-null type matches makes the call unsafe, as does one
// matching only through an unstable smart cast.
func (p *checker) checkExtensionReceiver(receiver *model.Receiver, expected types.Type) {
	pos := inference.At(inference.RECEIVER)
	//
	for _, t := range receiver.Types() {
		if p.tryConstrain(t, expected, pos) {
			return
		}
	}
	//
	if types.IsNullable(receiver.Type) && p.tryConstrain(types.NotNull(receiver.Type), expected, pos) {
		p.b.Report(model.UNSAFE_CALL, model.NO_ARGUMENT, receiver.Type.String())
		return
	}
	//
	if !receiver.Stable {
		for _, t := range receiver.SmartCasts {
			if p.tryConstrain(t, expected, pos) {
				p.b.Report(model.SMARTCAST_IMPOSSIBLE, model.NO_ARGUMENT, t.String())
				return
			}
		}
	}
	//
	p.b.Report(model.WRONG_RECEIVER, model.NO_ARGUMENT,
		fmt.Sprintf("%s is not a subtype of %s", receiver.Type, expected))
}

func checkTypeArguments(p *checker) error {
	var (
		args   = p.b.Call().TypeArguments
		params = p.b.Callable().TypeParams
	)
	//
	if len(args) == 0 {
		return nil
	} else if len(args) != len(params) {
		p.b.Report(model.WRONG_TYPE_ARGUMENT_COUNT, model.NO_ARGUMENT,
			fmt.Sprintf("expected %d, found %d", len(params), len(args)))
		//
		return nil
	}
	//
	for i, param := range params {
		p.system().AddEquality(p.b.Freshening()[param], args[i], inference.At(inference.EXPLICIT_TYPE_ARGUMENT))
	}
	//
	return nil
}

func checkDeclaredBounds(p *checker) error {
	freshening := p.b.Freshening()
	//
	for _, param := range p.b.Callable().TypeParams {
		if param.Bound == nil {
			continue
		} else if c := p.constrain(freshening[param], freshening.Apply(param.Bound), inference.DeclaredBound()); c != nil {
			p.b.Report(model.UPPER_BOUND_VIOLATED, model.NO_ARGUMENT, c.String())
		}
	}
	//
	return nil
}

func checkDeprecation(p *checker) error {
	if p.b.Callable().Has(model.DEPRECATED) {
		p.b.Report(model.DEPRECATED_CALL, model.NO_ARGUMENT, p.b.Callable().Name)
	}
	//
	return nil
}

// ============================================================================
// Arguments
// ============================================================================

func checkArguments(p *checker) error {
	var (
		callable   = p.b.Callable()
		freshening = p.b.Freshening()
	)
	//
	for i, arg := range p.b.Call().Arguments {
		index := p.b.Mapping()[i]
		//
		if index < 0 {
			continue
		}
		//
		param := freshening.Apply(callable.Params[index].Type)
		//
		if err := p.checkArgument(uint(i), arg, param); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *checker) checkArgument(index uint, arg model.Argument, param types.Type) error {
	pos := inference.ArgumentPosition(index)
	//
	switch arg := arg.(type) {
	case *model.ExpressionArgument:
		p.checkSubtype(index, arg.Type, param, pos)
	case *model.NullLiteral:
		p.checkSubtype(index, types.Nullable(p.universe().Nothing()), param, pos)
	case *model.IntegerLiteral:
		p.checkIntegerLiteral(index, arg, param, pos)
	case *model.LambdaArgument:
		p.checkLambda(index, arg, param, pos)
	case *model.CallableReferenceArgument:
		return p.checkCallableReference(index, arg, param)
	default:
		panic(fmt.Sprintf("unknown argument %s", arg))
	}
	//
	return nil
}

func (p *checker) checkSubtype(index uint, arg types.Type, param types.Type, pos inference.Position) {
	if c := p.constrain(arg, param, pos); c != nil {
		p.b.Report(model.TYPE_MISMATCH, int(index), fmt.Sprintf("%s is not a subtype of %s", c.Lower, c.Upper))
	}
}

// An integer literal takes the integer type expected of it when the value is in
// range, and otherwise has its default type.
func (p *checker) checkIntegerLiteral(index uint, lit *model.IntegerLiteral, param types.Type,
	pos inference.Position) {
	var (
		u        = p.universe()
		expected = types.NotNull(p.system().Apply(param))
		def      = lit.DefaultType(u)
	)
	//
	if types.IsProper(expected) && lit.CoercibleTo(u, expected) {
		if !types.Equal(expected, def) {
			p.b.SetCoerced(index)
		}
		//
		return
	}
	//
	p.checkSubtype(index, def, param, pos)
}

// A lambda is checked against the function type it is expected to have, which
// comes from a function type parameter, the SAM signature of a fun interface,
// or is synthesized for a type variable.  Analysis of its body is postponed
// until completion.
func (p *checker) checkLambda(index uint, lambda *model.LambdaArgument, param types.Type, pos inference.Position) {
	var (
		u        = p.universe()
		expected *types.FunctionType
	)
	//
	switch t := types.NotNull(p.system().Apply(param)).(type) {
	case *types.FunctionType:
		expected = t
	case *types.Variable:
		expected = p.synthesizeFunctionType(lambda)
		p.system().AddSubtype(expected, t, pos)
	default:
		if sam := u.SamSignature(t); sam != nil {
			expected = sam
			p.b.SetCoerced(index)
		} else if !u.IsAny(t) {
			p.b.Report(model.TYPE_MISMATCH, int(index), fmt.Sprintf("lambda is not a subtype of %s", param))
			return
		} else {
			expected = p.synthesizeFunctionType(lambda)
		}
	}
	// Implicit parameter "it"
	arity := uint(len(expected.Params))
	if lambda.Arity() != arity && (lambda.Arity() != 0 || arity != 1) {
		p.b.Report(model.WRONG_LAMBDA_ARITY, int(index), fmt.Sprintf("expected %d parameter(s)", arity))
		return
	}
	// Declared parameter types
	for i, t := range lambda.Params {
		if t != nil {
			p.checkSubtype(index, expected.Params[i], t, pos)
		}
	}
	//
	p.b.Postpone(&model.PostponedLambda{Argument: index, Lambda: lambda, Expected: expected})
}

// Construct a function type for a lambda whose expected type is unknown, using
// fresh variables for its return type and undeclared parameter types.
func (p *checker) synthesizeFunctionType(lambda *model.LambdaArgument) *types.FunctionType {
	params := make([]types.Type, len(lambda.Params))
	//
	for i, t := range lambda.Params {
		if t != nil {
			params[i] = t
		} else {
			params[i] = p.system().NewVariable(nil)
		}
	}
	//
	return types.NewFunctionType(params, p.system().NewVariable(nil))
}
