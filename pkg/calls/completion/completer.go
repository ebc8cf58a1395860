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
package completion

import (
	"context"
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/candidate"
	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// Completer finishes the resolution of a call, by fixing the type variables of
// the chosen candidate and analysing its lambda arguments.
type Completer struct {
	universe  *types.Universe
	callbacks Callbacks
}

// NewCompleter constructs a completer over a given universe.
func NewCompleter(universe *types.Universe, callbacks Callbacks) *Completer {
	return &Completer{universe, callbacks}
}

// Callbacks returns the callbacks used by this completer.
func (p *Completer) Callbacks() Callbacks {
	return p.callbacks
}

// RunCompletion produces the result of a call from the candidates which
// survived overload resolution.  A single successful candidate is completed
// against the expected type (if any).  Several candidates are reported as an
// ambiguity (when all are successful) or otherwise left unresolved, and no
// candidates at all are reported using an error candidate from the factory.
func (p *Completer) RunCompletion(ctx context.Context, factory candidate.Factory, candidates []*model.Candidate,
	expected types.Type) (model.Result, error) {
	if err := model.CheckCancelled(ctx); err != nil {
		return model.Result{}, err
	}
	//
	switch {
	case len(candidates) == 0:
		return model.NewUnresolvedResult([]*model.Candidate{factory.CreateErrorCandidate()}), nil
	case len(candidates) == 1 && !candidates[0].IsSuccessful():
		return model.NewUnresolvedResult(candidates), nil
	case len(candidates) == 1:
		if err := p.Complete(ctx, candidates[0], expected); err != nil {
			return model.Result{}, err
		}
		//
		return model.NewResolvedResult(candidates[0]), nil
	case allSuccessful(candidates):
		return model.NewAmbiguousResult(candidates), nil
	default:
		return model.NewUnresolvedResult(candidates), nil
	}
}

// CreateAllCandidatesResult reports every candidate with its own diagnostics.
// No types are fixed.
func (p *Completer) CreateAllCandidatesResult(candidates []*model.Candidate) model.Result {
	return model.NewAllCandidatesResult(candidates)
}

// Complete a single candidate.  The candidate's type variables are fixed after
// incorporating the expected type and the bodies of any lambda arguments, and
// the resulting types are recorded in the candidate.  Completing a candidate
// which is already finalised has no effect.
func (p *Completer) Complete(ctx context.Context, c *model.Candidate, expected types.Type) error {
	if c.IsFinalised() || c.IsError() {
		return nil
	}
	//
	system := c.System()
	// Expected type
	if expected != nil && c.Call().Kind != model.CALLABLE_REFERENCE {
		if rtype := c.ReturnType(); rtype != nil {
			before := len(system.Conflicts())
			//
			system.AddSubtype(rtype, expected, inference.At(inference.EXPECTED_TYPE))
			//
			if len(system.Conflicts()) > before {
				report(c, model.EXPECTED_TYPE_MISMATCH, model.NO_ARGUMENT,
					fmt.Sprintf("%s is not a subtype of %s", rtype, expected))
			}
		}
	}
	// Lambdas
	for _, lambda := range c.Postponed() {
		if err := model.CheckCancelled(ctx); err != nil {
			return err
		}
		//
		p.analyzeLambda(c, system, lambda)
	}
	// Everything else
	system.Solve()
	//
	for _, v := range system.Underconstrained() {
		if isOwnVariable(c, v) {
			report(c, model.NOT_ENOUGH_INFORMATION, model.NO_ARGUMENT, v.String())
		}
	}
	//
	if c.IsSuccessful() && system.IsContradictory() {
		report(c, model.CONSTRAINT_CONFLICT, model.NO_ARGUMENT, system.Conflicts()[0].String())
	}
	//
	finalise(c, system)
	// Variable supplying the value for an invoke
	if c.Invoke() != nil {
		if err := p.Complete(ctx, c.Invoke(), nil); err != nil {
			return err
		}
	}
	// Callable reference arguments were merged into this system
	for i := range c.Call().Arguments {
		if ref := c.Reference(uint(i)); ref != nil && !ref.IsFinalised() {
			finalise(ref, system)
		}
	}
	//
	log.Debugf("completed %s", c.Describe())
	//
	return nil
}

// Analyse a postponed lambda, such that the type of its body constrains its
// return type.
func (p *Completer) analyzeLambda(c *model.Candidate, system *inference.System, lambda *model.PostponedLambda) {
	params, body, ret := p.analyze(system, lambda)
	//
	if !types.Equal(ret, p.universe.Unit()) {
		before := len(system.Conflicts())
		//
		system.AddSubtype(body, ret, inference.Position{Kind: inference.LAMBDA_RETURN, Index: lambda.Argument})
		//
		if len(system.Conflicts()) > before {
			report(c, model.TYPE_MISMATCH, int(lambda.Argument),
				fmt.Sprintf("lambda returns %s, expected %s", body, ret))
		}
	}
	//
	lambda.Analysed = types.NewFunctionType(params, body)
}

// Fix the variables in the input types of a lambda, and then determine the
// types of its parameters and body, along with its expected return type.
func (p *Completer) analyze(system *inference.System, lambda *model.PostponedLambda) ([]types.Type, types.Type,
	types.Type) {
	var (
		expected = lambda.Expected
		params   = make([]types.Type, len(expected.Params))
		free     []*types.Variable
	)
	//
	for _, t := range expected.Flatten() {
		free = append(free, system.FreeVariables(t)...)
	}
	//
	system.Solve(free...)
	//
	for i, t := range expected.Params {
		params[i] = system.Apply(t)
	}
	//
	body := p.callbacks.AnalyzeLambda(lambda.Lambda, params)
	//
	return params, body, system.Apply(expected.Return)
}

// Record the final types of every variable known to a system.
func finalise(c *model.Candidate, system *inference.System) {
	subst := make(types.Substitution)
	//
	for _, v := range system.Variables() {
		subst[v] = system.Apply(v)
	}
	//
	c.Finalise(subst)
}

// Diagnostics found during completion are recorded only whilst the candidate
// remains successful, since a failed candidate keeps its first failure.
func report(c *model.Candidate, kind model.DiagnosticKind, arg int, msg string) {
	if c.IsSuccessful() {
		c.AddDiagnostic(kind, arg, msg)
	} else {
		log.Debugf("dropping %s(%s) for failed candidate %s", kind, msg, c)
	}
}

func isOwnVariable(c *model.Candidate, v *types.Variable) bool {
	for _, w := range c.Variables() {
		if v == w {
			return true
		}
	}
	//
	return false
}

func allSuccessful(candidates []*model.Candidate) bool {
	for _, c := range candidates {
		if !c.IsSuccessful() {
			return false
		}
	}
	//
	return true
}
