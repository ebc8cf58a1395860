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
package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shimada-toy-box/kotlin/pkg/calls/candidate"
	"github.com/shimada-toy-box/kotlin/pkg/calls/completion"
	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/overload"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// CallResolver resolves calls against a fixed scope tower.  A resolver holds no
// state between resolutions, and the same call always resolves the same way.
type CallResolver struct {
	env       *candidate.Environment
	completer *completion.Completer
	metrics   *Metrics
}

// NewCallResolver constructs a resolver for calls made within a given tower.
// Metrics are optional.
func NewCallResolver(tw *tower.ImplicitScopeTower, settings model.Settings, callbacks completion.Callbacks,
	metrics *Metrics) *CallResolver {
	resolver := tower.NewResolver()
	resolver.Observe(metrics.observeLevel)
	//
	return &CallResolver{
		candidate.NewEnvironment(tw, resolver, settings),
		completion.NewCompleter(tw.Universe(), callbacks),
		metrics,
	}
}

// Settings returns the language settings used by this resolver.
func (p *CallResolver) Settings() model.Settings {
	return p.env.Settings
}

// ResolveCall resolves a call completely.  Candidates are discovered by
// walking the tower, narrowed to the most specific, and the winner (if there
// is exactly one) is completed against the expected type.  When
// collectAllCandidates holds, every candidate at every level is returned
// instead, with no completion.
func (p *CallResolver) ResolveCall(ctx context.Context, call *model.Call, expected types.Type,
	collectAllCandidates bool) (model.Result, error) {
	start := time.Now()
	result, err := p.resolveCall(ctx, call, expected, collectAllCandidates)
	p.record(call, result, err, start)
	//
	return result, err
}

func (p *CallResolver) resolveCall(ctx context.Context, call *model.Call, expected types.Type,
	collectAllCandidates bool) (model.Result, error) {
	if err := call.CheckInvariants(); err != nil {
		return model.Result{}, err
	}
	//
	processor := candidate.NewProcessor(p.env, call, expected, nil)
	//
	if collectAllCandidates {
		candidates, err := p.env.Resolver.CollectAllCandidates(ctx, p.env.Tower, processor, nameOf(call))
		if err != nil {
			return model.Result{}, err
		}
		//
		p.metrics.observeCandidates(candidates)
		//
		return p.completer.CreateAllCandidatesResult(candidates), nil
	}
	//
	candidates, err := p.env.Resolver.RunResolve(ctx, p.env.Tower, processor, true, nameOf(call))
	if err != nil {
		return model.Result{}, err
	}
	//
	p.metrics.observeCandidates(candidates)
	//
	return p.choseMostSpecific(ctx, processor.Factory(), candidates, expected)
}

// ResolveCallWithoutCompletion discovers the candidates of a call and narrows
// them to the most specific, without completing any of them.
func (p *CallResolver) ResolveCallWithoutCompletion(ctx context.Context, call *model.Call,
	expected types.Type) ([]*model.Candidate, error) {
	if err := call.CheckInvariants(); err != nil {
		return nil, err
	}
	//
	processor := candidate.NewProcessor(p.env, call, expected, nil)
	//
	candidates, err := p.env.Resolver.RunResolve(ctx, p.env.Tower, processor, true, nameOf(call))
	if err != nil {
		return nil, err
	}
	//
	p.metrics.observeCandidates(candidates)
	//
	return p.mostSpecific(ctx, candidates, modeOf(call))
}

// ResolveGivenCandidates resolves a call against a given set of callables,
// without consulting the tower.  The given candidates are checked, narrowed
// and completed just as for ResolveCall.
func (p *CallResolver) ResolveGivenCandidates(ctx context.Context, call *model.Call, expected types.Type,
	given []model.TowerCandidate, collectAllCandidates bool) (model.Result, error) {
	start := time.Now()
	result, err := p.resolveGivenCandidates(ctx, call, expected, given, collectAllCandidates)
	p.record(call, result, err, start)
	//
	return result, err
}

func (p *CallResolver) resolveGivenCandidates(ctx context.Context, call *model.Call, expected types.Type,
	given []model.TowerCandidate, collectAllCandidates bool) (model.Result, error) {
	if err := call.CheckInvariants(); err != nil {
		return model.Result{}, err
	}
	//
	var (
		factory   = candidate.NewSimpleFactory(p.env, call)
		processor = candidate.NewKnownResultProcessor(factory, given)
		collector tower.Collector
	)
	//
	if collectAllCandidates {
		collector = tower.NewAllCandidatesCollector()
	} else {
		collector = tower.NewSuccessfulResultCollector()
	}
	//
	candidates, err := p.env.Resolver.RunWithEmptyTowerData(ctx, processor, collector, true)
	if err != nil {
		return model.Result{}, err
	}
	//
	p.metrics.observeCandidates(candidates)
	//
	if collectAllCandidates {
		return p.completer.CreateAllCandidatesResult(candidates), nil
	}
	//
	return p.choseMostSpecific(ctx, factory, candidates, expected)
}

// ResolveCallableReference discovers the candidates of a callable reference,
// narrowed to the most specific, without completing them.  The candidates'
// systems are forked from the base system (if given), as is needed when the
// reference is an argument of some enclosing call.
func (p *CallResolver) ResolveCallableReference(ctx context.Context, call *model.Call, expected types.Type,
	base *inference.System) ([]*model.Candidate, error) {
	if call.Kind != model.CALLABLE_REFERENCE {
		panic(fmt.Sprintf("%s call %s is not a callable reference", call.Kind, call.Name))
	} else if err := call.CheckInvariants(); err != nil {
		return nil, err
	}
	//
	processor := candidate.NewProcessor(p.env, call, expected, base)
	//
	candidates, err := p.env.Resolver.RunResolve(ctx, p.env.Tower, processor, true, call.Name)
	if err != nil {
		return nil, err
	}
	//
	p.metrics.observeCandidates(candidates)
	//
	return p.mostSpecific(ctx, candidates, overload.CHECK_CALLABLE_TYPE)
}

// Choose the most specific candidates and complete the result.  Ties remaining
// after overload resolution are broken, where the language permits, by the
// return types of lambda arguments.
func (p *CallResolver) choseMostSpecific(ctx context.Context, factory candidate.Factory,
	candidates []*model.Candidate, expected types.Type) (model.Result, error) {
	maximal, err := p.mostSpecific(ctx, candidates, modeOf(factory.Call()))
	if err != nil {
		return model.Result{}, err
	}
	//
	return p.completer.RunCompletion(ctx, factory, maximal, expected)
}

func (p *CallResolver) mostSpecific(ctx context.Context, candidates []*model.Candidate,
	mode overload.Mode) ([]*model.Candidate, error) {
	var (
		u        = p.env.Universe()
		settings = p.env.Settings
	)
	// Inapplicable candidates are reported as they are.
	if len(candidates) <= 1 || !allSuccessful(candidates) {
		return candidates, nil
	} else if mode == overload.CHECK_CALLABLE_TYPE {
		// Type arguments of a callable reference are never explicit, so generic
		// candidates are not penalised, and neither fallback applies.
		return overload.ChooseMaximallySpecificCandidates(candidates, u, mode, false), nil
	}
	//
	refined := candidates
	//
	if !settings.Supports(model.REFINED_SAM_ADAPTERS_PRIORITY) {
		refined = overload.FilterSynthesized(candidates)
	}
	//
	maximal := overload.ChooseMaximallySpecificCandidates(refined, u, mode, true)
	//
	if len(maximal) <= 1 || !settings.Supports(model.OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE) ||
		!p.shouldRunCompletion(candidates) {
		return maximal, nil
	}
	//
	annotated := make(map[*model.Candidate]bool)
	//
	for _, c := range candidates {
		if c.Callable().Has(model.LAMBDA_RETURN_OVERLOAD) {
			annotated[c] = true
		}
	}
	//
	if len(annotated) == 0 {
		return maximal, nil
	}
	//
	narrowed, err := p.completer.ChooseCandidateRegardingOverloadResolutionByLambdaReturnType(ctx, maximal)
	if err != nil {
		return nil, err
	}
	//
	maximal = overload.ChooseMaximallySpecificCandidates(narrowed, u, mode, true)
	// Prefer candidates without the annotation
	if len(maximal) > 1 && containsUnannotated(maximal, annotated) {
		var remaining []*model.Candidate
		//
		for _, c := range maximal {
			if !annotated[c] {
				remaining = append(remaining, c)
			}
		}
		//
		maximal = remaining
		//
		if len(maximal) == 1 {
			log.Debugf("chose %s by lambda return type", maximal[0])
			maximal[0].AddDiagnostic(model.CHOSEN_BY_LAMBDA_RETURN_TYPE, model.NO_ARGUMENT, "")
		}
	}
	//
	return maximal, nil
}

func (p *CallResolver) shouldRunCompletion(candidates []*model.Candidate) bool {
	for _, c := range candidates {
		if !p.completer.Callbacks().ShouldRunCompletion(c) {
			return false
		}
	}
	//
	return true
}

func (p *CallResolver) record(call *model.Call, result model.Result, err error, start time.Time) {
	var outcome string
	//
	switch {
	case errors.Is(err, model.ErrCancelled):
		outcome = "cancelled"
	case err != nil:
		outcome = "error"
	default:
		outcome = result.Kind.String()
	}
	//
	log.Debugf("resolved %s call %s: %s", call.Kind, call, outcome)
	p.metrics.observeResolution(call.Kind, outcome, time.Since(start).Seconds())
}

// The name looked up for a call, where explicit invoke calls always look for
// the invoke operator.
func nameOf(call *model.Call) string {
	if call.Kind == model.INVOKE {
		return tower.INVOKE
	}
	//
	return call.Name
}

func modeOf(call *model.Call) overload.Mode {
	if call.Kind == model.CALLABLE_REFERENCE {
		return overload.CHECK_CALLABLE_TYPE
	}
	//
	return overload.CHECK_VALUE_ARGUMENTS
}

func containsUnannotated(candidates []*model.Candidate, annotated map[*model.Candidate]bool) bool {
	for _, c := range candidates {
		if !annotated[c] {
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
