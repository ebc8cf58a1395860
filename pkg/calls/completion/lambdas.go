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

	"github.com/shimada-toy-box/kotlin/pkg/calls/inference"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// ChooseCandidateRegardingOverloadResolutionByLambdaReturnType narrows a set
// of equally specific candidates by analysing their lambda arguments.  Each
// candidate is checked speculatively (on a fork of its system) with the types
// of its lambdas' bodies, and those which cannot accept what the lambdas
// return are discarded.  If every candidate would be discarded, they are all
// retained instead.  The candidates themselves are not modified.
func (p *Completer) ChooseCandidateRegardingOverloadResolutionByLambdaReturnType(ctx context.Context,
	candidates []*model.Candidate) ([]*model.Candidate, error) {
	var fitting []*model.Candidate
	//
	for _, c := range candidates {
		if err := model.CheckCancelled(ctx); err != nil {
			return nil, err
		}
		//
		if p.acceptsLambdaResults(c) {
			fitting = append(fitting, c)
		} else {
			log.Debugf("discarding %s by lambda return type", c)
		}
	}
	//
	if len(fitting) == 0 {
		return candidates, nil
	}
	//
	return fitting, nil
}

func (p *Completer) acceptsLambdaResults(c *model.Candidate) bool {
	if len(c.Postponed()) == 0 || c.IsFinalised() {
		return true
	}
	//
	system := c.System().Fork()
	//
	for _, lambda := range c.Postponed() {
		_, body, ret := p.analyze(system, lambda)
		//
		if !types.Equal(ret, p.universe.Unit()) {
			system.AddSubtype(body, ret, inference.Position{Kind: inference.LAMBDA_RETURN, Index: lambda.Argument})
		}
	}
	//
	return !system.IsContradictory()
}
