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
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// Callbacks connects completion to the analysis of the surrounding code.
type Callbacks interface {
	// AnalyzeLambda determines the type of a lambda's body, given the (proper)
	// types of its parameters.
	AnalyzeLambda(lambda *model.LambdaArgument, params []types.Type) types.Type
	// ShouldRunCompletion determines whether a candidate can be completed
	// independently, or whether its completion is driven by an enclosing call.
	ShouldRunCompletion(candidate *model.Candidate) bool
}

// DefaultCallbacks analyses a lambda by substituting its parameter types into
// the type of its body, and always permits completion.
type DefaultCallbacks struct{}

// AnalyzeLambda implementation for Callbacks interface.
func (p DefaultCallbacks) AnalyzeLambda(lambda *model.LambdaArgument, params []types.Type) types.Type {
	return types.LambdaSubstitution(params).Apply(lambda.Body)
}

// ShouldRunCompletion implementation for Callbacks interface.
func (p DefaultCallbacks) ShouldRunCompletion(_ *model.Candidate) bool {
	return true
}
