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
package test

import (
	"testing"
)

// ===================================================================
// Valid Fixtures
// ===================================================================

func Test_Valid_Shadowing(t *testing.T) {
	checkValid(t, "shadowing")
}

func Test_Valid_Ambiguity(t *testing.T) {
	checkValid(t, "ambiguity")
}

func Test_Valid_References(t *testing.T) {
	checkValid(t, "references")
}

func Test_Valid_Overloads(t *testing.T) {
	checkValid(t, "overloads")
}

func Test_Valid_Lambdas(t *testing.T) {
	checkValid(t, "lambdas")
}

func Test_Valid_LambdasDisabled(t *testing.T) {
	checkValid(t, "lambdas_disabled")
}

func Test_Valid_Receivers(t *testing.T) {
	checkValid(t, "receivers")
}

// ===================================================================
// Invalid Fixtures
// ===================================================================

func Test_Invalid_UnknownType(t *testing.T) {
	checkInvalid(t, "unknown_type")
}

func Test_Invalid_DuplicateClass(t *testing.T) {
	checkInvalid(t, "duplicate_class")
}

func Test_Invalid_DuplicateScope(t *testing.T) {
	checkInvalid(t, "duplicate_scope")
}

func Test_Invalid_ScopeKind(t *testing.T) {
	checkInvalid(t, "scope_kind")
}

func Test_Invalid_TypeArguments(t *testing.T) {
	checkInvalid(t, "type_arguments")
}

func Test_Invalid_Attributes(t *testing.T) {
	checkInvalid(t, "attributes")
}

func Test_Invalid_Queries(t *testing.T) {
	checkInvalid(t, "queries")
}

func Test_Invalid_Settings(t *testing.T) {
	checkInvalid(t, "settings")
}

func Test_Invalid_Unbalanced(t *testing.T) {
	checkInvalid(t, "unbalanced")
}
