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
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCancelled is returned when resolution was interrupted through its
// context.  It always wraps the context's own error.
var ErrCancelled = errors.New("resolution cancelled")

// CheckCancelled returns an error wrapping ErrCancelled if the given context
// has been cancelled (or its deadline passed), and nil otherwise.
func CheckCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	//
	return nil
}

// LanguageFeature identifies an optional language feature which affects how
// overloads are resolved.
type LanguageFeature uint8

const (
	// REFINED_SAM_ADAPTERS_PRIORITY removes the preference for natural
	// candidates over synthesized SAM adapters.
	REFINED_SAM_ADAPTERS_PRIORITY LanguageFeature = iota
	// OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE enables choosing between
	// overloads by analysing lambda arguments.
	OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE
)

var featureNames = map[LanguageFeature]string{
	REFINED_SAM_ADAPTERS_PRIORITY:             "RefinedSamAdaptersPriority",
	OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE: "OverloadResolutionByLambdaReturnType",
}

func (f LanguageFeature) String() string {
	return featureNames[f]
}

// ParseLanguageFeature determines the feature with a given name.
func ParseLanguageFeature(name string) (LanguageFeature, error) {
	for f, n := range featureNames {
		if n == name {
			return f, nil
		}
	}
	//
	return 0, fmt.Errorf("unknown language feature %q", name)
}

// LanguageFeatures returns all known features in a fixed order.
func LanguageFeatures() []LanguageFeature {
	return []LanguageFeature{REFINED_SAM_ADAPTERS_PRIORITY, OVERLOAD_RESOLUTION_BY_LAMBDA_RETURN_TYPE}
}

// Settings determines which language features are supported.  Settings are
// immutable and can be shared between resolutions.
type Settings struct {
	features map[LanguageFeature]bool
}

// DefaultSettings returns settings in which every feature is supported.
func DefaultSettings() Settings {
	features := make(map[LanguageFeature]bool)
	//
	for _, f := range LanguageFeatures() {
		features[f] = true
	}
	//
	return Settings{features}
}

// Supports checks whether a given feature is enabled.
func (s Settings) Supports(feature LanguageFeature) bool {
	return s.features[feature]
}

// With returns a copy of these settings with a feature enabled or disabled.
func (s Settings) With(feature LanguageFeature, enabled bool) Settings {
	features := make(map[LanguageFeature]bool, len(s.features)+1)
	//
	for f, e := range s.features {
		features[f] = e
	}
	//
	features[feature] = enabled
	//
	return Settings{features}
}

func (s Settings) String() string {
	var names []string
	//
	for _, f := range LanguageFeatures() {
		if s.Supports(f) {
			names = append(names, "+"+f.String())
		} else {
			names = append(names, "-"+f.String())
		}
	}
	//
	sort.Strings(names)
	//
	return strings.Join(names, " ")
}
