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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
)

// Metrics records statistics about the calls resolved by a resolver.  A nil
// *Metrics records nothing.
type Metrics struct {
	// Resolutions by call kind and outcome.
	resolutions *prometheus.CounterVec
	// Candidates created, by tier.
	candidates *prometheus.CounterVec
	// Tower levels explored, by level kind.
	levels *prometheus.CounterVec
	// Time taken per resolution.
	duration prometheus.Histogram
}

// NewMetrics constructs the metrics of a resolver, registering them with the
// given registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	//
	return &Metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calls",
			Name:      "resolutions_total",
			Help:      "Total calls resolved by call kind and outcome",
		}, []string{"kind", "outcome"}),
		candidates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calls",
			Name:      "candidates_total",
			Help:      "Total candidates created by tier",
		}, []string{"tier"}),
		levels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calls",
			Name:      "tower_levels_explored_total",
			Help:      "Total tower levels explored by level kind",
		}, []string{"kind"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "calls",
			Name:      "resolution_seconds",
			Help:      "Time taken to resolve a call",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

func (p *Metrics) observeLevel(level *tower.Level) {
	if p != nil {
		p.levels.WithLabelValues(level.Kind.String()).Inc()
	}
}

func (p *Metrics) observeCandidates(candidates []*model.Candidate) {
	if p == nil {
		return
	}
	//
	for _, c := range candidates {
		p.candidates.WithLabelValues(c.Tier().String()).Inc()
	}
}

func (p *Metrics) observeResolution(kind model.CallKind, outcome string, seconds float64) {
	if p != nil {
		p.resolutions.WithLabelValues(kind.String(), outcome).Inc()
		p.duration.Observe(seconds)
	}
}
