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
package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shimada-toy-box/kotlin/pkg/calls"
	"github.com/shimada-toy-box/kotlin/pkg/calls/completion"
	"github.com/shimada-toy-box/kotlin/pkg/calls/fixture"
	"github.com/shimada-toy-box/kotlin/pkg/config"
	"github.com/shimada-toy-box/kotlin/pkg/util"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// fixtureRun holds the outcome of resolving every query of a single fixture.
type fixtureRun struct {
	filename string
	// Parsed fixture (nil if syntax errors arose).
	fixture *fixture.Fixture
	// Syntax errors arising from parsing.
	errors []source.SyntaxError
	// One line of output per query.
	lines []string
}

// Read, parse and resolve a set of fixture files concurrently.  The runs are
// returned in the order of the files given.  An error is returned only when a
// file cannot be read, or resolution is cancelled, in which case every other
// fixture is cancelled as well.
func runFixtures(ctx context.Context, filenames []string, cfg *config.Config,
	metrics *calls.Metrics) ([]fixtureRun, error) {
	var (
		runs        = make([]fixtureRun, len(filenames))
		logger      = log.WithField("run", uuid.New().String())
		stats       = util.NewPerfStats()
		group, gctx = errgroup.WithContext(ctx)
	)
	//
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	//
	if cfg.Jobs > 0 {
		group.SetLimit(cfg.Jobs)
	}
	//
	for i, filename := range filenames {
		group.Go(func() error {
			srcfile, err := source.ReadFile(filename)
			if err != nil {
				return err
			}
			//
			runs[i].filename = filename
			runs[i].fixture, runs[i].errors = fixture.Parse(srcfile)
			//
			if f := runs[i].fixture; f != nil {
				if cfg.CollectAll {
					collectAll(f)
				}
				//
				resolver := calls.NewCallResolver(f.Tower(), f.Settings(settings), completion.DefaultCallbacks{},
					metrics)
				runs[i].lines, err = f.Run(gctx, resolver)
				//
				logger.WithField("file", filename).Debugf("resolved %d queries", len(f.Queries))
			}
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	stats.Log(fmt.Sprintf("Resolving %d fixture(s)", len(filenames)))
	//
	return runs, nil
}

// Switch every query which would choose a candidate to collecting all
// candidates instead.
func collectAll(f *fixture.Fixture) {
	for _, query := range f.Queries {
		if query.Mode != fixture.WITHOUT_COMPLETION {
			query.CollectAll = true
		}
	}
}

// Report the syntax errors of any runs which failed to parse, returning true
// if there were any.
func reportSyntaxErrors(runs []fixtureRun) bool {
	failed := false
	//
	for _, run := range runs {
		for i := range run.errors {
			printSyntaxError(&run.errors[i])
			//
			failed = true
		}
	}
	//
	return failed
}
