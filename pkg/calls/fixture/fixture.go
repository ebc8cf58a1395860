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
package fixture

import (
	"slices"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/source"
	"github.com/shimada-toy-box/kotlin/pkg/util/source/sexp"
)

// Fixture is a self-contained description of the classes and scopes visible at
// some call site, together with a sequence of queries to resolve there and
// (optionally) the results they are expected to produce.
type Fixture struct {
	File     *source.File
	Universe *types.Universe
	Symbols  *model.SymbolTable
	// Scopes in declaration order (i.e. outermost first).
	Scopes []*tower.LexicalScope
	// Feature overrides given in the fixture itself.
	Features map[model.LanguageFeature]bool
	Queries  []*Query
	// Expected output lines taken from ";;expect:" comments, in order.
	Expectations []string
}

// Tower constructs the scope tower described by this fixture.
func (p *Fixture) Tower() *tower.ImplicitScopeTower {
	scopes := make([]tower.Scope, len(p.Scopes))
	// Tower holds innermost first
	for i, s := range p.Scopes {
		scopes[len(p.Scopes)-i-1] = s
	}
	//
	return tower.NewImplicitScopeTower(p.Universe, p.Symbols, scopes...)
}

// Settings applies the feature overrides of this fixture to some base settings.
func (p *Fixture) Settings(base model.Settings) model.Settings {
	for _, f := range model.LanguageFeatures() {
		if enabled, ok := p.Features[f]; ok {
			base = base.With(f, enabled)
		}
	}
	//
	return base
}

// Scope returns the scope with a given label, or nil if there is none.
func (p *Fixture) Scope(label string) *tower.LexicalScope {
	for _, s := range p.Scopes {
		if s.Label() == label {
			return s
		}
	}
	//
	return nil
}

// Given returns the callables of a query's name declared in the scopes that
// query names, in the order the scopes are given.
func (p *Fixture) Given(query *Query) []model.TowerCandidate {
	var given []model.TowerCandidate
	//
	for _, label := range query.Given {
		scope := p.Scope(label)
		//
		for _, c := range scope.Callables(query.Call.Name) {
			given = append(given, model.TowerCandidate{Callable: c, Scope: label})
		}
	}
	//
	return given
}

// Parse a fixture from a given source file.  Classes may be referred to before
// they are declared, but scopes and queries are processed in order.
func Parse(file *source.File) (*Fixture, []source.SyntaxError) {
	terms, parser, err := sexp.ParseAll(file)
	if err != nil {
		return nil, []source.SyntaxError{*err}
	}
	//
	p := &translator{
		srcmap:  parser.SourceMap(),
		fixture: &Fixture{
			File:     file,
			Universe: types.NewUniverse(),
			Symbols:  model.NewSymbolTable(),
			Features: make(map[model.LanguageFeature]bool),
		},
	}
	//
	p.translate(terms)
	//
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	//
	for _, c := range parser.Comments() {
		if value, ok := c.Directive("expect"); ok {
			p.fixture.Expectations = append(p.fixture.Expectations, value)
		}
	}
	//
	return p.fixture, nil
}

// ============================================================================
// Translator
// ============================================================================

// translator converts S-Expressions into the components of a fixture,
// accumulating syntax errors as it goes.
type translator struct {
	srcmap  *source.Map[sexp.SExp]
	fixture *Fixture
	errors  []source.SyntaxError
}

func (p *translator) translate(terms []sexp.SExp) {
	var classes []*sexp.List
	// Declare classes up front, since they can be used before declaration.
	for _, term := range terms {
		if l := term.AsList(); l != nil && l.Head() == "defclass" {
			if p.declareClass(l) {
				classes = append(classes, l)
			}
		}
	}
	//
	for _, l := range classes {
		p.translateClass(l)
	}
	//
	for _, term := range terms {
		l := term.AsList()
		//
		switch {
		case l == nil:
			p.error(term, "unexpected symbol")
		case l.Head() == "defclass":
			continue
		case l.Head() == "scope":
			p.translateScope(l)
		case l.Head() == "settings":
			p.translateSettings(l)
		case slices.Contains(queryForms, l.Head()):
			if q := p.translateQuery(l); q != nil {
				p.fixture.Queries = append(p.fixture.Queries, q)
			}
		default:
			p.error(term, "unknown declaration")
		}
	}
}

// Record an error against a given term, always returning false.
func (p *translator) error(term sexp.SExp, msg string) bool {
	p.errors = append(p.errors, *p.srcmap.SyntaxError(term, msg))
	return false
}

func (p *translator) universe() *types.Universe {
	return p.fixture.Universe
}

