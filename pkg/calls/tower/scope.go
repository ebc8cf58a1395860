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
package tower

import (
	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
)

// ScopeKind identifies where a lexical scope comes from, which determines its
// position in the tower.
type ScopeKind uint8

const (
	// LOCAL_SCOPE holds declarations of a function body or block.
	LOCAL_SCOPE ScopeKind = iota
	// CLASS_SCOPE is the body of a class, whose implicit receiver is this.
	CLASS_SCOPE
	// PACKAGE_SCOPE holds top-level declarations of the current package.
	PACKAGE_SCOPE
	// EXPLICIT_IMPORT_SCOPE holds declarations imported by name.
	EXPLICIT_IMPORT_SCOPE
	// STAR_IMPORT_SCOPE holds declarations imported through a wildcard.
	STAR_IMPORT_SCOPE
	// DEFAULT_IMPORT_SCOPE holds declarations imported implicitly.
	DEFAULT_IMPORT_SCOPE
)

var scopeKindNames = []string{"local", "class", "package", "import", "star-import", "default-import"}

func (k ScopeKind) String() string {
	return scopeKindNames[k]
}

// ParseScopeKind converts the name of a scope kind into a kind.
func ParseScopeKind(name string) (ScopeKind, bool) {
	for i, n := range scopeKindNames {
		if n == name {
			return ScopeKind(i), true
		}
	}
	//
	return 0, false
}

// IsImport checks whether this kind of scope arises from an import.
func (k ScopeKind) IsImport() bool {
	return k >= EXPLICIT_IMPORT_SCOPE
}

// Scope is a source of named callables visible at a call site.
type Scope interface {
	// Label used for printing and visibility of private declarations.
	Label() string
	// Kind of this scope.
	Kind() ScopeKind
	// Receiver returns the implicit receiver introduced by this scope (or nil).
	Receiver() *model.Receiver
	// Callables returns the callables declared in this scope with the given
	// name, in declaration order.
	Callables(name string) []*model.Callable
	// Enumerate visits every callable declared in this scope in declaration
	// order, stopping early if the visitor returns false.
	Enumerate(visit func(*model.Callable) bool) bool
}

// LexicalScope is a straightforward Scope backed by a map from names to
// declarations.
type LexicalScope struct {
	label    string
	kind     ScopeKind
	receiver *model.Receiver
	// Names in order of first declaration.
	names        []string
	declarations map[string][]*model.Callable
}

// NewLexicalScope constructs an empty scope, optionally introducing an
// implicit receiver.
func NewLexicalScope(kind ScopeKind, label string, receiver *model.Receiver) *LexicalScope {
	return &LexicalScope{label, kind, receiver, nil, make(map[string][]*model.Callable)}
}

// Declare adds a callable to this scope.
func (p *LexicalScope) Declare(callable *model.Callable) {
	if _, ok := p.declarations[callable.Name]; !ok {
		p.names = append(p.names, callable.Name)
	}
	//
	p.declarations[callable.Name] = append(p.declarations[callable.Name], callable)
}

// Label implementation for Scope interface.
func (p *LexicalScope) Label() string { return p.label }

// Kind implementation for Scope interface.
func (p *LexicalScope) Kind() ScopeKind { return p.kind }

// Receiver implementation for Scope interface.
func (p *LexicalScope) Receiver() *model.Receiver { return p.receiver }

// Callables implementation for Scope interface.
func (p *LexicalScope) Callables(name string) []*model.Callable {
	return p.declarations[name]
}

// Enumerate implementation for Scope interface.
func (p *LexicalScope) Enumerate(visit func(*model.Callable) bool) bool {
	for _, name := range p.names {
		for _, c := range p.declarations[name] {
			if !visit(c) {
				return false
			}
		}
	}
	//
	return true
}

func (p *LexicalScope) String() string {
	return p.kind.String() + " " + p.label
}
