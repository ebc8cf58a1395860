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
	"fmt"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// LevelKind identifies how callables are found at a given level.
type LevelKind uint8

const (
	// DECLARATIONS levels hold the non-extension callables of one or more
	// scopes.
	DECLARATIONS LevelKind = iota
	// MEMBERS levels hold the members of a receiver.
	MEMBERS
	// COMPANION levels hold the companion object members of a receiver's
	// class.
	COMPANION
	// EXTENSIONS levels hold the extensions of one or more scopes, applied to
	// a given receiver.
	EXTENSIONS
)

func (k LevelKind) String() string {
	switch k {
	case DECLARATIONS:
		return "declarations"
	case MEMBERS:
		return "members"
	case COMPANION:
		return "companion"
	default:
		return "extensions"
	}
}

// Level is a single priority level of the tower.  Within a level, callables
// are distinguished only by overload resolution.
type Level struct {
	// Position of this level in the enumeration.
	Index uint
	Kind  LevelKind
	tower *ImplicitScopeTower
	// Scopes contributing declarations or extensions.
	scopes []Scope
	// Receiver of members or extensions.
	receiver *model.Receiver
}

// Receiver returns the receiver to which callables at this level are bound
// (nil for a declarations level).
func (p *Level) Receiver() *model.Receiver {
	return p.receiver
}

// Label returns a readable description of this level.
func (p *Level) Label() string {
	var labels []string
	//
	for _, scope := range p.scopes {
		labels = append(labels, scope.Label())
	}
	//
	switch p.Kind {
	case DECLARATIONS:
		return fmt.Sprintf("#%d %s %s", p.Index, p.Kind, strings.Join(labels, ","))
	case EXTENSIONS:
		return fmt.Sprintf("#%d %s %s for %s", p.Index, p.Kind, strings.Join(labels, ","), p.receiver)
	default:
		return fmt.Sprintf("#%d %s of %s", p.Index, p.Kind, p.receiver)
	}
}

// Candidates returns every callable of the given name found at this level,
// bound to the receivers it would be called with.
func (p *Level) Candidates(name string) []model.TowerCandidate {
	var candidates []model.TowerCandidate
	//
	switch p.Kind {
	case DECLARATIONS:
		p.eachDeclaration(name, func(scope Scope, c *model.Callable) {
			if !c.IsExtension() {
				candidates = append(candidates, p.candidate(scope.Label(), c, nil, nil))
			}
		})
	case EXTENSIONS:
		p.eachDeclaration(name, func(scope Scope, c *model.Callable) {
			if c.IsExtension() {
				candidates = append(candidates, p.candidate(scope.Label(), c, nil, p.receiver))
			} else if isExtensionFunctionValue(c) {
				tc := p.candidate(scope.Label(), c, nil, p.receiver)
				tc.InvokeExtension = true
				candidates = append(candidates, tc)
			}
		})
	case MEMBERS:
		candidates = p.members(name)
	case COMPANION:
		for _, c := range p.tower.CompanionMembersOf(p.receiver.Type, name) {
			candidates = append(candidates, p.candidate(classNameOf(p.receiver.Type), c, nil, nil))
		}
	}
	//
	return candidates
}

// Members are looked up through each smart cast type of the receiver before
// its declared type, such that the more specific declaration is found first.
func (p *Level) members(name string) []model.TowerCandidate {
	var (
		candidates []model.TowerCandidate
		found      []*model.Callable
		rtypes     = p.receiver.Types()
	)
	//
	for i := len(rtypes); i > 0; i-- {
		t, closer := rtypes[i-1], found
		//
		for _, c := range p.tower.MembersOf(t, name) {
			if !isOverridden(closer, c) {
				found = append(found, c)
				candidates = append(candidates, p.candidate(classNameOf(t), c, p.receiver.CastTo(t), nil))
			}
		}
	}
	// Members reachable only through an unstable smart cast are still
	// candidates, but cannot be called.
	if !p.receiver.Stable {
		for _, t := range p.receiver.SmartCasts {
			for _, c := range p.tower.MembersOf(t, name) {
				if !declares(found, c) {
					found = append(found, c)
					tc := p.candidate(classNameOf(t), c, p.receiver.CastTo(t), nil)
					tc.UnstableSmartCast = true
					candidates = append(candidates, tc)
				}
			}
		}
	}
	//
	return candidates
}

func declares(members []*model.Callable, member *model.Callable) bool {
	for _, m := range members {
		if m.Original() == member.Original() {
			return true
		}
	}
	//
	return false
}

func (p *Level) eachDeclaration(name string, fn func(Scope, *model.Callable)) {
	for _, scope := range p.scopes {
		for _, c := range scope.Callables(name) {
			fn(scope, c)
		}
	}
}

func (p *Level) candidate(scope string, c *model.Callable, dispatch *model.Receiver,
	extension *model.Receiver) model.TowerCandidate {
	return model.TowerCandidate{
		Callable:          c,
		DispatchReceiver:  dispatch,
		ExtensionReceiver: extension,
		Level:             p.Index,
		Scope:             scope,
		Invisible:         !p.tower.IsVisible(c),
	}
}

func (p *Level) String() string {
	return p.Label()
}

// Properties whose type is an extension function type can be called with an
// explicit receiver, as though they were extensions.
func isExtensionFunctionValue(c *model.Callable) bool {
	if c.IsFunction() {
		return false
	}
	//
	ft, ok := c.Return.(*types.FunctionType)
	//
	return ok && ft.Receiver != nil
}

// ============================================================================
// Enumeration
// ============================================================================

// levelEnumerator produces the levels of a tower on demand, one group of
// scopes at a time.
type levelEnumerator struct {
	tower    *ImplicitScopeTower
	explicit *model.Receiver
	groups   [][]Scope
	// Index of next group to expand.
	next int
	// Levels expanded but not yet returned.
	pending []*Level
	// Number of levels produced so far.
	count uint
	// Indicates the members of the explicit receiver were produced.
	started bool
}

// HasNext implementation for the iter.Enumerator interface.
func (p *levelEnumerator) HasNext() bool {
	for len(p.pending) == 0 {
		if !p.expand() {
			break
		}
	}
	//
	return len(p.pending) > 0
}

// Next implementation for the iter.Enumerator interface.
func (p *levelEnumerator) Next() *Level {
	if !p.HasNext() {
		panic("no more tower levels")
	}
	//
	level := p.pending[0]
	p.pending = p.pending[1:]
	//
	return level
}

// Expand the next group of scopes into levels, returning false when there is
// nothing left to expand.
func (p *levelEnumerator) expand() bool {
	if p.explicit != nil && !p.started {
		p.started = true
		p.add(MEMBERS, nil, p.explicit)
		//
		return true
	} else if p.next >= len(p.groups) {
		return false
	}
	//
	group := p.groups[p.next]
	p.next++
	//
	if p.explicit != nil {
		p.add(EXTENSIONS, group, p.explicit)
		return true
	}
	//
	p.add(DECLARATIONS, group, nil)
	//
	if r := group[0].Receiver(); r != nil {
		p.add(MEMBERS, nil, r)
		//
		if c, ok := types.NotNull(r.Type).(*types.ClassType); ok && p.tower.symbols.HasCompanion(c.Class) {
			p.add(COMPANION, nil, r)
		}
	}
	//
	for _, r := range p.tower.ImplicitReceivers() {
		p.add(EXTENSIONS, group, r)
	}
	//
	return true
}

func (p *levelEnumerator) add(kind LevelKind, scopes []Scope, receiver *model.Receiver) {
	p.pending = append(p.pending, &Level{p.count, kind, p.tower, scopes, receiver})
	p.count++
}
