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

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/collection/iter"
	"github.com/shimada-toy-box/kotlin/pkg/util/collection/set"
)

// INVOKE is the name of the operator through which values are called.
const INVOKE = "invoke"

// ImplicitScopeTower is the view of every scope visible from a particular call
// site.  Scopes are held innermost first.  A tower is read-only, and can be
// shared by any number of resolutions.
type ImplicitScopeTower struct {
	universe *types.Universe
	symbols  *model.SymbolTable
	scopes   []Scope
}

// NewImplicitScopeTower constructs a tower from a given set of scopes, which
// should be ordered innermost first.
func NewImplicitScopeTower(universe *types.Universe, symbols *model.SymbolTable,
	scopes ...Scope) *ImplicitScopeTower {
	return &ImplicitScopeTower{universe, symbols, scopes}
}

// Universe returns the universe of classes underlying this tower.
func (p *ImplicitScopeTower) Universe() *types.Universe {
	return p.universe
}

// Symbols returns the table of class members underlying this tower.
func (p *ImplicitScopeTower) Symbols() *model.SymbolTable {
	return p.symbols
}

// Scopes returns the scopes of this tower, innermost first.
func (p *ImplicitScopeTower) Scopes() []Scope {
	return p.scopes
}

// ImplicitReceivers returns the receivers available without qualification,
// innermost first.
func (p *ImplicitScopeTower) ImplicitReceivers() []*model.Receiver {
	var receivers []*model.Receiver
	//
	for _, scope := range p.scopes {
		if r := scope.Receiver(); r != nil {
			receivers = append(receivers, r)
		}
	}
	//
	return receivers
}

// IsVisible determines whether a callable can be accessed from the call site.
// Private callables are only visible from within their owner, meaning either
// an enclosing (non-import) scope or the class of an implicit receiver.
func (p *ImplicitScopeTower) IsVisible(callable *model.Callable) bool {
	if !callable.Has(model.PRIVATE) {
		return true
	}
	//
	for _, scope := range p.scopes {
		if !scope.Kind().IsImport() && scope.Label() == callable.Owner {
			return true
		} else if r := scope.Receiver(); r != nil && classNameOf(r.Type) == callable.Owner {
			return true
		}
	}
	//
	return false
}

// MembersOf returns the member callables of a given name available on a
// receiver of the given type, with class type arguments substituted.
// Inherited members are included, unless overridden by a closer declaration.
// Values of function type have a single member, the invoke operator.
func (p *ImplicitScopeTower) MembersOf(t types.Type, name string) []*model.Callable {
	switch t := types.NotNull(t).(type) {
	case *types.ClassType:
		var members []*model.Callable
		//
		for _, ancestor := range p.universe.Ancestors(t) {
			var (
				subst = types.ClassSubstitution(ancestor)
				// Declarations of closer classes
				closer = members
			)
			//
			for _, member := range p.symbols.Members(ancestor.Class) {
				if member.Name != name {
					continue
				} else if m := member.Substitute(subst); !isOverridden(closer, m) {
					members = append(members, m)
				}
			}
		}
		//
		return members
	case *types.TypeParameter:
		if t.Bound == nil {
			return p.MembersOf(p.universe.Any(), name)
		}
		//
		return p.MembersOf(t.Bound, name)
	case *types.FunctionType:
		if name == INVOKE {
			return []*model.Callable{invokeOperator(t)}
		}
	}
	//
	return nil
}

// CompanionMembersOf returns the members of a given name belonging to the
// companion object of the class of the given type.
func (p *ImplicitScopeTower) CompanionMembersOf(t types.Type, name string) []*model.Callable {
	var members []*model.Callable
	//
	if c, ok := types.NotNull(t).(*types.ClassType); ok {
		for _, member := range p.symbols.CompanionMembers(c.Class) {
			if member.Name == name {
				members = append(members, member)
			}
		}
	}
	//
	return members
}

// VisibleNames returns the names of every callable visible from the call
// site, in sorted order.  This includes the members of implicit receivers.
func (p *ImplicitScopeTower) VisibleNames() []string {
	names := set.NewSortedSet[string]()
	//
	for _, scope := range p.scopes {
		scope.Enumerate(func(c *model.Callable) bool {
			if p.IsVisible(c) {
				names.Insert(c.Name)
			}
			//
			return true
		})
		//
		if r := scope.Receiver(); r != nil {
			for _, t := range r.Types() {
				p.enumerateMemberNames(t, names)
			}
		}
	}
	//
	return *names
}

func (p *ImplicitScopeTower) enumerateMemberNames(t types.Type, names *set.SortedSet[string]) {
	if c, ok := types.NotNull(t).(*types.ClassType); ok {
		for _, ancestor := range p.universe.Ancestors(c) {
			for _, member := range p.symbols.Members(ancestor.Class) {
				if p.IsVisible(member) {
					names.Insert(member.Name)
				}
			}
		}
		//
		for _, member := range p.symbols.CompanionMembers(c.Class) {
			names.Insert(member.Name)
		}
	}
}

// Levels returns the levels of this tower in priority order, for a call with
// the given explicit receiver (or nil).  The levels are computed lazily as
// they are enumerated, and the enumeration cannot be restarted.
func (p *ImplicitScopeTower) Levels(explicit *model.Receiver) iter.Enumerator[*Level] {
	return &levelEnumerator{tower: p, explicit: explicit, groups: p.groups()}
}

// Group scopes into those which form the same level.  Every scope forms its
// own group, except that consecutive import scopes of the same kind are
// grouped together since none shadows the others.
func (p *ImplicitScopeTower) groups() [][]Scope {
	var groups [][]Scope
	//
	for i, scope := range p.scopes {
		n := len(groups)
		//
		if i > 0 && scope.Kind().IsImport() && scope.Kind() == p.scopes[i-1].Kind() {
			groups[n-1] = append(groups[n-1], scope)
		} else {
			groups = append(groups, []Scope{scope})
		}
	}
	//
	return groups
}

// A member is overridden by a closer one with the same signature, where the
// type parameters of each are identified positionally.
func isOverridden(members []*model.Callable, member *model.Callable) bool {
	for _, m := range members {
		if m.Kind != member.Kind || len(m.TypeParams) != len(member.TypeParams) {
			continue
		}
		//
		subst := make(types.Substitution, len(member.TypeParams))
		//
		for i, param := range member.TypeParams {
			subst[param] = m.TypeParams[i]
		}
		//
		if sameBounds(m, member, subst) && types.Equal(m.ExtensionReceiver, subst.Apply(member.ExtensionReceiver)) &&
			sameParameters(m, member, subst) {
			return true
		}
	}
	//
	return false
}

func sameBounds(lhs *model.Callable, rhs *model.Callable, subst types.Substitution) bool {
	for i, param := range rhs.TypeParams {
		if !types.Equal(lhs.TypeParams[i].Bound, subst.Apply(param.Bound)) {
			return false
		}
	}
	//
	return true
}

func sameParameters(lhs *model.Callable, rhs *model.Callable, subst types.Substitution) bool {
	if len(lhs.Params) != len(rhs.Params) {
		return false
	}
	//
	for i := range lhs.Params {
		if !types.Equal(lhs.Params[i].Type, subst.Apply(rhs.Params[i].Type)) {
			return false
		}
	}
	//
	return true
}

// Construct the invoke operator of a function type.  The receiver of an
// extension function type becomes the first parameter.
func invokeOperator(t *types.FunctionType) *model.Callable {
	var params []model.Parameter
	//
	for i, param := range t.Flatten() {
		params = append(params, model.Parameter{Name: fmt.Sprintf("p%d", i+1), Type: param})
	}
	//
	return model.NewFunction(INVOKE, t.String(), nil, nil, params, t.Return, model.OPERATOR)
}

func classNameOf(t types.Type) string {
	if c, ok := types.NotNull(t).(*types.ClassType); ok {
		return c.Class.Name
	}
	//
	return ""
}
