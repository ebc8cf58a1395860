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
package inference

import (
	"errors"
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	log "github.com/sirupsen/logrus"
)

// ErrConflictingBinding is returned when merging two systems which have fixed
// the same type variable to different types.
var ErrConflictingBinding = errors.New("conflicting binding")

// PositionKind identifies where a constraint came from.
type PositionKind uint8

const (
	// DECLARED_BOUND is the declared upper bound of a type parameter.
	DECLARED_BOUND PositionKind = iota
	// EXPLICIT_TYPE_ARGUMENT is a type argument given at the call site.
	EXPLICIT_TYPE_ARGUMENT
	// RECEIVER is the dispatch or extension receiver of a call.
	RECEIVER
	// ARGUMENT is a value argument of a call.
	ARGUMENT
	// LAMBDA_RETURN is the body of a lambda argument.
	LAMBDA_RETURN
	// EXPECTED_TYPE is the type expected by the surrounding expression.
	EXPECTED_TYPE
	// CALLABLE_REFERENCE is the reflection type of a callable reference.
	CALLABLE_REFERENCE
)

// Position describes the origin of a constraint, which is used for reporting
// conflicts.
type Position struct {
	Kind PositionKind
	// Index of the argument (when applicable).
	Index uint
}

// DeclaredBound returns the position of a declared upper bound.
func DeclaredBound() Position { return Position{DECLARED_BOUND, 0} }

// ArgumentPosition returns the position of the ith value argument.
func ArgumentPosition(index uint) Position { return Position{ARGUMENT, index} }

// At returns a position of a given kind.
func At(kind PositionKind) Position { return Position{kind, 0} }

func (p Position) String() string {
	switch p.Kind {
	case DECLARED_BOUND:
		return "declared bound"
	case EXPLICIT_TYPE_ARGUMENT:
		return "type argument"
	case RECEIVER:
		return "receiver"
	case ARGUMENT:
		return fmt.Sprintf("argument #%d", p.Index+1)
	case LAMBDA_RETURN:
		return "lambda return"
	case EXPECTED_TYPE:
		return "expected type"
	case CALLABLE_REFERENCE:
		return "callable reference"
	default:
		return "unknown"
	}
}

// Conflict records a constraint which could not be satisfied.  Conflicts are
// never discarded, and a system with at least one conflict is contradictory.
type Conflict struct {
	Position Position
	Lower    types.Type
	Upper    types.Type
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s is not a subtype of %s (%s)", c.Lower, c.Upper, c.Position)
}

// BoundKind distinguishes lower, upper and equality bounds.
type BoundKind uint8

const (
	// LOWER bounds are types which must be subtypes of the variable.
	LOWER BoundKind = iota
	// UPPER bounds are types which the variable must be a subtype of.
	UPPER
	// EQUAL bounds are types which the variable must equal.
	EQUAL
)

// Bound represents a single bound on a type variable.
type Bound struct {
	Kind     BoundKind
	Type     types.Type
	Position Position
}

// System is an incremental store of constraints over type variables.  Each
// candidate owns exactly one system, which may be forked for speculative work
// and merged back afterwards.
type System struct {
	universe *types.Universe
	// Variables in creation order.
	variables []*types.Variable
	// Bounds for each variable.
	bounds map[*types.Variable][]Bound
	// Variables fixed so far, and their fixed types.
	fixed map[*types.Variable]types.Type
	// Variables which were fixed without enough information.
	underconstrained []*types.Variable
	// Conflicts recorded so far.
	conflicts []Conflict
	// Counter for generating variable identifiers.
	next uint
	// Remaining fuel for incorporation.
	fuel uint
}

// Maximum number of constraints which can be incorporated by one system.  This
// prevents recursive bounds (e.g. T <: List<T>) from generating bounds forever.
const maxFuel = 10000

// NewSystem constructs an empty constraint system over a given universe.
func NewSystem(universe *types.Universe) *System {
	return &System{
		universe: universe,
		bounds:   make(map[*types.Variable][]Bound),
		fixed:    make(map[*types.Variable]types.Type),
		fuel:     maxFuel,
	}
}

// Universe returns the universe used by this system.
func (p *System) Universe() *types.Universe {
	return p.universe
}

// NewVariable allocates a fresh type variable for a given type parameter.
func (p *System) NewVariable(param *types.TypeParameter) *types.Variable {
	p.next++
	v := types.NewVariable(p.next, param)
	p.variables = append(p.variables, v)
	//
	return v
}

// Variables returns all variables of this system in creation order.
func (p *System) Variables() []*types.Variable {
	return p.variables
}

// Bounds returns the bounds currently recorded for a given variable.
func (p *System) Bounds(v *types.Variable) []Bound {
	return p.bounds[v]
}

// Fixed returns the type to which a variable was fixed (if it was).
func (p *System) Fixed(v *types.Variable) (types.Type, bool) {
	t, ok := p.fixed[v]
	return t, ok
}

// IsFixed checks whether a given variable has been fixed.
func (p *System) IsFixed(v *types.Variable) bool {
	_, ok := p.fixed[v]
	return ok
}

// Conflicts returns the conflicts recorded so far.
func (p *System) Conflicts() []Conflict {
	return p.conflicts
}

// IsContradictory checks whether any constraint of this system was violated.
func (p *System) IsContradictory() bool {
	return len(p.conflicts) > 0
}

// Underconstrained returns those variables which were fixed to their declared
// upper bound because nothing else was known about them.
func (p *System) Underconstrained() []*types.Variable {
	return p.underconstrained
}

// Substitution returns the bindings of all fixed variables.
func (p *System) Substitution() types.Substitution {
	subst := make(types.Substitution, len(p.fixed))
	//
	for v, t := range p.fixed {
		subst[v] = t
	}
	//
	return subst
}

// Apply the current bindings to a given type.  Fixed types may themselves
// mention variables fixed later, hence this iterates until nothing changes.
func (p *System) Apply(t types.Type) types.Type {
	subst := p.Substitution()
	//
	for i := 0; i <= len(p.variables); i++ {
		nt := subst.Apply(t)
		if types.Equal(nt, t) {
			return nt
		}
		//
		t = nt
	}
	//
	return t
}

// IsProper checks whether a type contains no unfixed variables after applying
// the current bindings.
func (p *System) IsProper(t types.Type) bool {
	return types.IsProper(p.Apply(t))
}

// Fork creates a copy of this system which can be modified independently.
// Variables are shared by identity, so constraints on them in the fork can be
// merged back later.
func (p *System) Fork() *System {
	fork := &System{
		universe:         p.universe,
		variables:        append([]*types.Variable(nil), p.variables...),
		bounds:           make(map[*types.Variable][]Bound, len(p.bounds)),
		fixed:            make(map[*types.Variable]types.Type, len(p.fixed)),
		underconstrained: append([]*types.Variable(nil), p.underconstrained...),
		conflicts:        append([]Conflict(nil), p.conflicts...),
		next:             p.next,
		fuel:             p.fuel,
	}
	//
	for v, bounds := range p.bounds {
		fork.bounds[v] = append([]Bound(nil), bounds...)
	}
	//
	for v, t := range p.fixed {
		fork.fixed[v] = t
	}
	//
	return fork
}

// Merge the variables and constraints of another system into this system.
// Merging fails without modifying this system when both systems have fixed
// some variable to different types.
func (p *System) Merge(other *System) error {
	// Check fixed bindings first, so that failure leaves this system intact.
	for _, v := range other.variables {
		mine, ok1 := p.fixed[v]
		theirs, ok2 := other.fixed[v]
		//
		if ok1 && ok2 && !types.Equal(mine, theirs) {
			log.Debugf("cannot merge systems: %s fixed to both %s and %s", v, mine, theirs)
			//
			return fmt.Errorf("%w: %s fixed to both %s and %s", ErrConflictingBinding, v, mine, theirs)
		}
	}
	// Adopt unknown variables
	for _, v := range other.variables {
		if !p.hasVariable(v) {
			p.variables = append(p.variables, v)
		}
	}
	//
	p.next = max(p.next, other.next)
	// Adopt conflicts
	for _, c := range other.conflicts {
		if !p.hasConflict(c) {
			p.conflicts = append(p.conflicts, c)
		}
	}
	// Replay bounds
	for _, v := range other.variables {
		for _, b := range other.bounds[v] {
			p.addBound(v, b)
		}
	}
	// Replay fixings
	for _, v := range other.variables {
		if t, ok := other.fixed[v]; ok && !p.IsFixed(v) {
			p.Fix(v, t)
		}
	}
	//
	return nil
}

func (p *System) hasVariable(v *types.Variable) bool {
	for _, w := range p.variables {
		if v == w {
			return true
		}
	}
	//
	return false
}

func (p *System) hasConflict(c Conflict) bool {
	for _, d := range p.conflicts {
		if c.Position == d.Position && types.Equal(c.Lower, d.Lower) && types.Equal(c.Upper, d.Upper) {
			return true
		}
	}
	//
	return false
}

func (p *System) addBound(v *types.Variable, bound Bound) {
	switch bound.Kind {
	case LOWER:
		p.AddSubtype(bound.Type, v, bound.Position)
	case UPPER:
		p.AddSubtype(v, bound.Type, bound.Position)
	default:
		p.AddEquality(v, bound.Type, bound.Position)
	}
}
