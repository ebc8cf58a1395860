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
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
)

// SymbolTable holds the members (and companion object members) of every
// class.  It is read-only once populated.
type SymbolTable struct {
	members    map[*types.Class][]*Callable
	companions map[*types.Class][]*Callable
}

// NewSymbolTable constructs an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		make(map[*types.Class][]*Callable),
		make(map[*types.Class][]*Callable),
	}
}

// AddMember declares a member of a given class.
func (p *SymbolTable) AddMember(class *types.Class, member *Callable) {
	member.DispatchReceiver = class
	p.members[class] = append(p.members[class], member)
}

// AddCompanionMember declares a member of the companion object of a given
// class.
func (p *SymbolTable) AddCompanionMember(class *types.Class, member *Callable) {
	p.companions[class] = append(p.companions[class], member)
}

// Members returns the members declared in a given class (not including
// inherited members) in declaration order.
func (p *SymbolTable) Members(class *types.Class) []*Callable {
	return p.members[class]
}

// CompanionMembers returns the members of the companion object of a given
// class.
func (p *SymbolTable) CompanionMembers(class *types.Class) []*Callable {
	return p.companions[class]
}

// HasCompanion checks whether a given class has a companion object.
func (p *SymbolTable) HasCompanion(class *types.Class) bool {
	_, ok := p.companions[class]
	return ok
}
