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

// Receiver is a value on which a callable can be invoked, either written
// explicitly or available implicitly (e.g. this).
type Receiver struct {
	// Declared type of the receiver.
	Type types.Type
	// Additional types known to hold through smart casts.
	SmartCasts []types.Type
	// Label used when printing (e.g. this@A).
	Label string
	// Indicates smart casts can be relied upon.
	Stable bool
}

// NewReceiver constructs a stable receiver with no smart casts.
func NewReceiver(t types.Type, label string) *Receiver {
	return &Receiver{t, nil, label, true}
}

// Types returns the possible types of this receiver: its declared type
// followed by any (stable) smart cast types.
func (p *Receiver) Types() []types.Type {
	if !p.Stable || len(p.SmartCasts) == 0 {
		return []types.Type{p.Type}
	}
	//
	return append([]types.Type{p.Type}, p.SmartCasts...)
}

// CastTo returns a receiver of a particular type, which is either the declared
// type or one of the smart casts.
func (p *Receiver) CastTo(t types.Type) *Receiver {
	if types.Equal(t, p.Type) {
		return p
	}
	//
	return &Receiver{t, nil, p.Label, p.Stable}
}

func (p *Receiver) String() string {
	if p.Label != "" {
		return p.Label
	}
	//
	return p.Type.String()
}
