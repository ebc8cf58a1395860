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
package sexp

import (
	"strconv"
	"strings"
)

// SExp is an S-Expression, which is either a List or a Symbol.
type SExp interface {
	// AsList returns this term if it is a list, or nil otherwise.
	AsList() *List
	// AsSymbol returns this term if it is a symbol, or nil otherwise.
	AsSymbol() *Symbol
	String() string
}

// ===================================================================
// List
// ===================================================================

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
}

var _ SExp = (*List)(nil)

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Head returns the first element of this list when that is a symbol, such as
// "defun" in (defun f () Unit).  Otherwise, it returns the empty string.
func (l *List) Head() string {
	if len(l.Elements) > 0 {
		if s := l.Elements[0].AsSymbol(); s != nil {
			return s.Value
		}
	}
	//
	return ""
}

// IsSymbols checks whether every element of this list is a symbol.
func (l *List) IsSymbols() bool {
	for _, e := range l.Elements {
		if e.AsSymbol() == nil {
			return false
		}
	}
	//
	return true
}

func (l *List) String() string {
	elements := make([]string, len(l.Elements))
	//
	for i, e := range l.Elements {
		elements[i] = e.String()
	}
	//
	return "(" + strings.Join(elements, " ") + ")"
}

// ===================================================================
// Symbol
// ===================================================================

// Symbol is any run of characters other than brackets, semi-colons and
// whitespace, such as a name, a type or an integer literal.
type Symbol struct {
	Value string
}

var _ SExp = (*Symbol)(nil)

// NewSymbol creates a new symbol from a given string.
func NewSymbol(value string) *Symbol {
	return &Symbol{value}
}

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol
func (s *Symbol) AsSymbol() *Symbol { return s }

// Int attempts to interpret this symbol as a signed (decimal) integer.
func (s *Symbol) Int() (int64, bool) {
	v, err := strconv.ParseInt(s.Value, 10, 64)
	return v, err == nil
}

// Bool attempts to interpret this symbol as either true or false.
func (s *Symbol) Bool() (bool, bool) {
	switch s.Value {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func (s *Symbol) String() string { return s.Value }

// ===================================================================
// Comment
// ===================================================================

// Comment is the text of a line comment, without its leading semi-colons.
// Comments are not S-Expressions, but are retained by the parser so that
// annotations written in them can be recovered.
type Comment struct {
	Text string
	// Index of the first character of the comment in the original text.
	Start int
}

// Directive checks whether this comment has the form ";;name: value" and, if
// so, returns its value.
func (c Comment) Directive(name string) (string, bool) {
	if rest, ok := strings.CutPrefix(c.Text, name+":"); ok {
		return strings.TrimSpace(rest), true
	}
	//
	return "", false
}
