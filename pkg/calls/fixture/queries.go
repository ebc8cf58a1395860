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
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
	"github.com/shimada-toy-box/kotlin/pkg/calls/tower"
	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/source/sexp"
)

// Mode determines which resolution operation is applied to a query.
type Mode uint8

const (
	// COMPLETE resolves a call and completes the chosen candidate.
	COMPLETE Mode = iota
	// WITHOUT_COMPLETION resolves a call to its most specific candidates,
	// without completing them.
	WITHOUT_COMPLETION
	// GIVEN resolves a call against the declarations of particular scopes,
	// rather than the whole tower.
	GIVEN
)

var queryForms = []string{"call", "get", "ref", "invoke"}

// Query is a single call to be resolved within a fixture.
type Query struct {
	Call *model.Call
	// Expected type of the call (nil if unknown).
	Expected types.Type
	Mode     Mode
	// Indicates every candidate found is reported, rather than choosing one.
	// This applies in COMPLETE and GIVEN modes only.
	CollectAll bool
	// Labels of the scopes supplying candidates in GIVEN mode.
	Given []string
}

// Translate a query, which is one of:
//
//	(call NAME OPTION...)
//	(get NAME OPTION...)
//	(ref NAME OPTION...)
//	(invoke OPTION...)
//
// Options are (receiver ...), (args ARG...), (typeargs TYPE...), (expected
// TYPE), (lhs type|expr TYPE), (given LABEL...), all and no-completion.  The
// last two are exclusive, as are (given ...) and no-completion.
func (p *translator) translateQuery(l *sexp.List) *Query {
	var (
		query = &Query{Call: &model.Call{Name: tower.INVOKE}}
		call  = query.Call
		index = 1
		ok    = true
	)
	//
	switch l.Head() {
	case "call":
		call.Kind = model.FUNCTION
	case "get":
		call.Kind = model.VARIABLE
	case "ref":
		call.Kind = model.CALLABLE_REFERENCE
		call.LHS = &model.LHS{Kind: model.EMPTY_LHS}
	case "invoke":
		call.Kind = model.INVOKE
		index = 0
	}
	//
	if index == 1 {
		if l.Len() < 2 || l.Get(1).AsSymbol() == nil {
			p.error(l, fmt.Sprintf("expected (%s NAME ...)", l.Head()))
			return nil
		}
		//
		call.Name = l.Get(1).String()
	}
	//
	call.Position = p.srcmap.Position(l)
	//
	for _, e := range l.Elements[index+1:] {
		ok = p.translateOption(query, e) && ok
	}
	//
	if ok && query.CollectAll && query.Mode == WITHOUT_COMPLETION {
		ok = p.error(l, "all conflicts with no-completion")
	}
	//
	if !ok {
		return nil
	}
	//
	return query
}

func (p *translator) translateOption(query *Query, term sexp.SExp) bool {
	var (
		call = query.Call
		ok   = true
	)
	//
	if s := term.AsSymbol(); s != nil {
		switch s.Value {
		case "all":
			query.CollectAll = true
		case "no-completion":
			return p.setMode(query, WITHOUT_COMPLETION, term)
		default:
			return p.error(term, "unknown option")
		}
		//
		return true
	}
	//
	l := term.AsList()
	//
	switch l.Head() {
	case "receiver":
		call.ExplicitReceiver, ok = p.translateReceiver(l, "")
	case "args":
		call.Arguments, ok = p.translateArguments(l.Elements[1:])
	case "typeargs":
		call.TypeArguments, ok = p.translateTypes(nil, l.Elements[1:])
	case "expected":
		if l.Len() != 2 {
			return p.error(term, "expected (expected TYPE)")
		}
		//
		query.Expected, ok = p.translateType(nil, l.Get(1))
	case "lhs":
		call.LHS, ok = p.translateLHS(l)
	case "given":
		ok = p.setMode(query, GIVEN, term)
		//
		for _, e := range l.Elements[1:] {
			if p.fixture.Scope(e.String()) == nil {
				ok = p.error(e, "unknown scope")
			}
			//
			query.Given = append(query.Given, e.String())
		}
	default:
		return p.error(term, "unknown option")
	}
	//
	return ok
}

func (p *translator) setMode(query *Query, mode Mode, term sexp.SExp) bool {
	if query.Mode != COMPLETE && query.Mode != mode {
		return p.error(term, "conflicting query options")
	}
	//
	query.Mode = mode
	//
	return true
}

// Translate the left-hand side of a callable reference, of the form (lhs type
// TYPE) or (lhs expr TYPE).
func (p *translator) translateLHS(l *sexp.List) (*model.LHS, bool) {
	if l.Len() != 3 || l.Get(1).AsSymbol() == nil {
		return nil, p.error(l, "expected (lhs type|expr TYPE)")
	}
	//
	t, ok := p.translateType(nil, l.Get(2))
	//
	switch l.Get(1).String() {
	case "type":
		return &model.LHS{Kind: model.TYPE_LHS, Type: t}, ok
	case "expr":
		return &model.LHS{Kind: model.EXPRESSION_LHS, Type: t}, ok
	default:
		return nil, p.error(l.Get(1), "unknown left-hand side")
	}
}

// ============================================================================
// Arguments
// ============================================================================

func (p *translator) translateArguments(terms []sexp.SExp) ([]model.Argument, bool) {
	var (
		args = make([]model.Argument, len(terms))
		ok   = true
	)
	//
	for i, term := range terms {
		var aok bool
		args[i], aok = p.translateArgument(term)
		ok = ok && aok
	}
	//
	return args, ok
}

// Translate an argument, which is one of:
//
//	1 | null | TYPE | (expr TYPE) | (named NAME ARG) | (ref NAME ...)
//	(lambda [(params TYPE|_...)] (returns TYPE))
func (p *translator) translateArgument(term sexp.SExp) (model.Argument, bool) {
	if s := term.AsSymbol(); s != nil {
		if v, ok := s.Int(); ok {
			return &model.IntegerLiteral{Value: v}, true
		} else if s.Value == "null" {
			return &model.NullLiteral{}, true
		}
	}
	//
	if l := term.AsList(); l != nil {
		return p.translateArgumentList(term, l)
	}
	// Any other symbol is the type of some expression
	t, ok := p.translateType(nil, term)
	//
	return &model.ExpressionArgument{Type: t}, ok
}

func (p *translator) translateArgumentList(term sexp.SExp, l *sexp.List) (model.Argument, bool) {
	switch l.Head() {
	case "expr":
		if l.Len() != 2 {
			return nil, p.error(term, "expected (expr TYPE)")
		}
		//
		t, ok := p.translateType(nil, l.Get(1))
		//
		return &model.ExpressionArgument{Type: t}, ok
	case "named":
		if l.Len() != 3 || l.Get(1).AsSymbol() == nil {
			return nil, p.error(term, "expected (named NAME ARG)")
		}
		//
		arg, ok := p.translateArgument(l.Get(2))
		//
		return withName(arg, l.Get(1).String()), ok
	case "lambda":
		return p.translateLambda(l)
	case "ref":
		if l.Len() < 2 || l.Get(1).AsSymbol() == nil {
			return nil, p.error(term, "expected (ref NAME ...)")
		}
		//
		query := &Query{Call: &model.Call{
			Kind: model.CALLABLE_REFERENCE,
			Name: l.Get(1).String(),
			LHS:  &model.LHS{Kind: model.EMPTY_LHS},
		}}
		//
		ok := true
		//
		for _, e := range l.Elements[2:] {
			ok = p.translateOption(query, e) && ok
		}
		//
		return &model.CallableReferenceArgument{Call: query.Call}, ok
	}
	// Otherwise, the type of some expression
	t, ok := p.translateType(nil, term)
	//
	return &model.ExpressionArgument{Type: t}, ok
}

func (p *translator) translateLambda(l *sexp.List) (model.Argument, bool) {
	var (
		lambda  = &model.LambdaArgument{}
		params  = findList(l, 1, "params")
		returns = findList(l, 1, "returns")
	)
	//
	if returns == nil || returns.Len() != 2 {
		return nil, p.error(l, "expected (lambda [(params ...)] (returns TYPE))")
	}
	//
	ok := true
	//
	if params != nil {
		for _, e := range params.Elements[1:] {
			if e.AsSymbol() != nil && e.String() == "_" {
				lambda.Params = append(lambda.Params, nil)
			} else {
				t, tok := p.translateType(nil, e)
				lambda.Params = append(lambda.Params, t)
				ok = ok && tok
			}
		}
	}
	//
	body, bok := p.translateType(nil, returns.Get(1))
	lambda.Body = body
	//
	return lambda, ok && bok
}

func withName(arg model.Argument, name string) model.Argument {
	switch arg := arg.(type) {
	case *model.ExpressionArgument:
		arg.Name = name
	case *model.IntegerLiteral:
		arg.Name = name
	case *model.NullLiteral:
		arg.Name = name
	case *model.LambdaArgument:
		arg.Name = name
	case *model.CallableReferenceArgument:
		arg.Name = name
	}
	//
	return arg
}
