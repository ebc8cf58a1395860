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

var flagNames = map[string]model.Flags{
	"synthetic":              model.SYNTHESIZED,
	"operator":               model.OPERATOR,
	"deprecated":             model.DEPRECATED,
	"hidden":                 model.DEPRECATED | model.HIDDEN,
	"private":                model.PRIVATE,
	"lambda-return-overload": model.LAMBDA_RETURN_OVERLOAD,
}

// ============================================================================
// Classes
// ============================================================================

// Declare a class and its type parameters, leaving bounds, supertypes and
// members until every class is known.
//
//	(defclass NAME (typeparams ...) (supertypes ...) (members ...) (companion ...) (sam TYPE))
func (p *translator) declareClass(l *sexp.List) bool {
	if l.Len() < 2 || l.Get(1).AsSymbol() == nil {
		return p.error(l, "expected (defclass NAME ...)")
	}
	//
	var params []*types.TypeParameter
	//
	if tps := findList(l, 2, "typeparams"); tps != nil {
		for _, e := range tps.Elements[1:] {
			name, variance, _, ok := p.typeParameterShape(e)
			if !ok {
				return false
			}
			//
			params = append(params, types.NewTypeParameter(name, nil, variance))
		}
	}
	//
	if _, ok := p.universe().Declare(l.Get(1).String(), params...); !ok {
		return p.error(l.Get(1), "duplicate class")
	}
	//
	return true
}

func (p *translator) translateClass(l *sexp.List) {
	var (
		class = p.universe().Lookup(l.Get(1).String())
		env   = environment(class.Params)
	)
	//
	for _, e := range l.Elements[2:] {
		part := e.AsList()
		//
		if part == nil {
			p.error(e, "unknown class component")
			continue
		}
		//
		switch part.Head() {
		case "typeparams":
			p.translateBounds(env, class.Params, part.Elements[1:])
		case "supertypes":
			for _, st := range part.Elements[1:] {
				if t, ok := p.translateType(env, st); !ok {
					continue
				} else if ct, ok := t.(*types.ClassType); ok {
					class.AddSupertype(ct)
				} else {
					p.error(st, "supertype must be a class")
				}
			}
		case "members":
			for _, d := range part.Elements[1:] {
				if c := p.translateCallable(env, class.Name, d); c != nil {
					p.fixture.Symbols.AddMember(class, c)
				}
			}
		case "companion":
			for _, d := range part.Elements[1:] {
				if c := p.translateCallable(nil, class.Name, d); c != nil {
					p.fixture.Symbols.AddCompanionMember(class, c)
				}
			}
		case "sam":
			if part.Len() != 2 {
				p.error(e, "expected (sam TYPE)")
			} else if t, ok := p.translateType(env, part.Get(1)); !ok {
				continue
			} else if ft, ok := t.(*types.FunctionType); ok && ft.Receiver == nil {
				class.Sam = ft
			} else {
				p.error(part.Get(1), "expected function type")
			}
		default:
			p.error(e, "unknown class component")
		}
	}
}

// Type parameters have the forms T, (T BOUND), (out T), (in T BOUND) and so on.
func (p *translator) typeParameterShape(term sexp.SExp) (string, types.Variance, sexp.SExp, bool) {
	if s := term.AsSymbol(); s != nil {
		return s.Value, types.INVARIANT, nil, true
	}
	//
	var (
		elements = term.AsList().Elements
		variance = types.INVARIANT
	)
	//
	if len(elements) > 0 && elements[0].AsSymbol() != nil {
		switch elements[0].String() {
		case "out":
			variance, elements = types.COVARIANT, elements[1:]
		case "in":
			variance, elements = types.CONTRAVARIANT, elements[1:]
		}
	}
	//
	switch {
	case len(elements) == 0 || len(elements) > 2 || elements[0].AsSymbol() == nil:
		return "", 0, nil, p.error(term, "invalid type parameter")
	case len(elements) == 1:
		return elements[0].String(), variance, nil, true
	default:
		return elements[0].String(), variance, elements[1], true
	}
}

// Bounds may refer to any parameter in the environment, including the
// parameter being bounded.
func (p *translator) translateBounds(env environment, params []*types.TypeParameter, terms []sexp.SExp) {
	for i, term := range terms {
		if _, _, bound, ok := p.typeParameterShape(term); ok && bound != nil {
			params[i].Bound, _ = p.translateType(env, bound)
		}
	}
}

// ============================================================================
// Callables
// ============================================================================

// Translate a function or property declaration:
//
//	(defun NAME [(generic T...)] ((p TYPE) (q TYPE default) (r TYPE vararg)...) RETURN ATTR...)
//	(defval NAME TYPE ATTR...)
//
// where each attribute is a flag, or (extends TYPE) for an extension.
func (p *translator) translateCallable(env environment, owner string, term sexp.SExp) *model.Callable {
	l := term.AsList()
	//
	if l == nil || l.Len() < 3 || l.Get(1).AsSymbol() == nil {
		p.error(term, "invalid declaration")
		return nil
	}
	//
	switch l.Head() {
	case "defun":
		return p.translateFunction(env, owner, l)
	case "defval":
		ret, ok := p.translateType(env, l.Get(2))
		extension, flags, ok2 := p.translateAttributes(env, l.Elements[3:])
		//
		if !ok || !ok2 {
			return nil
		}
		//
		return model.NewProperty(l.Get(1).String(), owner, extension, ret, flags)
	default:
		p.error(term, "unknown declaration")
		return nil
	}
}

func (p *translator) translateFunction(env environment, owner string, l *sexp.List) *model.Callable {
	var (
		name       = l.Get(1).String()
		index      = 2
		typeParams []*types.TypeParameter
	)
	//
	if g := l.Get(index).AsList(); g != nil && g.Head() == "generic" {
		for _, e := range g.Elements[1:] {
			if n, _, _, ok := p.typeParameterShape(e); ok {
				typeParams = append(typeParams, types.NewTypeParameter(n, nil, types.INVARIANT))
			}
		}
		//
		env = append(env[:len(env):len(env)], typeParams...)
		p.translateBounds(env, typeParams, g.Elements[1:])
		index++
	}
	//
	if l.Len() < index+2 || l.Get(index).AsList() == nil {
		p.error(l, "expected (defun NAME (PARAMS...) RETURN ...)")
		return nil
	}
	//
	params, ok1 := p.translateParameters(env, l.Get(index).AsList())
	ret, ok2 := p.translateType(env, l.Get(index+1))
	extension, flags, ok3 := p.translateAttributes(env, l.Elements[index+2:])
	//
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	//
	return model.NewFunction(name, owner, typeParams, extension, params, ret, flags)
}

func (p *translator) translateParameters(env environment, l *sexp.List) ([]model.Parameter, bool) {
	var (
		params []model.Parameter
		ok     = true
	)
	//
	for _, e := range l.Elements {
		pl := e.AsList()
		//
		if pl == nil || pl.Len() < 2 || pl.Len() > 3 || pl.Get(0).AsSymbol() == nil {
			ok = p.error(e, "expected (NAME TYPE [default|vararg])")
			continue
		}
		//
		t, tok := p.translateType(env, pl.Get(1))
		param := model.Parameter{Name: pl.Get(0).String(), Type: t}
		//
		if pl.Len() == 3 {
			switch pl.Get(2).String() {
			case "default":
				param.HasDefault = true
			case "vararg":
				param.Vararg = true
			default:
				tok = p.error(pl.Get(2), "unknown parameter modifier")
			}
		}
		//
		ok = ok && tok
		params = append(params, param)
	}
	//
	return params, ok
}

func (p *translator) translateAttributes(env environment, terms []sexp.SExp) (types.Type, model.Flags, bool) {
	var (
		extension types.Type
		flags     model.Flags
		ok        = true
	)
	//
	for _, term := range terms {
		if s := term.AsSymbol(); s != nil {
			if f, found := flagNames[s.Value]; found {
				flags |= f
			} else {
				ok = p.error(term, "unknown attribute")
			}
		} else if l := term.AsList(); l.Head() == "extends" && l.Len() == 2 {
			var tok bool
			extension, tok = p.translateType(env, l.Get(1))
			ok = ok && tok
		} else {
			ok = p.error(term, "unknown attribute")
		}
	}
	//
	return extension, flags, ok
}

// ============================================================================
// Scopes
// ============================================================================

// Translate a scope, of the form (scope KIND LABEL [(receiver ...)] DECL...).
// The receiver of a scope is labelled this@LABEL by default.
func (p *translator) translateScope(l *sexp.List) {
	if l.Len() < 3 || l.Get(1).AsSymbol() == nil || l.Get(2).AsSymbol() == nil {
		p.error(l, "expected (scope KIND LABEL ...)")
		return
	}
	//
	var (
		label     = l.Get(2).String()
		decls     = l.Elements[3:]
		receiver  *model.Receiver
		kind, ok  = tower.ParseScopeKind(l.Get(1).String())
		duplicate = p.fixture.Scope(label) != nil
	)
	//
	if !ok {
		p.error(l.Get(1), "unknown scope kind")
		return
	} else if duplicate {
		p.error(l.Get(2), "duplicate scope")
		return
	}
	//
	if len(decls) > 0 && decls[0].AsList() != nil && decls[0].AsList().Head() == "receiver" {
		if receiver, ok = p.translateReceiver(decls[0].AsList(), "this@"+label); !ok {
			return
		}
		//
		decls = decls[1:]
	}
	//
	scope := tower.NewLexicalScope(kind, label, receiver)
	//
	for _, d := range decls {
		if c := p.translateCallable(nil, label, d); c != nil {
			scope.Declare(c)
		}
	}
	//
	p.fixture.Scopes = append(p.fixture.Scopes, scope)
}

// Translate a receiver, of the form (receiver TYPE [(smartcast TYPE...)]
// [unstable]).
func (p *translator) translateReceiver(l *sexp.List, label string) (*model.Receiver, bool) {
	if l.Len() < 2 {
		return nil, p.error(l, "expected (receiver TYPE ...)")
	}
	//
	t, ok := p.translateType(nil, l.Get(1))
	if !ok {
		return nil, false
	}
	//
	receiver := model.NewReceiver(t, label)
	//
	for _, e := range l.Elements[2:] {
		if e.AsSymbol() != nil && e.String() == "unstable" {
			receiver.Stable = false
		} else if sc := e.AsList(); sc != nil && sc.Head() == "smartcast" {
			casts, ok := p.translateTypes(nil, sc.Elements[1:])
			if !ok {
				return nil, false
			}
			//
			receiver.SmartCasts = append(receiver.SmartCasts, casts...)
		} else {
			return nil, p.error(e, "unknown receiver component")
		}
	}
	//
	return receiver, true
}

// ============================================================================
// Settings
// ============================================================================

// Translate feature overrides, of the form (settings (FEATURE BOOL)...).
func (p *translator) translateSettings(l *sexp.List) {
	for _, e := range l.Elements[1:] {
		setting := e.AsList()
		//
		if setting == nil || setting.Len() != 2 || !setting.IsSymbols() {
			p.error(e, "expected (FEATURE true|false)")
			continue
		}
		//
		feature, err := model.ParseLanguageFeature(setting.Get(0).String())
		if err != nil {
			p.error(setting.Get(0), err.Error())
			continue
		}
		//
		enabled, ok := setting.Get(1).AsSymbol().Bool()
		if !ok {
			p.error(setting.Get(1), fmt.Sprintf("invalid value %s", setting.Get(1)))
			continue
		}
		//
		p.fixture.Features[feature] = enabled
	}
}

// Find the first list (from a given index) with a given head.
func findList(l *sexp.List, from int, head string) *sexp.List {
	for _, e := range l.Elements[min(from, l.Len()):] {
		if el := e.AsList(); el != nil && el.Head() == head {
			return el
		}
	}
	//
	return nil
}
