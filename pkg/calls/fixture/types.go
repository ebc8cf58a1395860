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
	"strconv"
	"strings"

	"github.com/shimada-toy-box/kotlin/pkg/calls/types"
	"github.com/shimada-toy-box/kotlin/pkg/util/source/sexp"
)

// environment holds the type parameters in scope for a declaration, innermost
// last.
type environment []*types.TypeParameter

func (e environment) lookup(name string) *types.TypeParameter {
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Name == name {
			return e[i]
		}
	}
	//
	return nil
}

// Translate a type, which is one of:
//
//	Int | Int? | T | $0 | (List Int) | (? T) | (-> (A B) R) | (->ext R (A) T)
func (p *translator) translateType(env environment, term sexp.SExp) (types.Type, bool) {
	if s := term.AsSymbol(); s != nil {
		return p.translateNamedType(env, term, s.Value)
	}
	//
	l := term.AsList()
	//
	switch l.Head() {
	case "":
		return nil, p.error(term, "invalid type")
	case "?":
		if l.Len() != 2 {
			return nil, p.error(term, "expected (? TYPE)")
		} else if t, ok := p.translateType(env, l.Get(1)); ok {
			return types.Nullable(t), true
		}
		//
		return nil, false
	case "->":
		if l.Len() != 3 {
			return nil, p.error(term, "expected (-> (PARAMS...) RETURN)")
		}
		//
		return p.translateFunctionType(env, nil, l.Get(1), l.Get(2))
	case "->ext":
		if l.Len() != 4 {
			return nil, p.error(term, "expected (->ext RECEIVER (PARAMS...) RETURN)")
		} else if receiver, ok := p.translateType(env, l.Get(1)); ok {
			return p.translateFunctionType(env, receiver, l.Get(2), l.Get(3))
		}
		//
		return nil, false
	default:
		args, ok := p.translateTypes(env, l.Elements[1:])
		if !ok {
			return nil, false
		}
		//
		return p.instantiate(term, l.Head(), args)
	}
}

func (p *translator) translateNamedType(env environment, term sexp.SExp, name string) (types.Type, bool) {
	switch {
	case len(name) > 1 && strings.HasSuffix(name, "?"):
		if t, ok := p.translateNamedType(env, term, strings.TrimSuffix(name, "?")); ok {
			return types.Nullable(t), true
		}
		//
		return nil, false
	case strings.HasPrefix(name, "$"):
		index, err := strconv.ParseUint(name[1:], 10, 32)
		if err != nil {
			return nil, p.error(term, "invalid lambda parameter")
		}
		//
		return types.LambdaParameter{Index: uint(index)}, true
	}
	//
	if param := env.lookup(name); param != nil {
		return param, true
	}
	//
	return p.instantiate(term, name, nil)
}

func (p *translator) translateFunctionType(env environment, receiver types.Type, params sexp.SExp,
	ret sexp.SExp) (types.Type, bool) {
	list := params.AsList()
	if list == nil {
		return nil, p.error(params, "expected parameter types")
	}
	//
	ptypes, ok1 := p.translateTypes(env, list.Elements)
	rtype, ok2 := p.translateType(env, ret)
	//
	if !ok1 || !ok2 {
		return nil, false
	}
	//
	return types.NewExtensionFunctionType(receiver, ptypes, rtype), true
}

func (p *translator) translateTypes(env environment, terms []sexp.SExp) ([]types.Type, bool) {
	var (
		ts = make([]types.Type, len(terms))
		ok = true
	)
	//
	for i, term := range terms {
		var tok bool
		ts[i], tok = p.translateType(env, term)
		ok = ok && tok
	}
	//
	return ts, ok
}

// Apply a class to some type arguments.
func (p *translator) instantiate(term sexp.SExp, name string, args []types.Type) (types.Type, bool) {
	class := p.universe().Lookup(name)
	//
	if class == nil {
		return nil, p.error(term, fmt.Sprintf("unknown type %s", name))
	} else if len(class.Params) != len(args) {
		return nil, p.error(term, fmt.Sprintf("class %s expects %d type argument(s)", name, len(class.Params)))
	}
	//
	return types.NewClassType(class, args...), true
}
