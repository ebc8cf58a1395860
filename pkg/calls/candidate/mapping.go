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
package candidate

import (
	"fmt"

	"github.com/shimada-toy-box/kotlin/pkg/calls/model"
)

// Map each argument of the call onto a parameter of the callable.  Positional
// arguments are mapped in order, with a vararg parameter absorbing all
// positional arguments from its position onwards.  Named arguments are mapped
// by name, and no positional argument may follow a named one.  Parameters
// without an argument must have a default value (or be vararg).
func mapArguments(p *checker) error {
	var (
		callable = p.b.Callable()
		args     = p.b.Call().Arguments
		mapping  = make([]int, len(args))
		assigned = make([]bool, len(callable.Params))
		next     = 0
		named    = false
		defaults uint
	)
	//
	for i, arg := range args {
		mapping[i] = -1
		//
		if name, ok := arg.Named(); ok {
			named = true
			mapping[i] = p.mapNamedArgument(i, name, assigned)
		} else if named {
			p.b.Report(model.MIXING_NAMED_AND_POSITIONAL, i, "positional argument after named argument")
		} else if next < len(callable.Params) {
			mapping[i] = next
			assigned[next] = true
			// Varargs absorb the remaining positional arguments
			if !callable.Params[next].Vararg {
				next++
			}
		} else {
			p.b.Report(model.TOO_MANY_ARGUMENTS, i, fmt.Sprintf("%s takes %d argument(s)", callable.Name,
				len(callable.Params)))
		}
	}
	//
	for i, param := range callable.Params {
		switch {
		case assigned[i] || param.Vararg:
			continue
		case param.HasDefault:
			defaults++
		default:
			p.b.Report(model.NO_VALUE_FOR_PARAMETER, model.NO_ARGUMENT, param.Name)
		}
	}
	//
	p.b.SetMapping(mapping, defaults)
	//
	return nil
}

func (p *checker) mapNamedArgument(arg int, name string, assigned []bool) int {
	for i, param := range p.b.Callable().Params {
		if param.Name != name {
			continue
		} else if assigned[i] {
			p.b.Report(model.ARGUMENT_PASSED_TWICE, arg, name)
			return -1
		}
		//
		assigned[i] = true
		//
		return i
	}
	//
	p.b.Report(model.NAMED_PARAMETER_NOT_FOUND, arg, name)
	//
	return -1
}
