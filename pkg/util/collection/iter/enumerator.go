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
package iter

// Enumerator abstracts the process of iterating over a sequence of elements,
// which may be computed on demand.
type Enumerator[T any] interface {
	// Check whether or not there are any items remaining to visit.
	HasNext() bool

	// Get the next item, and advance the enumerator.
	Next() T
}

// NewArrayEnumerator returns an enumerator over the elements of a given array,
// in order.
func NewArrayEnumerator[T any](items []T) Enumerator[T] {
	return &arrayEnumerator[T]{items, 0}
}

// Collect every remaining element of an enumerator into an array.
func Collect[T any](enumerator Enumerator[T]) []T {
	var items []T
	//
	for enumerator.HasNext() {
		items = append(items, enumerator.Next())
	}
	//
	return items
}

// Find the first remaining element of an enumerator satisfying a given
// predicate, consuming every element up to and including it.
func Find[T any](enumerator Enumerator[T], predicate func(T) bool) (T, bool) {
	for enumerator.HasNext() {
		if item := enumerator.Next(); predicate(item) {
			return item, true
		}
	}
	//
	var empty T
	//
	return empty, false
}

// EnumerateElements returns an enumerator over all arrays of size n drawn from
// a given set of elements.  For example, if n==2 and elems contained two
// elements A and B, then this will return [[A,A],[B,A],[A,B],[B,B]].
func EnumerateElements[E any](n uint, elems []E) Enumerator[[]E] {
	var counters []uint
	// Nothing to enumerate without elements (unless n is zero)
	if n == 0 || len(elems) > 0 {
		counters = make([]uint, n)
	}
	//
	return &elementsEnumerator[E]{counters, elems}
}

type arrayEnumerator[T any] struct {
	items []T
	index int
}

// HasNext implementation for the Enumerator interface.
func (p *arrayEnumerator[T]) HasNext() bool {
	return p.index < len(p.items)
}

// Next implementation for the Enumerator interface.
func (p *arrayEnumerator[T]) Next() T {
	if p.index >= len(p.items) {
		panic("enumerator exhausted")
	}
	//
	item := p.items[p.index]
	p.index++
	//
	return item
}

type elementsEnumerator[E any] struct {
	// Index of the element at each position, or nil when finished.
	counters []uint
	elements []E
}

// HasNext implementation for the Enumerator interface.
func (p *elementsEnumerator[E]) HasNext() bool {
	return p.counters != nil
}

// Next implementation for the Enumerator interface.
func (p *elementsEnumerator[E]) Next() []E {
	if p.counters == nil {
		panic("enumerator exhausted")
	}
	//
	items := make([]E, len(p.counters))
	//
	for i, c := range p.counters {
		items[i] = p.elements[c]
	}
	// Increment counters, with the first position changing fastest
	for i := range p.counters {
		if p.counters[i]+1 < uint(len(p.elements)) {
			p.counters[i]++
			return items
		}
		//
		p.counters[i] = 0
	}
	// Overflow signals the end
	p.counters = nil
	//
	return items
}
