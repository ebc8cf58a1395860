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
package set

import (
	"cmp"
	"slices"
)

// SortedSet is an array of unique values held in ascending order.
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns a sorted set holding the given elements.
func NewSortedSet[T cmp.Ordered](elements ...T) *SortedSet[T] {
	set := SortedSet[T](slices.Clone(elements))
	slices.Sort(set)
	set = slices.Compact(set)
	//
	return &set
}

// Contains returns true if a given element is in the set.
func (p *SortedSet[T]) Contains(element T) bool {
	_, found := slices.BinarySearch(*p, element)
	return found
}

// Insert an element into this set, returning true if it was not already
// present.
func (p *SortedSet[T]) Insert(element T) bool {
	i, found := slices.BinarySearch(*p, element)
	//
	if !found {
		*p = slices.Insert(*p, i, element)
	}
	//
	return !found
}

// InsertSorted inserts every element of another set into this set.
func (p *SortedSet[T]) InsertSorted(other *SortedSet[T]) {
	var (
		left   = *p
		right  = *other
		merged = make([]T, 0, len(left)+len(right))
		i, j   int
	)
	// Merge overlap of both sets
	for i < len(left) && j < len(right) {
		switch c := cmp.Compare(left[i], right[j]); {
		case c < 0:
			merged = append(merged, left[i])
			i++
		case c > 0:
			merged = append(merged, right[j])
			j++
		default:
			merged = append(merged, left[i])
			i++
			j++
		}
	}
	// Handle anything left
	merged = append(merged, left[i:]...)
	merged = append(merged, right[j:]...)
	//
	*p = merged
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}
