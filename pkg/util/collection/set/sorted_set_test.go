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
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SortedSet_01(t *testing.T) {
	s := NewSortedSet("f", "b", "f", "a")
	//
	assert.Equal(t, SortedSet[string]{"a", "b", "f"}, *s)
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
}

func Test_SortedSet_02(t *testing.T) {
	s := NewSortedSet[int]()
	//
	assert.True(t, s.Insert(3))
	assert.True(t, s.Insert(1))
	assert.False(t, s.Insert(3))
	assert.True(t, s.Insert(2))
	//
	assert.Equal(t, SortedSet[int]{1, 2, 3}, *s)
	assert.Equal(t, 3, s.Len())
}

func Test_SortedSet_03(t *testing.T) {
	s := NewSortedSet(1, 4, 6, 9)
	s.InsertSorted(NewSortedSet(0, 4, 5, 10, 11))
	//
	assert.Equal(t, SortedSet[int]{0, 1, 4, 5, 6, 9, 10, 11}, *s)
	//
	s.InsertSorted(NewSortedSet[int]())
	assert.Equal(t, 8, s.Len())
}
