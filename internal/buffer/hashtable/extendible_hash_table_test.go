/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func identityHash(k int) uint64 {
	return uint64(k)
}

func TestFindAfterInsertRoundTrips(t *testing.T) {
	ht := New[int, string](4, identityHash)
	ht.Insert(1, "a")
	ht.Insert(2, "b")
	ht.Insert(3, "c")

	v, ok := ht.Find(2)
	assert.True(t, ok, "Find(2) presence")
	assert.Equal(t, "b", v, "Find(2) value")
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	ht := New[int, string](4, identityHash)
	ht.Insert(1, "a")
	ht.Insert(1, "b")

	v, ok := ht.Find(1)
	assert.True(t, ok, "Find(1) presence")
	assert.Equal(t, "b", v, "Find(1) value")
}

func TestDirectoryDoublesOnOverflow(t *testing.T) {
	ht := New[int, string](2, identityHash)
	ht.Insert(0, "a")
	ht.Insert(1, "b")
	ht.Insert(2, "c")

	assert.GreaterOrEqual(t, ht.GetGlobalDepth(), 1, "GetGlobalDepth()")
	assert.Equal(t, 2, ht.GetNumBuckets(), "GetNumBuckets()")

	v, ok := ht.Find(0)
	assert.True(t, ok, "Find(0) presence")
	assert.Equal(t, "a", v, "Find(0) value")

	v, ok = ht.Find(2)
	assert.True(t, ok, "Find(2) presence")
	assert.Equal(t, "c", v, "Find(2) value")
}

func TestRemoveReportsPresence(t *testing.T) {
	ht := New[int, string](4, identityHash)
	ht.Insert(5, "x")

	assert.True(t, ht.Remove(5), "first Remove(5)")
	assert.False(t, ht.Remove(5), "second Remove(5)")

	_, ok := ht.Find(5)
	assert.False(t, ok, "Find(5) after Remove")
}

func TestManyInsertsSurviveRepeatedSplits(t *testing.T) {
	ht := New[int, int](2, identityHash)
	const n = 200
	for i := 0; i < n; i++ {
		ht.Insert(i, i*i)
	}
	for i := 0; i < n; i++ {
		v, ok := ht.Find(i)
		assert.True(t, ok, "Find(%d) presence", i)
		assert.Equal(t, i*i, v, "Find(%d) value", i)
	}
}

func TestLocalDepthNeverExceedsGlobalDepth(t *testing.T) {
	ht := New[int, int](2, identityHash)
	for i := 0; i < 64; i++ {
		ht.Insert(i, i)
	}
	gd := ht.GetGlobalDepth()
	for i := 0; i < len(ht.dir); i++ {
		assert.LessOrEqual(t, ht.GetLocalDepth(i), gd, "dir[%d] local depth vs global depth", i)
	}
}
