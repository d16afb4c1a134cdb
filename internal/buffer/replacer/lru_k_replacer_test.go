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

package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pagecache/internal/storage/page"
)

func TestLRUKClassification(t *testing.T) {
	r := New(4, 2)

	for _, id := range []page.FrameID{1, 2, 3, 4} {
		r.RecordAccess(id)
		r.SetEvictable(id, true)
	}

	r.RecordAccess(1)

	victim, ok := r.Evict()
	assert.True(t, ok, "first Evict() presence")
	assert.Equal(t, page.FrameID(2), victim, "first Evict() victim")

	r.RecordAccess(3)

	victim, ok = r.Evict()
	assert.True(t, ok, "second Evict() presence")
	assert.Equal(t, page.FrameID(4), victim, "second Evict() victim")
}

func TestRemoveNonEvictableIsRejected(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(1)

	assert.Error(t, r.Remove(1), "Remove() on non-evictable frame")
	assert.Equal(t, 0, r.Size(), "Size() after rejected Remove")
}

func TestRemoveEvictableFrame(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(1)
	r.SetEvictable(1, true)

	assert.NoError(t, r.Remove(1), "Remove() on evictable frame")
	assert.Equal(t, 0, r.Size(), "Size() after Remove")
}

func TestSizeTracksEvictableCount(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(1)
	r.RecordAccess(2)
	r.SetEvictable(1, true)

	assert.Equal(t, 1, r.Size(), "Size() after one evictable")

	r.SetEvictable(2, true)
	assert.Equal(t, 2, r.Size(), "Size() after two evictable")

	r.SetEvictable(1, false)
	assert.Equal(t, 1, r.Size(), "Size() after un-marking one")
}

func TestEvictReturnsFalseWhenNothingEvictable(t *testing.T) {
	r := New(4, 2)
	r.RecordAccess(1)

	_, ok := r.Evict()
	assert.False(t, ok, "Evict() with no evictable frames")
}

func TestHistorySetPreferredOverCacheSet(t *testing.T) {
	r := New(4, 2)

	r.RecordAccess(1)
	r.RecordAccess(1)
	r.SetEvictable(1, true)

	r.RecordAccess(2)
	r.SetEvictable(2, true)

	victim, ok := r.Evict()
	assert.True(t, ok, "Evict() presence")
	assert.Equal(t, page.FrameID(2), victim, "history set should beat cache set")
}
