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
Package pool implements the buffer pool manager: a fixed-capacity,
in-memory cache of disk pages that mediates all access to a
DiskManager.

Buffer Pool Architecture:
=========================

	┌──────────────────────────────────────────────────────────────┐
	│                      BufferPoolManager                       │
	│  ┌─────────────────────────────────────────────────────────┐ │
	│  │ Page table: page.ID -> page.FrameID, an extendible hash  │ │
	│  │ table over the frame array below                         │ │
	│  └─────────────────────────────────────────────────────────┘ │
	│  ┌─────────────────────────────────────────────────────────┐ │
	│  │ Frame array: [Frame 0] [Frame 1] ... [Frame N-1]         │ │
	│  └─────────────────────────────────────────────────────────┘ │
	│  ┌─────────────────────────────────────────────────────────┐ │
	│  │ Replacer: LRU-K victim selection over unpinned frames    │ │
	│  └─────────────────────────────────────────────────────────┘ │
	└──────────────────────────────────────────────────────────────┘

Pin/Unpin Protocol:
===================

 1. FetchPage(id) or NewPage() pins the returned frame (pin count >= 1).
 2. The caller reads or writes Frame.Data directly.
 3. UnpinPage(id, dirty) unpins; dirty is OR-merged into the frame's
    dirty flag, never cleared by unpin.

A pinned frame is never chosen as an eviction victim: every fetch or
allocation marks its frame non-evictable in the replacer, and every
unpin that drops the pin count to zero marks it evictable again.

Locking:
========

A single mutex serializes every public method, including the calls it
makes into the replacer and the page table. Internally, the page table
and replacer each hold their own mutex across their own operations;
the buffer pool manager never holds both manager-level lock and calls
back into itself, so no lock-ordering cycle is possible.
*/
package pool

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"pagecache/internal/buffer/hashtable"
	"pagecache/internal/buffer/replacer"
	"pagecache/internal/logging"
	"pagecache/internal/metrics"
	"pagecache/internal/storage/disk"
	"pagecache/internal/storage/page"
)

var log = logging.NewLogger("bufferpool")

func hashPageID(id page.ID) uint64 {
	var buf [8]byte
	v := uint64(id)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// BufferPoolManager is the page-caching core of a disk-backed storage
// engine. It serves page-grained reads and writes to higher layers,
// keeping at most poolSize resident pages and guaranteeing that pinned
// pages are never evicted.
type BufferPoolManager struct {
	mu sync.Mutex

	poolSize int
	frames   []*page.Frame
	freeList []page.FrameID

	pageTable *hashtable.ExtendibleHashTable[page.ID, page.FrameID]
	replacer  *replacer.LRUKReplacer

	disk disk.Manager
	log  *disk.LogManager

	nextPageID     page.ID
	lastNumBuckets int
}

// New constructs a BufferPoolManager with poolSize frames, an LRU-K
// replacer parameterized by k, and a page table backed by an
// extendible hash table with the given bucket size.
func New(poolSize, k, bucketSize int, diskMgr disk.Manager, logMgr *disk.LogManager) *BufferPoolManager {
	frames := make([]*page.Frame, poolSize)
	freeList := make([]page.FrameID, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = page.NewFrame()
		freeList[i] = page.FrameID(i)
	}

	return &BufferPoolManager{
		poolSize:       poolSize,
		frames:         frames,
		freeList:       freeList,
		pageTable:      hashtable.New[page.ID, page.FrameID](bucketSize, hashPageID),
		replacer:       replacer.New(poolSize, k),
		disk:           diskMgr,
		log:            logMgr,
		lastNumBuckets: 1,
	}
}

// NewPage allocates a fresh page id and pins a frame for it, evicting
// a victim frame if the pool is full. Returns nil if no frame is
// available.
func (bp *BufferPoolManager) NewPage() (*page.Frame, page.ID, bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.acquireFrame()
	if !ok {
		return nil, page.InvalidID, false
	}

	id := bp.nextPageID
	bp.nextPageID++

	f := bp.frames[frameID]
	f.Reset()
	f.PageID = id
	f.PinCount = 1

	bp.pageTable.Insert(id, frameID)
	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)

	metrics.Get().RecordNewPage()
	bp.reportGauges()
	log.Debug("allocated page", "page_id", int64(id), "frame_id", int(frameID))
	return f, id, true
}

// FetchPage returns the frame holding id, pinning it. If the page is
// not resident, a frame is acquired as in NewPage and the page's bytes
// are read from disk into it. Returns nil only when no frame can be
// obtained.
func (bp *BufferPoolManager) FetchPage(id page.ID) (*page.Frame, bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, ok := bp.pageTable.Find(id); ok {
		f := bp.frames[frameID]
		f.PinCount++
		bp.replacer.RecordAccess(frameID)
		bp.replacer.SetEvictable(frameID, false)
		metrics.Get().RecordHit()
		bp.reportGauges()
		return f, true
	}

	frameID, ok := bp.acquireFrame()
	if !ok {
		metrics.Get().RecordMiss()
		return nil, false
	}

	f := bp.frames[frameID]
	f.Reset()
	f.PageID = id
	if err := bp.disk.ReadPage(id, &f.Data); err != nil {
		log.Error("disk read failed", "page_id", int64(id), "error", err)
		f.Reset()
		bp.freeList = append(bp.freeList, frameID)
		return nil, false
	}
	f.PinCount = 1

	bp.pageTable.Insert(id, frameID)
	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)

	metrics.Get().RecordMiss()
	bp.reportGauges()
	log.Debug("fetched page from disk", "page_id", int64(id), "frame_id", int(frameID))
	return f, true
}

// UnpinPage decrements id's pin count, marking its frame evictable
// once the count reaches zero. isDirty is OR-merged into the frame's
// dirty flag. Returns false if id is not resident or already unpinned.
func (bp *BufferPoolManager) UnpinPage(id page.ID, isDirty bool) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable.Find(id)
	if !ok {
		return false
	}
	f := bp.frames[frameID]
	if f.PinCount <= 0 {
		return false
	}

	f.IsDirty = f.IsDirty || isDirty
	f.PinCount--
	if f.PinCount == 0 {
		bp.replacer.SetEvictable(frameID, true)
	}
	bp.reportGauges()
	return true
}

// FlushPage writes id's frame to disk and clears its dirty flag,
// regardless of pin state. Returns false if id is not resident or is
// page.InvalidID.
func (bp *BufferPoolManager) FlushPage(id page.ID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if id == page.InvalidID {
		return false
	}
	frameID, ok := bp.pageTable.Find(id)
	if !ok {
		return false
	}
	return bp.flushFrame(frameID)
}

// flushFrame writes the given frame to disk and clears its dirty
// flag. Caller must hold mu.
func (bp *BufferPoolManager) flushFrame(frameID page.FrameID) bool {
	f := bp.frames[frameID]
	if err := bp.disk.WritePage(f.PageID, &f.Data); err != nil {
		log.Error("disk write failed", "page_id", int64(f.PageID), "error", err)
		return false
	}
	f.IsDirty = false
	metrics.Get().RecordFlush()
	return true
}

// FlushAllPages writes every resident page to disk.
func (bp *BufferPoolManager) FlushAllPages() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for frameID, f := range bp.frames {
		if f.PageID != page.InvalidID {
			bp.flushFrame(page.FrameID(frameID))
		}
	}
}

// DeletePage removes id from the pool. Returns true vacuously if id is
// not resident. Returns false if id is pinned. Otherwise the frame is
// reset, returned to the free list, and the page id is released via
// DeallocatePage.
func (bp *BufferPoolManager) DeletePage(id page.ID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable.Find(id)
	if !ok {
		return true
	}
	f := bp.frames[frameID]
	if f.PinCount > 0 {
		return false
	}

	bp.pageTable.Remove(id)
	_ = bp.replacer.Remove(frameID)
	f.Reset()
	bp.freeList = append(bp.freeList, frameID)

	bp.DeallocatePage(id)
	metrics.Get().RecordDeletedPage()
	bp.reportGauges()
	return true
}

// AllocatePage returns the next page id in the monotonically
// increasing sequence. NewPage calls this internally; exposed for
// callers that need to reserve an id without pinning a frame.
func (bp *BufferPoolManager) AllocatePage() page.ID {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	id := bp.nextPageID
	bp.nextPageID++
	return id
}

// DeallocatePage is a logical no-op: page id reclamation is outside
// this core's scope and left to the caller's allocator.
func (bp *BufferPoolManager) DeallocatePage(id page.ID) {
}

// acquireFrame returns a frame to repurpose, preferring the free list
// over evicting a replacer victim. If a victim is chosen and dirty, it
// is written back and removed from the page table before reuse.
// Caller must hold mu.
func (bp *BufferPoolManager) acquireFrame() (page.FrameID, bool) {
	if n := len(bp.freeList); n > 0 {
		frameID := bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		return frameID, true
	}

	frameID, ok := bp.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := bp.frames[frameID]
	if victim.IsDirty {
		if err := bp.disk.WritePage(victim.PageID, &victim.Data); err != nil {
			log.Error("writeback of victim failed", "page_id", int64(victim.PageID), "error", err)
		}
		victim.IsDirty = false
		metrics.Get().RecordFlush()
	}
	bp.pageTable.Remove(victim.PageID)
	metrics.Get().RecordEviction()
	return frameID, true
}

// reportGauges pushes the replacer's and page table's current sizes
// into the global metrics snapshot, and counts any bucket splits that
// occurred since the last call. Caller must hold mu.
func (bp *BufferPoolManager) reportGauges() {
	historySize, cacheSize := bp.replacer.HistoryCacheSizes()
	metrics.Get().SetReplacerGauges(historySize, cacheSize, bp.replacer.Size())

	numBuckets := bp.pageTable.GetNumBuckets()
	for i := bp.lastNumBuckets; i < numBuckets; i++ {
		metrics.Get().RecordSplit()
	}
	bp.lastNumBuckets = numBuckets
	metrics.Get().SetHashTableGauges(numBuckets, bp.pageTable.GetGlobalDepth())
}

// PoolSize returns the fixed number of frames in the pool.
func (bp *BufferPoolManager) PoolSize() int {
	return bp.poolSize
}
