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
Package metrics provides Prometheus-compatible metrics for the page-cache
core.

METRIC CATEGORIES:
==================
- Buffer pool: page hits, misses, evictions, pin/unpin counts
- Replacer: history set size, cache set size, evictable frame count
- Hash table: bucket count, directory size, split/merge counts

EXAMPLE METRICS:
================

	pagecache_buffer_pool_hits_total 12345
	pagecache_buffer_pool_misses_total 678
	pagecache_replacer_cache_set_size 12
	pagecache_hashtable_num_buckets 8
*/
package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Metrics holds all page-cache core metrics.
type Metrics struct {
	// Buffer pool metrics
	Hits       atomic.Uint64 // FetchPage calls served without a disk read
	Misses     atomic.Uint64 // FetchPage calls that required a disk read
	Evictions  atomic.Uint64 // frames reclaimed via the replacer
	NewPages   atomic.Uint64 // pages allocated via NewPage
	DeletedPages atomic.Uint64 // pages removed via DeletePage
	FlushesTotal atomic.Uint64 // pages written back to disk

	// Replacer metrics (gauges, set via Snapshot inputs rather than Add)
	HistorySetSize atomic.Int64
	CacheSetSize   atomic.Int64
	EvictableCount atomic.Int64

	// Hash table metrics
	NumBuckets   atomic.Int64
	GlobalDepth  atomic.Int64
	SplitsTotal  atomic.Uint64
}

// Global metrics instance.
var globalMetrics = &Metrics{}

// Get returns the global metrics instance.
func Get() *Metrics {
	return globalMetrics
}

// RecordHit records a FetchPage call that found its page already resident.
func (m *Metrics) RecordHit() {
	m.Hits.Add(1)
}

// RecordMiss records a FetchPage call that required reading the page from disk.
func (m *Metrics) RecordMiss() {
	m.Misses.Add(1)
}

// RecordEviction records a frame reclaimed via the replacer.
func (m *Metrics) RecordEviction() {
	m.Evictions.Add(1)
}

// RecordNewPage records a page allocated via NewPage.
func (m *Metrics) RecordNewPage() {
	m.NewPages.Add(1)
}

// RecordDeletedPage records a page removed via DeletePage.
func (m *Metrics) RecordDeletedPage() {
	m.DeletedPages.Add(1)
}

// RecordFlush records a page written back to the disk manager.
func (m *Metrics) RecordFlush() {
	m.FlushesTotal.Add(1)
}

// RecordSplit records a bucket split performed by the hash table.
func (m *Metrics) RecordSplit() {
	m.SplitsTotal.Add(1)
}

// SetReplacerGauges updates the replacer's instantaneous size gauges.
func (m *Metrics) SetReplacerGauges(historySize, cacheSize, evictable int) {
	m.HistorySetSize.Store(int64(historySize))
	m.CacheSetSize.Store(int64(cacheSize))
	m.EvictableCount.Store(int64(evictable))
}

// SetHashTableGauges updates the hash table's instantaneous size gauges.
func (m *Metrics) SetHashTableGauges(numBuckets, globalDepth int) {
	m.NumBuckets.Store(int64(numBuckets))
	m.GlobalDepth.Store(int64(globalDepth))
}

// HitRatio returns the fraction of FetchPage calls served without a disk
// read. Returns 0 when no FetchPage calls have been recorded yet.
func (m *Metrics) HitRatio() float64 {
	hits := m.Hits.Load()
	misses := m.Misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Snapshot is a point-in-time, non-atomic copy of Metrics suitable for
// tests and the bundled benchmark CLI.
type Snapshot struct {
	Hits           uint64
	Misses         uint64
	Evictions      uint64
	NewPages       uint64
	DeletedPages   uint64
	FlushesTotal   uint64
	HistorySetSize int64
	CacheSetSize   int64
	EvictableCount int64
	NumBuckets     int64
	GlobalDepth    int64
	SplitsTotal    uint64
	HitRatio       float64
}

// Snapshot takes a consistent-enough point-in-time copy of the metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Hits:           m.Hits.Load(),
		Misses:         m.Misses.Load(),
		Evictions:      m.Evictions.Load(),
		NewPages:       m.NewPages.Load(),
		DeletedPages:   m.DeletedPages.Load(),
		FlushesTotal:   m.FlushesTotal.Load(),
		HistorySetSize: m.HistorySetSize.Load(),
		CacheSetSize:   m.CacheSetSize.Load(),
		EvictableCount: m.EvictableCount.Load(),
		NumBuckets:     m.NumBuckets.Load(),
		GlobalDepth:    m.GlobalDepth.Load(),
		SplitsTotal:    m.SplitsTotal.Load(),
		HitRatio:       m.HitRatio(),
	}
}

// WriteTo writes the current metrics in Prometheus text exposition format.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	s := m.Snapshot()
	var written int
	n, err := fmt.Fprintf(w, ""+
		"# HELP pagecache_buffer_pool_hits_total Pages served without a disk read\n"+
		"# TYPE pagecache_buffer_pool_hits_total counter\n"+
		"pagecache_buffer_pool_hits_total %d\n"+
		"# HELP pagecache_buffer_pool_misses_total Pages that required a disk read\n"+
		"# TYPE pagecache_buffer_pool_misses_total counter\n"+
		"pagecache_buffer_pool_misses_total %d\n"+
		"# HELP pagecache_buffer_pool_evictions_total Frames reclaimed via the replacer\n"+
		"# TYPE pagecache_buffer_pool_evictions_total counter\n"+
		"pagecache_buffer_pool_evictions_total %d\n"+
		"# HELP pagecache_buffer_pool_new_pages_total Pages allocated via NewPage\n"+
		"# TYPE pagecache_buffer_pool_new_pages_total counter\n"+
		"pagecache_buffer_pool_new_pages_total %d\n"+
		"# HELP pagecache_buffer_pool_deleted_pages_total Pages removed via DeletePage\n"+
		"# TYPE pagecache_buffer_pool_deleted_pages_total counter\n"+
		"pagecache_buffer_pool_deleted_pages_total %d\n"+
		"# HELP pagecache_buffer_pool_flushes_total Pages written back to disk\n"+
		"# TYPE pagecache_buffer_pool_flushes_total counter\n"+
		"pagecache_buffer_pool_flushes_total %d\n"+
		"# HELP pagecache_buffer_pool_hit_ratio Fraction of FetchPage calls served without a disk read\n"+
		"# TYPE pagecache_buffer_pool_hit_ratio gauge\n"+
		"pagecache_buffer_pool_hit_ratio %.4f\n"+
		"# HELP pagecache_replacer_history_set_size Frames with fewer than K recorded accesses\n"+
		"# TYPE pagecache_replacer_history_set_size gauge\n"+
		"pagecache_replacer_history_set_size %d\n"+
		"# HELP pagecache_replacer_cache_set_size Frames with K or more recorded accesses\n"+
		"# TYPE pagecache_replacer_cache_set_size gauge\n"+
		"pagecache_replacer_cache_set_size %d\n"+
		"# HELP pagecache_replacer_evictable_count Frames currently marked evictable\n"+
		"# TYPE pagecache_replacer_evictable_count gauge\n"+
		"pagecache_replacer_evictable_count %d\n"+
		"# HELP pagecache_hashtable_num_buckets Bucket count in the page table's hash index\n"+
		"# TYPE pagecache_hashtable_num_buckets gauge\n"+
		"pagecache_hashtable_num_buckets %d\n"+
		"# HELP pagecache_hashtable_global_depth Directory global depth\n"+
		"# TYPE pagecache_hashtable_global_depth gauge\n"+
		"pagecache_hashtable_global_depth %d\n"+
		"# HELP pagecache_hashtable_splits_total Bucket splits performed\n"+
		"# TYPE pagecache_hashtable_splits_total counter\n"+
		"pagecache_hashtable_splits_total %d\n",
		s.Hits, s.Misses, s.Evictions, s.NewPages, s.DeletedPages, s.FlushesTotal,
		s.HitRatio, s.HistorySetSize, s.CacheSetSize, s.EvictableCount,
		s.NumBuckets, s.GlobalDepth, s.SplitsTotal,
	)
	written += n
	return int64(written), err
}
