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

// Command pagecache-bench drives a BufferPoolManager with a
// configurable number of concurrent workers issuing Fetch/Unpin
// cycles over a bounded page id range, then prints the resulting
// metrics snapshot.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"pagecache/internal/buffer/pool"
	"pagecache/internal/config"
	"pagecache/internal/logging"
	"pagecache/internal/metrics"
	"pagecache/internal/storage/disk"
	"pagecache/internal/storage/page"
)

var log = logging.NewLogger("pagecache-bench")

func main() {
	var (
		poolSize   = flag.Int("pool-size", 0, "buffer pool frame count (0 = config default)")
		replacerK  = flag.Int("replacer-k", 0, "LRU-K replacer K (0 = config default)")
		bucketSize = flag.Int("bucket-size", 0, "extendible hash table bucket size (0 = config default)")
		workers    = flag.Int("workers", 8, "concurrent workers")
		ops        = flag.Int("ops", 10000, "fetch/unpin operations per worker")
		pageSpan   = flag.Int("page-span", 256, "distinct page ids accessed")
		dbPath     = flag.String("db-path", "", "backing file path (empty = in-memory)")
	)
	flag.Parse()

	cfg := config.FromEnv()
	if *poolSize > 0 {
		cfg.PoolSize = *poolSize
	}
	if *replacerK > 0 {
		cfg.ReplacerK = *replacerK
	}
	if *bucketSize > 0 {
		cfg.BucketSize = *bucketSize
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))

	var diskMgr disk.Manager
	if *dbPath != "" {
		fdm, err := disk.OpenFile(*dbPath)
		if err != nil {
			log.Error("failed to open backing file", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer fdm.Close()
		diskMgr = fdm
	} else {
		diskMgr = disk.NewMemDiskManager()
	}

	bp := pool.New(cfg.PoolSize, cfg.ReplacerK, cfg.BucketSize, diskMgr, disk.NewLogManager())

	log.Info("starting benchmark",
		"pool_size", cfg.PoolSize, "replacer_k", cfg.ReplacerK, "bucket_size", cfg.BucketSize,
		"workers", *workers, "ops", *ops, "page_span", *pageSpan)

	start := time.Now()

	var g errgroup.Group
	for w := 0; w < *workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w) + 1))
			for i := 0; i < *ops; i++ {
				id := page.ID(rng.Intn(*pageSpan))
				f, ok := bp.FetchPage(id)
				if !ok {
					continue
				}
				f.Data[0]++
				bp.UnpinPage(id, true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("benchmark worker failed", "error", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)
	bp.FlushAllPages()

	snap := metrics.Get().Snapshot()
	fmt.Printf("elapsed: %s\n", elapsed)
	fmt.Printf("hits: %d  misses: %d  hit_ratio: %.4f\n", snap.Hits, snap.Misses, snap.HitRatio)
	fmt.Printf("evictions: %d  new_pages: %d  flushes: %d\n", snap.Evictions, snap.NewPages, snap.FlushesTotal)
	fmt.Printf("replacer: history=%d cache=%d evictable=%d\n", snap.HistorySetSize, snap.CacheSetSize, snap.EvictableCount)
	fmt.Printf("hashtable: buckets=%d global_depth=%d splits=%d\n", snap.NumBuckets, snap.GlobalDepth, snap.SplitsTotal)
}
