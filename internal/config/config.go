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
Package config holds construction-time configuration for the page-cache
core: buffer pool size, the LRU-K replacer's K, the extendible hash
table's bucket size, and the process-wide page size.

Configuration sources, in order of precedence:
 1. Explicit fields on a Config passed to the constructors
 2. Environment variables (PAGECACHE_*)
 3. Defaults

Environment Variables:
  - PAGECACHE_POOL_SIZE: number of frames in the buffer pool
  - PAGECACHE_REPLACER_K: K for the LRU-K replacer
  - PAGECACHE_BUCKET_SIZE: per-bucket capacity of the extendible hash table
  - PAGECACHE_LOG_LEVEL: log level (debug, info, warn, error)
*/
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for configuration.
const (
	EnvPoolSize   = "PAGECACHE_POOL_SIZE"
	EnvReplacerK  = "PAGECACHE_REPLACER_K"
	EnvBucketSize = "PAGECACHE_BUCKET_SIZE"
	EnvLogLevel   = "PAGECACHE_LOG_LEVEL"
)

// Config holds all construction-time values for the buffer pool core.
type Config struct {
	// PoolSize is the number of frames held by the buffer pool.
	PoolSize int `json:"pool_size"`
	// ReplacerK is the K parameter of the LRU-K replacer.
	ReplacerK int `json:"replacer_k"`
	// BucketSize is the per-bucket capacity of the extendible hash table
	// backing the buffer pool's page table.
	BucketSize int `json:"bucket_size"`
	// LogLevel controls the verbosity of the core's structured logging.
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:   64,
		ReplacerK:  2,
		BucketSize: 4,
		LogLevel:   "info",
	}
}

// FromEnv builds a Config starting from DefaultConfig and overriding any
// field whose environment variable is set.
func FromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvPoolSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PoolSize = n
		}
	}
	if v := os.Getenv(EnvReplacerK); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReplacerK = n
		}
	}
	if v := os.Getenv(EnvBucketSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BucketSize = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// Validate checks that the configuration describes a buildable pool.
func (c *Config) Validate() error {
	var errs []string

	if c.PoolSize <= 0 {
		errs = append(errs, fmt.Sprintf("invalid pool_size: %d (must be > 0)", c.PoolSize))
	}
	if c.ReplacerK < 1 {
		errs = append(errs, fmt.Sprintf("invalid replacer_k: %d (must be >= 1)", c.ReplacerK))
	}
	if c.BucketSize <= 0 {
		errs = append(errs, fmt.Sprintf("invalid bucket_size: %d (must be > 0)", c.BucketSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %v", errs)
	}
	return nil
}
