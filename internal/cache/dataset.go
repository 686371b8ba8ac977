// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

// Package cache provides the in-process snapshot cache for the parsed
// purchase ledger. Parsing the CSV on every request is wasteful; the
// cache serves the last parsed Dataset as long as the file's mtime and
// size are unchanged.
package cache

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hematlabs/hemat/internal/ledger"
)

// DatasetCache caches one parsed Dataset per ledger file.
//
// Invalidation is by os.Stat: a changed mtime or size forces a reload.
// Appends through ledger.Append rewrite the file atomically, so a
// successful write always changes at least the size.
type DatasetCache struct {
	mu   sync.RWMutex
	path string

	snapshot *ledger.Dataset
	modTime  time.Time
	size     int64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewDatasetCache creates a cache for the ledger at path.
func NewDatasetCache(path string) *DatasetCache {
	return &DatasetCache{path: path}
}

// Load returns the cached Dataset when the file is unchanged, parsing
// it otherwise. Concurrent callers may parse the same generation more
// than once; the last writer wins, which is harmless since Datasets
// are immutable after load.
func (c *DatasetCache) Load() (*ledger.Dataset, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, &ledger.DatasetError{Path: c.path, Reason: "stat: " + err.Error()}
	}

	c.mu.RLock()
	if c.snapshot != nil && info.ModTime().Equal(c.modTime) && info.Size() == c.size {
		ds := c.snapshot
		c.mu.RUnlock()
		c.hits.Add(1)
		return ds, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	ds, err := ledger.Load(c.path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = ds
	c.modTime = info.ModTime()
	c.size = info.Size()
	c.mu.Unlock()

	return ds, nil
}

// Invalidate drops the cached snapshot; the next Load reparses.
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}

// Stats reports cache hits and misses since creation.
func (c *DatasetCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
