// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// pathLocks serializes writers per ledger file. Concurrent requests against
// the same ledger would otherwise race on the read-modify-write cycle.
var (
	pathLocks   = make(map[string]*sync.Mutex)
	pathLocksMu sync.Mutex
)

// lockFor returns the mutex for path, creating it on first use.
func lockFor(path string) *sync.Mutex {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()

	mu, ok := pathLocks[abs]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[abs] = mu
	}
	return mu
}

// Append validates the ledger at path, appends records, and atomically
// replaces the file. The whole read-modify-write cycle holds a per-path
// mutex, so concurrent appends to the same ledger are serialized.
//
// Returns the dataset as it exists after the append.
func Append(path string, records ...Record) (*Dataset, error) {
	mu := lockFor(path)
	mu.Lock()
	defer mu.Unlock()

	ds, err := Load(path)
	if err != nil {
		return nil, err
	}

	ds.Rows = append(ds.Rows, records...)

	if err := writeAtomic(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// writeAtomic writes the dataset to a temp file in the ledger's directory
// and renames it into place. Rename is atomic on POSIX filesystems, so a
// reader mid-computation sees either the old or the new file, never a
// partial one.
func writeAtomic(ds *Dataset) error {
	dir := filepath.Dir(ds.Path)

	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(ds.Columns); err != nil {
		tmp.Close()          //nolint:errcheck,gosec // best effort on failure path
		os.Remove(tmpName)   //nolint:errcheck,gosec // best effort on failure path
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(ds.Columns))
	for i := range ds.Rows {
		for c, col := range ds.Columns {
			row[c] = ds.Rows[i].cellValue(col)
		}
		if err := w.Write(row); err != nil {
			tmp.Close()        //nolint:errcheck,gosec // best effort on failure path
			os.Remove(tmpName) //nolint:errcheck,gosec // best effort on failure path
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()        //nolint:errcheck,gosec // best effort on failure path
		os.Remove(tmpName) //nolint:errcheck,gosec // best effort on failure path
		return fmt.Errorf("flush ledger: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()        //nolint:errcheck,gosec // best effort on failure path
		os.Remove(tmpName) //nolint:errcheck,gosec // best effort on failure path
		return fmt.Errorf("sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec // best effort on failure path
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmpName, ds.Path); err != nil {
		os.Remove(tmpName) //nolint:errcheck,gosec // best effort on failure path
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
