// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hematlabs/hemat/internal/ledger"
)

const ledgerHeader = "uid,email,product_name,product_type,purchase_price,purchase_date,long,lat,quantity\n"

func writeLedger(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "purchase_history.csv")
	if err := os.WriteFile(path, []byte(ledgerHeader+rows), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCachesUnchangedFile(t *testing.T) {
	t.Parallel()

	path := writeLedger(t, "u1,u1@example.com,Kopi,grocery,3.5,2024-06-01,106.8,-6.17,1\n")
	c := NewDatasetCache(path)

	first, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if first != second {
		t.Error("expected the same snapshot pointer for an unchanged file")
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", hits, misses)
	}
}

func TestLoadReparsesAfterAppend(t *testing.T) {
	t.Parallel()

	path := writeLedger(t, "u1,u1@example.com,Kopi,grocery,3.5,2024-06-01,106.8,-6.17,1\n")
	c := NewDatasetCache(path)

	first, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(first.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(first.Rows))
	}

	_, err = ledger.Append(path, ledger.Record{
		UID:           "u2",
		Email:         "u2@example.com",
		ProductName:   "Roti",
		ProductType:   "grocery",
		PurchasePrice: 25000,
		PurchaseDate:  time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		Long:          106.9,
		Lat:           -6.2,
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	second, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(second.Rows) != 2 {
		t.Errorf("rows after append = %d, want 2", len(second.Rows))
	}
	if first == second {
		t.Error("expected a fresh snapshot after the file changed")
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	t.Parallel()

	path := writeLedger(t, "u1,u1@example.com,Kopi,grocery,3.5,2024-06-01,106.8,-6.17,1\n")
	c := NewDatasetCache(path)

	if _, err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Invalidate()
	if _, err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, misses := c.Stats()
	if misses != 2 {
		t.Errorf("misses = %d, want 2", misses)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	c := NewDatasetCache(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := c.Load()
	if err == nil {
		t.Fatal("expected error for missing ledger")
	}

	var dsErr *ledger.DatasetError
	if !errors.As(err, &dsErr) {
		t.Errorf("error type = %T, want *ledger.DatasetError", err)
	}
}

// Guards against mtime-granularity platforms: two writes in the same
// instant must still be told apart by size.
func TestLoadDetectsSizeChangeSameModTime(t *testing.T) {
	t.Parallel()

	path := writeLedger(t, "u1,u1@example.com,Kopi,grocery,3.5,2024-06-01,106.8,-6.17,1\n")
	c := NewDatasetCache(path)

	if _, err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content = append(content, []byte("u2,u2@example.com,Roti,grocery,2.5,2024-06-02,106.9,-6.2,1\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	// Pin the original mtime so only the size differs.
	if err := os.Chtimes(path, time.Now(), info.ModTime()); err != nil {
		t.Fatal(err)
	}

	ds, err := c.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(ds.Rows))
	}
}
