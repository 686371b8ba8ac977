// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/extract"
)

// receiptKeyPrefix namespaces archived receipts. Keys are
// "receipt:<uid>:<id>" so a per-user listing is a prefix scan.
const receiptKeyPrefix = "receipt:"

// ArchivedReceipt is one stored extraction result.
type ArchivedReceipt struct {
	ID          string          `json:"id"`
	UID         string          `json:"uid"`
	ArchivedAt  time.Time       `json:"archived_at"`
	OCRText     string          `json:"ocr_text"`
	TotalAmount string          `json:"total_amount,omitempty"`
	Receipt     extract.Receipt `json:"receipt"`
}

// ReceiptArchive stores extracted receipts in BadgerDB.
//
// Thread safety: safe for concurrent use; BadgerDB transactions provide
// the isolation.
type ReceiptArchive struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewReceiptArchive wraps an already-open BadgerDB handle.
func NewReceiptArchive(db *badger.DB, logger zerolog.Logger) *ReceiptArchive {
	return &ReceiptArchive{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Open opens (or creates) a BadgerDB at path and returns the archive.
// The returned archive owns the handle; call Close when done.
func Open(path string, logger zerolog.Logger) (*ReceiptArchive, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open receipt archive at %s: %w", path, err)
	}
	return NewReceiptArchive(db, logger), nil
}

// Archive stores one receipt. A missing ID gets a generated UUID and a
// zero ArchivedAt gets the current time; both are written back into rec.
func (a *ReceiptArchive) Archive(ctx context.Context, rec *ArchivedReceipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.UID == "" {
		return errors.New("archive receipt: empty uid")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ArchivedAt.IsZero() {
		rec.ArchivedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	key := []byte(receiptKeyPrefix + rec.UID + ":" + rec.ID)
	err = a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("store receipt %s: %w", rec.ID, err)
	}

	a.logger.Debug().Str("uid", rec.UID).Str("receipt_id", rec.ID).Msg("archived receipt")
	return nil
}

// ListByUser returns all archived receipts for uid in key order. A user
// with no receipts gets an empty slice, not an error.
func (a *ReceiptArchive) ListByUser(ctx context.Context, uid string) ([]ArchivedReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(receiptKeyPrefix + uid + ":")
	out := []ArchivedReceipt{}

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec ArchivedReceipt
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode receipt %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunGC runs one round of BadgerDB value-log garbage collection.
// Returns nil when there was nothing to rewrite or the DB is in-memory.
func (a *ReceiptArchive) RunGC() error {
	err := a.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close closes the underlying BadgerDB handle.
func (a *ReceiptArchive) Close() error {
	return a.db.Close()
}
