// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/metrics"
)

// GarbageCollector is the archive surface the GC service drives.
// Satisfied by *store.ReceiptArchive.
type GarbageCollector interface {
	RunGC() error
}

// ArchiveGCService periodically reclaims badger value-log space for
// the receipt archive.
type ArchiveGCService struct {
	archive  GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewArchiveGCService creates the GC loop. interval values <= 0
// default to 10 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArchiveGCService(archive GarbageCollector, interval time.Duration, logger zerolog.Logger) *ArchiveGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ArchiveGCService{
		archive:  archive,
		interval: interval,
		logger:   logger.With().Str("component", "archive-gc").Logger(),
	}
}

// Serve implements suture.Service: run one GC round per tick until the
// context is canceled. GC errors are logged and counted, not fatal.
func (s *ArchiveGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.archive.RunGC()
			metrics.RecordArchiveGC(err)
			if err != nil {
				s.logger.Warn().Err(err).Msg("archive GC round failed")
				continue
			}
			s.logger.Debug().Msg("archive GC round complete")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *ArchiveGCService) String() string {
	return "archive-gc"
}
