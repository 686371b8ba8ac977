// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/cache"
	"github.com/hematlabs/hemat/internal/cohort"
	"github.com/hematlabs/hemat/internal/extract"
	"github.com/hematlabs/hemat/internal/georank"
	"github.com/hematlabs/hemat/internal/ledger"
	"github.com/hematlabs/hemat/internal/metrics"
	"github.com/hematlabs/hemat/internal/rfm"
	"github.com/hematlabs/hemat/internal/store"
)

// DefaultExtractRetries is how many times a malformed extraction
// response is retried before giving up.
const DefaultExtractRetries = 3

// ErrInvalidEmail rejects a caller email that fails the format check
// before anything is appended to the ledger.
var ErrInvalidEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Config holds the orchestrator settings.
type Config struct {
	// DatasetPath is the CSV purchase ledger all stages operate on.
	DatasetPath string

	// ExtractRetries caps retries after malformed extraction responses.
	// Defaults to DefaultExtractRetries when zero or negative.
	ExtractRetries int

	RFM       rfm.Config
	Recommend cohort.Config
}

// Result is the outcome of one full receipt pipeline run.
type Result struct {
	Receipt         *extract.Receipt   `json:"receipt"`
	TotalAmount     string             `json:"total_amount,omitempty"`
	Recommendations []string           `json:"recommendations"`
	Ranked          []georank.RankedRow `json:"ranked"`
}

// Orchestrator wires the extraction client, receipt archive, and the
// three analysis stages around a single CSV ledger.
//
// Thread safety: safe for concurrent use; ledger writes are serialized
// by the ledger package's per-path lock.
type Orchestrator struct {
	config      Config
	extractor   extract.Client
	archive     *store.ReceiptArchive
	datasets    *cache.DatasetCache
	segmenter   *rfm.Segmenter
	recommender *cohort.Recommender
	ranker      *georank.Ranker
	logger      zerolog.Logger
}

// New creates an Orchestrator. archive may be nil, in which case
// receipts are not archived.
func New(config Config, extractor extract.Client, archive *store.ReceiptArchive, logger zerolog.Logger) *Orchestrator {
	if config.ExtractRetries <= 0 {
		config.ExtractRetries = DefaultExtractRetries
	}
	logger = logger.With().Str("component", "pipeline").Logger()
	return &Orchestrator{
		config:      config,
		extractor:   extractor,
		archive:     archive,
		datasets:    cache.NewDatasetCache(config.DatasetPath),
		segmenter:   rfm.NewSegmenter(config.RFM, logger),
		recommender: cohort.NewRecommender(config.Recommend, logger),
		ranker:      georank.NewRanker(logger),
		logger:      logger,
	}
}

// ProcessReceipt runs the full flow for one receipt: validate the
// caller email, extract the structured receipt (retrying malformed
// responses), archive it, append its line items to the ledger, and
// return recommendations plus the geo-ranked table for the caller's
// location.
func (o *Orchestrator) ProcessReceipt(ctx context.Context, uid, email, ocrText string, lon, lat float64) (result *Result, err error) {
	start := time.Now()
	defer func() { metrics.RecordPipelineRun(time.Since(start), err) }()

	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	receipt, err := o.extractWithRetry(ctx, ocrText)
	if err != nil {
		return nil, err
	}

	totalAmount, _ := extract.TotalAmount(ocrText)
	o.archiveReceipt(ctx, uid, ocrText, totalAmount, receipt)

	ds, err := ledger.Append(o.config.DatasetPath, receipt.Records(uid, email)...)
	if err != nil {
		return nil, err
	}
	metrics.LedgerRowsAppended.Add(float64(len(receipt.ProductNames)))
	metrics.LedgerDatasetRows.Set(float64(len(ds.Rows)))

	recommendations, ranked, err := o.recommendAndRank(ds, uid, lon, lat)
	if err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("uid", uid).
		Int("line_items", len(receipt.ProductNames)).
		Int("ranked_rows", len(ranked)).
		Msg("receipt pipeline complete")

	return &Result{
		Receipt:         receipt,
		TotalAmount:     totalAmount,
		Recommendations: recommendations,
		Ranked:          ranked,
	}, nil
}

// Recommend loads the ledger, segments every user, and returns the
// recommended product names for uid.
func (o *Orchestrator) Recommend(ctx context.Context, uid string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := o.loadDataset()
	if err != nil {
		return nil, err
	}
	return o.recommend(ds, uid)
}

// Rank loads the ledger and ranks the supplied product list for uid at
// the given caller location.
func (o *Orchestrator) Rank(ctx context.Context, uid string, products []string, lon, lat float64) ([]georank.RankedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := o.loadDataset()
	if err != nil {
		return nil, err
	}
	return o.ranker.Rank(ds, uid, products, lon, lat)
}

// extractWithRetry calls the extraction service, retrying only
// malformed responses up to the configured retry budget.
func (o *Orchestrator) extractWithRetry(ctx context.Context, ocrText string) (*extract.Receipt, error) {
	var lastErr error
	for attempt := 0; attempt <= o.config.ExtractRetries; attempt++ {
		receipt, err := o.extractor.Extract(ctx, ocrText)
		if err == nil {
			return receipt, nil
		}

		var malformed *extract.MalformedReceiptError
		if !errors.As(err, &malformed) {
			metrics.ExtractionFailures.WithLabelValues("transport").Inc()
			return nil, err
		}

		lastErr = err
		if attempt < o.config.ExtractRetries {
			metrics.ExtractionRetries.Inc()
			o.logger.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("malformed extraction response, retrying")
		}
	}
	metrics.ExtractionFailures.WithLabelValues("malformed").Inc()
	return nil, fmt.Errorf("extraction failed after %d retries: %w", o.config.ExtractRetries, lastErr)
}

// archiveReceipt stores the raw extraction result. Archive failures are
// logged and do not fail the pipeline run.
func (o *Orchestrator) archiveReceipt(ctx context.Context, uid, ocrText, totalAmount string, receipt *extract.Receipt) {
	if o.archive == nil {
		return
	}
	rec := &store.ArchivedReceipt{
		UID:         uid,
		OCRText:     ocrText,
		TotalAmount: totalAmount,
		Receipt:     *receipt,
	}
	if err := o.archive.Archive(ctx, rec); err != nil {
		o.logger.Warn().Err(err).Str("uid", uid).Msg("failed to archive receipt")
		return
	}
	metrics.ReceiptsArchived.Inc()
}

func (o *Orchestrator) loadDataset() (*ledger.Dataset, error) {
	start := time.Now()
	ds, err := o.datasets.Load()
	if err != nil {
		return nil, err
	}
	metrics.RecordLedgerLoad(time.Since(start), len(ds.Rows))
	return ds, nil
}

func (o *Orchestrator) recommend(ds *ledger.Dataset, uid string) ([]string, error) {
	profiles, err := o.segmenter.Segment(ds)
	if err != nil {
		return nil, err
	}
	metrics.RecordSegmentation(segmentCounts(profiles))

	recommendations, err := o.recommender.Recommend(ds, profiles, uid)
	if err != nil {
		return nil, err
	}
	metrics.RecommendationsServed.Inc()
	return recommendations, nil
}

func (o *Orchestrator) recommendAndRank(ds *ledger.Dataset, uid string, lon, lat float64) ([]string, []georank.RankedRow, error) {
	recommendations, err := o.recommend(ds, uid)
	if err != nil {
		return nil, nil, err
	}
	ranked, err := o.ranker.Rank(ds, uid, recommendations, lon, lat)
	if err != nil {
		return nil, nil, err
	}
	return recommendations, ranked, nil
}

func segmentCounts(profiles []rfm.Profile) map[string]int {
	counts := make(map[string]int)
	for _, p := range profiles {
		counts[p.Segment]++
	}
	return counts
}
