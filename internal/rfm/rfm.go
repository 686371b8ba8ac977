// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package rfm

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/ledger"
)

// Profile is the derived RFM scoring for one user. Profiles are ephemeral:
// recomputed on every invocation, never persisted.
type Profile struct {
	// UID identifies the user.
	UID string `json:"uid"`

	// Recency is whole days between the user's latest purchase and the
	// ledger-wide maximum purchase date.
	Recency int `json:"recency"`

	// Frequency is the user's purchase row count.
	Frequency int `json:"frequency"`

	// MonetaryValue is the sum of the user's purchase prices.
	MonetaryValue float64 `json:"monetary_value"`

	// RQuartile, FQuartile, MQuartile are quartile labels 1-4
	// (1 = least favorable).
	RQuartile int `json:"r_quartile"`
	FQuartile int `json:"f_quartile"`
	MQuartile int `json:"m_quartile"`

	// Score is the 3-character concatenation of the quartile digits in
	// recency, frequency, monetary order.
	Score string `json:"rfm_score"`

	// Segment is the categorical customer segment label.
	Segment string `json:"customer_segment"`
}

// MeasureConfig sets the binning behavior for one RFM measure.
type MeasureConfig struct {
	// Duplicates controls degenerate-edge handling.
	Duplicates DuplicatePolicy

	// Invert flips labels so that a LOW raw value earns the HIGH label.
	// Used for recency, where fewer days since purchase is more favorable.
	Invert bool
}

// Config holds the per-measure binning policies.
type Config struct {
	Recency   MeasureConfig
	Frequency MeasureConfig
	Monetary  MeasureConfig
}

// DefaultConfig returns the inherited production policies: recency raises
// on degenerate edges, frequency and monetary collapse them.
func DefaultConfig() Config {
	return Config{
		Recency:   MeasureConfig{Duplicates: DuplicateRaise, Invert: true},
		Frequency: MeasureConfig{Duplicates: DuplicateCollapse},
		Monetary:  MeasureConfig{Duplicates: DuplicateCollapse},
	}
}

// Segmenter computes RFM profiles for every user in a ledger.
type Segmenter struct {
	config Config
	logger zerolog.Logger
}

// NewSegmenter creates a Segmenter with the given policies.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSegmenter(config Config, logger zerolog.Logger) *Segmenter {
	return &Segmenter{
		config: config,
		logger: logger.With().Str("component", "rfm").Logger(),
	}
}

// Segment computes one Profile per user, ordered by first appearance in the
// ledger. Running it twice on an unchanged dataset yields identical output.
//
// Fails with *BinningError when a measure under DuplicateRaise cannot form
// four quantile groups.
func (s *Segmenter) Segment(ds *ledger.Dataset) ([]Profile, error) {
	now := ds.MaxPurchaseDate()
	users := ds.Users()

	profiles := make([]Profile, len(users))
	recency := make([]float64, len(users))
	frequency := make([]float64, len(users))
	monetary := make([]float64, len(users))

	for i, uid := range users {
		rows := ds.RowsForUser(uid)

		latest := rows[0].PurchaseDate
		var total float64
		for _, r := range rows {
			if r.PurchaseDate.After(latest) {
				latest = r.PurchaseDate
			}
			total += r.PurchasePrice
		}

		profiles[i] = Profile{
			UID:           uid,
			Recency:       int(now.Sub(latest).Hours() / 24),
			Frequency:     len(rows),
			MonetaryValue: total,
		}
		recency[i] = float64(profiles[i].Recency)
		frequency[i] = float64(profiles[i].Frequency)
		monetary[i] = total
	}

	rq, err := binMeasure("recency", recency, s.config.Recency)
	if err != nil {
		return nil, err
	}
	fq, err := binMeasure("frequency", frequency, s.config.Frequency)
	if err != nil {
		return nil, err
	}
	mq, err := binMeasure("monetary", monetary, s.config.Monetary)
	if err != nil {
		return nil, err
	}

	for i := range profiles {
		profiles[i].RQuartile = rq[i]
		profiles[i].FQuartile = fq[i]
		profiles[i].MQuartile = mq[i]
		profiles[i].Score = strconv.Itoa(rq[i]) + strconv.Itoa(fq[i]) + strconv.Itoa(mq[i])
		profiles[i].Segment = Classify(profiles[i].Score)
	}

	s.logger.Debug().
		Int("users", len(profiles)).
		Time("now", now).
		Msg("computed rfm profiles")

	return profiles, nil
}

// binMeasure bins one measure's values, applying label inversion if
// configured.
func binMeasure(measure string, values []float64, cfg MeasureConfig) ([]int, error) {
	labels, k, err := quartileBin(measure, values, cfg.Duplicates)
	if err != nil {
		return nil, err
	}
	if cfg.Invert {
		for i := range labels {
			labels[i] = k + 1 - labels[i]
		}
	}
	return labels, nil
}
