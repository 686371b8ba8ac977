// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package georank

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/ledger"
)

// RequiredProducts is the exact recommended-product count the ranker
// accepts. Upstream recommendation always aims for this many; a shorter
// list is a hard precondition failure, never silently padded.
const RequiredProducts = 8

// recentLimit caps the "recently purchased" sample taken from the head of
// the filtered table.
const recentLimit = 5

// RankedRow is one output row: a purchase augmented with the computed
// distance and stripped of identity-revealing columns (uid, email,
// quantity, age).
type RankedRow struct {
	ProductName   string  `json:"product_name"`
	ProductType   string  `json:"product_type"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"`
	Long          float64 `json:"long"`
	Lat           float64 `json:"lat"`

	// Distance is the great-circle distance in kilometers from the caller
	// to the row's store coordinates.
	Distance float64 `json:"distance"`
}

// Ranker produces the final distance/recency/price ordering. It is
// stateless and safe for concurrent use.
type Ranker struct {
	logger zerolog.Logger
}

// NewRanker creates a Ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(logger zerolog.Logger) *Ranker {
	return &Ranker{logger: logger.With().Str("component", "georank").Logger()}
}

// candidate pairs a ledger row with its computed distance, keeping the
// parsed date for sorting.
type candidate struct {
	row      ledger.Record
	distance float64
}

// Rank filters the ledger to the recommended products, computes the
// caller's distance to every row, unions in the recently purchased sample,
// and sorts by ascending distance, descending purchase date, ascending
// price (stable three-key sort).
//
// Preconditions: products must have exactly RequiredProducts entries
// (*PreconditionError), lat/lon must be valid Earth coordinates
// (*GeoRangeError), and uid must exist in the ledger
// (*ledger.UserNotFoundError).
func (r *Ranker) Rank(ds *ledger.Dataset, uid string, products []string, lon, lat float64) ([]RankedRow, error) {
	if len(products) != RequiredProducts {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("product list has %d items, need exactly %d", len(products), RequiredProducts),
		}
	}
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	if !ds.HasUser(uid) {
		return nil, &ledger.UserNotFoundError{UID: uid}
	}

	recommended := make(map[string]struct{}, len(products))
	for _, p := range products {
		recommended[p] = struct{}{}
	}

	// Restrict to recommended products and compute distances in file order.
	var filtered []candidate
	userRows := 0
	for _, row := range ds.Rows {
		if _, ok := recommended[row.ProductName]; !ok {
			continue
		}
		if row.UID == uid {
			userRows++
		}
		filtered = append(filtered, candidate{
			row:      row,
			distance: haversineDistance(row.Lat, row.Long, lat, lon),
		})
	}

	// The recent sample is taken from the head of the filtered table, not
	// from the target user's own rows.
	sample := recentLimit
	if userRows >= 1 && userRows <= recentLimit {
		sample = userRows
	}
	recent := make(map[string]struct{}, sample)
	for i := 0; i < sample && i < len(filtered); i++ {
		recent[filtered[i].row.ProductName] = struct{}{}
	}

	var candidates []candidate
	for _, c := range filtered {
		_, isRecent := recent[c.row.ProductName]
		_, isRecommended := recommended[c.row.ProductName]
		if isRecent || isRecommended {
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if !a.row.PurchaseDate.Equal(b.row.PurchaseDate) {
			return a.row.PurchaseDate.After(b.row.PurchaseDate)
		}
		return a.row.PurchasePrice < b.row.PurchasePrice
	})

	out := make([]RankedRow, len(candidates))
	for i, c := range candidates {
		out[i] = stripIdentity(c)
	}

	r.logger.Debug().
		Str("uid", uid).
		Int("filtered_rows", len(filtered)).
		Int("ranked_rows", len(out)).
		Msg("ranked candidate products")

	return out, nil
}

// stripIdentity converts a candidate to the outward row shape, dropping
// uid, email, quantity, and any extra columns such as age.
func stripIdentity(c candidate) RankedRow {
	return RankedRow{
		ProductName:   c.row.ProductName,
		ProductType:   c.row.ProductType,
		PurchasePrice: c.row.PurchasePrice,
		PurchaseDate:  c.row.PurchaseDate.Format(ledger.DateFormat),
		Long:          c.row.Long,
		Lat:           c.row.Lat,
		Distance:      c.distance,
	}
}

// parseDate is a convenience for tests and callers constructing rows.
func parseDate(s string) time.Time {
	t, err := time.Parse(ledger.DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
