// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package extract

import (
	"fmt"
	"time"

	"github.com/hematlabs/hemat/internal/ledger"
)

// MalformedReceiptError reports an extraction-service response that could
// not be decoded or that violates the receipt shape. Callers may retry
// the extraction when they see this error.
type MalformedReceiptError struct {
	Reason string
}

func (e *MalformedReceiptError) Error() string {
	return fmt.Sprintf("malformed receipt: %s", e.Reason)
}

// Receipt is the structured result of extracting one receipt. ProductNames,
// ProductTypes and Prices are parallel lists, one entry per line item.
type Receipt struct {
	ProductNames    []string  `json:"product_name"`
	ProductTypes    []string  `json:"product_type"`
	Prices          []float64 `json:"purchase_price"`
	PurchaseDate    string    `json:"purchase_date"`
	PurchaseAddress string    `json:"purchase_address"`
	Long            float64   `json:"long"`
	Lat             float64   `json:"lat"`
}

// Validate checks the receipt shape: at least one line item, parallel
// lists of equal length, and a parseable purchase date. Returns
// *MalformedReceiptError on any violation.
func (r *Receipt) Validate() error {
	if len(r.ProductNames) == 0 {
		return &MalformedReceiptError{Reason: "no line items"}
	}
	if len(r.Prices) != len(r.ProductNames) {
		return &MalformedReceiptError{
			Reason: fmt.Sprintf("%d product names but %d prices", len(r.ProductNames), len(r.Prices)),
		}
	}
	if len(r.ProductTypes) != 0 && len(r.ProductTypes) != len(r.ProductNames) {
		return &MalformedReceiptError{
			Reason: fmt.Sprintf("%d product names but %d product types", len(r.ProductNames), len(r.ProductTypes)),
		}
	}
	if _, err := time.Parse(ledger.DateFormat, r.PurchaseDate); err != nil {
		return &MalformedReceiptError{
			Reason: fmt.Sprintf("unparseable purchase date %q", r.PurchaseDate),
		}
	}
	return nil
}

// Records converts the receipt into ledger rows for the given buyer, one
// row per line item with quantity 1. The receipt must already be valid.
func (r *Receipt) Records(uid, email string) []ledger.Record {
	date, _ := time.Parse(ledger.DateFormat, r.PurchaseDate)
	out := make([]ledger.Record, len(r.ProductNames))
	for i, name := range r.ProductNames {
		productType := ""
		if i < len(r.ProductTypes) {
			productType = r.ProductTypes[i]
		}
		out[i] = ledger.Record{
			UID:           uid,
			Email:         email,
			ProductName:   name,
			ProductType:   productType,
			PurchasePrice: r.Prices[i],
			PurchaseDate:  date,
			Long:          r.Long,
			Lat:           r.Lat,
			Quantity:      1,
		}
	}
	return out
}
