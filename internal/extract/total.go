// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package extract

import (
	"regexp"
	"strings"
)

// totalPattern matches a standalone "total" label so that "subtotal" does
// not satisfy it. Amounts use two decimal places with an optional currency
// sign, after comma-to-dot normalization.
var (
	totalPattern    = regexp.MustCompile(`(?:^|[^a-z])total[:\s]*\$?(\d+\.\d{2})`)
	subtotalPattern = regexp.MustCompile(`subtotal[:\s]*\$?(\d+\.\d{2})`)
)

// TotalAmount scans OCR text for the receipt total, preferring a "total"
// line over a "subtotal" line. The text is lowercased and commas are
// normalized to dots before matching. Returns the amount as printed and
// whether one was found.
func TotalAmount(ocrText string) (string, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(ocrText, ",", "."))

	if m := totalPattern.FindStringSubmatch(normalized); m != nil {
		return m[1], true
	}
	if m := subtotalPattern.FindStringSubmatch(normalized); m != nil {
		return m[1], true
	}
	return "", false
}
