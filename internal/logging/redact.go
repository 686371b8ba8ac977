// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package logging

import "strings"

// MaskEmail redacts the local part of an email address for log output,
// keeping the first character and the domain: "alice@example.com"
// becomes "a***@example.com". Strings without an @ are fully masked.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
