// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package rfm

// Customer segment labels.
const (
	SegmentPremium  = "Premium Customer"
	SegmentRepeat   = "Repeat Customer"
	SegmentSpender  = "Top Spender"
	SegmentAtRisk   = "At Risk Customer"
	SegmentInactive = "Inactive Customer"
	SegmentOther    = "Other"
)

// segmentRule maps a set of exact RFM score strings to a segment label.
type segmentRule struct {
	label  string
	scores map[string]struct{}
}

func scoreSet(scores ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		set[s] = struct{}{}
	}
	return set
}

// segmentRules is evaluated in priority order; the first match wins. Scores
// matching no rule fall through to SegmentOther. The membership tables are
// fixed constants of the scoring scheme, not tunables.
var segmentRules = []segmentRule{
	{SegmentPremium, scoreSet("334", "443", "444", "344", "434", "433", "343", "333")},
	{SegmentRepeat, scoreSet("244", "234", "232", "332", "143", "233", "243")},
	{SegmentSpender, scoreSet("424", "414", "144", "314", "324", "124", "224", "423", "413", "133", "323", "313", "134")},
	{SegmentAtRisk, scoreSet("422", "223", "212", "122", "222", "132", "322", "312", "412", "123", "214")},
	{SegmentInactive, scoreSet("411", "111", "113", "114", "112", "211", "311")},
}

// Classify maps a 3-digit RFM score string to its segment label.
func Classify(score string) string {
	for _, rule := range segmentRules {
		if _, ok := rule.scores[score]; ok {
			return rule.label
		}
	}
	return SegmentOther
}
