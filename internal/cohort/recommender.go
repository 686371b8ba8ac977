// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package cohort

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hematlabs/hemat/internal/ledger"
	"github.com/hematlabs/hemat/internal/rfm"
)

// DefaultNumRecommendations is the fixed recommendation count.
const DefaultNumRecommendations = 8

// DefaultTargetUID pins recommendation generation to a fixed reference
// customer. The production deployment has always run with this value, so
// the comparison pool effectively ignores the calling user; set TargetUID
// to "" in Config to generate against the caller instead.
const DefaultTargetUID = "5qnoytiyjqih5rv99mnwctq6n27t"

// Config holds recommender tunables.
type Config struct {
	// NumRecommendations is the maximum number of proposed products.
	NumRecommendations int

	// TargetUID, when non-empty, overrides the calling uid as the customer
	// the similarity ranking is generated for.
	TargetUID string
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		NumRecommendations: DefaultNumRecommendations,
		TargetUID:          DefaultTargetUID,
	}
}

// Recommender proposes unpurchased products from behaviorally similar
// users. It is stateless and safe for concurrent use.
type Recommender struct {
	config Config
	logger zerolog.Logger
}

// NewRecommender creates a Recommender.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(config Config, logger zerolog.Logger) *Recommender {
	if config.NumRecommendations <= 0 {
		config.NumRecommendations = DefaultNumRecommendations
	}
	return &Recommender{
		config: config,
		logger: logger.With().Str("component", "cohort").Logger(),
	}
}

// userProfile is one cohort user's concatenated purchase history.
type userProfile struct {
	uid   string
	names []string
	types []string
}

// Recommend returns up to NumRecommendations product names the target user
// has not purchased, drawn from the users most similar to them.
//
// profiles select the cohort (currently the whole user population — the
// segment restriction resolves to a no-op) and uid must exist in the
// ledger. Fails with *ledger.UserNotFoundError when uid or the similarity
// target has no rows in the cohort.
func (r *Recommender) Recommend(ds *ledger.Dataset, profiles []rfm.Profile, uid string) ([]string, error) {
	if !ds.HasUser(uid) {
		return nil, &ledger.UserNotFoundError{UID: uid}
	}

	cohortRows := selectCohort(ds, profiles)
	users := buildUserProfiles(cohortRows)

	target := r.config.TargetUID
	if target == "" {
		target = uid
	}

	targetIdx := -1
	for i, u := range users {
		if u.uid == target {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return nil, &ledger.UserNotFoundError{UID: target}
	}

	docs := make([]string, len(users))
	for i, u := range users {
		docs[i] = strings.Join(u.types, ", ")
	}

	matrix := cosineSimilarityMatrix(tfidfVectorize(docs))
	similar := rankBySimilarity(matrix[targetIdx], targetIdx)
	if len(similar) > r.config.NumRecommendations {
		similar = similar[:r.config.NumRecommendations]
	}

	owned := make(map[string]struct{}, len(users[targetIdx].names))
	for _, name := range users[targetIdx].names {
		owned[name] = struct{}{}
	}

	// Insertion-ordered accumulation keeps the truncation reproducible.
	seen := make(map[string]struct{})
	var recommendations []string
	for _, idx := range similar {
		for _, name := range users[idx].names {
			if _, own := owned[name]; own {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			recommendations = append(recommendations, name)
		}
	}

	if len(recommendations) > r.config.NumRecommendations {
		recommendations = recommendations[:r.config.NumRecommendations]
	}

	r.logger.Debug().
		Str("uid", uid).
		Str("target", target).
		Int("cohort_users", len(users)).
		Int("recommendations", len(recommendations)).
		Msg("generated cohort recommendations")

	return recommendations, nil
}

// selectCohort restricts the ledger to the users named by the profiles.
// With the full profile set this covers the entire user population.
func selectCohort(ds *ledger.Dataset, profiles []rfm.Profile) []ledger.Record {
	member := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		member[p.UID] = struct{}{}
	}

	rows := make([]ledger.Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		if _, ok := member[row.UID]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// buildUserProfiles groups cohort rows per uid, preserving order of first
// appearance and each user's purchase order.
func buildUserProfiles(rows []ledger.Record) []userProfile {
	index := make(map[string]int)
	var users []userProfile
	for _, row := range rows {
		i, ok := index[row.UID]
		if !ok {
			i = len(users)
			index[row.UID] = i
			users = append(users, userProfile{uid: row.UID})
		}
		users[i].names = append(users[i].names, row.ProductName)
		users[i].types = append(users[i].types, row.ProductType)
	}
	return users
}

// rankBySimilarity orders all indices except self by similarity descending.
// Ties break by ascending index so the ordering is stable.
func rankBySimilarity(similarities []float64, self int) []int {
	order := make([]int, 0, len(similarities)-1)
	for i := range similarities {
		if i != self {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return similarities[order[a]] > similarities[order[b]]
	})
	return order
}
